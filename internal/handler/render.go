// FILE: internal/handler/render.go
package handler

import (
	"fmt"
	"strconv"
	"strings"

	"adalchemy-bot/internal/entity"
	"adalchemy-bot/pkg/view"

	"github.com/bwmarrin/discordgo"
)

const embedColor = 0x5865F2

// render turns a view session into the embed and component rows for its kind.
// The pager footer always reflects the live cursor so updates stay in step
// with the session store.
func (h *DiscordHandler) render(session *view.Session) (*discordgo.MessageEmbed, []discordgo.MessageComponent) {
	switch session.Kind {
	case view.KindBusiness:
		return h.renderBusiness(session)
	case view.KindPaths:
		return h.renderPaths(session)
	case view.KindPersonas:
		return h.renderPersonas(session)
	case view.KindKeywords:
		return h.renderKeywords(session)
	case view.KindAdText:
		return h.renderAdText(session)
	case view.KindAdReview:
		return h.renderAdReview(session)
	case view.KindHelp:
		return h.renderHelp(session)
	default:
		return &discordgo.MessageEmbed{Description: "Nothing to show."}, nil
	}
}

func pagerButtons(kind, sessionID string, pager *view.Pager) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.Button{
			Label:    "Previous",
			Style:    discordgo.SecondaryButton,
			CustomID: customID(kind, sessionID, actionPrev),
			Disabled: !pager.HasPrevious(),
		},
		discordgo.Button{
			Label:    "Next",
			Style:    discordgo.SecondaryButton,
			CustomID: customID(kind, sessionID, actionNext),
			Disabled: !pager.HasNext(),
		},
	}
}

func (h *DiscordHandler) renderBusiness(session *view.Session) (*discordgo.MessageEmbed, []discordgo.MessageComponent) {
	body := ""
	if page := session.Pager.Page(); page < len(session.Pages) {
		body = session.Pages[page]
	}
	embed := &discordgo.MessageEmbed{
		Title:       "Your Business",
		Description: body,
		Color:       embedColor,
		Footer:      &discordgo.MessageEmbedFooter{Text: session.Pager.Footer() + " | Last updated: " + session.LastUpdate},
	}
	buttons := pagerButtons(kindBusiness, session.ID, session.Pager)
	buttons = append(buttons, discordgo.Button{
		Label:    "Edit",
		Style:    discordgo.PrimaryButton,
		CustomID: customID(kindBusiness, session.ID, actionEdit),
	})
	return embed, []discordgo.MessageComponent{discordgo.ActionsRow{Components: buttons}}
}

func (h *DiscordHandler) renderPaths(session *view.Session) (*discordgo.MessageEmbed, []discordgo.MessageComponent) {
	start, _ := session.Pager.Bounds()
	var body strings.Builder
	for i, path := range view.Window(session.Paths, session.Pager) {
		fmt.Fprintf(&body, "%d. %s\n", start+i+1, path)
	}
	if body.Len() == 0 {
		body.WriteString("No research paths recorded yet.")
	}
	embed := &discordgo.MessageEmbed{
		Title:       "Research Paths",
		Description: body.String(),
		Color:       embedColor,
		Footer:      &discordgo.MessageEmbedFooter{Text: session.Pager.Footer()},
	}
	buttons := pagerButtons(kindPaths, session.ID, session.Pager)
	buttons = append(buttons, discordgo.Button{
		Label:    "Add Path",
		Style:    discordgo.PrimaryButton,
		CustomID: customID(kindPaths, session.ID, actionAdd),
	})
	return embed, []discordgo.MessageComponent{discordgo.ActionsRow{Components: buttons}}
}

func personaBody(p entity.Persona) string {
	var body strings.Builder
	field := func(label, value string) {
		if value != "" {
			fmt.Fprintf(&body, "**%s:** %s\n", label, value)
		}
	}
	field("Demographics", p.Demographics)
	field("Motivation", p.Motivation)
	field("Pain Points", p.PainPoints)
	field("Goals", p.Goals)
	field("Preferences", p.Preferences)
	if body.Len() == 0 {
		body.WriteString("No details recorded.")
	}
	return body.String()
}

func (h *DiscordHandler) renderPersonas(session *view.Session) (*discordgo.MessageEmbed, []discordgo.MessageComponent) {
	embed := &discordgo.MessageEmbed{
		Title:  "User Personas",
		Color:  embedColor,
		Footer: &discordgo.MessageEmbedFooter{Text: session.Pager.Footer()},
	}
	hasPersonas := len(session.Personas) > 0
	if page := session.Pager.Page(); page < len(session.Personas) {
		persona := session.Personas[page]
		embed.Title = "Persona: " + persona.Title
		embed.Description = personaBody(persona)
	} else {
		embed.Description = "No user personas yet. Add one to guide your ad copy."
	}

	buttons := pagerButtons(kindPersonas, session.ID, session.Pager)
	buttons = append(buttons, discordgo.Button{
		Label:    "Add",
		Style:    discordgo.PrimaryButton,
		CustomID: customID(kindPersonas, session.ID, actionAdd),
	})
	if hasPersonas {
		buttons = append(buttons,
			discordgo.Button{
				Label:    "Edit",
				Style:    discordgo.SecondaryButton,
				CustomID: customID(kindPersonas, session.ID, actionEdit),
			},
			discordgo.Button{
				Label:    "Delete",
				Style:    discordgo.DangerButton,
				CustomID: customID(kindPersonas, session.ID, actionDelete),
			},
		)
	}
	return embed, []discordgo.MessageComponent{discordgo.ActionsRow{Components: buttons}}
}

func (h *DiscordHandler) renderKeywords(session *view.Session) (*discordgo.MessageEmbed, []discordgo.MessageComponent) {
	pool := session.ActiveKeywords()
	window := view.Window(pool, session.Pager)

	var body strings.Builder
	for i, kw := range window {
		marker := "▫️"
		if session.Selection.Has(kw.Text) {
			marker = "✅"
		}
		fmt.Fprintf(&body, "%s **%d.** %s (searches: %s, competition: %s)\n", marker, i+1, kw.Text, kw.AvgMonthlySearches, kw.Competition)
	}
	if body.Len() == 0 {
		body.WriteString("No keywords in this list.")
	}

	title := "New Keywords"
	switchLabel, switchArg := "Show Selected", view.CategorySelected
	if session.Category == view.CategorySelected {
		title = "Selected Keywords"
		switchLabel, switchArg = "Show New", view.CategoryNew
	}

	embed := &discordgo.MessageEmbed{
		Title:       title,
		Description: body.String(),
		Color:       embedColor,
		Footer:      &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("%s | %d selected", session.Pager.Footer(), session.Selection.Len())},
	}

	var toggles []discordgo.MessageComponent
	for i := range window {
		toggles = append(toggles, discordgo.Button{
			Label:    strconv.Itoa(i + 1),
			Style:    discordgo.SecondaryButton,
			CustomID: customID(kindKeywords, session.ID, actionToggle, strconv.Itoa(i)),
		})
	}

	controls := pagerButtons(kindKeywords, session.ID, session.Pager)
	controls = append(controls,
		discordgo.Button{
			Label:    switchLabel,
			Style:    discordgo.SecondaryButton,
			CustomID: customID(kindKeywords, session.ID, actionCategory, switchArg),
		},
		discordgo.Button{
			Label:    "Submit",
			Style:    discordgo.SuccessButton,
			CustomID: customID(kindKeywords, session.ID, actionSubmit),
		},
	)

	components := []discordgo.MessageComponent{}
	if len(toggles) > 0 {
		components = append(components, discordgo.ActionsRow{Components: toggles})
	}
	components = append(components, discordgo.ActionsRow{Components: controls})
	return embed, components
}

// variationBody renders one ad variation with the finalized override applied
// to the first headline and description.
func variationBody(session *view.Session, index int) string {
	variation := session.AdVariations[index]
	headline, description, finalized := session.Overlay.Resolve(index, variation)

	var body strings.Builder
	if finalized {
		body.WriteString("✏️ *finalized*\n\n")
	}
	body.WriteString("**Headlines**\n")
	for i, head := range variation.Headlines {
		if i == 0 {
			head = headline
		}
		fmt.Fprintf(&body, "- %s\n", head)
	}
	body.WriteString("\n**Descriptions**\n")
	for i, desc := range variation.Descriptions {
		if i == 0 {
			desc = description
		}
		fmt.Fprintf(&body, "- %s\n", desc)
	}
	if len(variation.Keywords) > 0 {
		body.WriteString("\n**Keywords:** " + strings.Join(variation.Keywords, ", "))
	}
	return body.String()
}

func (h *DiscordHandler) renderAdText(session *view.Session) (*discordgo.MessageEmbed, []discordgo.MessageComponent) {
	embed := &discordgo.MessageEmbed{
		Title:  "Ad Variations",
		Color:  embedColor,
		Footer: &discordgo.MessageEmbedFooter{Text: session.Pager.Footer()},
	}
	page := session.Pager.Page()

	// Both categories page over the same variation index space; the
	// finalized view shows only the committed override at the cursor.
	switchLabel, switchArg := "Show Finalized", view.CategoryFinalized
	if session.Category == view.CategoryFinalized {
		switchLabel, switchArg = "Show New", view.CategoryGenerated
		embed.Title = "Finalized Ad Text"
		if override, ok := session.Overlay.At(page); ok {
			embed.Description = fmt.Sprintf("**Headline**\n- %s\n\n**Description**\n- %s", override.Headline, override.Description)
		} else {
			embed.Description = "No finalized ad text for this variation yet."
		}
	} else if page < len(session.AdVariations) {
		embed.Description = variationBody(session, page)
	} else {
		embed.Description = "No ad variations to show."
	}

	buttons := pagerButtons(kindAdText, session.ID, session.Pager)
	buttons = append(buttons,
		discordgo.Button{
			Label:    switchLabel,
			Style:    discordgo.SecondaryButton,
			CustomID: customID(kindAdText, session.ID, actionCategory, switchArg),
		},
		discordgo.Button{
			Label:    "Finalize",
			Style:    discordgo.PrimaryButton,
			CustomID: customID(kindAdText, session.ID, actionFinalize),
		},
		discordgo.Button{
			Label:    "Delete",
			Style:    discordgo.DangerButton,
			CustomID: customID(kindAdText, session.ID, actionDelete),
		},
	)
	return embed, []discordgo.MessageComponent{discordgo.ActionsRow{Components: buttons}}
}

func (h *DiscordHandler) renderAdReview(session *view.Session) (*discordgo.MessageEmbed, []discordgo.MessageComponent) {
	embed := &discordgo.MessageEmbed{
		Title:  "Select Ads to Publish",
		Color:  embedColor,
		Footer: &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("%s | %d selected", session.Pager.Footer(), len(session.SelectedAds))},
	}
	page := session.Pager.Page()
	if page < len(session.AdVariations) {
		embed.Description = variationBody(session, page)
	} else {
		embed.Description = "No ad variations to show."
	}

	pickLabel := "Select"
	pickStyle := discordgo.SecondaryButton
	if session.SelectedAds[page] {
		pickLabel = "Deselect"
		pickStyle = discordgo.SuccessButton
	}

	buttons := pagerButtons(kindAdReview, session.ID, session.Pager)
	buttons = append(buttons,
		discordgo.Button{
			Label:    pickLabel,
			Style:    pickStyle,
			CustomID: customID(kindAdReview, session.ID, actionPick, strconv.Itoa(page)),
		},
		discordgo.Button{
			Label:    "Edit",
			Style:    discordgo.PrimaryButton,
			CustomID: customID(kindAdReview, session.ID, actionEdit),
		},
		discordgo.Button{
			Label:    "Create Ads",
			Style:    discordgo.PrimaryButton,
			CustomID: customID(kindAdReview, session.ID, actionCreate),
			Disabled: len(session.SelectedAds) == 0,
		},
	)
	return embed, []discordgo.MessageComponent{discordgo.ActionsRow{Components: buttons}}
}

func (h *DiscordHandler) renderHelp(session *view.Session) (*discordgo.MessageEmbed, []discordgo.MessageComponent) {
	body := ""
	if page := session.Pager.Page(); page < len(session.Pages) {
		body = session.Pages[page]
	}
	embed := &discordgo.MessageEmbed{
		Title:       "What I can do",
		Description: body,
		Color:       embedColor,
		Footer:      &discordgo.MessageEmbedFooter{Text: session.Pager.Footer()},
	}
	return embed, []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: pagerButtons(kindHelp, session.ID, session.Pager)},
	}
}
