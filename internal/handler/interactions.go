// FILE: internal/handler/interactions.go
package handler

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"adalchemy-bot/internal/entity"
	"adalchemy-bot/pkg/view"

	"github.com/bwmarrin/discordgo"
)

// View kinds as they appear in component custom IDs. The onboarding consent
// buttons carry the guild ID in the session slot since no view session exists
// yet.
const (
	kindOnboard  = "onboard"
	kindBusiness = string(view.KindBusiness)
	kindPaths    = string(view.KindPaths)
	kindPersonas = string(view.KindPersonas)
	kindKeywords = string(view.KindKeywords)
	kindAdText   = string(view.KindAdText)
	kindAdReview = string(view.KindAdReview)
	kindHelp     = string(view.KindHelp)
)

const (
	actionYes         = "yes"
	actionNo          = "no"
	actionPrev        = "prev"
	actionNext        = "next"
	actionToggle      = "toggle"
	actionCategory    = "cat"
	actionSubmit      = "submit"
	actionFinalize    = "finalize"
	actionDelete      = "delete"
	actionEdit        = "edit"
	actionAdd         = "add"
	actionPick        = "pick"
	actionCheckAuth   = "checkauth"
	actionCreate      = "create"
	actionExisting    = "existing"
	actionNewCampaign = "newcamp"
	actionUseCampaign = "usecamp"
	actionModal       = "modal"
)

func consentButtons(guildID string) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.Button{Label: "Yes", Style: discordgo.SuccessButton, CustomID: customID(kindOnboard, guildID, actionYes)},
			discordgo.Button{Label: "No", Style: discordgo.DangerButton, CustomID: customID(kindOnboard, guildID, actionNo)},
		}},
	}
}

func (h *DiscordHandler) handleComponent(s *discordgo.Session, event *discordgo.InteractionCreate) {
	route, ok := parseCustomID(event.MessageComponentData().CustomID)
	if !ok {
		return
	}
	ctx := context.Background()

	if route.Kind == kindOnboard {
		h.handleConsent(ctx, s, event, route)
		return
	}

	switch route.Action {
	case actionPrev:
		session, err := h.viewService.Previous(route.SessionID)
		if err != nil {
			h.respondError(s, event, err)
			return
		}
		h.respondView(s, event, session, true)

	case actionNext:
		session, err := h.viewService.Next(route.SessionID)
		if err != nil {
			h.respondError(s, event, err)
			return
		}
		h.respondView(s, event, session, true)

	case actionToggle:
		index, err := strconv.Atoi(route.Arg)
		if err != nil {
			return
		}
		session, err := h.keywordService.Toggle(route.SessionID, index)
		if err != nil {
			h.respondError(s, event, err)
			return
		}
		h.respondView(s, event, session, true)

	case actionCategory:
		h.handleCategorySwitch(s, event, route)

	case actionSubmit:
		count, err := h.keywordService.Submit(ctx, route.SessionID)
		if err != nil {
			h.respondError(s, event, err)
			return
		}
		h.closeView(s, event, fmt.Sprintf("Saved %d selected keywords for your campaigns.", count))

	case actionFinalize:
		h.openFinalizeModal(s, event, route.SessionID)

	case actionDelete:
		h.handleDeleteButton(ctx, s, event, route)

	case actionEdit:
		h.handleEditButton(s, event, route)

	case actionAdd:
		h.handleAddButton(s, event, route)

	case actionPick:
		session, err := h.campaignService.ToggleAd(route.SessionID, pageIndexArg(route))
		if err != nil {
			h.respondError(s, event, err)
			return
		}
		h.respondView(s, event, session, true)

	case actionCheckAuth:
		h.handleCheckAuth(ctx, s, event, route)

	case actionExisting:
		h.handleExistingCampaigns(ctx, s, event, route)

	case actionNewCampaign:
		h.openCampaignModal(s, event, route.SessionID)

	case actionUseCampaign:
		values := event.MessageComponentData().Values
		if len(values) == 0 {
			return
		}
		if _, err := h.campaignService.UseCampaign(route.SessionID, values[0]); err != nil {
			h.respondError(s, event, err)
			return
		}
		session, err := h.campaignService.OpenAdReview(ctx, route.SessionID)
		if err != nil {
			h.respondError(s, event, err)
			return
		}
		h.respondView(s, event, session, false)

	case actionCreate:
		succeeded, attempted, err := h.campaignService.CreateAds(ctx, route.SessionID)
		if err != nil {
			h.respondError(s, event, err)
			return
		}
		h.closeView(s, event, fmt.Sprintf("Created %d of %d selected ads.", succeeded, attempted))
	}
}

func pageIndexArg(route *interactionRoute) int {
	index, err := strconv.Atoi(route.Arg)
	if err != nil {
		return -1
	}
	return index
}

func (h *DiscordHandler) handleConsent(ctx context.Context, s *discordgo.Session, event *discordgo.InteractionCreate, route *interactionRoute) {
	guildID := route.SessionID
	reply, err := h.onboardingService.HandleConsent(ctx, guildID, route.Action == actionYes)
	if err != nil {
		h.respondError(s, event, err)
		return
	}
	if reply == nil {
		return
	}

	// Replace the buttons on the prompt so they cannot fire twice, then send
	// the follow-up messages into the channel.
	err = s.InteractionRespond(event.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Content:    event.Message.Content,
			Components: []discordgo.MessageComponent{},
		},
	})
	if err != nil {
		h.logger.Warn("DiscordHandler", "failed to clear consent buttons", map[string]interface{}{"error": err.Error()})
	}
	h.sendReply(s, event.ChannelID, guildID, reply)
}

func (h *DiscordHandler) handleCategorySwitch(s *discordgo.Session, event *discordgo.InteractionCreate, route *interactionRoute) {
	var (
		session *view.Session
		err     error
	)
	switch route.Kind {
	case kindKeywords:
		session, err = h.keywordService.SwitchCategory(route.SessionID, route.Arg)
	case kindAdText:
		session, err = h.adTextService.SwitchCategory(route.SessionID, route.Arg)
	default:
		return
	}
	if err != nil {
		h.respondError(s, event, err)
		return
	}
	h.respondView(s, event, session, true)
}

func (h *DiscordHandler) handleEditButton(s *discordgo.Session, event *discordgo.InteractionCreate, route *interactionRoute) {
	switch route.Kind {
	case kindBusiness:
		h.openBusinessModal(s, event, route.SessionID)
	case kindPersonas:
		session, err := h.viewService.Get(route.SessionID)
		if err != nil {
			h.respondError(s, event, err)
			return
		}
		var current entity.Persona
		if page := session.Pager.Page(); page < len(session.Personas) {
			current = session.Personas[page]
		}
		h.openPersonaModal(s, event, route.SessionID, "edit", current)
	case kindAdReview:
		h.openReviewEditModal(s, event, route.SessionID)
	}
}

func (h *DiscordHandler) handleAddButton(s *discordgo.Session, event *discordgo.InteractionCreate, route *interactionRoute) {
	switch route.Kind {
	case kindPaths:
		h.openPathModal(s, event, route.SessionID)
	case kindPersonas:
		h.openPersonaModal(s, event, route.SessionID, "add", entity.Persona{})
	}
}

func (h *DiscordHandler) handleDeleteButton(ctx context.Context, s *discordgo.Session, event *discordgo.InteractionCreate, route *interactionRoute) {
	switch route.Kind {
	case kindAdText:
		if current, err := h.viewService.Get(route.SessionID); err == nil && current.Category == view.CategoryFinalized {
			session, err := h.adTextService.Unfinalize(ctx, route.SessionID)
			if err != nil {
				h.respondError(s, event, err)
				return
			}
			h.respondView(s, event, session, true)
			return
		}
		session, err := h.adTextService.Delete(ctx, route.SessionID)
		if err != nil {
			h.respondError(s, event, err)
			return
		}
		if len(session.AdVariations) == 0 {
			h.closeView(s, event, "That was the last ad variation. Check back once new ad copy is generated.")
			return
		}
		h.respondView(s, event, session, true)
	case kindPersonas:
		session, err := h.businessService.DeletePersona(ctx, route.SessionID)
		if err != nil {
			h.respondError(s, event, err)
			return
		}
		h.respondView(s, event, session, true)
	}
}

func (h *DiscordHandler) handleCheckAuth(ctx context.Context, s *discordgo.Session, event *discordgo.InteractionCreate, route *interactionRoute) {
	done, err := h.campaignService.CompleteAuth(ctx, route.SessionID)
	if err != nil {
		h.respondError(s, event, err)
		return
	}
	if !done {
		h.respondText(s, event, "Authorization isn't complete yet. Finish the consent flow in your browser, then press Continue again.")
		return
	}
	h.respondCampaignChoice(s, event, route.SessionID)
}

// handleExistingCampaigns lists the account's campaigns in a select menu; an
// account with none falls straight through to the creation modal.
func (h *DiscordHandler) handleExistingCampaigns(ctx context.Context, s *discordgo.Session, event *discordgo.InteractionCreate, route *interactionRoute) {
	campaigns, err := h.campaignService.ListCampaigns(ctx, route.SessionID)
	if err != nil {
		h.respondError(s, event, err)
		return
	}
	if len(campaigns) == 0 {
		h.openCampaignModal(s, event, route.SessionID)
		return
	}

	options := make([]discordgo.SelectMenuOption, 0, len(campaigns))
	for _, campaign := range campaigns {
		if len(options) == 25 {
			break
		}
		options = append(options, discordgo.SelectMenuOption{
			Label: campaign.Name,
			Value: campaign.Name,
		})
	}

	err = s.InteractionRespond(event.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: "Pick the campaign your ads should run in:",
			Flags:   discordgo.MessageFlagsEphemeral,
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.SelectMenu{
						CustomID: customID(kindAdReview, route.SessionID, actionUseCampaign),
						Options:  options,
					},
				}},
			},
		},
	})
	if err != nil {
		h.logger.Warn("DiscordHandler", "failed to send campaign list", map[string]interface{}{"error": err.Error()})
	}
}

// closeView replaces an interactive message with a terminal confirmation,
// dropping the embed and every component.
func (h *DiscordHandler) closeView(s *discordgo.Session, event *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(event.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Content:    content,
			Embeds:     []*discordgo.MessageEmbed{},
			Components: []discordgo.MessageComponent{},
		},
	})
	if err != nil {
		h.logger.Warn("DiscordHandler", "failed to close view", map[string]interface{}{"error": err.Error()})
	}
}

func (h *DiscordHandler) handleModal(s *discordgo.Session, event *discordgo.InteractionCreate) {
	data := event.ModalSubmitData()
	route, ok := parseCustomID(data.CustomID)
	if !ok || route.Action != actionModal {
		return
	}
	ctx := context.Background()
	values := modalValues(data)

	switch {
	case route.Kind == kindBusiness:
		session, err := h.businessService.EditBusinessInfo(ctx, route.SessionID, values["text"])
		if err != nil {
			h.respondError(s, event, err)
			return
		}
		h.respondView(s, event, session, false)

	case route.Kind == kindPaths:
		session, err := h.businessService.AddPath(ctx, route.SessionID, values["path"])
		if err != nil {
			h.respondError(s, event, err)
			return
		}
		h.respondView(s, event, session, false)

	case route.Kind == kindPersonas:
		persona := entity.Persona{
			Title:        values["title"],
			Demographics: values["demographics"],
			Motivation:   values["motivation"],
			PainPoints:   values["pain_points"],
			Goals:        values["goals"],
		}
		var (
			session *view.Session
			err     error
		)
		if route.Arg == "edit" {
			session, err = h.businessService.EditPersona(ctx, route.SessionID, persona)
		} else {
			session, err = h.businessService.AddPersona(ctx, route.SessionID, persona)
		}
		if err != nil {
			h.respondError(s, event, err)
			return
		}
		h.respondView(s, event, session, false)

	case route.Kind == kindAdText:
		session, err := h.adTextService.Finalize(ctx, route.SessionID, values["headline"], values["description"])
		if err != nil {
			h.respondError(s, event, err)
			return
		}
		h.respondView(s, event, session, false)

	case route.Kind == kindAdReview:
		if strings.HasPrefix(route.Arg, "edit") {
			h.handleReviewEditModal(s, event, route, values)
			return
		}
		h.handleCampaignModal(ctx, s, event, route, values)
	}
}

func (h *DiscordHandler) handleReviewEditModal(s *discordgo.Session, event *discordgo.InteractionCreate, route *interactionRoute, values map[string]string) {
	parts := strings.Split(route.Arg, ":")
	if len(parts) != 2 {
		return
	}
	index, err := strconv.Atoi(parts[1])
	if err != nil {
		return
	}

	session, err := h.campaignService.EditReviewAd(route.SessionID, index,
		splitList(values["headlines"]), splitList(values["descriptions"]), splitList(values["keywords"]))
	if err != nil {
		h.respondError(s, event, err)
		return
	}
	h.respondView(s, event, session, false)
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (h *DiscordHandler) handleCampaignModal(ctx context.Context, s *discordgo.Session, event *discordgo.InteractionCreate, route *interactionRoute, values map[string]string) {
	budget, err := strconv.ParseFloat(strings.TrimSpace(values["daily_budget"]), 64)
	if err != nil || budget <= 0 {
		h.respondText(s, event, "Daily budget must be a positive number.")
		return
	}

	_, err = h.campaignService.CreateCampaign(ctx, route.SessionID, values["campaign_name"], budget, values["start_date"], values["end_date"])
	if err != nil {
		h.respondError(s, event, err)
		return
	}

	session, err := h.campaignService.OpenAdReview(ctx, route.SessionID)
	if err != nil {
		h.respondError(s, event, err)
		return
	}
	h.respondView(s, event, session, false)
}

// modalValues flattens a modal submission into input-ID keyed strings.
func modalValues(data discordgo.ModalSubmitInteractionData) map[string]string {
	values := make(map[string]string)
	for _, row := range data.Components {
		actionsRow, ok := row.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, component := range actionsRow.Components {
			if input, ok := component.(*discordgo.TextInput); ok {
				values[input.CustomID] = input.Value
			}
		}
	}
	return values
}
