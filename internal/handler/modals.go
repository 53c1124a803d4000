// FILE: internal/handler/modals.go
package handler

import (
	"fmt"
	"strconv"
	"strings"

	"adalchemy-bot/internal/entity"

	"github.com/bwmarrin/discordgo"
)

func (h *DiscordHandler) respondModal(s *discordgo.Session, event *discordgo.InteractionCreate, data *discordgo.InteractionResponseData) {
	err := s.InteractionRespond(event.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: data,
	})
	if err != nil {
		h.logger.Warn("DiscordHandler", "failed to open modal", map[string]interface{}{"error": err.Error()})
	}
}

func textInputRow(id, label, value string, style discordgo.TextInputStyle, required bool) discordgo.ActionsRow {
	return discordgo.ActionsRow{Components: []discordgo.MessageComponent{
		discordgo.TextInput{
			CustomID: id,
			Label:    label,
			Style:    style,
			Value:    value,
			Required: required,
		},
	}}
}

func (h *DiscordHandler) openBusinessModal(s *discordgo.Session, event *discordgo.InteractionCreate, sessionID string) {
	h.respondModal(s, event, &discordgo.InteractionResponseData{
		CustomID: customID(kindBusiness, sessionID, actionModal),
		Title:    "Edit Business Info",
		Components: []discordgo.MessageComponent{
			textInputRow("text", "What we should know about your business", "", discordgo.TextInputParagraph, true),
		},
	})
}

func (h *DiscordHandler) openPathModal(s *discordgo.Session, event *discordgo.InteractionCreate, sessionID string) {
	h.respondModal(s, event, &discordgo.InteractionResponseData{
		CustomID: customID(kindPaths, sessionID, actionModal),
		Title:    "Add Research Path",
		Components: []discordgo.MessageComponent{
			textInputRow("path", "Research path to explore", "", discordgo.TextInputShort, true),
		},
	})
}

// openPersonaModal covers both add and edit; mode rides in the custom ID arg.
// A modal holds at most five inputs, so preferences stays out of the form.
func (h *DiscordHandler) openPersonaModal(s *discordgo.Session, event *discordgo.InteractionCreate, sessionID, mode string, current entity.Persona) {
	title := "Add User Persona"
	if mode == "edit" {
		title = "Edit User Persona"
	}
	h.respondModal(s, event, &discordgo.InteractionResponseData{
		CustomID: customID(kindPersonas, sessionID, actionModal, mode),
		Title:    title,
		Components: []discordgo.MessageComponent{
			textInputRow("title", "Title", current.Title, discordgo.TextInputShort, true),
			textInputRow("demographics", "Demographics", current.Demographics, discordgo.TextInputParagraph, false),
			textInputRow("motivation", "Motivation", current.Motivation, discordgo.TextInputParagraph, false),
			textInputRow("pain_points", "Pain Points", current.PainPoints, discordgo.TextInputParagraph, false),
			textInputRow("goals", "Goals", current.Goals, discordgo.TextInputParagraph, false),
		},
	})
}

// openFinalizeModal pre-fills the form with the text currently shown for the
// variation, finalized override included, so the user edits in place.
func (h *DiscordHandler) openFinalizeModal(s *discordgo.Session, event *discordgo.InteractionCreate, sessionID string) {
	session, err := h.viewService.Get(sessionID)
	if err != nil {
		h.respondError(s, event, err)
		return
	}

	var headline, description string
	if page := session.Pager.Page(); page < len(session.AdVariations) {
		headline, description, _ = session.Overlay.Resolve(page, session.AdVariations[page])
	}

	h.respondModal(s, event, &discordgo.InteractionResponseData{
		CustomID: customID(kindAdText, sessionID, actionModal),
		Title:    "Finalize Ad Text",
		Components: []discordgo.MessageComponent{
			textInputRow("headline", "Headline (max 30 characters)", headline, discordgo.TextInputShort, true),
			textInputRow("description", "Description (max 90 characters)", description, discordgo.TextInputParagraph, true),
		},
	})
}

// openReviewEditModal edits a whole variation in-session before publishing.
// The lists round-trip as comma-separated text.
func (h *DiscordHandler) openReviewEditModal(s *discordgo.Session, event *discordgo.InteractionCreate, sessionID string) {
	session, err := h.viewService.Get(sessionID)
	if err != nil {
		h.respondError(s, event, err)
		return
	}
	page := session.Pager.Page()
	if page >= len(session.AdVariations) {
		return
	}
	variation := session.AdVariations[page]

	h.respondModal(s, event, &discordgo.InteractionResponseData{
		CustomID: customID(kindAdReview, sessionID, actionModal, "edit", strconv.Itoa(page)),
		Title:    fmt.Sprintf("Edit Ad Variation %d", page+1),
		Components: []discordgo.MessageComponent{
			textInputRow("headlines", "Headlines (comma-separated)", strings.Join(variation.Headlines, ", "), discordgo.TextInputParagraph, true),
			textInputRow("descriptions", "Descriptions (comma-separated)", strings.Join(variation.Descriptions, ", "), discordgo.TextInputParagraph, true),
			textInputRow("keywords", "Keywords (comma-separated)", strings.Join(variation.Keywords, ", "), discordgo.TextInputParagraph, true),
		},
	})
}

func (h *DiscordHandler) openCampaignModal(s *discordgo.Session, event *discordgo.InteractionCreate, sessionID string) {
	h.respondModal(s, event, &discordgo.InteractionResponseData{
		CustomID: customID(kindAdReview, sessionID, actionModal),
		Title:    "Create Campaign",
		Components: []discordgo.MessageComponent{
			textInputRow("campaign_name", "Campaign name", "", discordgo.TextInputShort, true),
			textInputRow("daily_budget", "Daily budget (e.g. 10.50)", "", discordgo.TextInputShort, true),
			textInputRow("start_date", "Start date (YYYY-MM-DD)", "", discordgo.TextInputShort, true),
			textInputRow("end_date", "End date (YYYY-MM-DD)", "", discordgo.TextInputShort, true),
		},
	})
}
