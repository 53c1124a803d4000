// FILE: internal/handler/commands.go
package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"adalchemy-bot/internal/service"

	"github.com/bwmarrin/discordgo"
)

var slashCommands = []*discordgo.ApplicationCommand{
	{Name: "business", Description: "View and edit what we know about your business"},
	{Name: "website", Description: "Show the website link on file for your business"},
	{Name: "researchpaths", Description: "Browse the research paths taken for your business"},
	{Name: "personas", Description: "Browse and manage your user personas"},
	{Name: "keywords", Description: "Review and select keywords for your ad campaigns"},
	{Name: "adtext", Description: "Review generated ad copy and finalize your edits"},
	{
		Name:        "uploadcredentials",
		Description: "Upload your Google Ads API credentials file",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionAttachment,
				Name:        "file",
				Description: "Your credentials JSON file",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "customer_id",
				Description: "Your Google Ads customer ID",
				Required:    true,
			},
		},
	},
	{Name: "createad", Description: "Create a campaign and publish your selected ads"},
	{Name: "help", Description: "Show what this bot can do"},
}

// RegisterCommands overwrites the global application commands. Discord
// propagates global commands slowly; registration is idempotent so restarts
// are safe.
func (h *DiscordHandler) RegisterCommands(s *discordgo.Session) error {
	_, err := s.ApplicationCommandBulkOverwrite(s.State.User.ID, "", slashCommands)
	return err
}

func (h *DiscordHandler) handleCommand(s *discordgo.Session, event *discordgo.InteractionCreate) {
	ctx := context.Background()
	data := event.ApplicationCommandData()
	userID := interactionUserID(event)

	switch data.Name {
	case "business":
		session, err := h.businessService.OpenBusinessInfo(ctx, event.GuildID, userID)
		if err != nil {
			h.respondError(s, event, err)
			return
		}
		h.respondView(s, event, session, false)

	case "website":
		link, err := h.businessService.GetWebsite(ctx, userID)
		if err != nil {
			if errors.Is(err, service.ErrNoBusiness) {
				h.respondText(s, event, "I don't have a business on file for you yet.")
				return
			}
			h.respondError(s, event, err)
			return
		}
		h.respondText(s, event, "The website I have for your business: "+link)

	case "researchpaths":
		session, err := h.businessService.OpenPaths(ctx, event.GuildID, userID)
		if err != nil {
			h.respondError(s, event, err)
			return
		}
		h.respondView(s, event, session, false)

	case "personas":
		session, err := h.businessService.OpenPersonas(ctx, event.GuildID, userID)
		if err != nil {
			h.respondError(s, event, err)
			return
		}
		h.respondView(s, event, session, false)

	case "keywords":
		session, err := h.keywordService.Open(ctx, event.GuildID, userID)
		if err != nil {
			h.respondError(s, event, err)
			return
		}
		h.respondView(s, event, session, false)

	case "adtext":
		session, err := h.adTextService.Open(ctx, event.GuildID, userID)
		if err != nil {
			h.respondError(s, event, err)
			return
		}
		h.respondView(s, event, session, false)

	case "uploadcredentials":
		h.handleUploadCredentials(ctx, s, event)

	case "createad":
		h.handleCreateAd(ctx, s, event)

	case "help":
		session := h.businessService.OpenHelp(event.GuildID, userID)
		h.respondView(s, event, session, false)
	}
}

func (h *DiscordHandler) handleUploadCredentials(ctx context.Context, s *discordgo.Session, event *discordgo.InteractionCreate) {
	data := event.ApplicationCommandData()

	var attachmentID, customerID string
	for _, opt := range data.Options {
		switch opt.Name {
		case "file":
			attachmentID = opt.Value.(string)
		case "customer_id":
			customerID = opt.StringValue()
		}
	}

	attachment, ok := data.Resolved.Attachments[attachmentID]
	if !ok {
		h.respondText(s, event, "I couldn't read the attached file. Please try again.")
		return
	}

	content, err := downloadAttachment(ctx, attachment.URL)
	if err != nil {
		h.logger.Error("DiscordHandler", "failed to download attachment", map[string]interface{}{"error": err.Error()})
		h.respondText(s, event, "I couldn't download the attached file. Please try again.")
		return
	}

	if err := h.campaignService.UploadCredentials(ctx, interactionUserID(event), attachment.Filename, content, customerID); err != nil {
		h.respondError(s, event, err)
		return
	}
	h.respondText(s, event, "Credentials stored. You can now run /createad to set up your campaign.")
}

func (h *DiscordHandler) handleCreateAd(ctx context.Context, s *discordgo.Session, event *discordgo.InteractionCreate) {
	session, result, err := h.campaignService.StartAdFlow(ctx, event.GuildID, interactionUserID(event))
	if err != nil {
		h.respondError(s, event, err)
		return
	}

	if !result.Authorized() {
		err := s.InteractionRespond(event.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Content: "Please authorize access to your Google Ads account, then press Continue:\n" + result.AuthURL,
				Flags:   discordgo.MessageFlagsEphemeral,
				Components: []discordgo.MessageComponent{
					discordgo.ActionsRow{Components: []discordgo.MessageComponent{
						discordgo.Button{
							Label:    "Continue",
							Style:    discordgo.PrimaryButton,
							CustomID: customID(kindAdReview, session.ID, actionCheckAuth),
						},
					}},
				},
			},
		})
		if err != nil {
			h.logger.Warn("DiscordHandler", "failed to send auth prompt", map[string]interface{}{"error": err.Error()})
		}
		return
	}

	h.respondCampaignChoice(s, event, session.ID)
}

// respondCampaignChoice offers the two ways to target ads once the ads API is
// authorized: pick an existing campaign or create a new one.
func (h *DiscordHandler) respondCampaignChoice(s *discordgo.Session, event *discordgo.InteractionCreate, sessionID string) {
	err := s.InteractionRespond(event.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: "You're authorized. Where should your ads go?",
			Flags:   discordgo.MessageFlagsEphemeral,
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.Button{
						Label:    "Use Existing Campaign",
						Style:    discordgo.SecondaryButton,
						CustomID: customID(kindAdReview, sessionID, actionExisting),
					},
					discordgo.Button{
						Label:    "New Campaign",
						Style:    discordgo.PrimaryButton,
						CustomID: customID(kindAdReview, sessionID, actionNewCampaign),
					},
				}},
			},
		},
	})
	if err != nil {
		h.logger.Warn("DiscordHandler", "failed to send campaign choice", map[string]interface{}{"error": err.Error()})
	}
}

func downloadAttachment(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return io.ReadAll(io.LimitReader(resp.Body, 1<<20))
}
