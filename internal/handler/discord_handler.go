// FILE: internal/handler/discord_handler.go
package handler

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"adalchemy-bot/internal/pkg/logger"
	"adalchemy-bot/internal/repository/contract"
	"adalchemy-bot/internal/service"
	"adalchemy-bot/pkg/adsapi"
	"adalchemy-bot/pkg/view"

	"github.com/bwmarrin/discordgo"
)

const (
	customIDPrefix = "adbot"
	webhookName    = "AdAlchemyAI Notifications"
)

// DiscordHandler adapts gateway events and interactions to the service layer.
// It owns no state of its own; every interactive view lives in the session
// store keyed by the custom IDs it stamps onto components.
type DiscordHandler struct {
	onboardingService service.IOnboardingService
	businessService   service.IBusinessService
	keywordService    service.IKeywordService
	adTextService     service.IAdTextService
	campaignService   service.ICampaignService
	viewService       service.IViewSessionService
	schedulingLink    string
	logger            logger.ILogger
}

func NewDiscordHandler(
	onboardingService service.IOnboardingService,
	businessService service.IBusinessService,
	keywordService service.IKeywordService,
	adTextService service.IAdTextService,
	campaignService service.ICampaignService,
	viewService service.IViewSessionService,
	schedulingLink string,
	log logger.ILogger,
) *DiscordHandler {
	return &DiscordHandler{
		onboardingService: onboardingService,
		businessService:   businessService,
		keywordService:    keywordService,
		adTextService:     adTextService,
		campaignService:   campaignService,
		viewService:       viewService,
		schedulingLink:    schedulingLink,
		logger:            log,
	}
}

// Register attaches the gateway handlers to an open session.
func (h *DiscordHandler) Register(s *discordgo.Session) {
	s.AddHandler(h.OnGuildCreate)
	s.AddHandler(h.OnMessageCreate)
	s.AddHandler(h.OnInteractionCreate)
}

// OnGuildCreate fires when the bot lands in a guild, both on join and on
// reconnect. A notification webhook is provisioned in the first writable text
// channel, then the onboarding flow decides whether this is a new or a
// returning owner.
func (h *DiscordHandler) OnGuildCreate(s *discordgo.Session, event *discordgo.GuildCreate) {
	ctx := context.Background()

	channel := firstWritableChannel(s, event.Guild)
	if channel == nil {
		h.logger.Warn("DiscordHandler", "no writable channel in guild", map[string]interface{}{"guild_id": event.Guild.ID})
		return
	}

	webhookURL := ""
	webhook, err := s.WebhookCreate(channel.ID, webhookName, "")
	if err != nil {
		h.logger.Warn("DiscordHandler", "failed to create webhook", map[string]interface{}{
			"guild_id": event.Guild.ID,
			"error":    err.Error(),
		})
	} else {
		webhookURL = fmt.Sprintf("https://discord.com/api/webhooks/%s/%s", webhook.ID, webhook.Token)
	}

	result, err := h.onboardingService.HandleGuildJoin(ctx, event.Guild.ID, event.Guild.OwnerID, webhookURL)
	if err != nil {
		h.logger.Error("DiscordHandler", "guild join handling failed", map[string]interface{}{
			"guild_id": event.Guild.ID,
			"error":    err.Error(),
		})
		return
	}

	for _, msg := range result.Messages {
		if _, err := s.ChannelMessageSend(channel.ID, msg); err != nil {
			h.logger.Warn("DiscordHandler", "failed to send message", map[string]interface{}{"error": err.Error()})
		}
	}
}

// OnMessageCreate feeds plain messages into the onboarding dialogue. Anything
// outside an active dialogue is dropped by the service.
func (h *DiscordHandler) OnMessageCreate(s *discordgo.Session, event *discordgo.MessageCreate) {
	if event.Author == nil || event.Author.Bot || event.GuildID == "" {
		return
	}

	reply, err := h.onboardingService.HandleMessage(context.Background(), event.GuildID, event.Author.ID, event.Content)
	if err != nil {
		h.logger.Error("DiscordHandler", "onboarding message failed", map[string]interface{}{
			"guild_id": event.GuildID,
			"error":    err.Error(),
		})
		// The stage has not advanced; tell the user instead of going silent.
		if _, sendErr := s.ChannelMessageSend(event.ChannelID, "Something went wrong saving your answer. Please try again."); sendErr != nil {
			h.logger.Warn("DiscordHandler", "failed to send message", map[string]interface{}{"error": sendErr.Error()})
		}
		return
	}
	if reply == nil {
		return
	}

	h.sendReply(s, event.ChannelID, event.GuildID, reply)
}

// sendReply fans a dialogue reply out to the channel, attaching the consent
// buttons to the final message when asked.
func (h *DiscordHandler) sendReply(s *discordgo.Session, channelID, guildID string, reply *service.OnboardingReply) {
	for i, msg := range reply.Messages {
		last := i == len(reply.Messages)-1
		if last && reply.PromptConsent {
			_, err := s.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
				Content:    msg,
				Components: consentButtons(guildID),
			})
			if err != nil {
				h.logger.Warn("DiscordHandler", "failed to send consent prompt", map[string]interface{}{"error": err.Error()})
			}
			continue
		}
		if _, err := s.ChannelMessageSend(channelID, msg); err != nil {
			h.logger.Warn("DiscordHandler", "failed to send message", map[string]interface{}{"error": err.Error()})
		}
	}
}

func (h *DiscordHandler) OnInteractionCreate(s *discordgo.Session, event *discordgo.InteractionCreate) {
	switch event.Type {
	case discordgo.InteractionApplicationCommand:
		h.handleCommand(s, event)
	case discordgo.InteractionMessageComponent:
		h.handleComponent(s, event)
	case discordgo.InteractionModalSubmit:
		h.handleModal(s, event)
	}
}

// firstWritableChannel picks the first text channel the bot can both read and
// send to, mirroring where members land when they join.
func firstWritableChannel(s *discordgo.Session, guild *discordgo.Guild) *discordgo.Channel {
	for _, channel := range guild.Channels {
		if channel.Type != discordgo.ChannelTypeGuildText {
			continue
		}
		perms, err := s.UserChannelPermissions(s.State.User.ID, channel.ID)
		if err != nil {
			continue
		}
		if perms&discordgo.PermissionSendMessages != 0 && perms&discordgo.PermissionViewChannel != 0 {
			return channel
		}
	}
	return nil
}

// customID builds the component routing key: adbot:<view>:<session>:<action>
// with an optional argument segment.
func customID(kind, sessionID, action string, args ...string) string {
	parts := append([]string{customIDPrefix, kind, sessionID, action}, args...)
	return strings.Join(parts, ":")
}

type interactionRoute struct {
	Kind      string
	SessionID string
	Action    string
	Arg       string
}

func parseCustomID(id string) (*interactionRoute, bool) {
	parts := strings.Split(id, ":")
	if len(parts) < 4 || parts[0] != customIDPrefix {
		return nil, false
	}
	route := &interactionRoute{Kind: parts[1], SessionID: parts[2], Action: parts[3]}
	if len(parts) > 4 {
		route.Arg = strings.Join(parts[4:], ":")
	}
	return route, true
}

// userFacingError translates service failures into a message the user can act
// on. Upstream API errors pass through verbatim.
func (h *DiscordHandler) userFacingError(err error) string {
	var apiErr *adsapi.APIError
	var validationErr *view.ValidationError

	switch {
	case errors.Is(err, service.ErrNoBusiness), errors.Is(err, service.ErrNotOnboarded):
		return "You need to complete onboarding before using this command. Schedule a call with us here: " + h.schedulingLink
	case errors.Is(err, service.ErrNoDocument), errors.Is(err, service.ErrNoKeywords):
		return "I don't have any research for your business yet. Check back once your marketing research is ready."
	case errors.Is(err, service.ErrNoAdVariations):
		return "I don't have any generated ads for your business yet. Check back once your ad copy is ready."
	case errors.Is(err, service.ErrNoCredentials):
		return "I don't have your Google Ads credentials yet. Upload them with /uploadcredentials first."
	case errors.Is(err, service.ErrSessionExpired), errors.Is(err, view.ErrSessionClosed):
		return "This view has expired. Run the command again to start fresh."
	case errors.Is(err, contract.ErrRevisionConflict):
		// The session's snapshot is stale; retrying the same view cannot win.
		return "Your data changed while this view was open. Run the command again to pick up the latest version."
	case errors.Is(err, service.ErrInvalidCredentials):
		return err.Error()
	case errors.As(err, &validationErr):
		return validationErr.Error()
	case errors.As(err, &apiErr):
		return apiErr.Error()
	default:
		h.logger.Error("DiscordHandler", "unexpected error", map[string]interface{}{"error": err.Error()})
		return "Something went wrong on my end. Please try again."
	}
}

func (h *DiscordHandler) respondError(s *discordgo.Session, event *discordgo.InteractionCreate, err error) {
	h.respondText(s, event, h.userFacingError(err))
}

func (h *DiscordHandler) respondText(s *discordgo.Session, event *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(event.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		h.logger.Warn("DiscordHandler", "failed to respond", map[string]interface{}{"error": err.Error()})
	}
}

// respondView answers with a freshly rendered view, either as a new message
// (slash command) or by updating the message the component lives on.
func (h *DiscordHandler) respondView(s *discordgo.Session, event *discordgo.InteractionCreate, session *view.Session, update bool) {
	embed, components := h.render(session)
	responseType := discordgo.InteractionResponseChannelMessageWithSource
	if update {
		responseType = discordgo.InteractionResponseUpdateMessage
	}
	err := s.InteractionRespond(event.Interaction, &discordgo.InteractionResponse{
		Type: responseType,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{embed},
			Components: components,
		},
	})
	if err != nil {
		h.logger.Warn("DiscordHandler", "failed to respond with view", map[string]interface{}{"error": err.Error()})
	}
}

func interactionUserID(event *discordgo.InteractionCreate) string {
	if event.Member != nil && event.Member.User != nil {
		return event.Member.User.ID
	}
	if event.User != nil {
		return event.User.ID
	}
	return ""
}
