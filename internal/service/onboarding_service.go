// FILE: internal/service/onboarding_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"adalchemy-bot/internal/entity"
	"adalchemy-bot/internal/pkg/logger"
	"adalchemy-bot/internal/repository/contract"
	"adalchemy-bot/pkg/events"
	"adalchemy-bot/pkg/store"
)

// urlPattern accepts http(s)/ftp(s) URLs with a hostname, localhost or an
// IPv4 address, an optional port and an optional path.
var urlPattern = regexp.MustCompile(`(?i)^(?:http|ftp)s?://` +
	`(?:(?:[A-Z0-9](?:[A-Z0-9-]{0,61}[A-Z0-9])?\.)+(?:[A-Z]{2,6}\.?|[A-Z0-9-]{2,}\.?)|` +
	`localhost|` +
	`\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3})` +
	`(?::\d+)?` +
	`(?:/?|[/?]\S+)$`)

const welcomeMessage = "Hello! I am AdAlchemyAI, a bot to help you get good leads for a cost-effective price for your business by automating the process of setting up, running, and optimizing your Google Ads. I only run ads after you manually approve the keywords I researched, the ad text ideas I generate, and the information I use to carry out my research.\n\nBut for now, I would like to learn more about you and your business."

// GuildJoinResult tells the handler what to post in the guild's first
// writable channel after the bot is added.
type GuildJoinResult struct {
	Messages  []string
	Onboarded bool
}

// OnboardingReply is the outcome of one dialogue step. PromptConsent asks
// the handler to attach the Yes/No consent buttons to the last message.
type OnboardingReply struct {
	Messages      []string
	PromptConsent bool
}

type IOnboardingService interface {
	HandleGuildJoin(ctx context.Context, guildID, ownerID, webhookURL string) (*GuildJoinResult, error)
	HandleMessage(ctx context.Context, guildID, ownerID, content string) (*OnboardingReply, error)
	HandleConsent(ctx context.Context, guildID string, yes bool) (*OnboardingReply, error)
}

type onboardingService struct {
	mappings         contract.MappingRepository
	documents        contract.BusinessDocumentRepository
	conversations    contract.ConversationRepository
	publisherService IPublisherService
	schedulingLink   string
	logger           logger.ILogger
}

func NewOnboardingService(
	mappings contract.MappingRepository,
	documents contract.BusinessDocumentRepository,
	conversations contract.ConversationRepository,
	publisherService IPublisherService,
	schedulingLink string,
	log logger.ILogger,
) IOnboardingService {
	return &onboardingService{
		mappings:         mappings,
		documents:        documents,
		conversations:    conversations,
		publisherService: publisherService,
		schedulingLink:   schedulingLink,
		logger:           log,
	}
}

func (s *onboardingService) HandleGuildJoin(ctx context.Context, guildID, ownerID, webhookURL string) (*GuildJoinResult, error) {
	mapping, err := s.mappings.FindByOwner(ctx, ownerID)
	if err != nil && !errors.Is(err, contract.ErrNotFound) {
		return nil, err
	}

	if mapping != nil {
		// Returning owner: refresh the webhook and greet, no dialogue.
		if err := s.mappings.AttachOwner(ctx, mapping.BusinessName, ownerID, webhookURL); err != nil {
			s.logger.Error("OnboardingService", "failed to refresh owner mapping", map[string]interface{}{"error": err.Error()})
		}

		businessName := mapping.BusinessName
		if businessName == "" {
			businessName = "valued business"
		}
		result := &GuildJoinResult{
			Messages:  []string{fmt.Sprintf("Welcome back %s!", businessName)},
			Onboarded: mapping.Onboarded,
		}
		if mapping.Onboarded {
			result.Messages = append(result.Messages, "You have full access to all commands. Type / to see available commands.")
		} else {
			result.Messages = append(result.Messages, fmt.Sprintf("Please schedule a date to complete your onboarding and discuss your business needs: %s", s.schedulingLink))
		}
		return result, nil
	}

	// New owner: create the mapping now so the dialogue machine has a record
	// to persist each answer into.
	if err := s.mappings.Insert(ctx, &entity.BusinessMapping{
		OwnerIDs:   []string{ownerID},
		WebhookURL: webhookURL,
		CreatedAt:  time.Now().UTC(),
	}); err != nil {
		return nil, err
	}

	if err := s.conversations.Save(ctx, &store.Conversation{
		GuildID: guildID,
		Stage:   store.StageAwaitingBusinessName,
	}); err != nil {
		return nil, err
	}

	return &GuildJoinResult{
		Messages: []string{welcomeMessage, "What is the name of your business?"},
	}, nil
}

func (s *onboardingService) HandleMessage(ctx context.Context, guildID, ownerID, content string) (*OnboardingReply, error) {
	conv, found, err := s.conversations.Get(ctx, guildID)
	if err != nil {
		return nil, err
	}
	if !found || conv.Terminal() {
		return nil, nil
	}

	// Safety valve: never act for an owner with no registered business.
	mapping, err := s.mappings.FindByOwner(ctx, ownerID)
	if err != nil {
		if errors.Is(err, contract.ErrNotFound) {
			s.logger.Warn("OnboardingService", "message from owner with no mapping, skipping", map[string]interface{}{"guild_id": guildID})
			return nil, nil
		}
		return nil, err
	}

	switch conv.Stage {
	case store.StageAwaitingBusinessName:
		return s.collectBusinessName(ctx, conv, ownerID, content)
	case store.StageAwaitingWebsite:
		return s.collectWebsite(ctx, conv, ownerID, mapping, content)
	default:
		// Consent is answered through buttons, not messages.
		return nil, nil
	}
}

func (s *onboardingService) collectBusinessName(ctx context.Context, conv *store.Conversation, ownerID, content string) (*OnboardingReply, error) {
	businessName := strings.ToLower(strings.TrimSpace(content))
	if businessName == "" {
		return nil, nil
	}

	// Persist before advancing: a failed write leaves the stage untouched.
	if err := s.mappings.SetBusinessName(ctx, ownerID, businessName); err != nil {
		return nil, err
	}

	conv.Stage = store.StageAwaitingWebsite
	conv.BusinessName = businessName
	if err := s.conversations.Save(ctx, conv); err != nil {
		return nil, err
	}

	return &OnboardingReply{
		Messages: []string{fmt.Sprintf("Please give me a link to your website %s:", businessName)},
	}, nil
}

func (s *onboardingService) collectWebsite(ctx context.Context, conv *store.Conversation, ownerID string, mapping *entity.BusinessMapping, content string) (*OnboardingReply, error) {
	websiteLink := strings.TrimSpace(content)
	if !urlPattern.MatchString(websiteLink) {
		return &OnboardingReply{
			Messages: []string{"That doesn't appear to be a valid URL. Please enter a valid website URL (e.g., https://www.example.com):"},
		}, nil
	}

	if err := s.mappings.SetWebsiteLink(ctx, mapping.BusinessName, websiteLink); err != nil {
		return nil, err
	}

	// Re-read the mapping: the business name must come from the record just
	// written, not from stale dialogue state.
	fresh, err := s.mappings.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	conv.Stage = store.StageAwaitingConsent
	conv.BusinessName = fresh.BusinessName
	conv.SecondChance = false
	if err := s.conversations.Save(ctx, conv); err != nil {
		return nil, err
	}

	return &OnboardingReply{
		Messages: []string{
			"We are currently running in beta, we are using this as an opportunity to discuss pricing that is commensurate to the value generated and your use cases.",
			"Please confirm your interest in joining the AdAlchemyAI waiting list",
		},
		PromptConsent: true,
	}, nil
}

func (s *onboardingService) HandleConsent(ctx context.Context, guildID string, yes bool) (*OnboardingReply, error) {
	conv, found, err := s.conversations.Get(ctx, guildID)
	if err != nil {
		return nil, err
	}
	if !found || conv.Stage != store.StageAwaitingConsent {
		return nil, nil
	}

	if yes {
		conv.Stage = store.StageComplete
		if err := s.conversations.Save(ctx, conv); err != nil {
			return nil, err
		}

		mapping, err := s.mappings.FindByBusiness(ctx, conv.BusinessName)
		websiteLink := ""
		if err == nil {
			websiteLink = mapping.WebsiteLink
		}

		// Seed the marketing document so the research pipeline starts from
		// the confirmed name and website. The dialogue is already complete;
		// a failed seed is logged, not surfaced.
		if err := s.documents.SetBusinessInfo(ctx, conv.BusinessName, websiteLink); err != nil {
			s.logger.Error("OnboardingService", "failed to seed business document", map[string]interface{}{"error": err.Error()})
		}

		if err := s.publisherService.Publish(ctx, events.NewOnboardingCompletedEvent(guildID, conv.BusinessName, websiteLink)); err != nil {
			s.logger.Error("OnboardingService", "failed to publish onboarding event", map[string]interface{}{"error": err.Error()})
		}

		return &OnboardingReply{
			Messages: []string{
				fmt.Sprintf("A mapping has been made between your Discord ID and your business %s. This helps us remember you", conv.BusinessName),
				fmt.Sprintf("Let's book some time to complete your onboarding and chat more about your business: %s", s.schedulingLink),
			},
		}, nil
	}

	if !conv.SecondChance {
		conv.SecondChance = true
		if err := s.conversations.Save(ctx, conv); err != nil {
			return nil, err
		}
		return &OnboardingReply{
			Messages:      []string{"Are you sure? You can still join our waiting list or exit the conversation."},
			PromptConsent: true,
		}, nil
	}

	conv.Stage = store.StageEnded
	if err := s.conversations.Save(ctx, conv); err != nil {
		return nil, err
	}
	return &OnboardingReply{
		Messages: []string{"If you would like to restart the process, add the bot to a new server. Alternatively, feel free to email emmanuel@emmanuelsibanda.com if you have any questions."},
	}, nil
}
