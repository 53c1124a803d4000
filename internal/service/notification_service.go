// FILE: internal/service/notification_service.go
package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"adalchemy-bot/internal/pkg/logger"
	"adalchemy-bot/internal/repository/contract"
	"adalchemy-bot/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type INotificationService interface {
	Consume(ctx context.Context) error
}

type notificationService struct {
	pubSub     *gochannel.GoChannel
	topicName  string
	mappings   contract.MappingRepository
	httpClient *http.Client
	logger     logger.ILogger
}

func NewNotificationService(
	pubSub *gochannel.GoChannel,
	topicName string,
	mappings contract.MappingRepository,
	log logger.ILogger,
) INotificationService {
	return &notificationService{
		pubSub:     pubSub,
		topicName:  topicName,
		mappings:   mappings,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     log,
	}
}

func (s *notificationService) Consume(ctx context.Context) error {
	messages, err := s.pubSub.Subscribe(ctx, s.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			s.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (s *notificationService) processMessage(ctx context.Context, msg *message.Message) {
	var envelope struct {
		Type string                 `json:"type"`
		Data map[string]interface{} `json:"data"`
	}
	if err := json.Unmarshal(msg.Payload, &envelope); err != nil {
		s.logger.Error("NotificationService", "failed to unmarshal event", map[string]interface{}{"error": err.Error()})
		msg.Ack() // invalid payloads are never retried
		return
	}

	businessName, _ := envelope.Data["business_name"].(string)
	content := renderNotification(envelope.Type, envelope.Data)
	if businessName == "" || content == "" {
		msg.Ack()
		return
	}

	mapping, err := s.mappings.FindByBusiness(ctx, businessName)
	if err != nil || mapping.WebhookURL == "" {
		s.logger.Warn("NotificationService", "no webhook for business, dropping notification", map[string]interface{}{"business": businessName})
		msg.Ack()
		return
	}

	// Delivery failures are logged and dropped: a lost notification must
	// never fail the interaction that produced it.
	if err := s.deliver(ctx, mapping.WebhookURL, content); err != nil {
		s.logger.Error("NotificationService", "webhook delivery failed", map[string]interface{}{
			"business": businessName,
			"error":    err.Error(),
		})
	}
	msg.Ack()
}

func (s *notificationService) deliver(ctx context.Context, webhookURL, content string) error {
	payload, err := json.Marshal(map[string]string{"content": content})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewBuffer(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

func renderNotification(eventType string, data map[string]interface{}) string {
	switch eventType {
	case events.TypeOnboardingCompleted:
		return fmt.Sprintf("Welcome aboard! %v has joined the AdAlchemyAI waiting list.", data["business_name"])
	case events.TypeKeywordsSubmitted:
		return fmt.Sprintf("Keyword selection saved: %v keywords are now targeted for %v.", data["count"], data["business_name"])
	case events.TypeAdFinalized:
		return fmt.Sprintf("Ad variation %v was finalized for %v.", data["index"], data["business_name"])
	case events.TypeAdDeleted:
		return fmt.Sprintf("Ad variation %v was deleted for %v.", data["index"], data["business_name"])
	case events.TypeCampaignCreated:
		return fmt.Sprintf("Campaign %q was created for %v.", data["campaign_name"], data["business_name"])
	case events.TypeAdsCreated:
		return fmt.Sprintf("%v of %v ads were created successfully for %v.", data["succeeded"], data["attempted"], data["business_name"])
	default:
		return ""
	}
}
