// FILE: internal/service/campaign_service.go
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"adalchemy-bot/internal/entity"
	"adalchemy-bot/internal/pkg/logger"
	"adalchemy-bot/internal/repository/contract"
	"adalchemy-bot/pkg/adsapi"
	"adalchemy-bot/pkg/events"
	"adalchemy-bot/pkg/view"

	"github.com/google/uuid"
)

// ErrInvalidCredentials wraps user-correctable problems with an uploaded
// credentials file.
var ErrInvalidCredentials = errors.New("service: invalid credentials file")

// AdsAPI is the surface of the ads management client the flow consumes.
type AdsAPI interface {
	Authenticate(ctx context.Context, customerID string, credentials map[string]interface{}) (*adsapi.AuthResult, error)
	CheckAuthStatus(ctx context.Context, state string) (*adsapi.AuthStatus, error)
	GetCampaigns(ctx context.Context, customerID string, credentials map[string]interface{}) ([]adsapi.Campaign, error)
	CreateCampaign(ctx context.Context, req adsapi.CampaignRequest) (string, error)
	CreateAd(ctx context.Context, req adsapi.AdRequest) error
}

var requiredCredentialFields = []string{
	"client_id",
	"project_id",
	"auth_uri",
	"auth_provider_x509_cert_url",
	"client_secret",
	"use_proto_plus",
}

type ICampaignService interface {
	UploadCredentials(ctx context.Context, userID, filename string, content []byte, customerID string) error

	// StartAdFlow authenticates against the ads API. The returned session
	// carries the flow state; the AuthResult either holds a refresh token
	// (proceed) or an authorization URL the user must visit first.
	StartAdFlow(ctx context.Context, guildID, userID string) (*view.Session, *adsapi.AuthResult, error)

	// CompleteAuth polls the pending consent flow. True means the refresh
	// token arrived and was persisted into the stored credentials.
	CompleteAuth(ctx context.Context, sessionID string) (bool, error)

	ListCampaigns(ctx context.Context, sessionID string) ([]adsapi.Campaign, error)
	// UseCampaign targets an existing campaign for the ad batch instead of
	// creating a new one.
	UseCampaign(sessionID, name string) (*view.Session, error)
	CreateCampaign(ctx context.Context, sessionID, name string, dailyBudget float64, startDate, endDate string) (string, error)

	// OpenAdReview turns the flow session into the variation review view.
	OpenAdReview(ctx context.Context, sessionID string) (*view.Session, error)
	ToggleAd(sessionID string, index int) (*view.Session, error)
	// EditReviewAd replaces the variation under review in the session only,
	// validates the platform limits, and marks the edited ad selected.
	// Nothing is written to the document store.
	EditReviewAd(sessionID string, index int, headlines, descriptions, keywords []string) (*view.Session, error)

	// CreateAds publishes every selected variation and reports how many of
	// the attempts succeeded. Per-ad failures never abort the batch.
	CreateAds(ctx context.Context, sessionID string) (succeeded, attempted int, err error)
}

type campaignService struct {
	mappings         contract.MappingRepository
	documents        contract.BusinessDocumentRepository
	credentials      contract.CredentialsRepository
	sessions         contract.ViewSessionRepository
	adsClient        AdsAPI
	publisherService IPublisherService
	developerToken   string
	logger           logger.ILogger
}

func NewCampaignService(
	mappings contract.MappingRepository,
	documents contract.BusinessDocumentRepository,
	credentials contract.CredentialsRepository,
	sessions contract.ViewSessionRepository,
	adsClient AdsAPI,
	publisherService IPublisherService,
	developerToken string,
	log logger.ILogger,
) ICampaignService {
	return &campaignService{
		mappings:         mappings,
		documents:        documents,
		credentials:      credentials,
		sessions:         sessions,
		adsClient:        adsClient,
		publisherService: publisherService,
		developerToken:   developerToken,
		logger:           log,
	}
}

func (s *campaignService) UploadCredentials(ctx context.Context, userID, filename string, content []byte, customerID string) error {
	mapping, err := resolveOnboarded(ctx, s.mappings, userID)
	if err != nil {
		return err
	}

	if !strings.HasSuffix(strings.ToLower(filename), ".json") {
		return fmt.Errorf("%w: please upload a JSON file", ErrInvalidCredentials)
	}

	var creds map[string]interface{}
	if err := json.Unmarshal(content, &creds); err != nil {
		return fmt.Errorf("%w: uploaded file does not contain valid JSON", ErrInvalidCredentials)
	}

	for _, field := range requiredCredentialFields {
		if _, ok := creds[field]; !ok {
			return fmt.Errorf("%w: missing required field '%s'", ErrInvalidCredentials, field)
		}
	}
	if _, ok := creds["use_proto_plus"].(bool); !ok {
		return fmt.Errorf("%w: 'use_proto_plus' must be a boolean value", ErrInvalidCredentials)
	}

	creds["developer_token"] = s.developerToken
	creds["customer_id"] = customerID

	return s.credentials.Upsert(ctx, mapping.BusinessName, creds)
}

// webCredentials reshapes a flat installed-app credentials document into the
// {"web": {...}} form the ads API expects, keeping developer_token and
// use_proto_plus at the top level. Documents already in web form pass through.
func webCredentials(creds map[string]interface{}) map[string]interface{} {
	if _, ok := creds["web"]; ok {
		return creds
	}

	inner := make(map[string]interface{})
	for key, value := range creds {
		switch key {
		case "developer_token", "use_proto_plus", "customer_id":
		default:
			inner[key] = value
		}
	}
	out := map[string]interface{}{"web": inner}
	out["developer_token"] = creds["developer_token"]
	if v, ok := creds["use_proto_plus"]; ok {
		out["use_proto_plus"] = v
	} else {
		out["use_proto_plus"] = true
	}
	return out
}

func (s *campaignService) StartAdFlow(ctx context.Context, guildID, userID string) (*view.Session, *adsapi.AuthResult, error) {
	mapping, err := resolveOnboarded(ctx, s.mappings, userID)
	if err != nil {
		return nil, nil, err
	}

	creds, err := s.credentials.Get(ctx, mapping.BusinessName)
	if err != nil {
		if errors.Is(err, contract.ErrNotFound) {
			return nil, nil, ErrNoCredentials
		}
		return nil, nil, err
	}

	customerID, _ := creds["customer_id"].(string)
	if customerID == "" {
		return nil, nil, fmt.Errorf("%w: customer ID not found in credentials", ErrInvalidCredentials)
	}

	web := webCredentials(creds)

	result, err := s.adsClient.Authenticate(ctx, customerID, web)
	if err != nil {
		return nil, nil, err
	}

	session := &view.Session{
		ID:          uuid.New().String(),
		GuildID:     guildID,
		UserID:      userID,
		Kind:        view.KindAdReview,
		Business:    mapping.BusinessName,
		Website:     mapping.WebsiteLink,
		CustomerID:  customerID,
		Credentials: web,
	}

	if result.Authorized() {
		s.attachRefreshToken(session, result.RefreshToken)
	} else {
		session.AuthURL = result.AuthURL
		session.AuthState = result.State
	}

	s.sessions.Save(session)
	return session, result, nil
}

// attachRefreshToken folds the token into the web credentials block so every
// subsequent API call is authorized.
func (s *campaignService) attachRefreshToken(session *view.Session, refreshToken string) {
	if inner, ok := session.Credentials["web"].(map[string]interface{}); ok {
		inner["refresh_token"] = refreshToken
	}
	session.Credentials["refresh_token"] = refreshToken
	session.Credentials["scopes"] = []string{"https://www.googleapis.com/auth/adwords"}
}

func (s *campaignService) CompleteAuth(ctx context.Context, sessionID string) (bool, error) {
	session, found := s.sessions.Get(sessionID)
	if !found {
		return false, ErrSessionExpired
	}
	if session.AuthState == "" {
		return true, nil
	}

	status, err := s.adsClient.CheckAuthStatus(ctx, session.AuthState)
	if err != nil {
		return false, err
	}
	if !status.Complete() || status.RefreshToken == "" {
		return false, nil
	}

	if err := s.credentials.SetRefreshToken(ctx, session.Business, status.RefreshToken); err != nil {
		s.logger.Error("CampaignService", "failed to persist refresh token", map[string]interface{}{"error": err.Error()})
	}

	s.attachRefreshToken(session, status.RefreshToken)
	session.AuthState = ""
	session.AuthURL = ""
	s.sessions.Save(session)
	return true, nil
}

func (s *campaignService) ListCampaigns(ctx context.Context, sessionID string) ([]adsapi.Campaign, error) {
	session, found := s.sessions.Get(sessionID)
	if !found {
		return nil, ErrSessionExpired
	}
	return s.adsClient.GetCampaigns(ctx, session.CustomerID, session.Credentials)
}

func (s *campaignService) UseCampaign(sessionID, name string) (*view.Session, error) {
	session, found := s.sessions.Get(sessionID)
	if !found {
		return nil, ErrSessionExpired
	}
	session.CampaignName = name
	s.sessions.Save(session)
	return session, nil
}

func (s *campaignService) CreateCampaign(ctx context.Context, sessionID, name string, dailyBudget float64, startDate, endDate string) (string, error) {
	session, found := s.sessions.Get(sessionID)
	if !found {
		return "", ErrSessionExpired
	}

	for _, date := range []string{startDate, endDate} {
		if _, err := time.Parse("2006-01-02", date); err != nil {
			return "", fmt.Errorf("invalid date %q, expected YYYY-MM-DD", date)
		}
	}

	campaignID, err := s.adsClient.CreateCampaign(ctx, adsapi.CampaignRequest{
		CampaignName: name,
		DailyBudget:  dailyBudget,
		StartDate:    startDate,
		EndDate:      endDate,
		CustomerID:   session.CustomerID,
		Credentials:  session.Credentials,
	})
	if err != nil {
		return "", err
	}

	session.CampaignName = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(name), "-"))
	s.sessions.Save(session)

	if err := s.publisherService.Publish(ctx, events.NewCampaignCreatedEvent(session.Business, session.CampaignName)); err != nil {
		s.logger.Error("CampaignService", "failed to publish campaign event", map[string]interface{}{"error": err.Error()})
	}
	return campaignID, nil
}

func (s *campaignService) OpenAdReview(ctx context.Context, sessionID string) (*view.Session, error) {
	session, found := s.sessions.Get(sessionID)
	if !found {
		return nil, ErrSessionExpired
	}

	doc, err := s.documents.Latest(ctx, session.Business)
	if err != nil {
		if errors.Is(err, contract.ErrNotFound) {
			return nil, ErrNoAdVariations
		}
		return nil, err
	}
	if len(doc.AdVariations) == 0 {
		return nil, ErrNoAdVariations
	}

	session.DocID = doc.ID
	session.Revision = doc.Revision
	session.AdVariations = doc.AdVariations
	session.Overlay = view.NewOverlay(doc.FinalizedAdText)
	session.Pager = view.NewPager(len(doc.AdVariations), 1)
	session.SelectedAds = make(map[int]bool)
	s.sessions.Save(session)
	return session, nil
}

func (s *campaignService) ToggleAd(sessionID string, index int) (*view.Session, error) {
	session, found := s.sessions.Get(sessionID)
	if !found {
		return nil, ErrSessionExpired
	}
	if index < 0 || index >= len(session.AdVariations) {
		return session, nil
	}

	if session.SelectedAds[index] {
		delete(session.SelectedAds, index)
	} else {
		session.SelectedAds[index] = true
	}
	s.sessions.Save(session)
	return session, nil
}

func (s *campaignService) EditReviewAd(sessionID string, index int, headlines, descriptions, keywords []string) (*view.Session, error) {
	session, found := s.sessions.Get(sessionID)
	if !found {
		return nil, ErrSessionExpired
	}
	if index < 0 || index >= len(session.AdVariations) {
		return session, nil
	}

	if err := view.ValidateAdVariation(headlines, descriptions); err != nil {
		return nil, err
	}

	session.AdVariations[index] = entity.AdVariation{
		Headlines:    headlines,
		Descriptions: descriptions,
		Keywords:     keywords,
	}
	// The edited text supersedes any stored override for this index.
	if session.Overlay != nil {
		session.Overlay.Remove(index)
	}
	if session.SelectedAds == nil {
		session.SelectedAds = make(map[int]bool)
	}
	session.SelectedAds[index] = true
	s.sessions.Save(session)
	return session, nil
}

func (s *campaignService) CreateAds(ctx context.Context, sessionID string) (int, int, error) {
	session, found := s.sessions.Get(sessionID)
	if !found {
		return 0, 0, ErrSessionExpired
	}

	attempted := 0
	succeeded := 0
	for index, selected := range session.SelectedAds {
		if !selected || index >= len(session.AdVariations) {
			continue
		}
		attempted++

		variation := session.AdVariations[index]
		headlines := append([]string(nil), variation.Headlines...)
		descriptions := append([]string(nil), variation.Descriptions...)
		if headline, description, finalized := session.Overlay.Resolve(index, variation); finalized {
			if len(headlines) > 0 {
				headlines[0] = headline
			} else {
				headlines = []string{headline}
			}
			if len(descriptions) > 0 {
				descriptions[0] = description
			} else {
				descriptions = []string{description}
			}
		}

		err := s.adsClient.CreateAd(ctx, adsapi.AdRequest{
			CustomerID:      session.CustomerID,
			BusinessWebsite: session.Website,
			CampaignName:    session.CampaignName,
			Headlines:       headlines,
			Descriptions:    descriptions,
			Keywords:        variation.Keywords,
			Credentials:     session.Credentials,
		})
		if err != nil {
			s.logger.Error("CampaignService", "failed to create ad", map[string]interface{}{
				"index": index,
				"error": err.Error(),
			})
			continue
		}
		succeeded++
	}

	s.sessions.Delete(sessionID)

	if err := s.publisherService.Publish(ctx, events.NewAdsCreatedEvent(session.Business, succeeded, attempted)); err != nil {
		s.logger.Error("CampaignService", "failed to publish ads event", map[string]interface{}{"error": err.Error()})
	}
	return succeeded, attempted, nil
}
