package service

import (
	"context"
	"errors"
	"strings"

	"adalchemy-bot/internal/entity"
	"adalchemy-bot/internal/repository/contract"
	"adalchemy-bot/pkg/adsapi"
	"adalchemy-bot/pkg/events"
	"adalchemy-bot/pkg/store"
	"adalchemy-bot/pkg/view"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

type fakePublisher struct {
	published []events.Event
}

func (p *fakePublisher) Publish(_ context.Context, event events.Event) error {
	p.published = append(p.published, event)
	return nil
}

type fakeMappings struct {
	byOwner    map[string]*entity.BusinessMapping
	failWrites bool
}

func newFakeMappings() *fakeMappings {
	return &fakeMappings{byOwner: make(map[string]*entity.BusinessMapping)}
}

func (f *fakeMappings) FindByOwner(_ context.Context, ownerID string) (*entity.BusinessMapping, error) {
	if m, ok := f.byOwner[ownerID]; ok {
		copied := *m
		return &copied, nil
	}
	return nil, contract.ErrNotFound
}

func (f *fakeMappings) FindByBusiness(_ context.Context, businessName string) (*entity.BusinessMapping, error) {
	for _, m := range f.byOwner {
		if m.BusinessName == businessName {
			copied := *m
			return &copied, nil
		}
	}
	return nil, contract.ErrNotFound
}

func (f *fakeMappings) Insert(_ context.Context, mapping *entity.BusinessMapping) error {
	if f.failWrites {
		return errors.New("write failed")
	}
	for _, owner := range mapping.OwnerIDs {
		f.byOwner[owner] = mapping
	}
	return nil
}

func (f *fakeMappings) AttachOwner(_ context.Context, businessName, ownerID, webhookURL string) error {
	if f.failWrites {
		return errors.New("write failed")
	}
	m, err := f.FindByBusiness(context.Background(), businessName)
	if err != nil {
		return err
	}
	found := false
	for _, id := range m.OwnerIDs {
		if id == ownerID {
			found = true
		}
	}
	if !found {
		m.OwnerIDs = append(m.OwnerIDs, ownerID)
	}
	if webhookURL != "" {
		m.WebhookURL = webhookURL
	}
	f.byOwner[ownerID] = m
	return nil
}

func (f *fakeMappings) SetBusinessName(_ context.Context, ownerID, businessName string) error {
	if f.failWrites {
		return errors.New("write failed")
	}
	m, ok := f.byOwner[ownerID]
	if !ok {
		return contract.ErrNotFound
	}
	m.BusinessName = businessName
	return nil
}

func (f *fakeMappings) SetWebsiteLink(_ context.Context, businessName, websiteLink string) error {
	if f.failWrites {
		return errors.New("write failed")
	}
	for _, m := range f.byOwner {
		if m.BusinessName == businessName {
			m.WebsiteLink = websiteLink
			return nil
		}
	}
	return contract.ErrNotFound
}

func (f *fakeMappings) SetOnboarded(_ context.Context, businessName string, onboarded bool) error {
	for _, m := range f.byOwner {
		if m.BusinessName == businessName {
			m.Onboarded = onboarded
			return nil
		}
	}
	return contract.ErrNotFound
}

type fakeConversations struct {
	byGuild map[string]*store.Conversation
}

func newFakeConversations() *fakeConversations {
	return &fakeConversations{byGuild: make(map[string]*store.Conversation)}
}

func (f *fakeConversations) Get(_ context.Context, guildID string) (*store.Conversation, bool, error) {
	if c, ok := f.byGuild[guildID]; ok {
		copied := *c
		return &copied, true, nil
	}
	return nil, false, nil
}

func (f *fakeConversations) Save(_ context.Context, conv *store.Conversation) error {
	copied := *conv
	f.byGuild[conv.GuildID] = &copied
	return nil
}

func (f *fakeConversations) Delete(_ context.Context, guildID string) error {
	delete(f.byGuild, guildID)
	return nil
}

// fakeDocuments keeps one document per business and enforces the revision
// guard the way the mongo implementation does. writeCount covers every
// mutating call so tests can assert "no store write happened".
type fakeDocuments struct {
	docs           map[string]*entity.BusinessDocument
	seededWebsites map[string]string
	writeCount     int
}

func newFakeDocuments() *fakeDocuments {
	return &fakeDocuments{docs: make(map[string]*entity.BusinessDocument)}
}

func (f *fakeDocuments) key(businessName string) string { return strings.ToLower(businessName) }

func (f *fakeDocuments) Latest(_ context.Context, businessName string) (*entity.BusinessDocument, error) {
	if d, ok := f.docs[f.key(businessName)]; ok {
		copied := *d
		return &copied, nil
	}
	return nil, contract.ErrNotFound
}

func (f *fakeDocuments) guard(businessName string, id primitive.ObjectID, revision int64) (*entity.BusinessDocument, error) {
	d, ok := f.docs[f.key(businessName)]
	if !ok || d.ID != id || d.Revision != revision {
		return nil, contract.ErrRevisionConflict
	}
	return d, nil
}

func (f *fakeDocuments) ReplaceSelectedKeywords(_ context.Context, businessName string, id primitive.ObjectID, revision int64, selected []entity.Keyword) error {
	d, err := f.guard(businessName, id, revision)
	if err != nil {
		return err
	}
	f.writeCount++
	d.SelectedKeywords = selected
	d.Revision++
	return nil
}

func (f *fakeDocuments) InsertWithSelectedKeywords(_ context.Context, businessName string, selected []entity.Keyword) error {
	f.writeCount++
	f.docs[f.key(businessName)] = &entity.BusinessDocument{
		ID:               primitive.NewObjectID(),
		SelectedKeywords: selected,
		Revision:         1,
	}
	return nil
}

func (f *fakeDocuments) ReplaceFinalizedAds(_ context.Context, businessName string, id primitive.ObjectID, revision int64, finalized []entity.FinalizedAd) error {
	d, err := f.guard(businessName, id, revision)
	if err != nil {
		return err
	}
	f.writeCount++
	d.FinalizedAdText = finalized
	d.Revision++
	return nil
}

func (f *fakeDocuments) InsertWithFinalizedAds(_ context.Context, businessName string, finalized []entity.FinalizedAd) error {
	f.writeCount++
	f.docs[f.key(businessName)] = &entity.BusinessDocument{
		ID:              primitive.NewObjectID(),
		FinalizedAdText: finalized,
		Revision:        1,
	}
	return nil
}

func (f *fakeDocuments) DeleteVariation(_ context.Context, businessName string, id primitive.ObjectID, revision int64, variations []entity.AdVariation, finalized []entity.FinalizedAd) error {
	d, err := f.guard(businessName, id, revision)
	if err != nil {
		return err
	}
	f.writeCount++
	d.AdVariations = variations
	d.FinalizedAdText = finalized
	d.Revision++
	return nil
}

func (f *fakeDocuments) SetBusinessInfo(_ context.Context, businessName, websiteLink string) error {
	f.writeCount++
	if f.seededWebsites == nil {
		f.seededWebsites = make(map[string]string)
	}
	f.seededWebsites[f.key(businessName)] = websiteLink
	d, ok := f.docs[f.key(businessName)]
	if !ok {
		f.docs[f.key(businessName)] = &entity.BusinessDocument{
			ID:       primitive.NewObjectID(),
			Business: businessName,
			Revision: 1,
		}
		return nil
	}
	d.Business = businessName
	return nil
}

func (f *fakeDocuments) SetBusinessText(_ context.Context, businessName string, id primitive.ObjectID, text string) error {
	d, ok := f.docs[f.key(businessName)]
	if !ok || d.ID != id {
		return contract.ErrNotFound
	}
	f.writeCount++
	d.Business = text
	return nil
}

func (f *fakeDocuments) PushPath(_ context.Context, businessName string, id primitive.ObjectID, path string) error {
	d, ok := f.docs[f.key(businessName)]
	if !ok || d.ID != id {
		return contract.ErrNotFound
	}
	f.writeCount++
	d.PathsTaken = append(d.PathsTaken, path)
	return nil
}

func (f *fakeDocuments) PushPersona(_ context.Context, businessName string, id primitive.ObjectID, persona entity.Persona) error {
	d, ok := f.docs[f.key(businessName)]
	if !ok || d.ID != id {
		return contract.ErrNotFound
	}
	f.writeCount++
	d.UserPersonas = append(d.UserPersonas, persona)
	return nil
}

func (f *fakeDocuments) SetPersona(_ context.Context, businessName string, id primitive.ObjectID, index int, persona entity.Persona) error {
	d, ok := f.docs[f.key(businessName)]
	if !ok || d.ID != id || index >= len(d.UserPersonas) {
		return contract.ErrNotFound
	}
	f.writeCount++
	d.UserPersonas[index] = persona
	return nil
}

func (f *fakeDocuments) PullPersona(_ context.Context, businessName string, id primitive.ObjectID, persona entity.Persona) error {
	d, ok := f.docs[f.key(businessName)]
	if !ok || d.ID != id {
		return contract.ErrNotFound
	}
	f.writeCount++
	kept := d.UserPersonas[:0]
	for _, p := range d.UserPersonas {
		if p.Title != persona.Title {
			kept = append(kept, p)
		}
	}
	d.UserPersonas = kept
	return nil
}

type fakeCredentials struct {
	byBusiness    map[string]map[string]interface{}
	refreshTokens map[string]string
}

func newFakeCredentials() *fakeCredentials {
	return &fakeCredentials{
		byBusiness:    make(map[string]map[string]interface{}),
		refreshTokens: make(map[string]string),
	}
}

func (f *fakeCredentials) Get(_ context.Context, businessName string) (map[string]interface{}, error) {
	creds, ok := f.byBusiness[strings.ToLower(businessName)]
	if !ok {
		return nil, contract.ErrNotFound
	}
	copied := make(map[string]interface{}, len(creds))
	for k, v := range creds {
		copied[k] = v
	}
	return copied, nil
}

func (f *fakeCredentials) Upsert(_ context.Context, businessName string, credentials map[string]interface{}) error {
	f.byBusiness[strings.ToLower(businessName)] = credentials
	return nil
}

func (f *fakeCredentials) SetRefreshToken(_ context.Context, businessName, refreshToken string) error {
	key := strings.ToLower(businessName)
	if _, ok := f.byBusiness[key]; !ok {
		return contract.ErrNotFound
	}
	f.refreshTokens[key] = refreshToken
	f.byBusiness[key]["refresh_token"] = refreshToken
	return nil
}

type fakeViewSessions struct {
	sessions map[string]*view.Session
}

func newFakeViewSessions() *fakeViewSessions {
	return &fakeViewSessions{sessions: make(map[string]*view.Session)}
}

func (f *fakeViewSessions) Get(sessionID string) (*view.Session, bool) {
	s, ok := f.sessions[sessionID]
	return s, ok
}

func (f *fakeViewSessions) Save(session *view.Session) { f.sessions[session.ID] = session }

func (f *fakeViewSessions) Delete(sessionID string) { delete(f.sessions, sessionID) }

type fakeAdsAPI struct {
	authResult  *adsapi.AuthResult
	authStatus  *adsapi.AuthStatus
	campaigns   []adsapi.Campaign
	campaignID  string
	failAdAt    map[int]bool // fail the nth CreateAd call (0-based)
	createCalls int
	adRequests  []adsapi.AdRequest
}

func (f *fakeAdsAPI) Authenticate(context.Context, string, map[string]interface{}) (*adsapi.AuthResult, error) {
	return f.authResult, nil
}

func (f *fakeAdsAPI) CheckAuthStatus(context.Context, string) (*adsapi.AuthStatus, error) {
	return f.authStatus, nil
}

func (f *fakeAdsAPI) GetCampaigns(context.Context, string, map[string]interface{}) ([]adsapi.Campaign, error) {
	return f.campaigns, nil
}

func (f *fakeAdsAPI) CreateCampaign(context.Context, adsapi.CampaignRequest) (string, error) {
	return f.campaignID, nil
}

func (f *fakeAdsAPI) CreateAd(_ context.Context, req adsapi.AdRequest) error {
	call := f.createCalls
	f.createCalls++
	f.adRequests = append(f.adRequests, req)
	if f.failAdAt[call] {
		return &adsapi.APIError{StatusCode: 500, Body: "boom"}
	}
	return nil
}
