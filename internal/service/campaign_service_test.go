package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"adalchemy-bot/internal/entity"
	"adalchemy-bot/pkg/adsapi"
	"adalchemy-bot/pkg/view"
)

func validCredentials() map[string]interface{} {
	return map[string]interface{}{
		"client_id":                   "id.apps.example.com",
		"project_id":                  "acme-ads",
		"auth_uri":                    "https://accounts.example.com/o/oauth2/auth",
		"auth_provider_x509_cert_url": "https://www.example.com/oauth2/v1/certs",
		"client_secret":               "shhh",
		"use_proto_plus":              true,
	}
}

func setupCampaign(t *testing.T, ads *fakeAdsAPI) (ICampaignService, *fakeMappings, *fakeDocuments, *fakeCredentials, *fakeViewSessions) {
	t.Helper()
	mappings := newFakeMappings()
	documents := newFakeDocuments()
	credentials := newFakeCredentials()
	sessions := newFakeViewSessions()
	svc := NewCampaignService(mappings, documents, credentials, sessions, ads, &fakePublisher{}, "dev-token", nopLogger{})
	return svc, mappings, documents, credentials, sessions
}

func TestUploadCredentialsValidation(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		mutate   func(map[string]interface{})
		wantErr  bool
	}{
		{name: "valid", filename: "creds.json", mutate: func(map[string]interface{}) {}, wantErr: false},
		{name: "not a json file", filename: "creds.txt", mutate: func(map[string]interface{}) {}, wantErr: true},
		{name: "missing client_secret", filename: "creds.json", mutate: func(m map[string]interface{}) { delete(m, "client_secret") }, wantErr: true},
		{name: "use_proto_plus not bool", filename: "creds.json", mutate: func(m map[string]interface{}) { m["use_proto_plus"] = "yes" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mappings, documents, credentials, _ := setupCampaign(t, &fakeAdsAPI{})
			seedOnboardedBusiness(mappings, documents, entity.BusinessDocument{})

			creds := validCredentials()
			tt.mutate(creds)
			content, _ := json.Marshal(creds)

			err := svc.UploadCredentials(context.Background(), "owner-1", tt.filename, content, "123-456-7890")
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidCredentials) {
					t.Errorf("err not wrapped: %v", err)
				}
				if _, getErr := credentials.Get(context.Background(), "acme co"); getErr == nil {
					t.Error("invalid credentials were stored")
				}
				return
			}

			stored, getErr := credentials.Get(context.Background(), "acme co")
			if getErr != nil {
				t.Fatal(getErr)
			}
			if stored["developer_token"] != "dev-token" || stored["customer_id"] != "123-456-7890" {
				t.Errorf("stored = %+v", stored)
			}
		})
	}
}

func TestStartAdFlowWithoutCredentials(t *testing.T) {
	svc, mappings, documents, _, _ := setupCampaign(t, &fakeAdsAPI{})
	seedOnboardedBusiness(mappings, documents, entity.BusinessDocument{})

	_, _, err := svc.StartAdFlow(context.Background(), "guild-1", "owner-1")
	if !errors.Is(err, ErrNoCredentials) {
		t.Fatalf("err = %v", err)
	}
}

func TestStartAdFlowPendingConsentThenComplete(t *testing.T) {
	ctx := context.Background()
	ads := &fakeAdsAPI{
		authResult: &adsapi.AuthResult{AuthURL: "https://consent.example.com", State: "st-1"},
		authStatus: &adsapi.AuthStatus{Status: "complete", RefreshToken: "tok-9"},
	}
	svc, mappings, documents, credentials, _ := setupCampaign(t, ads)
	seedOnboardedBusiness(mappings, documents, entity.BusinessDocument{})

	creds := validCredentials()
	creds["developer_token"] = "dev-token"
	creds["customer_id"] = "123"
	if err := credentials.Upsert(ctx, "acme co", creds); err != nil {
		t.Fatal(err)
	}

	session, result, err := svc.StartAdFlow(ctx, "guild-1", "owner-1")
	if err != nil {
		t.Fatal(err)
	}
	if result.Authorized() || session.AuthState != "st-1" {
		t.Fatalf("result=%+v session state=%q", result, session.AuthState)
	}

	done, err := svc.CompleteAuth(ctx, session.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !done {
		t.Fatal("consent flow not completed")
	}
	if credentials.refreshTokens["acme co"] != "tok-9" {
		t.Errorf("refresh token not persisted: %+v", credentials.refreshTokens)
	}
	if session.AuthState != "" {
		t.Error("auth state not cleared")
	}
}

func TestEditReviewAd(t *testing.T) {
	ctx := context.Background()
	ads := &fakeAdsAPI{authResult: &adsapi.AuthResult{RefreshToken: "tok-1"}}
	svc, mappings, documents, credentials, _ := setupCampaign(t, ads)
	seedOnboardedBusiness(mappings, documents, entity.BusinessDocument{
		AdVariations: threeVariations(),
		FinalizedAdText: []entity.FinalizedAd{
			{Index: 1, Headline: "Final One", Description: "final one"},
		},
	})

	creds := validCredentials()
	creds["developer_token"] = "dev-token"
	creds["customer_id"] = "123"
	if err := credentials.Upsert(ctx, "acme co", creds); err != nil {
		t.Fatal(err)
	}

	session, _, err := svc.StartAdFlow(ctx, "guild-1", "owner-1")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.UseCampaign(session.ID, "spring sale"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.OpenAdReview(ctx, session.ID); err != nil {
		t.Fatal(err)
	}

	_, err = svc.EditReviewAd(session.ID, 1,
		[]string{strings.Repeat("x", view.MaxHeadlineLen+1)},
		[]string{"ok"}, []string{"plumber"})
	var verr *view.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v", err)
	}
	if session.AdVariations[1].Headlines[0] != "Cheap Plumbing" {
		t.Error("rejected edit replaced the variation")
	}
	if session.SelectedAds[1] {
		t.Error("rejected edit marked the ad selected")
	}

	edited, err := svc.EditReviewAd(session.ID, 1,
		[]string{"Better Plumbing"}, []string{"Now cheaper"}, []string{"plumber deals"})
	if err != nil {
		t.Fatal(err)
	}
	if edited.AdVariations[1].Headlines[0] != "Better Plumbing" {
		t.Errorf("variation = %+v", edited.AdVariations[1])
	}
	if !edited.SelectedAds[1] {
		t.Error("edited ad not selected")
	}
	if _, ok := edited.Overlay.At(1); ok {
		t.Error("stale override survived the edit")
	}
}

func TestCreateAdsCountsSuccesses(t *testing.T) {
	ctx := context.Background()
	ads := &fakeAdsAPI{
		authResult: &adsapi.AuthResult{RefreshToken: "tok-1"},
		failAdAt:   map[int]bool{1: true},
	}
	svc, mappings, documents, credentials, sessions := setupCampaign(t, ads)
	seedOnboardedBusiness(mappings, documents, entity.BusinessDocument{
		AdVariations: threeVariations(),
		FinalizedAdText: []entity.FinalizedAd{
			{Index: 0, Headline: "Final Zero", Description: "final zero"},
		},
	})

	creds := validCredentials()
	creds["developer_token"] = "dev-token"
	creds["customer_id"] = "123"
	if err := credentials.Upsert(ctx, "acme co", creds); err != nil {
		t.Fatal(err)
	}

	session, _, err := svc.StartAdFlow(ctx, "guild-1", "owner-1")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.UseCampaign(session.ID, "spring sale"); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.OpenAdReview(ctx, session.ID); err != nil {
		t.Fatal(err)
	}
	for index := 0; index < 3; index++ {
		if _, err := svc.ToggleAd(session.ID, index); err != nil {
			t.Fatal(err)
		}
	}

	succeeded, attempted, err := svc.CreateAds(ctx, session.ID)
	if err != nil {
		t.Fatal(err)
	}
	if attempted != 3 || succeeded != 2 {
		t.Fatalf("succeeded %d of %d", succeeded, attempted)
	}

	// The finalized override rides along in place of the generated first
	// headline.
	foundOverride := false
	for _, req := range ads.adRequests {
		if len(req.Headlines) > 0 && req.Headlines[0] == "Final Zero" {
			foundOverride = true
		}
		if req.CampaignName != "spring sale" || req.BusinessWebsite != "https://acme.example.com" {
			t.Errorf("request = %+v", req)
		}
	}
	if !foundOverride {
		t.Error("finalized override missing from ad requests")
	}

	if _, ok := sessions.Get(session.ID); ok {
		t.Error("session survived the terminal create")
	}
}
