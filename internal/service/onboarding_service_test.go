package service

import (
	"context"
	"testing"

	"adalchemy-bot/pkg/store"
)

func setupOnboarding(t *testing.T) (IOnboardingService, *fakeMappings, *fakeConversations, *fakePublisher, *fakeDocuments) {
	t.Helper()
	mappings := newFakeMappings()
	documents := newFakeDocuments()
	conversations := newFakeConversations()
	publisher := &fakePublisher{}
	svc := NewOnboardingService(mappings, documents, conversations, publisher, "https://calendly.example.com/30min", nopLogger{})
	return svc, mappings, conversations, publisher, documents
}

func TestOnboardingHappyPath(t *testing.T) {
	ctx := context.Background()
	svc, mappings, conversations, _, _ := setupOnboarding(t)

	join, err := svc.HandleGuildJoin(ctx, "guild-1", "owner-1", "https://hooks.example.com/wh")
	if err != nil {
		t.Fatal(err)
	}
	if len(join.Messages) == 0 || join.Onboarded {
		t.Fatalf("join = %+v", join)
	}
	if conversations.byGuild["guild-1"].Stage != store.StageAwaitingBusinessName {
		t.Fatalf("stage = %s", conversations.byGuild["guild-1"].Stage)
	}

	// Business name is lower-cased before persisting.
	reply, err := svc.HandleMessage(ctx, "guild-1", "owner-1", "Acme Co")
	if err != nil {
		t.Fatal(err)
	}
	if reply == nil || len(reply.Messages) == 0 {
		t.Fatal("expected a website prompt")
	}
	if mappings.byOwner["owner-1"].BusinessName != "acme co" {
		t.Errorf("persisted name = %q", mappings.byOwner["owner-1"].BusinessName)
	}
	if conversations.byGuild["guild-1"].Stage != store.StageAwaitingWebsite {
		t.Errorf("stage = %s", conversations.byGuild["guild-1"].Stage)
	}

	// A non-URL stays at the website stage and persists nothing.
	reply, err = svc.HandleMessage(ctx, "guild-1", "owner-1", "not-a-url")
	if err != nil {
		t.Fatal(err)
	}
	if reply == nil || reply.PromptConsent {
		t.Fatalf("reply = %+v", reply)
	}
	if mappings.byOwner["owner-1"].WebsiteLink != "" {
		t.Error("invalid URL was persisted")
	}
	if conversations.byGuild["guild-1"].Stage != store.StageAwaitingWebsite {
		t.Errorf("stage advanced on invalid URL: %s", conversations.byGuild["guild-1"].Stage)
	}

	// The URL is persisted verbatim and consent is prompted.
	reply, err = svc.HandleMessage(ctx, "guild-1", "owner-1", "https://acme.example.com")
	if err != nil {
		t.Fatal(err)
	}
	if !reply.PromptConsent {
		t.Fatal("expected consent prompt")
	}
	if mappings.byOwner["owner-1"].WebsiteLink != "https://acme.example.com" {
		t.Errorf("persisted link = %q", mappings.byOwner["owner-1"].WebsiteLink)
	}
	if conversations.byGuild["guild-1"].Stage != store.StageAwaitingConsent {
		t.Errorf("stage = %s", conversations.byGuild["guild-1"].Stage)
	}
}

func TestOnboardingConsentYesCompletesAndPublishes(t *testing.T) {
	ctx := context.Background()
	svc, _, conversations, publisher, documents := setupOnboarding(t)

	runToConsent(t, svc, ctx)

	reply, err := svc.HandleConsent(ctx, "guild-1", true)
	if err != nil {
		t.Fatal(err)
	}
	if reply == nil || reply.PromptConsent {
		t.Fatalf("reply = %+v", reply)
	}
	if conversations.byGuild["guild-1"].Stage != store.StageComplete {
		t.Errorf("stage = %s", conversations.byGuild["guild-1"].Stage)
	}
	if len(publisher.published) != 1 || publisher.published[0].EventType() != "ONBOARDING_COMPLETED" {
		t.Errorf("published = %+v", publisher.published)
	}

	// The confirmed name and website seed the marketing document for the
	// research pipeline.
	doc, ok := documents.docs["acme co"]
	if !ok || doc.Business != "acme co" {
		t.Fatalf("seeded document = %+v", doc)
	}
	if documents.seededWebsites["acme co"] != "https://acme.example.com" {
		t.Errorf("seeded website = %q", documents.seededWebsites["acme co"])
	}
}

func TestOnboardingConsentTwoStrikes(t *testing.T) {
	ctx := context.Background()
	svc, _, conversations, _, _ := setupOnboarding(t)

	runToConsent(t, svc, ctx)

	// First "No": still awaiting consent, second chance armed.
	reply, err := svc.HandleConsent(ctx, "guild-1", false)
	if err != nil {
		t.Fatal(err)
	}
	if !reply.PromptConsent {
		t.Fatal("first No should re-prompt")
	}
	conv := conversations.byGuild["guild-1"]
	if conv.Stage != store.StageAwaitingConsent || !conv.SecondChance {
		t.Fatalf("conv = %+v", conv)
	}

	// Second "No": conversation over.
	reply, err = svc.HandleConsent(ctx, "guild-1", false)
	if err != nil {
		t.Fatal(err)
	}
	if reply.PromptConsent {
		t.Error("second No should not re-prompt")
	}
	if conversations.byGuild["guild-1"].Stage != store.StageEnded {
		t.Errorf("stage = %s", conversations.byGuild["guild-1"].Stage)
	}

	// Terminal: further messages are dropped.
	dropped, err := svc.HandleMessage(ctx, "guild-1", "owner-1", "hello again")
	if err != nil || dropped != nil {
		t.Errorf("message after end: reply=%+v err=%v", dropped, err)
	}
}

func TestOnboardingFailedWriteDoesNotAdvance(t *testing.T) {
	ctx := context.Background()
	svc, mappings, conversations, _, _ := setupOnboarding(t)

	if _, err := svc.HandleGuildJoin(ctx, "guild-1", "owner-1", ""); err != nil {
		t.Fatal(err)
	}

	mappings.failWrites = true
	if _, err := svc.HandleMessage(ctx, "guild-1", "owner-1", "Acme Co"); err == nil {
		t.Fatal("expected write failure to surface")
	}
	if conversations.byGuild["guild-1"].Stage != store.StageAwaitingBusinessName {
		t.Errorf("stage advanced past failed write: %s", conversations.byGuild["guild-1"].Stage)
	}
}

func TestOnboardingMessageWithoutMappingDropped(t *testing.T) {
	ctx := context.Background()
	svc, _, conversations, _, _ := setupOnboarding(t)

	conversations.byGuild["guild-2"] = &store.Conversation{
		GuildID: "guild-2",
		Stage:   store.StageAwaitingBusinessName,
	}

	reply, err := svc.HandleMessage(ctx, "guild-2", "stranger", "Some Business")
	if err != nil || reply != nil {
		t.Errorf("expected silent drop, got reply=%+v err=%v", reply, err)
	}
}

func TestGuildJoinForReturningOwner(t *testing.T) {
	ctx := context.Background()
	svc, mappings, conversations, _, _ := setupOnboarding(t)

	if _, err := svc.HandleGuildJoin(ctx, "guild-1", "owner-1", "https://hooks.example.com/a"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.HandleMessage(ctx, "guild-1", "owner-1", "Acme Co"); err != nil {
		t.Fatal(err)
	}
	mappings.byOwner["owner-1"].Onboarded = true

	join, err := svc.HandleGuildJoin(ctx, "guild-3", "owner-1", "https://hooks.example.com/b")
	if err != nil {
		t.Fatal(err)
	}
	if !join.Onboarded {
		t.Error("returning onboarded owner not recognized")
	}
	if mappings.byOwner["owner-1"].WebhookURL != "https://hooks.example.com/b" {
		t.Errorf("webhook not refreshed: %q", mappings.byOwner["owner-1"].WebhookURL)
	}
	// The owner set must not grow a duplicate.
	if len(mappings.byOwner["owner-1"].OwnerIDs) != 1 {
		t.Errorf("owner ids = %v", mappings.byOwner["owner-1"].OwnerIDs)
	}
	// No new dialogue for a returning owner.
	if _, ok := conversations.byGuild["guild-3"]; ok {
		t.Error("dialogue opened for returning owner")
	}
}

func runToConsent(t *testing.T, svc IOnboardingService, ctx context.Context) {
	t.Helper()
	if _, err := svc.HandleGuildJoin(ctx, "guild-1", "owner-1", ""); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.HandleMessage(ctx, "guild-1", "owner-1", "Acme Co"); err != nil {
		t.Fatal(err)
	}
	reply, err := svc.HandleMessage(ctx, "guild-1", "owner-1", "https://acme.example.com")
	if err != nil || !reply.PromptConsent {
		t.Fatalf("could not reach consent stage: reply=%+v err=%v", reply, err)
	}
}
