package redisstore

import (
	"context"
	"testing"
	"time"

	"adalchemy-bot/pkg/store"

	"github.com/redis/go-redis/v9"
)

// fakeCommands keeps values in a map so the repository can be exercised
// without a server; result constructors come from go-redis itself.
type fakeCommands struct {
	values map[string]string
}

func newFakeCommands() *fakeCommands {
	return &fakeCommands{values: make(map[string]string)}
}

func (f *fakeCommands) Get(ctx context.Context, key string) *redis.StringCmd {
	if v, ok := f.values[key]; ok {
		return redis.NewStringResult(v, nil)
	}
	return redis.NewStringResult("", redis.Nil)
}

func (f *fakeCommands) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	f.values[key] = string(value.([]byte))
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeCommands) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	var removed int64
	for _, k := range keys {
		if _, ok := f.values[k]; ok {
			delete(f.values, k)
			removed++
		}
	}
	return redis.NewIntResult(removed, nil)
}

func TestConversationSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	backend := newFakeCommands()

	first := &ConversationRepository{client: backend}
	err := first.Save(ctx, &store.Conversation{
		GuildID:      "guild-1",
		Stage:        store.StageAwaitingConsent,
		SecondChance: true,
		BusinessName: "acme co",
	})
	if err != nil {
		t.Fatal(err)
	}

	// A fresh repository over the same backend stands in for the process
	// coming back up.
	second := &ConversationRepository{client: backend}
	conv, found, err := second.Get(ctx, "guild-1")
	if err != nil {
		t.Fatal(err)
	}
	if !found {
		t.Fatal("conversation gone after restart")
	}
	if conv.Stage != store.StageAwaitingConsent || !conv.SecondChance || conv.BusinessName != "acme co" {
		t.Errorf("conversation = %+v", conv)
	}
	if conv.UpdatedAt.IsZero() {
		t.Error("save did not stamp updated_at")
	}
}

func TestGetUnknownGuild(t *testing.T) {
	repo := &ConversationRepository{client: newFakeCommands()}

	conv, found, err := repo.Get(context.Background(), "guild-9")
	if err != nil {
		t.Fatal(err)
	}
	if found || conv != nil {
		t.Errorf("conv=%+v found=%v", conv, found)
	}
}

func TestDeleteEndsConversation(t *testing.T) {
	ctx := context.Background()
	backend := newFakeCommands()
	repo := &ConversationRepository{client: backend}

	if err := repo.Save(ctx, &store.Conversation{GuildID: "guild-1", Stage: store.StageAwaitingWebsite}); err != nil {
		t.Fatal(err)
	}
	if err := repo.Delete(ctx, "guild-1"); err != nil {
		t.Fatal(err)
	}
	if _, found, _ := repo.Get(ctx, "guild-1"); found {
		t.Error("conversation survived delete")
	}
}
