package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"adalchemy-bot/internal/entity"
)

func setupBusiness(t *testing.T) (IBusinessService, *fakeMappings, *fakeDocuments) {
	t.Helper()
	mappings := newFakeMappings()
	documents := newFakeDocuments()
	svc := NewBusinessService(mappings, documents, newFakeViewSessions())
	return svc, mappings, documents
}

func TestOpenBusinessInfoGates(t *testing.T) {
	ctx := context.Background()

	t.Run("no mapping", func(t *testing.T) {
		svc, _, _ := setupBusiness(t)
		_, err := svc.OpenBusinessInfo(ctx, "guild-1", "stranger")
		if !errors.Is(err, ErrNoBusiness) {
			t.Fatalf("err = %v, want ErrNoBusiness", err)
		}
	})

	t.Run("not onboarded", func(t *testing.T) {
		svc, mappings, _ := setupBusiness(t)
		mappings.byOwner["owner-1"] = &entity.BusinessMapping{
			OwnerIDs:     []string{"owner-1"},
			BusinessName: "acme co",
		}
		_, err := svc.OpenBusinessInfo(ctx, "guild-1", "owner-1")
		if !errors.Is(err, ErrNotOnboarded) {
			t.Fatalf("err = %v, want ErrNotOnboarded", err)
		}
	})

	t.Run("no research document", func(t *testing.T) {
		svc, mappings, _ := setupBusiness(t)
		mappings.byOwner["owner-1"] = &entity.BusinessMapping{
			OwnerIDs:     []string{"owner-1"},
			BusinessName: "acme co",
			Onboarded:    true,
		}
		_, err := svc.OpenBusinessInfo(ctx, "guild-1", "owner-1")
		if !errors.Is(err, ErrNoDocument) {
			t.Fatalf("err = %v, want ErrNoDocument", err)
		}
	})
}

func TestEditBusinessInfoRepaginates(t *testing.T) {
	ctx := context.Background()
	svc, mappings, documents := setupBusiness(t)
	seedOnboardedBusiness(mappings, documents, entity.BusinessDocument{Business: "We fix pipes."})

	session, err := svc.OpenBusinessInfo(ctx, "guild-1", "owner-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(session.Pages) != 1 {
		t.Fatalf("pages = %d, want 1", len(session.Pages))
	}

	long := strings.Repeat("We fix pipes fast. ", 120) // well past one page
	session, err = svc.EditBusinessInfo(ctx, session.ID, long)
	if err != nil {
		t.Fatal(err)
	}

	if documents.docs["acme co"].Business != long {
		t.Error("edited text not persisted")
	}
	if len(session.Pages) < 2 {
		t.Errorf("pages = %d, want repagination across several pages", len(session.Pages))
	}
	if session.Pager.Page() != 0 {
		t.Errorf("cursor = %d, want reset to 0", session.Pager.Page())
	}
}

func TestAddPathAppends(t *testing.T) {
	ctx := context.Background()
	svc, mappings, documents := setupBusiness(t)
	seedOnboardedBusiness(mappings, documents, entity.BusinessDocument{
		Business:   "We fix pipes.",
		PathsTaken: []string{"competitor pricing"},
	})

	session, err := svc.OpenPaths(ctx, "guild-1", "owner-1")
	if err != nil {
		t.Fatal(err)
	}

	session, err = svc.AddPath(ctx, session.ID, "local seo")
	if err != nil {
		t.Fatal(err)
	}

	if len(session.Paths) != 2 || session.Paths[1] != "local seo" {
		t.Fatalf("paths = %v", session.Paths)
	}
	persisted := documents.docs["acme co"].PathsTaken
	if len(persisted) != 2 || persisted[1] != "local seo" {
		t.Fatalf("persisted paths = %v", persisted)
	}
}

func TestPersonaLifecycle(t *testing.T) {
	ctx := context.Background()
	svc, mappings, documents := setupBusiness(t)
	seedOnboardedBusiness(mappings, documents, entity.BusinessDocument{
		Business: "We fix pipes.",
		UserPersonas: []entity.Persona{
			{Title: "Homeowner"},
			{Title: "Landlord"},
		},
	})

	session, err := svc.OpenPersonas(ctx, "guild-1", "owner-1")
	if err != nil {
		t.Fatal(err)
	}

	session, err = svc.AddPersona(ctx, session.ID, entity.Persona{Title: "Property Manager", Goals: "fewer callouts"})
	if err != nil {
		t.Fatal(err)
	}
	if len(session.Personas) != 3 {
		t.Fatalf("personas = %d, want 3", len(session.Personas))
	}

	session.Pager.Next() // page 1: Landlord
	session, err = svc.EditPersona(ctx, session.ID, entity.Persona{Title: "Landlord", PainPoints: "tenant complaints"})
	if err != nil {
		t.Fatal(err)
	}
	if documents.docs["acme co"].UserPersonas[1].PainPoints != "tenant complaints" {
		t.Error("persona edit not persisted")
	}

	// Delete from the last page and check the cursor clamps.
	session.Pager.Next()
	session.Pager.Next() // page 2: Property Manager
	session, err = svc.DeletePersona(ctx, session.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(session.Personas) != 2 {
		t.Fatalf("personas = %d, want 2 after delete", len(session.Personas))
	}
	if session.Pager.Page() != 1 {
		t.Errorf("cursor = %d, want clamp to 1", session.Pager.Page())
	}
	if len(documents.docs["acme co"].UserPersonas) != 2 {
		t.Errorf("persisted personas = %d, want 2", len(documents.docs["acme co"].UserPersonas))
	}
}

func TestGetWebsite(t *testing.T) {
	ctx := context.Background()
	svc, mappings, _ := setupBusiness(t)

	if _, err := svc.GetWebsite(ctx, "stranger"); !errors.Is(err, ErrNoBusiness) {
		t.Fatalf("err = %v, want ErrNoBusiness", err)
	}

	mappings.byOwner["owner-1"] = &entity.BusinessMapping{
		OwnerIDs:     []string{"owner-1"},
		BusinessName: "acme co",
		WebsiteLink:  "https://acme.example.com",
	}
	link, err := svc.GetWebsite(ctx, "owner-1")
	if err != nil {
		t.Fatal(err)
	}
	if link != "https://acme.example.com" {
		t.Errorf("link = %q", link)
	}
}
