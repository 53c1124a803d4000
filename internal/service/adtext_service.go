// FILE: internal/service/adtext_service.go
package service

import (
	"context"
	"errors"

	"adalchemy-bot/internal/entity"
	"adalchemy-bot/internal/pkg/logger"
	"adalchemy-bot/internal/repository/contract"
	"adalchemy-bot/pkg/events"
	"adalchemy-bot/pkg/view"

	"github.com/google/uuid"
)

type IAdTextService interface {
	Open(ctx context.Context, guildID, userID string) (*view.Session, error)
	SwitchCategory(sessionID, category string) (*view.Session, error)
	// Finalize validates and commits an override for the variation on the
	// current page. Validation failures reach the user; nothing is written.
	Finalize(ctx context.Context, sessionID, headline, description string) (*view.Session, error)
	// Delete removes the variation on the current page together with its
	// override, rekeying the remaining overlay entries in the same write.
	Delete(ctx context.Context, sessionID string) (*view.Session, error)
	// Unfinalize removes only the override for the variation on the current
	// page, leaving the generated text in place.
	Unfinalize(ctx context.Context, sessionID string) (*view.Session, error)
}

type adTextService struct {
	mappings         contract.MappingRepository
	documents        contract.BusinessDocumentRepository
	sessions         contract.ViewSessionRepository
	publisherService IPublisherService
	logger           logger.ILogger
}

func NewAdTextService(
	mappings contract.MappingRepository,
	documents contract.BusinessDocumentRepository,
	sessions contract.ViewSessionRepository,
	publisherService IPublisherService,
	log logger.ILogger,
) IAdTextService {
	return &adTextService{
		mappings:         mappings,
		documents:        documents,
		sessions:         sessions,
		publisherService: publisherService,
		logger:           log,
	}
}

func (s *adTextService) Open(ctx context.Context, guildID, userID string) (*view.Session, error) {
	mapping, err := resolveOnboarded(ctx, s.mappings, userID)
	if err != nil {
		return nil, err
	}

	doc, err := s.documents.Latest(ctx, mapping.BusinessName)
	if err != nil {
		if errors.Is(err, contract.ErrNotFound) {
			return nil, ErrNoAdVariations
		}
		return nil, err
	}
	if len(doc.AdVariations) == 0 {
		return nil, ErrNoAdVariations
	}

	session := &view.Session{
		ID:           uuid.New().String(),
		GuildID:      guildID,
		UserID:       userID,
		Kind:         view.KindAdText,
		Business:     mapping.BusinessName,
		Category:     view.CategoryGenerated,
		DocID:        doc.ID,
		Revision:     doc.Revision,
		Pager:        view.NewPager(len(doc.AdVariations), 1),
		Overlay:      view.NewOverlay(doc.FinalizedAdText),
		AdVariations: doc.AdVariations,
	}
	s.sessions.Save(session)
	return session, nil
}

func (s *adTextService) SwitchCategory(sessionID, category string) (*view.Session, error) {
	session, found := s.sessions.Get(sessionID)
	if !found {
		return nil, ErrSessionExpired
	}
	session.SwitchCategory(category)
	s.sessions.Save(session)
	return session, nil
}

func (s *adTextService) Finalize(ctx context.Context, sessionID, headline, description string) (*view.Session, error) {
	session, found := s.sessions.Get(sessionID)
	if !found {
		return nil, ErrSessionExpired
	}

	index := session.Pager.Page()
	if index >= len(session.AdVariations) {
		return session, nil
	}

	// Set validates; a rejected edit leaves the overlay untouched and makes
	// no store write.
	prior, hadPrior := session.Overlay.At(index)
	if err := session.Overlay.Set(index, headline, description); err != nil {
		return nil, err
	}

	if err := s.commitOverlay(ctx, session, session.Overlay.Entries()); err != nil {
		// Roll the staged entry back so in-memory state matches the store.
		// An earlier override at this index is restored, not dropped.
		if hadPrior {
			session.Overlay.Set(prior.Index, prior.Headline, prior.Description)
		} else {
			session.Overlay.Remove(index)
		}
		return nil, err
	}

	s.sessions.Save(session)

	if err := s.publisherService.Publish(ctx, events.NewAdFinalizedEvent(session.Business, index)); err != nil {
		s.logger.Error("AdTextService", "failed to publish finalize event", map[string]interface{}{"error": err.Error()})
	}
	return session, nil
}

func (s *adTextService) Delete(ctx context.Context, sessionID string) (*view.Session, error) {
	session, found := s.sessions.Get(sessionID)
	if !found {
		return nil, ErrSessionExpired
	}

	index := session.Pager.Page()
	if index >= len(session.AdVariations) {
		return session, nil
	}

	variations := make([]entity.AdVariation, 0, len(session.AdVariations)-1)
	variations = append(variations, session.AdVariations[:index]...)
	variations = append(variations, session.AdVariations[index+1:]...)

	rekeyed := view.NewOverlay(session.Overlay.Entries())
	rekeyed.Rekey(index)

	err := s.documents.DeleteVariation(ctx, session.Business, session.DocID, session.Revision, variations, rekeyed.Entries())
	if err != nil {
		return nil, err
	}

	session.AdVariations = variations
	session.Overlay = rekeyed
	session.Revision++
	session.Pager.Retarget(len(variations))
	s.sessions.Save(session)

	if err := s.publisherService.Publish(ctx, events.NewAdDeletedEvent(session.Business, index)); err != nil {
		s.logger.Error("AdTextService", "failed to publish delete event", map[string]interface{}{"error": err.Error()})
	}
	return session, nil
}

func (s *adTextService) Unfinalize(ctx context.Context, sessionID string) (*view.Session, error) {
	session, found := s.sessions.Get(sessionID)
	if !found {
		return nil, ErrSessionExpired
	}

	index := session.Pager.Page()
	entry, ok := session.Overlay.At(index)
	if !ok {
		return session, nil
	}

	session.Overlay.Remove(index)
	if err := s.commitOverlay(ctx, session, session.Overlay.Entries()); err != nil {
		session.Overlay.Set(entry.Index, entry.Headline, entry.Description)
		return nil, err
	}
	s.sessions.Save(session)
	return session, nil
}

func (s *adTextService) commitOverlay(ctx context.Context, session *view.Session, entries []entity.FinalizedAd) error {
	err := s.documents.ReplaceFinalizedAds(ctx, session.Business, session.DocID, session.Revision, entries)
	if errors.Is(err, contract.ErrRevisionConflict) {
		if _, latestErr := s.documents.Latest(ctx, session.Business); errors.Is(latestErr, contract.ErrNotFound) {
			return s.documents.InsertWithFinalizedAds(ctx, session.Business, entries)
		}
		return err
	}
	if err == nil {
		session.Revision++
	}
	return err
}
