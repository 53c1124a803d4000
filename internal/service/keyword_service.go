// FILE: internal/service/keyword_service.go
package service

import (
	"context"
	"errors"

	"adalchemy-bot/internal/pkg/logger"
	"adalchemy-bot/internal/repository/contract"
	"adalchemy-bot/pkg/events"
	"adalchemy-bot/pkg/view"

	"github.com/google/uuid"
)

const keywordsPerPage = 5

type IKeywordService interface {
	Open(ctx context.Context, guildID, userID string) (*view.Session, error)
	// Toggle flips the selection state of the keyword at display index i on
	// the current page.
	Toggle(sessionID string, displayIndex int) (*view.Session, error)
	SwitchCategory(sessionID, category string) (*view.Session, error)
	Submit(ctx context.Context, sessionID string) (int, error)
}

type keywordService struct {
	mappings         contract.MappingRepository
	documents        contract.BusinessDocumentRepository
	sessions         contract.ViewSessionRepository
	publisherService IPublisherService
	logger           logger.ILogger
}

func NewKeywordService(
	mappings contract.MappingRepository,
	documents contract.BusinessDocumentRepository,
	sessions contract.ViewSessionRepository,
	publisherService IPublisherService,
	log logger.ILogger,
) IKeywordService {
	return &keywordService{
		mappings:         mappings,
		documents:        documents,
		sessions:         sessions,
		publisherService: publisherService,
		logger:           log,
	}
}

func (s *keywordService) Open(ctx context.Context, guildID, userID string) (*view.Session, error) {
	mapping, err := resolveOnboarded(ctx, s.mappings, userID)
	if err != nil {
		return nil, err
	}

	// The latest persisted selection is re-read here, not taken from any
	// earlier render, so a selection committed by another session since then
	// is the seed.
	doc, err := s.documents.Latest(ctx, mapping.BusinessName)
	if err != nil {
		if errors.Is(err, contract.ErrNotFound) {
			return nil, ErrNoKeywords
		}
		return nil, err
	}
	if len(doc.Keywords) == 0 && len(doc.SelectedKeywords) == 0 {
		return nil, ErrNoKeywords
	}

	session := &view.Session{
		ID:               uuid.New().String(),
		GuildID:          guildID,
		UserID:           userID,
		Kind:             view.KindKeywords,
		Business:         mapping.BusinessName,
		Category:         view.CategoryNew,
		DocID:            doc.ID,
		Revision:         doc.Revision,
		Pager:            view.NewPager(len(doc.Keywords), keywordsPerPage),
		Selection:        view.NewSelection(doc.SelectedKeywords),
		SelectedKeywords: doc.SelectedKeywords,
		NewKeywords:      doc.Keywords,
	}
	s.sessions.Save(session)
	return session, nil
}

func (s *keywordService) Toggle(sessionID string, displayIndex int) (*view.Session, error) {
	session, found := s.sessions.Get(sessionID)
	if !found {
		return nil, ErrSessionExpired
	}

	pool := session.ActiveKeywords()
	start, _ := session.Pager.Bounds()
	index := start + displayIndex
	if index < 0 || index >= len(pool) {
		return session, nil
	}

	if err := session.Selection.Toggle(pool[index]); err != nil {
		return nil, err
	}
	s.sessions.Save(session)
	return session, nil
}

func (s *keywordService) SwitchCategory(sessionID, category string) (*view.Session, error) {
	session, found := s.sessions.Get(sessionID)
	if !found {
		return nil, ErrSessionExpired
	}
	session.SwitchCategory(category)
	s.sessions.Save(session)
	return session, nil
}

// Submit commits the live selection, replacing selected_keywords on the
// latest document, and tears the session down. Returns how many keywords were
// committed.
func (s *keywordService) Submit(ctx context.Context, sessionID string) (int, error) {
	session, found := s.sessions.Get(sessionID)
	if !found {
		return 0, ErrSessionExpired
	}
	if session.Selection.Closed() {
		return 0, view.ErrSessionClosed
	}

	selected := session.Selection.Values()

	err := s.documents.ReplaceSelectedKeywords(ctx, session.Business, session.DocID, session.Revision, selected)
	if errors.Is(err, contract.ErrRevisionConflict) {
		// A missed guard can mean the document is gone, not moved: fall back
		// to creation then, surface the conflict otherwise.
		if _, latestErr := s.documents.Latest(ctx, session.Business); errors.Is(latestErr, contract.ErrNotFound) {
			err = s.documents.InsertWithSelectedKeywords(ctx, session.Business, selected)
		}
	}
	if err != nil {
		return 0, err
	}

	session.Selection.Close()
	s.sessions.Delete(sessionID)

	if err := s.publisherService.Publish(ctx, events.NewKeywordsSubmittedEvent(session.Business, len(selected))); err != nil {
		s.logger.Error("KeywordService", "failed to publish keywords event", map[string]interface{}{"error": err.Error()})
	}
	return len(selected), nil
}
