package service

import (
	"errors"

	"adalchemy-bot/internal/repository/contract"
	"adalchemy-bot/pkg/view"
)

// ErrSessionExpired means the interactive view outlived its TTL; the user
// gets a fresh-start prompt instead of a stale write.
var ErrSessionExpired = errors.New("service: view session expired")

// IViewSessionService owns the shared lifecycle of interactive views: lookup,
// page navigation and teardown. View-specific actions live on the services
// that opened the session.
type IViewSessionService interface {
	Get(sessionID string) (*view.Session, error)
	Next(sessionID string) (*view.Session, error)
	Previous(sessionID string) (*view.Session, error)
	Close(sessionID string)
}

type viewSessionService struct {
	sessions contract.ViewSessionRepository
}

func NewViewSessionService(sessions contract.ViewSessionRepository) IViewSessionService {
	return &viewSessionService{sessions: sessions}
}

func (s *viewSessionService) Get(sessionID string) (*view.Session, error) {
	session, found := s.sessions.Get(sessionID)
	if !found {
		return nil, ErrSessionExpired
	}
	return session, nil
}

func (s *viewSessionService) Next(sessionID string) (*view.Session, error) {
	session, err := s.Get(sessionID)
	if err != nil {
		return nil, err
	}
	session.Pager.Next()
	s.sessions.Save(session)
	return session, nil
}

func (s *viewSessionService) Previous(sessionID string) (*view.Session, error) {
	session, err := s.Get(sessionID)
	if err != nil {
		return nil, err
	}
	session.Pager.Previous()
	s.sessions.Save(session)
	return session, nil
}

func (s *viewSessionService) Close(sessionID string) {
	s.sessions.Delete(sessionID)
}
