// FILE: internal/service/business_service.go
package service

import (
	"context"
	"errors"
	"strings"

	"adalchemy-bot/internal/entity"
	"adalchemy-bot/internal/repository/contract"
	"adalchemy-bot/pkg/view"

	"github.com/google/uuid"
)

const (
	businessPageChars = 1000
	pathsPerPage      = 5
	helpPageChars     = 2000
)

const helpText = `**AdAlchemyAI Commands**

/business - View and edit the description of your business used for ad research.
/website - Show the website link on file for your business.
/researchpaths - View the research paths taken when researching keywords, and add new ones.
/personas - View, add, edit and delete the user personas used to generate ad text.
/keywords - Select the keywords your ads should target, from researched candidates.
/adtext - Review generated ad text, finalize your own edits, or delete variations.
/uploadcredentials - Upload your Google Ads credentials as a JSON attachment.
/createad - Create a campaign and publish your finalized ads.
/help - Show this help.

Commands other than /website and /help require a completed onboarding.`

type IBusinessService interface {
	OpenBusinessInfo(ctx context.Context, guildID, userID string) (*view.Session, error)
	EditBusinessInfo(ctx context.Context, sessionID, text string) (*view.Session, error)

	OpenPaths(ctx context.Context, guildID, userID string) (*view.Session, error)
	AddPath(ctx context.Context, sessionID, path string) (*view.Session, error)

	OpenPersonas(ctx context.Context, guildID, userID string) (*view.Session, error)
	AddPersona(ctx context.Context, sessionID string, persona entity.Persona) (*view.Session, error)
	EditPersona(ctx context.Context, sessionID string, persona entity.Persona) (*view.Session, error)
	DeletePersona(ctx context.Context, sessionID string) (*view.Session, error)

	GetWebsite(ctx context.Context, userID string) (string, error)
	OpenHelp(guildID, userID string) *view.Session
}

type businessService struct {
	mappings  contract.MappingRepository
	documents contract.BusinessDocumentRepository
	sessions  contract.ViewSessionRepository
}

func NewBusinessService(
	mappings contract.MappingRepository,
	documents contract.BusinessDocumentRepository,
	sessions contract.ViewSessionRepository,
) IBusinessService {
	return &businessService{
		mappings:  mappings,
		documents: documents,
		sessions:  sessions,
	}
}

func (s *businessService) latestFor(ctx context.Context, userID string) (string, *entity.BusinessDocument, error) {
	mapping, err := resolveOnboarded(ctx, s.mappings, userID)
	if err != nil {
		return "", nil, err
	}

	doc, err := s.documents.Latest(ctx, mapping.BusinessName)
	if err != nil {
		if errors.Is(err, contract.ErrNotFound) {
			return mapping.BusinessName, nil, ErrNoDocument
		}
		return "", nil, err
	}
	return mapping.BusinessName, doc, nil
}

func (s *businessService) OpenBusinessInfo(ctx context.Context, guildID, userID string) (*view.Session, error) {
	businessName, doc, err := s.latestFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	if doc.Business == "" {
		return nil, ErrNoDocument
	}

	pages := view.SplitText(doc.Business, businessPageChars)
	session := &view.Session{
		ID:         uuid.New().String(),
		GuildID:    guildID,
		UserID:     userID,
		Kind:       view.KindBusiness,
		Business:   businessName,
		DocID:      doc.ID,
		Revision:   doc.Revision,
		Pager:      view.NewPager(len(pages), 1),
		Pages:      pages,
		LastUpdate: doc.LastUpdate,
	}
	s.sessions.Save(session)
	return session, nil
}

func (s *businessService) EditBusinessInfo(ctx context.Context, sessionID, text string) (*view.Session, error) {
	session, found := s.sessions.Get(sessionID)
	if !found {
		return nil, ErrSessionExpired
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return session, nil
	}

	if err := s.documents.SetBusinessText(ctx, session.Business, session.DocID, text); err != nil {
		return nil, err
	}

	session.Pages = view.SplitText(text, businessPageChars)
	session.Pager.Reset()
	session.Pager.Retarget(len(session.Pages))
	s.sessions.Save(session)
	return session, nil
}

func (s *businessService) OpenPaths(ctx context.Context, guildID, userID string) (*view.Session, error) {
	businessName, doc, err := s.latestFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	session := &view.Session{
		ID:       uuid.New().String(),
		GuildID:  guildID,
		UserID:   userID,
		Kind:     view.KindPaths,
		Business: businessName,
		DocID:    doc.ID,
		Revision: doc.Revision,
		Pager:    view.NewPager(len(doc.PathsTaken), pathsPerPage),
		Paths:    doc.PathsTaken,
	}
	s.sessions.Save(session)
	return session, nil
}

func (s *businessService) AddPath(ctx context.Context, sessionID, path string) (*view.Session, error) {
	session, found := s.sessions.Get(sessionID)
	if !found {
		return nil, ErrSessionExpired
	}

	path = strings.TrimSpace(path)
	if path == "" {
		return session, nil
	}

	if err := s.documents.PushPath(ctx, session.Business, session.DocID, path); err != nil {
		return nil, err
	}

	session.Paths = append(session.Paths, path)
	session.Pager.Retarget(len(session.Paths))
	s.sessions.Save(session)
	return session, nil
}

func (s *businessService) OpenPersonas(ctx context.Context, guildID, userID string) (*view.Session, error) {
	businessName, doc, err := s.latestFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	session := &view.Session{
		ID:       uuid.New().String(),
		GuildID:  guildID,
		UserID:   userID,
		Kind:     view.KindPersonas,
		Business: businessName,
		DocID:    doc.ID,
		Revision: doc.Revision,
		Pager:    view.NewPager(len(doc.UserPersonas), 1),
		Personas: doc.UserPersonas,
	}
	s.sessions.Save(session)
	return session, nil
}

func (s *businessService) AddPersona(ctx context.Context, sessionID string, persona entity.Persona) (*view.Session, error) {
	session, found := s.sessions.Get(sessionID)
	if !found {
		return nil, ErrSessionExpired
	}

	if err := s.documents.PushPersona(ctx, session.Business, session.DocID, persona); err != nil {
		return nil, err
	}

	session.Personas = append(session.Personas, persona)
	session.Pager.Retarget(len(session.Personas))
	s.sessions.Save(session)
	return session, nil
}

// EditPersona replaces the persona on the current page.
func (s *businessService) EditPersona(ctx context.Context, sessionID string, persona entity.Persona) (*view.Session, error) {
	session, found := s.sessions.Get(sessionID)
	if !found {
		return nil, ErrSessionExpired
	}

	index := session.Pager.Page()
	if index >= len(session.Personas) {
		return session, nil
	}

	if err := s.documents.SetPersona(ctx, session.Business, session.DocID, index, persona); err != nil {
		return nil, err
	}

	session.Personas[index] = persona
	s.sessions.Save(session)
	return session, nil
}

// DeletePersona removes the persona on the current page and clamps the cursor.
func (s *businessService) DeletePersona(ctx context.Context, sessionID string) (*view.Session, error) {
	session, found := s.sessions.Get(sessionID)
	if !found {
		return nil, ErrSessionExpired
	}

	index := session.Pager.Page()
	if index >= len(session.Personas) {
		return session, nil
	}

	if err := s.documents.PullPersona(ctx, session.Business, session.DocID, session.Personas[index]); err != nil {
		return nil, err
	}

	session.Personas = append(session.Personas[:index], session.Personas[index+1:]...)
	session.Pager.Retarget(len(session.Personas))
	s.sessions.Save(session)
	return session, nil
}

// GetWebsite is ungated: it only echoes what onboarding already collected.
func (s *businessService) GetWebsite(ctx context.Context, userID string) (string, error) {
	mapping, err := s.mappings.FindByOwner(ctx, userID)
	if err != nil {
		if errors.Is(err, contract.ErrNotFound) {
			return "", ErrNoBusiness
		}
		return "", err
	}
	if mapping.WebsiteLink == "" {
		return "", ErrNoBusiness
	}
	return mapping.WebsiteLink, nil
}

func (s *businessService) OpenHelp(guildID, userID string) *view.Session {
	pages := view.SplitText(helpText, helpPageChars)
	session := &view.Session{
		ID:      uuid.New().String(),
		GuildID: guildID,
		UserID:  userID,
		Kind:    view.KindHelp,
		Pager:   view.NewPager(len(pages), 1),
		Pages:   pages,
	}
	s.sessions.Save(session)
	return session
}
