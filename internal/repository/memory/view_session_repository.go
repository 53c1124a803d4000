package memory

import (
	"time"

	"adalchemy-bot/internal/repository/contract"
	"adalchemy-bot/pkg/view"

	"github.com/patrickmn/go-cache"
)

type ViewSessionRepository struct {
	cache *cache.Cache
}

// NewViewSessionRepository holds interactive views for 5 minutes of
// inactivity, purging expired ones every 10 minutes. A component click on an
// expired session gets a fresh-start prompt, never a stale write.
func NewViewSessionRepository() contract.ViewSessionRepository {
	return &ViewSessionRepository{
		cache: cache.New(5*time.Minute, 10*time.Minute),
	}
}

func (r *ViewSessionRepository) Get(sessionID string) (*view.Session, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*view.Session), true
	}
	return nil, false
}

func (r *ViewSessionRepository) Save(session *view.Session) {
	r.cache.Set(session.ID, session, cache.DefaultExpiration)
}

func (r *ViewSessionRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}
