package contract

import "adalchemy-bot/pkg/view"

// ViewSessionRepository holds ephemeral interactive view sessions keyed by
// the session id embedded in component custom ids. Sessions are process-local
// and expire on their own.
type ViewSessionRepository interface {
	Get(sessionID string) (*view.Session, bool)
	Save(session *view.Session)
	Delete(sessionID string)
}
