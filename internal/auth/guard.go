package auth

import (
	"time"

	"github.com/Iron-Ham/procdash/internal/errors"
	"github.com/Iron-Ham/procdash/internal/logging"
)

// Guard stands in front of every command that needs the API.
type Guard struct {
	store  *Store
	logger *logging.Logger
}

// NewGuard creates a Guard reading sessions from store.
func NewGuard(store *Store, logger *logging.Logger) *Guard {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Guard{store: store, logger: logger.WithComponent("auth")}
}

// Require returns the stored session if it is usable at now. Otherwise it
// returns a *errors.SessionError wrapping ErrNoSession, ErrSessionExpired or
// ErrSessionVersion.
func (g *Guard) Require(now time.Time) (Session, error) {
	sess, err := g.store.Load()
	if err != nil {
		if errors.Is(err, errors.ErrNoSession) {
			return Session{}, errors.NewSessionError("not logged in, run 'procdash login'", err)
		}
		return Session{}, errors.NewSessionError("cannot read session", err)
	}

	if err := sess.Check(now); err != nil {
		g.logger.Info("stored session rejected", "user", sess.Username, "reason", err.Error())
		return Session{}, errors.NewSessionError("session unusable, run 'procdash login'", err).
			WithUsername(sess.Username)
	}

	return sess, nil
}
