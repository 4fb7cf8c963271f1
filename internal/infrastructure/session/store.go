package session

import (
	"time"

	cache "github.com/patrickmn/go-cache"

	"wallet_engine/internal/app/port"
)

// Store is the TTL-bounded session cache. The engine itself only reads it
// (port.SessionProvider); Put and Evict exist for the authentication
// collaborator, which owns session lifecycle: insert on login, evict on
// logout, expiry handled by the cache TTL.
type Store struct {
	sessions *cache.Cache
	logger   port.Logger
}

// NewStore creates a session store whose entries expire after ttl.
func NewStore(ttl time.Duration, l port.Logger) *Store {
	return &Store{
		sessions: cache.New(ttl, ttl),
		logger:   l,
	}
}

// Lookup implements port.SessionProvider.
func (s *Store) Lookup(userHandle string) (*port.Session, bool) {
	v, found := s.sessions.Get(userHandle)
	if !found {
		return nil, false
	}
	sess := v.(port.Session)
	return &sess, true
}

// Put stores a session under its handle, resetting the TTL.
func (s *Store) Put(sess port.Session) {
	s.sessions.SetDefault(sess.UserHandle, sess)
	s.logger.Debug("Session cached", "handle", sess.UserHandle, "hasSigningKey", sess.SigningSeed != "")
}

// Evict removes a session immediately.
func (s *Store) Evict(userHandle string) {
	s.sessions.Delete(userHandle)
	s.logger.Debug("Session evicted", "handle", userHandle)
}

var _ port.SessionProvider = (*Store)(nil)
