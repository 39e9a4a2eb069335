package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/meditationhr/models"
)

const (
	sessionCookie = "session_id"
	sessionTTL    = 24 * time.Hour
	maxSessions   = 10000
)

type session struct {
	state    models.FilterState
	lastSeen time.Time
}

// sessionStore keeps one FilterState per browser. States are values: an update swaps
// in the reducer's result, so readers never see a half-applied change. Only requests
// that change the state create an entry; idle entries expire after ttl and the store
// never holds more than limit.
type sessionStore struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*session
	initial  models.FilterState
	ttl      time.Duration
	limit    int
	now      func() time.Time
}

func newSessionStore(initial models.FilterState) *sessionStore {
	return &sessionStore{
		sessions: make(map[uuid.UUID]*session),
		initial:  initial,
		ttl:      sessionTTL,
		limit:    maxSessions,
		now:      time.Now,
	}
}

func cookieID(r *http.Request) (uuid.UUID, bool) {
	c, err := r.Cookie(sessionCookie)
	if err != nil {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(c.Value)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// state returns the caller's filters, or the initial filters for an unknown caller.
// It never creates a session.
func (s *sessionStore) state(r *http.Request) models.FilterState {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := cookieID(r); ok {
		if sess, ok := s.sessions[id]; ok && !s.expired(sess) {
			sess.lastSeen = s.now()
			return sess.state
		}
	}
	return s.initial
}

// update runs the actions through the reducer in order and stores the result, issuing
// a new session cookie when the caller has no live session.
func (s *sessionStore) update(w http.ResponseWriter, r *http.Request, actions ...models.Action) models.FilterState {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := cookieID(r)
	sess, known := s.sessions[id]
	if !ok || !known || s.expired(sess) {
		id = uuid.New()
		sess = &session{state: s.initial}
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    id.String(),
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
			MaxAge:   int(s.ttl.Seconds()),
		})
	}

	state := sess.state
	for _, a := range actions {
		state = models.Reduce(state, a)
	}
	sess.state = state
	sess.lastSeen = s.now()
	s.sessions[id] = sess
	s.evict()
	return state
}

func (s *sessionStore) expired(sess *session) bool {
	return s.now().Sub(sess.lastSeen) > s.ttl
}

// evict drops expired sessions, then the least recently used ones until the store is
// back under limit. Callers hold mu.
func (s *sessionStore) evict() {
	for id, sess := range s.sessions {
		if s.expired(sess) {
			delete(s.sessions, id)
		}
	}
	for len(s.sessions) > s.limit {
		var oldestID uuid.UUID
		var oldest time.Time
		for id, sess := range s.sessions {
			if oldest.IsZero() || sess.lastSeen.Before(oldest) {
				oldestID, oldest = id, sess.lastSeen
			}
		}
		delete(s.sessions, oldestID)
	}
}

func (s *sessionStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
