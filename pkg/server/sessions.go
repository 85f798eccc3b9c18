package server

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-urlform/pkg/controller"
	"github.com/goliatone/go-urlform/pkg/render"
)

// session is one page load: a controller plus the presentation choices made
// when it was created.
type session struct {
	id       string
	ctrl     *controller.Controller
	opts     render.RenderOptions
	lastUsed time.Time
}

// sessionStore holds sessions in memory. Nothing is persisted; a reload
// starts from schema defaults.
type sessionStore struct {
	mu    sync.Mutex
	items map[string]*session
	max   int
	now   func() time.Time
}

func newSessionStore(max int) *sessionStore {
	return &sessionStore{
		items: make(map[string]*session),
		max:   max,
		now:   time.Now,
	}
}

// add registers a session under a fresh id, evicting the least recently
// used one when full. The evicted id is empty when nothing was dropped.
func (s *sessionStore) add(ctrl *controller.Controller, opts render.RenderOptions) (*session, string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := ""
	if s.max > 0 && len(s.items) >= s.max {
		var oldest *session
		for _, candidate := range s.items {
			if oldest == nil || candidate.lastUsed.Before(oldest.lastUsed) {
				oldest = candidate
			}
		}
		if oldest != nil {
			delete(s.items, oldest.id)
			evicted = oldest.id
		}
	}

	sess := &session{
		id:       uuid.NewString(),
		ctrl:     ctrl,
		opts:     opts,
		lastUsed: s.now(),
	}
	s.items[sess.id] = sess
	return sess, evicted
}

func (s *sessionStore) get(id string) (*session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.items[id]
	if ok {
		sess.lastUsed = s.now()
	}
	return sess, ok
}

func (s *sessionStore) remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.items[id]
	delete(s.items, id)
	return ok
}

func (s *sessionStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
