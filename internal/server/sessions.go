package server

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/thywilljoshua/pdf-mindmap/internal/errs"
	"github.com/thywilljoshua/pdf-mindmap/internal/mindmap"
	"github.com/thywilljoshua/pdf-mindmap/internal/outline"
)

// session is one interactive mind map. mu serializes access to ctrl, which
// is not safe for concurrent use.
type session struct {
	ID      string
	Created time.Time

	mu       sync.Mutex
	ctrl     *mindmap.Controller
	clicked  *outline.Node
	lastUsed time.Time
	now      func() time.Time
}

// activate runs one activation and returns the resulting view together with
// the node that reached the click handler.
func (s *session) activate(nodeID string) (mindmap.View, *outline.Node, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastUsed = s.now()
	s.clicked = nil
	view, err := s.ctrl.Activate(nodeID)
	if err != nil {
		return mindmap.View{}, nil, err
	}
	return view, s.clicked, nil
}

func (s *session) snapshot() (mindmap.View, []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastUsed = s.now()
	return s.ctrl.View(), s.ctrl.Expansion().IDs()
}

// sessions is the in-memory registry of live mind maps.
type sessions struct {
	mu   sync.RWMutex
	byID map[string]*session
	now  func() time.Time
}

func newSessions() *sessions {
	return &sessions{byID: make(map[string]*session), now: time.Now}
}

// create validates root and registers a new session for it.
func (ss *sessions) create(root outline.Node) (*session, error) {
	created := ss.now()
	s := &session{ID: uuid.NewString(), Created: created, lastUsed: created, now: ss.now}
	ctrl, err := mindmap.NewController(root, mindmap.WithClickHandler(func(n outline.Node) {
		s.clicked = &n
	}))
	if err != nil {
		return nil, err
	}
	s.ctrl = ctrl

	ss.mu.Lock()
	ss.byID[s.ID] = s
	ss.mu.Unlock()
	return s, nil
}

func (ss *sessions) get(id string) (*session, error) {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	s, ok := ss.byID[id]
	if !ok {
		return nil, errs.New(errs.ErrCodeSessionNotFound, "mind map %q not found", id)
	}
	return s, nil
}

func (ss *sessions) delete(id string) error {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	if _, ok := ss.byID[id]; !ok {
		return errs.New(errs.ErrCodeSessionNotFound, "mind map %q not found", id)
	}
	delete(ss.byID, id)
	return nil
}

func (ss *sessions) len() int {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	return len(ss.byID)
}

// idleSince reports whether the session was last used before t.
func (s *session) idleSince(t time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed.Before(t)
}

// expire drops sessions not used for more than ttl and returns how many went.
// Lock order is ss.mu then s.mu.
func (ss *sessions) expire(ttl time.Duration) int {
	cutoff := ss.now().Add(-ttl)
	ss.mu.Lock()
	defer ss.mu.Unlock()
	n := 0
	for id, s := range ss.byID {
		if s.idleSince(cutoff) {
			delete(ss.byID, id)
			n++
		}
	}
	return n
}
