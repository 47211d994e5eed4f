package panel

import (
	"sync"

	"github.com/google/uuid"
)

type State string

const (
	StateEmpty    State = "empty"
	StateLoaded   State = "loaded"
	StateEnhanced State = "enhanced"
)

// Session is one panel's state: the original image it was given and the image
// it currently displays.
type Session struct {
	ID string

	mu        sync.Mutex
	state     State
	original  string
	displayed string
	busy      bool

	// generation changes whenever the original image is replaced or cleared,
	// so a late enhancement result can tell it is stale.
	generation uint64
}

// Snapshot is a copy of a session's visible state.
type Snapshot struct {
	ID       string `json:"id"`
	State    State  `json:"state"`
	Image    string `json:"image,omitempty"`
	Original string `json:"original,omitempty"`
	Busy     bool   `json:"busy"`
}

func newSession() *Session {
	return &Session{
		ID:    uuid.NewString(),
		state: StateEmpty,
	}
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *Session) snapshot() Snapshot {
	return Snapshot{
		ID:       s.ID,
		State:    s.state,
		Image:    s.displayed,
		Original: s.original,
		Busy:     s.busy,
	}
}

// load must be called with mu held.
func (s *Session) load(image string) {
	s.original = image
	s.displayed = image
	s.state = StateLoaded
	s.generation++
}

// clear must be called with mu held.
func (s *Session) clear() {
	s.original = ""
	s.displayed = ""
	s.state = StateEmpty
	s.generation++
}

// Sessions is the registry of open panels.
type Sessions struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewSessions() *Sessions {
	return &Sessions{sessions: make(map[string]*Session)}
}

func (r *Sessions) create() *Session {
	s := newSession()
	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()
	return s
}

func (r *Sessions) Get(id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

func (r *Sessions) Close(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(r.sessions, id)
	return nil
}

func (r *Sessions) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
