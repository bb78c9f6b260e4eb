package interview

import (
	"errors"
	"sync"

	"interviewcoach/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrSessionNotFound = errors.New("interview session not found")

// OrchestratorFactory builds the orchestrator for a new session. The id is
// also the key of the session's interview log.
type OrchestratorFactory func(id string) *Orchestrator

// Session pairs an orchestrator with the lock that serializes its turns.
type Session struct {
	ID string

	mu           sync.Mutex
	orchestrator *Orchestrator
}

// Do runs fn with exclusive access to the session's orchestrator.
func (s *Session) Do(fn func(o *Orchestrator) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.orchestrator)
}

// Registry hosts many concurrent interviews, one orchestrator each.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	factory  OrchestratorFactory
	logger   *zap.Logger
}

func NewRegistry(factory OrchestratorFactory, logger *zap.Logger) *Registry {
	return &Registry{
		sessions: map[string]*Session{},
		factory:  factory,
		logger:   logger,
	}
}

// Create initializes a new session. When only persistence failed the
// session is still registered and its id is returned with the error.
func (r *Registry) Create(profile models.CandidateProfile) (string, error) {
	id := uuid.NewString()
	orchestrator := r.factory(id)

	_, err := orchestrator.Initialize(profile)
	var persistErr *PersistenceError
	if err != nil && !errors.As(err, &persistErr) {
		return "", err
	}

	r.mu.Lock()
	r.sessions[id] = &Session{ID: id, orchestrator: orchestrator}
	r.mu.Unlock()

	r.logger.Info("Created interview session", zap.String("session_id", id))
	return id, err
}

func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

func (r *Registry) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
