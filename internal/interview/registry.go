package interview

import (
	"sync"
)

// Registry maps candidate identities to their live sessions. It exists so
// the WebSocket channel and the HTTP submit endpoint resolve the same
// session for the same candidate.
type Registry struct {
	mu           sync.Mutex
	sessions     map[string]*Session
	historyLimit int
}

// NewRegistry creates a session registry whose sessions bound their history
// to historyLimit turns.
func NewRegistry(historyLimit int) *Registry {
	return &Registry{
		sessions:     make(map[string]*Session),
		historyLimit: historyLimit,
	}
}

// GetOrCreate returns the candidate's session, creating an idle one if none
// exists.
func (r *Registry) GetOrCreate(candidateID string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[candidateID]; ok {
		return s
	}
	s := NewSession(candidateID, r.historyLimit)
	r.sessions[candidateID] = s
	return s
}

// Get returns the candidate's session or nil.
func (r *Registry) Get(candidateID string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessions[candidateID]
}

// Remove drops the candidate's session.
func (r *Registry) Remove(candidateID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, candidateID)
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
