// Package interview implements the session orchestrator: it ties the prompt
// builder, generation pipeline, and response parser together across the
// lifecycle of one interview.
package interview

import (
	"sync"

	"github.com/interviewsim/backend/internal/domain"
	"github.com/interviewsim/backend/internal/history"
)

// Session holds the state of one interview, from opening question through
// final score. Each connected candidate gets their own session object; the
// only process-wide piece of the pipeline is the generation throttle.
type Session struct {
	candidateID string
	history     *history.Log

	mu       sync.Mutex
	state    domain.State
	question string
	notes    string
}

// NewSession creates an idle session for a candidate with a history log
// bounded to historyLimit turns.
func NewSession(candidateID string, historyLimit int) *Session {
	return &Session{
		candidateID: candidateID,
		history:     history.New(historyLimit),
		state:       domain.StateIdle,
	}
}

// CandidateID returns the owning candidate's identity.
func (s *Session) CandidateID() string {
	return s.candidateID
}

// History returns the session's conversation log.
func (s *Session) History() *history.Log {
	return s.history
}

// State returns the current lifecycle state.
func (s *Session) State() domain.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Interview returns the current question and private interviewer notes.
func (s *Session) Interview() (question, notes string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.question, s.notes
}

// beginInterview stores the generated question and notes in one step so a
// concurrent reader never observes a question without its notes.
func (s *Session) beginInterview(question, notes string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.question = question
	s.notes = notes
	s.state = domain.StateQuestionAsked
}

// awaitAnswer marks the interviewer as waiting on the candidate.
func (s *Session) awaitAnswer() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = domain.StateAwaitingAnswer
}

// finish marks the session scored and clears the question and history.
// The next StartInterview begins a fresh round.
func (s *Session) finish() {
	s.mu.Lock()
	s.question = ""
	s.notes = ""
	s.state = domain.StateScored
	s.mu.Unlock()

	s.history.Reset()
}
