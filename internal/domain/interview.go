// Package domain contains core domain types for the interview simulator.
package domain

import (
	"time"
)

// Speaker identifies who produced a conversation turn.
type Speaker string

const (
	// SpeakerInterviewer marks turns generated by the AI interviewer.
	SpeakerInterviewer Speaker = "Interviewer"
	// SpeakerCandidate marks turns provided by the candidate.
	SpeakerCandidate Speaker = "Candidate"
)

// Turn is one labeled utterance in the conversation history.
type Turn struct {
	Speaker Speaker `json:"speaker"`
	Text    string  `json:"text"`
}

// String renders the turn the way it is fed into prompt context.
func (t Turn) String() string {
	return string(t.Speaker) + ": " + t.Text
}

// State tracks where an interview is in its lifecycle.
type State string

const (
	// StateIdle means no question has been asked yet.
	StateIdle State = "idle"
	// StateQuestionAsked means the opening question has been emitted.
	StateQuestionAsked State = "question_asked"
	// StateAwaitingAnswer means the interviewer is waiting on the candidate.
	StateAwaitingAnswer State = "awaiting_answer"
	// StateScored means the interview has been submitted and scored.
	StateScored State = "scored"
)

// Result is a scored interview submission.
type Result struct {
	ID          string    `json:"id"`
	CandidateID string    `json:"candidate_id"`
	Score       int       `json:"score"`
	Feedback    string    `json:"feedback"`
	Transcript  string    `json:"transcript,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
