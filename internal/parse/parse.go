// Package parse extracts structured fields from generation output.
//
// The backend is asked for a fixed two-field format but does not always
// comply, so extraction is marker-based with heuristic fallbacks. The score
// path never fails; the question path reports a distinguishable
// MalformedError so the caller can ask the user to retry.
package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/interviewsim/backend/internal/prompt"
)

// DefaultFeedback is returned when no feedback could be extracted.
const DefaultFeedback = "No feedback provided."

var (
	scorePattern    = regexp.MustCompile(`Score:\s*(-?\d+)`)
	feedbackPattern = regexp.MustCompile(`(?s)Feedback:\s*(.*)`)
	firstIntPattern = regexp.MustCompile(`-?\d+`)
)

// MalformedError reports generation output that is missing a required marker.
// Callers can distinguish it from transport failures via errors.As.
type MalformedError struct {
	Reason string
	Raw    string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed generation output: %s", e.Reason)
}

// QuestionResponse is the structured form of a question-generation reply.
type QuestionResponse struct {
	Question string `json:"question"`
	Notes    string `json:"notes"`
}

// ScoreResponse is the structured form of a scoring reply. Heuristic is set
// when the primary pattern match failed and the fallback extraction produced
// the result, so callers can tell "score of 0" from "could not parse a score".
type ScoreResponse struct {
	Score     int    `json:"score"`
	Feedback  string `json:"feedback"`
	Heuristic bool   `json:"-"`
}

// Question extracts the question and private interviewer notes from raw
// generation output. The notes marker is optional; a question that is empty
// after trimming is a MalformedError.
func Question(raw string) (QuestionResponse, error) {
	parts := strings.SplitN(raw, prompt.NotesMarker, 2)

	question := strings.TrimSpace(strings.ReplaceAll(parts[0], prompt.QuestionMarker, ""))
	if question == "" {
		return QuestionResponse{}, &MalformedError{Reason: "empty question", Raw: raw}
	}

	notes := ""
	if len(parts) > 1 {
		notes = strings.TrimSpace(parts[1])
	}

	return QuestionResponse{Question: question, Notes: notes}, nil
}

// Score extracts a clamped score and feedback from raw generation output.
// It never fails: if the Score/Feedback markers cannot both be matched it
// falls back to splitting on the feedback marker and pulling the first
// integer, defaulting to 0 and DefaultFeedback.
func Score(raw string) ScoreResponse {
	scoreMatch := scorePattern.FindStringSubmatch(raw)
	feedbackMatch := feedbackPattern.FindStringSubmatch(raw)

	if scoreMatch != nil && feedbackMatch != nil {
		n, err := strconv.Atoi(scoreMatch[1])
		if err == nil {
			return ScoreResponse{
				Score:    Clamp(n),
				Feedback: strings.TrimSpace(feedbackMatch[1]),
			}
		}
	}

	// Fallback: split once on the feedback marker, pull the first integer
	// from the left side. A missing integer defaults to 0.
	parts := strings.SplitN(raw, prompt.FeedbackMarker, 2)

	score := 0
	scorePart := strings.ReplaceAll(parts[0], prompt.ScoreMarker, "")
	if m := firstIntPattern.FindString(scorePart); m != "" {
		if n, err := strconv.Atoi(m); err == nil {
			score = n
		}
	}

	feedback := DefaultFeedback
	if len(parts) > 1 {
		if f := strings.TrimSpace(parts[1]); f != "" {
			feedback = f
		}
	}

	return ScoreResponse{Score: Clamp(score), Feedback: feedback, Heuristic: true}
}

// Clamp forces a score into [0,100].
func Clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
