package interview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/interviewsim/backend/internal/domain"
	"github.com/interviewsim/backend/internal/llm"
	"github.com/interviewsim/backend/internal/parse"
	"github.com/interviewsim/backend/internal/prompt"
	"github.com/interviewsim/backend/internal/store"
	"github.com/interviewsim/backend/internal/translog"
)

// ErrNoActiveQuestion is returned when an answer arrives before a question
// has been asked.
var ErrNoActiveQuestion = errors.New("no active interview question")

// AudioAnswerLabel is recorded in history in place of raw audio content.
const AudioAnswerLabel = "[Audio Response]"

// degradedPreamble prefixes the generic fallback follow-up so the candidate
// knows their answer was not understood.
const degradedPreamble = "I couldn't process your answer, but let's continue. "

// Service orchestrates interviews: question generation, the answer loop, and
// scoring. All generation goes through the throttled, retried pipeline.
type Service struct {
	gen  llm.Generator
	repo store.Repository
	tlog translog.Logger
}

// NewService creates the orchestrator. repo may be nil to disable the result
// archive and tlog may be nil to disable transcript logging.
func NewService(gen llm.Generator, repo store.Repository, tlog translog.Logger) *Service {
	return &Service{gen: gen, repo: repo, tlog: tlog}
}

// GenerateQuestion produces a question plus private interviewer notes for
// the given topic and difficulty, without touching any session state.
func (s *Service) GenerateQuestion(ctx context.Context, topic, difficulty string) (parse.QuestionResponse, error) {
	raw, err := s.gen.Generate(ctx, prompt.Question(topic, difficulty), nil)
	if err != nil {
		return parse.QuestionResponse{}, fmt.Errorf("generate question: %w", err)
	}

	q, err := parse.Question(raw)
	if err != nil {
		return parse.QuestionResponse{}, fmt.Errorf("parse question: %w", err)
	}
	return q, nil
}

// StartInterview generates the opening question with default topic and
// difficulty, records it in the session, and returns the question text.
func (s *Service) StartInterview(ctx context.Context, sess *Session) (string, error) {
	q, err := s.GenerateQuestion(ctx, "", "")
	if err != nil {
		return "", err
	}

	sess.beginInterview(q.Question, q.Notes)
	s.record(sess, domain.Turn{Speaker: domain.SpeakerInterviewer, Text: q.Question})

	slog.Info("interview question asked", "candidate_id", sess.CandidateID())
	return q.Question, nil
}

// HandleAnswer processes one candidate answer (text or spooled audio bytes)
// and returns the interviewer's summary plus follow-up. When the generation
// pipeline fails completely it attempts one degraded generic follow-up
// before surfacing the error.
func (s *Service) HandleAnswer(ctx context.Context, sess *Session, answerText string, audio []byte) (string, error) {
	question, notes := sess.Interview()
	if st := sess.State(); st == domain.StateIdle || st == domain.StateScored {
		return "", ErrNoActiveQuestion
	}

	answerLabel := answerText
	if len(audio) > 0 {
		answerLabel = AudioAnswerLabel
	}

	followUpPrompt := prompt.FollowUp(question, notes, sess.History().Context())
	if answerText != "" {
		followUpPrompt += "\n\nCandidate's answer:\n" + answerText
	}

	response, err := s.gen.Generate(ctx, followUpPrompt, audio)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", err
		}
		slog.Error("follow-up generation failed, attempting degraded fallback",
			"candidate_id", sess.CandidateID(), "error", err)
		return s.degradedFollowUp(ctx, sess, answerLabel)
	}

	s.record(sess, domain.Turn{Speaker: domain.SpeakerCandidate, Text: answerLabel})
	s.record(sess, domain.Turn{Speaker: domain.SpeakerInterviewer, Text: response})
	sess.awaitAnswer()

	return response, nil
}

// degradedFollowUp is the last resort of the answer path: one generic
// follow-up generation so the interview can continue after a pipeline
// failure.
func (s *Service) degradedFollowUp(ctx context.Context, sess *Session, answerLabel string) (string, error) {
	fallback, err := s.gen.Generate(ctx, prompt.GenericFollowUp(), nil)
	if err != nil {
		return "", fmt.Errorf("fallback follow-up: %w", err)
	}

	response := degradedPreamble + fallback
	s.record(sess, domain.Turn{Speaker: domain.SpeakerCandidate, Text: answerLabel})
	s.record(sess, domain.Turn{Speaker: domain.SpeakerInterviewer, Text: response})
	sess.awaitAnswer()

	return response, nil
}

// Submit scores a completed interview from the submitted transcript and
// candidate code, archives the result, resets the session, and returns the
// clamped score with feedback. sess may be nil when the submission arrives
// without a live realtime session.
func (s *Service) Submit(ctx context.Context, sess *Session, candidateID, transcript, candidateCode string) (*domain.Result, error) {
	raw, err := s.gen.Generate(ctx, prompt.Scoring(transcript, candidateCode), nil)
	if err != nil {
		return nil, fmt.Errorf("generate score: %w", err)
	}

	scored := parse.Score(raw)
	if scored.Heuristic {
		slog.Warn("score parsed via fallback heuristic", "candidate_id", candidateID, "score", scored.Score)
	}

	result := &domain.Result{
		ID:          uuid.NewString(),
		CandidateID: candidateID,
		Score:       scored.Score,
		Feedback:    scored.Feedback,
		Transcript:  transcript,
		CreatedAt:   time.Now(),
	}

	// The archive is write-behind history: a storage failure is logged but
	// does not fail the submission.
	if s.repo != nil {
		if err := s.repo.SaveResult(ctx, result); err != nil {
			slog.Error("failed to archive interview result", "result_id", result.ID, "error", err)
		}
	}

	if sess != nil {
		sess.finish()
	}

	slog.Info("interview scored", "candidate_id", candidateID, "score", result.Score)
	return result, nil
}

// EvaluateAnswer grades one answer against a reference solution, outside any
// session.
func (s *Service) EvaluateAnswer(ctx context.Context, question, answer, solution string) (parse.ScoreResponse, error) {
	raw, err := s.gen.Generate(ctx, prompt.Evaluation(question, answer, solution), nil)
	if err != nil {
		return parse.ScoreResponse{}, fmt.Errorf("generate evaluation: %w", err)
	}
	return parse.Score(raw), nil
}

func (s *Service) record(sess *Session, turn domain.Turn) {
	sess.History().Append(turn)
	if s.tlog != nil {
		s.tlog.Log(translog.Event{
			CandidateID: sess.CandidateID(),
			Speaker:     string(turn.Speaker),
			Text:        turn.Text,
		})
	}
}
