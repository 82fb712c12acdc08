package interview

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/interviewsim/backend/internal/domain"
	"github.com/interviewsim/backend/internal/llm"
)

// scriptedGenerator routes prompts to canned responses by matching prompt
// fragments, standing in for the generation backend.
type scriptedGenerator struct {
	calls     int
	responses map[string]string
	err       error
}

func (g *scriptedGenerator) Generate(_ context.Context, promptText string, _ []byte) (string, error) {
	g.calls++
	if g.err != nil {
		return "", g.err
	}
	for fragment, response := range g.responses {
		if strings.Contains(promptText, fragment) {
			return response, nil
		}
	}
	return "", errors.New("no scripted response for prompt")
}

type memoryRepo struct {
	saved []*domain.Result
}

func (m *memoryRepo) SaveResult(_ context.Context, r *domain.Result) error {
	m.saved = append(m.saved, r)
	return nil
}

func (m *memoryRepo) GetResult(context.Context, string) (*domain.Result, error) { return nil, nil }
func (m *memoryRepo) ListResults(context.Context, int) ([]*domain.Result, error) {
	return nil, nil
}
func (m *memoryRepo) Ping(context.Context) error { return nil }
func (m *memoryRepo) Close() error               { return nil }

func questionGenerator() *scriptedGenerator {
	return &scriptedGenerator{responses: map[string]string{
		"generate a coding interview question": "Question: Implement a LRU cache.\nInterviewer Notes: Expect a map plus doubly linked list.",
		"The candidate has just provided":      "Summary: Reasonable approach.\nFollow-up: What is the eviction complexity?",
		"conducted an interview":               "Score: 88\nFeedback: Clean solution with good complexity analysis.",
	}}
}

func TestStartInterview(t *testing.T) {
	t.Parallel()

	svc := NewService(questionGenerator(), nil, nil)
	sess := NewSession("cand-1", 5)

	question, err := svc.StartInterview(context.Background(), sess)
	if err != nil {
		t.Fatalf("StartInterview failed: %v", err)
	}
	if question != "Implement a LRU cache." {
		t.Errorf("unexpected question: %q", question)
	}

	gotQuestion, gotNotes := sess.Interview()
	if gotQuestion != "Implement a LRU cache." {
		t.Errorf("session question not stored: %q", gotQuestion)
	}
	if gotNotes != "Expect a map plus doubly linked list." {
		t.Errorf("session notes not stored: %q", gotNotes)
	}
	if sess.State() != domain.StateQuestionAsked {
		t.Errorf("unexpected state: %s", sess.State())
	}

	turns := sess.History().Turns()
	if len(turns) != 1 || turns[0].Speaker != domain.SpeakerInterviewer {
		t.Errorf("expected one interviewer turn, got %+v", turns)
	}
}

func TestHandleAnswerAppendsTurns(t *testing.T) {
	t.Parallel()

	svc := NewService(questionGenerator(), nil, nil)
	sess := NewSession("cand-1", 5)
	ctx := context.Background()

	if _, err := svc.StartInterview(ctx, sess); err != nil {
		t.Fatalf("StartInterview failed: %v", err)
	}

	response, err := svc.HandleAnswer(ctx, sess, "I would use a hash map.", nil)
	if err != nil {
		t.Fatalf("HandleAnswer failed: %v", err)
	}
	if !strings.Contains(response, "Follow-up:") {
		t.Errorf("unexpected follow-up: %q", response)
	}
	if sess.State() != domain.StateAwaitingAnswer {
		t.Errorf("unexpected state: %s", sess.State())
	}

	turns := sess.History().Turns()
	if len(turns) != 3 {
		t.Fatalf("expected 3 turns, got %d", len(turns))
	}
	if turns[1].Speaker != domain.SpeakerCandidate || turns[1].Text != "I would use a hash map." {
		t.Errorf("unexpected candidate turn: %+v", turns[1])
	}
	if turns[2].Speaker != domain.SpeakerInterviewer {
		t.Errorf("unexpected interviewer turn: %+v", turns[2])
	}
}

func TestHandleAnswerLabelsAudio(t *testing.T) {
	t.Parallel()

	svc := NewService(questionGenerator(), nil, nil)
	sess := NewSession("cand-1", 5)
	ctx := context.Background()

	if _, err := svc.StartInterview(ctx, sess); err != nil {
		t.Fatalf("StartInterview failed: %v", err)
	}
	if _, err := svc.HandleAnswer(ctx, sess, "", []byte("mp3 bytes")); err != nil {
		t.Fatalf("HandleAnswer failed: %v", err)
	}

	turns := sess.History().Turns()
	if turns[1].Text != AudioAnswerLabel {
		t.Errorf("expected audio label in history, got %q", turns[1].Text)
	}
}

func TestHandleAnswerWithoutQuestion(t *testing.T) {
	t.Parallel()

	svc := NewService(questionGenerator(), nil, nil)
	sess := NewSession("cand-1", 5)

	_, err := svc.HandleAnswer(context.Background(), sess, "hello", nil)
	if !errors.Is(err, ErrNoActiveQuestion) {
		t.Fatalf("expected ErrNoActiveQuestion, got %v", err)
	}
}

func TestHandleAnswerDegradedFallback(t *testing.T) {
	t.Parallel()

	gen := &scriptedGenerator{responses: map[string]string{
		"generate a coding interview question": "Question: Q.\nInterviewer Notes: N.",
		"provide a general follow-up":          "How would you test your solution?",
	}}
	svc := NewService(gen, nil, nil)
	sess := NewSession("cand-1", 5)
	ctx := context.Background()

	if _, err := svc.StartInterview(ctx, sess); err != nil {
		t.Fatalf("StartInterview failed: %v", err)
	}

	// The follow-up prompt has no scripted response, so the primary path
	// fails and the degraded generic fallback is used.
	response, err := svc.HandleAnswer(ctx, sess, "my answer", nil)
	if err != nil {
		t.Fatalf("expected degraded fallback to succeed, got %v", err)
	}
	if !strings.HasPrefix(response, degradedPreamble) {
		t.Errorf("expected degraded preamble, got %q", response)
	}
}

func TestHandleAnswerTotalFailure(t *testing.T) {
	t.Parallel()

	gen := questionGenerator()
	svc := NewService(gen, nil, nil)
	sess := NewSession("cand-1", 5)
	ctx := context.Background()

	if _, err := svc.StartInterview(ctx, sess); err != nil {
		t.Fatalf("StartInterview failed: %v", err)
	}

	gen.err = llm.ErrGenerationFailed
	if _, err := svc.HandleAnswer(ctx, sess, "answer", nil); err == nil {
		t.Fatal("expected error when both primary and fallback generation fail")
	}
}

func TestSubmitScoresAndResets(t *testing.T) {
	t.Parallel()

	repo := &memoryRepo{}
	svc := NewService(questionGenerator(), repo, nil)
	sess := NewSession("cand-1", 5)
	ctx := context.Background()

	if _, err := svc.StartInterview(ctx, sess); err != nil {
		t.Fatalf("StartInterview failed: %v", err)
	}

	result, err := svc.Submit(ctx, sess, "cand-1", "Interviewer: Q\nCandidate: A", "function f(){}")
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if result.Score != 88 {
		t.Errorf("unexpected score: %d", result.Score)
	}
	if result.Feedback == "" {
		t.Error("expected non-empty feedback")
	}
	if result.ID == "" {
		t.Error("expected result ID to be assigned")
	}

	if sess.State() != domain.StateScored {
		t.Errorf("expected scored state after submit, got %s", sess.State())
	}
	if sess.History().Len() != 0 {
		t.Errorf("expected history reset after submit, got %d turns", sess.History().Len())
	}

	if len(repo.saved) != 1 || repo.saved[0].ID != result.ID {
		t.Errorf("expected result to be archived, got %+v", repo.saved)
	}

	if _, err := svc.HandleAnswer(ctx, sess, "one more thing", nil); !errors.Is(err, ErrNoActiveQuestion) {
		t.Errorf("expected ErrNoActiveQuestion after scoring, got %v", err)
	}
}

func TestSubmitClampsScore(t *testing.T) {
	t.Parallel()

	gen := &scriptedGenerator{responses: map[string]string{
		"conducted an interview": "Score: 150\nFeedback: Too generous.",
	}}
	svc := NewService(gen, nil, nil)

	result, err := svc.Submit(context.Background(), nil, "cand-1", "t", "c")
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if result.Score != 100 {
		t.Errorf("expected clamped score 100, got %d", result.Score)
	}
}

func TestEndToEndFlow(t *testing.T) {
	t.Parallel()

	svc := NewService(questionGenerator(), &memoryRepo{}, nil)
	registry := NewRegistry(5)
	ctx := context.Background()

	sess := registry.GetOrCreate("cand-e2e")
	question, err := svc.StartInterview(ctx, sess)
	if err != nil {
		t.Fatalf("StartInterview failed: %v", err)
	}
	if question == "" {
		t.Fatal("expected non-empty question")
	}

	if _, err := svc.HandleAnswer(ctx, sess, "Use a map and a list.", nil); err != nil {
		t.Fatalf("HandleAnswer failed: %v", err)
	}

	result, err := svc.Submit(ctx, sess, "cand-e2e", "...", "function f(){}")
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if result.Score < 0 || result.Score > 100 {
		t.Errorf("score out of range: %d", result.Score)
	}
	if result.Feedback == "" {
		t.Error("expected non-empty feedback")
	}
}

func TestRegistryReturnsSameSession(t *testing.T) {
	t.Parallel()

	registry := NewRegistry(5)
	a := registry.GetOrCreate("cand-1")
	b := registry.GetOrCreate("cand-1")
	if a != b {
		t.Error("expected the same session for the same candidate")
	}

	registry.Remove("cand-1")
	if registry.Get("cand-1") != nil {
		t.Error("expected session to be removed")
	}
}
