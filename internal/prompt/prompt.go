// Package prompt builds the instruction text sent to the generation backend.
// Every builder is pure and deterministic so it can be tested without the
// backend.
package prompt

import (
	"fmt"
	"strings"
)

// Defaults applied when a caller leaves topic or difficulty empty.
const (
	DefaultTopic      = "JavaScript"
	DefaultDifficulty = "Medium"
)

// Markers the generation backend is instructed to emit. The parser locates
// these same literals, so they live here as the single source of truth.
const (
	QuestionMarker = "Question:"
	NotesMarker    = "Interviewer Notes:"
	SummaryMarker  = "Summary:"
	FollowUpMarker = "Follow-up:"
	ScoreMarker    = "Score:"
	FeedbackMarker = "Feedback:"
)

// Question returns the prompt for generating an opening interview question.
// Empty topic or difficulty fall back to the defaults.
func Question(topic, difficulty string) string {
	if strings.TrimSpace(topic) == "" {
		topic = DefaultTopic
	}
	if strings.TrimSpace(difficulty) == "" {
		difficulty = DefaultDifficulty
	}

	return fmt.Sprintf(`As an experienced interviewer for a %[1]s developer position focusing on algorithms and data structures, generate a coding interview question. Follow these guidelines:

1. Topic: Choose a relevant algorithm or data structure concept (e.g., arrays, linked lists, trees, sorting algorithms, searching algorithms, dynamic programming, etc.)
2. Difficulty: %[2]s level
3. Question Type: Ask the candidate to implement an algorithm or data structure in %[1]s

Format your response as follows:
%[3]s [Your generated interview question here]
%[4]s [Brief notes on what to look for in the answer, not to be shared with the candidate]

Remember to be concise and clear in your question, as if you're speaking directly to the candidate.`,
		topic, difficulty, QuestionMarker, NotesMarker)
}

// FollowUp returns the prompt for generating a summary plus follow-up after a
// candidate answer. context is the rendered conversation history.
func FollowUp(question, notes, context string) string {
	var b strings.Builder
	if context != "" {
		b.WriteString(context)
		b.WriteString("\n\n")
	}
	fmt.Fprintf(&b, `As an AI interviewer focusing on algorithms and data structures, you're conducting a coding interview. The current question is:

%s

%s %s

The candidate has just provided a response. Your task is to:
1. Briefly summarize the candidate's response (1-2 sentences).
2. Provide a follow-up question or request for clarification based on their answer, focusing on algorithmic thinking or optimizations.
3. If needed, guide the candidate towards a better solution without giving it away completely.

Maintain a professional and encouraging tone throughout your response. Your goal is to assess the candidate's knowledge of algorithms and data structures, as well as their problem-solving skills.

Format your response as:
%s [Brief summary of candidate's response]
%s [Your follow-up question or request for clarification]`,
		question, NotesMarker, notes, SummaryMarker, FollowUpMarker)
	return b.String()
}

// Scoring returns the prompt for scoring a completed interview.
func Scoring(transcript, candidateCode string) string {
	return fmt.Sprintf(`As an AI interviewer specializing in algorithms and data structures, you've conducted an interview. Here's the conversation history and the candidate's code:

Transcript:
%s

Candidate's Code:
`+"```"+`
%s
`+"```"+`

Based on this interview and the provided code, please provide:
1. A percentage score (0-100) reflecting the candidate's performance.
2. Brief feedback (2-3 sentences) on the candidate's strengths and areas for improvement.

Format your response EXACTLY as follows, replacing [Score] with a number between 0 and 100, and [Feedback] with your feedback:

%s [Score]
%s [Feedback]

Do not include any additional text, explanations, or symbols. The Score must be a whole number between 0 and 100.`,
		transcript, candidateCode, ScoreMarker, FeedbackMarker)
}

// Evaluation returns the prompt for grading a single answer against a known
// solution, used by the standalone evaluate endpoint.
func Evaluation(question, answer, solution string) string {
	return fmt.Sprintf(`As an AI interviewer, grade the candidate's answer to the following coding question.

Question:
%s

Reference Solution:
%s

Candidate's Answer:
%s

Provide a percentage score (0-100) for correctness and approach, and brief feedback (2-3 sentences).

Format your response EXACTLY as follows:

%s [Score]
%s [Feedback]

Do not include any additional text. The Score must be a whole number between 0 and 100.`,
		question, solution, answer, ScoreMarker, FeedbackMarker)
}

// GenericFollowUp returns the degraded prompt used when the answer pipeline
// fails and the orchestrator attempts one generic fallback.
func GenericFollowUp() string {
	return "As an AI interviewer for a position focusing on algorithms and data structures, provide a general follow-up question or comment."
}
