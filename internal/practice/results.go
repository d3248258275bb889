package practice

import (
	"math"
	"strings"
	"time"
)

// Result pairs a question with its grading, preserving question order.
type Result struct {
	Question   Question
	UserAnswer string

	// Answered is false when the recorded answer is missing or blank;
	// such questions are counted incorrect without being evaluated.
	Answered bool

	Eval    EvaluationResult
	Correct bool
}

// Summary holds whole-session statistics for display.
type Summary struct {
	Total          int
	Correct        int
	Accuracy       float64 // percent, rounded to one decimal place
	AverageSeconds float64
	ElapsedSeconds int
}

// BuildResults grades every question (retry copies included) against the
// recorded answers, looking up grading rules per question category.
func BuildResults(questions []Question, answers map[string]string, categories map[string]Category) []Result {
	results := make([]Result, 0, len(questions))
	for _, q := range questions {
		r := Result{Question: q, UserAnswer: answers[q.ID]}
		if strings.TrimSpace(r.UserAnswer) != "" {
			cat, ok := categories[q.CategoryID]
			if !ok {
				cat = Category{ID: q.CategoryID, Group: DefaultGroup}
			}
			r.Answered = true
			r.Eval = Evaluate(q, r.UserAnswer, cat)
			r.Correct = r.Eval.Correct
		}
		results = append(results, r)
	}
	return results
}

// Summarize computes whole-session statistics. Accuracy uses
// integer-scaled rounding so 1 of 3 reports 33.3, not a truncated 33.
func Summarize(results []Result, elapsedSeconds int) Summary {
	s := Summary{
		Total:          len(results),
		ElapsedSeconds: elapsedSeconds,
	}
	for _, r := range results {
		if r.Correct {
			s.Correct++
		}
	}
	if s.Total > 0 {
		s.Accuracy = math.Round(float64(s.Correct)/float64(s.Total)*1000) / 10
	}
	if s.Total > 0 && elapsedSeconds > 0 {
		s.AverageSeconds = float64(elapsedSeconds) / float64(s.Total)
	}
	return s
}

// SubmissionItem is one reported question/answer pair.
type SubmissionItem struct {
	ID          string   `json:"id"`
	Prompt      string   `json:"prompt"`
	Answer      string   `json:"answer"`
	UserAnswer  string   `json:"userAnswer"`
	Choices     []string `json:"choices,omitempty"`
	Explanation string   `json:"explanation,omitempty"`
	Correct     bool     `json:"correct"`
}

// SubmissionPayload is the record handed to the submission collaborator
// after completion. Timestamps marshal as ISO-8601.
type SubmissionPayload struct {
	SessionID  string           `json:"sessionId"`
	CategoryID string           `json:"categoryId"`
	Mode       Mode             `json:"mode"`
	StartedAt  time.Time        `json:"startedAt"`
	EndedAt    time.Time        `json:"endedAt"`
	Questions  []SubmissionItem `json:"questions"`
}

// BuildSubmissionPayload maps answered results to submission items.
// Unanswered questions are never reported; when nothing was answered the
// payload is nil and submission is suppressed entirely.
func BuildSubmissionPayload(sessionID string, category Category, mode Mode, startedAt, endedAt time.Time, results []Result) *SubmissionPayload {
	items := make([]SubmissionItem, 0, len(results))
	for _, r := range results {
		if !r.Answered {
			continue
		}
		items = append(items, SubmissionItem{
			ID:          r.Question.ID,
			Prompt:      r.Question.Prompt,
			Answer:      r.Question.Answer,
			UserAnswer:  r.UserAnswer,
			Choices:     r.Question.Choices,
			Explanation: r.Question.Explanation,
			Correct:     r.Correct,
		})
	}
	if len(items) == 0 {
		return nil
	}
	return &SubmissionPayload{
		SessionID:  sessionID,
		CategoryID: category.ID,
		Mode:       mode,
		StartedAt:  startedAt,
		EndedAt:    endedAt,
		Questions:  items,
	}
}
