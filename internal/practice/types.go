package practice

import "strings"

// Mode selects the turn-taking rules for a session.
type Mode string

const (
	// ModeDrill keeps the learner on an answered question for feedback and
	// may re-queue a missed question once in repeatable categories.
	ModeDrill Mode = "drill"

	// ModeQuiz advances immediately on every submission, with no in-line
	// feedback.
	ModeQuiz Mode = "quiz"
)

// Status is the lifecycle state of a practice session.
type Status int

const (
	StatusIdle    Status = iota // no questions loaded
	StatusLoading               // batch request in flight
	StatusActive                // accepting answers
	StatusDone                  // terminal, summarized
)

// GroupAnalysis is the display group whose numeric answers are graded
// with relative-error tolerance instead of exact match.
const GroupAnalysis = "资料分析专项"

// DefaultGroup is the sentinel group for categories without one.
const DefaultGroup = "未分组"

// repeatableCategories lists the category ids where one wrong answer
// re-queues the question for a single repeat attempt.
var repeatableCategories = map[string]bool{
	"percent-decimal":   true,
	"percent-precision": true,
}

// Category describes a practice category. The engine only reads it;
// the question bank supplies the collection.
type Category struct {
	// ID is an opaque identifier, stable across a session.
	ID string

	// Group is the display grouping label, e.g. "基础速算".
	Group string

	// Repeatable marks categories where a wrong answer may be re-queued
	// once.
	Repeatable bool

	// AnalysisStyle marks categories graded with relative-error tolerance.
	AnalysisStyle bool
}

// NewCategory builds a Category with Repeatable and AnalysisStyle derived
// from the id allow-list and the group label. A blank group falls back to
// DefaultGroup.
func NewCategory(id, group string) Category {
	group = strings.TrimSpace(group)
	if group == "" {
		group = DefaultGroup
	}
	return Category{
		ID:            id,
		Group:         group,
		Repeatable:    repeatableCategories[id],
		AnalysisStyle: group == GroupAnalysis,
	}
}

// Question is a single practice item. Retry-injected copies get a derived
// but distinct ID so answer-map keys stay unique.
type Question struct {
	// ID is unique within a session.
	ID string

	// CategoryID references the supplying category.
	CategoryID string

	// Prompt is the display text.
	Prompt string

	// Answer is the canonical answer string. It may contain a '%' to
	// signal percent semantics.
	Answer string

	// Choices, when present, switches the question to multiple-choice
	// input.
	Choices []string

	// Explanation is optional worked-solution text shown after answering
	// in drill mode.
	Explanation string

	// Shortcut is an optional mental-math shortcut shown with the
	// explanation.
	Shortcut string
}

// MultipleChoice reports whether the question is answered by picking a
// choice rather than typing a value.
func (q Question) MultipleChoice() bool {
	return len(q.Choices) > 0
}

// EvaluationResult is the outcome of grading one answer. It is computed
// fresh per evaluation and never cached against the Question.
type EvaluationResult struct {
	// Correct is the graded verdict.
	Correct bool

	// Numeric is true when both sides parsed as finite numbers.
	Numeric bool

	// ErrorValue is user minus answer; nil for non-numeric comparisons.
	ErrorValue *float64

	// ErrorPercent is |ErrorValue| / |answer|; nil for non-numeric
	// comparisons or a zero canonical answer.
	ErrorPercent *float64
}
