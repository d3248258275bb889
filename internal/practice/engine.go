package practice

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// MinBatchSize and MaxBatchSize clamp the requested session size.
	MinBatchSize = 1
	MaxBatchSize = 50

	// AutoAdvanceDelay is the feedback grace period before a correct drill
	// answer auto-advances.
	AutoAdvanceDelay = 700 * time.Millisecond

	// retrySuffix derives the id of a re-queued question copy from the
	// original id, keeping answer-map keys unique.
	retrySuffix = "#retry"
)

// Engine owns one quick-practice run: the question list, answer map,
// elapsed-time tracking and the idle → loading → active → done lifecycle.
//
// The engine has exactly one writer (the UI event loop) and does no I/O
// of its own. Asynchronous work — the batch fetch, the periodic tick and
// the delayed auto-advance — is driven by the caller, which delivers
// outcomes back through ApplyBatch, Tick and AutoAdvance. Stale
// deliveries are discarded by monotonically increasing tokens, so a late
// fetch or a superseded advance can never act on the wrong session state.
//
// Operations invoked in the wrong state are silent no-ops, never errors:
// the UI may legitimately race a stale event against a transition.
type Engine struct {
	status   Status
	mode     Mode
	category Category
	autoNext bool

	categories map[string]Category

	sessionID    string
	questions    []Question
	currentIndex int
	answers      map[string]string

	// retried caps re-queuing at one per original question id. It is
	// never decremented, so a retry copy can never spawn a third
	// occurrence.
	retried     map[string]bool
	retryOrigin map[string]string

	startedAt      time.Time
	endedAt        time.Time
	elapsedSeconds int

	errMsg string

	fetchToken   int
	advanceToken int
	submitted    bool
}

// NewEngine creates an idle engine over the supplied category collection.
// Questions referencing an unknown category id are graded with default
// (non-repeatable, non-analysis) rules rather than failing.
func NewEngine(categories []Category) *Engine {
	byID := make(map[string]Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}
	return &Engine{
		status:     StatusIdle,
		categories: byID,
		answers:    make(map[string]string),
	}
}

// SetAutoNext toggles the delayed auto-advance after a correct drill
// answer.
func (e *Engine) SetAutoNext(on bool) {
	e.autoNext = on
}

// StartSession begins loading a new run. Valid only from idle or done;
// a blank category is rejected. The returned token must accompany the
// matching ApplyBatch call, and the clamped size is what the question
// source should be asked for.
func (e *Engine) StartSession(category Category, size int, mode Mode) (token, clampedSize int, ok bool) {
	if e.status != StatusIdle && e.status != StatusDone {
		return 0, 0, false
	}
	if category.ID == "" {
		e.errMsg = "no category selected"
		return 0, 0, false
	}
	if size < MinBatchSize {
		size = MinBatchSize
	}
	if size > MaxBatchSize {
		size = MaxBatchSize
	}

	e.clearRun()
	e.status = StatusLoading
	e.category = category
	e.mode = mode
	e.fetchToken++
	return e.fetchToken, size, true
}

// ApplyBatch delivers the outcome of the batch fetch started by
// StartSession. A stale token — the consumer reset or restarted since the
// request went out — is discarded. On failure the engine returns to idle
// with an error message and no partial state. An empty batch is accepted:
// the session reaches active and is immediately completable.
func (e *Engine) ApplyBatch(token int, questions []Question, err error) {
	if e.status != StatusLoading || token != e.fetchToken {
		return
	}
	if err != nil {
		e.status = StatusIdle
		e.errMsg = err.Error()
		return
	}

	e.sessionID = uuid.New().String()
	e.questions = append([]Question(nil), questions...)
	e.currentIndex = 0
	e.answers = make(map[string]string)
	e.retried = make(map[string]bool)
	e.retryOrigin = make(map[string]string)
	e.startedAt = time.Now()
	e.elapsedSeconds = 0
	e.status = StatusActive
}

// SubmitOutcome reports what SubmitAnswer did, so the UI can schedule
// follow-up work.
type SubmitOutcome struct {
	// Recorded is false when the submission was rejected (wrong state,
	// already answered, blank or un-evaluable input).
	Recorded bool

	// Eval is the grading result for a recorded answer.
	Eval EvaluationResult

	// RetryQueued is true when a missed question was re-queued.
	RetryQueued bool

	// Advanced is true when the session moved to the next question.
	Advanced bool

	// Completed is true when the session transitioned to done.
	Completed bool

	// AutoAdvance, when nonzero, is the token for a delayed advance the
	// caller should fire after AutoAdvanceDelay.
	AutoAdvance int
}

// SubmitAnswer records and grades the answer for the current question.
// Each question id is write-once: a second submission for the same id is
// a no-op. Free-text input that fails numeric parsing is rejected before
// recording, so every stored answer is evaluable.
//
// In quiz mode recording always advances (or completes). In drill mode
// the session stays on the answered question; a wrong answer in a
// repeatable category is re-queued once, and a correct answer arms the
// delayed auto-advance when enabled.
func (e *Engine) SubmitAnswer(raw string) SubmitOutcome {
	if e.status != StatusActive || e.currentIndex >= len(e.questions) {
		return SubmitOutcome{}
	}
	q := e.questions[e.currentIndex]
	if _, answered := e.answers[q.ID]; answered {
		return SubmitOutcome{}
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return SubmitOutcome{}
	}
	if !q.MultipleChoice() {
		if _, ok := ParseNumeric(value); !ok {
			return SubmitOutcome{}
		}
	}

	e.answers[q.ID] = value
	out := SubmitOutcome{
		Recorded: true,
		Eval:     Evaluate(q, value, e.categoryFor(q)),
	}

	if e.mode == ModeQuiz {
		out.Advanced = true
		out.Completed = e.advance()
		return out
	}

	// Drill mode.
	if !out.Eval.Correct {
		out.RetryQueued = e.queueRetry(q)
		return out
	}
	if e.autoNext {
		// A new token supersedes any pending advance instead of stacking.
		e.advanceToken++
		out.AutoAdvance = e.advanceToken
	}
	return out
}

// NextQuestion advances the pointer, completing the session when no
// questions remain. Any pending delayed advance is cancelled. The second
// return is the recorded answer for the newly current question, used to
// rehydrate the input buffer during quiz-mode review navigation.
func (e *Engine) NextQuestion() (completed bool, prefill string) {
	if e.status != StatusActive {
		return false, ""
	}
	e.advanceToken++
	if e.advance() {
		return true, ""
	}
	if q := e.Current(); q != nil {
		prefill = e.answers[q.ID]
	}
	return false, prefill
}

// AutoAdvance fires a delayed advance armed by SubmitAnswer. A stale
// token — superseded, manually advanced past, or reset — is ignored.
func (e *Engine) AutoAdvance(token int) (completed bool) {
	if e.status != StatusActive || token != e.advanceToken {
		return false
	}
	completed, _ = e.NextQuestion()
	return completed
}

// advance moves the pointer or finishes the run. Returns true on
// completion.
func (e *Engine) advance() bool {
	if e.currentIndex+1 >= len(e.questions) {
		e.finish()
		return true
	}
	e.currentIndex++
	return false
}

// queueRetry appends a copy of q with a derived id, at most once per
// original question. Retry copies are themselves never retry-eligible.
func (e *Engine) queueRetry(q Question) bool {
	cat := e.categoryFor(q)
	if !cat.Repeatable {
		return false
	}
	origin := q.ID
	if o, ok := e.retryOrigin[q.ID]; ok {
		origin = o
	}
	if e.retried[origin] {
		return false
	}
	e.retried[origin] = true

	retry := q
	retry.ID = origin + retrySuffix
	retry.Choices = append([]string(nil), q.Choices...)
	e.retryOrigin[retry.ID] = origin
	e.questions = append(e.questions, retry)
	return true
}

// Tick recomputes the elapsed display value while active. Ticks arriving
// after completion or reset are discarded, so elapsedSeconds cannot be
// corrupted once frozen.
func (e *Engine) Tick(now time.Time) {
	if e.status != StatusActive {
		return
	}
	if secs := int(now.Sub(e.startedAt).Seconds()); secs >= 0 {
		e.elapsedSeconds = secs
	}
}

// FinishSession completes the run. Idempotent: on an already-done session
// it is a no-op.
func (e *Engine) FinishSession() {
	if e.status != StatusActive {
		return
	}
	e.finish()
}

// finish stamps endedAt, freezes elapsedSeconds at its last tick value
// and cancels any pending delayed advance.
func (e *Engine) finish() {
	e.status = StatusDone
	e.endedAt = time.Now()
	e.advanceToken++
}

// TakeSubmission builds the submission payload exactly once per completed
// session. It returns nil when the session is not done, when a payload
// was already taken, or when no question was answered (nothing to
// report). A failed upload may call SubmissionFailed to make one explicit
// retry possible.
func (e *Engine) TakeSubmission() *SubmissionPayload {
	if e.status != StatusDone || e.submitted {
		return nil
	}
	e.submitted = true
	return BuildSubmissionPayload(
		e.sessionID, e.category, e.mode, e.startedAt, e.endedAt, e.Results(),
	)
}

// SubmissionFailed clears the one-time submission guard after an upload
// failure so the consumer can retry explicitly. It never re-triggers a
// submission by itself.
func (e *Engine) SubmissionFailed() {
	if e.status == StatusDone {
		e.submitted = false
	}
}

// Reset discards the run entirely and returns to idle. Valid from any
// state; pending fetches, ticks and delayed advances are all invalidated.
func (e *Engine) Reset() {
	e.clearRun()
	e.status = StatusIdle
	e.errMsg = ""
}

func (e *Engine) clearRun() {
	e.sessionID = ""
	e.questions = nil
	e.currentIndex = 0
	e.answers = make(map[string]string)
	e.retried = nil
	e.retryOrigin = nil
	e.startedAt = time.Time{}
	e.endedAt = time.Time{}
	e.elapsedSeconds = 0
	e.fetchToken++
	e.advanceToken++
	e.submitted = false
}

// ClearError clears the session-level error message.
func (e *Engine) ClearError() {
	e.errMsg = ""
}

// Results grades every question in order, treating missing answers as
// unanswered and incorrect.
func (e *Engine) Results() []Result {
	return BuildResults(e.questions, e.answers, e.categories)
}

// Summary aggregates the run's results at its frozen elapsed time.
func (e *Engine) Summary() Summary {
	return Summarize(e.Results(), e.elapsedSeconds)
}

// categoryFor resolves a question's category, degrading to default rules
// when the id is not in the supplied collection.
func (e *Engine) categoryFor(q Question) Category {
	if c, ok := e.categories[q.CategoryID]; ok {
		return c
	}
	return Category{ID: q.CategoryID, Group: DefaultGroup}
}

// Status returns the lifecycle state.
func (e *Engine) Status() Status { return e.status }

// Mode returns the session mode.
func (e *Engine) Mode() Mode { return e.mode }

// Category returns the category the session was started with.
func (e *Engine) Category() Category { return e.category }

// SessionID returns the id assigned when the batch arrived.
func (e *Engine) SessionID() string { return e.sessionID }

// Questions returns the session's question sequence. The slice is
// append-only; callers must not mutate it.
func (e *Engine) Questions() []Question { return e.questions }

// CurrentIndex returns the question pointer.
func (e *Engine) CurrentIndex() int { return e.currentIndex }

// Current returns the question under the pointer, or nil when the
// session holds no questions.
func (e *Engine) Current() *Question {
	if e.currentIndex >= len(e.questions) {
		return nil
	}
	return &e.questions[e.currentIndex]
}

// AnswerFor returns the recorded answer for a question id, with a second
// return reporting whether one exists.
func (e *Engine) AnswerFor(id string) (string, bool) {
	v, ok := e.answers[id]
	return v, ok
}

// CurrentAnswered reports whether the question under the pointer has a
// recorded answer.
func (e *Engine) CurrentAnswered() bool {
	q := e.Current()
	if q == nil {
		return false
	}
	_, ok := e.answers[q.ID]
	return ok
}

// AnsweredCount returns the number of recorded answers.
func (e *Engine) AnsweredCount() int { return len(e.answers) }

// ElapsedSeconds returns the tick-derived elapsed display value.
func (e *Engine) ElapsedSeconds() int { return e.elapsedSeconds }

// StartedAt returns the session start timestamp.
func (e *Engine) StartedAt() time.Time { return e.startedAt }

// EndedAt returns the completion timestamp, zero until done.
func (e *Engine) EndedAt() time.Time { return e.endedAt }

// Err returns the session-level error message, empty when none.
func (e *Engine) Err() string { return e.errMsg }
