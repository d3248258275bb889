package practice

import (
	"testing"
	"time"
)

func resultCategories() map[string]Category {
	return map[string]Category{
		"speed-add": NewCategory("speed-add", "基础速算"),
	}
}

func TestBuildResults_UnansweredNeverEvaluated(t *testing.T) {
	qs := testQuestions("speed-add", 3)
	answers := map[string]string{
		"q1": "0",
		"q3": "  ", // blank counts as unanswered
	}

	results := BuildResults(qs, answers, resultCategories())
	if len(results) != 3 {
		t.Fatalf("len = %d, want 3", len(results))
	}
	if !results[0].Answered || !results[0].Correct {
		t.Error("q1 should be answered and correct")
	}
	if results[1].Answered || results[1].Correct {
		t.Error("q2 should be unanswered and incorrect")
	}
	if results[2].Answered {
		t.Error("blank answers must count as unanswered")
	}
	if results[1].Eval.Numeric || results[2].Eval.Numeric {
		t.Error("unanswered questions must not be evaluated")
	}
}

func TestSummarize_AccuracyRounding(t *testing.T) {
	tests := []struct {
		correct, total int
		want           float64
	}{
		{7, 10, 70.0},
		{1, 3, 33.3},
		{2, 3, 66.7},
		{0, 5, 0},
		{5, 5, 100},
	}

	for _, tc := range tests {
		results := make([]Result, tc.total)
		for i := 0; i < tc.correct; i++ {
			results[i].Correct = true
		}
		got := Summarize(results, 60)
		if got.Accuracy != tc.want {
			t.Errorf("Summarize(%d/%d).Accuracy = %v, want %v", tc.correct, tc.total, got.Accuracy, tc.want)
		}
	}
}

func TestSummarize_AverageSeconds(t *testing.T) {
	results := make([]Result, 4)

	got := Summarize(results, 60)
	if got.AverageSeconds != 15 {
		t.Errorf("AverageSeconds = %v, want 15", got.AverageSeconds)
	}

	if Summarize(results, 0).AverageSeconds != 0 {
		t.Error("zero elapsed must yield zero average")
	}
	if Summarize(nil, 60).AverageSeconds != 0 {
		t.Error("zero questions must yield zero average")
	}
}

func TestBuildSubmissionPayload_Filtering(t *testing.T) {
	qs := testQuestions("speed-add", 5)
	answers := map[string]string{"q1": "0", "q2": "9", "q4": "6"}
	results := BuildResults(qs, answers, resultCategories())

	started := time.Now().Add(-2 * time.Minute)
	ended := time.Now()
	payload := BuildSubmissionPayload("sess-1", NewCategory("speed-add", ""), ModeQuiz, started, ended, results)

	if payload == nil {
		t.Fatal("expected a payload")
	}
	if len(payload.Questions) != 3 {
		t.Fatalf("entries = %d, want 3", len(payload.Questions))
	}
	if payload.Questions[1].ID != "q2" || payload.Questions[1].Correct {
		t.Error("q2 should be reported and incorrect")
	}
	if !payload.StartedAt.Equal(started) || !payload.EndedAt.Equal(ended) {
		t.Error("timestamps must be carried through")
	}
}

func TestBuildSubmissionPayload_EmptySuppressed(t *testing.T) {
	qs := testQuestions("speed-add", 2)
	results := BuildResults(qs, nil, resultCategories())

	if BuildSubmissionPayload("sess-2", NewCategory("speed-add", ""), ModeDrill, time.Now(), time.Now(), results) != nil {
		t.Error("a session with no answers must produce no payload")
	}
}
