package practice

import (
	"math"
	"testing"
)

func TestEvaluate_ExactNumeric(t *testing.T) {
	q := Question{Answer: "42"}
	cat := Category{ID: "speed-add", Group: "基础速算"}

	tests := []struct {
		input string
		want  bool
	}{
		{"42", true},
		{" 42 ", true},
		{"42.0", true},
		{"42.0000001", true}, // inside 1e-6
		{"42.1", false},
		{"43", false},
	}

	for _, tc := range tests {
		got := Evaluate(q, tc.input, cat)
		if got.Correct != tc.want {
			t.Errorf("Evaluate(%q, answer 42) = %v, want %v", tc.input, got.Correct, tc.want)
		}
		if !got.Numeric {
			t.Errorf("Evaluate(%q, answer 42): Numeric = false, want true", tc.input)
		}
	}
}

func TestEvaluate_StringFallback(t *testing.T) {
	q := Question{Answer: "B"}
	cat := Category{ID: "choice-cat"}

	got := Evaluate(q, " B ", cat)
	if !got.Correct {
		t.Error("expected trimmed string equality to pass")
	}
	if got.Numeric {
		t.Error("Numeric should be false for string comparison")
	}
	if got.ErrorValue != nil || got.ErrorPercent != nil {
		t.Error("error fields should be nil for string comparison")
	}

	if Evaluate(q, "C", cat).Correct {
		t.Error("expected mismatched strings to fail")
	}
}

func TestEvaluate_PercentRounding(t *testing.T) {
	q := Question{Answer: "33.3%"}
	cat := NewCategory("percent-decimal", "基础速算")
	if !cat.Repeatable {
		t.Fatal("percent-decimal should be repeatable")
	}

	tests := []struct {
		input string
		want  bool
	}{
		{"33.3", true},
		{"33.34", true},  // rounds to 33.3
		{"33.36", false}, // rounds to 33.4
		{"33.3%", true},
		{"33.25", true}, // half away from zero rounds to 33.3
		{"34", false},
	}

	for _, tc := range tests {
		got := Evaluate(q, tc.input, cat)
		if got.Correct != tc.want {
			t.Errorf("Evaluate(%q, answer 33.3%%, repeatable) = %v, want %v", tc.input, got.Correct, tc.want)
		}
	}
}

func TestEvaluate_PercentRoundingIgnoresAnswerPrecision(t *testing.T) {
	// A 2-decimal answer key is still compared at 1-decimal granularity.
	q := Question{Answer: "33.33%"}
	cat := NewCategory("percent-precision", GroupAnalysis)

	if !Evaluate(q, "33.28", cat).Correct {
		t.Error("33.28 rounds to 33.3, expected correct against 33.33%")
	}
	if Evaluate(q, "33.38", cat).Correct {
		t.Error("33.38 rounds to 33.4, expected incorrect against 33.33%")
	}
}

func TestEvaluate_AnalysisTolerance(t *testing.T) {
	q := Question{Answer: "100"}
	cat := NewCategory("growth-rate", GroupAnalysis)
	if cat.Repeatable {
		t.Fatal("growth-rate should not be repeatable")
	}
	if !cat.AnalysisStyle {
		t.Fatal("analysis group should set AnalysisStyle")
	}

	tests := []struct {
		input string
		want  bool
	}{
		{"100", true},
		{"102", true},     // exactly 2%
		{"98", true},      // -2%
		{"102.01", false}, // just over
		{"97.9", false},
	}

	for _, tc := range tests {
		got := Evaluate(q, tc.input, cat)
		if got.Correct != tc.want {
			t.Errorf("Evaluate(%q, answer 100, analysis) = %v, want %v", tc.input, got.Correct, tc.want)
		}
	}
}

func TestEvaluate_AnalysisZeroAnswerExact(t *testing.T) {
	q := Question{Answer: "0"}
	cat := NewCategory("growth-rate", GroupAnalysis)

	got := Evaluate(q, "0", cat)
	if !got.Correct {
		t.Error("0 should match 0 exactly")
	}
	if got.ErrorPercent != nil {
		t.Error("ErrorPercent should be nil for a zero canonical answer")
	}
	if Evaluate(q, "0.5", cat).Correct {
		t.Error("zero answers require exact match regardless of tolerance")
	}
}

func TestEvaluate_ErrorDiagnostics(t *testing.T) {
	q := Question{Answer: "200"}
	got := Evaluate(q, "210", Category{ID: "x"})

	if got.ErrorValue == nil || *got.ErrorValue != 10 {
		t.Fatalf("ErrorValue = %v, want 10", got.ErrorValue)
	}
	if got.ErrorPercent == nil || math.Abs(*got.ErrorPercent-0.05) > 1e-12 {
		t.Fatalf("ErrorPercent = %v, want 0.05", got.ErrorPercent)
	}
}

func TestParseNumeric(t *testing.T) {
	tests := []struct {
		input string
		value float64
		ok    bool
	}{
		{"42", 42, true},
		{"33.3%", 33.3, true},
		{"1,234.5", 1234.5, true},
		{" 7 ", 7, true},
		{"-0.5", -0.5, true},
		{"１２", 12, true}, // full-width IME digits normalize
		{"３３．４％", 33.4, true},
		{"abc", 0, false},
		{"", 0, false},
		{"%", 0, false},
		{"Inf", 0, false},
		{"NaN", 0, false},
	}

	for _, tc := range tests {
		v, ok := ParseNumeric(tc.input)
		if ok != tc.ok || (ok && v != tc.value) {
			t.Errorf("ParseNumeric(%q) = %v, %v; want %v, %v", tc.input, v, ok, tc.value, tc.ok)
		}
	}
}

func TestNewCategory_Defaults(t *testing.T) {
	c := NewCategory("speed-add", "")
	if c.Group != DefaultGroup {
		t.Errorf("blank group = %q, want %q", c.Group, DefaultGroup)
	}
	if c.Repeatable || c.AnalysisStyle {
		t.Error("speed-add should be neither repeatable nor analysis-style")
	}
}
