package practice

import (
	"math"
	"strconv"
	"strings"
)

const (
	// exactTolerance is the default numeric correctness window.
	exactTolerance = 1e-6

	// analysisTolerance is the relative-error window for analysis-style
	// categories (2%).
	analysisTolerance = 0.02
)

// numericReplacer strips decoration that learners and answer keys carry
// around numbers (percent signs, thousands separators, whitespace) and
// maps full-width digits and punctuation from IME input to ASCII.
var numericReplacer = strings.NewReplacer(
	"%", "",
	"％", "",
	",", "",
	"，", "",
	" ", "",
	"\t", "",
	"　", "",
	"０", "0",
	"１", "1",
	"２", "2",
	"３", "3",
	"４", "4",
	"５", "5",
	"６", "6",
	"７", "7",
	"８", "8",
	"９", "9",
	"．", ".",
	"－", "-",
)

// Evaluate grades one question/answer pair under the category's rules.
// It is pure and never fails: malformed numeric input degrades to a
// trimmed string-equality comparison.
//
// Grading rules, in precedence order when both sides parse as numbers:
//  1. Repeatable category with a '%' in the canonical answer: both values
//     are rounded to 1 decimal place independently and must match.
//  2. Analysis-style category with a nonzero canonical answer: relative
//     error must be at most 2%.
//  3. Otherwise: |user - answer| <= 1e-6.
func Evaluate(q Question, rawAnswer string, category Category) EvaluationResult {
	user := strings.TrimSpace(rawAnswer)
	want := strings.TrimSpace(q.Answer)

	userValue, userOK := ParseNumeric(user)
	wantValue, wantOK := ParseNumeric(want)
	if !userOK || !wantOK {
		return EvaluationResult{Correct: user == want}
	}

	res := EvaluationResult{Numeric: true}

	errorValue := userValue - wantValue
	res.ErrorValue = &errorValue
	if wantValue != 0 {
		errorPercent := math.Abs(errorValue) / math.Abs(wantValue)
		res.ErrorPercent = &errorPercent
	}

	switch {
	case category.Repeatable && strings.Contains(want, "%"):
		// Percent-conversion drills compare at 1-decimal granularity
		// regardless of the answer key's own precision.
		res.Correct = roundTenth(userValue) == roundTenth(wantValue)
	case category.AnalysisStyle && wantValue != 0:
		res.Correct = *res.ErrorPercent <= analysisTolerance
	default:
		res.Correct = math.Abs(errorValue) <= exactTolerance
	}

	return res
}

// ParseNumeric parses s as a decimal number after stripping percent
// signs, thousands separators and whitespace. The second return is false
// when s does not represent a finite number.
func ParseNumeric(s string) (float64, bool) {
	cleaned := numericReplacer.Replace(strings.TrimSpace(s))
	if cleaned == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// roundTenth rounds half away from zero to 1 decimal place.
func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
