package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func questionsFromAnswers(answers ...Value) []Question {
	qs := make([]Question, len(answers))
	for i, a := range answers {
		qs[i] = Question{CorrectAnswer: a}
	}
	return qs
}

func TestGradeEmptyQuiz(t *testing.T) {
	res := Grade(nil, Answers{}, 60)

	assert.Equal(t, 0, res.TotalQuestions)
	assert.Equal(t, 0.0, res.ScorePercent)
	assert.False(t, res.Passed)
	assert.Empty(t, res.MissedIndices)

	// An empty quiz cannot be passed even with a zero threshold.
	assert.False(t, Grade(nil, Answers{}, 0).Passed)
}

func TestGradeMultipleChoiceIndexCoercion(t *testing.T) {
	qs := questionsFromAnswers(Number(2))

	cases := []struct {
		name    string
		answer  Value
		correct bool
	}{
		{"number index", Number(2), true},
		{"numeric string", String("2"), true},
		{"padded numeric string", String(" 2 "), true},
		{"wrong index", Number(1), false},
		{"wrong numeric string", String("1"), false},
		{"garbage string", String("two"), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := Grade(qs, Answers{"0": tc.answer}, 60)
			assert.Equal(t, tc.correct, res.CorrectCount == 1)
		})
	}
}

func TestGradeTrueFalseNormalization(t *testing.T) {
	// Stored correct answers are lowercase "true"/"false" strings; clients
	// may submit booleans or string variants with whitespace and casing.
	qs := questionsFromAnswers(String("true"), String("false"))

	res := Grade(qs, Answers{"0": Bool(true), "1": Bool(false)}, 60)
	assert.Equal(t, 2, res.CorrectCount)

	res = Grade(qs, Answers{"0": String(" True "), "1": String("FALSE")}, 60)
	assert.Equal(t, 2, res.CorrectCount)

	res = Grade(qs, Answers{"0": Bool(false), "1": Bool(true)}, 60)
	assert.Equal(t, 0, res.CorrectCount)
	assert.Equal(t, []int{0, 1}, res.MissedIndices)
}

func TestGradeBooleanPriorityOverNumeric(t *testing.T) {
	// A boolean submission must match a stored "true" string via the
	// boolean fast path, not fall through to numeric coercion (which
	// would fail on both sides) or string comparison side effects.
	qs := questionsFromAnswers(String("true"))
	res := Grade(qs, Answers{"0": Bool(true)}, 60)
	require.Equal(t, 1, res.CorrectCount)

	// And a boolean correct answer normalizes the same way.
	qs = questionsFromAnswers(Bool(false))
	res = Grade(qs, Answers{"0": String("false")}, 60)
	assert.Equal(t, 1, res.CorrectCount)
}

func TestGradeStringFallback(t *testing.T) {
	qs := questionsFromAnswers(String("Greenhouse Effect"))

	res := Grade(qs, Answers{"0": String("  greenhouse effect ")}, 60)
	assert.Equal(t, 1, res.CorrectCount)

	res = Grade(qs, Answers{"0": String("albedo")}, 60)
	assert.Equal(t, 0, res.CorrectCount)
}

func TestGradeNaNStringNeverMatchesNumerically(t *testing.T) {
	// "NaN" parses through ParseFloat; it must not count as a successful
	// numeric coercion, and the string fallback still applies.
	qs := questionsFromAnswers(String("NaN"))
	res := Grade(qs, Answers{"0": String("nan")}, 60)
	assert.Equal(t, 1, res.CorrectCount, "falls back to case-insensitive string equality")

	qs = questionsFromAnswers(Number(0))
	res = Grade(qs, Answers{"0": String("NaN")}, 60)
	assert.Equal(t, 0, res.CorrectCount)
}

func TestGradeMissingAnswers(t *testing.T) {
	qs := questionsFromAnswers(Number(0), String("true"), Number(1))

	res := Grade(qs, Answers{}, 60)
	assert.Equal(t, 0, res.CorrectCount)
	assert.Equal(t, 0.0, res.ScorePercent)
	assert.False(t, res.Passed)
	assert.Equal(t, []int{0, 1, 2}, res.MissedIndices)

	// Sparse submission: only the middle question answered.
	res = Grade(qs, Answers{"1": Bool(true)}, 60)
	assert.Equal(t, 1, res.CorrectCount)
	assert.Equal(t, []int{0, 2}, res.MissedIndices)
}

func TestGradeMixedScenario(t *testing.T) {
	// Five questions with correct answers [0, "true", 2, "false", 1].
	// Submission {0:0, 1:"true", 2:"1", 3:false, 4:1}: index 2 is wrong
	// ("1" coerces to 1, compared to 2), everything else matches.
	qs := questionsFromAnswers(
		Number(0),
		String("true"),
		Number(2),
		String("false"),
		Number(1),
	)
	answers := Answers{
		"0": Number(0),
		"1": String("true"),
		"2": String("1"),
		"3": Bool(false),
		"4": Number(1),
	}

	res := Grade(qs, answers, 60)

	assert.Equal(t, 4, res.CorrectCount)
	assert.Equal(t, 5, res.TotalQuestions)
	assert.Equal(t, 80.0, res.ScorePercent)
	assert.True(t, res.Passed)
	assert.Equal(t, []int{2}, res.MissedIndices)
}

func TestGradePassBoundary(t *testing.T) {
	qs := questionsFromAnswers(
		Number(0), Number(1), Number(2), Number(0), Number(1),
	)
	// Exactly 3 of 5 correct: 60% meets a 60% threshold.
	answers := Answers{
		"0": Number(0),
		"1": Number(1),
		"2": Number(2),
		"3": Number(9),
		"4": Number(9),
	}

	res := Grade(qs, answers, 60)
	assert.Equal(t, 3, res.CorrectCount)
	assert.Equal(t, 60.0, res.ScorePercent)
	assert.True(t, res.Passed)

	res = Grade(qs, answers, 60.1)
	assert.False(t, res.Passed)
}

func TestGradeDeterministic(t *testing.T) {
	qs := questionsFromAnswers(Number(1), String("true"), String("Arctic"))
	answers := Answers{"0": String("1"), "1": Bool(true), "2": String("arctic ")}

	first := Grade(qs, answers, 60)
	second := Grade(qs, answers, 60)
	assert.Equal(t, first, second)
}

func TestRoundedScore(t *testing.T) {
	qs := questionsFromAnswers(Number(0), Number(0), Number(0))
	res := Grade(qs, Answers{"0": Number(0)}, 60)

	// Full precision internally, one decimal for display.
	assert.InDelta(t, 33.333333, res.ScorePercent, 1e-4)
	assert.Equal(t, 33.3, res.RoundedScore())

	perfect := Grade(qs, Answers{"0": Number(0), "1": Number(0), "2": Number(0)}, 60)
	assert.Equal(t, 100.0, perfect.ScorePercent)
	assert.Equal(t, 100.0, perfect.RoundedScore())
}

func TestParseAnswers(t *testing.T) {
	raw := map[string]interface{}{
		"0": float64(2),
		"1": "true",
		"2": false,
	}
	answers, err := ParseAnswers(raw)
	require.NoError(t, err)
	assert.Len(t, answers, 3)
	assert.Equal(t, KindNumber, answers["0"].Kind())
	assert.Equal(t, KindString, answers["1"].Kind())
	assert.Equal(t, KindBool, answers["2"].Kind())

	_, err = ParseAnswers(map[string]interface{}{
		"0": []interface{}{"not", "a", "primitive"},
	})
	assert.Error(t, err)

	_, err = ParseAnswers(map[string]interface{}{"0": nil})
	assert.Error(t, err)
}
