package grading

import (
	"math"
	"strconv"
	"strings"
)

// Question is the minimal view of a quiz question the grader needs.
type Question struct {
	CorrectAnswer Value
}

// Result is the outcome of grading a full submission.
type Result struct {
	CorrectCount   int     `json:"correctCount"`
	TotalQuestions int     `json:"totalQuestions"`
	ScorePercent   float64 `json:"scorePercent"`
	Passed         bool    `json:"passed"`
	MissedIndices  []int   `json:"missedIndices"`
}

// RoundedScore is ScorePercent rounded to one decimal place, for display.
// Internal consumers (perfect-score badge check) use the unrounded value.
func (r Result) RoundedScore() float64 {
	return math.Round(r.ScorePercent*10) / 10
}

// Grade compares a submission against a quiz's questions and produces a
// score and pass/fail verdict. Pure: no I/O, and malformed or missing
// answers degrade to "incorrect" rather than erroring.
func Grade(questions []Question, answers Answers, passingScorePercent float64) Result {
	res := Result{
		TotalQuestions: len(questions),
		MissedIndices:  make([]int, 0, len(questions)),
	}

	for i, q := range questions {
		ans, ok := answers[strconv.Itoa(i)]
		if ok && answerEqual(ans, q.CorrectAnswer) {
			res.CorrectCount++
		} else {
			res.MissedIndices = append(res.MissedIndices, i)
		}
	}

	if res.TotalQuestions > 0 {
		res.ScorePercent = float64(res.CorrectCount) / float64(res.TotalQuestions) * 100
		res.Passed = res.ScorePercent >= passingScorePercent
	}

	return res
}

// answerEqual applies the comparison policy for a single question:
//
//  1. boolean submissions normalize to "true"/"false" strings;
//  2. if both sides then read "true" or "false", compare those strings --
//     this runs before numeric coercion so true/false answers are never
//     routed through the string-equality fallback by a failed ParseFloat;
//  3. if both sides coerce to numbers, compare numerically (option
//     indices may arrive as either numbers or numeric strings);
//  4. otherwise compare as trimmed, case-insensitive strings.
func answerEqual(user, correct Value) bool {
	u := normalize(user)
	c := normalize(correct)

	ub, uok := boolString(u)
	cb, cok := boolString(c)
	if uok && cok {
		return ub == cb
	}

	un, uok := asNumber(u)
	cn, cok := asNumber(c)
	if uok && cok {
		return un == cn
	}

	return strings.EqualFold(strings.TrimSpace(u.asString()), strings.TrimSpace(c.asString()))
}
