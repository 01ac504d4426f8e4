package model

import (
	"encoding/json"
	"time"
)

// QuizAttempt records one graded submission. ScorePercent keeps full float
// precision; rounding happens only at the response edge.
type QuizAttempt struct {
	UUIDBase
	UserID         uint            `gorm:"index;not null" json:"userId"`
	QuizID         string          `gorm:"index;type:varchar(36);not null" json:"quizId"`
	CorrectCount   int             `gorm:"not null" json:"correctCount"`
	TotalQuestions int             `gorm:"not null" json:"totalQuestions"`
	ScorePercent   float64         `gorm:"not null" json:"scorePercent"`
	Passed         bool            `gorm:"not null" json:"passed"`
	MissedIndices  json.RawMessage `gorm:"type:json" json:"missedIndices"`
	Answers        json.RawMessage `gorm:"type:json" json:"answers"`
	SubmittedAt    time.Time       `json:"submittedAt"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}
