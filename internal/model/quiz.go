package model

import "encoding/json"

type QuestionKind string

const (
	MultipleChoice QuestionKind = "multiple_choice"
	TrueFalse      QuestionKind = "true_false"
)

// Quiz owns an ordered list of questions. Answers are keyed by question
// position, not by question id, so the order is significant.
type Quiz struct {
	UUIDBase
	CourseID            string         `gorm:"index;type:varchar(36);not null" json:"courseId"`
	Title               string         `gorm:"size:255;not null" json:"title"`
	Topic               string         `gorm:"size:255" json:"topic"`
	PassingScorePercent float64        `gorm:"default:60" json:"passingScorePercent"`
	Questions           []QuizQuestion `gorm:"foreignKey:QuizID;references:ID" json:"questions,omitempty"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// QuizQuestion is immutable once generated; the regenerate operation
// replaces a quiz's whole question list instead of editing rows in place.
type QuizQuestion struct {
	UUIDBase
	QuizID        string          `gorm:"index;type:varchar(36);not null" json:"quizId"`
	Position      int             `gorm:"not null" json:"position"`
	Text          string          `gorm:"type:text;not null" json:"text"`
	Kind          QuestionKind    `gorm:"size:20;not null" json:"kind"`
	Options       json.RawMessage `gorm:"type:json" json:"options,omitempty"` // multiple_choice only
	CorrectAnswer string          `gorm:"size:255;not null" json:"-"`
	Explanation   string          `gorm:"type:text" json:"-"`
}

func (QuizQuestion) TableName() string {
	return "quiz_questions"
}
