package model

type BadgeKind string

const (
	BadgeQuizPass         BadgeKind = "quiz_pass"
	BadgePerfectScore     BadgeKind = "perfect_score"
	BadgeCourseCompletion BadgeKind = "course_completion"
)

// Badge is an achievement definition. Per-quiz perfect-score badges are
// created lazily on the first-ever perfect submission for that quiz.
type Badge struct {
	BaseModel
	Slug     string    `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Name     string    `gorm:"size:100;not null" json:"name"`
	Kind     BadgeKind `gorm:"size:30;not null" json:"kind"`
	Icon     string    `gorm:"size:255" json:"icon"`
	RewardXP int       `gorm:"default:0" json:"rewardXp"`
	QuizID   *string   `gorm:"type:varchar(36);index" json:"quizId,omitempty"`
	CourseID *string   `gorm:"type:varchar(36);index" json:"courseId,omitempty"`
}

func (Badge) TableName() string {
	return "badges"
}

// UserBadge is a grant row. The composite unique index makes grants
// idempotent: concurrent or retried grants for the same (user, badge)
// collapse to one row via upsert.
type UserBadge struct {
	BaseModel
	UserID  uint `gorm:"uniqueIndex:idx_user_badge;not null" json:"userId"`
	BadgeID uint `gorm:"uniqueIndex:idx_user_badge;not null" json:"badgeId"`
}

func (UserBadge) TableName() string {
	return "user_badges"
}
