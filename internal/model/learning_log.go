package model

// LearningLog is an append-only activity record used for dashboards and
// duplicate-reward checks.
type LearningLog struct {
	BaseModel
	UserID   uint   `gorm:"index;not null" json:"userId"`
	Activity string `gorm:"size:50;not null" json:"activity"`
	Content  string `gorm:"size:500" json:"content"`
	Duration int    `gorm:"default:0" json:"duration"` // seconds
	Score    int    `gorm:"default:0" json:"score"`
}

func (LearningLog) TableName() string {
	return "learning_logs"
}
