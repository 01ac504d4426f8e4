package model

import "time"

// Course is an authored or AI-generated unit of learning content.
type Course struct {
	UUIDBase
	Title       string `gorm:"size:255;not null" json:"title"`
	Topic       string `gorm:"size:255" json:"topic"`
	Description string `gorm:"type:text" json:"description"`
	Difficulty  string `gorm:"size:20;default:'beginner'" json:"difficulty"`
	Material    string `gorm:"type:longtext" json:"material"` // markdown learning material
	CoverURL    string `gorm:"size:255" json:"coverUrl"`
	CreatorID   uint   `gorm:"index" json:"creatorId"`
	IsPublished bool   `gorm:"default:false" json:"isPublished"`
}

func (Course) TableName() string {
	return "courses"
}

// CourseProgress tracks a single learner's completion of a course.
// One row per (user, course); created at enrollment with percent 0.
type CourseProgress struct {
	BaseModel
	UserID      uint       `gorm:"uniqueIndex:idx_user_course;not null" json:"userId"`
	CourseID    string     `gorm:"uniqueIndex:idx_user_course;type:varchar(36);not null" json:"courseId"`
	Percent     float64    `gorm:"default:0" json:"percent"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

func (CourseProgress) TableName() string {
	return "course_progress"
}

// CourseMaterial is a teacher-uploaded supporting file (document or video)
// attached to a course.
type CourseMaterial struct {
	UUIDBase
	CourseID     string  `gorm:"index;type:varchar(36);not null" json:"courseId"`
	UploaderID   uint    `gorm:"index" json:"uploaderId"`
	Title        string  `gorm:"size:255;not null" json:"title"`
	FileURL      string  `gorm:"size:255" json:"fileUrl"`
	ThumbnailURL string  `gorm:"size:255" json:"thumbnailUrl"`
	ContentType  string  `gorm:"size:100" json:"contentType"`
	SizeBytes    int64   `json:"sizeBytes"`
	DurationSec  float64 `gorm:"default:0" json:"durationSec,omitempty"` // videos only
}

func (CourseMaterial) TableName() string {
	return "course_materials"
}
