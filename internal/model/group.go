package model

import "time"

// Group is a teacher-owned set of students that content can be assigned to.
type Group struct {
	BaseModel
	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	OwnerID     uint   `gorm:"index;not null" json:"ownerId"`
}

func (Group) TableName() string {
	return "study_groups"
}

type GroupMember struct {
	BaseModel
	GroupID uint `gorm:"uniqueIndex:idx_group_member;not null" json:"groupId"`
	UserID  uint `gorm:"uniqueIndex:idx_group_member;not null" json:"userId"`
}

func (GroupMember) TableName() string {
	return "study_group_members"
}

// GroupAssignment assigns a course to every member of a group.
type GroupAssignment struct {
	BaseModel
	GroupID  uint       `gorm:"uniqueIndex:idx_group_course;not null" json:"groupId"`
	CourseID string     `gorm:"uniqueIndex:idx_group_course;type:varchar(36);not null" json:"courseId"`
	DueAt    *time.Time `json:"dueAt,omitempty"`
}

func (GroupAssignment) TableName() string {
	return "study_group_assignments"
}
