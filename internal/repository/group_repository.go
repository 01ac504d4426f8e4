package repository

import (
	"climate_edu_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GroupRepository struct {
	DB *gorm.DB
}

func NewGroupRepository(db *gorm.DB) *GroupRepository {
	return &GroupRepository{DB: db}
}

func (r *GroupRepository) Create(group *model.Group) error {
	return r.DB.Create(group).Error
}

func (r *GroupRepository) FindByID(id uint) (*model.Group, error) {
	var group model.Group
	err := r.DB.First(&group, id).Error
	return &group, err
}

func (r *GroupRepository) Update(group *model.Group) error {
	return r.DB.Save(group).Error
}

func (r *GroupRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("group_id = ?", id).Delete(&model.GroupMember{}).Error; err != nil {
			return err
		}
		if err := tx.Where("group_id = ?", id).Delete(&model.GroupAssignment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Group{}, id).Error
	})
}

func (r *GroupRepository) ListByOwner(ownerID uint) ([]model.Group, error) {
	var groups []model.Group
	err := r.DB.Where("owner_id = ?", ownerID).Order("created_at desc").Find(&groups).Error
	return groups, err
}

func (r *GroupRepository) AddMember(groupID, userID uint) error {
	member := model.GroupMember{GroupID: groupID, UserID: userID}
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "group_id"}, {Name: "user_id"}},
		DoNothing: true,
	}).Create(&member).Error
}

func (r *GroupRepository) RemoveMember(groupID, userID uint) error {
	return r.DB.Where("group_id = ? AND user_id = ?", groupID, userID).
		Delete(&model.GroupMember{}).Error
}

func (r *GroupRepository) ListMembers(groupID uint) ([]model.User, error) {
	var users []model.User
	err := r.DB.Joins("JOIN study_group_members ON study_group_members.user_id = users.id").
		Where("study_group_members.group_id = ?", groupID).
		Find(&users).Error
	return users, err
}

func (r *GroupRepository) Assign(assignment *model.GroupAssignment) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "group_id"}, {Name: "course_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"due_at"}),
	}).Create(assignment).Error
}

func (r *GroupRepository) ListAssignments(groupID uint) ([]model.GroupAssignment, error) {
	var assignments []model.GroupAssignment
	err := r.DB.Where("group_id = ?", groupID).Order("created_at desc").Find(&assignments).Error
	return assignments, err
}

// ListAssignedCourses returns the courses assigned to any group the user
// belongs to.
func (r *GroupRepository) ListAssignedCourses(userID uint) ([]model.Course, error) {
	var courses []model.Course
	err := r.DB.Distinct("courses.*").
		Joins("JOIN study_group_assignments ON study_group_assignments.course_id = courses.id").
		Joins("JOIN study_group_members ON study_group_members.group_id = study_group_assignments.group_id").
		Where("study_group_members.user_id = ?", userID).
		Find(&courses).Error
	return courses, err
}
