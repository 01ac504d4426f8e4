package service

import (
	"errors"
	"time"

	"climate_edu_backend/internal/model"
	"climate_edu_backend/internal/repository"
	"climate_edu_backend/internal/util"

	"gorm.io/gorm"
)

type GroupService struct {
	GroupRepo    *repository.GroupRepository
	UserRepo     *repository.UserRepository
	CourseRepo   *repository.CourseRepository
	ProgressRepo *repository.ProgressRepository
}

func NewGroupService(
	groupRepo *repository.GroupRepository,
	userRepo *repository.UserRepository,
	courseRepo *repository.CourseRepository,
	progressRepo *repository.ProgressRepository,
) *GroupService {
	return &GroupService{
		GroupRepo:    groupRepo,
		UserRepo:     userRepo,
		CourseRepo:   courseRepo,
		ProgressRepo: progressRepo,
	}
}

type GroupRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (s *GroupService) CreateGroup(ownerID uint, req GroupRequest) (*model.Group, error) {
	group := &model.Group{
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     ownerID,
	}
	if err := s.GroupRepo.Create(group); err != nil {
		return nil, err
	}
	return group, nil
}

func (s *GroupService) UpdateGroup(ownerID, groupID uint, req GroupRequest) (*model.Group, error) {
	group, err := s.ownedGroup(ownerID, groupID)
	if err != nil {
		return nil, err
	}

	group.Name = req.Name
	group.Description = req.Description
	if err := s.GroupRepo.Update(group); err != nil {
		return nil, err
	}
	return group, nil
}

func (s *GroupService) DeleteGroup(ownerID, groupID uint) error {
	if _, err := s.ownedGroup(ownerID, groupID); err != nil {
		return err
	}
	return s.GroupRepo.Delete(groupID)
}

func (s *GroupService) ListGroups(ownerID uint) ([]model.Group, error) {
	return s.GroupRepo.ListByOwner(ownerID)
}

// AddMemberByEmail enrolls a student into a group by their account email.
// Re-adding an existing member is a no-op.
func (s *GroupService) AddMemberByEmail(ownerID, groupID uint, email string) (*model.User, error) {
	if _, err := s.ownedGroup(ownerID, groupID); err != nil {
		return nil, err
	}

	user, err := s.UserRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}

	if err := s.GroupRepo.AddMember(groupID, user.ID); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *GroupService) RemoveMember(ownerID, groupID, userID uint) error {
	if _, err := s.ownedGroup(ownerID, groupID); err != nil {
		return err
	}
	return s.GroupRepo.RemoveMember(groupID, userID)
}

func (s *GroupService) ListMembers(ownerID, groupID uint) ([]model.User, error) {
	if _, err := s.ownedGroup(ownerID, groupID); err != nil {
		return nil, err
	}
	return s.GroupRepo.ListMembers(groupID)
}

type AssignCourseRequest struct {
	CourseID string     `json:"courseId" binding:"required"`
	DueAt    *time.Time `json:"dueAt"`
}

// AssignCourse assigns a course to the group and enrolls every current
// member so the assignment shows up in their progress immediately.
func (s *GroupService) AssignCourse(ownerID, groupID uint, req AssignCourseRequest) (*model.GroupAssignment, error) {
	if _, err := s.ownedGroup(ownerID, groupID); err != nil {
		return nil, err
	}

	course, err := s.CourseRepo.FindByID(req.CourseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	if !course.IsPublished {
		return nil, util.ErrCourseUnpublished
	}

	assignment := &model.GroupAssignment{
		GroupID:  groupID,
		CourseID: course.ID,
		DueAt:    req.DueAt,
	}
	if err := s.GroupRepo.Assign(assignment); err != nil {
		return nil, err
	}

	members, err := s.GroupRepo.ListMembers(groupID)
	if err != nil {
		return nil, err
	}
	for _, member := range members {
		if _, err := s.ProgressRepo.Enroll(member.ID, course.ID); err != nil {
			return nil, err
		}
	}
	return assignment, nil
}

func (s *GroupService) ListAssignments(ownerID, groupID uint) ([]model.GroupAssignment, error) {
	if _, err := s.ownedGroup(ownerID, groupID); err != nil {
		return nil, err
	}
	return s.GroupRepo.ListAssignments(groupID)
}

func (s *GroupService) ListAssignedCourses(userID uint) ([]model.Course, error) {
	return s.GroupRepo.ListAssignedCourses(userID)
}

// MemberProgress is one row of the teacher's group progress view.
type MemberProgress struct {
	UserID      uint       `json:"userId"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Percent     float64    `json:"percent"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// GroupProgress reports each member's progress on one assigned course.
// Members who never enrolled show up with zero percent.
func (s *GroupService) GroupProgress(ownerID, groupID uint, courseID string) ([]MemberProgress, error) {
	if _, err := s.ownedGroup(ownerID, groupID); err != nil {
		return nil, err
	}

	members, err := s.GroupRepo.ListMembers(groupID)
	if err != nil {
		return nil, err
	}

	rows := make([]MemberProgress, 0, len(members))
	for _, member := range members {
		row := MemberProgress{
			UserID: member.ID,
			Name:   member.Name,
			Email:  member.Email,
		}
		progress, err := s.ProgressRepo.Find(member.ID, courseID)
		if err == nil {
			row.Percent = progress.Percent
			row.CompletedAt = progress.CompletedAt
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *GroupService) ownedGroup(ownerID, groupID uint) (*model.Group, error) {
	group, err := s.GroupRepo.FindByID(groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrGroupNotFound
		}
		return nil, err
	}
	if group.OwnerID != ownerID {
		return nil, util.ErrPermissionDenied
	}
	return group, nil
}
