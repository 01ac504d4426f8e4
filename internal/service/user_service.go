package service

import (
	"errors"

	"climate_edu_backend/internal/model"
	"climate_edu_backend/internal/repository"
	"climate_edu_backend/internal/util"

	"gorm.io/gorm"
)

type UserService struct {
	UserRepo     *repository.UserRepository
	ProgressRepo *repository.ProgressRepository
	BadgeRepo    *repository.BadgeRepository
	LogRepo      *repository.LearningLogRepository
}

func NewUserService(
	userRepo *repository.UserRepository,
	progressRepo *repository.ProgressRepository,
	badgeRepo *repository.BadgeRepository,
	logRepo *repository.LearningLogRepository,
) *UserService {
	return &UserService{
		UserRepo:     userRepo,
		ProgressRepo: progressRepo,
		BadgeRepo:    badgeRepo,
		LogRepo:      logRepo,
	}
}

type ProfileUpdateRequest struct {
	Name     *string `json:"name"`
	Language *string `json:"language"`
	Avatar   *string `json:"avatar"`
}

func (s *UserService) GetProfile(userID uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) UpdateProfile(userID uint, req ProfileUpdateRequest) (*model.User, error) {
	user, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Language != nil {
		user.Language = *req.Language
	}
	if req.Avatar != nil {
		user.Avatar = *req.Avatar
	}

	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

type Dashboard struct {
	XP               int                 `json:"xp"`
	EnrolledCourses  int                 `json:"enrolledCourses"`
	CompletedCourses int                 `json:"completedCourses"`
	QuizAttempts     int64               `json:"quizAttempts"`
	Badges           int                 `json:"badges"`
	RecentActivity   []model.LearningLog `json:"recentActivity"`
}

// Dashboard aggregates the learner's overview numbers and their latest
// activity entries.
func (s *UserService) Dashboard(userID uint) (*Dashboard, error) {
	user, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}

	enrollments, err := s.ProgressRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	completed := 0
	for _, e := range enrollments {
		if e.CompletedAt != nil {
			completed++
		}
	}

	attempts, err := s.LogRepo.CountByActivity(userID, "quiz_submit")
	if err != nil {
		return nil, err
	}

	badges, err := s.BadgeRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	activity, err := s.LogRepo.ListByUser(userID, 10)
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		XP:               user.XP,
		EnrolledCourses:  len(enrollments),
		CompletedCourses: completed,
		QuizAttempts:     attempts,
		Badges:           len(badges),
		RecentActivity:   activity,
	}, nil
}

// Admin operations.

func (s *UserService) ListUsers(page, limit int, role string) ([]model.User, int64, error) {
	return s.UserRepo.List(page, limit, role)
}

type AdminUserUpdateRequest struct {
	Role     *string `json:"role"`
	Disabled *bool   `json:"disabled"`
}

func (s *UserService) AdminUpdateUser(userID uint, req AdminUserUpdateRequest) (*model.User, error) {
	user, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}

	if req.Role != nil {
		switch model.UserRole(*req.Role) {
		case model.Student, model.Teacher, model.Admin:
			user.Role = model.UserRole(*req.Role)
		default:
			return nil, util.ErrValidation
		}
	}
	if req.Disabled != nil {
		user.Disabled = *req.Disabled
	}

	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}
