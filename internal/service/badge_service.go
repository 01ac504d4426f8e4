package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"climate_edu_backend/internal/model"
	"climate_edu_backend/internal/repository"
	"climate_edu_backend/internal/util"
	"climate_edu_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// BadgeService owns achievement definitions and grants. Every grant path
// funnels through the repository upsert, so resubmissions and concurrent
// submissions can never double-award.
type BadgeService struct {
	BadgeRepo *repository.BadgeRepository
	UserRepo  *repository.UserRepository
	Redis     *redis.Client
}

func NewBadgeService(badgeRepo *repository.BadgeRepository, userRepo *repository.UserRepository, rdb *redis.Client) *BadgeService {
	return &BadgeService{
		BadgeRepo: badgeRepo,
		UserRepo:  userRepo,
		Redis:     rdb,
	}
}

func (s *BadgeService) GetUserBadges(userID uint) ([]model.Badge, error) {
	return s.BadgeRepo.ListByUser(userID)
}

// grant applies the upsert and rewards XP only when the row was newly
// inserted, so a replayed grant is a complete no-op.
func (s *BadgeService) grant(userID uint, badge *model.Badge) error {
	inserted, err := s.BadgeRepo.Grant(userID, badge.ID)
	if err != nil {
		return err
	}
	if inserted && badge.RewardXP > 0 {
		if err := s.UserRepo.UpdateXP(userID, badge.RewardXP); err != nil {
			return err
		}
	}
	if inserted {
		logger.Log.Info("badge granted",
			zap.Uint("userId", userID),
			zap.String("slug", badge.Slug),
		)
	}
	return nil
}

// GrantQuizPass awards the per-quiz pass badge, creating the definition on
// first pass of that quiz.
func (s *BadgeService) GrantQuizPass(userID uint, quiz *model.Quiz) error {
	badge, err := s.BadgeRepo.FindOrCreate(&model.Badge{
		Slug:     fmt.Sprintf("quiz-pass-%s", quiz.ID),
		Name:     fmt.Sprintf("Passed: %s", quiz.Title),
		Kind:     model.BadgeQuizPass,
		Icon:     "check-circle",
		RewardXP: 20,
		QuizID:   &quiz.ID,
	})
	if err != nil {
		return err
	}
	return s.grant(userID, badge)
}

// GrantPerfectScore awards the per-quiz perfect-score badge. The
// definition is created exactly once, on the first-ever 100% submission
// for the quiz, by any user.
func (s *BadgeService) GrantPerfectScore(userID uint, quiz *model.Quiz) error {
	badge, err := s.BadgeRepo.FindOrCreate(&model.Badge{
		Slug:     fmt.Sprintf("perfect-score-%s", quiz.ID),
		Name:     fmt.Sprintf("Perfect Score: %s", quiz.Title),
		Kind:     model.BadgePerfectScore,
		Icon:     "star",
		RewardXP: 50,
		QuizID:   &quiz.ID,
	})
	if err != nil {
		return err
	}
	return s.grant(userID, badge)
}

// GrantCourseCompletion awards the per-course completion badge.
func (s *BadgeService) GrantCourseCompletion(userID uint, course *model.Course) error {
	badge, err := s.BadgeRepo.FindOrCreate(&model.Badge{
		Slug:     fmt.Sprintf("course-complete-%s", course.ID),
		Name:     fmt.Sprintf("Completed: %s", course.Title),
		Kind:     model.BadgeCourseCompletion,
		Icon:     "award",
		RewardXP: 100,
		CourseID: &course.ID,
	})
	if err != nil {
		return err
	}
	return s.grant(userID, badge)
}

type LeaderboardEntry struct {
	Rank   int    `json:"rank"`
	User   string `json:"user"`
	XP     int    `json:"xp"`
	Avatar string `json:"avatar,omitempty"`
}

const leaderboardCacheKey = "leaderboard:top"
const leaderboardCacheTTL = time.Minute

// GetLeaderboard returns the XP top list, cached in redis for a minute.
func (s *BadgeService) GetLeaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if s.Redis != nil {
		if cached, err := s.Redis.Get(ctx, leaderboardCacheKey).Result(); err == nil {
			var entries []LeaderboardEntry
			if json.Unmarshal([]byte(cached), &entries) == nil && len(entries) >= limit {
				return entries[:limit], nil
			}
		}
	}

	users, err := s.UserRepo.FindTopByXP(limit)
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, len(users))
	for i, user := range users {
		entries[i] = LeaderboardEntry{
			Rank:   i + 1,
			User:   user.Name,
			XP:     user.XP,
			Avatar: user.Avatar,
		}
	}

	if s.Redis != nil {
		if data, err := json.Marshal(entries); err == nil {
			s.Redis.Set(ctx, leaderboardCacheKey, data, leaderboardCacheTTL)
		}
	}

	return entries, nil
}

// Admin badge-definition management.

type BadgeRequest struct {
	Slug     string `json:"slug" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Kind     string `json:"kind" binding:"required"`
	Icon     string `json:"icon"`
	RewardXP int    `json:"rewardXp"`
}

func (s *BadgeService) CreateBadge(req BadgeRequest) (*model.Badge, error) {
	if _, err := s.BadgeRepo.FindBySlug(req.Slug); err == nil {
		return nil, fmt.Errorf("%w: slug already in use", util.ErrValidation)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	badge := &model.Badge{
		Slug:     req.Slug,
		Name:     req.Name,
		Kind:     model.BadgeKind(req.Kind),
		Icon:     req.Icon,
		RewardXP: req.RewardXP,
	}
	if err := s.BadgeRepo.Create(badge); err != nil {
		return nil, err
	}
	return badge, nil
}

func (s *BadgeService) UpdateBadge(id uint, req BadgeRequest) (*model.Badge, error) {
	badge, err := s.BadgeRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrBadgeNotFound
		}
		return nil, err
	}
	badge.Name = req.Name
	badge.Icon = req.Icon
	badge.RewardXP = req.RewardXP
	if err := s.BadgeRepo.Update(badge); err != nil {
		return nil, err
	}
	return badge, nil
}

func (s *BadgeService) DeleteBadge(id uint) error {
	return s.BadgeRepo.Delete(id)
}

func (s *BadgeService) ListBadges(page, limit int) ([]model.Badge, int64, error) {
	return s.BadgeRepo.List(page, limit)
}
