package repository

import (
	"time"

	"climate_edu_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

// Enroll creates the progress row for (user, course) if it does not exist.
// Re-enrolling is a no-op thanks to the composite unique index.
func (r *ProgressRepository) Enroll(userID uint, courseID string) (*model.CourseProgress, error) {
	progress := model.CourseProgress{
		UserID:   userID,
		CourseID: courseID,
	}
	err := r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
		DoNothing: true,
	}).Create(&progress).Error
	if err != nil {
		return nil, err
	}
	return r.Find(userID, courseID)
}

func (r *ProgressRepository) Find(userID uint, courseID string) (*model.CourseProgress, error) {
	var progress model.CourseProgress
	err := r.DB.Where("user_id = ? AND course_id = ?", userID, courseID).First(&progress).Error
	return &progress, err
}

func (r *ProgressRepository) ListByUser(userID uint) ([]model.CourseProgress, error) {
	var rows []model.CourseProgress
	err := r.DB.Where("user_id = ?", userID).Order("updated_at desc").Find(&rows).Error
	return rows, err
}

func (r *ProgressRepository) ListByCourse(courseID string) ([]model.CourseProgress, error) {
	var rows []model.CourseProgress
	err := r.DB.Where("course_id = ?", courseID).Find(&rows).Error
	return rows, err
}

func (r *ProgressRepository) UpdatePercent(userID uint, courseID string, percent float64) error {
	return r.DB.Model(&model.CourseProgress{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Update("percent", percent).
		Error
}

// Complete sets progress to 100 and stamps completion, but only for rows
// still below 100 so a second passing submission cannot move the timestamp.
func (r *ProgressRepository) Complete(userID uint, courseID string, at time.Time) (bool, error) {
	res := r.DB.Model(&model.CourseProgress{}).
		Where("user_id = ? AND course_id = ? AND percent < ?", userID, courseID, 100).
		Updates(map[string]interface{}{
			"percent":      100,
			"completed_at": at,
		})
	return res.RowsAffected > 0, res.Error
}
