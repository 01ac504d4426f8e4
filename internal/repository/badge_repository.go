package repository

import (
	"climate_edu_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BadgeRepository struct {
	DB *gorm.DB
}

func NewBadgeRepository(db *gorm.DB) *BadgeRepository {
	return &BadgeRepository{DB: db}
}

func (r *BadgeRepository) FindByID(id uint) (*model.Badge, error) {
	var badge model.Badge
	err := r.DB.First(&badge, id).Error
	return &badge, err
}

func (r *BadgeRepository) FindBySlug(slug string) (*model.Badge, error) {
	var badge model.Badge
	err := r.DB.Where("slug = ?", slug).First(&badge).Error
	return &badge, err
}

// FindOrCreate resolves a badge definition by slug, creating it on first
// use. The unique index on slug makes concurrent first-perfect-score
// submissions converge on a single definition row.
func (r *BadgeRepository) FindOrCreate(badge *model.Badge) (*model.Badge, error) {
	err := r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slug"}},
		DoNothing: true,
	}).Create(badge).Error
	if err != nil {
		return nil, err
	}
	// Re-read: on conflict the insert is skipped and badge.ID stays zero.
	return r.FindBySlug(badge.Slug)
}

func (r *BadgeRepository) Create(badge *model.Badge) error {
	return r.DB.Create(badge).Error
}

func (r *BadgeRepository) Update(badge *model.Badge) error {
	return r.DB.Save(badge).Error
}

func (r *BadgeRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Badge{}, id).Error
}

func (r *BadgeRepository) List(page, limit int) ([]model.Badge, int64, error) {
	var badges []model.Badge
	var total int64

	if err := r.DB.Model(&model.Badge{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.DB.Order("created_at asc").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&badges).Error
	return badges, total, err
}

// Grant upserts a (user, badge) row. Safe under retries and concurrent
// submissions: the composite unique index collapses duplicates, and the
// return value reports whether this call actually inserted the row.
func (r *BadgeRepository) Grant(userID, badgeID uint) (bool, error) {
	grant := model.UserBadge{UserID: userID, BadgeID: badgeID}
	res := r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "badge_id"}},
		DoNothing: true,
	}).Create(&grant)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *BadgeRepository) ListByUser(userID uint) ([]model.Badge, error) {
	var badges []model.Badge
	err := r.DB.Joins("JOIN user_badges ON user_badges.badge_id = badges.id").
		Where("user_badges.user_id = ?", userID).
		Order("user_badges.created_at desc").
		Find(&badges).Error
	if err != nil {
		return nil, err
	}
	return badges, nil
}

func (r *BadgeRepository) CountGrants(badgeID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.UserBadge{}).Where("badge_id = ?", badgeID).Count(&count).Error
	return count, err
}
