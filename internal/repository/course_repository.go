package repository

import (
	"climate_edu_backend/internal/model"

	"gorm.io/gorm"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) Create(course *model.Course) error {
	return r.DB.Create(course).Error
}

func (r *CourseRepository) FindByID(id string) (*model.Course, error) {
	var course model.Course
	err := r.DB.Where("id = ?", id).First(&course).Error
	return &course, err
}

func (r *CourseRepository) Update(course *model.Course) error {
	return r.DB.Save(course).Error
}

func (r *CourseRepository) Delete(id string) error {
	return r.DB.Where("id = ?", id).Delete(&model.Course{}).Error
}

func (r *CourseRepository) List(page, limit int, publishedOnly bool, topic string) ([]model.Course, int64, error) {
	var courses []model.Course
	var total int64

	q := r.DB.Model(&model.Course{})
	if publishedOnly {
		q = q.Where("is_published = ?", true)
	}
	if topic != "" {
		q = q.Where("topic LIKE ?", "%"+topic+"%")
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Order("created_at desc").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&courses).Error
	return courses, total, err
}

func (r *CourseRepository) ListByCreator(creatorID uint) ([]model.Course, error) {
	var courses []model.Course
	err := r.DB.Where("creator_id = ?", creatorID).Order("created_at desc").Find(&courses).Error
	return courses, err
}

func (r *CourseRepository) CreateMaterial(m *model.CourseMaterial) error {
	return r.DB.Create(m).Error
}

func (r *CourseRepository) ListMaterials(courseID string) ([]model.CourseMaterial, error) {
	var materials []model.CourseMaterial
	err := r.DB.Where("course_id = ?", courseID).Order("created_at desc").Find(&materials).Error
	return materials, err
}

func (r *CourseRepository) DeleteMaterial(id string) error {
	return r.DB.Where("id = ?", id).Delete(&model.CourseMaterial{}).Error
}
