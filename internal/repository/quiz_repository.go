package repository

import (
	"climate_edu_backend/internal/model"

	"gorm.io/gorm"
)

type QuizRepository struct {
	DB *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: db}
}

func (r *QuizRepository) Create(quiz *model.Quiz) error {
	return r.DB.Create(quiz).Error
}

// FindByID loads a quiz with its questions in position order.
func (r *QuizRepository) FindByID(id string) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.DB.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("position asc")
	}).Where("id = ?", id).First(&quiz).Error
	return &quiz, err
}

func (r *QuizRepository) ListByCourse(courseID string) ([]model.Quiz, error) {
	var quizzes []model.Quiz
	err := r.DB.Where("course_id = ?", courseID).Order("created_at asc").Find(&quizzes).Error
	return quizzes, err
}

func (r *QuizRepository) Update(quiz *model.Quiz) error {
	return r.DB.Save(quiz).Error
}

func (r *QuizRepository) Delete(id string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("quiz_id = ?", id).Delete(&model.QuizQuestion{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&model.Quiz{}).Error
	})
}

// DeleteByCourse removes every quiz under a course along with its questions.
func (r *QuizRepository) DeleteByCourse(courseID string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var ids []string
		if err := tx.Model(&model.Quiz{}).Where("course_id = ?", courseID).Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		if err := tx.Where("quiz_id IN ?", ids).Delete(&model.QuizQuestion{}).Error; err != nil {
			return err
		}
		return tx.Where("course_id = ?", courseID).Delete(&model.Quiz{}).Error
	})
}

// ReplaceQuestions swaps a quiz's whole question list in one transaction.
// Questions are otherwise immutable; regeneration is the only write path.
func (r *QuizRepository) ReplaceQuestions(quizID string, questions []model.QuizQuestion) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("quiz_id = ?", quizID).Delete(&model.QuizQuestion{}).Error; err != nil {
			return err
		}
		for i := range questions {
			questions[i].QuizID = quizID
			questions[i].Position = i
			if err := tx.Create(&questions[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
