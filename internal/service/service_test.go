package service

import (
	"fmt"
	"os"
	"testing"

	"climate_edu_backend/internal/config"
	"climate_edu_backend/internal/model"
	"climate_edu_backend/internal/repository"
	"climate_edu_backend/pkg/database"
	applog "climate_edu_backend/pkg/logger"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	applog.Log = zap.NewNop()
	os.Exit(m.Run())
}

type testEnv struct {
	db    *gorm.DB
	users *repository.UserRepository
	quiz  *QuizService
	badge *BadgeService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{}
	cfg.Quiz.PassingScorePercent = 60
	cfg.Quiz.DefaultQuestions = 5

	userRepo := repository.NewUserRepository(db)
	badgeSvc := NewBadgeService(repository.NewBadgeRepository(db), userRepo, nil)
	quizSvc := NewQuizService(
		repository.NewQuizRepository(db),
		repository.NewAttemptRepository(db),
		repository.NewCourseRepository(db),
		repository.NewProgressRepository(db),
		userRepo,
		repository.NewLearningLogRepository(db),
		badgeSvc,
		nil,
		cfg,
	)

	return &testEnv{
		db:    db,
		users: userRepo,
		quiz:  quizSvc,
		badge: badgeSvc,
	}
}

func (e *testEnv) seedUser(t *testing.T, name string) *model.User {
	t.Helper()
	user := &model.User{
		Name:     name,
		Email:    name + "@example.com",
		Password: "x",
		Role:     model.Student,
	}
	require.NoError(t, e.users.Create(user))
	return user
}

// seedQuiz creates a course and a five-question quiz mixing multiple
// choice and true/false, with stored answers [0, true, 2, false, 1].
func (e *testEnv) seedQuiz(t *testing.T) (*model.Course, *model.Quiz) {
	t.Helper()

	course := &model.Course{Title: "Carbon Cycles", Topic: "carbon", IsPublished: true, CreatorID: 1}
	require.NoError(t, e.db.Create(course).Error)

	quiz := &model.Quiz{
		CourseID:            course.ID,
		Title:               "Carbon Basics",
		Topic:               "carbon",
		PassingScorePercent: 60,
		Questions: []model.QuizQuestion{
			{Position: 0, Text: "Q0", Kind: model.MultipleChoice, CorrectAnswer: "0"},
			{Position: 1, Text: "Q1", Kind: model.TrueFalse, CorrectAnswer: "true"},
			{Position: 2, Text: "Q2", Kind: model.MultipleChoice, CorrectAnswer: "2"},
			{Position: 3, Text: "Q3", Kind: model.TrueFalse, CorrectAnswer: "false"},
			{Position: 4, Text: "Q4", Kind: model.MultipleChoice, CorrectAnswer: "1"},
		},
	}
	require.NoError(t, e.db.Create(quiz).Error)
	return course, quiz
}
