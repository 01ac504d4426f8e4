package service

import (
	"testing"

	"climate_edu_backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserService(e *testEnv) *UserService {
	return NewUserService(
		e.users,
		repository.NewProgressRepository(e.db),
		repository.NewBadgeRepository(e.db),
		repository.NewLearningLogRepository(e.db),
	)
}

func TestDashboardAggregates(t *testing.T) {
	env := newTestEnv(t)
	svc := newUserService(env)

	user := env.seedUser(t, "dana")
	course, quiz := env.seedQuiz(t)

	progressRepo := repository.NewProgressRepository(env.db)
	_, err := progressRepo.Enroll(user.ID, course.ID)
	require.NoError(t, err)

	// A passing submission completes the course, grants badges, and logs activity.
	answers := map[string]interface{}{
		"0": float64(0), "1": "true", "2": float64(2), "3": false, "4": float64(1),
	}
	_, err = env.quiz.Submit(user.ID, quiz.ID, answers)
	require.NoError(t, err)

	dash, err := svc.Dashboard(user.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, dash.EnrolledCourses)
	assert.Equal(t, 1, dash.CompletedCourses)
	assert.Equal(t, int64(1), dash.QuizAttempts)
	assert.NotZero(t, dash.Badges)
	assert.NotZero(t, dash.XP)
	assert.NotEmpty(t, dash.RecentActivity)
}

func TestDashboardEmptyForNewUser(t *testing.T) {
	env := newTestEnv(t)
	svc := newUserService(env)

	user := env.seedUser(t, "newcomer")

	dash, err := svc.Dashboard(user.ID)
	require.NoError(t, err)

	assert.Zero(t, dash.EnrolledCourses)
	assert.Zero(t, dash.CompletedCourses)
	assert.Zero(t, dash.QuizAttempts)
	assert.Zero(t, dash.Badges)
	assert.Empty(t, dash.RecentActivity)
}
