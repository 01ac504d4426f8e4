package service

import (
	"testing"

	"climate_edu_backend/internal/model"
	"climate_edu_backend/internal/repository"
	"climate_edu_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitGradesMixedAnswerShapes(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "ada")
	_, quiz := env.seedQuiz(t)

	// Index as number, boolean as string, index as numeric string,
	// boolean as native bool, index as number. Question 2 is wrong.
	res, err := env.quiz.Submit(user.ID, quiz.ID, map[string]interface{}{
		"0": float64(0),
		"1": "true",
		"2": float64(1),
		"3": false,
		"4": float64(1),
	})
	require.NoError(t, err)

	assert.Equal(t, 4, res.CorrectCount)
	assert.Equal(t, 5, res.TotalQuestions)
	assert.Equal(t, 80.0, res.ScorePercent)
	assert.True(t, res.Passed)
	assert.Equal(t, []int{2}, res.MissedIndices)

	// Correct answers are revealed only after submission.
	require.Len(t, res.Questions, 5)
	assert.Equal(t, "2", res.Questions[2].CorrectAnswer)
	assert.False(t, res.Questions[2].Correct)
	assert.True(t, res.Questions[0].Correct)

	var attempt model.QuizAttempt
	require.NoError(t, env.db.Where("id = ?", res.AttemptID).First(&attempt).Error)
	assert.Equal(t, user.ID, attempt.UserID)
	assert.Equal(t, 80.0, attempt.ScorePercent)
	assert.True(t, attempt.Passed)
}

func TestSubmitPassAwardsBadgeAndXPOnce(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "grace")
	_, quiz := env.seedQuiz(t)

	answers := map[string]interface{}{
		"0": float64(0), "1": "true", "2": float64(2), "3": false,
	}

	res, err := env.quiz.Submit(user.ID, quiz.ID, answers)
	require.NoError(t, err)
	assert.True(t, res.Passed)

	badges, err := env.badge.GetUserBadges(user.ID)
	require.NoError(t, err)
	require.Len(t, badges, 1)
	assert.Equal(t, model.BadgeQuizPass, badges[0].Kind)

	fresh, err := env.users.FindByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, fresh.XP)

	// Retrying the same passing submission records a new attempt but
	// grants nothing twice.
	_, err = env.quiz.Submit(user.ID, quiz.ID, answers)
	require.NoError(t, err)

	badges, err = env.badge.GetUserBadges(user.ID)
	require.NoError(t, err)
	assert.Len(t, badges, 1)

	fresh, err = env.users.FindByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, fresh.XP)

	var attempts int64
	require.NoError(t, env.db.Model(&model.QuizAttempt{}).Where("user_id = ?", user.ID).Count(&attempts).Error)
	assert.Equal(t, int64(2), attempts)
}

func TestSubmitPerfectScoreAddsSecondBadge(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "lin")
	_, quiz := env.seedQuiz(t)

	res, err := env.quiz.Submit(user.ID, quiz.ID, map[string]interface{}{
		"0": float64(0), "1": true, "2": "2", "3": "false", "4": float64(1),
	})
	require.NoError(t, err)
	assert.Equal(t, 100.0, res.ScorePercent)

	badges, err := env.badge.GetUserBadges(user.ID)
	require.NoError(t, err)
	kinds := make(map[model.BadgeKind]bool, len(badges))
	for _, b := range badges {
		kinds[b.Kind] = true
	}
	assert.True(t, kinds[model.BadgeQuizPass])
	assert.True(t, kinds[model.BadgePerfectScore])
}

func TestPerfectScoreDefinitionSharedAcrossUsers(t *testing.T) {
	env := newTestEnv(t)
	_, quiz := env.seedQuiz(t)
	perfect := map[string]interface{}{
		"0": float64(0), "1": true, "2": float64(2), "3": false, "4": float64(1),
	}

	for _, name := range []string{"u1", "u2", "u3"} {
		user := env.seedUser(t, name)
		_, err := env.quiz.Submit(user.ID, quiz.ID, perfect)
		require.NoError(t, err)
	}

	var defs int64
	require.NoError(t, env.db.Model(&model.Badge{}).
		Where("kind = ?", model.BadgePerfectScore).
		Count(&defs).Error)
	assert.Equal(t, int64(1), defs, "one shared definition, not one per user")

	var grants int64
	require.NoError(t, env.db.Model(&model.UserBadge{}).Count(&grants).Error)
	// Three quiz-pass grants plus three perfect-score grants.
	assert.Equal(t, int64(6), grants)
}

func TestSubmitPassCompletesEnrolledCourse(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "mei")
	course, quiz := env.seedQuiz(t)

	progressRepo := repository.NewProgressRepository(env.db)
	_, err := progressRepo.Enroll(user.ID, course.ID)
	require.NoError(t, err)

	answers := map[string]interface{}{
		"0": float64(0), "1": true, "2": float64(2), "3": false, "4": float64(1),
	}
	_, err = env.quiz.Submit(user.ID, quiz.ID, answers)
	require.NoError(t, err)

	progress, err := progressRepo.Find(user.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, float64(100), progress.Percent)
	require.NotNil(t, progress.CompletedAt)
	completedAt := *progress.CompletedAt

	badges, err := env.badge.GetUserBadges(user.ID)
	require.NoError(t, err)
	kinds := make(map[model.BadgeKind]bool, len(badges))
	for _, b := range badges {
		kinds[b.Kind] = true
	}
	assert.True(t, kinds[model.BadgeCourseCompletion])

	// Passing again keeps the original completion timestamp.
	_, err = env.quiz.Submit(user.ID, quiz.ID, answers)
	require.NoError(t, err)

	progress, err = progressRepo.Find(user.ID, course.ID)
	require.NoError(t, err)
	require.NotNil(t, progress.CompletedAt)
	assert.True(t, progress.CompletedAt.Equal(completedAt))
}

func TestSubmitFailingScoreGrantsNothing(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "tom")
	_, quiz := env.seedQuiz(t)

	res, err := env.quiz.Submit(user.ID, quiz.ID, map[string]interface{}{
		"0": float64(0), "1": "true",
	})
	require.NoError(t, err)
	assert.Equal(t, 40.0, res.ScorePercent)
	assert.False(t, res.Passed)

	badges, err := env.badge.GetUserBadges(user.ID)
	require.NoError(t, err)
	assert.Empty(t, badges)
}

func TestSubmitValidation(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "eve")
	_, quiz := env.seedQuiz(t)

	_, err := env.quiz.Submit(user.ID, quiz.ID, nil)
	assert.ErrorIs(t, err, util.ErrValidation)

	_, err = env.quiz.Submit(user.ID, quiz.ID, map[string]interface{}{
		"0": []interface{}{1, 2},
	})
	assert.ErrorIs(t, err, util.ErrValidation)

	_, err = env.quiz.Submit(user.ID, "no-such-quiz", map[string]interface{}{"0": float64(0)})
	assert.ErrorIs(t, err, util.ErrQuizNotFound)

	_, err = env.quiz.Submit(9999, quiz.ID, map[string]interface{}{"0": float64(0)})
	assert.ErrorIs(t, err, util.ErrUserNotFound)
}

func TestSubmitEmptyQuizRejected(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "kay")

	course := &model.Course{Title: "Empty", Topic: "none", IsPublished: true}
	require.NoError(t, env.db.Create(course).Error)
	quiz := &model.Quiz{CourseID: course.ID, Title: "Hollow", PassingScorePercent: 60}
	require.NoError(t, env.db.Create(quiz).Error)

	_, err := env.quiz.Submit(user.ID, quiz.ID, map[string]interface{}{})
	assert.ErrorIs(t, err, util.ErrValidation)
}

func TestPreviewPersistsNothing(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "nia")
	_, quiz := env.seedQuiz(t)

	res, err := env.quiz.Preview(quiz.ID, map[string]interface{}{
		"0": float64(0), "1": true, "2": float64(2), "3": false, "4": float64(1),
	})
	require.NoError(t, err)
	assert.Equal(t, 5, res.CorrectCount)
	assert.True(t, res.Passed)

	var attempts int64
	require.NoError(t, env.db.Model(&model.QuizAttempt{}).Count(&attempts).Error)
	assert.Zero(t, attempts)

	badges, err := env.badge.GetUserBadges(user.ID)
	require.NoError(t, err)
	assert.Empty(t, badges)
}

func TestGetQuizForStudentWithholdsAnswers(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "viewer")
	_, quiz := env.seedQuiz(t)

	view, err := env.quiz.GetQuizForStudent(user.ID, quiz.ID)
	require.NoError(t, err)
	require.Len(t, view.Questions, 5)
	for i, q := range view.Questions {
		assert.Equal(t, i, q.Position)
	}
	assert.Zero(t, view.BestScorePercent)
	assert.False(t, view.Passed)
}

func TestStudentQuizReflectsBestAttempt(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "retaker")
	_, quiz := env.seedQuiz(t)

	// 4/5 correct, then 2/5. Best score sticks at the higher one.
	_, err := env.quiz.Submit(user.ID, quiz.ID, map[string]interface{}{
		"0": float64(0), "1": "true", "2": float64(2), "3": false, "4": float64(0),
	})
	require.NoError(t, err)
	_, err = env.quiz.Submit(user.ID, quiz.ID, map[string]interface{}{
		"0": float64(0), "1": "true",
	})
	require.NoError(t, err)

	view, err := env.quiz.GetQuizForStudent(user.ID, quiz.ID)
	require.NoError(t, err)
	assert.Equal(t, 80.0, view.BestScorePercent)
	assert.True(t, view.Passed)

	attempts, err := env.quiz.AttemptsForQuiz(user.ID, quiz.ID)
	require.NoError(t, err)
	require.Len(t, attempts, 2)
}
