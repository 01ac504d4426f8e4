package repository

import (
	"testing"
	"time"

	"climate_edu_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrollTwiceKeepsOneRow(t *testing.T) {
	db := newTestDB(t)
	repo := NewProgressRepository(db)

	first, err := repo.Enroll(1, "course-1")
	require.NoError(t, err)

	second, err := repo.Enroll(1, "course-1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var total int64
	require.NoError(t, db.Model(&model.CourseProgress{}).Count(&total).Error)
	assert.Equal(t, int64(1), total)
}

func TestCompleteStampsOnlyOnce(t *testing.T) {
	db := newTestDB(t)
	repo := NewProgressRepository(db)

	_, err := repo.Enroll(1, "course-1")
	require.NoError(t, err)

	firstAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	completed, err := repo.Complete(1, "course-1", firstAt)
	require.NoError(t, err)
	assert.True(t, completed)

	// A later passing submission must not move the completion timestamp.
	completed, err = repo.Complete(1, "course-1", firstAt.Add(48*time.Hour))
	require.NoError(t, err)
	assert.False(t, completed)

	progress, err := repo.Find(1, "course-1")
	require.NoError(t, err)
	assert.Equal(t, float64(100), progress.Percent)
	require.NotNil(t, progress.CompletedAt)
	assert.True(t, progress.CompletedAt.Equal(firstAt))
}

func TestCompleteWithoutEnrollmentAffectsNothing(t *testing.T) {
	db := newTestDB(t)
	repo := NewProgressRepository(db)

	completed, err := repo.Complete(1, "missing", time.Now())
	require.NoError(t, err)
	assert.False(t, completed)
}

func TestUpdatePercent(t *testing.T) {
	db := newTestDB(t)
	repo := NewProgressRepository(db)

	_, err := repo.Enroll(1, "course-1")
	require.NoError(t, err)

	require.NoError(t, repo.UpdatePercent(1, "course-1", 42.5))

	progress, err := repo.Find(1, "course-1")
	require.NoError(t, err)
	assert.Equal(t, 42.5, progress.Percent)
	assert.Nil(t, progress.CompletedAt)
}
