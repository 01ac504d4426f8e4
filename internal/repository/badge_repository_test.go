package repository

import (
	"testing"

	"climate_edu_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrantIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	repo := NewBadgeRepository(db)

	badge := &model.Badge{Slug: "quiz-pass-abc", Name: "Passed: Basics", Kind: model.BadgeQuizPass}
	require.NoError(t, repo.Create(badge))

	inserted, err := repo.Grant(7, badge.ID)
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = repo.Grant(7, badge.ID)
	require.NoError(t, err)
	assert.False(t, inserted, "second grant must be a no-op")

	count, err := repo.CountGrants(badge.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestGrantDifferentUsersKeepSeparateRows(t *testing.T) {
	db := newTestDB(t)
	repo := NewBadgeRepository(db)

	badge := &model.Badge{Slug: "perfect-score-abc", Name: "Perfect Score", Kind: model.BadgePerfectScore}
	require.NoError(t, repo.Create(badge))

	for _, userID := range []uint{1, 2, 3} {
		inserted, err := repo.Grant(userID, badge.ID)
		require.NoError(t, err)
		assert.True(t, inserted)
	}

	count, err := repo.CountGrants(badge.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestFindOrCreateConvergesOnSlug(t *testing.T) {
	db := newTestDB(t)
	repo := NewBadgeRepository(db)

	first, err := repo.FindOrCreate(&model.Badge{
		Slug: "perfect-score-q1",
		Name: "Perfect Score: Quiz One",
		Kind: model.BadgePerfectScore,
	})
	require.NoError(t, err)
	require.NotZero(t, first.ID)

	// A later caller with the same slug must get the existing definition,
	// not a second row.
	second, err := repo.FindOrCreate(&model.Badge{
		Slug: "perfect-score-q1",
		Name: "Perfect Score: Renamed",
		Kind: model.BadgePerfectScore,
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Perfect Score: Quiz One", second.Name)

	var total int64
	require.NoError(t, db.Model(&model.Badge{}).Count(&total).Error)
	assert.Equal(t, int64(1), total)
}

func TestListByUserReturnsOnlyGranted(t *testing.T) {
	db := newTestDB(t)
	repo := NewBadgeRepository(db)

	granted := &model.Badge{Slug: "a", Name: "A", Kind: model.BadgeQuizPass}
	other := &model.Badge{Slug: "b", Name: "B", Kind: model.BadgeQuizPass}
	require.NoError(t, repo.Create(granted))
	require.NoError(t, repo.Create(other))

	_, err := repo.Grant(1, granted.ID)
	require.NoError(t, err)

	badges, err := repo.ListByUser(1)
	require.NoError(t, err)
	require.Len(t, badges, 1)
	assert.Equal(t, "a", badges[0].Slug)
}
