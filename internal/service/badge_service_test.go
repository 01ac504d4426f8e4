package service

import (
	"testing"

	"climate_edu_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateBadgeRejectsDuplicateSlug(t *testing.T) {
	env := newTestEnv(t)

	req := BadgeRequest{Slug: "tree-planter", Name: "Tree Planter", Kind: "special"}
	_, err := env.badge.CreateBadge(req)
	require.NoError(t, err)

	_, err = env.badge.CreateBadge(req)
	assert.ErrorIs(t, err, util.ErrValidation)
}

func TestUpdateBadgeMissingDefinition(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.badge.UpdateBadge(9999, BadgeRequest{Slug: "x", Name: "X", Kind: "special"})
	assert.ErrorIs(t, err, util.ErrBadgeNotFound)
}
