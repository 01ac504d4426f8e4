package service

import (
	"testing"

	"climate_edu_backend/internal/model"
	"climate_edu_backend/internal/repository"
	"climate_edu_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGroupService(env *testEnv) *GroupService {
	return NewGroupService(
		repository.NewGroupRepository(env.db),
		env.users,
		repository.NewCourseRepository(env.db),
		repository.NewProgressRepository(env.db),
	)
}

func TestAssignCourseEnrollsMembers(t *testing.T) {
	env := newTestEnv(t)
	groups := newGroupService(env)

	teacher := env.seedUser(t, "teacher")
	s1 := env.seedUser(t, "s1")
	s2 := env.seedUser(t, "s2")

	course := &model.Course{Title: "Oceans", Topic: "oceans", IsPublished: true, CreatorID: teacher.ID}
	require.NoError(t, env.db.Create(course).Error)

	group, err := groups.CreateGroup(teacher.ID, GroupRequest{Name: "Class 9B"})
	require.NoError(t, err)

	for _, s := range []*model.User{s1, s2} {
		_, err := groups.AddMemberByEmail(teacher.ID, group.ID, s.Email)
		require.NoError(t, err)
	}

	_, err = groups.AssignCourse(teacher.ID, group.ID, AssignCourseRequest{CourseID: course.ID})
	require.NoError(t, err)

	progressRepo := repository.NewProgressRepository(env.db)
	for _, s := range []*model.User{s1, s2} {
		progress, err := progressRepo.Find(s.ID, course.ID)
		require.NoError(t, err)
		assert.Zero(t, progress.Percent)
	}

	rows, err := groups.GroupProgress(teacher.ID, group.ID, course.ID)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestAssignCourseRejectsUnpublished(t *testing.T) {
	env := newTestEnv(t)
	groups := newGroupService(env)

	teacher := env.seedUser(t, "teacher")
	course := &model.Course{Title: "Draft", Topic: "x"}
	require.NoError(t, env.db.Create(course).Error)

	group, err := groups.CreateGroup(teacher.ID, GroupRequest{Name: "Class"})
	require.NoError(t, err)

	_, err = groups.AssignCourse(teacher.ID, group.ID, AssignCourseRequest{CourseID: course.ID})
	assert.ErrorIs(t, err, util.ErrCourseUnpublished)
}

func TestGroupOwnershipEnforced(t *testing.T) {
	env := newTestEnv(t)
	groups := newGroupService(env)

	owner := env.seedUser(t, "owner")
	other := env.seedUser(t, "other")

	group, err := groups.CreateGroup(owner.ID, GroupRequest{Name: "Mine"})
	require.NoError(t, err)

	_, err = groups.ListMembers(other.ID, group.ID)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	err = groups.DeleteGroup(other.ID, group.ID)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)
}

func TestAddMemberTwiceIsNoOp(t *testing.T) {
	env := newTestEnv(t)
	groups := newGroupService(env)

	teacher := env.seedUser(t, "teacher")
	student := env.seedUser(t, "student")

	group, err := groups.CreateGroup(teacher.ID, GroupRequest{Name: "Class"})
	require.NoError(t, err)

	_, err = groups.AddMemberByEmail(teacher.ID, group.ID, student.Email)
	require.NoError(t, err)
	_, err = groups.AddMemberByEmail(teacher.ID, group.ID, student.Email)
	require.NoError(t, err)

	members, err := groups.ListMembers(teacher.ID, group.ID)
	require.NoError(t, err)
	assert.Len(t, members, 1)
}
