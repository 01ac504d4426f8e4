package controller

import (
	"errors"
	"net/http"

	"climate_edu_backend/internal/service"
	"climate_edu_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type GroupController struct {
	GroupService *service.GroupService
}

func NewGroupController(groupService *service.GroupService) *GroupController {
	return &GroupController{GroupService: groupService}
}

func respondGroupError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrGroupNotFound),
		errors.Is(err, util.ErrCourseNotFound),
		errors.Is(err, util.ErrUserNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrPermissionDenied):
		util.Error(ctx, http.StatusForbidden, "not your group")
	case errors.Is(err, util.ErrCourseUnpublished):
		util.Error(ctx, http.StatusForbidden, "course is not published")
	default:
		util.LogInternalError(ctx, err)
	}
}

func groupID(ctx *gin.Context) (uint, bool) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid group id")
		return 0, false
	}
	return id, true
}

// Create godoc
// @Summary Create a study group
// @Tags groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.GroupRequest true "group payload"
// @Success 201 {object} util.Response{data=model.Group}
// @Failure 400 {object} util.Response
// @Router /api/teacher/groups [post]
func (c *GroupController) Create(ctx *gin.Context) {
	var req service.GroupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	group, err := c.GroupService.CreateGroup(claims.UserID, req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, group)
}

// Update godoc
// @Summary Rename or describe a study group
// @Tags groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "group id"
// @Param body body service.GroupRequest true "group payload"
// @Success 200 {object} util.Response{data=model.Group}
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/teacher/groups/{id} [put]
func (c *GroupController) Update(ctx *gin.Context) {
	id, ok := groupID(ctx)
	if !ok {
		return
	}

	var req service.GroupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	group, err := c.GroupService.UpdateGroup(claims.UserID, id, req)
	if err != nil {
		respondGroupError(ctx, err)
		return
	}
	util.Success(ctx, group)
}

// Delete godoc
// @Summary Delete a study group
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Param id path int true "group id"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response
// @Router /api/teacher/groups/{id} [delete]
func (c *GroupController) Delete(ctx *gin.Context) {
	id, ok := groupID(ctx)
	if !ok {
		return
	}

	claims := util.GetUserFromContext(ctx)
	if err := c.GroupService.DeleteGroup(claims.UserID, id); err != nil {
		respondGroupError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// List godoc
// @Summary List own study groups
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Group}
// @Router /api/teacher/groups [get]
func (c *GroupController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	groups, err := c.GroupService.ListGroups(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, groups)
}

type AddMemberRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// AddMember godoc
// @Summary Add a student to a group by email
// @Tags groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "group id"
// @Param body body AddMemberRequest true "student email"
// @Success 200 {object} util.Response{data=model.User}
// @Failure 404 {object} util.Response
// @Router /api/teacher/groups/{id}/members [post]
func (c *GroupController) AddMember(ctx *gin.Context) {
	id, ok := groupID(ctx)
	if !ok {
		return
	}

	var req AddMemberRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	user, err := c.GroupService.AddMemberByEmail(claims.UserID, id, req.Email)
	if err != nil {
		respondGroupError(ctx, err)
		return
	}
	util.Success(ctx, user)
}

// RemoveMember godoc
// @Summary Remove a student from a group
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Param id path int true "group id"
// @Param userId path int true "user id"
// @Success 200 {object} util.Response
// @Router /api/teacher/groups/{id}/members/{userId} [delete]
func (c *GroupController) RemoveMember(ctx *gin.Context) {
	id, ok := groupID(ctx)
	if !ok {
		return
	}

	userID := util.MustParseUint(ctx.Param("userId"))
	if userID == 0 {
		util.BadRequest(ctx, "invalid user id")
		return
	}

	claims := util.GetUserFromContext(ctx)
	if err := c.GroupService.RemoveMember(claims.UserID, id, userID); err != nil {
		respondGroupError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// ListMembers godoc
// @Summary List a group's members
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Param id path int true "group id"
// @Success 200 {object} util.Response{data=[]model.User}
// @Router /api/teacher/groups/{id}/members [get]
func (c *GroupController) ListMembers(ctx *gin.Context) {
	id, ok := groupID(ctx)
	if !ok {
		return
	}

	claims := util.GetUserFromContext(ctx)
	members, err := c.GroupService.ListMembers(claims.UserID, id)
	if err != nil {
		respondGroupError(ctx, err)
		return
	}
	util.Success(ctx, members)
}

// AssignCourse godoc
// @Summary Assign a course to a group
// @Description Assigns the course and enrolls every current member.
// @Tags groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "group id"
// @Param body body service.AssignCourseRequest true "assignment payload"
// @Success 200 {object} util.Response{data=model.GroupAssignment}
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/teacher/groups/{id}/assignments [post]
func (c *GroupController) AssignCourse(ctx *gin.Context) {
	id, ok := groupID(ctx)
	if !ok {
		return
	}

	var req service.AssignCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	assignment, err := c.GroupService.AssignCourse(claims.UserID, id, req)
	if err != nil {
		respondGroupError(ctx, err)
		return
	}
	util.Success(ctx, assignment)
}

// ListAssignments godoc
// @Summary List a group's course assignments
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Param id path int true "group id"
// @Success 200 {object} util.Response{data=[]model.GroupAssignment}
// @Router /api/teacher/groups/{id}/assignments [get]
func (c *GroupController) ListAssignments(ctx *gin.Context) {
	id, ok := groupID(ctx)
	if !ok {
		return
	}

	claims := util.GetUserFromContext(ctx)
	assignments, err := c.GroupService.ListAssignments(claims.UserID, id)
	if err != nil {
		respondGroupError(ctx, err)
		return
	}
	util.Success(ctx, assignments)
}

// Progress godoc
// @Summary Per-member progress on an assigned course
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Param id path int true "group id"
// @Param courseId query string true "course id"
// @Success 200 {object} util.Response{data=[]service.MemberProgress}
// @Failure 400 {object} util.Response
// @Router /api/teacher/groups/{id}/progress [get]
func (c *GroupController) Progress(ctx *gin.Context) {
	id, ok := groupID(ctx)
	if !ok {
		return
	}

	courseID := ctx.Query("courseId")
	if courseID == "" {
		util.BadRequest(ctx, "courseId is required")
		return
	}

	claims := util.GetUserFromContext(ctx)
	rows, err := c.GroupService.GroupProgress(claims.UserID, id, courseID)
	if err != nil {
		respondGroupError(ctx, err)
		return
	}
	util.Success(ctx, rows)
}

// AssignedCourses godoc
// @Summary Courses assigned to the current student through groups
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Course}
// @Router /api/groups/assigned-courses [get]
func (c *GroupController) AssignedCourses(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	courses, err := c.GroupService.ListAssignedCourses(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, courses)
}
