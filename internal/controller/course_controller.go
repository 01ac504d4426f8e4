package controller

import (
	"errors"
	"net/http"

	"climate_edu_backend/internal/model"
	"climate_edu_backend/internal/service"
	"climate_edu_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	CourseService *service.CourseService
	QuizService   *service.QuizService
}

func NewCourseController(courseService *service.CourseService, quizService *service.QuizService) *CourseController {
	return &CourseController{
		CourseService: courseService,
		QuizService:   quizService,
	}
}

func respondCourseError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrCourseNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrCourseUnpublished):
		util.Error(ctx, http.StatusForbidden, "course is not published")
	case errors.Is(err, util.ErrNotEnrolled):
		util.Error(ctx, http.StatusForbidden, "not enrolled in this course")
	default:
		util.LogInternalError(ctx, err)
	}
}

// Create godoc
// @Summary Create a course
// @Description Creates a course, optionally generating its learning material from the topic.
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.CourseRequest true "course payload"
// @Success 201 {object} util.Response{data=model.Course}
// @Failure 400 {object} util.Response
// @Router /api/teacher/courses [post]
func (c *CourseController) Create(ctx *gin.Context) {
	var req service.CourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	course, err := c.CourseService.CreateCourse(claims.UserID, req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, course)
}

// Update godoc
// @Summary Update a course
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "course id"
// @Param body body service.CourseUpdateRequest true "fields to update"
// @Success 200 {object} util.Response{data=model.Course}
// @Failure 404 {object} util.Response
// @Router /api/teacher/courses/{id} [put]
func (c *CourseController) Update(ctx *gin.Context) {
	var req service.CourseUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.CourseService.UpdateCourse(ctx.Param("id"), req)
	if err != nil {
		respondCourseError(ctx, err)
		return
	}
	util.Success(ctx, course)
}

// RegenerateMaterial godoc
// @Summary Regenerate a course's learning material
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path string true "course id"
// @Success 200 {object} util.Response{data=model.Course}
// @Failure 404 {object} util.Response
// @Router /api/teacher/courses/{id}/material [post]
func (c *CourseController) RegenerateMaterial(ctx *gin.Context) {
	course, err := c.CourseService.RegenerateMaterial(ctx.Param("id"))
	if err != nil {
		respondCourseError(ctx, err)
		return
	}
	util.Success(ctx, course)
}

// Delete godoc
// @Summary Delete a course
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path string true "course id"
// @Success 200 {object} util.Response
// @Router /api/teacher/courses/{id} [delete]
func (c *CourseController) Delete(ctx *gin.Context) {
	if err := c.CourseService.DeleteCourse(ctx.Param("id")); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// List godoc
// @Summary List published courses
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param page query int false "page" default(1)
// @Param limit query int false "page size" default(20)
// @Param topic query string false "topic filter"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/courses [get]
func (c *CourseController) List(ctx *gin.Context) {
	page, limit := pagination(ctx)

	publishedOnly := true
	claims := util.GetUserFromContext(ctx)
	if claims != nil && claims.Role != model.Student {
		publishedOnly = ctx.DefaultQuery("published", "false") == "true"
	}

	courses, total, err := c.CourseService.ListCourses(page, limit, publishedOnly, ctx.Query("topic"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  courses,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// Get godoc
// @Summary Get one course with its quizzes
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path string true "course id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/courses/{id} [get]
func (c *CourseController) Get(ctx *gin.Context) {
	course, err := c.CourseService.GetCourse(ctx.Param("id"))
	if err != nil {
		respondCourseError(ctx, err)
		return
	}

	claims := util.GetUserFromContext(ctx)
	if !course.IsPublished && (claims == nil || claims.Role == model.Student) {
		util.NotFound(ctx)
		return
	}

	quizzes, err := c.QuizService.ListByCourse(course.ID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"course":  course,
		"quizzes": quizzes,
	})
}

// MyCourses godoc
// @Summary List courses created by the current teacher
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Course}
// @Router /api/teacher/courses [get]
func (c *CourseController) MyCourses(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	courses, err := c.CourseService.ListByCreator(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, courses)
}

// Enroll godoc
// @Summary Enroll in a course
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path string true "course id"
// @Success 200 {object} util.Response{data=model.CourseProgress}
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/courses/{id}/enroll [post]
func (c *CourseController) Enroll(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	progress, err := c.CourseService.Enroll(claims.UserID, ctx.Param("id"))
	if err != nil {
		respondCourseError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}

// GetProgress godoc
// @Summary Get own progress on a course
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path string true "course id"
// @Success 200 {object} util.Response{data=model.CourseProgress}
// @Failure 403 {object} util.Response
// @Router /api/courses/{id}/progress [get]
func (c *CourseController) GetProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	progress, err := c.CourseService.GetProgress(claims.UserID, ctx.Param("id"))
	if err != nil {
		respondCourseError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}

type ProgressUpdateRequest struct {
	Percent float64 `json:"percent" binding:"min=0,max=100"`
}

// UpdateProgress godoc
// @Summary Report reading progress on a course
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "course id"
// @Param body body ProgressUpdateRequest true "progress percent"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response
// @Router /api/courses/{id}/progress [put]
func (c *CourseController) UpdateProgress(ctx *gin.Context) {
	var req ProgressUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	if err := c.CourseService.UpdateProgress(claims.UserID, ctx.Param("id"), req.Percent); err != nil {
		respondCourseError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// MyEnrollments godoc
// @Summary List own course enrollments
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.CourseProgress}
// @Router /api/courses/enrollments [get]
func (c *CourseController) MyEnrollments(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	rows, err := c.CourseService.ListEnrollments(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, rows)
}

// UploadMaterial godoc
// @Summary Upload a supporting file for a course
// @Tags courses
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "course id"
// @Param title formData string true "material title"
// @Param file formData file true "document or video"
// @Success 201 {object} util.Response{data=model.CourseMaterial}
// @Failure 400 {object} util.Response
// @Router /api/teacher/courses/{id}/materials [post]
func (c *CourseController) UploadMaterial(ctx *gin.Context) {
	title := ctx.PostForm("title")
	if title == "" {
		util.BadRequest(ctx, "title is required")
		return
	}

	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	claims := util.GetUserFromContext(ctx)
	material, err := c.CourseService.UploadMaterial(ctx.Request.Context(), claims.UserID, ctx.Param("id"), title, file)
	if err != nil {
		if errors.Is(err, util.ErrValidation) {
			util.BadRequest(ctx, err.Error())
			return
		}
		respondCourseError(ctx, err)
		return
	}
	util.Created(ctx, material)
}

// ListMaterials godoc
// @Summary List a course's supporting files
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path string true "course id"
// @Success 200 {object} util.Response{data=[]model.CourseMaterial}
// @Router /api/courses/{id}/materials [get]
func (c *CourseController) ListMaterials(ctx *gin.Context) {
	materials, err := c.CourseService.ListMaterials(ctx.Param("id"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, materials)
}

// DeleteMaterial godoc
// @Summary Delete a supporting file
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path string true "course id"
// @Param materialId path string true "material id"
// @Success 200 {object} util.Response
// @Router /api/teacher/courses/{id}/materials/{materialId} [delete]
func (c *CourseController) DeleteMaterial(ctx *gin.Context) {
	if err := c.CourseService.DeleteMaterial(ctx.Param("materialId")); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
