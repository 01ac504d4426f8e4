package controller

import (
	"errors"
	"net/http"

	"climate_edu_backend/internal/service"
	"climate_edu_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	QuizService *service.QuizService
}

func NewQuizController(quizService *service.QuizService) *QuizController {
	return &QuizController{QuizService: quizService}
}

func respondQuizError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrQuizNotFound),
		errors.Is(err, util.ErrCourseNotFound),
		errors.Is(err, util.ErrUserNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrValidation):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, util.ErrPermissionDenied):
		util.Error(ctx, http.StatusForbidden, "not your attempt")
	default:
		util.LogInternalError(ctx, err)
	}
}

// Create godoc
// @Summary Create a quiz
// @Description Generates questions for the topic and attaches the quiz to a course.
// @Tags quizzes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.QuizRequest true "quiz payload"
// @Success 201 {object} util.Response{data=model.Quiz}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/teacher/quizzes [post]
func (c *QuizController) Create(ctx *gin.Context) {
	var req service.QuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quiz, err := c.QuizService.CreateQuiz(req)
	if err != nil {
		respondQuizError(ctx, err)
		return
	}
	util.Created(ctx, quiz)
}

// Regenerate godoc
// @Summary Replace a quiz's questions with a fresh generation
// @Tags quizzes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "quiz id"
// @Param body body service.RegenerateRequest true "regeneration payload"
// @Success 200 {object} util.Response{data=model.Quiz}
// @Failure 404 {object} util.Response
// @Router /api/teacher/quizzes/{id}/regenerate [post]
func (c *QuizController) Regenerate(ctx *gin.Context) {
	var req service.RegenerateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quiz, err := c.QuizService.RegenerateQuiz(ctx.Param("id"), req)
	if err != nil {
		respondQuizError(ctx, err)
		return
	}
	util.Success(ctx, quiz)
}

// Delete godoc
// @Summary Delete a quiz
// @Tags quizzes
// @Produce json
// @Security BearerAuth
// @Param id path string true "quiz id"
// @Success 200 {object} util.Response
// @Router /api/teacher/quizzes/{id} [delete]
func (c *QuizController) Delete(ctx *gin.Context) {
	if err := c.QuizService.DeleteQuiz(ctx.Param("id")); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// Get godoc
// @Summary Get a quiz for taking
// @Description Returns the quiz without correct answers or explanations, plus the caller's best score so far.
// @Tags quizzes
// @Produce json
// @Security BearerAuth
// @Param id path string true "quiz id"
// @Success 200 {object} util.Response{data=service.StudentQuiz}
// @Failure 404 {object} util.Response
// @Router /api/quizzes/{id} [get]
func (c *QuizController) Get(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	quiz, err := c.QuizService.GetQuizForStudent(claims.UserID, ctx.Param("id"))
	if err != nil {
		respondQuizError(ctx, err)
		return
	}
	util.Success(ctx, quiz)
}

// QuizAttempts godoc
// @Summary List own attempts on one quiz
// @Tags quizzes
// @Produce json
// @Security BearerAuth
// @Param id path string true "quiz id"
// @Success 200 {object} util.Response{data=[]model.QuizAttempt}
// @Failure 404 {object} util.Response
// @Router /api/quizzes/{id}/attempts [get]
func (c *QuizController) QuizAttempts(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	attempts, err := c.QuizService.AttemptsForQuiz(claims.UserID, ctx.Param("id"))
	if err != nil {
		respondQuizError(ctx, err)
		return
	}
	util.Success(ctx, attempts)
}

// Review godoc
// @Summary Get a quiz with answers and explanations
// @Tags quizzes
// @Produce json
// @Security BearerAuth
// @Param id path string true "quiz id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/teacher/quizzes/{id} [get]
func (c *QuizController) Review(ctx *gin.Context) {
	quiz, questions, err := c.QuizService.GetQuizForTeacher(ctx.Param("id"))
	if err != nil {
		respondQuizError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{
		"quiz":      quiz,
		"questions": questions,
	})
}

// SubmitRequest carries the raw answers mapping. Values may be option
// indices, booleans, or free text; keys are question indices as strings.
// swagger:model SubmitRequest
type SubmitRequest struct {
	Answers map[string]interface{} `json:"answers" binding:"required"`
}

// Submit godoc
// @Summary Submit quiz answers for grading
// @Description Grades the submission, records the attempt, and applies badge and progress side effects.
// @Tags quizzes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "quiz id"
// @Param body body SubmitRequest true "answers keyed by question index"
// @Success 200 {object} util.Response{data=service.SubmitResult}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/quizzes/{id}/submit [post]
func (c *QuizController) Submit(ctx *gin.Context) {
	var req SubmitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	result, err := c.QuizService.Submit(claims.UserID, ctx.Param("id"), req.Answers)
	if err != nil {
		respondQuizError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// Preview godoc
// @Summary Grade answers without recording an attempt
// @Description Returns the score only. No attempt row, no badges, no progress update, no answer reveal.
// @Tags quizzes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "quiz id"
// @Param body body SubmitRequest true "answers keyed by question index"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/quizzes/{id}/preview [post]
func (c *QuizController) Preview(ctx *gin.Context) {
	var req SubmitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	res, err := c.QuizService.Preview(ctx.Param("id"), req.Answers)
	if err != nil {
		respondQuizError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"correctCount":   res.CorrectCount,
		"totalQuestions": res.TotalQuestions,
		"scorePercent":   res.RoundedScore(),
		"passed":         res.Passed,
	})
}

// ListByCourse godoc
// @Summary List quizzes attached to a course
// @Tags quizzes
// @Produce json
// @Security BearerAuth
// @Param id path string true "course id"
// @Success 200 {object} util.Response{data=[]model.Quiz}
// @Router /api/courses/{id}/quizzes [get]
func (c *QuizController) ListByCourse(ctx *gin.Context) {
	quizzes, err := c.QuizService.ListByCourse(ctx.Param("id"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, quizzes)
}

// MyAttempts godoc
// @Summary List own quiz attempts
// @Tags quizzes
// @Produce json
// @Security BearerAuth
// @Param page query int false "page" default(1)
// @Param limit query int false "page size" default(20)
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/quizzes/attempts [get]
func (c *QuizController) MyAttempts(ctx *gin.Context) {
	page, limit := pagination(ctx)

	claims := util.GetUserFromContext(ctx)
	attempts, total, err := c.QuizService.ListAttempts(claims.UserID, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  attempts,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// AttemptFeedback godoc
// @Summary Get a generated study hint for a past attempt
// @Tags quizzes
// @Produce json
// @Security BearerAuth
// @Param id path string true "attempt id"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/quizzes/attempts/{id}/feedback [get]
func (c *QuizController) AttemptFeedback(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	feedback, err := c.QuizService.AttemptFeedback(claims.UserID, ctx.Param("id"))
	if err != nil {
		respondQuizError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"feedback": feedback})
}
