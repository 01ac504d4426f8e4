package controller

import (
	"errors"
	"strconv"

	"climate_edu_backend/internal/service"
	"climate_edu_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type BadgeController struct {
	BadgeService *service.BadgeService
}

func NewBadgeController(badgeService *service.BadgeService) *BadgeController {
	return &BadgeController{BadgeService: badgeService}
}

// MyBadges godoc
// @Summary List badges earned by the current user
// @Tags badges
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Badge}
// @Router /api/badges/me [get]
func (c *BadgeController) MyBadges(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	badges, err := c.BadgeService.GetUserBadges(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, badges)
}

// Leaderboard godoc
// @Summary XP leaderboard
// @Description Top learners by accumulated XP. Cached for one minute.
// @Tags badges
// @Produce json
// @Security BearerAuth
// @Param limit query int false "entries" default(10)
// @Success 200 {object} util.Response
// @Router /api/leaderboard [get]
func (c *BadgeController) Leaderboard(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "10"))
	if limit < 1 || limit > 100 {
		limit = 10
	}

	entries, err := c.BadgeService.GetLeaderboard(ctx.Request.Context(), limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, entries)
}

// List godoc
// @Summary List badge definitions
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "page" default(1)
// @Param limit query int false "page size" default(20)
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/admin/badges [get]
func (c *BadgeController) List(ctx *gin.Context) {
	page, limit := pagination(ctx)

	badges, total, err := c.BadgeService.ListBadges(page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  badges,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// Create godoc
// @Summary Create a badge definition
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.BadgeRequest true "badge payload"
// @Success 201 {object} util.Response{data=model.Badge}
// @Failure 400 {object} util.Response
// @Router /api/admin/badges [post]
func (c *BadgeController) Create(ctx *gin.Context) {
	var req service.BadgeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	badge, err := c.BadgeService.CreateBadge(req)
	if err != nil {
		if errors.Is(err, util.ErrValidation) {
			util.BadRequest(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, badge)
}

// Update godoc
// @Summary Update a badge definition
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "badge id"
// @Param body body service.BadgeRequest true "badge payload"
// @Success 200 {object} util.Response{data=model.Badge}
// @Failure 404 {object} util.Response
// @Router /api/admin/badges/{id} [put]
func (c *BadgeController) Update(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid badge id")
		return
	}

	var req service.BadgeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	badge, err := c.BadgeService.UpdateBadge(id, req)
	if err != nil {
		if errors.Is(err, util.ErrBadgeNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, badge)
}

// Delete godoc
// @Summary Delete a badge definition
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "badge id"
// @Success 200 {object} util.Response
// @Router /api/admin/badges/{id} [delete]
func (c *BadgeController) Delete(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid badge id")
		return
	}

	if err := c.BadgeService.DeleteBadge(id); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
