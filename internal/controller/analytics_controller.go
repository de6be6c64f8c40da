package controller

import (
	"github.com/gin-gonic/gin"

	"pm_prep_backend/internal/service"
	"pm_prep_backend/internal/util"
)

type AnalyticsController struct {
	AnalyticsService *service.AnalyticsService
}

func NewAnalyticsController(analyticsService *service.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{AnalyticsService: analyticsService}
}

// GetStats godoc
// @Summary 练习总览
// @Description 答题量、均分、连续天数、分类均分和当前评分段位
// @Tags 统计
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=model.StatsOverview} "总览"
// @Router /api/stats [get]
func (c *AnalyticsController) GetStats(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	overview, err := c.AnalyticsService.GetOverview(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, overview)
}

// GetGrowthAreas godoc
// @Summary 弱项报告
// @Description 各维度的薄弱程度、近期走向和改进建议，强项不出现在报告里
// @Tags 统计
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.GrowthArea} "弱项列表"
// @Router /api/analytics/growth-areas [get]
func (c *AnalyticsController) GetGrowthAreas(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	areas, err := c.AnalyticsService.GetGrowthAreas(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, areas)
}

// GetPercentile godoc
// @Summary 评分百分位
// @Description 当前评分在全体用户中处于前百分之几
// @Tags 统计
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=model.PercentileRank} "百分位"
// @Router /api/analytics/percentile [get]
func (c *AnalyticsController) GetPercentile(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	rank, err := c.AnalyticsService.GetPercentile(ctx.Request.Context(), claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, rank)
}

// GetRatingHistory godoc
// @Summary 评分曲线
// @Description 历次作答后的评分轨迹，按时间升序
// @Tags 统计
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.RatingHistoryPoint} "评分曲线"
// @Router /api/analytics/rating-history [get]
func (c *AnalyticsController) GetRatingHistory(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	points, err := c.AnalyticsService.GetRatingHistory(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, points)
}
