package controller

import (
	"github.com/gin-gonic/gin"

	"pm_prep_backend/internal/service"
	"pm_prep_backend/internal/util"
)

type DraftController struct {
	DraftService *service.DraftService
}

func NewDraftController(draftService *service.DraftService) *DraftController {
	return &DraftController{DraftService: draftService}
}

// SaveDraftRequest 保存草稿
// swagger:model SaveDraftRequest
type SaveDraftRequest struct {
	QuestionID uint   `json:"questionId" binding:"required"`
	Text       string `json:"text"`
}

// Save godoc
// @Summary 保存作答草稿
// @Description 草稿存Redis，保留7天，每用户只留最近一份
// @Tags 草稿
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body SaveDraftRequest true "草稿内容"
// @Success 200 {object} util.Response "保存成功"
// @Router /api/draft [put]
func (c *DraftController) Save(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req SaveDraftRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.DraftService.Save(ctx.Request.Context(), claims.UserID, req.QuestionID, req.Text); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

// Get godoc
// @Summary 读取作答草稿
// @Tags 草稿
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.Draft} "草稿，没有时data为null"
// @Router /api/draft [get]
func (c *DraftController) Get(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	draft, err := c.DraftService.Get(ctx.Request.Context(), claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, draft)
}

// Clear godoc
// @Summary 删除作答草稿
// @Tags 草稿
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response "删除成功"
// @Router /api/draft [delete]
func (c *DraftController) Clear(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.DraftService.Clear(ctx.Request.Context(), claims.UserID); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}
