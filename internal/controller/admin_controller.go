package controller

import (
	"github.com/gin-gonic/gin"

	"pm_prep_backend/internal/model"
	"pm_prep_backend/internal/repository"
	"pm_prep_backend/internal/service"
	"pm_prep_backend/internal/util"
)

type AdminController struct {
	QuestionRepo       *repository.QuestionRepository
	CalibrationService *service.CalibrationService
}

func NewAdminController(questionRepo *repository.QuestionRepository, calibrationService *service.CalibrationService) *AdminController {
	return &AdminController{
		QuestionRepo:       questionRepo,
		CalibrationService: calibrationService,
	}
}

// CreateQuestionRequest 新题目
// swagger:model CreateQuestionRequest
type CreateQuestionRequest struct {
	Text            string   `json:"text" binding:"required"`
	Category        string   `json:"category" binding:"required,oneof=strategy metrics prioritization design"`
	DifficultyLabel string   `json:"difficulty" binding:"required,oneof=easy medium hard"`
	EloDifficulty   int      `json:"eloDifficulty" binding:"omitempty,min=800,max=2200"`
	Skills          []string `json:"skills"`
	Hint            string   `json:"hint"`
}

// CreateQuestion godoc
// @Summary 新增题目
// @Description 管理员向题库添加题目，elo难度缺省1400
// @Tags 管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body CreateQuestionRequest true "题目内容"
// @Success 201 {object} util.Response{data=model.Question} "创建成功"
// @Failure 400 {object} util.Response "参数错误"
// @Failure 403 {object} util.Response "需要管理员权限"
// @Router /api/admin/questions [post]
func (c *AdminController) CreateQuestion(ctx *gin.Context) {
	var req CreateQuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	skills := make(model.SkillList, 0, len(req.Skills))
	for _, s := range req.Skills {
		sk := model.Skill(s)
		if !sk.Valid() {
			util.BadRequest(ctx, "未知技能: "+s)
			return
		}
		skills = append(skills, sk)
	}

	question := &model.Question{
		Text:            req.Text,
		Category:        model.Category(req.Category),
		DifficultyLabel: model.DifficultyLabel(req.DifficultyLabel),
		EloDifficulty:   req.EloDifficulty,
		Skills:          skills,
		Hint:            req.Hint,
		Enabled:         true,
	}
	if question.EloDifficulty == 0 {
		question.EloDifficulty = 1400
	}

	if err := c.QuestionRepo.Create(question); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, question)
}

// Recalibrate godoc
// @Summary 手动触发难度校准
// @Description 用实际作答结果重算题目elo难度，平时由后台每日执行
// @Tags 管理
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=object} "调整的题目数"
// @Failure 403 {object} util.Response "需要管理员权限"
// @Router /api/admin/calibrate [post]
func (c *AdminController) Recalibrate(ctx *gin.Context) {
	adjusted, err := c.CalibrationService.RecalibrateAll()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"adjusted": adjusted})
}
