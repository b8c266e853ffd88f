package controller

import (
	"errors"

	"github.com/gin-gonic/gin"

	"testseries_backend/internal/model"
	"testseries_backend/internal/service"
	"testseries_backend/internal/util"
)

// AssignmentController 处理考试分配与成绩查询的API请求
type AssignmentController struct {
	EligibilityService *service.EligibilityService
	ScoringService     *service.ScoringService
}

func NewAssignmentController(eligibility *service.EligibilityService, scoring *service.ScoringService) *AssignmentController {
	return &AssignmentController{EligibilityService: eligibility, ScoringService: scoring}
}

// scopeUserID returns the user id assignment reads are scoped by: the
// caller's own id for learners, zero (unscoped) for reviewers and admins.
func scopeUserID(user *util.Claims) uint {
	if user.Role == model.Reviewer || user.Role == model.Admin {
		return 0
	}
	return user.UserID
}

// respondServiceError maps domain sentinels onto HTTP statuses. Anything
// unrecognized is logged and answered with a 500.
func respondServiceError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrAssignmentNotFound),
		errors.Is(err, util.ErrTestNotFound),
		errors.Is(err, util.ErrSubjectNotFound),
		errors.Is(err, util.ErrSliceNotFound),
		errors.Is(err, util.ErrQuestionNotFound):
		util.NotFound(ctx, err.Error())
	case errors.Is(err, util.ErrInvalidInput),
		errors.Is(err, util.ErrInvalidTimer),
		errors.Is(err, util.ErrInvalidMarks):
		util.BadRequest(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}

// ListMyTests godoc
// @Summary 获取当前用户的考试列表
// @Description 返回当前用户的全部考试分配，含资格状态与可见成绩
// @Tags 考试
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=map[string]interface{}} "成功"
// @Failure 401 {object} util.Response "未认证"
// @Router /api/tests/my [get]
func (c *AssignmentController) ListMyTests(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	views, err := c.EligibilityService.ListAssignments(user.UserID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"assignments": views})
}

// GetAssignment godoc
// @Summary 获取单个考试分配
// @Description 返回指定分配的资格状态与可见成绩
// @Tags 考试
// @Produce json
// @Security BearerAuth
// @Param id path int true "分配ID"
// @Success 200 {object} util.Response{data=map[string]interface{}} "成功"
// @Failure 404 {object} util.Response "分配不存在"
// @Router /api/assignments/{id} [get]
func (c *AssignmentController) GetAssignment(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid assignment id")
		return
	}
	view, err := c.EligibilityService.EvaluateAssignment(id, scopeUserID(user))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"assignment": view})
}

// GetScore godoc
// @Summary 获取考试成绩
// @Description 按科目汇总客观题与已批阅主观题的得分
// @Tags 考试
// @Produce json
// @Security BearerAuth
// @Param id path int true "分配ID"
// @Success 200 {object} util.Response{data=map[string]interface{}} "成功"
// @Failure 404 {object} util.Response "分配不存在"
// @Router /api/assignments/{id}/score [get]
func (c *AssignmentController) GetScore(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid assignment id")
		return
	}
	report, err := c.ScoringService.Score(id, scopeUserID(user))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"score": report})
}
