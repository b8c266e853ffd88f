package controller

import (
	"github.com/gin-gonic/gin"

	"testseries_backend/internal/model"
	"testseries_backend/internal/service"
	"testseries_backend/internal/util"
)

// ReviewController 处理主观题批阅的API请求
type ReviewController struct {
	ReviewService *service.ReviewService
}

func NewReviewController(review *service.ReviewService) *ReviewController {
	return &ReviewController{ReviewService: review}
}

// AssignMarksRequest 定义批阅打分请求模型
// swagger:model AssignMarksRequest
type AssignMarksRequest struct {
	SubjectIDs []uint    `json:"subjectIds" binding:"required"`
	Marks      []float64 `json:"marks" binding:"required"`
}

func reviewerOnly(ctx *gin.Context) *util.Claims {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return nil
	}
	if user.Role != model.Reviewer && user.Role != model.Admin {
		util.Forbidden(ctx)
		return nil
	}
	return user
}

// ListPending godoc
// @Summary 获取待批阅列表
// @Description 返回含未打分主观题记录的考试分配及其待批科目
// @Tags 批阅
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=map[string]interface{}} "成功"
// @Failure 403 {object} util.Response "权限不足"
// @Router /api/review/pending [get]
func (c *ReviewController) ListPending(ctx *gin.Context) {
	if reviewerOnly(ctx) == nil {
		return
	}
	pending, err := c.ReviewService.ListPending()
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"pending": pending})
}

// ListCompleted godoc
// @Summary 获取已批阅列表
// @Tags 批阅
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=map[string]interface{}} "成功"
// @Failure 403 {object} util.Response "权限不足"
// @Router /api/review/completed [get]
func (c *ReviewController) ListCompleted(ctx *gin.Context) {
	if reviewerOnly(ctx) == nil {
		return
	}
	reviewed, err := c.ReviewService.ListReviewed()
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"reviewed": reviewed})
}

// AssignMarks godoc
// @Summary 主观题批阅打分
// @Description 按科目写入主观题得分，全部科目打分后翻转批阅标记
// @Tags 批阅
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "分配ID"
// @Param request body AssignMarksRequest true "打分请求"
// @Success 200 {object} util.Response{data=map[string]interface{}} "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 404 {object} util.Response "分配不存在"
// @Router /api/review/assignments/{id}/marks [post]
func (c *ReviewController) AssignMarks(ctx *gin.Context) {
	if reviewerOnly(ctx) == nil {
		return
	}
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid assignment id")
		return
	}
	var request AssignMarksRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	outcome, err := c.ReviewService.AssignMarks(id, request.SubjectIDs, request.Marks)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"outcome": outcome})
}
