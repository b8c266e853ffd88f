package controller

import (
	"github.com/gin-gonic/gin"

	"testseries_backend/internal/service"
	"testseries_backend/internal/util"
)

// SubmissionController 处理答题与附件上传的API请求
type SubmissionController struct {
	SubmissionService *service.SubmissionService
	StorageService    *service.StorageService
}

func NewSubmissionController(submission *service.SubmissionService, storage *service.StorageService) *SubmissionController {
	return &SubmissionController{SubmissionService: submission, StorageService: storage}
}

// RecordAnswer godoc
// @Summary 保存单题答案
// @Description 以 upsert 方式保存答案，同一题重复保存直接覆盖，并同步计时器
// @Tags 答题
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "分配ID"
// @Param request body service.RecordAnswerRequest true "答案"
// @Success 200 {object} util.Response "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 404 {object} util.Response "分配不存在"
// @Router /api/assignments/{id}/answers [post]
func (c *SubmissionController) RecordAnswer(ctx *gin.Context) {
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

	var request service.RecordAnswerRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if err := c.SubmissionService.RecordAnswer(id, user.UserID, request); err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"saved": true})
}

// UploadAttachment godoc
// @Summary 上传主观题附件
// @Description 上传附件并返回存储URL，供保存主观题答案时引用
// @Tags 答题
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "分配ID"
// @Param file formData file true "附件"
// @Success 200 {object} util.Response{data=map[string]interface{}} "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/assignments/{id}/attachments [post]
func (c *SubmissionController) UploadAttachment(ctx *gin.Context) {
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
	if err := c.SubmissionService.VerifyAssignmentOwner(id, user.UserID); err != nil {
		respondServiceError(ctx, err)
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	defer file.Close()

	url, err := c.StorageService.UploadAttachment(
		ctx.Request.Context(),
		id,
		fileHeader.Filename,
		file,
		fileHeader.Size,
		fileHeader.Header.Get("Content-Type"),
	)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"url": url})
}
