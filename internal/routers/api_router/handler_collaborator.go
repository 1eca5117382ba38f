package api_router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/haierkeys/note-collab-service/internal/app"
	"github.com/haierkeys/note-collab-service/internal/dto"
	pkgapp "github.com/haierkeys/note-collab-service/pkg/app"
	"github.com/haierkeys/note-collab-service/pkg/code"
	"github.com/haierkeys/note-collab-service/pkg/convert"
	apperrors "github.com/haierkeys/note-collab-service/pkg/errors"
)

// CollaboratorHandler collaborator API router handler
// CollaboratorHandler 协作者 API 路由处理器
type CollaboratorHandler struct {
	*Handler
}

// NewCollaboratorHandler creates CollaboratorHandler instance
// NewCollaboratorHandler 创建 CollaboratorHandler 实例
func NewCollaboratorHandler(a *app.App) *CollaboratorHandler {
	return &CollaboratorHandler{
		Handler: NewHandler(a),
	}
}

// collaboratorUID 从路径参数解析协作者用户 ID，非法时返回 0
func collaboratorUID(c *gin.Context) int64 {
	id, err := convert.StrTo(c.Param("uid")).Int64()
	if err != nil || id <= 0 {
		return 0
	}
	return id
}

// List lists all collaborators of a note
// List 获取笔记的全部协作者，作者和协作者均可查看
func (h *CollaboratorHandler) List(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	uid := pkgapp.GetUID(c)
	if uid == 0 {
		response.ToResponse(code.ErrorNotUserAuthToken)
		return
	}

	id := noteID(c)
	if id == 0 {
		response.ToResponse(code.ErrorInvalidParams)
		return
	}

	ctx := c.Request.Context()

	list, err := h.App.CollaboratorService.List(ctx, uid, id)
	if err != nil {
		h.logError(ctx, "CollaboratorHandler.List", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(list))
}

// Add adds a collaborator by email
// Add 通过邮箱添加协作者，重复添加返回冲突而不是静默更新权限
func (h *CollaboratorHandler) Add(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.CollaboratorAddRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("CollaboratorHandler.Add.BindAndValid errs", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	uid := pkgapp.GetUID(c)
	if uid == 0 {
		response.ToResponse(code.ErrorNotUserAuthToken)
		return
	}

	id := noteID(c)
	if id == 0 {
		response.ToResponse(code.ErrorInvalidParams)
		return
	}

	ctx := c.Request.Context()

	collabDTO, err := h.App.CollaboratorService.Add(ctx, uid, id, params)
	if err != nil {
		h.logError(ctx, "CollaboratorHandler.Add", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(collabDTO))
}

// UpdatePermission changes a collaborator's permission level
// UpdatePermission 修改协作者的权限级别
func (h *CollaboratorHandler) UpdatePermission(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.CollaboratorUpdateRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("CollaboratorHandler.UpdatePermission.BindAndValid errs", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	uid := pkgapp.GetUID(c)
	if uid == 0 {
		response.ToResponse(code.ErrorNotUserAuthToken)
		return
	}

	id := noteID(c)
	target := collaboratorUID(c)
	if id == 0 || target == 0 {
		response.ToResponse(code.ErrorInvalidParams)
		return
	}

	ctx := c.Request.Context()

	if err := h.App.CollaboratorService.UpdatePermission(ctx, uid, id, target, params); err != nil {
		h.logError(ctx, "CollaboratorHandler.UpdatePermission", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success)
}

// Remove removes a collaborator; a collaborator may remove themselves
// Remove 移除协作者，仅作者可操作
func (h *CollaboratorHandler) Remove(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	uid := pkgapp.GetUID(c)
	if uid == 0 {
		response.ToResponse(code.ErrorNotUserAuthToken)
		return
	}

	id := noteID(c)
	target := collaboratorUID(c)
	if id == 0 || target == 0 {
		response.ToResponse(code.ErrorInvalidParams)
		return
	}

	ctx := c.Request.Context()

	if err := h.App.CollaboratorService.Remove(ctx, uid, id, target); err != nil {
		h.logError(ctx, "CollaboratorHandler.Remove", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success)
}
