package api_router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/haierkeys/note-collab-service/internal/app"
	"github.com/haierkeys/note-collab-service/internal/dto"
	pkgapp "github.com/haierkeys/note-collab-service/pkg/app"
	"github.com/haierkeys/note-collab-service/pkg/code"
	apperrors "github.com/haierkeys/note-collab-service/pkg/errors"
)

// ShareHandler share link API router handler
// ShareHandler 分享链接 API 路由处理器
type ShareHandler struct {
	*Handler
}

// NewShareHandler creates ShareHandler instance
// NewShareHandler 创建 ShareHandler 实例
func NewShareHandler(a *app.App) *ShareHandler {
	return &ShareHandler{
		Handler: NewHandler(a),
	}
}

// Create creates or rotates a share link for a note
// Create 为笔记创建分享链接，已存在分享时更换分享标识使旧链接失效
func (h *ShareHandler) Create(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.ShareCreateRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("ShareHandler.Create.BindAndValid errs", zap.Error(errs))
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

	shareDTO, err := h.App.ShareService.CreateShare(ctx, uid, id, params)
	if err != nil {
		h.logError(ctx, "ShareHandler.Create", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(shareDTO))
}

// Update updates share settings without rotating the share id
// Update 更新分享设置，不更换分享标识
func (h *ShareHandler) Update(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.ShareUpdateRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("ShareHandler.Update.BindAndValid errs", zap.Error(errs))
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

	shareDTO, err := h.App.ShareService.UpdateShare(ctx, uid, id, params)
	if err != nil {
		h.logError(ctx, "ShareHandler.Update", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(shareDTO))
}

// Revoke disables the share link of a note
// Revoke 撤销笔记的分享链接
func (h *ShareHandler) Revoke(c *gin.Context) {
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

	if err := h.App.ShareService.RevokeShare(ctx, uid, id); err != nil {
		h.logError(ctx, "ShareHandler.Revoke", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success)
}

// GetSharedNote resolves a share id to note content, no authentication required
// GetSharedNote 通过分享标识获取笔记内容，公开访问无需认证
func (h *ShareHandler) GetSharedNote(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	shareID := c.Param("shareId")
	if shareID == "" {
		response.ToResponse(code.ErrorInvalidParams)
		return
	}

	ctx := c.Request.Context()

	sharedDTO, err := h.App.ShareService.GetSharedNote(ctx, shareID)
	if err != nil {
		h.logError(ctx, "ShareHandler.GetSharedNote", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(sharedDTO))
}
