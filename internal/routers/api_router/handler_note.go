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

// NoteHandler note API router handler
// NoteHandler 笔记 API 路由处理器
type NoteHandler struct {
	*Handler
}

// NewNoteHandler creates NoteHandler instance
// NewNoteHandler 创建 NoteHandler 实例
func NewNoteHandler(a *app.App) *NoteHandler {
	return &NoteHandler{
		Handler: NewHandler(a),
	}
}

// noteID 从路径参数解析笔记 ID，非法时返回 0
func noteID(c *gin.Context) int64 {
	id, err := convert.StrTo(c.Param("id")).Int64()
	if err != nil || id <= 0 {
		return 0
	}
	return id
}

// Create creates a note
// Create 创建笔记，摘要、字数等派生字段由服务端计算
func (h *NoteHandler) Create(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.NoteCreateRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("NoteHandler.Create.BindAndValid errs", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	uid := pkgapp.GetUID(c)
	if uid == 0 {
		response.ToResponse(code.ErrorNotUserAuthToken)
		return
	}

	ctx := c.Request.Context()

	noteDTO, err := h.App.NoteService.Create(ctx, uid, params)
	if err != nil {
		h.logError(ctx, "NoteHandler.Create", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(noteDTO))
}

// Get retrieves note detail
// Get 获取笔记详情，作者或协作者可见，回收站中的笔记仅作者可见
func (h *NoteHandler) Get(c *gin.Context) {
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

	noteDTO, err := h.App.NoteService.Get(ctx, uid, id)
	if err != nil {
		h.logError(ctx, "NoteHandler.Get", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(noteDTO))
}

// UpdateContent updates note content with optimistic locking
// UpdateContent 更新笔记内容，请求携带客户端读取到的版本号，版本不一致时返回冲突
func (h *NoteHandler) UpdateContent(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.NoteUpdateRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("NoteHandler.UpdateContent.BindAndValid errs", zap.Error(errs))
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

	noteDTO, err := h.App.NoteService.UpdateContent(ctx, uid, id, params)
	if err != nil {
		h.logError(ctx, "NoteHandler.UpdateContent", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(noteDTO))
}

// UpdateMeta updates note metadata
// UpdateMeta 更新笔记元数据，不递增版本号也不生成历史快照
func (h *NoteHandler) UpdateMeta(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.NoteMetaUpdateRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("NoteHandler.UpdateMeta.BindAndValid errs", zap.Error(errs))
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

	noteDTO, err := h.App.NoteService.UpdateMeta(ctx, uid, id, params)
	if err != nil {
		h.logError(ctx, "NoteHandler.UpdateMeta", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(noteDTO))
}

// List lists notes with filters and pagination
// List 分页获取笔记列表，支持关键字、状态、分类、标签等过滤
func (h *NoteHandler) List(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.NoteListRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("NoteHandler.List.BindAndValid errs", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	uid := pkgapp.GetUID(c)
	if uid == 0 {
		response.ToResponse(code.ErrorNotUserAuthToken)
		return
	}

	ctx := c.Request.Context()
	page := pkgapp.GetPage(c)
	pageSize := pkgapp.GetPageSize(c)

	list, total, err := h.App.NoteService.List(ctx, uid, params, page, pageSize)
	if err != nil {
		h.logError(ctx, "NoteHandler.List", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponseList(code.Success, list, int(total))
}

// ListDeleted lists notes in the recycle bin
// ListDeleted 分页获取回收站中的笔记
func (h *NoteHandler) ListDeleted(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	uid := pkgapp.GetUID(c)
	if uid == 0 {
		response.ToResponse(code.ErrorNotUserAuthToken)
		return
	}

	ctx := c.Request.Context()
	page := pkgapp.GetPage(c)
	pageSize := pkgapp.GetPageSize(c)

	list, total, err := h.App.NoteService.ListDeleted(ctx, uid, page, pageSize)
	if err != nil {
		h.logError(ctx, "NoteHandler.ListDeleted", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponseList(code.Success, list, int(total))
}

// ListCollaborating lists notes shared with the current user as collaborator
// ListCollaborating 分页获取当前用户作为协作者参与的笔记
func (h *NoteHandler) ListCollaborating(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	uid := pkgapp.GetUID(c)
	if uid == 0 {
		response.ToResponse(code.ErrorNotUserAuthToken)
		return
	}

	ctx := c.Request.Context()
	page := pkgapp.GetPage(c)
	pageSize := pkgapp.GetPageSize(c)

	list, total, err := h.App.NoteService.ListCollaborating(ctx, uid, page, pageSize)
	if err != nil {
		h.logError(ctx, "NoteHandler.ListCollaborating", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponseList(code.Success, list, int(total))
}

// Delete moves a note to the recycle bin
// Delete 将笔记移入回收站，仅作者可操作
func (h *NoteHandler) Delete(c *gin.Context) {
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

	if err := h.App.NoteService.Delete(ctx, uid, id); err != nil {
		h.logError(ctx, "NoteHandler.Delete", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success)
}

// Restore restores a note from the recycle bin
// Restore 将笔记移出回收站，仅作者可操作
func (h *NoteHandler) Restore(c *gin.Context) {
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

	noteDTO, err := h.App.NoteService.Restore(ctx, uid, id)
	if err != nil {
		h.logError(ctx, "NoteHandler.Restore", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(noteDTO))
}

// DeletePermanent permanently deletes a note in the recycle bin
// DeletePermanent 物理删除回收站中的笔记及其历史版本和协作者，仅作者可操作
func (h *NoteHandler) DeletePermanent(c *gin.Context) {
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

	if err := h.App.NoteService.DeletePermanent(ctx, uid, id); err != nil {
		h.logError(ctx, "NoteHandler.DeletePermanent", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success)
}
