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

// NoteVersionHandler note version history API router handler
// NoteVersionHandler 笔记历史版本 API 路由处理器
type NoteVersionHandler struct {
	*Handler
}

// NewNoteVersionHandler creates NoteVersionHandler instance
// NewNoteVersionHandler 创建 NoteVersionHandler 实例
func NewNoteVersionHandler(a *app.App) *NoteVersionHandler {
	return &NoteVersionHandler{
		Handler: NewHandler(a),
	}
}

// List lists version history of a note, excluding content
// List 获取笔记的历史版本列表，不包含正文
func (h *NoteVersionHandler) List(c *gin.Context) {
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

	list, err := h.App.VersionService.List(ctx, uid, id)
	if err != nil {
		h.logError(ctx, "NoteVersionHandler.List", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(list))
}

// Get retrieves a single version including content
// Get 获取指定历史版本，包含正文
func (h *NoteVersionHandler) Get(c *gin.Context) {
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

	version, err := convert.StrTo(c.Param("version")).Int64()
	if err != nil || version <= 0 {
		response.ToResponse(code.ErrorInvalidParams)
		return
	}

	ctx := c.Request.Context()

	versionDTO, err := h.App.VersionService.Get(ctx, uid, id, version)
	if err != nil {
		h.logError(ctx, "NoteVersionHandler.Get", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(versionDTO))
}

// Diff compares two versions of a note
// Diff 对比笔记的两个版本，to 为 0 时与当前内容对比
func (h *NoteVersionHandler) Diff(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.VersionDiffRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("NoteVersionHandler.Diff.BindAndValid errs", zap.Error(errs))
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

	diffDTO, err := h.App.VersionService.Diff(ctx, uid, id, params)
	if err != nil {
		h.logError(ctx, "NoteVersionHandler.Diff", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(diffDTO))
}
