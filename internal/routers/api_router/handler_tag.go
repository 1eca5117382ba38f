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

// TagHandler tag API router handler
// TagHandler 标签 API 路由处理器
type TagHandler struct {
	*Handler
}

// NewTagHandler creates TagHandler instance
// NewTagHandler 创建 TagHandler 实例
func NewTagHandler(a *app.App) *TagHandler {
	return &TagHandler{
		Handler: NewHandler(a),
	}
}

// List lists all tags of the current user, ordered by usage
// List 获取当前用户的全部标签，按使用次数降序
func (h *TagHandler) List(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	uid := pkgapp.GetUID(c)
	if uid == 0 {
		response.ToResponse(code.ErrorNotUserAuthToken)
		return
	}

	ctx := c.Request.Context()

	list, err := h.App.TagService.List(ctx, uid)
	if err != nil {
		h.logError(ctx, "TagHandler.List", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(list))
}

// Cleanup removes tags with zero usage
// Cleanup 删除使用计数为 0 的标签，返回删除数量
func (h *TagHandler) Cleanup(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	uid := pkgapp.GetUID(c)
	if uid == 0 {
		response.ToResponse(code.ErrorNotUserAuthToken)
		return
	}

	ctx := c.Request.Context()

	removed, err := h.App.TagService.Cleanup(ctx, uid)
	if err != nil {
		h.logError(ctx, "TagHandler.Cleanup", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(gin.H{"removed": removed}))
}

// CategoryHandler category API router handler
// CategoryHandler 分类 API 路由处理器
type CategoryHandler struct {
	*Handler
}

// NewCategoryHandler creates CategoryHandler instance
// NewCategoryHandler 创建 CategoryHandler 实例
func NewCategoryHandler(a *app.App) *CategoryHandler {
	return &CategoryHandler{
		Handler: NewHandler(a),
	}
}

// categoryID 从路径参数解析分类 ID，非法时返回 0
func categoryID(c *gin.Context) int64 {
	id, err := convert.StrTo(c.Param("id")).Int64()
	if err != nil || id <= 0 {
		return 0
	}
	return id
}

// List lists all categories of the current user
// List 获取当前用户的全部分类
func (h *CategoryHandler) List(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	uid := pkgapp.GetUID(c)
	if uid == 0 {
		response.ToResponse(code.ErrorNotUserAuthToken)
		return
	}

	ctx := c.Request.Context()

	list, err := h.App.CategoryService.List(ctx, uid)
	if err != nil {
		h.logError(ctx, "CategoryHandler.List", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(list))
}

// Create creates a category
// Create 创建分类，父分类不存在时返回错误
func (h *CategoryHandler) Create(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.CategoryCreateRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("CategoryHandler.Create.BindAndValid errs", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	uid := pkgapp.GetUID(c)
	if uid == 0 {
		response.ToResponse(code.ErrorNotUserAuthToken)
		return
	}

	ctx := c.Request.Context()

	categoryDTO, err := h.App.CategoryService.Create(ctx, uid, params)
	if err != nil {
		h.logError(ctx, "CategoryHandler.Create", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(categoryDTO))
}

// Update updates a category
// Update 更新分类，禁止形成父子环
func (h *CategoryHandler) Update(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.CategoryUpdateRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("CategoryHandler.Update.BindAndValid errs", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	uid := pkgapp.GetUID(c)
	if uid == 0 {
		response.ToResponse(code.ErrorNotUserAuthToken)
		return
	}

	id := categoryID(c)
	if id == 0 {
		response.ToResponse(code.ErrorInvalidParams)
		return
	}

	ctx := c.Request.Context()

	categoryDTO, err := h.App.CategoryService.Update(ctx, uid, id, params)
	if err != nil {
		h.logError(ctx, "CategoryHandler.Update", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(categoryDTO))
}

// Delete deletes a category and all of its descendants
// Delete 删除分类及其全部子分类，关联笔记的分类被重置
func (h *CategoryHandler) Delete(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	uid := pkgapp.GetUID(c)
	if uid == 0 {
		response.ToResponse(code.ErrorNotUserAuthToken)
		return
	}

	id := categoryID(c)
	if id == 0 {
		response.ToResponse(code.ErrorInvalidParams)
		return
	}

	ctx := c.Request.Context()

	if err := h.App.CategoryService.Delete(ctx, uid, id); err != nil {
		h.logError(ctx, "CategoryHandler.Delete", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success)
}
