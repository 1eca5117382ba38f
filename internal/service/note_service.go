// Package service 实现业务逻辑层
package service

import (
	"context"
	"errors"

	"github.com/haierkeys/note-collab-service/internal/domain"
	"github.com/haierkeys/note-collab-service/internal/dto"
	"github.com/haierkeys/note-collab-service/pkg/code"
	"github.com/haierkeys/note-collab-service/pkg/logger"
	"github.com/haierkeys/note-collab-service/pkg/timex"
	"github.com/haierkeys/note-collab-service/pkg/util"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// NoteService defines the note business service interface
// NoteService 定义笔记业务服务接口
type NoteService interface {
	// Create 创建笔记，派生字段由服务端计算
	Create(ctx context.Context, uid int64, params *dto.NoteCreateRequest) (*dto.NoteDTO, error)

	// Get 获取笔记详情并记录浏览
	Get(ctx context.Context, uid int64, noteID int64) (*dto.NoteDTO, error)

	// UpdateContent 更新笔记内容，基于版本号乐观锁
	UpdateContent(ctx context.Context, uid int64, noteID int64, params *dto.NoteUpdateRequest) (*dto.NoteDTO, error)

	// UpdateMeta 更新笔记元数据，不触发版本快照
	UpdateMeta(ctx context.Context, uid int64, noteID int64, params *dto.NoteMetaUpdateRequest) (*dto.NoteDTO, error)

	// List 分页获取笔记列表
	List(ctx context.Context, uid int64, params *dto.NoteListRequest, page, pageSize int) ([]*dto.NoteListItemDTO, int64, error)

	// ListDeleted 分页获取回收站笔记
	ListDeleted(ctx context.Context, uid int64, page, pageSize int) ([]*dto.NoteListItemDTO, int64, error)

	// ListCollaborating 分页获取用户作为协作者参与的笔记
	ListCollaborating(ctx context.Context, uid int64, page, pageSize int) ([]*dto.NoteListItemDTO, int64, error)

	// Delete 将笔记移入回收站
	Delete(ctx context.Context, uid int64, noteID int64) error

	// Restore 将笔记移出回收站
	Restore(ctx context.Context, uid int64, noteID int64) (*dto.NoteDTO, error)

	// DeletePermanent 物理删除回收站中的笔记
	DeletePermanent(ctx context.Context, uid int64, noteID int64) error
}

// noteService 实现 NoteService 接口
type noteService struct {
	noteRepo   domain.NoteRepository
	collabRepo domain.CollaboratorRepository
	logger     *zap.Logger
	config     *ServiceConfig
}

// NewNoteService 创建 NoteService 实例
func NewNoteService(noteRepo domain.NoteRepository, collabRepo domain.CollaboratorRepository, logger *zap.Logger, config *ServiceConfig) NoteService {
	return &noteService{
		noteRepo:   noteRepo,
		collabRepo: collabRepo,
		logger:     logger,
		config:     config,
	}
}

// noteToDTO 将领域模型转换为 DTO
func noteToDTO(n *domain.Note) *dto.NoteDTO {
	if n == nil {
		return nil
	}
	d := &dto.NoteDTO{
		ID:              n.ID,
		AuthorUID:       n.AuthorUID,
		Title:           n.Title,
		Content:         n.Content,
		ContentType:     string(n.ContentType),
		Excerpt:         n.Excerpt,
		WordCount:       n.WordCount,
		ReadingTime:     n.ReadingTime,
		Status:          string(n.Status),
		Visibility:      string(n.Visibility),
		CategoryID:      n.CategoryID,
		Tags:            n.Tags,
		Pinned:          n.Pinned,
		Favorite:        n.Favorite,
		Priority:        n.Priority,
		Version:         n.Version,
		EditCount:       n.EditCount,
		ViewCount:       n.ViewCount,
		LastViewedAt:    timex.Time(n.LastViewedAt),
		DeletedAt:       timex.Time(n.DeletedAt),
		IsShared:        n.IsShared,
		SharePermission: string(n.SharePermission),
		ShareExpiresAt:  timex.Time(n.ShareExpiresAt),
		AllowComments:   n.AllowComments,
		CreatedAt:       timex.Time(n.CreatedAt),
		UpdatedAt:       timex.Time(n.UpdatedAt),
	}
	if n.Tags == nil {
		d.Tags = []string{}
	}
	if n.ShareID != nil {
		d.ShareID = *n.ShareID
	}
	return d
}

// noteToListItemDTO 转换为不含正文的列表 DTO
func noteToListItemDTO(n *domain.Note) *dto.NoteListItemDTO {
	if n == nil {
		return nil
	}
	d := &dto.NoteListItemDTO{
		ID:          n.ID,
		AuthorUID:   n.AuthorUID,
		Title:       n.Title,
		ContentType: string(n.ContentType),
		Excerpt:     n.Excerpt,
		WordCount:   n.WordCount,
		ReadingTime: n.ReadingTime,
		Status:      string(n.Status),
		Visibility:  string(n.Visibility),
		CategoryID:  n.CategoryID,
		Tags:        n.Tags,
		Pinned:      n.Pinned,
		Favorite:    n.Favorite,
		Priority:    n.Priority,
		Version:     n.Version,
		ViewCount:   n.ViewCount,
		IsShared:    n.IsShared,
		DeletedAt:   timex.Time(n.DeletedAt),
		CreatedAt:   timex.Time(n.CreatedAt),
		UpdatedAt:   timex.Time(n.UpdatedAt),
	}
	if n.Tags == nil {
		d.Tags = []string{}
	}
	return d
}

// getNote 获取笔记，统一 NotFound 处理
func (s *noteService) getNote(ctx context.Context, noteID int64) (*domain.Note, error) {
	note, err := s.noteRepo.GetByID(ctx, noteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.ErrorNoteNotFound
		}
		return nil, code.ErrorDBQuery
	}
	return note, nil
}

// permissionFor 计算用户对笔记的权限级别，作者视为最高权限
func permissionFor(ctx context.Context, collabRepo domain.CollaboratorRepository, note *domain.Note, uid int64) domain.Permission {
	if note.IsAuthor(uid) {
		return domain.PermissionAdmin
	}
	collab, err := collabRepo.GetByNoteAndUID(ctx, note.ID, uid)
	if err != nil {
		return 0
	}
	return collab.Permission
}

// deriveContentFields 计算正文派生字段
func (s *noteService) deriveContentFields(content string) (excerpt string, wordCount int, readingTime int) {
	excerptLen := s.config.App.ExcerptLength
	if excerptLen <= 0 {
		excerptLen = 200
	}
	wpm := s.config.App.ReadingWordsPerMinute
	if wpm <= 0 {
		wpm = 200
	}
	wordCount = util.CountWords(content)
	return util.MakeExcerpt(content, excerptLen), wordCount, util.EstimateReadingTime(wordCount, wpm)
}

// Create 创建笔记
func (s *noteService) Create(ctx context.Context, uid int64, params *dto.NoteCreateRequest) (*dto.NoteDTO, error) {
	contentType := params.ContentType
	if contentType == "" {
		contentType = string(domain.ContentTypeMarkdown)
	}
	status := params.Status
	if status == "" {
		status = string(domain.NoteStatusDraft)
	}
	visibility := params.Visibility
	if visibility == "" {
		visibility = string(domain.VisibilityPrivate)
	}

	if !domain.IsValidContentType(contentType) || !domain.IsValidStatus(status) || !domain.IsValidVisibility(visibility) {
		return nil, code.ErrorInvalidParams
	}
	if params.Priority < 0 || params.Priority > 5 {
		return nil, code.ErrorInvalidParams
	}

	excerpt, wordCount, readingTime := s.deriveContentFields(params.Content)

	note := &domain.Note{
		AuthorUID:     uid,
		Title:         params.Title,
		Content:       params.Content,
		ContentType:   domain.ContentType(contentType),
		Excerpt:       excerpt,
		WordCount:     wordCount,
		ReadingTime:   readingTime,
		Status:        domain.NoteStatus(status),
		Visibility:    domain.NoteVisibility(visibility),
		CategoryID:    params.CategoryID,
		Tags:          util.NormalizeTags(params.Tags),
		Pinned:        params.Pinned,
		Favorite:      params.Favorite,
		Priority:      params.Priority,
		Version:       1,
		AllowComments: true,
	}

	created, err := s.noteRepo.Create(ctx, note)
	if err != nil {
		return nil, code.ErrorNoteCreate.WithDetails(err.Error())
	}

	s.logger.Info("note created",
		zap.Int64(logger.FieldUID, uid),
		zap.Int64(logger.FieldNoteID, created.ID))

	return noteToDTO(created), nil
}

// Get 获取笔记详情并记录浏览
// 回收站中的笔记仅作者可见
func (s *noteService) Get(ctx context.Context, uid int64, noteID int64) (*dto.NoteDTO, error) {
	note, err := s.getNote(ctx, noteID)
	if err != nil {
		return nil, err
	}

	if note.IsDeleted {
		if !note.IsAuthor(uid) {
			return nil, code.ErrorNoteNotFound
		}
		return noteToDTO(note), nil
	}

	if !permissionFor(ctx, s.collabRepo, note, uid).AtLeast(domain.PermissionView) {
		return nil, code.ErrorNoPermission
	}

	now := timex.Now().Time()
	if err := s.noteRepo.IncrViewCount(ctx, noteID, now); err != nil {
		s.logger.Warn("incr view count failed",
			zap.Int64(logger.FieldNoteID, noteID),
			zap.Error(err))
	} else {
		note.ViewCount++
		note.LastViewedAt = now
	}

	return noteToDTO(note), nil
}

// UpdateContent 更新笔记内容，基于版本号乐观锁
// 版本不匹配返回冲突，由客户端拉取最新内容后重试
// 仅标题或内容类型变更不触发快照和版本号递增
func (s *noteService) UpdateContent(ctx context.Context, uid int64, noteID int64, params *dto.NoteUpdateRequest) (*dto.NoteDTO, error) {
	note, err := s.getNote(ctx, noteID)
	if err != nil {
		return nil, err
	}
	if note.IsDeleted {
		return nil, code.ErrorNoteAlreadyDeleted
	}
	if !permissionFor(ctx, s.collabRepo, note, uid).AtLeast(domain.PermissionEdit) {
		return nil, code.ErrorNoPermission
	}

	fields := make(map[string]interface{})
	if params.Title != nil {
		fields["title"] = *params.Title
	}
	if params.ContentType != nil {
		if !domain.IsValidContentType(*params.ContentType) {
			return nil, code.ErrorInvalidParams
		}
		fields["content_type"] = *params.ContentType
	}
	if params.Title == nil && params.ContentType == nil && params.Content == nil {
		return nil, code.ErrorInvalidParams
	}

	// 正文没有实际变化时不产生快照和版本号，走元数据更新路径
	contentChanged := params.Content != nil && *params.Content != note.Content
	if !contentChanged {
		if len(fields) == 0 {
			return noteToDTO(note), nil
		}
		if err := s.noteRepo.UpdateFields(ctx, noteID, fields, nil, nil, note.AuthorUID); err != nil {
			return nil, code.ErrorNoteUpdate.WithDetails(err.Error())
		}
		updated, err := s.getNote(ctx, noteID)
		if err != nil {
			return nil, err
		}
		return noteToDTO(updated), nil
	}

	excerpt, wordCount, readingTime := s.deriveContentFields(*params.Content)
	fields["content"] = *params.Content
	fields["excerpt"] = excerpt
	fields["word_count"] = wordCount
	fields["reading_time"] = readingTime

	// 快照保存被替换的版本
	snapshot := &domain.NoteVersion{
		NoteID:      note.ID,
		Version:     note.Version,
		Title:       note.Title,
		Content:     note.Content,
		ContentType: note.ContentType,
		WordCount:   note.WordCount,
		SavedBy:     uid,
		ChangeNote:  params.ChangeNote,
	}

	applied, err := s.noteRepo.ApplyContentUpdate(ctx, noteID, params.Version, fields, snapshot)
	if err != nil {
		return nil, code.ErrorNoteUpdate.WithDetails(err.Error())
	}
	if !applied {
		return nil, code.ErrorNoteVersionConflict
	}

	updated, err := s.getNote(ctx, noteID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("note content updated",
		zap.Int64(logger.FieldUID, uid),
		zap.Int64(logger.FieldNoteID, noteID),
		zap.Int64(logger.FieldVersion, updated.Version))

	return noteToDTO(updated), nil
}

// UpdateMeta 更新笔记元数据，不触发版本快照
func (s *noteService) UpdateMeta(ctx context.Context, uid int64, noteID int64, params *dto.NoteMetaUpdateRequest) (*dto.NoteDTO, error) {
	note, err := s.getNote(ctx, noteID)
	if err != nil {
		return nil, err
	}
	if note.IsDeleted {
		return nil, code.ErrorNoteAlreadyDeleted
	}
	if !permissionFor(ctx, s.collabRepo, note, uid).AtLeast(domain.PermissionEdit) {
		return nil, code.ErrorNoPermission
	}

	fields := make(map[string]interface{})
	if params.Status != nil {
		if !domain.IsValidStatus(*params.Status) {
			return nil, code.ErrorInvalidParams
		}
		fields["status"] = *params.Status
	}
	if params.Visibility != nil {
		if !domain.IsValidVisibility(*params.Visibility) {
			return nil, code.ErrorInvalidParams
		}
		fields["visibility"] = *params.Visibility
	}
	if params.CategoryID != nil {
		fields["category_id"] = *params.CategoryID
	}
	if params.Pinned != nil {
		fields["pinned"] = *params.Pinned
	}
	if params.Favorite != nil {
		fields["favorite"] = *params.Favorite
	}
	if params.Priority != nil {
		fields["priority"] = *params.Priority
	}

	var tagsBefore, tagsAfter []string
	if params.Tags != nil {
		tagsBefore = note.Tags
		tagsAfter = util.NormalizeTags(*params.Tags)
		fields["tags"] = tagsAfter
	}

	if len(fields) == 0 {
		return nil, code.ErrorInvalidParams
	}

	if err := s.noteRepo.UpdateFields(ctx, noteID, fields, tagsBefore, tagsAfter, note.AuthorUID); err != nil {
		return nil, code.ErrorNoteUpdate.WithDetails(err.Error())
	}

	updated, err := s.getNote(ctx, noteID)
	if err != nil {
		return nil, err
	}
	return noteToDTO(updated), nil
}

// List 分页获取笔记列表
func (s *noteService) List(ctx context.Context, uid int64, params *dto.NoteListRequest, page, pageSize int) ([]*dto.NoteListItemDTO, int64, error) {
	filter := domain.NoteListFilter{
		Keyword:    params.Keyword,
		Status:     params.Status,
		Visibility: params.Visibility,
		CategoryID: params.CategoryID,
		Tag:        params.Tag,
		Favorite:   params.Favorite,
		Pinned:     params.Pinned,
		SortBy:     params.SortBy,
		SortOrder:  params.SortOrder,
	}

	notes, err := s.noteRepo.ListByAuthor(ctx, uid, filter, page, pageSize)
	if err != nil {
		return nil, 0, code.ErrorDBQuery
	}
	count, err := s.noteRepo.CountByAuthor(ctx, uid, filter)
	if err != nil {
		return nil, 0, code.ErrorDBQuery
	}

	list := make([]*dto.NoteListItemDTO, 0, len(notes))
	for _, n := range notes {
		list = append(list, noteToListItemDTO(n))
	}
	return list, count, nil
}

// ListDeleted 分页获取回收站笔记
func (s *noteService) ListDeleted(ctx context.Context, uid int64, page, pageSize int) ([]*dto.NoteListItemDTO, int64, error) {
	notes, err := s.noteRepo.ListDeleted(ctx, uid, page, pageSize)
	if err != nil {
		return nil, 0, code.ErrorDBQuery
	}
	count, err := s.noteRepo.CountDeleted(ctx, uid)
	if err != nil {
		return nil, 0, code.ErrorDBQuery
	}

	list := make([]*dto.NoteListItemDTO, 0, len(notes))
	for _, n := range notes {
		list = append(list, noteToListItemDTO(n))
	}
	return list, count, nil
}

// ListCollaborating 分页获取用户作为协作者参与的笔记
func (s *noteService) ListCollaborating(ctx context.Context, uid int64, page, pageSize int) ([]*dto.NoteListItemDTO, int64, error) {
	notes, err := s.noteRepo.ListCollaborating(ctx, uid, page, pageSize)
	if err != nil {
		return nil, 0, code.ErrorDBQuery
	}
	count, err := s.noteRepo.CountCollaborating(ctx, uid)
	if err != nil {
		return nil, 0, code.ErrorDBQuery
	}

	list := make([]*dto.NoteListItemDTO, 0, len(notes))
	for _, n := range notes {
		list = append(list, noteToListItemDTO(n))
	}
	return list, count, nil
}

// Delete 将笔记移入回收站，同步递减标签使用计数
// 仅作者可删除
func (s *noteService) Delete(ctx context.Context, uid int64, noteID int64) error {
	note, err := s.getNote(ctx, noteID)
	if err != nil {
		return err
	}
	if !note.IsAuthor(uid) {
		return code.ErrorNoPermission
	}
	if note.IsDeleted {
		return code.ErrorNoteAlreadyDeleted
	}

	if err := s.noteRepo.SoftDelete(ctx, note, timex.Now().Time()); err != nil {
		return code.ErrorNoteUpdate.WithDetails(err.Error())
	}

	s.logger.Info("note moved to trash",
		zap.Int64(logger.FieldUID, uid),
		zap.Int64(logger.FieldNoteID, noteID))
	return nil
}

// Restore 将笔记移出回收站，同步递增标签使用计数
func (s *noteService) Restore(ctx context.Context, uid int64, noteID int64) (*dto.NoteDTO, error) {
	note, err := s.getNote(ctx, noteID)
	if err != nil {
		return nil, err
	}
	if !note.IsAuthor(uid) {
		return nil, code.ErrorNoPermission
	}
	if !note.IsDeleted {
		return nil, code.ErrorNoteNotDeleted
	}

	if err := s.noteRepo.Restore(ctx, note); err != nil {
		return nil, code.ErrorNoteUpdate.WithDetails(err.Error())
	}

	restored, err := s.getNote(ctx, noteID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("note restored",
		zap.Int64(logger.FieldUID, uid),
		zap.Int64(logger.FieldNoteID, noteID))

	return noteToDTO(restored), nil
}

// DeletePermanent 物理删除回收站中的笔记
// 必须先移入回收站，防止误删
func (s *noteService) DeletePermanent(ctx context.Context, uid int64, noteID int64) error {
	note, err := s.getNote(ctx, noteID)
	if err != nil {
		return err
	}
	if !note.IsAuthor(uid) {
		return code.ErrorNoPermission
	}
	if !note.IsDeleted {
		return code.ErrorNoteNotDeleted
	}

	if err := s.noteRepo.Purge(ctx, noteID); err != nil {
		return code.ErrorNoteUpdate.WithDetails(err.Error())
	}

	s.logger.Info("note purged",
		zap.Int64(logger.FieldUID, uid),
		zap.Int64(logger.FieldNoteID, noteID))
	return nil
}
