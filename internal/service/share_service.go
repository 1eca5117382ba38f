// Package service implements the business logic layer
// Package service 实现业务逻辑层
package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/haierkeys/note-collab-service/internal/domain"
	"github.com/haierkeys/note-collab-service/internal/dto"
	"github.com/haierkeys/note-collab-service/pkg/code"
	"github.com/haierkeys/note-collab-service/pkg/logger"
	"github.com/haierkeys/note-collab-service/pkg/timex"
	"github.com/haierkeys/note-collab-service/pkg/util"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ShareService defines the share business service interface
// ShareService 定义分享业务服务接口
type ShareService interface {
	// CreateShare generates a share link for a note; an existing link is rotated
	// CreateShare 为笔记生成分享链接，已有链接时更换分享标识
	CreateShare(ctx context.Context, uid int64, noteID int64, params *dto.ShareCreateRequest) (*dto.ShareDTO, error)

	// UpdateShare updates share settings without rotating the share id
	// UpdateShare 更新分享设置，不更换分享标识
	UpdateShare(ctx context.Context, uid int64, noteID int64, params *dto.ShareUpdateRequest) (*dto.ShareDTO, error)

	// RevokeShare disables the share link
	// RevokeShare 撤销分享链接
	RevokeShare(ctx context.Context, uid int64, noteID int64) error

	// GetSharedNote resolves a share id to note content, no authentication required
	// GetSharedNote 通过分享标识获取笔记内容，无需认证
	GetSharedNote(ctx context.Context, shareID string) (*dto.SharedNoteDTO, error)

	// RecordView aggregates share view statistics in memory
	// RecordView 在内存中聚合分享访问统计
	RecordView(noteID int64)

	// Shutdown shuts down the service and flushes remaining data
	// Shutdown 关闭服务并同步最后的数据
	Shutdown(ctx context.Context) error
}

// aggStats aggregated share view statistics
// aggStats 聚合的分享访问统计
type aggStats struct {
	viewCount    int64
	lastViewedAt time.Time
}

// shareService implementation of ShareService interface
// shareService 实现 ShareService 接口
type shareService struct {
	noteRepo domain.NoteRepository
	userRepo domain.UserRepository
	logger   *zap.Logger
	config   *ServiceConfig

	// Statistics buffer
	// 统计缓冲区
	bufferMu    sync.Mutex
	statsBuffer map[int64]*aggStats
	ticker      *time.Ticker
	stopCh      chan struct{}
	doneCh      chan struct{}
}

// NewShareService creates ShareService instance
// NewShareService 创建 ShareService 实例
func NewShareService(noteRepo domain.NoteRepository, userRepo domain.UserRepository, logger *zap.Logger, config *ServiceConfig) ShareService {
	s := &shareService{
		noteRepo:    noteRepo,
		userRepo:    userRepo,
		logger:      logger,
		config:      config,
		statsBuffer: make(map[int64]*aggStats),
		ticker:      time.NewTicker(time.Minute),
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}

	go s.startFlushLoop()

	return s
}

// shareExpiresAt 计算分享过期时间，expiresIn 为空时使用配置默认值
// 返回零值表示永不过期
func (s *shareService) shareExpiresAt(expiresIn string) (time.Time, error) {
	if expiresIn == "" {
		expiresIn = s.config.Share.DefaultExpiry
	}
	if expiresIn == "" || expiresIn == "0" {
		return time.Time{}, nil
	}
	d, err := util.ParseDuration(expiresIn)
	if err != nil {
		return time.Time{}, err
	}
	return time.Now().Add(d), nil
}

// shareToDTO 组装分享 DTO
func shareToDTO(n *domain.Note) *dto.ShareDTO {
	d := &dto.ShareDTO{
		NoteID:         n.ID,
		Permission:     string(n.SharePermission),
		ExpiresAt:      timex.Time(n.ShareExpiresAt),
		AllowComments:  n.AllowComments,
		ShareViewCount: n.ShareViewCount,
	}
	if n.ShareID != nil {
		d.ShareID = *n.ShareID
		d.ShareURL = "/api/shared/" + *n.ShareID
	}
	return d
}

// manageableNote 获取笔记并校验分享管理权限
// 分享的创建、更新、撤销只有作者可以操作，协作者无论级别都不行
func (s *shareService) manageableNote(ctx context.Context, uid int64, noteID int64) (*domain.Note, error) {
	note, err := s.noteRepo.GetByID(ctx, noteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.ErrorNoteNotFound
		}
		return nil, code.ErrorDBQuery
	}
	if note.IsDeleted {
		return nil, code.ErrorNoteNotFound
	}
	if !note.IsAuthor(uid) {
		return nil, code.ErrorNoPermission
	}
	return note, nil
}

// CreateShare 为笔记生成分享链接，已有链接时更换分享标识
func (s *shareService) CreateShare(ctx context.Context, uid int64, noteID int64, params *dto.ShareCreateRequest) (*dto.ShareDTO, error) {
	note, err := s.manageableNote(ctx, uid, noteID)
	if err != nil {
		return nil, err
	}

	permission := params.Permission
	if permission == "" {
		permission = s.config.Share.DefaultPermission
	}
	if permission == "" {
		permission = string(domain.SharePermissionView)
	}
	if !domain.IsValidSharePermission(permission) {
		return nil, code.ErrorInvalidParams
	}

	expiresAt, err := s.shareExpiresAt(params.ExpiresIn)
	if err != nil {
		return nil, code.ErrorInvalidParams.WithDetails(err.Error())
	}

	allowComments := true
	if params.AllowComments != nil {
		allowComments = *params.AllowComments
	}

	shareID := util.GenerateShareToken()
	fields := map[string]interface{}{
		"is_shared":        true,
		"share_id":         shareID,
		"share_permission": permission,
		"share_expires_at": timex.Time(expiresAt),
		"allow_comments":   allowComments,
		"share_view_count": 0,
		"visibility":       string(domain.VisibilityShared),
	}
	if err := s.noteRepo.UpdateShareFields(ctx, noteID, fields); err != nil {
		return nil, code.ErrorShareCreate.WithDetails(err.Error())
	}

	note, err = s.noteRepo.GetByID(ctx, noteID)
	if err != nil {
		return nil, code.ErrorDBQuery
	}

	s.logger.Info("share link created",
		zap.Int64(logger.FieldUID, uid),
		zap.Int64(logger.FieldNoteID, noteID),
		zap.String(logger.FieldShareID, shareID))

	return shareToDTO(note), nil
}

// UpdateShare 更新分享设置，不更换分享标识
func (s *shareService) UpdateShare(ctx context.Context, uid int64, noteID int64, params *dto.ShareUpdateRequest) (*dto.ShareDTO, error) {
	note, err := s.manageableNote(ctx, uid, noteID)
	if err != nil {
		return nil, err
	}
	if !note.IsShared || note.ShareID == nil {
		return nil, code.ErrorShareNotActive
	}

	fields := make(map[string]interface{})
	if params.Permission != nil {
		if !domain.IsValidSharePermission(*params.Permission) {
			return nil, code.ErrorInvalidParams
		}
		fields["share_permission"] = *params.Permission
	}
	if params.ExpiresIn != nil {
		expiresAt, err := s.shareExpiresAt(*params.ExpiresIn)
		if err != nil {
			return nil, code.ErrorInvalidParams.WithDetails(err.Error())
		}
		fields["share_expires_at"] = timex.Time(expiresAt)
	}
	if params.AllowComments != nil {
		fields["allow_comments"] = *params.AllowComments
	}
	if len(fields) == 0 {
		return nil, code.ErrorInvalidParams
	}

	if err := s.noteRepo.UpdateShareFields(ctx, noteID, fields); err != nil {
		return nil, code.ErrorNoteUpdate.WithDetails(err.Error())
	}

	updated, err := s.noteRepo.GetByID(ctx, noteID)
	if err != nil {
		return nil, code.ErrorDBQuery
	}
	return shareToDTO(updated), nil
}

// RevokeShare 撤销分享链接
func (s *shareService) RevokeShare(ctx context.Context, uid int64, noteID int64) error {
	note, err := s.manageableNote(ctx, uid, noteID)
	if err != nil {
		return err
	}
	if !note.IsShared {
		return code.ErrorShareNotActive
	}

	if err := s.revokeShareFields(ctx, noteID); err != nil {
		return code.ErrorNoteUpdate.WithDetails(err.Error())
	}

	s.logger.Info("share link revoked",
		zap.Int64(logger.FieldUID, uid),
		zap.Int64(logger.FieldNoteID, noteID))
	return nil
}

// revokeShareFields 清除分享字段，share_id 置空避免唯一索引冲突
func (s *shareService) revokeShareFields(ctx context.Context, noteID int64) error {
	return s.noteRepo.UpdateShareFields(ctx, noteID, map[string]interface{}{
		"is_shared":        false,
		"share_id":         nil,
		"share_permission": "",
		"share_expires_at": timex.Time{},
		"visibility":       string(domain.VisibilityPrivate),
	})
}

// GetSharedNote 通过分享标识获取笔记内容
// 过期只在读取时判定，分享记录保持原样，到期后每次访问都返回已过期
func (s *shareService) GetSharedNote(ctx context.Context, shareID string) (*dto.SharedNoteDTO, error) {
	note, err := s.noteRepo.GetByShareID(ctx, shareID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.ErrorShareNotFound
		}
		return nil, code.ErrorDBQuery
	}
	if !note.IsShared || note.IsDeleted {
		return nil, code.ErrorShareNotFound
	}

	if note.ShareExpired(time.Now()) {
		return nil, code.ErrorShareExpired
	}

	s.RecordView(note.ID)

	result := &dto.SharedNoteDTO{
		Title:         note.Title,
		Content:       note.Content,
		ContentType:   string(note.ContentType),
		Excerpt:       note.Excerpt,
		WordCount:     note.WordCount,
		ReadingTime:   note.ReadingTime,
		Tags:          note.Tags,
		Permission:    string(note.SharePermission),
		AllowComments: note.AllowComments,
		UpdatedAt:     timex.Time(note.UpdatedAt),
	}
	if user, err := s.userRepo.GetByUID(ctx, note.AuthorUID); err == nil {
		result.Author = user.Username
	}
	if result.Tags == nil {
		result.Tags = []string{}
	}
	return result, nil
}

// RecordView 在内存中聚合分享访问统计
func (s *shareService) RecordView(noteID int64) {
	s.bufferMu.Lock()
	defer s.bufferMu.Unlock()

	if stats, ok := s.statsBuffer[noteID]; ok {
		stats.viewCount++
		stats.lastViewedAt = time.Now()
	} else {
		s.statsBuffer[noteID] = &aggStats{
			viewCount:    1,
			lastViewedAt: time.Now(),
		}
	}
}

// startFlushLoop 定期刷新统计缓冲区
func (s *shareService) startFlushLoop() {
	defer close(s.doneCh)

	for {
		select {
		case <-s.ticker.C:
			s.flushStats(context.Background())
		case <-s.stopCh:
			s.ticker.Stop()
			return
		}
	}
}

// flushStats 将聚合统计写入数据库
func (s *shareService) flushStats(ctx context.Context) {
	s.bufferMu.Lock()
	if len(s.statsBuffer) == 0 {
		s.bufferMu.Unlock()
		return
	}
	buffer := s.statsBuffer
	s.statsBuffer = make(map[int64]*aggStats)
	s.bufferMu.Unlock()

	for noteID, stats := range buffer {
		if err := s.noteRepo.IncrShareViewCount(ctx, noteID, stats.viewCount, stats.lastViewedAt); err != nil {
			s.logger.Warn("flush share view stats failed",
				zap.Int64(logger.FieldNoteID, noteID),
				zap.Error(err))
		}
	}
}

// Shutdown 关闭服务并同步最后的数据
func (s *shareService) Shutdown(ctx context.Context) error {
	close(s.stopCh)

	select {
	case <-s.doneCh:
	case <-ctx.Done():
		return ctx.Err()
	}

	s.flushStats(ctx)
	return nil
}
