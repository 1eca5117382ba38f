// Package service 实现业务逻辑层
package service

import (
	"context"
	"errors"

	"github.com/haierkeys/note-collab-service/internal/domain"
	"github.com/haierkeys/note-collab-service/internal/dto"
	"github.com/haierkeys/note-collab-service/pkg/code"
	"github.com/haierkeys/note-collab-service/pkg/diff"
	"github.com/haierkeys/note-collab-service/pkg/timex"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// VersionService 定义笔记历史版本业务服务接口
type VersionService interface {
	// List 获取笔记的历史版本列表（不含正文）
	List(ctx context.Context, uid int64, noteID int64) ([]*dto.NoteVersionDTO, error)

	// Get 获取指定历史版本（含正文）
	Get(ctx context.Context, uid int64, noteID int64, version int64) (*dto.NoteVersionDTO, error)

	// Diff 对比两个版本，to 为 0 时与当前内容对比
	Diff(ctx context.Context, uid int64, noteID int64, params *dto.VersionDiffRequest) (*dto.VersionDiffDTO, error)
}

// versionService 实现 VersionService 接口
type versionService struct {
	versionRepo domain.NoteVersionRepository
	noteRepo    domain.NoteRepository
	collabRepo  domain.CollaboratorRepository
	logger      *zap.Logger
}

// NewVersionService 创建 VersionService 实例
func NewVersionService(versionRepo domain.NoteVersionRepository, noteRepo domain.NoteRepository, collabRepo domain.CollaboratorRepository, logger *zap.Logger) VersionService {
	return &versionService{
		versionRepo: versionRepo,
		noteRepo:    noteRepo,
		collabRepo:  collabRepo,
		logger:      logger,
	}
}

func versionToDTO(v *domain.NoteVersion, withContent bool) *dto.NoteVersionDTO {
	d := &dto.NoteVersionDTO{
		NoteID:      v.NoteID,
		Version:     v.Version,
		Title:       v.Title,
		ContentType: string(v.ContentType),
		WordCount:   v.WordCount,
		SavedBy:     v.SavedBy,
		ChangeNote:  v.ChangeNote,
		CreatedAt:   timex.Time(v.CreatedAt),
	}
	if withContent {
		d.Content = v.Content
	}
	return d
}

// readableNote 获取笔记并校验读取权限
func (s *versionService) readableNote(ctx context.Context, uid int64, noteID int64) (*domain.Note, error) {
	note, err := s.noteRepo.GetByID(ctx, noteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.ErrorNoteNotFound
		}
		return nil, code.ErrorDBQuery
	}
	if note.IsDeleted && !note.IsAuthor(uid) {
		return nil, code.ErrorNoteNotFound
	}
	if !permissionFor(ctx, s.collabRepo, note, uid).AtLeast(domain.PermissionView) {
		return nil, code.ErrorNoPermission
	}
	return note, nil
}

// List 获取笔记的历史版本列表（不含正文）
func (s *versionService) List(ctx context.Context, uid int64, noteID int64) ([]*dto.NoteVersionDTO, error) {
	if _, err := s.readableNote(ctx, uid, noteID); err != nil {
		return nil, err
	}

	versions, err := s.versionRepo.ListByNoteID(ctx, noteID)
	if err != nil {
		return nil, code.ErrorDBQuery
	}

	list := make([]*dto.NoteVersionDTO, 0, len(versions))
	for _, v := range versions {
		list = append(list, versionToDTO(v, false))
	}
	return list, nil
}

// Get 获取指定历史版本（含正文）
func (s *versionService) Get(ctx context.Context, uid int64, noteID int64, version int64) (*dto.NoteVersionDTO, error) {
	if _, err := s.readableNote(ctx, uid, noteID); err != nil {
		return nil, err
	}

	v, err := s.versionRepo.GetByVersion(ctx, noteID, version)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.ErrorNoteVersionNotFound
		}
		return nil, code.ErrorDBQuery
	}
	return versionToDTO(v, true), nil
}

// Diff 对比两个版本，to 为 0 时与当前内容对比
func (s *versionService) Diff(ctx context.Context, uid int64, noteID int64, params *dto.VersionDiffRequest) (*dto.VersionDiffDTO, error) {
	note, err := s.readableNote(ctx, uid, noteID)
	if err != nil {
		return nil, err
	}

	from, err := s.versionRepo.GetByVersion(ctx, noteID, params.From)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.ErrorNoteVersionNotFound
		}
		return nil, code.ErrorDBQuery
	}

	toContent := note.Content
	toVersion := note.Version
	if params.To > 0 && params.To != note.Version {
		to, err := s.versionRepo.GetByVersion(ctx, noteID, params.To)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, code.ErrorNoteVersionNotFound
			}
			return nil, code.ErrorDBQuery
		}
		toContent = to.Content
		toVersion = to.Version
	}

	hunks, stats := diff.Compare(from.Content, toContent)

	return &dto.VersionDiffDTO{
		NoteID:      noteID,
		FromVersion: from.Version,
		ToVersion:   toVersion,
		Hunks:       hunks,
		Stats:       stats,
	}, nil
}
