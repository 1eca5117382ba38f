// Package service 实现业务逻辑层
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/haierkeys/note-collab-service/internal/domain"
	"github.com/haierkeys/note-collab-service/internal/dto"
	"github.com/haierkeys/note-collab-service/pkg/code"
	"github.com/haierkeys/note-collab-service/pkg/logger"
	"github.com/haierkeys/note-collab-service/pkg/mailer"
	"github.com/haierkeys/note-collab-service/pkg/timex"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CollaboratorService 定义协作者业务服务接口
type CollaboratorService interface {
	// List 获取笔记的全部协作者
	List(ctx context.Context, uid int64, noteID int64) ([]*dto.CollaboratorDTO, error)

	// Add 通过邮箱添加协作者
	Add(ctx context.Context, uid int64, noteID int64, params *dto.CollaboratorAddRequest) (*dto.CollaboratorDTO, error)

	// UpdatePermission 修改协作者权限
	UpdatePermission(ctx context.Context, uid int64, noteID int64, collaboratorUID int64, params *dto.CollaboratorUpdateRequest) error

	// Remove 移除协作者，仅作者可操作
	Remove(ctx context.Context, uid int64, noteID int64, collaboratorUID int64) error
}

// collaboratorService 实现 CollaboratorService 接口
type collaboratorService struct {
	collabRepo domain.CollaboratorRepository
	noteRepo   domain.NoteRepository
	userRepo   domain.UserRepository
	mailer     *mailer.Mailer
	logger     *zap.Logger
	config     *ServiceConfig
}

// NewCollaboratorService 创建 CollaboratorService 实例
func NewCollaboratorService(collabRepo domain.CollaboratorRepository, noteRepo domain.NoteRepository, userRepo domain.UserRepository, m *mailer.Mailer, logger *zap.Logger, config *ServiceConfig) CollaboratorService {
	return &collaboratorService{
		collabRepo: collabRepo,
		noteRepo:   noteRepo,
		userRepo:   userRepo,
		mailer:     m,
		logger:     logger,
		config:     config,
	}
}

// toDTO 组装协作者 DTO，附带用户资料
func (s *collaboratorService) toDTO(ctx context.Context, c *domain.Collaborator) *dto.CollaboratorDTO {
	d := &dto.CollaboratorDTO{
		NoteID:     c.NoteID,
		UID:        c.UID,
		Permission: c.Permission.String(),
		AddedBy:    c.AddedBy,
		CreatedAt:  timex.Time(c.CreatedAt),
	}
	if user, err := s.userRepo.GetByUID(ctx, c.UID); err == nil {
		d.Username = user.Username
		d.Email = user.Email
		d.Avatar = user.Avatar
	}
	return d
}

// getNote 获取未删除的笔记
func (s *collaboratorService) getNote(ctx context.Context, noteID int64) (*domain.Note, error) {
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
	return note, nil
}

// List 获取笔记的全部协作者
// 任何可读该笔记的用户都可以查看协作者列表
func (s *collaboratorService) List(ctx context.Context, uid int64, noteID int64) ([]*dto.CollaboratorDTO, error) {
	note, err := s.getNote(ctx, noteID)
	if err != nil {
		return nil, err
	}
	if !permissionFor(ctx, s.collabRepo, note, uid).AtLeast(domain.PermissionView) {
		return nil, code.ErrorNoPermission
	}

	collaborators, err := s.collabRepo.ListByNoteID(ctx, noteID)
	if err != nil {
		return nil, code.ErrorDBQuery
	}

	list := make([]*dto.CollaboratorDTO, 0, len(collaborators))
	for _, c := range collaborators {
		list = append(list, s.toDTO(ctx, c))
	}
	return list, nil
}

// Add 通过邮箱添加协作者，仅作者可操作
// 作者不能添加自己；重复添加返回冲突，不会隐式升级权限
func (s *collaboratorService) Add(ctx context.Context, uid int64, noteID int64, params *dto.CollaboratorAddRequest) (*dto.CollaboratorDTO, error) {
	note, err := s.getNote(ctx, noteID)
	if err != nil {
		return nil, err
	}
	if !note.IsAuthor(uid) {
		return nil, code.ErrorNoPermission
	}

	permission := domain.ParsePermission(params.Permission)
	if params.Permission == "" {
		permission = domain.PermissionView
	}
	if permission == 0 {
		return nil, code.ErrorInvalidParams
	}

	target, err := s.userRepo.GetByEmail(ctx, params.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.ErrorUserNotFound
		}
		return nil, code.ErrorDBQuery
	}

	if target.UID == note.AuthorUID {
		return nil, code.ErrorCollaboratorSelf
	}

	existing, err := s.collabRepo.GetByNoteAndUID(ctx, noteID, target.UID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, code.ErrorDBQuery
	}
	if existing != nil {
		return nil, code.ErrorCollaboratorExists
	}

	created, err := s.collabRepo.Create(ctx, &domain.Collaborator{
		NoteID:     noteID,
		UID:        target.UID,
		Permission: permission,
		AddedBy:    uid,
	})
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}

	s.logger.Info("collaborator added",
		zap.Int64(logger.FieldUID, uid),
		zap.Int64(logger.FieldNoteID, noteID),
		zap.Int64("collaboratorUid", target.UID))

	s.sendInviteMail(target, note)

	return s.toDTO(ctx, created), nil
}

// sendInviteMail 发送协作邀请邮件，未启用邮件时跳过
func (s *collaboratorService) sendInviteMail(target *domain.User, note *domain.Note) {
	if s.mailer == nil || !s.mailer.IsEnabled() || !target.HasEmail() {
		return
	}
	subject := "You have been invited to collaborate on a note"
	body := fmt.Sprintf("<p>You were added as a collaborator on the note <b>%s</b>.</p>", note.Title)
	if err := s.mailer.Send(target.Email, subject, body); err != nil {
		s.logger.Warn("send invite mail failed",
			zap.Int64(logger.FieldNoteID, note.ID),
			zap.Error(err))
	}
}

// UpdatePermission 修改协作者权限，仅作者可操作
func (s *collaboratorService) UpdatePermission(ctx context.Context, uid int64, noteID int64, collaboratorUID int64, params *dto.CollaboratorUpdateRequest) error {
	note, err := s.getNote(ctx, noteID)
	if err != nil {
		return err
	}
	if !note.IsAuthor(uid) {
		return code.ErrorNoPermission
	}

	if _, err := s.collabRepo.GetByNoteAndUID(ctx, noteID, collaboratorUID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return code.ErrorCollaboratorNotFound
		}
		return code.ErrorDBQuery
	}

	if err := s.collabRepo.UpdatePermission(ctx, noteID, collaboratorUID, domain.ParsePermission(params.Permission)); err != nil {
		return code.ErrorDBQuery.WithDetails(err.Error())
	}
	return nil
}

// Remove 移除协作者，仅作者可操作
func (s *collaboratorService) Remove(ctx context.Context, uid int64, noteID int64, collaboratorUID int64) error {
	note, err := s.getNote(ctx, noteID)
	if err != nil {
		return err
	}

	if !note.IsAuthor(uid) {
		return code.ErrorNoPermission
	}

	if _, err := s.collabRepo.GetByNoteAndUID(ctx, noteID, collaboratorUID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return code.ErrorCollaboratorNotFound
		}
		return code.ErrorDBQuery
	}

	if err := s.collabRepo.Delete(ctx, noteID, collaboratorUID); err != nil {
		return code.ErrorDBQuery.WithDetails(err.Error())
	}

	s.logger.Info("collaborator removed",
		zap.Int64(logger.FieldUID, uid),
		zap.Int64(logger.FieldNoteID, noteID),
		zap.Int64("collaboratorUid", collaboratorUID))
	return nil
}
