package dao

import (
	"context"

	"github.com/haierkeys/note-collab-service/internal/domain"
	"github.com/haierkeys/note-collab-service/internal/model"
	"github.com/haierkeys/note-collab-service/pkg/timex"
)

// collaboratorRepository 实现 domain.CollaboratorRepository 接口
type collaboratorRepository struct {
	dao *Dao
}

// NewCollaboratorRepository 创建 CollaboratorRepository 实例
func NewCollaboratorRepository(dao *Dao) domain.CollaboratorRepository {
	return &collaboratorRepository{dao: dao}
}

func (r *collaboratorRepository) toDomain(m *model.Collaborator) *domain.Collaborator {
	if m == nil {
		return nil
	}
	return &domain.Collaborator{
		ID:         m.ID,
		NoteID:     m.NoteID,
		UID:        m.UID,
		Permission: domain.Permission(m.Permission),
		AddedBy:    m.AddedBy,
		CreatedAt:  m.CreatedAt.Time(),
		UpdatedAt:  m.UpdatedAt.Time(),
	}
}

// GetByNoteAndUID 获取指定笔记上某个用户的协作记录
func (r *collaboratorRepository) GetByNoteAndUID(ctx context.Context, noteID, uid int64) (*domain.Collaborator, error) {
	var m model.Collaborator
	err := r.dao.db.WithContext(ctx).
		Where("note_id = ? AND uid = ?", noteID, uid).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return r.toDomain(&m), nil
}

// ListByNoteID 获取笔记的全部协作者
func (r *collaboratorRepository) ListByNoteID(ctx context.Context, noteID int64) ([]*domain.Collaborator, error) {
	var mList []*model.Collaborator
	err := r.dao.db.WithContext(ctx).
		Where("note_id = ?", noteID).
		Order("created_at ASC").
		Find(&mList).Error
	if err != nil {
		return nil, err
	}

	var list []*domain.Collaborator
	for _, m := range mList {
		list = append(list, r.toDomain(m))
	}
	return list, nil
}

// Create 添加协作者
func (r *collaboratorRepository) Create(ctx context.Context, c *domain.Collaborator) (*domain.Collaborator, error) {
	m := &model.Collaborator{
		NoteID:     c.NoteID,
		UID:        c.UID,
		Permission: int(c.Permission),
		AddedBy:    c.AddedBy,
		CreatedAt:  timex.Now(),
		UpdatedAt:  timex.Now(),
	}
	err := r.dao.db.WithContext(ctx).Create(m).Error
	if err != nil {
		return nil, err
	}
	return r.toDomain(m), nil
}

// UpdatePermission 修改协作者权限
func (r *collaboratorRepository) UpdatePermission(ctx context.Context, noteID, uid int64, p domain.Permission) error {
	return r.dao.db.WithContext(ctx).Model(&model.Collaborator{}).
		Where("note_id = ? AND uid = ?", noteID, uid).
		Updates(map[string]interface{}{
			"permission": int(p),
			"updated_at": timex.Now(),
		}).Error
}

// Delete 移除协作者
func (r *collaboratorRepository) Delete(ctx context.Context, noteID, uid int64) error {
	return r.dao.db.WithContext(ctx).
		Where("note_id = ? AND uid = ?", noteID, uid).
		Delete(&model.Collaborator{}).Error
}

// 确保 collaboratorRepository 实现了 domain.CollaboratorRepository 接口
var _ domain.CollaboratorRepository = (*collaboratorRepository)(nil)
