package dao

import (
	"context"

	"github.com/haierkeys/note-collab-service/internal/domain"
	"github.com/haierkeys/note-collab-service/internal/model"
)

// noteVersionRepository 实现 domain.NoteVersionRepository 接口
// 历史快照的写入与淘汰发生在笔记内容更新事务内，这里只提供读取
type noteVersionRepository struct {
	dao *Dao
}

// NewNoteVersionRepository 创建 NoteVersionRepository 实例
func NewNoteVersionRepository(dao *Dao) domain.NoteVersionRepository {
	return &noteVersionRepository{dao: dao}
}

func (r *noteVersionRepository) toDomain(m *model.NoteVersion) *domain.NoteVersion {
	if m == nil {
		return nil
	}
	return &domain.NoteVersion{
		ID:          m.ID,
		NoteID:      m.NoteID,
		Version:     m.Version,
		Title:       m.Title,
		Content:     m.Content,
		ContentType: domain.ContentType(m.ContentType),
		WordCount:   m.WordCount,
		SavedBy:     m.SavedBy,
		ChangeNote:  m.ChangeNote,
		CreatedAt:   m.CreatedAt.Time(),
	}
}

// ListByNoteID 获取笔记的全部历史版本，按版本号降序
func (r *noteVersionRepository) ListByNoteID(ctx context.Context, noteID int64) ([]*domain.NoteVersion, error) {
	var mList []*model.NoteVersion
	err := r.dao.db.WithContext(ctx).
		Where("note_id = ?", noteID).
		Order("version DESC").
		Find(&mList).Error
	if err != nil {
		return nil, err
	}

	var list []*domain.NoteVersion
	for _, m := range mList {
		list = append(list, r.toDomain(m))
	}
	return list, nil
}

// GetByVersion 获取笔记的指定历史版本
func (r *noteVersionRepository) GetByVersion(ctx context.Context, noteID, version int64) (*domain.NoteVersion, error) {
	var m model.NoteVersion
	err := r.dao.db.WithContext(ctx).
		Where("note_id = ? AND version = ?", noteID, version).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return r.toDomain(&m), nil
}

// CountByNoteID 获取笔记的历史版本数量
func (r *noteVersionRepository) CountByNoteID(ctx context.Context, noteID int64) (int64, error) {
	var count int64
	err := r.dao.db.WithContext(ctx).Model(&model.NoteVersion{}).
		Where("note_id = ?", noteID).
		Count(&count).Error
	return count, err
}

// 确保 noteVersionRepository 实现了 domain.NoteVersionRepository 接口
var _ domain.NoteVersionRepository = (*noteVersionRepository)(nil)
