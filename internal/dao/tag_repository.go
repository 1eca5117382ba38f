package dao

import (
	"context"

	"github.com/haierkeys/note-collab-service/internal/domain"
	"github.com/haierkeys/note-collab-service/internal/model"
)

// tagRepository 实现 domain.TagRepository 接口
// 使用计数的增减与笔记写入在同一事务内完成，见 note_repository
type tagRepository struct {
	dao *Dao
}

// NewTagRepository 创建 TagRepository 实例
func NewTagRepository(dao *Dao) domain.TagRepository {
	return &tagRepository{dao: dao}
}

func (r *tagRepository) toDomain(m *model.Tag) *domain.Tag {
	if m == nil {
		return nil
	}
	return &domain.Tag{
		ID:         m.ID,
		UID:        m.UID,
		Name:       m.Name,
		UsageCount: m.UsageCount,
		CreatedAt:  m.CreatedAt.Time(),
		UpdatedAt:  m.UpdatedAt.Time(),
	}
}

// ListByUID 获取用户的全部标签，按使用次数降序
func (r *tagRepository) ListByUID(ctx context.Context, uid int64) ([]*domain.Tag, error) {
	var mList []*model.Tag
	err := r.dao.db.WithContext(ctx).
		Where("uid = ?", uid).
		Order("usage_count DESC, name ASC").
		Find(&mList).Error
	if err != nil {
		return nil, err
	}

	var list []*domain.Tag
	for _, m := range mList {
		list = append(list, r.toDomain(m))
	}
	return list, nil
}

// GetByName 根据名称获取用户的标签
func (r *tagRepository) GetByName(ctx context.Context, uid int64, name string) (*domain.Tag, error) {
	var m model.Tag
	err := r.dao.db.WithContext(ctx).
		Where("uid = ? AND name = ?", uid, name).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return r.toDomain(&m), nil
}

// DeleteUnused 删除使用计数为 0 的标签
func (r *tagRepository) DeleteUnused(ctx context.Context, uid int64) (int64, error) {
	result := r.dao.db.WithContext(ctx).
		Where("uid = ? AND usage_count <= 0", uid).
		Delete(&model.Tag{})
	return result.RowsAffected, result.Error
}

// PurgeUnused 删除全部用户中使用计数为 0 的标签，供后台任务使用
func (r *tagRepository) PurgeUnused(ctx context.Context) (int64, error) {
	result := r.dao.db.WithContext(ctx).
		Where("usage_count <= 0").
		Delete(&model.Tag{})
	return result.RowsAffected, result.Error
}

// 确保 tagRepository 实现了 domain.TagRepository 接口
var _ domain.TagRepository = (*tagRepository)(nil)
