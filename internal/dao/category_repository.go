package dao

import (
	"context"

	"github.com/haierkeys/note-collab-service/internal/domain"
	"github.com/haierkeys/note-collab-service/internal/model"
	"github.com/haierkeys/note-collab-service/pkg/timex"

	"gorm.io/gorm"
)

// categoryRepository 实现 domain.CategoryRepository 接口
type categoryRepository struct {
	dao *Dao
}

// NewCategoryRepository 创建 CategoryRepository 实例
func NewCategoryRepository(dao *Dao) domain.CategoryRepository {
	return &categoryRepository{dao: dao}
}

func (r *categoryRepository) toDomain(m *model.Category) *domain.Category {
	if m == nil {
		return nil
	}
	return &domain.Category{
		ID:        m.ID,
		UID:       m.UID,
		Name:      m.Name,
		ParentID:  m.ParentID,
		CreatedAt: m.CreatedAt.Time(),
		UpdatedAt: m.UpdatedAt.Time(),
	}
}

// GetByID 获取用户的分类
func (r *categoryRepository) GetByID(ctx context.Context, id, uid int64) (*domain.Category, error) {
	var m model.Category
	err := r.dao.db.WithContext(ctx).
		Where("id = ? AND uid = ?", id, uid).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return r.toDomain(&m), nil
}

// ListByUID 获取用户的全部分类
func (r *categoryRepository) ListByUID(ctx context.Context, uid int64) ([]*domain.Category, error) {
	var mList []*model.Category
	err := r.dao.db.WithContext(ctx).
		Where("uid = ?", uid).
		Order("id ASC").
		Find(&mList).Error
	if err != nil {
		return nil, err
	}

	var list []*domain.Category
	for _, m := range mList {
		list = append(list, r.toDomain(m))
	}
	return list, nil
}

// Create 创建分类
func (r *categoryRepository) Create(ctx context.Context, c *domain.Category) (*domain.Category, error) {
	m := &model.Category{
		UID:       c.UID,
		Name:      c.Name,
		ParentID:  c.ParentID,
		CreatedAt: timex.Now(),
		UpdatedAt: timex.Now(),
	}
	err := r.dao.db.WithContext(ctx).Create(m).Error
	if err != nil {
		return nil, err
	}
	return r.toDomain(m), nil
}

// Update 更新分类
func (r *categoryRepository) Update(ctx context.Context, c *domain.Category) error {
	return r.dao.db.WithContext(ctx).Model(&model.Category{}).
		Where("id = ? AND uid = ?", c.ID, c.UID).
		Updates(map[string]interface{}{
			"name":       c.Name,
			"parent_id":  c.ParentID,
			"updated_at": timex.Now(),
		}).Error
}

// DeleteTree 删除分类及其全部子分类，关联笔记归零分类
// 迭代展开子树并用已访问集合防止脏数据成环
func (r *categoryRepository) DeleteTree(ctx context.Context, id, uid int64) (int64, error) {
	var deleted int64
	err := r.dao.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		visited := map[int64]struct{}{id: {}}
		pending := []int64{id}
		all := []int64{id}

		for len(pending) > 0 {
			var children []int64
			if err := tx.Model(&model.Category{}).
				Where("uid = ? AND parent_id IN ?", uid, pending).
				Pluck("id", &children).Error; err != nil {
				return err
			}

			pending = pending[:0]
			for _, child := range children {
				if _, ok := visited[child]; ok {
					continue
				}
				visited[child] = struct{}{}
				pending = append(pending, child)
				all = append(all, child)
			}
		}

		if err := tx.Model(&model.Note{}).
			Where("author_uid = ? AND category_id IN ?", uid, all).
			Updates(map[string]interface{}{
				"category_id": 0,
				"updated_at":  timex.Now(),
			}).Error; err != nil {
			return err
		}

		result := tx.Where("uid = ? AND id IN ?", uid, all).Delete(&model.Category{})
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected
		return nil
	})
	return deleted, err
}

// 确保 categoryRepository 实现了 domain.CategoryRepository 接口
var _ domain.CategoryRepository = (*categoryRepository)(nil)
