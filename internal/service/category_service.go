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

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CategoryService 定义分类业务服务接口
type CategoryService interface {
	// List 获取用户的全部分类
	List(ctx context.Context, uid int64) ([]*dto.CategoryDTO, error)

	// Create 创建分类
	Create(ctx context.Context, uid int64, params *dto.CategoryCreateRequest) (*dto.CategoryDTO, error)

	// Update 更新分类
	Update(ctx context.Context, uid int64, categoryID int64, params *dto.CategoryUpdateRequest) (*dto.CategoryDTO, error)

	// Delete 删除分类及其全部子分类
	Delete(ctx context.Context, uid int64, categoryID int64) error
}

// categoryService 实现 CategoryService 接口
type categoryService struct {
	categoryRepo domain.CategoryRepository
	logger       *zap.Logger
}

// NewCategoryService 创建 CategoryService 实例
func NewCategoryService(categoryRepo domain.CategoryRepository, logger *zap.Logger) CategoryService {
	return &categoryService{
		categoryRepo: categoryRepo,
		logger:       logger,
	}
}

func categoryToDTO(c *domain.Category) *dto.CategoryDTO {
	return &dto.CategoryDTO{
		ID:        c.ID,
		Name:      c.Name,
		ParentID:  c.ParentID,
		CreatedAt: timex.Time(c.CreatedAt),
		UpdatedAt: timex.Time(c.UpdatedAt),
	}
}

// List 获取用户的全部分类
func (s *categoryService) List(ctx context.Context, uid int64) ([]*dto.CategoryDTO, error) {
	categories, err := s.categoryRepo.ListByUID(ctx, uid)
	if err != nil {
		return nil, code.ErrorDBQuery
	}

	list := make([]*dto.CategoryDTO, 0, len(categories))
	for _, c := range categories {
		list = append(list, categoryToDTO(c))
	}
	return list, nil
}

// Create 创建分类，父级分类必须存在且属于同一用户
func (s *categoryService) Create(ctx context.Context, uid int64, params *dto.CategoryCreateRequest) (*dto.CategoryDTO, error) {
	if params.ParentID > 0 {
		if _, err := s.categoryRepo.GetByID(ctx, params.ParentID, uid); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, code.ErrorCategoryParentNotFound
			}
			return nil, code.ErrorDBQuery
		}
	}

	created, err := s.categoryRepo.Create(ctx, &domain.Category{
		UID:      uid,
		Name:     params.Name,
		ParentID: params.ParentID,
	})
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}

	return categoryToDTO(created), nil
}

// Update 更新分类
// 不允许把分类挂到自己或自己的子孙节点下
func (s *categoryService) Update(ctx context.Context, uid int64, categoryID int64, params *dto.CategoryUpdateRequest) (*dto.CategoryDTO, error) {
	category, err := s.categoryRepo.GetByID(ctx, categoryID, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.ErrorCategoryNotFound
		}
		return nil, code.ErrorDBQuery
	}

	if params.Name != nil {
		category.Name = *params.Name
	}
	if params.ParentID != nil {
		newParent := *params.ParentID
		if newParent == categoryID {
			return nil, code.ErrorCategoryCycle
		}
		if newParent > 0 {
			if _, err := s.categoryRepo.GetByID(ctx, newParent, uid); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, code.ErrorCategoryParentNotFound
				}
				return nil, code.ErrorDBQuery
			}
			if cyclic, err := s.wouldCycle(ctx, uid, categoryID, newParent); err != nil {
				return nil, err
			} else if cyclic {
				return nil, code.ErrorCategoryCycle
			}
		}
		category.ParentID = newParent
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}

	updated, err := s.categoryRepo.GetByID(ctx, categoryID, uid)
	if err != nil {
		return nil, code.ErrorDBQuery
	}
	return categoryToDTO(updated), nil
}

// wouldCycle 沿新父级向上遍历，判断是否会形成环
// 使用已访问集合防止脏数据导致死循环
func (s *categoryService) wouldCycle(ctx context.Context, uid, categoryID, parentID int64) (bool, error) {
	visited := make(map[int64]struct{})
	current := parentID
	for current > 0 {
		if current == categoryID {
			return true, nil
		}
		if _, ok := visited[current]; ok {
			return true, nil
		}
		visited[current] = struct{}{}

		parent, err := s.categoryRepo.GetByID(ctx, current, uid)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return false, nil
			}
			return false, code.ErrorDBQuery
		}
		current = parent.ParentID
	}
	return false, nil
}

// Delete 删除分类及其全部子分类，关联笔记归零分类
func (s *categoryService) Delete(ctx context.Context, uid int64, categoryID int64) error {
	if _, err := s.categoryRepo.GetByID(ctx, categoryID, uid); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return code.ErrorCategoryNotFound
		}
		return code.ErrorDBQuery
	}

	deleted, err := s.categoryRepo.DeleteTree(ctx, categoryID, uid)
	if err != nil {
		return code.ErrorDBQuery.WithDetails(err.Error())
	}

	s.logger.Info("category tree deleted",
		zap.Int64(logger.FieldUID, uid),
		zap.Int64(logger.FieldCount, deleted))
	return nil
}
