// Package service 实现业务逻辑层
package service

import (
	"context"

	"github.com/haierkeys/note-collab-service/internal/domain"
	"github.com/haierkeys/note-collab-service/internal/dto"
	"github.com/haierkeys/note-collab-service/pkg/code"
	"github.com/haierkeys/note-collab-service/pkg/logger"
	"github.com/haierkeys/note-collab-service/pkg/timex"

	"go.uber.org/zap"
)

// TagService 定义标签业务服务接口
type TagService interface {
	// List 获取用户的全部标签
	List(ctx context.Context, uid int64) ([]*dto.TagDTO, error)

	// Cleanup 删除使用计数为 0 的标签
	Cleanup(ctx context.Context, uid int64) (int64, error)
}

// tagService 实现 TagService 接口
type tagService struct {
	tagRepo domain.TagRepository
	logger  *zap.Logger
}

// NewTagService 创建 TagService 实例
func NewTagService(tagRepo domain.TagRepository, logger *zap.Logger) TagService {
	return &tagService{
		tagRepo: tagRepo,
		logger:  logger,
	}
}

// List 获取用户的全部标签
func (s *tagService) List(ctx context.Context, uid int64) ([]*dto.TagDTO, error) {
	tags, err := s.tagRepo.ListByUID(ctx, uid)
	if err != nil {
		return nil, code.ErrorDBQuery
	}

	list := make([]*dto.TagDTO, 0, len(tags))
	for _, t := range tags {
		list = append(list, &dto.TagDTO{
			ID:         t.ID,
			Name:       t.Name,
			UsageCount: t.UsageCount,
			CreatedAt:  timex.Time(t.CreatedAt),
		})
	}
	return list, nil
}

// Cleanup 删除使用计数为 0 的标签
func (s *tagService) Cleanup(ctx context.Context, uid int64) (int64, error) {
	deleted, err := s.tagRepo.DeleteUnused(ctx, uid)
	if err != nil {
		return 0, code.ErrorDBQuery
	}
	if deleted > 0 {
		s.logger.Info("unused tags cleaned",
			zap.Int64(logger.FieldUID, uid),
			zap.Int64(logger.FieldCount, deleted))
	}
	return deleted, nil
}
