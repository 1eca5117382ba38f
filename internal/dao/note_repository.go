package dao

import (
	"context"
	"time"

	"github.com/haierkeys/note-collab-service/internal/domain"
	"github.com/haierkeys/note-collab-service/internal/model"
	"github.com/haierkeys/note-collab-service/pkg/app"
	"github.com/haierkeys/note-collab-service/pkg/timex"

	"github.com/bytedance/sonic"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// noteRepository 实现 domain.NoteRepository 接口
type noteRepository struct {
	dao *Dao
}

// NewNoteRepository 创建 NoteRepository 实例
func NewNoteRepository(dao *Dao) domain.NoteRepository {
	return &noteRepository{dao: dao}
}

// toDomain 将数据库模型转换为领域模型
func (r *noteRepository) toDomain(m *model.Note) *domain.Note {
	if m == nil {
		return nil
	}
	return &domain.Note{
		ID:              m.ID,
		AuthorUID:       m.AuthorUID,
		Title:           m.Title,
		Content:         m.Content,
		ContentType:     domain.ContentType(m.ContentType),
		Excerpt:         m.Excerpt,
		WordCount:       m.WordCount,
		ReadingTime:     m.ReadingTime,
		Status:          domain.NoteStatus(m.Status),
		Visibility:      domain.NoteVisibility(m.Visibility),
		CategoryID:      m.CategoryID,
		Tags:            m.Tags,
		Pinned:          m.Pinned,
		Favorite:        m.Favorite,
		Priority:        m.Priority,
		Version:         m.Version,
		EditCount:       m.EditCount,
		ViewCount:       m.ViewCount,
		LastViewedAt:    m.LastViewedAt.Time(),
		IsDeleted:       m.IsDeleted,
		DeletedAt:       m.DeletedAt.Time(),
		IsShared:        m.IsShared,
		ShareID:         m.ShareID,
		SharePermission: domain.SharePermission(m.SharePermission),
		ShareExpiresAt:  m.ShareExpiresAt.Time(),
		AllowComments:   m.AllowComments,
		ShareViewCount:  m.ShareViewCount,
		CreatedAt:       m.CreatedAt.Time(),
		UpdatedAt:       m.UpdatedAt.Time(),
	}
}

// toModel 将领域模型转换为数据库模型
func (r *noteRepository) toModel(n *domain.Note) *model.Note {
	if n == nil {
		return nil
	}
	return &model.Note{
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
		IsDeleted:       n.IsDeleted,
		DeletedAt:       timex.Time(n.DeletedAt),
		IsShared:        n.IsShared,
		ShareID:         n.ShareID,
		SharePermission: string(n.SharePermission),
		ShareExpiresAt:  timex.Time(n.ShareExpiresAt),
		AllowComments:   n.AllowComments,
		ShareViewCount:  n.ShareViewCount,
		CreatedAt:       timex.Time(n.CreatedAt),
		UpdatedAt:       timex.Time(n.UpdatedAt),
	}
}

// GetByID 根据ID获取笔记（包含回收站中的笔记）
func (r *noteRepository) GetByID(ctx context.Context, id int64) (*domain.Note, error) {
	var m model.Note
	err := r.dao.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if err != nil {
		return nil, err
	}
	return r.toDomain(&m), nil
}

// GetByShareID 根据分享标识获取笔记
func (r *noteRepository) GetByShareID(ctx context.Context, shareID string) (*domain.Note, error) {
	var m model.Note
	err := r.dao.db.WithContext(ctx).Where("share_id = ?", shareID).First(&m).Error
	if err != nil {
		return nil, err
	}
	return r.toDomain(&m), nil
}

// Create 创建笔记，并同步标签使用计数
func (r *noteRepository) Create(ctx context.Context, note *domain.Note) (*domain.Note, error) {
	m := r.toModel(note)
	m.CreatedAt = timex.Now()
	m.UpdatedAt = timex.Now()

	err := r.dao.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(m).Error; err != nil {
			return err
		}
		return adjustTagUsage(tx, note.AuthorUID, m.Tags, 1)
	})
	if err != nil {
		return nil, err
	}
	return r.toDomain(m), nil
}

// normalizeFields 将 map 更新中的标签切片序列化为 JSON 字符串
// map 形式的 Updates 不经过字段序列化器
func normalizeFields(fields map[string]interface{}) map[string]interface{} {
	if tags, ok := fields["tags"].([]string); ok {
		if data, err := sonic.Marshal(tags); err == nil {
			fields["tags"] = string(data)
		}
	}
	return fields
}

// UpdateFields 更新笔记的指定字段（元数据更新，不触发版本快照）
func (r *noteRepository) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}, tagsBefore, tagsAfter []string, uid int64) error {
	fields = normalizeFields(fields)
	fields["updated_at"] = timex.Now()

	return r.dao.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Note{}).Where("id = ?", id).Updates(fields).Error; err != nil {
			return err
		}
		if tagsBefore != nil || tagsAfter != nil {
			added, removed := diffTags(tagsBefore, tagsAfter)
			if err := adjustTagUsage(tx, uid, added, 1); err != nil {
				return err
			}
			if err := adjustTagUsage(tx, uid, removed, -1); err != nil {
				return err
			}
		}
		return nil
	})
}

// ApplyContentUpdate 以乐观锁方式应用内容更新
// 版本比对与字段更新在一条 UPDATE 内完成，未命中即判定冲突
func (r *noteRepository) ApplyContentUpdate(ctx context.Context, id int64, expectedVersion int64, fields map[string]interface{}, snapshot *domain.NoteVersion) (bool, error) {
	applied := false

	fields = normalizeFields(fields)
	fields["version"] = expectedVersion + 1
	fields["edit_count"] = gorm.Expr("edit_count + 1")
	fields["updated_at"] = timex.Now()

	err := r.dao.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.Note{}).
			Where("id = ? AND version = ? AND is_deleted = ?", id, expectedVersion, false).
			Updates(fields)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		applied = true

		vm := &model.NoteVersion{
			NoteID:      snapshot.NoteID,
			Version:     snapshot.Version,
			Title:       snapshot.Title,
			Content:     snapshot.Content,
			ContentType: string(snapshot.ContentType),
			WordCount:   snapshot.WordCount,
			SavedBy:     snapshot.SavedBy,
			ChangeNote:  snapshot.ChangeNote,
			CreatedAt:   timex.Now(),
		}
		if err := tx.Create(vm).Error; err != nil {
			return err
		}

		// 淘汰超出上限的最旧版本
		var count int64
		if err := tx.Model(&model.NoteVersion{}).Where("note_id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if overflow := count - domain.MaxVersionsPerNote; overflow > 0 {
			var oldest []int64
			if err := tx.Model(&model.NoteVersion{}).
				Where("note_id = ?", id).
				Order("version ASC").
				Limit(int(overflow)).
				Pluck("id", &oldest).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", oldest).Delete(&model.NoteVersion{}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return applied, nil
}

// UpdateShareFields 更新分享相关字段
func (r *noteRepository) UpdateShareFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	fields["updated_at"] = timex.Now()
	return r.dao.db.WithContext(ctx).Model(&model.Note{}).Where("id = ?", id).Updates(fields).Error
}

// SoftDelete 将笔记移入回收站，并在同一事务内递减标签使用计数
func (r *noteRepository) SoftDelete(ctx context.Context, note *domain.Note, deletedAt time.Time) error {
	return r.dao.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fields := map[string]interface{}{
			"is_deleted": true,
			"deleted_at": timex.Time(deletedAt),
			"updated_at": timex.Now(),
		}
		if err := tx.Model(&model.Note{}).Where("id = ?", note.ID).Updates(fields).Error; err != nil {
			return err
		}
		return adjustTagUsage(tx, note.AuthorUID, note.Tags, -1)
	})
}

// Restore 将笔记移出回收站，并在同一事务内递增标签使用计数
func (r *noteRepository) Restore(ctx context.Context, note *domain.Note) error {
	return r.dao.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fields := map[string]interface{}{
			"is_deleted": false,
			"deleted_at": timex.Time{},
			"updated_at": timex.Now(),
		}
		if err := tx.Model(&model.Note{}).Where("id = ?", note.ID).Updates(fields).Error; err != nil {
			return err
		}
		return adjustTagUsage(tx, note.AuthorUID, note.Tags, 1)
	})
}

// Purge 物理删除笔记及其历史版本与协作者
func (r *noteRepository) Purge(ctx context.Context, id int64) error {
	return r.dao.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return purgeNoteTx(tx, id)
	})
}

// PurgeDeletedBefore 物理删除在指定时间之前移入回收站的所有笔记
func (r *noteRepository) PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	var purged int64
	err := r.dao.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []int64
		if err := tx.Model(&model.Note{}).
			Where("is_deleted = ? AND deleted_at < ?", true, timex.Time(cutoff)).
			Pluck("id", &ids).Error; err != nil {
			return err
		}
		for _, id := range ids {
			if err := purgeNoteTx(tx, id); err != nil {
				return err
			}
		}
		purged = int64(len(ids))
		return nil
	})
	return purged, err
}

// purgeNoteTx 在事务内物理删除笔记及子表记录
func purgeNoteTx(tx *gorm.DB, id int64) error {
	if err := tx.Where("note_id = ?", id).Delete(&model.NoteVersion{}).Error; err != nil {
		return err
	}
	if err := tx.Where("note_id = ?", id).Delete(&model.Collaborator{}).Error; err != nil {
		return err
	}
	return tx.Where("id = ?", id).Delete(&model.Note{}).Error
}

// IncrViewCount 递增浏览次数并更新最后浏览时间
func (r *noteRepository) IncrViewCount(ctx context.Context, id int64, viewedAt time.Time) error {
	return r.dao.db.WithContext(ctx).Model(&model.Note{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"view_count":     gorm.Expr("view_count + 1"),
			"last_viewed_at": timex.Time(viewedAt),
		}).Error
}

// IncrShareViewCount 批量递增分享浏览次数
// 分享访问同时计入笔记总浏览次数
func (r *noteRepository) IncrShareViewCount(ctx context.Context, id int64, incr int64, viewedAt time.Time) error {
	return r.dao.db.WithContext(ctx).Model(&model.Note{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"view_count":       gorm.Expr("view_count + ?", incr),
			"share_view_count": gorm.Expr("share_view_count + ?", incr),
			"last_viewed_at":   timex.Time(viewedAt),
		}).Error
}

// applyListFilter 应用列表过滤条件
func applyListFilter(q *gorm.DB, filter domain.NoteListFilter) *gorm.DB {
	if filter.Keyword != "" {
		key := "%" + filter.Keyword + "%"
		q = q.Where("title LIKE ? OR excerpt LIKE ?", key, key)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Visibility != "" {
		q = q.Where("visibility = ?", filter.Visibility)
	}
	if filter.CategoryID > 0 {
		q = q.Where("category_id = ?", filter.CategoryID)
	}
	if filter.Tag != "" {
		q = q.Where("tags LIKE ?", "%\""+filter.Tag+"\"%")
	}
	if filter.Favorite != nil {
		q = q.Where("favorite = ?", *filter.Favorite)
	}
	if filter.Pinned != nil {
		q = q.Where("pinned = ?", *filter.Pinned)
	}
	return q
}

// listOrder 生成排序子句，置顶笔记始终排在最前
func listOrder(filter domain.NoteListFilter) string {
	column := "updated_at"
	switch filter.SortBy {
	case "createdAt":
		column = "created_at"
	case "title":
		column = "title"
	case "priority":
		column = "priority"
	case "viewCount":
		column = "view_count"
	}
	order := "DESC"
	if filter.SortOrder == "asc" {
		order = "ASC"
	}
	return "pinned DESC, " + column + " " + order
}

// ListByAuthor 分页获取用户的笔记列表（不含回收站）
func (r *noteRepository) ListByAuthor(ctx context.Context, uid int64, filter domain.NoteListFilter, page, pageSize int) ([]*domain.Note, error) {
	q := r.dao.db.WithContext(ctx).Model(&model.Note{}).
		Where("author_uid = ? AND is_deleted = ?", uid, false)
	q = applyListFilter(q, filter)

	var mList []*model.Note
	err := q.Order(listOrder(filter)).
		Limit(pageSize).
		Offset(app.GetPageOffset(page, pageSize)).
		Find(&mList).Error
	if err != nil {
		return nil, err
	}

	var list []*domain.Note
	for _, m := range mList {
		list = append(list, r.toDomain(m))
	}
	return list, nil
}

// CountByAuthor 获取用户笔记数量（不含回收站）
func (r *noteRepository) CountByAuthor(ctx context.Context, uid int64, filter domain.NoteListFilter) (int64, error) {
	q := r.dao.db.WithContext(ctx).Model(&model.Note{}).
		Where("author_uid = ? AND is_deleted = ?", uid, false)
	q = applyListFilter(q, filter)

	var count int64
	err := q.Count(&count).Error
	return count, err
}

// ListDeleted 分页获取回收站中的笔记
func (r *noteRepository) ListDeleted(ctx context.Context, uid int64, page, pageSize int) ([]*domain.Note, error) {
	var mList []*model.Note
	err := r.dao.db.WithContext(ctx).Model(&model.Note{}).
		Where("author_uid = ? AND is_deleted = ?", uid, true).
		Order("deleted_at DESC").
		Limit(pageSize).
		Offset(app.GetPageOffset(page, pageSize)).
		Find(&mList).Error
	if err != nil {
		return nil, err
	}

	var list []*domain.Note
	for _, m := range mList {
		list = append(list, r.toDomain(m))
	}
	return list, nil
}

// CountDeleted 获取回收站中的笔记数量
func (r *noteRepository) CountDeleted(ctx context.Context, uid int64) (int64, error) {
	var count int64
	err := r.dao.db.WithContext(ctx).Model(&model.Note{}).
		Where("author_uid = ? AND is_deleted = ?", uid, true).
		Count(&count).Error
	return count, err
}

// ListCollaborating 分页获取用户作为协作者参与的笔记
func (r *noteRepository) ListCollaborating(ctx context.Context, uid int64, page, pageSize int) ([]*domain.Note, error) {
	var mList []*model.Note
	err := r.dao.db.WithContext(ctx).Model(&model.Note{}).
		Joins("JOIN collaborator ON collaborator.note_id = note.id").
		Where("collaborator.uid = ? AND note.is_deleted = ?", uid, false).
		Order("note.updated_at DESC").
		Limit(pageSize).
		Offset(app.GetPageOffset(page, pageSize)).
		Find(&mList).Error
	if err != nil {
		return nil, err
	}

	var list []*domain.Note
	for _, m := range mList {
		list = append(list, r.toDomain(m))
	}
	return list, nil
}

// CountCollaborating 获取用户作为协作者参与的笔记数量
func (r *noteRepository) CountCollaborating(ctx context.Context, uid int64) (int64, error) {
	var count int64
	err := r.dao.db.WithContext(ctx).Model(&model.Note{}).
		Joins("JOIN collaborator ON collaborator.note_id = note.id").
		Where("collaborator.uid = ? AND note.is_deleted = ?", uid, false).
		Count(&count).Error
	return count, err
}

// adjustTagUsage 在事务内调整标签使用计数
// delta 为正时不存在的标签自动创建，计数不会降到 0 以下
func adjustTagUsage(tx *gorm.DB, uid int64, names []string, delta int64) error {
	for _, name := range names {
		if name == "" {
			continue
		}
		if delta > 0 {
			tag := &model.Tag{
				UID:        uid,
				Name:       name,
				UsageCount: delta,
				CreatedAt:  timex.Now(),
				UpdatedAt:  timex.Now(),
			}
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "uid"}, {Name: "name"}},
				DoUpdates: clause.Assignments(map[string]interface{}{
					"usage_count": gorm.Expr("usage_count + ?", delta),
					"updated_at":  timex.Now(),
				}),
			}).Create(tag).Error
			if err != nil {
				return err
			}
		} else {
			err := tx.Model(&model.Tag{}).
				Where("uid = ? AND name = ? AND usage_count > 0", uid, name).
				Updates(map[string]interface{}{
					"usage_count": gorm.Expr("usage_count + ?", delta),
					"updated_at":  timex.Now(),
				}).Error
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// diffTags 计算标签集合差异
func diffTags(before, after []string) (added, removed []string) {
	beforeSet := make(map[string]struct{}, len(before))
	for _, t := range before {
		beforeSet[t] = struct{}{}
	}
	afterSet := make(map[string]struct{}, len(after))
	for _, t := range after {
		afterSet[t] = struct{}{}
	}
	for t := range afterSet {
		if _, ok := beforeSet[t]; !ok {
			added = append(added, t)
		}
	}
	for t := range beforeSet {
		if _, ok := afterSet[t]; !ok {
			removed = append(removed, t)
		}
	}
	return added, removed
}

// 确保 noteRepository 实现了 domain.NoteRepository 接口
var _ domain.NoteRepository = (*noteRepository)(nil)
