// Package domain 定义领域模型和接口
package domain

import (
	"context"
	"time"
)

// NoteListFilter 笔记列表过滤条件
type NoteListFilter struct {
	Keyword    string // 标题/摘要模糊匹配
	Status     string // 为空则不过滤
	Visibility string // 为空则不过滤
	CategoryID int64  // 0 则不过滤
	Tag        string // 为空则不过滤
	Favorite   *bool
	Pinned     *bool
	SortBy     string // updatedAt(默认) / createdAt / title / priority / viewCount
	SortOrder  string // desc(默认) / asc
}

// UserRepository 用户仓储接口
type UserRepository interface {
	// GetByUID 根据UID获取用户
	GetByUID(ctx context.Context, uid int64) (*User, error)

	// GetByEmail 根据邮箱获取用户
	GetByEmail(ctx context.Context, email string) (*User, error)

	// GetByUsername 根据用户名获取用户
	GetByUsername(ctx context.Context, username string) (*User, error)

	// Create 创建用户
	Create(ctx context.Context, user *User) (*User, error)

	// UpdatePassword 更新用户密码
	UpdatePassword(ctx context.Context, password string, uid int64) error
}

// NoteRepository 笔记仓储接口
type NoteRepository interface {
	// GetByID 根据ID获取笔记（包含回收站中的笔记）
	GetByID(ctx context.Context, id int64) (*Note, error)

	// GetByShareID 根据分享标识获取笔记
	GetByShareID(ctx context.Context, shareID string) (*Note, error)

	// Create 创建笔记，并同步标签使用计数
	Create(ctx context.Context, note *Note) (*Note, error)

	// UpdateFields 更新笔记的指定字段（元数据更新，不触发版本快照）
	// tagsBefore 非 nil 时同步标签使用计数
	UpdateFields(ctx context.Context, id int64, fields map[string]interface{}, tagsBefore, tagsAfter []string, uid int64) error

	// ApplyContentUpdate 以乐观锁方式应用内容更新
	// 仅当当前版本等于 expectedVersion 时生效；生效时在同一事务内写入
	// 历史快照并淘汰超出上限的最旧版本。返回是否应用成功。
	ApplyContentUpdate(ctx context.Context, id int64, expectedVersion int64, fields map[string]interface{}, snapshot *NoteVersion) (bool, error)

	// UpdateShareFields 更新分享相关字段
	UpdateShareFields(ctx context.Context, id int64, fields map[string]interface{}) error

	// SoftDelete 将笔记移入回收站，并在同一事务内递减标签使用计数
	SoftDelete(ctx context.Context, note *Note, deletedAt time.Time) error

	// Restore 将笔记移出回收站，并在同一事务内递增标签使用计数
	Restore(ctx context.Context, note *Note) error

	// Purge 物理删除笔记及其历史版本与协作者
	Purge(ctx context.Context, id int64) error

	// PurgeDeletedBefore 物理删除在指定时间之前移入回收站的所有笔记
	PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// IncrViewCount 递增浏览次数并更新最后浏览时间
	IncrViewCount(ctx context.Context, id int64, viewedAt time.Time) error

	// IncrShareViewCount 批量递增分享浏览次数
	IncrShareViewCount(ctx context.Context, id int64, incr int64, viewedAt time.Time) error

	// ListByAuthor 分页获取用户的笔记列表（不含回收站）
	ListByAuthor(ctx context.Context, uid int64, filter NoteListFilter, page, pageSize int) ([]*Note, error)

	// CountByAuthor 获取用户笔记数量（不含回收站）
	CountByAuthor(ctx context.Context, uid int64, filter NoteListFilter) (int64, error)

	// ListDeleted 分页获取回收站中的笔记
	ListDeleted(ctx context.Context, uid int64, page, pageSize int) ([]*Note, error)

	// CountDeleted 获取回收站中的笔记数量
	CountDeleted(ctx context.Context, uid int64) (int64, error)

	// ListCollaborating 分页获取用户作为协作者参与的笔记
	ListCollaborating(ctx context.Context, uid int64, page, pageSize int) ([]*Note, error)

	// CountCollaborating 获取用户作为协作者参与的笔记数量
	CountCollaborating(ctx context.Context, uid int64) (int64, error)
}

// NoteVersionRepository 笔记历史版本仓储接口
type NoteVersionRepository interface {
	// ListByNoteID 获取笔记的全部历史版本，按版本号降序
	ListByNoteID(ctx context.Context, noteID int64) ([]*NoteVersion, error)

	// GetByVersion 获取笔记的指定历史版本
	GetByVersion(ctx context.Context, noteID, version int64) (*NoteVersion, error)

	// CountByNoteID 获取笔记的历史版本数量
	CountByNoteID(ctx context.Context, noteID int64) (int64, error)
}

// CollaboratorRepository 协作者仓储接口
type CollaboratorRepository interface {
	// GetByNoteAndUID 获取指定笔记上某个用户的协作记录
	GetByNoteAndUID(ctx context.Context, noteID, uid int64) (*Collaborator, error)

	// ListByNoteID 获取笔记的全部协作者
	ListByNoteID(ctx context.Context, noteID int64) ([]*Collaborator, error)

	// Create 添加协作者
	Create(ctx context.Context, c *Collaborator) (*Collaborator, error)

	// UpdatePermission 修改协作者权限
	UpdatePermission(ctx context.Context, noteID, uid int64, p Permission) error

	// Delete 移除协作者
	Delete(ctx context.Context, noteID, uid int64) error
}

// TagRepository 标签仓储接口
type TagRepository interface {
	// ListByUID 获取用户的全部标签，按使用次数降序
	ListByUID(ctx context.Context, uid int64) ([]*Tag, error)

	// GetByName 根据名称获取用户的标签
	GetByName(ctx context.Context, uid int64, name string) (*Tag, error)

	// DeleteUnused 删除使用计数为 0 的标签
	DeleteUnused(ctx context.Context, uid int64) (int64, error)

	// PurgeUnused 删除全部用户中使用计数为 0 的标签，供后台任务使用
	PurgeUnused(ctx context.Context) (int64, error)
}

// CategoryRepository 分类仓储接口
type CategoryRepository interface {
	// GetByID 获取用户的分类
	GetByID(ctx context.Context, id, uid int64) (*Category, error)

	// ListByUID 获取用户的全部分类
	ListByUID(ctx context.Context, uid int64) ([]*Category, error)

	// Create 创建分类
	Create(ctx context.Context, c *Category) (*Category, error)

	// Update 更新分类
	Update(ctx context.Context, c *Category) error

	// DeleteTree 删除分类及其全部子分类，关联笔记归零分类
	DeleteTree(ctx context.Context, id, uid int64) (int64, error)
}
