// Package model 定义数据库模型
package model

import (
	"github.com/haierkeys/note-collab-service/pkg/timex"

	"gorm.io/gorm"
)

// User 用户表
type User struct {
	UID       int64      `gorm:"column:uid;primaryKey;autoIncrement" json:"uid"`
	Email     string     `gorm:"column:email;size:255;uniqueIndex" json:"email"`
	Username  string     `gorm:"column:username;size:64;uniqueIndex" json:"username"`
	Password  string     `gorm:"column:password;size:255" json:"-"`
	Avatar    string     `gorm:"column:avatar;size:512" json:"avatar"`
	IsDeleted bool       `gorm:"column:is_deleted;default:false" json:"isDeleted"`
	CreatedAt timex.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt timex.Time `gorm:"column:updated_at" json:"updatedAt"`
}

func (User) TableName() string {
	return "user"
}

// Note 笔记表
// 分享字段内嵌于笔记行，share_id 允许为空并保持唯一
type Note struct {
	ID          int64  `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	AuthorUID   int64  `gorm:"column:author_uid;index" json:"authorUid"`
	Title       string `gorm:"column:title;size:512" json:"title"`
	Content     string `gorm:"column:content;type:text" json:"content"`
	ContentType string `gorm:"column:content_type;size:32;default:markdown" json:"contentType"`
	Excerpt     string `gorm:"column:excerpt;size:512" json:"excerpt"`
	WordCount   int    `gorm:"column:word_count" json:"wordCount"`
	ReadingTime int    `gorm:"column:reading_time" json:"readingTime"`

	Status     string   `gorm:"column:status;size:32;default:draft" json:"status"`
	Visibility string   `gorm:"column:visibility;size:32;default:private" json:"visibility"`
	CategoryID int64    `gorm:"column:category_id;index;default:0" json:"categoryId"`
	Tags       []string `gorm:"column:tags;serializer:json" json:"tags"`
	Pinned     bool     `gorm:"column:pinned;default:false" json:"pinned"`
	Favorite   bool     `gorm:"column:favorite;default:false" json:"favorite"`
	Priority   int      `gorm:"column:priority;default:0" json:"priority"`

	Version   int64 `gorm:"column:version;default:1" json:"version"`
	EditCount int64 `gorm:"column:edit_count;default:0" json:"editCount"`

	ViewCount    int64      `gorm:"column:view_count;default:0" json:"viewCount"`
	LastViewedAt timex.Time `gorm:"column:last_viewed_at" json:"lastViewedAt"`

	IsDeleted bool       `gorm:"column:is_deleted;index;default:false" json:"isDeleted"`
	DeletedAt timex.Time `gorm:"column:deleted_at" json:"deletedAt"`

	IsShared        bool       `gorm:"column:is_shared;default:false" json:"isShared"`
	ShareID         *string    `gorm:"column:share_id;size:64;uniqueIndex" json:"shareId"`
	SharePermission string     `gorm:"column:share_permission;size:32" json:"sharePermission"`
	ShareExpiresAt  timex.Time `gorm:"column:share_expires_at" json:"shareExpiresAt"`
	AllowComments   bool       `gorm:"column:allow_comments;default:true" json:"allowComments"`
	ShareViewCount  int64      `gorm:"column:share_view_count;default:0" json:"shareViewCount"`

	CreatedAt timex.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt timex.Time `gorm:"column:updated_at" json:"updatedAt"`
}

func (Note) TableName() string {
	return "note"
}

// NoteVersion 笔记历史版本表
type NoteVersion struct {
	ID          int64      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	NoteID      int64      `gorm:"column:note_id;index" json:"noteId"`
	Version     int64      `gorm:"column:version" json:"version"`
	Title       string     `gorm:"column:title;size:512" json:"title"`
	Content     string     `gorm:"column:content;type:text" json:"content"`
	ContentType string     `gorm:"column:content_type;size:32" json:"contentType"`
	WordCount   int        `gorm:"column:word_count" json:"wordCount"`
	SavedBy     int64      `gorm:"column:saved_by" json:"savedBy"`
	ChangeNote  string     `gorm:"column:change_note;size:512" json:"changeNote"`
	CreatedAt   timex.Time `gorm:"column:created_at" json:"createdAt"`
}

func (NoteVersion) TableName() string {
	return "note_version"
}

// Collaborator 协作者表
// note_id + uid 唯一，保证同一用户在一篇笔记上只有一条协作记录
type Collaborator struct {
	ID         int64      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	NoteID     int64      `gorm:"column:note_id;uniqueIndex:idx_note_user" json:"noteId"`
	UID        int64      `gorm:"column:uid;uniqueIndex:idx_note_user;index" json:"uid"`
	Permission int        `gorm:"column:permission;default:1" json:"permission"`
	AddedBy    int64      `gorm:"column:added_by" json:"addedBy"`
	CreatedAt  timex.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt  timex.Time `gorm:"column:updated_at" json:"updatedAt"`
}

func (Collaborator) TableName() string {
	return "collaborator"
}

// Tag 标签表，usage_count 记录未删除笔记的引用次数
type Tag struct {
	ID         int64      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UID        int64      `gorm:"column:uid;uniqueIndex:idx_uid_name" json:"uid"`
	Name       string     `gorm:"column:name;size:128;uniqueIndex:idx_uid_name" json:"name"`
	UsageCount int64      `gorm:"column:usage_count;default:0" json:"usageCount"`
	CreatedAt  timex.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt  timex.Time `gorm:"column:updated_at" json:"updatedAt"`
}

func (Tag) TableName() string {
	return "tag"
}

// Category 分类表，parent_id 为 0 表示顶级分类
type Category struct {
	ID        int64      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UID       int64      `gorm:"column:uid;index" json:"uid"`
	Name      string     `gorm:"column:name;size:128" json:"name"`
	ParentID  int64      `gorm:"column:parent_id;index;default:0" json:"parentId"`
	CreatedAt timex.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt timex.Time `gorm:"column:updated_at" json:"updatedAt"`
}

func (Category) TableName() string {
	return "category"
}

// AutoMigrate 建表
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Note{},
		&NoteVersion{},
		&Collaborator{},
		&Tag{},
		&Category{},
	)
}
