// Package domain 定义领域模型和接口
package domain

import "time"

// NoteStatus 笔记状态
type NoteStatus string

const (
	NoteStatusDraft     NoteStatus = "draft"
	NoteStatusPublished NoteStatus = "published"
	NoteStatusArchived  NoteStatus = "archived"
)

// NoteVisibility 笔记可见性
type NoteVisibility string

const (
	VisibilityPrivate NoteVisibility = "private"
	VisibilityShared  NoteVisibility = "shared"
	VisibilityPublic  NoteVisibility = "public"
)

// ContentType 笔记内容类型
type ContentType string

const (
	ContentTypeMarkdown ContentType = "markdown"
	ContentTypeRichText ContentType = "richtext"
	ContentTypePlain    ContentType = "plain"
)

// SharePermission 分享链接权限
type SharePermission string

const (
	SharePermissionView    SharePermission = "view"
	SharePermissionEdit    SharePermission = "edit"
	SharePermissionComment SharePermission = "comment"
)

// Note 笔记领域模型
// 作者创建后不可变更；分享状态内嵌在笔记上
type Note struct {
	ID          int64
	AuthorUID   int64
	Title       string
	Content     string
	ContentType ContentType
	Excerpt     string
	WordCount   int
	ReadingTime int

	Status     NoteStatus
	Visibility NoteVisibility
	CategoryID int64
	Tags       []string
	Pinned     bool
	Favorite   bool
	Priority   int

	Version   int64
	EditCount int64

	ViewCount    int64
	LastViewedAt time.Time

	IsDeleted bool
	DeletedAt time.Time

	IsShared        bool
	ShareID         *string
	SharePermission SharePermission
	ShareExpiresAt  time.Time
	AllowComments   bool
	ShareViewCount  int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsValidStatus 校验状态取值
func IsValidStatus(s string) bool {
	switch NoteStatus(s) {
	case NoteStatusDraft, NoteStatusPublished, NoteStatusArchived:
		return true
	}
	return false
}

// IsValidVisibility 校验可见性取值
func IsValidVisibility(s string) bool {
	switch NoteVisibility(s) {
	case VisibilityPrivate, VisibilityShared, VisibilityPublic:
		return true
	}
	return false
}

// IsValidContentType 校验内容类型取值
func IsValidContentType(s string) bool {
	switch ContentType(s) {
	case ContentTypeMarkdown, ContentTypeRichText, ContentTypePlain:
		return true
	}
	return false
}

// IsValidSharePermission 校验分享权限取值
func IsValidSharePermission(s string) bool {
	switch SharePermission(s) {
	case SharePermissionView, SharePermissionEdit, SharePermissionComment:
		return true
	}
	return false
}

// ShareExpired 判断分享链接是否已到期
// 零值过期时间表示永不过期
func (n *Note) ShareExpired(now time.Time) bool {
	if !n.IsShared {
		return false
	}
	if n.ShareExpiresAt.IsZero() {
		return false
	}
	return now.After(n.ShareExpiresAt)
}

// HasActiveShare 判断笔记是否有可访问的分享链接
func (n *Note) HasActiveShare(now time.Time) bool {
	return n.IsShared && n.ShareID != nil && !n.ShareExpired(now)
}

// IsAuthor 判断用户是否为笔记作者
func (n *Note) IsAuthor(uid int64) bool {
	return n.AuthorUID == uid
}
