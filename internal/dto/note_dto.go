package dto

import (
	"github.com/haierkeys/note-collab-service/pkg/timex"
)

// NoteCreateRequest Request parameters for creating a note
// 创建笔记请求参数
type NoteCreateRequest struct {
	Title       string   `json:"title" form:"title" binding:"required,max=512"`
	Content     string   `json:"content" form:"content"`
	ContentType string   `json:"contentType" form:"contentType"`
	Status      string   `json:"status" form:"status"`
	Visibility  string   `json:"visibility" form:"visibility"`
	CategoryID  int64    `json:"categoryId" form:"categoryId"`
	Tags        []string `json:"tags" form:"tags"`
	Pinned      bool     `json:"pinned" form:"pinned"`
	Favorite    bool     `json:"favorite" form:"favorite"`
	Priority    int      `json:"priority" form:"priority"`
}

// NoteUpdateRequest Request parameters for updating note content
// Version carries the version the client last read; the update is
// rejected on mismatch.
// 更新笔记内容请求参数，Version 为客户端最后读取到的版本号，不一致时拒绝更新
type NoteUpdateRequest struct {
	Title       *string `json:"title" form:"title" binding:"omitempty,max=512"`
	Content     *string `json:"content" form:"content"`
	ContentType *string `json:"contentType" form:"contentType"`
	Version     int64   `json:"version" form:"version" binding:"required,min=1"`
	ChangeNote  string  `json:"changeNote" form:"changeNote" binding:"omitempty,max=512"`
}

// NoteMetaUpdateRequest Request parameters for updating note metadata
// 更新笔记元数据请求参数，不触发版本快照
type NoteMetaUpdateRequest struct {
	Status     *string   `json:"status" form:"status"`
	Visibility *string   `json:"visibility" form:"visibility"`
	CategoryID *int64    `json:"categoryId" form:"categoryId"`
	Tags       *[]string `json:"tags" form:"tags"`
	Pinned     *bool     `json:"pinned" form:"pinned"`
	Favorite   *bool     `json:"favorite" form:"favorite"`
	Priority   *int      `json:"priority" form:"priority" binding:"omitempty,min=0,max=5"`
}

// NoteListRequest Request parameters for listing notes
// 笔记列表请求参数
type NoteListRequest struct {
	Keyword    string `json:"keyword" form:"keyword"`
	Status     string `json:"status" form:"status"`
	Visibility string `json:"visibility" form:"visibility"`
	CategoryID int64  `json:"categoryId" form:"categoryId"`
	Tag        string `json:"tag" form:"tag"`
	Favorite   *bool  `json:"favorite" form:"favorite"`
	Pinned     *bool  `json:"pinned" form:"pinned"`
	SortBy     string `json:"sortBy" form:"sortBy"`
	SortOrder  string `json:"sortOrder" form:"sortOrder"`
}

// NoteDTO Note data transfer object
// NoteDTO 笔记数据传输对象
type NoteDTO struct {
	ID          int64    `json:"id"`
	AuthorUID   int64    `json:"authorUid"`
	Title       string   `json:"title"`
	Content     string   `json:"content,omitempty"`
	ContentType string   `json:"contentType"`
	Excerpt     string   `json:"excerpt"`
	WordCount   int      `json:"wordCount"`
	ReadingTime int      `json:"readingTime"`
	Status      string   `json:"status"`
	Visibility  string   `json:"visibility"`
	CategoryID  int64    `json:"categoryId"`
	Tags        []string `json:"tags"`
	Pinned      bool     `json:"pinned"`
	Favorite    bool     `json:"favorite"`
	Priority    int      `json:"priority"`

	Version   int64 `json:"version"`
	EditCount int64 `json:"editCount"`
	ViewCount int64 `json:"viewCount"`

	LastViewedAt timex.Time `json:"lastViewedAt"`
	DeletedAt    timex.Time `json:"deletedAt,omitempty"`

	IsShared        bool       `json:"isShared"`
	ShareID         string     `json:"shareId,omitempty"`
	SharePermission string     `json:"sharePermission,omitempty"`
	ShareExpiresAt  timex.Time `json:"shareExpiresAt"`
	AllowComments   bool       `json:"allowComments"`

	CreatedAt timex.Time `json:"createdAt"`
	UpdatedAt timex.Time `json:"updatedAt"`
}

// NoteListItemDTO Note DTO without content, for list responses
// 不包含正文的笔记 DTO，用于列表响应
type NoteListItemDTO struct {
	ID          int64    `json:"id"`
	AuthorUID   int64    `json:"authorUid"`
	Title       string   `json:"title"`
	ContentType string   `json:"contentType"`
	Excerpt     string   `json:"excerpt"`
	WordCount   int      `json:"wordCount"`
	ReadingTime int      `json:"readingTime"`
	Status      string   `json:"status"`
	Visibility  string   `json:"visibility"`
	CategoryID  int64    `json:"categoryId"`
	Tags        []string `json:"tags"`
	Pinned      bool     `json:"pinned"`
	Favorite    bool     `json:"favorite"`
	Priority    int      `json:"priority"`
	Version     int64    `json:"version"`
	ViewCount   int64    `json:"viewCount"`
	IsShared    bool     `json:"isShared"`

	DeletedAt timex.Time `json:"deletedAt,omitempty"`
	CreatedAt timex.Time `json:"createdAt"`
	UpdatedAt timex.Time `json:"updatedAt"`
}
