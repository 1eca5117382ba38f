package dto

import (
	"github.com/haierkeys/note-collab-service/pkg/timex"
)

// ShareCreateRequest Request parameters for creating a share link
// 创建分享链接请求参数，ExpiresIn 为相对过期时长（如 "72h"、"30d"），为空则用默认值
type ShareCreateRequest struct {
	Permission    string `json:"permission" form:"permission" binding:"omitempty,oneof=view edit comment"`
	ExpiresIn     string `json:"expiresIn" form:"expiresIn"`
	AllowComments *bool  `json:"allowComments" form:"allowComments"`
}

// ShareUpdateRequest Request parameters for updating share settings
// 更新分享设置请求参数，不更换分享标识
type ShareUpdateRequest struct {
	Permission    *string `json:"permission" form:"permission" binding:"omitempty,oneof=view edit comment"`
	ExpiresIn     *string `json:"expiresIn" form:"expiresIn"`
	AllowComments *bool   `json:"allowComments" form:"allowComments"`
}

// ShareDTO Share link data transfer object
// 分享链接数据传输对象
type ShareDTO struct {
	NoteID         int64      `json:"noteId"`
	ShareID        string     `json:"shareId"`
	ShareURL       string     `json:"shareUrl"`
	Permission     string     `json:"permission"`
	ExpiresAt      timex.Time `json:"expiresAt"`
	AllowComments  bool       `json:"allowComments"`
	ShareViewCount int64      `json:"shareViewCount"`
}

// SharedNoteDTO Note content exposed through a share link
// 通过分享链接公开的笔记内容，作者只暴露显示名
type SharedNoteDTO struct {
	Author        string     `json:"author"`
	Title         string     `json:"title"`
	Content       string     `json:"content"`
	ContentType   string     `json:"contentType"`
	Excerpt       string     `json:"excerpt"`
	WordCount     int        `json:"wordCount"`
	ReadingTime   int        `json:"readingTime"`
	Tags          []string   `json:"tags"`
	Permission    string     `json:"permission"`
	AllowComments bool       `json:"allowComments"`
	UpdatedAt     timex.Time `json:"updatedAt"`
}
