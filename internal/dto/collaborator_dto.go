package dto

import (
	"github.com/haierkeys/note-collab-service/pkg/timex"
)

// CollaboratorAddRequest Request parameters for adding a collaborator
// 添加协作者请求参数，通过邮箱定位用户，权限缺省为 view
type CollaboratorAddRequest struct {
	Email      string `json:"email" form:"email" binding:"required,email"`
	Permission string `json:"permission" form:"permission" binding:"omitempty,oneof=view edit admin"`
}

// CollaboratorUpdateRequest Request parameters for changing a collaborator's permission
// 修改协作者权限请求参数
type CollaboratorUpdateRequest struct {
	Permission string `json:"permission" form:"permission" binding:"required,oneof=view edit admin"`
}

// CollaboratorDTO Collaborator data transfer object
// 协作者数据传输对象
type CollaboratorDTO struct {
	NoteID     int64      `json:"noteId"`
	UID        int64      `json:"uid"`
	Username   string     `json:"username"`
	Email      string     `json:"email"`
	Avatar     string     `json:"avatar"`
	Permission string     `json:"permission"`
	AddedBy    int64      `json:"addedBy"`
	CreatedAt  timex.Time `json:"createdAt"`
}
