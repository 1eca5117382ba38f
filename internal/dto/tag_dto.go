package dto

import (
	"github.com/haierkeys/note-collab-service/pkg/timex"
)

// TagDTO Tag data transfer object
// 标签数据传输对象
type TagDTO struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	UsageCount int64      `json:"usageCount"`
	CreatedAt  timex.Time `json:"createdAt"`
}

// CategoryCreateRequest Request parameters for creating a category
// 创建分类请求参数
type CategoryCreateRequest struct {
	Name     string `json:"name" form:"name" binding:"required,max=128"`
	ParentID int64  `json:"parentId" form:"parentId" binding:"omitempty,min=1"`
}

// CategoryUpdateRequest Request parameters for updating a category
// 更新分类请求参数
type CategoryUpdateRequest struct {
	Name     *string `json:"name" form:"name" binding:"omitempty,max=128"`
	ParentID *int64  `json:"parentId" form:"parentId" binding:"omitempty,min=0"`
}

// CategoryDTO Category data transfer object
// 分类数据传输对象
type CategoryDTO struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	ParentID  int64      `json:"parentId"`
	CreatedAt timex.Time `json:"createdAt"`
	UpdatedAt timex.Time `json:"updatedAt"`
}
