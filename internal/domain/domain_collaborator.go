// Package domain 定义领域模型和接口
package domain

import "time"

// Permission 协作权限级别，数值越大权限越高
type Permission int

const (
	PermissionView  Permission = 1
	PermissionEdit  Permission = 2
	PermissionAdmin Permission = 3
)

// ParsePermission 将字符串权限转换为级别，未知值返回 0
func ParsePermission(s string) Permission {
	switch s {
	case "view":
		return PermissionView
	case "edit":
		return PermissionEdit
	case "admin":
		return PermissionAdmin
	}
	return 0
}

// String 权限的字符串表示
func (p Permission) String() string {
	switch p {
	case PermissionView:
		return "view"
	case PermissionEdit:
		return "edit"
	case PermissionAdmin:
		return "admin"
	}
	return "none"
}

// AtLeast 判断当前权限是否不低于要求的权限
func (p Permission) AtLeast(required Permission) bool {
	return p >= required
}

// Collaborator 协作者领域模型
type Collaborator struct {
	ID         int64
	NoteID     int64
	UID        int64
	Permission Permission
	AddedBy    int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
