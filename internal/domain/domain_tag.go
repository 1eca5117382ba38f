// Package domain 定义领域模型和接口
package domain

import "time"

// Tag 标签领域模型
// UsageCount 只统计未删除笔记的引用次数
type Tag struct {
	ID         int64
	UID        int64
	Name       string
	UsageCount int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Category 分类领域模型，ParentID 为 0 表示顶级分类
type Category struct {
	ID        int64
	UID       int64
	Name      string
	ParentID  int64
	CreatedAt time.Time
	UpdatedAt time.Time
}
