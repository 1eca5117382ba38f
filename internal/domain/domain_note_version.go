// Package domain 定义领域模型和接口
package domain

import "time"

// MaxVersionsPerNote 每篇笔记保留的历史版本上限，超出时淘汰最旧版本
const MaxVersionsPerNote = 10

// NoteVersion 笔记历史版本领域模型
type NoteVersion struct {
	ID          int64
	NoteID      int64
	Version     int64
	Title       string
	Content     string
	ContentType ContentType
	WordCount   int
	SavedBy     int64
	ChangeNote  string
	CreatedAt   time.Time
}
