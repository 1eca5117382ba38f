package dto

import (
	"github.com/haierkeys/note-collab-service/pkg/diff"
	"github.com/haierkeys/note-collab-service/pkg/timex"
)

// NoteVersionDTO Note version data transfer object
// 笔记历史版本数据传输对象
type NoteVersionDTO struct {
	NoteID      int64      `json:"noteId"`
	Version     int64      `json:"version"`
	Title       string     `json:"title"`
	Content     string     `json:"content,omitempty"`
	ContentType string     `json:"contentType"`
	WordCount   int        `json:"wordCount"`
	SavedBy     int64      `json:"savedBy"`
	ChangeNote  string     `json:"changeNote"`
	CreatedAt   timex.Time `json:"createdAt"`
}

// VersionDiffRequest Request parameters for comparing two versions
// 版本对比请求参数，To 为 0 时与当前内容对比
type VersionDiffRequest struct {
	From int64 `json:"from" form:"from" binding:"required,min=1"`
	To   int64 `json:"to" form:"to" binding:"omitempty,min=1"`
}

// ServerVersionDTO Server build and release check info
// 服务端版本与新版本检查信息
type ServerVersionDTO struct {
	Version        string `json:"version"`
	GitTag         string `json:"gitTag"`
	BuildTime      string `json:"buildTime"`
	VersionIsNew   bool   `json:"versionIsNew"`
	VersionNewName string `json:"versionNewName,omitempty"`
	VersionNewLink string `json:"versionNewLink,omitempty"`
}

// VersionDiffDTO Version diff result
// 版本对比结果
type VersionDiffDTO struct {
	NoteID      int64       `json:"noteId"`
	FromVersion int64       `json:"fromVersion"`
	ToVersion   int64       `json:"toVersion"`
	Hunks       []diff.Hunk `json:"hunks"`
	Stats       diff.Stats  `json:"stats"`
}
