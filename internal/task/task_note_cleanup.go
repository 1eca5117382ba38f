package task

import (
	"context"
	"time"

	"github.com/haierkeys/note-collab-service/internal/app"
	"github.com/haierkeys/note-collab-service/pkg/util"

	"go.uber.org/zap"
)

// init 自动注册回收站清理任务
func init() {
	RegisterWithApp(NewNoteCleanupTask)
}

// NoteCleanupTask 回收站清理任务
// 物理删除超过保留时间的软删除笔记及其历史版本和协作者
type NoteCleanupTask struct {
	app       *app.App
	retention time.Duration
	firstRun  bool
}

// NewNoteCleanupTask 创建清理任务，保留时间未配置时返回 nil 表示禁用
func NewNoteCleanupTask(appContainer *app.App) (Task, error) {
	retentionStr := appContainer.Config().App.SoftDeleteRetentionTime
	if retentionStr == "" || retentionStr == "0" {
		appContainer.Logger().Info("note cleanup task is disabled (retention time not configured)")
		return nil, nil
	}

	retention, err := util.ParseDuration(retentionStr)
	if err != nil {
		return nil, err
	}
	if retention <= 0 {
		return nil, nil
	}

	return &NoteCleanupTask{
		app:       appContainer,
		retention: retention,
		firstRun:  true,
	}, nil
}

// Name 返回任务名称
func (t *NoteCleanupTask) Name() string {
	return "NoteCleanupTask"
}

// Run 执行清理任务
func (t *NoteCleanupTask) Run(ctx context.Context) error {
	status := "scheduled"
	if t.firstRun {
		status = "first-run"
		t.firstRun = false
	}

	cutoff := time.Now().Add(-t.retention)
	purged, err := t.app.NoteRepo.PurgeDeletedBefore(ctx, cutoff)
	if err != nil {
		t.app.Logger().Error(t.Name()+" failed ["+status+"]", zap.Error(err))
		return err
	}

	t.app.Logger().Info(t.Name()+" completed ["+status+"]",
		zap.Int64("purged", purged),
		zap.Time("cutoff", cutoff))
	return nil
}

// LoopInterval 返回执行间隔
func (t *NoteCleanupTask) LoopInterval() time.Duration {
	return 10 * time.Minute
}

// IsStartupRun 是否立即执行一次
func (t *NoteCleanupTask) IsStartupRun() bool {
	return true
}
