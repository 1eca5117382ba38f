package task

import (
	"context"
	"time"

	"github.com/haierkeys/note-collab-service/internal/app"

	"go.uber.org/zap"
)

// init 自动注册标签清理任务
func init() {
	RegisterWithApp(func(appContainer *app.App) (Task, error) {
		return &TagCleanupTask{app: appContainer}, nil
	})
}

// TagCleanupTask 标签清理任务，删除使用计数归零的标签
type TagCleanupTask struct {
	app *app.App
}

// Name 返回任务名称
func (t *TagCleanupTask) Name() string {
	return "TagCleanupTask"
}

// Run 执行清理
func (t *TagCleanupTask) Run(ctx context.Context) error {
	removed, err := t.app.TagRepo.PurgeUnused(ctx)
	if err != nil {
		return err
	}
	if removed > 0 {
		t.app.Logger().Info(t.Name()+" completed", zap.Int64("removed", removed))
	}
	return nil
}

// CronSpec 每天凌晨 4 点执行
func (t *TagCleanupTask) CronSpec() string {
	return "0 4 * * *"
}

// LoopInterval cron 调度下不使用
func (t *TagCleanupTask) LoopInterval() time.Duration {
	return 0
}

// IsStartupRun 是否立即执行一次
func (t *TagCleanupTask) IsStartupRun() bool {
	return false
}
