package task

import (
	"context"
	"fmt"
	"time"

	"github.com/haierkeys/note-collab-service/pkg/safe_close"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Task 定义任务接口
type Task interface {
	Name() string                  // 任务名称
	Run(ctx context.Context) error // 执行任务
	LoopInterval() time.Duration   // 执行间隔
	IsStartupRun() bool            // 是否立即执行一次
}

// CronTask 可选接口，任务实现后按 cron 表达式调度，忽略 LoopInterval
type CronTask interface {
	CronSpec() string
}

// Scheduler 任务调度器，基于 cron 运行所有已注册任务
type Scheduler struct {
	logger *zap.Logger
	tasks  []Task
	cron   *cron.Cron
	sc     *safe_close.SafeClose
}

// NewScheduler 创建任务调度器
func NewScheduler(logger *zap.Logger, sc *safe_close.SafeClose) *Scheduler {
	return &Scheduler{
		logger: logger,
		tasks:  make([]Task, 0),
		cron:   cron.New(),
		sc:     sc,
	}
}

// AddTask 添加任务
func (s *Scheduler) AddTask(task Task) {
	s.tasks = append(s.tasks, task)
}

// Start 启动所有任务
func (s *Scheduler) Start() {
	if len(s.tasks) == 0 {
		s.logger.Info("no tasks to schedule")
		return
	}

	s.logger.Info("tasks starting", zap.Int("count", len(s.tasks)))

	for _, task := range s.tasks {
		if err := s.scheduleTask(task); err != nil {
			s.logger.Error("task schedule failed",
				zap.String("name", task.Name()),
				zap.Error(err))
		}
	}

	s.cron.Start()

	// 关闭信号到达时停止调度并等待运行中的任务结束
	s.sc.Attach(func(done func(), closeSignal <-chan struct{}) {
		defer done()
		<-closeSignal
		stopCtx := s.cron.Stop()
		<-stopCtx.Done()
		s.logger.Info("task scheduler stopped")
	})
}

// scheduleTask 调度单个任务
func (s *Scheduler) scheduleTask(task Task) error {
	if task.IsStartupRun() {
		s.logger.Info("task running", zap.String("name", task.Name()), zap.Bool("startupRun", true))
		go s.runTask(task, "startupRun")
	}

	spec := ""
	if ct, ok := task.(CronTask); ok {
		spec = ct.CronSpec()
	} else if task.LoopInterval() > 0 {
		spec = fmt.Sprintf("@every %s", task.LoopInterval())
	}
	if spec == "" {
		return nil
	}

	_, err := s.cron.AddFunc(spec, func() {
		s.logger.Info("task running", zap.String("name", task.Name()), zap.Bool("loopRun", true))
		s.runTask(task, "loopRun")
	})
	return err
}

// runTask 执行任务并兜底 panic
func (s *Scheduler) runTask(task Task, mode string) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("task panic",
				zap.String("name", task.Name()),
				zap.String("mode", mode),
				zap.Any("panic", r),
				zap.Stack("stack"))
		}
	}()

	if err := task.Run(context.Background()); err != nil {
		s.logger.Error("task running error",
			zap.String("name", task.Name()),
			zap.String("mode", mode),
			zap.Error(err))
	}
}
