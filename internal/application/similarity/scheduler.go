package similarity

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/adhocore/gronx"

	"github.com/roundtable/backend/internal/infrastructure/config"
	"github.com/roundtable/backend/internal/infrastructure/log"
)

// retryDelay 计算下次触发时间失败后的重试间隔
const retryDelay = 30 * time.Second

// Trainer 可被定时触发的训练任务
type Trainer interface {
	Train(ctx context.Context) error
}

// TrainerFunc 函数适配器
type TrainerFunc func(ctx context.Context) error

// Train 实现 Trainer 接口
func (f TrainerFunc) Train(ctx context.Context) error {
	return f(ctx)
}

// RetrainScheduler 按 cron 表达式定时全量重训
type RetrainScheduler struct {
	cron    string
	trainer Trainer
	logger  *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewRetrainScheduler 创建定时重训调度器
// cron 为空表示不启用；表达式非法时返回错误
func NewRetrainScheduler(cron string, trainer Trainer) (*RetrainScheduler, error) {
	if cron != "" && !gronx.IsValid(cron) {
		return nil, fmt.Errorf("invalid retrain cron expression: %q", cron)
	}
	return &RetrainScheduler{
		cron:    cron,
		trainer: trainer,
		logger:  log.NewModuleLogger("similarity", "retrain_scheduler"),
	}, nil
}

// ProvideRetrainScheduler 用相似度服务和配置创建调度器
func ProvideRetrainScheduler(svc *Service, cfg *config.SimilarityConfig) (*RetrainScheduler, error) {
	return NewRetrainScheduler(cfg.RetrainCron, TrainerFunc(func(ctx context.Context) error {
		_, err := svc.Train(ctx)
		return err
	}))
}

// Enabled 是否配置了 cron
func (r *RetrainScheduler) Enabled() bool {
	return r.cron != ""
}

// NextRun 返回 after 之后的下一次触发时间
func (r *RetrainScheduler) NextRun(after time.Time) (time.Time, error) {
	return gronx.NextTickAfter(r.cron, after, false)
}

// Start 启动调度循环，未启用时直接返回
func (r *RetrainScheduler) Start(ctx context.Context) {
	if !r.Enabled() {
		r.logger.Info("Retrain scheduler disabled")
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		return
	}
	ctx, r.cancel = context.WithCancel(ctx)
	r.done = make(chan struct{})

	go r.loop(ctx, r.done)
	r.logger.Info("Retrain scheduler started", "cron", r.cron)
}

// Stop 停止调度并等待正在执行的训练结束
func (r *RetrainScheduler) Stop() {
	r.mu.Lock()
	cancel, done := r.cancel, r.done
	r.cancel, r.done = nil, nil
	r.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	r.logger.Info("Retrain scheduler stopped")
}

func (r *RetrainScheduler) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	for {
		next, err := r.NextRun(time.Now().UTC())
		wait := time.Until(next)
		if err != nil {
			r.logger.Error("Failed to compute next retrain time", "cron", r.cron, "error", err)
			wait = retryDelay
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
		if err != nil {
			continue
		}

		r.logger.Info("Scheduled retrain starting", "scheduled_at", next)
		if err := r.trainer.Train(ctx); err != nil {
			r.logger.Error("Scheduled retrain failed", "error", err)
		}
	}
}
