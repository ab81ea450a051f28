package versioning

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/roundtable/backend/internal/domain/discussion"
	"github.com/roundtable/backend/internal/domain/events"
	domain "github.com/roundtable/backend/internal/domain/versioning"
	"github.com/roundtable/backend/internal/infrastructure/config"
	"github.com/roundtable/backend/internal/infrastructure/lock"
	"github.com/roundtable/backend/internal/infrastructure/log"
	"github.com/roundtable/backend/internal/infrastructure/metrics"
)

// RestoreMode 恢复模式
type RestoreMode string

const (
	// RestoreModeReplace 用快照整体替换消息与上下文
	RestoreModeReplace RestoreMode = "replace"
	// RestoreModeMerge 只追加讨论中不存在的快照消息
	RestoreModeMerge RestoreMode = "merge"
)

// RestoreOptions 恢复参数
type RestoreOptions struct {
	Mode RestoreMode
	// AllowCrossDiscussion 允许使用其他讨论的快照
	AllowCrossDiscussion bool
	// IncludeContext merge 模式下是否同时恢复上下文
	IncludeContext bool
	// Backup 恢复前创建 pre-restore 快照，为 nil 时使用配置默认值
	Backup *bool
}

// RestoreChanges 恢复前后的变化统计
type RestoreChanges struct {
	Added          int      `json:"added"`
	Removed        int      `json:"removed"`
	Modified       int      `json:"modified"`
	ContextChanged []string `json:"contextChanged"`
	Summary        string   `json:"summary"`
}

// RestoreResult 恢复结果
type RestoreResult struct {
	DiscussionID     string         `json:"discussionId"`
	SnapshotID       string         `json:"snapshotId"`
	Mode             RestoreMode    `json:"mode"`
	Changes          RestoreChanges `json:"changes"`
	BackupSnapshotID string         `json:"backupSnapshotId,omitempty"`
}

// RestoreService 快照恢复
type RestoreService struct {
	discussions discussion.Repository
	snapshots   domain.SnapshotRepository
	snapshotSvc *SnapshotService
	locks       *lock.KeyedMutex
	bus         events.EventBus
	metrics     *metrics.Collector
	cfg         *config.VersioningConfig
	logger      *slog.Logger
}

// NewRestoreService 创建恢复服务
func NewRestoreService(
	discussions discussion.Repository,
	snapshots domain.SnapshotRepository,
	snapshotSvc *SnapshotService,
	locks *lock.KeyedMutex,
	bus events.EventBus,
	collector *metrics.Collector,
	cfg *config.VersioningConfig,
) *RestoreService {
	if cfg == nil {
		cfg = &config.VersioningConfig{}
	}
	return &RestoreService{
		discussions: discussions,
		snapshots:   snapshots,
		snapshotSvc: snapshotSvc,
		locks:       locks,
		bus:         bus,
		metrics:     collector,
		cfg:         cfg,
		logger:      log.NewModuleLogger("versioning", "restore_service"),
	}
}

// Restore 从快照恢复讨论
// 新的讨论值在锁内构建完成后一次性保存，读者只会看到恢复前或恢复后的完整状态
func (s *RestoreService) Restore(ctx context.Context, discussionID, snapshotID string, opts RestoreOptions) (*RestoreResult, error) {
	if snapshotID == "" {
		return nil, domain.ErrSnapshotIDRequired
	}
	mode := opts.Mode
	if mode == "" {
		mode = RestoreModeReplace
	}
	if mode != RestoreModeReplace && mode != RestoreModeMerge {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidRestoreMode, mode)
	}

	snap, err := s.snapshots.Get(snapshotID)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrSnapshotNotFound, snapshotID)
	}
	if snap.DiscussionID != discussionID && !opts.AllowCrossDiscussion && !s.cfg.AllowCrossDiscussionRestore {
		return nil, fmt.Errorf("%w: %s", domain.ErrSnapshotMismatch, snapshotID)
	}

	unlock := s.locks.Lock(discussionID)
	defer unlock()

	current, err := s.discussions.Get(discussionID)
	if err != nil {
		return nil, err
	}

	result := &RestoreResult{
		DiscussionID: discussionID,
		SnapshotID:   snapshotID,
		Mode:         mode,
	}

	backup := s.cfg.BackupBeforeRestore
	if opts.Backup != nil {
		backup = *opts.Backup
	}
	if backup {
		pre, err := s.snapshotSvc.createLocked(ctx, current, CreateSnapshotOptions{
			Description: fmt.Sprintf("恢复到快照 v%d 之前的自动备份", snap.Version),
			Type:        domain.SnapshotTypePreRestore,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create backup snapshot: %w", err)
		}
		result.BackupSnapshotID = pre.ID
	}

	before := domain.StateOf(current)
	restored := current.Clone()
	data := snap.Data.Clone()

	switch mode {
	case RestoreModeReplace:
		restored.Messages = data.Messages
		applyContext(restored, data.Context)
	case RestoreModeMerge:
		for _, m := range data.Messages {
			if !restored.HasMessage(m.ID) {
				restored.Messages = append(restored.Messages, m)
			}
		}
		if opts.IncludeContext {
			applyContext(restored, data.Context)
		}
	}
	restored.UpdatedAt = time.Now().UTC()

	if err := s.discussions.Save(restored); err != nil {
		return nil, s.discardBackup(ctx, result.BackupSnapshotID, fmt.Errorf("failed to save restored discussion: %w", err))
	}

	diff := domain.CompareStates(domain.Ref{ID: discussionID}, snap.Ref(), before, domain.StateOf(restored))
	result.Changes = RestoreChanges{
		Added:          diff.MessageChanges.Stats.Added,
		Removed:        diff.MessageChanges.Stats.Removed,
		Modified:       diff.MessageChanges.Stats.Modified,
		ContextChanged: diff.ContextChanges.Changed(),
		Summary:        diff.Summary,
	}

	s.metrics.Restored(string(mode), result.Changes.Added)
	log.FromContext(ctx, s.logger).Info("Discussion restored",
		"discussion_id", discussionID,
		"snapshot_id", snapshotID,
		"snapshot_version", snap.Version,
		"mode", mode,
		"summary", diff.Summary,
	)

	ev := events.NewDiscussionEvent(events.DiscussionRestored, discussionID)
	ev.SnapshotID = snapshotID
	ev.Summary = diff.Summary
	s.bus.Publish(ev)
	s.bus.Publish(events.NewDiscussionEvent(events.DiscussionUpdated, discussionID))

	return result, nil
}

// discardBackup 恢复失败时删除已创建的 pre-restore 快照
// 删除也失败时把快照 ID 带进错误，方便手工清理
func (s *RestoreService) discardBackup(ctx context.Context, backupID string, cause error) error {
	if backupID == "" {
		return cause
	}
	if _, err := s.snapshotSvc.DeleteSnapshot(ctx, backupID); err != nil {
		log.FromContext(ctx, s.logger).Warn("Failed to discard backup snapshot",
			"snapshot_id", backupID,
			"error", err,
		)
		return fmt.Errorf("%w (backup snapshot %s kept)", cause, backupID)
	}
	return cause
}

// applyContext 用快照上下文覆盖讨论上下文
func applyContext(d *discussion.Discussion, ctx domain.ContextState) {
	d.Topic = ctx.Topic
	d.Status = ctx.Status
	d.Rounds = ctx.Rounds
	d.Participants = discussion.CloneParticipants(ctx.Participants)
}
