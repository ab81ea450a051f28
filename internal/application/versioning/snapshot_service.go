// Package versioning 快照、恢复与分支的应用服务
package versioning

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/roundtable/backend/internal/domain/discussion"
	"github.com/roundtable/backend/internal/domain/events"
	domain "github.com/roundtable/backend/internal/domain/versioning"
	"github.com/roundtable/backend/internal/infrastructure/lock"
	"github.com/roundtable/backend/internal/infrastructure/log"
	"github.com/roundtable/backend/internal/infrastructure/metrics"
)

// CreateSnapshotOptions 创建快照参数
type CreateSnapshotOptions struct {
	Description string
	Tags        []string
	// Type 为空时为 manual
	Type domain.SnapshotType
}

// SnapshotService 快照管理
type SnapshotService struct {
	discussions discussion.Repository
	snapshots   domain.SnapshotRepository
	locks       *lock.KeyedMutex
	bus         events.EventBus
	metrics     *metrics.Collector
	logger      *slog.Logger
}

// NewSnapshotService 创建快照服务
func NewSnapshotService(
	discussions discussion.Repository,
	snapshots domain.SnapshotRepository,
	locks *lock.KeyedMutex,
	bus events.EventBus,
	collector *metrics.Collector,
) *SnapshotService {
	return &SnapshotService{
		discussions: discussions,
		snapshots:   snapshots,
		locks:       locks,
		bus:         bus,
		metrics:     collector,
		logger:      log.NewModuleLogger("versioning", "snapshot_service"),
	}
}

// CreateSnapshot 为讨论创建快照
// 同一讨论的创建操作串行执行，版本号 = 已有最大版本 + 1
func (s *SnapshotService) CreateSnapshot(ctx context.Context, discussionID string, opts CreateSnapshotOptions) (*domain.Snapshot, error) {
	unlock := s.locks.Lock(discussionID)
	defer unlock()

	d, err := s.discussions.Get(discussionID)
	if err != nil {
		return nil, err
	}
	return s.createLocked(ctx, d, opts)
}

// createLocked 调用方已持有 discussionID 的锁
func (s *SnapshotService) createLocked(ctx context.Context, d *discussion.Discussion, opts CreateSnapshotOptions) (*domain.Snapshot, error) {
	snapshotType := opts.Type
	if snapshotType == "" {
		snapshotType = domain.SnapshotTypeManual
	}
	if !snapshotType.IsValid() {
		return nil, domain.ErrInvalidSnapshotType
	}

	existing, err := s.snapshots.ListByDiscussion(d.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	version := 1
	for _, snap := range existing {
		if snap.Version >= version {
			version = snap.Version + 1
		}
	}

	tags := opts.Tags
	if tags == nil {
		tags = []string{}
	}
	snap := &domain.Snapshot{
		ID:           uuid.New().String(),
		DiscussionID: d.ID,
		Version:      version,
		Timestamp:    time.Now().UTC(),
		Description:  opts.Description,
		Tags:         append([]string{}, tags...),
		Type:         snapshotType,
		Data:         domain.StateOf(d),
	}
	if err := s.snapshots.Save(snap); err != nil {
		return nil, fmt.Errorf("failed to save snapshot: %w", err)
	}

	s.metrics.SnapshotCreated(string(snapshotType))
	log.FromContext(ctx, s.logger).Info("Snapshot created",
		"discussion_id", d.ID,
		"snapshot_id", snap.ID,
		"version", version,
		"type", snapshotType,
		"messages", len(snap.Data.Messages),
	)

	ev := events.NewDiscussionEvent(events.SnapshotCreated, d.ID)
	ev.SnapshotID = snap.ID
	s.bus.Publish(ev)

	return snap, nil
}

// GetSnapshots 获取讨论的全部快照，按版本升序
func (s *SnapshotService) GetSnapshots(discussionID string) ([]*domain.Snapshot, error) {
	return s.snapshots.ListByDiscussion(discussionID)
}

// GetSnapshot 获取快照，不存在时返回 nil, nil
func (s *SnapshotService) GetSnapshot(id string) (*domain.Snapshot, error) {
	return s.snapshots.Get(id)
}

// DeleteSnapshot 删除快照，不存在时返回 false
func (s *SnapshotService) DeleteSnapshot(ctx context.Context, id string) (bool, error) {
	snap, err := s.snapshots.Get(id)
	if err != nil {
		return false, err
	}
	deleted, err := s.snapshots.Delete(id)
	if err != nil || !deleted {
		return deleted, err
	}

	log.FromContext(ctx, s.logger).Info("Snapshot deleted", "snapshot_id", id)
	if snap != nil {
		ev := events.NewDiscussionEvent(events.SnapshotDeleted, snap.DiscussionID)
		ev.SnapshotID = id
		s.bus.Publish(ev)
	}
	return true, nil
}

// loadOwned 加载属于 discussionID 的快照
func (s *SnapshotService) loadOwned(discussionID, snapshotID string) (*domain.Snapshot, error) {
	snap, err := s.snapshots.Get(snapshotID)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrSnapshotNotFound, snapshotID)
	}
	if snap.DiscussionID != discussionID {
		return nil, fmt.Errorf("%w: %s", domain.ErrSnapshotMismatch, snapshotID)
	}
	return snap, nil
}

// CompareSnapshots 比较同一讨论的两个快照
func (s *SnapshotService) CompareSnapshots(discussionID, fromID, toID string) (*domain.SnapshotDiff, error) {
	if fromID == "" || toID == "" {
		return nil, domain.ErrCompareParamsRequired
	}
	from, err := s.loadOwned(discussionID, fromID)
	if err != nil {
		return nil, err
	}
	to, err := s.loadOwned(discussionID, toID)
	if err != nil {
		return nil, err
	}

	diff := domain.CompareSnapshots(from, to)
	return &diff, nil
}

// CompareWithCurrent 比较快照与讨论的当前状态（快照为 from，当前状态为 to）
func (s *SnapshotService) CompareWithCurrent(discussionID, snapshotID string) (*domain.SnapshotDiff, error) {
	if snapshotID == "" {
		return nil, domain.ErrSnapshotIDRequired
	}
	snap, err := s.loadOwned(discussionID, snapshotID)
	if err != nil {
		return nil, err
	}
	d, err := s.discussions.Get(discussionID)
	if err != nil {
		return nil, err
	}

	current := domain.Ref{ID: d.ID, Timestamp: d.UpdatedAt}
	diff := domain.CompareStates(snap.Ref(), current, snap.Data, domain.StateOf(d))
	return &diff, nil
}
