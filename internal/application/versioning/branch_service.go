package versioning

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/roundtable/backend/internal/domain/discussion"
	"github.com/roundtable/backend/internal/domain/events"
	domain "github.com/roundtable/backend/internal/domain/versioning"
	"github.com/roundtable/backend/internal/infrastructure/lock"
	"github.com/roundtable/backend/internal/infrastructure/log"
	"github.com/roundtable/backend/internal/infrastructure/metrics"
)

// CreateBranchOptions 创建分支参数
type CreateBranchOptions struct {
	Name        string
	Description string
	// SnapshotID 非空时从该快照派生，否则从讨论当前状态派生
	SnapshotID string
}

// MergeBranchOptions 合并分支参数
type MergeBranchOptions struct {
	IncludeContext bool
}

// MergeBranchResult 分支合并结果
type MergeBranchResult struct {
	Success     bool `json:"success"`
	MergedCount int  `json:"mergedCount"`
	// ConflictIDs 两侧都存在但内容不同的消息，保留源讨论的版本
	ConflictIDs []string `json:"conflictIds"`
}

// BranchTarget 分支比较的目标讨论概要
type BranchTarget struct {
	DiscussionID string `json:"discussionId"`
	MessageCount int    `json:"messageCount"`
	Topic        string `json:"topic"`
}

// BranchComparison 分支与源讨论当前状态的比较
type BranchComparison struct {
	Branch  *domain.Branch      `json:"branch"`
	Target  BranchTarget        `json:"target"`
	Changes domain.SnapshotDiff `json:"changes"`
}

// BranchService 分支管理
// 每个源讨论的分支列表缓存在内存中，未命中时扫描存储
type BranchService struct {
	discussions discussion.Repository
	snapshots   domain.SnapshotRepository
	branches    domain.BranchRepository
	locks       *lock.KeyedMutex
	bus         events.EventBus
	metrics     *metrics.Collector
	logger      *slog.Logger

	mu    sync.RWMutex
	cache map[string][]*domain.Branch
	group singleflight.Group
}

// NewBranchService 创建分支服务
func NewBranchService(
	discussions discussion.Repository,
	snapshots domain.SnapshotRepository,
	branches domain.BranchRepository,
	locks *lock.KeyedMutex,
	bus events.EventBus,
	collector *metrics.Collector,
) *BranchService {
	return &BranchService{
		discussions: discussions,
		snapshots:   snapshots,
		branches:    branches,
		locks:       locks,
		bus:         bus,
		metrics:     collector,
		logger:      log.NewModuleLogger("versioning", "branch_service"),
		cache:       make(map[string][]*domain.Branch),
	}
}

// CreateBranch 从讨论当前状态或指定快照派生分支
func (s *BranchService) CreateBranch(ctx context.Context, sourceID string, opts CreateBranchOptions) (*domain.Branch, error) {
	unlock := s.locks.Lock(sourceID)
	defer unlock()

	source, err := s.discussions.Get(sourceID)
	if err != nil {
		return nil, err
	}

	var data domain.State
	if opts.SnapshotID != "" {
		snap, err := s.snapshots.Get(opts.SnapshotID)
		if err != nil {
			return nil, err
		}
		if snap == nil {
			return nil, fmt.Errorf("%w: %s", domain.ErrSnapshotNotFound, opts.SnapshotID)
		}
		if snap.DiscussionID != sourceID {
			return nil, fmt.Errorf("%w: %s", domain.ErrSnapshotMismatch, opts.SnapshotID)
		}
		data = snap.Data.Clone()
	} else {
		data = domain.StateOf(source)
	}

	existing, err := s.GetBranches(sourceID)
	if err != nil {
		return nil, err
	}
	name := opts.Name
	if name == "" {
		name = fmt.Sprintf("分支 %d", len(existing)+1)
	}

	branch := &domain.Branch{
		ID:                 uuid.New().String(),
		SourceDiscussionID: sourceID,
		Name:               name,
		Description:        opts.Description,
		CreatedAt:          time.Now().UTC(),
		SnapshotID:         opts.SnapshotID,
		Data:               data,
	}
	if err := s.branches.Save(branch); err != nil {
		return nil, fmt.Errorf("failed to save branch: %w", err)
	}

	s.mu.Lock()
	if cached, ok := s.cache[sourceID]; ok {
		s.cache[sourceID] = append(cached, cloneBranch(branch))
	}
	s.mu.Unlock()

	s.metrics.BranchCreated()
	log.FromContext(ctx, s.logger).Info("Branch created",
		"discussion_id", sourceID,
		"branch_id", branch.ID,
		"name", name,
		"snapshot_id", opts.SnapshotID,
		"messages", len(data.Messages),
	)

	ev := events.NewDiscussionEvent(events.BranchCreated, sourceID)
	ev.BranchID = branch.ID
	ev.SnapshotID = opts.SnapshotID
	s.bus.Publish(ev)

	return branch, nil
}

// GetBranches 获取源讨论的全部分支，按创建时间升序
func (s *BranchService) GetBranches(discussionID string) ([]*domain.Branch, error) {
	s.mu.RLock()
	cached, ok := s.cache[discussionID]
	s.mu.RUnlock()
	if ok {
		s.metrics.BranchCache(true)
		return cloneBranches(cached), nil
	}
	s.metrics.BranchCache(false)

	// 并发的未命中只扫描一次存储
	v, err, _ := s.group.Do(discussionID, func() (interface{}, error) {
		scanned, err := s.branches.Scan(discussionID)
		if err != nil {
			return nil, fmt.Errorf("failed to scan branches: %w", err)
		}
		sortBranches(scanned)

		s.mu.Lock()
		s.cache[discussionID] = scanned
		s.mu.Unlock()
		return scanned, nil
	})
	if err != nil {
		return nil, err
	}
	return cloneBranches(v.([]*domain.Branch)), nil
}

// GetBranch 获取分支，不存在时返回 nil, nil
func (s *BranchService) GetBranch(id string) (*domain.Branch, error) {
	return s.branches.Get(id)
}

// DeleteBranch 删除分支，不存在时返回 false
func (s *BranchService) DeleteBranch(ctx context.Context, id string) (bool, error) {
	branch, err := s.branches.Get(id)
	if err != nil {
		return false, err
	}
	deleted, err := s.branches.Delete(id)
	if err != nil || !deleted {
		return deleted, err
	}

	if branch != nil {
		s.evict(branch.SourceDiscussionID)
		ev := events.NewDiscussionEvent(events.BranchDeleted, branch.SourceDiscussionID)
		ev.BranchID = id
		s.bus.Publish(ev)
	}
	log.FromContext(ctx, s.logger).Info("Branch deleted", "branch_id", id)
	return true, nil
}

// MergeBranch 把分支中源讨论不存在的消息追加到源讨论
// 相同 ID 内容不同的消息不会被覆盖，只在结果中列出
func (s *BranchService) MergeBranch(ctx context.Context, branchID string, opts MergeBranchOptions) (*MergeBranchResult, error) {
	branch, err := s.loadBranch(branchID)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(branch.SourceDiscussionID)
	defer unlock()

	source, err := s.discussions.Get(branch.SourceDiscussionID)
	if err != nil {
		return nil, err
	}

	existing := make(map[string]string, len(source.Messages))
	for _, m := range source.Messages {
		existing[m.ID] = m.Content
	}

	merged := source.Clone()
	result := &MergeBranchResult{Success: true, ConflictIDs: []string{}}
	for _, m := range branch.Data.Messages {
		content, ok := existing[m.ID]
		if !ok {
			merged.Messages = append(merged.Messages, m.Clone())
			result.MergedCount++
			continue
		}
		if content != m.Content {
			result.ConflictIDs = append(result.ConflictIDs, m.ID)
		}
	}
	if opts.IncludeContext {
		applyContext(merged, branch.Data.Context)
	}

	if result.MergedCount > 0 || opts.IncludeContext {
		merged.UpdatedAt = time.Now().UTC()
		if err := s.discussions.Save(merged); err != nil {
			return nil, fmt.Errorf("failed to save merged discussion: %w", err)
		}
	}

	s.metrics.BranchMerged(result.MergedCount)
	log.FromContext(ctx, s.logger).Info("Branch merged",
		"discussion_id", branch.SourceDiscussionID,
		"branch_id", branchID,
		"merged", result.MergedCount,
		"conflicts", len(result.ConflictIDs),
	)

	ev := events.NewDiscussionEvent(events.BranchMerged, branch.SourceDiscussionID)
	ev.BranchID = branchID
	ev.Summary = fmt.Sprintf("合并 %d 条消息", result.MergedCount)
	s.bus.Publish(ev)
	if result.MergedCount > 0 || opts.IncludeContext {
		s.bus.Publish(events.NewDiscussionEvent(events.DiscussionUpdated, branch.SourceDiscussionID))
	}

	return result, nil
}

// CompareBranch 比较分支与源讨论当前状态（分支为 from，讨论为 to）
func (s *BranchService) CompareBranch(branchID string) (*BranchComparison, error) {
	branch, err := s.loadBranch(branchID)
	if err != nil {
		return nil, err
	}
	target, err := s.discussions.Get(branch.SourceDiscussionID)
	if err != nil {
		return nil, err
	}

	from := domain.Ref{ID: branch.ID, Timestamp: branch.CreatedAt}
	to := domain.Ref{ID: target.ID, Timestamp: target.UpdatedAt}
	return &BranchComparison{
		Branch: branch,
		Target: BranchTarget{
			DiscussionID: target.ID,
			MessageCount: len(target.Messages),
			Topic:        target.Topic,
		},
		Changes: domain.CompareStates(from, to, branch.Data, domain.StateOf(target)),
	}, nil
}

func (s *BranchService) loadBranch(id string) (*domain.Branch, error) {
	branch, err := s.branches.Get(id)
	if err != nil {
		return nil, err
	}
	if branch == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrBranchNotFound, id)
	}
	return branch, nil
}

func (s *BranchService) evict(discussionID string) {
	s.mu.Lock()
	delete(s.cache, discussionID)
	s.mu.Unlock()
	s.group.Forget(discussionID)
}

func sortBranches(branches []*domain.Branch) {
	sort.SliceStable(branches, func(i, j int) bool {
		if !branches[i].CreatedAt.Equal(branches[j].CreatedAt) {
			return branches[i].CreatedAt.Before(branches[j].CreatedAt)
		}
		return branches[i].ID < branches[j].ID
	})
}

func cloneBranch(b *domain.Branch) *domain.Branch {
	out := *b
	out.Data = b.Data.Clone()
	return &out
}

func cloneBranches(branches []*domain.Branch) []*domain.Branch {
	out := make([]*domain.Branch, len(branches))
	for i, b := range branches {
		out[i] = cloneBranch(b)
	}
	return out
}
