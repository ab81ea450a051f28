package storage

import (
	"fmt"
	"sort"
	"sync"

	"github.com/roundtable/backend/internal/domain/discussion"
	"github.com/roundtable/backend/internal/domain/versioning"
	"github.com/roundtable/backend/internal/infrastructure/config"
	"golang.org/x/sync/errgroup"
)

// SnapshotRepository 快照文件仓储：snapshots/<id>.json，启动时建立内存索引
type SnapshotRepository struct {
	mu        sync.RWMutex
	store     *fileStore
	snapshots map[string]*versioning.Snapshot
}

var _ versioning.SnapshotRepository = (*SnapshotRepository)(nil)

// NewSnapshotRepository 创建快照仓储
func NewSnapshotRepository(cfg *config.StorageConfig) (*SnapshotRepository, error) {
	return OpenSnapshotRepository(cfg.SnapshotsDir())
}

// OpenSnapshotRepository 在指定目录上打开快照仓储
func OpenSnapshotRepository(dir string) (*SnapshotRepository, error) {
	store, err := newFileStore(dir)
	if err != nil {
		return nil, err
	}
	r := &SnapshotRepository{
		store:     store,
		snapshots: make(map[string]*versioning.Snapshot),
	}
	if err := r.load(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *SnapshotRepository) load() error {
	ids, err := r.store.ids()
	if err != nil {
		return err
	}

	loaded := make([]*versioning.Snapshot, len(ids))
	var g errgroup.Group
	g.SetLimit(loadConcurrency)
	for i, id := range ids {
		g.Go(func() error {
			var rec snapshotRecord
			found, err := r.store.read(id, &rec)
			if err != nil || !found {
				return err
			}
			s, err := fromSnapshotRecord(rec)
			if err != nil {
				return err
			}
			loaded[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("failed to load snapshots: %w", err)
	}

	for _, s := range loaded {
		if s != nil {
			r.snapshots[s.ID] = s
		}
	}
	return nil
}

// Save 持久化快照，文件写入完成后才对读者可见
func (r *SnapshotRepository) Save(s *versioning.Snapshot) error {
	if s == nil || !validID(s.ID) {
		return fmt.Errorf("%w: invalid snapshot", discussion.ErrInvalidArgument)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.store.write(s.ID, toSnapshotRecord(s)); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	r.snapshots[s.ID] = cloneSnapshot(s)
	return nil
}

// Get 获取快照副本，不存在时返回 nil, nil
func (r *SnapshotRepository) Get(id string) (*versioning.Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.snapshots[id]
	if !ok {
		return nil, nil
	}
	return cloneSnapshot(s), nil
}

// ListByDiscussion 按版本升序返回讨论的全部快照
func (r *SnapshotRepository) ListByDiscussion(discussionID string) ([]*versioning.Snapshot, error) {
	r.mu.RLock()
	out := make([]*versioning.Snapshot, 0)
	for _, s := range r.snapshots {
		if s.DiscussionID == discussionID {
			out = append(out, cloneSnapshot(s))
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].Version < out[j].Version
	})
	return out, nil
}

// Delete 删除快照，返回是否存在
func (r *SnapshotRepository) Delete(id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, known := r.snapshots[id]
	removed, err := r.store.remove(id)
	if err != nil {
		return false, fmt.Errorf("failed to delete snapshot: %w", err)
	}
	delete(r.snapshots, id)
	return known || removed, nil
}

func cloneSnapshot(s *versioning.Snapshot) *versioning.Snapshot {
	out := *s
	out.Tags = append([]string{}, s.Tags...)
	out.Data = s.Data.Clone()
	return &out
}
