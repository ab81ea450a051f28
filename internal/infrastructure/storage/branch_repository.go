package storage

import (
	"fmt"

	"github.com/roundtable/backend/internal/domain/discussion"
	"github.com/roundtable/backend/internal/domain/versioning"
	"github.com/roundtable/backend/internal/infrastructure/config"
	"golang.org/x/sync/errgroup"
)

// BranchRepository 分支文件仓储：branches/<id>.json
// 不做内存索引，缓存由分支服务负责，Scan 每次都读取磁盘
type BranchRepository struct {
	store *fileStore
}

var _ versioning.BranchRepository = (*BranchRepository)(nil)

// NewBranchRepository 创建分支仓储
func NewBranchRepository(cfg *config.StorageConfig) (*BranchRepository, error) {
	return OpenBranchRepository(cfg.BranchesDir())
}

// OpenBranchRepository 在指定目录上打开分支仓储
func OpenBranchRepository(dir string) (*BranchRepository, error) {
	store, err := newFileStore(dir)
	if err != nil {
		return nil, err
	}
	return &BranchRepository{store: store}, nil
}

// Save 持久化分支
func (r *BranchRepository) Save(b *versioning.Branch) error {
	if b == nil || !validID(b.ID) {
		return fmt.Errorf("%w: invalid branch", discussion.ErrInvalidArgument)
	}
	if err := r.store.write(b.ID, toBranchRecord(b)); err != nil {
		return fmt.Errorf("failed to save branch: %w", err)
	}
	return nil
}

// Get 读取分支，不存在时返回 nil, nil
func (r *BranchRepository) Get(id string) (*versioning.Branch, error) {
	var rec branchRecord
	found, err := r.store.read(id, &rec)
	if err != nil {
		return nil, fmt.Errorf("failed to read branch: %w", err)
	}
	if !found {
		return nil, nil
	}
	return fromBranchRecord(rec)
}

// Scan 扫描全部分支文件，返回源讨论为 sourceID 的分支
func (r *BranchRepository) Scan(sourceID string) ([]*versioning.Branch, error) {
	ids, err := r.store.ids()
	if err != nil {
		return nil, err
	}

	branches := make([]*versioning.Branch, len(ids))
	var g errgroup.Group
	g.SetLimit(loadConcurrency)
	for i, id := range ids {
		g.Go(func() error {
			b, err := r.Get(id)
			if err != nil {
				return err
			}
			if b != nil && b.SourceDiscussionID == sourceID {
				branches[i] = b
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to scan branches: %w", err)
	}

	out := make([]*versioning.Branch, 0)
	for _, b := range branches {
		if b != nil {
			out = append(out, b)
		}
	}
	return out, nil
}

// Delete 删除分支，返回是否存在
func (r *BranchRepository) Delete(id string) (bool, error) {
	removed, err := r.store.remove(id)
	if err != nil {
		return false, fmt.Errorf("failed to delete branch: %w", err)
	}
	return removed, nil
}
