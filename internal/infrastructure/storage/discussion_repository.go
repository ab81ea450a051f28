package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/roundtable/backend/internal/domain/discussion"
	"github.com/roundtable/backend/internal/infrastructure/config"
	"golang.org/x/sync/errgroup"
)

// loadConcurrency 启动时并行解析记录文件的上限
const loadConcurrency = 8

// DiscussionRepository 讨论文件仓储：内存索引 + discussions/<id>.json
type DiscussionRepository struct {
	mu          sync.RWMutex
	store       *fileStore
	discussions map[string]*discussion.Discussion
}

var _ discussion.Repository = (*DiscussionRepository)(nil)

// NewDiscussionRepository 创建讨论仓储并加载已有文件
func NewDiscussionRepository(cfg *config.StorageConfig) (*DiscussionRepository, error) {
	return OpenDiscussionRepository(cfg.DiscussionsDir())
}

// OpenDiscussionRepository 在指定目录上打开讨论仓储
func OpenDiscussionRepository(dir string) (*DiscussionRepository, error) {
	store, err := newFileStore(dir)
	if err != nil {
		return nil, err
	}
	r := &DiscussionRepository{
		store:       store,
		discussions: make(map[string]*discussion.Discussion),
	}
	if err := r.load(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *DiscussionRepository) load() error {
	ids, err := r.store.ids()
	if err != nil {
		return err
	}

	loaded := make([]*discussion.Discussion, len(ids))
	var g errgroup.Group
	g.SetLimit(loadConcurrency)
	for i, id := range ids {
		g.Go(func() error {
			d, err := r.readFile(id)
			if err != nil {
				return err
			}
			loaded[i] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, d := range loaded {
		if d != nil {
			r.discussions[d.ID] = d
		}
	}
	return nil
}

func (r *DiscussionRepository) readFile(id string) (*discussion.Discussion, error) {
	var rec discussionRecord
	found, err := r.store.read(id, &rec)
	if err != nil || !found {
		return nil, err
	}
	d, err := fromDiscussionRecord(rec)
	if err != nil {
		return nil, err
	}
	if d.ID != id {
		return nil, fmt.Errorf("discussion file %s contains id %q", id, d.ID)
	}
	return d, nil
}

// Get 获取讨论副本
func (r *DiscussionRepository) Get(id string) (*discussion.Discussion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.discussions[id]
	if !ok {
		return nil, discussion.ErrDiscussionNotFound
	}
	return d.Clone(), nil
}

// List 获取全部讨论副本，按创建时间升序
func (r *DiscussionRepository) List() ([]*discussion.Discussion, error) {
	r.mu.RLock()
	out := make([]*discussion.Discussion, 0, len(r.discussions))
	for _, d := range r.discussions {
		out = append(out, d.Clone())
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Save 写入文件后整体替换内存中的值
func (r *DiscussionRepository) Save(d *discussion.Discussion) error {
	if d == nil {
		return fmt.Errorf("%w: discussion is nil", discussion.ErrInvalidArgument)
	}
	if !validID(d.ID) {
		return fmt.Errorf("%w: invalid discussion id %q", discussion.ErrInvalidArgument, d.ID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.store.write(d.ID, toDiscussionRecord(d)); err != nil {
		return fmt.Errorf("failed to save discussion: %w", err)
	}
	r.discussions[d.ID] = d.Clone()
	return nil
}

// Delete 删除讨论，不存在时不报错
func (r *DiscussionRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.store.remove(id); err != nil {
		return fmt.Errorf("failed to delete discussion: %w", err)
	}
	delete(r.discussions, id)
	return nil
}

// Reload 从磁盘重新读取单个讨论（文件被外部修改时调用）
// changed 表示磁盘内容与内存中的值不同；文件已不存在时从内存中移除并返回 nil
func (r *DiscussionRepository) Reload(id string) (d *discussion.Discussion, changed bool, err error) {
	d, err = r.readFile(id)
	if err != nil {
		return nil, false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	prev, existed := r.discussions[id]
	if d == nil {
		delete(r.discussions, id)
		return nil, existed, nil
	}
	r.discussions[id] = d
	return d.Clone(), !existed || !sameRecord(prev, d), nil
}

// sameRecord 按持久化形式比较两个讨论
func sameRecord(a, b *discussion.Discussion) bool {
	ra, err := json.Marshal(toDiscussionRecord(a))
	if err != nil {
		return false
	}
	rb, err := json.Marshal(toDiscussionRecord(b))
	if err != nil {
		return false
	}
	return bytes.Equal(ra, rb)
}

// Dir 讨论文件所在目录
func (r *DiscussionRepository) Dir() string {
	return r.store.dir
}
