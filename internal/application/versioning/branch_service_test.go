package versioning

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/roundtable/backend/internal/domain/discussion"
	"github.com/roundtable/backend/internal/domain/events"
	domain "github.com/roundtable/backend/internal/domain/versioning"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBranchService_IsolationFromSource(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, "d1", "topic", message("a", "开场"), message("b", "回应"))

	branch, err := f.branchSvc.CreateBranch(ctx, "d1", CreateBranchOptions{})
	require.NoError(t, err)
	assert.Equal(t, "分支 1", branch.Name)
	assert.Empty(t, branch.SnapshotID)

	f.appendMessage(t, "d1", message("c", "新发言"))

	got, err := f.branchSvc.GetBranch(branch.ID)
	require.NoError(t, err)
	assert.Len(t, got.Data.Messages, 2)

	d, err := f.discussions.Get("d1")
	require.NoError(t, err)
	assert.Len(t, d.Messages, 3)

	// 返回值被修改也不影响已保存的分支
	branch.Data.Messages[0].Content = "mutated"
	got, err = f.branchSvc.GetBranch(branch.ID)
	require.NoError(t, err)
	assert.Equal(t, "开场", got.Data.Messages[0].Content)
}

func TestBranchService_FromSnapshot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, "d1", "topic", message("a", "x"))
	f.seed(t, "d2", "other", message("z", "y"))

	snap, err := f.snapshotSvc.CreateSnapshot(ctx, "d1", CreateSnapshotOptions{})
	require.NoError(t, err)
	f.appendMessage(t, "d1", message("b", "y"))

	branch, err := f.branchSvc.CreateBranch(ctx, "d1", CreateBranchOptions{Name: "实验", SnapshotID: snap.ID})
	require.NoError(t, err)
	assert.Equal(t, "实验", branch.Name)
	assert.Equal(t, snap.ID, branch.SnapshotID)
	assert.Equal(t, []string{"a"}, messageIDs(branch.Data.Messages))

	_, err = f.branchSvc.CreateBranch(ctx, "d2", CreateBranchOptions{SnapshotID: snap.ID})
	assert.ErrorIs(t, err, domain.ErrSnapshotMismatch)

	_, err = f.branchSvc.CreateBranch(ctx, "d1", CreateBranchOptions{SnapshotID: "nope"})
	assert.ErrorIs(t, err, discussion.ErrNotFound)

	_, err = f.branchSvc.CreateBranch(ctx, "missing", CreateBranchOptions{})
	assert.ErrorIs(t, err, discussion.ErrNotFound)
}

func TestBranchService_GetBranchesUsesCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, "d1", "topic", message("a", "x"))

	first, err := f.branchSvc.CreateBranch(ctx, "d1", CreateBranchOptions{})
	require.NoError(t, err)
	second, err := f.branchSvc.CreateBranch(ctx, "d1", CreateBranchOptions{})
	require.NoError(t, err)
	assert.Equal(t, "分支 2", second.Name)

	list, err := f.branchSvc.GetBranches("d1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)
	assert.Equal(t, second.ID, list[1].ID)

	// 第一次 CreateBranch 扫描存储后，后续读取均命中缓存
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.CacheMisses))
	assert.Equal(t, 2.0, testutil.ToFloat64(f.metrics.CacheHits))

	empty, err := f.branchSvc.GetBranches("d2")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestBranchService_ConcurrentListing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, "d1", "topic", message("a", "x"))
	_, err := f.branchSvc.CreateBranch(ctx, "d1", CreateBranchOptions{})
	require.NoError(t, err)

	// 新服务实例，缓存为空
	svc := NewBranchService(f.discussions, f.snapshots, f.branches, nil, f.bus, nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			list, err := svc.GetBranches("d1")
			assert.NoError(t, err)
			assert.Len(t, list, 1)
		}()
	}
	wg.Wait()
}

func TestBranchService_DeleteEvictsCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, "d1", "topic", message("a", "x"))

	branch, err := f.branchSvc.CreateBranch(ctx, "d1", CreateBranchOptions{})
	require.NoError(t, err)

	ok, err := f.branchSvc.DeleteBranch(ctx, branch.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	list, err := f.branchSvc.GetBranches("d1")
	require.NoError(t, err)
	assert.Empty(t, list)

	ok, err = f.branchSvc.DeleteBranch(ctx, branch.ID)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Contains(t, f.bus.types(), events.BranchDeleted)
}

func TestBranchService_SurvivesSourceDeletion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, "d1", "topic", message("a", "x"))

	branch, err := f.branchSvc.CreateBranch(ctx, "d1", CreateBranchOptions{})
	require.NoError(t, err)
	require.NoError(t, f.discussions.Delete("d1"))

	got, err := f.branchSvc.GetBranch(branch.ID)
	require.NoError(t, err)
	require.NotNil(t, got)

	_, err = f.branchSvc.MergeBranch(ctx, branch.ID, MergeBranchOptions{})
	assert.ErrorIs(t, err, discussion.ErrNotFound)
}

func TestBranchService_MergeAppendsOnlyAbsentMessages(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, "d1", "topic", message("m1", "one"))

	branch, err := f.branchSvc.CreateBranch(ctx, "d1", CreateBranchOptions{})
	require.NoError(t, err)

	// 分支上继续讨论：m1 被改写，新增 m2 m3
	branch.Data.Messages = []discussion.Message{
		message("m1", "one (branch edit)"),
		message("m2", "two"),
		message("m3", "three"),
	}
	require.NoError(t, f.branches.Save(branch))

	result, err := f.branchSvc.MergeBranch(ctx, branch.ID, MergeBranchOptions{})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 2, result.MergedCount)
	assert.Equal(t, []string{"m1"}, result.ConflictIDs)

	d, err := f.discussions.Get("d1")
	require.NoError(t, err)
	assert.Equal(t, []string{"m1", "m2", "m3"}, messageIDs(d.Messages))
	assert.Equal(t, "one", d.Messages[0].Content, "冲突消息保留源讨论的内容")

	// 合并不删除分支，再次合并没有新消息
	again, err := f.branchSvc.MergeBranch(ctx, branch.ID, MergeBranchOptions{})
	require.NoError(t, err)
	assert.Equal(t, 0, again.MergedCount)

	_, err = f.branchSvc.MergeBranch(ctx, "nope", MergeBranchOptions{})
	assert.ErrorIs(t, err, domain.ErrBranchNotFound)
}

func TestBranchService_MergeIncludeContext(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, "d1", "原主题", message("m1", "one"))

	branch, err := f.branchSvc.CreateBranch(ctx, "d1", CreateBranchOptions{})
	require.NoError(t, err)
	branch.Data.Context.Topic = "分支主题"
	require.NoError(t, f.branches.Save(branch))

	_, err = f.branchSvc.MergeBranch(ctx, branch.ID, MergeBranchOptions{IncludeContext: true})
	require.NoError(t, err)

	d, err := f.discussions.Get("d1")
	require.NoError(t, err)
	assert.Equal(t, "分支主题", d.Topic)
	assert.Contains(t, f.bus.types(), events.DiscussionUpdated)
}

func TestBranchService_CompareBranch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, "d1", "topic", message("a", "x"))

	branch, err := f.branchSvc.CreateBranch(ctx, "d1", CreateBranchOptions{})
	require.NoError(t, err)
	f.appendMessage(t, "d1", message("b", "y"))

	cmp, err := f.branchSvc.CompareBranch(branch.ID)
	require.NoError(t, err)
	assert.Equal(t, branch.ID, cmp.Branch.ID)
	assert.Equal(t, BranchTarget{DiscussionID: "d1", MessageCount: 2, Topic: "topic"}, cmp.Target)
	assert.Equal(t, []string{"b"}, messageIDs(cmp.Changes.MessageChanges.Added))
	assert.Equal(t, "新增 1 条消息", cmp.Changes.Summary)

	_, err = f.branchSvc.CompareBranch("nope")
	assert.ErrorIs(t, err, discussion.ErrNotFound)
}

func TestBranchService_MergeAndRestoreAreSerialized(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for i := 0; i < 20; i++ {
		id := fmt.Sprintf("d%d", i)
		f.seed(t, id, "topic", message("m1", "one"))
		snap, err := f.snapshotSvc.CreateSnapshot(ctx, id, CreateSnapshotOptions{})
		require.NoError(t, err)

		branch, err := f.branchSvc.CreateBranch(ctx, id, CreateBranchOptions{})
		require.NoError(t, err)
		branch.Data.Messages = append(branch.Data.Messages, message("m2", "two"), message("m3", "three"))
		require.NoError(t, f.branches.Save(branch))
		f.appendMessage(t, id, message("x", "extra"))

		var (
			wg       sync.WaitGroup
			restored *RestoreResult
			merged   *MergeBranchResult
			rErr     error
			mErr     error
		)
		start := make(chan struct{})
		wg.Add(2)
		go func() {
			defer wg.Done()
			<-start
			restored, rErr = f.restoreSvc.Restore(ctx, id, snap.ID, RestoreOptions{Mode: RestoreModeReplace})
		}()
		go func() {
			defer wg.Done()
			<-start
			merged, mErr = f.branchSvc.MergeBranch(ctx, branch.ID, MergeBranchOptions{})
		}()
		close(start)
		wg.Wait()
		require.NoError(t, rErr)
		require.NoError(t, mErr)
		assert.Equal(t, 2, merged.MergedCount)

		d, err := f.discussions.Get(id)
		require.NoError(t, err)
		switch ids := messageIDs(d.Messages); len(ids) {
		case 1:
			// 合并在前，恢复覆盖了合并结果
			assert.Equal(t, []string{"m1"}, ids)
			assert.Equal(t, 3, restored.Changes.Removed)
		default:
			// 恢复在前，合并追加到恢复后的状态
			assert.Equal(t, []string{"m1", "m2", "m3"}, ids)
			assert.Equal(t, 1, restored.Changes.Removed)
		}
	}
}
