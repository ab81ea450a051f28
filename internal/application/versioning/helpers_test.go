package versioning

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/roundtable/backend/internal/domain/discussion"
	"github.com/roundtable/backend/internal/domain/events"
	"github.com/roundtable/backend/internal/infrastructure/config"
	"github.com/roundtable/backend/internal/infrastructure/lock"
	"github.com/roundtable/backend/internal/infrastructure/metrics"
	"github.com/roundtable/backend/internal/infrastructure/storage"
	"github.com/stretchr/testify/require"
)

// recordingBus 同步记录发布的事件
type recordingBus struct {
	mu     sync.Mutex
	events []events.Event
}

func (b *recordingBus) Subscribe(events.EventType, events.Handler) func() { return func() {} }

func (b *recordingBus) SubscribeMultiple([]events.EventType, events.Handler) func() {
	return func() {}
}

func (b *recordingBus) Publish(e events.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, e)
}

func (b *recordingBus) Close() {}

func (b *recordingBus) types() []events.EventType {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]events.EventType, len(b.events))
	for i, e := range b.events {
		out[i] = e.Type()
	}
	return out
}

type fixture struct {
	discussions *storage.DiscussionRepository
	snapshots   *storage.SnapshotRepository
	branches    *storage.BranchRepository
	bus         *recordingBus
	metrics     *metrics.Collector
	cfg         *config.VersioningConfig

	snapshotSvc *SnapshotService
	restoreSvc  *RestoreService
	branchSvc   *BranchService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	root := t.TempDir()

	discussions, err := storage.OpenDiscussionRepository(root + "/discussions")
	require.NoError(t, err)
	snapshots, err := storage.OpenSnapshotRepository(root + "/snapshots")
	require.NoError(t, err)
	branches, err := storage.OpenBranchRepository(root + "/branches")
	require.NoError(t, err)

	f := &fixture{
		discussions: discussions,
		snapshots:   snapshots,
		branches:    branches,
		bus:         &recordingBus{},
		metrics:     metrics.NewCollector(),
		cfg:         &config.VersioningConfig{},
	}
	locks := lock.NewKeyedMutex()
	f.snapshotSvc = NewSnapshotService(discussions, snapshots, locks, f.bus, f.metrics)
	f.restoreSvc = NewRestoreService(discussions, snapshots, f.snapshotSvc, locks, f.bus, f.metrics, f.cfg)
	f.branchSvc = NewBranchService(discussions, snapshots, branches, locks, f.bus, f.metrics)
	return f
}

func message(id, content string) discussion.Message {
	return discussion.Message{
		ID:        id,
		Role:      "expert",
		Content:   content,
		Timestamp: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		Round:     1,
		Mentions:  []string{},
	}
}

// seed 保存一个包含给定消息的讨论
func (f *fixture) seed(t *testing.T, id, topic string, messages ...discussion.Message) *discussion.Discussion {
	t.Helper()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	if messages == nil {
		messages = []discussion.Message{}
	}
	d := &discussion.Discussion{
		ID:           id,
		Topic:        topic,
		Status:       discussion.StatusActive,
		Messages:     messages,
		Participants: []discussion.Participant{{ID: "p1", Name: "Alice", Role: "host"}},
		Rounds:       1,
		Conflicts:    []discussion.Conflict{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, f.discussions.Save(d))
	return d
}

// appendMessage 模拟外部追加消息
func (f *fixture) appendMessage(t *testing.T, id string, m discussion.Message) {
	t.Helper()
	d, err := f.discussions.Get(id)
	require.NoError(t, err)
	d.Messages = append(d.Messages, m)
	require.NoError(t, f.discussions.Save(d))
}

func messageIDs(messages []discussion.Message) []string {
	ids := make([]string, len(messages))
	for i, m := range messages {
		ids[i] = m.ID
	}
	return ids
}

func numbered(prefix string, n int) []discussion.Message {
	out := make([]discussion.Message, n)
	for i := range out {
		out[i] = message(fmt.Sprintf("%s%d", prefix, i+1), fmt.Sprintf("内容 %d", i+1))
	}
	return out
}
