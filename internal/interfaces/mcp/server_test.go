package mcp

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	appSimilarity "github.com/roundtable/backend/internal/application/similarity"
	appVersioning "github.com/roundtable/backend/internal/application/versioning"
	"github.com/roundtable/backend/internal/domain/discussion"
	"github.com/roundtable/backend/internal/domain/events"
	"github.com/roundtable/backend/internal/infrastructure/config"
	"github.com/roundtable/backend/internal/infrastructure/lock"
	"github.com/roundtable/backend/internal/infrastructure/metrics"
	"github.com/roundtable/backend/internal/infrastructure/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopBus struct{}

func (nopBus) Subscribe(events.EventType, events.Handler) func()           { return func() {} }
func (nopBus) SubscribeMultiple([]events.EventType, events.Handler) func() { return func() {} }
func (nopBus) Publish(events.Event)                                        {}
func (nopBus) Close()                                                      {}

type testEnv struct {
	server      *MCPServer
	discussions *storage.DiscussionRepository
	similarity  *appSimilarity.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	root := t.TempDir()

	discussions, err := storage.OpenDiscussionRepository(filepath.Join(root, "discussions"))
	require.NoError(t, err)
	snapshots, err := storage.OpenSnapshotRepository(filepath.Join(root, "snapshots"))
	require.NoError(t, err)
	db, err := storage.OpenDB(filepath.Join(root, "similarity.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	models, err := storage.NewSimilarityRepository(db)
	require.NoError(t, err)

	locks := lock.NewKeyedMutex()
	collector := metrics.NewCollector()
	cfg := config.Default().Similarity
	snapshotSvc := appVersioning.NewSnapshotService(discussions, snapshots, locks, nopBus{}, collector)
	similaritySvc := appSimilarity.NewService(discussions, models, locks, nopBus{}, collector, &cfg)

	return &testEnv{
		server:      NewServer(snapshotSvc, similaritySvc),
		discussions: discussions,
		similarity:  similaritySvc,
	}
}

func (e *testEnv) seed(t *testing.T, id, topic string, contents ...string) {
	t.Helper()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	messages := make([]discussion.Message, len(contents))
	for i, c := range contents {
		messages[i] = discussion.Message{
			ID:        id + "-m" + string(rune('1'+i)),
			Role:      "expert",
			Content:   c,
			Timestamp: now,
			Round:     1,
			Mentions:  []string{},
		}
	}
	require.NoError(t, e.discussions.Save(&discussion.Discussion{
		ID:           id,
		Topic:        topic,
		Status:       discussion.StatusActive,
		Messages:     messages,
		Participants: []discussion.Participant{},
		Rounds:       1,
		Conflicts:    []discussion.Conflict{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}))
}

func TestServer_HandlerMounted(t *testing.T) {
	env := newTestEnv(t)
	assert.NotNil(t, env.server.GetHandler())
}

func TestSnapshotTools_CreateListCompare(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seed(t, "d1", "架构评估", "采用微服务")

	_, first, err := env.server.createSnapshotTool(ctx, nil, CreateSnapshotInput{DiscussionID: "d1", Description: "初始"})
	require.NoError(t, err)
	assert.Equal(t, 1, first.Version)
	assert.Equal(t, 1, first.MessageCount)

	d, err := env.discussions.Get("d1")
	require.NoError(t, err)
	d.Messages[0].Content = "采用单体"
	d.Messages = append(d.Messages, discussion.Message{ID: "d1-m2", Role: "expert", Content: "补充", Mentions: []string{}})
	d.Topic = "架构再评估"
	require.NoError(t, env.discussions.Save(d))

	_, second, err := env.server.createSnapshotTool(ctx, nil, CreateSnapshotInput{DiscussionID: "d1", Tags: []string{"v2"}})
	require.NoError(t, err)
	assert.Equal(t, 2, second.Version)

	_, list, err := env.server.listSnapshotsTool(ctx, nil, ListSnapshotsInput{DiscussionID: "d1"})
	require.NoError(t, err)
	require.Len(t, list.Snapshots, 2)
	assert.Equal(t, first.SnapshotID, list.Snapshots[0].ID)
	assert.Equal(t, "manual", list.Snapshots[0].Type)
	assert.Equal(t, "初始", list.Snapshots[0].Description)

	_, diff, err := env.server.compareSnapshotsTool(ctx, nil, CompareSnapshotsInput{
		DiscussionID: "d1",
		From:         first.SnapshotID,
		To:           second.SnapshotID,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"d1-m2"}, diff.Added)
	assert.Empty(t, diff.Removed)
	require.Len(t, diff.Modified, 1)
	assert.Equal(t, "d1-m1", diff.Modified[0].MessageID)
	assert.Contains(t, diff.Modified[0].Diff, "-采用微服务")
	assert.Contains(t, diff.Modified[0].Diff, "+采用单体")
	assert.Equal(t, []string{"topic"}, diff.ContextChanged)
	assert.NotEmpty(t, diff.Summary)
}

func TestSnapshotTools_Errors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, _, err := env.server.createSnapshotTool(ctx, nil, CreateSnapshotInput{DiscussionID: "missing"})
	assert.Error(t, err)

	_, _, err = env.server.compareSnapshotsTool(ctx, nil, CompareSnapshotsInput{DiscussionID: "d1"})
	assert.Error(t, err)
}

func TestFindSimilarTool(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seed(t, "d1", "微服务架构评估", "微服务拆分的边界")
	env.seed(t, "d2", "是否应该采用微服务", "微服务的运维成本")
	env.seed(t, "d3", "午餐吃什么", "面条还是米饭")
	_, err := env.similarity.Train(ctx)
	require.NoError(t, err)

	zero := 0.01
	_, out, err := env.server.findSimilarTool(ctx, nil, FindSimilarInput{DiscussionID: "d1", Threshold: &zero})
	require.NoError(t, err)
	require.NotEmpty(t, out.Results)
	assert.Equal(t, "d2", out.Results[0].DiscussionID)
	assert.Equal(t, "是否应该采用微服务", out.Results[0].Topic)
	for _, r := range out.Results {
		assert.NotEqual(t, "d3", r.DiscussionID)
	}

	bad := 1.5
	_, _, err = env.server.findSimilarTool(ctx, nil, FindSimilarInput{DiscussionID: "d1", Threshold: &bad})
	assert.Error(t, err)

	_, _, err = env.server.findSimilarTool(ctx, nil, FindSimilarInput{DiscussionID: "missing"})
	assert.Error(t, err)
}
