package similarity

import (
	"path/filepath"
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

func (b *recordingBus) ofType(t events.EventType) []*events.DiscussionEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []*events.DiscussionEvent
	for _, e := range b.events {
		if de, ok := e.(*events.DiscussionEvent); ok && de.Type() == t {
			out = append(out, de)
		}
	}
	return out
}

type fixture struct {
	discussions *storage.DiscussionRepository
	models      *storage.SimilarityRepository
	bus         events.EventBus
	svc         *Service
}

func newFixture(t *testing.T, bus events.EventBus) *fixture {
	t.Helper()
	root := t.TempDir()

	discussions, err := storage.OpenDiscussionRepository(filepath.Join(root, "discussions"))
	require.NoError(t, err)
	db, err := storage.OpenDB(filepath.Join(root, "similarity.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	models, err := storage.NewSimilarityRepository(db)
	require.NoError(t, err)

	if bus == nil {
		bus = &recordingBus{}
	}
	cfg := config.Default().Similarity
	return &fixture{
		discussions: discussions,
		models:      models,
		bus:         bus,
		svc:         NewService(discussions, models, lock.NewKeyedMutex(), bus, metrics.NewCollector(), &cfg),
	}
}

func (f *fixture) seed(t *testing.T, id, topic string, contents ...string) *discussion.Discussion {
	t.Helper()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	messages := make([]discussion.Message, 0, len(contents))
	for i, c := range contents {
		messages = append(messages, discussion.Message{
			ID:        id + "-m" + string(rune('1'+i)),
			Role:      "expert",
			Content:   c,
			Timestamp: now,
			Round:     1,
			Mentions:  []string{},
		})
	}
	d := &discussion.Discussion{
		ID:           id,
		Topic:        topic,
		Status:       discussion.StatusActive,
		Messages:     messages,
		Participants: []discussion.Participant{{ID: id + "-p", Name: "Alice", Role: "host"}},
		Rounds:       1,
		Conflicts:    []discussion.Conflict{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, f.discussions.Save(d))
	return d
}
