package main

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/roundtable/backend/internal/domain/discussion"
	domain "github.com/roundtable/backend/internal/domain/versioning"
	"github.com/roundtable/backend/internal/infrastructure/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func snapshotOf(id string, version int, messages ...discussion.Message) *domain.Snapshot {
	return &domain.Snapshot{
		ID:           id,
		DiscussionID: "d1",
		Version:      version,
		Timestamp:    time.Date(2026, 3, 1, 10, version, 0, 0, time.UTC),
		Description:  "第 " + id,
		Tags:         []string{},
		Type:         domain.SnapshotTypeManual,
		Data: domain.State{
			Messages: messages,
			Context: domain.ContextState{
				Topic:        "架构评估",
				Status:       discussion.StatusActive,
				Rounds:       version,
				Participants: []discussion.Participant{},
			},
		},
	}
}

func msg(id, content string) discussion.Message {
	return discussion.Message{ID: id, Role: "expert", Content: content, Round: 1, Mentions: []string{}}
}

func seedSnapshots(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	repo, err := storage.OpenSnapshotRepository(filepath.Join(dir, "snapshots"))
	require.NoError(t, err)
	require.NoError(t, repo.Save(snapshotOf("s1", 1, msg("m1", "采用微服务"))))
	require.NoError(t, repo.Save(snapshotOf("s2", 2, msg("m1", "采用单体"), msg("m2", "补充说明"))))
	return dir
}

func TestSnapshotsCommand(t *testing.T) {
	dir := seedSnapshots(t)

	out, err := run(t, "--data-dir", dir, "snapshots", "d1")
	require.NoError(t, err)
	assert.Contains(t, out, "v1  s1")
	assert.Contains(t, out, "v2  s2")

	out, err = run(t, "--data-dir", dir, "snapshots", "other")
	require.NoError(t, err)
	assert.Contains(t, out, "No snapshots found")
}

func TestDiffCommand(t *testing.T) {
	dir := seedSnapshots(t)

	out, err := run(t, "--data-dir", dir, "diff", "s1", "s2")
	require.NoError(t, err)
	assert.Contains(t, out, "+ m2 补充说明")
	assert.Contains(t, out, "~ m1")
	assert.Contains(t, out, "-采用微服务")
	assert.Contains(t, out, "+采用单体")
	assert.Contains(t, out, "rounds: 1 -> 2")

	_, err = run(t, "--data-dir", dir, "diff", "s1", "missing")
	assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)
}

func TestSimilarCommandValidatesThreshold(t *testing.T) {
	_, err := run(t, "--data-dir", t.TempDir(), "similar", "d1", "--threshold", "1.5")
	assert.Error(t, err)
}

func TestTrainAndSimilarCommands(t *testing.T) {
	dir := t.TempDir()
	repo, err := storage.OpenDiscussionRepository(filepath.Join(dir, "discussions"))
	require.NoError(t, err)
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	for id, topic := range map[string]string{"d1": "微服务架构评估", "d2": "是否应该采用微服务", "d3": "午餐吃什么"} {
		require.NoError(t, repo.Save(&discussion.Discussion{
			ID:           id,
			Topic:        topic,
			Status:       discussion.StatusActive,
			Messages:     []discussion.Message{},
			Participants: []discussion.Participant{},
			Conflicts:    []discussion.Conflict{},
			CreatedAt:    now,
			UpdatedAt:    now,
		}))
	}

	out, err := run(t, "--data-dir", dir, "train")
	require.NoError(t, err)
	assert.Contains(t, out, "trained 3 documents")

	out, err = run(t, "--data-dir", dir, "similar", "d1", "--threshold", "0.01")
	require.NoError(t, err)
	assert.Contains(t, out, "d2")
	assert.NotContains(t, out, "d3")
}
