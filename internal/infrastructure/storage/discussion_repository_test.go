package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/roundtable/backend/internal/domain/discussion"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDiscussion(id string) *discussion.Discussion {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	replyTo := "m1"
	return &discussion.Discussion{
		ID:     id,
		Topic:  "微服务架构评估",
		Status: discussion.StatusActive,
		Messages: []discussion.Message{
			{ID: "m1", Role: "host", Content: "开场", Timestamp: now, Round: 1, Mentions: []string{}},
			{ID: "m2", Role: "expert", Content: "回应", Timestamp: now, Round: 1, Mentions: []string{"host"}, ReplyTo: &replyTo,
				Provenance: &discussion.Provenance{MergedFrom: "d0", OriginalMessageID: "x1"}},
		},
		Participants: []discussion.Participant{{ID: "p1", Name: "Alice", Role: "host"}},
		Rounds:       1,
		Conflicts:    []discussion.Conflict{{ID: "c1", Description: "分歧", Participants: []string{"p1"}, Round: 1}},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestDiscussionRepository_SaveGetRoundTrip(t *testing.T) {
	dir := t.TempDir()
	repo, err := OpenDiscussionRepository(dir)
	require.NoError(t, err)

	d := sampleDiscussion("d1")
	require.NoError(t, repo.Save(d))

	got, err := repo.Get("d1")
	require.NoError(t, err)
	assert.Equal(t, d, got)

	// 重新打开后从文件加载
	reopened, err := OpenDiscussionRepository(dir)
	require.NoError(t, err)
	loaded, err := reopened.Get("d1")
	require.NoError(t, err)
	assert.Equal(t, d, loaded)
}

func TestDiscussionRepository_ReturnsCopies(t *testing.T) {
	repo, err := OpenDiscussionRepository(t.TempDir())
	require.NoError(t, err)

	d := sampleDiscussion("d1")
	require.NoError(t, repo.Save(d))

	// 修改调用方持有的对象不影响仓储
	d.Messages[0].Content = "changed"
	got, err := repo.Get("d1")
	require.NoError(t, err)
	assert.Equal(t, "开场", got.Messages[0].Content)

	// 修改读取到的对象同样不影响
	got.Messages = append(got.Messages, discussion.Message{ID: "m3"})
	again, err := repo.Get("d1")
	require.NoError(t, err)
	assert.Len(t, again.Messages, 2)
}

func TestDiscussionRepository_NotFoundAndDelete(t *testing.T) {
	repo, err := OpenDiscussionRepository(t.TempDir())
	require.NoError(t, err)

	_, err = repo.Get("missing")
	assert.ErrorIs(t, err, discussion.ErrDiscussionNotFound)
	assert.True(t, discussion.IsNotFound(err))

	require.NoError(t, repo.Save(sampleDiscussion("d1")))
	require.NoError(t, repo.Delete("d1"))
	require.NoError(t, repo.Delete("d1"), "重复删除不报错")

	_, err = repo.Get("d1")
	assert.ErrorIs(t, err, discussion.ErrNotFound)
}

func TestDiscussionRepository_RejectsPathIDs(t *testing.T) {
	repo, err := OpenDiscussionRepository(t.TempDir())
	require.NoError(t, err)

	err = repo.Save(sampleDiscussion("../escape"))
	assert.ErrorIs(t, err, discussion.ErrInvalidArgument)
}

func TestDiscussionRepository_FileCarriesSchemaVersion(t *testing.T) {
	dir := t.TempDir()
	repo, err := OpenDiscussionRepository(dir)
	require.NoError(t, err)
	require.NoError(t, repo.Save(sampleDiscussion("d1")))

	data, err := os.ReadFile(filepath.Join(dir, "d1.json"))
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.EqualValues(t, CurrentSchemaVersion, raw["schemaVersion"])

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "不应残留临时文件")
}

func TestDiscussionRepository_RejectsNewerSchema(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "d1.json"),
		[]byte(`{"schemaVersion": 99, "id": "d1"}`), 0644))

	_, err := OpenDiscussionRepository(dir)
	assert.Error(t, err)
}

func TestDiscussionRepository_Reload(t *testing.T) {
	dir := t.TempDir()
	repo, err := OpenDiscussionRepository(dir)
	require.NoError(t, err)
	require.NoError(t, repo.Save(sampleDiscussion("d1")))

	// 自身写入的文件重新读取时内容不变
	got, changed, err := repo.Reload("d1")
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, sampleDiscussion("d1"), got)

	// 模拟外部编辑
	other, err := OpenDiscussionRepository(dir)
	require.NoError(t, err)
	edited := sampleDiscussion("d1")
	edited.Topic = "外部修改"
	require.NoError(t, other.Save(edited))

	got, changed, err = repo.Reload("d1")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "外部修改", got.Topic)

	require.NoError(t, os.Remove(filepath.Join(dir, "d1.json")))
	got, changed, err = repo.Reload("d1")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Nil(t, got)
	_, err = repo.Get("d1")
	assert.ErrorIs(t, err, discussion.ErrNotFound)

	_, changed, err = repo.Reload("d1")
	require.NoError(t, err)
	assert.False(t, changed, "不存在的讨论再次删除不算变化")
}

func TestDiscussionRepository_ListSortedByCreation(t *testing.T) {
	repo, err := OpenDiscussionRepository(t.TempDir())
	require.NoError(t, err)

	later := sampleDiscussion("a")
	later.CreatedAt = later.CreatedAt.Add(time.Hour)
	require.NoError(t, repo.Save(later))
	require.NoError(t, repo.Save(sampleDiscussion("b")))

	list, err := repo.List()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].ID)
	assert.Equal(t, "a", list[1].ID)
}

func TestRecordID(t *testing.T) {
	tests := []struct {
		name   string
		wantID string
		wantOK bool
	}{
		{"d1.json", "d1", true},
		{"/tmp/x/d2.json", "d2", true},
		{".d1.123.tmp", "", false},
		{".hidden.json", "", false},
		{"notes.txt", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := RecordID(tt.name)
			assert.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.wantID, id)
			}
		})
	}
}
