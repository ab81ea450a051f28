package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	appDiscussion "github.com/roundtable/backend/internal/application/discussion"
	appSimilarity "github.com/roundtable/backend/internal/application/similarity"
	appVersioning "github.com/roundtable/backend/internal/application/versioning"
	"github.com/roundtable/backend/internal/infrastructure/config"
	"github.com/roundtable/backend/internal/infrastructure/lock"
	"github.com/roundtable/backend/internal/infrastructure/metrics"
	"github.com/roundtable/backend/internal/infrastructure/storage"
	"github.com/roundtable/backend/internal/infrastructure/watcher"
	"github.com/roundtable/backend/internal/infrastructure/websocket"
	"github.com/roundtable/backend/internal/interfaces/http/handler"
	"github.com/roundtable/backend/internal/interfaces/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)
	root := t.TempDir()

	discussions, err := storage.OpenDiscussionRepository(filepath.Join(root, "discussions"))
	require.NoError(t, err)
	snapshots, err := storage.OpenSnapshotRepository(filepath.Join(root, "snapshots"))
	require.NoError(t, err)
	branches, err := storage.OpenBranchRepository(filepath.Join(root, "branches"))
	require.NoError(t, err)
	db, err := storage.OpenDB(filepath.Join(root, "similarity.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	models, err := storage.NewSimilarityRepository(db)
	require.NoError(t, err)

	cfg := config.Default()
	bus := watcher.NewEventBus()
	t.Cleanup(bus.Close)
	locks := lock.NewKeyedMutex()
	collector := metrics.NewCollector()

	discussionSvc := appDiscussion.NewService(discussions, discussions, locks, bus)
	snapshotSvc := appVersioning.NewSnapshotService(discussions, snapshots, locks, bus, collector)
	restoreSvc := appVersioning.NewRestoreService(discussions, snapshots, snapshotSvc, locks, bus, collector, &cfg.Versioning)
	branchSvc := appVersioning.NewBranchService(discussions, snapshots, branches, locks, bus, collector)
	similaritySvc := appSimilarity.NewService(discussions, models, locks, bus, collector, &cfg.Similarity)

	server := NewServer(
		&cfg.Server,
		collector,
		handler.NewDiscussionHandler(discussionSvc),
		handler.NewSnapshotHandler(snapshotSvc, restoreSvc),
		handler.NewBranchHandler(branchSvc),
		handler.NewSimilarityHandler(similaritySvc),
		handler.NewStreamHandler(websocket.NewHub()),
		mcp.NewServer(snapshotSvc, similaritySvc),
	)
	return server.Handler()
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

type idBody struct {
	ID      string `json:"id"`
	Version int    `json:"version"`
}

func TestServer_VersioningFlow(t *testing.T) {
	h := newTestRouter(t)

	w := do(t, h, http.MethodPost, "/api/discussions", map[string]any{"topic": "微服务架构评估"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := decode[idBody](t, w).ID

	w = do(t, h, http.MethodPost, "/api/discussion/"+id+"/messages", map[string]any{"content": "先拆订单服务"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(t, h, http.MethodPost, "/api/discussion/"+id+"/snapshot", map[string]any{"description": "第一轮"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	snap := decode[idBody](t, w)
	assert.Equal(t, 1, snap.Version)

	w = do(t, h, http.MethodPost, "/api/discussion/"+id+"/messages", map[string]any{"content": "再拆库存服务"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(t, h, http.MethodGet, "/api/discussion/"+id+"/snapshot/"+snap.ID+"/diff", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	diff := decode[struct {
		MessageChanges struct {
			Stats struct {
				Added int `json:"added"`
			} `json:"stats"`
		} `json:"messageChanges"`
	}](t, w)
	assert.Equal(t, 1, diff.MessageChanges.Stats.Added)

	w = do(t, h, http.MethodPost, "/api/discussion/"+id+"/restore", map[string]any{"snapshotId": snap.ID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	restored := decode[struct {
		Mode    string `json:"mode"`
		Changes struct {
			Removed int `json:"removed"`
		} `json:"changes"`
	}](t, w)
	assert.Equal(t, "replace", restored.Mode)
	assert.Equal(t, 1, restored.Changes.Removed)

	w = do(t, h, http.MethodGet, "/api/discussion/"+id+"/snapshots", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]idBody](t, w), 1)

	w = do(t, h, http.MethodPost, "/api/discussion/"+id+"/branch", map[string]any{"name": "方案 B"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	branchID := decode[idBody](t, w).ID

	w = do(t, h, http.MethodGet, "/api/discussion/"+id+"/branches", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]idBody](t, w), 1)

	w = do(t, h, http.MethodPost, "/api/branch/"+branchID+"/merge", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	merged := decode[map[string]any](t, w)
	assert.Equal(t, true, merged["success"])
	assert.Equal(t, float64(0), merged["mergedCount"])

	w = do(t, h, http.MethodDelete, "/api/snapshot/"+snap.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode[map[string]bool](t, w)["success"])

	w = do(t, h, http.MethodDelete, "/api/snapshot/"+snap.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode[map[string]bool](t, w)["success"])
}

func TestServer_ErrorMapping(t *testing.T) {
	h := newTestRouter(t)

	w := do(t, h, http.MethodPost, "/api/discussions", map[string]any{"topic": "t"})
	require.Equal(t, http.StatusCreated, w.Code)
	id := decode[idBody](t, w).ID

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		code   int
	}{
		{"快照不存在", http.MethodGet, "/api/snapshot/missing", nil, http.StatusNotFound},
		{"讨论不存在", http.MethodPost, "/api/discussion/missing/snapshot", nil, http.StatusNotFound},
		{"比较缺少参数", http.MethodGet, "/api/discussion/" + id + "/compare", nil, http.StatusBadRequest},
		{"比较快照不存在", http.MethodGet, "/api/discussion/" + id + "/compare?from=a&to=b", nil, http.StatusNotFound},
		{"恢复缺少快照", http.MethodPost, "/api/discussion/" + id + "/restore", map[string]any{}, http.StatusBadRequest},
		{"恢复模式非法", http.MethodPost, "/api/discussion/" + id + "/restore", map[string]any{"snapshotId": "s", "mode": "bogus"}, http.StatusBadRequest},
		{"阈值越界", http.MethodGet, "/api/discussion/" + id + "/similar?threshold=2", nil, http.StatusBadRequest},
		{"相似条数非法", http.MethodGet, "/api/discussion/" + id + "/similar?limit=-1", nil, http.StatusBadRequest},
		{"关键词条数非法", http.MethodGet, "/api/discussion/" + id + "/keywords?limit=abc", nil, http.StatusBadRequest},
		{"关键词讨论不存在", http.MethodGet, "/api/discussion/missing/keywords", nil, http.StatusNotFound},
		{"合并缺少源", http.MethodPost, "/api/discussion/" + id + "/merge", map[string]any{"sourceIds": []string{}}, http.StatusBadRequest},
		{"分支不存在", http.MethodGet, "/api/branch/missing", nil, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.code, w.Code, w.Body.String())
			assert.NotEmpty(t, decode[map[string]string](t, w)["error"])
		})
	}
}

func TestServer_HealthAndMetrics(t *testing.T) {
	h := newTestRouter(t)

	w := do(t, h, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "roundtable-backend", decode[map[string]string](t, w)["service"])
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = do(t, h, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "roundtable_http_requests_total"))
}
