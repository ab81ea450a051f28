package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWhenFileMissing(t *testing.T) {
	t.Setenv(EnvHTTPPort, "")
	t.Setenv(EnvAllowCrossRestore, "")
	t.Setenv(EnvWatchEnabled, "")

	cfg, err := Load(filepath.Join(t.TempDir(), ConfigFileName))
	require.NoError(t, err)

	assert.Equal(t, ":19970", cfg.Server.HTTPPort)
	assert.Equal(t, 0.3, cfg.Similarity.DefaultThreshold)
	assert.Equal(t, 5, cfg.Similarity.DefaultLimit)
	assert.Equal(t, "0 3 * * *", cfg.Similarity.RetrainCron)
	assert.False(t, cfg.Versioning.AllowCrossDiscussionRestore)
	assert.True(t, cfg.Watcher.Enabled)
}

func TestLoad_YAMLFile(t *testing.T) {
	t.Setenv(EnvHTTPPort, "")
	path := filepath.Join(t.TempDir(), ConfigFileName)
	content := `
server:
  http_port: ":28000"
versioning:
  backup_before_restore: true
similarity:
  default_threshold: 0.5
  retrain_cron: "*/30 * * * *"
watcher:
  debounce_delay: 2s
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":28000", cfg.Server.HTTPPort)
	assert.True(t, cfg.Versioning.BackupBeforeRestore)
	assert.Equal(t, 0.5, cfg.Similarity.DefaultThreshold)
	assert.Equal(t, 5, cfg.Similarity.DefaultLimit, "未设置的字段保留默认值")
	assert.Equal(t, "*/30 * * * *", cfg.Similarity.RetrainCron)
	assert.Equal(t, 2*time.Second, cfg.Watcher.DebounceDelay)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte("server: [unclosed"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv(EnvHTTPPort, ":29970")
	t.Setenv(EnvAllowCrossRestore, "true")
	t.Setenv(EnvWatchEnabled, "false")
	t.Setenv(EnvRetrainCron, "")

	cfg, err := Load(filepath.Join(t.TempDir(), ConfigFileName))
	require.NoError(t, err)

	assert.Equal(t, ":29970", cfg.Server.HTTPPort)
	assert.True(t, cfg.Versioning.AllowCrossDiscussionRestore)
	assert.False(t, cfg.Watcher.Enabled)
	assert.Empty(t, cfg.Similarity.RetrainCron, "显式设置为空表示关闭定时重训")
}

func TestStorageConfig_Paths(t *testing.T) {
	s := StorageConfig{DataDir: "/data/rt"}

	assert.Equal(t, filepath.Join("/data/rt", "discussions"), s.DiscussionsDir())
	assert.Equal(t, filepath.Join("/data/rt", "snapshots"), s.SnapshotsDir())
	assert.Equal(t, filepath.Join("/data/rt", "branches"), s.BranchesDir())
	assert.Equal(t, filepath.Join("/data/rt", "similarity.db"), s.DBPath())
}

func TestStorageConfig_RootFallsBackToDataDir(t *testing.T) {
	ResetDataDir()
	t.Cleanup(ResetDataDir)
	t.Setenv(EnvDataDir, "/custom/root")

	assert.Equal(t, "/custom/root", StorageConfig{}.Root())
}
