package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// EnvHTTPPort HTTP 端口环境变量
	EnvHTTPPort = "ROUNDTABLE_HTTP_PORT"
	// EnvRetrainCron 相似度索引重训 cron 表达式环境变量
	EnvRetrainCron = "ROUNDTABLE_RETRAIN_CRON"
	// EnvAllowCrossRestore 是否允许跨讨论恢复
	EnvAllowCrossRestore = "ROUNDTABLE_ALLOW_CROSS_RESTORE"
	// EnvWatchEnabled 是否启用讨论文件监听
	EnvWatchEnabled = "ROUNDTABLE_WATCH"
	// ConfigFileName 数据目录下的配置文件名
	ConfigFileName = "config.yaml"
)

// Config 应用配置
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Storage    StorageConfig    `yaml:"storage"`
	Versioning VersioningConfig `yaml:"versioning"`
	Similarity SimilarityConfig `yaml:"similarity"`
	Watcher    WatcherConfig    `yaml:"watcher"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	HTTPPort string `yaml:"http_port"` // 固定端口，用于单例锁
}

// StorageConfig 存储配置
type StorageConfig struct {
	// DataDir 数据根目录，留空表示使用 GetDataDir()
	DataDir string `yaml:"data_dir"`
}

// VersioningConfig 快照/恢复/分支配置
type VersioningConfig struct {
	// AllowCrossDiscussionRestore 允许用其他讨论的快照恢复（默认拒绝）
	AllowCrossDiscussionRestore bool `yaml:"allow_cross_discussion_restore"`
	// BackupBeforeRestore 恢复前自动创建 pre-restore 快照
	BackupBeforeRestore bool `yaml:"backup_before_restore"`
}

// SimilarityConfig 相似度索引配置
type SimilarityConfig struct {
	DefaultThreshold float64 `yaml:"default_threshold"`
	DefaultLimit     int     `yaml:"default_limit"`
	// KeywordCount 计算共同关键词时每个讨论取的高权重词数量
	KeywordCount int `yaml:"keyword_count"`
	// RetrainCron 全量重训的 cron 表达式，留空表示不定时重训
	RetrainCron string `yaml:"retrain_cron"`
}

// WatcherConfig 讨论文件监听配置
type WatcherConfig struct {
	Enabled       bool          `yaml:"enabled"`
	DebounceDelay time.Duration `yaml:"debounce_delay"`
}

// Default 返回默认配置
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort: ":19970",
		},
		Versioning: VersioningConfig{
			AllowCrossDiscussionRestore: false,
			BackupBeforeRestore:         false,
		},
		Similarity: SimilarityConfig{
			DefaultThreshold: 0.3,
			DefaultLimit:     5,
			KeywordCount:     10,
			RetrainCron:      "0 3 * * *",
		},
		Watcher: WatcherConfig{
			Enabled:       true,
			DebounceDelay: 500 * time.Millisecond,
		},
	}
}

// NewConfig 创建配置：默认值 -> 数据目录下的 config.yaml -> 环境变量
func NewConfig() *Config {
	path := filepath.Join(GetDataDir(), ConfigFileName)
	cfg, err := Load(path)
	if err != nil {
		slog.Default().Warn("Failed to load config file, using defaults",
			"path", path,
			"error", err,
		)
		cfg = Default()
		applyEnv(cfg)
	}
	return cfg
}

// Load 从指定文件加载配置，文件不存在时使用默认值
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	applyEnv(cfg)
	return cfg, nil
}

// applyEnv 环境变量覆盖
func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvHTTPPort); v != "" {
		cfg.Server.HTTPPort = v
	}
	if v, ok := os.LookupEnv(EnvRetrainCron); ok {
		cfg.Similarity.RetrainCron = v
	}
	if v := os.Getenv(EnvAllowCrossRestore); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Versioning.AllowCrossDiscussionRestore = b
		}
	}
	if v := os.Getenv(EnvWatchEnabled); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Watcher.Enabled = b
		}
	}
}

// Root 数据根目录
func (s StorageConfig) Root() string {
	if s.DataDir != "" {
		return s.DataDir
	}
	return GetDataDir()
}

// DiscussionsDir 讨论文件目录
func (s StorageConfig) DiscussionsDir() string {
	return filepath.Join(s.Root(), "discussions")
}

// SnapshotsDir 快照文件目录
func (s StorageConfig) SnapshotsDir() string {
	return filepath.Join(s.Root(), "snapshots")
}

// BranchesDir 分支文件目录
func (s StorageConfig) BranchesDir() string {
	return filepath.Join(s.Root(), "branches")
}

// DBPath 相似度索引数据库路径
func (s StorageConfig) DBPath() string {
	return filepath.Join(s.Root(), "similarity.db")
}

// NewServerConfig 创建服务器配置
func NewServerConfig(cfg *Config) *ServerConfig {
	return &cfg.Server
}

// NewStorageConfig 创建存储配置
func NewStorageConfig(cfg *Config) *StorageConfig {
	return &cfg.Storage
}

// NewVersioningConfig 创建版本管理配置
func NewVersioningConfig(cfg *Config) *VersioningConfig {
	return &cfg.Versioning
}

// NewSimilarityConfig 创建相似度配置
func NewSimilarityConfig(cfg *Config) *SimilarityConfig {
	return &cfg.Similarity
}

// NewWatcherConfig 创建文件监听配置
func NewWatcherConfig(cfg *Config) *WatcherConfig {
	return &cfg.Watcher
}
