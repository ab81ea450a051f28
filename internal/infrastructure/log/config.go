package log

import (
	"os"
	"strconv"
	"strings"
)

// 日志相关环境变量
const (
	EnvLevel     = "ROUNDTABLE_LOG_LEVEL"
	EnvFormat    = "ROUNDTABLE_LOG_FORMAT"
	EnvOutput    = "ROUNDTABLE_LOG_OUTPUT"
	EnvAddSource = "ROUNDTABLE_LOG_SOURCE"
	EnvMode      = "ROUNDTABLE_ENV"
)

// Config 服务端与 roundtablectl 共用的日志配置
type Config struct {
	// Level debug/info/warn/error
	Level string `json:"level"`
	// Format console/json/text
	Format string `json:"format"`
	// Output stdout/stderr/file:/path/to/roundtable.log
	Output string `json:"output"`
	// AddSource 日志里附带源文件位置
	AddSource bool `json:"addSource"`
}

// NewConfigFromEnv 读取 ROUNDTABLE_LOG_* 环境变量
// ROUNDTABLE_ENV=development 时强制 debug 级别的控制台输出
func NewConfigFromEnv() *Config {
	cfg := &Config{
		Level:     envOr(EnvLevel, "info"),
		Format:    envOr(EnvFormat, "console"),
		Output:    envOr(EnvOutput, "stdout"),
		AddSource: envBool(EnvAddSource, false),
	}

	if cfg.development() {
		cfg.Level = "debug"
		cfg.Format = "console"
		cfg.AddSource = true
	}
	return cfg
}

func (c *Config) development() bool {
	return strings.EqualFold(os.Getenv(EnvMode), "development")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envBool 无法解析时返回 fallback
func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
