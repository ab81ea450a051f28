package config

import (
	"os"
	"path/filepath"
	"sync"
)

const (
	// EnvDataDir 数据目录环境变量名
	EnvDataDir = "ROUNDTABLE_DATA_DIR"
	// DefaultDataDirName 默认数据目录名
	DefaultDataDirName = ".roundtable"
)

var (
	dataDirOnce sync.Once
	dataDirPath string
)

// GetDataDir 获取 roundtable 数据根目录
// 优先读取 ROUNDTABLE_DATA_DIR 环境变量，默认 ~/.roundtable/
// 讨论、快照、分支、索引数据库的路径都从这里派生
func GetDataDir() string {
	dataDirOnce.Do(func() {
		if dir := os.Getenv(EnvDataDir); dir != "" {
			dataDirPath = dir
		} else {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				// 回退到当前目录
				dataDirPath = DefaultDataDirName
				return
			}
			dataDirPath = filepath.Join(homeDir, DefaultDataDirName)
		}
	})
	return dataDirPath
}

// ResetDataDir 重置数据目录缓存（仅用于测试）
func ResetDataDir() {
	dataDirOnce = sync.Once{}
	dataDirPath = ""
}

// EnsureDirs 确保数据目录下的子目录存在
func EnsureDirs(dirs ...string) error {
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}
