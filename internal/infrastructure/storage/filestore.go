package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// CurrentSchemaVersion 当前文件记录的 schema 版本
const CurrentSchemaVersion = 1

// errInvalidID 非法的实体 ID（为空或包含路径分隔符）
var errInvalidID = errors.New("invalid record id")

// fileStore 每个实体一个 JSON 文件：<dir>/<id>.json
type fileStore struct {
	dir string
}

func newFileStore(dir string) (*fileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return &fileStore{dir: dir}, nil
}

// validID ID 只能作为单个文件名使用
func validID(id string) bool {
	if id == "" || id == "." || id == ".." {
		return false
	}
	return !strings.ContainsAny(id, `/\`) && !strings.Contains(id, "..")
}

func (s *fileStore) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

// write 先写临时文件再 rename，读者不会看到写了一半的文件
func (s *fileStore) write(id string, record any) error {
	if !validID(id) {
		return fmt.Errorf("%w: %q", errInvalidID, id)
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal record %s: %w", id, err)
	}

	tmp, err := os.CreateTemp(s.dir, "."+id+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpName, s.path(id)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to rename record file: %w", err)
	}
	return nil
}

// read 读取并解析记录，文件不存在时返回 found=false
func (s *fileStore) read(id string, record any) (found bool, err error) {
	if !validID(id) {
		return false, nil
	}
	return readRecordFile(s.path(id), record)
}

func readRecordFile(path string, record any) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, record); err != nil {
		return false, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return true, nil
}

// remove 删除记录文件，返回文件是否存在
func (s *fileStore) remove(id string) (bool, error) {
	if !validID(id) {
		return false, nil
	}
	if err := os.Remove(s.path(id)); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to remove record %s: %w", id, err)
	}
	return true, nil
}

// ids 列出目录中的全部记录 ID（忽略临时文件和其他文件）
func (s *fileStore) ids() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read directory %s: %w", s.dir, err)
	}

	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if id, ok := RecordID(e.Name()); ok && !e.IsDir() {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// RecordID 从文件名解析记录 ID，临时文件和非 .json 文件返回 false
func RecordID(name string) (string, bool) {
	name = filepath.Base(name)
	if strings.HasPrefix(name, ".") || !strings.HasSuffix(name, ".json") {
		return "", false
	}
	id := strings.TrimSuffix(name, ".json")
	return id, validID(id)
}

// checkSchema 拒绝比当前程序更新的记录
func checkSchema(kind, id string, version int) error {
	if version > CurrentSchemaVersion {
		return fmt.Errorf("%s %s has unsupported schema version %d", kind, id, version)
	}
	return nil
}
