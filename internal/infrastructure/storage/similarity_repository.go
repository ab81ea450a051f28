package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/roundtable/backend/internal/domain/similarity"
)

const (
	metaDocumentCount = "document_count"
	metaTrainedAt     = "trained_at"
)

// SimilarityRepository 相似度模型 SQLite 仓储
// IDF 表与向量表分开存储，增量更新只改写单行向量
type SimilarityRepository struct {
	db *sql.DB
}

var _ similarity.ModelRepository = (*SimilarityRepository)(nil)

// NewSimilarityRepository 创建相似度模型仓储并初始化表结构
func NewSimilarityRepository(db *sql.DB) (*SimilarityRepository, error) {
	if err := initSimilarityTables(db); err != nil {
		return nil, err
	}
	return &SimilarityRepository{db: db}, nil
}

func initSimilarityTables(db *sql.DB) error {
	createTablesSQL := `
	CREATE TABLE IF NOT EXISTS similarity_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS similarity_idf (
		term TEXT PRIMARY KEY,
		weight REAL NOT NULL
	);
	CREATE TABLE IF NOT EXISTS similarity_vectors (
		discussion_id TEXT PRIMARY KEY,
		vector TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	);`

	if _, err := db.Exec(createTablesSQL); err != nil {
		return fmt.Errorf("failed to create similarity tables: %w", err)
	}
	return nil
}

// SaveModel 在一个事务内整体替换模型
func (r *SimilarityRepository) SaveModel(m similarity.Model) (err error) {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	for _, table := range []string{"similarity_meta", "similarity_idf", "similarity_vectors"} {
		if _, err = tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	if _, err = tx.Exec(`INSERT INTO similarity_meta (key, value) VALUES (?, ?), (?, ?)`,
		metaDocumentCount, strconv.Itoa(m.DocumentCount),
		metaTrainedAt, strconv.FormatInt(m.TrainedAt.UnixMilli(), 10),
	); err != nil {
		return fmt.Errorf("failed to save model meta: %w", err)
	}

	idfStmt, err := tx.Prepare(`INSERT INTO similarity_idf (term, weight) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare idf insert: %w", err)
	}
	defer idfStmt.Close()
	for term, w := range m.IDF {
		if _, err = idfStmt.Exec(term, w); err != nil {
			return fmt.Errorf("failed to save idf: %w", err)
		}
	}

	vecStmt, err := tx.Prepare(`INSERT INTO similarity_vectors (discussion_id, vector, updated_at) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare vector insert: %w", err)
	}
	defer vecStmt.Close()
	now := time.Now().UnixMilli()
	for id, v := range m.Vectors {
		data, mErr := json.Marshal(v)
		if mErr != nil {
			err = mErr
			return fmt.Errorf("failed to marshal vector: %w", err)
		}
		if _, err = vecStmt.Exec(id, string(data), now); err != nil {
			return fmt.Errorf("failed to save vector: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit model: %w", err)
	}
	return nil
}

// SaveVector 保存单个讨论向量
func (r *SimilarityRepository) SaveVector(id string, v similarity.Vector) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal vector: %w", err)
	}

	query := `
		INSERT OR REPLACE INTO similarity_vectors (discussion_id, vector, updated_at)
		VALUES (?, ?, ?)`
	if _, err := r.db.Exec(query, id, string(data), time.Now().UnixMilli()); err != nil {
		return fmt.Errorf("failed to save vector: %w", err)
	}
	return nil
}

// DeleteVector 删除单个讨论向量
func (r *SimilarityRepository) DeleteVector(id string) error {
	if _, err := r.db.Exec(`DELETE FROM similarity_vectors WHERE discussion_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete vector: %w", err)
	}
	return nil
}

// LoadModel 加载模型，从未训练过时返回 nil, nil
// 连接池只有一个连接，每次查询的 rows 必须在下一次查询前关闭
func (r *SimilarityRepository) LoadModel() (*similarity.Model, error) {
	meta, err := r.loadMeta()
	if err != nil {
		return nil, err
	}
	countStr, ok := meta[metaDocumentCount]
	if !ok {
		return nil, nil
	}

	m := &similarity.Model{}
	if m.DocumentCount, err = strconv.Atoi(countStr); err != nil {
		return nil, fmt.Errorf("invalid document count %q: %w", countStr, err)
	}
	if ms, err := strconv.ParseInt(meta[metaTrainedAt], 10, 64); err == nil {
		m.TrainedAt = time.UnixMilli(ms).UTC()
	}
	if m.IDF, err = r.loadIDF(); err != nil {
		return nil, err
	}
	if m.Vectors, err = r.loadVectors(); err != nil {
		return nil, err
	}
	return m, nil
}

func (r *SimilarityRepository) loadMeta() (map[string]string, error) {
	rows, err := r.db.Query(`SELECT key, value FROM similarity_meta`)
	if err != nil {
		return nil, fmt.Errorf("failed to query model meta: %w", err)
	}
	defer rows.Close()

	meta := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("failed to scan model meta: %w", err)
		}
		meta[k] = v
	}
	return meta, rows.Err()
}

func (r *SimilarityRepository) loadIDF() (map[string]float64, error) {
	rows, err := r.db.Query(`SELECT term, weight FROM similarity_idf`)
	if err != nil {
		return nil, fmt.Errorf("failed to query idf: %w", err)
	}
	defer rows.Close()

	idf := make(map[string]float64)
	for rows.Next() {
		var term string
		var w float64
		if err := rows.Scan(&term, &w); err != nil {
			return nil, fmt.Errorf("failed to scan idf: %w", err)
		}
		idf[term] = w
	}
	return idf, rows.Err()
}

func (r *SimilarityRepository) loadVectors() (map[string]similarity.Vector, error) {
	rows, err := r.db.Query(`SELECT discussion_id, vector FROM similarity_vectors`)
	if err != nil {
		return nil, fmt.Errorf("failed to query vectors: %w", err)
	}
	defer rows.Close()

	vectors := make(map[string]similarity.Vector)
	for rows.Next() {
		var id, data string
		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("failed to scan vector: %w", err)
		}
		var v similarity.Vector
		if err := json.Unmarshal([]byte(data), &v); err != nil {
			return nil, fmt.Errorf("failed to parse vector %s: %w", id, err)
		}
		vectors[id] = v
	}
	return vectors, rows.Err()
}
