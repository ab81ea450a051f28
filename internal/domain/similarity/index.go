package similarity

import (
	"math"
	"sort"
	"sync"
	"time"
)

// Vector 稀疏词权重向量
type Vector map[string]float64

// norm 向量模长
func (v Vector) norm() float64 {
	var sum float64
	for _, w := range v {
		sum += w * w
	}
	return math.Sqrt(sum)
}

// Model 可持久化的索引内容
type Model struct {
	DocumentCount int                `json:"documentCount"`
	IDF           map[string]float64 `json:"idf"`
	Vectors       map[string]Vector  `json:"vectors"`
	TrainedAt     time.Time          `json:"trainedAt"`
}

// Stats 索引统计
type Stats struct {
	DocumentCount  int       `json:"documentCount"`
	VocabularySize int       `json:"vocabularySize"`
	VectorCount    int       `json:"vectorCount"`
	TrainedAt      time.Time `json:"trainedAt"`
}

// Match 相似检索结果
type Match struct {
	ID             string   `json:"discussionId"`
	Similarity     float64  `json:"similarity"`
	CommonKeywords []string `json:"commonKeywords"`
}

// Index TF-IDF 相似度索引
//
// Train 全量重建 IDF 和全部向量；UpdateDiscussion 只用上次训练的 IDF 重算单个向量。
// 训练后新出现的词 IDF 为 0，直到下一次 Train 才会计入，文档总数也只在 Train 时更新。
type Index struct {
	mu        sync.RWMutex
	docCount  int
	idf       map[string]float64
	vectors   map[string]Vector
	trainedAt time.Time
}

// NewIndex 创建空索引
func NewIndex() *Index {
	return &Index{
		idf:     make(map[string]float64),
		vectors: make(map[string]Vector),
	}
}

// Train 基于整个语料训练，替换之前的全部向量
func (idx *Index) Train(corpus map[string]string) {
	tfs := make(map[string]map[string]float64, len(corpus))
	df := make(map[string]int)
	for id, text := range corpus {
		tf := termFrequencies(Tokenize(text))
		tfs[id] = tf
		for term := range tf {
			df[term]++
		}
	}

	n := float64(len(corpus))
	idf := make(map[string]float64, len(df))
	for term, count := range df {
		// 平滑 IDF，保证单文档语料中的词权重仍为正
		idf[term] = math.Log((1+n)/(1+float64(count))) + 1
	}

	vectors := make(map[string]Vector, len(tfs))
	for id, tf := range tfs {
		vectors[id] = weigh(tf, idf)
	}

	idx.mu.Lock()
	idx.docCount = len(corpus)
	idx.idf = idf
	idx.vectors = vectors
	idx.trainedAt = time.Now()
	idx.mu.Unlock()
}

// UpdateDiscussion 增量更新单个讨论的向量，使用最近一次训练的 IDF
func (idx *Index) UpdateDiscussion(id, text string) {
	tf := termFrequencies(Tokenize(text))

	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.vectors[id] = weigh(tf, idx.idf)
}

// RemoveDiscussion 删除讨论的向量
func (idx *Index) RemoveDiscussion(id string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	delete(idx.vectors, id)
}

// HasVector 是否存在非空向量
func (idx *Index) HasVector(id string) bool {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.vectors[id]) > 0
}

// CalculateSimilarity 计算两个讨论的余弦相似度，取值 [0,1]
func (idx *Index) CalculateSimilarity(id1, id2 string) float64 {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.similarityLocked(id1, id2)
}

func (idx *Index) similarityLocked(id1, id2 string) float64 {
	v1, v2 := idx.vectors[id1], idx.vectors[id2]
	if len(v1) == 0 || len(v2) == 0 {
		return 0
	}
	if id1 == id2 {
		return 1
	}
	return cosine(v1, v2)
}

// TopTerms 返回权重最高的 n 个词
func (idx *Index) TopTerms(id string, n int) []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return topTerms(idx.vectors[id], n)
}

// FindSimilar 在候选集合中查找与 id 相似的讨论
// 排除 id 本身，过滤 similarity < threshold，按相似度降序，limit <= 0 表示不截断
func (idx *Index) FindSimilar(id string, candidates []string, threshold float64, limit, keywordCount int) []Match {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	queryTerms := topTerms(idx.vectors[id], keywordCount)
	matches := make([]Match, 0)
	for _, other := range candidates {
		if other == id {
			continue
		}
		score := idx.similarityLocked(id, other)
		if score < threshold {
			continue
		}
		matches = append(matches, Match{
			ID:             other,
			Similarity:     score,
			CommonKeywords: intersect(queryTerms, topTerms(idx.vectors[other], keywordCount)),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Similarity != matches[j].Similarity {
			return matches[i].Similarity > matches[j].Similarity
		}
		return matches[i].ID < matches[j].ID
	})
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

// Stats 返回索引统计
func (idx *Index) Stats() Stats {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return Stats{
		DocumentCount:  idx.docCount,
		VocabularySize: len(idx.idf),
		VectorCount:    len(idx.vectors),
		TrainedAt:      idx.trainedAt,
	}
}

// Export 导出索引内容（深拷贝）
func (idx *Index) Export() Model {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	idf := make(map[string]float64, len(idx.idf))
	for term, w := range idx.idf {
		idf[term] = w
	}
	vectors := make(map[string]Vector, len(idx.vectors))
	for id, v := range idx.vectors {
		vectors[id] = v.clone()
	}
	return Model{
		DocumentCount: idx.docCount,
		IDF:           idf,
		Vectors:       vectors,
		TrainedAt:     idx.trainedAt,
	}
}

// Load 用持久化的内容替换索引
func (idx *Index) Load(m Model) {
	idf := m.IDF
	if idf == nil {
		idf = make(map[string]float64)
	}
	vectors := make(map[string]Vector, len(m.Vectors))
	for id, v := range m.Vectors {
		vectors[id] = v.clone()
	}

	idx.mu.Lock()
	idx.docCount = m.DocumentCount
	idx.idf = idf
	idx.vectors = vectors
	idx.trainedAt = m.TrainedAt
	idx.mu.Unlock()
}

// Vector 返回讨论向量的副本
func (idx *Index) Vector(id string) Vector {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.vectors[id].clone()
}

func (v Vector) clone() Vector {
	if v == nil {
		return nil
	}
	out := make(Vector, len(v))
	for term, w := range v {
		out[term] = w
	}
	return out
}

func termFrequencies(tokens []string) map[string]float64 {
	tf := make(map[string]float64)
	if len(tokens) == 0 {
		return tf
	}
	for _, tok := range tokens {
		tf[tok]++
	}
	total := float64(len(tokens))
	for term := range tf {
		tf[term] /= total
	}
	return tf
}

// weigh tf × idf；不在 IDF 表中的词权重为 0，直接丢弃
func weigh(tf map[string]float64, idf map[string]float64) Vector {
	v := make(Vector, len(tf))
	for term, f := range tf {
		w, ok := idf[term]
		if !ok || w == 0 {
			continue
		}
		v[term] = f * w
	}
	return v
}

func cosine(a, b Vector) float64 {
	// 遍历较小的向量
	if len(a) > len(b) {
		a, b = b, a
	}
	var dot float64
	for term, wa := range a {
		if wb, ok := b[term]; ok {
			dot += wa * wb
		}
	}
	na, nb := a.norm(), b.norm()
	if na == 0 || nb == 0 {
		return 0
	}
	score := dot / (na * nb)
	return math.Max(0, math.Min(1, score))
}

func topTerms(v Vector, n int) []string {
	if len(v) == 0 || n <= 0 {
		return []string{}
	}
	terms := make([]string, 0, len(v))
	for term := range v {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if v[terms[i]] != v[terms[j]] {
			return v[terms[i]] > v[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if len(terms) > n {
		terms = terms[:n]
	}
	return terms
}

func intersect(a, b []string) []string {
	set := make(map[string]struct{}, len(b))
	for _, t := range b {
		set[t] = struct{}{}
	}
	out := make([]string, 0)
	for _, t := range a {
		if _, ok := set[t]; ok {
			out = append(out, t)
		}
	}
	return out
}
