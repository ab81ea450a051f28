package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{name: "英文标点与大小写", text: "Hello, World! a b", want: []string{"hello", "world"}},
		{name: "停用词", text: "the quick fox", want: []string{"quick", "fox"}},
		{name: "中文双字切分", text: "微服务", want: []string{"微服", "服务"}},
		{name: "中英混排", text: "Go语言", want: []string{"go", "语言"}},
		{name: "单个汉字被丢弃", text: "好 ok", want: []string{"ok"}},
		{name: "中文停用词", text: "午餐吃什么", want: []string{"午餐", "餐吃", "吃什"}},
		{name: "数字保留", text: "v2 2024", want: []string{"v2", "2024"}},
		{name: "空文本", text: "  ,.;  ", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokenize(tt.text))
		})
	}
}

func trainedIndex() *Index {
	idx := NewIndex()
	idx.Train(map[string]string{
		"d1": "微服务架构评估",
		"d2": "是否应该采用微服务",
		"d3": "午餐吃什么",
	})
	return idx
}

func TestIndex_SelfSimilarityIsOne(t *testing.T) {
	idx := trainedIndex()

	for _, id := range []string{"d1", "d2", "d3"} {
		assert.Equal(t, 1.0, idx.CalculateSimilarity(id, id), id)
	}
}

func TestIndex_SingleDocumentCorpus(t *testing.T) {
	idx := NewIndex()
	idx.Train(map[string]string{"only": "distributed consensus"})

	assert.True(t, idx.HasVector("only"))
	assert.Equal(t, 1.0, idx.CalculateSimilarity("only", "only"))
}

func TestIndex_RelatedTopicsScoreHigher(t *testing.T) {
	idx := trainedIndex()

	related := idx.CalculateSimilarity("d1", "d2")
	unrelated := idx.CalculateSimilarity("d1", "d3")

	assert.Greater(t, related, unrelated)
	assert.Greater(t, related, 0.0)
	assert.Equal(t, 0.0, unrelated)
	assert.InDelta(t, related, idx.CalculateSimilarity("d2", "d1"), 1e-12, "相似度应对称")
}

func TestIndex_MissingOrEmptyVector(t *testing.T) {
	idx := NewIndex()
	idx.Train(map[string]string{"d1": "consensus protocol", "empty": "  !!"})

	assert.Equal(t, 0.0, idx.CalculateSimilarity("d1", "missing"))
	assert.Equal(t, 0.0, idx.CalculateSimilarity("empty", "empty"))
	assert.False(t, idx.HasVector("empty"))
}

func TestIndex_IdenticalDocuments(t *testing.T) {
	idx := NewIndex()
	idx.Train(map[string]string{"a": "raft paxos quorum", "b": "raft paxos quorum", "c": "lunch menu"})

	assert.InDelta(t, 1.0, idx.CalculateSimilarity("a", "b"), 1e-9)
	assert.LessOrEqual(t, idx.CalculateSimilarity("a", "b"), 1.0)
}

func TestIndex_TrainReplacesVectors(t *testing.T) {
	idx := trainedIndex()
	idx.Train(map[string]string{"x": "kubernetes operators"})

	assert.False(t, idx.HasVector("d1"))
	assert.True(t, idx.HasVector("x"))
	assert.Equal(t, 1, idx.Stats().DocumentCount)
}

func TestIndex_UpdateDiscussionUsesStaleIDF(t *testing.T) {
	idx := trainedIndex()
	before := idx.Stats()

	idx.UpdateDiscussion("d4", "微服务 kubernetes")

	vec := idx.Vector("d4")
	assert.Contains(t, vec, "微服")
	assert.Contains(t, vec, "服务")
	assert.NotContains(t, vec, "kubernetes", "训练后出现的新词在下次训练前权重为 0")
	assert.Equal(t, before.DocumentCount, idx.Stats().DocumentCount, "增量更新不改变文档总数")
	assert.Greater(t, idx.CalculateSimilarity("d4", "d1"), 0.0)
}

func TestIndex_UpdateDiscussionWithoutTraining(t *testing.T) {
	idx := NewIndex()
	idx.UpdateDiscussion("d1", "raft consensus")

	assert.False(t, idx.HasVector("d1"))
	assert.Equal(t, 0.0, idx.CalculateSimilarity("d1", "d1"))
}

func TestIndex_RemoveDiscussion(t *testing.T) {
	idx := trainedIndex()
	idx.RemoveDiscussion("d2")

	assert.False(t, idx.HasVector("d2"))
	assert.Equal(t, 0.0, idx.CalculateSimilarity("d1", "d2"))
}

func TestIndex_FindSimilar(t *testing.T) {
	idx := NewIndex()
	idx.Train(map[string]string{
		"d1": "微服务架构评估",
		"d2": "是否应该采用微服务",
		"d3": "午餐吃什么",
		"d4": "微服务架构的拆分与评估",
	})
	candidates := []string{"d1", "d2", "d3", "d4"}

	matches := idx.FindSimilar("d1", candidates, 0.01, 10, 10)

	require.Len(t, matches, 2)
	for _, m := range matches {
		assert.NotEqual(t, "d1", m.ID, "结果不应包含查询自身")
	}
	assert.Equal(t, "d4", matches[0].ID)
	assert.Equal(t, "d2", matches[1].ID)
	assert.GreaterOrEqual(t, matches[0].Similarity, matches[1].Similarity)
	assert.Contains(t, matches[1].CommonKeywords, "服务")
}

func TestIndex_FindSimilarThresholdAndLimit(t *testing.T) {
	idx := NewIndex()
	idx.Train(map[string]string{
		"q":  "raft consensus leader election",
		"a":  "raft consensus leader",
		"b":  "raft consensus",
		"c":  "raft",
		"no": "pizza pasta",
	})
	candidates := []string{"q", "a", "b", "c", "no"}

	all := idx.FindSimilar("q", candidates, 0, 0, 5)
	assert.Len(t, all, 4, "threshold 0 保留所有其他讨论")

	limited := idx.FindSimilar("q", candidates, 0, 2, 5)
	require.Len(t, limited, 2)
	assert.Equal(t, "a", limited[0].ID)

	strict := idx.FindSimilar("q", candidates, 0.99, 10, 5)
	assert.Empty(t, strict)
}

func TestIndex_ExportLoadRoundTrip(t *testing.T) {
	idx := trainedIndex()
	model := idx.Export()

	restored := NewIndex()
	restored.Load(model)

	assert.Equal(t, idx.Stats().VocabularySize, restored.Stats().VocabularySize)
	assert.InDelta(t, idx.CalculateSimilarity("d1", "d2"), restored.CalculateSimilarity("d1", "d2"), 1e-12)

	// 导出内容与索引不共享引用
	model.Vectors["d1"]["微服"] = 999
	assert.NotEqual(t, 999.0, idx.Vector("d1")["微服"])
}

func TestIndex_TopTerms(t *testing.T) {
	idx := NewIndex()
	idx.Train(map[string]string{"d1": "raft raft raft paxos", "d2": "paxos"})

	terms := idx.TopTerms("d1", 1)
	assert.Equal(t, []string{"raft"}, terms)
	assert.Empty(t, idx.TopTerms("missing", 3))
}
