package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	appSimilarity "github.com/roundtable/backend/internal/application/similarity"
	"github.com/roundtable/backend/internal/domain/discussion"
)

// FindSimilarInput 相似讨论工具输入
type FindSimilarInput struct {
	DiscussionID string   `json:"discussion_id" jsonschema:"讨论 ID"`
	Threshold    *float64 `json:"threshold,omitempty" jsonschema:"最低相似度 0-1"`
	Limit        int      `json:"limit,omitempty" jsonschema:"最多返回条数"`
}

// SimilarItem 相似讨论
type SimilarItem struct {
	DiscussionID   string   `json:"discussion_id" jsonschema:"讨论 ID"`
	Topic          string   `json:"topic" jsonschema:"讨论主题"`
	Similarity     float64  `json:"similarity" jsonschema:"余弦相似度"`
	CommonKeywords []string `json:"common_keywords" jsonschema:"共同关键词"`
}

// FindSimilarOutput 相似讨论工具输出
type FindSimilarOutput struct {
	Results []SimilarItem `json:"results" jsonschema:"按相似度降序排列的结果"`
}

func (s *MCPServer) findSimilarTool(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input FindSimilarInput,
) (*mcp.CallToolResult, FindSimilarOutput, error) {
	if input.Threshold != nil && (*input.Threshold < 0 || *input.Threshold > 1) {
		return nil, FindSimilarOutput{}, fmt.Errorf("threshold 必须在 0 到 1 之间")
	}

	results, err := s.similarity.FindSimilar(ctx, input.DiscussionID, appSimilarity.FindSimilarOptions{
		Threshold: input.Threshold,
		Limit:     input.Limit,
	})
	if err != nil {
		return nil, FindSimilarOutput{}, fmt.Errorf("查找相似讨论失败: %w", err)
	}

	out := FindSimilarOutput{Results: make([]SimilarItem, 0, len(results))}
	for _, r := range results {
		out.Results = append(out.Results, SimilarItem{
			DiscussionID:   r.DiscussionID,
			Topic:          r.Topic,
			Similarity:     r.Similarity,
			CommonKeywords: r.CommonKeywords,
		})
	}
	return nil, out, nil
}

func ids(messages []discussion.Message) []string {
	out := make([]string, len(messages))
	for i, m := range messages {
		out[i] = m.ID
	}
	return out
}
