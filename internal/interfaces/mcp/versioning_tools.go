package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	appVersioning "github.com/roundtable/backend/internal/application/versioning"
	domain "github.com/roundtable/backend/internal/domain/versioning"
)

// CreateSnapshotInput 创建快照工具输入
type CreateSnapshotInput struct {
	DiscussionID string   `json:"discussion_id" jsonschema:"讨论 ID"`
	Description  string   `json:"description,omitempty" jsonschema:"快照说明"`
	Tags         []string `json:"tags,omitempty" jsonschema:"标签"`
}

// CreateSnapshotOutput 创建快照工具输出
type CreateSnapshotOutput struct {
	SnapshotID   string `json:"snapshot_id" jsonschema:"快照 ID"`
	Version      int    `json:"version" jsonschema:"版本号"`
	MessageCount int    `json:"message_count" jsonschema:"快照中的消息数"`
}

// ListSnapshotsInput 快照列表工具输入
type ListSnapshotsInput struct {
	DiscussionID string `json:"discussion_id" jsonschema:"讨论 ID"`
}

// SnapshotInfo 快照概要
type SnapshotInfo struct {
	ID           string `json:"id" jsonschema:"快照 ID"`
	Version      int    `json:"version" jsonschema:"版本号"`
	Timestamp    string `json:"timestamp" jsonschema:"创建时间（RFC3339）"`
	Type         string `json:"type" jsonschema:"manual/auto/pre-restore"`
	Description  string `json:"description,omitempty" jsonschema:"快照说明"`
	MessageCount int    `json:"message_count" jsonschema:"消息数"`
}

// ListSnapshotsOutput 快照列表工具输出
type ListSnapshotsOutput struct {
	Snapshots []SnapshotInfo `json:"snapshots" jsonschema:"快照列表，按版本升序"`
}

// CompareSnapshotsInput 比较快照工具输入
type CompareSnapshotsInput struct {
	DiscussionID string `json:"discussion_id" jsonschema:"讨论 ID"`
	From         string `json:"from" jsonschema:"起始快照 ID"`
	To           string `json:"to" jsonschema:"目标快照 ID"`
}

// ModifiedMessageDiff 修改消息的统一 diff
type ModifiedMessageDiff struct {
	MessageID string `json:"message_id" jsonschema:"消息 ID"`
	Diff      string `json:"diff" jsonschema:"统一 diff 格式的内容差异"`
}

// CompareSnapshotsOutput 比较快照工具输出
type CompareSnapshotsOutput struct {
	Summary        string                `json:"summary" jsonschema:"差异摘要"`
	Added          []string              `json:"added" jsonschema:"新增消息 ID"`
	Removed        []string              `json:"removed" jsonschema:"删除消息 ID"`
	Modified       []ModifiedMessageDiff `json:"modified" jsonschema:"修改的消息"`
	ContextChanged []string              `json:"context_changed" jsonschema:"变化的上下文字段"`
}

func (s *MCPServer) createSnapshotTool(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input CreateSnapshotInput,
) (*mcp.CallToolResult, CreateSnapshotOutput, error) {
	snap, err := s.snapshots.CreateSnapshot(ctx, input.DiscussionID, appVersioning.CreateSnapshotOptions{
		Description: input.Description,
		Tags:        input.Tags,
	})
	if err != nil {
		return nil, CreateSnapshotOutput{}, fmt.Errorf("创建快照失败: %w", err)
	}
	return nil, CreateSnapshotOutput{
		SnapshotID:   snap.ID,
		Version:      snap.Version,
		MessageCount: len(snap.Data.Messages),
	}, nil
}

func (s *MCPServer) listSnapshotsTool(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input ListSnapshotsInput,
) (*mcp.CallToolResult, ListSnapshotsOutput, error) {
	list, err := s.snapshots.GetSnapshots(input.DiscussionID)
	if err != nil {
		return nil, ListSnapshotsOutput{}, fmt.Errorf("获取快照列表失败: %w", err)
	}

	out := ListSnapshotsOutput{Snapshots: make([]SnapshotInfo, 0, len(list))}
	for _, snap := range list {
		out.Snapshots = append(out.Snapshots, SnapshotInfo{
			ID:           snap.ID,
			Version:      snap.Version,
			Timestamp:    snap.Timestamp.Format(time.RFC3339),
			Type:         string(snap.Type),
			Description:  snap.Description,
			MessageCount: len(snap.Data.Messages),
		})
	}
	return nil, out, nil
}

func (s *MCPServer) compareSnapshotsTool(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input CompareSnapshotsInput,
) (*mcp.CallToolResult, CompareSnapshotsOutput, error) {
	diff, err := s.snapshots.CompareSnapshots(input.DiscussionID, input.From, input.To)
	if err != nil {
		return nil, CompareSnapshotsOutput{}, fmt.Errorf("比较快照失败: %w", err)
	}

	out := CompareSnapshotsOutput{
		Summary:        diff.Summary,
		Added:          ids(diff.MessageChanges.Added),
		Removed:        ids(diff.MessageChanges.Removed),
		Modified:       make([]ModifiedMessageDiff, 0, len(diff.MessageChanges.Modified)),
		ContextChanged: diff.ContextChanges.Changed(),
	}
	for _, m := range diff.MessageChanges.Modified {
		unified, err := domain.FormatUnified(m.LineDiff)
		if err != nil {
			s.logger.Warn("Failed to render unified diff", "message_id", m.ID, "error", err)
			continue
		}
		out.Modified = append(out.Modified, ModifiedMessageDiff{MessageID: m.ID, Diff: unified})
	}
	return nil, out, nil
}
