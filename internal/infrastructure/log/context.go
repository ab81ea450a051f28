package log

import (
	"context"
	"log/slog"
)

type contextKey string

// 上下文键定义
const (
	// RequestContextID HTTP 请求 ID
	RequestContextID contextKey = "request_id"

	// DiscussionContextID 讨论 ID
	DiscussionContextID contextKey = "discussion_id"

	// SnapshotContextID 快照 ID
	SnapshotContextID contextKey = "snapshot_id"

	// BranchContextID 分支 ID
	BranchContextID contextKey = "branch_id"
)

var contextKeys = []contextKey{
	RequestContextID,
	DiscussionContextID,
	SnapshotContextID,
	BranchContextID,
}

// WithRequestID 在上下文中添加请求 ID
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestContextID, requestID)
}

// WithDiscussionID 在上下文中添加讨论 ID
func WithDiscussionID(ctx context.Context, discussionID string) context.Context {
	return context.WithValue(ctx, DiscussionContextID, discussionID)
}

// WithSnapshotID 在上下文中添加快照 ID
func WithSnapshotID(ctx context.Context, snapshotID string) context.Context {
	return context.WithValue(ctx, SnapshotContextID, snapshotID)
}

// WithBranchID 在上下文中添加分支 ID
func WithBranchID(ctx context.Context, branchID string) context.Context {
	return context.WithValue(ctx, BranchContextID, branchID)
}

// LogCtxFromContext 从上下文中提取日志字段
func LogCtxFromContext(ctx context.Context) []slog.Attr {
	var attrs []slog.Attr
	for _, key := range contextKeys {
		if v, ok := ctx.Value(key).(string); ok && v != "" {
			attrs = append(attrs, slog.String(string(key), v))
		}
	}
	return attrs
}

// FromContext 返回附带上下文字段的 logger
func FromContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	attrs := LogCtxFromContext(ctx)
	if len(attrs) == 0 {
		return logger
	}
	args := make([]any, 0, len(attrs))
	for _, a := range attrs {
		args = append(args, a)
	}
	return logger.With(args...)
}
