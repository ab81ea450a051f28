package handler

import (
	"github.com/gin-gonic/gin"
)

// CreateSnapshotRequest 创建快照请求
type CreateSnapshotRequest struct {
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Type        string   `json:"type" example:"manual"`
}

// RestoreRequest 恢复请求
type RestoreRequest struct {
	SnapshotID           string `json:"snapshotId"`
	Mode                 string `json:"mode" example:"replace"`
	AllowCrossDiscussion bool   `json:"allowCrossDiscussion"`
	IncludeContext       bool   `json:"includeContext"`
	Backup               *bool  `json:"backup"`
}

// CreateBranchRequest 创建分支请求
type CreateBranchRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	SnapshotID  string `json:"snapshotId"`
}

// MergeBranchRequest 合并分支请求
type MergeBranchRequest struct {
	IncludeContext bool `json:"includeContext"`
}

// MergeDiscussionsRequest 合并讨论请求
type MergeDiscussionsRequest struct {
	SourceIDs []string `json:"sourceIds"`
}

// KeywordsResponse 关键词响应
type KeywordsResponse struct {
	DiscussionID string   `json:"discussionId"`
	Keywords     []string `json:"keywords"`
}

// TrainResponse 训练结果
type TrainResponse struct {
	Documents  int `json:"documents"`
	Vocabulary int `json:"vocabulary"`
}

// bindOptionalJSON 请求体可以为空
func bindOptionalJSON(c *gin.Context, obj interface{}) error {
	if c.Request.ContentLength == 0 {
		return nil
	}
	return c.ShouldBindJSON(obj)
}
