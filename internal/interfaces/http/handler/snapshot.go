package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/roundtable/backend/internal/application/versioning"
	domain "github.com/roundtable/backend/internal/domain/versioning"
	"github.com/roundtable/backend/internal/interfaces/http/response"
)

// SnapshotHandler 快照与恢复处理器
type SnapshotHandler struct {
	snapshots *versioning.SnapshotService
	restore   *versioning.RestoreService
}

// NewSnapshotHandler 创建快照处理器
func NewSnapshotHandler(snapshots *versioning.SnapshotService, restore *versioning.RestoreService) *SnapshotHandler {
	return &SnapshotHandler{snapshots: snapshots, restore: restore}
}

// Create 创建快照
// @Summary 创建快照
// @Tags 快照
// @Accept json
// @Produce json
// @Param id path string true "讨论 ID"
// @Param body body CreateSnapshotRequest false "快照信息"
// @Success 201 {object} domain.Snapshot
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /discussion/{id}/snapshot [post]
func (h *SnapshotHandler) Create(c *gin.Context) {
	var req CreateSnapshotRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	snap, err := h.snapshots.CreateSnapshot(c.Request.Context(), c.Param("id"), versioning.CreateSnapshotOptions{
		Description: req.Description,
		Tags:        req.Tags,
		Type:        domain.SnapshotType(req.Type),
	})
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, snap)
}

// List 获取讨论的快照列表
// @Summary 快照列表
// @Tags 快照
// @Produce json
// @Param id path string true "讨论 ID"
// @Success 200 {array} domain.Snapshot
// @Router /discussion/{id}/snapshots [get]
func (h *SnapshotHandler) List(c *gin.Context) {
	list, err := h.snapshots.GetSnapshots(c.Param("id"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, list)
}

// Get 获取快照
// @Summary 快照详情
// @Tags 快照
// @Produce json
// @Param id path string true "快照 ID"
// @Success 200 {object} domain.Snapshot
// @Failure 404 {object} response.ErrorResponse
// @Router /snapshot/{id} [get]
func (h *SnapshotHandler) Get(c *gin.Context) {
	id := c.Param("id")
	snap, err := h.snapshots.GetSnapshot(id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	if snap == nil {
		response.Fail(c, fmt.Errorf("%w: %s", domain.ErrSnapshotNotFound, id))
		return
	}
	response.Success(c, snap)
}

// Delete 删除快照
// @Summary 删除快照
// @Tags 快照
// @Produce json
// @Param id path string true "快照 ID"
// @Success 200 {object} response.SuccessResponse
// @Router /snapshot/{id} [delete]
func (h *SnapshotHandler) Delete(c *gin.Context) {
	deleted, err := h.snapshots.DeleteSnapshot(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, response.SuccessResponse{Success: deleted})
}

// Compare 比较同一讨论的两个快照
// @Summary 比较快照
// @Tags 快照
// @Produce json
// @Param id path string true "讨论 ID"
// @Param from query string true "起始快照 ID"
// @Param to query string true "目标快照 ID"
// @Success 200 {object} domain.SnapshotDiff
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /discussion/{id}/compare [get]
func (h *SnapshotHandler) Compare(c *gin.Context) {
	diff, err := h.snapshots.CompareSnapshots(c.Param("id"), c.Query("from"), c.Query("to"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, diff)
}

// DiffWithCurrent 比较快照与讨论当前状态
// @Summary 快照与当前状态的差异
// @Tags 快照
// @Produce json
// @Param id path string true "讨论 ID"
// @Param snapshotId path string true "快照 ID"
// @Success 200 {object} domain.SnapshotDiff
// @Failure 404 {object} response.ErrorResponse
// @Router /discussion/{id}/snapshot/{snapshotId}/diff [get]
func (h *SnapshotHandler) DiffWithCurrent(c *gin.Context) {
	diff, err := h.snapshots.CompareWithCurrent(c.Param("id"), c.Param("snapshotId"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, diff)
}

// Restore 从快照恢复讨论
// @Summary 恢复讨论
// @Tags 快照
// @Accept json
// @Produce json
// @Param id path string true "讨论 ID"
// @Param body body RestoreRequest true "恢复参数"
// @Success 200 {object} versioning.RestoreResult
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /discussion/{id}/restore [post]
func (h *SnapshotHandler) Restore(c *gin.Context) {
	var req RestoreRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	result, err := h.restore.Restore(c.Request.Context(), c.Param("id"), req.SnapshotID, versioning.RestoreOptions{
		Mode:                 versioning.RestoreMode(req.Mode),
		AllowCrossDiscussion: req.AllowCrossDiscussion,
		IncludeContext:       req.IncludeContext,
		Backup:               req.Backup,
	})
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, result)
}
