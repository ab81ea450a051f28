package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/roundtable/backend/internal/application/versioning"
	domain "github.com/roundtable/backend/internal/domain/versioning"
	"github.com/roundtable/backend/internal/interfaces/http/response"
)

// BranchHandler 分支处理器
type BranchHandler struct {
	branches *versioning.BranchService
}

// NewBranchHandler 创建分支处理器
func NewBranchHandler(branches *versioning.BranchService) *BranchHandler {
	return &BranchHandler{branches: branches}
}

// Create 创建分支
// @Summary 创建分支
// @Tags 分支
// @Accept json
// @Produce json
// @Param id path string true "源讨论 ID"
// @Param body body CreateBranchRequest false "分支信息"
// @Success 201 {object} domain.Branch
// @Failure 404 {object} response.ErrorResponse
// @Router /discussion/{id}/branch [post]
func (h *BranchHandler) Create(c *gin.Context) {
	var req CreateBranchRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	branch, err := h.branches.CreateBranch(c.Request.Context(), c.Param("id"), versioning.CreateBranchOptions{
		Name:        req.Name,
		Description: req.Description,
		SnapshotID:  req.SnapshotID,
	})
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, branch)
}

// List 获取讨论的分支列表
// @Summary 分支列表
// @Tags 分支
// @Produce json
// @Param id path string true "源讨论 ID"
// @Success 200 {array} domain.Branch
// @Router /discussion/{id}/branches [get]
func (h *BranchHandler) List(c *gin.Context) {
	list, err := h.branches.GetBranches(c.Param("id"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, list)
}

// Get 获取分支
// @Summary 分支详情
// @Tags 分支
// @Produce json
// @Param id path string true "分支 ID"
// @Success 200 {object} domain.Branch
// @Failure 404 {object} response.ErrorResponse
// @Router /branch/{id} [get]
func (h *BranchHandler) Get(c *gin.Context) {
	id := c.Param("id")
	branch, err := h.branches.GetBranch(id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	if branch == nil {
		response.Fail(c, fmt.Errorf("%w: %s", domain.ErrBranchNotFound, id))
		return
	}
	response.Success(c, branch)
}

// Delete 删除分支
// @Summary 删除分支
// @Tags 分支
// @Produce json
// @Param id path string true "分支 ID"
// @Success 200 {object} response.SuccessResponse
// @Router /branch/{id} [delete]
func (h *BranchHandler) Delete(c *gin.Context) {
	deleted, err := h.branches.DeleteBranch(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, response.SuccessResponse{Success: deleted})
}

// Compare 比较分支与源讨论
// @Summary 比较分支
// @Tags 分支
// @Produce json
// @Param id path string true "分支 ID"
// @Success 200 {object} versioning.BranchComparison
// @Failure 404 {object} response.ErrorResponse
// @Router /branch/{id}/compare [get]
func (h *BranchHandler) Compare(c *gin.Context) {
	cmp, err := h.branches.CompareBranch(c.Param("id"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, cmp)
}

// Merge 把分支合并回源讨论
// @Summary 合并分支
// @Tags 分支
// @Accept json
// @Produce json
// @Param id path string true "分支 ID"
// @Param body body MergeBranchRequest false "合并参数"
// @Success 200 {object} versioning.MergeBranchResult
// @Failure 404 {object} response.ErrorResponse
// @Router /branch/{id}/merge [post]
func (h *BranchHandler) Merge(c *gin.Context) {
	var req MergeBranchRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	result, err := h.branches.MergeBranch(c.Request.Context(), c.Param("id"), versioning.MergeBranchOptions{
		IncludeContext: req.IncludeContext,
	})
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, result)
}
