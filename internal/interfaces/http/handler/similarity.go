package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/roundtable/backend/internal/application/similarity"
	"github.com/roundtable/backend/internal/interfaces/http/response"
)

// SimilarityHandler 相似度与讨论合并处理器
type SimilarityHandler struct {
	service *similarity.Service
}

// NewSimilarityHandler 创建相似度处理器
func NewSimilarityHandler(service *similarity.Service) *SimilarityHandler {
	return &SimilarityHandler{service: service}
}

// FindSimilar 查找相似讨论
// @Summary 相似讨论
// @Tags 相似度
// @Produce json
// @Param id path string true "讨论 ID"
// @Param threshold query number false "最低相似度"
// @Param limit query int false "最多返回条数"
// @Success 200 {array} similarity.SimilarDiscussion
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /discussion/{id}/similar [get]
func (h *SimilarityHandler) FindSimilar(c *gin.Context) {
	var opts similarity.FindSimilarOptions
	if v := c.Query("threshold"); v != "" {
		threshold, err := strconv.ParseFloat(v, 64)
		if err != nil || threshold < 0 || threshold > 1 {
			response.BadRequest(c, "threshold must be a number between 0 and 1")
			return
		}
		opts.Threshold = &threshold
	}
	limit, ok := queryLimit(c)
	if !ok {
		return
	}
	opts.Limit = limit

	results, err := h.service.FindSimilar(c.Request.Context(), c.Param("id"), opts)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, results)
}

// Keywords 讨论关键词
// @Summary 讨论关键词
// @Tags 相似度
// @Produce json
// @Param id path string true "讨论 ID"
// @Param limit query int false "关键词数量"
// @Success 200 {object} KeywordsResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /discussion/{id}/keywords [get]
func (h *SimilarityHandler) Keywords(c *gin.Context) {
	limit, ok := queryLimit(c)
	if !ok {
		return
	}
	id := c.Param("id")
	keywords, err := h.service.Keywords(id, limit)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, KeywordsResponse{DiscussionID: id, Keywords: keywords})
}

// Merge 合并讨论
// @Summary 合并讨论
// @Tags 相似度
// @Accept json
// @Produce json
// @Param id path string true "目标讨论 ID"
// @Param body body MergeDiscussionsRequest true "源讨论 ID 列表"
// @Success 200 {object} similarity.MergeResult
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /discussion/{id}/merge [post]
func (h *SimilarityHandler) Merge(c *gin.Context) {
	var req MergeDiscussionsRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	result, err := h.service.MergeDiscussions(c.Request.Context(), c.Param("id"), req.SourceIDs)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, result)
}

// Train 全量重训相似度索引
// @Summary 重训索引
// @Tags 相似度
// @Produce json
// @Success 200 {object} TrainResponse
// @Router /similarity/train [post]
func (h *SimilarityHandler) Train(c *gin.Context) {
	stats, err := h.service.Train(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, TrainResponse{Documents: stats.DocumentCount, Vocabulary: stats.VocabularySize})
}

// queryLimit 解析可选的 limit 参数，缺省为 0，非法时已写入 400
func queryLimit(c *gin.Context) (int, bool) {
	v := c.Query("limit")
	if v == "" {
		return 0, true
	}
	limit, err := strconv.Atoi(v)
	if err != nil || limit < 0 {
		response.BadRequest(c, "limit must be a non-negative integer")
		return 0, false
	}
	return limit, true
}
