package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/roundtable/backend/internal/application/discussion"
	domainDiscussion "github.com/roundtable/backend/internal/domain/discussion"
	"github.com/roundtable/backend/internal/interfaces/http/response"
)

// DiscussionHandler 讨论处理器
type DiscussionHandler struct {
	service *discussion.Service
}

// NewDiscussionHandler 创建讨论处理器
func NewDiscussionHandler(service *discussion.Service) *DiscussionHandler {
	return &DiscussionHandler{service: service}
}

// Create 创建讨论
// @Summary 创建讨论
// @Tags 讨论
// @Accept json
// @Produce json
// @Param body body discussion.CreateDiscussionDTO true "讨论信息"
// @Success 201 {object} domainDiscussion.Discussion
// @Failure 400 {object} response.ErrorResponse
// @Router /discussions [post]
func (h *DiscussionHandler) Create(c *gin.Context) {
	var dto discussion.CreateDiscussionDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	d, err := h.service.Create(c.Request.Context(), &dto)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, d)
}

// List 讨论列表
// @Summary 讨论列表
// @Tags 讨论
// @Produce json
// @Success 200 {array} domainDiscussion.Discussion
// @Router /discussions [get]
func (h *DiscussionHandler) List(c *gin.Context) {
	list, err := h.service.List()
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, list)
}

// Get 讨论详情
// @Summary 讨论详情
// @Tags 讨论
// @Produce json
// @Param id path string true "讨论 ID"
// @Success 200 {object} domainDiscussion.Discussion
// @Failure 404 {object} response.ErrorResponse
// @Router /discussion/{id} [get]
func (h *DiscussionHandler) Get(c *gin.Context) {
	var (
		d   *domainDiscussion.Discussion
		err error
	)
	if d, err = h.service.Get(c.Param("id")); err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, d)
}

// AppendMessage 追加消息
// @Summary 追加消息
// @Tags 讨论
// @Accept json
// @Produce json
// @Param id path string true "讨论 ID"
// @Param body body discussion.AppendMessageDTO true "消息"
// @Success 201 {object} domainDiscussion.Message
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /discussion/{id}/messages [post]
func (h *DiscussionHandler) AppendMessage(c *gin.Context) {
	var dto discussion.AppendMessageDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	msg, err := h.service.AppendMessage(c.Request.Context(), c.Param("id"), &dto)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, msg)
}
