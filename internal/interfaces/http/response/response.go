// Package response 统一的 HTTP 响应与错误映射
package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/roundtable/backend/internal/domain/discussion"
)

// ErrorResponse 错误响应
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse 删除类操作的响应
type SuccessResponse struct {
	Success bool `json:"success"`
}

// Success 200 响应，直接返回数据
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created 201 响应
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// Error 指定状态码的错误响应
func Error(c *gin.Context, httpCode int, message string) {
	c.JSON(httpCode, ErrorResponse{Error: message})
}

// BadRequest 400 响应
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// NotFound 404 响应
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

// StatusOf 按错误类别映射状态码：不存在 404，参数错误 400，其他 500
func StatusOf(err error) int {
	switch {
	case errors.Is(err, discussion.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, discussion.ErrInvalidArgument):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Fail 按错误类别返回错误响应
func Fail(c *gin.Context, err error) {
	Error(c, StatusOf(err), err.Error())
}
