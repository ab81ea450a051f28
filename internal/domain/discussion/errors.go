package discussion

import (
	"errors"
	"fmt"
)

// 错误类别，接口层据此映射 HTTP 状态码
var (
	// ErrNotFound 实体不存在（讨论/快照/分支）
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument 缺少必填参数或参数非法
	ErrInvalidArgument = errors.New("invalid argument")
)

// 讨论相关错误
var (
	// ErrDiscussionNotFound 讨论不存在
	ErrDiscussionNotFound = fmt.Errorf("discussion %w", ErrNotFound)
	// ErrTopicRequired 主题必填
	ErrTopicRequired = fmt.Errorf("%w: topic is required", ErrInvalidArgument)
	// ErrContentRequired 消息内容必填
	ErrContentRequired = fmt.Errorf("%w: message content is required", ErrInvalidArgument)
)

// IsNotFound 判断是否为不存在错误
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsInvalidArgument 判断是否为参数错误
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}
