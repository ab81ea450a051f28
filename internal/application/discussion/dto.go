package discussion

import "github.com/roundtable/backend/internal/domain/discussion"

// CreateDiscussionDTO 创建讨论请求
type CreateDiscussionDTO struct {
	Topic        string                   `json:"topic" binding:"required"`
	Status       discussion.Status        `json:"status"`
	Participants []discussion.Participant `json:"participants"`
}

// AppendMessageDTO 追加消息请求
type AppendMessageDTO struct {
	Role     string   `json:"role"`
	Content  string   `json:"content" binding:"required"`
	Round    int      `json:"round"`
	Mentions []string `json:"mentions"`
	ReplyTo  *string  `json:"replyTo"`
}
