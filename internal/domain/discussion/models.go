package discussion

import "time"

// Status 讨论状态
type Status string

const (
	StatusInitializing Status = "initializing"
	StatusActive       Status = "active"
	StatusConcluding   Status = "concluding"
	StatusEnded        Status = "ended"
	StatusArchived     Status = "archived"
)

// IsValid 检查状态是否合法
func (s Status) IsValid() bool {
	switch s {
	case StatusInitializing, StatusActive, StatusConcluding, StatusEnded, StatusArchived:
		return true
	}
	return false
}

// Provenance 合并来源标记，仅出现在讨论合并迁移过来的消息上
type Provenance struct {
	MergedFrom        string `json:"mergedFrom"`
	OriginalMessageID string `json:"originalMessageId"`
}

// Message 讨论消息
// 创建后不可变，只有恢复/合并会整体替换所属列表
type Message struct {
	ID         string      `json:"id"`
	Role       string      `json:"role"`
	Content    string      `json:"content"`
	Timestamp  time.Time   `json:"timestamp"`
	Round      int         `json:"round"`
	Mentions   []string    `json:"mentions"`
	ReplyTo    *string     `json:"replyTo,omitempty"`
	Provenance *Provenance `json:"provenance,omitempty"`
}

// Clone 深拷贝消息
func (m Message) Clone() Message {
	out := m
	out.Mentions = cloneStrings(m.Mentions)
	if m.ReplyTo != nil {
		replyTo := *m.ReplyTo
		out.ReplyTo = &replyTo
	}
	if m.Provenance != nil {
		p := *m.Provenance
		out.Provenance = &p
	}
	return out
}

// Participant 讨论参与者
type Participant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// Conflict 讨论中记录的观点冲突
type Conflict struct {
	ID           string   `json:"id"`
	Description  string   `json:"description"`
	Participants []string `json:"participants"`
	Round        int      `json:"round"`
}

// Discussion 讨论上下文
type Discussion struct {
	ID           string        `json:"id"`
	Topic        string        `json:"topic"`
	Status       Status        `json:"status"`
	Messages     []Message     `json:"messages"`
	Participants []Participant `json:"participants"`
	Rounds       int           `json:"rounds"`
	Conflicts    []Conflict    `json:"conflicts"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

// Clone 深拷贝讨论，返回的值与原对象不共享任何切片
func (d *Discussion) Clone() *Discussion {
	if d == nil {
		return nil
	}
	out := *d
	out.Messages = CloneMessages(d.Messages)
	out.Participants = CloneParticipants(d.Participants)
	out.Conflicts = make([]Conflict, len(d.Conflicts))
	for i, c := range d.Conflicts {
		c.Participants = cloneStrings(c.Participants)
		out.Conflicts[i] = c
	}
	return &out
}

// HasMessage 检查消息 ID 是否存在
func (d *Discussion) HasMessage(id string) bool {
	for i := range d.Messages {
		if d.Messages[i].ID == id {
			return true
		}
	}
	return false
}

// Text 返回用于相似度计算的全文（主题 + 所有消息内容）
func (d *Discussion) Text() string {
	size := len(d.Topic)
	for i := range d.Messages {
		size += len(d.Messages[i].Content) + 1
	}
	buf := make([]byte, 0, size)
	buf = append(buf, d.Topic...)
	for i := range d.Messages {
		buf = append(buf, '\n')
		buf = append(buf, d.Messages[i].Content...)
	}
	return string(buf)
}

// CloneMessages 深拷贝消息列表
func CloneMessages(messages []Message) []Message {
	if messages == nil {
		return []Message{}
	}
	out := make([]Message, len(messages))
	for i, m := range messages {
		out[i] = m.Clone()
	}
	return out
}

// CloneParticipants 深拷贝参与者列表
func CloneParticipants(participants []Participant) []Participant {
	if participants == nil {
		return []Participant{}
	}
	out := make([]Participant, len(participants))
	copy(out, participants)
	return out
}

// cloneStrings 复制字符串切片，保留 nil 与空切片的区别
func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
