// Package discussion 讨论的基础用例：创建、查询、追加消息，以及外部文件变更的同步
package discussion

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/roundtable/backend/internal/domain/discussion"
	"github.com/roundtable/backend/internal/domain/events"
	"github.com/roundtable/backend/internal/infrastructure/lock"
	"github.com/roundtable/backend/internal/infrastructure/log"
)

// defaultRole 未指定角色时的消息角色
const defaultRole = "participant"

// Service 讨论应用服务
type Service struct {
	repo     discussion.Repository
	reloader discussion.Reloader
	locks    *lock.KeyedMutex
	bus      events.EventBus
	logger   *slog.Logger

	unsubscribe func()
}

// NewService 创建讨论应用服务
func NewService(
	repo discussion.Repository,
	reloader discussion.Reloader,
	locks *lock.KeyedMutex,
	bus events.EventBus,
) *Service {
	return &Service{
		repo:     repo,
		reloader: reloader,
		locks:    locks,
		bus:      bus,
		logger:   log.NewModuleLogger("discussion", "service"),
	}
}

// Start 订阅讨论文件变更事件
func (s *Service) Start() {
	s.unsubscribe = s.bus.SubscribeMultiple([]events.EventType{
		events.DiscussionFileCreated,
		events.DiscussionFileModified,
		events.DiscussionFileDeleted,
	}, s)
}

// Stop 取消订阅
func (s *Service) Stop() {
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
}

// Create 创建讨论
func (s *Service) Create(ctx context.Context, dto *CreateDiscussionDTO) (*discussion.Discussion, error) {
	topic := strings.TrimSpace(dto.Topic)
	if topic == "" {
		return nil, discussion.ErrTopicRequired
	}
	status := dto.Status
	if status == "" {
		status = discussion.StatusInitializing
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: unknown status %q", discussion.ErrInvalidArgument, status)
	}

	now := time.Now().UTC()
	d := &discussion.Discussion{
		ID:           uuid.New().String(),
		Topic:        topic,
		Status:       status,
		Messages:     []discussion.Message{},
		Participants: discussion.CloneParticipants(dto.Participants),
		Conflicts:    []discussion.Conflict{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Save(d); err != nil {
		return nil, err
	}

	log.FromContext(ctx, s.logger).Info("Discussion created",
		"discussion_id", d.ID,
		"topic", topic,
		"participants", len(d.Participants),
	)
	s.bus.Publish(events.NewDiscussionEvent(events.DiscussionUpdated, d.ID))
	return d, nil
}

// Get 获取讨论
func (s *Service) Get(id string) (*discussion.Discussion, error) {
	return s.repo.Get(id)
}

// List 获取全部讨论
func (s *Service) List() ([]*discussion.Discussion, error) {
	return s.repo.List()
}

// AppendMessage 向讨论追加一条消息
func (s *Service) AppendMessage(ctx context.Context, id string, dto *AppendMessageDTO) (*discussion.Message, error) {
	// 1. 校验参数
	if strings.TrimSpace(dto.Content) == "" {
		return nil, discussion.ErrContentRequired
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	// 2. 加载当前状态
	d, err := s.repo.Get(id)
	if err != nil {
		return nil, err
	}
	if dto.ReplyTo != nil && !d.HasMessage(*dto.ReplyTo) {
		return nil, fmt.Errorf("%w: replyTo message %q not found", discussion.ErrInvalidArgument, *dto.ReplyTo)
	}

	// 3. 构造消息
	round := dto.Round
	if round <= 0 {
		round = d.Rounds
		if round == 0 {
			round = 1
		}
	}
	role := dto.Role
	if role == "" {
		role = defaultRole
	}
	mentions := dto.Mentions
	if mentions == nil {
		mentions = []string{}
	}
	msg := discussion.Message{
		ID:        ulid.Make().String(),
		Role:      role,
		Content:   dto.Content,
		Timestamp: time.Now().UTC(),
		Round:     round,
		Mentions:  append([]string{}, mentions...),
		ReplyTo:   dto.ReplyTo,
	}

	// 4. 整体替换保存
	d.Messages = append(d.Messages, msg)
	if round > d.Rounds {
		d.Rounds = round
	}
	if d.Status == discussion.StatusInitializing {
		d.Status = discussion.StatusActive
	}
	d.UpdatedAt = msg.Timestamp
	if err := s.repo.Save(d); err != nil {
		return nil, err
	}

	log.FromContext(ctx, s.logger).Debug("Message appended",
		"discussion_id", id,
		"message_id", msg.ID,
		"round", round,
	)
	s.bus.Publish(events.NewDiscussionEvent(events.DiscussionUpdated, id))

	out := msg.Clone()
	return &out, nil
}

// HandleEvent 讨论文件被外部修改时重新加载，内容确有变化才发布更新事件
func (s *Service) HandleEvent(event events.Event) error {
	fileEvent, ok := event.(*events.DiscussionFileEvent)
	if !ok {
		return nil
	}
	id := fileEvent.DiscussionID

	unlock := s.locks.Lock(id)
	defer unlock()

	d, changed, err := s.reloader.Reload(id)
	if err != nil {
		s.logger.Warn("Failed to reload discussion file",
			"discussion_id", id,
			"path", fileEvent.FilePath,
			"error", err,
		)
		return err
	}
	if !changed {
		return nil
	}

	if d == nil {
		s.logger.Info("Discussion file removed", "discussion_id", id)
		s.bus.Publish(events.NewDiscussionEvent(events.DiscussionDeleted, id))
		return nil
	}
	s.logger.Info("Discussion reloaded from file",
		"discussion_id", id,
		"event", fileEvent.EventType,
		"messages", len(d.Messages),
	)
	s.bus.Publish(events.NewDiscussionEvent(events.DiscussionUpdated, id))
	return nil
}
