// Package watcher 提供讨论文件监听和事件分发功能
package watcher

import (
	"log/slog"
	"sync"

	"github.com/roundtable/backend/internal/domain/events"
	"github.com/roundtable/backend/internal/infrastructure/log"
)

// subscription 单个订阅，取消订阅按指针识别
type subscription struct {
	handler events.Handler
}

// eventBusImpl EventBus 的实现
type eventBusImpl struct {
	// subs 按事件类型存储的订阅列表
	subs map[events.EventType][]*subscription
	// mu 保护 subs 和 closed
	mu     sync.RWMutex
	logger *slog.Logger
	closed bool
	// wg 等待所有事件处理完成
	wg sync.WaitGroup
}

// NewEventBus 创建新的事件总线实例
func NewEventBus() events.EventBus {
	return &eventBusImpl{
		subs:   make(map[events.EventType][]*subscription),
		logger: log.NewModuleLogger("watcher", "event_bus"),
	}
}

// Subscribe 订阅特定类型的事件
func (b *eventBusImpl) Subscribe(eventType events.EventType, handler events.Handler) func() {
	sub := &subscription{handler: handler}

	b.mu.Lock()
	b.subs[eventType] = append(b.subs[eventType], sub)
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { b.unsubscribe(eventType, sub) })
	}
}

// SubscribeMultiple 订阅多个类型的事件
func (b *eventBusImpl) SubscribeMultiple(eventTypes []events.EventType, handler events.Handler) func() {
	unsubscribers := make([]func(), 0, len(eventTypes))
	for _, eventType := range eventTypes {
		unsubscribers = append(unsubscribers, b.Subscribe(eventType, handler))
	}

	return func() {
		for _, unsub := range unsubscribers {
			unsub()
		}
	}
}

func (b *eventBusImpl) unsubscribe(eventType events.EventType, sub *subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.subs[eventType]
	for i, s := range subs {
		if s == sub {
			// 复制一份，不修改 Publish 可能正在使用的底层数组
			next := make([]*subscription, 0, len(subs)-1)
			next = append(next, subs[:i]...)
			next = append(next, subs[i+1:]...)
			b.subs[eventType] = next
			return
		}
	}
}

// Publish 异步发布事件
func (b *eventBusImpl) Publish(event events.Event) {
	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return
	}
	subs := b.subs[event.Type()]
	if len(subs) == 0 {
		b.mu.RUnlock()
		return
	}
	// 在读锁内登记，Close 之后不会再有新的分发
	b.wg.Add(len(subs))
	b.mu.RUnlock()

	b.logger.Debug("Publishing event",
		"type", event.Type(),
		"handlers_count", len(subs),
	)

	for _, sub := range subs {
		go b.dispatchToHandler(event, sub.handler)
	}
}

// dispatchToHandler 分发事件到单个处理器
func (b *eventBusImpl) dispatchToHandler(event events.Event, handler events.Handler) {
	defer b.wg.Done()

	// 捕获 panic，防止单个处理器崩溃影响其他处理器
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Handler panicked",
				"type", event.Type(),
				"panic", r,
			)
		}
	}()

	if err := handler.HandleEvent(event); err != nil {
		b.logger.Error("Handler returned error",
			"type", event.Type(),
			"error", err,
		)
	}
}

// Close 关闭事件总线
func (b *eventBusImpl) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	b.mu.Unlock()

	// 等待所有正在处理的事件完成
	b.wg.Wait()

	b.logger.Info("Event bus closed")
}
