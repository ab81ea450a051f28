package events

// Handler 处理一条讨论或版本事件
// 返回的 error 只会被记录，总线不重投
type Handler interface {
	HandleEvent(event Event) error
}

// HandlerFunc 让普通函数充当 Handler
type HandlerFunc func(event Event) error

// HandleEvent 调用 f 本身
func (f HandlerFunc) HandleEvent(event Event) error {
	return f(event)
}

// Publisher 应用服务在写入讨论、快照、分支之后发布事件
type Publisher interface {
	// Publish 异步投递，不阻塞调用方的写路径
	Publish(event Event)
}

// Subscriber 相似度索引、WebSocket 推送等消费方通过它订阅
type Subscriber interface {
	// Subscribe 返回的函数可重复调用，只生效一次
	Subscribe(eventType EventType, handler Handler) (unsubscribe func())
	// SubscribeMultiple 同一个 handler 订阅多种事件，一次性取消
	SubscribeMultiple(eventTypes []EventType, handler Handler) (unsubscribe func())
}

// EventBus 进程内事件总线
type EventBus interface {
	Publisher
	Subscriber
	// Close 拒绝后续 Publish，并等待已投递的事件处理完
	Close()
}
