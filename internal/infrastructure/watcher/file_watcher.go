package watcher

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/roundtable/backend/internal/domain/events"
	"github.com/roundtable/backend/internal/infrastructure/log"
	"github.com/roundtable/backend/internal/infrastructure/storage"
)

// WatchConfig FileWatcher 配置
type WatchConfig struct {
	// DiscussionsDir 讨论文件目录（<data>/discussions）
	DiscussionsDir string
	// DebounceDelay 防抖延迟
	DebounceDelay time.Duration
}

// FileWatcher 讨论文件监听器
// 同一文件的连续写入在 DebounceDelay 内合并为一个事件
type FileWatcher struct {
	config   WatchConfig
	eventBus events.EventBus
	watcher  *fsnotify.Watcher
	logger   *slog.Logger

	// 防抖相关
	debounceTimers map[string]*time.Timer
	pendingOps     map[string]fsnotify.Op
	debounceMu     sync.Mutex

	// 控制
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewFileWatcher 创建文件监听器
func NewFileWatcher(config WatchConfig, eventBus events.EventBus) (*FileWatcher, error) {
	if config.DiscussionsDir == "" {
		return nil, fmt.Errorf("discussions directory is required")
	}
	if config.DebounceDelay <= 0 {
		config.DebounceDelay = 500 * time.Millisecond
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &FileWatcher{
		config:         config,
		eventBus:       eventBus,
		watcher:        watcher,
		logger:         log.NewModuleLogger("watcher", "file_watcher"),
		debounceTimers: make(map[string]*time.Timer),
		pendingOps:     make(map[string]fsnotify.Op),
		stopCh:         make(chan struct{}),
	}, nil
}

// Start 启动文件监听
func (fw *FileWatcher) Start() error {
	fw.logger.Info("Starting file watcher",
		"discussions_dir", fw.config.DiscussionsDir,
	)

	if err := os.MkdirAll(fw.config.DiscussionsDir, 0755); err != nil {
		return fmt.Errorf("failed to create discussions directory: %w", err)
	}
	if err := fw.watcher.Add(fw.config.DiscussionsDir); err != nil {
		return fmt.Errorf("failed to watch discussions directory: %w", err)
	}

	// 启动事件处理循环
	fw.wg.Add(1)
	go fw.watchLoop()

	return nil
}

// Stop 停止文件监听
func (fw *FileWatcher) Stop() {
	fw.stopOnce.Do(func() {
		fw.logger.Info("Stopping file watcher")

		close(fw.stopCh)
		fw.watcher.Close()
		fw.wg.Wait()

		// 取消所有防抖定时器
		fw.debounceMu.Lock()
		for _, timer := range fw.debounceTimers {
			timer.Stop()
		}
		fw.debounceMu.Unlock()

		fw.logger.Info("File watcher stopped")
	})
}

// watchLoop 事件监听循环
func (fw *FileWatcher) watchLoop() {
	defer fw.wg.Done()

	for {
		select {
		case <-fw.stopCh:
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			fw.handleFsEvent(event)

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.logger.Error("Watcher error", "error", err)
		}
	}
}

// handleFsEvent 处理文件系统事件（带防抖）
// 临时文件（.<id>.*.tmp）和非 JSON 文件被忽略，rename 到位时表现为 Create
func (fw *FileWatcher) handleFsEvent(fsEvent fsnotify.Event) {
	if _, ok := storage.RecordID(fsEvent.Name); !ok {
		return
	}
	if !fsEvent.Has(fsnotify.Create) && !fsEvent.Has(fsnotify.Write) &&
		!fsEvent.Has(fsnotify.Remove) && !fsEvent.Has(fsnotify.Rename) {
		return
	}

	fw.debounceMu.Lock()
	defer fw.debounceMu.Unlock()

	fw.pendingOps[fsEvent.Name] |= fsEvent.Op

	// 取消之前的定时器
	if timer, exists := fw.debounceTimers[fsEvent.Name]; exists {
		timer.Stop()
	}

	name := fsEvent.Name
	fw.debounceTimers[name] = time.AfterFunc(fw.config.DebounceDelay, func() {
		fw.debounceMu.Lock()
		op := fw.pendingOps[name]
		delete(fw.pendingOps, name)
		delete(fw.debounceTimers, name)
		fw.debounceMu.Unlock()

		fw.emitDiscussionFileEvent(name, op)
	})
}

// emitDiscussionFileEvent 发送讨论文件事件
// 以防抖结束时文件是否存在为准：不存在即删除
func (fw *FileWatcher) emitDiscussionFileEvent(path string, op fsnotify.Op) {
	discussionID, ok := storage.RecordID(path)
	if !ok {
		return
	}

	var (
		eventType events.EventType
		modTime   time.Time
	)
	info, err := os.Stat(path)
	switch {
	case err != nil:
		eventType = events.DiscussionFileDeleted
	case op.Has(fsnotify.Create):
		eventType = events.DiscussionFileCreated
		modTime = info.ModTime()
	default:
		eventType = events.DiscussionFileModified
		modTime = info.ModTime()
	}

	fw.eventBus.Publish(&events.DiscussionFileEvent{
		EventType:    eventType,
		DiscussionID: discussionID,
		FilePath:     path,
		ModTime:      modTime,
		EventTime:    time.Now(),
	})

	fw.logger.Debug("Discussion file event emitted",
		"type", eventType,
		"discussion_id", discussionID,
	)
}

// DiscussionsDir 监听的目录
func (fw *FileWatcher) DiscussionsDir() string {
	return filepath.Clean(fw.config.DiscussionsDir)
}
