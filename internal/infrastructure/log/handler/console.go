// Package handler 提供控制台彩色日志处理器
package handler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/fatih/color"
)

// ConsoleHandler 控制台日志处理器（彩色输出）
//
// 输出格式：LEVEL 时间 [module/component] 消息，其余属性逐行缩进输出。
type ConsoleHandler struct {
	opts   slog.HandlerOptions
	mu     *sync.Mutex
	out    io.Writer
	attrs  []slog.Attr
	prefix string
}

// NewConsoleHandler 创建控制台处理器，opts 可为 nil
func NewConsoleHandler(out io.Writer, opts *slog.HandlerOptions) *ConsoleHandler {
	h := &ConsoleHandler{
		out: out,
		mu:  &sync.Mutex{},
	}
	if opts != nil {
		h.opts = *opts
	}
	return h
}

// Enabled 检查日志级别是否启用
func (h *ConsoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	if h.opts.Level == nil {
		return level >= slog.LevelInfo
	}
	return level >= h.opts.Level.Level()
}

// Handle 处理日志记录
func (h *ConsoleHandler) Handle(_ context.Context, r slog.Record) error {
	attrs := make([]slog.Attr, 0, len(h.attrs)+r.NumAttrs())
	attrs = append(attrs, h.attrs...)
	r.Attrs(func(a slog.Attr) bool {
		if h.prefix != "" {
			a.Key = h.prefix + a.Key
		}
		attrs = append(attrs, a)
		return true
	})

	var module, component string
	for _, a := range attrs {
		switch a.Key {
		case "module":
			module = a.Value.String()
		case "component":
			component = a.Value.String()
		}
	}

	modulePrefix := ""
	if module != "" && component != "" {
		modulePrefix = fmt.Sprintf(" [%s/%s]", module, component)
	} else if module != "" {
		modulePrefix = fmt.Sprintf(" [%s]", module)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, err := fmt.Fprintf(h.out, "%s %s%s %s\n",
		levelColor(r.Level)(r.Level.String()),
		r.Time.Format("2006-01-02T15:04:05.000Z07:00"),
		modulePrefix,
		r.Message,
	); err != nil {
		return err
	}

	for _, a := range attrs {
		// 模块信息已在前缀中显示
		if a.Key == "module" || a.Key == "component" || a.Key == "service" {
			continue
		}
		if _, err := fmt.Fprintf(h.out, "  %s=%v\n", color.CyanString(a.Key), a.Value); err != nil {
			return err
		}
	}
	return nil
}

// WithAttrs 返回带有额外属性的处理器
func (h *ConsoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	next := *h
	next.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	next.attrs = append(next.attrs, h.attrs...)
	for _, a := range attrs {
		if h.prefix != "" {
			a.Key = h.prefix + a.Key
		}
		next.attrs = append(next.attrs, a)
	}
	return &next
}

// WithGroup 返回带有分组的处理器，分组名作为键前缀
func (h *ConsoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.prefix = h.prefix + name + "."
	return &next
}

func levelColor(level slog.Level) func(format string, a ...interface{}) string {
	switch {
	case level >= slog.LevelError:
		return color.RedString
	case level >= slog.LevelWarn:
		return color.YellowString
	case level >= slog.LevelInfo:
		return color.GreenString
	default:
		return color.BlueString
	}
}
