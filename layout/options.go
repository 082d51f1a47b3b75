package layout

import (
	"io"

	"github.com/charmbracelet/log"
)

// Option 配置一次排版。
type Option func(*options)

type options struct {
	maxWidth float64
	cramped  bool
	spaced   bool
	logger   *log.Logger
}

func defaultOptions() options {
	return options{logger: log.New(io.Discard)}
}

// WithMaxWidth 启用按宽度自动换行，单位 pt。0 表示不限制宽度。
func WithMaxWidth(w float64) Option {
	return func(o *options) { o.maxWidth = w }
}

// WithCramped 以 cramped 状态排版顶层列表。
func WithCramped(cramped bool) Option {
	return func(o *options) { o.cramped = cramped }
}

// WithSpaced 在列表首尾补上与开/闭括号之间的间距，用于 \left...\right 内部。
func WithSpaced(spaced bool) Option {
	return func(o *options) { o.spaced = spaced }
}

// WithLogger 设置调试日志输出（换行、字形回退等）。
func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}
