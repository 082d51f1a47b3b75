// Package engine ties the parser and the typesetter together behind a
// memoizing facade. An Engine is safe for concurrent use.
package engine

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/ByLCY/mathtype/atom"
	"github.com/ByLCY/mathtype/binding"
	"github.com/ByLCY/mathtype/cache"
	"github.com/ByLCY/mathtype/layout"
	"github.com/ByLCY/mathtype/markup"
	"github.com/ByLCY/mathtype/mathfont"
)

const (
	DefaultFontSize  = 20
	DefaultCacheSize = 512
)

// Request describes one layout.
type Request struct {
	Latex string `json:"latex"`
	// Data fills ${path} placeholders in Latex before parsing.
	Data     any     `json:"data,omitempty"`
	FontSize float64 `json:"font_size,omitempty"`
	// Mode is "display", "inline" or empty to detect it from the math
	// delimiters around Latex.
	Mode     string  `json:"mode,omitempty"`
	MaxWidth float64 `json:"max_width,omitempty"`
	Cramped  bool    `json:"cramped,omitempty"`
	Spaced   bool    `json:"spaced,omitempty"`
}

// Result is a finished layout. Results are shared between callers that
// request the same layout and must not be modified.
type Result struct {
	Latex   string          `json:"latex"`
	Mode    string          `json:"mode"`
	Display *layout.Display `json:"display"`
}

type key struct {
	latex    string
	font     string
	size     float64
	style    atom.LineStyle
	maxWidth float64
	cramped  bool
	spaced   bool
}

// Engine parses and typesets markup, remembering recent layouts.
type Engine struct {
	provider mathfont.Provider
	symbols  *markup.SymbolTable
	logger   *log.Logger
	size     float64
	layouts  *cache.LRU[key, *Result]
}

// Option configures an Engine.
type Option func(*Engine)

// WithProvider sets the font metrics. The default is mathfont.LatinModern.
func WithProvider(p mathfont.Provider) Option {
	return func(e *Engine) {
		if p != nil {
			e.provider = p
		}
	}
}

// WithSymbols sets the symbol table used for parsing and serializing.
func WithSymbols(t *markup.SymbolTable) Option {
	return func(e *Engine) {
		if t != nil {
			e.symbols = t
		}
	}
}

func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithDefaultFontSize sets the size used when a request leaves FontSize at 0.
func WithDefaultFontSize(size float64) Option {
	return func(e *Engine) {
		if size > 0 {
			e.size = size
		}
	}
}

// WithCacheSize bounds the number of remembered layouts.
func WithCacheSize(n int) Option {
	return func(e *Engine) { e.layouts = cache.NewLRU[key, *Result](n) }
}

func New(opts ...Option) *Engine {
	e := &Engine{
		provider: mathfont.LatinModern(),
		symbols:  markup.DefaultSymbols(),
		logger:   log.New(io.Discard),
		size:     DefaultFontSize,
		layouts:  cache.NewLRU[key, *Result](DefaultCacheSize),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Provider() mathfont.Provider   { return e.provider }
func (e *Engine) Symbols() *markup.SymbolTable { return e.symbols }

// Parse parses latex, detecting the math mode from its delimiters.
func (e *Engine) Parse(latex string) (*atom.List, markup.Mode, error) {
	return markup.ParseMode(latex, markup.WithSymbols(e.symbols))
}

// Serialize parses latex and writes it back in normalized form.
func (e *Engine) Serialize(latex string) (string, error) {
	l, _, err := e.Parse(latex)
	if err != nil {
		return "", err
	}
	return markup.SerializeWith(e.symbols, l), nil
}

// Layout typesets req. Identical requests are served from the cache.
func (e *Engine) Layout(req Request) (*Result, error) {
	latex := binding.Interpolate(req.Latex, req.Data)
	if strings.TrimSpace(latex) == "" {
		return nil, errors.New("empty latex")
	}
	size := req.FontSize
	if size == 0 {
		size = e.size
	}
	if size < 0 {
		return nil, fmt.Errorf("invalid font size %g", size)
	}
	if req.MaxWidth < 0 {
		return nil, fmt.Errorf("invalid max width %g", req.MaxWidth)
	}

	forced, explicit := markup.ModeDisplay, req.Mode != ""
	if explicit {
		var ok bool
		if forced, ok = markup.ParseModeName(req.Mode); !ok {
			return nil, fmt.Errorf("unknown mode %q", req.Mode)
		}
	}
	_, detected := markup.DetectMode(latex)
	mode := detected
	if explicit {
		mode = forced
	}
	style := atom.LineStyleDisplay
	if mode == markup.ModeInline {
		style = atom.LineStyleText
	}

	k := key{
		latex:    latex,
		font:     e.provider.Name(),
		size:     size,
		style:    style,
		maxWidth: req.MaxWidth,
		cramped:  req.Cramped,
		spaced:   req.Spaced,
	}
	res, hit, err := e.layouts.GetOrCompute(k, func() (*Result, error) {
		l, _, err := e.Parse(latex)
		if err != nil {
			return nil, err
		}
		d, err := layout.Typeset(l, mathfont.New(e.provider, size), style,
			layout.WithMaxWidth(req.MaxWidth),
			layout.WithCramped(req.Cramped),
			layout.WithSpaced(req.Spaced),
			layout.WithLogger(e.logger),
		)
		if err != nil {
			return nil, fmt.Errorf("typeset: %w", err)
		}
		return &Result{Latex: latex, Mode: mode.String(), Display: d}, nil
	})
	if err != nil {
		return nil, err
	}
	if hit {
		e.logger.Debug("layout cache hit", "latex", latex, "size", size)
	} else {
		e.logger.Debug("layout cache miss", "latex", latex, "size", size)
	}
	return res, nil
}

// Stats reports layout cache hits, misses and the number of cached layouts.
func (e *Engine) Stats() (hits, misses, size int) {
	hits, misses = e.layouts.Stats()
	return hits, misses, e.layouts.Len()
}

// Reset drops every cached layout.
func (e *Engine) Reset() { e.layouts.Purge() }
