package markup

import (
	"strings"

	"github.com/ByLCY/mathtype/atom"
)

// Mode is the math mode implied by the delimiters around the markup.
type Mode int

const (
	ModeDisplay Mode = iota
	ModeInline
)

func (m Mode) String() string {
	if m == ModeInline {
		return "inline"
	}
	return "display"
}

// ParseModeName maps "display" and "inline" (also "text") to a Mode.
func ParseModeName(s string) (Mode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "display":
		return ModeDisplay, true
	case "inline", "text":
		return ModeInline, true
	}
	return ModeDisplay, false
}

// DetectMode strips enclosing math delimiters and reports the mode they
// select. Markup without delimiters is display math.
func DetectMode(s string) (string, Mode) {
	t := strings.TrimSpace(s)
	switch {
	case len(t) >= 4 && strings.HasPrefix(t, "$$") && strings.HasSuffix(t, "$$"):
		return t[2 : len(t)-2], ModeDisplay
	case len(t) >= 4 && strings.HasPrefix(t, `\[`) && strings.HasSuffix(t, `\]`):
		return t[2 : len(t)-2], ModeDisplay
	case len(t) >= 2 && strings.HasPrefix(t, "$") && strings.HasSuffix(t, "$") && !strings.HasSuffix(t, `\$`):
		return t[1 : len(t)-1], ModeInline
	case len(t) >= 4 && strings.HasPrefix(t, `\(`) && strings.HasSuffix(t, `\)`):
		return t[2 : len(t)-2], ModeInline
	}
	return s, ModeDisplay
}

// ParseMode detects the math mode, parses the body and, for inline math,
// prepends a text style atom.
func ParseMode(s string, opts ...Option) (*atom.List, Mode, error) {
	body, mode := DetectMode(s)
	l, err := NewParser(body, opts...).Parse()
	if err != nil {
		return nil, mode, err
	}
	if mode == ModeInline {
		l.Insert(atom.NewStyle(atom.LineStyleText), 0)
	}
	return l, mode, nil
}
