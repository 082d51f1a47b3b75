// Package atom defines the math atom model: the closed set of atom variants,
// the List container that owns them, and the Index path used by editors to
// address a position inside nested scripts and fractions.
package atom

import (
	"fmt"
	"strings"
)

// Type classifies an atom. The order matters: every type before TypeBoundary
// may carry scripts, and the finalizer compares types when deciding whether a
// binary operator has a left operand.
type Type int

const (
	TypeOrdinary Type = iota
	TypeNumber
	TypeVariable
	TypeLargeOperator
	TypeBinaryOperator
	TypeUnaryOperator
	TypeRelation
	TypeOpen
	TypeClose
	TypeFraction
	TypeRadical
	TypePunctuation
	TypePlaceholder
	TypeInner
	TypeUnderline
	TypeOverline
	TypeAccent

	// Atoms from here on never carry scripts.
	TypeBoundary
	TypeSpace
	TypeStyle
	TypeColor
	TypeTextColor
	TypeColorBox
	TypeTable
)

var typeNames = [...]string{
	TypeOrdinary:       "ordinary",
	TypeNumber:         "number",
	TypeVariable:       "variable",
	TypeLargeOperator:  "large-operator",
	TypeBinaryOperator: "binary-operator",
	TypeUnaryOperator:  "unary-operator",
	TypeRelation:       "relation",
	TypeOpen:           "open",
	TypeClose:          "close",
	TypeFraction:       "fraction",
	TypeRadical:        "radical",
	TypePunctuation:    "punctuation",
	TypePlaceholder:    "placeholder",
	TypeInner:          "inner",
	TypeUnderline:      "underline",
	TypeOverline:       "overline",
	TypeAccent:         "accent",
	TypeBoundary:       "boundary",
	TypeSpace:          "space",
	TypeStyle:          "style",
	TypeColor:          "color",
	TypeTextColor:      "text-color",
	TypeColorBox:       "color-box",
	TypeTable:          "table",
}

func (t Type) String() string {
	if t >= 0 && int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("type(%d)", int(t))
}

// ScriptsAllowed reports whether atoms of this type may carry a superscript
// or subscript.
func (t Type) ScriptsAllowed() bool { return t < TypeBoundary }

// FontStyle selects the alphabet a variable or number is rendered in.
type FontStyle int

const (
	FontStyleDefault FontStyle = iota
	FontStyleRoman
	FontStyleBold
	FontStyleCaligraphic
	FontStyleTypewriter
	FontStyleItalic
	FontStyleSansSerif
	FontStyleFraktur
	FontStyleBlackboard
	FontStyleBoldItalic
)

var fontStyleNames = [...]string{
	FontStyleDefault:     "default",
	FontStyleRoman:       "roman",
	FontStyleBold:        "bold",
	FontStyleCaligraphic: "caligraphic",
	FontStyleTypewriter:  "typewriter",
	FontStyleItalic:      "italic",
	FontStyleSansSerif:   "sans-serif",
	FontStyleFraktur:     "fraktur",
	FontStyleBlackboard:  "blackboard",
	FontStyleBoldItalic:  "bold-italic",
}

func (f FontStyle) String() string {
	if f >= 0 && int(f) < len(fontStyleNames) {
		return fontStyleNames[f]
	}
	return fmt.Sprintf("font-style(%d)", int(f))
}

// LineStyle is the TeX style level. Larger values render smaller.
type LineStyle int

const (
	LineStyleDisplay LineStyle = iota
	LineStyleText
	LineStyleScript
	LineStyleScriptScript
)

func (s LineStyle) String() string {
	switch s {
	case LineStyleDisplay:
		return "display"
	case LineStyleText:
		return "text"
	case LineStyleScript:
		return "script"
	case LineStyleScriptScript:
		return "scriptscript"
	}
	return fmt.Sprintf("line-style(%d)", int(s))
}

// Range locates an atom in the source it was parsed from, counted in atoms
// rather than bytes once the list has been finalized.
type Range struct {
	Location int `json:"location"`
	Length   int `json:"length"`
}

// End returns the first position after the range.
func (r Range) End() int { return r.Location + r.Length }

// IsZero reports whether the range was never assigned.
func (r Range) IsZero() bool { return r.Location == 0 && r.Length == 0 }

// Union returns the smallest range covering r and o.
func (r Range) Union(o Range) Range {
	start := min(r.Location, o.Location)
	end := max(r.End(), o.End())
	return Range{Location: start, Length: end - start}
}

// Atom is implemented by every atom variant. The set of variants is closed:
// consumers switch on the concrete type.
type Atom interface {
	// Base returns the fields every atom shares.
	Base() *Core
	// Clone returns a deep copy that shares nothing with the receiver.
	Clone() Atom

	finalize() Atom
}

// Core holds the fields shared by all atom variants.
type Core struct {
	Type      Type
	Nucleus   string
	Range     Range
	FontStyle FontStyle
	// Fused keeps clones of the atoms merged into this one, in input order.
	Fused []Atom

	superscript *List
	subscript   *List
}

// Base implements Atom.
func (c *Core) Base() *Core { return c }

// Superscript returns the superscript list or nil.
func (c *Core) Superscript() *List { return c.superscript }

// Subscript returns the subscript list or nil.
func (c *Core) Subscript() *List { return c.subscript }

// SetSuperscript attaches l as the superscript. It panics when the atom type
// does not allow scripts.
func (c *Core) SetSuperscript(l *List) {
	if l != nil && !c.Type.ScriptsAllowed() {
		panic(fmt.Sprintf("atom: superscript not allowed on %s atom %q", c.Type, c.Nucleus))
	}
	c.superscript = l
}

// SetSubscript attaches l as the subscript. It panics when the atom type does
// not allow scripts.
func (c *Core) SetSubscript(l *List) {
	if l != nil && !c.Type.ScriptsAllowed() {
		panic(fmt.Sprintf("atom: subscript not allowed on %s atom %q", c.Type, c.Nucleus))
	}
	c.subscript = l
}

// HasScripts reports whether either script slot is filled.
func (c *Core) HasScripts() bool { return c.superscript != nil || c.subscript != nil }

// Fuse merges other into the receiver: nuclei are concatenated, ranges are
// joined and other's scripts move onto the receiver. Both atoms must have the
// same type and the receiver must not carry scripts yet.
func (c *Core) Fuse(other Atom) {
	o := other.Base()
	if c.HasScripts() {
		panic("atom: cannot fuse into an atom that already has a script")
	}
	if c.Type != o.Type {
		panic(fmt.Sprintf("atom: cannot fuse %s with %s", c.Type, o.Type))
	}
	if len(c.Fused) == 0 {
		c.Fused = append(c.Fused, c.snapshot())
	}
	if len(o.Fused) > 0 {
		for _, f := range o.Fused {
			c.Fused = append(c.Fused, f.Clone())
		}
	} else {
		c.Fused = append(c.Fused, other.Clone())
	}
	c.Nucleus += o.Nucleus
	c.Range = Range{Location: c.Range.Location, Length: c.Range.Length + o.Range.Length}
	c.superscript = o.superscript.Clone()
	c.subscript = o.subscript.Clone()
}

// snapshot returns a plain symbol copy of the shared fields, used as the
// first entry of a fused list.
func (c *Core) snapshot() Atom {
	return &Symbol{Core: Core{Type: c.Type, Nucleus: c.Nucleus, Range: c.Range, FontStyle: c.FontStyle}}
}

func (c *Core) clone() Core {
	out := Core{
		Type:        c.Type,
		Nucleus:     c.Nucleus,
		Range:       c.Range,
		FontStyle:   c.FontStyle,
		superscript: c.superscript.Clone(),
		subscript:   c.subscript.Clone(),
	}
	if len(c.Fused) > 0 {
		out.Fused = make([]Atom, len(c.Fused))
		for i, f := range c.Fused {
			out.Fused[i] = f.Clone()
		}
	}
	return out
}

// finalizeScripts replaces both scripts with their finalized form.
func (c *Core) finalizeScripts() {
	c.superscript = c.superscript.Finalized()
	c.subscript = c.subscript.Finalized()
}

// String renders the nucleus together with its scripts, for debugging.
func (c *Core) String() string {
	var b strings.Builder
	b.WriteString(c.Nucleus)
	if c.superscript != nil {
		fmt.Fprintf(&b, "^{%s}", c.superscript)
	}
	if c.subscript != nil {
		fmt.Fprintf(&b, "_{%s}", c.subscript)
	}
	return b.String()
}

// New creates an atom of type t. Types that carry extra fields get their
// dedicated variant with zero-valued fields; fractions default to having a
// rule.
func New(t Type, nucleus string) Atom {
	core := Core{Type: t, Nucleus: nucleus}
	switch t {
	case TypeLargeOperator:
		return &LargeOperator{Core: core}
	case TypeFraction:
		return &Fraction{Core: core, HasRule: true}
	case TypeRadical:
		return &Radical{Core: core}
	case TypeInner:
		return &Inner{Core: core}
	case TypeUnderline:
		return &Underline{Core: core}
	case TypeOverline:
		return &Overline{Core: core}
	case TypeAccent:
		return &Accent{Core: core}
	case TypeSpace:
		return &Space{Core: core}
	case TypeStyle:
		return &Style{Core: core}
	case TypeColor:
		return &Color{Core: core}
	case TypeTextColor:
		return &TextColor{Core: core}
	case TypeColorBox:
		return &ColorBox{Core: core}
	case TypeTable:
		return NewTable("")
	}
	return &Symbol{Core: core}
}

// TypeOf returns the type of a, or -1 for nil.
func TypeOf(a Atom) Type {
	if a == nil {
		return -1
	}
	return a.Base().Type
}
