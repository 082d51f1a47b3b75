// Package treeviz draws parsed atom lists as Graphviz trees.
//
// ToDOT emits the DOT source: one box per atom, one ellipse per sub-list,
// edges labelled with the role of the sub-list (numerator, superscript,
// cell 1,2 and so on). RenderSVG lays the DOT out in-process with
// [github.com/goccy/go-graphviz].
package treeviz

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/ByLCY/mathtype/atom"
)

// Options configures DOT output.
type Options struct {
	// Ranges adds the source range of every atom to its label.
	Ranges bool
}

type writer struct {
	buf  bytes.Buffer
	opts Options
	next int
}

// ToDOT converts l to Graphviz DOT format. A nil list yields a graph with a
// single empty root.
func ToDOT(l *atom.List, opts Options) string {
	w := &writer{opts: opts}
	w.buf.WriteString("digraph atoms {\n")
	w.buf.WriteString("  rankdir=TB;\n")
	w.buf.WriteString("  bgcolor=\"transparent\";\n")
	w.buf.WriteString("  node [fontname=\"Helvetica\", fontsize=12];\n")
	w.buf.WriteString("  edge [fontsize=10, fontcolor=gray40];\n")
	w.list(l)
	w.buf.WriteString("}\n")
	return w.buf.String()
}

func (w *writer) id() string {
	w.next++
	return fmt.Sprintf("n%d", w.next)
}

// list writes a list node and its atoms, returning the node id.
func (w *writer) list(l *atom.List) string {
	id := w.id()
	fmt.Fprintf(&w.buf, "  %s [shape=ellipse, label=\"list\", style=filled, fillcolor=\"#eef3fb\"];\n", id)
	if l == nil {
		return id
	}
	for i, a := range l.Atoms() {
		child := w.atom(a)
		fmt.Fprintf(&w.buf, "  %s -> %s [label=%q];\n", id, child, fmt.Sprint(i))
	}
	return id
}

func (w *writer) atom(a atom.Atom) string {
	id := w.id()
	fmt.Fprintf(&w.buf, "  %s [shape=box, style=rounded, label=%q];\n", id, w.label(a))

	sub := func(role string, l *atom.List) {
		if l == nil {
			return
		}
		child := w.list(l)
		fmt.Fprintf(&w.buf, "  %s -> %s [label=%q];\n", id, child, role)
	}

	switch v := a.(type) {
	case *atom.Fraction:
		sub("numerator", v.Numerator)
		sub("denominator", v.Denominator)
	case *atom.Radical:
		sub("degree", v.Degree)
		sub("radicand", v.Radicand)
	case *atom.Inner:
		sub("inner", v.List)
	case *atom.Underline:
		sub("inner", v.Inner)
	case *atom.Overline:
		sub("inner", v.Inner)
	case *atom.Accent:
		sub("inner", v.Inner)
	case *atom.Color:
		sub("inner", v.Inner)
	case *atom.TextColor:
		sub("inner", v.Inner)
	case *atom.ColorBox:
		sub("inner", v.Inner)
	case *atom.Table:
		for r, row := range v.Cells {
			for c, cell := range row {
				sub(fmt.Sprintf("cell %d,%d", r, c), cell)
			}
		}
	}
	base := a.Base()
	sub("superscript", base.Superscript())
	sub("subscript", base.Subscript())
	return id
}

func (w *writer) label(a atom.Atom) string {
	base := a.Base()
	parts := []string{base.Type.String()}
	switch v := a.(type) {
	case *atom.Fraction:
		if !v.HasRule {
			parts = append(parts, "no rule")
		}
		if v.LeftDelimiter != "" || v.RightDelimiter != "" {
			parts = append(parts, v.LeftDelimiter+" "+v.RightDelimiter)
		}
	case *atom.Inner:
		left, right := ".", "."
		if b := v.LeftBoundary(); b != nil && b.Base().Nucleus != "" {
			left = b.Base().Nucleus
		}
		if b := v.RightBoundary(); b != nil && b.Base().Nucleus != "" {
			right = b.Base().Nucleus
		}
		parts = append(parts, left+" "+right)
	case *atom.LargeOperator:
		parts = append(parts, base.Nucleus)
		if v.Limits {
			parts = append(parts, "limits")
		}
	case *atom.Space:
		parts = append(parts, fmt.Sprintf("%gmu", v.Amount))
	case *atom.Style:
		parts = append(parts, v.Level.String())
	case *atom.Color:
		parts = append(parts, v.Color)
	case *atom.TextColor:
		parts = append(parts, v.Color)
	case *atom.ColorBox:
		parts = append(parts, v.Color)
	case *atom.Table:
		env := v.Environment
		if env == "" {
			env = "implicit"
		}
		parts = append(parts, fmt.Sprintf("%s %dx%d", env, v.NumRows(), v.NumColumns()))
	default:
		if base.Nucleus != "" {
			parts = append(parts, base.Nucleus)
		}
	}
	if w.opts.Ranges {
		parts = append(parts, fmt.Sprintf("[%d,%d)", base.Range.Location, base.Range.End()))
	}
	return strings.Join(parts, "\n")
}

// RenderSVG renders DOT source to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
