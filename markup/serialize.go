package markup

import (
	"fmt"
	"strings"

	"github.com/ByLCY/mathtype/atom"
)

// Serialize writes l back out as markup using the default symbol table.
func Serialize(l *atom.List) string { return SerializeWith(DefaultSymbols(), l) }

// SerializeWith writes l back out as markup, naming symbols from t.
// Parsing the result yields a list that finalizes to the same atoms.
func SerializeWith(t *SymbolTable, l *atom.List) string {
	w := &writer{syms: t}
	w.list(l)
	return w.b.String()
}

type writer struct {
	syms *SymbolTable
	b    strings.Builder
}

var spaceCommands = map[float64]string{
	3: ",", 4: ":", 5: ";", -3: "!", 18: "quad", 36: "qquad",
}

var styleNames = map[atom.LineStyle]string{
	atom.LineStyleDisplay:      "displaystyle",
	atom.LineStyleText:         "textstyle",
	atom.LineStyleScript:       "scriptstyle",
	atom.LineStyleScriptScript: "scriptscriptstyle",
}

func (w *writer) sub(l *atom.List) string {
	inner := &writer{syms: w.syms}
	inner.list(l)
	return inner.b.String()
}

// command writes \name, followed by a space when the name is a word.
func (w *writer) command(name string) {
	w.b.WriteString(`\`)
	w.b.WriteString(name)
	if isWord(name) {
		w.b.WriteByte(' ')
	}
}

func isWord(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r == '*') {
			return false
		}
	}
	return true
}

func (w *writer) list(l *atom.List) {
	current := atom.FontStyleDefault
	for _, a := range l.Atoms() {
		core := a.Base()
		if core.FontStyle != current {
			if current != atom.FontStyleDefault {
				w.b.WriteByte('}')
			}
			if core.FontStyle != atom.FontStyleDefault {
				fmt.Fprintf(&w.b, `\%s{`, w.syms.FontStyleName(core.FontStyle))
			}
			current = core.FontStyle
		}
		w.atom(a)
		if core.HasScripts() && current != atom.FontStyleDefault {
			// scripts written inside the group would pick up its style
			w.b.WriteByte('}')
			current = atom.FontStyleDefault
		}
		if sup := core.Superscript(); sup != nil {
			fmt.Fprintf(&w.b, "^{%s}", w.sub(sup))
		}
		if sub := core.Subscript(); sub != nil {
			fmt.Fprintf(&w.b, "_{%s}", w.sub(sub))
		}
	}
	if current != atom.FontStyleDefault {
		w.b.WriteByte('}')
	}
}

func (w *writer) atom(a atom.Atom) {
	switch v := a.(type) {
	case *atom.Fraction:
		w.fraction(v)
	case *atom.Radical:
		w.b.WriteString(`\sqrt`)
		if v.Degree != nil {
			fmt.Fprintf(&w.b, "[%s]", w.sub(v.Degree))
		}
		fmt.Fprintf(&w.b, "{%s}", w.sub(v.Radicand))
	case *atom.Inner:
		w.inner(v)
	case *atom.Table:
		w.table(v)
	case *atom.Overline:
		fmt.Fprintf(&w.b, `\overline{%s}`, w.sub(v.Inner))
	case *atom.Underline:
		fmt.Fprintf(&w.b, `\underline{%s}`, w.sub(v.Inner))
	case *atom.Accent:
		if name, ok := w.syms.AccentName(v.Nucleus); ok {
			fmt.Fprintf(&w.b, `\%s{%s}`, name, w.sub(v.Inner))
		} else {
			fmt.Fprintf(&w.b, "{%s}", w.sub(v.Inner))
		}
	case *atom.LargeOperator:
		w.operator(v)
	case *atom.Space:
		if name, ok := spaceCommands[v.Amount]; ok {
			w.command(name)
		} else {
			fmt.Fprintf(&w.b, `\mkern%.1fmu`, v.Amount)
		}
	case *atom.Style:
		w.command(styleNames[v.Level])
	case *atom.Color:
		fmt.Fprintf(&w.b, `\color{%s}{%s}`, v.Color, w.sub(v.Inner))
	case *atom.TextColor:
		fmt.Fprintf(&w.b, `\textcolor{%s}{%s}`, v.Color, w.sub(v.Inner))
	case *atom.ColorBox:
		fmt.Fprintf(&w.b, `\colorbox{%s}{%s}`, v.Color, w.sub(v.Inner))
	default:
		w.symbol(a)
	}
}

func (w *writer) symbol(a atom.Atom) {
	switch n := a.Base().Nucleus; n {
	case "":
		w.b.WriteString("{}")
	case "∶":
		w.b.WriteString(":")
	case "−":
		w.b.WriteString("-")
	default:
		if name, ok := w.syms.SymbolName(a); ok {
			w.command(name)
			return
		}
		w.b.WriteString(n)
	}
}

func (w *writer) fraction(f *atom.Fraction) {
	num, den := w.sub(f.Numerator), w.sub(f.Denominator)
	if f.HasRule {
		w.b.WriteString(`\`)
		if f.Continued {
			w.b.WriteString("cfrac")
			if f.Alignment == "l" || f.Alignment == "r" {
				fmt.Fprintf(&w.b, "[%s]", f.Alignment)
			}
		} else {
			w.b.WriteString("frac")
		}
		fmt.Fprintf(&w.b, "{%s}{%s}", num, den)
		return
	}
	command := "atop"
	switch f.LeftDelimiter + f.RightDelimiter {
	case "()":
		command = "choose"
	case "[]":
		command = "brack"
	case "{}":
		command = "brace"
	}
	fmt.Fprintf(&w.b, `{%s \%s %s}`, num, command, den)
}

func (w *writer) operator(op *atom.LargeOperator) {
	name, ok := w.syms.SymbolName(op)
	if !ok {
		if op.Limits {
			fmt.Fprintf(&w.b, `\operatorname*{%s}`, op.Nucleus)
		} else {
			fmt.Fprintf(&w.b, `\operatorname{%s}`, op.Nucleus)
		}
		return
	}
	w.command(name)
	if proto, ok := w.syms.Lookup(name); ok {
		if orig, ok := proto.(*atom.LargeOperator); ok && orig.Limits != op.Limits {
			if op.Limits {
				w.command("limits")
			} else {
				w.command("nolimits")
			}
		}
	}
}

// delimiter writes the markup for a boundary character.
func (w *writer) delimiter(b atom.Atom) {
	if b == nil {
		w.b.WriteByte('.')
		return
	}
	name, ok := w.syms.DelimiterName(b.Base().Nucleus)
	switch {
	case !ok || name == ".":
		w.b.WriteByte('.')
	case name == "||":
		w.b.WriteString(`\|`)
	case name == "{" || name == "}":
		w.b.WriteString(`\` + name)
	case name == `\`:
		w.b.WriteString(`\backslash`)
	case isWord(name):
		w.b.WriteString(`\` + name)
	default:
		w.b.WriteString(name)
	}
}

func (w *writer) inner(in *atom.Inner) {
	if table, ok := environmentTable(in); ok {
		w.table(table)
		return
	}
	if in.LeftBoundary() == nil && in.RightBoundary() == nil {
		fmt.Fprintf(&w.b, "{%s}", w.sub(in.List))
		return
	}
	w.b.WriteString(`\left`)
	w.delimiter(in.LeftBoundary())
	w.b.WriteByte(' ')
	w.list(in.List)
	w.b.WriteString(`\right`)
	w.delimiter(in.RightBoundary())
	w.b.WriteByte(' ')
}

// environmentTable recognizes the inner atoms the parser builds around
// delimited matrices and cases.
func environmentTable(in *atom.Inner) (*atom.Table, bool) {
	n := in.List.Len()
	if n == 0 {
		return nil, false
	}
	table, ok := in.List.Last().(*atom.Table)
	if !ok {
		return nil, false
	}
	switch {
	case table.Environment == "cases":
		return table, n == 2
	case IsMatrixEnvironment(table.Environment):
		left, _ := MatrixDelimiters(table.Environment)
		return table, n == 1 && left != ""
	}
	return nil, false
}

func (w *writer) table(t *atom.Table) {
	env := t.Environment
	switch env {
	case "":
		w.b.WriteByte('{')
	case "substack":
		w.b.WriteString(`\substack{`)
	default:
		fmt.Fprintf(&w.b, `\begin{%s}`, env)
		if strings.HasSuffix(env, "*") && len(t.Alignments) > 0 {
			fmt.Fprintf(&w.b, "[%s]", t.Alignments[0])
		}
	}
	stripStyle := IsMatrixEnvironment(env) || env == "cases"
	spacer := env == "eqalign" || env == "aligned" || env == "split"
	for i, row := range t.Cells {
		for j, cell := range row {
			atoms := cell.Atoms()
			if stripStyle && len(atoms) > 0 && atoms[0].Base().Type == atom.TypeStyle {
				atoms = atoms[1:]
			}
			if spacer && j == 1 && len(atoms) > 0 && atoms[0].Base().Type == atom.TypeOrdinary &&
				atoms[0].Base().Nucleus == "" && !atoms[0].Base().HasScripts() {
				atoms = atoms[1:]
			}
			w.list(atom.NewList(atoms...))
			if j < len(row)-1 {
				w.b.WriteByte('&')
			}
		}
		if i < len(t.Cells)-1 {
			w.b.WriteString(`\\ `)
		}
	}
	switch env {
	case "", "substack":
		w.b.WriteByte('}')
	default:
		fmt.Fprintf(&w.b, `\end{%s}`, env)
	}
}
