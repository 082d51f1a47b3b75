package atom

import "fmt"

// Symbol is a plain atom with no payload beyond Core: ordinary characters,
// numbers, variables, operators, relations, brackets, punctuation,
// placeholders and boundary delimiters.
type Symbol struct {
	Core
}

// NewSymbol returns a symbol atom.
func NewSymbol(t Type, nucleus string) *Symbol {
	return &Symbol{Core: Core{Type: t, Nucleus: nucleus}}
}

func (s *Symbol) Clone() Atom { return &Symbol{Core: s.clone()} }

func (s *Symbol) finalize() Atom {
	out := &Symbol{Core: s.clone()}
	out.finalizeScripts()
	return out
}

// LargeOperator is a big operator such as \sum or \lim.
type LargeOperator struct {
	Core
	// Limits places scripts above and below the operator instead of beside it.
	Limits bool
}

// NewLargeOperator returns an operator atom.
func NewLargeOperator(nucleus string, limits bool) *LargeOperator {
	return &LargeOperator{Core: Core{Type: TypeLargeOperator, Nucleus: nucleus}, Limits: limits}
}

func (o *LargeOperator) Clone() Atom { return &LargeOperator{Core: o.clone(), Limits: o.Limits} }

func (o *LargeOperator) finalize() Atom {
	out := o.Clone().(*LargeOperator)
	out.finalizeScripts()
	return out
}

// Fraction is a generalized fraction: \frac, \atop, \binom and friends.
type Fraction struct {
	Core
	Numerator      *List
	Denominator    *List
	HasRule        bool
	LeftDelimiter  string
	RightDelimiter string
	// Continued marks \cfrac, whose numerator is set in display style.
	Continued bool
	// Alignment of a continued fraction numerator: "l", "r" or "c".
	Alignment string
}

// NewFraction returns a fraction atom with a dividing rule when hasRule.
func NewFraction(hasRule bool) *Fraction {
	return &Fraction{Core: Core{Type: TypeFraction}, HasRule: hasRule, Alignment: "c"}
}

func (f *Fraction) Clone() Atom {
	return &Fraction{
		Core:           f.clone(),
		Numerator:      f.Numerator.Clone(),
		Denominator:    f.Denominator.Clone(),
		HasRule:        f.HasRule,
		LeftDelimiter:  f.LeftDelimiter,
		RightDelimiter: f.RightDelimiter,
		Continued:      f.Continued,
		Alignment:      f.Alignment,
	}
}

func (f *Fraction) finalize() Atom {
	out := f.Clone().(*Fraction)
	out.finalizeScripts()
	out.Numerator = out.Numerator.Finalized()
	out.Denominator = out.Denominator.Finalized()
	return out
}

// Radical is a square root or an n-th root.
type Radical struct {
	Core
	Radicand *List
	Degree   *List
}

// NewRadical returns an empty radical.
func NewRadical() *Radical { return &Radical{Core: Core{Type: TypeRadical}} }

func (r *Radical) Clone() Atom {
	return &Radical{Core: r.clone(), Radicand: r.Radicand.Clone(), Degree: r.Degree.Clone()}
}

func (r *Radical) finalize() Atom {
	out := r.Clone().(*Radical)
	out.finalizeScripts()
	out.Radicand = out.Radicand.Finalized()
	out.Degree = out.Degree.Finalized()
	return out
}

// Inner is a delimited group created by \left ... \right.
type Inner struct {
	Core
	List *List

	left  Atom
	right Atom
}

// NewInner returns an inner atom wrapping l.
func NewInner(l *List) *Inner { return &Inner{Core: Core{Type: TypeInner}, List: l} }

// LeftBoundary returns the left delimiter atom or nil.
func (in *Inner) LeftBoundary() Atom { return in.left }

// RightBoundary returns the right delimiter atom or nil.
func (in *Inner) RightBoundary() Atom { return in.right }

// SetLeftBoundary sets the left delimiter. It panics unless a is a boundary.
func (in *Inner) SetLeftBoundary(a Atom) {
	checkBoundary(a)
	in.left = a
}

// SetRightBoundary sets the right delimiter. It panics unless a is a boundary.
func (in *Inner) SetRightBoundary(a Atom) {
	checkBoundary(a)
	in.right = a
}

func checkBoundary(a Atom) {
	if a != nil && a.Base().Type != TypeBoundary {
		panic(fmt.Sprintf("atom: inner boundary must be a boundary atom, got %s", a.Base().Type))
	}
}

func (in *Inner) Clone() Atom {
	out := &Inner{Core: in.clone(), List: in.List.Clone()}
	if in.left != nil {
		out.left = in.left.Clone()
	}
	if in.right != nil {
		out.right = in.right.Clone()
	}
	return out
}

func (in *Inner) finalize() Atom {
	out := in.Clone().(*Inner)
	out.finalizeScripts()
	out.List = out.List.Finalized()
	return out
}

// Underline draws a rule below its inner list.
type Underline struct {
	Core
	Inner *List
}

func (u *Underline) Clone() Atom { return &Underline{Core: u.clone(), Inner: u.Inner.Clone()} }

func (u *Underline) finalize() Atom {
	out := &Underline{Core: u.clone(), Inner: u.Inner.Finalized()}
	out.finalizeScripts()
	return out
}

// Overline draws a rule above its inner list.
type Overline struct {
	Core
	Inner *List
}

func (o *Overline) Clone() Atom { return &Overline{Core: o.clone(), Inner: o.Inner.Clone()} }

func (o *Overline) finalize() Atom {
	out := &Overline{Core: o.clone(), Inner: o.Inner.Finalized()}
	out.finalizeScripts()
	return out
}

// Accent places its nucleus (the accent character) over the inner list.
type Accent struct {
	Core
	Inner *List
}

// NewAccent returns an accent atom for the given combining or spacing accent
// character.
func NewAccent(value string) *Accent { return &Accent{Core: Core{Type: TypeAccent, Nucleus: value}} }

func (a *Accent) Clone() Atom { return &Accent{Core: a.clone(), Inner: a.Inner.Clone()} }

func (a *Accent) finalize() Atom {
	out := &Accent{Core: a.clone(), Inner: a.Inner.Finalized()}
	out.finalizeScripts()
	return out
}

// Space is explicit horizontal space measured in mu (1/18 em).
type Space struct {
	Core
	Amount float64
}

// NewSpace returns a space atom of amount mu.
func NewSpace(amount float64) *Space { return &Space{Core: Core{Type: TypeSpace}, Amount: amount} }

func (s *Space) Clone() Atom { return &Space{Core: s.clone(), Amount: s.Amount} }

func (s *Space) finalize() Atom { return s.Clone() }

// Style switches the line style for the rest of the enclosing list.
type Style struct {
	Core
	Level LineStyle
}

// NewStyle returns a style marker.
func NewStyle(level LineStyle) *Style { return &Style{Core: Core{Type: TypeStyle}, Level: level} }

func (s *Style) Clone() Atom { return &Style{Core: s.clone(), Level: s.Level} }

func (s *Style) finalize() Atom { return s.Clone() }

// Color sets the foreground color of its inner list (\color).
type Color struct {
	Core
	Color string
	Inner *List
}

func (c *Color) Clone() Atom { return &Color{Core: c.clone(), Color: c.Color, Inner: c.Inner.Clone()} }

func (c *Color) finalize() Atom {
	return &Color{Core: c.clone(), Color: c.Color, Inner: c.Inner.Finalized()}
}

// TextColor sets the foreground color of its inner list (\textcolor).
type TextColor struct {
	Core
	Color string
	Inner *List
}

func (c *TextColor) Clone() Atom {
	return &TextColor{Core: c.clone(), Color: c.Color, Inner: c.Inner.Clone()}
}

func (c *TextColor) finalize() Atom {
	return &TextColor{Core: c.clone(), Color: c.Color, Inner: c.Inner.Finalized()}
}

// ColorBox paints a background behind its inner list (\colorbox).
type ColorBox struct {
	Core
	Color string
	Inner *List
}

func (c *ColorBox) Clone() Atom {
	return &ColorBox{Core: c.clone(), Color: c.Color, Inner: c.Inner.Clone()}
}

func (c *ColorBox) finalize() Atom {
	return &ColorBox{Core: c.clone(), Color: c.Color, Inner: c.Inner.Finalized()}
}

// ColumnAlignment aligns the cells of a table column.
type ColumnAlignment int

const (
	AlignCenter ColumnAlignment = iota
	AlignLeft
	AlignRight
)

func (a ColumnAlignment) String() string {
	switch a {
	case AlignLeft:
		return "l"
	case AlignRight:
		return "r"
	}
	return "c"
}

// Table is a matrix of cells produced by an environment or by \\ and &.
type Table struct {
	Core
	// Cells is indexed [row][column]. Rows may be ragged.
	Cells       [][]*List
	Alignments  []ColumnAlignment
	Environment string
	// InterColumnSpacing is in mu.
	InterColumnSpacing float64
	// InterRowAdditionalSpacing is added to the baseline skip, in points at
	// unit size.
	InterRowAdditionalSpacing float64
}

// NewTable returns an empty table for environment env ("" for an implicit
// table).
func NewTable(env string) *Table { return &Table{Core: Core{Type: TypeTable}, Environment: env} }

// SetCell stores l at (row, col), growing the table as needed.
func (t *Table) SetCell(l *List, row, col int) {
	if row < 0 || col < 0 {
		panic(fmt.Sprintf("atom: negative table index (%d, %d)", row, col))
	}
	for len(t.Cells) <= row {
		t.Cells = append(t.Cells, nil)
	}
	cells := t.Cells[row]
	for len(cells) <= col {
		cells = append(cells, NewList())
	}
	cells[col] = l
	t.Cells[row] = cells
}

// SetAlignment sets the alignment of column col, growing the alignment list
// with centered columns as needed.
func (t *Table) SetAlignment(a ColumnAlignment, col int) {
	for len(t.Alignments) <= col {
		t.Alignments = append(t.Alignments, AlignCenter)
	}
	t.Alignments[col] = a
}

// Alignment returns the alignment of column col.
func (t *Table) Alignment(col int) ColumnAlignment {
	if col < len(t.Alignments) {
		return t.Alignments[col]
	}
	return AlignCenter
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int { return len(t.Cells) }

// NumColumns returns the width of the widest row.
func (t *Table) NumColumns() int {
	n := 0
	for _, row := range t.Cells {
		n = max(n, len(row))
	}
	return n
}

func (t *Table) Clone() Atom {
	out := &Table{
		Core:                      t.clone(),
		Alignments:                append([]ColumnAlignment(nil), t.Alignments...),
		Environment:               t.Environment,
		InterColumnSpacing:        t.InterColumnSpacing,
		InterRowAdditionalSpacing: t.InterRowAdditionalSpacing,
	}
	if t.Cells != nil {
		out.Cells = make([][]*List, len(t.Cells))
		for i, row := range t.Cells {
			out.Cells[i] = make([]*List, len(row))
			for j, cell := range row {
				out.Cells[i][j] = cell.Clone()
			}
		}
	}
	return out
}

func (t *Table) finalize() Atom {
	out := t.Clone().(*Table)
	for i, row := range out.Cells {
		for j, cell := range row {
			out.Cells[i][j] = cell.Finalized()
		}
	}
	return out
}
