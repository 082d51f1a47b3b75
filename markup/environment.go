package markup

import (
	"fmt"
	"strings"

	"github.com/ByLCY/mathtype/atom"
)

// matrixDelimiters lists the matrix environments and the delimiters they
// are wrapped in.
var matrixDelimiters = map[string][2]string{
	"matrix":      {},
	"smallmatrix": {},
	"pmatrix":     {"(", ")"},
	"bmatrix":     {"[", "]"},
	"Bmatrix":     {"{", "}"},
	"vmatrix":     {"vert", "vert"},
	"Vmatrix":     {"Vert", "Vert"},
}

// IsMatrixEnvironment reports whether env is one of the matrix family,
// starred variants included.
func IsMatrixEnvironment(env string) bool {
	_, ok := matrixDelimiters[strings.TrimSuffix(env, "*")]
	return ok
}

// MatrixDelimiters returns the delimiter names wrapped around env.
func MatrixDelimiters(env string) (left, right string) {
	d := matrixDelimiters[strings.TrimSuffix(env, "*")]
	return d[0], d[1]
}

// buildTable reads the cells of a table until its environment ends. first,
// when set, is the cell already read before the table was discovered; isRow
// tells whether it was ended by \\ or by &.
func (p *Parser) buildTable(name string, first *atom.List, isRow bool) atom.Atom {
	outer := p.env
	p.env = &environment{name: name}
	defer func() { p.env = outer }()

	var starAlign *atom.ColumnAlignment
	if strings.HasSuffix(name, "*") && IsMatrixEnvironment(name) {
		starAlign = p.readStarAlignment()
		if p.err != nil {
			return nil
		}
	}
	return p.readTable(first, isRow, starAlign)
}

// substack reads \substack{row \\ row}.
func (p *Parser) substack() atom.Atom {
	if !p.expect('{') {
		p.fail(ErrCharacterNotFound, "Missing {")
		return nil
	}
	outer := p.env
	p.env = &environment{braced: true}
	defer func() { p.env = outer }()

	a := p.readTable(nil, false, nil)
	if a == nil {
		return nil
	}
	table := a.(*atom.Table)
	table.Environment = "substack"
	table.InterRowAdditionalSpacing = 0
	for col := range table.Alignments {
		table.Alignments[col] = atom.AlignCenter
	}
	return table
}

func (p *Parser) readTable(first *atom.List, isRow bool, starAlign *atom.ColumnAlignment) atom.Atom {
	env := p.env
	var rows [][]*atom.List
	row, col := 0, 0
	set := func(l *atom.List) {
		for len(rows) <= row {
			rows = append(rows, nil)
		}
		for len(rows[row]) <= col {
			rows[row] = append(rows[row], atom.NewList())
		}
		rows[row][col] = l
	}
	if first != nil {
		set(first)
		if isRow {
			env.numRows++
			row++
		} else {
			col++
		}
	}
	for !env.ended && p.hasCharacters() {
		l := p.buildInternal(false, 0)
		if p.err != nil {
			return nil
		}
		set(l)
		col++
		if env.numRows > row {
			row = env.numRows
			col = 0
		}
	}
	if !env.ended && env.name != "" {
		p.fail(ErrMissingEnd, `Missing \end{%s}`, env.name)
		return nil
	}
	if !env.ended && env.braced {
		p.fail(ErrMismatchBraces, "Missing closing brace")
		return nil
	}

	table := atom.NewTable(env.name)
	for i, cells := range rows {
		for j, cell := range cells {
			table.SetCell(cell, i, j)
		}
	}
	a, code, msg := p.shapeTable(table, starAlign)
	if code != 0 {
		p.fail(code, "%s", msg)
		return nil
	}
	return a
}

// readStarAlignment reads the optional [l|c|r] after a starred matrix.
func (p *Parser) readStarAlignment() *atom.ColumnAlignment {
	save := p.pos
	if !p.expect('[') {
		p.pos = save
		return nil
	}
	p.skipSpaces()
	var a atom.ColumnAlignment
	switch ch, _ := p.peek(); ch {
	case 'l':
		a = atom.AlignLeft
	case 'c':
		a = atom.AlignCenter
	case 'r':
		a = atom.AlignRight
	default:
		p.fail(ErrInvalidEnv, "Invalid column alignment for %s", p.env.name)
		return nil
	}
	p.pos++
	if !p.expect(']') {
		p.fail(ErrCharacterNotFound, "Missing ]")
		return nil
	}
	return &a
}

// shapeTable applies the environment's spacing, alignment and decoration.
func (p *Parser) shapeTable(table *atom.Table, starAlign *atom.ColumnAlignment) (atom.Atom, ErrorCode, string) {
	env := table.Environment
	cols := table.NumColumns()
	need := func(n int) (atom.Atom, ErrorCode, string) {
		if n == 1 {
			return nil, ErrInvalidNumColumns, env + " environment can only have 1 column"
		}
		return nil, ErrInvalidNumColumns, fmt.Sprintf("%s environment can only have %d columns", env, n)
	}

	switch {
	case env == "":
		table.InterRowAdditionalSpacing = 1
		table.InterColumnSpacing = 0
		for c := 0; c < cols; c++ {
			table.SetAlignment(atom.AlignLeft, c)
		}
		return table, 0, ""

	case IsMatrixEnvironment(env):
		style := atom.LineStyleText
		table.InterColumnSpacing = 18
		if strings.TrimSuffix(env, "*") == "smallmatrix" {
			style = atom.LineStyleScript
			table.InterColumnSpacing = 6
		}
		table.InterRowAdditionalSpacing = 0
		insertStyle(table, style)
		if starAlign != nil {
			for c := 0; c < cols; c++ {
				table.SetAlignment(*starAlign, c)
			}
		}
		left, right := MatrixDelimiters(env)
		if left == "" {
			return table, 0, ""
		}
		return p.wrap(left, right, table), 0, ""

	case env == "eqalign" || env == "split" || env == "aligned":
		if cols != 2 {
			return need(2)
		}
		for _, row := range table.Cells {
			if len(row) > 1 {
				row[1].Insert(atom.NewSymbol(atom.TypeOrdinary, ""), 0)
			}
		}
		table.InterRowAdditionalSpacing = 1
		table.InterColumnSpacing = 0
		table.SetAlignment(atom.AlignRight, 0)
		table.SetAlignment(atom.AlignLeft, 1)
		return table, 0, ""

	case env == "displaylines" || env == "gather":
		if cols != 1 {
			return need(1)
		}
		table.InterRowAdditionalSpacing = 1
		table.InterColumnSpacing = 0
		table.SetAlignment(atom.AlignCenter, 0)
		return table, 0, ""

	case env == "eqnarray":
		if cols != 3 {
			return need(3)
		}
		table.InterRowAdditionalSpacing = 1
		table.InterColumnSpacing = 18
		table.SetAlignment(atom.AlignRight, 0)
		table.SetAlignment(atom.AlignCenter, 1)
		table.SetAlignment(atom.AlignLeft, 2)
		return table, 0, ""

	case env == "cases":
		if cols != 2 {
			return need(2)
		}
		table.InterRowAdditionalSpacing = 0
		table.InterColumnSpacing = 18
		table.SetAlignment(atom.AlignLeft, 0)
		table.SetAlignment(atom.AlignLeft, 1)
		insertStyle(table, atom.LineStyleText)
		inner := p.wrap("{", ".", table)
		space, _ := p.table.Lookup(",")
		inner.List.Insert(space, 0)
		return inner, 0, ""
	}
	return nil, ErrInvalidEnv, "Unknown environment: " + env
}

// insertStyle starts every cell of table with a style atom.
func insertStyle(table *atom.Table, level atom.LineStyle) {
	for _, row := range table.Cells {
		for _, cell := range row {
			cell.Insert(atom.NewStyle(level), 0)
		}
	}
}

// wrap puts table between two delimiters.
func (p *Parser) wrap(left, right string, table *atom.Table) *atom.Inner {
	inner := atom.NewInner(atom.NewList(table))
	l, _ := p.table.Delimiter(left)
	r, _ := p.table.Delimiter(right)
	inner.SetLeftBoundary(atom.NewSymbol(atom.TypeBoundary, l))
	inner.SetRightBoundary(atom.NewSymbol(atom.TypeBoundary, r))
	return inner
}
