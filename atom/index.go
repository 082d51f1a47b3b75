package atom

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// SubIndexKind names the child slot a path step descends into.
type SubIndexKind int

const (
	SubIndexNone SubIndexKind = iota
	SubIndexNucleus
	SubIndexSuperscript
	SubIndexSubscript
	SubIndexNumerator
	SubIndexDenominator
	SubIndexRadicand
	SubIndexDegree
)

func (k SubIndexKind) String() string {
	switch k {
	case SubIndexNone:
		return "none"
	case SubIndexNucleus:
		return "nucleus"
	case SubIndexSuperscript:
		return "superscript"
	case SubIndexSubscript:
		return "subscript"
	case SubIndexNumerator:
		return "numerator"
	case SubIndexDenominator:
		return "denominator"
	case SubIndexRadicand:
		return "radicand"
	case SubIndexDegree:
		return "degree"
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Step is one level of an Index: the atom position in the current list and
// the child slot entered from it. The innermost step has kind SubIndexNone.
type Step struct {
	Position int
	Kind     SubIndexKind
}

// Index addresses a position inside a nested atom list, for cursor based
// editing. It is an immutable value; operations return new indexes.
type Index struct {
	steps []Step
}

// Level0 returns the index of position pos in the outermost list.
func Level0(pos int) Index { return Index{steps: []Step{{Position: pos}}} }

// NewIndex builds an index from its steps, outermost first.
func NewIndex(steps ...Step) Index {
	if len(steps) == 0 {
		return Level0(0)
	}
	s := slices.Clone(steps)
	s[len(s)-1].Kind = SubIndexNone
	return Index{steps: s}
}

// Steps returns a copy of the path.
func (ix Index) Steps() []Step { return slices.Clone(ix.steps) }

// AtomIndex is the position within the outermost list.
func (ix Index) AtomIndex() int {
	if len(ix.steps) == 0 {
		return 0
	}
	return ix.steps[0].Position
}

// Level is the nesting depth; 0 means the outermost list.
func (ix Index) Level() int { return max(len(ix.steps)-1, 0) }

// FinalSubIndexKind returns the slot entered by the innermost descent, or
// SubIndexNone at level 0.
func (ix Index) FinalSubIndexKind() SubIndexKind {
	if len(ix.steps) < 2 {
		return SubIndexNone
	}
	return ix.steps[len(ix.steps)-2].Kind
}

// HasSubIndexOfKind reports whether the path enters kind at any level.
func (ix Index) HasSubIndexOfKind(kind SubIndexKind) bool {
	for _, s := range ix.steps[:max(len(ix.steps)-1, 0)] {
		if s.Kind == kind {
			return true
		}
	}
	return false
}

// LevelUp drops the innermost step. At level 0 it returns ix unchanged.
func (ix Index) LevelUp() Index {
	if len(ix.steps) < 2 {
		return ix
	}
	s := slices.Clone(ix.steps[:len(ix.steps)-1])
	s[len(s)-1].Kind = SubIndexNone
	return Index{steps: s}
}

// LevelDown descends into slot kind of the current atom, at position pos of
// that child list.
func (ix Index) LevelDown(kind SubIndexKind, pos int) Index {
	s := slices.Clone(ix.steps)
	if len(s) == 0 {
		s = []Step{{}}
	}
	s[len(s)-1].Kind = kind
	s = append(s, Step{Position: pos})
	return Index{steps: s}
}

// Next moves to the following position at the innermost level.
func (ix Index) Next() Index {
	s := slices.Clone(ix.steps)
	if len(s) == 0 {
		return Level0(1)
	}
	s[len(s)-1].Position++
	return Index{steps: s}
}

// Previous moves to the preceding position at the innermost level. ok is
// false when already at position 0.
func (ix Index) Previous() (prev Index, ok bool) {
	if len(ix.steps) == 0 || ix.steps[len(ix.steps)-1].Position == 0 {
		return ix, false
	}
	s := slices.Clone(ix.steps)
	s[len(s)-1].Position--
	return Index{steps: s}, true
}

// Equal reports whether both indexes address the same position.
func (ix Index) Equal(o Index) bool { return slices.Equal(ix.steps, o.steps) }

// Compare orders indexes in document order. An index sorts before its own
// descendants.
func (ix Index) Compare(o Index) int {
	return slices.CompareFunc(ix.steps, o.steps, func(a, b Step) int {
		if a.Position != b.Position {
			return a.Position - b.Position
		}
		return int(a.Kind) - int(b.Kind)
	})
}

// Key returns a string usable as a map key.
func (ix Index) Key() string {
	var b strings.Builder
	for i, s := range ix.steps {
		if i > 0 {
			b.WriteByte('/')
		}
		b.WriteString(strconv.Itoa(s.Position))
		if s.Kind != SubIndexNone {
			b.WriteByte(':')
			b.WriteString(strconv.Itoa(int(s.Kind)))
		}
	}
	return b.String()
}

func (ix Index) String() string {
	if len(ix.steps) == 0 {
		return "[0]"
	}
	var b strings.Builder
	for i, s := range ix.steps {
		fmt.Fprintf(&b, "[%d", s.Position)
		if i < len(ix.steps)-1 {
			fmt.Fprintf(&b, ", %s:", s.Kind)
		}
	}
	b.WriteString(strings.Repeat("]", len(ix.steps)))
	return b.String()
}

// AtomAt returns the atom addressed by ix, or nil when the path does not
// exist in l.
func (l *List) AtomAt(ix Index) Atom {
	cur := l
	for i, s := range ix.steps {
		if s.Position < 0 || s.Position >= cur.Len() {
			return nil
		}
		a := cur.At(s.Position)
		if i == len(ix.steps)-1 {
			return a
		}
		cur = childList(a, s.Kind)
		if cur == nil {
			return nil
		}
	}
	return nil
}

func childList(a Atom, kind SubIndexKind) *List {
	switch kind {
	case SubIndexSuperscript:
		return a.Base().Superscript()
	case SubIndexSubscript:
		return a.Base().Subscript()
	}
	switch v := a.(type) {
	case *Fraction:
		switch kind {
		case SubIndexNumerator:
			return v.Numerator
		case SubIndexDenominator:
			return v.Denominator
		}
	case *Radical:
		switch kind {
		case SubIndexRadicand:
			return v.Radicand
		case SubIndexDegree:
			return v.Degree
		}
	case *Inner:
		if kind == SubIndexNucleus {
			return v.List
		}
	}
	return nil
}
