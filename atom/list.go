package atom

import (
	"fmt"
	"strings"
)

// List is an ordered sequence of atoms. A list owns its atoms; it never holds
// boundary atoms, which only appear as the delimiters of an Inner.
type List struct {
	atoms []Atom
}

// NewList returns a list holding atoms.
func NewList(atoms ...Atom) *List {
	l := &List{}
	for _, a := range atoms {
		l.Add(a)
	}
	return l
}

// Atoms returns the atoms of the list. The slice must not be modified.
func (l *List) Atoms() []Atom {
	if l == nil {
		return nil
	}
	return l.atoms
}

// Len returns the number of atoms.
func (l *List) Len() int {
	if l == nil {
		return 0
	}
	return len(l.atoms)
}

// At returns the atom at i.
func (l *List) At(i int) Atom { return l.atoms[i] }

// Last returns the final atom or nil.
func (l *List) Last() Atom {
	if l.Len() == 0 {
		return nil
	}
	return l.atoms[len(l.atoms)-1]
}

func checkAllowed(a Atom) {
	if a == nil {
		panic("atom: cannot add nil atom to list")
	}
	if a.Base().Type == TypeBoundary {
		panic("atom: boundary atoms cannot be added to a list")
	}
}

// Add appends a. It panics when a is nil or a boundary atom.
func (l *List) Add(a Atom) {
	checkAllowed(a)
	l.atoms = append(l.atoms, a)
}

// Insert places a at index i.
func (l *List) Insert(a Atom, i int) {
	checkAllowed(a)
	if i < 0 || i > len(l.atoms) {
		panic(fmt.Sprintf("atom: insert index %d out of range [0,%d]", i, len(l.atoms)))
	}
	l.atoms = append(l.atoms, nil)
	copy(l.atoms[i+1:], l.atoms[i:])
	l.atoms[i] = a
}

// Append moves the atoms of other to the end of l.
func (l *List) Append(other *List) {
	for _, a := range other.Atoms() {
		l.Add(a)
	}
}

// RemoveLast drops the final atom, if any.
func (l *List) RemoveLast() {
	if len(l.atoms) > 0 {
		l.atoms[len(l.atoms)-1] = nil
		l.atoms = l.atoms[:len(l.atoms)-1]
	}
}

// RemoveAt drops the atom at index i.
func (l *List) RemoveAt(i int) {
	l.atoms = append(l.atoms[:i], l.atoms[i+1:]...)
}

// RemoveRange drops n atoms starting at start.
func (l *List) RemoveRange(start, n int) {
	l.atoms = append(l.atoms[:start], l.atoms[start+n:]...)
}

// Clone returns a deep copy. Cloning a nil list yields nil.
func (l *List) Clone() *List {
	if l == nil {
		return nil
	}
	out := &List{atoms: make([]Atom, len(l.atoms))}
	for i, a := range l.atoms {
		out.atoms[i] = a.Clone()
	}
	return out
}

// String concatenates the nuclei of the list, for debugging.
func (l *List) String() string {
	if l == nil {
		return ""
	}
	var b strings.Builder
	for _, a := range l.atoms {
		b.WriteString(a.Base().String())
	}
	return b.String()
}

// Finalized returns a normalized copy of the list, recursively:
//
//   - a binary operator without a left operand becomes unary;
//   - a binary operator followed by a relation, punctuation or closing
//     bracket becomes unary, as does one ending the list;
//   - runs of numbers are fused into a single atom.
//
// Atoms without a source range get one derived from their position.
func (l *List) Finalized() *List {
	if l == nil {
		return nil
	}
	out := &List{atoms: make([]Atom, 0, len(l.atoms))}
	var prev Atom
	for _, a := range l.atoms {
		next := a.finalize()
		core := next.Base()
		if core.Range.IsZero() {
			loc := 0
			if prev != nil {
				loc = prev.Base().Range.End()
			}
			core.Range = Range{Location: loc, Length: 1}
		}

		switch core.Type {
		case TypeBinaryOperator:
			if lacksLeftOperand(prev) {
				core.Type = TypeUnaryOperator
			}
		case TypeRelation, TypePunctuation, TypeClose:
			if prev != nil && prev.Base().Type == TypeBinaryOperator {
				prev.Base().Type = TypeUnaryOperator
			}
		case TypeNumber:
			if prev != nil && prev.Base().Type == TypeNumber && !prev.Base().HasScripts() {
				prev.Base().Fuse(next)
				continue
			}
		}
		out.atoms = append(out.atoms, next)
		prev = next
	}
	if prev != nil && prev.Base().Type == TypeBinaryOperator {
		prev.Base().Type = TypeUnaryOperator
	}
	return out
}

func lacksLeftOperand(prev Atom) bool {
	if prev == nil {
		return true
	}
	switch prev.Base().Type {
	case TypeBinaryOperator, TypeRelation, TypeOpen, TypePunctuation, TypeLargeOperator:
		return true
	}
	return false
}
