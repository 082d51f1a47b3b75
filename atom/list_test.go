package atom_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ByLCY/mathtype/atom"
)

func sym(t atom.Type, n string) atom.Atom { return atom.NewSymbol(t, n) }

func types(l *atom.List) []atom.Type {
	var out []atom.Type
	for _, a := range l.Atoms() {
		out = append(out, a.Base().Type)
	}
	return out
}

func nuclei(l *atom.List) []string {
	var out []string
	for _, a := range l.Atoms() {
		out = append(out, a.Base().Nucleus)
	}
	return out
}

func TestFinalizedRetypesBinaryOperators(t *testing.T) {
	tt := []struct {
		name  string
		input []atom.Atom
		want  []atom.Type
	}{
		{
			name:  "leading minus",
			input: []atom.Atom{sym(atom.TypeBinaryOperator, "−"), sym(atom.TypeVariable, "x")},
			want:  []atom.Type{atom.TypeUnaryOperator, atom.TypeVariable},
		},
		{
			name: "after relation",
			input: []atom.Atom{
				sym(atom.TypeVariable, "x"), sym(atom.TypeRelation, "="),
				sym(atom.TypeBinaryOperator, "−"), sym(atom.TypeVariable, "y"),
			},
			want: []atom.Type{atom.TypeVariable, atom.TypeRelation, atom.TypeUnaryOperator, atom.TypeVariable},
		},
		{
			name: "before close",
			input: []atom.Atom{
				sym(atom.TypeOpen, "("), sym(atom.TypeVariable, "x"),
				sym(atom.TypeBinaryOperator, "+"), sym(atom.TypeClose, ")"),
			},
			want: []atom.Type{atom.TypeOpen, atom.TypeVariable, atom.TypeUnaryOperator, atom.TypeClose},
		},
		{
			name:  "trailing",
			input: []atom.Atom{sym(atom.TypeVariable, "x"), sym(atom.TypeBinaryOperator, "+")},
			want:  []atom.Type{atom.TypeVariable, atom.TypeUnaryOperator},
		},
		{
			name: "infix stays binary",
			input: []atom.Atom{
				sym(atom.TypeVariable, "a"), sym(atom.TypeBinaryOperator, "+"), sym(atom.TypeVariable, "b"),
			},
			want: []atom.Type{atom.TypeVariable, atom.TypeBinaryOperator, atom.TypeVariable},
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			got := types(atom.NewList(tc.input...).Finalized())
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("types mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFinalizedFusesNumbers(t *testing.T) {
	two := sym(atom.TypeNumber, "2")
	two.Base().SetSuperscript(atom.NewList(sym(atom.TypeVariable, "n")))
	l := atom.NewList(sym(atom.TypeNumber, "1"), sym(atom.TypeNumber, "."), two, sym(atom.TypeVariable, "x"))

	got := l.Finalized()
	if diff := cmp.Diff([]string{"1.2", "x"}, nuclei(got)); diff != "" {
		t.Fatalf("nuclei mismatch (-want +got):\n%s", diff)
	}
	num := got.At(0).Base()
	if num.Superscript() == nil || num.Superscript().String() != "n" {
		t.Fatalf("fused number should inherit the last superscript")
	}
	if len(num.Fused) != 3 {
		t.Fatalf("expected 3 fused originals, got %d", len(num.Fused))
	}
	if num.Range != (atom.Range{Location: 0, Length: 3}) {
		t.Fatalf("unexpected fused range %+v", num.Range)
	}
	if got.At(1).Base().Range.Location != 3 {
		t.Fatalf("x should start after the fused number, got %+v", got.At(1).Base().Range)
	}
	// The input list is left untouched.
	if l.Len() != 4 || l.At(0).Base().Nucleus != "1" {
		t.Fatalf("finalize mutated its input")
	}
}

func TestFinalizedIsIdempotent(t *testing.T) {
	frac := atom.NewFraction(true)
	frac.Numerator = atom.NewList(sym(atom.TypeNumber, "1"), sym(atom.TypeNumber, "2"))
	frac.Denominator = atom.NewList(sym(atom.TypeBinaryOperator, "−"), sym(atom.TypeVariable, "y"))
	l := atom.NewList(sym(atom.TypeBinaryOperator, "+"), frac, sym(atom.TypeNumber, "3"), sym(atom.TypeNumber, "4"))

	once := l.Finalized()
	twice := once.Finalized()
	if once.String() != twice.String() {
		t.Fatalf("finalize is not idempotent: %q vs %q", once, twice)
	}
	if diff := cmp.Diff(types(once), types(twice)); diff != "" {
		t.Fatalf("types changed on second pass:\n%s", diff)
	}
	f := twice.At(1).(*atom.Fraction)
	if f.Numerator.Len() != 1 || f.Denominator.At(0).Base().Type != atom.TypeUnaryOperator {
		t.Fatalf("children were not finalized")
	}
}

func TestIndexNavigation(t *testing.T) {
	ix := atom.Level0(2)
	down := ix.LevelDown(atom.SubIndexSuperscript, 0)
	if down.Level() != 1 || down.FinalSubIndexKind() != atom.SubIndexSuperscript {
		t.Fatalf("unexpected level down: %v", down)
	}
	if !down.HasSubIndexOfKind(atom.SubIndexSuperscript) || down.HasSubIndexOfKind(atom.SubIndexNumerator) {
		t.Fatalf("sub index kinds wrong for %v", down)
	}
	next := down.Next()
	if prev, ok := next.Previous(); !ok || !prev.Equal(down) {
		t.Fatalf("previous of next should round trip: %v", prev)
	}
	if _, ok := down.Previous(); ok {
		t.Fatalf("position 0 has no previous")
	}
	if !down.LevelUp().Equal(ix) {
		t.Fatalf("level up should return to %v, got %v", ix, down.LevelUp())
	}
	if ix.Compare(down) >= 0 || down.Compare(next) >= 0 {
		t.Fatalf("unexpected ordering")
	}
	seen := map[string]bool{ix.Key(): true, down.Key(): true, next.Key(): true}
	if len(seen) != 3 {
		t.Fatalf("keys collide: %v", seen)
	}
	if down.String() != "[2, superscript:[0]]" {
		t.Fatalf("unexpected string %q", down.String())
	}
}

func TestAtomAt(t *testing.T) {
	x := sym(atom.TypeVariable, "x")
	x.Base().SetSuperscript(atom.NewList(sym(atom.TypeNumber, "2")))
	frac := atom.NewFraction(true)
	frac.Numerator = atom.NewList(sym(atom.TypeVariable, "a"))
	frac.Denominator = atom.NewList(sym(atom.TypeVariable, "b"))
	l := atom.NewList(x, frac)

	if got := l.AtomAt(atom.Level0(0).LevelDown(atom.SubIndexSuperscript, 0)); got == nil || got.Base().Nucleus != "2" {
		t.Fatalf("expected superscript 2, got %v", got)
	}
	if got := l.AtomAt(atom.Level0(1).LevelDown(atom.SubIndexDenominator, 0)); got == nil || got.Base().Nucleus != "b" {
		t.Fatalf("expected denominator b, got %v", got)
	}
	if got := l.AtomAt(atom.Level0(5)); got != nil {
		t.Fatalf("out of range index should yield nil")
	}
}
