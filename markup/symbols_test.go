package markup_test

import (
	"errors"
	"slices"
	"testing"

	"github.com/ByLCY/mathtype/atom"
	"github.com/ByLCY/mathtype/markup"
)

func TestSymbolTableWith(t *testing.T) {
	base := markup.DefaultSymbols()
	ext, err := base.With(
		markup.Entry{Kind: markup.EntrySymbol, Name: "RR", Atom: atom.NewSymbol(atom.TypeOrdinary, "ℝ")},
		markup.Entry{Kind: markup.EntrySymbol, Name: "argmax", Atom: atom.NewLargeOperator("arg max", true)},
		markup.Entry{Kind: markup.EntryAlias, Name: "reals", Target: "RR"},
		markup.Entry{Kind: markup.EntryDelimiter, Name: "lVert", Value: "‖"},
		markup.Entry{Kind: markup.EntryAccent, Name: "arrowhat", Value: "\u20d7"},
	)
	if err != nil {
		t.Fatalf("With: %v", err)
	}

	if _, err := markup.Parse(`\RR`); err == nil {
		t.Fatalf("the default table must not change")
	} else if !errors.Is(err, &markup.ParseError{Code: markup.ErrInvalidCommand}) {
		t.Fatalf("unexpected error %v", err)
	}

	l, err := markup.NewParser(`\reals \argmax_x \left\lVert v \right\lVert \arrowhat{u}`, markup.WithSymbols(ext)).Parse()
	if err != nil {
		t.Fatalf("parse with extended table: %v", err)
	}
	if l.At(0).Base().Nucleus != "ℝ" {
		t.Fatalf("alias should resolve to the registered symbol, got %q", l.At(0).Base().Nucleus)
	}
	if op, ok := l.At(1).(*atom.LargeOperator); !ok || !op.Limits {
		t.Fatalf("expected argmax operator with limits, got %v", l.At(1))
	}
	if inner := l.At(2).(*atom.Inner); inner.LeftBoundary().Base().Nucleus != "‖" {
		t.Fatalf("registered delimiter not used")
	}
	if l.At(3).Base().Type != atom.TypeAccent {
		t.Fatalf("registered accent not used")
	}

	if got := markup.SerializeWith(ext, l); got == "" || !slices.Contains(ext.Commands(), "RR") {
		t.Fatalf("extended table should know RR, serialized %q", got)
	}
}

func TestSymbolTableWithRejectsBadEntries(t *testing.T) {
	base := markup.DefaultSymbols()
	for _, e := range []markup.Entry{
		{Kind: markup.EntrySymbol, Name: ""},
		{Kind: markup.EntrySymbol, Name: "x"},
		{Kind: markup.EntryAlias, Name: "y", Target: "nope"},
		{Kind: markup.EntryAccent, Name: "z"},
		{Kind: markup.EntrySymbol, Name: "b", Atom: atom.NewSymbol(atom.TypeBoundary, "(")},
	} {
		if _, err := base.With(e); err == nil {
			t.Fatalf("expected error for %+v", e)
		}
	}
}

func TestSymbolTableReverseNames(t *testing.T) {
	s := markup.DefaultSymbols()
	if name, ok := s.SymbolName(atom.NewSymbol(atom.TypeRelation, "≠")); !ok || name != "neq" {
		t.Fatalf("expected neq, got %q", name)
	}
	if name, ok := s.SymbolName(atom.NewSymbol(atom.TypeRelation, "…")); !ok || name != "dots" {
		t.Fatalf("shorter name should win, got %q", name)
	}
	if name, _ := s.AccentName("\u0302"); name != "hat" {
		t.Fatalf("expected hat, got %q", name)
	}
	if name, _ := s.DelimiterName("⟨"); name != "<" {
		t.Fatalf("expected <, got %q", name)
	}
	if s.FontStyleName(atom.FontStyleBold) != "mathbf" {
		t.Fatalf("unexpected bold name %q", s.FontStyleName(atom.FontStyleBold))
	}
	if a, ok := s.Lookup("le"); !ok || a.Base().Nucleus != "≤" {
		t.Fatalf("le should alias leq")
	}
}
