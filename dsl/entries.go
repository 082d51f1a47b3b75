package dsl

import (
	"fmt"
	"strings"

	"github.com/ByLCY/mathtype/atom"
	"github.com/ByLCY/mathtype/markup"
)

// symbolTypes 是 symbol 声明可用的原子类型名。
var symbolTypes = map[string]atom.Type{
	"ordinary":        atom.TypeOrdinary,
	"number":          atom.TypeNumber,
	"variable":        atom.TypeVariable,
	"binary":          atom.TypeBinaryOperator,
	"binary-operator": atom.TypeBinaryOperator,
	"unary":           atom.TypeUnaryOperator,
	"unary-operator":  atom.TypeUnaryOperator,
	"relation":        atom.TypeRelation,
	"open":            atom.TypeOpen,
	"close":           atom.TypeClose,
	"punctuation":     atom.TypePunctuation,
	"placeholder":     atom.TypePlaceholder,
}

// Entries converts the declarations into symbol table registrations, in
// file order.
func (f *File) Entries() ([]markup.Entry, error) {
	if f == nil {
		return nil, nil
	}
	out := make([]markup.Entry, 0, len(f.Decls))
	for _, d := range f.Decls {
		e, err := d.entry()
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %w", d.Pos, d.Kind(), err)
		}
		out = append(out, e)
	}
	return out, nil
}

func (d *Decl) entry() (markup.Entry, error) {
	switch {
	case d.Symbol != nil:
		s := d.Symbol
		t, ok := symbolTypes[strings.ToLower(s.Type)]
		if !ok {
			return markup.Entry{}, fmt.Errorf("unknown atom type %q", s.Type)
		}
		if s.Value == "" {
			return markup.Entry{}, fmt.Errorf(`\%s has an empty value`, s.Name)
		}
		return markup.Entry{Kind: markup.EntrySymbol, Name: string(s.Name), Atom: atom.NewSymbol(t, string(s.Value))}, nil
	case d.Operator != nil:
		op := d.Operator
		if op.Text == "" {
			return markup.Entry{}, fmt.Errorf(`\%s has an empty text`, op.Name)
		}
		return markup.Entry{Kind: markup.EntrySymbol, Name: string(op.Name), Atom: atom.NewLargeOperator(string(op.Text), op.Limits)}, nil
	case d.Alias != nil:
		return markup.Entry{Kind: markup.EntryAlias, Name: string(d.Alias.Name), Target: string(d.Alias.Target)}, nil
	case d.Delimiter != nil:
		return markup.Entry{Kind: markup.EntryDelimiter, Name: string(d.Delimiter.Name), Value: string(d.Delimiter.Value)}, nil
	case d.Accent != nil:
		return markup.Entry{Kind: markup.EntryAccent, Name: string(d.Accent.Name), Value: string(d.Accent.Value)}, nil
	case d.Space != nil:
		return markup.Entry{Kind: markup.EntrySymbol, Name: string(d.Space.Name), Atom: atom.NewSpace(d.Space.Amount)}, nil
	}
	return markup.Entry{}, fmt.Errorf("empty declaration")
}

// Load parses a symbol file and extends base with it.
func Load(base *markup.SymbolTable, src string) (*markup.SymbolTable, error) {
	f, err := ParseString(src)
	if err != nil {
		return nil, fmt.Errorf("parse symbol file: %w", err)
	}
	entries, err := f.Entries()
	if err != nil {
		return nil, err
	}
	return base.With(entries...)
}
