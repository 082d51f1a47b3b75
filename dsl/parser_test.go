package dsl_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ByLCY/mathtype/atom"
	"github.com/ByLCY/mathtype/dsl"
	"github.com/ByLCY/mathtype/markup"
)

const sampleDSL = `
# blackboard letters
symbol    \RR      ordinary "ℝ"
symbol    \defeq   relation "≔"   // colon equals

operator  \argmax  "arg max" limits
operator  \Tr      "Tr"
alias     \implies \Longrightarrow
delimiter lvert    "|"
accent    \wideparen "⏜"
space     \medsp   4
`

func TestParseFile(t *testing.T) {
	f, err := dsl.Parse(strings.NewReader(sampleDSL))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	var kinds []string
	for _, d := range f.Decls {
		kinds = append(kinds, d.Kind())
	}
	want := []string{"symbol", "symbol", "operator", "operator", "alias", "delimiter", "accent", "space"}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Fatalf("declaration kinds mismatch (-want +got):\n%s", diff)
	}

	rr := f.Decls[0].Symbol
	if rr.Name != "RR" || rr.Type != "ordinary" || rr.Value != "ℝ" {
		t.Fatalf("unexpected symbol decl: %+v", rr)
	}
	if op := f.Decls[2].Operator; !op.Limits || op.Text != "arg max" {
		t.Fatalf("unexpected operator decl: %+v", op)
	}
	if op := f.Decls[3].Operator; op.Limits {
		t.Fatalf("\\Tr should not take limits")
	}
	if a := f.Decls[4].Alias; a.Name != "implies" || a.Target != "Longrightarrow" {
		t.Fatalf("unexpected alias decl: %+v", a)
	}
	if acc := f.Decls[6].Accent; acc.Value != "⏜" {
		t.Fatalf("accent value not unquoted: %q", acc.Value)
	}
	if sp := f.Decls[7].Space; sp.Amount != 4 {
		t.Fatalf("space amount = %g", sp.Amount)
	}
	if f.Decls[1].Pos.Line != 4 {
		t.Fatalf("expected \\defeq on line 4, got %d", f.Decls[1].Pos.Line)
	}
}

func TestParseErrors(t *testing.T) {
	tt := []struct {
		name  string
		input string
	}{
		{"unknown keyword", `glyph \x "x"`},
		{"missing value", `symbol \x ordinary`},
		{"bare name", `symbol x ordinary "x"`},
		{"two decls on a line", `alias \a \b alias \c \d`},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := dsl.ParseString(tc.input); err == nil {
				t.Fatalf("expected a parse error for %q", tc.input)
			}
		})
	}
}

func TestEntries(t *testing.T) {
	f, err := dsl.ParseString(sampleDSL)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	entries, err := f.Entries()
	if err != nil {
		t.Fatalf("Entries: %v", err)
	}
	if len(entries) != 8 {
		t.Fatalf("expected 8 entries, got %d", len(entries))
	}
	if e := entries[1]; e.Kind != markup.EntrySymbol || atom.TypeOf(e.Atom) != atom.TypeRelation {
		t.Fatalf("\\defeq should be a relation symbol: %+v", e)
	}
	if op, ok := entries[2].Atom.(*atom.LargeOperator); !ok || !op.Limits {
		t.Fatalf("\\argmax should be a large operator with limits: %+v", entries[2].Atom)
	}
	if e := entries[5]; e.Kind != markup.EntryDelimiter || e.Name != "lvert" || e.Value != "|" {
		t.Fatalf("unexpected delimiter entry: %+v", e)
	}

	bad, err := dsl.ParseString(`symbol \x sideways "x"`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if _, err := bad.Entries(); err == nil || !strings.Contains(err.Error(), "sideways") {
		t.Fatalf("expected unknown type error, got %v", err)
	}
}

func TestLoadExtendsTable(t *testing.T) {
	table, err := dsl.Load(markup.DefaultSymbols(), sampleDSL)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	l, err := markup.NewParser(`x \in \RR \implies \argmax_y f`, markup.WithSymbols(table)).Parse()
	if err != nil {
		t.Fatalf("parse with extended table: %v", err)
	}
	var nuclei []string
	for _, a := range l.Atoms() {
		nuclei = append(nuclei, a.Base().Nucleus)
	}
	if !strings.Contains(strings.Join(nuclei, " "), "ℝ") {
		t.Fatalf("\\RR not resolved: %v", nuclei)
	}
	if _, ok := markup.DefaultSymbols().Lookup("RR"); ok {
		t.Fatalf("Load must not mutate the base table")
	}

	if _, err := dsl.Load(markup.DefaultSymbols(), `alias \foo \doesnotexist`); err == nil {
		t.Fatalf("alias to an unknown command should fail")
	}
}
