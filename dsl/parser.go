package dsl

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// 符号扩展文件：每行一条声明，# 或 // 开头为注释。
//
//	symbol    \RR      ordinary "ℝ"
//	operator  \argmax  "arg max" limits
//	alias     \implies \Longrightarrow
//	delimiter lvert    "|"
//	accent    \wideparen "⏜"
//	space     \medsp   4
var (
	dslLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "HashComment", Pattern: `#[^\n]*`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "Command", Pattern: `\\(?:[A-Za-z]+|[^A-Za-z\s])`},
		{Name: "Number", Pattern: `-?(?:\d+\.\d+|\d+)`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Punct", Pattern: `[][(),.|/<>]`},
	})

	fileParser = participle.MustBuild[File](
		participle.Lexer(dslLexer),
		participle.Elide("Whitespace", "HashComment", "LineComment"),
	)
)

// File is the root AST node of a symbol file.
type File struct {
	Decls []*Decl `parser:"Newline* ( @@ ( Newline+ | EOF ) )*"`
}

// Decl is one declaration line.
type Decl struct {
	Pos       lexer.Position `parser:"" json:"-"`
	Symbol    *SymbolDecl    `parser:"  @@"`
	Operator  *OperatorDecl  `parser:"| @@"`
	Alias     *AliasDecl     `parser:"| @@"`
	Delimiter *DelimiterDecl `parser:"| @@"`
	Accent    *AccentDecl    `parser:"| @@"`
	Space     *SpaceDecl     `parser:"| @@"`
}

// Kind returns the declaration keyword.
func (d *Decl) Kind() string {
	switch {
	case d == nil:
		return "unknown"
	case d.Symbol != nil:
		return "symbol"
	case d.Operator != nil:
		return "operator"
	case d.Alias != nil:
		return "alias"
	case d.Delimiter != nil:
		return "delimiter"
	case d.Accent != nil:
		return "accent"
	case d.Space != nil:
		return "space"
	default:
		return "unknown"
	}
}

// SymbolDecl binds a command to a character of the given atom type.
type SymbolDecl struct {
	Name  CommandName   `parser:"'symbol' @Command"`
	Type  string        `parser:"@Ident"`
	Value StringLiteral `parser:"@String"`
}

// OperatorDecl declares a large operator drawn as upright text or a glyph.
type OperatorDecl struct {
	Name   CommandName   `parser:"'operator' @Command"`
	Text   StringLiteral `parser:"@String"`
	Limits bool          `parser:"@'limits'?"`
}

// AliasDecl makes Name resolve to Target.
type AliasDecl struct {
	Name   CommandName `parser:"'alias' @Command"`
	Target CommandName `parser:"@Command"`
}

// DelimiterDecl names a character usable after \left and \right.
type DelimiterDecl struct {
	Name  CommandName   `parser:"'delimiter' ( @Command | @Ident | @Punct )"`
	Value StringLiteral `parser:"@String"`
}

// AccentDecl binds a command to a combining accent character.
type AccentDecl struct {
	Name  CommandName   `parser:"'accent' @Command"`
	Value StringLiteral `parser:"@String"`
}

// SpaceDecl binds a command to a horizontal space in mu.
type SpaceDecl struct {
	Name   CommandName `parser:"'space' @Command"`
	Amount float64     `parser:"@Number"`
}

// StringLiteral unquotes Go-style strings on capture.
type StringLiteral string

// Capture implements participle.Capture.
func (s *StringLiteral) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("string literal capture requires value")
	}
	val, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = StringLiteral(val)
	return nil
}

// CommandName drops the leading backslash on capture.
type CommandName string

// Capture implements participle.Capture.
func (c *CommandName) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("command capture requires value")
	}
	*c = CommandName(strings.TrimPrefix(values[0], `\`))
	return nil
}

// Parse parses a symbol file from an io.Reader.
func Parse(r io.Reader) (*File, error) {
	return fileParser.Parse("", r)
}

// ParseString parses a symbol file from a string.
func ParseString(input string) (*File, error) {
	return fileParser.ParseString("", input)
}
