// Package markup parses LaTeX-style math markup into atom lists and writes
// atom lists back out as markup.
package markup

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ByLCY/mathtype/atom"
)

// Option configures a Parser.
type Option func(*Parser)

// WithSymbols parses against t instead of the default symbol table.
func WithSymbols(t *SymbolTable) Option {
	return func(p *Parser) {
		if t != nil {
			p.table = t
		}
	}
}

// Parser reads one markup string. It is not safe for concurrent use and is
// meant to be used once.
type Parser struct {
	src   []rune
	pos   int
	table *SymbolTable
	err   *ParseError

	spacesAllowed bool
	fontStyle     atom.FontStyle
	env           *environment
	inner         *atom.Inner
}

// environment tracks the table currently being read.
type environment struct {
	name    string
	ended   bool
	numRows int
	// braced environments (\substack) end at the closing brace.
	braced bool
}

// NewParser returns a parser for s.
func NewParser(s string, opts ...Option) *Parser {
	p := &Parser{src: []rune(s), table: DefaultSymbols()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse parses s with the default symbol table.
func Parse(s string) (*atom.List, error) { return NewParser(s).Parse() }

// Parse runs the parser. The returned error is always a *ParseError.
func (p *Parser) Parse() (*atom.List, error) {
	l := p.buildInternal(false, 0)
	if p.err == nil && p.hasCharacters() {
		p.fail(ErrMismatchBraces, "Mismatched braces: %s", string(p.src))
	}
	if p.err != nil {
		return nil, p.err
	}
	return l, nil
}

// fail latches the first error; later failures are ignored.
func (p *Parser) fail(code ErrorCode, format string, args ...any) {
	if p.err != nil {
		return
	}
	p.err = &ParseError{Code: code, Message: fmt.Sprintf(format, args...), Offset: p.pos}
}

func (p *Parser) hasCharacters() bool { return p.pos < len(p.src) }

func (p *Parser) next() rune {
	ch := p.src[p.pos]
	p.pos++
	return ch
}

func (p *Parser) unlook() {
	if p.pos > 0 {
		p.pos--
	}
}

func (p *Parser) peek() (rune, bool) {
	if !p.hasCharacters() {
		return 0, false
	}
	return p.src[p.pos], true
}

func (p *Parser) skipSpaces() {
	for p.hasCharacters() && isSpace(p.src[p.pos]) {
		p.pos++
	}
}

func isSpace(ch rune) bool { return ch < 0x21 || ch > 0x7E && ch < 0xA1 }

// expect skips spaces and consumes ch if it comes next.
func (p *Parser) expect(ch rune) bool {
	p.skipSpaces()
	if c, ok := p.peek(); ok && c == ch {
		p.pos++
		return true
	}
	return false
}

// buildInternal reads atoms until the input ends, stop is met, or, when
// oneCharOnly, a single atom or group has been read.
func (p *Parser) buildInternal(oneCharOnly bool, stop rune) *atom.List {
	list := atom.NewList()
	var prev atom.Atom
	for p.hasCharacters() {
		if p.err != nil {
			return nil
		}
		ch := p.next()
		if oneCharOnly && (ch == '^' || ch == '}' || ch == '_' || ch == '&') {
			p.unlook()
			return list
		}
		if stop > 0 && ch == stop {
			return list
		}

		var atoms []atom.Atom
		switch {
		case ch == '^' || ch == '_':
			prev = p.scriptTarget(list, prev, ch == '^')
			script := p.buildInternal(true, 0)
			if p.err != nil {
				return nil
			}
			if ch == '^' {
				prev.Base().SetSuperscript(script)
			} else {
				prev.Base().SetSubscript(script)
			}
			continue
		case ch == '{':
			sub := p.buildInternal(false, '}')
			if p.err != nil {
				return nil
			}
			prev = sub.Last()
			list.Append(sub)
			if oneCharOnly {
				return list
			}
			continue
		case ch == '}':
			if p.env != nil && p.env.name == "" {
				p.env.ended = true
				return list
			}
			p.fail(ErrMismatchBraces, "Mismatched braces.")
			return nil
		case ch == '\\':
			command := p.readCommand()
			if done, ok := p.stopCommand(command, list, stop); ok {
				return done
			}
			if p.err != nil {
				return nil
			}
			if p.applyModifier(command, prev) {
				if p.err != nil {
					return nil
				}
				continue
			}
			if fs, ok := p.table.FontStyle(command); ok {
				sub := p.styled(fs, command == "text")
				if p.err != nil {
					return nil
				}
				prev = sub.Last()
				list.Append(sub)
				if oneCharOnly {
					return list
				}
				continue
			}
			atoms = p.atomsForCommand(command)
			if atoms == nil {
				p.fail(ErrInternal, "Internal error")
				return nil
			}
		case ch == '&':
			if p.env != nil {
				return list
			}
			table := p.buildTable("", list, false)
			if table == nil {
				return nil
			}
			return atom.NewList(table)
		case p.spacesAllowed && ch == ' ':
			atoms = []atom.Atom{atom.NewSymbol(atom.TypeOrdinary, " ")}
		default:
			a := p.atomForChar(ch)
			if a == nil {
				continue
			}
			atoms = []atom.Atom{a}
		}

		for _, a := range atoms {
			a.Base().FontStyle = p.fontStyle
			list.Add(a)
			prev = a
		}
		if oneCharOnly {
			return list
		}
	}
	if stop > 0 {
		if stop == '}' {
			p.fail(ErrMismatchBraces, "Missing closing brace")
		} else {
			p.fail(ErrCharacterNotFound, "Expected character not found: %c", stop)
		}
		return nil
	}
	return list
}

// scriptTarget returns the atom a script attaches to, inserting an empty
// ordinary when prev cannot take it.
func (p *Parser) scriptTarget(list *atom.List, prev atom.Atom, super bool) atom.Atom {
	if prev != nil && prev.Base().Type.ScriptsAllowed() {
		taken := prev.Base().Subscript() != nil
		if super {
			taken = prev.Base().Superscript() != nil
		}
		if !taken {
			return prev
		}
	}
	empty := atom.NewSymbol(atom.TypeOrdinary, "")
	empty.FontStyle = p.fontStyle
	list.Add(empty)
	return empty
}

// styled reads one argument under a font style.
func (p *Parser) styled(fs atom.FontStyle, text bool) *atom.List {
	oldSpaces, oldStyle := p.spacesAllowed, p.fontStyle
	p.spacesAllowed, p.fontStyle = text, fs
	sub := p.buildInternal(true, 0)
	p.spacesAllowed, p.fontStyle = oldSpaces, oldStyle
	return sub
}

var singleCharCommands = "{}$#%_| ,>;:!\\"

// readCommand reads the name after a backslash.
func (p *Parser) readCommand() string {
	if ch, ok := p.peek(); ok && strings.ContainsRune(singleCharCommands, ch) {
		p.pos++
		return string(ch)
	}
	return p.readString()
}

// readString reads a run of ASCII letters and stars.
func (p *Parser) readString() string {
	var b strings.Builder
	for p.hasCharacters() {
		ch := p.src[p.pos]
		if ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' || ch == '*' {
			b.WriteRune(ch)
			p.pos++
			continue
		}
		break
	}
	return b.String()
}

var fractionCommands = map[string][2]string{
	"over":   {},
	"atop":   {},
	"choose": {"(", ")"},
	"brack":  {"[", "]"},
	"brace":  {"{", "}"},
}

// stopCommand handles commands that end the list being read. ok reports
// whether command was one of them; on error done is nil and ok is true.
func (p *Parser) stopCommand(command string, list *atom.List, stop rune) (done *atom.List, ok bool) {
	switch command {
	case "right":
		if p.inner == nil {
			p.fail(ErrMissingLeft, `Missing \left`)
			return nil, true
		}
		right := p.boundary("right")
		if right == nil {
			return nil, true
		}
		p.inner.SetRightBoundary(right)
		return list, true
	case "\\", "cr":
		if p.env != nil {
			p.env.numRows++
			return list, true
		}
		table := p.buildTable("", list, true)
		if table == nil {
			return nil, true
		}
		return atom.NewList(table), true
	case "end":
		if p.env == nil || p.env.name == "" {
			p.fail(ErrMissingBegin, `Missing \begin`)
			return nil, true
		}
		name := p.readEnvironment()
		if name == "" {
			return nil, true
		}
		if name != p.env.name {
			p.fail(ErrInvalidEnv, "Begin environment name %s does not match end name: %s", p.env.name, name)
			return nil, true
		}
		p.env.ended = true
		return list, true
	}
	delims, isFraction := fractionCommands[command]
	if !isFraction {
		return nil, false
	}
	frac := atom.NewFraction(command == "over")
	frac.LeftDelimiter, frac.RightDelimiter = delims[0], delims[1]
	frac.Numerator = list
	frac.Denominator = p.buildInternal(false, stop)
	if p.err != nil {
		return nil, true
	}
	return atom.NewList(frac), true
}

// applyModifier handles \limits and \nolimits on the previous atom.
func (p *Parser) applyModifier(command string, prev atom.Atom) bool {
	if command != "limits" && command != "nolimits" {
		return false
	}
	op, ok := prev.(*atom.LargeOperator)
	if !ok {
		p.fail(ErrInvalidLimits, "%s can only be applied to an operator", command)
		return true
	}
	op.Limits = command == "limits"
	return true
}

// atomsForCommand builds the atoms for a command that adds to the list.
// It returns nil after latching an error.
func (p *Parser) atomsForCommand(command string) []atom.Atom {
	one := func(a atom.Atom) []atom.Atom {
		if a == nil || p.err != nil {
			return nil
		}
		return []atom.Atom{a}
	}
	if a, ok := p.table.Lookup(command); ok {
		return one(a)
	}
	if value, ok := p.table.Accent(command); ok {
		acc := atom.NewAccent(value)
		acc.Inner = p.buildInternal(true, 0)
		return one(acc)
	}

	switch command {
	case "frac", "dfrac", "tfrac":
		frac := atom.NewFraction(true)
		frac.Numerator = p.buildInternal(true, 0)
		frac.Denominator = p.buildInternal(true, 0)
		p.forceStyle(command, frac)
		return one(frac)
	case "cfrac":
		frac := atom.NewFraction(true)
		frac.Continued = true
		if p.expect('[') {
			if ch, ok := p.peek(); ok && (ch == 'l' || ch == 'r' || ch == 'c') {
				frac.Alignment = string(ch)
				p.pos++
			}
			if !p.expect(']') {
				p.fail(ErrCharacterNotFound, "Missing ]")
				return nil
			}
		}
		frac.Numerator = p.buildInternal(true, 0)
		frac.Denominator = p.buildInternal(true, 0)
		return one(frac)
	case "binom", "dbinom", "tbinom":
		frac := atom.NewFraction(false)
		frac.Numerator = p.buildInternal(true, 0)
		frac.Denominator = p.buildInternal(true, 0)
		frac.LeftDelimiter, frac.RightDelimiter = "(", ")"
		p.forceStyle(command, frac)
		return one(frac)
	case "sqrt":
		rad := atom.NewRadical()
		if ch, ok := p.peek(); ok && ch == '[' {
			p.pos++
			rad.Degree = p.buildInternal(false, ']')
		}
		rad.Radicand = p.buildInternal(true, 0)
		return one(rad)
	case "left":
		return one(p.leftRight())
	case "overline":
		return one(&atom.Overline{Core: atom.Core{Type: atom.TypeOverline}, Inner: p.buildInternal(true, 0)})
	case "underline":
		return one(&atom.Underline{Core: atom.Core{Type: atom.TypeUnderline}, Inner: p.buildInternal(true, 0)})
	case "begin":
		name := p.readEnvironment()
		if name == "" {
			return nil
		}
		return one(p.buildTable(name, nil, false))
	case "substack":
		return one(p.substack())
	case "color":
		c := &atom.Color{Core: atom.Core{Type: atom.TypeColor}, Color: p.readColor()}
		if p.err != nil {
			return nil
		}
		c.Inner = p.buildInternal(true, 0)
		return one(c)
	case "textcolor":
		c := &atom.TextColor{Core: atom.Core{Type: atom.TypeTextColor}, Color: p.readColor()}
		if p.err != nil {
			return nil
		}
		c.Inner = p.buildInternal(true, 0)
		return one(c)
	case "colorbox":
		c := &atom.ColorBox{Core: atom.Core{Type: atom.TypeColorBox}, Color: p.readColor()}
		if p.err != nil {
			return nil
		}
		c.Inner = p.buildInternal(true, 0)
		return one(c)
	case "pmod":
		arg := p.buildInternal(true, 0)
		if p.err != nil {
			return nil
		}
		body := atom.NewList(atom.NewLargeOperator("mod", false), atom.NewSpace(6))
		body.Append(arg)
		inner := atom.NewInner(body)
		inner.SetLeftBoundary(atom.NewSymbol(atom.TypeBoundary, "("))
		inner.SetRightBoundary(atom.NewSymbol(atom.TypeBoundary, ")"))
		return []atom.Atom{atom.NewSpace(18), inner}
	case "not":
		return one(p.negation())
	case "operatorname", "operatorname*":
		name := p.readRawArgument()
		if p.err != nil {
			return nil
		}
		return one(atom.NewLargeOperator(name, command == "operatorname*"))
	case "mkern":
		return one(p.mkern())
	}
	p.fail(ErrInvalidCommand, `Invalid command \%s`, command)
	return nil
}

// forceStyle puts the \dfrac and \tfrac family in a fixed style.
func (p *Parser) forceStyle(command string, frac *atom.Fraction) {
	var level atom.LineStyle
	switch command[0] {
	case 'd':
		level = atom.LineStyleDisplay
	case 't':
		level = atom.LineStyleText
	default:
		return
	}
	if frac.Numerator != nil {
		frac.Numerator.Insert(atom.NewStyle(level), 0)
	}
	if frac.Denominator != nil {
		frac.Denominator.Insert(atom.NewStyle(level), 0)
	}
}

// leftRight reads a \left ... \right group.
func (p *Parser) leftRight() atom.Atom {
	outer := p.inner
	p.inner = atom.NewInner(nil)
	defer func() { p.inner = outer }()

	left := p.boundary("left")
	if left == nil {
		return nil
	}
	p.inner.SetLeftBoundary(left)
	p.inner.List = p.buildInternal(false, 0)
	if p.err != nil {
		return nil
	}
	if p.inner.RightBoundary() == nil {
		p.fail(ErrMissingRight, `Missing \right`)
		return nil
	}
	return p.inner
}

// boundary reads the delimiter after \left or \right.
func (p *Parser) boundary(which string) atom.Atom {
	name, ok := p.readDelimiter()
	if !ok {
		p.fail(ErrMissingDelimiter, `Missing delimiter for \%s`, which)
		return nil
	}
	value, ok := p.table.Delimiter(name)
	if !ok {
		p.fail(ErrInvalidDelimiter, `Invalid delimiter for \%s: %s`, which, name)
		return nil
	}
	return atom.NewSymbol(atom.TypeBoundary, value)
}

func (p *Parser) readDelimiter() (string, bool) {
	p.skipSpaces()
	if !p.hasCharacters() {
		return "", false
	}
	ch := p.next()
	if ch != '\\' {
		return string(ch), true
	}
	command := p.readCommand()
	if command == "|" {
		// \| is the double bar; a bare | is the single one.
		return "||", true
	}
	return command, true
}

func (p *Parser) readEnvironment() string {
	if !p.expect('{') {
		p.fail(ErrCharacterNotFound, "Missing {")
		return ""
	}
	p.skipSpaces()
	name := p.readString()
	if !p.expect('}') {
		p.fail(ErrCharacterNotFound, "Missing }")
		return ""
	}
	if name == "" {
		p.fail(ErrMissingEnv, "Missing environment name")
	}
	return name
}

// readColor reads a {name} or {#rrggbb} argument.
func (p *Parser) readColor() string {
	if !p.expect('{') {
		p.fail(ErrCharacterNotFound, "Missing {")
		return ""
	}
	p.skipSpaces()
	var b strings.Builder
	for p.hasCharacters() {
		ch := p.src[p.pos]
		if ch == '#' || ch >= '0' && ch <= '9' || ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' {
			b.WriteRune(ch)
			p.pos++
			continue
		}
		break
	}
	if !p.expect('}') {
		p.fail(ErrCharacterNotFound, "Missing }")
		return ""
	}
	return b.String()
}

// readRawArgument reads {text} verbatim.
func (p *Parser) readRawArgument() string {
	if !p.expect('{') {
		p.fail(ErrCharacterNotFound, "Missing {")
		return ""
	}
	start := p.pos
	for p.hasCharacters() && p.src[p.pos] != '}' {
		p.pos++
	}
	if !p.hasCharacters() {
		p.fail(ErrCharacterNotFound, "Missing }")
		return ""
	}
	text := strings.TrimSpace(string(p.src[start:p.pos]))
	p.pos++
	return text
}

// negation reads what follows \not.
func (p *Parser) negation() atom.Atom {
	p.skipSpaces()
	if !p.hasCharacters() {
		p.fail(ErrInvalidNot, `Missing argument for \not`)
		return nil
	}
	ch := p.next()
	if ch == '\\' {
		command := p.table.Resolve(p.readCommand())
		value, ok := p.table.Negation(command)
		if !ok {
			p.fail(ErrInvalidCommand, `Invalid command \not\%s`, command)
			return nil
		}
		return atom.NewSymbol(atom.TypeRelation, value)
	}
	value, ok := p.table.Negation(string(ch))
	if !ok {
		p.fail(ErrInvalidNot, `Cannot negate %c`, ch)
		return nil
	}
	return atom.NewSymbol(atom.TypeRelation, value)
}

// mkern reads the <number>mu argument of \mkern.
func (p *Parser) mkern() atom.Atom {
	p.skipSpaces()
	start := p.pos
	for p.hasCharacters() {
		ch := p.src[p.pos]
		if ch >= '0' && ch <= '9' || ch == '.' || ch == '-' && p.pos == start {
			p.pos++
			continue
		}
		break
	}
	amount, err := strconv.ParseFloat(string(p.src[start:p.pos]), 64)
	if err != nil {
		p.fail(ErrInvalidCommand, `Invalid length for \mkern`)
		return nil
	}
	if p.pos+2 > len(p.src) || string(p.src[p.pos:p.pos+2]) != "mu" {
		p.fail(ErrCharacterNotFound, `Missing mu after \mkern`)
		return nil
	}
	p.pos += 2
	return atom.NewSpace(amount)
}
