package markup

import (
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/ByLCY/mathtype/atom"
)

// atomForChar classifies a single input character. It returns nil for
// characters that have no meaning on their own.
func (p *Parser) atomForChar(ch rune) atom.Atom {
	switch {
	case ch >= 0x0410 && ch <= 0x044F:
		return atom.NewSymbol(atom.TypeOrdinary, string(ch))
	case ch >= utf8.RuneSelf:
		return p.nonASCIIAtom(ch)
	case ch < 0x21 || ch > 0x7E:
		return nil
	}
	switch ch {
	case '$', '%', '#', '&', '~', '\'', '^', '_', '{', '}', '\\':
		return nil
	case '(', '[':
		return atom.NewSymbol(atom.TypeOpen, string(ch))
	case ')', ']', '!', '?':
		return atom.NewSymbol(atom.TypeClose, string(ch))
	case ',', ';':
		return atom.NewSymbol(atom.TypePunctuation, string(ch))
	case '=', '<', '>':
		return atom.NewSymbol(atom.TypeRelation, string(ch))
	case ':':
		return atom.NewSymbol(atom.TypeRelation, "∶")
	case '-':
		return atom.NewSymbol(atom.TypeBinaryOperator, "−")
	case '+', '*':
		return atom.NewSymbol(atom.TypeBinaryOperator, string(ch))
	case '.':
		return atom.NewSymbol(atom.TypeNumber, ".")
	case '"', '/', '@', '`', '|':
		return atom.NewSymbol(atom.TypeOrdinary, string(ch))
	}
	switch {
	case ch >= '0' && ch <= '9':
		return atom.NewSymbol(atom.TypeNumber, string(ch))
	case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z':
		return atom.NewSymbol(atom.TypeVariable, string(ch))
	}
	return nil
}

// nonASCIIAtom handles characters outside ASCII: precomposed Latin letters
// become an accent over their base letter, and inside roman text any other
// printable character is kept as is.
func (p *Parser) nonASCIIAtom(ch rune) atom.Atom {
	decomposed := []rune(norm.NFD.String(string(ch)))
	if len(decomposed) == 2 && decomposed[0] < utf8.RuneSelf && unicode.Is(unicode.Mn, decomposed[1]) {
		base := p.atomForChar(decomposed[0])
		if base != nil {
			base.Base().FontStyle = p.fontStyle
			acc := atom.NewAccent(string(decomposed[1]))
			acc.Inner = atom.NewList(base)
			return acc
		}
	}
	if p.fontStyle == atom.FontStyleRoman && unicode.IsGraphic(ch) {
		return atom.NewSymbol(atom.TypeOrdinary, string(ch))
	}
	return nil
}
