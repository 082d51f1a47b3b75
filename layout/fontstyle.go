package layout

import (
	"slices"
	"strings"

	"github.com/ByLCY/mathtype/atom"
)

// 该文件把普通字母、数字与希腊字母映射到 Unicode 数学字母数字区块（U+1D400 起）中对应字体风格的码位。
// 部分字母在 Unicode 中早已存在（如 ℎ、ℬ、ℂ），因此这些区块里留有空位，需要逐个特判。

const (
	greekLowerStart   = 0x03B1
	greekLowerEnd     = 0x03C9
	greekCapitalStart = 0x0391
	greekCapitalEnd   = 0x03A9

	planckConstant = 0x210E

	mathCapitalItalicStart  = 0x1D434
	mathLowerItalicStart    = 0x1D44E
	greekCapitalItalicStart = 0x1D6E2
	greekLowerItalicStart   = 0x1D6FC
	greekSymbolItalicStart  = 0x1D716

	mathCapitalBoldStart  = 0x1D400
	mathLowerBoldStart    = 0x1D41A
	greekCapitalBoldStart = 0x1D6A8
	greekLowerBoldStart   = 0x1D6C2
	greekSymbolBoldStart  = 0x1D6DC
	numberBoldStart       = 0x1D7CE

	mathCapitalBoldItalicStart  = 0x1D468
	mathLowerBoldItalicStart    = 0x1D482
	greekCapitalBoldItalicStart = 0x1D71C
	greekLowerBoldItalicStart   = 0x1D736
	greekSymbolBoldItalicStart  = 0x1D750

	mathCapitalScriptStart = 0x1D49C

	mathCapitalTTStart = 0x1D670
	mathLowerTTStart   = 0x1D68A
	numberTTStart      = 0x1D7F6

	mathCapitalSansSerifStart = 0x1D5A0
	mathLowerSansSerifStart   = 0x1D5BA
	numberSansSerifStart      = 0x1D7E2

	mathCapitalFrakturStart = 0x1D504
	mathLowerFrakturStart   = 0x1D51E

	mathCapitalBlackboardStart = 0x1D538
	mathLowerBlackboardStart   = 0x1D552
	numberBlackboardStart      = 0x1D7D8
)

// greekSymbols 在各数学区块中紧跟希腊字母表之后，顺序固定：
// ϵ ϑ ϰ ϕ ϱ ϖ
var greekSymbols = []rune{0x03F5, 0x03D1, 0x03F0, 0x03D5, 0x03F1, 0x03D6}

func isLowerEn(r rune) bool      { return r >= 'a' && r <= 'z' }
func isUpperEn(r rune) bool      { return r >= 'A' && r <= 'Z' }
func isNumber(r rune) bool       { return r >= '0' && r <= '9' }
func isLowerGreek(r rune) bool   { return r >= greekLowerStart && r <= greekLowerEnd }
func isCapitalGreek(r rune) bool { return r >= greekCapitalStart && r <= greekCapitalEnd }
func greekSymbolOrder(r rune) int {
	return slices.Index(greekSymbols, r)
}

// styleText 把 s 的每个字符换成 fs 风格下的码位。
func styleText(s string, fs atom.FontStyle) string {
	var b strings.Builder
	b.Grow(len(s) * 4)
	for _, r := range s {
		b.WriteRune(styleRune(r, fs))
	}
	return b.String()
}

func styleRune(r rune, fs atom.FontStyle) rune {
	switch fs {
	case atom.FontStyleDefault:
		return defaultStyle(r)
	case atom.FontStyleRoman:
		return r
	case atom.FontStyleBold:
		return bold(r)
	case atom.FontStyleItalic:
		return italic(r)
	case atom.FontStyleBoldItalic:
		return boldItalic(r)
	case atom.FontStyleCaligraphic:
		return caligraphic(r)
	case atom.FontStyleTypewriter:
		return typewriter(r)
	case atom.FontStyleSansSerif:
		return sansSerif(r)
	case atom.FontStyleFraktur:
		return fraktur(r)
	case atom.FontStyleBlackboard:
		return blackboard(r)
	}
	return r
}

// defaultStyle 是 TeX 的默认数学字体：拉丁字母与小写希腊字母用斜体，数字与大写希腊字母保持正体。
func defaultStyle(r rune) rune {
	if isLowerEn(r) || isUpperEn(r) || isLowerGreek(r) || greekSymbolOrder(r) >= 0 {
		return italic(r)
	}
	return r
}

func italic(r rune) rune {
	switch {
	case r == 'h':
		return planckConstant
	case isUpperEn(r):
		return mathCapitalItalicStart + (r - 'A')
	case isLowerEn(r):
		return mathLowerItalicStart + (r - 'a')
	case isCapitalGreek(r):
		return greekCapitalItalicStart + (r - greekCapitalStart)
	case isLowerGreek(r):
		return greekLowerItalicStart + (r - greekLowerStart)
	case greekSymbolOrder(r) >= 0:
		return greekSymbolItalicStart + rune(greekSymbolOrder(r))
	}
	// 没有斜体数字
	return r
}

func bold(r rune) rune {
	switch {
	case isUpperEn(r):
		return mathCapitalBoldStart + (r - 'A')
	case isLowerEn(r):
		return mathLowerBoldStart + (r - 'a')
	case isCapitalGreek(r):
		return greekCapitalBoldStart + (r - greekCapitalStart)
	case isLowerGreek(r):
		return greekLowerBoldStart + (r - greekLowerStart)
	case greekSymbolOrder(r) >= 0:
		return greekSymbolBoldStart + rune(greekSymbolOrder(r))
	case isNumber(r):
		return numberBoldStart + (r - '0')
	}
	return r
}

func boldItalic(r rune) rune {
	switch {
	case isUpperEn(r):
		return mathCapitalBoldItalicStart + (r - 'A')
	case isLowerEn(r):
		return mathLowerBoldItalicStart + (r - 'a')
	case isCapitalGreek(r):
		return greekCapitalBoldItalicStart + (r - greekCapitalStart)
	case isLowerGreek(r):
		return greekLowerBoldItalicStart + (r - greekLowerStart)
	case greekSymbolOrder(r) >= 0:
		return greekSymbolBoldItalicStart + rune(greekSymbolOrder(r))
	case isNumber(r):
		return bold(r)
	}
	return r
}

func caligraphic(r rune) rune {
	switch r {
	case 'B':
		return 0x212C
	case 'E':
		return 0x2130
	case 'F':
		return 0x2131
	case 'H':
		return 0x210B
	case 'I':
		return 0x2110
	case 'L':
		return 0x2112
	case 'M':
		return 0x2133
	case 'R':
		return 0x211B
	case 'e':
		return 0x212F
	case 'g':
		return 0x210A
	case 'o':
		return 0x2134
	}
	if isUpperEn(r) {
		return mathCapitalScriptStart + (r - 'A')
	}
	// Latin Modern Math 没有小写手写体，希腊字母与数字也没有
	return defaultStyle(r)
}

func typewriter(r rune) rune {
	switch {
	case isUpperEn(r):
		return mathCapitalTTStart + (r - 'A')
	case isLowerEn(r):
		return mathLowerTTStart + (r - 'a')
	case isNumber(r):
		return numberTTStart + (r - '0')
	}
	return defaultStyle(r)
}

func sansSerif(r rune) rune {
	switch {
	case isUpperEn(r):
		return mathCapitalSansSerifStart + (r - 'A')
	case isLowerEn(r):
		return mathLowerSansSerifStart + (r - 'a')
	case isNumber(r):
		return numberSansSerifStart + (r - '0')
	}
	return defaultStyle(r)
}

func fraktur(r rune) rune {
	switch r {
	case 'C':
		return 0x212D
	case 'H':
		return 0x210C
	case 'I':
		return 0x2111
	case 'R':
		return 0x211C
	case 'Z':
		return 0x2128
	}
	switch {
	case isUpperEn(r):
		return mathCapitalFrakturStart + (r - 'A')
	case isLowerEn(r):
		return mathLowerFrakturStart + (r - 'a')
	}
	return defaultStyle(r)
}

func blackboard(r rune) rune {
	switch r {
	case 'C':
		return 0x2102
	case 'H':
		return 0x210D
	case 'N':
		return 0x2115
	case 'P':
		return 0x2119
	case 'Q':
		return 0x211A
	case 'R':
		return 0x211D
	case 'Z':
		return 0x2124
	}
	switch {
	case isUpperEn(r):
		return mathCapitalBlackboardStart + (r - 'A')
	case isLowerEn(r):
		return mathLowerBlackboardStart + (r - 'a')
	case isNumber(r):
		return numberBlackboardStart + (r - '0')
	}
	return defaultStyle(r)
}
