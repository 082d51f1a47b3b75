package layout

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rivo/uniseg"

	"github.com/ByLCY/mathtype/atom"
)

// 限宽排版：只在普通字形之间或结构盒子之前断行，已经排好的行不会再移动。

const (
	// 超出限宽不到 20% 时向后看几个原子，寻找代价更低的断点
	overflowTolerance = 0.2
	lookahead         = 3

	lineGapFactor   = 0.2
	lineHeightFloor = 1.2
)

// 断点代价，越小越好。
const (
	penaltyAfterOperator = 0   // 二元运算符、关系符、标点之后
	penaltyAfterOrdinary = 10  // 普通原子之后
	penaltyBracket       = 100 // 紧挨括号
	penaltyAfterLargeOp  = 150 // 大型运算符、一元运算符之后
)

func breakPenalty(left, right atom.Type) int {
	p := penaltyAfterOrdinary
	switch left {
	case atom.TypeBinaryOperator, atom.TypeRelation, atom.TypePunctuation:
		p = penaltyAfterOperator
	case atom.TypeLargeOperator, atom.TypeUnaryOperator:
		p = penaltyAfterLargeOp
	}
	if left == atom.TypeOpen || right == atom.TypeClose || right == atom.TypeOpen {
		p = max(p, penaltyBracket)
	}
	return p
}

// lineEmpty 报告当前行是否还没有任何内容。
func (t *typesetter) lineEmpty() bool {
	return len(t.displays) == t.lineStart && t.seg.empty()
}

// overflows 报告在当前行追加宽度 w 后是否超出限宽。空行永远不算超出。
func (t *typesetter) overflows(w float64) bool {
	return t.maxWidth > 0 && !t.lineEmpty() && t.pos.X+t.seg.width+w > t.maxWidth
}

// breakBefore 在把第 i 个原子的 text 追加到字形串之前决定是否断行，
// 返回仍需追加的文本与原子间距。
func (t *typesetter) breakBefore(i int, atoms []atom.Atom, kinds []origin, text string, space float64) (string, float64) {
	joined := t.wordTail && startsWithLetter(text)
	if t.breakAt == i {
		t.breakAt = -1
		if !t.lineEmpty() && !joined {
			t.newLine()
			return text, 0
		}
	}
	if !t.overflows(space + t.textWidth(text)) {
		return text, space
	}

	// 先尝试在原子内部的合法断点处拆开
	r := atoms[i].Base().Range
	for {
		head, tail, ok := t.splitText(text, t.maxWidth-t.pos.X-t.seg.width-space)
		if !ok {
			break
		}
		t.advance(space)
		t.seg.add(t, head, r)
		t.newLine()
		text, space = tail, 0
		if !t.overflows(t.textWidth(text)) {
			return text, 0
		}
	}
	if t.lineEmpty() {
		return text, space
	}
	if joined {
		// 与前一个盒子同属一个单词，整行超出限宽
		t.logger.Debug("keeping word together", "atom", i)
		return text, space
	}

	projected := t.pos.X + t.seg.width + space + t.textWidth(text)
	if projected > t.maxWidth*(1+overflowTolerance) || i == 0 {
		t.newLine()
		return text, 0
	}

	if best := t.bestBreak(i, atoms, kinds, projected); best != i {
		t.logger.Debug("deferring line break", "from", i, "to", best)
		t.breakAt = best
		return text, space
	}
	t.newLine()
	return text, 0
}

// bestBreak 在第 i 个原子之前以及其后 lookahead 个普通原子之前挑选代价最低的断点，代价相同取最早的。
func (t *typesetter) bestBreak(i int, atoms []atom.Atom, kinds []origin, projected float64) int {
	limit := t.maxWidth * (1 + overflowTolerance)
	best, bestPenalty := i, breakPenalty(kinds[i-1].last, kinds[i].first)
	width := projected
	for j := i + 1; j <= i+lookahead && j < len(atoms); j++ {
		prev := atoms[j-1]
		if !isGlyphAtom(prev) || prev.Base().HasScripts() || !isGlyphAtom(atoms[j]) {
			break
		}
		if width > limit {
			break
		}
		inWord := endsWithLetter(prev.Base().Nucleus) && startsWithLetter(atoms[j].Base().Nucleus)
		if p := breakPenalty(kinds[j-1].last, kinds[j].first); !inWord && p < bestPenalty {
			best, bestPenalty = j, p
		}
		width += t.interElementSpace(prev.Base().Type, atoms[j].Base().Type) + t.textWidth(atoms[j].Base().Nucleus)
	}
	return best
}

// splitText 用 Unicode 断行算法找出 text 中最靠后、且前半段能放进 avail 的断点。
// 单词内部与数字内部的断点会被拒绝。
func (t *typesetter) splitText(text string, avail float64) (head, tail string, ok bool) {
	best := -1
	state := -1
	offset := 0
	rest := text
	for len(rest) > 0 {
		var seg string
		seg, rest, _, state = uniseg.FirstLineSegmentInString(rest, state)
		offset += len(seg)
		if rest == "" {
			break
		}
		if !breakAllowed(text, offset) {
			continue
		}
		if t.textWidth(strings.TrimRight(text[:offset], " ")) > avail {
			break
		}
		best = offset
	}
	if best <= 0 {
		return "", "", false
	}
	return text[:best], text[best:], true
}

func startsWithLetter(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsLetter(r)
}

func endsWithLetter(s string) bool {
	r, _ := utf8.DecodeLastRuneInString(s)
	return unicode.IsLetter(r)
}

// listLetters 报告子列表是否以字母开头、以字母结尾。带上下标的末尾不算单词的延续。
func listLetters(l *atom.List) (first, last bool) {
	if l == nil || l.Len() == 0 {
		return false, false
	}
	first = startsWithLetter(l.At(0).Base().Nucleus)
	end := l.Last().Base()
	last = endsWithLetter(end.Nucleus) && !end.HasScripts()
	return first, last
}

func isDecimalSeparator(r rune) bool { return r == '.' || r == ',' }

// breakAllowed 拒绝会拆开单词或数字的断点。
func breakAllowed(text string, offset int) bool {
	before, _ := utf8.DecodeLastRuneInString(text[:offset])
	after, _ := utf8.DecodeRuneInString(text[offset:])
	switch {
	case unicode.IsLetter(before) && unicode.IsLetter(after):
		return false
	case unicode.IsDigit(before) && unicode.IsDigit(after):
		return false
	case isDecimalSeparator(before) && unicode.IsDigit(after):
		prev, _ := utf8.DecodeLastRuneInString(text[:offset-utf8.RuneLen(before)])
		return !unicode.IsDigit(prev)
	case unicode.IsDigit(before) && isDecimalSeparator(after):
		next, _ := utf8.DecodeRuneInString(text[offset+utf8.RuneLen(after):])
		return !unicode.IsDigit(next)
	}
	return true
}

// newLine 结束当前行并把笔位移到下一行行首。
func (t *typesetter) newLine() {
	t.flush()
	t.finishLine()
	asc, desc := t.lineExtent()
	size := t.font.Size()
	height := max(asc+desc+lineGapFactor*size, lineHeightFloor*size)
	t.logger.Debug("line break", "line", t.lineNo, "height", height)

	t.prevBottom = t.pos.Y - desc
	t.lineNo++
	t.pos = Point{Y: t.pos.Y - height}
	t.lineStart = len(t.displays)
}

// finishLine 在当前行与上一行重叠时把当前行整体下移，只移动到刚好不重叠为止。
func (t *typesetter) finishLine() {
	if t.lineNo == 0 {
		return
	}
	asc, _ := t.lineExtent()
	over := t.pos.Y + asc - t.prevBottom
	if over <= 0 {
		return
	}
	for _, d := range t.displays[t.lineStart:] {
		d.Position.Y -= over
	}
	t.pos.Y -= over
}

// lineExtent 返回当前行所有盒子相对行基线的最大上伸与下伸。
func (t *typesetter) lineExtent() (ascent, descent float64) {
	for _, d := range t.displays[t.lineStart:] {
		y := d.Position.Y - t.pos.Y
		ascent = max(ascent, y+d.Ascent)
		descent = max(descent, d.Descent-y)
	}
	return ascent, descent
}
