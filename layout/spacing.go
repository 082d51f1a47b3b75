package layout

import "github.com/ByLCY/mathtype/atom"

// spaceKind 是原子间距的种类，ns 开头的种类在 script 及更小的样式中为 0。
type spaceKind int

const (
	spaceNone spaceKind = iota
	spaceThin
	spaceNSThin
	spaceNSMedium
	spaceNSThick
	spaceInvalid
)

// 间距表的行列序号。
const (
	classOrdinary = iota
	classOperator
	classBinary
	classRelation
	classOpen
	classClose
	classPunct
	classInner
	classRadical // 只出现在左侧
)

const (
	no = spaceNone
	th = spaceThin
	nt = spaceNSThin
	nm = spaceNSMedium
	nk = spaceNSThick
	xx = spaceInvalid
)

// interElementSpaces 是 TeXbook 第 170 页的原子间距表，行是左侧原子，列是右侧原子。
// 根式作为左侧时单独占一行，与普通原子之间多留一个中等间距。
var interElementSpaces = [9][8]spaceKind{
	//   ord  op  bin  rel open close punct inner
	{no, th, nm, nk, no, no, no, nt}, // ordinary
	{th, th, xx, nk, no, no, no, nt}, // operator
	{nm, nm, xx, xx, nm, xx, xx, nm}, // binary
	{nk, nk, xx, no, nk, no, no, nk}, // relation
	{no, no, xx, no, no, no, no, no}, // open
	{no, th, nm, nk, no, no, no, nt}, // close
	{nt, nt, xx, nt, nt, nt, nt, nt}, // punct
	{nt, th, nm, nk, nt, no, nt, nt}, // fraction / inner
	{nm, nt, nm, nk, no, no, no, nt}, // radical
}

func spacingClass(t atom.Type, left bool) int {
	switch t {
	case atom.TypeLargeOperator:
		return classOperator
	case atom.TypeBinaryOperator:
		return classBinary
	case atom.TypeRelation:
		return classRelation
	case atom.TypeOpen:
		return classOpen
	case atom.TypeClose:
		return classClose
	case atom.TypePunctuation:
		return classPunct
	case atom.TypeFraction, atom.TypeInner, atom.TypeTable:
		return classInner
	case atom.TypeRadical:
		if left {
			return classRadical
		}
	}
	return classOrdinary
}

// spaceMu 返回间距种类在给定样式下的 mu 数。
func spaceMu(k spaceKind, style atom.LineStyle) float64 {
	script := style >= atom.LineStyleScript
	switch k {
	case spaceThin:
		return 3
	case spaceNSThin:
		if !script {
			return 3
		}
	case spaceNSMedium:
		if !script {
			return 4
		}
	case spaceNSThick:
		if !script {
			return 5
		}
	}
	return 0
}

// interElementSpace 返回 left 与 right 两类原子之间的间距，单位 pt。
func (t *typesetter) interElementSpace(left, right atom.Type) float64 {
	k := interElementSpaces[spacingClass(left, true)][spacingClass(right, false)]
	if k == spaceInvalid {
		t.logger.Debug("invalid inter-element space", "left", left, "right", right)
		return 0
	}
	return spaceMu(k, t.style) * t.styleFont.MuUnit()
}
