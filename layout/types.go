package layout

import (
	"github.com/ByLCY/mathtype/atom"
	"github.com/ByLCY/mathtype/mathfont"
)

// 该文件定义排版结果：一棵带尺寸与坐标的 Display 盒子树，供渲染器、调试 JSON 与测试共用。
//
// 坐标约定：单位为 pt，y 轴向上，基线处 y=0。每个子盒子的 Position 都相对于其父盒子的原点。

// Kind 区分盒子的种类。
type Kind string

const (
	KindList         Kind = "list"         // 数学列表（含表格行、表格本身）
	KindInner        Kind = "inner"        // 带左右定界符的分组
	KindText         Kind = "text"         // 普通字形串
	KindGlyph        Kind = "glyph"        // 单个（可能放大的）字形
	KindConstruction Kind = "construction" // 由部件拼接的伸缩字形
	KindFraction     Kind = "fraction"
	KindRadical      Kind = "radical"
	KindLargeOp      Kind = "large-op" // 上下限形式的大型运算符
	KindLine         Kind = "line"     // 上划线/下划线
	KindAccent       Kind = "accent"
)

// Role 标记列表在父列表中的角色，上下标以独立列表的形式挂在父列表里。
type Role string

const (
	RoleRegular     Role = ""
	RoleSuperscript Role = "superscript"
	RoleSubscript   Role = "subscript"
)

// Point 是相对父盒子原点的坐标。
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add 返回两点之和。
func (p Point) Add(o Point) Point { return Point{X: p.X + o.X, Y: p.Y + o.Y} }

// Run 是字形串中的一个字形。X 为相对字形串原点的水平偏移，Kern 为其后追加的间距。
type Run struct {
	Text    string           `json:"text"`
	Glyph   mathfont.GlyphID `json:"glyph"`
	X       float64          `json:"x"`
	Advance float64          `json:"advance"`
	Kern    float64          `json:"kern,omitempty"`
}

// Part 是伸缩字形的一个部件，Offset 沿伸缩方向从第一个部件起算。
type Part struct {
	Glyph  mathfont.GlyphID `json:"glyph"`
	Offset float64          `json:"offset"`
}

// Color 采用 0-255 的 RGB 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// Display 是排版树中的一个盒子。不同 Kind 只使用与之相关的字段。
type Display struct {
	Kind      Kind       `json:"kind"`
	Position  Point      `json:"position"`
	Width     float64    `json:"width"`
	Ascent    float64    `json:"ascent"`
	Descent   float64    `json:"descent"`
	Range     atom.Range `json:"range"`
	FontSize  float64    `json:"fontSize,omitempty"`
	HasScript bool       `json:"hasScript,omitempty"`

	// 生效颜色由 Local* 覆盖沿树向下传播得到。
	TextColor            *Color `json:"textColor,omitempty"`
	BackgroundColor      *Color `json:"backgroundColor,omitempty"`
	LocalTextColor       *Color `json:"localTextColor,omitempty"`
	LocalBackgroundColor *Color `json:"localBackgroundColor,omitempty"`

	// list / inner
	Children []*Display `json:"children,omitempty"`
	Role     Role       `json:"role,omitempty"`
	// Index 是上下标所属原子在父列表中的位置。
	Index int `json:"index,omitempty"`

	// text
	Text string `json:"text,omitempty"`
	Runs []Run  `json:"runs,omitempty"`

	// glyph / construction
	Glyph     mathfont.GlyphID `json:"glyph,omitempty"`
	GlyphName string           `json:"glyphName,omitempty"`
	Parts     []Part           `json:"parts,omitempty"`
	ShiftDown float64          `json:"shiftDown,omitempty"`

	// fraction
	Numerator       *Display `json:"numerator,omitempty"`
	Denominator     *Display `json:"denominator,omitempty"`
	NumeratorUp     float64  `json:"numeratorUp,omitempty"`
	DenominatorDown float64  `json:"denominatorDown,omitempty"`
	LinePosition    float64  `json:"linePosition,omitempty"`

	// fraction / radical / line 共用的规则线粗细
	LineThickness float64 `json:"lineThickness,omitempty"`

	// radical
	Radicand *Display `json:"radicand,omitempty"`
	Degree   *Display `json:"degree,omitempty"`
	Sign     *Display `json:"sign,omitempty"`
	TopKern  float64  `json:"topKern,omitempty"`

	// large operator with limits
	Nucleus       *Display `json:"nucleus,omitempty"`
	UpperLimit    *Display `json:"upperLimit,omitempty"`
	LowerLimit    *Display `json:"lowerLimit,omitempty"`
	LimitShift    float64  `json:"limitShift,omitempty"`
	UpperLimitGap float64  `json:"upperLimitGap,omitempty"`
	LowerLimitGap float64  `json:"lowerLimitGap,omitempty"`

	// line
	Inner       *Display `json:"inner,omitempty"`
	LineShiftUp float64  `json:"lineShiftUp,omitempty"`

	// accent
	Accentee *Display `json:"accentee,omitempty"`
	Accent   *Display `json:"accent,omitempty"`
}

// parts 按绘制顺序返回全部子盒子。
func (d *Display) parts() []*Display {
	var out []*Display
	add := func(ds ...*Display) {
		for _, c := range ds {
			if c != nil {
				out = append(out, c)
			}
		}
	}
	add(d.Children...)
	add(d.Numerator, d.Denominator)
	add(d.Sign, d.Degree, d.Radicand)
	add(d.Nucleus, d.UpperLimit, d.LowerLimit)
	add(d.Inner)
	add(d.Accentee, d.Accent)
	return out
}

// Walk 以先序遍历整棵树，origin 为当前盒子原点的绝对坐标。fn 返回 false 时不再进入其子树。
func (d *Display) Walk(fn func(d *Display, origin Point) bool) {
	d.walk(Point{}, fn)
}

func (d *Display) walk(parent Point, fn func(*Display, Point) bool) {
	if d == nil {
		return
	}
	origin := parent.Add(d.Position)
	if !fn(d, origin) {
		return
	}
	for _, c := range d.parts() {
		c.walk(origin, fn)
	}
}

// Height 返回 Ascent+Descent。
func (d *Display) Height() float64 { return d.Ascent + d.Descent }

// RadicalRule 返回根号横线相对盒子原点的起止横坐标与中心纵坐标。
func (d *Display) RadicalRule() (x0, x1, y float64) {
	if d.Kind != KindRadical || d.Sign == nil || d.Radicand == nil {
		return 0, 0, 0
	}
	x0 = d.Sign.Position.X + d.Sign.Width
	x1 = x0 + d.Radicand.Width
	y = d.Ascent - d.TopKern - d.LineThickness/2
	return x0, x1, y
}

// shift 把字形盒子整体下移 delta，同时修正其有效的上下伸。
func (d *Display) shift(delta float64) {
	d.ShiftDown += delta
	d.Ascent -= delta
	d.Descent += delta
}

// newList 按子盒子的位置计算列表的尺寸。
func newList(children []*Display, r atom.Range) *Display {
	d := &Display{Kind: KindList, Children: children, Range: r}
	d.recompute()
	return d
}

func (d *Display) recompute() {
	var ascent, descent, width float64
	for _, c := range d.Children {
		ascent = max(ascent, c.Position.Y+c.Ascent)
		descent = max(descent, c.Descent-c.Position.Y)
		width = max(width, c.Position.X+c.Width)
	}
	d.Ascent, d.Descent, d.Width = ascent, descent, width
}

// propagateColors 将 Local* 颜色沿树下传到没有自身覆盖的后代。
func (d *Display) propagateColors(text, background *Color) {
	if d.LocalTextColor != nil {
		text = d.LocalTextColor
	}
	if d.LocalBackgroundColor != nil {
		background = d.LocalBackgroundColor
	}
	d.TextColor, d.BackgroundColor = text, background
	for _, c := range d.parts() {
		c.propagateColors(text, background)
	}
}
