package layout

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"github.com/ByLCY/mathtype/atom"
	"github.com/ByLCY/mathtype/mathfont"
)

// Typeset 把原子列表排成一棵盒子树。列表会先规范化（Finalized），调用方持有的列表不会被修改。
func Typeset(list *atom.List, font *mathfont.Font, style atom.LineStyle, opts ...Option) (*Display, error) {
	if font == nil {
		return nil, errors.New("layout: font is required")
	}
	if style < atom.LineStyleDisplay || style > atom.LineStyleScriptScript {
		return nil, fmt.Errorf("layout: invalid line style %d", style)
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.maxWidth < 0 {
		return nil, fmt.Errorf("layout: negative max width %g", o.maxWidth)
	}

	t := newTypesetter(font, style, o.cramped, o.spaced, o.logger)
	t.maxWidth = o.maxWidth
	d := t.typeset(list.Finalized())
	d.propagateColors(nil, nil)
	return d, nil
}

// typesetter 保存排一个列表时的状态：当前样式、笔位，以及尚未输出的普通字形串。
type typesetter struct {
	font      *mathfont.Font
	styleFont *mathfont.Font
	style     atom.LineStyle
	cramped   bool
	spaced    bool
	logger    *log.Logger

	displays []*Display
	pos      Point
	seg      segment

	// 以下字段只在限宽排版时使用
	maxWidth   float64
	breakAt    int
	lineStart  int
	lineNo     int
	prevBottom float64
	// wordTail 表示当前行以字母结尾且其后还没有空白，此时不能在字母前断行
	wordTail bool
}

func newTypesetter(font *mathfont.Font, style atom.LineStyle, cramped, spaced bool, logger *log.Logger) *typesetter {
	t := &typesetter{font: font, cramped: cramped, spaced: spaced, logger: logger, breakAt: -1}
	t.setStyle(style)
	return t
}

func (t *typesetter) setStyle(s atom.LineStyle) {
	t.style = s
	t.styleFont = t.font.WithSize(styleSize(s, t.font))
}

// styleSize 返回样式对应的字号。
func styleSize(s atom.LineStyle, f *mathfont.Font) float64 {
	c := f.Constants()
	switch s {
	case atom.LineStyleScript:
		return f.Size() * c.ScriptPercentScaleDown / 100
	case atom.LineStyleScriptScript:
		return f.Size() * c.ScriptScriptPercentScaleDown / 100
	}
	return f.Size()
}

func (t *typesetter) scriptStyle() atom.LineStyle {
	switch t.style {
	case atom.LineStyleDisplay, atom.LineStyleText:
		return atom.LineStyleScript
	}
	return atom.LineStyleScriptScript
}

func (t *typesetter) fractionStyle() atom.LineStyle {
	if t.style == atom.LineStyleScriptScript {
		return atom.LineStyleScriptScript
	}
	return t.style + 1
}

// list 用同一字体排一个子列表。子列表从不换行。
func (t *typesetter) list(l *atom.List, style atom.LineStyle, cramped, spaced bool) *Display {
	return newTypesetter(t.font, style, cramped, spaced, t.logger).typeset(l)
}

func (t *typesetter) typeset(l *atom.List) *Display {
	atoms, kinds := preprocess(l)
	t.layout(atoms, kinds)
	var r atom.Range
	if last := l.Last(); last != nil {
		r = atom.Range{Location: 0, Length: last.Base().Range.End()}
	}
	return newList(t.displays, r)
}

// origin 记录预处理前的原子类型，合并后的原子分别记下首尾两个。
type origin struct {
	first, last atom.Type
}

// preprocess 把 variable/number 换成带字体风格的 ordinary，一元运算符按 ordinary 处理，
// 然后合并相邻且无上下标的 ordinary（TeX 附录 G 规则 14）。结果都是克隆，原列表不变。
func preprocess(l *atom.List) ([]atom.Atom, []origin) {
	atoms := make([]atom.Atom, 0, l.Len())
	kinds := make([]origin, 0, l.Len())
	var prev atom.Atom
	for _, orig := range l.Atoms() {
		a := orig.Clone()
		core := a.Base()
		kind := core.Type
		switch core.Type {
		case atom.TypeVariable, atom.TypeNumber:
			core.Nucleus = styleText(core.Nucleus, core.FontStyle)
			core.Type = atom.TypeOrdinary
		case atom.TypeUnaryOperator:
			core.Type = atom.TypeOrdinary
		}
		if core.Type == atom.TypeOrdinary && prev != nil && fusable(prev) && fusable(a) && !prev.Base().HasScripts() {
			prev.Base().Fuse(a)
			kinds[len(kinds)-1].last = kind
			continue
		}
		prev = a
		atoms = append(atoms, a)
		kinds = append(kinds, origin{first: kind, last: kind})
	}
	return atoms, kinds
}

func fusable(a atom.Atom) bool {
	_, ok := a.(*atom.Symbol)
	return ok && a.Base().Type == atom.TypeOrdinary
}

// isGlyphAtom 报告原子是否直接追加到字形串中。
func isGlyphAtom(a atom.Atom) bool {
	if _, ok := a.(*atom.Symbol); !ok {
		return false
	}
	switch a.Base().Type {
	case atom.TypeOrdinary, atom.TypeBinaryOperator, atom.TypeRelation, atom.TypeOpen,
		atom.TypeClose, atom.TypePlaceholder, atom.TypePunctuation:
		return true
	}
	return false
}

func (t *typesetter) layout(atoms []atom.Atom, kinds []origin) {
	var prev atom.Atom
	for i, a := range atoms {
		core := a.Base()
		switch v := a.(type) {
		case *atom.Space:
			t.flush()
			t.pos.X += v.Amount * t.styleFont.MuUnit()
			t.wordTail = false
			// 显式空白不影响前后原子之间的间距
			continue
		case *atom.Style:
			t.flush()
			t.setStyle(v.Level)
			continue
		case *atom.Color:
			t.colored(prev, v.Inner, v.Color, false, core.Range)
		case *atom.TextColor:
			t.colored(prev, v.Inner, v.Color, false, core.Range)
		case *atom.ColorBox:
			t.colored(prev, v.Inner, v.Color, true, core.Range)
		case *atom.Radical:
			t.flush()
			// 规则 16：根式视作 ordinary
			space := t.spaceBefore(prev, atom.TypeOrdinary)
			d := t.makeRadical(v.Radicand, core.Range)
			if v.Degree != nil {
				t.setDegree(d, t.list(v.Degree, atom.LineStyleScriptScript, false, false))
			}
			t.place(d, space)
			t.scripts(a, d, core.Range.Location, 0)
		case *atom.Fraction:
			t.flush()
			space := t.spaceBefore(prev, core.Type)
			d := t.makeFraction(v)
			t.place(d, space)
			t.scripts(a, d, core.Range.Location, 0)
		case *atom.LargeOperator:
			t.flush()
			t.largeOp(v, t.spaceBefore(prev, core.Type))
		case *atom.Inner:
			t.flush()
			space := t.spaceBefore(prev, core.Type)
			var d *Display
			if v.LeftBoundary() != nil || v.RightBoundary() != nil {
				d = t.makeLeftRight(v)
			} else {
				d = t.list(v.List, t.style, t.cramped, false)
				d.Range = core.Range
			}
			t.place(d, space)
			t.scripts(a, d, core.Range.Location, 0)
		case *atom.Underline:
			t.flush()
			space := t.spaceBefore(prev, atom.TypeOrdinary)
			core.Type = atom.TypeOrdinary
			d := t.makeUnderline(v)
			t.place(d, space)
			t.scripts(a, d, core.Range.Location, 0)
		case *atom.Overline:
			t.flush()
			space := t.spaceBefore(prev, atom.TypeOrdinary)
			core.Type = atom.TypeOrdinary
			d := t.makeOverline(v)
			t.place(d, space)
			t.scripts(a, d, core.Range.Location, 0)
		case *atom.Accent:
			t.flush()
			space := t.spaceBefore(prev, atom.TypeOrdinary)
			core.Type = atom.TypeOrdinary
			d := t.makeAccent(v)
			first, last := listLetters(v.Inner)
			t.placeBox(d, space, t.wordTail && first)
			t.wordTail = last && !core.HasScripts()
			t.scripts(a, d, core.Range.Location, 0)
		case *atom.Table:
			t.flush()
			// 表格按 inner 计算间距，且没有上下标
			space := t.spaceBefore(prev, atom.TypeInner)
			core.Type = atom.TypeInner
			t.place(t.makeTable(v), space)
		default:
			if !isGlyphAtom(a) {
				panic(fmt.Sprintf("layout: unexpected %s atom %q in a finalized list", core.Type, core.Nucleus))
			}
			t.glyphs(i, atoms, kinds, prev)
		}
		prev = a
	}
	t.flush()
	if t.maxWidth > 0 {
		t.finishLine()
	}
	if t.spaced && prev != nil && len(t.displays) > 0 {
		last := t.displays[len(t.displays)-1]
		last.Width += t.interElementSpace(prev.Base().Type, atom.TypeClose)
	}
}

// spaceBefore 返回 prev 与即将放置的 typ 类原子之间的间距。spaced 列表的首个原子按跟在开括号后处理。
func (t *typesetter) spaceBefore(prev atom.Atom, typ atom.Type) float64 {
	if prev != nil {
		return t.interElementSpace(prev.Base().Type, typ)
	}
	if t.spaced {
		return t.interElementSpace(atom.TypeOpen, typ)
	}
	return 0
}

// place 把结构盒子整体放到当前笔位；限宽时放不下就先换行。
func (t *typesetter) place(d *Display, space float64) {
	t.placeBox(d, space, false)
	t.wordTail = false
}

// placeBox 放置盒子。joined 表示盒子与前面的字母属于同一个单词，此时宁可超出限宽也不换行。
func (t *typesetter) placeBox(d *Display, space float64, joined bool) {
	if !joined && t.overflows(space+d.Width) {
		t.logger.Debug("structural box overflows", "kind", d.Kind, "width", d.Width)
		t.newLine()
	} else {
		t.pos.X += space
	}
	d.Position = t.pos
	t.displays = append(t.displays, d)
	t.pos.X += d.Width
}

func (t *typesetter) colored(prev atom.Atom, inner *atom.List, name string, background bool, r atom.Range) {
	t.flush()
	space := t.spaceBefore(prev, atom.TypeOrdinary)
	d := t.list(inner, t.style, t.cramped, false)
	d.Range = r
	if c, err := ParseColor(name); err != nil {
		t.logger.Debug("ignoring color", "color", name, "err", err)
	} else if background {
		d.LocalBackgroundColor = &c
	} else {
		d.LocalTextColor = &c
	}
	t.place(d, space)
}

// glyphs 把 ordinary 一族的原子追加到当前字形串，原子间距记成前一个字形的 kern，
// 字形串为空时则直接推进笔位。
func (t *typesetter) glyphs(i int, atoms []atom.Atom, kinds []origin, prev atom.Atom) {
	a := atoms[i]
	core := a.Base()
	space := t.spaceBefore(prev, core.Type)
	text := core.Nucleus
	if t.maxWidth > 0 {
		text, space = t.breakBefore(i, atoms, kinds, text, space)
	}
	t.advance(space)
	t.seg.add(t, text, core.Range)
	if text != "" {
		t.wordTail = endsWithLetter(text)
	}

	if !core.HasScripts() {
		return
	}
	t.wordTail = false
	// 即使字形串为空也要输出，空底座也可以带上下标
	line := t.flushLine()
	var delta float64
	if core.Nucleus != "" {
		r, _ := utf8.DecodeLastRuneInString(core.Nucleus)
		delta = t.styleFont.ItalicCorrection(t.styleFont.Glyph(r))
	}
	if delta > 0 && core.Subscript() == nil {
		t.pos.X += delta
	}
	t.scripts(a, line, core.Range.End()-1, delta)
}

// advance 插入原子间距。
func (t *typesetter) advance(space float64) {
	if space <= 0 {
		return
	}
	if t.seg.empty() {
		t.pos.X += space
	} else {
		t.seg.kernLast(space)
	}
}

// scripts 为 a 放置上下标。上下标是与 d 并列的独立列表，index 指向其所属原子。
func (t *typesetter) scripts(a atom.Atom, d *Display, index int, delta float64) {
	core := a.Base()
	if !core.HasScripts() {
		return
	}
	d.HasScript = true
	c := t.styleFont.Constants()
	var superUp, subDown float64
	if d.Kind != KindText {
		sc := t.font.WithSize(styleSize(t.scriptStyle(), t.font)).Constants()
		superUp = d.Ascent - sc.SuperscriptBaselineDropMax
		subDown = d.Descent + sc.SubscriptBaselineDropMin
	}

	if core.Superscript() == nil {
		sub := t.list(core.Subscript(), t.scriptStyle(), true, false)
		sub.Role, sub.Index = RoleSubscript, index
		subDown = max(subDown, c.SubscriptShiftDown, sub.Ascent-c.SubscriptTopMax)
		sub.Position = Point{X: t.pos.X, Y: t.pos.Y - subDown}
		t.displays = append(t.displays, sub)
		t.pos.X += sub.Width + c.SpaceAfterScript
		return
	}

	sup := t.list(core.Superscript(), t.scriptStyle(), t.cramped, false)
	sup.Role, sup.Index = RoleSuperscript, index
	shiftUp := c.SuperscriptShiftUp
	if t.cramped {
		shiftUp = c.SuperscriptShiftUpCramped
	}
	superUp = max(superUp, shiftUp, sup.Descent+c.SuperscriptBottomMin)

	if core.Subscript() == nil {
		sup.Position = Point{X: t.pos.X, Y: t.pos.Y + superUp}
		t.displays = append(t.displays, sup)
		t.pos.X += sup.Width + c.SpaceAfterScript
		return
	}

	sub := t.list(core.Subscript(), t.scriptStyle(), true, false)
	sub.Role, sub.Index = RoleSubscript, index
	subDown = max(subDown, c.SubscriptShiftDown)

	// 上下标同时存在时保证二者之间的最小间隙：先压低下标，再在允许范围内抬高上标
	gap := (superUp - sup.Descent) + (subDown - sub.Ascent)
	if gap < c.SubSuperscriptGapMin {
		subDown += c.SubSuperscriptGapMin - gap
		if lift := c.SuperscriptBottomMaxWithSubscript - (superUp - sup.Descent); lift > 0 {
			superUp += lift
			subDown -= lift
		}
	}
	sup.Position = Point{X: t.pos.X + delta, Y: t.pos.Y + superUp}
	sub.Position = Point{X: t.pos.X, Y: t.pos.Y - subDown}
	t.displays = append(t.displays, sup, sub)
	t.pos.X += max(sup.Width+delta, sub.Width) + c.SpaceAfterScript
}

// segment 是尚未输出的一串普通字形。
type segment struct {
	text            string
	runs            []Run
	width           float64
	ascent, descent float64
	rng             atom.Range
	hasRange        bool
}

func (s *segment) empty() bool { return len(s.runs) == 0 }

func (s *segment) add(t *typesetter, text string, r atom.Range) {
	if s.hasRange {
		s.rng = s.rng.Union(r)
	} else {
		s.rng, s.hasRange = r, true
	}
	for _, ch := range text {
		g := t.glyph(ch)
		adv := t.styleFont.Advance(g)
		asc, desc := t.styleFont.Bounds(g)
		s.runs = append(s.runs, Run{Text: string(ch), Glyph: g, X: s.width, Advance: adv})
		s.width += adv
		s.ascent = max(s.ascent, asc)
		s.descent = max(s.descent, desc)
	}
	s.text += text
}

func (s *segment) kernLast(k float64) {
	s.runs[len(s.runs)-1].Kern += k
	s.width += k
}

func (s *segment) display(size float64) *Display {
	return &Display{
		Kind:     KindText,
		Width:    s.width,
		Ascent:   s.ascent,
		Descent:  s.descent,
		Range:    s.rng,
		FontSize: size,
		Text:     s.text,
		Runs:     s.runs,
	}
}

// flushLine 把当前字形串作为一个文本盒子输出，即使它为空。
func (t *typesetter) flushLine() *Display {
	d := t.seg.display(t.styleFont.Size())
	d.Position = t.pos
	t.displays = append(t.displays, d)
	t.pos.X += d.Width
	t.seg = segment{}
	return d
}

func (t *typesetter) flush() {
	if !t.seg.empty() {
		t.flushLine()
	}
}

// textBox 把 text 单独排成一个文本盒子，不影响当前字形串。
func (t *typesetter) textBox(text string, r atom.Range) *Display {
	var s segment
	s.add(t, text, r)
	return s.display(t.styleFont.Size())
}

func (t *typesetter) textWidth(text string) float64 {
	var w float64
	for _, ch := range text {
		w += t.styleFont.Advance(t.styleFont.Glyph(ch))
	}
	return w
}

// glyph 查找字形，找不到时回退到 notdef。
func (t *typesetter) glyph(r rune) mathfont.GlyphID {
	g := t.styleFont.Glyph(r)
	if g == mathfont.Notdef {
		t.logger.Debug("glyph fallback", "char", string(r), "font", t.styleFont.Name())
	}
	return g
}
