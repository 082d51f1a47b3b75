package layout

import (
	"unicode/utf8"

	"github.com/ByLCY/mathtype/atom"
	"github.com/ByLCY/mathtype/mathfont"
)

const (
	// 定界符高度：max(2δ·0.901, 2δ-5pt)，δ 为内容到数学轴的最大距离
	delimiterFactor    = 901
	delimiterShortfall = 5

	// 表格行距，均为字号的倍数
	baselineSkipMultiplier  = 1.2
	lineSkipMultiplier      = 0.1
	lineSkipLimitMultiplier = 0
	jotMultiplier           = 0.3

	radicalSign = '√'
)

func (t *typesetter) glyphBox(g mathfont.GlyphID, r atom.Range) *Display {
	asc, desc := t.styleFont.Bounds(g)
	return &Display{
		Kind:      KindGlyph,
		Glyph:     g,
		GlyphName: t.styleFont.GlyphName(g),
		Width:     t.styleFont.Advance(g),
		Ascent:    asc,
		Descent:   desc,
		Range:     r,
		FontSize:  t.styleFont.Size(),
	}
}

// findGlyph 返回 g 的第一个高度不小于 height 的竖直变体，都不够高时返回最大的一个。
func (t *typesetter) findGlyph(g mathfont.GlyphID, height float64) mathfont.GlyphID {
	variants := t.styleFont.VerticalVariants(g)
	if len(variants) == 0 {
		return g
	}
	for _, v := range variants {
		if t.styleFont.Height(v) >= height {
			return v
		}
	}
	return variants[len(variants)-1]
}

// stretchy 返回高度至少为 height 的竖直字形。变体都不够高时改用部件拼接。
func (t *typesetter) stretchy(g mathfont.GlyphID, height float64, r atom.Range) *Display {
	v := t.findGlyph(g, height)
	if t.styleFont.Height(v) < height {
		if c, ok := t.styleFont.Assemble(g, height, false); ok {
			return t.construction(c, r)
		}
	}
	return t.glyphBox(v, r)
}

// construction 的部件自基线向上堆叠，整体高度都算作 ascent。
func (t *typesetter) construction(c mathfont.Construction, r atom.Range) *Display {
	d := &Display{Kind: KindConstruction, Ascent: c.Size, Range: r, FontSize: t.styleFont.Size()}
	for i, g := range c.Glyphs {
		d.Parts = append(d.Parts, Part{Glyph: g, Offset: c.Offsets[i]})
		d.Width = max(d.Width, t.styleFont.Advance(g))
	}
	if len(c.Glyphs) > 0 {
		d.Glyph = c.Glyphs[0]
		d.GlyphName = t.styleFont.GlyphName(d.Glyph)
	}
	return d
}

// boundary 排一个高度至少为 height、以数学轴为中心的定界符。
func (t *typesetter) boundary(delim string, height float64, r atom.Range) *Display {
	ch, _ := utf8.DecodeRuneInString(delim)
	d := t.stretchy(t.glyph(ch), height, r)
	d.shift(0.5*(d.Ascent-d.Descent) - t.styleFont.Constants().AxisHeight)
	return d
}

func (t *typesetter) makeFraction(f *atom.Fraction) *Display {
	c := t.styleFont.Constants()
	display := t.style == atom.LineStyleDisplay

	style := t.fractionStyle()
	if f.Continued {
		style = atom.LineStyleDisplay
	}
	num := t.list(f.Numerator, style, t.cramped, false)
	den := t.list(f.Denominator, style, true, false)

	var numUp, denDown float64
	switch {
	case f.HasRule && display:
		numUp, denDown = c.FractionNumeratorDisplayStyleShiftUp, c.FractionDenominatorDisplayStyleShiftDown
	case f.HasRule:
		numUp, denDown = c.FractionNumeratorShiftUp, c.FractionDenominatorShiftDown
	case display:
		numUp, denDown = c.StackTopDisplayStyleShiftUp, c.StackBottomDisplayStyleShiftDown
	default:
		numUp, denDown = c.StackTopShiftUp, c.StackBottomShiftDown
	}

	var thickness float64
	if f.HasRule {
		thickness = c.FractionRuleThickness
		numGap, denGap := c.FractionNumeratorGapMin, c.FractionDenominatorGapMin
		if display {
			numGap, denGap = c.FractionNumDisplayStyleGapMin, c.FractionDenomDisplayStyleGapMin
		}
		if gap := (numUp - num.Descent) - (c.AxisHeight + thickness/2); gap < numGap {
			numUp += numGap - gap
		}
		if gap := (c.AxisHeight - thickness/2) - (den.Ascent - denDown); gap < denGap {
			denDown += denGap - gap
		}
	} else {
		minGap := c.StackGapMin
		if display {
			minGap = c.StackDisplayStyleGapMin
		}
		if gap := (numUp - num.Descent) - (den.Ascent - denDown); gap < minGap {
			numUp += (minGap - gap) / 2
			denDown += (minGap - gap) / 2
		}
	}

	width := max(num.Width, den.Width)
	numX := (width - num.Width) / 2
	if f.Continued {
		switch f.Alignment {
		case "l":
			numX = 0
		case "r":
			numX = width - num.Width
		}
	}
	num.Position = Point{X: numX, Y: numUp}
	den.Position = Point{X: (width - den.Width) / 2, Y: -denDown}

	d := &Display{
		Kind:            KindFraction,
		Range:           f.Base().Range,
		Width:           width,
		Ascent:          num.Ascent + numUp,
		Descent:         den.Descent + denDown,
		Numerator:       num,
		Denominator:     den,
		NumeratorUp:     numUp,
		DenominatorDown: denDown,
		LinePosition:    c.AxisHeight,
		LineThickness:   thickness,
	}
	if f.LeftDelimiter == "" && f.RightDelimiter == "" {
		return d
	}

	height := c.FractionDelimiterSize
	if display {
		height = c.FractionDelimiterDisplayStyleSize
	}
	return t.delimited(d, f.LeftDelimiter, f.RightDelimiter, height, f.Base().Range)
}

// delimited 把 inner 夹在左右定界符之间，空字符串表示没有定界符。
func (t *typesetter) delimited(inner *Display, left, right string, height float64, r atom.Range) *Display {
	var children []*Display
	var x float64
	if left != "" {
		l := t.boundary(left, height, r)
		l.Position.X = x
		x += l.Width
		children = append(children, l)
	}
	inner.Position = Point{X: x}
	x += inner.Width
	children = append(children, inner)
	if right != "" {
		rd := t.boundary(right, height, r)
		rd.Position.X = x
		children = append(children, rd)
	}
	d := newList(children, r)
	d.Kind = KindInner
	return d
}

func (t *typesetter) makeRadical(radicand *atom.List, r atom.Range) *Display {
	c := t.styleFont.Constants()
	inner := t.list(radicand, t.style, true, false)
	clearance := c.RadicalVerticalGap
	if t.style == atom.LineStyleDisplay {
		clearance = c.RadicalDisplayStyleVerticalGap
	}
	thickness := c.RadicalRuleThickness
	height := inner.Height() + clearance + thickness

	sign := t.stretchy(t.glyph(radicalSign), height, r)
	// 字形比需要的高时，多出的部分一半加到间隙上
	if delta := sign.Height() - height; delta > 0 {
		clearance += delta / 2
	}
	ascent := thickness + clearance + inner.Ascent
	sign.shift(sign.Ascent - ascent)
	inner.Position = Point{X: sign.Width}

	return &Display{
		Kind:          KindRadical,
		Range:         r,
		Width:         sign.Width + inner.Width,
		Ascent:        ascent + c.RadicalExtraAscender,
		Descent:       max(sign.Height()-ascent, inner.Descent),
		Sign:          sign,
		Radicand:      inner,
		TopKern:       c.RadicalExtraAscender,
		LineThickness: thickness,
	}
}

// setDegree 把根指数放在根号左上方：kernBefore、指数、kernAfter、根号依次排列。
func (t *typesetter) setDegree(d, degree *Display) {
	c := t.styleFont.Constants()
	kernBefore := c.RadicalKernBeforeDegree
	raise := c.RadicalDegreeBottomRaisePercent / 100 * (d.Ascent - d.Descent)
	shift := kernBefore + degree.Width + c.RadicalKernAfterDegree
	if shift < 0 {
		// 根号不能左移，改为加大 kernBefore
		kernBefore -= shift
		shift = 0
	}
	degree.Position = Point{X: kernBefore, Y: raise}
	d.Degree = degree
	d.Sign.Position.X = shift
	d.Radicand.Position.X = shift + d.Sign.Width
	d.Width = shift + d.Sign.Width + d.Radicand.Width
	d.Ascent = max(d.Ascent, raise+degree.Ascent)
}

func (t *typesetter) largeOp(op *atom.LargeOperator, space float64) {
	core := op.Base()
	c := t.styleFont.Constants()
	limits := op.Limits && t.style < atom.LineStyleScript

	var nucleus *Display
	var delta float64
	if utf8.RuneCountInString(core.Nucleus) == 1 {
		r, _ := utf8.DecodeRuneInString(core.Nucleus)
		g := t.glyph(r)
		if t.style == atom.LineStyleDisplay && g != mathfont.Notdef {
			g = t.styleFont.LargerGlyph(g)
		}
		delta = t.styleFont.ItalicCorrection(g)
		nucleus = t.glyphBox(g, core.Range)
		nucleus.shift(0.5*(nucleus.Ascent-nucleus.Descent) - c.AxisHeight)
		if core.Subscript() != nil && !limits {
			// 有下标且不用上下限时去掉斜体校正
			nucleus.Width -= delta
		}
	} else {
		nucleus = t.textBox(core.Nucleus, core.Range)
	}

	if !limits || !core.HasScripts() {
		t.place(nucleus, space)
		t.scripts(op, nucleus, core.Range.Location, delta)
		return
	}
	t.place(t.makeLimits(op, nucleus, delta), space)
}

func (t *typesetter) makeLimits(op *atom.LargeOperator, nucleus *Display, delta float64) *Display {
	core := op.Base()
	c := t.styleFont.Constants()
	d := &Display{
		Kind:       KindLargeOp,
		Range:      core.Range,
		Nucleus:    nucleus,
		LimitShift: delta / 2,
		HasScript:  true,
		Width:      nucleus.Width,
		Ascent:     nucleus.Ascent,
		Descent:    nucleus.Descent,
	}
	var upper, lower *Display
	if sup := core.Superscript(); sup != nil {
		upper = t.list(sup, t.scriptStyle(), t.cramped, false)
		upper.Role, upper.Index = RoleSuperscript, core.Range.Location
		d.UpperLimit = upper
		d.UpperLimitGap = max(c.UpperLimitGapMin, c.UpperLimitBaselineRiseMin-upper.Descent)
		d.Width = max(d.Width, upper.Width)
		d.Ascent = nucleus.Ascent + d.UpperLimitGap + upper.Height()
	}
	if sub := core.Subscript(); sub != nil {
		lower = t.list(sub, t.scriptStyle(), true, false)
		lower.Role, lower.Index = RoleSubscript, core.Range.Location
		d.LowerLimit = lower
		d.LowerLimitGap = max(c.LowerLimitGapMin, c.LowerLimitBaselineDropMin-lower.Ascent)
		d.Width = max(d.Width, lower.Width)
		d.Descent = nucleus.Descent + d.LowerLimitGap + lower.Height()
	}

	nucleus.Position = Point{X: (d.Width - nucleus.Width) / 2}
	if upper != nil {
		upper.Position = Point{
			X: d.LimitShift + (d.Width-upper.Width)/2,
			Y: nucleus.Ascent + d.UpperLimitGap + upper.Descent,
		}
	}
	if lower != nil {
		lower.Position = Point{
			X: -d.LimitShift + (d.Width-lower.Width)/2,
			Y: -(nucleus.Descent + d.LowerLimitGap + lower.Ascent),
		}
	}
	return d
}

func (t *typesetter) makeLeftRight(in *atom.Inner) *Display {
	inner := t.list(in.List, t.style, t.cramped, true)
	axis := t.styleFont.Constants().AxisHeight
	delta := max(inner.Ascent-axis, inner.Descent+axis)
	height := max(delta/500*delimiterFactor, 2*delta-delimiterShortfall)

	var left, right string
	if b := in.LeftBoundary(); b != nil {
		left = b.Base().Nucleus
	}
	if b := in.RightBoundary(); b != nil {
		right = b.Base().Nucleus
	}
	return t.delimited(inner, left, right, height, in.Base().Range)
}

func (t *typesetter) makeUnderline(u *atom.Underline) *Display {
	c := t.styleFont.Constants()
	inner := t.list(u.Inner, t.style, t.cramped, false)
	return &Display{
		Kind:          KindLine,
		Range:         u.Base().Range,
		Inner:         inner,
		LineShiftUp:   -(inner.Descent + c.UnderbarVerticalGap),
		LineThickness: c.UnderbarRuleThickness,
		Width:         inner.Width,
		Ascent:        inner.Ascent,
		Descent:       inner.Descent + c.UnderbarVerticalGap + c.UnderbarRuleThickness + c.UnderbarExtraDescender,
	}
}

func (t *typesetter) makeOverline(o *atom.Overline) *Display {
	c := t.styleFont.Constants()
	inner := t.list(o.Inner, t.style, true, false)
	return &Display{
		Kind:          KindLine,
		Range:         o.Base().Range,
		Inner:         inner,
		LineShiftUp:   inner.Ascent + c.OverbarVerticalGap,
		LineThickness: c.OverbarRuleThickness,
		Width:         inner.Width,
		Ascent:        inner.Ascent + c.OverbarVerticalGap + c.OverbarRuleThickness + c.OverbarExtraAscender,
		Descent:       inner.Descent,
	}
}

// singleCharAccentee 报告重音是否只作用于一个不带上下标的字符。
func singleCharAccentee(a *atom.Accent) bool {
	if a.Inner.Len() != 1 {
		return false
	}
	in := a.Inner.At(0).Base()
	return utf8.RuneCountInString(in.Nucleus) == 1 && !in.HasScripts() && in.Type.ScriptsAllowed()
}

func (t *typesetter) makeAccent(a *atom.Accent) *Display {
	core := a.Base()
	accentee := t.list(a.Inner, t.style, true, false)
	if core.Nucleus == "" {
		accentee.Range = core.Range
		return accentee
	}
	c := t.styleFont.Constants()
	single := singleCharAccentee(a)

	// 重音只按第一个码位查字形
	ch, _ := utf8.DecodeRuneInString(core.Nucleus)
	g := t.widestVariant(t.glyph(ch), accentee.Width)
	mark := t.glyphBox(g, core.Range)

	var anchor float64
	if single {
		in := a.Inner.At(0).Base()
		n := in.Nucleus
		if in.Type == atom.TypeVariable || in.Type == atom.TypeNumber {
			n = styleText(n, in.FontStyle)
		}
		r, _ := utf8.DecodeLastRuneInString(n)
		anchor = t.styleFont.TopAccentAdjustment(t.styleFont.Glyph(r))
	} else {
		anchor = accentee.Width / 2
	}
	skew := anchor - t.styleFont.TopAccentAdjustment(g)

	drop := min(accentee.Ascent, c.AccentBaseHeight)
	mark.Position = Point{X: skew, Y: accentee.Ascent - drop}

	if single && core.HasScripts() {
		// 上下标移到被重音的字符上，再重新排版
		in := a.Inner.At(0).Base()
		in.SetSuperscript(core.Superscript())
		in.SetSubscript(core.Subscript())
		core.SetSuperscript(nil)
		core.SetSubscript(nil)
		accentee = t.list(a.Inner, t.style, t.cramped, false)
	}

	return &Display{
		Kind:     KindAccent,
		Range:    core.Range,
		Accentee: accentee,
		Accent:   mark,
		Width:    accentee.Width,
		Ascent:   max(accentee.Ascent, accentee.Ascent-drop+mark.Ascent),
		Descent:  accentee.Descent,
	}
}

// widestVariant 返回不宽于 maxWidth 的最大水平变体，至少返回第一个。
func (t *typesetter) widestVariant(g mathfont.GlyphID, maxWidth float64) mathfont.GlyphID {
	best := g
	for i, v := range t.styleFont.HorizontalVariants(g) {
		if i > 0 && t.styleFont.Advance(v) > maxWidth {
			break
		}
		best = v
	}
	return best
}

func (t *typesetter) makeTable(tb *atom.Table) *Display {
	r := tb.Base().Range
	cols := tb.NumColumns()
	if cols == 0 {
		return newList(nil, r)
	}

	widths := make([]float64, cols)
	cells := make([][]*Display, len(tb.Cells))
	for i, row := range tb.Cells {
		for j, cell := range row {
			d := t.list(cell, t.style, false, false)
			widths[j] = max(widths[j], d.Width)
			cells[i] = append(cells[i], d)
		}
	}

	colSpace := tb.InterColumnSpacing * t.styleFont.MuUnit()
	rows := make([]*Display, len(cells))
	for i, row := range cells {
		var x float64
		for j, d := range row {
			cx := x
			switch tb.Alignment(j) {
			case atom.AlignRight:
				cx += widths[j] - d.Width
			case atom.AlignCenter:
				cx += (widths[j] - d.Width) / 2
			}
			d.Position = Point{X: cx}
			x += widths[j] + colSpace
		}
		rows[i] = newList(row, r)
	}
	t.positionRows(rows, tb)
	return newList(rows, r)
}

// positionRows 自上而下排列各行，行间距不足时改用 lineSkip，最后整体以数学轴居中。
func (t *typesetter) positionRows(rows []*Display, tb *atom.Table) {
	size := t.styleFont.Size()
	openup := tb.InterRowAdditionalSpacing * jotMultiplier * size
	baselineSkip := openup + baselineSkipMultiplier*size
	lineSkip := openup + lineSkipMultiplier*size

	var y, ascent, prevDescent float64
	for i, row := range rows {
		if i == 0 {
			ascent = row.Ascent
		} else {
			skip := baselineSkip
			if skip-(prevDescent+row.Ascent) < openup+lineSkipLimitMultiplier*size {
				skip = prevDescent + row.Ascent + lineSkip
			}
			y -= skip
		}
		row.Position = Point{Y: y}
		prevDescent = row.Descent
	}

	descent := -y + prevDescent
	shift := 0.5*(ascent-descent) - t.styleFont.Constants().AxisHeight
	for _, row := range rows {
		row.Position.Y -= shift
	}
}
