package layout

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ByLCY/mathtype/atom"
	"github.com/ByLCY/mathtype/markup"
	"github.com/ByLCY/mathtype/mathfont"
)

const testFontSize = 20.0

func typesetString(t *testing.T, src string, style atom.LineStyle, opts ...Option) *Display {
	t.Helper()
	l, err := markup.Parse(src)
	if err != nil {
		t.Fatalf("解析 %q 失败: %v", src, err)
	}
	d, err := Typeset(l, mathfont.Default(testFontSize), style, opts...)
	if err != nil {
		t.Fatalf("排版 %q 失败: %v", src, err)
	}
	return d
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

// findText 返回第一个文本等于 text 的盒子及其绝对原点。
func findText(d *Display, text string) (*Display, Point) {
	var found *Display
	var at Point
	d.Walk(func(c *Display, origin Point) bool {
		if found == nil && c.Kind == KindText && c.Text == text {
			found, at = c, origin
		}
		return found == nil
	})
	return found, at
}

func TestTypesetRejectsBadInput(t *testing.T) {
	l := atom.NewList(atom.NewSymbol(atom.TypeVariable, "x"))
	font := mathfont.Default(testFontSize)
	if _, err := Typeset(l, nil, atom.LineStyleText); err == nil {
		t.Fatalf("缺少字体时应报错")
	}
	if _, err := Typeset(l, font, atom.LineStyle(7)); err == nil {
		t.Fatalf("非法样式应报错")
	}
	if _, err := Typeset(l, font, atom.LineStyleText, WithMaxWidth(-1)); err == nil {
		t.Fatalf("负的限宽应报错")
	}
	if d, err := Typeset(nil, font, atom.LineStyleText); err != nil || d.Width != 0 {
		t.Fatalf("空列表应得到空盒子: %+v, %v", d, err)
	}
}

func TestTypesetDoesNotMutateInput(t *testing.T) {
	l, err := markup.Parse(`x^2+\hat{y}_1`)
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	before := l.String()
	if _, err := Typeset(l, mathfont.Default(testFontSize), atom.LineStyleDisplay); err != nil {
		t.Fatalf("排版失败: %v", err)
	}
	if after := l.String(); after != before {
		t.Fatalf("排版修改了输入: %q -> %q", before, after)
	}
}

func TestFractionAscentIncludesNumeratorShift(t *testing.T) {
	font := mathfont.Default(testFontSize)
	c := font.Constants()
	for _, style := range []atom.LineStyle{atom.LineStyleDisplay, atom.LineStyleText, atom.LineStyleScript} {
		d := typesetString(t, `\frac{1}{2}`, style)
		frac := d.Children[0]
		if frac.Kind != KindFraction {
			t.Fatalf("期望 fraction，得到 %s", frac.Kind)
		}
		if !near(frac.Ascent, frac.Numerator.Ascent+frac.NumeratorUp) {
			t.Fatalf("%s: ascent=%v, numerator.ascent+shift=%v", style, frac.Ascent, frac.Numerator.Ascent+frac.NumeratorUp)
		}
		minGap := c.FractionNumeratorGapMin
		if style == atom.LineStyleDisplay {
			minGap = c.FractionNumDisplayStyleGapMin
		}
		if style == atom.LineStyleScript {
			minGap = font.WithSize(testFontSize * c.ScriptPercentScaleDown / 100).Constants().FractionNumeratorGapMin
		}
		gap := (frac.NumeratorUp - frac.Numerator.Descent) - (frac.LinePosition + frac.LineThickness/2)
		if gap < minGap-1e-9 {
			t.Fatalf("%s: 分子与分数线间隙 %v 小于 %v", style, gap, minGap)
		}
	}
}

func TestFractionWithoutRuleKeepsStackGap(t *testing.T) {
	d := typesetString(t, `{1 \atop 2}`, atom.LineStyleText)
	var frac *Display
	d.Walk(func(c *Display, _ Point) bool {
		if c.Kind == KindFraction {
			frac = c
		}
		return frac == nil
	})
	if frac == nil {
		t.Fatalf("未找到分数")
	}
	if frac.LineThickness != 0 {
		t.Fatalf("atop 不应有分数线")
	}
	gap := (frac.NumeratorUp - frac.Numerator.Descent) - (frac.Denominator.Ascent - frac.DenominatorDown)
	if floor := mathfont.Default(testFontSize).Constants().StackGapMin; gap < floor-1e-9 {
		t.Fatalf("分子分母间隙 %v 小于 %v", gap, floor)
	}
}

func TestBinomialGetsDelimiters(t *testing.T) {
	d := typesetString(t, `\binom{n}{k}`, atom.LineStyleDisplay)
	inner := d.Children[0]
	if inner.Kind != KindInner || len(inner.Children) != 3 {
		t.Fatalf("期望带括号的 inner，得到 %s (%d 个子盒子)", inner.Kind, len(inner.Children))
	}
	if inner.Children[1].Kind != KindFraction {
		t.Fatalf("中间应为分数，得到 %s", inner.Children[1].Kind)
	}
	left, frac := inner.Children[0], inner.Children[1]
	if !near(frac.Position.X, left.Width) {
		t.Fatalf("分数应紧跟左括号: %v vs %v", frac.Position.X, left.Width)
	}
}

type scriptSummary struct {
	Kind  Kind
	Role  Role
	Index int
	Up    bool
}

func TestScriptsShareTheirAtom(t *testing.T) {
	d := typesetString(t, "x^2_3", atom.LineStyleDisplay)
	var got []scriptSummary
	for _, c := range d.Children {
		got = append(got, scriptSummary{Kind: c.Kind, Role: c.Role, Index: c.Index, Up: c.Position.Y > 0})
	}
	want := []scriptSummary{
		{Kind: KindText},
		{Kind: KindList, Role: RoleSuperscript, Index: 0, Up: true},
		{Kind: KindList, Role: RoleSubscript, Index: 0, Up: false},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("上下标结构不符 (-want +got):\n%s", diff)
	}
	base, sup, sub := d.Children[0], d.Children[1], d.Children[2]
	if !base.HasScript {
		t.Fatalf("底座应标记 HasScript")
	}
	if sup.Position.X < base.Width-1e-9 || !near(sub.Position.X, base.Width) {
		t.Fatalf("上下标位置不对: sup=%v sub=%v base=%v", sup.Position, sub.Position, base.Width)
	}
	gap := (sup.Position.Y - sup.Descent) - (sub.Position.Y + sub.Ascent)
	if floor := mathfont.Default(testFontSize).Constants().SubSuperscriptGapMin; gap < floor-1e-9 {
		t.Fatalf("上下标间隙 %v 小于 %v", gap, floor)
	}
}

func TestInterElementSpacingBecomesKern(t *testing.T) {
	mu := testFontSize / 18
	d := typesetString(t, "a+b", atom.LineStyleText)
	text := d.Children[0]
	if len(text.Runs) != 3 {
		t.Fatalf("期望 3 个字形，得到 %d", len(text.Runs))
	}
	if !near(text.Runs[0].Kern, 4*mu) || !near(text.Runs[1].Kern, 4*mu) {
		t.Fatalf("二元运算符两侧应为 4mu: %+v", text.Runs)
	}

	// script 样式下中等间距为 0
	d = typesetString(t, "a+b", atom.LineStyleScript)
	for _, r := range d.Children[0].Runs {
		if r.Kern != 0 {
			t.Fatalf("script 样式不应有间距: %+v", d.Children[0].Runs)
		}
	}
}

func TestMissingGlyphFallsBackToNotdef(t *testing.T) {
	l := atom.NewList(atom.NewSymbol(atom.TypeOrdinary, "\u0007"))
	d, err := Typeset(l, mathfont.Default(testFontSize), atom.LineStyleText)
	if err != nil {
		t.Fatalf("缺字不应报错: %v", err)
	}
	if g := d.Children[0].Runs[0].Glyph; g != mathfont.Notdef {
		t.Fatalf("期望 notdef，得到 %d", g)
	}
}

func TestRadicalRuleSitsOnSign(t *testing.T) {
	d := typesetString(t, `\sqrt{x}`, atom.LineStyleDisplay)
	rad := d.Children[0]
	if rad.Kind != KindRadical {
		t.Fatalf("期望 radical，得到 %s", rad.Kind)
	}
	x0, x1, y := rad.RadicalRule()
	if !near(x0, rad.Sign.Width) || !near(x1-x0, rad.Radicand.Width) {
		t.Fatalf("根号横线范围不对: %v..%v", x0, x1)
	}
	if y <= rad.Radicand.Ascent {
		t.Fatalf("横线 %v 应高于被开方数 %v", y, rad.Radicand.Ascent)
	}
	if !near(rad.Width, rad.Sign.Width+rad.Radicand.Width) {
		t.Fatalf("宽度应为根号加被开方数")
	}

	d = typesetString(t, `\sqrt[3]{x}`, atom.LineStyleDisplay)
	rad = d.Children[0]
	if rad.Degree == nil {
		t.Fatalf("缺少根指数")
	}
	if rad.Sign.Position.X < 0 || !near(rad.Width, rad.Sign.Position.X+rad.Sign.Width+rad.Radicand.Width) {
		t.Fatalf("根指数的偏移不对: sign=%v width=%v", rad.Sign.Position, rad.Width)
	}
}

func TestLargeOperatorLimits(t *testing.T) {
	d := typesetString(t, `\sum_{i=1}^{n}i`, atom.LineStyleDisplay)
	op := d.Children[0]
	if op.Kind != KindLargeOp || op.UpperLimit == nil || op.LowerLimit == nil {
		t.Fatalf("display 样式下应把上下标放在上下方，得到 %s", op.Kind)
	}
	if op.UpperLimit.Position.Y <= 0 || op.LowerLimit.Position.Y >= 0 {
		t.Fatalf("上下限位置不对: %v %v", op.UpperLimit.Position, op.LowerLimit.Position)
	}

	d = typesetString(t, `\sum_{i=1}^{n}i`, atom.LineStyleScript)
	if k := d.Children[0].Kind; k != KindGlyph {
		t.Fatalf("script 样式下应为普通字形加侧边上下标，得到 %s", k)
	}
	if d.Children[1].Role != RoleSuperscript {
		t.Fatalf("期望侧边上标")
	}
}

func TestLeftRightDelimitersCoverContent(t *testing.T) {
	d := typesetString(t, `\left(\frac{a}{b}\right)`, atom.LineStyleDisplay)
	inner := d.Children[0]
	if inner.Kind != KindInner || len(inner.Children) != 3 {
		t.Fatalf("期望 inner 含三个子盒子，得到 %s/%d", inner.Kind, len(inner.Children))
	}
	left, body := inner.Children[0], inner.Children[1]
	if left.Height() < body.Height()*0.9-5 {
		t.Fatalf("定界符高度 %v 不足以覆盖 %v", left.Height(), body.Height())
	}
}

func TestAccentRehomesScripts(t *testing.T) {
	d := typesetString(t, `\hat{x}^2`, atom.LineStyleText)
	acc := d.Children[0]
	if acc.Kind != KindAccent {
		t.Fatalf("期望 accent，得到 %s", acc.Kind)
	}
	if acc.HasScript || len(d.Children) != 1 {
		t.Fatalf("上标应移到被重音的字符上")
	}
	found := false
	acc.Accentee.Walk(func(c *Display, _ Point) bool {
		found = found || c.Role == RoleSuperscript
		return true
	})
	if !found {
		t.Fatalf("被重音的盒子中没有上标")
	}
}

func TestOverlineAddsRuleAbove(t *testing.T) {
	d := typesetString(t, `\overline{x}`, atom.LineStyleText)
	line := d.Children[0]
	if line.Kind != KindLine || line.LineShiftUp <= line.Inner.Ascent {
		t.Fatalf("上划线位置不对: %+v", line)
	}
	if line.Ascent <= line.LineShiftUp {
		t.Fatalf("ascent 应包含上划线")
	}
}

func TestTableRowsAndColumns(t *testing.T) {
	d := typesetString(t, `\begin{matrix}a&b\\c&d\end{matrix}`, atom.LineStyleText)
	_, a := findText(d, "𝑎")
	_, b := findText(d, "𝑏")
	_, c := findText(d, "𝑐")
	if !near(a.Y, b.Y) || b.X <= a.X {
		t.Fatalf("同一行的单元格应在同一基线上: a=%v b=%v", a, b)
	}
	if c.Y >= a.Y {
		t.Fatalf("第二行应在第一行下方: a=%v c=%v", a, c)
	}
}

func TestTableRowGapAtLeastLineSkip(t *testing.T) {
	tt := []struct {
		src    string
		openup float64
	}{
		{`\begin{aligned}a&=\sum x\\b&=\sum x\end{aligned}`, 1},
		{`\sum x \\ \sum y`, 1},
		{`\begin{matrix}\frac{1}{2}\\\frac{3}{4}\end{matrix}`, 0},
	}
	for _, tc := range tt {
		d := typesetString(t, tc.src, atom.LineStyleDisplay)
		rows := d.Children[0].Children
		if len(rows) != 2 {
			t.Fatalf("%s: 期望两行，得到 %d", tc.src, len(rows))
		}
		lineSkip := (tc.openup*jotMultiplier + lineSkipMultiplier) * testFontSize
		gap := rows[0].Position.Y - rows[1].Position.Y - rows[0].Descent - rows[1].Ascent
		if gap < lineSkip-1e-9 {
			t.Errorf("%s: 行间空隙 %v 小于 lineSkip %v", tc.src, gap, lineSkip)
		}
	}
}

func TestColorPropagatesToDescendants(t *testing.T) {
	d := typesetString(t, `\color{red}{x+\colorbox{yellow}{y}}z`, atom.LineStyleText)
	red, yellow := Color{255, 0, 0}, Color{255, 255, 0}

	x, _ := findText(d, "𝑥+")
	if x == nil {
		x, _ = findText(d, "𝑥")
	}
	if x == nil || x.TextColor == nil || *x.TextColor != red {
		t.Fatalf("x 应继承红色: %+v", x)
	}
	y, _ := findText(d, "𝑦")
	if y == nil || y.TextColor == nil || *y.TextColor != red || y.BackgroundColor == nil || *y.BackgroundColor != yellow {
		t.Fatalf("y 应为红字黄底: %+v", y)
	}
	z, _ := findText(d, "𝑧")
	if z == nil || z.TextColor != nil {
		t.Fatalf("z 不应带颜色: %+v", z)
	}
}

func TestLineBreakPrefersAfterBinaryOperator(t *testing.T) {
	font := mathfont.Default(testFontSize)
	full := typesetString(t, "a+b+c", atom.LineStyleText)
	cWidth := font.Advance(font.Glyph('𝑐'))
	maxWidth := full.Width - cWidth/2

	d := typesetString(t, "a+b+c", atom.LineStyleText, WithMaxWidth(maxWidth))
	if len(d.Children) != 2 {
		t.Fatalf("期望两行，得到 %d 个盒子", len(d.Children))
	}
	first, second := d.Children[0], d.Children[1]
	if first.Text != "𝑎+𝑏+" || second.Text != "𝑐" {
		t.Fatalf("断行位置不对: %q | %q", first.Text, second.Text)
	}
	if first.Width > maxWidth {
		t.Fatalf("第一行宽 %v 超过限宽 %v", first.Width, maxWidth)
	}
	want := -max(first.Ascent+first.Descent+0.2*testFontSize, 1.2*testFontSize)
	if second.Position.X != 0 || !near(second.Position.Y, want) {
		t.Fatalf("第二行位置 %v，期望 (0, %v)", second.Position, want)
	}
}

func TestLineBreakLooksAhead(t *testing.T) {
	tt := []struct {
		name   string
		src    string
		prefix string
		delta  float64
		want   []string
	}{
		// "=" 超出限宽但在容差内，推迟到关系符之后断行
		{"deferred past relation", "a+bc=d", "a+bc=", -1, []string{"𝑎+𝑏𝑐=", "𝑑"}},
		{"breaks after operators", "xy+zw=ab", "xy+z", 1, []string{"𝑥𝑦+", "𝑧𝑤=", "𝑎𝑏"}},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			maxWidth := typesetString(t, tc.prefix, atom.LineStyleText).Width + tc.delta
			d := typesetString(t, tc.src, atom.LineStyleText, WithMaxWidth(maxWidth))
			var got []string
			for _, c := range d.Children {
				got = append(got, c.Text)
				if c.Width > maxWidth*(1+overflowTolerance) {
					t.Errorf("行 %q 宽 %v 超出容差", c.Text, c.Width)
				}
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("断行结果不对 (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLineBreakNeverSplitsNumbers(t *testing.T) {
	d := typesetString(t, "12345", atom.LineStyleText, WithMaxWidth(15))
	if len(d.Children) != 1 || d.Children[0].Text != "12345" {
		t.Fatalf("数字不应被拆开: %+v", d.Children)
	}
}

func TestLineBreakKeepsAccentedWordTogether(t *testing.T) {
	accent := typesetString(t, `\text{é}`, atom.LineStyleText)
	tt := []struct {
		name     string
		src      string
		wantLine bool
	}{
		{"accent then letters", `\text{équivaut}`, false},
		{"letters then accent", `\text{quivé}`, false},
		{"space after accent", `\text{é quivaut}`, true},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			d := typesetString(t, tc.src, atom.LineStyleText, WithMaxWidth(accent.Width+1))
			broken := false
			for _, c := range d.Children {
				if c.Position.Y < 0 {
					broken = true
				}
			}
			if broken != tc.wantLine {
				for _, c := range d.Children {
					t.Logf("%s %q at %v", c.Kind, c.Text, c.Position)
				}
				t.Fatalf("%s: 换行 = %v，期望 %v", tc.src, broken, tc.wantLine)
			}
		})
	}
}

func TestStructuralBoxMovesToNextLine(t *testing.T) {
	full := typesetString(t, `a+\frac{1}{2}`, atom.LineStyleText)
	frac := full.Children[len(full.Children)-1]
	d := typesetString(t, `a+\frac{1}{2}`, atom.LineStyleText, WithMaxWidth(full.Width-frac.Width/2))
	last := d.Children[len(d.Children)-1]
	if last.Kind != KindFraction || last.Position.X != 0 || last.Position.Y >= 0 {
		t.Fatalf("分数应整体移到下一行: %s at %v", last.Kind, last.Position)
	}
}

func TestBreakPenalty(t *testing.T) {
	tt := []struct {
		left, right atom.Type
		want        int
	}{
		{atom.TypeBinaryOperator, atom.TypeOrdinary, 0},
		{atom.TypeRelation, atom.TypeOrdinary, 0},
		{atom.TypePunctuation, atom.TypeOrdinary, 0},
		{atom.TypeOrdinary, atom.TypeBinaryOperator, 10},
		{atom.TypeOpen, atom.TypeOrdinary, 100},
		{atom.TypeOrdinary, atom.TypeClose, 100},
		{atom.TypeLargeOperator, atom.TypeOrdinary, 150},
		{atom.TypeUnaryOperator, atom.TypeOrdinary, 150},
	}
	for _, tc := range tt {
		if got := breakPenalty(tc.left, tc.right); got != tc.want {
			t.Errorf("breakPenalty(%s, %s) = %d, want %d", tc.left, tc.right, got, tc.want)
		}
	}
}

func TestBreakAllowed(t *testing.T) {
	tt := []struct {
		text   string
		offset int
		want   bool
	}{
		{"ab", 1, false},
		{"12", 1, false},
		{"1.5", 1, false},
		{"1.5", 2, false},
		{"a b", 2, true},
		{"x, y", 3, true},
		{"é quivaut", 3, true},
	}
	for _, tc := range tt {
		if got := breakAllowed(tc.text, tc.offset); got != tc.want {
			t.Errorf("breakAllowed(%q, %d) = %v, want %v", tc.text, tc.offset, got, tc.want)
		}
	}
}

func TestWriteDebugJSON(t *testing.T) {
	d := typesetString(t, `\frac{x}{2}`, atom.LineStyleDisplay)
	path := filepath.Join(t.TempDir(), "layout.json")
	if err := WriteDebugJSON(d, path); err != nil {
		t.Fatalf("写入调试 JSON 失败: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("读取失败: %v", err)
	}
	var back Display
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("JSON 无法解析: %v", err)
	}
	if back.Kind != KindList || len(back.Children) != 1 || back.Children[0].Kind != KindFraction {
		t.Fatalf("JSON 结构不对: %+v", back)
	}
}

func TestParseColor(t *testing.T) {
	tt := []struct {
		in      string
		want    Color
		wantErr bool
	}{
		{in: "red", want: Color{255, 0, 0}},
		{in: "Blue", want: Color{0, 0, 255}},
		{in: "#f00", want: Color{255, 0, 0}},
		{in: "#336699", want: Color{0x33, 0x66, 0x99}},
		{in: "#33669980", want: Color{0x33, 0x66, 0x99}},
		{in: "#zz0000", wantErr: true},
		{in: "nope", wantErr: true},
	}
	for _, tc := range tt {
		got, err := ParseColor(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseColor(%q) 应报错", tc.in)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Errorf("ParseColor(%q) = %v, %v; want %v", tc.in, got, err, tc.want)
		}
	}
}

func TestStyleText(t *testing.T) {
	tt := []struct {
		in   string
		fs   atom.FontStyle
		want string
	}{
		{"x", atom.FontStyleDefault, "𝑥"},
		{"h", atom.FontStyleDefault, "ℎ"},
		{"2", atom.FontStyleDefault, "2"},
		{"R", atom.FontStyleBlackboard, "ℝ"},
		{"A", atom.FontStyleBlackboard, "𝔸"},
		{"B", atom.FontStyleCaligraphic, "ℬ"},
		{"x", atom.FontStyleRoman, "x"},
		{"1", atom.FontStyleBold, "𝟏"},
		{"α", atom.FontStyleDefault, "𝛼"},
		{"Γ", atom.FontStyleDefault, "Γ"},
	}
	for _, tc := range tt {
		if got := styleText(tc.in, tc.fs); got != tc.want {
			t.Errorf("styleText(%q, %s) = %q, want %q", tc.in, tc.fs, got, tc.want)
		}
	}
}
