package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/mathtype/fonts"
	"github.com/ByLCY/mathtype/layout"
	"github.com/ByLCY/mathtype/mathfont"
	"github.com/ByLCY/mathtype/renderer"
)

const (
	// 页面四周留白，单位 pt
	defaultMargin = 4
	// notdef 方框的描边宽度，单位 mm
	notdefStroke = 0.1
)

// Renderer draws display trees to PDF via github.com/tdewolff/canvas.
type Renderer struct {
	baseDir  string
	mathFont string
	margin   float64
	meta     Meta
	provider mathfont.Provider

	// injected resources
	fontBlobs map[string][]byte // by unique name

	fontMu         sync.Mutex
	fontFamilies   map[string]*canvas.FontFamily
	fallbackFamily *canvas.FontFamily
}

var _ renderer.Renderer = (*Renderer)(nil)

// Options configures the canvas renderer.
type Options struct {
	BaseDir string
	Fonts   map[string]Resource // built-in fonts accessible via built-in:<name>
	// MathFont 是绘制字形所用字体的来源：embed:<name>、built-in:<name> 或文件路径。
	// 默认 embed:lmmath。
	MathFont string
	// Provider 必须与排版时使用的度量一致，默认 mathfont.LatinModern()。
	Provider mathfont.Provider
	// Margin 为页面留白（pt），0 取默认值，负数表示不留白。
	Margin float64
	Meta   Meta
}

// Meta 写入 PDF 文档信息。
type Meta struct {
	Title    string
	Subject  string
	Keywords []string
	Author   string
	Creator  string
}

// Resource can be provided either by Bytes or by Path.
type Resource struct {
	Bytes []byte
	Path  string
}

// NewRenderer creates a canvas-based renderer rooted at baseDir for resolving font paths.
func NewRenderer(baseDir string) *Renderer { return NewRendererWithOptions(Options{BaseDir: baseDir}) }

// NewRendererWithOptions creates a renderer with injected resources and optional baseDir.
func NewRendererWithOptions(opts Options) *Renderer {
	r := &Renderer{
		baseDir:      opts.BaseDir,
		mathFont:     opts.MathFont,
		margin:       opts.Margin,
		meta:         opts.Meta,
		provider:     opts.Provider,
		fontBlobs:    map[string][]byte{},
		fontFamilies: map[string]*canvas.FontFamily{},
	}
	if r.mathFont == "" {
		r.mathFont = "embed:" + fonts.Math
	}
	if r.provider == nil {
		r.provider = mathfont.LatinModern()
	}
	switch {
	case r.margin == 0:
		r.margin = defaultMargin
	case r.margin < 0:
		r.margin = 0
	}
	for name, res := range opts.Fonts {
		if name == "" {
			continue
		}
		if len(res.Bytes) > 0 {
			r.fontBlobs[name] = res.Bytes
			continue
		}
		if res.Path != "" {
			data, _ := os.ReadFile(res.Path) // 读取失败在真正使用时报错
			if len(data) > 0 {
				r.fontBlobs[name] = data
			}
		}
	}
	return r
}

// PageSize 返回渲染 d 时的页面尺寸（mm）。
func (r *Renderer) PageSize(d *layout.Display) (width, height float64) {
	return toMm(d.Width + 2*r.margin), toMm(d.Height() + 2*r.margin)
}

// Render renders the display tree into a single-page PDF.
func (r *Renderer) Render(d *layout.Display) ([]byte, error) {
	if d == nil {
		return nil, fmt.Errorf("排版结果为空")
	}
	width, height := r.PageSize(d)
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("页面尺寸无效: %gx%g mm", width, height)
	}
	family, err := r.ensureFontFamily(r.mathFont)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	writer := pdf.New(&buf, width, height, nil)
	r.applyMeta(writer)
	c := canvas.New(width, height)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 页面坐标以左上角为原点，y 轴向下

	p := painter{r: r, ctx: ctx, family: family, root: d.Position, top: r.margin + d.Ascent}
	d.Walk(p.draw)
	c.RenderTo(writer)

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) applyMeta(writer *pdf.PDF) {
	if writer == nil {
		return
	}
	keywords := strings.Join(r.meta.Keywords, ", ")
	writer.SetInfo(r.meta.Title, r.meta.Subject, keywords, r.meta.Author, r.meta.Creator)
}

// painter 把排版坐标（pt，y 向上，基线为 0）换算为页面坐标（mm，y 向下）后绘制。
type painter struct {
	r      *Renderer
	ctx    *canvas.Context
	family *canvas.FontFamily
	root   layout.Point
	top    float64 // 根盒子基线到页面顶端的距离，pt
}

func (p *painter) x(x float64) float64 { return toMm(p.r.margin + x - p.root.X) }
func (p *painter) y(y float64) float64 { return toMm(p.top - (y - p.root.Y)) }

func (p *painter) draw(d *layout.Display, o layout.Point) bool {
	if bg := d.LocalBackgroundColor; bg != nil {
		// 背景先于子盒子绘制
		p.fillRect(o.X, o.Y+d.Ascent, d.Width, d.Height(), *bg)
	}
	ink := layout.DefaultTextColor
	if d.TextColor != nil {
		ink = *d.TextColor
	}

	switch d.Kind {
	case layout.KindText:
		for _, run := range d.Runs {
			p.glyph(run.Glyph, o.X+run.X, o.Y, d.FontSize, ink)
		}
	case layout.KindGlyph:
		p.glyph(d.Glyph, o.X, o.Y-d.ShiftDown, d.FontSize, ink)
	case layout.KindConstruction:
		for _, part := range d.Parts {
			p.glyph(part.Glyph, o.X, o.Y-d.ShiftDown+part.Offset, d.FontSize, ink)
		}
	case layout.KindFraction:
		if d.LineThickness > 0 {
			p.rule(o.X, o.X+d.Width, o.Y+d.LinePosition, d.LineThickness, ink)
		}
	case layout.KindRadical:
		x0, x1, y := d.RadicalRule()
		if x1 > x0 {
			p.rule(o.X+x0, o.X+x1, o.Y+y, d.LineThickness, ink)
		}
	case layout.KindLine:
		p.rule(o.X, o.X+d.Width, o.Y+d.LineShiftUp, d.LineThickness, ink)
	}
	return true
}

// glyph 在基线 (x, y) 处绘制字形 g，size 为排版字号（pt）。
func (p *painter) glyph(g mathfont.GlyphID, x, y, size float64, ink layout.Color) {
	ch, scale := p.r.provider.Outline(g)
	if ch == 0 {
		p.notdef(g, x, y, size, ink)
		return
	}
	face := p.family.Face(size*scale, colorFromLayout(ink), canvas.FontRegular, canvas.FontNormal)
	p.ctx.DrawText(p.x(x), p.y(y), canvas.NewTextLine(face, string(ch), canvas.Left))
}

// notdef 画一个空心方框代替字体中没有的字形。
func (p *painter) notdef(g mathfont.GlyphID, x, y, size float64, ink layout.Color) {
	f := mathfont.New(p.r.provider, size)
	asc, desc := f.Bounds(g)
	p.ctx.SetFillColor(color.RGBA{0, 0, 0, 0})
	p.ctx.SetStrokeColor(colorFromLayout(ink))
	p.ctx.SetStrokeWidth(notdefStroke)
	p.ctx.DrawPath(p.x(x), p.y(y+asc), canvas.Rectangle(toMm(f.Advance(g)), toMm(asc+desc)))
}

// rule 画一条以 y 为中心、粗细为 thickness 的水平线。
func (p *painter) rule(x0, x1, y, thickness float64, ink layout.Color) {
	if thickness <= 0 {
		return
	}
	p.fillRect(x0, y+thickness/2, x1-x0, thickness, ink)
}

// fillRect 以左上角 (x, top) 填充矩形，参数均为排版坐标。
func (p *painter) fillRect(x, top, w, h float64, col layout.Color) {
	if w <= 0 || h <= 0 {
		return
	}
	p.ctx.SetFillColor(colorFromLayout(col))
	p.ctx.SetStrokeColor(color.RGBA{0, 0, 0, 0})
	p.ctx.SetStrokeWidth(0)
	p.ctx.DrawPath(p.x(x), p.y(top), canvas.Rectangle(toMm(w), toMm(h)))
}

func (r *Renderer) ensureFontFamily(src string) (*canvas.FontFamily, error) {
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if family, ok := r.fontFamilies[src]; ok {
		return family, nil
	}

	family := canvas.NewFontFamily(r.provider.Name())
	data, err := r.loadFontBytes(src)
	if err == nil {
		err = family.LoadFont(data, 0, canvas.FontRegular)
	}
	if err != nil {
		fallback, fbErr := r.fallback()
		if fbErr != nil {
			return nil, fmt.Errorf("加载字体 %s 失败: %w", src, err)
		}
		r.fontFamilies[src] = fallback
		return fallback, nil
	}
	r.fontFamilies[src] = family
	return family, nil
}

func (r *Renderer) loadFontBytes(src string) ([]byte, error) {
	if src == "" {
		return nil, fmt.Errorf("字体缺少 src")
	}
	if strings.HasPrefix(src, "built-in:") || strings.HasPrefix(src, "builtin:") {
		name := strings.TrimPrefix(strings.TrimPrefix(src, "built-in:"), "builtin:")
		if blob, ok := r.fontBlobs[name]; ok {
			return blob, nil
		}
		return nil, fmt.Errorf("找不到内置字体资源 built-in:%s", name)
	}
	if strings.HasPrefix(src, "embed:") {
		return fonts.Load(src)
	}
	path := src
	if r.baseDir == "" && !filepath.IsAbs(path) {
		return nil, fmt.Errorf("未指定资源目录时不允许直接使用字体路径：%s（请改用 built-in: 或 embed:）", src)
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.baseDir, path)
	}
	return os.ReadFile(path)
}

// fallback 在调用方持有 fontMu 时使用，返回内置的 Latin Modern Math。
func (r *Renderer) fallback() (*canvas.FontFamily, error) {
	if r.fallbackFamily != nil {
		return r.fallbackFamily, nil
	}
	data, err := fonts.Load(fonts.Math)
	if err != nil {
		return nil, err
	}
	family := canvas.NewFontFamily("mathtype-fallback")
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, err
	}
	r.fallbackFamily = family
	return family, nil
}

func colorFromLayout(c layout.Color) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, 1.0)
}

// toMm 将点(pt)转换为毫米(mm)。
func toMm(pt float64) float64 { return pt * layout.PtToMm }
