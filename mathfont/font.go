package mathfont

import "fmt"

// Font is a Provider at a point size. All lengths it returns are in points.
type Font struct {
	provider  Provider
	size      float64
	scale     float64
	constants Constants
}

// New returns p scaled to size points.
func New(p Provider, size float64) *Font {
	scale := size / p.UnitsPerEm()
	return &Font{provider: p, size: size, scale: scale, constants: p.Constants().scaled(scale)}
}

// Default returns the built-in Latin Modern Math metrics at size points.
func Default(size float64) *Font { return New(LatinModern(), size) }

// WithSize returns the same provider at another size.
func (f *Font) WithSize(size float64) *Font { return New(f.provider, size) }

func (f *Font) Provider() Provider { return f.provider }
func (f *Font) Size() float64      { return f.size }
func (f *Font) Name() string       { return f.provider.Name() }

// Key identifies the font and size, for cache keys.
func (f *Font) Key() string { return fmt.Sprintf("%s@%g", f.provider.Name(), f.size) }

// Constants returns the MATH constants scaled to the font size.
func (f *Font) Constants() Constants { return f.constants }

// MuUnit is the length of one math unit (1/18 em).
func (f *Font) MuUnit() float64 { return f.size / 18 }

// Glyph maps r to its glyph, falling back to notdef.
func (f *Font) Glyph(r rune) GlyphID {
	g, ok := f.provider.GlyphForRune(r)
	if !ok {
		return Notdef
	}
	return g
}

// GlyphFor returns the glyph of the first character of s. Multi-character
// strings are looked up by their first code point only.
func (f *Font) GlyphFor(s string) GlyphID {
	for _, r := range s {
		return f.Glyph(r)
	}
	return Notdef
}

// Glyphs maps every character of s.
func (f *Font) Glyphs(s string) []GlyphID {
	out := make([]GlyphID, 0, len(s))
	for _, r := range s {
		out = append(out, f.Glyph(r))
	}
	return out
}

func (f *Font) GlyphName(g GlyphID) string { return f.provider.GlyphName(g) }

func (f *Font) GlyphByName(name string) (GlyphID, bool) { return f.provider.GlyphByName(name) }

func (f *Font) Advance(g GlyphID) float64 { return f.provider.Advance(g) * f.scale }

// Bounds returns the ascent and descent of g.
func (f *Font) Bounds(g GlyphID) (ascent, descent float64) {
	a, d := f.provider.Bounds(g)
	return a * f.scale, d * f.scale
}

// Height returns ascent plus descent.
func (f *Font) Height(g GlyphID) float64 {
	a, d := f.Bounds(g)
	return a + d
}

func (f *Font) ItalicCorrection(g GlyphID) float64 {
	return f.provider.ItalicCorrection(g) * f.scale
}

// TopAccentAdjustment returns the accent attachment point of g, defaulting
// to the middle of its advance.
func (f *Font) TopAccentAdjustment(g GlyphID) float64 {
	if x, ok := f.provider.TopAccentAttachment(g); ok {
		return x * f.scale
	}
	return f.Advance(g) / 2
}

func (f *Font) VerticalVariants(g GlyphID) []GlyphID   { return f.provider.VerticalVariants(g) }
func (f *Font) HorizontalVariants(g GlyphID) []GlyphID { return f.provider.HorizontalVariants(g) }

// LargerGlyph returns the first vertical variant of g taller than g, or g.
func (f *Font) LargerGlyph(g GlyphID) GlyphID {
	h := f.Height(g)
	for _, v := range f.VerticalVariants(g) {
		if f.Height(v) > h {
			return v
		}
	}
	return g
}

// Outline reports how a renderer draws g: the character and the scale of
// its em size.
func (f *Font) Outline(g GlyphID) (rune, float64) { return f.provider.Outline(g) }
