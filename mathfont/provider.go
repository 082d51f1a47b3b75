// Package mathfont provides the font metrics consumed by the typesetter: the
// OpenType MATH constants, per-glyph bounds and advances, italic corrections,
// accent attachment points, size variants and glyph assemblies.
//
// Provider is the interface a metrics source implements. LatinModern returns
// a built-in provider with static Latin Modern Math metrics, and Font scales
// any provider to a point size.
package mathfont

// GlyphID identifies a glyph inside a provider. Zero is the notdef glyph.
type GlyphID uint32

// Notdef is rendered for characters the font cannot map.
const Notdef GlyphID = 0

// GlyphPart is one piece of a glyph assembly, in design units.
type GlyphPart struct {
	Glyph                GlyphID `json:"glyph"`
	FullAdvance          float64 `json:"fullAdvance"`
	StartConnectorLength float64 `json:"startConnectorLength"`
	EndConnectorLength   float64 `json:"endConnectorLength"`
	IsExtender           bool    `json:"isExtender"`
}

// Provider supplies glyph lookups and math metrics. All lengths are in
// design units (see UnitsPerEm). Implementations must be safe for concurrent
// use.
type Provider interface {
	// Name identifies the font, e.g. for cache keys.
	Name() string
	UnitsPerEm() float64
	Constants() Constants

	// GlyphForRune maps a character to its glyph. ok is false when the font
	// has no glyph for r.
	GlyphForRune(r rune) (g GlyphID, ok bool)
	GlyphName(g GlyphID) string
	GlyphByName(name string) (g GlyphID, ok bool)

	Advance(g GlyphID) float64
	// Bounds returns the extent above and below the baseline. Descent is
	// positive below the baseline and may be negative for glyphs that float
	// above it, such as accents.
	Bounds(g GlyphID) (ascent, descent float64)
	ItalicCorrection(g GlyphID) float64
	// TopAccentAttachment returns the horizontal accent attachment point.
	// ok is false when the font does not define one.
	TopAccentAttachment(g GlyphID) (x float64, ok bool)

	// VerticalVariants lists g and its taller variants, smallest first.
	VerticalVariants(g GlyphID) []GlyphID
	// HorizontalVariants lists g and its wider variants, smallest first.
	HorizontalVariants(g GlyphID) []GlyphID
	VerticalAssembly(g GlyphID) []GlyphPart
	HorizontalAssembly(g GlyphID) []GlyphPart

	// Outline tells a renderer how to paint g with the provider's text face:
	// the character to draw and the factor its em size is scaled by.
	Outline(g GlyphID) (r rune, scale float64)
}
