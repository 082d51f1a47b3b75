package mathfont_test

import (
	"math"
	"testing"

	"github.com/ByLCY/mathtype/mathfont"
)

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func TestConstantsScaleWithSize(t *testing.T) {
	f := mathfont.Default(20)
	c := f.Constants()
	if !almostEqual(c.AxisHeight, 5) {
		t.Fatalf("expected axis height 5pt at 20pt, got %v", c.AxisHeight)
	}
	if c.ScriptPercentScaleDown != 70 {
		t.Fatalf("percentages must not scale, got %v", c.ScriptPercentScaleDown)
	}
	if !almostEqual(f.MuUnit(), 20.0/18) {
		t.Fatalf("unexpected mu unit %v", f.MuUnit())
	}
}

func TestGlyphLookup(t *testing.T) {
	f := mathfont.Default(10)
	g := f.Glyph('x')
	if g == mathfont.Notdef {
		t.Fatalf("expected a glyph for x")
	}
	if name := f.GlyphName(g); name != "uni0078" {
		t.Fatalf("unexpected glyph name %q", name)
	}
	back, ok := f.GlyphByName("uni0078")
	if !ok || back != g {
		t.Fatalf("name lookup mismatch: %v %v", back, ok)
	}

	italic := f.Glyph('𝑥')
	if italic == g {
		t.Fatalf("math italic x should have its own glyph")
	}
	if f.ItalicCorrection(f.Glyph('𝑓')) <= 0 {
		t.Fatalf("math italic f should carry an italic correction")
	}

	bold := f.Glyph('𝐱')
	if !almostEqual(f.Advance(bold), f.Advance(g)) {
		t.Fatalf("bold x should fold onto x metrics: %v vs %v", f.Advance(bold), f.Advance(g))
	}

	if g := f.Glyph('\u0007'); g != mathfont.Notdef {
		t.Fatalf("control characters map to notdef, got %v", g)
	}
}

func TestWideCharactersGetFullEm(t *testing.T) {
	f := mathfont.Default(10)
	if w := f.Advance(f.Glyph('中')); !almostEqual(w, 10) {
		t.Fatalf("expected a full em for CJK, got %v", w)
	}
}

func TestVerticalVariantsGrow(t *testing.T) {
	f := mathfont.Default(10)
	variants := f.VerticalVariants(f.Glyph('('))
	if len(variants) < 2 {
		t.Fatalf("expected size variants for (, got %d", len(variants))
	}
	for i := 1; i < len(variants); i++ {
		if f.Height(variants[i]) <= f.Height(variants[i-1]) {
			t.Fatalf("variant %d is not taller than its predecessor", i)
		}
	}

	sum := f.Glyph('∑')
	if large := f.LargerGlyph(sum); large == sum {
		t.Fatalf("expected a display variant for the summation sign")
	}
}

func TestAssembleCoversTarget(t *testing.T) {
	f := mathfont.Default(10)
	c, ok := f.Assemble(f.Glyph('('), 40, false)
	if !ok {
		t.Fatalf("expected an assembly for (")
	}
	if !almostEqual(c.Size, 40) {
		t.Fatalf("expected size 40, got %v", c.Size)
	}
	if len(c.Glyphs) != 5 {
		t.Fatalf("expected three extender repeats, got %d glyphs", len(c.Glyphs))
	}
	if len(c.Offsets) != len(c.Glyphs) {
		t.Fatalf("offsets and glyphs differ in length")
	}
	for i := 1; i < len(c.Offsets); i++ {
		if c.Offsets[i] <= c.Offsets[i-1] {
			t.Fatalf("offsets must increase: %v", c.Offsets)
		}
	}
}

func TestAssembleShortTargetUsesNoExtender(t *testing.T) {
	f := mathfont.Default(10)
	c, ok := f.Assemble(f.Glyph('('), 5, false)
	if !ok {
		t.Fatalf("expected an assembly")
	}
	if len(c.Glyphs) != 2 || !almostEqual(c.Size, 25) {
		t.Fatalf("expected the bare top and bottom pieces, got %d glyphs size %v", len(c.Glyphs), c.Size)
	}
}

func TestAssembleWithoutParts(t *testing.T) {
	f := mathfont.Default(10)
	if _, ok := f.Assemble(f.Glyph('x'), 40, false); ok {
		t.Fatalf("x has no assembly")
	}
}
