package mathfont

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/rivo/uniseg"
	"golang.org/x/text/unicode/norm"
)

// dynamicGlyph marks glyph ids synthesized for characters without a table
// entry. The low bits hold the character itself.
const dynamicGlyph GlyphID = 1 << 31

const (
	defaultAdvance = 500
	defaultAscent  = 683
)

type glyphRecord struct {
	name     string
	r        rune
	scale    float64
	m        metric
	accentX  float64
	hasAccnt bool
}

// Static is a Provider backed by in-memory tables. It is immutable after
// construction.
type Static struct {
	name      string
	upem      float64
	constants Constants

	glyphs []glyphRecord
	byRune map[rune]GlyphID
	byName map[string]GlyphID

	vVariants map[GlyphID][]GlyphID
	hVariants map[GlyphID][]GlyphID
	vAssembly map[GlyphID][]GlyphPart
	hAssembly map[GlyphID][]GlyphPart
}

var _ Provider = (*Static)(nil)

var latinModern = sync.OnceValue(buildLatinModern)

// LatinModern returns the built-in Latin Modern Math metrics. The value is
// shared and safe for concurrent use.
func LatinModern() *Static { return latinModern() }

func newStatic(name string, upem float64, c Constants) *Static {
	s := &Static{
		name:      name,
		upem:      upem,
		constants: c,
		byRune:    map[rune]GlyphID{},
		byName:    map[string]GlyphID{},
		vVariants: map[GlyphID][]GlyphID{},
		hVariants: map[GlyphID][]GlyphID{},
		vAssembly: map[GlyphID][]GlyphPart{},
		hAssembly: map[GlyphID][]GlyphPart{},
	}
	s.glyphs = append(s.glyphs, glyphRecord{name: ".notdef", scale: 1, m: metric{adv: defaultAdvance, asc: defaultAscent}})
	s.byName[".notdef"] = Notdef
	return s
}

func (s *Static) add(name string, r rune, scale float64, m metric) GlyphID {
	id := GlyphID(len(s.glyphs))
	s.glyphs = append(s.glyphs, glyphRecord{name: name, r: r, scale: scale, m: m})
	s.byName[name] = id
	return id
}

func (s *Static) addRune(r rune, m metric) GlyphID {
	if id, ok := s.byRune[r]; ok {
		return id
	}
	id := s.add(runeGlyphName(r), r, 1, m)
	s.byRune[r] = id
	return id
}

func runeGlyphName(r rune) string {
	if r <= 0xFFFF {
		return fmt.Sprintf("uni%04X", r)
	}
	return fmt.Sprintf("u%05X", r)
}

func buildLatinModern() *Static {
	s := newStatic("Latin Modern Math", 1000, latinModernConstants)

	addAlphabet := func(letters string, advances []float64, offset func(rune) rune, italic bool) {
		i := 0
		for _, r := range letters {
			if i >= len(advances) {
				break
			}
			asc, desc := letterHeights(r)
			m := metric{adv: advances[i], asc: asc, desc: desc}
			if italic {
				m.ital = italicCorrections[r]
			}
			s.addRune(offset(r), m)
			i++
		}
	}
	same := func(r rune) rune { return r }
	addAlphabet(lowerLatin, romanLowerAdvance, same, false)
	addAlphabet(upperLatin, romanUpperAdvance, same, false)
	addAlphabet(lowerGreek, greekLowerAdvance, same, false)
	addAlphabet(upperGreek, greekUpperAdvance, same, false)
	addAlphabet(lowerLatin, italicLowerAdvance, func(r rune) rune {
		if r == 'h' {
			return 'ℎ'
		}
		return 0x1D44E + r - 'a'
	}, true)
	addAlphabet(upperLatin, italicUpperAdvance, func(r rune) rune { return 0x1D434 + r - 'A' }, true)
	addAlphabet(lowerGreek, greekLowerAdvance, func(r rune) rune { return 0x1D6FC + r - 'α' }, true)
	addAlphabet(upperGreek, greekUpperAdvance, func(r rune) rune { return 0x1D6E2 + r - 'Α' }, true)

	for _, r := range slices.Sorted(maps.Keys(symbolMetrics)) {
		s.addRune(r, symbolMetrics[r])
	}
	for _, r := range slices.Sorted(maps.Keys(accentMetrics)) {
		m := accentMetrics[r]
		id := s.addRune(r, m)
		rec := &s.glyphs[id]
		rec.accentX, rec.hasAccnt = m.adv/2, true
	}

	for _, r := range slices.Sorted(maps.Keys(largeOperators)) {
		m := largeOperators[r]
		base := s.addRune(r, m)
		scale := 1.4
		if m.ital > 0 {
			scale = 2.2
		}
		v := s.add(runeGlyphName(r)+".display", r, scale, metric{
			adv:  m.adv * scale,
			asc:  m.asc * scale,
			desc: m.desc * scale,
			ital: m.ital * scale,
		})
		s.vVariants[base] = []GlyphID{base, v}
	}

	for _, r := range slices.Sorted(maps.Keys(delimiterPieces)) {
		pieces := delimiterPieces[r]
		base, ok := s.byRune[r]
		if !ok {
			continue
		}
		s.vAssembly[base] = s.pieceAssembly(pieces, true)
		if _, isOp := largeOperators[r]; isOp {
			continue
		}
		m := s.glyphs[base].m
		variants := []GlyphID{base}
		height := m.asc + m.desc
		for i, scale := range variantScales {
			// Grow the glyph around the math axis.
			h := height * scale
			mid := (m.asc - m.desc) / 2
			v := s.add(fmt.Sprintf("%s.v%d", runeGlyphName(r), i+1), r, scale, metric{
				adv:  m.adv * (1 + (scale-1)/4),
				asc:  mid + h/2,
				desc: h/2 - mid,
			})
			variants = append(variants, v)
		}
		s.vVariants[base] = variants
	}

	for _, r := range horizontalStretchy {
		base, ok := s.byRune[r]
		if !ok {
			continue
		}
		m := s.glyphs[base].m
		variants := []GlyphID{base}
		for i, scale := range horizontalScales {
			v := s.add(fmt.Sprintf("%s.h%d", runeGlyphName(r), i+1), r, scale, metric{
				adv:  m.adv * scale,
				asc:  m.asc,
				desc: m.desc,
			})
			if s.glyphs[base].hasAccnt {
				rec := &s.glyphs[v]
				rec.accentX, rec.hasAccnt = m.adv*scale/2, true
			}
			variants = append(variants, v)
		}
		s.hVariants[base] = variants
		if r == '→' || r == '←' || r == '↔' {
			s.hAssembly[base] = s.arrowAssembly(r)
		}
	}
	return s
}

// pieceAssembly converts stacked pieces into assembly parts. Connectors
// span a third of the shorter neighbour.
func (s *Static) pieceAssembly(pieces []rune, vertical bool) []GlyphPart {
	parts := make([]GlyphPart, 0, len(pieces))
	for i, p := range pieces {
		id, ok := s.byRune[p]
		if !ok {
			continue
		}
		m := s.glyphs[id].m
		adv := m.adv
		if vertical {
			adv = m.asc + m.desc
		}
		conn := adv / 3
		part := GlyphPart{
			Glyph:                id,
			FullAdvance:          adv,
			StartConnectorLength: conn,
			EndConnectorLength:   conn,
			IsExtender:           isExtenderPiece(pieces, i),
		}
		if i == 0 {
			part.StartConnectorLength = 0
		}
		if i == len(pieces)-1 {
			part.EndConnectorLength = 0
		}
		parts = append(parts, part)
	}
	return parts
}

func (s *Static) arrowAssembly(r rune) []GlyphPart {
	bar := s.byRune['⎯']
	head := s.byRune[r]
	headAdv := s.glyphs[head].m.adv
	barAdv := s.glyphs[bar].m.adv
	return []GlyphPart{
		{Glyph: head, FullAdvance: headAdv, EndConnectorLength: headAdv / 2},
		{Glyph: bar, FullAdvance: barAdv, StartConnectorLength: barAdv / 2, EndConnectorLength: barAdv / 2, IsExtender: true},
		{Glyph: head, FullAdvance: headAdv, StartConnectorLength: headAdv / 2},
	}
}

func (s *Static) Name() string         { return s.name }
func (s *Static) UnitsPerEm() float64  { return s.upem }
func (s *Static) Constants() Constants { return s.constants }

// GlyphForRune implements Provider. Characters outside the tables fold to
// their compatibility form (mathematical alphanumerics fold to plain
// letters); any other graphic character gets default metrics sized by its
// display width.
func (s *Static) GlyphForRune(r rune) (GlyphID, bool) {
	if id, ok := s.byRune[r]; ok {
		return id, true
	}
	if r < 0 || !unicode.IsGraphic(r) {
		return Notdef, false
	}
	return dynamicGlyph | GlyphID(r), true
}

func (s *Static) record(g GlyphID) glyphRecord {
	if g&dynamicGlyph == 0 {
		if int(g) < len(s.glyphs) {
			return s.glyphs[g]
		}
		return s.glyphs[Notdef]
	}
	r := rune(g &^ dynamicGlyph)
	rec := glyphRecord{name: runeGlyphName(r), r: r, scale: 1}
	folded := norm.NFKC.String(string(r))
	if fr, size := utf8.DecodeRuneInString(folded); size == len(folded) && fr != r {
		if id, ok := s.byRune[fr]; ok {
			rec.m = s.glyphs[id].m
			return rec
		}
	}
	width := uniseg.StringWidth(string(r))
	rec.m = metric{adv: float64(max(width, 1)) * defaultAdvance, asc: defaultAscent}
	if width > 1 {
		rec.m = metric{adv: 1000, asc: 880, desc: 120}
	}
	return rec
}

func (s *Static) GlyphName(g GlyphID) string { return s.record(g).name }

func (s *Static) GlyphByName(name string) (GlyphID, bool) {
	if id, ok := s.byName[name]; ok {
		return id, true
	}
	for _, prefix := range []string{"uni", "u"} {
		hex, ok := strings.CutPrefix(name, prefix)
		if !ok {
			continue
		}
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			continue
		}
		return s.GlyphForRune(rune(v))
	}
	return Notdef, false
}

func (s *Static) Advance(g GlyphID) float64 { return s.record(g).m.adv }

func (s *Static) Bounds(g GlyphID) (float64, float64) {
	m := s.record(g).m
	return m.asc, m.desc
}

func (s *Static) ItalicCorrection(g GlyphID) float64 { return s.record(g).m.ital }

func (s *Static) TopAccentAttachment(g GlyphID) (float64, bool) {
	rec := s.record(g)
	return rec.accentX, rec.hasAccnt
}

func (s *Static) VerticalVariants(g GlyphID) []GlyphID {
	if v, ok := s.vVariants[g]; ok {
		return v
	}
	return []GlyphID{g}
}

func (s *Static) HorizontalVariants(g GlyphID) []GlyphID {
	if v, ok := s.hVariants[g]; ok {
		return v
	}
	return []GlyphID{g}
}

func (s *Static) VerticalAssembly(g GlyphID) []GlyphPart   { return s.vAssembly[g] }
func (s *Static) HorizontalAssembly(g GlyphID) []GlyphPart { return s.hAssembly[g] }

func (s *Static) Outline(g GlyphID) (rune, float64) {
	rec := s.record(g)
	return rec.r, rec.scale
}
