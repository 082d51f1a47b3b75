package mathfont

import "math"

// maxExtenderRepeats bounds the assembly search for absurd targets.
const maxExtenderRepeats = 1000

// Construction is a stretchy glyph built from assembly parts. Offsets are
// measured along the stretch axis from the start of the first part, in
// points.
type Construction struct {
	Glyphs  []GlyphID `json:"glyphs"`
	Offsets []float64 `json:"offsets"`
	// Size is the total length along the stretch axis.
	Size float64 `json:"size"`
}

// Assemble builds g out of its assembly parts so that it covers target
// points, vertically or horizontally. It tries 0, 1, 2... repeats of every
// extender, computing the smallest and largest length reachable with each
// count, and stops at the first count whose range reaches target. Any
// slack is spread evenly across the connectors. ok is false when g has no
// assembly.
func (f *Font) Assemble(g GlyphID, target float64, horizontal bool) (c Construction, ok bool) {
	var parts []GlyphPart
	if horizontal {
		parts = f.provider.HorizontalAssembly(g)
	} else {
		parts = f.provider.VerticalAssembly(g)
	}
	if len(parts) == 0 {
		return Construction{}, false
	}
	hasExtender := false
	for _, p := range parts {
		if p.IsExtender {
			hasExtender = true
			break
		}
	}

	minOverlap := f.constants.MinConnectorOverlap
	for repeats := 0; repeats <= maxExtenderRepeats; repeats++ {
		glyphs, offsets, minSize, maxDelta := f.layoutParts(parts, repeats, minOverlap)
		if len(glyphs) == 0 {
			continue
		}
		if minSize >= target {
			return Construction{Glyphs: glyphs, Offsets: offsets, Size: minSize}, true
		}
		gaps := len(glyphs) - 1
		if gaps > 0 && minSize+maxDelta*float64(gaps) >= target {
			delta := (target - minSize) / float64(gaps)
			for i := range offsets {
				offsets[i] += float64(i) * delta
			}
			return Construction{Glyphs: glyphs, Offsets: offsets, Size: target}, true
		}
		if !hasExtender {
			return Construction{Glyphs: glyphs, Offsets: offsets, Size: minSize + maxDelta*float64(max(gaps, 0))}, true
		}
	}
	return Construction{}, false
}

// layoutParts places parts with the given extender repeat count at maximal
// overlap. It returns the minimum total size and the largest amount every
// gap may still open by.
func (f *Font) layoutParts(parts []GlyphPart, repeats int, minOverlap float64) ([]GlyphID, []float64, float64, float64) {
	var (
		glyphs  []GlyphID
		offsets []float64
		prev    *GlyphPart
		offset  float64
	)
	maxDelta := math.Inf(1)
	for i := range parts {
		part := &parts[i]
		n := 1
		if part.IsExtender {
			n = repeats
		}
		for range n {
			if prev != nil {
				maxOverlap := math.Min(prev.EndConnectorLength, part.StartConnectorLength) * f.scale
				advance := prev.FullAdvance * f.scale
				minStep := advance - maxOverlap
				maxStep := advance - minOverlap
				maxDelta = math.Min(maxDelta, maxStep-minStep)
				offset += minStep
			}
			glyphs = append(glyphs, part.Glyph)
			offsets = append(offsets, offset)
			prev = part
		}
	}
	if prev == nil {
		return nil, nil, 0, 0
	}
	if math.IsInf(maxDelta, 1) || maxDelta < 0 {
		maxDelta = 0
	}
	return glyphs, offsets, offset + prev.FullAdvance*f.scale, maxDelta
}
