package mathfont

// Static glyph metrics of Latin Modern Math, in units of 1/1000 em.

type metric struct {
	adv, asc, desc, ital float64
}

const (
	lowerLatin = "abcdefghijklmnopqrstuvwxyz"
	upperLatin = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	lowerGreek = "αβγδεζηθικλμνξοπρστυφχψω"
	upperGreek = "ΑΒΓΔΕΖΗΘΙΚΛΜΝΞΟΠΡΣΤΥΦΧΨΩ"
)

var italicLowerAdvance = []float64{
	529, 429, 433, 520, 466, 490, 477, 576, 345, 412, 521, 298, 878,
	600, 485, 503, 446, 451, 469, 361, 572, 485, 716, 572, 490, 465,
}

var italicUpperAdvance = []float64{
	750, 759, 715, 828, 738, 643, 786, 831, 440, 555, 849, 681, 970,
	803, 763, 642, 791, 759, 613, 584, 683, 583, 944, 828, 581, 683,
}

var romanLowerAdvance = []float64{
	500, 556, 444, 556, 444, 306, 500, 556, 278, 306, 528, 278, 833,
	556, 500, 556, 528, 392, 394, 389, 556, 528, 722, 528, 528, 444,
}

var romanUpperAdvance = []float64{
	750, 708, 722, 764, 681, 653, 785, 750, 361, 514, 778, 625, 917,
	750, 778, 681, 778, 736, 556, 722, 750, 750, 1028, 750, 750, 611,
}

var greekLowerAdvance = []float64{
	640, 566, 518, 444, 466, 438, 497, 469, 354, 576, 583, 603,
	494, 438, 485, 570, 517, 571, 437, 540, 654, 626, 651, 622,
}

var greekUpperAdvance = []float64{
	750, 708, 625, 833, 681, 611, 750, 778, 361, 778, 694, 917,
	750, 667, 778, 750, 681, 722, 722, 778, 722, 750, 778, 722,
}

// italicCorrections of the math italic alphabet.
var italicCorrections = map[rune]float64{
	'f': 108, 'j': 57, 'q': 36, 'r': 28, 'v': 36, 'w': 27, 'y': 36,
	'A': 0, 'B': 51, 'C': 72, 'D': 28, 'E': 58, 'F': 139, 'G': 0, 'H': 81,
	'I': 78, 'J': 96, 'K': 72, 'L': 0, 'M': 109, 'N': 109, 'O': 28, 'P': 139,
	'R': 8, 'S': 58, 'T': 139, 'U': 109, 'V': 222, 'W': 139, 'X': 79, 'Y': 222, 'Z': 72,
}

func letterHeights(r rune) (asc, desc float64) {
	switch r {
	case 'b', 'd', 'f', 'h', 'k', 'l', 'β', 'δ', 'ζ', 'θ', 'λ', 'ξ':
		asc = 694
	case 't':
		asc = 615
	case 'i', 'j':
		asc = 661
	default:
		asc = 431
		if r >= 'A' && r <= 'Z' || r >= 'Α' && r <= 'Ω' {
			asc = 683
		}
	}
	switch r {
	case 'g', 'j', 'p', 'q', 'y', 'β', 'γ', 'ζ', 'η', 'μ', 'ξ', 'ρ', 'φ', 'χ', 'ψ':
		desc = 194
	case 'Q':
		desc = 194
	}
	return asc, desc
}

// symbolMetrics covers operators, relations, punctuation and fences at
// their base size.
var symbolMetrics = map[rune]metric{
	'0': {500, 644, 0, 0}, '1': {500, 644, 0, 0}, '2': {500, 644, 0, 0}, '3': {500, 644, 0, 0},
	'4': {500, 644, 0, 0}, '5': {500, 644, 0, 0}, '6': {500, 644, 0, 0}, '7': {500, 644, 0, 0},
	'8': {500, 644, 0, 0}, '9': {500, 644, 0, 0},

	'+': {778, 583, 83, 0}, '−': {778, 583, 83, 0}, '-': {333, 252, 0, 0}, '*': {500, 750, 0, 0},
	'∗': {500, 465, 0, 0}, '×': {778, 491, 0, 0}, '÷': {778, 502, 2, 0}, '±': {778, 666, 0, 0},
	'∓': {778, 500, 166, 0}, '·': {278, 310, 0, 0}, '⋅': {278, 310, 0, 0}, '∘': {500, 444, 0, 0},
	'∙': {500, 444, 0, 0}, '∪': {667, 598, 22, 0}, '∩': {667, 598, 22, 0}, '∖': {500, 750, 250, 0},
	'∧': {667, 598, 22, 0}, '∨': {667, 598, 22, 0}, '⊕': {778, 583, 83, 0}, '⊗': {778, 583, 83, 0},
	'⊖': {778, 583, 83, 0}, '⊙': {778, 583, 83, 0}, '†': {444, 705, 216, 0}, '‡': {444, 705, 205, 0},
	'⋆': {500, 486, 0, 0}, '⋄': {500, 500, 0, 0}, '△': {889, 716, 0, 0}, '▽': {889, 500, 215, 0},

	'=': {778, 367, -133, 0}, '<': {778, 540, 40, 0}, '>': {778, 540, 40, 0},
	'≤': {778, 636, 138, 0}, '≥': {778, 636, 138, 0}, '≠': {778, 716, 215, 0},
	'≈': {778, 483, 0, 0}, '≡': {778, 464, 0, 0}, '∼': {778, 367, 0, 0}, '≃': {778, 464, 0, 0},
	'≅': {778, 589, 0, 0}, '∝': {778, 442, 11, 0}, '∈': {667, 540, 40, 0}, '∉': {667, 716, 215, 0},
	'∋': {667, 540, 40, 0}, '⊂': {778, 540, 40, 0}, '⊃': {778, 540, 40, 0}, '⊆': {778, 636, 138, 0},
	'⊇': {778, 636, 138, 0}, '⊄': {778, 716, 215, 0}, '⊅': {778, 716, 215, 0}, '⊈': {778, 716, 215, 0},
	'⊉': {778, 716, 215, 0}, '≺': {778, 540, 40, 0}, '≻': {778, 540, 40, 0}, '⪯': {778, 636, 138, 0},
	'⪰': {778, 636, 138, 0}, '≪': {1000, 568, 67, 0}, '≫': {1000, 568, 67, 0}, '∣': {278, 750, 250, 0},
	'∥': {500, 750, 250, 0}, '⊥': {667, 668, 0, 0}, '⊢': {611, 694, 0, 0}, '⊣': {611, 694, 0, 0},
	'⊨': {611, 694, 0, 0}, '≍': {778, 484, 0, 0}, '≐': {778, 670, 0, 0}, '⋈': {900, 505, 5, 0},
	'≮': {778, 716, 215, 0}, '≯': {778, 716, 215, 0}, '≰': {778, 801, 303, 0}, '≱': {778, 801, 303, 0},
	'∌': {667, 716, 215, 0}, '≢': {778, 716, 215, 0}, '≁': {778, 716, 215, 0}, '≉': {778, 716, 215, 0},
	'≄': {778, 716, 215, 0}, '≇': {778, 716, 215, 0}, '⊀': {778, 716, 215, 0}, '⊁': {778, 716, 215, 0},
	'∤': {278, 750, 250, 0}, '∦': {500, 750, 250, 0},

	'→': {1000, 511, 11, 0}, '←': {1000, 511, 11, 0}, '↔': {1000, 511, 11, 0}, '⇒': {1000, 525, 24, 0},
	'⇐': {1000, 525, 24, 0}, '⇔': {1000, 525, 24, 0}, '↑': {500, 694, 194, 0}, '↓': {500, 694, 194, 0},
	'↕': {500, 772, 272, 0}, '⇑': {611, 694, 194, 0}, '⇓': {611, 694, 194, 0}, '⇕': {611, 772, 272, 0},
	'↦': {1000, 511, 11, 0}, '⟶': {1500, 511, 11, 0}, '⟵': {1500, 511, 11, 0}, '⟷': {1500, 511, 11, 0},
	'⟹': {1500, 525, 24, 0}, '⟸': {1500, 525, 24, 0}, '⟺': {1500, 525, 24, 0}, '⟼': {1500, 511, 11, 0},
	'↗': {1000, 694, 194, 0}, '↘': {1000, 694, 194, 0}, '↖': {1000, 694, 194, 0}, '↙': {1000, 694, 194, 0},
	'↪': {1000, 511, 11, 0}, '↩': {1000, 511, 11, 0}, '⇀': {1000, 511, -230, 0}, '↼': {1000, 511, -230, 0},

	',': {278, 106, 194, 0}, ';': {278, 431, 194, 0}, '.': {278, 106, 0, 0}, ':': {278, 431, 0, 0},
	'!': {278, 716, 0, 0}, '?': {472, 705, 0, 0}, '\'': {278, 694, -379, 0}, '′': {275, 559, -44, 0},
	'@': {778, 705, 11, 0}, '%': {833, 750, 56, 0}, '&': {778, 716, 22, 0}, '#': {833, 694, 194, 0},
	'$': {500, 750, 56, 0}, '"': {500, 694, -379, 0}, '…': {1172, 106, 0, 0}, '⋯': {1172, 310, -250, 0},
	'⋮': {278, 900, 30, 0}, '⋱': {1282, 820, -100, 0},

	'(': {389, 750, 250, 0}, ')': {389, 750, 250, 0}, '[': {278, 750, 250, 0}, ']': {278, 750, 250, 0},
	'{': {500, 750, 250, 0}, '}': {500, 750, 250, 0}, '|': {278, 750, 250, 0}, '‖': {500, 750, 250, 0},
	'⟨': {389, 750, 250, 0}, '⟩': {389, 750, 250, 0}, '⌊': {444, 750, 250, 0}, '⌋': {444, 750, 250, 0},
	'⌈': {444, 750, 250, 0}, '⌉': {444, 750, 250, 0}, '/': {500, 750, 250, 0}, '\\': {500, 750, 250, 0},
	'⟦': {430, 750, 250, 0}, '⟧': {430, 750, 250, 0}, '⎰': {600, 750, 250, 0}, '⎱': {600, 750, 250, 0},

	'∞': {1000, 442, 11, 0}, '∂': {556, 715, 22, 58}, '∇': {833, 683, 0, 0}, '∅': {500, 772, 78, 0},
	'∀': {556, 694, 22, 0}, '∃': {556, 694, 0, 0}, '∄': {556, 716, 215, 0}, '¬': {667, 356, -89, 0},
	'ℵ': {611, 694, 0, 0}, 'ℏ': {540, 695, 13, 0}, 'ℓ': {417, 705, 11, 0}, '℘': {636, 453, 216, 0},
	'ℜ': {722, 716, 22, 0}, 'ℑ': {722, 716, 22, 0}, '°': {400, 715, -450, 0}, '∠': {722, 694, 0, 0},
	'□': {778, 689, 0, 0}, '◊': {500, 716, 132, 0}, '♠': {778, 727, 130, 0},
	'♣': {778, 727, 130, 0}, '♡': {778, 716, 33, 0}, '♢': {778, 727, 163, 0}, '♭': {389, 750, 22, 0},
	'♮': {389, 734, 223, 0}, '♯': {389, 723, 223, 0}, '√': {833, 760, 240, 0}, '∎': {778, 689, 0, 0},
	'ı': {278, 431, 0, 0}, 'ȷ': {306, 431, 194, 0}, '⊤': {667, 668, 0, 0}, '∡': {722, 694, 0, 0},

	// Assembly pieces for stretchy delimiters and the radical sign.
	'⎛': {875, 1500, 0, 0}, '⎜': {875, 500, 0, 0}, '⎝': {875, 1500, 0, 0},
	'⎞': {875, 1500, 0, 0}, '⎟': {875, 500, 0, 0}, '⎠': {875, 1500, 0, 0},
	'⎡': {667, 1500, 0, 0}, '⎢': {667, 500, 0, 0}, '⎣': {667, 1500, 0, 0},
	'⎤': {667, 1500, 0, 0}, '⎥': {667, 500, 0, 0}, '⎦': {667, 1500, 0, 0},
	'⎧': {889, 900, 0, 0}, '⎨': {889, 1800, 0, 0}, '⎩': {889, 900, 0, 0}, '⎪': {889, 300, 0, 0},
	'⎫': {889, 900, 0, 0}, '⎬': {889, 1800, 0, 0}, '⎭': {889, 900, 0, 0},
	'⌠': {667, 1010, 0, 0}, '⎮': {667, 300, 0, 0}, '⌡': {667, 1010, 0, 0},
	'⎷': {1056, 1800, 0, 0}, '│': {278, 600, 0, 0}, '⎯': {500, 250, 0, 0},
	'⏞': {1000, 300, 0, 0}, '⏟': {1000, 300, 0, 0},
}

// largeOperators are set at text size; display style picks the first
// vertical variant.
var largeOperators = map[rune]metric{
	'∑': {1056, 750, 250, 0}, '∏': {944, 750, 250, 0}, '∐': {944, 750, 250, 0},
	'∫': {417, 805, 306, 278}, '∬': {750, 805, 306, 278}, '∭': {1083, 805, 306, 278},
	'∮': {472, 805, 306, 278}, '⋃': {833, 750, 250, 0}, '⋂': {833, 750, 250, 0},
	'⋁': {833, 750, 250, 0}, '⋀': {833, 750, 250, 0}, '⨁': {1111, 750, 250, 0},
	'⨂': {1111, 750, 250, 0}, '⨀': {1111, 750, 250, 0}, '⨄': {833, 750, 250, 0},
	'⨆': {833, 750, 250, 0},
}

// accentMetrics describe combining accents; they float above the x-height,
// so their descent is negative.
var accentMetrics = map[rune]metric{
	'\u0300': {500, 699, -510, 0}, '\u0301': {500, 699, -510, 0}, '\u0302': {500, 694, -522, 0},
	'\u0303': {500, 668, -558, 0}, '\u0304': {500, 589, -544, 0}, '\u0306': {500, 694, -515, 0},
	'\u0307': {278, 669, -560, 0}, '\u0308': {500, 669, -560, 0}, '\u030a': {500, 711, -510, 0},
	'\u030c': {500, 644, -500, 0}, '\u20d7': {500, 714, -500, 0},
}

// delimiterPieces lists the assembly pieces of each vertically stretchable
// character from the bottom up. Braces carry a middle piece.
var delimiterPieces = map[rune][]rune{
	'(': {'⎝', '⎜', '⎛'},
	')': {'⎠', '⎟', '⎞'},
	'[': {'⎣', '⎢', '⎡'},
	']': {'⎦', '⎥', '⎤'},
	'{': {'⎩', '⎪', '⎨', '⎪', '⎧'},
	'}': {'⎭', '⎪', '⎬', '⎪', '⎫'},
	'⌊': {'⎣', '⎢', '⎢'},
	'⌋': {'⎦', '⎥', '⎥'},
	'⌈': {'⎢', '⎢', '⎡'},
	'⌉': {'⎥', '⎥', '⎤'},
	'|': {'│', '│', '│'},
	'‖': {'‖', '‖', '‖'},
	'∣': {'│', '│', '│'},
	'↑': {'│', '│', '↑'},
	'↓': {'↓', '│', '│'},
	'↕': {'↓', '│', '↑'},
	'∫': {'⌡', '⎮', '⌠'},
	'√': {'⎷', '│', '│'},
}

// isExtenderPiece reports whether piece i of a delimiterPieces entry repeats.
func isExtenderPiece(pieces []rune, i int) bool {
	if len(pieces) == 5 {
		return i == 1 || i == 3
	}
	return i == 1
}

// variantScales are the height factors of the size variants of each
// stretchable character, after the base glyph.
var variantScales = []float64{1.2, 1.8, 2.4, 3.0}

// horizontalStretchy are the accents and arrows that have wider variants.
var horizontalStretchy = []rune{'\u0302', '\u0303', '\u030c', '\u20d7', '→', '←', '↔', '⏞', '⏟'}

var horizontalScales = []float64{1.5, 2.0, 3.0, 4.0}
