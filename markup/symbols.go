package markup

import (
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/ByLCY/mathtype/atom"
)

// EntryKind tells SymbolTable.With how to register an Entry.
type EntryKind int

const (
	// EntrySymbol binds a command to an atom prototype.
	EntrySymbol EntryKind = iota
	// EntryAlias makes a command resolve to another command.
	EntryAlias
	// EntryDelimiter makes a name usable after \left and \right.
	EntryDelimiter
	// EntryAccent binds a command to an accent character.
	EntryAccent
)

// Entry is one symbol table registration.
type Entry struct {
	Kind EntryKind
	Name string
	// Atom is the prototype for EntrySymbol; lookups return clones.
	Atom atom.Atom
	// Target is the aliased command for EntryAlias.
	Target string
	// Value is the delimiter or accent character.
	Value string
}

// SymbolTable maps command names to atoms, delimiters, accents and font
// styles. A table is immutable; With returns an extended copy.
type SymbolTable struct {
	symbols    map[string]atom.Atom
	aliases    map[string]string
	delimiters map[string]string
	accents    map[string]string
	fontStyles map[string]atom.FontStyle
	negations  map[string]string

	symbolNames    map[string]string
	delimiterNames map[string]string
	accentNames    map[string]string
	fontStyleNames map[atom.FontStyle]string
}

var defaultTable = sync.OnceValue(buildDefaultTable)

// DefaultSymbols returns the built-in table.
func DefaultSymbols() *SymbolTable { return defaultTable() }

func buildDefaultTable() *SymbolTable {
	t := &SymbolTable{
		symbols:    map[string]atom.Atom{},
		aliases:    maps.Clone(defaultAliases),
		delimiters: maps.Clone(defaultDelimiters),
		accents:    maps.Clone(defaultAccents),
		fontStyles: maps.Clone(defaultFontStyles),
		negations:  maps.Clone(defaultNegations),
	}
	add := func(typ atom.Type, pairs ...string) {
		for i := 0; i+1 < len(pairs); i += 2 {
			t.symbols[pairs[i]] = atom.NewSymbol(typ, pairs[i+1])
		}
	}
	add(atom.TypeVariable, greekLetters...)
	add(atom.TypeBinaryOperator, binaryOperators...)
	add(atom.TypeRelation, relations...)
	add(atom.TypeOpen, openers...)
	add(atom.TypeClose, closers...)
	add(atom.TypeOrdinary, ordinaries...)
	add(atom.TypePunctuation, "colon", ":", "cdotp", "·")
	for name, limits := range namedOperators {
		t.symbols[name] = atom.NewLargeOperator(operatorText(name), limits)
	}
	for name, op := range bigOperators {
		t.symbols[name] = atom.NewLargeOperator(op.glyph, op.limits)
	}
	for name, mu := range spaces {
		t.symbols[name] = atom.NewSpace(mu)
	}
	for name, level := range styleCommands {
		t.symbols[name] = atom.NewStyle(level)
	}
	t.index()
	return t
}

// index rebuilds the reverse maps. Ties between names for the same value go
// to the shorter name, then to the alphabetically first.
func (t *SymbolTable) index() {
	t.symbolNames = map[string]string{}
	for _, name := range slices.Sorted(maps.Keys(t.symbols)) {
		nucleus := t.symbols[name].Base().Nucleus
		if nucleus == "" {
			continue
		}
		pickName(t.symbolNames, nucleus, name)
	}
	t.delimiterNames = map[string]string{}
	for _, name := range slices.Sorted(maps.Keys(t.delimiters)) {
		pickName(t.delimiterNames, t.delimiters[name], name)
	}
	t.accentNames = map[string]string{}
	for _, name := range slices.Sorted(maps.Keys(t.accents)) {
		pickName(t.accentNames, t.accents[name], name)
	}
	t.fontStyleNames = maps.Clone(canonicalFontStyleNames)
}

func pickName(m map[string]string, key, name string) {
	cur, ok := m[key]
	if !ok || len(name) < len(cur) || len(name) == len(cur) && name < cur {
		m[key] = name
	}
}

// With returns a copy of t extended by entries. Later entries win over
// earlier ones and over built-in names.
func (t *SymbolTable) With(entries ...Entry) (*SymbolTable, error) {
	out := &SymbolTable{
		symbols:    maps.Clone(t.symbols),
		aliases:    maps.Clone(t.aliases),
		delimiters: maps.Clone(t.delimiters),
		accents:    maps.Clone(t.accents),
		fontStyles: maps.Clone(t.fontStyles),
		negations:  maps.Clone(t.negations),
	}
	for _, e := range entries {
		if e.Name == "" {
			return nil, fmt.Errorf("symbol entry without a name")
		}
		switch e.Kind {
		case EntrySymbol:
			if e.Atom == nil {
				return nil, fmt.Errorf("symbol %q has no atom", e.Name)
			}
			if e.Atom.Base().Type == atom.TypeBoundary {
				return nil, fmt.Errorf("symbol %q: boundary atoms are registered as delimiters", e.Name)
			}
			out.symbols[e.Name] = e.Atom.Clone()
			delete(out.aliases, e.Name)
		case EntryAlias:
			if _, ok := out.symbols[e.Target]; !ok {
				return nil, fmt.Errorf("alias %q points at unknown command %q", e.Name, e.Target)
			}
			out.aliases[e.Name] = e.Target
		case EntryDelimiter:
			out.delimiters[e.Name] = e.Value
		case EntryAccent:
			if e.Value == "" {
				return nil, fmt.Errorf("accent %q has no character", e.Name)
			}
			out.accents[e.Name] = e.Value
		default:
			return nil, fmt.Errorf("symbol %q: unknown entry kind %d", e.Name, e.Kind)
		}
	}
	out.index()
	return out, nil
}

// Resolve follows an alias to its command name.
func (t *SymbolTable) Resolve(name string) string {
	if target, ok := t.aliases[name]; ok {
		return target
	}
	return name
}

// Lookup returns a fresh atom for the command name, following aliases.
func (t *SymbolTable) Lookup(name string) (atom.Atom, bool) {
	proto, ok := t.symbols[t.Resolve(name)]
	if !ok {
		return nil, false
	}
	return proto.Clone(), true
}

// Delimiter returns the character used for a \left or \right delimiter.
func (t *SymbolTable) Delimiter(name string) (string, bool) {
	v, ok := t.delimiters[name]
	return v, ok
}

// Accent returns the accent character for the command name.
func (t *SymbolTable) Accent(name string) (string, bool) {
	v, ok := t.accents[name]
	return v, ok
}

// FontStyle returns the font style selected by a command such as mathbf.
func (t *SymbolTable) FontStyle(name string) (atom.FontStyle, bool) {
	v, ok := t.fontStyles[name]
	return v, ok
}

// Negation returns the negated relation for a command or character that may
// follow \not.
func (t *SymbolTable) Negation(name string) (string, bool) {
	v, ok := t.negations[name]
	return v, ok
}

// SymbolName returns the command that produces a's nucleus.
func (t *SymbolTable) SymbolName(a atom.Atom) (string, bool) {
	name, ok := t.symbolNames[a.Base().Nucleus]
	return name, ok
}

// DelimiterName returns the name a delimiter character is written with.
func (t *SymbolTable) DelimiterName(value string) (string, bool) {
	name, ok := t.delimiterNames[value]
	return name, ok
}

// AccentName returns the command for an accent character.
func (t *SymbolTable) AccentName(value string) (string, bool) {
	name, ok := t.accentNames[value]
	return name, ok
}

// FontStyleName returns the command selecting fs.
func (t *SymbolTable) FontStyleName(fs atom.FontStyle) string { return t.fontStyleNames[fs] }

// Commands lists every command name the table understands, sorted.
func (t *SymbolTable) Commands() []string {
	set := map[string]struct{}{}
	for _, m := range []map[string]string{t.aliases, t.accents} {
		for k := range m {
			set[k] = struct{}{}
		}
	}
	for k := range t.symbols {
		set[k] = struct{}{}
	}
	for k := range t.fontStyles {
		set[k] = struct{}{}
	}
	for _, k := range structuralCommands {
		set[k] = struct{}{}
	}
	return slices.Sorted(maps.Keys(set))
}

// Delimiters lists the delimiter names, sorted.
func (t *SymbolTable) Delimiters() []string { return slices.Sorted(maps.Keys(t.delimiters)) }

func operatorText(name string) string {
	switch name {
	case "limsup":
		return "lim sup"
	case "liminf":
		return "lim inf"
	}
	return name
}

// structuralCommands are handled by the parser itself rather than by a
// table lookup.
var structuralCommands = []string{
	"frac", "cfrac", "dfrac", "tfrac", "binom", "dbinom", "tbinom",
	"over", "atop", "choose", "brack", "brace",
	"sqrt", "left", "right", "overline", "underline", "substack",
	"begin", "end", "color", "textcolor", "colorbox", "pmod", "not",
	"limits", "nolimits", "operatorname", "mkern", "cr", "\\",
}

var greekLetters = []string{
	"alpha", "α", "beta", "β", "gamma", "γ", "delta", "δ", "varepsilon", "ε",
	"epsilon", "ϵ", "zeta", "ζ", "eta", "η", "theta", "θ", "vartheta", "ϑ",
	"iota", "ι", "kappa", "κ", "varkappa", "ϰ", "lambda", "λ", "mu", "μ",
	"nu", "ν", "xi", "ξ", "omicron", "ο", "pi", "π", "varpi", "ϖ", "rho", "ρ",
	"varrho", "ϱ", "sigma", "σ", "varsigma", "ς", "tau", "τ", "upsilon", "υ",
	"phi", "ϕ", "varphi", "φ", "chi", "χ", "psi", "ψ", "omega", "ω",
	"Gamma", "Γ", "Delta", "Δ", "Theta", "Θ", "Lambda", "Λ", "Xi", "Ξ", "Pi", "Π",
	"Sigma", "Σ", "Upsilon", "Υ", "Phi", "Φ", "Psi", "Ψ", "Omega", "Ω",
}

var binaryOperators = []string{
	"times", "×", "div", "÷", "pm", "±", "mp", "∓", "dagger", "†", "ddagger", "‡",
	"setminus", "∖", "ast", "∗", "circ", "∘", "bullet", "∙", "wedge", "∧", "vee", "∨",
	"cap", "∩", "cup", "∪", "wr", "≀", "uplus", "⊎", "sqcap", "⊓", "sqcup", "⊔",
	"oplus", "⊕", "ominus", "⊖", "otimes", "⊗", "oslash", "⊘", "odot", "⊙",
	"star", "⋆", "cdot", "⋅", "amalg", "⨿", "diamond", "⋄",
}

var relations = []string{
	"leq", "≤", "geq", "≥", "neq", "≠", "in", "∈", "notin", "∉", "ni", "∋",
	"propto", "∝", "mid", "∣", "parallel", "∥", "sim", "∼", "simeq", "≃",
	"cong", "≅", "approx", "≈", "asymp", "≍", "doteq", "≐", "equiv", "≡",
	"gg", "≫", "ll", "≪", "prec", "≺", "succ", "≻", "preceq", "⪯", "succeq", "⪰",
	"subset", "⊂", "supset", "⊃", "subseteq", "⊆", "supseteq", "⊇",
	"sqsubset", "⊏", "sqsupset", "⊐", "sqsubseteq", "⊑", "sqsupseteq", "⊒",
	"models", "⊨", "perp", "⟂", "vdash", "⊢", "dashv", "⊣", "bowtie", "⋈",
	"leftarrow", "←", "uparrow", "↑", "rightarrow", "→", "downarrow", "↓",
	"leftrightarrow", "↔", "updownarrow", "↕", "nearrow", "↗", "searrow", "↘",
	"swarrow", "↙", "nwarrow", "↖", "mapsto", "↦", "Leftarrow", "⇐", "Uparrow", "⇑",
	"Rightarrow", "⇒", "Downarrow", "⇓", "Leftrightarrow", "⇔", "Updownarrow", "⇕",
	"longleftarrow", "⟵", "longrightarrow", "⟶", "longleftrightarrow", "⟷",
	"Longleftarrow", "⟸", "Longrightarrow", "⟹", "Longleftrightarrow", "⟺",
	"longmapsto", "⟼", "hookrightarrow", "↪", "hookleftarrow", "↩",
	"rightharpoonup", "⇀", "leftharpoonup", "↼",
}

var openers = []string{
	"lceil", "⌈", "lfloor", "⌊", "langle", "⟨", "lgroup", "⟮", "{", "{",
}

var closers = []string{
	"rceil", "⌉", "rfloor", "⌋", "rangle", "⟩", "rgroup", "⟯", "}", "}",
}

var ordinaries = []string{
	"infty", "∞", "partial", "∂", "nabla", "∇", "emptyset", "∅", "forall", "∀",
	"exists", "∃", "nexists", "∄", "neg", "¬", "aleph", "ℵ", "hbar", "ℏ", "ell", "ℓ",
	"wp", "℘", "Re", "ℜ", "Im", "ℑ", "prime", "′", "angle", "∠", "measuredangle", "∡",
	"triangle", "△", "square", "□", "top", "⊤", "bot", "⊥", "spadesuit", "♠",
	"clubsuit", "♣", "heartsuit", "♡", "diamondsuit", "♢", "flat", "♭", "natural", "♮",
	"sharp", "♯", "degree", "°", "imath", "ı", "jmath", "ȷ", "lozenge", "◊",
	"ldots", "…", "dots", "…", "cdots", "⋯", "ddots", "⋱", "vdots", "⋮",
	"vert", "|", "Vert", "‖", "backslash", "\\",
	"#", "#", "$", "$", "%", "%", "&", "&", "_", "_", " ", " ",
}

var namedOperators = map[string]bool{
	"log": false, "lg": false, "ln": false, "sin": false, "arcsin": false, "sinh": false,
	"cos": false, "arccos": false, "cosh": false, "tan": false, "arctan": false, "tanh": false,
	"cot": false, "coth": false, "sec": false, "csc": false, "arg": false, "ker": false,
	"dim": false, "hom": false, "exp": false, "deg": false,
	"lim": true, "limsup": true, "liminf": true, "max": true, "min": true, "sup": true,
	"inf": true, "det": true, "Pr": true, "gcd": true,
}

var bigOperators = map[string]struct {
	glyph  string
	limits bool
}{
	"sum": {"∑", true}, "prod": {"∏", true}, "coprod": {"∐", true},
	"int": {"∫", false}, "iint": {"∬", false}, "iiint": {"∭", false}, "oint": {"∮", false},
	"bigwedge": {"⋀", true}, "bigvee": {"⋁", true}, "bigcap": {"⋂", true}, "bigcup": {"⋃", true},
	"bigodot": {"⨀", true}, "bigoplus": {"⨁", true}, "bigotimes": {"⨂", true},
	"biguplus": {"⨄", true}, "bigsqcup": {"⨆", true},
}

// spaces are in mu.
var spaces = map[string]float64{
	",": 3, ">": 4, ":": 4, ";": 5, "!": -3, "quad": 18, "qquad": 36,
}

var styleCommands = map[string]atom.LineStyle{
	"displaystyle":      atom.LineStyleDisplay,
	"textstyle":         atom.LineStyleText,
	"scriptstyle":       atom.LineStyleScript,
	"scriptscriptstyle": atom.LineStyleScriptScript,
}

var defaultAliases = map[string]string{
	"lnot": "neg", "land": "wedge", "lor": "vee", "ne": "neq", "le": "leq", "ge": "geq",
	"lbrace": "{", "rbrace": "}", "gets": "leftarrow", "to": "rightarrow",
	"iff": "Longleftrightarrow", "implies": "Longrightarrow", "impliedby": "Longleftarrow",
	"owns": "ni", "|": "Vert", "varnothing": "emptyset",
	"dotsc": "ldots", "dotsb": "cdots", "bigcirc": "circ",
}

var defaultDelimiters = map[string]string{
	".": "", "(": "(", ")": ")", "[": "[", "]": "]", "<": "⟨", ">": "⟩",
	"/": "/", "\\": "\\", "|": "|", "lgroup": "⟮", "rgroup": "⟯", "||": "‖",
	"Vert": "‖", "vert": "|", "uparrow": "↑", "downarrow": "↓", "updownarrow": "↕",
	"Uparrow": "⇑", "Downarrow": "⇓", "Updownarrow": "⇕", "backslash": "\\",
	"rangle": "⟩", "langle": "⟨", "rbrace": "}", "}": "}", "{": "{", "lbrace": "{",
	"lceil": "⌈", "rceil": "⌉", "lfloor": "⌊", "rfloor": "⌋",
	"lmoustache": "⎰", "rmoustache": "⎱",
}

var defaultAccents = map[string]string{
	"grave":     "\u0300",
	"acute":     "\u0301",
	"hat":       "\u0302",
	"tilde":     "\u0303",
	"bar":       "\u0304",
	"breve":     "\u0306",
	"dot":       "\u0307",
	"ddot":      "\u0308",
	"mathring":  "\u030a",
	"check":     "\u030c",
	"vec":       "\u20d7",
	"widehat":   "\u0302",
	"widetilde": "\u0303",
}

var defaultFontStyles = map[string]atom.FontStyle{
	"mathnormal": atom.FontStyleDefault,
	"mathrm":     atom.FontStyleRoman,
	"rm":         atom.FontStyleRoman,
	"textrm":     atom.FontStyleRoman,
	"text":       atom.FontStyleRoman,
	"mathbf":     atom.FontStyleBold,
	"bf":         atom.FontStyleBold,
	"textbf":     atom.FontStyleBold,
	"mathcal":    atom.FontStyleCaligraphic,
	"cal":        atom.FontStyleCaligraphic,
	"mathtt":     atom.FontStyleTypewriter,
	"tt":         atom.FontStyleTypewriter,
	"texttt":     atom.FontStyleTypewriter,
	"mathit":     atom.FontStyleItalic,
	"textit":     atom.FontStyleItalic,
	"mit":        atom.FontStyleItalic,
	"it":         atom.FontStyleItalic,
	"mathsf":     atom.FontStyleSansSerif,
	"textsf":     atom.FontStyleSansSerif,
	"sf":         atom.FontStyleSansSerif,
	"mathfrak":   atom.FontStyleFraktur,
	"frak":       atom.FontStyleFraktur,
	"mathbb":     atom.FontStyleBlackboard,
	"mathbfit":   atom.FontStyleBoldItalic,
	"bm":         atom.FontStyleBoldItalic,
	"boldsymbol": atom.FontStyleBoldItalic,
}

var canonicalFontStyleNames = map[atom.FontStyle]string{
	atom.FontStyleDefault:     "mathnormal",
	atom.FontStyleRoman:       "mathrm",
	atom.FontStyleBold:        "mathbf",
	atom.FontStyleCaligraphic: "mathcal",
	atom.FontStyleTypewriter:  "mathtt",
	atom.FontStyleItalic:      "mathit",
	atom.FontStyleSansSerif:   "mathsf",
	atom.FontStyleFraktur:     "mathfrak",
	atom.FontStyleBlackboard:  "mathbb",
	atom.FontStyleBoldItalic:  "bm",
}

// defaultNegations lists what \not can combine with. Keys are resolved
// command names or single characters.
var defaultNegations = map[string]string{
	"=": "≠", "<": "≮", ">": "≯",
	"in": "∉", "ni": "∌", "equiv": "≢", "sim": "≁", "approx": "≉", "simeq": "≄",
	"cong": "≇", "subset": "⊄", "supset": "⊅", "subseteq": "⊈", "supseteq": "⊉",
	"mid": "∤", "parallel": "∦", "prec": "⊀", "succ": "⊁", "exists": "∄",
}
