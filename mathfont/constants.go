package mathfont

// Constants mirrors the OpenType MATH constants table. Percentages are
// plain numbers; every other field is a length.
type Constants struct {
	ScriptPercentScaleDown       float64 `json:"scriptPercentScaleDown"`
	ScriptScriptPercentScaleDown float64 `json:"scriptScriptPercentScaleDown"`

	DelimitedSubFormulaMinHeight float64 `json:"delimitedSubFormulaMinHeight"`
	DisplayOperatorMinHeight     float64 `json:"displayOperatorMinHeight"`
	MathLeading                  float64 `json:"mathLeading"`
	AxisHeight                   float64 `json:"axisHeight"`
	AccentBaseHeight             float64 `json:"accentBaseHeight"`
	FlattenedAccentBaseHeight    float64 `json:"flattenedAccentBaseHeight"`
	MinConnectorOverlap          float64 `json:"minConnectorOverlap"`

	SubscriptShiftDown       float64 `json:"subscriptShiftDown"`
	SubscriptTopMax          float64 `json:"subscriptTopMax"`
	SubscriptBaselineDropMin float64 `json:"subscriptBaselineDropMin"`

	SuperscriptShiftUp                float64 `json:"superscriptShiftUp"`
	SuperscriptShiftUpCramped         float64 `json:"superscriptShiftUpCramped"`
	SuperscriptBottomMin              float64 `json:"superscriptBottomMin"`
	SuperscriptBaselineDropMax        float64 `json:"superscriptBaselineDropMax"`
	SubSuperscriptGapMin              float64 `json:"subSuperscriptGapMin"`
	SuperscriptBottomMaxWithSubscript float64 `json:"superscriptBottomMaxWithSubscript"`
	SpaceAfterScript                  float64 `json:"spaceAfterScript"`

	UpperLimitGapMin          float64 `json:"upperLimitGapMin"`
	UpperLimitBaselineRiseMin float64 `json:"upperLimitBaselineRiseMin"`
	LowerLimitGapMin          float64 `json:"lowerLimitGapMin"`
	LowerLimitBaselineDropMin float64 `json:"lowerLimitBaselineDropMin"`

	StackTopShiftUp                  float64 `json:"stackTopShiftUp"`
	StackTopDisplayStyleShiftUp      float64 `json:"stackTopDisplayStyleShiftUp"`
	StackBottomShiftDown             float64 `json:"stackBottomShiftDown"`
	StackBottomDisplayStyleShiftDown float64 `json:"stackBottomDisplayStyleShiftDown"`
	StackGapMin                      float64 `json:"stackGapMin"`
	StackDisplayStyleGapMin          float64 `json:"stackDisplayStyleGapMin"`

	FractionNumeratorShiftUp                 float64 `json:"fractionNumeratorShiftUp"`
	FractionNumeratorDisplayStyleShiftUp     float64 `json:"fractionNumeratorDisplayStyleShiftUp"`
	FractionDenominatorShiftDown             float64 `json:"fractionDenominatorShiftDown"`
	FractionDenominatorDisplayStyleShiftDown float64 `json:"fractionDenominatorDisplayStyleShiftDown"`
	FractionNumeratorGapMin                  float64 `json:"fractionNumeratorGapMin"`
	FractionNumDisplayStyleGapMin            float64 `json:"fractionNumDisplayStyleGapMin"`
	FractionRuleThickness                    float64 `json:"fractionRuleThickness"`
	FractionDenominatorGapMin                float64 `json:"fractionDenominatorGapMin"`
	FractionDenomDisplayStyleGapMin          float64 `json:"fractionDenomDisplayStyleGapMin"`

	OverbarVerticalGap     float64 `json:"overbarVerticalGap"`
	OverbarRuleThickness   float64 `json:"overbarRuleThickness"`
	OverbarExtraAscender   float64 `json:"overbarExtraAscender"`
	UnderbarVerticalGap    float64 `json:"underbarVerticalGap"`
	UnderbarRuleThickness  float64 `json:"underbarRuleThickness"`
	UnderbarExtraDescender float64 `json:"underbarExtraDescender"`

	RadicalVerticalGap              float64 `json:"radicalVerticalGap"`
	RadicalDisplayStyleVerticalGap  float64 `json:"radicalDisplayStyleVerticalGap"`
	RadicalRuleThickness            float64 `json:"radicalRuleThickness"`
	RadicalExtraAscender            float64 `json:"radicalExtraAscender"`
	RadicalKernBeforeDegree         float64 `json:"radicalKernBeforeDegree"`
	RadicalKernAfterDegree          float64 `json:"radicalKernAfterDegree"`
	RadicalDegreeBottomRaisePercent float64 `json:"radicalDegreeBottomRaisePercent"`

	// Not part of the MATH table: the fixed height of the delimiters
	// around \binom-style fractions.
	FractionDelimiterSize             float64 `json:"fractionDelimiterSize"`
	FractionDelimiterDisplayStyleSize float64 `json:"fractionDelimiterDisplayStyleSize"`
}

// scaled returns a copy with every length multiplied by s.
func (c Constants) scaled(s float64) Constants {
	out := c
	for _, p := range []*float64{
		&out.DelimitedSubFormulaMinHeight, &out.DisplayOperatorMinHeight, &out.MathLeading,
		&out.AxisHeight, &out.AccentBaseHeight, &out.FlattenedAccentBaseHeight, &out.MinConnectorOverlap,
		&out.SubscriptShiftDown, &out.SubscriptTopMax, &out.SubscriptBaselineDropMin,
		&out.SuperscriptShiftUp, &out.SuperscriptShiftUpCramped, &out.SuperscriptBottomMin,
		&out.SuperscriptBaselineDropMax, &out.SubSuperscriptGapMin, &out.SuperscriptBottomMaxWithSubscript,
		&out.SpaceAfterScript,
		&out.UpperLimitGapMin, &out.UpperLimitBaselineRiseMin, &out.LowerLimitGapMin, &out.LowerLimitBaselineDropMin,
		&out.StackTopShiftUp, &out.StackTopDisplayStyleShiftUp, &out.StackBottomShiftDown,
		&out.StackBottomDisplayStyleShiftDown, &out.StackGapMin, &out.StackDisplayStyleGapMin,
		&out.FractionNumeratorShiftUp, &out.FractionNumeratorDisplayStyleShiftUp,
		&out.FractionDenominatorShiftDown, &out.FractionDenominatorDisplayStyleShiftDown,
		&out.FractionNumeratorGapMin, &out.FractionNumDisplayStyleGapMin, &out.FractionRuleThickness,
		&out.FractionDenominatorGapMin, &out.FractionDenomDisplayStyleGapMin,
		&out.OverbarVerticalGap, &out.OverbarRuleThickness, &out.OverbarExtraAscender,
		&out.UnderbarVerticalGap, &out.UnderbarRuleThickness, &out.UnderbarExtraDescender,
		&out.RadicalVerticalGap, &out.RadicalDisplayStyleVerticalGap, &out.RadicalRuleThickness,
		&out.RadicalExtraAscender, &out.RadicalKernBeforeDegree, &out.RadicalKernAfterDegree,
		&out.FractionDelimiterSize, &out.FractionDelimiterDisplayStyleSize,
	} {
		*p *= s
	}
	return out
}

// latinModernConstants are the MATH constants of Latin Modern Math, at 1000
// units per em.
var latinModernConstants = Constants{
	ScriptPercentScaleDown:       70,
	ScriptScriptPercentScaleDown: 50,

	DelimitedSubFormulaMinHeight: 1300,
	DisplayOperatorMinHeight:     1300,
	MathLeading:                  154,
	AxisHeight:                   250,
	AccentBaseHeight:             450,
	FlattenedAccentBaseHeight:    664,
	MinConnectorOverlap:          20,

	SubscriptShiftDown:       247,
	SubscriptTopMax:          344,
	SubscriptBaselineDropMin: 200,

	SuperscriptShiftUp:                363,
	SuperscriptShiftUpCramped:         289,
	SuperscriptBottomMin:              108,
	SuperscriptBaselineDropMax:        250,
	SubSuperscriptGapMin:              160,
	SuperscriptBottomMaxWithSubscript: 344,
	SpaceAfterScript:                  56,

	UpperLimitGapMin:          200,
	UpperLimitBaselineRiseMin: 111,
	LowerLimitGapMin:          167,
	LowerLimitBaselineDropMin: 600,

	StackTopShiftUp:                  444,
	StackTopDisplayStyleShiftUp:      677,
	StackBottomShiftDown:             345,
	StackBottomDisplayStyleShiftDown: 686,
	StackGapMin:                      120,
	StackDisplayStyleGapMin:          280,

	FractionNumeratorShiftUp:                 394,
	FractionNumeratorDisplayStyleShiftUp:     677,
	FractionDenominatorShiftDown:             345,
	FractionDenominatorDisplayStyleShiftDown: 686,
	FractionNumeratorGapMin:                  40,
	FractionNumDisplayStyleGapMin:            120,
	FractionRuleThickness:                    40,
	FractionDenominatorGapMin:                40,
	FractionDenomDisplayStyleGapMin:          120,

	OverbarVerticalGap:     120,
	OverbarRuleThickness:   40,
	OverbarExtraAscender:   40,
	UnderbarVerticalGap:    120,
	UnderbarRuleThickness:  40,
	UnderbarExtraDescender: 40,

	RadicalVerticalGap:              50,
	RadicalDisplayStyleVerticalGap:  148,
	RadicalRuleThickness:            40,
	RadicalExtraAscender:            40,
	RadicalKernBeforeDegree:         278,
	RadicalKernAfterDegree:          -556,
	RadicalDegreeBottomRaisePercent: 60,

	FractionDelimiterSize:             1010,
	FractionDelimiterDisplayStyleSize: 2390,
}
