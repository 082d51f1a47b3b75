package layout

import (
	"fmt"
	"strconv"
	"strings"
)

// This file defines unit-safe types and helpers for lengths given on the
// command line, in the config file or in service requests.

// Unit represents the original unit of a length value.
type Unit int

const (
	UnitNone Unit = iota // bare numbers, taken as points
	UnitMM               // millimeters
	UnitCM               // centimeters
	UnitIN               // inches
	UnitPT               // points
	UnitEM               // multiples of the font size
	UnitMU               // math units, 1/18 em
)

// Conversion constants between pt and mm.
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
)

// UnitToString returns a short string for a Unit value.
func UnitToString(u Unit) string {
	switch u {
	case UnitMM:
		return "mm"
	case UnitCM:
		return "cm"
	case UnitIN:
		return "in"
	case UnitPT:
		return "pt"
	case UnitEM:
		return "em"
	case UnitMU:
		return "mu"
	default:
		return ""
	}
}

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

func (l Length) IsZero() bool { return l.Value == 0 }

func (l Length) String() string {
	return strconv.FormatFloat(l.Value, 'f', -1, 64) + UnitToString(l.Unit)
}

// To converts this length to target unit. Font-relative units (em, mu) are
// resolved against fontSize, in points.
func (l Length) To(target Unit, fontSize float64) float64 {
	var pt float64
	switch l.Unit {
	case UnitMM:
		pt = l.Value * MmToPt
	case UnitCM:
		pt = l.Value * 10 * MmToPt
	case UnitIN:
		pt = l.Value * 72
	case UnitEM:
		pt = l.Value * fontSize
	case UnitMU:
		pt = l.Value * fontSize / 18
	default:
		pt = l.Value
	}
	switch target {
	case UnitMM:
		return pt * PtToMm
	case UnitCM:
		return pt * PtToMm / 10
	case UnitIN:
		return pt / 72
	case UnitEM:
		if fontSize == 0 {
			return 0
		}
		return pt / fontSize
	case UnitMU:
		if fontSize == 0 {
			return 0
		}
		return pt * 18 / fontSize
	default:
		return pt
	}
}

func (l Length) ToMM(fontSize float64) float64 { return l.To(UnitMM, fontSize) }
func (l Length) ToPT(fontSize float64) float64 { return l.To(UnitPT, fontSize) }

// ParseLength parses a length such as "80mm", "12pt", "2.5em" or "18mu".
// A bare number is taken as points.
func ParseLength(value string) (Length, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Length{}, nil
	}
	unit := UnitNone
	num := v
	for _, suf := range []struct {
		s string
		u Unit
	}{{"mm", UnitMM}, {"cm", UnitCM}, {"in", UnitIN}, {"pt", UnitPT}, {"em", UnitEM}, {"mu", UnitMU}} {
		if strings.HasSuffix(v, suf.s) {
			unit = suf.u
			num = strings.TrimSpace(strings.TrimSuffix(v, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{}, fmt.Errorf("长度 %q 无法解析: %w", value, err)
	}
	if f < 0 {
		return Length{}, fmt.Errorf("长度 %q 不能为负数", value)
	}
	return Length{Value: f, Unit: unit}, nil
}
