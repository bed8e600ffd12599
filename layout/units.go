package layout

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// This file defines the fixed-point length type and its unit helpers.

// Scaled is a length in scaled points: 65536 units per printer's point.
type Scaled int32

// Unit represents the original unit of a length value as specified in the description file.
type Unit int

const (
	UnitNone Unit = iota // unit-less numbers like factors
	UnitSP               // scaled points
	UnitPT               // printer's points
	UnitBP               // big (PostScript) points
	UnitMM               // millimeters
	UnitCM               // centimeters
	UnitIN               // inches
	UnitMU               // math units, 18mu = 1 quad
)

// Conversion constants.
const (
	Unity  Scaled = 1 << 16 // 1pt
	PtToMm        = 25.4 / 72.27
	MmToPt        = 1.0 / PtToMm
)

// unitRatio gives num/den such that 1 unit = num/den pt.
var unitRatio = map[Unit][2]float64{
	UnitPT: {1, 1},
	UnitBP: {7227, 7200},
	UnitMM: {7227, 2540},
	UnitCM: {7227, 254},
	UnitIN: {7227, 100},
	UnitMU: {1, 1}, // mu values are stored in the same fixed-point scale
}

// UnitToString returns a short string for a Unit value.
func UnitToString(u Unit) string {
	switch u {
	case UnitSP:
		return "sp"
	case UnitPT:
		return "pt"
	case UnitBP:
		return "bp"
	case UnitMM:
		return "mm"
	case UnitCM:
		return "cm"
	case UnitIN:
		return "in"
	case UnitMU:
		return "mu"
	default:
		return ""
	}
}

// Pt converts a float number of points into Scaled, rounding to the nearest unit.
func Pt(v float64) Scaled { return Scaled(math.Round(v * float64(Unity))) }

// Points returns s as a float number of points.
func (s Scaled) Points() float64 { return float64(s) / float64(Unity) }

// ToMM returns s in millimeters; renderers work in mm.
func (s Scaled) ToMM() float64 { return s.Points() * PtToMm }

// String prints s the way TeX shows dimensions, e.g. "1.5pt".
func (s Scaled) String() string {
	return strconv.FormatFloat(s.Points(), 'f', -1, 64) + "pt"
}

// Half divides by two rounding halves away from zero for odd values, as TeX's half().
func Half(s Scaled) Scaled {
	if s&1 != 0 {
		return (s + 1) / 2
	}
	return s / 2
}

// MulDiv computes s*n/d in 64-bit arithmetic, truncating toward zero.
// A zero divisor yields zero.
func MulDiv(s, n, d Scaled) Scaled {
	if d == 0 {
		return 0
	}
	return Scaled(int64(s) * int64(n) / int64(d))
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

// Scaled converts the length to scaled points. Unit-less lengths are read as points.
func (l Length) Scaled() Scaled {
	switch l.Unit {
	case UnitSP:
		return Scaled(math.Round(l.Value))
	case UnitNone:
		return Pt(l.Value)
	}
	r, ok := unitRatio[l.Unit]
	if !ok {
		return Pt(l.Value)
	}
	return Pt(l.Value * r[0] / r[1])
}

// ParseRawLength parses a length string like "1.5pt" or "-3mu" preserving its unit.
func ParseRawLength(value string) (Length, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Length{}, fmt.Errorf("empty length")
	}
	unit := UnitNone
	num := v
	for _, suf := range []struct {
		s string
		u Unit
	}{{"sp", UnitSP}, {"pt", UnitPT}, {"bp", UnitBP}, {"mm", UnitMM}, {"cm", UnitCM}, {"in", UnitIN}, {"mu", UnitMU}} {
		if strings.HasSuffix(v, suf.s) {
			unit = suf.u
			num = strings.TrimSpace(strings.TrimSuffix(v, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{}, fmt.Errorf("invalid length %q: %w", value, err)
	}
	return Length{Value: f, Unit: unit}, nil
}

// ParseScaled is ParseRawLength followed by Scaled.
func ParseScaled(value string) (Scaled, error) {
	l, err := ParseRawLength(value)
	if err != nil {
		return 0, err
	}
	return l.Scaled(), nil
}
