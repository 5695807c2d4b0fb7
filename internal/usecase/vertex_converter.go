package usecase

import (
	"math"
	"strconv"
	"strings"

	"github.com/lensfinder/backend/internal/domain"
)

const (
	quarterDiopter = 0.25

	// singularityEpsilon bounds |1 - P*d| below which the transposition is undefined
	singularityEpsilon = 1e-12

	minAxis = 0
	maxAxis = 180
)

// Convert transposes a spectacle sphere/cylinder to the corneal plane.
//
// Sphere and the sphere+cylinder meridian are each moved by the effective
// power formula F' = F / (1 - F*d); the contact cylinder is the difference
// of the two. A vertex distance of 0 or NaN means "not supplied" and uses
// the 12 mm default.
func Convert(sphere, cylinder, vertexDistanceMM float64) (domain.ConversionResult, error) {
	if !isFinite(sphere) {
		return domain.ConversionResult{}, domain.NewInvalidInput("sphere", sphere, "must be a finite number")
	}
	if !isFinite(cylinder) {
		return domain.ConversionResult{}, domain.NewInvalidInput("cylinder", cylinder, "must be a finite number")
	}

	vd, err := ResolveVertexDistance(vertexDistanceMM)
	if err != nil {
		return domain.ConversionResult{}, err
	}
	d := vd / 1000

	contactSphere, ok := effectivePower(sphere, d)
	if !ok {
		return domain.ConversionResult{}, domain.NewSingularity("sphere", sphere)
	}
	contactCylPlusSph, ok := effectivePower(sphere+cylinder, d)
	if !ok {
		return domain.ConversionResult{}, domain.NewSingularity("cylinder", cylinder)
	}
	contactCylinder := contactCylPlusSph - contactSphere

	return domain.ConversionResult{
		Exact: domain.LensPower{
			Spherical: contactSphere,
			Cylinder:  contactCylinder,
		},
		Rounded: domain.LensPower{
			Spherical: RoundToQuarter(contactSphere),
			Cylinder:  RoundToQuarter(contactCylinder),
		},
	}, nil
}

// ResolveVertexDistance applies the default for an unset distance and
// rejects distances that are physically meaningless
func ResolveVertexDistance(mm float64) (float64, error) {
	if mm == 0 || math.IsNaN(mm) {
		return domain.DefaultVertexDistanceMM, nil
	}
	if mm < 0 || math.IsInf(mm, 0) {
		return 0, domain.NewInvalidInput("vertexDistance", mm, "must be a positive number of millimeters")
	}
	return mm, nil
}

// effectivePower returns power/(1 - power*d), or false when the denominator vanishes
func effectivePower(power, d float64) (float64, bool) {
	denom := 1 - power*d
	if math.Abs(denom) < singularityEpsilon {
		return 0, false
	}
	return power / denom, true
}

// RoundToQuarter rounds to the nearest 0.25 D. Exact halves go toward
// positive infinity, so -4.875 becomes -4.75 and 4.875 becomes 5.00.
func RoundToQuarter(value float64) float64 {
	steps := math.Floor(value/quarterDiopter + 0.5)
	rounded := steps * quarterDiopter
	if rounded == 0 {
		return 0 // no negative zero
	}
	return rounded
}

// FormatPower renders a power with an explicit sign and two decimals,
// e.g. "+2.00", "-0.75", "+10.50". Non-finite values render as "".
func FormatPower(power float64) string {
	if !isFinite(power) {
		return ""
	}
	s := strconv.FormatFloat(power, 'f', 2, 64)
	if s == "-0.00" {
		s = "0.00"
	}
	if !strings.HasPrefix(s, "-") {
		s = "+" + s
	}
	return s
}

// FormatPowerString formats user-entered text. Empty or non-numeric input
// renders as "".
func FormatPowerString(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return ""
	}
	return FormatPower(v)
}

// ClampAxis forces a cylinder axis into [0, 180]
func ClampAxis(axis int) int {
	if axis < minAxis {
		return minAxis
	}
	if axis > maxAxis {
		return maxAxis
	}
	return axis
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
