package usecase

import (
	"errors"
	"math"
	"testing"

	"github.com/lensfinder/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvert(t *testing.T) {
	t.Run("myopic astigmatic prescription at 12mm", func(t *testing.T) {
		result, err := Convert(-5, -1, 12)
		require.NoError(t, err)

		// -5/1.06 and -6/1.072 + 5/1.06
		assert.InDelta(t, -4.716981, result.Exact.Spherical, 1e-6)
		assert.InDelta(t, -0.880034, result.Exact.Cylinder, 1e-6)
		assert.Equal(t, domain.LensPower{Spherical: -4.75, Cylinder: -1.00}, result.Rounded)
	})

	t.Run("plano stays plano", func(t *testing.T) {
		result, err := Convert(0, 0, 12)
		require.NoError(t, err)

		assert.Equal(t, domain.LensPower{}, result.Exact)
		assert.Equal(t, domain.LensPower{}, result.Rounded)
		assert.False(t, math.Signbit(result.Rounded.Spherical))
		assert.False(t, math.Signbit(result.Rounded.Cylinder))
	})

	t.Run("no cylinder gives no contact cylinder", func(t *testing.T) {
		for _, sphere := range []float64{-8, -3, 0.5, 4} {
			result, err := Convert(sphere, 0, 12)
			require.NoError(t, err)
			assert.Equal(t, 0.0, result.Exact.Cylinder, "sphere %v", sphere)
			assert.Equal(t, 0.0, result.Rounded.Cylinder, "sphere %v", sphere)
		}
	})

	t.Run("hyperopic prescription gains power", func(t *testing.T) {
		result, err := Convert(4, 0, 12)
		require.NoError(t, err)

		assert.InDelta(t, 4.201681, result.Exact.Spherical, 1e-6)
		assert.Equal(t, 4.25, result.Rounded.Spherical)
	})

	t.Run("unset vertex distance uses 12mm", func(t *testing.T) {
		want, err := Convert(-6.5, -1.25, 12)
		require.NoError(t, err)

		for _, vd := range []float64{0, math.NaN()} {
			got, err := Convert(-6.5, -1.25, vd)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		}
	})

	t.Run("shorter vertex distance changes less", func(t *testing.T) {
		near, err := Convert(-8, 0, 10)
		require.NoError(t, err)
		far, err := Convert(-8, 0, 14)
		require.NoError(t, err)

		assert.Greater(t, math.Abs(near.Exact.Spherical), math.Abs(far.Exact.Spherical))
	})
}

func TestConvert_Errors(t *testing.T) {
	tests := []struct {
		name      string
		sphere    float64
		cylinder  float64
		vd        float64
		wantKind  error
		wantField string
	}{
		{"NaN sphere", math.NaN(), 0, 12, domain.ErrInvalidInput, "sphere"},
		{"infinite cylinder", -2, math.Inf(-1), 12, domain.ErrInvalidInput, "cylinder"},
		{"negative vertex distance", -2, 0, -3, domain.ErrInvalidInput, "vertexDistance"},
		{"infinite vertex distance", -2, 0, math.Inf(1), domain.ErrInvalidInput, "vertexDistance"},
		{"sphere at the focal point", 100, 0, 10, domain.ErrSingularity, "sphere"},
		{"combined meridian at the focal point", 50, 50, 10, domain.ErrSingularity, "cylinder"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Convert(tt.sphere, tt.cylinder, tt.vd)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantKind), "got %v", err)

			var inputErr *domain.InputError
			require.True(t, errors.As(err, &inputErr))
			assert.Equal(t, tt.wantField, inputErr.Field)
		})
	}
}

func TestConvert_RoundedValuesAreQuarterSteps(t *testing.T) {
	for sphere := -20.0; sphere <= 20.0; sphere += 0.25 {
		for cylinder := -6.0; cylinder <= 0; cylinder += 0.25 {
			result, err := Convert(sphere, cylinder, 12)
			require.NoError(t, err)

			for _, pair := range [][2]float64{
				{result.Exact.Spherical, result.Rounded.Spherical},
				{result.Exact.Cylinder, result.Rounded.Cylinder},
			} {
				exact, rounded := pair[0], pair[1]
				steps := rounded / quarterDiopter
				if steps != math.Trunc(steps) {
					t.Fatalf("%v/%v: %v is not a quarter step", sphere, cylinder, rounded)
				}
				if math.Abs(rounded-exact) > quarterDiopter/2+1e-9 {
					t.Fatalf("%v/%v: %v is more than 0.125 from %v", sphere, cylinder, rounded, exact)
				}
			}
		}
	}
}

func TestRoundToQuarter(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{-4.716981, -4.75},
		{-0.880034, -1.00},
		{1.1, 1.0},
		{1.13, 1.25},
		{4.875, 5.0},
		{-4.875, -4.75},
		{0.125, 0.25},
		{-0.125, 0},
		{-0.1, 0},
		{6, 6},
	}

	for _, tt := range tests {
		got := RoundToQuarter(tt.in)
		assert.Equal(t, tt.want, got, "RoundToQuarter(%v)", tt.in)
		if tt.want == 0 {
			assert.False(t, math.Signbit(got), "RoundToQuarter(%v) returned negative zero", tt.in)
		}
	}
}

func TestFormatPower(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{2, "+2.00"},
		{-0.75, "-0.75"},
		{0, "+0.00"},
		{math.Copysign(0, -1), "+0.00"},
		{-0.001, "+0.00"},
		{10.5, "+10.50"},
		{-12.25, "-12.25"},
		{math.NaN(), ""},
		{math.Inf(1), ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatPower(tt.in), "FormatPower(%v)", tt.in)
	}
}

func TestFormatPowerString(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"   ", ""},
		{"abc", ""},
		{"NaN", ""},
		{" -2.5 ", "-2.50"},
		{"3", "+3.00"},
		{"+0.25", "+0.25"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatPowerString(tt.in), "FormatPowerString(%q)", tt.in)
	}
}

func TestClampAxis(t *testing.T) {
	assert.Equal(t, 0, ClampAxis(-5))
	assert.Equal(t, 0, ClampAxis(0))
	assert.Equal(t, 90, ClampAxis(90))
	assert.Equal(t, 180, ClampAxis(180))
	assert.Equal(t, 180, ClampAxis(275))
}
