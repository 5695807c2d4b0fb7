package usecase

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/lensfinder/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCalculator(source *MockCatalogSource) *CalculatorService {
	catalog := NewCatalogService(source, nil, CatalogServiceConfig{SourceName: "test"})
	return NewCalculatorService(catalog, CalculatorServiceConfig{})
}

func TestNewCalculatorService(t *testing.T) {
	tests := []struct {
		name   string
		config float64
		want   float64
	}{
		{"unset uses 12mm", 0, 12},
		{"negative uses 12mm", -4, 12},
		{"NaN uses 12mm", math.NaN(), 12},
		{"configured distance", 13.5, 13.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewCalculatorService(nil, CalculatorServiceConfig{DefaultVertexDistance: tt.config})
			assert.Equal(t, tt.want, service.defaultVertexDistance)
			assert.NotNil(t, service.matcher)
		})
	}
}

func TestCalculatorService_Convert(t *testing.T) {
	ctx := context.Background()

	t.Run("converts both eyes and clamps axes", func(t *testing.T) {
		source := &MockCatalogSource{lenses: sampleCatalog()}
		service := newTestCalculator(source)

		result, err := service.Convert(ctx, &domain.CalculationRequest{
			Right: domain.SpectaclePrescription{Sphere: -5, Cylinder: -1, Axis: 190},
			Left:  domain.SpectaclePrescription{Sphere: -3, Cylinder: 0, Axis: -10},
		})
		require.NoError(t, err)

		assert.Equal(t, domain.LensPower{Spherical: -4.75, Cylinder: -1.00}, result.Right.Rounded)
		assert.Equal(t, domain.LensPower{Spherical: -3.00, Cylinder: 0}, result.Left.Rounded)
		assert.Equal(t, 180, result.RightAxis)
		assert.Equal(t, 0, result.LeftAxis)
		assert.Equal(t, 12.0, result.VertexDistance)
		assert.Nil(t, result.Lenses)
		assert.Equal(t, 0, source.calls)
	})

	t.Run("service default fills an unset vertex distance", func(t *testing.T) {
		service := NewCalculatorService(nil, CalculatorServiceConfig{DefaultVertexDistance: 14})

		result, err := service.Convert(ctx, &domain.CalculationRequest{
			Right: domain.SpectaclePrescription{Sphere: -6},
			Left:  domain.SpectaclePrescription{Sphere: -6},
		})
		require.NoError(t, err)
		assert.Equal(t, 14.0, result.VertexDistance)
	})

	t.Run("normalizes the dominant eye", func(t *testing.T) {
		service := newTestCalculator(&MockCatalogSource{})

		result, err := service.Convert(ctx, &domain.CalculationRequest{AddPower: 1.5, DominantEye: " Left "})
		require.NoError(t, err)
		assert.Equal(t, domain.LeftEye, result.DominantEye)
		assert.Equal(t, 1.5, result.AddPower)
	})

	t.Run("reading addition from either eye", func(t *testing.T) {
		service := newTestCalculator(&MockCatalogSource{})

		tests := []struct {
			name    string
			request domain.CalculationRequest
			want    float64
		}{
			{"request-wide wins", domain.CalculationRequest{
				AddPower: 2,
				Right:    domain.SpectaclePrescription{Add: 1},
				Left:     domain.SpectaclePrescription{Add: 1.5},
			}, 2},
			{"right eye next", domain.CalculationRequest{
				Right: domain.SpectaclePrescription{Add: 1},
				Left:  domain.SpectaclePrescription{Add: 1.5},
			}, 1},
			{"left eye alone", domain.CalculationRequest{
				Left: domain.SpectaclePrescription{Add: 1.5},
			}, 1.5},
			{"none", domain.CalculationRequest{}, 0},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				result, err := service.Convert(ctx, &tt.request)
				require.NoError(t, err)
				assert.Equal(t, tt.want, result.AddPower)
			})
		}
	})

	errorTests := []struct {
		name      string
		request   *domain.CalculationRequest
		wantKind  error
		wantField string
		wantEye   domain.EyeSide
	}{
		{
			name:      "nil request",
			request:   nil,
			wantKind:  domain.ErrInvalidInput,
			wantField: "request",
		},
		{
			name:      "negative vertex distance",
			request:   &domain.CalculationRequest{VertexDistance: -1},
			wantKind:  domain.ErrInvalidInput,
			wantField: "vertexDistance",
		},
		{
			name:      "negative add",
			request:   &domain.CalculationRequest{AddPower: -0.5},
			wantKind:  domain.ErrInvalidInput,
			wantField: "addPower",
		},
		{
			name: "negative add on one eye",
			request: &domain.CalculationRequest{
				Left: domain.SpectaclePrescription{Sphere: -2, Add: -1},
			},
			wantKind:  domain.ErrInvalidInput,
			wantField: "addPower",
			wantEye:   domain.LeftEye,
		},
		{
			name:      "unknown dominant eye",
			request:   &domain.CalculationRequest{DominantEye: "both"},
			wantKind:  domain.ErrInvalidInput,
			wantField: "dominantEye",
		},
		{
			name: "left eye singularity",
			request: &domain.CalculationRequest{
				Right:          domain.SpectaclePrescription{Sphere: -2},
				Left:           domain.SpectaclePrescription{Sphere: 100},
				VertexDistance: 10,
			},
			wantKind:  domain.ErrSingularity,
			wantField: "sphere",
			wantEye:   domain.LeftEye,
		},
		{
			name: "right eye NaN cylinder",
			request: &domain.CalculationRequest{
				Right: domain.SpectaclePrescription{Sphere: -2, Cylinder: math.NaN()},
			},
			wantKind:  domain.ErrInvalidInput,
			wantField: "cylinder",
			wantEye:   domain.RightEye,
		},
	}

	for _, tt := range errorTests {
		t.Run(tt.name, func(t *testing.T) {
			service := newTestCalculator(&MockCatalogSource{})

			result, err := service.Convert(ctx, tt.request)
			require.Error(t, err)
			assert.Nil(t, result)
			assert.ErrorIs(t, err, tt.wantKind)

			var inputErr *domain.InputError
			require.ErrorAs(t, err, &inputErr)
			assert.Equal(t, tt.wantField, inputErr.Field)
			assert.Equal(t, tt.wantEye, inputErr.Eye)
		})
	}

	t.Run("cancelled context", func(t *testing.T) {
		service := newTestCalculator(&MockCatalogSource{})
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := service.Convert(cancelled, &domain.CalculationRequest{})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestCalculatorService_Calculate(t *testing.T) {
	ctx := context.Background()

	t.Run("attaches the lenses fitting both eyes", func(t *testing.T) {
		service := newTestCalculator(&MockCatalogSource{lenses: sampleCatalog()})

		result, err := service.Calculate(ctx, &domain.CalculationRequest{
			Right: domain.SpectaclePrescription{Sphere: -5, Cylinder: -1, Axis: 180},
			Left:  domain.SpectaclePrescription{Sphere: -4.5, Cylinder: -1.25, Axis: 170},
		})
		require.NoError(t, err)
		require.Len(t, result.Lenses, 1)
		assert.Equal(t, "toric-monthly", result.Lenses[0].ID)
	})

	t.Run("reading addition selects the multifocal", func(t *testing.T) {
		service := newTestCalculator(&MockCatalogSource{lenses: sampleCatalog()})

		result, err := service.Calculate(ctx, &domain.CalculationRequest{
			Right:    domain.SpectaclePrescription{Sphere: -2, Cylinder: -0.5},
			Left:     domain.SpectaclePrescription{Sphere: -2, Cylinder: -0.5},
			AddPower: 2,
		})
		require.NoError(t, err)
		require.Len(t, result.Lenses, 1)
		assert.Equal(t, "mf-monthly", result.Lenses[0].ID)
	})

	t.Run("no match is an empty list", func(t *testing.T) {
		service := newTestCalculator(&MockCatalogSource{lenses: sampleCatalog()})

		result, err := service.Calculate(ctx, &domain.CalculationRequest{
			Right: domain.SpectaclePrescription{Sphere: -15},
			Left:  domain.SpectaclePrescription{Sphere: -15},
		})
		require.NoError(t, err)
		assert.NotNil(t, result.Lenses)
		assert.Empty(t, result.Lenses)
	})

	t.Run("catalog failure is terminal", func(t *testing.T) {
		source := &MockCatalogSource{err: errors.New("timeout")}
		service := newTestCalculator(source)

		_, err := service.Calculate(ctx, &domain.CalculationRequest{})
		assert.ErrorIs(t, err, domain.ErrCatalogUnavailable)
		assert.Equal(t, 1, source.calls)
	})

	t.Run("invalid input never reaches the catalog", func(t *testing.T) {
		source := &MockCatalogSource{lenses: sampleCatalog()}
		service := newTestCalculator(source)

		_, err := service.Calculate(ctx, &domain.CalculationRequest{VertexDistance: -2})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Equal(t, 0, source.calls)
	})
}

func TestCalculatorService_Search(t *testing.T) {
	ctx := context.Background()
	service := newTestCalculator(&MockCatalogSource{lenses: sampleCatalog()})

	plano := domain.MatchCriteria{
		Right: domain.LensPower{Spherical: -1},
		Left:  domain.LensPower{Spherical: -1},
	}

	all, err := service.Search(ctx, plano, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	monthly, err := service.Search(ctx, plano, "Monthly")
	require.NoError(t, err)
	assert.Len(t, monthly, 2)

	_, err = service.Search(ctx, domain.MatchCriteria{Left: domain.LensPower{Cylinder: math.Inf(-1)}}, "")
	var inputErr *domain.InputError
	require.ErrorAs(t, err, &inputErr)
	assert.Equal(t, domain.LeftEye, inputErr.Eye)
	assert.Equal(t, "cylinder", inputErr.Field)

	_, err = service.Search(ctx, domain.MatchCriteria{AddPower: math.NaN()}, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
