package usecase

import (
	"context"
	"log"
	"math"
	"strings"

	"github.com/lensfinder/backend/internal/domain"
)

// CalculatorServiceConfig holds configuration for the calculator service
type CalculatorServiceConfig struct {
	DefaultVertexDistance float64 // mm, used when a request leaves it unset
	EnableDebugLogging    bool
}

// CatalogProvider is the part of CatalogService the calculator needs
type CatalogProvider interface {
	Lenses(ctx context.Context) ([]domain.LensProduct, error)
}

// CalculatorService converts spectacle prescriptions and looks up lenses
// that can be worn for the converted powers
type CalculatorService struct {
	catalog               CatalogProvider
	matcher               *Matcher
	defaultVertexDistance float64
	enableDebugLogging    bool
}

// NewCalculatorService creates a new calculator service with dependencies
func NewCalculatorService(catalog CatalogProvider, config CalculatorServiceConfig) *CalculatorService {
	vd := config.DefaultVertexDistance
	if vd <= 0 || math.IsNaN(vd) || math.IsInf(vd, 0) {
		vd = domain.DefaultVertexDistanceMM
	}

	return &CalculatorService{
		catalog:               catalog,
		matcher:               NewMatcher(MatcherConfig{EnableDebugLogging: config.EnableDebugLogging}),
		defaultVertexDistance: vd,
		enableDebugLogging:    config.EnableDebugLogging,
	}
}

// Convert converts both eyes without touching the catalog
func (s *CalculatorService) Convert(ctx context.Context, request *domain.CalculationRequest) (*domain.CalculationResult, error) {
	if request == nil {
		return nil, domain.NewInvalidInput("request", 0, "request body is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	vd := request.VertexDistance
	if vd == 0 || math.IsNaN(vd) {
		vd = s.defaultVertexDistance
	}
	vd, err := ResolveVertexDistance(vd)
	if err != nil {
		return nil, err
	}

	addPower, err := resolveAddPower(request)
	if err != nil {
		return nil, err
	}

	dominant, err := normalizeDominantEye(request.DominantEye)
	if err != nil {
		return nil, err
	}

	right, err := Convert(request.Right.Sphere, request.Right.Cylinder, vd)
	if err != nil {
		return nil, domain.WithEye(err, domain.RightEye)
	}
	left, err := Convert(request.Left.Sphere, request.Left.Cylinder, vd)
	if err != nil {
		return nil, domain.WithEye(err, domain.LeftEye)
	}

	if s.enableDebugLogging {
		log.Printf("[CALC] R %+.2f/%+.2f -> %+.4f/%+.4f (%s/%s) L %+.2f/%+.2f -> %+.4f/%+.4f (%s/%s) @ %.1fmm",
			request.Right.Sphere, request.Right.Cylinder, right.Exact.Spherical, right.Exact.Cylinder,
			FormatPower(right.Rounded.Spherical), FormatPower(right.Rounded.Cylinder),
			request.Left.Sphere, request.Left.Cylinder, left.Exact.Spherical, left.Exact.Cylinder,
			FormatPower(left.Rounded.Spherical), FormatPower(left.Rounded.Cylinder),
			vd)
	}

	return &domain.CalculationResult{
		Right:          right,
		Left:           left,
		RightAxis:      ClampAxis(request.Right.Axis),
		LeftAxis:       ClampAxis(request.Left.Axis),
		VertexDistance: vd,
		AddPower:       addPower,
		DominantEye:    dominant,
	}, nil
}

// Calculate converts both eyes and attaches every catalog lens that fits
// the rounded powers.
// Flow: validate -> convert -> resolve catalog -> match
func (s *CalculatorService) Calculate(ctx context.Context, request *domain.CalculationRequest) (*domain.CalculationResult, error) {
	result, err := s.Convert(ctx, request)
	if err != nil {
		return nil, err
	}

	catalog, err := s.catalog.Lenses(ctx)
	if err != nil {
		return nil, err
	}

	result.Lenses = s.matcher.Match(domain.MatchCriteria{
		Right:    result.Right.Rounded,
		Left:     result.Left.Rounded,
		AddPower: result.AddPower,
	}, catalog)

	return result, nil
}

// Search matches already-rounded powers against the catalog and narrows
// the result to one modality ("" or "all" keeps every lens)
func (s *CalculatorService) Search(ctx context.Context, criteria domain.MatchCriteria, modality string) ([]domain.LensProduct, error) {
	if err := validateCriteria(criteria); err != nil {
		return nil, err
	}

	catalog, err := s.catalog.Lenses(ctx)
	if err != nil {
		return nil, err
	}

	matches := s.matcher.Match(criteria, catalog)
	if modality == "" {
		return matches, nil
	}
	return FilterByModality(matches, modality), nil
}

func validateAddPower(add float64) (float64, error) {
	if math.IsNaN(add) || math.IsInf(add, 0) {
		return 0, domain.NewInvalidInput("addPower", add, "must be a finite number")
	}
	if add < 0 {
		return 0, domain.NewInvalidInput("addPower", add, "must not be negative")
	}
	return add, nil
}

// resolveAddPower picks the first non-zero addition of the request, the
// right eye and the left eye, in that order
func resolveAddPower(request *domain.CalculationRequest) (float64, error) {
	candidates := []struct {
		eye   domain.EyeSide
		value float64
	}{
		{"", request.AddPower},
		{domain.RightEye, request.Right.Add},
		{domain.LeftEye, request.Left.Add},
	}

	var add float64
	for _, c := range candidates {
		v, err := validateAddPower(c.value)
		if err != nil {
			if c.eye != "" {
				return 0, domain.WithEye(err, c.eye)
			}
			return 0, err
		}
		if add == 0 {
			add = v
		}
	}
	return add, nil
}

func validateCriteria(c domain.MatchCriteria) error {
	checks := []struct {
		eye   domain.EyeSide
		field string
		value float64
	}{
		{domain.RightEye, "spherical", c.Right.Spherical},
		{domain.RightEye, "cylinder", c.Right.Cylinder},
		{domain.LeftEye, "spherical", c.Left.Spherical},
		{domain.LeftEye, "cylinder", c.Left.Cylinder},
	}
	for _, check := range checks {
		if !isFinite(check.value) {
			return domain.WithEye(domain.NewInvalidInput(check.field, check.value, "must be a finite number"), check.eye)
		}
	}
	_, err := validateAddPower(c.AddPower)
	return err
}

func normalizeDominantEye(eye domain.EyeSide) (domain.EyeSide, error) {
	switch domain.EyeSide(strings.ToLower(strings.TrimSpace(string(eye)))) {
	case "":
		return "", nil
	case domain.RightEye:
		return domain.RightEye, nil
	case domain.LeftEye:
		return domain.LeftEye, nil
	default:
		return "", &domain.InputError{Kind: domain.ErrInvalidInput, Field: "dominantEye", Reason: "must be right or left"}
	}
}
