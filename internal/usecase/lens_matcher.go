package usecase

import (
	"log"
	"math"
	"strings"

	"github.com/lensfinder/backend/internal/domain"
)

// minAddPower is the smallest reading addition a multifocal lens is made in
const minAddPower = 0.25

// FindMatches returns the catalog entries that can be worn on both eyes.
// right and left must be rounded powers. The result keeps catalog order and
// is never nil.
func FindMatches(right, left domain.LensPower, addPower float64, catalog []domain.LensProduct) []domain.LensProduct {
	matches := make([]domain.LensProduct, 0, len(catalog))
	for _, lens := range catalog {
		if lensFits(lens, right, left, addPower) {
			matches = append(matches, lens)
		}
	}
	return matches
}

// lensFits applies every criterion; one lens serves both eyes
func lensFits(lens domain.LensProduct, right, left domain.LensPower, addPower float64) bool {
	return lens.FitsSphere(right.Spherical) &&
		lens.FitsSphere(left.Spherical) &&
		cylinderFits(lens, right.Cylinder) &&
		cylinderFits(lens, left.Cylinder) &&
		addFits(lens, addPower)
}

// cylinderFits requires a minus cylinder no larger than the lens can correct
func cylinderFits(lens domain.LensProduct, cylinder float64) bool {
	return cylinder <= 0 && math.Abs(cylinder) <= math.Abs(lens.CylinderPowers.Min)
}

func addFits(lens domain.LensProduct, addPower float64) bool {
	if addPower == 0 {
		return true
	}
	return lens.Multifocal && addPower >= minAddPower
}

// FilterByModality keeps lenses whose modality matches, case-insensitively.
// "all" keeps everything.
func FilterByModality(lenses []domain.LensProduct, modality string) []domain.LensProduct {
	visible := make([]domain.LensProduct, 0, len(lenses))
	for _, lens := range lenses {
		if modalityVisible(lens, modality) {
			visible = append(visible, lens)
		}
	}
	return visible
}

// CountByModality is the number of lenses FilterByModality would keep
func CountByModality(lenses []domain.LensProduct, modality string) int {
	count := 0
	for _, lens := range lenses {
		if modalityVisible(lens, modality) {
			count++
		}
	}
	return count
}

func modalityVisible(lens domain.LensProduct, modality string) bool {
	modality = strings.ToLower(strings.TrimSpace(modality))
	return modality == domain.ModalityAll || strings.ToLower(strings.TrimSpace(lens.Modality)) == modality
}

// MatcherConfig holds configuration for the lens matcher
type MatcherConfig struct {
	EnableDebugLogging bool
}

// Matcher runs FindMatches with optional tracing of rejected lenses
type Matcher struct {
	enableDebugLogging bool
}

// NewMatcher creates a new lens matcher
func NewMatcher(config MatcherConfig) *Matcher {
	return &Matcher{enableDebugLogging: config.EnableDebugLogging}
}

// Match filters the catalog for the given criteria
func (m *Matcher) Match(criteria domain.MatchCriteria, catalog []domain.LensProduct) []domain.LensProduct {
	if m.enableDebugLogging {
		log.Printf("[MATCH] Searching %d lenses for R %+.2f/%+.2f L %+.2f/%+.2f ADD %.2f",
			len(catalog),
			criteria.Right.Spherical, criteria.Right.Cylinder,
			criteria.Left.Spherical, criteria.Left.Cylinder,
			criteria.AddPower)
		for _, lens := range catalog {
			if !lensFits(lens, criteria.Right, criteria.Left, criteria.AddPower) {
				log.Printf("[MATCH] Rejected %q: %s", lens.Name, rejectReason(lens, criteria))
			}
		}
	}

	matches := FindMatches(criteria.Right, criteria.Left, criteria.AddPower, catalog)

	if m.enableDebugLogging {
		log.Printf("[MATCH] %d of %d lenses fit", len(matches), len(catalog))
	}
	return matches
}

// rejectReason names the first criterion a lens fails
func rejectReason(lens domain.LensProduct, c domain.MatchCriteria) string {
	switch {
	case !lens.FitsSphere(c.Right.Spherical):
		return "right sphere out of range"
	case !lens.FitsSphere(c.Left.Spherical):
		return "left sphere out of range"
	case !cylinderFits(lens, c.Right.Cylinder):
		return "right cylinder not available"
	case !cylinderFits(lens, c.Left.Cylinder):
		return "left cylinder not available"
	case !addFits(lens, c.AddPower):
		return "no reading addition"
	default:
		return "fits"
	}
}
