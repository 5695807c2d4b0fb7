// Package presenter turns calculation results into display text. It is the
// only place that knows how powers and lens cards are shown to an optician.
package presenter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lensfinder/backend/internal/domain"
	"github.com/lensfinder/backend/internal/usecase"
)

// NoMatchesMessage is shown when no lens fits both eyes
const NoMatchesMessage = "No matching lenses found for both eyes."

// Summary is the rendered form of a CalculationResult
type Summary struct {
	RightEye      string         `json:"rightEye"`
	LeftEye       string         `json:"leftEye"`
	DominantEye   string         `json:"dominantEye,omitempty"`
	ProductsFound string         `json:"productsFound"`
	Message       string         `json:"message,omitempty"`
	Modalities    map[string]int `json:"modalities"`
	Cards         []LensCard     `json:"cards"`
}

// LensCard is one lens as shown in the results grid
type LensCard struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Manufacturer   string `json:"manufacturer"`
	Modality       string `json:"modality"`
	Type           string `json:"type"`
	SphereRange    string `json:"sphereRange"`
	CylinderRange  string `json:"cylinderRange"`
	AddPowersLabel string `json:"addPowers,omitempty"`
}

// Summarize renders a result. lenses is what should be visible, which may
// be a modality-filtered subset of result.Lenses. Modalities counts every
// match, so a modality toggle can show its total before it is selected.
func Summarize(result *domain.CalculationResult, lenses []domain.LensProduct) Summary {
	summary := Summary{
		RightEye:      "Right eye: " + EyeLine(result.Right.Rounded, result.RightAxis, result.AddPower),
		LeftEye:       "Left eye: " + EyeLine(result.Left.Rounded, result.LeftAxis, result.AddPower),
		ProductsFound: ProductsFoundLine(len(lenses)),
		Modalities:    ModalityCounts(result.Lenses),
		Cards:         Cards(lenses),
	}
	if result.AddPower > 0 && result.DominantEye != "" {
		summary.DominantEye = "Dominant eye: " + capitalize(string(result.DominantEye))
	}
	if len(lenses) == 0 {
		summary.Message = NoMatchesMessage
	}
	return summary
}

// EyeLine renders "-4.75 / -1.00 x 180" with an optional " ADD +2.00".
// An axis of 0 prints as N/A.
func EyeLine(power domain.LensPower, axis int, addPower float64) string {
	axisText := "N/A"
	if axis != 0 {
		axisText = strconv.Itoa(axis)
	}
	line := fmt.Sprintf("%s / %s x %s",
		usecase.FormatPower(power.Spherical),
		usecase.FormatPower(power.Cylinder),
		axisText)
	if addPower > 0 {
		line += " ADD " + usecase.FormatPower(addPower)
	}
	return line
}

// ModalityCounts maps "all" and each lower-case modality among lenses to
// the number of lenses that modality shows
func ModalityCounts(lenses []domain.LensProduct) map[string]int {
	counts := map[string]int{
		domain.ModalityAll: usecase.CountByModality(lenses, domain.ModalityAll),
	}
	for _, lens := range lenses {
		modality := strings.ToLower(strings.TrimSpace(lens.Modality))
		if modality == "" {
			continue
		}
		if _, seen := counts[modality]; !seen {
			counts[modality] = usecase.CountByModality(lenses, modality)
		}
	}
	return counts
}

// ProductsFoundLine renders the result counter
func ProductsFoundLine(n int) string {
	return fmt.Sprintf("%d PRODUCTS FOUND", n)
}

// Cards renders lens cards in the given order
func Cards(lenses []domain.LensProduct) []LensCard {
	cards := make([]LensCard, 0, len(lenses))
	for _, lens := range lenses {
		cards = append(cards, Card(lens))
	}
	return cards
}

// Card renders one lens
func Card(lens domain.LensProduct) LensCard {
	card := LensCard{
		ID:            lens.ID,
		Name:          lens.Name,
		Manufacturer:  lens.Manufacturer,
		Modality:      lens.Modality,
		Type:          lens.DisplayType(),
		SphereRange:   sphereLine(lens),
		CylinderRange: RangeLine(lens.CylinderPowers),
	}
	if len(lens.AddPowers) > 0 {
		labels := make([]string, 0, len(lens.AddPowers))
		for _, add := range lens.AddPowers {
			labels = append(labels, usecase.FormatPower(add))
		}
		card.AddPowersLabel = strings.Join(labels, ", ")
	}
	return card
}

// RangeLine renders "-6.00 to +6.00"
func RangeLine(r domain.PowerRange) string {
	return usecase.FormatPower(r.Min) + " to " + usecase.FormatPower(r.Max)
}

// sphereLine lists each sphere range when the lens has gaps
func sphereLine(lens domain.LensProduct) string {
	if len(lens.SphereRanges) < 2 {
		return RangeLine(lens.SpherePowers)
	}
	parts := make([]string, 0, len(lens.SphereRanges))
	for _, r := range lens.SphereRanges {
		parts = append(parts, RangeLine(r))
	}
	return strings.Join(parts, ", ")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
