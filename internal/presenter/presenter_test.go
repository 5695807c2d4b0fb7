package presenter

import (
	"testing"

	"github.com/lensfinder/backend/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestEyeLine(t *testing.T) {
	tests := []struct {
		name  string
		power domain.LensPower
		axis  int
		add   float64
		want  string
	}{
		{"toric", domain.LensPower{Spherical: -4.75, Cylinder: -1}, 180, 0, "-4.75 / -1.00 x 180"},
		{"no axis", domain.LensPower{Spherical: 2.5}, 0, 0, "+2.50 / +0.00 x N/A"},
		{"with addition", domain.LensPower{Spherical: -2, Cylinder: -0.5}, 90, 2, "-2.00 / -0.50 x 90 ADD +2.00"},
		{"high power", domain.LensPower{Spherical: -12.25}, 0, 0, "-12.25 / +0.00 x N/A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EyeLine(tt.power, tt.axis, tt.add))
		})
	}
}

func TestSummarize(t *testing.T) {
	result := &domain.CalculationResult{
		Right:     domain.ConversionResult{Rounded: domain.LensPower{Spherical: -4.75, Cylinder: -1}},
		Left:      domain.ConversionResult{Rounded: domain.LensPower{Spherical: -4.5, Cylinder: -0.75}},
		RightAxis: 180,
		LeftAxis:  175,
	}
	lens := domain.LensProduct{
		ID:             "toric",
		Name:           "Monthly Toric",
		Manufacturer:   "Optix",
		Modality:       "Monthly",
		SpherePowers:   domain.PowerRange{Min: -9, Max: 4},
		CylinderPowers: domain.PowerRange{Min: -2.25, Max: -0.75},
	}

	t.Run("with matches", func(t *testing.T) {
		summary := Summarize(result, []domain.LensProduct{lens})

		assert.Equal(t, "Right eye: -4.75 / -1.00 x 180", summary.RightEye)
		assert.Equal(t, "Left eye: -4.50 / -0.75 x 175", summary.LeftEye)
		assert.Equal(t, "1 PRODUCTS FOUND", summary.ProductsFound)
		assert.Empty(t, summary.Message)
		assert.Empty(t, summary.DominantEye)
		assert.Len(t, summary.Cards, 1)
	})

	t.Run("modality counts cover every match", func(t *testing.T) {
		daily := lens
		daily.ID, daily.Modality = "daily", "Daily"
		withLenses := *result
		withLenses.Lenses = []domain.LensProduct{lens, daily, lens}

		summary := Summarize(&withLenses, []domain.LensProduct{daily})

		assert.Equal(t, "1 PRODUCTS FOUND", summary.ProductsFound)
		assert.Equal(t, map[string]int{"all": 3, "monthly": 2, "daily": 1}, summary.Modalities)
	})

	t.Run("without matches", func(t *testing.T) {
		summary := Summarize(result, nil)

		assert.Equal(t, "0 PRODUCTS FOUND", summary.ProductsFound)
		assert.Equal(t, NoMatchesMessage, summary.Message)
		assert.NotNil(t, summary.Cards)
		assert.Empty(t, summary.Cards)
	})

	t.Run("dominant eye shows only with an addition", func(t *testing.T) {
		withEye := *result
		withEye.DominantEye = domain.RightEye

		assert.Empty(t, Summarize(&withEye, nil).DominantEye)

		withEye.AddPower = 1.5
		assert.Equal(t, "Dominant eye: Right", Summarize(&withEye, nil).DominantEye)
	})
}

func TestCard(t *testing.T) {
	t.Run("multifocal lens lists its additions", func(t *testing.T) {
		card := Card(domain.LensProduct{
			ID:             "mf",
			Name:           "Vista Multi",
			Modality:       "Monthly",
			SpherePowers:   domain.PowerRange{Min: -10, Max: 6},
			CylinderPowers: domain.PowerRange{Min: -0.75, Max: -0.75},
			AddPowers:      []float64{1, 2.5},
			Multifocal:     true,
		})

		assert.Equal(t, domain.LensTypeMultifocalToric, card.Type)
		assert.Equal(t, "-10.00 to +6.00", card.SphereRange)
		assert.Equal(t, "-0.75 to -0.75", card.CylinderRange)
		assert.Equal(t, "+1.00, +2.50", card.AddPowersLabel)
	})

	t.Run("single vision lens", func(t *testing.T) {
		card := Card(domain.LensProduct{ID: "sph", SpherePowers: domain.PowerRange{Min: -6, Max: 6}})

		assert.Equal(t, domain.LensTypeSpherical, card.Type)
		assert.Empty(t, card.AddPowersLabel)
		assert.Equal(t, "+0.00 to +0.00", card.CylinderRange)
	})
}

func TestCard_LensTypes(t *testing.T) {
	toric := domain.LensProduct{CylinderPowers: domain.PowerRange{Min: -2.25, Max: -0.75}}
	multifocal := domain.LensProduct{Multifocal: true}

	assert.Equal(t, domain.LensTypeToric, Card(toric).Type)
	assert.Equal(t, domain.LensTypeMultifocal, Card(multifocal).Type)
}

func TestCard_SphereRangesWithGap(t *testing.T) {
	card := Card(domain.LensProduct{
		SpherePowers: domain.PowerRange{Min: -12, Max: 6},
		SphereRanges: []domain.PowerRange{{Min: -12, Max: -8}, {Min: -6, Max: 6}},
	})
	assert.Equal(t, "-12.00 to -8.00, -6.00 to +6.00", card.SphereRange)

	single := Card(domain.LensProduct{
		SpherePowers: domain.PowerRange{Min: -6, Max: 6},
		SphereRanges: []domain.PowerRange{{Min: -6, Max: 6}},
	})
	assert.Equal(t, "-6.00 to +6.00", single.SphereRange)
}

func TestModalityCounts(t *testing.T) {
	counts := ModalityCounts([]domain.LensProduct{
		{Modality: "Daily"}, {Modality: " DAILY"}, {Modality: ""}, {Modality: "Monthly"},
	})
	assert.Equal(t, map[string]int{"all": 4, "daily": 2, "monthly": 1}, counts)

	assert.Equal(t, map[string]int{"all": 0}, ModalityCounts(nil))
}

func TestCards_KeepsOrder(t *testing.T) {
	cards := Cards([]domain.LensProduct{{ID: "b"}, {ID: "a"}, {ID: "c"}})

	assert.Equal(t, "b", cards[0].ID)
	assert.Equal(t, "a", cards[1].ID)
	assert.Equal(t, "c", cards[2].ID)
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "", capitalize(""))
	assert.Equal(t, "Left", capitalize("left"))
}
