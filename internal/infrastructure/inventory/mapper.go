package inventory

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/lensfinder/backend/internal/domain"
)

// LensRecord is a contact lens as stored by the inventory service.
// Power fields are lists of ranges in the inventory, but older records
// hold a single object; both decode.
type LensRecord struct {
	MongoID         string                `json:"_id"`
	ID              string                `json:"id"`
	Brand           string                `json:"brand"`
	Name            string                `json:"name"`
	Manufacturer    string                `json:"manufacturer"`
	Material        string                `json:"material"`
	Modality        string                `json:"modality"`
	Type            string                `json:"type"`
	DkT             Number                `json:"dkt"`
	Diameter        OneOrMany[Number]     `json:"diameter"`
	BaseCurve       OneOrMany[Number]     `json:"baseCurve"`
	CentreThickness Number                `json:"centreThickness"`
	BlueLight       bool                  `json:"blueLight"`
	SpherePowers    OneOrMany[SphereSpec] `json:"spherePowers"`
	CylinderPowers  OneOrMany[CylSpec]    `json:"cylinderPowers"`
	AddPowers       OneOrMany[AddSpec]    `json:"addPowers"`
	Multifocal      *bool                 `json:"multifocal"`
}

// SphereSpec is one sphere power range
type SphereSpec struct {
	Min   Number `json:"min"`
	Max   Number `json:"max"`
	Steps Number `json:"steps"`
}

// CylSpec is either a fixed cylinder power or a range
type CylSpec struct {
	Type       string      `json:"type"` // "fixed" or "range"
	Power      Number      `json:"power"`
	Min        Number      `json:"min"`
	Max        Number      `json:"max"`
	Steps      Number      `json:"steps"`
	AxisRanges []AxisRange `json:"axisRanges"`
}

// AxisRange lists the axes a toric lens is made in
type AxisRange struct {
	From Number `json:"from"`
	To   Number `json:"to"`
	Step Number `json:"step"`
}

// AddSpec is one reading addition offered by a multifocal lens
type AddSpec struct {
	Type  string `json:"type"`
	Value Number `json:"value"`
	Label string `json:"label"`
}

// Number decodes a JSON number, a numeric string or null. Form inputs left
// blank reach the inventory as null or "".
type Number struct {
	Value float64
	Valid bool
}

// UnmarshalJSON implements json.Unmarshaler
func (n *Number) UnmarshalJSON(data []byte) error {
	*n = Number{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("invalid number %q: %w", s, err)
		}
		*n = Number{Value: v, Valid: !math.IsNaN(v) && !math.IsInf(v, 0)}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*n = Number{Value: v, Valid: true}
	return nil
}

// OneOrMany decodes either a single JSON value or an array of them
type OneOrMany[T any] []T

// UnmarshalJSON implements json.Unmarshaler
func (o *OneOrMany[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*o = nil
		return nil
	}
	if data[0] == '[' {
		var many []T
		if err := json.Unmarshal(data, &many); err != nil {
			return err
		}
		*o = many
		return nil
	}
	var one T
	if err := json.Unmarshal(data, &one); err != nil {
		return err
	}
	*o = OneOrMany[T]{one}
	return nil
}

// MapToLensProducts converts inventory records to domain lenses, keeping order
func MapToLensProducts(records []LensRecord) []domain.LensProduct {
	lenses := make([]domain.LensProduct, 0, len(records))
	for i := range records {
		lenses = append(lenses, MapToLensProduct(&records[i]))
	}
	return lenses
}

// MapToLensProduct converts one inventory record to our domain LensProduct
func MapToLensProduct(record *LensRecord) domain.LensProduct {
	id := record.MongoID
	if id == "" {
		id = record.ID
	}

	addPowers := collectAddPowers(record.AddPowers)

	multifocal := domain.IsMultifocalType(record.Type) || len(addPowers) > 0
	if record.Multifocal != nil {
		multifocal = *record.Multifocal
	}

	return domain.LensProduct{
		ID:              id,
		Brand:           record.Brand,
		Name:            record.Name,
		Manufacturer:    record.Manufacturer,
		Material:        record.Material,
		Modality:        record.Modality,
		Type:            record.Type,
		DkT:             record.DkT.Value,
		CentreThickness: record.CentreThickness.Value,
		Diameters:       validValues(record.Diameter),
		BaseCurves:      validValues(record.BaseCurve),
		BlueLight:       record.BlueLight,
		SpherePowers:    sphereEnvelope(record.SpherePowers),
		SphereRanges:    sphereRanges(record.SpherePowers),
		CylinderPowers:  cylinderEnvelope(record.CylinderPowers),
		AddPowers:       addPowers,
		Multifocal:      multifocal,
	}
}

// sphereEnvelope spans every listed sphere range
func sphereEnvelope(specs []SphereSpec) domain.PowerRange {
	var values []float64
	for _, s := range specs {
		if s.Min.Valid {
			values = append(values, s.Min.Value)
		}
		if s.Max.Valid {
			values = append(values, s.Max.Value)
		}
	}
	return envelope(values)
}

// sphereRanges keeps the individual ranges of a lens listed in more than
// one, so powers in the gaps between them are not offered. A range missing
// either bound is dropped from the list.
func sphereRanges(specs []SphereSpec) []domain.PowerRange {
	if len(specs) < 2 {
		return nil
	}
	ranges := make([]domain.PowerRange, 0, len(specs))
	for _, s := range specs {
		if !s.Min.Valid || !s.Max.Valid {
			continue
		}
		ranges = append(ranges, domain.PowerRange{
			Min: math.Min(s.Min.Value, s.Max.Value),
			Max: math.Max(s.Min.Value, s.Max.Value),
		})
	}
	return ranges
}

// cylinderEnvelope spans every fixed power and range bound; Min ends up as
// the strongest (most negative) cylinder available
func cylinderEnvelope(specs []CylSpec) domain.PowerRange {
	var values []float64
	for _, s := range specs {
		if strings.EqualFold(s.Type, "fixed") || (s.Power.Valid && !s.Min.Valid && !s.Max.Valid) {
			if s.Power.Valid {
				values = append(values, s.Power.Value)
			}
			continue
		}
		if s.Min.Valid {
			values = append(values, s.Min.Value)
		}
		if s.Max.Valid {
			values = append(values, s.Max.Value)
		}
	}
	return envelope(values)
}

func collectAddPowers(specs []AddSpec) []float64 {
	var adds []float64
	for _, s := range specs {
		if s.Value.Valid && s.Value.Value > 0 {
			adds = append(adds, s.Value.Value)
		}
	}
	return adds
}

func envelope(values []float64) domain.PowerRange {
	if len(values) == 0 {
		return domain.PowerRange{}
	}
	r := domain.PowerRange{Min: values[0], Max: values[0]}
	for _, v := range values[1:] {
		r.Min = math.Min(r.Min, v)
		r.Max = math.Max(r.Max, v)
	}
	return r
}

func validValues(numbers []Number) []float64 {
	var out []float64
	for _, n := range numbers {
		if n.Valid {
			out = append(out, n.Value)
		}
	}
	return out
}
