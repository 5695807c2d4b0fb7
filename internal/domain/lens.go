package domain

import "strings"

// Lens type names as used by the inventory
const (
	LensTypeSpherical       = "Spherical"
	LensTypeToric           = "Toric"
	LensTypeMultifocal      = "Multifocal"
	LensTypeMultifocalToric = "MultifocalToric"
)

// ModalityAll disables modality filtering
const ModalityAll = "all"

// PowerRange is an inclusive diopter range
type PowerRange struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// Contains reports whether p lies within the range, inclusive
func (r PowerRange) Contains(p float64) bool {
	return p >= r.Min && p <= r.Max
}

// LensProduct is a contact lens as listed in the catalog.
// CylinderPowers.Min is the most negative cylinder the lens can correct;
// zero means the lens is spherical only. SpherePowers spans every sphere
// the lens is made in; when the catalog lists the powers as separate
// ranges with gaps between them, SphereRanges holds those ranges.
type LensProduct struct {
	ID              string       `json:"id"`
	Brand           string       `json:"brand,omitempty"`
	Name            string       `json:"name"`
	Manufacturer    string       `json:"manufacturer,omitempty"`
	Material        string       `json:"material,omitempty"`
	Modality        string       `json:"modality,omitempty"`
	Type            string       `json:"type,omitempty"`
	DkT             float64      `json:"dkt,omitempty"`
	CentreThickness float64      `json:"centreThickness,omitempty"`
	Diameters       []float64    `json:"diameters,omitempty"`
	BaseCurves      []float64    `json:"baseCurves,omitempty"`
	BlueLight       bool         `json:"blueLight,omitempty"`
	SpherePowers    PowerRange   `json:"spherePowers"`
	SphereRanges    []PowerRange `json:"sphereRanges,omitempty"`
	CylinderPowers  PowerRange   `json:"cylinderPowers"`
	AddPowers       []float64    `json:"addPowers,omitempty"`
	Multifocal      bool         `json:"multifocal"`
}

// IsMultifocalType reports whether an inventory type name describes a
// lens with a reading addition
func IsMultifocalType(lensType string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(lensType)), "multifocal")
}

// FitsSphere reports whether the lens is made in sphere power p
func (l LensProduct) FitsSphere(p float64) bool {
	if !l.SpherePowers.Contains(p) {
		return false
	}
	if len(l.SphereRanges) == 0 {
		return true
	}
	for _, r := range l.SphereRanges {
		if r.Contains(p) {
			return true
		}
	}
	return false
}

// IsToric reports whether the lens corrects any cylinder
func (l LensProduct) IsToric() bool {
	return l.CylinderPowers.Min < 0
}

// DisplayType is the lens type shown on result cards
func (l LensProduct) DisplayType() string {
	switch {
	case l.Multifocal && l.IsToric():
		return LensTypeMultifocalToric
	case l.Multifocal:
		return LensTypeMultifocal
	case l.IsToric():
		return LensTypeToric
	default:
		return LensTypeSpherical
	}
}
