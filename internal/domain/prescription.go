package domain

// DefaultVertexDistanceMM is used when no vertex distance is supplied
const DefaultVertexDistanceMM = 12.0

// EyeSide identifies which eye a value belongs to
type EyeSide string

const (
	RightEye EyeSide = "right"
	LeftEye  EyeSide = "left"
)

// SpectaclePrescription is one eye of a glasses prescription.
// Cylinder uses negative-cylinder notation. Axis is display-only.
// Add is the reading addition written against this eye, if any.
type SpectaclePrescription struct {
	Sphere   float64 `json:"sphere"`
	Cylinder float64 `json:"cylinder"`
	Axis     int     `json:"axis"`
	Add      float64 `json:"add,omitempty"`
}

// LensPower is a spherical/cylinder pair in diopters
type LensPower struct {
	Spherical float64 `json:"spherical"`
	Cylinder  float64 `json:"cylinder"`
}

// ConversionResult is the contact-lens equivalent of one spectacle eye.
// Rounded values are the ones a lens can actually be ordered in.
type ConversionResult struct {
	Exact   LensPower `json:"exact"`
	Rounded LensPower `json:"rounded"`
}

// CalculationRequest carries both eyes of a spectacle prescription.
// AddPower applies to both eyes; when it is unset the right eye's Add is
// used, then the left eye's.
type CalculationRequest struct {
	Right          SpectaclePrescription `json:"right"`
	Left           SpectaclePrescription `json:"left"`
	VertexDistance float64               `json:"vertexDistance,omitempty"` // mm, 0 means default
	AddPower       float64               `json:"addPower,omitempty"`
	DominantEye    EyeSide               `json:"dominantEye,omitempty"`
}

// CalculationResult is the outcome of a calculation for both eyes.
// Lenses is nil for conversion-only requests.
type CalculationResult struct {
	Right          ConversionResult `json:"right"`
	Left           ConversionResult `json:"left"`
	RightAxis      int              `json:"rightAxis"`
	LeftAxis       int              `json:"leftAxis"`
	VertexDistance float64          `json:"vertexDistance"`
	AddPower       float64          `json:"addPower,omitempty"`
	DominantEye    EyeSide          `json:"dominantEye,omitempty"`
	Lenses         []LensProduct    `json:"lenses,omitempty"`
}

// MatchCriteria is what the lens matcher filters on
type MatchCriteria struct {
	Right    LensPower `json:"right"`
	Left     LensPower `json:"left"`
	AddPower float64   `json:"addPower,omitempty"`
}
