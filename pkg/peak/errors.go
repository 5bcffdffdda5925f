package peak

import "errors"

var (
	// ErrEmptySampleName is returned when a sample is added without a name
	ErrEmptySampleName = errors.New("sample name must not be empty")

	// ErrDuplicateSample is returned when two samples share a name
	ErrDuplicateSample = errors.New("duplicate sample name")

	// ErrSpectrumShape is returned when mass and intensity arrays differ in length
	ErrSpectrumShape = errors.New("mass and intensity arrays differ in length")

	// ErrInvalidMass is returned for negative or non-finite mass values
	ErrInvalidMass = errors.New("invalid mass value")

	// ErrInvalidIntensity is returned for negative or non-finite intensities
	ErrInvalidIntensity = errors.New("invalid intensity value")

	// ErrBinOutOfRange is returned when a mass falls in a bin beyond the int32 range
	ErrBinOutOfRange = errors.New("mass bin out of range")

	// ErrInvalidBinWidth is returned when a factory is configured with a non-positive bin width
	ErrInvalidBinWidth = errors.New("bin width must be positive")
)
