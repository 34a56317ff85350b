package farm

import (
	"errors"
	"fmt"
	"time"
)

// CropType identifies the crop being grown.
type CropType string

const (
	CropWheat  CropType = "wheat"
	CropCorn   CropType = "corn"
	CropSoy    CropType = "soy"
	CropTomato CropType = "tomato"
)

// SoilType selects the initial moisture regime of the field.
type SoilType string

const (
	SoilSandy SoilType = "sandy"
	SoilLoam  SoilType = "loam"
	SoilClay  SoilType = "clay"
)

// Configuration rejection errors, surfaced at farm creation.
var (
	ErrInvalidSize     = errors.New("farm size must be positive")
	ErrInvalidCrop     = errors.New("unknown crop type")
	ErrInvalidSoil     = errors.New("unknown soil type")
	ErrInvalidDuration = errors.New("simulation days must be positive")
)

// ParseCrop validates a crop name.
func ParseCrop(s string) (CropType, error) {
	switch CropType(s) {
	case CropWheat, CropCorn, CropSoy, CropTomato:
		return CropType(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidCrop, s)
}

// ParseSoil validates a soil name.
func ParseSoil(s string) (SoilType, error) {
	switch SoilType(s) {
	case SoilSandy, SoilLoam, SoilClay:
		return SoilType(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidSoil, s)
}

// Config holds the parameters of one simulation run.
type Config struct {
	SizeHectares float64
	Crop         CropType
	Soil         SoilType
	Days         int
	StartDate    time.Time
	Seed         int64 // 0 = pick a random seed
}

// DefaultConfig returns the canonical 10 ha wheat run.
func DefaultConfig() Config {
	return Config{
		SizeHectares: 10,
		Crop:         CropWheat,
		Soil:         SoilLoam,
		Days:         120,
		StartDate:    time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
	}
}

// Validate rejects configurations the engine cannot run. Fails fast so that
// nothing downstream needs to re-check.
func (c Config) Validate() error {
	if c.SizeHectares <= 0 {
		return fmt.Errorf("%w: %v ha", ErrInvalidSize, c.SizeHectares)
	}
	if _, err := ParseCrop(string(c.Crop)); err != nil {
		return err
	}
	if _, err := ParseSoil(string(c.Soil)); err != nil {
		return err
	}
	if c.Days <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidDuration, c.Days)
	}
	return nil
}
