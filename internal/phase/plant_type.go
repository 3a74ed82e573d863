package phase

import (
	"errors"
	"fmt"
	"strings"
)

type PlantType string

const (
	Photoperiod   PlantType = "photoperiod"
	Autoflowering PlantType = "autoflowering"
	FastVersion   PlantType = "fast_version"
)

var ErrInvalidPlantType = errors.New("invalid plant type")

func (p PlantType) IsValid() bool {
	switch p {
	case Photoperiod, Autoflowering, FastVersion:
		return true
	}
	return false
}

func (p PlantType) Validate() error {
	if !p.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPlantType, string(p))
	}
	return nil
}

// ParsePlantType accepts the canonical names case-insensitively.
func ParsePlantType(s string) (PlantType, error) {
	pt := PlantType(strings.ToLower(strings.TrimSpace(s)))
	if err := pt.Validate(); err != nil {
		return "", err
	}
	return pt, nil
}

// RequiresLightSwitch reports whether flowering has to be induced by cutting the photoperiod.
func (p PlantType) RequiresLightSwitch() bool {
	return p != Autoflowering
}

func PlantTypes() []PlantType {
	return []PlantType{Photoperiod, Autoflowering, FastVersion}
}
