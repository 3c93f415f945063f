package model

import (
	"fmt"
	"math"
	"regexp"
	"strings"
)

// KilogramsPerPound is the exact international avoirdupois pound.
const KilogramsPerPound = 0.45359237

// Weight units accepted on the wire.
const (
	UnitKg  = "kg"
	UnitLbs = "lbs"
)

// ParseUnit normalizes a unit name. Empty means kilograms.
func ParseUnit(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "kg", "kgs":
		return UnitKg, nil
	case "lbs", "lb":
		return UnitLbs, nil
	default:
		return "", fmt.Errorf("unsupported unit %q", s)
	}
}

// MaxKilograms is the largest weight the ledger and registry columns hold.
const MaxKilograms = math.MaxInt32

// ToKilograms converts a reading to integer kilograms, truncating toward zero.
// It reports false for negative or non-finite readings and for readings above
// MaxKilograms once converted.
func ToKilograms(weight float64, unit string) (int, bool) {
	if weight < 0 || math.IsNaN(weight) || math.IsInf(weight, 0) {
		return 0, false
	}
	if unit == UnitLbs {
		weight *= KilogramsPerPound
	}
	if weight >= MaxKilograms+1 {
		return 0, false
	}
	return int(weight), true
}

// Container is a tare registry row. A nil Weight means not yet measured.
type Container struct {
	ID     string `json:"id"`
	Weight *int   `json:"weight"`
	Unit   string `json:"unit"`
}

// TareRecord is one container tare as read from a batch file, in its
// source unit. A nil Weight registers the container as not yet measured.
type TareRecord struct {
	ID     string   `json:"id"`
	Weight *float64 `json:"weight"`
	Unit   string   `json:"unit"`
}

// NetWeight is the outcome of a net computation on truck exit.
type NetWeight struct {
	Neto          int
	ContainerTare int
	// Unknown lists containers that contributed zero tare.
	Unknown []string
}

// TareStatus distinguishes the registry lookup outcomes.
type TareStatus int

const (
	// TareKnown means the container is registered with a weight.
	TareKnown TareStatus = iota
	// TareUnmeasured means the container is registered with a null weight.
	TareUnmeasured
	// TareNotRegistered means no registry row exists.
	TareNotRegistered
)

// Tare is the outcome of a registry lookup.
type Tare struct {
	ContainerID string
	Weight      int
	Status      TareStatus
}

var containerIDPattern = regexp.MustCompile(`^[A-Za-z0-9._-]{1,64}$`)

// ValidContainerID reports whether id is a well-formed container id.
func ValidContainerID(id string) bool {
	return containerIDPattern.MatchString(id)
}
