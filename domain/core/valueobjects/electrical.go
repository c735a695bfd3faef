package valueobjects

import (
	"fmt"
	"strings"
)

// MaterialType is the kind of conductor run a connector represents
type MaterialType string

const (
	MaterialCable  MaterialType = "Cable"
	MaterialWiring MaterialType = "Wiring"
)

// ParseMaterialType validates a material type string
func ParseMaterialType(s string) (MaterialType, error) {
	switch MaterialType(s) {
	case MaterialCable, MaterialWiring:
		return MaterialType(s), nil
	default:
		return "", fmt.Errorf("unknown material type %q", s)
	}
}

// PortalDirection is the role of a portal within its net
type PortalDirection string

const (
	DirectionIn  PortalDirection = "in"
	DirectionOut PortalDirection = "out"
)

// Opposite returns the other direction
func (d PortalDirection) Opposite() PortalDirection {
	if d == DirectionOut {
		return DirectionIn
	}
	return DirectionOut
}

// PhaseType is the declared supply phase of an item
type PhaseType string

const (
	PhaseThree   PhaseType = "three-phase"
	PhaseSingle  PhaseType = "single-phase"
	PhaseUnknown PhaseType = "unknown"
)

// IsReceivingKey reports whether a connection-point key denotes power reception
func IsReceivingKey(key string) bool {
	return strings.HasPrefix(strings.ToLower(key), "in")
}

// IsSendingKey reports whether a connection-point key denotes power delivery
func IsSendingKey(key string) bool {
	return strings.HasPrefix(strings.ToLower(key), "out")
}
