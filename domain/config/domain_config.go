package config

import (
	"fmt"
	"time"
)

// DomainConfig holds all configurable business rules and constraints
type DomainConfig struct {
	// History constraints
	HistoryLimit int

	// Clipboard
	PasteOffset float64

	// Recalculation
	RecalcDebounce time.Duration

	// Portal/net constraints
	MaxPortalsPerNet       int
	MaxConnectorsPerPortal int
	PortalWidth            float64
	PortalHeight           float64

	// Connector defaulting
	FixedSpecTypes   []string // skip the material prompt, always Cable
	PhaseExemptTypes []string // always receive single-phase defaults
	WiringSizes      []string // candidate conductor sizes for Wiring

	// Item constraints
	NonRotatableTypes []string
}

// DefaultDomainConfig returns the default domain configuration
func DefaultDomainConfig() *DomainConfig {
	return &DomainConfig{
		HistoryLimit: 20,
		PasteOffset:  30,

		RecalcDebounce: 150 * time.Millisecond,

		MaxPortalsPerNet:       2,
		MaxConnectorsPerPortal: 1,
		PortalWidth:            60,
		PortalHeight:           30,

		FixedSpecTypes:   []string{"Point Switch Board", "Avg. 5A Switch Board"},
		PhaseExemptTypes: []string{"Point Switch Board", "Avg. 5A Switch Board"},
		WiringSizes: []string{
			"2 x 1.5 + 1 x 1.5 sq.mm",
			"2 x 2.5 + 1 x 1.5 sq.mm",
			"2 x 4 + 1 x 2.5 sq.mm",
			"2 x 6 + 1 x 4 sq.mm",
			"3 x 1.5 + 2 x 1.5 sq.mm",
			"3 x 2.5 + 2 x 1.5 sq.mm",
			"3 x 4 + 2 x 2.5 sq.mm",
			"3 x 6 + 2 x 4 sq.mm",
		},

		NonRotatableTypes: []string{"Portal"},
	}
}

// ProductionDomainConfig returns production-specific configuration
func ProductionDomainConfig() *DomainConfig {
	return DefaultDomainConfig()
}

// DevelopmentDomainConfig returns development-specific configuration
func DevelopmentDomainConfig() *DomainConfig {
	return DefaultDomainConfig()
}

// LoadDomainConfig loads domain configuration based on environment
func LoadDomainConfig(environment string) *DomainConfig {
	switch environment {
	case "production":
		return ProductionDomainConfig()
	case "development":
		return DevelopmentDomainConfig()
	default:
		return DefaultDomainConfig()
	}
}

// Clone returns an independent copy of the configuration
func (c *DomainConfig) Clone() *DomainConfig {
	cp := *c
	cp.FixedSpecTypes = append([]string(nil), c.FixedSpecTypes...)
	cp.PhaseExemptTypes = append([]string(nil), c.PhaseExemptTypes...)
	cp.WiringSizes = append([]string(nil), c.WiringSizes...)
	cp.NonRotatableTypes = append([]string(nil), c.NonRotatableTypes...)
	return &cp
}

// Validate checks if the configuration is valid
func (c *DomainConfig) Validate() error {
	if c.HistoryLimit < 1 {
		return fmt.Errorf("history limit must be positive, got %d", c.HistoryLimit)
	}
	if c.RecalcDebounce < 0 {
		return fmt.Errorf("recalculation debounce cannot be negative")
	}
	if c.MaxPortalsPerNet < 1 || c.MaxConnectorsPerPortal < 1 {
		return fmt.Errorf("portal limits must be positive")
	}
	return nil
}

// IsFixedSpec reports whether the item type has a fixed connector specification
func (c *DomainConfig) IsFixedSpec(itemType string) bool {
	return contains(c.FixedSpecTypes, itemType)
}

// IsPhaseExempt reports whether the item type is excluded from phase logic
func (c *DomainConfig) IsPhaseExempt(itemType string) bool {
	return contains(c.PhaseExemptTypes, itemType)
}

// IsRotatable reports whether items of this type may be rotated
func (c *DomainConfig) IsRotatable(itemType string) bool {
	return !contains(c.NonRotatableTypes, itemType)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
