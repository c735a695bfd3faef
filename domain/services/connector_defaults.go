package services

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/rickerduniya/Sayanho-sub000/domain/config"
	"github.com/rickerduniya/Sayanho-sub000/domain/core/entities"
	"github.com/rickerduniya/Sayanho-sub000/domain/core/valueobjects"
	apperrors "github.com/rickerduniya/Sayanho-sub000/pkg/errors"
)

// Connector property keys filled by defaulting
const (
	PropCore = "Core"
	PropSize = "Size"
)

// Cable core counts per phase
const (
	CoreThreePhase  = "4 Core"
	CoreSinglePhase = "2 Core"
)

var (
	threePhaseWiring  = regexp.MustCompile(`^3\s*x\s*(\d+(?:\.\d+)?)\s*\+\s*2\s*x\s*\d+(?:\.\d+)?\s*sq\.?\s*mm`)
	singlePhaseWiring = regexp.MustCompile(`^2\s*x\s*(\d+(?:\.\d+)?)\s*\+\s*1\s*x\s*\d+(?:\.\d+)?\s*sq\.?\s*mm`)
	leadingNumber     = regexp.MustCompile(`^\s*(\d+(?:\.\d+)?)`)
)

// ConnectorDefaults derives orientation, material and starting properties for
// newly drawn connectors
type ConnectorDefaults struct {
	config     *config.DomainConfig
	phaseTable map[string]valueobjects.PhaseType
}

// NewConnectorDefaults creates the defaulting service
func NewConnectorDefaults(cfg *config.DomainConfig) *ConnectorDefaults {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &ConnectorDefaults{config: cfg, phaseTable: itemPhaseTable}
}

// Canonicalize makes the connector point from the sending side to the
// receiving side. It reports whether the endpoints were swapped.
func (s *ConnectorDefaults) Canonicalize(c *entities.Connector) bool {
	if valueobjects.IsReceivingKey(c.SourceKey) && valueobjects.IsSendingKey(c.TargetKey) {
		c.Reverse()
		return true
	}
	return false
}

// NeedsMaterialPrompt reports whether the user must choose Cable or Wiring.
// Fixed-specification items and in portals always take Cable.
func (s *ConnectorDefaults) NeedsMaterialPrompt(source, target *entities.Item) bool {
	for _, item := range []*entities.Item{source, target} {
		if s.config.IsFixedSpec(item.Type) || item.IsPortalWithDirection(valueobjects.DirectionIn) {
			return false
		}
	}
	return true
}

// Downstream returns the power-receiving endpoint, falling back to the target
func (s *ConnectorDefaults) Downstream(c *entities.Connector, source, target *entities.Item) *entities.Item {
	switch {
	case valueobjects.IsReceivingKey(c.TargetKey):
		return target
	case valueobjects.IsReceivingKey(c.SourceKey):
		return source
	default:
		return target
	}
}

// PhaseOf derives an item's phase. An item is three-phase when its type is
// listed as three-phase or its Voltage property is at least 380; a parsed lower
// voltage makes it single-phase, otherwise the type table decides.
func (s *ConnectorDefaults) PhaseOf(item *entities.Item) valueobjects.PhaseType {
	phase, listed := s.phaseTable[item.Type]
	if phase == valueobjects.PhaseThree {
		return valueobjects.PhaseThree
	}
	if v, ok := parseVoltage(item.Property(entities.PropVoltage)); ok {
		if v >= threePhaseVoltage {
			return valueobjects.PhaseThree
		}
		return valueobjects.PhaseSingle
	}
	if listed {
		return phase
	}
	return valueobjects.PhaseUnknown
}

// EffectivePhase is PhaseOf with phase-exempt types forced to single-phase
func (s *ConnectorDefaults) EffectivePhase(item *entities.Item) valueobjects.PhaseType {
	if s.config.IsPhaseExempt(item.Type) {
		return valueobjects.PhaseSingle
	}
	return s.PhaseOf(item)
}

// DefaultProperties returns the starting properties for a material and phase
func (s *ConnectorDefaults) DefaultProperties(material valueobjects.MaterialType, phase valueobjects.PhaseType) map[string]string {
	props := make(map[string]string)
	switch material {
	case valueobjects.MaterialCable:
		if phase == valueobjects.PhaseThree {
			props[PropCore] = CoreThreePhase
		} else {
			props[PropCore] = CoreSinglePhase
		}
	case valueobjects.MaterialWiring:
		if size, ok := s.MinimumWiringSize(phase); ok {
			props[PropSize] = size
		}
	}
	return props
}

// MinimumWiringSize picks the smallest configured wiring size for the phase
func (s *ConnectorDefaults) MinimumWiringSize(phase valueobjects.PhaseType) (string, bool) {
	pattern := singlePhaseWiring
	if phase == valueobjects.PhaseThree {
		pattern = threePhaseWiring
	}

	best := ""
	bestSize := math.Inf(1)
	for _, candidate := range s.config.WiringSizes {
		if !pattern.MatchString(candidate) {
			continue
		}
		m := pattern.FindStringSubmatch(candidate)
		n, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		if n < bestSize {
			best, bestSize = candidate, n
		}
	}
	return best, best != ""
}

// Apply resolves the material and seeds defaults on a canonical connector.
// Caller-supplied properties win over derived ones.
func (s *ConnectorDefaults) Apply(c *entities.Connector, source, target *entities.Item, material valueobjects.MaterialType) error {
	if material == "" {
		if s.NeedsMaterialPrompt(source, target) {
			return apperrors.NewRejectedError(apperrors.CodeMaterialRequired, "choose Cable or Wiring for this connection")
		}
		material = valueobjects.MaterialCable
	}

	downstream := s.Downstream(c, source, target)
	defaults := s.DefaultProperties(material, s.EffectivePhase(downstream))
	for k, v := range c.Properties {
		defaults[k] = v
	}

	c.MaterialType = material
	c.Properties = defaults
	c.CurrentValues = entities.ZeroCurrentValues()
	return nil
}

func parseVoltage(raw string) (float64, bool) {
	m := leadingNumber.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}
