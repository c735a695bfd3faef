package services

import (
	"github.com/rickerduniya/Sayanho-sub000/domain/core/valueobjects"
)

// itemPhaseTable declares the supply phase of catalogue item types. Types not
// listed are unknown unless the item carries a Voltage property.
var itemPhaseTable = map[string]valueobjects.PhaseType{
	// Incoming supply and main distribution
	"Source":                 valueobjects.PhaseThree,
	"Main Switch Open":       valueobjects.PhaseThree,
	"Changeover Switch Open": valueobjects.PhaseThree,
	"ACB":                    valueobjects.PhaseThree,
	"MCCB":                   valueobjects.PhaseThree,
	"LT Cubical Panel":       valueobjects.PhaseThree,
	"Busbar Chamber":         valueobjects.PhaseThree,
	"VTPN":                   valueobjects.PhaseThree,
	"HTPN":                   valueobjects.PhaseThree,
	"Cubical Panel":          valueobjects.PhaseThree,
	"Motor":                  valueobjects.PhaseThree,

	// Final distribution and loads
	"MCB":                  valueobjects.PhaseSingle,
	"Main Switch":          valueobjects.PhaseSingle,
	"SPN DB":               valueobjects.PhaseSingle,
	"Point Switch Board":   valueobjects.PhaseSingle,
	"Avg. 5A Switch Board": valueobjects.PhaseSingle,
	"Bulb":                 valueobjects.PhaseSingle,
	"Tube Light":           valueobjects.PhaseSingle,
	"Ceiling Fan":          valueobjects.PhaseSingle,
	"Exhaust Fan":          valueobjects.PhaseSingle,
	"Split AC":             valueobjects.PhaseSingle,
	"Geyser":               valueobjects.PhaseSingle,
	"Socket":               valueobjects.PhaseSingle,
}

// threePhaseVoltage is the lowest declared voltage treated as three-phase
const threePhaseVoltage = 380.0
