package detectors

import (
	"github.com/textguard/textguard/internal/types"
	v "github.com/textguard/textguard/internal/validate"
)

// Validator confirms a lexical match, typically with a checksum.
type Validator func(value string) bool

var defaultValidators = map[types.ThreatType]Validator{
	types.CreditCard: v.CreditCard,
}

// StrictValidators are opt-in checks that reject matches the default set
// accepts on shape alone.
var StrictValidators = map[types.ThreatType]Validator{
	types.BusinessNumber: v.BusinessNumberKR,
}
