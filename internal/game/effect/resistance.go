package effect

import "fmt"

// ResistancePolicy maps a resistance stat to the percent chance of shrugging
// off a negative effect.
type ResistancePolicy int

const (
	// LinearResistance resists with chance resistance/10.
	LinearResistance ResistancePolicy = iota
	// QuadraticResistance resists with chance (resistance/10)^2/10.
	QuadraticResistance
)

// String returns the policy's configuration name.
func (p ResistancePolicy) String() string {
	switch p {
	case LinearResistance:
		return "linear"
	case QuadraticResistance:
		return "quadratic"
	default:
		return "unknown"
	}
}

// ParseResistancePolicy maps a configuration name to a policy.
func ParseResistancePolicy(s string) (ResistancePolicy, error) {
	switch s {
	case "linear":
		return LinearResistance, nil
	case "quadratic":
		return QuadraticResistance, nil
	default:
		return LinearResistance, fmt.Errorf("effect: unknown resistance policy %q", s)
	}
}

// Chance returns the resist percentage for resistance.
//
// Postcondition: result >= 0 and is monotonic non-decreasing in resistance.
func (p ResistancePolicy) Chance(resistance int) float64 {
	if resistance <= 0 {
		return 0
	}
	r := float64(resistance) / 10
	if p == QuadraticResistance {
		return r * r / 10
	}
	return r
}
