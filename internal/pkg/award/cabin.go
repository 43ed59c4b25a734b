package award

import "strings"

// CabinClass is the cabin requested by the caller.
type CabinClass string

const (
	Economy        CabinClass = "economy"
	PremiumEconomy CabinClass = "premium_economy"
	Business       CabinClass = "business"
	First          CabinClass = "first"
)

var cabinClasses = []CabinClass{Economy, PremiumEconomy, Business, First}

// CabinClasses returns every known cabin in display order.
func CabinClasses() []CabinClass {
	out := make([]CabinClass, len(cabinClasses))
	copy(out, cabinClasses)
	return out
}

// ParseCabinClass accepts the canonical encodings ("economy", "premium_economy", ...)
// case-insensitively. Hyphens and spaces are treated as underscores.
func ParseCabinClass(s string) (CabinClass, bool) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	normalized = strings.NewReplacer("-", "_", " ", "_").Replace(normalized)

	for _, c := range cabinClasses {
		if string(c) == normalized {
			return c, true
		}
	}
	return "", false
}

func (c CabinClass) Valid() bool {
	for _, known := range cabinClasses {
		if c == known {
			return true
		}
	}
	return false
}

func (c CabinClass) String() string {
	return string(c)
}
