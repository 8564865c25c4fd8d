package vocab

// Fatigue is the athlete's self-reported fatigue level.
type Fatigue string

const (
	FatigueLow      Fatigue = "low"
	FatigueModerate Fatigue = "moderate"
	FatigueHigh     Fatigue = "high"
)

// ParseFatigue maps a raw fatigue answer onto a Fatigue. Anything unrecognised is moderate.
func ParseFatigue(raw string) Fatigue {
	switch Slug(raw) {
	case "low", "fresh", "none", "minimal":
		return FatigueLow
	case "high", "very_high", "exhausted", "severe":
		return FatigueHigh
	default:
		return FatigueModerate
	}
}
