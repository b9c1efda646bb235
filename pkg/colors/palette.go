package colors

import "github.com/harrisonrobin/taskcal/pkg/model"

// Swatch is one priority's color in every target the tool renders to.
type Swatch struct {
	Hex      string // terminal and ICS rendering
	GoogleID string // Google Calendar event colorId
}

const (
	Green   = "#2e7d32"
	Amber   = "#ffb300"
	Red     = "#c62828"
	Neutral = "#9e9e9e"
)

var (
	// Google Calendar event colors: 10 basil, 5 banana, 11 tomato, 8 graphite.
	optional  = Swatch{Hex: Green, GoogleID: "10"}
	important = Swatch{Hex: Amber, GoogleID: "5"}
	critical  = Swatch{Hex: Red, GoogleID: "11"}
	neutral   = Swatch{Hex: Neutral, GoogleID: "8"}
)

// ForPriority returns the swatch for p. Unmapped priorities get the neutral
// swatch, never an empty color, so the event still renders.
func ForPriority(p model.Priority) Swatch {
	switch p {
	case model.PriorityOptional:
		return optional
	case model.PriorityImportant:
		return important
	case model.PriorityCritical:
		return critical
	default:
		return neutral
	}
}

// Hex is shorthand for ForPriority(p).Hex.
func Hex(p model.Priority) string {
	return ForPriority(p).Hex
}

// GoogleID is shorthand for ForPriority(p).GoogleID.
func GoogleID(p model.Priority) string {
	return ForPriority(p).GoogleID
}
