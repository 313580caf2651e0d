package notation

import "strings"

// Marker is a set of annotations attached to a single touch.
type Marker uint8

const (
	MarkerDrop Marker = 1 << iota
	MarkerPoint
	MarkerFoul
	MarkerSnatch
)

// Has reports whether every marker in x is present in m.
func (m Marker) Has(x Marker) bool {
	return m&x == x
}

func (m Marker) String() string {
	if m == 0 {
		return "none"
	}
	var parts []string
	for _, p := range markerPatterns {
		if m.Has(p.marker) {
			parts = append(parts, p.name)
		}
	}
	return strings.Join(parts, "|")
}

// markerPatterns lists the inline annotations recognised after a player code.
var markerPatterns = []struct {
	text   string
	name   string
	marker Marker
}{
	{text: "*", name: "drop", marker: MarkerDrop},
	{text: "(P)", name: "point", marker: MarkerPoint},
	{text: "(F)", name: "foul", marker: MarkerFoul},
	{text: "(S)", name: "snatch", marker: MarkerSnatch},
}

// Outcome is what happened when a player ended their touch.
type Outcome int

const (
	OutcomeThrow Outcome = iota
	OutcomeDrop
	OutcomeFoul
	OutcomeScore
)

func (o Outcome) String() string {
	switch o {
	case OutcomeDrop:
		return "drop"
	case OutcomeFoul:
		return "foul"
	case OutcomeScore:
		return "score"
	default:
		return "throw"
	}
}

// outcomePrecedence resolves the outcome slot of a touch. The first marker present
// wins; a touch carrying none of them is a throw.
var outcomePrecedence = []struct {
	marker  Marker
	outcome Outcome
}{
	{marker: MarkerDrop, outcome: OutcomeDrop},
	{marker: MarkerFoul, outcome: OutcomeFoul},
	{marker: MarkerPoint, outcome: OutcomeScore},
}

// Outcome resolves the marker set to a single touch outcome.
func (m Marker) Outcome() Outcome {
	for _, p := range outcomePrecedence {
		if m.Has(p.marker) {
			return p.outcome
		}
	}
	return OutcomeThrow
}
