package domain

import "fmt"

// Priority is stored as a single letter code so that a plain ascending sort
// on the stored value yields highest-severity first. The code<->name pair is
// an explicit bidirectional mapping, not an iota trick.
type Priority string

const (
	PriorityVeryHigh Priority = "a"
	PriorityHigh     Priority = "b"
	PriorityMedium   Priority = "c"
	PriorityLow      Priority = "d"
	PriorityVeryLow  Priority = "e"
)

var priorityNames = map[Priority]string{
	PriorityVeryHigh: "veryhigh",
	PriorityHigh:     "high",
	PriorityMedium:   "medium",
	PriorityLow:      "low",
	PriorityVeryLow:  "verylow",
}

var priorityCodes = map[string]Priority{
	"veryhigh": PriorityVeryHigh,
	"high":     PriorityHigh,
	"medium":   PriorityMedium,
	"low":      PriorityLow,
	"verylow":  PriorityVeryLow,
}

// Name returns the display name for the stored code.
func (p Priority) Name() string {
	return priorityNames[p]
}

func (p Priority) Valid() bool {
	_, ok := priorityNames[p]
	return ok
}

// ParsePriority accepts the display name ("veryhigh".."verylow").
func ParsePriority(name string) (Priority, error) {
	p, ok := priorityCodes[name]
	if !ok {
		return "", fmt.Errorf("unknown priority %q", name)
	}
	return p, nil
}
