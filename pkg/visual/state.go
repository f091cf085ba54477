// Package visual tracks the interaction state of drawn elements and derives
// the stroke style a renderer should apply to each.
//
// There are two layers. The persisted state ([Default] or [Selected]) is a
// user's choice and only changes through [Controller.SetState]. On top of it
// sit transient effects: [Highlight] and pointer hover. Transient effects
// never overwrite the persisted state, so ending them restores exactly the
// appearance the element had before.
//
// The controller produces [Style] values and never touches a drawing
// surface; the SVG renderer and the terminal browser both apply its output.
package visual

import (
	"fmt"
	"strings"
)

// State is the interaction state requested for an element.
type State int

const (
	// Default is the resting appearance.
	Default State = iota
	// Selected is a persisted emphasis that lasts until the next SetState.
	Selected
	// Highlight looks like Selected but is never persisted.
	Highlight
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case Selected:
		return "selected"
	case Highlight:
		return "highlight"
	default:
		return "default"
	}
}

// ParseState parses a state name as returned by [State.String].
func ParseState(s string) (State, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "default":
		return Default, nil
	case "selected":
		return Selected, nil
	case "highlight":
		return Highlight, nil
	}
	return Default, fmt.Errorf("unknown state %q", s)
}

// Style is the stroke applied to an element.
type Style struct {
	Width float64
	Color string
}

// Stroke defaults.
const (
	BaseWidth      = 3.0
	EmphasisWidth  = 3.0 // added for Selected and Highlight
	HoverWidth     = 1.0 // added while hovering a Default element
	BrightenAmount = 0.5
)
