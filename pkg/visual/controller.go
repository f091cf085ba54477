package visual

import (
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gitlanes/pkg/connector"
)

type element struct {
	color       string
	persisted   State // Default or Selected
	highlighted bool
	hovered     bool
	style       Style
}

// Controller holds the state of every registered element. It is driven by
// one event at a time and is not safe for concurrent use.
type Controller struct {
	base     float64
	brighten float64
	logger   *log.Logger
	elements map[string]*element
	order    []string
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithBaseWidth sets the resting stroke width.
func WithBaseWidth(w float64) Option {
	return func(c *Controller) {
		if w > 0 {
			c.base = w
		}
	}
}

// WithBrighten sets how far emphasized colors are blended toward white.
func WithBrighten(amount float64) Option {
	return func(c *Controller) { c.brighten = amount }
}

// NewController creates an empty controller.
func NewController(opts ...Option) *Controller {
	c := &Controller{
		base:     BaseWidth,
		brighten: BrightenAmount,
		logger:   log.Default(),
		elements: make(map[string]*element),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Register adds an element with its assigned color in the Default state and
// returns its style. Registering a known ID replaces its color and resets it.
func (c *Controller) Register(id, color string) Style {
	if _, ok := c.elements[id]; !ok {
		c.order = append(c.order, id)
	}
	el := &element{color: color}
	el.style = c.compute(el)
	c.elements[id] = el
	return el.style
}

// IDs returns the registered element IDs in registration order.
func (c *Controller) IDs() []string { return slices.Clone(c.order) }

// SetState applies s to the element and returns its new style and whether
// anything changed. Default and Selected are persisted and clear any
// highlight or hover, so Default always shows the base stroke; Highlight
// only changes the appearance.
func (c *Controller) SetState(id string, s State) (Style, bool) {
	el, ok := c.lookup("SetState", id)
	if !ok {
		return Style{}, false
	}
	before, beforeState, beforeHL := el.style, el.persisted, el.highlighted

	switch s {
	case Highlight:
		el.highlighted = true
	case Selected, Default:
		el.persisted = s
		el.highlighted = false
		el.hovered = false
	default:
		c.logger.Warn("visual: unknown state ignored", "element", id, "state", int(s))
		return el.style, false
	}
	el.style = c.compute(el)
	return el.style, el.style != before || el.persisted != beforeState || el.highlighted != beforeHL
}

// PointerEnter records that the pointer moved onto the element. Only Default
// elements react, by widening the stroke without changing its color.
func (c *Controller) PointerEnter(id string) (Style, bool) {
	return c.hover(id, true)
}

// PointerLeave records that the pointer left the element. It ends hover and
// any highlight, restoring the persisted appearance.
func (c *Controller) PointerLeave(id string) (Style, bool) {
	return c.hover(id, false)
}

func (c *Controller) hover(id string, on bool) (Style, bool) {
	el, ok := c.lookup("hover", id)
	if !ok {
		return Style{}, false
	}
	before, beforeHL := el.style, el.highlighted
	el.hovered = on
	if !on {
		el.highlighted = false
	}
	el.style = c.compute(el)
	return el.style, el.style != before || el.highlighted != beforeHL
}

// Style returns the current style of the element.
func (c *Controller) Style(id string) Style {
	el, ok := c.lookup("Style", id)
	if !ok {
		return Style{}
	}
	return el.style
}

// State returns the persisted state of the element.
func (c *Controller) State(id string) State {
	el, ok := c.lookup("State", id)
	if !ok {
		return Default
	}
	return el.persisted
}

// Highlighted reports whether a transient highlight is active.
func (c *Controller) Highlighted(id string) bool {
	el, ok := c.elements[id]
	return ok && el.highlighted
}

// Selected returns the IDs of all Selected elements in registration order.
func (c *Controller) Selected() []string {
	var out []string
	for _, id := range c.order {
		if c.elements[id].persisted == Selected {
			out = append(out, id)
		}
	}
	return out
}

// Reset returns every element to Default with no transient effects.
func (c *Controller) Reset() {
	for _, el := range c.elements {
		el.persisted = Default
		el.highlighted = false
		el.hovered = false
		el.style = c.compute(el)
	}
}

// Base returns the resting style for a color under this controller's widths.
func (c *Controller) Base(color string) Style {
	return Style{Width: c.base, Color: color}
}

// Emphasis returns the Selected/Highlight style for a color.
func (c *Controller) Emphasis(color string) Style {
	return Style{Width: c.base + EmphasisWidth, Color: connector.Brighten(color, c.brighten)}
}

// Hover returns the style of a hovered Default element.
func (c *Controller) Hover(color string) Style {
	return Style{Width: c.base + HoverWidth, Color: color}
}

// compute derives the visible style. Highlight outranks hover.
func (c *Controller) compute(el *element) Style {
	switch {
	case el.highlighted, el.persisted == Selected:
		return c.Emphasis(el.color)
	case el.hovered:
		return c.Hover(el.color)
	default:
		return c.Base(el.color)
	}
}

func (c *Controller) lookup(op, id string) (*element, bool) {
	el, ok := c.elements[id]
	if !ok {
		c.logger.Warn("visual: unknown element", "op", op, "element", id)
	}
	return el, ok
}
