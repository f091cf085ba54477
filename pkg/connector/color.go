package connector

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Palette is an ordered list of hex colors, one per lane.
type Palette []string

// goldenAngle spaces generated hues so neighbouring lanes stay distinct.
const goldenAngle = 137.508

// DefaultPalette returns the built-in lane colors.
func DefaultPalette() Palette {
	return Palette{
		"#1f77b4",
		"#ff7f0e",
		"#2ca02c",
		"#d62728",
		"#9467bd",
		"#8c564b",
		"#e377c2",
		"#17becf",
	}
}

// ColorForLane returns the color of lane. Lanes past the palette get a hue
// derived from the lane index, so the result is deterministic for any lane.
// Negative lanes use the first color.
func (p Palette) ColorForLane(lane int) string {
	if len(p) == 0 {
		p = DefaultPalette()
	}
	if lane < 0 {
		lane = 0
	}
	if lane < len(p) {
		return p[lane]
	}
	hue := math.Mod(float64(lane)*goldenAngle, 360)
	return colorful.Hsv(hue, 0.65, 0.8).Hex()
}

// Validate checks that every entry parses as a hex color.
func (p Palette) Validate() error {
	for i, c := range p {
		if _, err := colorful.Hex(c); err != nil {
			return fmt.Errorf("palette entry %d: invalid color %q", i, c)
		}
	}
	return nil
}

// Brighten blends hex toward white by amount (0 keeps the color, 1 gives
// white). Colors that do not parse are returned unchanged.
func Brighten(hex string, amount float64) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return hex
	}
	amount = math.Max(0, math.Min(1, amount))
	return c.BlendRgb(colorful.Color{R: 1, G: 1, B: 1}, amount).Clamped().Hex()
}
