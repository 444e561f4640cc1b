package cleaning

import "image/color"

var cleaningPalette = []color.RGBA{
	uint8(Clean): {R: 235, G: 235, B: 228, A: 255},
	uint8(Dirty): {R: 92, G: 64, B: 38, A: 255},
	AgentValue:   {R: 40, G: 120, B: 220, A: 255},
}

// Palette exposes the colors used for rendering snapshot values.
func (m *Model) Palette() []color.RGBA { return Palette() }

// Palette returns the snapshot palette indexed by cell value.
func Palette() []color.RGBA {
	out := make([]color.RGBA, len(cleaningPalette))
	copy(out, cleaningPalette)
	return out
}
