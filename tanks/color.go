package tanks

import (
	"image/color"
	"math"
)

// TankColor returns the palette colour for a tank id. Hues step by 18 degrees
// and repeat every 20 ids.
func TankColor(id uint32) color.RGBA {
	hue := float64(id%20) * 18
	x := 1 - math.Abs(math.Mod(hue/60, 2)-1)

	var r, g, b float64
	switch {
	case hue < 60:
		r, g, b = 1, x, 0
	case hue < 120:
		r, g, b = x, 1, 0
	case hue < 180:
		r, g, b = 0, 1, x
	case hue < 240:
		r, g, b = 0, x, 1
	case hue < 300:
		r, g, b = x, 0, 1
	default:
		r, g, b = 1, 0, x
	}
	return color.RGBA{R: channel(r), G: channel(g), B: channel(b), A: 0xff}
}

func channel(v float64) uint8 {
	return uint8(math.Round(v * 0xff))
}
