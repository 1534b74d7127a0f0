package blocks

import "github.com/matzehuels/stackmotion/pkg/scene"

type namedColor struct {
	name string
	rgba scene.Color
}

func rgb(name string, r, g, b float64) namedColor {
	return namedColor{name: name, rgba: scene.Color{r / 255, g / 255, b / 255, 1}}
}

var palette = []namedColor{
	rgb("gray", 87, 87, 87),
	rgb("red", 173, 35, 35),
	rgb("blue", 42, 75, 215),
	rgb("green", 29, 105, 20),
	rgb("brown", 129, 74, 25),
	rgb("purple", 129, 38, 192),
	rgb("cyan", 41, 208, 208),
	rgb("yellow", 255, 238, 51),
}

// ColorName returns the palette name closest to c.
func ColorName(c scene.Color) string {
	best, bestDist := "", 1e9
	for _, p := range palette {
		d := 0.0
		for i := range 3 {
			d += (p.rgba[i] - c[i]) * (p.rgba[i] - c[i])
		}
		if d < bestDist {
			best, bestDist = p.name, d
		}
	}
	return best
}
