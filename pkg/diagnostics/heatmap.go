// Package diagnostics renders read-only, post-hoc views of a
// completed alignment: false-color displacement heatmaps and
// magnitude/distance distributions. Nothing here feeds back into
// alignment; every function takes a finished result and observes it
// (teacher idiom: pkg/emath/floatgrid.go's FloatGrid.ToImg).
package diagnostics

import (
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/UCBerkeley-Spring2022-CS284A-Project/HDR/pkg/align"
)

// coldColor and hotColor are the endpoints of the perceptually-smooth
// gradient displacement magnitude is mapped through: a cool blue for
// near-zero displacement, a hot red for tiles saturating their search
// envelope.
var (
	coldColor = colorful.Color{R: 0.10, G: 0.15, B: 0.60}
	hotColor  = colorful.Color{R: 0.85, G: 0.10, B: 0.05}
)

// Magnitude returns sqrt(dy²+dx²) for a Displacement.
func Magnitude(d align.Displacement) float64 {
	return math.Sqrt(float64(d.DY*d.DY + d.DX*d.DX))
}

// gammaExpandF64 converts a linear [0,1] value to sRGB gamma space
// (teacher idiom: pkg/emath/misc.go GammaExpand_F64), so small
// displacement magnitudes aren't crushed toward the cold end of the
// gradient the way raw linear interpolation would render them.
func gammaExpandF64(f float64) float64 {
	if f <= 0.0031308 {
		return 12.92 * f
	}
	return 1.055*math.Pow(f, 1.0/2.4) - 0.055
}

// RenderHeatmap draws one pixel per grid cell, colored by displacement
// magnitude on a fixed [0, maxMagnitude] scale (so heatmaps across
// frames/levels are visually comparable), with title text overlaid,
// and saves it as a PNG.
func RenderHeatmap(g align.Grid, maxMagnitude float64, title, filename string) error {
	img := image.NewRGBA(image.Rect(0, 0, g.Width(), g.Height()))
	for row := 0; row < g.Height(); row++ {
		for col := 0; col < g.Width(); col++ {
			mag := Magnitude(g.Get(row, col))
			t := 0.0
			if maxMagnitude > 0 {
				t = mag / maxMagnitude
			}
			if t > 1 {
				t = 1
			}
			c := coldColor.BlendLab(hotColor, gammaExpandF64(t))
			r, gr, b := c.RGB255()
			img.Set(col, row, color.RGBA{R: r, G: gr, B: b, A: 0xFF})
		}
	}

	dc := gg.NewContextForImage(img)
	dc.SetRGB(1, 1, 1)
	dc.DrawString(title, 4, 12)
	return dc.SavePNG(filename)
}

// GridMaxMagnitude scans g for its largest displacement magnitude,
// used to pick a fixed heatmap scale per level.
func GridMaxMagnitude(g align.Grid) float64 {
	max := 0.0
	for row := 0; row < g.Height(); row++ {
		for col := 0; col < g.Width(); col++ {
			if m := Magnitude(g.Get(row, col)); m > max {
				max = m
			}
		}
	}
	return max
}
