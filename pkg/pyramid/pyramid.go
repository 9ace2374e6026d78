// Package pyramid builds a 4-level Gaussian pyramid from a source
// PixelPlane, following the descending inverse-scale-factor sequence
// [1, 2, 4, 4]: level 0 is the source, and each subsequent level is a
// Gaussian blur of the previous level (σ = 0.5 × factor) followed by
// nearest-neighbour decimation by that factor.
package pyramid

import (
	"errors"
	"fmt"
	"math"

	"github.com/UCBerkeley-Spring2022-CS284A-Project/HDR/pkg/plane"
)

// NumLevels is fixed by the spec: index 0 is finest, index 3 coarsest.
const NumLevels = 4

// DefaultInvScaleFactors is the fixed descending factor sequence the
// Burst Aligner uses; level i's plane is level i-1's plane reduced by
// this much.
var DefaultInvScaleFactors = [NumLevels]int{1, 2, 4, 4}

// ErrInvalidScaleFactor is returned when a requested factor is not in
// the supported set {1, 2, 4}.
var ErrInvalidScaleFactor = errors.New("pyramid: invalid scale factor")

// Pyramid is an ordered sequence of NumLevels PixelPlanes. Levels[0]
// equals the source plane element-wise; Levels[3] is the coarsest.
// Each Pyramid owns its planes exclusively.
type Pyramid struct {
	Levels [NumLevels]plane.PixelPlane
}

// Build produces a Pyramid from src using the given inverse-scale
// factors (normally DefaultInvScaleFactors). Every factor after the
// first must be 1, 2, or 4.
func Build(src plane.PixelPlane, invScaleFactors [NumLevels]int) (Pyramid, error) {
	var pyr Pyramid
	pyr.Levels[0] = src.Pad(0, 0) // radius 0: a copy, so the pyramid owns level 0 too.

	for i := 1; i < NumLevels; i++ {
		factor := invScaleFactors[i]
		switch factor {
		case 1:
			pyr.Levels[i] = pyr.Levels[i-1]
		case 2, 4:
			blurred := gaussianBlur(pyr.Levels[i-1], float64(factor)*0.5)
			pyr.Levels[i] = downsampleNearest(blurred, factor)
		default:
			return Pyramid{}, fmt.Errorf("%w: %d", ErrInvalidScaleFactor, factor)
		}
	}

	return pyr, nil
}

// gaussianBlur applies a separable Gaussian blur with the given sigma,
// using edge-replicated borders (OpenCV's default BORDER_REPLICATE).
func gaussianBlur(src plane.PixelPlane, sigma float64) plane.PixelPlane {
	kernel := cachedGaussianKernel(sigma)
	radius := len(kernel) / 2

	w, h := src.Width(), src.Height()

	// Horizontal pass into a float64 intermediate.
	tmp := make([]float64, w*h)
	for r := 0; r < h; r++ {
		for c := 0; c < w; c++ {
			sum := 0.0
			for k := -radius; k <= radius; k++ {
				cc := clamp(c+k, 0, w-1)
				sum += kernel[k+radius] * float64(src.At(r, cc))
			}
			tmp[r*w+c] = sum
		}
	}

	// Vertical pass, writing the final uint16 result.
	out := plane.New(w, h)
	data := out.Data()
	for r := 0; r < h; r++ {
		for c := 0; c < w; c++ {
			sum := 0.0
			for k := -radius; k <= radius; k++ {
				rr := clamp(r+k, 0, h-1)
				sum += kernel[k+radius] * tmp[rr*w+c]
			}
			data[out.RowOffset(r, c)] = roundToU16(sum)
		}
	}
	return out
}

// downsampleNearest decimates src by factor, taking samples at
// positions (i*factor, j*factor).
func downsampleNearest(src plane.PixelPlane, factor int) plane.PixelPlane {
	w, h := src.Width()/factor, src.Height()/factor
	out := plane.New(w, h)
	data := out.Data()
	for r := 0; r < h; r++ {
		for c := 0; c < w; c++ {
			data[out.RowOffset(r, c)] = src.At(r*factor, c*factor)
		}
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func roundToU16(v float64) uint16 {
	v = math.Round(v)
	if v < 0 {
		return 0
	}
	if v > 65535 {
		return 65535
	}
	return uint16(v)
}
