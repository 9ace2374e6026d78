package align

import (
	"fmt"

	"github.com/UCBerkeley-Spring2022-CS284A-Project/HDR/pkg/distance"
	"github.com/UCBerkeley-Spring2022-CS284A-Project/HDR/pkg/plane"
)

// LevelAlign performs bounded block-matching search of every reference
// tile against alt, seeded by the upsampled prior alignment, per spec
// section 4.5. alt is padded by searchRadius once, up front, with
// padFill; the search clamp reuses the padded dimension as its ceiling
// (padHeight - (tileSize + 2*searchRadius)) so the subsequent [0, 2r]
// candidate offsets walk back into the legal padded range — this
// combined offset must be reproduced exactly or the effective search
// window shifts (see spec section 9, open question 3).
func LevelAlign(ref, alt plane.PixelPlane, tileSize, searchRadius int, metric distance.Kind, padFill uint16, prior Grid) (Grid, error) {
	h, w := GridShape(ref.Height(), ref.Width(), tileSize)
	if h <= 0 || w <= 0 {
		return Grid{}, fmt.Errorf("%w: %dx%d plane with tile %d yields grid %dx%d", ErrTileGeometryInvalid, ref.Height(), ref.Width(), tileSize, h, w)
	}
	if prior.Height() != h || prior.Width() != w {
		return Grid{}, fmt.Errorf("%w: prior grid %dx%d does not match level grid %dx%d", ErrTileGeometryInvalid, prior.Height(), prior.Width(), h, w)
	}

	distFn, err := distance.For(metric, tileSize)
	if err != nil {
		return Grid{}, err
	}

	altPad := alt.Pad(searchRadius, padFill)
	rowMax := altPad.Height() - (tileSize + 2*searchRadius)
	colMax := altPad.Width() - (tileSize + 2*searchRadius)

	half := tileSize / 2
	out := NewGrid(w, h)
	for i := 0; i < h; i++ {
		refRow := i * half
		for j := 0; j < w; j++ {
			refCol := j * half
			seed := prior.Get(i, j)

			altRow := clampInt(refRow+seed.DY, 0, rowMax)
			altCol := clampInt(refCol+seed.DX, 0, colMax)

			var best uint64
			bestA, bestB := 0, 0
			haveBest := false
			// Row-major scan, a outer, b inner: first-seen wins on ties,
			// which is observable and must be reproduced (spec 4.5 step 5).
			for a := 0; a <= 2*searchRadius; a++ {
				for b := 0; b <= 2*searchRadius; b++ {
					d, err := distFn(ref, altPad, refRow, refCol, altRow+a, altCol+b)
					if err != nil {
						return Grid{}, err
					}
					if !haveBest || d < best {
						best = d
						bestA, bestB = a, b
						haveBest = true
					}
				}
			}

			out.Set(i, j, Displacement{
				DY: seed.DY + bestA - searchRadius,
				DX: seed.DX + bestB - searchRadius,
			})
		}
	}
	return out, nil
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
