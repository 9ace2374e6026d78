package align

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/UCBerkeley-Spring2022-CS284A-Project/HDR/pkg/distance"
	"github.com/UCBerkeley-Spring2022-CS284A-Project/HDR/pkg/plane"
	"github.com/UCBerkeley-Spring2022-CS284A-Project/HDR/pkg/pyramid"
)

func TestParamsValidateDefaultIsClean(t *testing.T) {
	require.NoError(t, DefaultParams().Validate())
}

func TestParamsValidateRejectsBadScaleFactor(t *testing.T) {
	p := DefaultParams()
	p.InvScaleFactors[1] = 3
	require.ErrorIs(t, p.Validate(), ErrInvalidScaleFactor)
}

func TestParamsValidateRejectsBadTileSize(t *testing.T) {
	p := DefaultParams()
	p.TileSizes[0] = 12
	require.ErrorIs(t, p.Validate(), ErrTileGeometryInvalid)
}

func TestParamsValidateRejectsNegativeRadius(t *testing.T) {
	p := DefaultParams()
	p.SearchRadii[0] = -1
	require.ErrorIs(t, p.Validate(), ErrTileGeometryInvalid)
}

func TestParamsValidateRejectsZeroParallelism(t *testing.T) {
	p := DefaultParams()
	p.Parallelism = 0
	require.Error(t, p.Validate())
}

func TestCompoundSearchEnvelope(t *testing.T) {
	p := DefaultParams()
	// spec section 8: sum_{i>=L} (search_radii[i] * prod_{j>i} inv_scale_factors[j]).
	// invScaleFactors = [1,2,4,4], radii = [1,4,4,1]:
	//   level0: 1*(2*4*4) + 4*(4*4) + 4*4 + 1 = 32+64+16+1 = 113
	//   level1: 4*(4*4) + 4*4 + 1 = 64+16+1 = 81
	//   level2: 4*4 + 1 = 17
	//   level3: 1
	require.Equal(t, 113, p.CompoundSearchEnvelope(0))
	require.Equal(t, 81, p.CompoundSearchEnvelope(1))
	require.Equal(t, 17, p.CompoundSearchEnvelope(2))
	require.Equal(t, 1, p.CompoundSearchEnvelope(3))
}

func hashPattern(r, c int) uint16 { return uint16((uint32(r)*2654435761 + uint32(c)*40503) & 0xFFFF) }

func hashPlane(w, h int) plane.PixelPlane {
	p := plane.New(w, h)
	for r := 0; r < h; r++ {
		for c := 0; c < w; c++ {
			p.Data()[r*w+c] = hashPattern(r, c)
		}
	}
	return p
}

func TestAlignIdentityYieldsZeroGrid(t *testing.T) {
	const size = 256
	frame := hashPlane(size, size)
	burst := Burst{Frames: []plane.PixelPlane{frame, frame}, ReferenceIndex: 0}

	results, err := Align(burst, DefaultParams())
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.True(t, results[1].Levels[0].IsZero())
}

func TestAlignRejectsReferenceIndexOutOfRange(t *testing.T) {
	frame := hashPlane(64, 64)
	burst := Burst{Frames: []plane.PixelPlane{frame}, ReferenceIndex: 5}
	_, err := Align(burst, DefaultParams())
	require.Error(t, err)
}

func TestAlignPropagatesParamsValidationError(t *testing.T) {
	frame := hashPlane(64, 64)
	burst := Burst{Frames: []plane.PixelPlane{frame, frame}, ReferenceIndex: 0}
	p := DefaultParams()
	p.InvScaleFactors[1] = 3
	_, err := Align(burst, p)
	require.ErrorIs(t, err, ErrInvalidScaleFactor)
}

func TestAlignTranslationWithinEnvelopeRecoveredOnInteriorTiles(t *testing.T) {
	const size = 256
	sy, sx := 3, -2

	ref := hashPlane(size, size)
	alt := plane.New(size, size)
	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			rr, cc := r-sy, c-sx
			if rr < 0 || rr >= size || cc < 0 || cc >= size {
				continue
			}
			alt.Data()[r*size+c] = hashPattern(rr, cc)
		}
	}

	burst := Burst{Frames: []plane.PixelPlane{ref, alt}, ReferenceIndex: 0}
	results, err := Align(burst, DefaultParams())
	require.NoError(t, err)

	g := results[1].Levels[0]
	margin := 2
	matches, total := 0, 0
	for i := margin; i < g.Height()-margin; i++ {
		for j := margin; j < g.Width()-margin; j++ {
			total++
			if g.Get(i, j) == (Displacement{DY: sy, DX: sx}) {
				matches++
			}
		}
	}
	require.Equal(t, total, matches, "every interior tile should recover the exact translation")
}

func TestAlignOutOfEnvelopeShiftSaturatesWithoutFailing(t *testing.T) {
	const size = 256
	ref := hashPlane(size, size)

	params := DefaultParams()
	envelope := params.CompoundSearchEnvelope(0)

	sy, sx := 150, 0 // exceeds the level-0 compound envelope of 113: the grid's own recursion must still bound it there.
	alt := plane.New(size, size)
	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			rr, cc := r-sy, c-sx
			if rr < 0 || rr >= size || cc < 0 || cc >= size {
				continue
			}
			alt.Data()[r*size+c] = hashPattern(rr, cc)
		}
	}

	burst := Burst{Frames: []plane.PixelPlane{ref, alt}, ReferenceIndex: 0}
	results, err := Align(burst, params)
	require.NoError(t, err, "engine does not fail on out-of-envelope shifts")

	g := results[1].Levels[0]
	for i := 0; i < g.Height(); i++ {
		for j := 0; j < g.Width(); j++ {
			d := g.Get(i, j)
			require.LessOrEqual(t, abs(d.DY), envelope)
			require.LessOrEqual(t, abs(d.DX), envelope)
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func TestAlignWithParallelismMatchesSequential(t *testing.T) {
	const size = 256 // smallest power of two whose level 3 (size/32) still fits one 8-pixel tile.
	ref := hashPlane(size, size)
	alt1 := hashPlane(size+1, size+1) // distinct content per frame.
	alt2 := hashPlane(size+2, size+2)
	_ = alt1
	_ = alt2

	frames := []plane.PixelPlane{ref, hashPlaneOffset(size, size, 1), hashPlaneOffset(size, size, 2)}
	burst := Burst{Frames: frames, ReferenceIndex: 0}

	seqParams := DefaultParams()
	seqParams.Parallelism = 1
	parParams := DefaultParams()
	parParams.Parallelism = 4

	seqResults, err := Align(burst, seqParams)
	require.NoError(t, err)
	parResults, err := Align(burst, parParams)
	require.NoError(t, err)

	for k := range frames {
		require.Equal(t, seqResults[k].Levels[0], parResults[k].Levels[0], "frame %d", k)
	}
}

func hashPlaneOffset(w, h int, salt int) plane.PixelPlane {
	p := plane.New(w, h)
	for r := 0; r < h; r++ {
		for c := 0; c < w; c++ {
			p.Data()[r*w+c] = hashPattern(r+salt, c+salt)
		}
	}
	return p
}

func TestAlignReferenceFrameEntryIsZeroAtEveryLevel(t *testing.T) {
	frame := hashPlane(256, 256)
	burst := Burst{Frames: []plane.PixelPlane{frame, frame}, ReferenceIndex: 0}
	results, err := Align(burst, DefaultParams())
	require.NoError(t, err)
	for level := 0; level < pyramid.NumLevels; level++ {
		require.True(t, results[0].Levels[level].IsZero(), "reference level %d", level)
	}
}

func TestLevelAlignRejectsMismatchedPriorShape(t *testing.T) {
	ref := plane.New(32, 32)
	alt := plane.New(32, 32)
	_, err := LevelAlign(ref, alt, 8, 1, distance.L2, 0xFFFF, NewGrid(1, 1))
	require.ErrorIs(t, err, ErrTileGeometryInvalid)
}
