package align

import (
	"fmt"
	"sync"

	"github.com/UCBerkeley-Spring2022-CS284A-Project/HDR/pkg/plane"
	"github.com/UCBerkeley-Spring2022-CS284A-Project/HDR/pkg/pyramid"
)

// Align produces alignments for every frame in the burst: the
// reference frame's entry is all-zero at every level (it is never
// computed, only implied); every other frame is driven coarse-to-fine
// through the Alignment Upsampler and Level Aligner per spec section
// 4.6.
//
// When params.Parallelism > 1, frames are aligned by a fixed-size
// worker pool (teacher idiom: pkg/eclipse/alignment.go
// scoreXFormsConcurrently's jobs/results channel pair). Frames are
// independent given the fixed reference pyramid, so this changes
// nothing about tie-break or ordering guarantees — each frame's own
// tile scan stays sequential.
func Align(burst Burst, params Params) ([]AlignmentResult, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if burst.ReferenceIndex < 0 || burst.ReferenceIndex >= len(burst.Frames) {
		return nil, fmt.Errorf("align: reference index %d out of range for %d frames", burst.ReferenceIndex, len(burst.Frames))
	}

	refPyr, err := pyramid.Build(burst.Frames[burst.ReferenceIndex], params.InvScaleFactors)
	if err != nil {
		return nil, err
	}

	results := make([]AlignmentResult, len(burst.Frames))
	results[burst.ReferenceIndex] = zeroResult(burst.ReferenceIndex, refPyr, params)

	var altIndices []int
	for k := range burst.Frames {
		if k != burst.ReferenceIndex {
			altIndices = append(altIndices, k)
		}
	}
	if len(altIndices) == 0 {
		return results, nil
	}

	type job struct{ idx int }
	type out struct {
		idx    int
		result AlignmentResult
		err    error
	}

	jobsChan := make(chan job, len(altIndices))
	resultsChan := make(chan out, len(altIndices))

	nWorkers := params.Parallelism
	if nWorkers > len(altIndices) {
		nWorkers = len(altIndices)
	}

	var wg sync.WaitGroup
	for i := 0; i < nWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobsChan {
				r, err := alignFrame(refPyr, burst.Frames[j.idx], j.idx, params)
				resultsChan <- out{idx: j.idx, result: r, err: err}
			}
		}()
	}

	for _, k := range altIndices {
		jobsChan <- job{idx: k}
	}
	close(jobsChan)
	wg.Wait()
	close(resultsChan)

	for o := range resultsChan {
		if o.err != nil {
			return nil, o.err
		}
		results[o.idx] = o.result
	}
	return results, nil
}

// alignFrame drives one non-reference frame's pyramid coarse-to-fine
// through the Alignment Upsampler and Level Aligner.
func alignFrame(refPyr pyramid.Pyramid, altFrame plane.PixelPlane, idx int, params Params) (AlignmentResult, error) {
	altPyr, err := pyramid.Build(altFrame, params.InvScaleFactors)
	if err != nil {
		return AlignmentResult{}, err
	}

	var levels [pyramid.NumLevels]Grid
	var prev Grid
	for level := pyramid.NumLevels - 1; level >= 0; level-- {
		ref := refPyr.Levels[level]
		alt := altPyr.Levels[level]
		tileSize := params.TileSizes[level]

		h, w := GridShape(ref.Height(), ref.Width(), tileSize)
		if h <= 0 || w <= 0 {
			return AlignmentResult{}, fmt.Errorf("%w: level %d grid %dx%d", ErrTileGeometryInvalid, level, h, w)
		}

		var prior Grid
		if level == pyramid.NumLevels-1 {
			prior = NewGrid(w, h)
		} else {
			pyramidRatio := params.InvScaleFactors[level+1]
			tileRatio := params.TileSizes[level] / params.TileSizes[level+1]
			prior, err = Upsample(prev, pyramidRatio, tileRatio, h, w)
			if err != nil {
				return AlignmentResult{}, err
			}
		}

		curr, err := LevelAlign(ref, alt, tileSize, params.SearchRadii[level], params.Metrics[level], params.PadFill, prior)
		if err != nil {
			return AlignmentResult{}, err
		}
		levels[level] = curr
		prev = curr
	}
	return AlignmentResult{FrameIndex: idx, Levels: levels}, nil
}

func zeroResult(idx int, pyr pyramid.Pyramid, params Params) AlignmentResult {
	var levels [pyramid.NumLevels]Grid
	for level := 0; level < pyramid.NumLevels; level++ {
		h, w := GridShape(pyr.Levels[level].Height(), pyr.Levels[level].Width(), params.TileSizes[level])
		levels[level] = NewGrid(w, h)
	}
	return AlignmentResult{FrameIndex: idx, Levels: levels}
}
