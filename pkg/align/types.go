// Package align implements the coarse-to-fine block-matching
// alignment engine: the Alignment Upsampler, the Level Aligner, and
// the Burst Aligner that drives them across a burst's pyramids.
package align

import (
	"errors"
	"fmt"

	"github.com/UCBerkeley-Spring2022-CS284A-Project/HDR/pkg/distance"
	"github.com/UCBerkeley-Spring2022-CS284A-Project/HDR/pkg/plane"
	"github.com/UCBerkeley-Spring2022-CS284A-Project/HDR/pkg/pyramid"
)

// Error taxonomy (spec section 7). All are programming/config errors,
// fatal to the current burst; none are retried within the engine.
var (
	ErrInvalidScaleFactor  = pyramid.ErrInvalidScaleFactor
	ErrInvalidRatio        = errors.New("align: invalid upsample ratio")
	ErrGridOverflow        = errors.New("align: upsampled grid overflows target dimensions")
	ErrTileOutOfRange      = distance.ErrTileOutOfRange
	ErrTileGeometryInvalid = errors.New("align: tile geometry invalid for level dimensions")
)

// Displacement is a signed (dy, dx) pair in pixels of the level it
// belongs to: "to align the reference tile at this grid position with
// the alternate plane, take samples from the alternate plane offset
// by (+dy, +dx)".
type Displacement struct {
	DY, DX int
}

// Grid is a dense 2-D array of Displacements, stored row-major in one
// packed slice whose row stride is the grid's width.
type Grid struct {
	width, height int
	entries       []Displacement
}

// NewGrid allocates a Grid of the given shape, all entries zeroed.
func NewGrid(width, height int) Grid {
	return Grid{width: width, height: height, entries: make([]Displacement, width*height)}
}

func (g Grid) Width() int  { return g.width }
func (g Grid) Height() int { return g.height }

func (g Grid) Get(row, col int) Displacement { return g.entries[row*g.width+col] }
func (g *Grid) Set(row, col int, d Displacement) {
	g.entries[row*g.width+col] = d
}

// Rows copies the grid into a [][]Displacement, row-major, for
// callers (cmd/hdrplusalign's YAML output) that need a plain exported-field
// view rather than reaching into the grid's packed storage.
func (g Grid) Rows() [][]Displacement {
	rows := make([][]Displacement, g.height)
	for r := 0; r < g.height; r++ {
		row := make([]Displacement, g.width)
		copy(row, g.entries[r*g.width:(r+1)*g.width])
		rows[r] = row
	}
	return rows
}

// IsZero reports whether every entry in the grid is (0, 0); the
// reference frame's alignment grid at every level is all zeros.
func (g Grid) IsZero() bool {
	for _, d := range g.entries {
		if d.DY != 0 || d.DX != 0 {
			return false
		}
	}
	return true
}

// GridShape computes the (height, width) of the alignment grid at a
// level with the given plane dimensions and tile size, using the
// spec's half-tile stride: Hᴸ = floor(heightᴸ/(T/2)) - 1, likewise W.
func GridShape(height, width, tileSize int) (h, w int) {
	half := tileSize / 2
	return height/half - 1, width/half - 1
}

// Params is the Burst Aligner's construction-time configuration,
// covering spec section 6's recognized options.
type Params struct {
	InvScaleFactors [pyramid.NumLevels]int
	TileSizes       [pyramid.NumLevels]int
	SearchRadii     [pyramid.NumLevels]int
	Metrics         [pyramid.NumLevels]distance.Kind
	PadFill         uint16

	// Parallelism bounds the worker pool used across independent
	// frames; 1 means fully sequential (the spec's required baseline).
	Parallelism int

	// ReferenceIndex selects which burst frame is the alignment
	// target; -1 lets the caller (e.g. the burst loader) auto-select.
	ReferenceIndex int
}

// DefaultParams returns the fixed configuration from spec section 6:
// 4 levels, finest→coarsest tile sizes [16,16,16,8], search radii
// [1,4,4,1], metrics [L2,L2,L2,L1], pad fill 0xFFFF.
func DefaultParams() Params {
	return Params{
		InvScaleFactors: pyramid.DefaultInvScaleFactors,
		TileSizes:       [pyramid.NumLevels]int{16, 16, 16, 8},
		SearchRadii:     [pyramid.NumLevels]int{1, 4, 4, 1},
		Metrics:         [pyramid.NumLevels]distance.Kind{distance.L2, distance.L2, distance.L2, distance.L1},
		PadFill:         0xFFFF,
		Parallelism:     1,
		ReferenceIndex:  -1,
	}
}

// Validate raises the section 7 error taxonomy eagerly, before any
// frame is processed, so a burst either aligns completely or is
// rejected up front.
func (p Params) Validate() error {
	for i, f := range p.InvScaleFactors {
		if f != 1 && f != 2 && f != 4 {
			return fmt.Errorf("%w: inv_scale_factors[%d]=%d", ErrInvalidScaleFactor, i, f)
		}
	}
	for i, t := range p.TileSizes {
		if t != 8 && t != 16 {
			return fmt.Errorf("%w: tile_sizes[%d]=%d must be 8 or 16", ErrTileGeometryInvalid, i, t)
		}
	}
	for i, r := range p.SearchRadii {
		if r < 0 {
			return fmt.Errorf("%w: search_radii[%d]=%d must be >= 0", ErrTileGeometryInvalid, i, r)
		}
	}
	if p.Parallelism < 1 {
		return fmt.Errorf("align: Parallelism must be >= 1, got %d", p.Parallelism)
	}
	return nil
}

// CompoundSearchEnvelope returns, for level L, the compound search
// envelope Σ_{i≥L} (search_radii[i] · Π_{j>i} inv_scale_factors[j]).
// It is not the largest magnitude propagation can produce: with
// DefaultParams, saturating every level yields 73 at level 0, inside
// the envelope of 113.
func (p Params) CompoundSearchEnvelope(level int) int {
	total := 0
	for i := level; i < pyramid.NumLevels; i++ {
		scale := 1
		for j := i + 1; j < pyramid.NumLevels; j++ {
			scale *= p.InvScaleFactors[j]
		}
		total += p.SearchRadii[i] * scale
	}
	return total
}

// Burst is an ordered, read-only collection of N input PixelPlanes
// plus a distinguished reference frame.
type Burst struct {
	Frames         []plane.PixelPlane
	ReferenceIndex int
}

// AlignmentResult holds one frame's finest-level alignment grid (the
// documented external interface, spec section 6) plus every
// intermediate per-level grid, kept around for diagnostics only.
type AlignmentResult struct {
	FrameIndex int
	Levels     [pyramid.NumLevels]Grid // Levels[0] is finest, matching the documented output.
}
