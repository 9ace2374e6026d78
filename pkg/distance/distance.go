// Package distance implements the two tile-similarity metrics the
// Level Aligner searches with: L1 (sum of absolute differences) and
// L2 (sum of squared differences), specialized for the fixed tile
// sizes 8 and 16.
package distance

import (
	"errors"
	"fmt"

	"github.com/UCBerkeley-Spring2022-CS284A-Project/HDR/pkg/plane"
)

// Kind tags which metric to use. Dispatched once per pyramid level so
// the hot per-tile search loop has no per-candidate branch.
type Kind int

const (
	L1 Kind = iota
	L2
)

func (k Kind) String() string {
	switch k {
	case L1:
		return "L1"
	case L2:
		return "L2"
	default:
		return "unknown"
	}
}

// ErrTileOutOfRange is returned when a tile origin would read outside
// either plane.
var ErrTileOutOfRange = errors.New("distance: tile origin out of range")

// Func computes a scalar distance between a tile of img1 at
// (r1, c1) and a tile of img2 at (r2, c2), both of size tileSize x
// tileSize.
type Func func(img1, img2 plane.PixelPlane, r1, c1, r2, c2 int) (uint64, error)

// For picks the specialized kernel for the given metric and tile
// size. tileSize must be 8 or 16.
func For(kind Kind, tileSize int) (Func, error) {
	switch {
	case kind == L1 && tileSize == 8:
		return l1Tile8, nil
	case kind == L1 && tileSize == 16:
		return l1Tile16, nil
	case kind == L2 && tileSize == 8:
		return l2Tile8, nil
	case kind == L2 && tileSize == 16:
		return l2Tile16, nil
	default:
		return nil, fmt.Errorf("distance.For: unsupported (%s, tileSize=%d)", kind, tileSize)
	}
}

func checkRange(img1, img2 plane.PixelPlane, r1, c1, r2, c2, tileSize int) error {
	if r1 < 0 || r1 > img1.Height()-tileSize || c1 < 0 || c1 > img1.Width()-tileSize {
		return fmt.Errorf("%w: img1 origin (%d,%d) tile=%d plane=%dx%d", ErrTileOutOfRange, r1, c1, tileSize, img1.Height(), img1.Width())
	}
	if r2 < 0 || r2 > img2.Height()-tileSize || c2 < 0 || c2 > img2.Width()-tileSize {
		return fmt.Errorf("%w: img2 origin (%d,%d) tile=%d plane=%dx%d", ErrTileOutOfRange, r2, c2, tileSize, img2.Height(), img2.Width())
	}
	return nil
}

// l1 computes sum(|a-b|) over a tileSize x tileSize tile, widening the
// per-pixel difference to a signed 32-bit intermediate before taking
// the absolute value, then accumulating into a 64-bit unsigned total.
func l1(img1, img2 plane.PixelPlane, r1, c1, r2, c2, tileSize int) (uint64, error) {
	if err := checkRange(img1, img2, r1, c1, r2, c2, tileSize); err != nil {
		return 0, err
	}
	var sum uint64
	for row := 0; row < tileSize; row++ {
		o1 := img1.RowOffset(r1+row, c1)
		o2 := img2.RowOffset(r2+row, c2)
		d1 := img1.Data()
		d2 := img2.Data()
		for col := 0; col < tileSize; col++ {
			diff := int32(d1[o1+col]) - int32(d2[o2+col])
			if diff < 0 {
				diff = -diff
			}
			sum += uint64(diff)
		}
	}
	return sum, nil
}

func l2(img1, img2 plane.PixelPlane, r1, c1, r2, c2, tileSize int) (uint64, error) {
	if err := checkRange(img1, img2, r1, c1, r2, c2, tileSize); err != nil {
		return 0, err
	}
	var sum uint64
	for row := 0; row < tileSize; row++ {
		o1 := img1.RowOffset(r1+row, c1)
		o2 := img2.RowOffset(r2+row, c2)
		d1 := img1.Data()
		d2 := img2.Data()
		for col := 0; col < tileSize; col++ {
			diff := int32(d1[o1+col]) - int32(d2[o2+col])
			sum += uint64(diff) * uint64(diff)
		}
	}
	return sum, nil
}

// The four specializations below exist so the dispatch in For happens
// once per level rather than once per candidate; tileSize is baked in
// as a literal at each call site for the compiler to unroll/vectorize.

func l1Tile8(img1, img2 plane.PixelPlane, r1, c1, r2, c2 int) (uint64, error) {
	return l1(img1, img2, r1, c1, r2, c2, 8)
}
func l1Tile16(img1, img2 plane.PixelPlane, r1, c1, r2, c2 int) (uint64, error) {
	return l1(img1, img2, r1, c1, r2, c2, 16)
}
func l2Tile8(img1, img2 plane.PixelPlane, r1, c1, r2, c2 int) (uint64, error) {
	return l2(img1, img2, r1, c1, r2, c2, 8)
}
func l2Tile16(img1, img2 plane.PixelPlane, r1, c1, r2, c2 int) (uint64, error) {
	return l2(img1, img2, r1, c1, r2, c2, 16)
}
