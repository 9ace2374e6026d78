// Package plane implements PixelPlane, a rectangular 16-bit
// single-channel image with an associated row stride. Values are
// immutable after construction; sub-tile views are zero-copy.
package plane

import "fmt"

// A PixelPlane is a 2-D array of unsigned 16-bit samples. Width and
// height are the plane's logical extents; stride is the number of
// samples between the start of one row and the next, which can exceed
// width when the plane is a view into a larger backing array.
type PixelPlane struct {
	width, height, stride int
	data                   []uint16
}

// New builds a PixelPlane that owns a freshly allocated, zeroed buffer.
func New(width, height int) PixelPlane {
	return PixelPlane{
		width:  width,
		height: height,
		stride: width,
		data:   make([]uint16, width*height),
	}
}

// FromSamples wraps an existing row-major, tightly packed sample
// buffer. len(samples) must equal width*height.
func FromSamples(width, height int, samples []uint16) (PixelPlane, error) {
	if len(samples) != width*height {
		return PixelPlane{}, fmt.Errorf("plane.FromSamples: got %d samples, want %d for %dx%d", len(samples), width*height, width, height)
	}
	return PixelPlane{width: width, height: height, stride: width, data: samples}, nil
}

func (p PixelPlane) Width() int  { return p.width }
func (p PixelPlane) Height() int { return p.height }
func (p PixelPlane) Stride() int { return p.stride }

// Sample does a bounds-checked pixel read.
func (p PixelPlane) Sample(r, c int) (uint16, error) {
	if r < 0 || r >= p.height || c < 0 || c >= p.width {
		return 0, fmt.Errorf("plane.Sample: (%d,%d) out of bounds for %dx%d plane", r, c, p.height, p.width)
	}
	return p.data[r*p.stride+c], nil
}

// At is the unchecked counterpart of Sample, for hot inner loops that
// have already validated their own bounds (the distance kernels).
func (p PixelPlane) At(r, c int) uint16 {
	return p.data[r*p.stride+c]
}

// RowOffset returns the index into the plane's own backing slice
// where row r, column c begins; the distance kernels use this to get
// a raw pointer-free pointer into the buffer.
func (p PixelPlane) RowOffset(r, c int) int {
	return r*p.stride + c
}

// Data exposes the raw backing slice, respecting stride. The distance
// kernels index it directly with RowOffset to avoid a function call
// per sample.
func (p PixelPlane) Data() []uint16 { return p.data }

// View returns a zero-copy subview of the plane. It fails when the
// requested rectangle exits the plane.
func (p PixelPlane) View(row0, col0, h, w int) (PixelPlane, error) {
	if row0 < 0 || col0 < 0 || h < 0 || w < 0 || row0+h > p.height || col0+w > p.width {
		return PixelPlane{}, fmt.Errorf("plane.View: rect (%d,%d,%d,%d) exits %dx%d plane", row0, col0, h, w, p.height, p.width)
	}
	return PixelPlane{
		width:  w,
		height: h,
		stride: p.stride,
		data:   p.data[row0*p.stride+col0:],
	}, nil
}

// Pad returns a new plane of size (H+2*radius, W+2*radius) with the
// original centered and the border filled with fill. The Level
// Aligner uses this with fill = 0xFFFF so off-image matches are
// strongly penalized by the distance metric.
func (p PixelPlane) Pad(radius int, fill uint16) PixelPlane {
	if radius <= 0 {
		return p.clone()
	}

	out := New(p.width+2*radius, p.height+2*radius)
	for i := range out.data {
		out.data[i] = fill
	}
	for r := 0; r < p.height; r++ {
		srcRow := p.data[r*p.stride : r*p.stride+p.width]
		dstOff := (r+radius)*out.stride + radius
		copy(out.data[dstOff:dstOff+p.width], srcRow)
	}
	return out
}

func (p PixelPlane) clone() PixelPlane {
	out := New(p.width, p.height)
	for r := 0; r < p.height; r++ {
		copy(out.data[r*out.stride:(r+1)*out.stride], p.data[r*p.stride:r*p.stride+p.width])
	}
	return out
}

func (p PixelPlane) String() string {
	return fmt.Sprintf("PixelPlane[%dx%d stride=%d]", p.width, p.height, p.stride)
}
