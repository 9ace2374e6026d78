package plane

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromSamplesRejectsWrongLength(t *testing.T) {
	_, err := FromSamples(4, 4, make([]uint16, 10))
	require.Error(t, err)
}

func TestSampleRoundTrip(t *testing.T) {
	p := New(3, 2)
	data := p.Data()
	data[p.RowOffset(1, 2)] = 42

	v, err := p.Sample(1, 2)
	require.NoError(t, err)
	require.EqualValues(t, 42, v)
}

func TestSampleOutOfBounds(t *testing.T) {
	p := New(3, 2)
	_, err := p.Sample(2, 0)
	require.Error(t, err)
	_, err = p.Sample(0, 3)
	require.Error(t, err)
}

func TestViewIsZeroCopy(t *testing.T) {
	p := New(4, 4)
	p.Data()[p.RowOffset(2, 2)] = 7

	v, err := p.View(1, 1, 2, 2)
	require.NoError(t, err)
	require.Equal(t, uint16(7), v.At(1, 1))

	// Mutating through the view's backing array is visible in the parent.
	v.Data()[v.RowOffset(1, 1)] = 9
	got, _ := p.Sample(2, 2)
	require.EqualValues(t, 9, got)
}

func TestViewOutOfRangeFails(t *testing.T) {
	p := New(4, 4)
	_, err := p.View(3, 3, 2, 2)
	require.Error(t, err)
}

func TestPadCentersOriginalAndFillsBorder(t *testing.T) {
	p := New(2, 2)
	data := p.Data()
	data[0], data[1], data[2], data[3] = 1, 2, 3, 4

	padded := p.Pad(1, 0xFFFF)
	require.Equal(t, 4, padded.Width())
	require.Equal(t, 4, padded.Height())

	// Corners of the padded plane are fill.
	require.Equal(t, uint16(0xFFFF), padded.At(0, 0))
	require.Equal(t, uint16(0xFFFF), padded.At(3, 3))

	// Original samples land centered at offset (radius, radius).
	require.Equal(t, uint16(1), padded.At(1, 1))
	require.Equal(t, uint16(2), padded.At(1, 2))
	require.Equal(t, uint16(3), padded.At(2, 1))
	require.Equal(t, uint16(4), padded.At(2, 2))
}

func TestPadZeroRadiusClones(t *testing.T) {
	p := New(2, 2)
	p.Data()[0] = 5
	padded := p.Pad(0, 0xFFFF)
	require.Equal(t, p.Width(), padded.Width())
	require.Equal(t, uint16(5), padded.At(0, 0))

	// Confirm it's a clone, not an alias.
	padded.Data()[0] = 9
	require.Equal(t, uint16(5), p.At(0, 0))
}
