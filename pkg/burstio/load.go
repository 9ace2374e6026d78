// Package burstio loads a burst of already-demosaiced 16-bit
// grayscale TIFF planes from disk into an align.Burst, and selects a
// reference frame when the caller hasn't pinned one. Out-of-scope
// RAW/DNG/EXIF handling (present in the teacher's loaders) is dropped:
// this loader only accepts the core's documented input contract.
package burstio

import (
	"fmt"
	"image"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/tiff"

	"github.com/UCBerkeley-Spring2022-CS284A-Project/HDR/pkg/align"
	"github.com/UCBerkeley-Spring2022-CS284A-Project/HDR/pkg/plane"
)

// Load walks args (files and/or directories, teacher idiom:
// pkg/estack/load.go Load/LoadFile) collecting every .tif/.tiff file
// as a frame, in the order encountered. Non-image files are skipped
// with a logged warning rather than failing the whole load.
//
// referenceIndex selects which frame is the alignment target; -1
// defers to SelectReferenceFrame over the loaded frames' FrameStats.
func Load(referenceIndex int, args ...string) (align.Burst, []FrameStats, error) {
	var frames []plane.PixelPlane
	var stats []FrameStats

	var walk func(path string) error
	walk = func(path string) error {
		item, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("load %s: %v", path, err)
		}

		if item.IsDir() {
			contents, err := ioutil.ReadDir(path)
			if err != nil {
				return fmt.Errorf("readdir %s: %v", path, err)
			}
			for _, content := range contents {
				if err := walk(filepath.Join(path, content.Name())); err != nil {
					return err
				}
			}
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".tif" && ext != ".tiff" {
			log.Printf("burstio: skipping %s, unrecognized extension %q", path, ext)
			return nil
		}

		p, err := loadTIFFPlane(path)
		if err != nil {
			return fmt.Errorf("loadfile %s: %v", path, err)
		}
		frames = append(frames, p)
		stats = append(stats, CalcBasicStats(p.Data()))
		return nil
	}

	for _, arg := range args {
		if err := walk(arg); err != nil {
			return align.Burst{}, nil, err
		}
	}

	if len(frames) == 0 {
		return align.Burst{}, nil, fmt.Errorf("burstio: no TIFF frames found in %v", args)
	}

	if referenceIndex < 0 {
		referenceIndex = SelectReferenceFrame(stats)
	}
	if referenceIndex >= len(frames) {
		return align.Burst{}, nil, fmt.Errorf("burstio: reference index %d out of range for %d frames", referenceIndex, len(frames))
	}

	return align.Burst{Frames: frames, ReferenceIndex: referenceIndex}, stats, nil
}

// loadTIFFPlane decodes a single 16-bit grayscale TIFF into a
// PixelPlane, copying samples verbatim (no reinterpretation or
// normalization).
func loadTIFFPlane(filename string) (plane.PixelPlane, error) {
	reader, err := os.Open(filename)
	if err != nil {
		return plane.PixelPlane{}, fmt.Errorf("open %s: %v", filename, err)
	}
	defer reader.Close()

	img, err := tiff.Decode(reader)
	if err != nil {
		return plane.PixelPlane{}, fmt.Errorf("tiff decode %s: %v", filename, err)
	}

	return planeFromImage(img), nil
}

func planeFromImage(img image.Image) plane.PixelPlane {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	p := plane.New(w, h)
	data := p.Data()
	for r := 0; r < h; r++ {
		for c := 0; c < w; c++ {
			v, _, _, _ := img.At(bounds.Min.X+c, bounds.Min.Y+r).RGBA()
			data[r*w+c] = uint16(v)
		}
	}
	return p
}
