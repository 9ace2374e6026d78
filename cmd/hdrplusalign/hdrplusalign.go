// hdrplusalign is the full pipeline driver: load a burst of 16-bit
// grayscale TIFF frames, align every non-reference frame against the
// reference, and write one YAML file of alignment grids per
// non-reference frame, plus optional heatmap PNGs (teacher idiom:
// cmd/eclipse-hdr/eclipse-hdr.go).
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"

	"github.com/UCBerkeley-Spring2022-CS284A-Project/HDR/pkg/align"
	"github.com/UCBerkeley-Spring2022-CS284A-Project/HDR/pkg/burstio"
	"github.com/UCBerkeley-Spring2022-CS284A-Project/HDR/pkg/config"
	"github.com/UCBerkeley-Spring2022-CS284A-Project/HDR/pkg/diagnostics"
)

var (
	fVerbosity     int
	fConfigPath    string
	fOutputDir     string
	fReferenceIdx  int
	fParallelism   int
	fEmitHeatmaps  bool
	fEmitHistogram bool
)

func init() {
	flag.IntVar(&fVerbosity, "v", 0, "how verbose to get")
	flag.StringVar(&fConfigPath, "config", "", "optional YAML config file, overridden by any flag below")
	flag.StringVar(&fOutputDir, "out", ".", "directory to write alignment YAML and diagnostics into")
	flag.IntVar(&fReferenceIdx, "ref", -1, "reference frame index; -1 auto-selects by pixel variance")
	flag.IntVar(&fParallelism, "parallelism", 1, "worker pool size across frames; 1 is fully sequential")
	flag.BoolVar(&fEmitHeatmaps, "heatmaps", false, "write a displacement heatmap PNG per frame per level")
	flag.BoolVar(&fEmitHistogram, "histograms", false, "log a displacement-magnitude histogram summary per frame")
	flag.Parse()

	log.Printf("hdrplusalign starting\n")
}

func main() {
	cfg := config.NewConfig()
	if fConfigPath != "" {
		var err error
		cfg, err = config.Load(fConfigPath)
		if err != nil {
			log.Fatalf("load config %s: %v", fConfigPath, err)
		}
	}

	cfg.Verbosity = fVerbosity
	cfg.OutputDir = fOutputDir
	cfg.Align.Parallelism = fParallelism
	cfg.EmitHeatmaps = fEmitHeatmaps
	cfg.EmitHistograms = fEmitHistogram

	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	if cfg.Verbosity > 0 {
		log.Printf("Final configuration:-\n\n%s\n", cfg.AsYaml())
	}

	burst, stats, err := burstio.Load(fReferenceIdx, flag.Args()...)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("Loaded %d frames, reference index %d (variance %.1f)\n",
		len(burst.Frames), burst.ReferenceIndex, stats[burst.ReferenceIndex].Variance)

	results, err := align.Align(burst, cfg.Align)
	if err != nil {
		log.Fatalf("align failed: %v", err)
	}

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		log.Fatalf("mkdir %s: %v", cfg.OutputDir, err)
	}

	for idx, result := range results {
		if idx == burst.ReferenceIndex {
			continue
		}
		if err := writeAlignmentYAML(cfg.OutputDir, idx, result); err != nil {
			log.Fatal(err)
		}
		if cfg.EmitHeatmaps {
			if err := writeHeatmaps(cfg.OutputDir, idx, result); err != nil {
				log.Fatal(err)
			}
		}
		if cfg.EmitHistograms {
			h := diagnostics.MagnitudeHistogram(result.Levels[0])
			log.Printf("frame %d level 0 displacement histogram: %s\n", idx, diagnostics.SummarizeMagnitudes(h))
		}
	}
}

type alignmentYAML struct {
	FrameIndex int
	Levels     [][][]align.Displacement
}

func writeAlignmentYAML(dir string, idx int, result align.AlignmentResult) error {
	out := alignmentYAML{FrameIndex: result.FrameIndex}
	for _, level := range result.Levels {
		out.Levels = append(out.Levels, level.Rows())
	}

	b, err := yaml.Marshal(out)
	if err != nil {
		return fmt.Errorf("marshal alignment for frame %d: %v", idx, err)
	}

	path := filepath.Join(dir, fmt.Sprintf("frame-%03d.yaml", idx))
	if err := os.WriteFile(path, b, 0644); err != nil {
		return fmt.Errorf("write %s: %v", path, err)
	}
	log.Printf("wrote %s\n", path)
	return nil
}

func writeHeatmaps(dir string, idx int, result align.AlignmentResult) error {
	for level, grid := range result.Levels {
		path := filepath.Join(dir, fmt.Sprintf("frame-%03d-level-%d.png", idx, level))
		title := fmt.Sprintf("frame %d level %d", idx, level)
		if err := diagnostics.RenderHeatmap(grid, diagnostics.GridMaxMagnitude(grid), title, path); err != nil {
			return fmt.Errorf("heatmap %s: %v", path, err)
		}
	}
	return nil
}
