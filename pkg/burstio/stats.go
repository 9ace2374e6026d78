package burstio

// FrameStats holds basic per-frame intensity statistics: min/max/mean
// plus the pixel-value variance used to auto-select a reference frame.
// Diagnostic-only; never consumed by the alignment math itself.
type FrameStats struct {
	Min, Max uint16
	Mean     float64
	Variance float64
}

// CalcBasicStats computes FrameStats over a plane's raw samples in a
// single pass (teacher idiom: hoxca-nightlight's CalcBasicStats, which
// this repo's domain has no star detector to feed, so it is adapted
// from star-count/HFR scoring to plain intensity variance).
func CalcBasicStats(data []uint16) FrameStats {
	if len(data) == 0 {
		return FrameStats{}
	}

	var sum float64
	min, max := data[0], data[0]
	for _, v := range data {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
		sum += float64(v)
	}
	mean := sum / float64(len(data))

	var sqDiff float64
	for _, v := range data {
		d := float64(v) - mean
		sqDiff += d * d
	}
	variance := sqDiff / float64(len(data))

	return FrameStats{Min: min, Max: max, Mean: mean, Variance: variance}
}

// SelectReferenceFrame picks the frame with the highest pixel
// variance (the sharper, more detailed frame) as the alignment
// target, in the teacher's SelectReferenceFrame idiom. Ties break to
// the lowest index.
func SelectReferenceFrame(stats []FrameStats) int {
	best, bestScore := 0, -1.0
	for i, s := range stats {
		if s.Variance > bestScore {
			best, bestScore = i, s.Variance
		}
	}
	return best
}
