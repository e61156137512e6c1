package renderer

import "time"

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels    int           // Total number of pixels rendered
	TotalSamples   int           // Total number of primary rays traced
	AverageSamples float64       // Average primary rays per pixel
	MinSamples     int           // Fewest primary rays used by any pixel
	MaxSamplesUsed int           // Most primary rays used by any pixel
	Duration       time.Duration // Wall time spent tracing
}

// sampleCounts records how many primary rays each pixel used, indexed [row][column].
// Each pixel is written by exactly one task.
type sampleCounts [][]int

func newSampleCounts(columns, rows int) sampleCounts {
	counts := make(sampleCounts, rows)
	for i := range counts {
		counts[i] = make([]int, columns)
	}
	return counts
}

func (sc sampleCounts) stats() RenderStats {
	var stats RenderStats
	for _, row := range sc {
		for _, n := range row {
			if stats.TotalPixels == 0 || n < stats.MinSamples {
				stats.MinSamples = n
			}
			if n > stats.MaxSamplesUsed {
				stats.MaxSamplesUsed = n
			}
			stats.TotalPixels++
			stats.TotalSamples += n
		}
	}
	if stats.TotalPixels > 0 {
		stats.AverageSamples = float64(stats.TotalSamples) / float64(stats.TotalPixels)
	}
	return stats
}
