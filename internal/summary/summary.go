// Package summary produces per-class pixel counts for a raster, optionally
// broken down per feature of a vector layer.
package summary

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"

	"github.com/landmosaic/landtraj/internal/vector"
	"github.com/landmosaic/landtraj/pkg/types"
)

// Summary is the count breakdown for one raster.
type Summary struct {
	Year        int              `json:"year,omitempty"`
	TotalPixels int              `json:"total_pixels"`
	PixelCounts map[uint8]int    `json:"pixel_counts"`
	Breakdown   []FeatureSummary `json:"breakdown,omitempty"`
}

// FeatureSummary is the count breakdown for the pixels inside one feature.
type FeatureSummary struct {
	ID          string        `json:"id"`
	TotalPixels int           `json:"total_pixels"`
	PixelCounts map[uint8]int `json:"pixel_counts"`
}

// Summarize tallies class pixel counts for the whole raster.
func Summarize(r *types.Raster) *Summary {
	return &Summary{
		Year:        r.Year,
		TotalPixels: r.Size(),
		PixelCounts: r.CountClasses(),
	}
}

// SummarizeWithFeatures additionally counts, per feature, the pixels whose
// centers fall inside the feature's polygon. Only the feature's bounding
// window of the grid is scanned.
func SummarizeWithFeatures(r *types.Raster, layer *vector.Layer) *Summary {
	s := Summarize(r)
	for _, f := range layer.Features {
		fs := FeatureSummary{ID: f.ID, PixelCounts: make(map[uint8]int)}

		min, max := f.Bounds()
		x0 := clamp(int(math.Floor(min.X)), 0, r.Width)
		x1 := clamp(int(math.Ceil(max.X)), 0, r.Width)
		y0 := clamp(int(math.Floor(min.Y)), 0, r.Height)
		y1 := clamp(int(math.Ceil(max.Y)), 0, r.Height)

		for y := y0; y < y1; y++ {
			for x := x0; x < x1; x++ {
				center := vector.Point{X: float64(x) + 0.5, Y: float64(y) + 0.5}
				if f.Contains(center) {
					fs.PixelCounts[r.At(x, y)]++
					fs.TotalPixels++
				}
			}
		}
		s.Breakdown = append(s.Breakdown, fs)
	}
	return s
}

// WriteJSON saves the summary, creating parent directories as needed.
func (s *Summary) WriteJSON(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
