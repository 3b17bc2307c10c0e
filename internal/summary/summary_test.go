package summary

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/landmosaic/landtraj/internal/vector"
	"github.com/landmosaic/landtraj/pkg/types"
)

func TestSummarize(t *testing.T) {
	r := types.NewRaster(2, 2)
	r.Year = 2020
	r.Pix = []uint8{1, 1, 2, 0}

	s := Summarize(r)
	assert.Equal(t, 2020, s.Year)
	assert.Equal(t, 4, s.TotalPixels)
	assert.Equal(t, map[uint8]int{0: 1, 1: 2, 2: 1}, s.PixelCounts)
	assert.Empty(t, s.Breakdown)
}

func TestSummarizeWithFeatures(t *testing.T) {
	// 4x4 grid: left half class 1, right half class 2.
	r := types.NewRaster(4, 4)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if x < 2 {
				r.Set(x, y, 1)
			} else {
				r.Set(x, y, 2)
			}
		}
	}

	layer := &vector.Layer{Features: []vector.Feature{
		{
			ID:   "left",
			Ring: []vector.Point{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 4}, {X: 0, Y: 4}, {X: 0, Y: 0}},
		},
		{
			ID:   "all",
			Ring: []vector.Point{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 4}, {X: 0, Y: 4}, {X: 0, Y: 0}},
		},
		{
			ID:   "offgrid",
			Ring: []vector.Point{{X: 10, Y: 10}, {X: 12, Y: 10}, {X: 12, Y: 12}, {X: 10, Y: 12}, {X: 10, Y: 10}},
		},
	}}

	s := SummarizeWithFeatures(r, layer)
	require.Len(t, s.Breakdown, 3)

	left := s.Breakdown[0]
	assert.Equal(t, 8, left.TotalPixels)
	assert.Equal(t, map[uint8]int{1: 8}, left.PixelCounts)

	all := s.Breakdown[1]
	assert.Equal(t, 16, all.TotalPixels)
	assert.Equal(t, map[uint8]int{1: 8, 2: 8}, all.PixelCounts)

	offgrid := s.Breakdown[2]
	assert.Zero(t, offgrid.TotalPixels)
}

func TestWriteJSON(t *testing.T) {
	r := types.NewRaster(1, 1)
	r.Pix[0] = 7
	path := filepath.Join(t.TempDir(), "out", "summary.json")

	require.NoError(t, Summarize(r).WriteJSON(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got Summary
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, 1, got.TotalPixels)
	assert.Equal(t, map[uint8]int{7: 1}, got.PixelCounts)
}
