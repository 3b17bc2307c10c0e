// Package reclass consolidates raw land-cover codes into a reduced class
// taxonomy described by a types.RemapTable.
package reclass

import (
	"github.com/landmosaic/landtraj/pkg/types"
)

// Apply returns a new raster in which every pixel claimed by a spec's
// SourceCodes carries that spec's class code.
//
// Specs are applied in table order. Matched pixels are first written as the
// negated target code and flipped back to positive only after every spec
// has run, so a target code that collides with a later spec's source code
// is never re-matched: each pixel is assigned exactly once. When specs
// overlap, the last spec in table order wins.
//
// Pixels no spec claims receive table.Unclassified when it is nonzero and
// otherwise keep their raw value. The output carries the table's colormap
// and a NoData of 0.
func Apply(r *types.Raster, table types.RemapTable) (*types.Raster, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if err := table.Validate(); err != nil {
		return nil, err
	}

	// Work in int16 so the negated codes fit.
	work := make([]int16, len(r.Pix))
	for i, v := range r.Pix {
		work[i] = int16(v)
	}

	for _, spec := range table.Specs {
		target := -int16(spec.Code)
		for i, v := range work {
			if v >= 0 && spec.Contains(uint8(v)) {
				work[i] = target
			}
		}
	}

	out := types.NewRaster(r.Width, r.Height)
	out.Year = r.Year
	out.NoData = 0
	out.Colormap = table.Colormap()
	for i, v := range work {
		if v < 0 {
			out.Pix[i] = uint8(-v)
		} else if table.Unclassified != 0 {
			out.Pix[i] = table.Unclassified
		} else {
			out.Pix[i] = uint8(v)
		}
	}
	return out, nil
}

// Binary returns a 1/0 raster marking pixels whose consolidated class
// equals code. The trajectory aggregator derives one of these per class
// per year.
func Binary(r *types.Raster, code uint8) *types.Raster {
	out := types.NewRaster(r.Width, r.Height)
	out.Year = r.Year
	for i, v := range r.Pix {
		if v == code {
			out.Pix[i] = 1
		}
	}
	return out
}
