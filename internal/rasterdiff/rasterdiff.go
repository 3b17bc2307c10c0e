// Package rasterdiff detects class-to-class transitions between two
// chronologically adjacent class rasters.
package rasterdiff

import (
	"github.com/landmosaic/landtraj/pkg/types"
)

// Encode compares two equal-shaped class rasters and returns a raster in
// which every pixel carries the code of the matching transition spec, or 0
// where no spec matches.
//
// Tie-break policy: specs are evaluated in table order and the LAST
// matching spec wins for a pixel. Reorder the table to change precedence.
//
// Returns types.ErrShapeMismatch when the rasters differ in shape and
// types.ErrReservedCode when any spec uses the reserved code 0.
func Encode(from, to *types.Raster, table types.DiffTable) (*types.Raster, error) {
	if err := from.Validate(); err != nil {
		return nil, err
	}
	if err := to.Validate(); err != nil {
		return nil, err
	}
	if !from.SameShape(to) {
		return nil, types.ErrShapeMismatch
	}
	if err := table.Validate(); err != nil {
		return nil, err
	}

	out := types.NewRaster(from.Width, from.Height)
	out.Year = to.Year
	out.Colormap = table.Colormap()
	for _, spec := range table.Specs {
		for i := range out.Pix {
			if spec.Matches(from.Pix[i], to.Pix[i]) {
				out.Pix[i] = spec.Code
			}
		}
	}
	return out, nil
}
