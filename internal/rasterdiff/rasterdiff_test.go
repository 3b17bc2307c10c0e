package rasterdiff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/landmosaic/landtraj/pkg/types"
)

func raster2x2(pix ...uint8) *types.Raster {
	r := types.NewRaster(2, 2)
	copy(r.Pix, pix)
	return r
}

// changeTable is the reference fixture: 1 where pixels went 1->2,
// 254 where pixels went 2->1, 0 elsewhere.
var changeTable = types.DiffTable{Specs: []types.DiffSpec{
	{Code: 1, Name: "gained", FromClasses: []uint8{1}, ToClasses: []uint8{2}},
	{Code: 254, Name: "lost", FromClasses: []uint8{2}, ToClasses: []uint8{1}},
}}

func TestEncode(t *testing.T) {
	from := raster2x2(1, 2, 1, 1)
	from.Year = 2020
	to := raster2x2(2, 1, 1, 2)
	to.Year = 2021

	out, err := Encode(from, to, changeTable)
	require.NoError(t, err)
	assert.Equal(t, []uint8{1, 254, 0, 1}, out.Pix)
	assert.Equal(t, 2021, out.Year)
}

func TestEncodeTotality(t *testing.T) {
	from := raster2x2(1, 2, 3, 1)
	to := raster2x2(2, 1, 3, 1)

	out, err := Encode(from, to, changeTable)
	require.NoError(t, err)

	// output[p] == 0 iff no spec matches (from[p], to[p]).
	for i := range out.Pix {
		matched := false
		for _, spec := range changeTable.Specs {
			if spec.Matches(from.Pix[i], to.Pix[i]) {
				matched = true
			}
		}
		if matched {
			assert.NotZero(t, out.Pix[i], "pixel %d", i)
		} else {
			assert.Zero(t, out.Pix[i], "pixel %d", i)
		}
	}
}

func TestEncodeSwapSymmetry(t *testing.T) {
	from := raster2x2(1, 2, 1, 2)
	to := raster2x2(2, 2, 1, 1)

	forward, err := Encode(from, to, changeTable)
	require.NoError(t, err)

	// Swap from/to rasters and every spec's from/to class sets.
	swapped := types.DiffTable{Specs: make([]types.DiffSpec, len(changeTable.Specs))}
	for i, spec := range changeTable.Specs {
		swapped.Specs[i] = types.DiffSpec{
			Code:        spec.Code,
			Name:        spec.Name,
			FromClasses: spec.ToClasses,
			ToClasses:   spec.FromClasses,
		}
	}
	backward, err := Encode(to, from, swapped)
	require.NoError(t, err)

	assert.Equal(t, forward.Pix, backward.Pix)
}

func TestEncodeLastMatchWins(t *testing.T) {
	table := types.DiffTable{Specs: []types.DiffSpec{
		{Code: 10, FromClasses: []uint8{1}, ToClasses: []uint8{2}},
		{Code: 20, FromClasses: []uint8{1}, ToClasses: []uint8{2}},
	}}

	out, err := Encode(raster2x2(1, 1, 1, 1), raster2x2(2, 2, 2, 2), table)
	require.NoError(t, err)
	assert.Equal(t, []uint8{20, 20, 20, 20}, out.Pix)
}

func TestEncodeErrors(t *testing.T) {
	t.Run("shape mismatch", func(t *testing.T) {
		wide := types.NewRaster(3, 2)
		_, err := Encode(raster2x2(0, 0, 0, 0), wide, changeTable)
		assert.ErrorIs(t, err, types.ErrShapeMismatch)
	})

	t.Run("reserved code zero", func(t *testing.T) {
		bad := types.DiffTable{Specs: []types.DiffSpec{
			{Code: 0, FromClasses: []uint8{1}, ToClasses: []uint8{2}},
		}}
		_, err := Encode(raster2x2(0, 0, 0, 0), raster2x2(0, 0, 0, 0), bad)
		assert.ErrorIs(t, err, types.ErrReservedCode)
	})

	t.Run("empty table", func(t *testing.T) {
		_, err := Encode(raster2x2(0, 0, 0, 0), raster2x2(0, 0, 0, 0), types.DiffTable{})
		assert.ErrorIs(t, err, types.ErrEmptyTable)
	})
}
