package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemapTableValidate(t *testing.T) {
	tests := []struct {
		name    string
		table   RemapTable
		wantErr error
	}{
		{
			name: "valid two-class table",
			table: RemapTable{Specs: []ClassSpec{
				{Code: 1, Name: "crops", SourceCodes: []uint8{10, 11}},
				{Code: 2, Name: "forest", SourceCodes: []uint8{20}},
			}},
		},
		{
			name:    "empty table rejected",
			table:   RemapTable{},
			wantErr: ErrEmptyTable,
		},
		{
			name: "reserved code zero rejected",
			table: RemapTable{Specs: []ClassSpec{
				{Code: 0, Name: "nothing", SourceCodes: []uint8{1}},
			}},
			wantErr: ErrReservedCode,
		},
		{
			name: "duplicate code rejected",
			table: RemapTable{Specs: []ClassSpec{
				{Code: 1, Name: "a", SourceCodes: []uint8{1}},
				{Code: 1, Name: "b", SourceCodes: []uint8{2}},
			}},
			wantErr: ErrDuplicateCode,
		},
		{
			name: "empty name rejected",
			table: RemapTable{Specs: []ClassSpec{
				{Code: 1, Name: "", SourceCodes: []uint8{1}},
			}},
			wantErr: ErrEmptyName,
		},
		{
			name: "overlapping source codes allowed",
			table: RemapTable{Specs: []ClassSpec{
				{Code: 1, Name: "a", SourceCodes: []uint8{5}},
				{Code: 2, Name: "b", SourceCodes: []uint8{5}},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.table.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestRemapTableClasses(t *testing.T) {
	table := RemapTable{
		Specs: []ClassSpec{
			{Code: 254, Name: "background", SourceCodes: []uint8{0}},
			{Code: 1, Name: "crops", SourceCodes: []uint8{10}},
			{Code: 2, Name: "forest", SourceCodes: []uint8{20}},
		},
		Background: 254,
	}

	classes := table.Classes()
	require.Len(t, classes, 2)
	assert.Equal(t, "crops", classes[0].Name)
	assert.Equal(t, "forest", classes[1].Name)

	// Without a background code every spec is a class.
	table.Background = 0
	assert.Len(t, table.Classes(), 3)
}

func TestRemapTableLookup(t *testing.T) {
	table := RemapTable{Specs: []ClassSpec{
		{Code: 1, Name: "crops", Color: RGB{R: 147, G: 105, B: 48}, SourceCodes: []uint8{10}},
	}}

	spec, ok := table.Lookup(1)
	require.True(t, ok)
	assert.Equal(t, "crops", spec.Name)

	_, ok = table.Lookup(9)
	assert.False(t, ok)

	cm := table.Colormap()
	assert.Equal(t, RGB{R: 147, G: 105, B: 48}, cm[1])
}
