package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiffTableValidate(t *testing.T) {
	tests := []struct {
		name    string
		table   DiffTable
		wantErr error
	}{
		{
			name: "valid transition pair",
			table: DiffTable{Specs: []DiffSpec{
				{Code: 1, Name: "gained", FromClasses: []uint8{0}, ToClasses: []uint8{1}},
				{Code: 254, Name: "lost", FromClasses: []uint8{1}, ToClasses: []uint8{0}},
			}},
		},
		{
			name:    "empty table rejected",
			table:   DiffTable{},
			wantErr: ErrEmptyTable,
		},
		{
			name: "reserved code zero rejected",
			table: DiffTable{Specs: []DiffSpec{
				{Code: 0, Name: "none", FromClasses: []uint8{1}, ToClasses: []uint8{2}},
			}},
			wantErr: ErrReservedCode,
		},
		{
			name: "duplicate code rejected",
			table: DiffTable{Specs: []DiffSpec{
				{Code: 7, FromClasses: []uint8{1}, ToClasses: []uint8{2}},
				{Code: 7, FromClasses: []uint8{2}, ToClasses: []uint8{1}},
			}},
			wantErr: ErrDuplicateCode,
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

func TestDiffTableValidateAgainst(t *testing.T) {
	remap := RemapTable{Specs: []ClassSpec{
		{Code: 1, Name: "crops", SourceCodes: []uint8{10}},
		{Code: 2, Name: "forest", SourceCodes: []uint8{20}},
	}}

	ok := DiffTable{Specs: []DiffSpec{
		{Code: 5, FromClasses: []uint8{1}, ToClasses: []uint8{2}},
	}}
	assert.NoError(t, ok.ValidateAgainst(remap))

	unknown := DiffTable{Specs: []DiffSpec{
		{Code: 5, FromClasses: []uint8{1}, ToClasses: []uint8{99}},
	}}
	assert.ErrorIs(t, unknown.ValidateAgainst(remap), ErrUnknownClass)
}

func TestDiffSpecMatches(t *testing.T) {
	spec := DiffSpec{Code: 1, FromClasses: []uint8{0, 3}, ToClasses: []uint8{1}}

	assert.True(t, spec.Matches(0, 1))
	assert.True(t, spec.Matches(3, 1))
	assert.False(t, spec.Matches(1, 0))
	assert.False(t, spec.Matches(0, 2))
}

func TestDiffTableColormap(t *testing.T) {
	table := DiffTable{Specs: []DiffSpec{
		{Code: 1, Color: RGB{R: 67, G: 96, B: 236}, FromClasses: []uint8{0}, ToClasses: []uint8{1}},
	}}

	cm := table.Colormap()
	assert.Equal(t, RGB{R: 67, G: 96, B: 236}, cm[1])
	assert.Equal(t, RGB{}, cm[0])
}
