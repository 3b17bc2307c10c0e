// Package cdl carries the default consolidation taxonomy for USDA Cropland
// Data Layer rasters: raw CDL codes collapse into a reduced land-cover
// class set, and a default transition table highlights cropland gains and
// losses year over year.
package cdl

import "github.com/landmosaic/landtraj/pkg/types"

// Consolidated class codes.
const (
	ClassCrops         uint8 = 1
	ClassIdle          uint8 = 2
	ClassGrassland     uint8 = 3
	ClassForest        uint8 = 4
	ClassShrubland     uint8 = 5
	ClassBarren        uint8 = 6
	ClassDeveloped     uint8 = 10
	ClassDevelopedOpen uint8 = 11
	ClassDevelopedLow  uint8 = 12
	ClassDevelopedMed  uint8 = 13
	ClassDevelopedHigh uint8 = 14
	ClassWater         uint8 = 20
	ClassWetlands      uint8 = 21
	ClassWoodyWetlands uint8 = 22
	ClassAquaculture   uint8 = 28
	ClassBackground    uint8 = 254
	ClassMissing       uint8 = 255
)

// DefaultRemap returns the standard CDL consolidation table. Raw code 0 is
// remapped to the background class because 0 is reserved in outputs;
// unmatched raw codes resolve to the missing class.
func DefaultRemap() types.RemapTable {
	return types.RemapTable{
		Background:   ClassBackground,
		Unclassified: ClassMissing,
		Specs: []types.ClassSpec{
			{Code: ClassBackground, Name: "background", Color: types.RGB{}, SourceCodes: []uint8{0}},
			{Code: ClassCrops, Name: "crops", Color: types.RGB{R: 147, G: 105, B: 48}, SourceCodes: concat(span(1, 60), span(66, 80), span(195, 255))},
			{Code: ClassIdle, Name: "idle", Color: types.RGB{R: 100, G: 100, B: 100}, SourceCodes: []uint8{61}},
			{Code: ClassGrassland, Name: "grassland", Color: types.RGB{R: 74, G: 59, B: 7}, SourceCodes: []uint8{62, 176}},
			{Code: ClassForest, Name: "forest", Color: types.RGB{R: 53, G: 65, B: 22}, SourceCodes: []uint8{63, 141, 142, 143}},
			{Code: ClassShrubland, Name: "shrubland", Color: types.RGB{R: 78, G: 67, B: 27}, SourceCodes: []uint8{64, 152}},
			{Code: ClassBarren, Name: "barren", Color: types.RGB{R: 50, G: 47, B: 36}, SourceCodes: []uint8{65, 131}},
			{Code: ClassDeveloped, Name: "developed", Color: types.RGB{R: 195, G: 29, B: 20}, SourceCodes: []uint8{82}},
			{Code: ClassDevelopedOpen, Name: "developed_open", Color: types.RGB{R: 60, G: 32, B: 32}, SourceCodes: []uint8{121}},
			{Code: ClassDevelopedLow, Name: "developed_low", Color: types.RGB{R: 106, G: 47, B: 31}, SourceCodes: []uint8{122}},
			{Code: ClassDevelopedMed, Name: "developed_med", Color: types.RGB{R: 195, G: 29, B: 20}, SourceCodes: []uint8{123}},
			{Code: ClassDevelopedHigh, Name: "developed_high", Color: types.RGB{R: 139, G: 17, B: 11}, SourceCodes: []uint8{124}},
			{Code: ClassWater, Name: "water", Color: types.RGB{R: 72, G: 93, B: 133}, SourceCodes: []uint8{83, 111, 112}},
			{Code: ClassWetlands, Name: "wetlands", Color: types.RGB{R: 50, G: 103, B: 132}, SourceCodes: []uint8{87, 190}},
			{Code: ClassWoodyWetlands, Name: "woody_wetlands", Color: types.RGB{R: 42, G: 45, B: 47}, SourceCodes: []uint8{190}},
			{Code: ClassAquaculture, Name: "aquaculture", Color: types.RGB{R: 64, G: 76, B: 97}, SourceCodes: []uint8{92}},
			{Code: ClassMissing, Name: "missing", Color: types.RGB{}, SourceCodes: nil},
		},
	}
}

// DefaultDiff returns the standard transition table: cropland gained and
// cropland lost between two consolidated years.
func DefaultDiff() types.DiffTable {
	nonCrops := []uint8{
		ClassIdle, ClassGrassland, ClassForest, ClassShrubland, ClassBarren,
		ClassDeveloped, ClassDevelopedOpen, ClassDevelopedLow, ClassDevelopedMed,
		ClassDevelopedHigh, ClassWater, ClassWetlands, ClassWoodyWetlands,
		ClassAquaculture,
	}
	return types.DiffTable{Specs: []types.DiffSpec{
		{
			Code:        1,
			Name:        "crops_gained",
			Color:       types.RGB{R: 67, G: 96, B: 236},
			FromClasses: nonCrops,
			ToClasses:   []uint8{ClassCrops},
		},
		{
			Code:        254,
			Name:        "crops_lost",
			Color:       types.RGB{R: 255, G: 51, B: 50},
			FromClasses: []uint8{ClassCrops},
			ToClasses:   nonCrops,
		},
	}}
}

// span returns the inclusive range [lo, hi].
func span(lo, hi uint8) []uint8 {
	out := make([]uint8, 0, int(hi)-int(lo)+1)
	for c := int(lo); c <= int(hi); c++ {
		out = append(out, uint8(c))
	}
	return out
}

func concat(parts ...[]uint8) []uint8 {
	var out []uint8
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
