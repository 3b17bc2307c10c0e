package types

// DiffSpec describes one class-to-class transition rule: a pixel whose
// value is in FromClasses in the earlier raster and in ToClasses in the
// later raster is written as Code in the diff raster.
type DiffSpec struct {
	Code        uint8   `json:"code"`
	Name        string  `json:"name"`
	Color       RGB     `json:"color"`
	FromClasses []uint8 `json:"from_classes"`
	ToClasses   []uint8 `json:"to_classes"`
}

// Matches reports whether the (from, to) pixel pair satisfies this spec.
func (s DiffSpec) Matches(from, to uint8) bool {
	return contains(s.FromClasses, from) && contains(s.ToClasses, to)
}

func contains(codes []uint8, v uint8) bool {
	for _, c := range codes {
		if c == v {
			return true
		}
	}
	return false
}

// DiffTable is an ordered list of transition rules. Code 0 is reserved to
// mean "no matching transition" in the output raster. Specs are evaluated
// in table order and the last matching spec wins for a pixel.
type DiffTable struct {
	Specs []DiffSpec `json:"specs"`
}

// Validate checks for reserved and duplicate codes. A spec using code 0
// would be indistinguishable from "no transition" and is rejected.
func (t DiffTable) Validate() error {
	if len(t.Specs) == 0 {
		return ErrEmptyTable
	}
	seen := make(map[uint8]bool, len(t.Specs))
	for _, spec := range t.Specs {
		if spec.Code == 0 {
			return ErrReservedCode
		}
		if seen[spec.Code] {
			return ErrDuplicateCode
		}
		seen[spec.Code] = true
	}
	return nil
}

// ValidateAgainst additionally checks that every from/to class the table
// references is a class code in the remap table.
func (t DiffTable) ValidateAgainst(remap RemapTable) error {
	if err := t.Validate(); err != nil {
		return err
	}
	for _, spec := range t.Specs {
		for _, c := range spec.FromClasses {
			if _, ok := remap.Lookup(c); !ok {
				return ErrUnknownClass
			}
		}
		for _, c := range spec.ToClasses {
			if _, ok := remap.Lookup(c); !ok {
				return ErrUnknownClass
			}
		}
	}
	return nil
}

// Colormap builds the code-to-color mapping for diff rasters, with the
// reserved no-transition code 0 rendered black.
func (t DiffTable) Colormap() map[uint8]RGB {
	cm := make(map[uint8]RGB, len(t.Specs)+1)
	for _, spec := range t.Specs {
		cm[spec.Code] = spec.Color
	}
	cm[0] = RGB{}
	return cm
}
