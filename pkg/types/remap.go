package types

// ClassSpec describes one consolidated land-cover class: the code it is
// written as, its display name and color, and the set of raw source codes
// that collapse into it.
type ClassSpec struct {
	Code        uint8  `json:"code"`
	Name        string `json:"name"`
	Color       RGB    `json:"color"`
	SourceCodes []uint8 `json:"source_codes"`
}

// Contains reports whether the raw code is one of the spec's source codes.
func (s ClassSpec) Contains(raw uint8) bool {
	for _, c := range s.SourceCodes {
		if c == raw {
			return true
		}
	}
	return false
}

// RemapTable is an ordered list of class consolidation rules. Order matters
// twice: overlapping SourceCodes resolve to the last spec that claims the
// raw code, and the trajectory aggregator scans classes in table order when
// it picks the first class gained at a transition.
//
// Background, when nonzero, names the class code the aggregator skips when
// deriving per-class timelines. Unclassified, when nonzero, is assigned to
// pixels no spec claims; when zero such pixels keep their raw value.
type RemapTable struct {
	Specs        []ClassSpec `json:"specs"`
	Background   uint8       `json:"background,omitempty"`
	Unclassified uint8       `json:"unclassified,omitempty"`
}

// Validate checks the table for reserved or duplicate codes and empty names.
// Overlapping SourceCodes across specs are deliberately not rejected; the
// last spec in table order wins.
func (t RemapTable) Validate() error {
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
		if spec.Name == "" {
			return ErrEmptyName
		}
	}
	return nil
}

// Lookup returns the spec with the given class code.
func (t RemapTable) Lookup(code uint8) (ClassSpec, bool) {
	for _, spec := range t.Specs {
		if spec.Code == code {
			return spec, true
		}
	}
	return ClassSpec{}, false
}

// Colormap builds the code-to-color mapping for rasters produced from this
// table.
func (t RemapTable) Colormap() map[uint8]RGB {
	cm := make(map[uint8]RGB, len(t.Specs))
	for _, spec := range t.Specs {
		cm[spec.Code] = spec.Color
	}
	return cm
}

// Classes returns the non-background specs in table order. This is the
// deterministic class order used by the trajectory aggregator.
func (t RemapTable) Classes() []ClassSpec {
	out := make([]ClassSpec, 0, len(t.Specs))
	for _, spec := range t.Specs {
		if t.Background != 0 && spec.Code == t.Background {
			continue
		}
		out = append(out, spec)
	}
	return out
}
