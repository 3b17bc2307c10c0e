package trajectory

import (
	"bytes"
	"encoding/json"
	"sort"
)

// SortedLabels returns the trajectory labels in descending lexicographic
// order, the order the histogram is exported in.
func (r *Result) SortedLabels() []string {
	labels := make([]string, 0, len(r.Counts))
	for label := range r.Counts {
		labels = append(labels, label)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(labels)))
	return labels
}

// MarshalJSON serializes the result with trajectory labels in descending
// order alongside the pixel totals and the absorbed per-pixel fault count.
func (r *Result) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"trajectories":{`)
	for i, label := range r.SortedLabels() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(label)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		count, err := json.Marshal(r.Counts[label])
		if err != nil {
			return nil, err
		}
		buf.Write(count)
	}
	buf.WriteString(`},"pixels":`)
	pixels, err := json.Marshal(r.Pixels)
	if err != nil {
		return nil, err
	}
	buf.Write(pixels)
	buf.WriteString(`,"error_pixels":`)
	errs, err := json.Marshal(r.ErrorPixels)
	if err != nil {
		return nil, err
	}
	buf.Write(errs)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
