package types

import "fmt"

// RGB is a colormap entry for one class code.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Raster is one year's single-band categorical grid. Pixel values are small
// integer class codes stored row-major in Pix (index = y*Width + x).
//
// A Raster owns its Pix slice; processing functions return new rasters and
// never mutate their inputs.
type Raster struct {
	Width    int
	Height   int
	Pix      []uint8
	Year     int
	NoData   uint8
	Colormap map[uint8]RGB
}

// NewRaster allocates a zero-filled raster of the given shape.
func NewRaster(width, height int) *Raster {
	return &Raster{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height),
	}
}

// At returns the pixel value at (x, y). No bounds check; callers iterate
// within the raster's own shape.
func (r *Raster) At(x, y int) uint8 {
	return r.Pix[y*r.Width+x]
}

// Set assigns the pixel value at (x, y).
func (r *Raster) Set(x, y int, v uint8) {
	r.Pix[y*r.Width+x] = v
}

// Size returns the total pixel count.
func (r *Raster) Size() int {
	return r.Width * r.Height
}

// SameShape reports whether the two rasters have identical dimensions.
func (r *Raster) SameShape(other *Raster) bool {
	return r.Width == other.Width && r.Height == other.Height
}

// Clone returns a deep copy of the raster, including its colormap.
func (r *Raster) Clone() *Raster {
	out := &Raster{
		Width:  r.Width,
		Height: r.Height,
		Pix:    make([]uint8, len(r.Pix)),
		Year:   r.Year,
		NoData: r.NoData,
	}
	copy(out.Pix, r.Pix)
	if r.Colormap != nil {
		out.Colormap = make(map[uint8]RGB, len(r.Colormap))
		for k, v := range r.Colormap {
			out.Colormap[k] = v
		}
	}
	return out
}

// Validate checks that the raster shape is positive and the pixel buffer
// matches it.
func (r *Raster) Validate() error {
	if r.Width <= 0 || r.Height <= 0 {
		return ErrEmptyRaster
	}
	if len(r.Pix) != r.Width*r.Height {
		return fmt.Errorf("pixel buffer length %d does not match %dx%d", len(r.Pix), r.Width, r.Height)
	}
	return nil
}

// CountClasses tallies the number of pixels per class code.
func (r *Raster) CountClasses() map[uint8]int {
	counts := make(map[uint8]int)
	for _, v := range r.Pix {
		counts[v]++
	}
	return counts
}
