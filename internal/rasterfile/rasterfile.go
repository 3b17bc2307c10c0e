// Package rasterfile reads and writes single-band categorical rasters as
// 8-bit grayscale TIFF files. Year, nodata value, and colormap travel in a
// JSON sidecar next to each TIFF (<name>.tif.json), keeping the image
// container itself plain.
//
// Raster files are named with a leading four-digit year (2020_cdl.tif);
// ListYears discovers and orders them.
package rasterfile

import (
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/image/tiff"

	"github.com/landmosaic/landtraj/pkg/types"
)

// sidecar is the JSON metadata stored next to each TIFF.
type sidecar struct {
	Year     int                 `json:"year"`
	NoData   uint8               `json:"nodata"`
	Colormap map[uint8]types.RGB `json:"colormap,omitempty"`
}

// Write saves the raster as a deflate-compressed grayscale TIFF plus its
// metadata sidecar, creating parent directories as needed.
func Write(path string, r *types.Raster) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	img := &image.Gray{
		Pix:    r.Pix,
		Stride: r.Width,
		Rect:   image.Rect(0, 0, r.Width, r.Height),
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := tiff.Encode(f, img, &tiff.Options{Compression: tiff.Deflate}); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	meta := sidecar{Year: r.Year, NoData: r.NoData, Colormap: r.Colormap}
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(sidecarPath(path), data, 0o644)
}

// Open loads a raster and its sidecar. A missing sidecar is not an error;
// the year then falls back to the filename's leading four digits.
func Open(path string) (*types.Raster, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, err := tiff.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	r := rasterFromImage(img)
	meta, err := readSidecar(sidecarPath(path))
	if err != nil {
		return nil, err
	}
	if meta != nil {
		r.Year = meta.Year
		r.NoData = meta.NoData
		r.Colormap = meta.Colormap
	} else if year, ok := yearFromName(filepath.Base(path)); ok {
		r.Year = year
	}
	return r, nil
}

// Entry is one discovered year raster.
type Entry struct {
	Path string
	Year int
}

// ListYears returns the raster files in dir whose names start with a
// four-digit year, sorted ascending by year.
func ListYears(dir string) ([]Entry, error) {
	dirents, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var entries []Entry
	for _, de := range dirents {
		if de.IsDir() {
			continue
		}
		name := de.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if ext != ".tif" && ext != ".tiff" {
			continue
		}
		year, ok := yearFromName(name)
		if !ok {
			continue
		}
		entries = append(entries, Entry{Path: filepath.Join(dir, name), Year: year})
	}
	if len(entries) == 0 {
		return nil, types.ErrNoRasters
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Year < entries[j].Year })
	return entries, nil
}

// OpenStack opens every year raster in dir in ascending year order.
func OpenStack(dir string) ([]*types.Raster, error) {
	entries, err := ListYears(dir)
	if err != nil {
		return nil, err
	}
	stack := make([]*types.Raster, len(entries))
	for i, e := range entries {
		r, err := Open(e.Path)
		if err != nil {
			return nil, err
		}
		r.Year = e.Year
		stack[i] = r
	}
	return stack, nil
}

func sidecarPath(path string) string {
	return path + ".json"
}

func readSidecar(path string) (*sidecar, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var meta sidecar
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("parse sidecar %s: %w", path, err)
	}
	return &meta, nil
}

// yearFromName parses the leading four digits of a raster filename.
func yearFromName(name string) (int, bool) {
	if len(name) < 4 {
		return 0, false
	}
	year, err := strconv.Atoi(name[:4])
	if err != nil {
		return 0, false
	}
	return year, true
}

// rasterFromImage converts a decoded image into a raster, taking the fast
// path for 8-bit grayscale.
func rasterFromImage(img image.Image) *types.Raster {
	bounds := img.Bounds()
	r := types.NewRaster(bounds.Dx(), bounds.Dy())

	if gray, ok := img.(*image.Gray); ok && gray.Stride == r.Width && bounds.Min == (image.Point{}) {
		copy(r.Pix, gray.Pix)
		return r
	}
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			g := color.GrayModel.Convert(img.At(x, y)).(color.Gray)
			r.Set(x-bounds.Min.X, y-bounds.Min.Y, g.Y)
		}
	}
	return r
}
