package types

import "errors"

// Configuration errors. These indicate a defective remap or diff table and
// are raised before any pixel is touched.
var (
	ErrReservedCode  = errors.New("code 0 is reserved and cannot be assigned")
	ErrDuplicateCode = errors.New("duplicate class code in table")
	ErrEmptyTable    = errors.New("table has no entries")
	ErrEmptyName     = errors.New("class name must not be empty")
	ErrUnknownClass  = errors.New("diff spec references a class code not in the remap table")
)

// Data errors raised while processing rasters.
var (
	ErrShapeMismatch = errors.New("rasters have different shapes")
	ErrEmptyRaster   = errors.New("raster has no pixels")
	ErrNoRasters     = errors.New("no input rasters found")
)

// Config validation errors.
var (
	ErrWorkersInvalid      = errors.New("workers must be zero or positive")
	ErrPollIntervalInvalid = errors.New("poll interval must not be negative")
	ErrDataDirEmpty        = errors.New("data dir must not be empty")
)
