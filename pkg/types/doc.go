// Package types defines the shared data model for the landtraj toolkit:
// rasters, class remap tables, class-transition diff tables, run
// configuration, and the standard errors returned by the processing
// packages under internal/.
package types
