// Package tiles discovers map tiles on disk and indexes them by grid coordinate.
//
// Tiles are individually named image files produced by an upstream slippy-map
// style generator. Each file name encodes its integer grid position:
//
//	tile_<x>_<y>.<ext>
//
// where x and y are base-10 signed integers. [Discover] lists a directory,
// keeps only files with the expected prefix and source extension, and parses
// every kept name into a [Coord]. The result is a [Map] from coordinate to
// file path, built once per run and treated as read-only afterwards.
//
// A name that has the right prefix and extension but does not parse is a hard
// error: a corrupt tile name means the dataset cannot be trusted, so there is
// no partial recovery.
package tiles
