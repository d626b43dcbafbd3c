// Package pagination provides limit/offset and page-based windowing plus
// sorting for CLI list output.
//
// The package contains:
//   - Params: CLI flag values and their validation
//   - Meta: metadata describing the window that was returned
//   - EntrySorter: ordering of cached search entries by field
package pagination
