// Package integrity checks that the database and the media store agree.
//
// The recipes feature keeps media rows and media files in step inside each
// aggregate write, but files can still drift: a crash between commit and
// cleanup, a manual copy into the media root, or a restored database dump.
// This package reports that drift and can remove the leftovers.
//
// # Checks Provided
//
//   - Media: lists every blob under the media root and compares it with the
//     media table. Rows without a file, rows whose path differs from the
//     derived one, and files no row references are reported separately.
//   - Schema: validates that each table carries the columns its GORM model
//     declares.
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks.
//   - GET /integrity/media : Runs the media check (supports ?purge=true).
//   - GET /integrity/schema : Runs the schema check.
package integrity
