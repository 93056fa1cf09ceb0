// Package media stores recipe media bytes and keeps them consistent with
// the media rows.
//
// A media file lives at <base_path>/<images_subdirectory>/<recipeID>/<mediaID>/media-<mediaID>.
// The path is derived from the store-assigned id, so new media are saved in
// two phases: a placeholder row is inserted to obtain the id, the file is
// written, then the path column is patched.
//
// Bytes go through storage.Blobs; the local filesystem is the default
// backend and an S3-compatible bucket can be selected instead.
package media
