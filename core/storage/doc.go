// Package storage provides binary content storage for recipe media.
//
// Blobs is the backend-neutral interface the media helper writes through.
// Two implementations exist:
//
//   - Local: files on disk; keys are filesystem paths.
//   - Object: an S3-compatible bucket accessed through the MinIO Go client;
//     keys become object names.
//
// # Client Interface
//
// The Client interface abstracts the MinIO client, making it easy to mock
// storage interactions in unit tests (see core/storage/mocks).
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	blobs := storage.NewObject(client, cfg.Storage.Bucket)
//	err = blobs.Write(ctx, "media/4/7/media-7", data)
package storage
