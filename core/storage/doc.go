// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client to provide a simplified interface for the
// operations the shared content libraries need: checking bucket existence,
// uploading and fetching library objects, and listing them. This abstraction
// supports both AWS S3 and self-hosted MinIO instances.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making it easier
// to mock storage interactions for unit testing (as seen in core/storage/mocks).
//
// # Operations
//
//   - BucketExists: Verifies access to the library bucket.
//   - MakeBucket: Creates the library bucket if needed.
//   - PutObject: Uploads a library document (with size and options).
//   - GetObject: Retrieves a library document as a stream.
//   - ListObjects: Lists library objects (supports prefix/recursive).
//   - RemoveObject: Deletes a library document.
//
// # Usage
//
//	client, err := storage.NewClient(config)
//	exists, err := client.BucketExists(ctx, "content-libraries")
package storage
