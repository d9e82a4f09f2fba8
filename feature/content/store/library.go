package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"

	"content-forge/core/storage"
	"content-forge/feature/content/models"
)

// LibraryStore keeps shared content libraries in object storage. Each
// library is a prefix, each document one JSON object keyed by its slug:
// libraries/<library>/<slug>.json.
type LibraryStore struct {
	client storage.Client
	bucket string
}

// NewLibraryStore wraps an established storage client.
func NewLibraryStore(client storage.Client, bucket string) *LibraryStore {
	return &LibraryStore{client: client, bucket: bucket}
}

// EnsureBucket creates the backing bucket when it does not exist yet.
func (s *LibraryStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", s.bucket, err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", s.bucket, err)
	}
	return nil
}

// Get fetches one document from a library. A missing object reads as
// ErrNotFound; transient I/O failures propagate unmodified so callers
// never mistake an outage for absence.
func (s *LibraryStore) Get(ctx context.Context, library, slug string) (*models.Document, error) {
	object, err := s.client.GetObject(ctx, s.bucket, objectName(library, slug), minio.GetObjectOptions{})
	if err != nil {
		if isMissingObject(err) {
			return nil, fmt.Errorf("%w: %s in library %s", ErrNotFound, slug, library)
		}
		return nil, fmt.Errorf("failed to fetch %s from library %s: %w", slug, library, err)
	}
	defer object.Close()

	// The minio client opens objects lazily, so absence surfaces on the
	// first read rather than on GetObject.
	data, err := io.ReadAll(object)
	if err != nil {
		if isMissingObject(err) {
			return nil, fmt.Errorf("%w: %s in library %s", ErrNotFound, slug, library)
		}
		return nil, fmt.Errorf("failed to read %s from library %s: %w", slug, library, err)
	}
	var doc models.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode %s from library %s: %w", slug, library, err)
	}
	return &doc, nil
}

// Put stores a document in a library under its slug.
func (s *LibraryStore) Put(ctx context.Context, library, slug string, doc *models.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode %s for library %s: %w", slug, library, err)
	}
	_, err = s.client.PutObject(ctx, s.bucket, objectName(library, slug),
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return fmt.Errorf("failed to store %s in library %s: %w", slug, library, err)
	}
	return nil
}

// List returns the slugs present in a library.
func (s *LibraryStore) List(ctx context.Context, library string) ([]string, error) {
	prefix := fmt.Sprintf("libraries/%s/", library)
	var slugs []string
	for info := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if info.Err != nil {
			return nil, fmt.Errorf("failed to list library %s: %w", library, info.Err)
		}
		name := strings.TrimPrefix(info.Key, prefix)
		if strings.HasSuffix(name, ".json") {
			slugs = append(slugs, strings.TrimSuffix(name, ".json"))
		}
	}
	return slugs, nil
}

// Remove deletes one document from a library.
func (s *LibraryStore) Remove(ctx context.Context, library, slug string) error {
	err := s.client.RemoveObject(ctx, s.bucket, objectName(library, slug), minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to remove %s from library %s: %w", slug, library, err)
	}
	return nil
}

func objectName(library, slug string) string {
	return fmt.Sprintf("libraries/%s/%s.json", library, slug)
}

// isMissingObject reports whether an error is the bucket saying the key
// does not exist, as opposed to a transient failure.
func isMissingObject(err error) bool {
	return minio.ToErrorResponse(err).Code == "NoSuchKey"
}
