// Package gcs implements the chat object store over a Google Cloud Storage
// bucket.
package gcs

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/storage"
)

// ObjectStore implements dispatch.ObjectStore over a single bucket. The
// deleteObject seam carries the raw bucket call so the error mapping in
// Delete stays testable without a live bucket.
type ObjectStore struct {
	deleteObject func(ctx context.Context, path string) error
}

func NewObjectStore(client *storage.Client, bucketName string) (*ObjectStore, error) {
	if bucketName == "" {
		return nil, errors.New("bucket name is required")
	}
	bucket := client.Bucket(bucketName)
	return &ObjectStore{
		deleteObject: func(ctx context.Context, path string) error {
			return bucket.Object(path).Delete(ctx)
		},
	}, nil
}

// Delete removes the object at path. An object that is already gone counts as
// deleted, so retried purges stay idempotent.
func (s *ObjectStore) Delete(ctx context.Context, path string) error {
	err := s.deleteObject(ctx, path)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("object delete failed: %w", err)
	}
	return nil
}
