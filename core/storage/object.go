package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"path/filepath"
	"strings"

	"github.com/minio/minio-go/v7"
)

// Object stores blobs in an S3-compatible bucket; keys become object names.
type Object struct {
	client Client
	bucket string
}

// NewObject creates a bucket-backed blob store.
func NewObject(client Client, bucket string) *Object {
	return &Object{client: client, bucket: bucket}
}

// EnsureBucket creates the bucket when it does not exist yet.
func (o *Object) EnsureBucket(ctx context.Context) error {
	exists, err := o.client.BucketExists(ctx, o.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if exists {
		return nil
	}
	if err := o.client.MakeBucket(ctx, o.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", o.bucket, err)
	}
	return nil
}

// objectName normalises a filesystem-style key into an object name.
func objectName(key string) string {
	name := path.Clean(filepath.ToSlash(key))
	return strings.TrimPrefix(name, "/")
}

// Write uploads data under key.
func (o *Object) Write(ctx context.Context, key string, data []byte) error {
	_, err := o.client.PutObject(ctx, o.bucket, objectName(key), bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: http.DetectContentType(data)})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return nil
}

// Read downloads the object stored under key.
func (o *Object) Read(ctx context.Context, key string) ([]byte, error) {
	reader, err := o.client.GetObject(ctx, o.bucket, objectName(key), minio.GetObjectOptions{})
	if err != nil {
		return nil, o.translate(key, err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, o.translate(key, err)
	}
	return data, nil
}

// Exists stats the object.
func (o *Object) Exists(ctx context.Context, key string) (bool, error) {
	_, err := o.client.StatObject(ctx, o.bucket, objectName(key), minio.StatObjectOptions{})
	if err == nil {
		return true, nil
	}
	if isNoSuchKey(err) {
		return false, nil
	}
	return false, fmt.Errorf("failed to stat %s: %w", key, err)
}

// Remove deletes the object. S3 deletes are idempotent, so absence is checked first.
func (o *Object) Remove(ctx context.Context, key string) error {
	exists, err := o.Exists(ctx, key)
	if err != nil {
		return err
	}
	if !exists {
		return ErrBlobNotFound
	}
	if err := o.client.RemoveObject(ctx, o.bucket, objectName(key), minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}

// List returns every object name under prefix.
func (o *Object) List(ctx context.Context, prefix string) ([]string, error) {
	opts := minio.ListObjectsOptions{
		Prefix:    objectName(prefix) + "/",
		Recursive: true,
	}

	// Keys are returned in the form they were written with.
	absolute := strings.HasPrefix(filepath.ToSlash(prefix), "/")

	var keys []string
	for obj := range o.client.ListObjects(ctx, o.bucket, opts) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", prefix, obj.Err)
		}
		key := obj.Key
		if absolute {
			key = "/" + key
		}
		keys = append(keys, key)
	}
	return keys, nil
}

func (o *Object) translate(key string, err error) error {
	if isNoSuchKey(err) {
		return ErrBlobNotFound
	}
	return fmt.Errorf("failed to read %s: %w", key, err)
}

func isNoSuchKey(err error) bool {
	return minio.ToErrorResponse(err).Code == "NoSuchKey"
}
