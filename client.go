package dirsync

import (
	"context"
	"io"
)

// BucketClient is the slice of an object store that a one-way sync needs.
type BucketClient interface {
	HeadBucket(ctx context.Context, bucketName string) error
	ListObjects(ctx context.Context, bucketName string) (KeySet, error)
	UploadFile(ctx context.Context, bucketName string, key string, body io.Reader) error
}
