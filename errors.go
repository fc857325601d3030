package dirsync

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors, for use with errors.Is.
var (
	// ErrConfiguration is returned when credentials are missing or empty.
	ErrConfiguration = errors.New("dirsync: invalid configuration")

	// ErrBucketResolution is returned when a bucket does not exist or cannot be reached.
	ErrBucketResolution = errors.New("dirsync: bucket resolution failed")

	// ErrListing is returned when the bucket listing fails part way.
	ErrListing = errors.New("dirsync: bucket listing failed")

	// ErrLocalWalk is returned when the local directory cannot be walked.
	ErrLocalWalk = errors.New("dirsync: local directory walk failed")

	// ErrUpload is wrapped by every UploadError.
	ErrUpload = errors.New("dirsync: upload failed")

	// ErrSyncInProgress is returned when a synchronizer is already running.
	ErrSyncInProgress = errors.New("dirsync: unable to acquire sync lock")
)

// BucketError describes a failure to resolve a bucket.
type BucketError struct {
	Bucket string
	// Code is the store's API error code, if it returned one.
	Code string
	Err  error
}

func (e *BucketError) Error() string {
	return fmt.Sprintf(
		"an error occurred retrieving the bucket named '%s', are you sure the bucket exists and you spelled it correctly? full error response: %v",
		e.Bucket, e.Err,
	)
}

func (e *BucketError) Unwrap() error {
	return e.Err
}

func (e *BucketError) Is(target error) bool {
	return target == ErrBucketResolution
}

// UploadError describes a single file that failed to upload.
type UploadError struct {
	Key  string
	Path string
	Err  error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload %s as key %s: %v", e.Path, e.Key, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

func (e *UploadError) Is(target error) bool {
	return target == ErrUpload
}

// SyncError aggregates the uploads that failed during one sync run.
type SyncError struct {
	Bucket   string
	Failures []*UploadError
}

func (e *SyncError) Error() string {
	lines := make([]string, 0, len(e.Failures)+1)
	lines = append(lines, fmt.Sprintf("%d upload(s) to bucket %s failed:", len(e.Failures), e.Bucket))
	for _, failure := range e.Failures {
		lines = append(lines, "  - "+failure.Error())
	}

	return strings.Join(lines, "\n")
}

func (e *SyncError) Is(target error) bool {
	return target == ErrUpload && len(e.Failures) > 0
}
