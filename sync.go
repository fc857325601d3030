package dirsync

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// Result describes one sync run.
type Result struct {
	Directory string
	Bucket    string
	// Base is the parent of Directory; keys are relative to it.
	Base string
	// Missing holds the local keys absent from the bucket, in upload order.
	Missing  []string
	Uploaded []string
	Excluded []string
	Failed   map[string]error
	Duration time.Duration
}

// InSync reports whether the run found nothing to upload.
func (r *Result) InSync() bool {
	return len(r.Missing) == 0
}

func newResult(directory, bucket string) *Result {
	return &Result{
		Directory: directory,
		Bucket:    bucket,
		Missing:   make([]string, 0),
		Uploaded:  make([]string, 0),
		Excluded:  make([]string, 0),
		Failed:    make(map[string]error),
	}
}

// Synchronizer uploads files present in a local directory but missing from a bucket.
// Remote objects are never deleted or overwritten.
type Synchronizer struct {
	conn      *Connection
	notifier  Notifier
	out       io.Writer
	exclude   []*regexp.Regexp
	listLocal walkFunc
	lock      *sync.Mutex
}

type SyncOption func(*Synchronizer) error

// WithNotifier reports every finished run to n.
func WithNotifier(n Notifier) SyncOption {
	return func(s *Synchronizer) error {
		s.notifier = n
		return nil
	}
}

// WithOutput sets where progress dots are written. Defaults to os.Stdout.
func WithOutput(w io.Writer) SyncOption {
	return func(s *Synchronizer) error {
		s.out = w
		return nil
	}
}

// WithExclude skips local keys matching any of the regular expressions.
func WithExclude(patterns ...string) SyncOption {
	return func(s *Synchronizer) error {
		if len(patterns) == 0 {
			return nil
		}
		for _, pattern := range patterns {
			exclude, err := regexp.Compile(pattern)
			if err != nil {
				return fmt.Errorf("%w: bad exclude pattern %q: %v", ErrConfiguration, pattern, err)
			}
			s.exclude = append(s.exclude, exclude)
		}
		return nil
	}
}

func NewSynchronizer(conn *Connection, opts ...SyncOption) (*Synchronizer, error) {
	if conn == nil {
		return nil, fmt.Errorf("%w: connection is nil", ErrConfiguration)
	}
	s := &Synchronizer{
		conn:      conn,
		out:       os.Stdout,
		listLocal: ListLocalFiles,
		lock:      new(sync.Mutex),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

func (s *Synchronizer) ListRemoteKeys(ctx context.Context, bucket *Bucket) (KeySet, error) {
	return s.conn.ListKeys(ctx, bucket)
}

func (s *Synchronizer) ListLocalFiles(directory string) (string, KeySet, error) {
	return s.listLocal(directory)
}

// Sync uploads every file under directory whose key is not yet in the bucket.
//
// Bucket, listing and walk failures stop the run and return their error.
// Individual upload failures do not: the loop carries on, and the returned
// error is a *SyncError naming each failed file. The Result is non-nil
// whenever the run got as far as diffing.
func (s *Synchronizer) Sync(ctx context.Context, directory, bucketName string) (*Result, error) {
	if !s.lock.TryLock() {
		log.Warn("Another sync routine is already running. Skipping.")
		return nil, ErrSyncInProgress
	}
	defer s.lock.Unlock()

	log.Info(fmt.Sprintf("Sync starting for %s -> %s.", directory, bucketName))
	syncStartTime := time.Now()

	bucket, bucketErr := s.conn.Bucket(ctx, bucketName)
	if bucketErr != nil {
		log.Error(bucketErr)
		return nil, bucketErr
	}

	remoteKeys, listErr := s.ListRemoteKeys(ctx, bucket)
	if listErr != nil {
		log.Warn(fmt.Sprintf("listBucket err: %s", listErr))
		return nil, listErr
	}
	basePath, localFiles, walkErr := s.ListLocalFiles(directory)
	if walkErr != nil {
		log.Warn(fmt.Sprintf("listLocalFilesErr: %s", walkErr))
		return nil, walkErr
	}

	result := newResult(directory, bucketName)
	result.Base = basePath
	for _, key := range localFiles.Difference(remoteKeys) {
		if s.isExcluded(key) {
			log.Info(fmt.Sprintf("%s matches exclusion list. skipping...", key))
			result.Excluded = append(result.Excluded, key)
			continue
		}
		result.Missing = append(result.Missing, key)
	}

	if result.InSync() {
		log.Info(fmt.Sprintf("Files in %s are synchronized with S3. Nothing uploaded.", basePath))
		result.Duration = time.Since(syncStartTime)
		s.notify(result)
		return result, nil
	}

	log.Info(fmt.Sprintf("%d file(s) found locally that are not in bucket %s.", len(result.Missing), bucketName))
	syncErr := s.uploadMissing(ctx, bucket, result)

	result.Duration = time.Since(syncStartTime)
	log.Info(fmt.Sprintf(
		"Sync complete for %s. Uploaded %d, failed %d. Took %s",
		directory, len(result.Uploaded), len(result.Failed), result.Duration.String(),
	))
	s.notify(result)

	if syncErr != nil {
		return result, syncErr
	}

	return result, nil
}

func (s *Synchronizer) isExcluded(key string) bool {
	for _, exclude := range s.exclude {
		if exclude.MatchString(key) {
			return true
		}
	}
	return false
}

func (s *Synchronizer) uploadMissing(ctx context.Context, bucket *Bucket, result *Result) *SyncError {
	var syncErr *SyncError

	for _, key := range result.Missing {
		targetFile := filepath.Join(result.Base, filepath.FromSlash(key))
		if ctx.Err() != nil {
			result.Failed[key] = ctx.Err()
			syncErr = appendFailure(syncErr, bucket.Name, &UploadError{Key: key, Path: targetFile, Err: ctx.Err()})
			continue
		}

		log.Info(fmt.Sprintf("Uploading %s to S3 bucket %s", targetFile, bucket.Name))
		uploadErr := s.conn.Upload(ctx, bucket, key, targetFile, DotProgress(s.out))
		fmt.Fprintln(s.out)

		if uploadErr != nil {
			log.Warn(fmt.Sprintf("Upload error for %s: %s", key, uploadErr))
			result.Failed[key] = uploadErr
			var failure *UploadError
			if !errors.As(uploadErr, &failure) {
				failure = &UploadError{Key: key, Path: targetFile, Err: uploadErr}
			}
			syncErr = appendFailure(syncErr, bucket.Name, failure)
			continue
		}
		result.Uploaded = append(result.Uploaded, key)
	}

	return syncErr
}

func appendFailure(syncErr *SyncError, bucket string, failure *UploadError) *SyncError {
	if syncErr == nil {
		syncErr = &SyncError{Bucket: bucket}
	}
	syncErr.Failures = append(syncErr.Failures, failure)

	return syncErr
}

func (s *Synchronizer) notify(result *Result) {
	if s.notifier == nil {
		return
	}
	if notifyErr := s.notifier.NotifySyncResults(result); notifyErr != nil {
		log.Warn(fmt.Sprintf("Error sending sync notification: %s", notifyErr))
	}
}
