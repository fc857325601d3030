package dirsync

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/aws/smithy-go"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultRegion      = "us-east-1"
	DefaultMaxAttempts = 3
)

// Credentials is the access key pair used to sign store requests.
// It is held in memory only.
type Credentials struct {
	AccessKeyID     string
	SecretAccessKey string
}

func (c Credentials) validate() error {
	if strings.TrimSpace(c.AccessKeyID) == "" || strings.TrimSpace(c.SecretAccessKey) == "" {
		return fmt.Errorf("%w: you must provide an access key id and secret access key to connect to the object store", ErrConfiguration)
	}

	return nil
}

// String keeps the secret out of logs and %v output.
func (c Credentials) String() string {
	return fmt.Sprintf("Credentials{AccessKeyID: %s, SecretAccessKey: ****}", c.AccessKeyID)
}

type connectionOptions struct {
	region      string
	endpoint    string
	pathStyle   bool
	maxAttempts int
	client      BucketClient
}

type ConnectionOption func(*connectionOptions)

func WithRegion(region string) ConnectionOption {
	return func(o *connectionOptions) {
		if region != "" {
			o.region = region
		}
	}
}

// WithEndpoint points the connection at an S3-compatible endpoint such as MinIO or LocalStack.
func WithEndpoint(endpoint string) ConnectionOption {
	return func(o *connectionOptions) {
		o.endpoint = endpoint
	}
}

func WithPathStyle(pathStyle bool) ConnectionOption {
	return func(o *connectionOptions) {
		o.pathStyle = pathStyle
	}
}

func WithMaxAttempts(attempts int) ConnectionOption {
	return func(o *connectionOptions) {
		if attempts > 0 {
			o.maxAttempts = attempts
		}
	}
}

// WithBucketClient replaces the S3 client built from the credentials.
func WithBucketClient(client BucketClient) ConnectionOption {
	return func(o *connectionOptions) {
		o.client = client
	}
}

// Connection holds credentials and a client for one object store.
// It has no internal locking; use one per concurrently running sync.
type Connection struct {
	credentials Credentials
	client      BucketClient
}

// Bucket is a resolved bucket handle. It is not cached across syncs.
type Bucket struct {
	Name string
}

// NewConnection validates creds and builds the store client.
// Empty credentials fail with ErrConfiguration before any client is created.
func NewConnection(ctx context.Context, creds Credentials, opts ...ConnectionOption) (*Connection, error) {
	if err := creds.validate(); err != nil {
		return nil, err
	}

	options := connectionOptions{
		region:      DefaultRegion,
		maxAttempts: DefaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(&options)
	}

	client := options.client
	if client == nil {
		s3Client, err := newS3Client(ctx, creds, options)
		if err != nil {
			return nil, err
		}
		client = s3Client
	}

	return &Connection{credentials: creds, client: client}, nil
}

// Bucket checks that the named bucket exists and is reachable.
func (c *Connection) Bucket(ctx context.Context, name string) (*Bucket, error) {
	if name == "" {
		return nil, &BucketError{Bucket: name, Err: errors.New("bucket name is empty")}
	}

	if err := c.client.HeadBucket(ctx, name); err != nil {
		bucketErr := &BucketError{Bucket: name, Err: err}
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			bucketErr.Code = apiErr.ErrorCode()
		}
		return nil, bucketErr
	}

	return &Bucket{Name: name}, nil
}

// ListKeys returns every object key in the bucket.
func (c *Connection) ListKeys(ctx context.Context, bucket *Bucket) (KeySet, error) {
	keys, err := c.client.ListObjects(ctx, bucket.Name)
	if err != nil {
		return nil, fmt.Errorf("%w: bucket %s: %v", ErrListing, bucket.Name, err)
	}

	return keys, nil
}

// Upload streams the file at localPath to key. progress may be nil.
func (c *Connection) Upload(ctx context.Context, bucket *Bucket, key, localPath string, progress ProgressFunc) error {
	fd, fileErr := os.Open(localPath)
	if fileErr != nil {
		return &UploadError{Key: key, Path: localPath, Err: fileErr}
	}
	defer fd.Close()

	info, statErr := fd.Stat()
	if statErr != nil {
		return &UploadError{Key: key, Path: localPath, Err: statErr}
	}

	body := newProgressReader(fd, info.Size(), progress)
	if uploadErr := c.client.UploadFile(ctx, bucket.Name, key, body); uploadErr != nil {
		return &UploadError{Key: key, Path: localPath, Err: uploadErr}
	}
	log.Debug(fmt.Sprintf("Uploaded file %s as key %s", localPath, key))

	return nil
}
