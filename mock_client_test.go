package dirsync

import (
	"context"
	"io"
)

type MockS3Client struct {
	UploadRequests []MockRequest
	HeadRequests   []string
	ListRequests   []string
	headErr        error
	listErr        error
	uploadErrs     map[string]error
	mockList       KeySet
}

type MockRequest struct {
	DestBucket string
	Key        string
	Body       []byte
}

// NewMockClient lists mocked as the bucket contents. Successful uploads are
// added to it, so a second sync sees them.
func NewMockClient(mocked KeySet) *MockS3Client {
	if mocked == nil {
		mocked = NewKeySet()
	}
	return &MockS3Client{
		UploadRequests: make([]MockRequest, 0),
		uploadErrs:     make(map[string]error),
		mockList:       mocked,
	}
}

func (s *MockS3Client) HeadBucket(ctx context.Context, bucketName string) error {
	s.HeadRequests = append(s.HeadRequests, bucketName)
	return s.headErr
}

func (s *MockS3Client) ListObjects(ctx context.Context, bucketName string) (KeySet, error) {
	s.ListRequests = append(s.ListRequests, bucketName)
	if s.listErr != nil {
		return nil, s.listErr
	}
	return NewKeySet(s.mockList.Sorted()...), nil
}

func (s *MockS3Client) UploadFile(ctx context.Context, bucketName string, key string, body io.Reader) error {
	content, readErr := io.ReadAll(body)
	if readErr != nil {
		return readErr
	}
	s.UploadRequests = append(s.UploadRequests, MockRequest{DestBucket: bucketName, Key: key, Body: content})
	if err, ok := s.uploadErrs[key]; ok {
		return err
	}
	s.mockList.Add(key)
	return nil
}

func (s *MockS3Client) uploadedKeys() []string {
	keys := make([]string, 0, len(s.UploadRequests))
	for _, req := range s.UploadRequests {
		keys = append(keys, req.Key)
	}
	return keys
}
