package dirsync

import (
	"context"
	"fmt"
	"sort"
	"unicode/utf8"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// SNS rejects messages over 256KB and subjects over 100 characters.
const (
	maxSNSMessageBytes = 256 * 1024
	maxSNSSubjectLen   = 100
	truncatedMarker    = "(truncated)\n"
)

func NewSNSNotifier(ctx context.Context, notifyConfig NotifyConfig) (*SNSNotifier, error) {
	cfg, cfgErr := config.LoadDefaultConfig(ctx,
		config.WithSharedConfigProfile(notifyConfig.Profile),
		config.WithRegion(notifyConfig.Region))
	if cfgErr != nil {
		return nil, cfgErr
	}
	snsClient := &SNSClient{sns.NewFromConfig(cfg)}

	return &SNSNotifier{Client: snsClient, Topic: notifyConfig.Topic}, nil
}

type SNSClientIface interface {
	PublishMessage(ctx context.Context, msg *sns.PublishInput) error
}

type SNSClient struct {
	Client *sns.Client
}

func (s *SNSClient) PublishMessage(ctx context.Context, msg *sns.PublishInput) error {
	_, publishErr := s.Client.Publish(ctx, msg)
	return publishErr
}

// SNSNotifier publishes a message to Topic when a sync run had failed uploads.
type SNSNotifier struct {
	Client SNSClientIface
	Topic  string
}

func (s *SNSNotifier) NotifySyncResults(result *Result) error {
	// if no errors we dont need to send any notification
	if result == nil || len(result.Failed) == 0 {
		return nil
	}

	keys := make([]string, 0, len(result.Failed))
	for key := range result.Failed {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	notificationBody := fmt.Sprintf("Uploaded: %d\nFailed: %d\n\n", len(result.Uploaded), len(result.Failed))
	for _, key := range keys {
		entry := fmt.Sprintf("Action: Upload\nKey: %s\nError: %s\n\n", key, result.Failed[key])
		if len(notificationBody)+len(entry)+len(truncatedMarker) > maxSNSMessageBytes {
			notificationBody += truncatedMarker
			break
		}
		notificationBody += entry
	}

	subject := fmt.Sprintf("Sync Errors: %s -> %s", result.Directory, result.Bucket)
	if utf8.RuneCountInString(subject) > maxSNSSubjectLen {
		subject = string([]rune(subject)[:maxSNSSubjectLen])
	}

	snsPublishReq := &sns.PublishInput{
		Message:  aws.String(notificationBody),
		TopicArn: aws.String(s.Topic),
		Subject:  aws.String(subject),
	}

	return s.Client.PublishMessage(context.TODO(), snsPublishReq)
}
