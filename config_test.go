package dirsync

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfigJSONWithDefaults(t *testing.T) {
	path := writeConfig(t, "dirsync.json", `{
  "AccessKeyID": "file-id",
  "SecretAccessKey": "file-secret",
  "Sync": [
    {"SourceFolder": "/data/feed", "DestinationBucket": "feed-bucket", "Interval": 300, "Exclude": ["\\.tmp$"]}
  ],
  "Notify": {"Topic": "arn:aws:sns:us-east-1:123456789012:sync"}
}`)

	appConfig, err := LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, "us-east-1", appConfig.Region)
	assert.Equal(t, 3, appConfig.MaxAttempts)
	assert.Equal(t, "info", appConfig.LogLevel)
	require.Len(t, appConfig.Sync, 1)
	assert.Equal(t, "/data/feed", appConfig.Sync[0].SourceFolder)
	assert.Equal(t, "feed-bucket", appConfig.Sync[0].DestinationBucket)
	assert.Equal(t, 300, appConfig.Sync[0].Interval)
	assert.Equal(t, []string{`\.tmp$`}, appConfig.Sync[0].Exclude)
	assert.Equal(t, Credentials{AccessKeyID: "file-id", SecretAccessKey: "file-secret"}, appConfig.Credentials())
}

func TestLoadConfigYAML(t *testing.T) {
	path := writeConfig(t, "dirsync.yml", `
region: eu-central-1
endpoint: http://localhost:9000
pathstyle: true
sync:
  - sourcefolder: /srv/export
    destinationbucket: export-bucket
`)

	appConfig, err := LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, "eu-central-1", appConfig.Region)
	assert.Equal(t, "http://localhost:9000", appConfig.Endpoint)
	assert.True(t, appConfig.PathStyle)
	require.Len(t, appConfig.Sync, 1)
	assert.Equal(t, 0, appConfig.Sync[0].Interval)
}

func TestLoadConfigEnvironmentOverride(t *testing.T) {
	t.Setenv("DIRSYNC_SECRETACCESSKEY", "env-secret")
	path := writeConfig(t, "dirsync.json", `{
  "AccessKeyID": "file-id",
  "Sync": [{"SourceFolder": "/data/feed", "DestinationBucket": "feed-bucket"}]
}`)

	appConfig, err := LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, "env-secret", appConfig.SecretAccessKey)
}

func TestLoadConfigErrors(t *testing.T) {
	cases := map[string]string{
		"no sync entries":    `{"AccessKeyID": "id", "SecretAccessKey": "secret"}`,
		"missing bucket":     `{"Sync": [{"SourceFolder": "/data/feed"}]}`,
		"missing source dir": `{"Sync": [{"DestinationBucket": "b"}]}`,
	}

	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, "dirsync.json", content))
			assert.True(t, errors.Is(err, ErrConfiguration))
		})
	}

	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yml"))
	assert.True(t, errors.Is(err, ErrConfiguration))
}

func TestConfigWithoutCredentialsFailsAtConnection(t *testing.T) {
	appConfig := AppConfig{Region: "us-east-1", MaxAttempts: 3}

	_, err := appConfig.NewConnection(context.Background())

	assert.True(t, errors.Is(err, ErrConfiguration))
}

func TestNewNotifierWithoutTopic(t *testing.T) {
	notifier, err := AppConfig{}.NewNotifier(context.Background())

	assert.NoError(t, err)
	assert.Nil(t, notifier)
}

func TestConfigStringArrayOmitsSecret(t *testing.T) {
	appConfig := AppConfig{
		AccessKeyID:     "visible-id",
		SecretAccessKey: "hidden-secret",
		Region:          "us-east-1",
		Sync:            []SyncConfig{{SourceFolder: "/data/feed", DestinationBucket: "feed-bucket"}},
		Notify:          NotifyConfig{Topic: "topic-arn"},
	}

	rendered := strings.Join(appConfig.ConfigStringArray(), "\n")

	assert.Contains(t, rendered, "visible-id")
	assert.Contains(t, rendered, "topic-arn")
	assert.Contains(t, rendered, "/data/feed")
	assert.NotContains(t, rendered, "hidden-secret")
}
