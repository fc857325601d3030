package dirsync

import (
	"context"
	"fmt"
	"os"

	"github.com/jinzhu/configor"
)

// EnvPrefix is prepended to environment overrides, e.g. DIRSYNC_SECRETACCESSKEY.
const EnvPrefix = "DIRSYNC"

type AppConfig struct {
	AccessKeyID     string
	SecretAccessKey string
	Region          string `default:"us-east-1"`
	Endpoint        string
	PathStyle       bool
	MaxAttempts     int    `default:"3"`
	LogLevel        string `default:"info"`
	LogJSON         bool
	Sync            []SyncConfig
	Notify          NotifyConfig
}

type SyncConfig struct {
	SourceFolder      string `required:"true"`
	DestinationBucket string `required:"true"`
	// Interval is in seconds. Zero runs the sync once.
	Interval int
	Exclude  []string
}

type NotifyConfig struct {
	Topic   string
	Region  string
	Profile string
}

// LoadConfig reads a YAML, JSON or TOML file and applies DIRSYNC_* environment overrides.
func LoadConfig(path string) (AppConfig, error) {
	var appConfig AppConfig

	if _, statErr := os.Stat(path); statErr != nil {
		return appConfig, fmt.Errorf("%w: %v", ErrConfiguration, statErr)
	}
	loader := configor.New(&configor.Config{ENVPrefix: EnvPrefix})
	if loadErr := loader.Load(&appConfig, path); loadErr != nil {
		return appConfig, fmt.Errorf("%w: %v", ErrConfiguration, loadErr)
	}
	if len(appConfig.Sync) == 0 {
		return appConfig, fmt.Errorf("%w: no folders to sync in %s", ErrConfiguration, path)
	}

	return appConfig, nil
}

func (c AppConfig) Credentials() Credentials {
	return Credentials{AccessKeyID: c.AccessKeyID, SecretAccessKey: c.SecretAccessKey}
}

func (c AppConfig) NewConnection(ctx context.Context) (*Connection, error) {
	return NewConnection(ctx, c.Credentials(),
		WithRegion(c.Region),
		WithEndpoint(c.Endpoint),
		WithPathStyle(c.PathStyle),
		WithMaxAttempts(c.MaxAttempts),
	)
}

// NewNotifier returns nil when no notification topic is configured.
func (c AppConfig) NewNotifier(ctx context.Context) (Notifier, error) {
	if c.Notify.Topic == "" {
		return nil, nil
	}
	notifyConfig := c.Notify
	if notifyConfig.Region == "" {
		notifyConfig.Region = c.Region
	}

	notifier, err := NewSNSNotifier(ctx, notifyConfig)
	if err != nil {
		return nil, err
	}

	return notifier, nil
}

// ConfigStringArray renders the config for the startup log. Secrets are left out.
func (c AppConfig) ConfigStringArray() []string {
	configStrArr := make([]string, 0)
	configStrArr = append(configStrArr, fmt.Sprintf("  - Region: %s", c.Region))
	if c.Endpoint != "" {
		configStrArr = append(configStrArr, fmt.Sprintf("  - Endpoint: %s (path style: %t)", c.Endpoint, c.PathStyle))
	}
	configStrArr = append(configStrArr, fmt.Sprintf("  - AccessKeyID: %s", c.AccessKeyID))
	configStrArr = append(configStrArr, fmt.Sprintf("  - Max Attempts: %d", c.MaxAttempts))

	if c.Notify.Topic != "" {
		configStrArr = append(configStrArr, fmt.Sprintf("  - SNSTopic: %s", c.Notify.Topic))
	}

	configStrArr = append(configStrArr, "Folders To Sync:")
	for _, syncConfig := range c.Sync {
		configStrArr = append(configStrArr, fmt.Sprintf("%+v", syncConfig))
	}

	return configStrArr
}
