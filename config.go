package crashreporter

import (
	"time"

	"github.com/bitrise-io/go-crashreporter/report"
	"github.com/bitrise-io/go-steputils/v2/stepconf"
	"github.com/bitrise-io/go-utils/v2/env"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/pkg/errors"
)

// EnvConfig ...
type EnvConfig struct {
	AppIdentifier  string `env:"HOCKEYAPP_APP_ID,required"`
	BaseURL        string `env:"HOCKEYAPP_BASE_URL"`
	TimeoutSeconds int    `env:"HOCKEYAPP_TIMEOUT_SECONDS"`
	DebugMode      bool   `env:"HOCKEYAPP_DEBUG_MODE"`
}

// LoadConfig reads the reporter config from the environment. Metadata is
// supplied by the host.
func LoadConfig(envRepo env.Repository, metadata report.Metadata) (report.Config, EnvConfig, error) {
	var envConfig EnvConfig
	if err := stepconf.NewInputParser(envRepo).Parse(&envConfig); err != nil {
		return report.Config{}, EnvConfig{}, err
	}

	return report.Config{
		AppIdentifier: envConfig.AppIdentifier,
		Metadata:      metadata,
		BaseURL:       envConfig.BaseURL,
		Timeout:       time.Duration(envConfig.TimeoutSeconds) * time.Second,
	}, envConfig, nil
}

// ConfigureFromEnv is Configure with the identifier and the transport
// settings read from the environment.
func ConfigureFromEnv(app interface{}, envRepo env.Repository) error {
	metadata := report.BuildMetadata()
	metadata.Package = report.PackageName(app)

	config, envConfig, err := LoadConfig(envRepo, metadata)
	if err != nil {
		return errors.Wrap(err, "failed to load crash reporter config")
	}

	logger := log.NewLogger()
	logger.EnableDebugLog(envConfig.DebugMode)

	return ConfigureWith(config, logger)
}
