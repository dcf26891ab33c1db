package report

import (
	"context"
	"time"

	"github.com/bitrise-io/go-crashreporter/report/api"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/kr/pretty"
	"github.com/pkg/errors"
)

// DefaultTimeout bounds a single crash report upload.
const DefaultTimeout = 10 * time.Second

// Reporter ...
type Reporter struct {
	config Config
	client api.ClientAPI
	env    Environment
	logger log.Logger
}

// NewReporter ...
func NewReporter(config Config, logger log.Logger) *Reporter {
	if config.BaseURL == "" {
		config.BaseURL = api.DefaultBaseURL
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}

	logger.Debugf("Crash reporter config: %# v", pretty.Formatter(config))

	return &Reporter{
		config: config,
		client: api.NewCrashClient(config.BaseURL, config.Timeout, logger),
		env:    NewSystemEnvironment(),
		logger: logger,
	}
}

// Config ...
func (r *Reporter) Config() Config {
	return r.config
}

// CreateHeader ...
func (r *Reporter) CreateHeader() string {
	return Header(r.config.Metadata, r.env.OS(), r.env.Now())
}

// CreateCrashLog ...
func (r *Reporter) CreateCrashLog(ex *Exception) string {
	return CrashLog(r.CreateHeader(), ex)
}

// SendCrash uploads the crash log of ex. A failed delivery is logged and
// returned, the caller is free to ignore it.
func (r *Reporter) SendCrash(ctx context.Context, ex *Exception) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = &api.TransportError{URL: r.config.BaseURL, Err: errors.Errorf("panic: %v", recovered)}
			r.logger.Warnf("Failed to send crash report: %s", err)
		}
	}()

	if ctx == nil {
		ctx = context.Background()
	}
	timeout := r.config.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := r.client.SendCrash(ctx, r.config.AppIdentifier, r.CreateCrashLog(ex)); err != nil {
		r.logger.Warnf("Failed to send crash report: %s", err)
		return err
	}

	r.logger.Debugf("Crash report sent")

	return nil
}
