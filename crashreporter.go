// Package crashreporter captures a failure of the host application, renders
// it into a crash report and uploads it to the collector.
//
// The package level functions operate on a process-wide Reporter that can be
// configured exactly once.
package crashreporter

import (
	"context"
	"sync/atomic"

	"github.com/bitrise-io/go-crashreporter/report"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/pkg/errors"
)

var (
	// ErrAlreadyConfigured is returned by every Configure call after the first successful one.
	ErrAlreadyConfigured = errors.New("crash reporter was already configured")
	// ErrNotConfigured is returned when the default reporter is used before Configure.
	ErrNotConfigured = errors.New("crash reporter is not configured")
)

var defaultReporter atomic.Pointer[report.Reporter]

// Configure sets up the default reporter for app, a value of the host
// application whose package path is reported, and the collector app
// identifier.
func Configure(app interface{}, identifier string) error {
	metadata := report.BuildMetadata()
	metadata.Package = report.PackageName(app)

	return ConfigureWith(report.Config{
		AppIdentifier: identifier,
		Metadata:      metadata,
	}, log.NewLogger())
}

// ConfigureWith sets up the default reporter with an explicit config.
func ConfigureWith(config report.Config, logger log.Logger) error {
	if defaultReporter.Load() != nil {
		return ErrAlreadyConfigured
	}

	if !defaultReporter.CompareAndSwap(nil, report.NewReporter(config, logger)) {
		return ErrAlreadyConfigured
	}

	return nil
}

// Default returns the configured default reporter or nil.
func Default() *report.Reporter {
	return defaultReporter.Load()
}

// CreateHeader ...
func CreateHeader() (string, error) {
	reporter := defaultReporter.Load()
	if reporter == nil {
		return "", ErrNotConfigured
	}

	return reporter.CreateHeader(), nil
}

// SendCrash uploads ex with the default reporter. Delivery failures are
// already logged, the returned error is informational.
func SendCrash(ex *report.Exception) error {
	reporter := defaultReporter.Load()
	if reporter == nil {
		return ErrNotConfigured
	}

	return reporter.SendCrash(context.Background(), ex)
}

// SendError is SendCrash for a Go error.
func SendError(err error) error {
	return SendCrash(report.FromError(err))
}
