package report

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bitrise-io/go-crashreporter/report/api"
	"github.com/bitrise-io/go-crashreporter/report/mocks"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	appIdentifier  = "abc123"
	expectedHeader = "Package: github.com/example/app\nProduct-ID: app\nVersion: 1.2.3\nOS: ubuntu 22.04\nDate: 2012-01-02T03:04:05.0000000Z\n"
)

type fakeEnvironment struct{}

func (fakeEnvironment) OS() OSInfo {
	return OSInfo{Platform: "ubuntu", Version: "22.04"}
}

func (fakeEnvironment) Now() time.Time {
	return time.Date(2012, 1, 2, 3, 4, 5, 0, time.UTC)
}

type recordingLogger struct {
	log.Logger
	warnings []string
}

func (l *recordingLogger) Warnf(format string, v ...interface{}) {
	l.warnings = append(l.warnings, fmt.Sprintf(format, v...))
}

func createSutAndMock(t *testing.T) (*Reporter, *mocks.ClientAPI, *recordingLogger) {
	mockClient := mocks.NewClientAPI(t)
	logger := &recordingLogger{Logger: log.NewLogger()}
	reporter := &Reporter{
		config: Config{
			AppIdentifier: appIdentifier,
			Metadata:      Metadata{Package: "github.com/example/app", ProductID: "app", Version: "1.2.3"},
			BaseURL:       api.DefaultBaseURL,
			Timeout:       time.Second,
		},
		client: mockClient,
		env:    fakeEnvironment{},
		logger: logger,
	}

	return reporter, mockClient, logger
}

func TestCreateHeader(t *testing.T) {
	reporter, _, _ := createSutAndMock(t)

	assert.Equal(t, expectedHeader, reporter.CreateHeader())
}

func TestSendCrash(t *testing.T) {
	reporter, mockClient, logger := createSutAndMock(t)
	ex := &Exception{Message: "boom", StackTrace: "at Foo.Bar()"}

	mockClient.On("SendCrash", mock.Anything, appIdentifier, expectedHeader+"\nboom\nat Foo.Bar()").Return(nil).Run(func(args mock.Arguments) {
		ctx, ok := args.Get(0).(context.Context)
		require.True(t, ok)
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)
	})

	err := reporter.SendCrash(context.Background(), ex)

	assert.NoError(t, err)
	assert.Empty(t, logger.warnings)
}

func TestSendCrashFailureIsLoggedAndReturned(t *testing.T) {
	reporter, mockClient, logger := createSutAndMock(t)
	transportErr := &api.TransportError{URL: "https://collector.test", Err: errors.New("dial tcp: connection refused")}

	mockClient.On("SendCrash", mock.Anything, appIdentifier, mock.Anything).Return(transportErr)

	err := reporter.SendCrash(context.Background(), &Exception{})

	assert.Equal(t, transportErr, err)
	require.Len(t, logger.warnings, 1)
	assert.Contains(t, logger.warnings[0], "connection refused")
}

func TestSendCrashDoesNotPanic(t *testing.T) {
	reporter, mockClient, logger := createSutAndMock(t)

	mockClient.On("SendCrash", mock.Anything, appIdentifier, mock.Anything).Return(nil).Run(func(mock.Arguments) {
		panic("client exploded")
	})

	var err error
	assert.NotPanics(t, func() {
		err = reporter.SendCrash(context.Background(), &Exception{})
	})

	var transportErr *api.TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.Contains(t, err.Error(), "client exploded")
	assert.Len(t, logger.warnings, 1)
}

func TestNewReporterDefaults(t *testing.T) {
	reporter := NewReporter(Config{AppIdentifier: appIdentifier}, log.NewLogger())

	assert.Equal(t, api.DefaultBaseURL, reporter.Config().BaseURL)
	assert.Equal(t, DefaultTimeout, reporter.Config().Timeout)
}
