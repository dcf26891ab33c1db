package api

import (
	"context"
	"net/http"
	"net/http/httputil"
	"strings"
	"time"

	"github.com/bitrise-io/go-utils/urlutil"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-io/go-utils/v2/retryhttp"
	"github.com/docker/go-units"
	"github.com/hashicorp/go-retryablehttp"
)

const (
	// DefaultBaseURL is the collector host crash reports are sent to.
	DefaultBaseURL = "https://rink.hockeyapp.net"
	// SDKName ...
	SDKName = "HockeySDK"
	// SDKVersion ...
	SDKVersion = "1.0.0"
	// UserAgent ...
	UserAgent = "Hockey/Go"
)

// ClientAPI ...
type ClientAPI interface {
	SendCrash(ctx context.Context, appIdentifier, raw string) error
}

// HTTPClient ...
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// CrashClient ...
type CrashClient struct {
	logger     log.Logger
	httpClient HTTPClient
	baseURL    string
}

// NewCrashClient ...
func NewCrashClient(baseURL string, timeout time.Duration, logger log.Logger) *CrashClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &CrashClient{
		logger:     logger,
		httpClient: newSingleAttemptClient(timeout, logger).StandardClient(),
		baseURL:    baseURL,
	}
}

// newSingleAttemptClient makes exactly one attempt per request and hands
// non-2xx responses back to the caller.
func newSingleAttemptClient(timeout time.Duration, logger log.Logger) *retryablehttp.Client {
	client := retryhttp.NewClient(logger)
	client.RetryMax = 0
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler
	client.HTTPClient.Timeout = timeout

	return client
}

// CrashURL ...
func CrashURL(baseURL, appIdentifier string) (string, error) {
	return urlutil.Join(baseURL, "api/2/apps", appIdentifier, "crashes")
}

// SendCrash uploads the raw crash log of the given app.
func (c *CrashClient) SendCrash(ctx context.Context, appIdentifier, raw string) error {
	url, err := CrashURL(c.baseURL, appIdentifier)
	if err != nil {
		return &TransportError{URL: c.baseURL, Err: err}
	}

	body := NewUploadRequest(raw).Encode()
	c.logger.Debugf("Uploading crash report (%s)", units.HumanSize(float64(len(body))))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(body))
	if err != nil {
		return &TransportError{URL: url, Err: err}
	}

	return c.perform(req)
}

func (c *CrashClient) perform(request *http.Request) error {
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	request.Header.Set("User-Agent", UserAgent)

	dump, err := httputil.DumpRequest(request, false)
	if err != nil {
		c.logger.Warnf("Request dump failed: %s", err)
	} else {
		c.logger.Debugf("Request dump: %s", string(dump))
	}

	url := request.URL.String()

	resp, err := c.httpClient.Do(request)
	if err != nil {
		return &TransportError{URL: url, Err: err}
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Warnf("Failed to close response body: %s", err)
		}
	}()

	dump, err = httputil.DumpResponse(resp, true)
	if err != nil {
		c.logger.Warnf("Response dump failed: %s", err)
	} else {
		c.logger.Debugf("Response dump: %s", string(dump))
	}

	if resp.StatusCode >= 300 || resp.StatusCode < 200 {
		return &TransportError{URL: url, StatusCode: resp.StatusCode}
	}

	return nil
}
