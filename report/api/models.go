package api

import (
	"fmt"
	"net/url"
)

// UploadRequest ...
type UploadRequest struct {
	Raw        string
	SDK        string
	SDKVersion string
}

// NewUploadRequest ...
func NewUploadRequest(raw string) UploadRequest {
	return UploadRequest{
		Raw:        raw,
		SDK:        SDKName,
		SDKVersion: SDKVersion,
	}
}

// Encode returns the application/x-www-form-urlencoded form of the request.
func (r UploadRequest) Encode() string {
	values := url.Values{
		"raw":         {r.Raw},
		"sdk":         {r.SDK},
		"sdk_version": {r.SDKVersion},
	}
	return values.Encode()
}

// ParseUploadRequest decodes a form body produced by Encode.
func ParseUploadRequest(body string) (UploadRequest, error) {
	values, err := url.ParseQuery(body)
	if err != nil {
		return UploadRequest{}, err
	}

	if _, ok := values["raw"]; !ok {
		return UploadRequest{}, fmt.Errorf("missing raw field")
	}

	return UploadRequest{
		Raw:        values.Get("raw"),
		SDK:        values.Get("sdk"),
		SDKVersion: values.Get("sdk_version"),
	}, nil
}

// TransportError is returned for any failed crash report delivery.
type TransportError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("request to %s failed: status code should be 2xx (%d)", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("request to %s failed: %s", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
