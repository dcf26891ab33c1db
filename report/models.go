package report

import (
	"time"
)

// Exception ...
type Exception struct {
	Message    string
	StackTrace string
	Inner      *Exception
}

// Metadata describes the host application in the report header.
type Metadata struct {
	Package   string
	ProductID string
	Version   string
}

// OSInfo ...
type OSInfo struct {
	Platform string
	Version  string
}

// Config is the immutable configuration of a Reporter.
type Config struct {
	AppIdentifier string
	Metadata      Metadata
	BaseURL       string
	Timeout       time.Duration
}
