package report

import (
	"runtime"
	"time"

	"github.com/elastic/go-sysinfo"
)

// Environment ...
type Environment interface {
	OS() OSInfo
	Now() time.Time
}

type systemEnvironment struct{}

// NewSystemEnvironment returns the Environment of the running host.
func NewSystemEnvironment() Environment {
	return systemEnvironment{}
}

// OS falls back to the GOOS of the binary when the host can not be inspected.
func (systemEnvironment) OS() OSInfo {
	host, err := sysinfo.Host()
	if err != nil {
		return OSInfo{Platform: runtime.GOOS}
	}

	osInfo := host.Info().OS
	if osInfo == nil {
		return OSInfo{Platform: runtime.GOOS}
	}

	platform := osInfo.Platform
	if platform == "" {
		platform = runtime.GOOS
	}

	return OSInfo{
		Platform: platform,
		Version:  osInfo.Version,
	}
}

func (systemEnvironment) Now() time.Time {
	return time.Now().UTC()
}
