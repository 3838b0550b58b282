// Package useragent classifies browser, OS and device class from a raw
// User-Agent header. It is a best-effort substring matcher over a short list
// of known tokens, not a full parser; order of checks matters (Chrome UAs
// also contain "Safari", so Chrome is checked first).
package useragent

import (
	"regexp"
	"strings"

	"github.com/shreesteel/backend/internal/models"
)

// Info is the parsed result for one user-agent string.
type Info struct {
	Browser models.BrowserInfo
	OS      models.OSInfo
	Device  models.DeviceClass
}

var (
	chromeVersion  = regexp.MustCompile(`Chrome/([0-9.]+)`)
	firefoxVersion = regexp.MustCompile(`Firefox/([0-9.]+)`)
	safariVersion  = regexp.MustCompile(`Version/([0-9.]+)`)
	edgeVersion    = regexp.MustCompile(`Edge?/([0-9.]+)`)
)

// Parse classifies a user-agent string. An empty string yields "unknown"
// across the board.
func Parse(userAgent string) Info {
	info := Info{
		Browser: models.BrowserInfo{Name: "unknown", Version: "unknown"},
		OS:      models.OSInfo{Name: "unknown", Version: "unknown"},
		Device:  models.DeviceUnknown,
	}

	if userAgent == "" {
		return info
	}

	switch {
	case strings.Contains(userAgent, "Chrome"):
		info.Browser.Name = "Chrome"
		if m := chromeVersion.FindStringSubmatch(userAgent); m != nil {
			info.Browser.Version = m[1]
		}
	case strings.Contains(userAgent, "Firefox"):
		info.Browser.Name = "Firefox"
		if m := firefoxVersion.FindStringSubmatch(userAgent); m != nil {
			info.Browser.Version = m[1]
		}
	case strings.Contains(userAgent, "Safari"):
		info.Browser.Name = "Safari"
		if m := safariVersion.FindStringSubmatch(userAgent); m != nil {
			info.Browser.Version = m[1]
		}
	case strings.Contains(userAgent, "Edge"):
		info.Browser.Name = "Edge"
		if m := edgeVersion.FindStringSubmatch(userAgent); m != nil {
			info.Browser.Version = m[1]
		}
	}

	switch {
	case strings.Contains(userAgent, "Windows"):
		info.OS.Name = "Windows"
	case strings.Contains(userAgent, "Mac OS"):
		info.OS.Name = "macOS"
	case strings.Contains(userAgent, "Linux"):
		info.OS.Name = "Linux"
	case strings.Contains(userAgent, "Android"):
		info.OS.Name = "Android"
	case strings.Contains(userAgent, "iOS"):
		info.OS.Name = "iOS"
	}

	switch {
	case strings.Contains(userAgent, "Mobile") || strings.Contains(userAgent, "Android"):
		info.Device = models.DeviceMobile
	case strings.Contains(userAgent, "Tablet") || strings.Contains(userAgent, "iPad"):
		info.Device = models.DeviceTablet
	default:
		info.Device = models.DeviceDesktop
	}

	return info
}
