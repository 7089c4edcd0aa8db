package utils

import (
	"strings"

	ua "github.com/mssola/user_agent"
)

// DeviceInfo holds parsed information from a User-Agent string, attached to
// checkout audit rows
type DeviceInfo struct {
	DeviceType string `json:"device_type"` // mobile, tablet, desktop
	OS         string `json:"os"`
	Browser    string `json:"browser"`
	BrowserVer string `json:"browser_ver"`
	IsBot      bool   `json:"is_bot"`
	Platform   string `json:"platform"`
	Raw        string `json:"raw"`
}

// ParseUserAgent parses a User-Agent string and extracts device information
func ParseUserAgent(userAgent string) DeviceInfo {
	if userAgent == "" {
		return DeviceInfo{
			DeviceType: "unknown",
			OS:         "Unknown",
			Browser:    "Unknown",
			Platform:   "unknown",
			Raw:        userAgent,
		}
	}

	parser := ua.New(userAgent)
	browser, version := parser.Browser()

	info := DeviceInfo{
		Raw:        userAgent,
		IsBot:      parser.Bot(),
		OS:         parser.OS(),
		Browser:    browser,
		BrowserVer: version,
		Platform:   strings.ToLower(parser.Platform()),
	}

	switch {
	case parser.Mobile():
		info.DeviceType = "mobile"
	case strings.Contains(strings.ToLower(userAgent), "tablet"),
		strings.Contains(strings.ToLower(userAgent), "ipad"):
		info.DeviceType = "tablet"
	default:
		info.DeviceType = "desktop"
	}

	return info
}
