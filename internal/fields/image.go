// Package fields turns raw sheet cells into display-ready values.
// Every resolver has a fallback and never returns an error.
package fields

import (
	"net/url"
	"regexp"
	"strings"
)

const (
	driveEmbedMarker = "drive.google.com/uc"
	driveViewURL     = "https://drive.google.com/uc?export=view&id="
)

var (
	driveQueryID = regexp.MustCompile(`[?&]id=([a-zA-Z0-9_-]+)`)
	drivePathID  = regexp.MustCompile(`/d/([a-zA-Z0-9_-]+)`)
)

// ResolveImage returns a usable image URL for raw, or "" when raw is unusable.
// Drive share links are rewritten to the direct-view form; other https URLs pass through.
func ResolveImage(raw string) string {
	if raw == "" {
		return ""
	}
	if strings.Contains(raw, driveEmbedMarker) {
		return raw
	}
	if m := driveQueryID.FindStringSubmatch(raw); m != nil {
		return driveViewURL + m[1]
	}
	if m := drivePathID.FindStringSubmatch(raw); m != nil {
		return driveViewURL + m[1]
	}
	u, err := url.Parse(raw)
	if err == nil && u.Scheme == "https" && u.Host != "" {
		return raw
	}
	return ""
}
