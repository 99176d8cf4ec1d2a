package session

import (
	"fmt"
	"net/url"
	"strings"
)

// Endpoint defaults.
const (
	DefaultHost = "localhost:4000"
	Path        = "/view-log-ws"
)

// EndpointURL builds the websocket URL for host. The scheme follows the
// origin: secure origins always get wss, even when host names a plain
// scheme. A host given as https:// or wss:// is itself a secure origin.
func EndpointURL(host string, secure bool) (*url.URL, error) {
	trimmed := strings.TrimSpace(host)
	if trimmed == "" {
		trimmed = DefaultHost
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "ws://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse host %q: %w", host, err)
	}

	switch strings.ToLower(u.Scheme) {
	case "https", "wss":
		secure = true
	case "http", "ws":
	default:
		return nil, fmt.Errorf("unsupported scheme %q in host %q", u.Scheme, host)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("host %q has no address", host)
	}

	u.Scheme = "ws"
	if secure {
		u.Scheme = "wss"
	}
	u.Path = Path
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	u.User = nil
	return u, nil
}
