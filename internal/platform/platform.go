// Package platform detects which of the three controller front-ends
// (UniFiOS, Standalone, Cloud) a base URL points at, since that
// determines REST/Legacy path prefixing and push-stream availability
// (§4.2, §4.3, GLOSSARY "Platform").
package platform

import (
	"context"
	"net/http"
	"strings"
)

// Kind is one of the three controller front-ends.
type Kind int

const (
	UniFiOS Kind = iota
	Standalone
	Cloud
)

func (k Kind) String() string {
	switch k {
	case UniFiOS:
		return "unifi-os"
	case Cloud:
		return "cloud"
	default:
		return "standalone"
	}
}

// RestPrefix returns the Integration-API path prefix for this platform (§4.2).
func (k Kind) RestPrefix() string {
	switch k {
	case UniFiOS:
		return "/proxy/network/integration/"
	default:
		return "/integration/"
	}
}

// LegacyPrefix returns the Legacy-API path prefix for this platform (§4.3, §6.1).
func (k Kind) LegacyPrefix() string {
	switch k {
	case UniFiOS:
		return "/proxy/network/api/"
	default:
		return "/api/"
	}
}

// SupportsWebsocket reports whether this platform exposes the
// cookie-authenticated push stream at all (§4.4, §9: Cloud cannot).
func (k Kind) SupportsWebsocket() bool { return k != Cloud }

// WebsocketPath returns the platform-specific websocket path template
// with {site} left as a literal placeholder for the caller to
// substitute, or ok=false if this platform has none.
func (k Kind) WebsocketPath() (path string, ok bool) {
	switch k {
	case UniFiOS:
		return "/proxy/network/wss/s/{site}/events", true
	case Standalone:
		return "/wss/s/{site}/events", true
	default:
		return "", false
	}
}

// Detect classifies base by probing its root with an unauthenticated
// GET and inspecting the response headers only. UniFiOS front-ends
// proxy everything through an nginx layer that sets an `x-csrf-token`
// header; a response carrying it means UniFiOS, any other response
// means a Standalone console. Callers that
// already know they are talking to UI.com's cloud-hosted controllers
// should skip detection and use Cloud directly (there is no reliable
// network signal for it).
func Detect(ctx context.Context, client *http.Client, baseURL string) (Kind, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(baseURL, "/")+"/", nil)
	if err != nil {
		return Standalone, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return Standalone, err
	}
	defer resp.Body.Close()

	if resp.Header.Get("X-Csrf-Token") != "" {
		return UniFiOS, nil
	}
	return Standalone, nil
}
