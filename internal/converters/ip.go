// Package converters translates the wire DTOs of the Integration
// (REST) and Legacy APIs, plus the push event-stream's untyped JSON
// messages, into the domain entities in internal/model. Each function
// here is grounded in the conversion rules the original controller
// implements, adapted to the donor's struct-of-pointers idiom.
package converters

import (
	"encoding/json"
	"net"
	"strings"
)

// pickIPv6 selects a device's IPv6 address from the Legacy wire
// representation: wan1.ipv6 is preferred, falling back to a top-level
// ipv6 field; within either, a non-link-local address is preferred
// over a link-local one, but a link-local is returned if nothing else
// is present.
func pickIPv6(extra map[string]json.RawMessage) string {
	if v, ok := extra["wan1"]; ok {
		var wan1 map[string]json.RawMessage
		if err := json.Unmarshal(v, &wan1); err == nil {
			if addr, ok := pickIPv6FromValue(wan1["ipv6"]); ok {
				return addr
			}
		}
	}
	if addr, ok := pickIPv6FromValue(extra["ipv6"]); ok {
		return addr
	}
	return ""
}

// pickIPv6FromValue accepts either a single string or an array of
// strings/objects-with-"ip" per the firmware variance the Legacy API
// exhibits across releases.
func pickIPv6FromValue(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	var candidates []string
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		candidates = []string{single}
	} else {
		var list []json.RawMessage
		if err := json.Unmarshal(raw, &list); err != nil {
			return "", false
		}
		for _, item := range list {
			var s string
			if err := json.Unmarshal(item, &s); err == nil {
				candidates = append(candidates, s)
				continue
			}
			var obj struct {
				IP string `json:"ip"`
			}
			if err := json.Unmarshal(item, &obj); err == nil && obj.IP != "" {
				candidates = append(candidates, obj.IP)
			}
		}
	}

	var fallback string
	for _, c := range candidates {
		ip := net.ParseIP(c)
		if ip == nil {
			continue
		}
		if ip.IsLinkLocalUnicast() {
			if fallback == "" {
				fallback = c
			}
			continue
		}
		return c, true
	}
	if fallback != "" {
		return fallback, true
	}
	return "", false
}

// channelToFrequency maps a wireless channel number to its band, used
// when the Legacy API reports a channel but not a band directly.
// Channels 1-14 are 2.4 GHz; 32-68 and 96-177 are the two 5 GHz
// ranges; everything else is 6 GHz.
func channelToFrequency(channel int) string {
	switch {
	case channel >= 1 && channel <= 14:
		return "2.4"
	case (channel >= 32 && channel <= 68) || (channel >= 96 && channel <= 177):
		return "5"
	default:
		return "6"
	}
}

func extraString(extra map[string]json.RawMessage, key string) (string, bool) {
	raw, ok := extra[key]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

func normalizeMac(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

func parseIP(raw string) net.IP {
	return net.ParseIP(strings.TrimSpace(raw))
}
