// Package eventstream maintains the persistent websocket connection
// to the controller's push event feed and fans incoming messages out
// to subscribers via internal/broadcast.
package eventstream

import "encoding/json"

// Message is one decoded websocket frame. Every frame is a flat JSON
// object carrying a `key` discriminator (e.g. "device:sync",
// "sta:sync", "EVT_WU_Connected") plus channel-specific fields; Extra
// preserves every key the typed fields don't surface (mac/sw/ap,
// user/sta, and the device/client payload itself) so converters can
// pull channel-specific data out of it, mirroring legacyclient's
// catch-all Extra on Device.
type Message struct {
	Key       string `json:"key,omitempty"`
	Subsystem string `json:"subsystem,omitempty"`
	Datetime  string `json:"datetime,omitempty"`
	Msg       string `json:"msg,omitempty"`
	SiteID    string `json:"site_id,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// UnmarshalJSON decodes the known fields above, plus preserves every
// other key in Extra, the same pattern legacyclient.Device uses.
func (m *Message) UnmarshalJSON(raw []byte) error {
	type alias Message
	var a alias
	if err := json.Unmarshal(raw, &a); err != nil {
		return err
	}
	*m = Message(a)
	var full map[string]json.RawMessage
	if err := json.Unmarshal(raw, &full); err != nil {
		return err
	}
	m.Extra = full
	return nil
}

// IsSync reports whether this message is a state-sync/dump frame
// rather than a discrete log-worthy event (§4.7.4's WS bridge filters
// these out of the event log but still extracts live stats/client
// data from them).
func (m Message) IsSync() bool {
	return hasSuffix(m.Key, ":sync") || hasSuffix(m.Key, ":update")
}

func hasSuffix(s, suffix string) bool {
	return len(s) >= len(suffix) && s[len(s)-len(suffix):] == suffix
}

func parseMessage(raw []byte) (Message, error) {
	var m Message
	if err := json.Unmarshal(raw, &m); err != nil {
		return Message{}, err
	}
	return m, nil
}
