package models

import (
	"fmt"
	"strings"
	"time"
)

// ServerInfo is the greeting block exposed by the interop server. It is
// fetched once at startup and logged; it plays no role in the sync loop.
type ServerInfo struct {
	Message          string    `json:"message"`
	MessageTimestamp time.Time `json:"message_timestamp"`
	ServerTime       time.Time `json:"server_time"`
}

// serverTimeLayouts lists the timestamp shapes the interop server is
// known to produce. Timestamps without an offset are taken as UTC.
var serverTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
}

// ParseServerTime parses an interop server timestamp. The server mixes
// RFC 3339 with a space-separated variant and sometimes omits the zone
// offset, in which case UTC is assumed.
func ParseServerTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range serverTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized server timestamp %q", s)
}
