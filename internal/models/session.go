package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// expiryLayouts are tried in order when decoding expiry_time. Timestamps without an offset are
// read as local time.
var expiryLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

// Session is the on-disk OAuth session cache.
type Session struct {
	TokenType    string     `json:"token_type"`
	AccessToken  string     `json:"access_token"`
	RefreshToken string     `json:"refresh_token"`
	ExpiryTime   *time.Time `json:"expiry_time"`
}

// UnmarshalJSON accepts expiry_time as RFC 3339, as an ISO-8601 timestamp without offset, or null.
func (s *Session) UnmarshalJSON(data []byte) error {
	type Alias Session
	aux := struct {
		*Alias
		ExpiryTime *string `json:"expiry_time"`
	}{Alias: (*Alias)(s)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	s.ExpiryTime = nil
	if aux.ExpiryTime == nil || *aux.ExpiryTime == "" {
		return nil
	}

	expiry, err := ParseExpiry(*aux.ExpiryTime)
	if err != nil {
		return err
	}
	s.ExpiryTime = &expiry
	return nil
}

// ParseExpiry parses a session expiry timestamp.
func ParseExpiry(value string) (time.Time, error) {
	for _, layout := range expiryLayouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized expiry_time %q", value)
}
