package webhook

import (
	"net/url"
	"strings"

	"shot-history-api/internal/shot"
)

// Payload is the JSON body posted to the webhook.
type Payload struct {
	ID         string        `json:"id"`
	Timestamp  int64         `json:"timestamp"`
	Profile    string        `json:"profile"`
	ProfileID  string        `json:"profileId"`
	Duration   int64         `json:"duration"`
	Volume     float64       `json:"volume"`
	Incomplete bool          `json:"incomplete"`
	Samples    []shot.Sample `json:"samples"`
	Notes      *shot.Notes   `json:"notes"`
}

// BuildPayload projects s into a Payload. notes wins over s.Notes when non-nil.
// The result shares no memory with s.
func BuildPayload(s *shot.Shot, notes *shot.Notes) (Payload, error) {
	if s == nil {
		return Payload{}, &Error{Kind: KindInvalidInput, Message: "shot is required"}
	}

	c := s.Clone()
	if notes != nil {
		n := *notes
		c.Notes = &n
	}

	return Payload{
		ID:         c.ID,
		Timestamp:  c.Timestamp,
		Profile:    c.Profile,
		ProfileID:  c.ProfileID,
		Duration:   c.Duration,
		Volume:     c.Volume,
		Incomplete: c.Incomplete,
		Samples:    c.Samples,
		Notes:      c.Notes,
	}, nil
}

// ValidateURL reports whether raw is an absolute http(s) URL with a host.
func ValidateURL(raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return u.Host != ""
	default:
		return false
	}
}
