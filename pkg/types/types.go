package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SuccessEnvelope is the wrapper the backend puts around successful payloads.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the wire shape of a backend error.
type APIError struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope is the wrapper around a backend error. Some endpoints nest the
// error, others put message at the top level; both are decoded.
type ErrorEnvelope struct {
	Error   *APIError `json:"error,omitempty"`
	Message string    `json:"message,omitempty"`
}

// BestMessage returns the most specific human-readable message present.
func (e ErrorEnvelope) BestMessage() string {
	if e.Error != nil && strings.TrimSpace(e.Error.Message) != "" {
		return e.Error.Message
	}
	return strings.TrimSpace(e.Message)
}

// Location is either a plain string or a structured place reference,
// depending on the endpoint that produced it.
type Location struct {
	Settlement string `json:"settlement,omitempty"`
	Community  string `json:"community,omitempty"`
	Region     string `json:"region,omitempty"`
	Country    string `json:"country,omitempty"`

	raw string
}

// UnmarshalJSON accepts both wire shapes.
func (l *Location) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" || trimmed == `""` {
		*l = Location{}
		return nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("location string: %w", err)
		}
		*l = Location{raw: strings.TrimSpace(s)}
		return nil
	}

	type structured Location
	var s structured
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("location object: %w", err)
	}
	*l = Location(s)
	return nil
}

// MarshalJSON emits the string form when the location was a plain string.
func (l Location) MarshalJSON() ([]byte, error) {
	if l.raw != "" {
		return json.Marshal(l.raw)
	}
	type structured Location
	return json.Marshal(structured(l))
}

// String renders the most specific display form.
func (l Location) String() string {
	if l.raw != "" {
		return l.raw
	}
	parts := make([]string, 0, 4)
	for _, p := range []string{l.Settlement, l.Community, l.Region, l.Country} {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// IsZero reports whether no location information is present.
func (l Location) IsZero() bool {
	return l.raw == "" && l.Settlement == "" && l.Community == "" && l.Region == "" && l.Country == ""
}
