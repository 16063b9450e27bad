package client

import (
	"bytes"
	"encoding/json"
	"fmt"

	pkgerrors "github.com/agrotrade/agrotrade-client/pkg/errors"
	"github.com/agrotrade/agrotrade-client/pkg/pagination"
)

// The backend wraps payloads inconsistently across endpoints: a single
// listing has been observed under data.listing, data.data, plain data, and
// as the bare body. Extraction therefore runs an ordered list of probes and
// takes the first one that yields a usable value; when none do, the caller
// gets a MALFORMED_RESPONSE error instead of a silent nil.

type probe func(body []byte) (json.RawMessage, bool)

// UnwrapResource locates a single JSON object in a response body. The key is
// the resource's wire name ("listing", "user", ...). Probe order is fixed:
// data.<key>, data, <key>, bare body.
func UnwrapResource(body []byte, key string) (json.RawMessage, error) {
	probes := []probe{
		atPath("data", key),
		atPath("data"),
		atPath(key),
		bareBody,
	}
	for _, p := range probes {
		if raw, ok := p(body); ok && isObject(raw) {
			return raw, nil
		}
	}
	return nil, malformed(fmt.Sprintf("no %s object in response", key))
}

// UnwrapCollection locates the item array of a list response. Probe order:
// data.<key>, data.items, <key>, items, data, bare body; the candidate must
// be a JSON array.
func UnwrapCollection(body []byte, key string) (json.RawMessage, error) {
	probes := []probe{
		atPath("data", key),
		atPath("data", "items"),
		atPath(key),
		atPath("items"),
		atPath("data"),
		bareBody,
	}
	for _, p := range probes {
		if raw, ok := p(body); ok && isArray(raw) {
			return raw, nil
		}
	}
	return nil, malformed(fmt.Sprintf("no %s array in response", key))
}

// UnwrapMeta locates the pagination meta object of a list response, probing
// data.meta, meta, data.pagination, pagination. Meta is optional on some
// endpoints, so a miss returns ok=false rather than an error.
func UnwrapMeta(body []byte) (json.RawMessage, bool) {
	probes := []probe{
		atPath("data", "meta"),
		atPath("meta"),
		atPath("data", "pagination"),
		atPath("pagination"),
	}
	for _, p := range probes {
		if raw, ok := p(body); ok && isObject(raw) {
			return raw, true
		}
	}
	return nil, false
}

// DecodeResource unwraps and decodes a single resource into dest.
func DecodeResource(body []byte, key string, dest any) error {
	raw, err := UnwrapResource(body, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeMalformed, err, fmt.Sprintf("decode %s", key))
	}
	return nil
}

// DecodeCollection unwraps and decodes a list payload into dest.
func DecodeCollection(body []byte, key string, dest any) error {
	raw, err := UnwrapCollection(body, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeMalformed, err, fmt.Sprintf("decode %s collection", key))
	}
	return nil
}

// DecodeMeta returns the pagination meta carried in the body, or fallback
// when the body has none or it does not decode into a usable shape.
func DecodeMeta(body []byte, fallback pagination.Meta) pagination.Meta {
	raw, ok := UnwrapMeta(body)
	if !ok {
		return fallback
	}
	var meta pagination.Meta
	if err := json.Unmarshal(raw, &meta); err != nil || meta.Pages <= 0 {
		return fallback
	}
	return meta
}

func atPath(keys ...string) probe {
	return func(body []byte) (json.RawMessage, bool) {
		current := json.RawMessage(body)
		for _, key := range keys {
			var obj map[string]json.RawMessage
			if err := json.Unmarshal(current, &obj); err != nil {
				return nil, false
			}
			next, ok := obj[key]
			if !ok || isNull(next) {
				return nil, false
			}
			current = next
		}
		return current, true
	}
}

func bareBody(body []byte) (json.RawMessage, bool) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || isNull(trimmed) {
		return nil, false
	}
	return trimmed, true
}

func isObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

func isArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func malformed(detail string) error {
	return pkgerrors.New(pkgerrors.CodeMalformed, "unexpected response structure").
		WithDetails(map[string]any{"reason": detail})
}
