// Package share turns a schedule into a self-contained link and back.
package share

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/christopherklint97/capplan/internal/schedule"
)

// ErrInvalidPayload covers every way a shared blob can fail to decode.
var ErrInvalidPayload = errors.New("invalid schedule data")

// DataParam is the query parameter carrying the encoded schedule.
const DataParam = "data"

// Encode serializes s as URL-safe, unpadded base64 JSON.
func Encode(s schedule.Schedule) (string, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("marshaling schedule: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(data), nil
}

// Decode reverses Encode. It also accepts standard base64 with or without
// padding, which older links used, and normalizes the result so that
// legacy assignments without their own week range inherit the project's.
func Decode(blob string) (schedule.Schedule, error) {
	blob = strings.TrimSpace(blob)
	if blob == "" {
		return schedule.Schedule{}, fmt.Errorf("%w: empty payload", ErrInvalidPayload)
	}
	raw, err := decodeBase64(blob)
	if err != nil {
		return schedule.Schedule{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	var s schedule.Schedule
	if err := json.Unmarshal(raw, &s); err != nil {
		return schedule.Schedule{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	s = schedule.Normalize(s)
	if err := schedule.Validate(s); err != nil {
		return schedule.Schedule{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return s, nil
}

func decodeBase64(blob string) ([]byte, error) {
	var firstErr error
	for _, enc := range []*base64.Encoding{
		base64.RawURLEncoding,
		base64.URLEncoding,
		base64.StdEncoding,
		base64.RawStdEncoding,
	} {
		raw, err := enc.DecodeString(blob)
		if err == nil {
			return raw, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return nil, firstErr
}

// Link builds "<baseURL>/view?data=<blob>".
func Link(baseURL string, s schedule.Schedule) (string, error) {
	blob, err := Encode(s)
	if err != nil {
		return "", err
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/") + "/view")
	if err != nil {
		return "", fmt.Errorf("parsing base URL: %w", err)
	}
	q := u.Query()
	q.Set(DataParam, blob)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// FromLink accepts either a full link or a bare blob.
func FromLink(link string) (schedule.Schedule, error) {
	link = strings.TrimSpace(link)
	if !strings.Contains(link, "?") {
		return Decode(link)
	}
	u, err := url.Parse(link)
	if err != nil {
		return schedule.Schedule{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	blob := u.Query().Get(DataParam)
	if blob == "" {
		return schedule.Schedule{}, fmt.Errorf("%w: no %q parameter in link", ErrInvalidPayload, DataParam)
	}
	return Decode(blob)
}
