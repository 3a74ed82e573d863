package utils

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrInvalidDataURL  = errors.New("invalid data URL")
	ErrDataURLTooLarge = errors.New("data URL payload too large")
)

type DataURL struct {
	MIMEType string
	Data     []byte
}

// ParseDataURL decodes a base64 data URL such as "data:image/png;base64,iVBOR...".
// A positive maxBytes rejects payloads whose decoded size could exceed it
// before anything is decoded.
func ParseDataURL(s string, maxBytes int) (*DataURL, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(s), "data:")
	if !ok {
		return nil, fmt.Errorf("%w: missing data: prefix", ErrInvalidDataURL)
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, fmt.Errorf("%w: missing payload", ErrInvalidDataURL)
	}
	mimeType, ok := strings.CutSuffix(header, ";base64")
	if !ok {
		return nil, fmt.Errorf("%w: only base64 payloads are supported", ErrInvalidDataURL)
	}
	if maxBytes > 0 && len(payload) > base64.StdEncoding.EncodedLen(maxBytes) {
		return nil, ErrDataURLTooLarge
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDataURL, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrInvalidDataURL)
	}
	if maxBytes > 0 && len(data) > maxBytes {
		return nil, ErrDataURLTooLarge
	}

	return &DataURL{MIMEType: strings.ToLower(mimeType), Data: data}, nil
}

// DetectMIMEType sniffs the content and returns the first accepted type it
// matches, or an empty string.
func DetectMIMEType(data []byte, accepted ...string) string {
	detected := mimetype.Detect(data)
	for _, t := range accepted {
		if detected.Is(t) {
			return t
		}
	}
	return ""
}
