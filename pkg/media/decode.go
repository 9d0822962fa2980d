package media

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// MaxInputBytes caps decoded media size.
const MaxInputBytes = 16 << 20

var (
	ErrEmptyInput       = errors.New("empty media input")
	ErrInputTooLarge    = errors.New("media input too large")
	ErrUnsupportedInput = errors.New("unsupported media input")
)

// Decode turns a base64 string (with or without a data URL header), a raw
// byte slice or a reader into raw media bytes.
func Decode(input any) ([]byte, error) {
	var data []byte

	switch v := input.(type) {
	case nil:
		return nil, ErrEmptyInput
	case string:
		decoded, err := decodeBase64(v)
		if err != nil {
			return nil, err
		}
		data = decoded
	case []byte:
		data = v
	case io.Reader:
		read, err := io.ReadAll(io.LimitReader(v, MaxInputBytes+1))
		if err != nil {
			return nil, fmt.Errorf("read media: %w", err)
		}
		data = read
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedInput, input)
	}

	if len(data) == 0 {
		return nil, ErrEmptyInput
	}
	if len(data) > MaxInputBytes {
		return nil, ErrInputTooLarge
	}
	return data, nil
}

func decodeBase64(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "data:") {
		_, payload, ok := strings.Cut(s, ",")
		if !ok {
			return nil, fmt.Errorf("malformed data url")
		}
		s = payload
	}
	if s == "" {
		return nil, ErrEmptyInput
	}

	s = strings.NewReplacer("\n", "", "\r", "", " ", "").Replace(s)
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		raw, rawErr := base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "="))
		if rawErr != nil {
			return nil, fmt.Errorf("invalid base64: %w", err)
		}
		data = raw
	}
	return data, nil
}

// Sniff returns the detected MIME type of data.
func Sniff(data []byte) string {
	ct := http.DetectContentType(data)
	if mt, _, ok := strings.Cut(ct, ";"); ok {
		return strings.TrimSpace(mt)
	}
	return ct
}

func decodeImage(input any) ([]byte, string, error) {
	data, err := Decode(input)
	if err != nil {
		return nil, "", err
	}
	mime := Sniff(data)
	if !strings.HasPrefix(mime, "image/") {
		return nil, "", fmt.Errorf("not an image: %s", mime)
	}
	return data, mime, nil
}

// decodeAudio rejects payloads that are recognisably not audio. Containers the
// sniffer cannot identify are passed through as octet streams.
func decodeAudio(input any) ([]byte, string, error) {
	data, err := Decode(input)
	if err != nil {
		return nil, "", err
	}
	mime := Sniff(data)
	if strings.HasPrefix(mime, "text/") || strings.HasPrefix(mime, "image/") || bytes.HasPrefix(data, []byte("%PDF")) {
		return nil, "", fmt.Errorf("not audio: %s", mime)
	}
	return data, mime, nil
}
