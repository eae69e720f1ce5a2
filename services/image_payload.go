package services

import (
	"encoding/base64"
	"errors"
	"regexp"
	"strings"
)

// Errors returned by DecodeImagePayload. Each maps to a 400 response.
var (
	ErrInvalidDataURL  = errors.New("invalid data URL format")
	ErrMissingImage    = errors.New("imageBase64 and mimeType are required")
	ErrUnsupportedMIME = errors.New("unsupported image MIME type")
	ErrInvalidBase64   = errors.New("invalid base64 payload")
)

// AllowedImageTypes lists the accepted MIME types and the file extension each
// one is stored under.
var AllowedImageTypes = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/webp": "webp",
}

var dataURLPattern = regexp.MustCompile(`^data:(image/(png|jpeg|webp));base64,(.+)$`)

// ImagePayload is a decoded image ready to be stored.
type ImagePayload struct {
	MimeType  string
	Extension string
	Data      []byte
}

// DecodeImagePayload resolves the effective MIME type and base64 payload from
// either a data URL or the explicit fields, validates them and decodes the bytes.
// A dataURL starting with "data:" wins over imageBase64/mimeType; any other
// value is ignored and the explicit fields are used.
func DecodeImagePayload(dataURL, imageBase64, mimeType string) (*ImagePayload, error) {
	if strings.HasPrefix(dataURL, "data:") {
		match := dataURLPattern.FindStringSubmatch(dataURL)
		if match == nil {
			return nil, ErrInvalidDataURL
		}
		mimeType = match[1]
		imageBase64 = match[3]
	}

	if imageBase64 == "" || mimeType == "" {
		return nil, ErrMissingImage
	}

	ext, ok := AllowedImageTypes[mimeType]
	if !ok {
		return nil, ErrUnsupportedMIME
	}

	data, err := decodeBase64(imageBase64)
	if err != nil {
		return nil, ErrInvalidBase64
	}

	return &ImagePayload{MimeType: mimeType, Extension: ext, Data: data}, nil
}

// decodeBase64 accepts padded or unpadded standard base64 and ignores
// embedded whitespace and line breaks.
func decodeBase64(s string) ([]byte, error) {
	s = strings.Join(strings.Fields(s), "")
	if data, err := base64.StdEncoding.DecodeString(s); err == nil {
		return data, nil
	}
	return base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "="))
}
