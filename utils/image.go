package utils

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// MaxImageBytes caps decoded upload size; the hosted providers reject
// anything bigger anyway.
const MaxImageBytes = 20 * 1024 * 1024

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// ParseImageDataURI splits a "data:<mime>;base64,<data>" URI and validates
// that it is a supported image within the size cap.
func ParseImageDataURI(uri string) (contentType string, data []byte, err error) {
	if !strings.HasPrefix(uri, "data:image") {
		return "", nil, fmt.Errorf("expected a data:image/... URI")
	}
	parts := strings.SplitN(uri, ",", 2)
	if len(parts) != 2 {
		return "", nil, fmt.Errorf("invalid base64 image")
	}
	meta := parts[0] // "data:image/jpeg;base64"
	contentType = strings.SplitN(strings.TrimPrefix(meta, "data:"), ";", 2)[0]
	if !allowedImageTypes[contentType] {
		return "", nil, fmt.Errorf("unsupported image type %q", contentType)
	}

	data, err = base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return "", nil, fmt.Errorf("failed to decode image: %w", err)
	}
	if len(data) > MaxImageBytes {
		return "", nil, fmt.Errorf("image exceeds %d byte limit", MaxImageBytes)
	}
	return contentType, data, nil
}
