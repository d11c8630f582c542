package utils

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseImageDataURI(t *testing.T) {
	payload := []byte{0xFF, 0xD8, 0xFF, 0xE0} // JPEG magic
	uri := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(payload)

	contentType, data, err := ParseImageDataURI(uri)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", contentType)
	assert.Equal(t, payload, data)
}

func TestParseImageDataURIRejects(t *testing.T) {
	cases := map[string]string{
		"not a data uri":   "https://example.com/food.jpg",
		"missing payload":  "data:image/png;base64",
		"unsupported type": "data:image/tiff;base64,AAAA",
		"bad base64":       "data:image/png;base64,not-base64!!!",
	}
	for name, uri := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := ParseImageDataURI(uri)
			assert.Error(t, err)
		})
	}
}
