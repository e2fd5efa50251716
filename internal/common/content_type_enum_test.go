package common

import (
	"encoding/base64"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// smallest valid PNG header is enough for content sniffing
var pngBytes = []byte("\x89PNG\x0D\x0A\x1A\x0A\x00\x00\x00\x0DIHDR")

func TestDetectFileType(t *testing.T) {
	tests := []struct {
		mime     string
		expected MediaFileType
	}{
		{"image/jpeg", MediaFileTypeImage},
		{"IMAGE/PNG", MediaFileTypeImage},
		{"video/mp4", MediaFileTypeVideo},
		{"application/pdf", MediaFileTypeImage},
	}
	for _, tt := range tests {
		t.Run(tt.mime, func(t *testing.T) {
			got := DetectFileType(tt.mime)
			assert.Equal(t, tt.expected, got)
			assert.True(t, got.IsValid())
		})
	}
	assert.False(t, MediaFileType("audio").IsValid())
}

func TestParseImageDataURI(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString(pngBytes)

	tests := []struct {
		name        string
		uri         string
		maxBytes    int
		expectError bool
		errorMsg    string
	}{
		{name: "valid png", uri: "data:image/png;base64," + encoded, maxBytes: 1024},
		{name: "no limit", uri: "data:image/png;base64," + encoded},
		{name: "plain url", uri: "https://cdn.example.com/a.png", expectError: true, errorMsg: "data URI"},
		{name: "not base64", uri: "data:image/png," + encoded, expectError: true, errorMsg: "data URI"},
		{name: "unsupported type", uri: "data:image/bmp;base64," + encoded, expectError: true, errorMsg: "unsupported"},
		{name: "corrupt payload", uri: "data:image/png;base64,@@@", expectError: true, errorMsg: "base64"},
		{name: "too large", uri: "data:image/png;base64," + encoded, maxBytes: 4, expectError: true, errorMsg: "exceeds"},
		{name: "declared type lies", uri: "data:image/gif;base64," + encoded, expectError: true, errorMsg: "does not match"},
		{name: "empty", uri: "data:image/png;base64,", expectError: true, errorMsg: "empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := ParseImageDataURI(tt.uri, tt.maxBytes)
			if tt.expectError {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrValidation))
				assert.Contains(t, err.Error(), tt.errorMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "image/png", img.MIMEType)
			assert.Equal(t, pngBytes, img.Data)
		})
	}
}

func TestExtensionFor(t *testing.T) {
	ext, ok := ExtensionFor("image/jpeg")
	assert.True(t, ok)
	assert.Equal(t, ".jpg", ext)

	_, ok = ExtensionFor("video/mp4")
	assert.False(t, ok)
}
