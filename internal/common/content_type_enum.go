package common

import (
	"encoding/base64"
	"net/http"
	"strings"
)

// MediaFileType is the coarse kind stored next to uploaded files.
type MediaFileType string

const (
	MediaFileTypeImage MediaFileType = "image"
	MediaFileTypeVideo MediaFileType = "video"
)

func (mft MediaFileType) String() string {
	return string(mft)
}

func (mft MediaFileType) IsValid() bool {
	return mft == MediaFileTypeImage || mft == MediaFileTypeVideo
}

func DetectFileType(mimeType string) MediaFileType {
	lowerMimeType := strings.ToLower(mimeType)
	if strings.HasPrefix(lowerMimeType, "video/") {
		return MediaFileTypeVideo
	}
	return MediaFileTypeImage
}

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ExtensionFor returns the file extension for a supported image MIME type.
func ExtensionFor(mimeType string) (string, bool) {
	ext, ok := imageExtensions[strings.ToLower(mimeType)]
	return ext, ok
}

// Image is a decoded upload ready for the image host.
type Image struct {
	MIMEType string
	Data     []byte
}

// ParseImageDataURI decodes "data:image/png;base64,...". The declared type must
// agree with the sniffed content.
func ParseImageDataURI(uri string, maxBytes int) (*Image, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return nil, Invalid("image must be a base64 data URI")
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok || !strings.HasSuffix(header, ";base64") {
		return nil, Invalid("image must be a base64 data URI")
	}
	declared := strings.ToLower(strings.TrimSuffix(header, ";base64"))
	if _, ok := ExtensionFor(declared); !ok {
		return nil, Invalid("unsupported image type %q", declared)
	}
	if maxBytes > 0 && base64.StdEncoding.DecodedLen(len(payload)) > maxBytes+2 {
		return nil, Invalid("image exceeds %d bytes", maxBytes)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, Invalid("image is not valid base64")
	}
	if len(data) == 0 {
		return nil, Invalid("image is empty")
	}
	if maxBytes > 0 && len(data) > maxBytes {
		return nil, Invalid("image exceeds %d bytes", maxBytes)
	}
	if sniffed := http.DetectContentType(data); sniffed != declared {
		return nil, Invalid("image content does not match %q", declared)
	}
	return &Image{MIMEType: declared, Data: data}, nil
}
