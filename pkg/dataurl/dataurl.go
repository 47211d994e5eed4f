package dataurl

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"

	"github.com/vincent-petithory/dataurl"
)

var ErrNotImage = errors.New("not an image")

// Image is a decoded data URL.
type Image struct {
	MediaType string
	Data      []byte
}

// IsImage reports whether mediaType names an image/* type.
func IsImage(mediaType string) bool {
	mt, _, err := mime.ParseMediaType(mediaType)
	if err != nil {
		return false
	}
	return strings.HasPrefix(mt, "image/")
}

// Encode returns data as a base64 data URL. An empty mediaType is sniffed
// from the content.
func Encode(data []byte, mediaType string) (string, error) {
	if mediaType == "" {
		mediaType = http.DetectContentType(data)
	}

	mt, _, err := mime.ParseMediaType(mediaType)
	if err != nil {
		return "", fmt.Errorf("invalid media type %q: %w", mediaType, err)
	}
	if strings.Count(mt, "/") != 1 {
		return "", fmt.Errorf("invalid media type %q", mediaType)
	}

	return dataurl.New(data, mt).String(), nil
}

// Decode parses a data URL.
func Decode(s string) (Image, error) {
	du, err := dataurl.DecodeString(s)
	if err != nil {
		return Image{}, fmt.Errorf("error decoding data URL: %w", err)
	}

	return Image{
		MediaType: du.MediaType.ContentType(),
		Data:      du.Data,
	}, nil
}

// DecodeImage is Decode restricted to image/* payloads.
func DecodeImage(s string) (Image, error) {
	img, err := Decode(s)
	if err != nil {
		return Image{}, err
	}
	if !IsImage(img.MediaType) {
		return Image{}, fmt.Errorf("%w: %s", ErrNotImage, img.MediaType)
	}
	return img, nil
}
