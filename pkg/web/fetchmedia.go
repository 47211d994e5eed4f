package web

import (
	"context"
	"fmt"
	"strings"

	"github.com/creatorstation/imgenhancer/pkg/dataurl"
	"github.com/go-resty/resty/v2"
)

var client = resty.New().SetHeader("User-Agent", "imgenhancer-FetchMedia")

// FetchMedia returns the body and content type behind mediaURI. Inline
// data: URLs are decoded without a request.
func FetchMedia(ctx context.Context, mediaURI string) ([]byte, string, error) {
	if strings.HasPrefix(mediaURI, "data:") {
		img, err := dataurl.Decode(mediaURI)
		if err != nil {
			return nil, "", err
		}
		return img.Data, img.MediaType, nil
	}

	resp, err := client.R().SetContext(ctx).Get(mediaURI)
	if err != nil {
		return nil, "", err
	}

	if resp.IsError() {
		return nil, "", fmt.Errorf("failed to fetch media: %s, %s", resp.Status(), resp.String())
	}

	return resp.Body(), resp.Header().Get("Content-Type"), nil
}
