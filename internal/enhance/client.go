package enhance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/creatorstation/imgenhancer/pkg/dataurl"
	"github.com/go-resty/resty/v2"
)

const DefaultEndpoint = "http://localhost:5000/enhance"

var (
	ErrInvalidRequest = errors.New("invalid enhancement request")
	ErrEnhanceFailed  = errors.New("enhancement failed")
)

// Enhancer sends one image to the enhancement service.
type Enhancer interface {
	Enhance(ctx context.Context, image, method string, intensity int) (string, error)
}

// Client calls the enhancement endpoint with a single JSON request.
type Client struct {
	http     *resty.Client
	endpoint string
}

// NewClient returns a Client for endpoint. A zero timeout leaves requests
// unbounded.
func NewClient(endpoint string, timeout time.Duration) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	c := resty.New().
		SetHeader("Content-Type", "application/json").
		SetHeader("User-Agent", "imgenhancer-Enhance")
	if timeout > 0 {
		c.SetTimeout(timeout)
	}

	return &Client{http: c, endpoint: endpoint}
}

// Enhance returns the enhanced image as a data URL. Transport errors, error
// statuses, malformed bodies and any status other than "success" all wrap
// ErrEnhanceFailed.
func (c *Client) Enhance(ctx context.Context, image, method string, intensity int) (string, error) {
	req := Request{Image: image, Method: method, Intensity: intensity}
	if err := req.Validate(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	resp, err := c.http.R().SetContext(ctx).SetBody(req).Post(c.endpoint)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEnhanceFailed, err)
	}

	var out Response
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		if resp.IsError() {
			return "", fmt.Errorf("%w: %s", ErrEnhanceFailed, resp.Status())
		}
		return "", fmt.Errorf("%w: malformed response: %v", ErrEnhanceFailed, err)
	}

	if resp.IsError() || out.Status != "success" {
		reason := out.Message
		if reason == "" {
			reason = fmt.Sprintf("status %q (%s)", out.Status, resp.Status())
		}
		return "", fmt.Errorf("%w: %s", ErrEnhanceFailed, reason)
	}

	if _, err := dataurl.DecodeImage(out.Image); err != nil {
		return "", fmt.Errorf("%w: response image: %v", ErrEnhanceFailed, err)
	}

	return out.Image, nil
}
