package enhance

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	inputImage  = "data:image/png;base64,aW5wdXQ="
	resultImage = "data:image/png;base64,b3V0cHV0"
)

func serve(t *testing.T, status int, body string, seen *Request) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		if seen != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(seen))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_Success(t *testing.T) {
	var seen Request
	srv := serve(t, http.StatusOK, `{"status":"success","image":"`+resultImage+`"}`, &seen)

	out, err := NewClient(srv.URL, 0).Enhance(context.Background(), inputImage, "sepia", 70)
	require.NoError(t, err)
	assert.Equal(t, resultImage, out)
	assert.Equal(t, Request{Image: inputImage, Method: "sepia", Intensity: 70}, seen)
}

func TestClient_NonSuccessStatusField(t *testing.T) {
	srv := serve(t, http.StatusOK, `{"status":"error","message":"Method foo not supported"}`, nil)

	_, err := NewClient(srv.URL, 0).Enhance(context.Background(), inputImage, DefaultMethod, DefaultIntensity)
	assert.ErrorIs(t, err, ErrEnhanceFailed)
	assert.ErrorContains(t, err, "Method foo not supported")
}

func TestClient_HTTPErrorWithJSON(t *testing.T) {
	srv := serve(t, http.StatusInternalServerError, `{"status":"error","message":"boom"}`, nil)

	_, err := NewClient(srv.URL, 0).Enhance(context.Background(), inputImage, DefaultMethod, DefaultIntensity)
	assert.ErrorIs(t, err, ErrEnhanceFailed)
	assert.ErrorContains(t, err, "boom")
}

func TestClient_HTTPErrorWithoutJSON(t *testing.T) {
	srv := serve(t, http.StatusBadGateway, `<html>bad gateway</html>`, nil)

	_, err := NewClient(srv.URL, 0).Enhance(context.Background(), inputImage, DefaultMethod, DefaultIntensity)
	assert.ErrorIs(t, err, ErrEnhanceFailed)
	assert.ErrorContains(t, err, "502")
}

func TestClient_MalformedBody(t *testing.T) {
	srv := serve(t, http.StatusOK, `{"status":`, nil)

	_, err := NewClient(srv.URL, 0).Enhance(context.Background(), inputImage, DefaultMethod, DefaultIntensity)
	assert.ErrorIs(t, err, ErrEnhanceFailed)
	assert.ErrorContains(t, err, "malformed")
}

func TestClient_SuccessWithoutImage(t *testing.T) {
	srv := serve(t, http.StatusOK, `{"status":"success","image":"nope"}`, nil)

	_, err := NewClient(srv.URL, 0).Enhance(context.Background(), inputImage, DefaultMethod, DefaultIntensity)
	assert.ErrorIs(t, err, ErrEnhanceFailed)
}

func TestClient_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, 0).Enhance(context.Background(), inputImage, DefaultMethod, DefaultIntensity)
	assert.ErrorIs(t, err, ErrEnhanceFailed)
}

func TestClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, 20*time.Millisecond).Enhance(context.Background(), inputImage, DefaultMethod, DefaultIntensity)
	assert.ErrorIs(t, err, ErrEnhanceFailed)
}

func TestClient_RejectsInvalidInputBeforeSending(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()
	c := NewClient(srv.URL, 0)

	cases := []struct {
		name      string
		image     string
		method    string
		intensity int
	}{
		{"not a data url", "hello", DefaultMethod, 50},
		{"not an image", "data:text/plain;base64,aGk=", DefaultMethod, 50},
		{"unknown method", inputImage, "deep_dream", 50},
		{"intensity too high", inputImage, DefaultMethod, 101},
		{"intensity negative", inputImage, DefaultMethod, -1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := c.Enhance(context.Background(), tc.image, tc.method, tc.intensity)
			assert.ErrorIs(t, err, ErrInvalidRequest)
		})
	}
	assert.False(t, called)
}

func TestRequest_ValidateBounds(t *testing.T) {
	assert.NoError(t, Request{Image: inputImage, Method: "clahe", Intensity: 0}.Validate())
	assert.NoError(t, Request{Image: inputImage, Method: "clahe", Intensity: 100}.Validate())
}
