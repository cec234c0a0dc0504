package modeladapter_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/deskwise/ticketrouter/pkg/modeladapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRetryAfterSeconds(t *testing.T) {
	assert.Equal(t, 5*time.Second, modeladapter.ParseRetryAfter("5"))
}

func TestParseRetryAfterEmpty(t *testing.T) {
	assert.Equal(t, time.Duration(0), modeladapter.ParseRetryAfter(""))
}

func TestParseRetryAfterHTTPDate(t *testing.T) {
	future := time.Now().Add(30 * time.Second).UTC().Format(http.TimeFormat)
	d := modeladapter.ParseRetryAfter(future)
	assert.Greater(t, d, time.Duration(0))
	assert.LessOrEqual(t, d, 30*time.Second)
}

func TestParseRetryAfterPastDate(t *testing.T) {
	past := time.Now().Add(-time.Minute).UTC().Format(http.TimeFormat)
	assert.Equal(t, time.Duration(0), modeladapter.ParseRetryAfter(past))
}

func TestParseRetryAfterGarbage(t *testing.T) {
	assert.Equal(t, time.Duration(0), modeladapter.ParseRetryAfter("soon"))
}

func TestNewRequestBearerAuth(t *testing.T) {
	a := modeladapter.New("https://api.example.com", modeladapter.Auth{Key: "sk-123"}, nil)

	req, err := a.NewRequest(context.Background(), http.MethodPost, "/v1/things", nil)
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com/v1/things", req.URL.String())
	assert.Equal(t, "Bearer sk-123", req.Header.Get("Authorization"))
}

func TestNewRequestCustomHeaderAuth(t *testing.T) {
	a := modeladapter.New("https://api.example.com", modeladapter.Auth{Key: "sk-123", Header: "X-Api-Key"}, nil)
	a.Headers = map[string]string{"X-Extra": "yes"}

	req, err := a.NewRequest(context.Background(), http.MethodGet, "/", nil)
	require.NoError(t, err)

	assert.Equal(t, "sk-123", req.Header.Get("X-Api-Key"))
	assert.Equal(t, "yes", req.Header.Get("X-Extra"))
}

func TestPostJSONDecodesResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"answer":42}`))
	}))
	defer srv.Close()

	a := modeladapter.New(srv.URL, modeladapter.Auth{}, srv.Client())

	var dest struct {
		Answer int `json:"answer"`
	}
	err := a.PostJSON(context.Background(), "/", map[string]string{"q": "?"}, &dest)

	require.NoError(t, err)
	assert.Equal(t, 42, dest.Answer)
}

func TestPostJSONNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "no key", http.StatusUnauthorized)
	}))
	defer srv.Close()

	a := modeladapter.New(srv.URL, modeladapter.Auth{}, srv.Client())

	err := a.PostJSON(context.Background(), "/", nil, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 401")
}

func TestPostJSONRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Retry-After", "2")
		http.Error(w, "slow down", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	a := modeladapter.New(srv.URL, modeladapter.Auth{}, srv.Client())

	err := a.PostJSON(context.Background(), "/", nil, nil)

	var rle *modeladapter.RateLimitError
	require.ErrorAs(t, err, &rle)
	assert.Equal(t, 2*time.Second, rle.RetryAfter)
	assert.Contains(t, rle.Body, "slow down")
}
