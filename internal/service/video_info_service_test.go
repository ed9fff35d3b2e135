package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"caption-resolver-backend/internal/youtube"
)

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s", "dQw4w9WgXcQ"},
		{"https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/v/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://example.com/about", ""},
		{"dQw4w9Wg", ""},
	}

	for _, tt := range tests {
		if got := ExtractVideoID(tt.url); got != tt.want {
			t.Errorf("ExtractVideoID(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestLookupWithoutAPIKey(t *testing.T) {
	svc := NewVideoInfoService(youtube.NewClient(youtube.ClientConfig{}), "")

	info, err := svc.Lookup(context.Background(), "https://youtu.be/dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}

	if info.VideoID != "dQw4w9WgXcQ" {
		t.Errorf("video id = %q", info.VideoID)
	}
	if info.URL != "https://www.youtube.com/watch?v=dQw4w9WgXcQ" {
		t.Errorf("url = %q", info.URL)
	}
	if got := info.Thumbnails["hqdefault"]; got != "https://img.youtube.com/vi/dQw4w9WgXcQ/hqdefault.jpg" {
		t.Errorf("hqdefault thumbnail = %q", got)
	}
	if info.ChannelTitle != "" || info.Tags != nil {
		t.Error("enriched fields should be empty without an API key")
	}
}

func TestLookupInvalidURL(t *testing.T) {
	svc := NewVideoInfoService(youtube.NewClient(youtube.ClientConfig{}), "")

	_, err := svc.Lookup(context.Background(), "https://example.com/watch")
	if !errors.Is(err, ErrInvalidVideoURL) {
		t.Fatalf("err = %v, want ErrInvalidVideoURL", err)
	}
}

func TestLookupEnrichmentFailureIsNonFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := youtube.NewClient(youtube.ClientConfig{
		HTTPClient: rewriteTo(srv.URL),
		Timeout:    2 * time.Second,
	})
	svc := NewVideoInfoService(client, "test-key")

	info, err := svc.Lookup(context.Background(), "https://youtu.be/dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if info.Title == "" {
		t.Error("basic metadata should survive enrichment failure")
	}
}

func TestLookupEnrichment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("id"); got != "dQw4w9WgXcQ" {
			t.Errorf("data API queried for id %q", got)
		}
		if r.URL.Query().Get("key") == "" {
			t.Error("data API query missing key")
		}
		fmt.Fprint(w, `{"items":[{"snippet":{"title":"Real Title","description":"Real description",`+
			`"tags":["music"],"channelTitle":"A Channel","publishedAt":"2009-10-25T06:57:33Z"},`+
			`"statistics":{"viewCount":"1000000"}}]}`)
	}))
	defer srv.Close()

	client := youtube.NewClient(youtube.ClientConfig{
		HTTPClient: rewriteTo(srv.URL),
		Timeout:    2 * time.Second,
	})
	svc := NewVideoInfoService(client, "test-key")

	info, err := svc.Lookup(context.Background(), "https://youtu.be/dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}

	if info.Title != "Real Title" {
		t.Errorf("title = %q", info.Title)
	}
	if info.ChannelTitle != "A Channel" {
		t.Errorf("channel = %q", info.ChannelTitle)
	}
	if info.Statistics["viewCount"] != "1000000" {
		t.Errorf("statistics = %+v", info.Statistics)
	}
}

// rewriteTo returns an HTTP client that sends every request to target,
// keeping the original path and query.
func rewriteTo(target string) *http.Client {
	return &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			redirected := *req
			u := *req.URL
			u.Scheme = "http"
			u.Host = target[len("http://"):]
			redirected.URL = &u
			return http.DefaultTransport.RoundTrip(&redirected)
		}),
	}
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}
