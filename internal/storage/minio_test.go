package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/trendpress/trendpress/internal/config"
)

// fakeS3 answers the handful of path-style requests the archive makes.
type fakeS3 struct {
	mu      sync.Mutex
	buckets map[string]bool
	objects map[string][]byte
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	parts := strings.SplitN(strings.TrimPrefix(r.URL.Path, "/"), "/", 2)
	bucket := parts[0]
	if len(parts) == 1 || parts[1] == "" {
		switch r.Method {
		case http.MethodPut:
			f.buckets[bucket] = true
			w.WriteHeader(http.StatusOK)
		case http.MethodHead:
			if f.buckets[bucket] {
				w.WriteHeader(http.StatusOK)
				return
			}
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusNotImplemented)
		}
		return
	}
	key := bucket + "/" + parts[1]
	switch r.Method {
	case http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.objects[key] = body
		w.Header().Set("ETag", `"d41d8cd98f00b204e9800998ecf8427e"`)
		w.WriteHeader(http.StatusOK)
	case http.MethodGet, http.MethodHead:
		data, ok := f.objects[key]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		w.Header().Set("ETag", `"d41d8cd98f00b204e9800998ecf8427e"`)
		w.Header().Set("Last-Modified", time.Now().UTC().Format(http.TimeFormat))
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodGet {
			_, _ = w.Write(data)
		}
	default:
		w.WriteHeader(http.StatusNotImplemented)
	}
}

func TestArchive_PutGet(t *testing.T) {
	fake := &fakeS3{buckets: map[string]bool{}, objects: map[string][]byte{}}
	srv := httptest.NewServer(fake)
	defer srv.Close()
	u, err := url.Parse(srv.URL)
	require.NoError(t, err)

	// anonymous credentials keep request bodies unsigned and unchunked
	a, err := NewArchive(context.Background(), config.MinIOConfig{Endpoint: u.Host, Bucket: "raw-responses", Region: "us-east-1"})
	require.NoError(t, err)
	require.True(t, fake.buckets["raw-responses"])

	require.NoError(t, a.Put(context.Background(), "raw/topic-a/1.txt", []byte(`{"title":"Topic A"}`)))
	require.Equal(t, `{"title":"Topic A"}`, string(fake.objects["raw-responses/raw/topic-a/1.txt"]))

	got, err := a.Get(context.Background(), "raw/topic-a/1.txt")
	require.NoError(t, err)
	require.Equal(t, `{"title":"Topic A"}`, string(got))
}

func TestNewArchive_MissingEndpoint(t *testing.T) {
	_, err := NewArchive(context.Background(), config.MinIOConfig{})
	require.Error(t, err)
}
