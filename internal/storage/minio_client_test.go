package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travelChronicle/internal/config"
)

// fakeS3 answers just enough of the S3 API for bucket setup and missing
// objects.
type fakeS3 struct {
	mu       sync.Mutex
	buckets  map[string]bool
	requests []string
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.requests = append(f.requests, r.Method+" "+r.URL.Path)
	bucket, object, _ := strings.Cut(strings.TrimPrefix(r.URL.Path, "/"), "/")

	switch {
	case object == "" && r.Method == http.MethodHead:
		if !f.buckets[bucket] {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	case object == "" && r.Method == http.MethodPut:
		f.buckets[bucket] = true
		w.WriteHeader(http.StatusOK)
	default:
		w.Header().Set("Content-Type", "application/xml")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>` +
			`<Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message>` +
			`<Key>` + object + `</Key><BucketName>` + bucket + `</BucketName></Error>`))
	}
}

func newFakeMinIO(t *testing.T) (*fakeS3, *config.Config) {
	t.Helper()

	fake := &fakeS3{buckets: map[string]bool{}}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	cfg := &config.Config{MinIO: config.MinIO{
		Endpoint:   strings.TrimPrefix(srv.URL, "http://"),
		AccessKey:  "minioadmin",
		SecretKey:  "minioadmin",
		BucketName: "travel",
		Region:     "us-east-1",
	}}
	return fake, cfg
}

func TestNewMinIOClient_CreatesBucket(t *testing.T) {
	fake, cfg := newFakeMinIO(t)

	client, err := NewMinIOClient(context.Background(), cfg)

	require.NoError(t, err)
	assert.NotNil(t, client)
	assert.True(t, fake.buckets["travel"])
	assert.Contains(t, fake.requests, "PUT /travel/")
}

func TestMinIOClient_LoadMissing(t *testing.T) {
	fake, cfg := newFakeMinIO(t)
	fake.buckets["travel"] = true

	client, err := NewMinIOClient(context.Background(), cfg)
	require.NoError(t, err)

	data, err := client.Load(context.Background(), "posts")

	assert.ErrorIs(t, err, ErrBlobNotFound)
	assert.Nil(t, data)
	assert.Contains(t, fake.requests, "GET /travel/posts/posts.json")
}

func TestMinIOClient_InvalidKey(t *testing.T) {
	client := &MinIOClient{}

	_, err := client.Load(context.Background(), "../escape")
	assert.ErrorIs(t, err, ErrInvalidKey)
	assert.ErrorIs(t, client.Save(context.Background(), "", nil), ErrInvalidKey)
}

func TestObjectName(t *testing.T) {
	assert.Equal(t, "posts/travel-chronicles-posts.json", objectName("travel-chronicles-posts"))
}
