package storage

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicURL(t *testing.T) {
	tests := []struct {
		name string
		base string
		key  string
		want string
	}{
		{"empty base", "", "avatars/1/a.png", ""},
		{"empty key", "https://cdn.example.com", "", ""},
		{"host only", "https://cdn.example.com", "avatars/1/a.png", "https://cdn.example.com/avatars/1/a.png"},
		{"base with path", "https://cdn.example.com/media", "teams/2/logo.png", "https://cdn.example.com/media/teams/2/logo.png"},
		{"both slashes", "https://cdn.example.com/media/", "/teams/2/logo.png", "https://cdn.example.com/media/teams/2/logo.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PublicURL(tt.base, tt.key))
		})
	}
}

func TestObjectKey(t *testing.T) {
	key := ObjectKey(FolderTeams, 42, ".png")

	assert.True(t, strings.HasPrefix(key, "teams/42/"), key)
	assert.True(t, strings.HasSuffix(key, ".png"), key)
	assert.Len(t, strings.TrimSuffix(strings.TrimPrefix(key, "teams/42/"), ".png"), 36)
	assert.NotEqual(t, key, ObjectKey(FolderTeams, 42, ".png"))
}

type capturedPut struct {
	method           string
	path             string
	contentLength    int64
	decodedLength    string
	transferEncoding []string
	contentType      string
	body             []byte
}

func newFakeBucket(t *testing.T) (*httptest.Server, func() capturedPut) {
	t.Helper()
	var (
		mu  sync.Mutex
		got capturedPut
	)
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		got = capturedPut{
			method:           r.Method,
			path:             r.URL.Path,
			contentLength:    r.ContentLength,
			decodedLength:    r.Header.Get("X-Amz-Decoded-Content-Length"),
			transferEncoding: r.TransferEncoding,
			contentType:      r.Header.Get("Content-Type"),
			body:             body,
		}
		mu.Unlock()
		w.Header().Set("ETag", `"abc123"`)
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	return srv, func() capturedPut {
		mu.Lock()
		defer mu.Unlock()
		return got
	}
}

func TestS3Uploader_UploadSendsContentLength(t *testing.T) {
	srv, captured := newFakeBucket(t)

	uploader, err := NewS3Uploader(context.Background(), S3UploaderConfig{
		Endpoint:        srv.URL,
		Region:          "us-east-1",
		AccessKeyID:     "key",
		SecretAccessKey: "secret",
		BucketName:      "media",
		PublicBaseURL:   "https://cdn.example.com",
		HTTPClient:      srv.Client(),
	})
	require.NoError(t, err)

	payload := bytes.Repeat([]byte{0x89}, 1000)
	res, err := uploader.Upload(context.Background(), "avatars/1/a.png", "image/png", bytes.NewReader(payload), int64(len(payload)))
	require.NoError(t, err)

	got := captured()
	assert.Equal(t, http.MethodPut, got.method)
	assert.Equal(t, "/media/avatars/1/a.png", got.path)
	assert.Empty(t, got.transferEncoding)
	assert.Equal(t, "image/png", got.contentType)
	assert.Equal(t, int64(len(got.body)), got.contentLength)
	// С трейлерной контрольной суммой тело идёт в aws-chunked, исходная длина в отдельном заголовке.
	if got.decodedLength != "" {
		assert.Equal(t, strconv.Itoa(len(payload)), got.decodedLength)
		assert.True(t, bytes.Contains(got.body, payload))
	} else {
		assert.Equal(t, int64(len(payload)), got.contentLength)
		assert.Equal(t, payload, got.body)
	}

	assert.Equal(t, "abc123", res.ETag)
	assert.Equal(t, "https://cdn.example.com/avatars/1/a.png", res.Location)
}

func TestS3Uploader_UploadRejectsNegativeSize(t *testing.T) {
	uploader, err := NewS3Uploader(context.Background(), S3UploaderConfig{
		Endpoint: "https://127.0.0.1:1", AccessKeyID: "key", SecretAccessKey: "secret", BucketName: "media",
	})
	require.NoError(t, err)

	_, err = uploader.Upload(context.Background(), "k", "image/png", bytes.NewReader(nil), -1)
	assert.Error(t, err)
}
