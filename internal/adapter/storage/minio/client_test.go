package minio

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appconfig "github.com/GoArmGo/EntertainLit/internal/config"
)

// fakeS3 — минимальный path-style S3: HEAD/PUT бакета и PUT объекта.
type fakeS3 struct {
	mu           sync.Mutex
	bucketExists bool
	created      bool
	objects      map[string]string
	contentTypes map[string]string
}

func newFakeS3(bucketExists bool) *fakeS3 {
	return &fakeS3{
		bucketExists: bucketExists,
		objects:      make(map[string]string),
		contentTypes: make(map[string]string),
	}
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := strings.TrimPrefix(r.URL.Path, "/")
	bucket, key, _ := strings.Cut(path, "/")

	switch {
	case r.Method == http.MethodHead && key == "":
		if !f.bucketExists {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodPut && key == "":
		f.bucketExists = true
		f.created = true
		w.Header().Set("Location", "/"+bucket)
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.objects[key] = string(body)
		f.contentTypes[key] = r.Header.Get("Content-Type")
		w.Header().Set("ETag", `"etag"`)
		w.WriteHeader(http.StatusOK)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func testConfig(srv *httptest.Server) *appconfig.Config {
	return &appconfig.Config{
		MinioEndpoint:        strings.TrimPrefix(srv.URL, "http://"),
		MinioAccessKeyID:     "minioadmin",
		MinioSecretAccessKey: "minioadmin",
		MinioBucketName:      "entertainlit-archive",
		MinioRegion:          "us-east-1",
	}
}

func isolateAWSEnv(t *testing.T) {
	t.Helper()
	t.Setenv("AWS_CONFIG_FILE", "/dev/null")
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", "/dev/null")
}

func TestMinioClient_UploadFile(t *testing.T) {
	isolateAWSEnv(t)
	fake := newFakeS3(true)
	srv := httptest.NewServer(fake)
	defer srv.Close()

	c, err := NewMinioClient(context.Background(), testConfig(srv), slog.New(slog.DiscardHandler))
	require.NoError(t, err)

	url, err := c.UploadFile(context.Background(), "consumption-archive/user-1/log-1.json",
		[]byte(`{"title":"Dune"}`), "application/json")
	require.NoError(t, err)

	assert.Equal(t, srv.URL+"/entertainlit-archive/consumption-archive/user-1/log-1.json", url)

	fake.mu.Lock()
	defer fake.mu.Unlock()
	assert.False(t, fake.created)
	assert.Equal(t, `{"title":"Dune"}`, fake.objects["consumption-archive/user-1/log-1.json"])
	assert.Equal(t, "application/json", fake.contentTypes["consumption-archive/user-1/log-1.json"])
}

func TestMinioClient_CreatesMissingBucket(t *testing.T) {
	isolateAWSEnv(t)
	fake := newFakeS3(false)
	srv := httptest.NewServer(fake)
	defer srv.Close()

	_, err := NewMinioClient(context.Background(), testConfig(srv), slog.New(slog.DiscardHandler))
	require.NoError(t, err)

	fake.mu.Lock()
	defer fake.mu.Unlock()
	assert.True(t, fake.created)
}

func TestNewMinioClient_RequiresEndpoint(t *testing.T) {
	_, err := NewMinioClient(context.Background(), &appconfig.Config{MinioBucketName: "b"}, slog.New(slog.DiscardHandler))
	require.Error(t, err)
}

func TestEndpointURL(t *testing.T) {
	tests := []struct {
		endpoint string
		ssl      bool
		want     string
	}{
		{"localhost:9000", false, "http://localhost:9000"},
		{"minio.internal", true, "https://minio.internal"},
		{"http://minio:9000/", true, "http://minio:9000"},
	}
	for _, tt := range tests {
		t.Run(tt.endpoint, func(t *testing.T) {
			assert.Equal(t, tt.want, endpointURL(tt.endpoint, tt.ssl))
		})
	}
}
