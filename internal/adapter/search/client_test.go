package search

import (
	"context"
	"encoding/pem"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeServerCert stores the test server's certificate as a PEM trust store
func writeServerCert(t *testing.T, srv *httptest.Server) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "truststore.pem")
	block := &pem.Block{Type: "CERTIFICATE", Bytes: srv.Certificate().Raw}
	require.NoError(t, os.WriteFile(path, pem.EncodeToMemory(block), 0600))
	return path
}

func newTestClient(t *testing.T, srv *httptest.Server, timeout time.Duration) *Client {
	t.Helper()

	store, err := LoadTrustStore(writeServerCert(t, srv), "")
	require.NoError(t, err)

	client, err := NewClient(Options{
		BaseURL: srv.URL + "/",
		Timeout: timeout,
		RootCAs: store.Pool,
		Logger:  zerolog.Nop(),
	})
	require.NoError(t, err)
	return client
}

func TestClientSearchSuccess(t *testing.T) {
	const payload = `{"organizations":[{"id":1,"name":"Acme"}],"totalPages":1,"totalElements":1,"page":0,"size":20}`

	var gotBody []byte
	var gotPath, gotMethod, gotContentType string
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(payload))
	}))
	defer srv.Close()

	client := newTestClient(t, srv, 5*time.Second)
	assert.Equal(t, srv.URL+"/search", client.URL())

	result, err := client.Search(context.Background(), []byte(`{"sort":[]}`))
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/search", gotPath)
	assert.Equal(t, "application/json", gotContentType)
	assert.JSONEq(t, `{"sort":[]}`, string(gotBody))

	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.Equal(t, "application/json", result.ContentType)
	assert.Equal(t, payload, string(result.Body))
}

func TestClientSearchNonSuccessStatus(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := newTestClient(t, srv, 5*time.Second)

	result, err := client.Search(context.Background(), []byte(`{}`))
	require.Error(t, err)
	assert.Nil(t, result)

	var uErr *UpstreamError
	require.True(t, errors.As(err, &uErr))
	assert.Equal(t, http.StatusInternalServerError, uErr.StatusCode)
	assert.False(t, uErr.Timeout)
	assert.Equal(t, int32(1), calls.Load(), "failed requests must not be retried")
}

func TestClientSearchTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	client := newTestClient(t, srv, 100*time.Millisecond)

	_, err := client.Search(context.Background(), []byte(`{}`))
	require.Error(t, err)

	var uErr *UpstreamError
	require.True(t, errors.As(err, &uErr))
	assert.True(t, uErr.Timeout)
	assert.Zero(t, uErr.StatusCode)
}

func TestClientSearchUntrustedCertificate(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	// Trust an unrelated CA only
	store, err := LoadTrustStore(writePEM(t, generateCA(t, "unrelated CA")), "")
	require.NoError(t, err)

	client, err := NewClient(Options{
		BaseURL: srv.URL,
		Timeout: 5 * time.Second,
		RootCAs: store.Pool,
		Logger:  zerolog.Nop(),
	})
	require.NoError(t, err)

	_, err = client.Search(context.Background(), []byte(`{}`))
	require.Error(t, err)

	var uErr *UpstreamError
	require.True(t, errors.As(err, &uErr))
	assert.Zero(t, uErr.StatusCode)
	assert.False(t, uErr.Timeout)
}

func TestClientSearchCanceledContext(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := newTestClient(t, srv, 5*time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Search(ctx, []byte(`{}`))
	require.Error(t, err)

	var uErr *UpstreamError
	assert.True(t, errors.As(err, &uErr))
}

func TestNewClientValidation(t *testing.T) {
	_, err := NewClient(Options{Timeout: time.Second})
	assert.Error(t, err)

	_, err = NewClient(Options{BaseURL: "https://search.local"})
	assert.Error(t, err)
}
