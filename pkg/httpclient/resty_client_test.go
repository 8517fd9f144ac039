package httpclient

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRestyClientSubstitutesPathAndSendsAPIKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("expected DELETE, got %s", r.Method)
		}
		if r.URL.EscapedPath() != "/api/signaturebatches/T%201/documents/42" {
			t.Errorf("unexpected path %q", r.URL.EscapedPath())
		}
		if got := r.Header.Get(APIKeyHeader); got != "key-1" {
			t.Errorf("missing api key, got %q", got)
		}
		w.Header().Set("Content-Disposition", "attachment; filename=a.pdf")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("%PDF"))
	}))
	defer srv.Close()

	client, err := NewRestyClient(Options{BaseURL: srv.URL + "/api/", APIKey: "key-1", Timeout: 2 * time.Second})
	require.NoError(t, err)

	resp, err := client.Do(context.Background(), Request{
		Method:     http.MethodDelete,
		Resource:   "/signaturebatches/{ticket}/documents/{id}",
		PathParams: map[string]string{"ticket": "T 1", "id": "42"},
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())
	require.Equal(t, "attachment; filename=a.pdf", resp.Header("content-disposition"))
	require.Equal(t, []byte("%PDF"), resp.Body())
}

func TestRestyClientSendsURLEncodedForm(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("unexpected content type %q", ct)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if r.PostForm.Get("RedirectUrl") != "https://ok" {
			t.Errorf("missing RedirectUrl: %v", r.PostForm)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	client, err := NewRestyClient(Options{BaseURL: srv.URL})
	require.NoError(t, err)

	resp, err := client.Do(context.Background(), Request{
		Method:   http.MethodPost,
		Resource: "signaturebatches",
		FormData: map[string]string{"RedirectUrl": "https://ok"},
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode())
}

func TestRestyClientSendsMultipartWithFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.pdf")
	require.NoError(t, os.WriteFile(path, []byte("pdf-bytes"), 0o644))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if r.FormValue("reason") != "test" {
			t.Errorf("missing reason field")
		}
		f, hdr, err := r.FormFile("document")
		if err != nil {
			t.Errorf("missing document file: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer f.Close()
		body, _ := io.ReadAll(f)
		if hdr.Filename != "doc.pdf" || string(body) != "pdf-bytes" {
			t.Errorf("unexpected file %q: %q", hdr.Filename, body)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	client, err := NewRestyClient(Options{BaseURL: srv.URL})
	require.NoError(t, err)

	resp, err := client.Do(context.Background(), Request{
		Method:   http.MethodPost,
		Resource: "documents",
		FormData: map[string]string{"reason": "test"},
		Files:    []File{{Param: "document", Path: path}},
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode())
}

func TestRestyClientObservesTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	var gotStatus = -1
	client, err := NewRestyClient(Options{
		BaseURL: url,
		Timeout: time.Second,
		Observer: func(method, resource string, status int, _ time.Duration) {
			gotStatus = status
		},
	})
	require.NoError(t, err)

	_, err = client.Do(context.Background(), Request{Method: http.MethodGet, Resource: "templates"})
	require.Error(t, err)
	require.Equal(t, 0, gotStatus)
}

func TestNewRestyClientRequiresBaseURL(t *testing.T) {
	if _, err := NewRestyClient(Options{}); err == nil {
		t.Fatalf("expected error for empty base url")
	}
}
