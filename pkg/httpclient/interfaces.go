package httpclient

import (
	"context"
	"net/http"
	"time"
)

// Response is a minimal HTTP response contract.
type Response interface {
	Body() []byte
	StatusCode() int
	// Header returns the first value of the named header, content headers included.
	Header(name string) string
	Headers() http.Header
}

// File is a multipart attachment read from the local filesystem at send time.
type File struct {
	Param string
	Path  string
}

// Request describes one call against the configured base URL.
// Resource may contain {name} placeholders filled from PathParams.
type Request struct {
	Method     string
	Resource   string
	PathParams map[string]string
	FormData   map[string]string
	Files      []File
}

// Client abstracts HTTP calls so callers can inject mocks or different transports.
type Client interface {
	Do(ctx context.Context, req Request) (Response, error)
}

// Logger defines the logging surface the adapter relies on.
type Logger interface {
	DebugObj(msg, key string, obj interface{})
	WarnObj(msg, key string, obj interface{})
}

// Observer receives one callback per executed request. Status is 0 when no
// response was received.
type Observer func(method, resource string, status int, elapsed time.Duration)

type noopLogger struct{}

func (noopLogger) DebugObj(string, string, interface{}) {}
func (noopLogger) WarnObj(string, string, interface{})  {}
