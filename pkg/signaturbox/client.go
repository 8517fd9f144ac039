// Package signaturbox is a client for the Signaturbox REST API: templates,
// signature batches and the documents inside a batch.
//
// Every operation issues exactly one request and checks for exactly one
// status code. Ids of created resources are read from the Location header.
package signaturbox

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/Adda-Baaj/signaturbox-client/pkg/httpclient"
)

// InvalidID is returned in place of a template or document id on failure.
const InvalidID = -1

// Resource paths.
const (
	resTemplates       = "templates"
	resTemplate        = "templates/{id}"
	resBatches         = "signaturebatches"
	resMobileSignature = "signaturebatches/{ticket}/mobileSignature"
	resDocuments       = "signaturebatches/{ticket}/documents"
	resDocument        = "signaturebatches/{ticket}/documents/{id}"
)

// Multipart field names for uploaded files.
const (
	fieldTemplateFile = "template"
	fieldDocumentFile = "document"
)

// Logger defines the logging surface the client relies on.
type Logger interface {
	InfoObj(msg, key string, obj interface{})
	DebugObj(msg, key string, obj interface{})
}

type noopLogger struct{}

func (noopLogger) InfoObj(string, string, interface{})  {}
func (noopLogger) DebugObj(string, string, interface{}) {}

// Client talks to one Signaturbox server. It is not safe for concurrent use.
type Client struct {
	http httpclient.Client
	log  Logger
}

// New wraps an HTTP adapter already bound to the server URL and API key.
func New(hc httpclient.Client, log Logger) *Client {
	if log == nil {
		log = noopLogger{}
	}
	return &Client{http: hc, log: log}
}

// call executes req and enforces the expected status code.
func (c *Client) call(ctx context.Context, op string, want int, req httpclient.Request) (httpclient.Response, error) {
	if c == nil || c.http == nil {
		return nil, fmt.Errorf("%s: signaturbox client is not initialized", op)
	}
	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if resp.StatusCode() != want {
		return nil, &StatusError{Op: op, Want: want, Got: resp.StatusCode(), Body: bodySnippet(resp.Body())}
	}
	return resp, nil
}

// requireFile fails fast when path does not name a readable regular file.
func requireFile(op, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%s: %w: %s", op, ErrFileNotFound, path)
		}
		return fmt.Errorf("%s: stat %s: %w", op, path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s: %w: %s is a directory", op, ErrFileNotFound, path)
	}
	return nil
}
