package httpclient

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// APIKeyHeader carries the static credential sent with every request.
const APIKeyHeader = "X-API-KEY"

// Options configures a RestyClient.
type Options struct {
	BaseURL  string
	APIKey   string
	Timeout  time.Duration
	Logger   Logger
	Observer Observer
}

// RestyClient adapts resty.Client to the httpclient.Client interface.
type RestyClient struct {
	client   *resty.Client
	log      Logger
	observer Observer
}

// NewRestyClient creates a client bound to a base URL and API key.
func NewRestyClient(opts Options) (*RestyClient, error) {
	base := strings.TrimSpace(opts.BaseURL)
	if base == "" {
		return nil, fmt.Errorf("base url is required")
	}

	c := newRestyBaseClient(opts.Timeout)
	c.SetBaseURL(base)
	if opts.APIKey != "" {
		c.SetHeader(APIKeyHeader, opts.APIKey)
	}

	log := opts.Logger
	if log == nil {
		log = noopLogger{}
	}
	return &RestyClient{client: c, log: log, observer: opts.Observer}, nil
}

// NewRestyHTTPClient exposes a configured resty.Client for callers needing custom verbs.
func NewRestyHTTPClient(timeout time.Duration) *resty.Client {
	return newRestyBaseClient(timeout)
}

// newRestyBaseClient creates a new resty.Client with the specified timeout.
func newRestyBaseClient(timeout time.Duration) *resty.Client {
	c := resty.New()
	if timeout > 0 {
		c.SetTimeout(timeout)
	}
	return c
}

// Do builds and executes exactly one request. Non-2xx statuses are not errors;
// only transport failures are.
func (r *RestyClient) Do(ctx context.Context, in Request) (Response, error) {
	method := strings.ToUpper(strings.TrimSpace(in.Method))
	if method == "" {
		method = http.MethodGet
	}

	req := r.client.R().SetContext(ctx)
	if len(in.PathParams) > 0 {
		req.SetPathParams(in.PathParams)
	}
	if len(in.FormData) > 0 {
		req.SetFormData(in.FormData)
	}
	for _, f := range in.Files {
		req.SetFile(f.Param, f.Path)
	}

	start := time.Now()
	resp, err := req.Execute(method, in.Resource)
	elapsed := time.Since(start)
	if err != nil {
		r.observe(method, in.Resource, 0, elapsed)
		r.log.WarnObj("signaturbox request failed", "request", map[string]any{
			"method":   method,
			"resource": in.Resource,
			"error":    err.Error(),
		})
		return nil, fmt.Errorf("%s %s: %w", method, in.Resource, err)
	}

	r.observe(method, in.Resource, resp.StatusCode(), elapsed)
	r.log.DebugObj("signaturbox request completed", "request", map[string]any{
		"method":     method,
		"resource":   in.Resource,
		"status":     resp.StatusCode(),
		"elapsed_ms": elapsed.Milliseconds(),
		"bytes":      len(resp.Body()),
	})
	return &restyResponseAdapter{resp: resp}, nil
}

func (r *RestyClient) observe(method, resource string, status int, elapsed time.Duration) {
	if r.observer != nil {
		r.observer(method, resource, status, elapsed)
	}
}

// restyResponseAdapter adapts resty.Response to the httpclient.Response interface.
type restyResponseAdapter struct {
	resp *resty.Response
}

func (r *restyResponseAdapter) Body() []byte              { return r.resp.Body() }
func (r *restyResponseAdapter) StatusCode() int           { return r.resp.StatusCode() }
func (r *restyResponseAdapter) Header(name string) string { return r.resp.Header().Get(name) }
func (r *restyResponseAdapter) Headers() http.Header      { return r.resp.Header() }
