package signaturbox

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnexpectedStatus is matched by every *StatusError.
	ErrUnexpectedStatus = errors.New("unexpected status code")
	// ErrFileNotFound is returned before any request when a local file is missing.
	ErrFileNotFound = errors.New("file not found")
	// ErrMalformedLocation means the Location header did not end in a usable id.
	ErrMalformedLocation = errors.New("malformed location header")
	// ErrMalformedDisposition means Content-Disposition carried no filename.
	ErrMalformedDisposition = errors.New("malformed content-disposition header")
)

// StatusError reports a response whose status differs from the one the operation expects.
type StatusError struct {
	Op   string
	Want int
	Got  int
	Body string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s: expected status %d, got %d", e.Op, e.Want, e.Got)
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

func (e *StatusError) Is(target error) bool { return target == ErrUnexpectedStatus }

func bodySnippet(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	if len(body) > 256 {
		body = body[:256]
	}
	return strings.TrimSpace(string(body))
}
