package signaturbox

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Adda-Baaj/signaturbox-client/pkg/httpclient"
)

// StartBatchSignature opens a signing batch and returns its ticket.
// redirectURL and errorURL are where the signer lands after the mobile flow.
func (c *Client) StartBatchSignature(ctx context.Context, redirectURL, errorURL string) (string, error) {
	const op = "start batch signature"
	resp, err := c.call(ctx, op, http.StatusCreated, httpclient.Request{
		Method:   http.MethodPost,
		Resource: resBatches,
		FormData: map[string]string{
			"RedirectUrl": redirectURL,
			"ErrorUrl":    errorURL,
		},
	})
	if err != nil {
		return "", err
	}

	ticket, err := ticketFromLocation(resp.Header("Location"))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	c.log.InfoObj("batch opened", "batch", map[string]any{"ticket": ticket})
	return ticket, nil
}

// EndBatchSignature closes the batch for uploads and returns the full
// Handy-Signature URL the signer has to visit.
func (c *Client) EndBatchSignature(ctx context.Context, ticket, handySigParameter string) (string, error) {
	const op = "end batch signature"
	resp, err := c.call(ctx, op, http.StatusCreated, httpclient.Request{
		Method:     http.MethodPost,
		Resource:   resMobileSignature,
		PathParams: map[string]string{"ticket": ticket},
		FormData:   map[string]string{"handySigParameter": handySigParameter},
	})
	if err != nil {
		return "", err
	}

	url := resp.Header("Location")
	if url == "" {
		return "", fmt.Errorf("%s: %w: empty", op, ErrMalformedLocation)
	}
	return url, nil
}
