package signaturbox

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Adda-Baaj/signaturbox-client/pkg/httpclient"
)

// Template is the server-side signature layout as returned by list operations.
type Template struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
}

type templateListResponse struct {
	TemplateList []Template `json:"templateList"`
}

// UploadTemplate stores a new template and returns its id, or InvalidID.
func (c *Client) UploadTemplate(ctx context.Context, file string) (int, error) {
	const op = "upload template"
	if err := requireFile(op, file); err != nil {
		return InvalidID, err
	}

	resp, err := c.call(ctx, op, http.StatusCreated, httpclient.Request{
		Method:   http.MethodPost,
		Resource: resTemplates,
		Files:    []httpclient.File{{Param: fieldTemplateFile, Path: file}},
	})
	if err != nil {
		return InvalidID, err
	}

	id, err := idFromLocation(resp.Header("Location"))
	if err != nil {
		return InvalidID, fmt.Errorf("%s: %w", op, err)
	}
	c.log.InfoObj("template uploaded", "template", map[string]any{"id": id, "file": file})
	return id, nil
}

// ReplaceTemplate overwrites the template with the given id.
func (c *Client) ReplaceTemplate(ctx context.Context, file string, templateID int) error {
	const op = "replace template"
	if err := requireFile(op, file); err != nil {
		return err
	}

	_, err := c.call(ctx, op, http.StatusOK, httpclient.Request{
		Method:     http.MethodPut,
		Resource:   resTemplate,
		PathParams: map[string]string{"id": strconv.Itoa(templateID)},
		Files:      []httpclient.File{{Param: fieldTemplateFile, Path: file}},
	})
	return err
}

// DeleteTemplate removes a template. The server expects POST on the template
// resource for this, not DELETE.
func (c *Client) DeleteTemplate(ctx context.Context, templateID int) error {
	_, err := c.call(ctx, "delete template", http.StatusOK, httpclient.Request{
		Method:     http.MethodPost,
		Resource:   resTemplate,
		PathParams: map[string]string{"id": strconv.Itoa(templateID)},
	})
	return err
}

// GetTemplate downloads the raw template definition.
func (c *Client) GetTemplate(ctx context.Context, templateID int) ([]byte, error) {
	resp, err := c.call(ctx, "get template", http.StatusOK, httpclient.Request{
		Method:     http.MethodGet,
		Resource:   resTemplate,
		PathParams: map[string]string{"id": strconv.Itoa(templateID)},
	})
	if err != nil {
		return nil, err
	}
	return resp.Body(), nil
}

// ListTemplates returns all templates. The slice is never nil: a failed call
// yields an empty slice alongside the error, an absent list an empty slice
// and no error.
func (c *Client) ListTemplates(ctx context.Context) ([]Template, error) {
	const op = "list templates"
	resp, err := c.call(ctx, op, http.StatusOK, httpclient.Request{
		Method:   http.MethodGet,
		Resource: resTemplates,
	})
	if err != nil {
		return []Template{}, err
	}

	var payload templateListResponse
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return []Template{}, fmt.Errorf("%s: decode body: %w", op, err)
	}
	if payload.TemplateList == nil {
		return []Template{}, nil
	}
	return payload.TemplateList, nil
}
