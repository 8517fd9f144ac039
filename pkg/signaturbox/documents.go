package signaturbox

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Adda-Baaj/signaturbox-client/pkg/httpclient"
)

// Placement positions the visible signature seal on a page, in PDF user space units.
type Placement struct {
	Page int
	X    int
	Y    int
	W    int
	H    int
}

// SignedDocument is a document retrieved after signing.
type SignedDocument struct {
	// Name is the filename announced by the server.
	Name string
	Data []byte
}

// AddDocument uploads file into the batch and returns the document id, or InvalidID.
func (c *Client) AddDocument(ctx context.Context, ticket, file, location, reason string) (int, error) {
	return c.addDocument(ctx, ticket, file, documentForm(location, reason))
}

// AddDocumentTemplate is AddDocument with an explicit signature template.
func (c *Client) AddDocumentTemplate(ctx context.Context, ticket, file string, templateID int, location, reason string) (int, error) {
	form := documentForm(location, reason)
	form["template"] = strconv.Itoa(templateID)
	return c.addDocument(ctx, ticket, file, form)
}

// AddDocumentTemplateEx is AddDocumentTemplate with an explicit seal position.
func (c *Client) AddDocumentTemplateEx(ctx context.Context, ticket, file string, templateID int, location, reason string, p Placement) (int, error) {
	form := documentForm(location, reason)
	form["template"] = strconv.Itoa(templateID)
	form["page"] = strconv.Itoa(p.Page)
	form["x"] = strconv.Itoa(p.X)
	form["y"] = strconv.Itoa(p.Y)
	form["w"] = strconv.Itoa(p.W)
	form["h"] = strconv.Itoa(p.H)
	return c.addDocument(ctx, ticket, file, form)
}

func documentForm(location, reason string) map[string]string {
	return map[string]string{
		"location": location,
		"reason":   reason,
	}
}

func (c *Client) addDocument(ctx context.Context, ticket, file string, form map[string]string) (int, error) {
	const op = "add document"
	if err := requireFile(op, file); err != nil {
		return InvalidID, err
	}

	resp, err := c.call(ctx, op, http.StatusCreated, httpclient.Request{
		Method:     http.MethodPost,
		Resource:   resDocuments,
		PathParams: map[string]string{"ticket": ticket},
		FormData:   form,
		Files:      []httpclient.File{{Param: fieldDocumentFile, Path: file}},
	})
	if err != nil {
		return InvalidID, err
	}

	id, err := idFromLocation(resp.Header("Location"))
	if err != nil {
		return InvalidID, fmt.Errorf("%s: %w", op, err)
	}
	c.log.DebugObj("document added", "document", map[string]any{
		"ticket":      ticket,
		"document_id": id,
		"file":        file,
	})
	return id, nil
}

// GetDocument fetches a signed document. The server removes the document as
// part of this call, so it can only succeed once per document.
func (c *Client) GetDocument(ctx context.Context, ticket string, documentID int) (*SignedDocument, error) {
	const op = "get document"
	resp, err := c.call(ctx, op, http.StatusOK, httpclient.Request{
		Method:   http.MethodDelete,
		Resource: resDocument,
		PathParams: map[string]string{
			"ticket": ticket,
			"id":     strconv.Itoa(documentID),
		},
	})
	if err != nil {
		return nil, err
	}

	name, err := filenameFromDisposition(resp.Header("Content-Disposition"))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &SignedDocument{Name: name, Data: resp.Body()}, nil
}
