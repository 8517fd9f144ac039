package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/Adda-Baaj/signaturbox-client/internal/config"
	"github.com/Adda-Baaj/signaturbox-client/internal/domain"
	"github.com/Adda-Baaj/signaturbox-client/internal/logger"
	"github.com/Adda-Baaj/signaturbox-client/internal/metrics"
	"github.com/Adda-Baaj/signaturbox-client/internal/storage"
	"github.com/Adda-Baaj/signaturbox-client/pkg/notifiers"
	"github.com/Adda-Baaj/signaturbox-client/pkg/signaturbox"
	"github.com/Adda-Baaj/signaturbox-client/pkg/sinks"
	"github.com/prometheus/client_golang/prometheus"
)

// ErrNoDocuments is returned when the upload directory holds no PDF files.
var ErrNoDocuments = errors.New("no pdf documents to sign")

// signHint is shown when signed documents cannot be retrieved.
const signHint = "did you forget to sign the documents in the browser before continuing?"

// SigningAPI is the part of the Signaturbox client the workflow drives.
type SigningAPI interface {
	UploadTemplate(ctx context.Context, file string) (int, error)
	ListTemplates(ctx context.Context) ([]signaturbox.Template, error)
	StartBatchSignature(ctx context.Context, redirectURL, errorURL string) (string, error)
	AddDocument(ctx context.Context, ticket, file, location, reason string) (int, error)
	AddDocumentTemplate(ctx context.Context, ticket, file string, templateID int, location, reason string) (int, error)
	AddDocumentTemplateEx(ctx context.Context, ticket, file string, templateID int, location, reason string, p signaturbox.Placement) (int, error)
	EndBatchSignature(ctx context.Context, ticket, handySigParameter string) (string, error)
	GetDocument(ctx context.Context, ticket string, documentID int) (*signaturbox.SignedDocument, error)
}

// Prompter blocks until the person running the demo confirms they are done.
type Prompter interface {
	WaitForEnter(ctx context.Context, msg string) error
}

// URLOpener opens the signing URL for the user.
type URLOpener func(url string) error

// Deps are the collaborators a Demo runs against.
type Deps struct {
	API      SigningAPI
	Store    storage.Store
	Sink     sinks.Sink
	Fanout   *notifiers.Fanout
	Gatherer prometheus.Gatherer
	Open     URLOpener
	Prompt   Prompter
	Out      io.Writer
}

// Demo walks one batch through upload, signing and retrieval.
type Demo struct {
	cfg      *config.Config
	api      SigningAPI
	store    storage.Store
	sink     sinks.Sink
	fanout   *notifiers.Fanout
	gatherer prometheus.Gatherer
	open     URLOpener
	prompt   Prompter
	out      io.Writer
	log      logger.Logger
}

// NewDemo validates deps and returns a ready workflow.
func NewDemo(cfg *config.Config, deps Deps, log logger.Logger) (*Demo, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if deps.API == nil {
		return nil, fmt.Errorf("signing api must not be nil")
	}
	if deps.Store == nil {
		return nil, fmt.Errorf("session store must not be nil")
	}
	if deps.Sink == nil {
		return nil, fmt.Errorf("document sink must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}
	if deps.Out == nil {
		deps.Out = io.Discard
	}
	if deps.Prompt == nil {
		deps.Prompt = NewConsole(os.Stdin, deps.Out)
	}

	return &Demo{
		cfg:      cfg,
		api:      deps.API,
		store:    deps.Store,
		sink:     deps.Sink,
		fanout:   deps.Fanout,
		gatherer: deps.Gatherer,
		open:     deps.Open,
		prompt:   deps.Prompt,
		out:      deps.Out,
		log:      log,
	}, nil
}

// Run performs the whole demo: template, batch, uploads, signing and retrieval.
func (d *Demo) Run(ctx context.Context) error {
	files, err := pdfFiles(d.cfg.UploadDir)
	if err != nil {
		return err
	}

	templateID, err := d.resolveTemplate(ctx)
	if err != nil {
		return err
	}

	ticket, err := d.api.StartBatchSignature(ctx, d.cfg.SuccessURL, d.cfg.ErrorURL)
	if err != nil {
		return fmt.Errorf("open batch: %w", err)
	}
	d.printf("received ticket: %s\n", ticket)

	session := domain.NewSession(ticket, templateID)
	if err := d.save(session); err != nil {
		return err
	}

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		id, err := d.addDocument(ctx, ticket, file, templateID)
		if err != nil {
			metrics.Documents.WithLabelValues(metrics.ResultFailed).Inc()
			return fmt.Errorf("add document %s: %w", filepath.Base(file), err)
		}
		metrics.Documents.WithLabelValues(metrics.ResultUploaded).Inc()
		session.AddDocument(id, filepath.Base(file))
		if err := d.save(session); err != nil {
			return err
		}
		d.printf("uploaded document: %s (DocumentID: %d)\n", filepath.Base(file), id)
	}

	signURL, err := d.api.EndBatchSignature(ctx, ticket, d.cfg.HandySigParameter)
	if err != nil {
		return fmt.Errorf("start signature process: %w", err)
	}
	session.SigningURL = signURL
	session.Status = domain.SessionSigning
	session.Touch()
	if err := d.save(session); err != nil {
		return err
	}

	d.printf("received URL for Handy-Signature: %s\n", signURL)
	if d.cfg.OpenBrowser && d.open != nil {
		if err := d.open(signURL); err != nil {
			d.log.WarnObj("could not open browser", "browser_error", map[string]any{
				"url":   signURL,
				"error": err.Error(),
			})
		}
	}

	if err := d.prompt.WaitForEnter(ctx, "press Enter to continue... (after the signing process!)"); err != nil {
		return fmt.Errorf("wait for signature: %w", err)
	}

	return d.collect(ctx, session)
}

// Collect retrieves the signed documents of a stored batch.
func (d *Demo) Collect(ctx context.Context, ticket string) error {
	ticket = strings.TrimSpace(ticket)
	if ticket == "" {
		return fmt.Errorf("ticket is required to collect a batch")
	}
	session, err := d.store.LoadSession(ticket)
	if err != nil {
		return fmt.Errorf("load session %s: %w", ticket, err)
	}
	if session.Status == domain.SessionCompleted {
		d.log.InfoObj("batch already collected", "ticket", ticket)
		d.printf("batch %s was already collected\n", ticket)
		return nil
	}
	return d.collect(ctx, session)
}

func (d *Demo) collect(ctx context.Context, session *domain.Session) error {
	for _, id := range session.Pending() {
		if err := ctx.Err(); err != nil {
			return err
		}
		name := session.Documents[id]

		doc, err := d.api.GetDocument(ctx, session.Ticket, id)
		if err != nil {
			metrics.Documents.WithLabelValues(metrics.ResultFailed).Inc()
			d.log.ErrorObj("error getting document", "document_error", map[string]any{
				"ticket":      session.Ticket,
				"document_id": id,
				"error":       err.Error(),
			})
			return fmt.Errorf("get document %d (%s): %w; %s", id, name, err, signHint)
		}

		loc, err := d.sink.Write(ctx, name, doc.Data)
		if err != nil {
			metrics.Documents.WithLabelValues(metrics.ResultFailed).Inc()
			return fmt.Errorf("store document %s: %w", name, err)
		}
		metrics.Documents.WithLabelValues(metrics.ResultDownloaded).Inc()
		session.MarkRetrieved(id, loc)
		if err := d.save(session); err != nil {
			return err
		}
		d.log.InfoObj("document stored", "document", domain.DocumentRef{
			ID: id, Name: name, ServerName: doc.Name, Location: loc, Size: len(doc.Data),
		})
		d.printf("stored signed document: %s\n", loc)
	}

	session.Status = domain.SessionCompleted
	session.Touch()
	if err := d.save(session); err != nil {
		return err
	}

	d.notify(ctx, session)
	d.writeMetrics()
	d.printf("Done!\n")
	return nil
}

// ListTemplates prints the templates known to the server.
func (d *Demo) ListTemplates(ctx context.Context) error {
	templates, err := d.api.ListTemplates(ctx)
	if err != nil {
		return fmt.Errorf("list templates: %w", err)
	}
	tw := tabwriter.NewWriter(d.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDESCRIPTION")
	for _, t := range templates {
		fmt.Fprintf(tw, "%d\t%s\n", t.ID, t.Description)
	}
	return tw.Flush()
}

// ListSessions prints the batches kept in the session store.
func (d *Demo) ListSessions(_ context.Context) error {
	sessions, err := d.store.ListSessions()
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}
	tw := tabwriter.NewWriter(d.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TICKET\tSTATUS\tDOCUMENTS\tRETRIEVED\tUPDATED")
	for _, s := range sessions {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n",
			s.Ticket, s.Status, len(s.Documents), len(s.Retrieved), s.UpdatedAt.Format(time.RFC3339))
	}
	return tw.Flush()
}

// resolveTemplate picks the signature template for the batch. A configured
// template file is uploaded; otherwise template_id is used, then the first
// template the server lists. Zero means no template.
func (d *Demo) resolveTemplate(ctx context.Context) (int, error) {
	if file := strings.TrimSpace(d.cfg.TemplateFile); file != "" {
		if _, err := os.Stat(file); err == nil {
			id, err := d.api.UploadTemplate(ctx, file)
			if err != nil {
				return 0, fmt.Errorf("upload template: %w", err)
			}
			d.printf("using template with templateId = %d\n", id)
			return id, nil
		}
		d.log.WarnObj("template file not found, falling back", "template_file", file)
	}

	if d.cfg.TemplateID > 0 {
		d.printf("using template with templateId = %d\n", d.cfg.TemplateID)
		return d.cfg.TemplateID, nil
	}

	templates, err := d.api.ListTemplates(ctx)
	if err != nil {
		return 0, fmt.Errorf("list templates: %w", err)
	}
	if len(templates) == 0 {
		d.log.InfoObj("no templates on server, adding documents without template", "templates", 0)
		return 0, nil
	}
	d.printf("using template with templateId = %d\n", templates[0].ID)
	return templates[0].ID, nil
}

func (d *Demo) addDocument(ctx context.Context, ticket, file string, templateID int) (int, error) {
	loc, reason := d.cfg.DocumentLocation, d.cfg.DocumentReason
	switch {
	case templateID <= 0:
		return d.api.AddDocument(ctx, ticket, file, loc, reason)
	case d.cfg.PlacementEnabled:
		return d.api.AddDocumentTemplateEx(ctx, ticket, file, templateID, loc, reason, signaturbox.Placement{
			Page: d.cfg.PlacementPage,
			X:    d.cfg.PlacementX,
			Y:    d.cfg.PlacementY,
			W:    d.cfg.PlacementW,
			H:    d.cfg.PlacementH,
		})
	default:
		return d.api.AddDocumentTemplate(ctx, ticket, file, templateID, loc, reason)
	}
}

func (d *Demo) notify(ctx context.Context, session *domain.Session) {
	if d.fanout.Size() == 0 {
		return
	}
	refs := make([]domain.DocumentRef, 0, len(session.Retrieved))
	for _, id := range session.DocumentIDs() {
		refs = append(refs, domain.DocumentRef{
			ID:       id,
			Name:     session.Documents[id],
			Location: session.Retrieved[id],
		})
	}
	evt := notifiers.NewBatchSignedEvent(session.Ticket, session.TemplateID, refs)
	delivered, err := d.fanout.Notify(ctx, evt)
	if err != nil {
		d.log.ErrorObj("batch notification failed", "notify_error", map[string]any{
			"ticket":    session.Ticket,
			"delivered": delivered,
			"error":     err.Error(),
		})
		return
	}
	d.log.InfoObj("batch notification delivered", "notify_meta", map[string]any{
		"ticket":    session.Ticket,
		"event_id":  evt.ID,
		"delivered": delivered,
	})
}

func (d *Demo) writeMetrics() {
	if d.gatherer == nil || d.cfg.MetricsTextfile == "" {
		return
	}
	if err := metrics.WriteTextfile(d.cfg.MetricsTextfile, d.gatherer); err != nil {
		d.log.WarnObj("metrics textfile not written", "metrics_error", err.Error())
	}
}

func (d *Demo) save(session *domain.Session) error {
	if err := d.store.SaveSession(session); err != nil {
		return fmt.Errorf("save session %s: %w", session.Ticket, err)
	}
	return nil
}

func (d *Demo) printf(format string, args ...any) {
	fmt.Fprintf(d.out, format, args...)
}

// pdfFiles lists the *.pdf files directly inside dir, sorted by name.
func pdfFiles(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("upload directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("upload directory %s is not a directory", dir)
	}
	var files []string
	for _, pattern := range []string{"*.pdf", "*.PDF"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("list upload directory: %w", err)
		}
		files = append(files, matches...)
	}
	files = dedupe(files)
	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoDocuments, dir)
	}
	return files, nil
}

func dedupe(in []string) []string {
	sort.Strings(in)
	out := in[:0]
	for i, s := range in {
		if i > 0 && s == in[i-1] {
			continue
		}
		out = append(out, s)
	}
	return out
}
