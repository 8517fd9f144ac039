// Package sigboxtest provides an in-memory Signaturbox server for tests.
package sigboxtest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
)

// APIKey is the key the server accepts unless overridden.
const APIKey = "test-api-key"

// SigningURL is the prefix of the Handy-Signature URL handed out on batch close.
const SigningURL = "https://handy.example/sign?ticket="

type template struct {
	id          int
	description string
	content     []byte
}

// Document is what the server remembers about an uploaded document.
type Document struct {
	ID       int
	Filename string
	Content  []byte
	Form     url.Values
}

type batch struct {
	redirectURL string
	errorURL    string
	closed      bool
	signed      bool
	docs        map[int]*Document
}

// Server is a fake Signaturbox API.
type Server struct {
	*httptest.Server

	APIKey string

	mu        sync.Mutex
	nextID    int
	templates map[int]*template
	batches   map[string]*batch
	failNext  int
}

// NewServer starts a fake server. Call Close when done.
func NewServer() *Server {
	s := &Server{
		APIKey:    APIKey,
		nextID:    100,
		templates: make(map[int]*template),
		batches:   make(map[string]*batch),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /templates", s.uploadTemplate)
	mux.HandleFunc("GET /templates", s.listTemplates)
	mux.HandleFunc("PUT /templates/{id}", s.replaceTemplate)
	mux.HandleFunc("POST /templates/{id}", s.deleteTemplate)
	mux.HandleFunc("GET /templates/{id}", s.getTemplate)
	mux.HandleFunc("POST /signaturebatches", s.openBatch)
	mux.HandleFunc("POST /signaturebatches/{ticket}/mobileSignature", s.closeBatch)
	mux.HandleFunc("POST /signaturebatches/{ticket}/documents", s.addDocument)
	mux.HandleFunc("DELETE /signaturebatches/{ticket}/documents/{id}", s.takeDocument)

	s.Server = httptest.NewServer(s.guard(mux))
	return s
}

// FailNext makes the next request answer with status, whatever it is.
func (s *Server) FailNext(status int) {
	s.mu.Lock()
	s.failNext = status
	s.mu.Unlock()
}

// Sign marks a closed batch as signed, as the mobile flow would.
func (s *Server) Sign(ticket string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.batches[ticket]
	if !ok || !b.closed {
		return false
	}
	b.signed = true
	return true
}

// Documents returns a copy of the documents still held for ticket.
func (s *Server) Documents(ticket string) map[int]Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[int]Document)
	if b, ok := s.batches[ticket]; ok {
		for id, d := range b.docs {
			out[id] = *d
		}
	}
	return out
}

// BatchURLs returns the redirect and error URLs a batch was opened with.
func (s *Server) BatchURLs(ticket string) (string, string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.batches[ticket]
	if !ok {
		return "", "", false
	}
	return b.redirectURL, b.errorURL, true
}

func (s *Server) guard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		fail := s.failNext
		s.failNext = 0
		s.mu.Unlock()

		if fail != 0 {
			http.Error(w, "forced failure", fail)
			return
		}
		if r.Header.Get("X-API-KEY") != s.APIKey {
			http.Error(w, "invalid api key", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) id() int {
	s.nextID++
	return s.nextID
}

func readFile(r *http.Request, field string) (string, []byte, error) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		return "", nil, err
	}
	f, hdr, err := r.FormFile(field)
	if err != nil {
		return "", nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return "", nil, err
	}
	return hdr.Filename, data, nil
}

func (s *Server) uploadTemplate(w http.ResponseWriter, r *http.Request) {
	name, data, err := readFile(r, "template")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	id := s.id()
	s.templates[id] = &template{id: id, description: name, content: data}
	s.mu.Unlock()

	w.Header().Set("Location", fmt.Sprintf("%s/templates/%d", s.URL, id))
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) listTemplates(w http.ResponseWriter, _ *http.Request) {
	type item struct {
		ID          int    `json:"id"`
		Description string `json:"description"`
	}
	s.mu.Lock()
	list := make([]item, 0, len(s.templates))
	for _, t := range s.templates {
		list = append(list, item{ID: t.id, Description: t.description})
	}
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"templateList": list})
}

func (s *Server) lookupTemplate(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.Error(w, "bad id", http.StatusBadRequest)
		return 0, false
	}
	if _, ok := s.templates[id]; !ok {
		http.Error(w, "no such template", http.StatusNotFound)
		return 0, false
	}
	return id, true
}

func (s *Server) replaceTemplate(w http.ResponseWriter, r *http.Request) {
	name, data, err := readFile(r, "template")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.lookupTemplate(w, r)
	if !ok {
		return
	}
	s.templates[id].description = name
	s.templates[id].content = data
	w.WriteHeader(http.StatusOK)
}

func (s *Server) deleteTemplate(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.lookupTemplate(w, r)
	if !ok {
		return
	}
	delete(s.templates, id)
	w.WriteHeader(http.StatusOK)
}

func (s *Server) getTemplate(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.lookupTemplate(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/xml")
	_, _ = w.Write(s.templates[id].content)
}

func (s *Server) openBatch(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	redirect, errURL := r.PostForm.Get("RedirectUrl"), r.PostForm.Get("ErrorUrl")
	if redirect == "" || errURL == "" {
		http.Error(w, "RedirectUrl and ErrorUrl are required", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	ticket := fmt.Sprintf("T%d", s.id())
	s.batches[ticket] = &batch{redirectURL: redirect, errorURL: errURL, docs: make(map[int]*Document)}
	s.mu.Unlock()

	w.Header().Set("Location", fmt.Sprintf("%s/signaturebatches/%s", s.URL, ticket))
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) closeBatch(w http.ResponseWriter, r *http.Request) {
	ticket := r.PathValue("ticket")
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.batches[ticket]
	if !ok {
		http.Error(w, "no such batch", http.StatusNotFound)
		return
	}
	if len(b.docs) == 0 {
		http.Error(w, "batch is empty", http.StatusConflict)
		return
	}
	b.closed = true
	w.Header().Set("Location", SigningURL+url.QueryEscape(ticket))
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) addDocument(w http.ResponseWriter, r *http.Request) {
	ticket := r.PathValue("ticket")
	name, data, err := readFile(r, "document")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.batches[ticket]
	if !ok {
		http.Error(w, "no such batch", http.StatusNotFound)
		return
	}
	if b.closed {
		http.Error(w, "batch is closed", http.StatusConflict)
		return
	}
	if tpl := r.FormValue("template"); tpl != "" {
		id, err := strconv.Atoi(tpl)
		if _, known := s.templates[id]; err != nil || !known {
			http.Error(w, "unknown template", http.StatusBadRequest)
			return
		}
	}

	id := s.id()
	form := url.Values{}
	for k, v := range r.MultipartForm.Value {
		form[k] = append([]string(nil), v...)
	}
	b.docs[id] = &Document{ID: id, Filename: name, Content: data, Form: form}

	w.Header().Set("Location", fmt.Sprintf("%s/signaturebatches/%s/documents/%d", s.URL, ticket, id))
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) takeDocument(w http.ResponseWriter, r *http.Request) {
	ticket := r.PathValue("ticket")
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.Error(w, "bad id", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.batches[ticket]
	if !ok {
		http.Error(w, "no such batch", http.StatusNotFound)
		return
	}
	d, ok := b.docs[id]
	if !ok {
		http.Error(w, "no such document", http.StatusNotFound)
		return
	}
	if !b.signed {
		http.Error(w, "batch not signed", http.StatusConflict)
		return
	}
	delete(b.docs, id)

	signed := append([]byte("signed:"), d.Content...)
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s; size=%d", d.Filename, len(signed)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(signed)
}
