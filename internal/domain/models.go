package domain

import (
	"sort"
	"time"
)

// Domain contains core models shared by the workflow, storage and notifiers.

// SessionStatus tracks how far a signing batch has progressed.
type SessionStatus string

const (
	SessionOpen      SessionStatus = "open"
	SessionSigning   SessionStatus = "signing"
	SessionCompleted SessionStatus = "completed"
)

// Session is the client-side record of one signing batch.
// Document ids are only meaningful together with Ticket.
type Session struct {
	Ticket     string         `json:"ticket"`
	TemplateID int            `json:"template_id,omitempty"`
	SigningURL string         `json:"signing_url,omitempty"`
	Status     SessionStatus  `json:"status"`
	Documents  map[int]string `json:"documents"`
	Retrieved  map[int]string `json:"retrieved,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// NewSession starts a record for a freshly opened batch.
func NewSession(ticket string, templateID int) *Session {
	now := time.Now().UTC()
	return &Session{
		Ticket:     ticket,
		TemplateID: templateID,
		Status:     SessionOpen,
		Documents:  make(map[int]string),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// AddDocument remembers the local filename a document id was uploaded from.
func (s *Session) AddDocument(id int, filename string) {
	if s.Documents == nil {
		s.Documents = make(map[int]string)
	}
	s.Documents[id] = filename
	s.Touch()
}

// Touch bumps UpdatedAt.
func (s *Session) Touch() { s.UpdatedAt = time.Now().UTC() }

// DocumentIDs returns the document ids in ascending order.
func (s *Session) DocumentIDs() []int {
	ids := make([]int, 0, len(s.Documents))
	for id := range s.Documents {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// MarkRetrieved records where a signed document was stored. The server hands
// out each signed document once, so retrieved ids must not be requested again.
func (s *Session) MarkRetrieved(id int, location string) {
	if s.Retrieved == nil {
		s.Retrieved = make(map[int]string)
	}
	s.Retrieved[id] = location
	s.Touch()
}

// Pending returns the ids of documents not yet retrieved, in ascending order.
func (s *Session) Pending() []int {
	ids := s.DocumentIDs()
	out := ids[:0]
	for _, id := range ids {
		if _, done := s.Retrieved[id]; !done {
			out = append(out, id)
		}
	}
	return out
}

// DocumentRef describes a signed document after it reached its destination.
type DocumentRef struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	ServerName string `json:"server_name,omitempty"`
	Location   string `json:"location"`
	Size       int    `json:"size"`
}
