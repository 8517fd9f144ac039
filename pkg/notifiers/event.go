package notifiers

import (
	"time"

	"github.com/Adda-Baaj/signaturbox-client/internal/domain"
	"github.com/google/uuid"
)

// EventBatchSigned is emitted once every document of a batch reached its sink.
const EventBatchSigned = "batch.signed"

// Event represents the payload published downstream.
type Event struct {
	ID         string               `json:"id"`
	Type       string               `json:"type"`
	Ticket     string               `json:"ticket"`
	TemplateID int                  `json:"template_id,omitempty"`
	Documents  []domain.DocumentRef `json:"documents"`
	OccurredAt time.Time            `json:"occurred_at"`
}

// NewBatchSignedEvent constructs the event for a fully collected batch.
func NewBatchSignedEvent(ticket string, templateID int, docs []domain.DocumentRef) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       EventBatchSigned,
		Ticket:     ticket,
		TemplateID: templateID,
		Documents:  docs,
		OccurredAt: time.Now().UTC(),
	}
}

// attributes are the routing fields copied into message metadata.
func (e Event) attributes() map[string]string {
	return map[string]string{
		"event_id":   e.ID,
		"event_type": e.Type,
		"ticket":     e.Ticket,
	}
}
