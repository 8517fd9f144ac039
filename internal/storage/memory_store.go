package storage

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Adda-Baaj/signaturbox-client/internal/domain"
)

type memoryEntry struct {
	raw    []byte
	expiry time.Time
}

// memoryStore keeps sessions for the lifetime of the process.
// Values are stored serialized so callers never share a *Session with the store.
type memoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

func newMemoryStore(opts Options) *memoryStore {
	return &memoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     opts.SessionTTL,
		now:     time.Now,
	}
}

func (m *memoryStore) Close() error { return nil }

func (m *memoryStore) SaveSession(s *domain.Session) error {
	if err := validateSession(s); err != nil {
		return err
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	m.mu.Lock()
	m.entries[s.Ticket] = memoryEntry{raw: raw, expiry: m.now().Add(m.ttl)}
	m.mu.Unlock()
	return nil
}

func (m *memoryStore) LoadSession(ticket string) (*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[ticket]
	if !ok {
		return nil, ErrNotFound
	}
	if !e.expiry.After(m.now()) {
		delete(m.entries, ticket)
		return nil, ErrNotFound
	}
	return decodeSession(e.raw)
}

func (m *memoryStore) DeleteSession(ticket string) error {
	m.mu.Lock()
	delete(m.entries, ticket)
	m.mu.Unlock()
	return nil
}

func (m *memoryStore) ListSessions() ([]*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	out := make([]*domain.Session, 0, len(m.entries))
	for ticket, e := range m.entries {
		if !e.expiry.After(now) {
			delete(m.entries, ticket)
			continue
		}
		s, err := decodeSession(e.raw)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	sortSessions(out)
	return out, nil
}

func decodeSession(raw []byte) (*domain.Session, error) {
	var s domain.Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if s.Documents == nil {
		s.Documents = make(map[int]string)
	}
	return &s, nil
}

// sortSessions orders sessions newest first.
func sortSessions(list []*domain.Session) {
	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
}
