package storage

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Adda-Baaj/signaturbox-client/internal/domain"
)

// Package storage persists signing sessions between runs.

// ErrNotFound is returned when no session exists for a ticket.
var ErrNotFound = errors.New("session not found")

// Store keeps signing sessions keyed by ticket.
type Store interface {
	Close() error
	SaveSession(s *domain.Session) error
	LoadSession(ticket string) (*domain.Session, error)
	DeleteSession(ticket string) error
	ListSessions() ([]*domain.Session, error)
}

// Options controls retention and backend addressing.
type Options struct {
	Path       string
	RedisAddr  string
	RedisDB    int
	SessionTTL time.Duration

	// CleanupInterval bounds how often expired bbolt records are swept.
	CleanupInterval time.Duration
}

const (
	defaultSessionTTL      = 7 * 24 * time.Hour
	defaultCleanupInterval = 12 * time.Hour
)

// Supported store types.
const (
	TypeBBolt  = "bbolt"
	TypeRedis  = "redis"
	TypeMemory = "memory"
)

// NewStore creates the configured storage backend. "none" still keeps
// sessions in memory for the lifetime of the process.
func NewStore(typ string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", "none", "disabled", TypeMemory:
		return newMemoryStore(opts), nil
	case TypeBBolt:
		if strings.TrimSpace(opts.Path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(opts.Path, opts)
	case TypeRedis:
		if strings.TrimSpace(opts.RedisAddr) == "" {
			return nil, fmt.Errorf("redis storage requires an address")
		}
		return openRedis(opts)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = defaultSessionTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

func validateSession(s *domain.Session) error {
	if s == nil {
		return errors.New("session is nil")
	}
	if strings.TrimSpace(s.Ticket) == "" {
		return errors.New("session ticket is empty")
	}
	return nil
}
