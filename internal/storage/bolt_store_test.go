package storage

import (
	"errors"
	"testing"
	"time"

	"github.com/Adda-Baaj/signaturbox-client/internal/domain"
)

func TestBoltStoreSavesAndExpiresSessions(t *testing.T) {
	dir := t.TempDir()
	opts := Options{
		SessionTTL:      2 * time.Second,
		CleanupInterval: 1 * time.Second,
	}

	storeRaw, err := openBolt(dir+"/sessions.db", opts)
	if err != nil {
		t.Fatalf("openBolt: %v", err)
	}
	store := storeRaw.(*boltStore)
	defer store.Close()

	if _, err := store.LoadSession("T1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown ticket, got %v", err)
	}

	sess := domain.NewSession("T1", 7)
	sess.AddDocument(42, "contract.pdf")
	if err := store.SaveSession(sess); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}

	got, err := store.LoadSession("T1")
	if err != nil {
		t.Fatalf("LoadSession: %v", err)
	}
	if got.TemplateID != 7 || got.Documents[42] != "contract.pdf" {
		t.Fatalf("unexpected session: %+v", got)
	}

	// Fast-forward cleanup cadence and trigger expiry.
	store.lastCleanup.Store(time.Now().Add(-3 * time.Second).Unix())
	time.Sleep(2100 * time.Millisecond)

	if err := store.SaveSession(domain.NewSession("T2", 0)); err != nil {
		t.Fatalf("SaveSession T2: %v", err)
	}
	if _, err := store.LoadSession("T1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected T1 to expire, got %v", err)
	}
}

func TestBoltStoreListAndDelete(t *testing.T) {
	store, err := NewStore(TypeBBolt, Options{Path: t.TempDir() + "/nested/sessions.db"})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	defer store.Close()

	older := domain.NewSession("old", 0)
	older.CreatedAt = older.CreatedAt.Add(-time.Hour)
	for _, s := range []*domain.Session{older, domain.NewSession("new", 0)} {
		if err := store.SaveSession(s); err != nil {
			t.Fatalf("SaveSession %s: %v", s.Ticket, err)
		}
	}

	list, err := store.ListSessions()
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	if len(list) != 2 || list[0].Ticket != "new" || list[1].Ticket != "old" {
		t.Fatalf("expected newest first, got %+v", list)
	}

	if err := store.DeleteSession("old"); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}
	if _, err := store.LoadSession("old"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected deleted session to be gone, got %v", err)
	}
}

func TestNewStoreRejectsUnknownType(t *testing.T) {
	if _, err := NewStore("mongo", Options{}); err == nil {
		t.Fatalf("expected error for unsupported type")
	}
	if _, err := NewStore(TypeBBolt, Options{}); err == nil {
		t.Fatalf("expected error for bbolt without path")
	}
	if _, err := NewStore(TypeRedis, Options{}); err == nil {
		t.Fatalf("expected error for redis without address")
	}
}
