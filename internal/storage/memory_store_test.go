package storage

import (
	"testing"
	"time"

	"github.com/Adda-Baaj/signaturbox-client/internal/domain"
	"github.com/stretchr/testify/require"
)

func TestNoneStoreStillKeepsSessionsInMemory(t *testing.T) {
	store, err := NewStore("none", Options{})
	require.NoError(t, err)

	sess := domain.NewSession("T1", 0)
	sess.AddDocument(1, "a.pdf")
	require.NoError(t, store.SaveSession(sess))

	// Mutating the caller's copy must not leak into the store.
	sess.AddDocument(2, "b.pdf")

	got, err := store.LoadSession("T1")
	require.NoError(t, err)
	require.Equal(t, map[int]string{1: "a.pdf"}, got.Documents)
}

func TestMemoryStoreExpiresSessions(t *testing.T) {
	store := newMemoryStore(normalizeOptions(Options{SessionTTL: time.Minute}))
	now := time.Now()
	store.now = func() time.Time { return now }

	require.NoError(t, store.SaveSession(domain.NewSession("T1", 0)))
	list, err := store.ListSessions()
	require.NoError(t, err)
	require.Len(t, list, 1)

	now = now.Add(2 * time.Minute)
	_, err = store.LoadSession("T1")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSaveSessionRejectsEmptyTicket(t *testing.T) {
	store, err := NewStore(TypeMemory, Options{})
	require.NoError(t, err)
	require.Error(t, store.SaveSession(&domain.Session{}))
	require.Error(t, store.SaveSession(nil))
}
