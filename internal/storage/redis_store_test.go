package storage

import (
	"testing"
	"time"

	"github.com/Adda-Baaj/signaturbox-client/internal/domain"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
)

func TestRedisStoreRoundTripAndTTL(t *testing.T) {
	mr := miniredis.RunT(t)

	store, err := NewStore(TypeRedis, Options{RedisAddr: mr.Addr(), SessionTTL: time.Hour})
	require.NoError(t, err)
	defer store.Close()

	sess := domain.NewSession("T1", 3)
	sess.AddDocument(10, "a.pdf")
	sess.AddDocument(11, "b.pdf")
	require.NoError(t, store.SaveSession(sess))
	require.True(t, mr.Exists(redisKeyPrefix+"T1"))

	got, err := store.LoadSession("T1")
	require.NoError(t, err)
	require.Equal(t, []int{10, 11}, got.DocumentIDs())

	require.NoError(t, store.SaveSession(domain.NewSession("T2", 0)))
	list, err := store.ListSessions()
	require.NoError(t, err)
	require.Len(t, list, 2)

	mr.FastForward(2 * time.Hour)
	_, err = store.LoadSession("T1")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStoreDelete(t *testing.T) {
	mr := miniredis.RunT(t)

	store, err := NewStore(TypeRedis, Options{RedisAddr: mr.Addr()})
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.SaveSession(domain.NewSession("T1", 0)))
	require.NoError(t, store.DeleteSession("T1"))
	_, err = store.LoadSession("T1")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestOpenRedisFailsWhenUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewStore(TypeRedis, Options{RedisAddr: addr})
	require.Error(t, err)
}
