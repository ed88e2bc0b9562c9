package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"iwingmobile-store/db"
)

func newSQLiteSlots(t *testing.T) *SlotRepository {
	t.Helper()
	ctx := context.Background()

	conn, err := db.OpenSQLite(ctx, filepath.Join(t.TempDir(), "slots.db"))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.NoError(t, db.EnsureSlotSchema(ctx, conn, db.SQLite))

	repo, err := NewSlotRepository(conn, db.SQLite, zap.NewNop())
	require.NoError(t, err)
	return repo
}

func TestNewSlotRepository_UnknownDialect(t *testing.T) {
	_, err := NewSlotRepository(nil, db.Dialect("mysql"), zap.NewNop())
	assert.Error(t, err)
}

// slotContract exercises the behaviour every slot backend must share
func slotContract(t *testing.T, repo SlotRepositoryInterface) {
	ctx := context.Background()

	_, err := repo.Get(ctx, "iwingmobile-cart")
	require.ErrorIs(t, err, ErrSlotNotFound)

	require.NoError(t, repo.Put(ctx, "iwingmobile-cart", []byte(`{"items":[]}`)))
	got, err := repo.Get(ctx, "iwingmobile-cart")
	require.NoError(t, err)
	assert.Equal(t, `{"items":[]}`, string(got))

	// last write wins
	require.NoError(t, repo.Put(ctx, "iwingmobile-cart", []byte(`{"items":[{"id":"a"}]}`)))
	got, err = repo.Get(ctx, "iwingmobile-cart")
	require.NoError(t, err)
	assert.Equal(t, `{"items":[{"id":"a"}]}`, string(got))

	// keys are independent
	require.NoError(t, repo.Put(ctx, "other", []byte("x")))
	require.NoError(t, repo.Delete(ctx, "iwingmobile-cart"))
	_, err = repo.Get(ctx, "iwingmobile-cart")
	require.ErrorIs(t, err, ErrSlotNotFound)
	got, err = repo.Get(ctx, "other")
	require.NoError(t, err)
	assert.Equal(t, "x", string(got))

	// deleting a missing key is fine
	assert.NoError(t, repo.Delete(ctx, "never-written"))
}

func TestSlotRepository_SQLite(t *testing.T) {
	slotContract(t, newSQLiteSlots(t))
}

func TestMemorySlotRepository(t *testing.T) {
	slotContract(t, NewMemorySlotRepository())
}

func TestMemorySlotRepository_CopiesValues(t *testing.T) {
	ctx := context.Background()
	repo := NewMemorySlotRepository()

	value := []byte("abc")
	require.NoError(t, repo.Put(ctx, "k", value))
	value[0] = 'z'

	got, err := repo.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}
