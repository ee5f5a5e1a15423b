package history

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEntry(digest string) Entry {
	return Entry{
		Address:   "0x9858EfFD232B4033E47d90003D41EC34EcaEda94",
		Keypath:   "m/44'/60'/0'/0/0",
		Digest:    digest,
		Signature: "0x" + digest[2:] + digest[2:] + "00",
	}
}

func TestStore_CreateAndClose(t *testing.T) {
	dataDir := t.TempDir()
	store, err := Open(dataDir)
	require.NoError(t, err)
	require.NotNil(t, store.db)
	require.NoError(t, store.Close())

	_, err = os.Stat(filepath.Join(dataDir, "history.db"))
	require.NoError(t, err)
}

func TestStore_RecordAndList(t *testing.T) {
	t.Run("lists newest first", func(t *testing.T) {
		store, err := OpenDSN(":memory:")
		require.NoError(t, err)
		t.Cleanup(func() { _ = store.Close() })

		id1, err := store.Record(sampleEntry("0x1111111111111111111111111111111111111111111111111111111111111111"))
		require.NoError(t, err)
		id2, err := store.Record(sampleEntry("0x2222222222222222222222222222222222222222222222222222222222222222"))
		require.NoError(t, err)
		assert.Greater(t, id2, id1)

		entries, err := store.List(10)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, id2, entries[0].ID)
		assert.Equal(t, "0x2222222222222222222222222222222222222222222222222222222222222222", entries[0].Digest)
		assert.Equal(t, "m/44'/60'/0'/0/0", entries[1].Keypath)
		assert.False(t, entries[0].CreatedAt.IsZero())
	})

	t.Run("respects limit", func(t *testing.T) {
		store, err := OpenDSN(":memory:")
		require.NoError(t, err)
		t.Cleanup(func() { _ = store.Close() })

		for i := 0; i < 3; i++ {
			_, err := store.Record(sampleEntry("0x3333333333333333333333333333333333333333333333333333333333333333"))
			require.NoError(t, err)
		}

		entries, err := store.List(2)
		require.NoError(t, err)
		assert.Len(t, entries, 2)
	})

	t.Run("rejects incomplete entry", func(t *testing.T) {
		store, err := OpenDSN(":memory:")
		require.NoError(t, err)
		t.Cleanup(func() { _ = store.Close() })

		_, err = store.Record(Entry{Address: "0xabc"})
		require.Error(t, err)
	})

	t.Run("nil store errors", func(t *testing.T) {
		var store *Store
		_, err := store.List(1)
		require.Error(t, err)
		assert.NoError(t, store.Close())
	})
}
