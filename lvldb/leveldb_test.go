// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lvldb

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/rewardpool/kv"
)

func openAll(t *testing.T) []*LevelDB {
	disk, err := New(filepath.Join(t.TempDir(), "lvldb"), Options{CacheSize: 16, OpenFilesCacheCapacity: 16})
	require.NoError(t, err)
	t.Cleanup(func() { disk.Close() })

	mem, err := NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { mem.Close() })

	return []*LevelDB{disk, mem}
}

func TestLevelDB(t *testing.T) {
	var (
		key        = []byte("123")
		value      = []byte("456")
		inValidKey = []byte("abc")
	)

	for _, db := range openAll(t) {
		require.NoError(t, db.Put(key, value))

		got, err := db.Get(key)
		assert.NoError(t, err)
		assert.Equal(t, value, got)

		has, err := db.Has(key)
		assert.NoError(t, err)
		assert.True(t, has)

		has, err = db.Has(inValidKey)
		assert.NoError(t, err)
		assert.False(t, has)

		require.NoError(t, db.Delete(key))
		_, err = db.Get(key)
		assert.True(t, db.IsNotFound(err))
	}
}

func TestLevelDBBatchAndIterator(t *testing.T) {
	for _, db := range openAll(t) {
		batch := db.NewBatch()
		assert.NoError(t, batch.Put([]byte("s1"), []byte("a")))
		assert.NoError(t, batch.Put([]byte("s2"), []byte("b")))
		assert.NoError(t, batch.Put([]byte("t1"), []byte("c")))
		assert.Equal(t, 3, batch.Len())

		_, err := db.Get([]byte("s1"))
		assert.True(t, db.IsNotFound(err), "batch must not be visible before Write")

		require.NoError(t, batch.Write())

		it := db.NewIterator(kv.Range{From: []byte("s")})
		var keys []string
		for it.Next() {
			keys = append(keys, string(it.Key()))
		}
		it.Release()
		assert.NoError(t, it.Error())
		assert.Equal(t, []string{"s1", "s2"}, keys)
	}
}

func TestReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lvldb")

	db, err := New(path, Options{})
	require.NoError(t, err)
	require.NoError(t, db.Put([]byte("key"), []byte("value")))

	// the directory stays locked while open
	_, err = New(path, Options{})
	assert.Error(t, err)

	require.NoError(t, db.Close())

	db, err = New(path, Options{})
	require.NoError(t, err)
	defer db.Close()

	got, err := db.Get([]byte("key"))
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), got)
}
