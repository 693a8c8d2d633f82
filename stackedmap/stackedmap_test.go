// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stackedmap_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vechain/rewardpool/stackedmap"
)

func TestStackedMap(t *testing.T) {
	src := map[string]string{"foo": "bar"}

	sm := stackedmap.New(func(key string) (string, bool, error) {
		v, ok := src[key]
		return v, ok, nil
	})

	get := func(key string) string {
		v, ok, err := sm.Get(key)
		assert.NoError(t, err)
		assert.True(t, ok)
		return v
	}

	tests := []struct {
		f        func()
		depth    int
		putKey   string
		putValue string
		getKey   string
		want     string
	}{
		{func() {}, 0, "", "", "foo", "bar"},
		{func() { sm.Push() }, 1, "foo", "baz", "foo", "baz"},
		{func() {}, 1, "foo", "baz1", "foo", "baz1"},
		{func() { sm.Push() }, 2, "foo", "qux", "foo", "qux"},
		{func() { sm.Pop() }, 1, "", "", "foo", "baz1"},
		{func() { sm.Pop() }, 0, "", "", "foo", "bar"},
		{func() { sm.Push(); sm.Push() }, 2, "", "", "", ""},
		{func() { sm.PopTo(0) }, 0, "", "", "", ""},
	}

	for _, test := range tests {
		test.f()
		assert.Equal(t, test.depth, sm.Depth())
		if test.putKey != "" {
			sm.Put(test.putKey, test.putValue)
		}
		if test.getKey != "" {
			assert.Equal(t, test.want, get(test.getKey))
		}
	}
}

func TestStackedMapSourceError(t *testing.T) {
	boom := errors.New("boom")
	sm := stackedmap.New(func(key int) (int, bool, error) {
		return 0, false, boom
	})
	_, _, err := sm.Get(1)
	assert.ErrorIs(t, err, boom)

	sm.Push()
	sm.Put(1, 10)
	v, ok, err := sm.Get(1)
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 10, v)
}

func TestStackedMapPuts(t *testing.T) {
	sm := stackedmap.New(func(key string) (string, bool, error) {
		return "", false, nil
	})

	kvs := []struct {
		k, v string
	}{
		{"a", "b"},
		{"a", "b"},
		{"a1", "b1"},
		{"a2", "b2"},
		{"a3", "b3"},
		{"a4", "b4"},
	}

	for _, kv := range kvs {
		sm.Push()
		sm.Put(kv.k, kv.v)
	}
	i := 0
	sm.Journal(func(k, v string) bool {
		assert.Equal(t, kvs[i].k, k)
		assert.Equal(t, kvs[i].v, v)
		i++
		return true
	})
	assert.Equal(t, len(kvs), i)

	i = 0
	sm.Journal(func(k, v string) bool {
		i++
		return false
	})
	assert.Equal(t, 1, i, "Journal traverse should abort")

	sm.PopTo(2)
	i = 0
	sm.Journal(func(k, v string) bool {
		i++
		return true
	})
	assert.Equal(t, 2, i)
}

func TestStackedMapRepeatedPutSameLevel(t *testing.T) {
	sm := stackedmap.New(func(key string) (string, bool, error) {
		return "", false, nil
	})
	sm.Push()
	sm.Put("k", "v1")
	sm.Push()
	sm.Put("k", "v2")
	sm.Put("k", "v3")
	sm.Pop()

	v, ok, err := sm.Get("k")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v1", v)

	sm.Pop()
	_, ok, _ = sm.Get("k")
	assert.False(t, ok)
}
