// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

//go:build linux

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/procfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIOCollector(t *testing.T) {
	fs, err := procfs.NewDefaultFS()
	require.NoError(t, err)
	proc, err := fs.Self()
	require.NoError(t, err)
	if _, err := proc.IO(); err != nil {
		t.Skip("process io stats unavailable:", err)
	}

	c := newIOCollector(fs)
	assert.Len(t, collect(c), 4)

	registry := prometheus.NewRegistry()
	require.NoError(t, registry.Register(c))
	families, err := registry.Gather()
	require.NoError(t, err)

	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "rewardpool_process_read_bytes_total")
	assert.Contains(t, names, "rewardpool_process_write_syscalls_total")
}

func TestIOCollectorMissingProc(t *testing.T) {
	fs, err := procfs.NewFS(t.TempDir())
	require.NoError(t, err)

	assert.Empty(t, collect(newIOCollector(fs)))
}

func collect(c prometheus.Collector) []prometheus.Metric {
	ch := make(chan prometheus.Metric)
	go func() {
		c.Collect(ch)
		close(ch)
	}()
	var out []prometheus.Metric
	for m := range ch {
		out = append(out, m)
	}
	return out
}
