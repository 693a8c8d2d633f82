// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

//go:build linux

package metrics

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/procfs"
)

// ioCollector exports the storage I/O counters of the process, which the
// default process collector does not cover.
type ioCollector struct {
	fs         procfs.FS
	syscR      *prometheus.Desc
	syscW      *prometheus.Desc
	readBytes  *prometheus.Desc
	writeBytes *prometheus.Desc
}

func newIOCollector(fs procfs.FS) *ioCollector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "process", name), help, nil, nil)
	}
	return &ioCollector{
		fs:         fs,
		syscR:      desc("read_syscalls_total", "Total number of read syscalls."),
		syscW:      desc("write_syscalls_total", "Total number of write syscalls."),
		readBytes:  desc("read_bytes_total", "Total number of bytes read from the storage layer."),
		writeBytes: desc("write_bytes_total", "Total number of bytes written to the storage layer."),
	}
}

// Describe implements prometheus.Collector.
func (c *ioCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.syscR
	ch <- c.syscW
	ch <- c.readBytes
	ch <- c.writeBytes
}

// Collect implements prometheus.Collector.
func (c *ioCollector) Collect(ch chan<- prometheus.Metric) {
	proc, err := c.fs.Self()
	if err != nil {
		logger.Debug("unable to open process stats", "err", err)
		return
	}
	stats, err := proc.IO()
	if err != nil {
		logger.Debug("unable to read io stats", "err", err)
		return
	}
	ch <- prometheus.MustNewConstMetric(c.syscR, prometheus.CounterValue, float64(stats.SyscR))
	ch <- prometheus.MustNewConstMetric(c.syscW, prometheus.CounterValue, float64(stats.SyscW))
	ch <- prometheus.MustNewConstMetric(c.readBytes, prometheus.CounterValue, float64(stats.ReadBytes))
	ch <- prometheus.MustNewConstMetric(c.writeBytes, prometheus.CounterValue, float64(stats.WriteBytes))
}

var registered atomic.Bool

func registerIOCollector() {
	if !registered.CompareAndSwap(false, true) {
		return
	}
	fs, err := procfs.NewDefaultFS()
	if err != nil {
		logger.Warn("unable to open procfs", "err", err)
		return
	}
	register(newIOCollector(fs))
}
