// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dto "github.com/prometheus/client_model/go"
)

func gather(t *testing.T) map[string]*dto.MetricFamily {
	metricFamilies, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	families := make(map[string]*dto.MetricFamily)
	for _, mf := range metricFamilies {
		families[mf.GetName()] = mf
	}
	return families
}

func TestNoopMetrics(t *testing.T) {
	metrics = defaultNoopMetrics()
	assert.True(t, NoOp())

	for _, m := range []any{
		Gauge("noopGauge"),
		GaugeVec("noopGaugeVec", nil),
		Counter("noopCounter"),
		CounterVec("noopCounterVec", nil),
		Histogram("noopHist", nil),
		HistogramVec("noopHistVec", nil, nil),
	} {
		require.IsType(t, &noopMeters{}, m)
	}
	Counter("noopCounter").Add(1)
	CounterVec("noopCounterVec", []string{"kind"}).AddWithLabel(1, map[string]string{"kind": "any"})

	server := httptest.NewServer(HTTPHandler())
	defer server.Close()

	resp, err := http.Get(server.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPromMetrics(t *testing.T) {
	metrics = defaultNoopMetrics()
	lazyCounter := LazyLoadCounter("lazy_counter")
	lazyGaugeVec := LazyLoadGaugeVec("lazy_gauge_vec", []string{"kind"})

	InitializePrometheusMetrics()
	assert.False(t, NoOp())

	// a second init keeps the registered meters
	count := Counter("test_count")
	InitializePrometheusMetrics()
	assert.Same(t, count, Counter("test_count"))

	require.IsType(t, &promCountMeter{}, lazyCounter())
	require.IsType(t, &promGaugeVecMeter{}, lazyGaugeVec())

	countVec := CounterVec("test_count_vec", []string{"parity"})
	hist := Histogram("test_hist", []int64{0, 10, 100})
	gauge := Gauge("test_gauge")

	count.Add(3)
	sum := 0
	for i := range 10 {
		countVec.AddWithLabel(int64(i), map[string]string{"parity": strconv.Itoa(i % 2)})
		hist.Observe(int64(i))
		sum += i
	}
	gauge.Set(42)
	gauge.Add(-2)
	lazyGaugeVec().SetWithLabel(7, map[string]string{"kind": "a"})

	families := gather(t)
	assert.Equal(t, float64(3), families["rewardpool_test_count"].Metric[0].GetCounter().GetValue())
	assert.Equal(t, float64(sum), families["rewardpool_test_hist"].Metric[0].GetHistogram().GetSampleSum())
	assert.Equal(t, float64(40), families["rewardpool_test_gauge"].Metric[0].GetGauge().GetValue())
	assert.Equal(t, float64(7), families["rewardpool_lazy_gauge_vec"].Metric[0].GetGauge().GetValue())

	vec := families["rewardpool_test_count_vec"]
	require.Len(t, vec.Metric, 2)
	assert.Equal(t, float64(sum), vec.Metric[0].GetCounter().GetValue()+vec.Metric[1].GetCounter().GetValue())

	server := httptest.NewServer(HTTPHandler())
	defer server.Close()
	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "rewardpool_test_count 3")
}
