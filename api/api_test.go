// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/common/expfmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/rewardpool/api/pool"
	"github.com/vechain/rewardpool/metrics"
	"github.com/vechain/rewardpool/test/testpool"
	"github.com/vechain/rewardpool/thor"
)

func init() {
	metrics.InitializePrometheusMetrics()
}

func newTestPool(t *testing.T) *testpool.Pool {
	p, err := testpool.NewDefault()
	require.NoError(t, err)
	t.Cleanup(func() { p.Close() })
	return p
}

func httpGet(t *testing.T, url string) ([]byte, int) {
	res, err := http.Get(url) //#nosec G107
	require.NoError(t, err)
	r, err := io.ReadAll(res.Body)
	res.Body.Close()
	require.NoError(t, err)
	return r, res.StatusCode
}

func TestMetricsMiddleware(t *testing.T) {
	p := newTestPool(t)

	router := mux.NewRouter()
	pool.New(p.Runtime(), p.Signing(), p.Clock).Mount(router, "/pool")
	router.PathPrefix("/metrics").Handler(metrics.HTTPHandler())
	router.Use(metricsMiddleware)
	ts := httptest.NewServer(router)
	defer ts.Close()

	httpGet(t, ts.URL+"/pool")
	httpGet(t, ts.URL+"/pool")
	_, code := httpGet(t, ts.URL+"/pool/holders/0x")
	assert.Equal(t, http.StatusBadRequest, code)
	_, code = httpGet(t, ts.URL+"/pool/holders/"+thor.Address{}.String())
	assert.Equal(t, http.StatusNotFound, code)

	body, _ := httpGet(t, ts.URL+"/metrics")
	parser := expfmt.TextParser{}
	families, err := parser.TextToMetricFamilies(bytes.NewReader(body))
	require.NoError(t, err)

	family, ok := families["rewardpool_api_request_count"]
	require.True(t, ok)

	counts := make(map[string]float64)
	for _, m := range family.GetMetric() {
		labels := make(map[string]string)
		for _, l := range m.GetLabel() {
			labels[l.GetName()] = l.GetValue()
		}
		assert.Equal(t, http.MethodGet, labels["method"])
		counts[labels["name"]+" "+labels["code"]] = m.GetCounter().GetValue()
	}
	assert.Equal(t, map[string]float64{
		"GET /pool 200":                   2,
		"GET /pool/holders/{address} 400": 1,
		"GET /pool/holders/{address} 404": 1,
	}, counts)

	_, ok = families["rewardpool_api_duration_ms"]
	assert.True(t, ok)
}

func TestNew(t *testing.T) {
	p := newTestPool(t)

	var reqLogger atomic.Bool
	reqLogger.Store(true)
	ts := httptest.NewServer(New(p.Runtime(), Options{
		AllowedOrigins:  "https://example.org, HTTPS://Other.org",
		EnableReqLogger: &reqLogger,
		LogsLimit:       10,
		GenesisID:       p.Genesis().ID(),
		Clock:           p.Clock,
	}))
	defer ts.Close()

	for _, path := range []string{"/pool", "/accounts/" + p.Accounts()[0].Address.String()} {
		body, code := httpGet(t, ts.URL+path)
		assert.Equal(t, http.StatusOK, code, string(body))
	}

	res, err := http.Post(ts.URL+"/logs/event", "application/json", bytes.NewReader([]byte(`{}`)))
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	_, code := httpGet(t, ts.URL+"/unknown")
	assert.Equal(t, http.StatusNotFound, code)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/pool", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://other.org")
	res, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, "https://other.org", res.Header.Get("Access-Control-Allow-Origin"))

	req.Header.Set("Origin", "https://evil.org")
	res, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	res.Body.Close()
	assert.Empty(t, res.Header.Get("Access-Control-Allow-Origin"))
}
