// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/vechain/rewardpool/log"
)

// mockLogger is a simple logger implementation for testing purposes
type mockLogger struct {
	loggedData []any
}

func (m *mockLogger) With(_ ...any) log.Logger { return m }

func (m *mockLogger) New(_ ...any) log.Logger { return m }

func (m *mockLogger) Trace(_ string, _ ...any) {}

func (m *mockLogger) Debug(_ string, _ ...any) {}

func (m *mockLogger) Info(_ string, ctx ...any) {
	m.loggedData = append(m.loggedData, ctx...)
}

func (m *mockLogger) Warn(_ string, ctx ...any) {
	m.loggedData = append(m.loggedData, ctx...)
}

func (m *mockLogger) Error(_ string, _ ...any) {}

func (m *mockLogger) Crit(_ string, _ ...any) {}

func (m *mockLogger) Enabled(_ context.Context, _ slog.Level) bool { return true }

func (m *mockLogger) Handler() slog.Handler { return nil }

func (m *mockLogger) value(key string) (any, bool) {
	for i := 0; i+1 < len(m.loggedData); i += 2 {
		if m.loggedData[i] == key {
			return m.loggedData[i+1], true
		}
	}
	return nil, false
}

func TestRequestLoggerMiddleware(t *testing.T) {
	fast := func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte("OK"))
	}
	slow := func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(20 * time.Millisecond)
		w.Write([]byte("OK"))
	}

	tests := []struct {
		name      string
		handler   http.HandlerFunc
		enabled   bool
		threshold time.Duration
		shouldLog bool
	}{
		{"enabled", fast, true, 0, true},
		{"disabled", fast, false, 0, false},
		{"disabled, fast under threshold", fast, false, time.Second, false},
		{"disabled, slow over threshold", slow, false, 5 * time.Millisecond, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := &mockLogger{}
			var enabled atomic.Bool
			enabled.Store(tt.enabled)

			handler := RequestLoggerMiddleware(logger, &enabled, tt.threshold)(tt.handler)
			req := httptest.NewRequest(http.MethodPost, "/pool/deposit", strings.NewReader(`{"origin":"0x01"}`))
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, "OK", rr.Body.String())
			if !tt.shouldLog {
				assert.Empty(t, logger.loggedData)
				return
			}
			uri, _ := logger.value("URI")
			assert.Equal(t, "/pool/deposit", uri)
			method, _ := logger.value("Method")
			assert.Equal(t, http.MethodPost, method)
			body, _ := logger.value("Body")
			assert.Equal(t, `{"origin":"0x01"}`, body)
			status, _ := logger.value("Status")
			assert.Equal(t, rr.Code, status)
		})
	}
}

func TestRequestLoggerToggle(t *testing.T) {
	logger := &mockLogger{}
	var enabled atomic.Bool
	handler := RequestLoggerMiddleware(logger, &enabled, time.Hour)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/pool", nil))
	assert.Empty(t, logger.loggedData)

	enabled.Store(true)
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/pool", nil))
	assert.NotEmpty(t, logger.loggedData)
}
