// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/vechain/rewardpool/api/accounts"
	"github.com/vechain/rewardpool/api/events"
	"github.com/vechain/rewardpool/api/middleware"
	"github.com/vechain/rewardpool/api/pool"
	"github.com/vechain/rewardpool/api/utils"
	"github.com/vechain/rewardpool/log"
	"github.com/vechain/rewardpool/runtime"
	"github.com/vechain/rewardpool/thor"
	"github.com/vechain/rewardpool/tx"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins       string
	EnableReqLogger      *atomic.Bool
	SlowQueriesThreshold time.Duration
	EnableMetrics        bool
	LogsLimit            uint64
	// GenesisID binds request signatures to the served pool.
	GenesisID thor.Bytes32
	// Clock overrides the system time used to execute state changing requests.
	Clock func() uint64
}

// New return api router
func New(rt *runtime.Runtime, opts Options) http.HandlerFunc {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()
	router.MethodNotAllowedHandler = utils.MethodNotAllowedHandler()

	pool.New(rt, tx.NewSigning(opts.GenesisID), opts.Clock).
		Mount(router, "/pool")
	accounts.New(rt, opts.Clock).
		Mount(router, "/accounts")
	if logDB := rt.LogDB(); logDB != nil {
		events.New(logDB, opts.LogsLimit).
			Mount(router, "/logs/event")
	}

	if opts.EnableMetrics {
		router.Use(metricsMiddleware)
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type"}),
	)(handler)

	if opts.EnableReqLogger != nil {
		handler = middleware.RequestLoggerMiddleware(logger, opts.EnableReqLogger, opts.SlowQueriesThreshold)(handler)
	}

	return handler.ServeHTTP
}
