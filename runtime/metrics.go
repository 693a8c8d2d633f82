// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import "github.com/vechain/rewardpool/metrics"

var (
	metricClauseCount    = metrics.LazyLoadCounterVec("runtime_clause_count", []string{"result"})
	metricClauseDuration = metrics.LazyLoadHistogram("runtime_clause_duration_ms", metrics.BucketHTTPReqs)
)
