// Copyright (c) 2024 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import "github.com/vechain/rewardpool/metrics"

var (
	metricStateCommits = metrics.LazyLoadCounter("state_commit_count")
	metricStateChanges = metrics.LazyLoadCounterVec("state_change_count", []string{"type"})
	metricCacheHits    = metrics.LazyLoadCounterVec("state_cache_count", []string{"result"})
)
