// Copyright 2026 The flickrtag authors.
// SPDX-License-Identifier: Apache-2.0

package flickrtag

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	tagsProcessedCount = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "flickrtag_tags_processed",
			Help: "Number of tags successfully rewritten.",
		})
	tagsFailedCount = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "flickrtag_tags_failed",
			Help: "Number of tags left unchanged due to parse or lookup failures.",
		})
	cacheHitCount = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "flickrtag_cache_hits",
			Help: "Number of lookups served from cache.",
		})
	lookupErrorCount = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "flickrtag_lookup_errors",
			Help: "Total provider lookup failures.",
		})
	lookupDurationSummary = prometheus.NewSummary(
		prometheus.SummaryOpts{
			Name: "flickrtag_lookup_seconds",
			Help: "Time taken for provider metadata lookups in seconds.",
		})
)

func init() {
	prometheus.MustRegister(tagsProcessedCount)
	prometheus.MustRegister(tagsFailedCount)
	prometheus.MustRegister(cacheHitCount)
	prometheus.MustRegister(lookupErrorCount)
	prometheus.MustRegister(lookupDurationSummary)
}
