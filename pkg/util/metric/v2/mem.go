// Copyright 2023 Matrix Origin
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package v2

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	memMPoolAllocatedSizeGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "mo",
			Subsystem: "mem",
			Name:      "mpool_allocated_size",
			Help:      "Size of mpool have allocated.",
		}, []string{"type", "id"})

	memMPoolAllocCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mo",
			Subsystem: "mem",
			Name:      "mpool_op_total",
			Help:      "Total number of mpool alloc and free operations.",
		}, []string{"type", "id", "op"})

	memMPoolOOMCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mo",
			Subsystem: "mem",
			Name:      "mpool_oom_total",
			Help:      "Total number of mpool allocations rejected by the pool cap.",
		}, []string{"type", "id"})
)

// MPoolMetrics is the per-pool view of the mem metrics.
type MPoolMetrics struct {
	Allocated prometheus.Gauge
	Alloc     prometheus.Counter
	Free      prometheus.Counter
	OOM       prometheus.Counter
}

// NewMPoolMetrics binds the mem metrics to one pool. Tags may repeat, so
// the pool id keeps the series of two pools apart.
func NewMPoolMetrics(tag string, id int64) MPoolMetrics {
	pid := strconv.FormatInt(id, 10)
	return MPoolMetrics{
		Allocated: memMPoolAllocatedSizeGauge.WithLabelValues(tag, pid),
		Alloc:     memMPoolAllocCounter.WithLabelValues(tag, pid, "alloc"),
		Free:      memMPoolAllocCounter.WithLabelValues(tag, pid, "free"),
		OOM:       memMPoolOOMCounter.WithLabelValues(tag, pid),
	}
}

// DeleteMPoolMetrics drops the series of a deleted pool.
func DeleteMPoolMetrics(tag string, id int64) {
	pid := strconv.FormatInt(id, 10)
	memMPoolAllocatedSizeGauge.DeleteLabelValues(tag, pid)
	memMPoolAllocCounter.DeleteLabelValues(tag, pid, "alloc")
	memMPoolAllocCounter.DeleteLabelValues(tag, pid, "free")
	memMPoolOOMCounter.DeleteLabelValues(tag, pid)
}
