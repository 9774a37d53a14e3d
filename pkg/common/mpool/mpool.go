// Copyright 2021 Matrix Origin
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

package mpool

import (
	"context"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v4"
	"go.uber.org/zap"

	"github.com/matrixorigin/mocontainer/pkg/common/moerr"
	"github.com/matrixorigin/mocontainer/pkg/logutil"
	v2 "github.com/matrixorigin/mocontainer/pkg/util/metric/v2"
)

const (
	KB = 1 << 10
	MB = 1 << 20
	GB = 1 << 30
)

const (
	// NoMetrics keeps the pool out of the prometheus mem metrics.
	// Short lived pools use it so they do not leave a label behind.
	NoMetrics = 1 << iota
)

// MPoolStats tracks allocations of a pool. Every field is updated atomically.
type MPoolStats struct {
	NumAlloc      atomic.Int64 // number of allocations
	NumFree       atomic.Int64 // number of frees
	NumAllocBytes atomic.Int64 // number of bytes allocated
	NumFreeBytes  atomic.Int64 // number of bytes freed
	NumCurrBytes  atomic.Int64 // current number of bytes
	HighWaterMark atomic.Int64 // high water mark
}

func (s *MPoolStats) recordAlloc(sz int64) int64 {
	curr := s.NumCurrBytes.Add(sz)
	s.recordBooked(sz, curr)
	return curr
}

// recordBooked updates the counters for sz bytes already added to
// NumCurrBytes, curr being the value right after the add.
func (s *MPoolStats) recordBooked(sz int64, curr int64) {
	s.NumAlloc.Add(1)
	s.NumAllocBytes.Add(sz)
	s.bumpHighWaterMark(curr)
}

func (s *MPoolStats) recordFree(sz int64) int64 {
	s.NumFree.Add(1)
	s.NumFreeBytes.Add(sz)
	return s.NumCurrBytes.Add(-sz)
}

func (s *MPoolStats) bumpHighWaterMark(curr int64) {
	for {
		hw := s.HighWaterMark.Load()
		if curr <= hw || s.HighWaterMark.CompareAndSwap(hw, curr) {
			return
		}
	}
}

// MPool is an accounting allocator. Memory itself comes from the Go heap;
// the pool charges every buffer against its cap and keeps usage stats so
// owners can observe exactly how much they hold.
type MPool struct {
	id      int64
	tag     string
	cap     int64
	flag    int
	deleted atomic.Bool

	stats   MPoolStats
	details atomic.Pointer[mpoolDetails]
	metrics *v2.MPoolMetrics
}

var (
	globalStats MPoolStats
	nextPoolID  atomic.Int64

	globalPools = xsync.NewMap[int64, *MPool]()
)

// NewMPool creates a pool. cap is the max number of bytes the pool may hold
// at once, 0 means unlimited.
func NewMPool(tag string, cap int64, flag int) (*MPool, error) {
	if cap < 0 {
		return nil, moerr.NewInvalidInputNoCtx("mpool %s cap %d", tag, cap)
	}
	mp := &MPool{
		id:   nextPoolID.Add(1),
		tag:  tag,
		cap:  cap,
		flag: flag,
	}
	if flag&NoMetrics == 0 {
		m := v2.NewMPoolMetrics(tag, mp.id)
		mp.metrics = &m
	}

	globalPools.Store(mp.id, mp)

	logutil.Debug("mpool created",
		zap.String("tag", tag),
		zap.Int64("cap", cap),
	)
	return mp, nil
}

// MustNew creates an unlimited pool and panics on failure.
func MustNew(tag string) *MPool {
	mp, err := NewMPool(tag, 0, 0)
	if err != nil {
		panic(err)
	}
	return mp
}

// MustNewZero creates an anonymous unlimited pool, used mostly by tests.
func MustNewZero() *MPool {
	mp, err := NewMPool("must_new_zero_"+uuid.NewString(), 0, NoMetrics)
	if err != nil {
		panic(err)
	}
	return mp
}

// DeleteMPool unregisters mp. Bytes still held are reported as a leak.
func DeleteMPool(mp *MPool) {
	if mp == nil || !mp.deleted.CompareAndSwap(false, true) {
		return
	}

	globalPools.Delete(mp.id)

	if curr := mp.CurrNB(); curr != 0 {
		logutil.Warn("mpool deleted with bytes in use",
			zap.String("tag", mp.tag),
			zap.Int64("bytes", curr),
		)
	}
	if mp.metrics != nil {
		v2.DeleteMPoolMetrics(mp.tag, mp.id)
	}
}

func (mp *MPool) Tag() string {
	return mp.tag
}

func (mp *MPool) Cap() int64 {
	return mp.cap
}

func (mp *MPool) Stats() *MPoolStats {
	return &mp.stats
}

// CurrNB returns the number of bytes the pool currently holds.
func (mp *MPool) CurrNB() int64 {
	return mp.stats.NumCurrBytes.Load()
}

// charge books sz bytes against the pool, failing with ErrOOM when the cap
// would be exceeded. Nothing is booked on failure. skip is handed to detail
// recording and selects the frame the bytes are attributed to.
func (mp *MPool) charge(sz int64, skip int) error {
	if mp.deleted.Load() {
		return moerr.NewInvalidStateNoCtx("mpool %s is deleted", mp.tag)
	}
	var curr int64
	if mp.cap > 0 {
		for {
			curr = mp.stats.NumCurrBytes.Load()
			if curr+sz > mp.cap {
				if mp.metrics != nil {
					mp.metrics.OOM.Inc()
				}
				logutil.Warn("mpool out of memory",
					zap.String("tag", mp.tag),
					zap.Int64("cap", mp.cap),
					zap.Int64("in use", curr),
					zap.Int64("request", sz),
				)
				return moerr.NewOOM(context.TODO())
			}
			if mp.stats.NumCurrBytes.CompareAndSwap(curr, curr+sz) {
				curr += sz
				break
			}
		}
	} else {
		curr = mp.stats.NumCurrBytes.Add(sz)
	}
	mp.stats.recordBooked(sz, curr)
	globalStats.recordAlloc(sz)
	if mp.metrics != nil {
		mp.metrics.Alloc.Inc()
		mp.metrics.Allocated.Add(float64(sz))
	}
	if d := mp.details.Load(); d != nil {
		d.recordAlloc(sz, skip)
	}
	return nil
}

func (mp *MPool) uncharge(sz int64, skip int) {
	mp.stats.recordFree(sz)
	globalStats.recordFree(sz)
	if mp.metrics != nil {
		mp.metrics.Free.Inc()
		mp.metrics.Allocated.Sub(float64(sz))
	}
	if d := mp.details.Load(); d != nil {
		d.recordFree(sz, skip)
	}
}

// Alloc returns a zeroed buffer of exactly sz bytes.
func (mp *MPool) Alloc(sz int) ([]byte, error) {
	if sz < 0 {
		return nil, moerr.NewInvalidInputNoCtx("mpool %s alloc size %d", mp.tag, sz)
	}
	if sz == 0 {
		return nil, nil
	}
	if err := mp.charge(int64(sz), 3); err != nil {
		return nil, err
	}
	return make([]byte, sz), nil
}

// Free returns bs to the pool. bs must come from Alloc or Realloc of mp.
func (mp *MPool) Free(bs []byte) {
	if cap(bs) == 0 {
		return
	}
	mp.uncharge(int64(cap(bs)), 3)
}

// Realloc grows old to sz bytes, keeping its content. The old buffer is
// freed once the copy is done, so both are held at the peak.
func (mp *MPool) Realloc(old []byte, sz int) ([]byte, error) {
	if sz <= cap(old) {
		return old[:sz], nil
	}
	bs, err := mp.Alloc(sz)
	if err != nil {
		return nil, err
	}
	copy(bs, old)
	mp.Free(old)
	return bs, nil
}
