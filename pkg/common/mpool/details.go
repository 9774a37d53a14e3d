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
	"fmt"
	"path/filepath"
	"runtime"
	"sync"
)

type mpoolDetails struct {
	mu    sync.Mutex
	alloc map[string]int64
	free  map[string]int64
}

func newMpoolDetails() *mpoolDetails {
	return &mpoolDetails{
		alloc: make(map[string]int64),
		free:  make(map[string]int64),
	}
}

func callerKey(skip int) string {
	_, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return "unknown"
	}
	return fmt.Sprintf("%s:%d", filepath.Base(file), line)
}

func (d *mpoolDetails) recordAlloc(nb int64, skip int) {
	key := callerKey(skip)
	d.mu.Lock()
	defer d.mu.Unlock()
	d.alloc[key] += nb
}

func (d *mpoolDetails) recordFree(nb int64, skip int) {
	key := callerKey(skip)
	d.mu.Lock()
	defer d.mu.Unlock()
	d.free[key] += nb
}

func (d *mpoolDetails) snapshot() (alloc, free map[string]int64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	alloc = make(map[string]int64, len(d.alloc))
	for k, v := range d.alloc {
		alloc[k] = v
	}
	free = make(map[string]int64, len(d.free))
	for k, v := range d.free {
		free[k] = v
	}
	return
}

// EnableDetailRecording starts recording bytes per allocating call site.
func (mp *MPool) EnableDetailRecording() {
	mp.details.CompareAndSwap(nil, newMpoolDetails())
}

func (mp *MPool) DisableDetailRecording() {
	mp.details.Store(nil)
}
