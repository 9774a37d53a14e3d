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
	"encoding/json"
	"sort"
)

type statsReport struct {
	NumAlloc      int64 `json:"num_alloc"`
	NumFree       int64 `json:"num_free"`
	NumAllocBytes int64 `json:"num_alloc_bytes"`
	NumFreeBytes  int64 `json:"num_free_bytes"`
	NumCurrBytes  int64 `json:"num_curr_bytes"`
	HighWaterMark int64 `json:"high_water_mark"`
}

type poolReport struct {
	Tag    string           `json:"tag"`
	Cap    int64            `json:"cap"`
	Stats  statsReport      `json:"stats"`
	Alloc  map[string]int64 `json:"detail_alloc,omitempty"`
	Free   map[string]int64 `json:"detail_free,omitempty"`
	global bool
}

func (s *MPoolStats) report() statsReport {
	return statsReport{
		NumAlloc:      s.NumAlloc.Load(),
		NumFree:       s.NumFree.Load(),
		NumAllocBytes: s.NumAllocBytes.Load(),
		NumFreeBytes:  s.NumFreeBytes.Load(),
		NumCurrBytes:  s.NumCurrBytes.Load(),
		HighWaterMark: s.HighWaterMark.Load(),
	}
}

func (mp *MPool) report() poolReport {
	r := poolReport{
		Tag:   mp.tag,
		Cap:   mp.cap,
		Stats: mp.stats.report(),
	}
	if d := mp.details.Load(); d != nil {
		r.Alloc, r.Free = d.snapshot()
	}
	return r
}

// ReportMemUsage returns a json report. tag "" reports the global stats and
// every registered pool, "global" only the global stats, anything else the
// pools with that tag.
func ReportMemUsage(tag string) string {
	var reports []poolReport
	if tag == "" || tag == "global" {
		reports = append(reports, poolReport{
			Tag:    "global",
			Stats:  globalStats.report(),
			global: true,
		})
	}
	if tag != "global" {
		globalPools.Range(func(_ int64, mp *MPool) bool {
			if tag == "" || mp.tag == tag {
				reports = append(reports, mp.report())
			}
			return true
		})
	}
	sort.SliceStable(reports, func(i, j int) bool {
		if reports[i].global != reports[j].global {
			return reports[i].global
		}
		return reports[i].Tag < reports[j].Tag
	})

	data, err := json.Marshal(reports)
	if err != nil {
		return "[]"
	}
	return string(data)
}
