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
	"unsafe"

	"github.com/matrixorigin/mocontainer/pkg/common/moerr"
)

// SizeOf returns the number of bytes charged for one element of T.
func SizeOf[T any]() int64 {
	var v T
	return int64(unsafe.Sizeof(v))
}

// MakeSlice allocates a zeroed []T with len == cap == n and charges it to mp.
// n == 0 returns nil without touching the pool. A nil mp allocates without
// accounting.
func MakeSlice[T any](mp *MPool, n int) ([]T, error) {
	return makeSlice[T](mp, n, 4)
}

// MakeSliceSkip is MakeSlice for allocation helpers: detail recording
// attributes the bytes to the frame skip levels above the caller.
func MakeSliceSkip[T any](mp *MPool, n int, skip int) ([]T, error) {
	return makeSlice[T](mp, n, 4+skip)
}

func makeSlice[T any](mp *MPool, n int, skip int) ([]T, error) {
	if n < 0 {
		return nil, moerr.NewInvalidInputNoCtx("make slice of %d elements", n)
	}
	if n == 0 {
		return nil, nil
	}
	if mp != nil {
		if err := mp.charge(SizeOf[T]()*int64(n), skip); err != nil {
			return nil, err
		}
	}
	return make([]T, n), nil
}

// FreeSlice uncharges s. s must come from MakeSlice with the same pool.
func FreeSlice[T any](mp *MPool, s []T) {
	freeSlice(mp, s, 4)
}

// FreeSliceSkip is FreeSlice with the same skip rule as MakeSliceSkip.
func FreeSliceSkip[T any](mp *MPool, s []T, skip int) {
	freeSlice(mp, s, 4+skip)
}

func freeSlice[T any](mp *MPool, s []T, skip int) {
	if mp == nil || cap(s) == 0 {
		return
	}
	mp.uncharge(SizeOf[T]()*int64(cap(s)), skip)
}
