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

package vector

import (
	"fmt"

	"github.com/RoaringBitmap/roaring"
	"go.uber.org/zap"

	"github.com/matrixorigin/mocontainer/pkg/common/moerr"
	"github.com/matrixorigin/mocontainer/pkg/common/mpool"
	"github.com/matrixorigin/mocontainer/pkg/container"
	"github.com/matrixorigin/mocontainer/pkg/logutil"
)

// Options of a vector.
type Options struct {
	// Allocator is charged for every buffer of the vector. nil allocates
	// from the heap without accounting.
	Allocator *mpool.MPool
}

// Vector is a contiguous array that owns its buffer. The buffer always holds
// exactly Size() elements: every structural change allocates a new buffer of
// the new size, copies the survivors and frees the old one. The buffer is nil
// iff the vector is empty.
type Vector[T comparable] struct {
	data []T
	mp   *mpool.MPool
}

var _ container.Container[int] = (*Vector[int])(nil)

func New[T comparable](opts ...*Options) *Vector[T] {
	v := &Vector[T]{}
	if len(opts) > 0 && opts[0] != nil {
		v.mp = opts[0].Allocator
	}
	return v
}

// NewFrom returns a deep copy of src.
func NewFrom[T comparable](src container.Reader[T], opts ...*Options) (*Vector[T], error) {
	v := New[T](opts...)
	if err := v.Copy(src); err != nil {
		return nil, err
	}
	return v, nil
}

// alloc returns a buffer of exactly n elements. Running out of memory is
// not recoverable for a vector, so it panics with the ErrOOM error.
// Pool details attribute the bytes to the operation calling alloc.
func (v *Vector[T]) alloc(n int) []T {
	buf, err := mpool.MakeSliceSkip[T](v.mp, n, 1)
	if err != nil {
		logutil.Error("vector buffer allocation failed",
			zap.Int("elements", n),
			zap.Int64("element size", mpool.SizeOf[T]()),
			zap.Error(err),
		)
		panic(err)
	}
	return buf
}

func (v *Vector[T]) install(buf []T) {
	mpool.FreeSliceSkip(v.mp, v.data, 1)
	v.data = buf
}

func (v *Vector[T]) outOfRange(index int) error {
	return moerr.NewOutOfRangeNoCtx("vector", "index %d, size %d", index, len(v.data))
}

func (v *Vector[T]) At(index int) (T, error) {
	if index < 0 || index >= len(v.data) {
		var zero T
		return zero, v.outOfRange(index)
	}
	return v.data[index], nil
}

// MustAt is At that panics with the ErrOutOfRange error.
func (v *Vector[T]) MustAt(index int) T {
	if index < 0 || index >= len(v.data) {
		panic(v.outOfRange(index))
	}
	return v.data[index]
}

func (v *Vector[T]) Size() int {
	return len(v.data)
}

func (v *Vector[T]) IsEmpty() bool {
	return len(v.data) == 0
}

// Capacity is the length of the backing buffer. It always equals Size().
func (v *Vector[T]) Capacity() int {
	return cap(v.data)
}

// Allocated is the number of bytes held by the buffer, which is what the
// allocator is charged for this vector.
func (v *Vector[T]) Allocated() int {
	return int(mpool.SizeOf[T]()) * cap(v.data)
}

func (v *Vector[T]) GetAllocator() *mpool.MPool {
	return v.mp
}

func (v *Vector[T]) Insert(index int, value T) bool {
	n := len(v.data)
	if index < 0 || index > n {
		return false
	}
	buf := v.alloc(n + 1)
	copy(buf, v.data[:index])
	buf[index] = value
	copy(buf[index+1:], v.data[index:])
	v.install(buf)
	return true
}

// Append adds value at the end.
func (v *Vector[T]) Append(value T) {
	v.Insert(len(v.data), value)
}

// Extend appends every element of o, in order, with a single reallocation.
// Extending a vector by itself doubles it.
func (v *Vector[T]) Extend(o container.Reader[T]) error {
	n := len(v.data)
	m := o.Size()
	if m == 0 {
		return nil
	}
	buf := v.alloc(n + m)
	copy(buf, v.data)
	if ov, ok := o.(*Vector[T]); ok {
		copy(buf[n:], ov.data)
	} else {
		for i := 0; i < m; i++ {
			val, err := o.At(i)
			if err != nil {
				mpool.FreeSlice(v.mp, buf)
				return err
			}
			buf[n+i] = val
		}
	}
	v.install(buf)
	return nil
}

// Replace overwrites the element at index in place.
func (v *Vector[T]) Replace(index int, value T) bool {
	if index < 0 || index >= len(v.data) {
		return false
	}
	v.data[index] = value
	return true
}

func (v *Vector[T]) Remove(index int) bool {
	n := len(v.data)
	if index < 0 || index >= n {
		return false
	}
	buf := v.alloc(n - 1)
	copy(buf, v.data[:index])
	copy(buf[index:], v.data[index+1:])
	v.install(buf)
	return true
}

// RemoveBatch removes every row of rows that is a valid index, with a single
// reallocation. Rows out of range are ignored. It returns the number of
// removed elements.
func (v *Vector[T]) RemoveBatch(rows *roaring.Bitmap) int {
	n := len(v.data)
	if rows == nil || n == 0 {
		return 0
	}
	removed := int(rows.Rank(uint32(n - 1)))
	if removed == 0 {
		return 0
	}
	buf := v.alloc(n - removed)
	j := 0
	for i, val := range v.data {
		if rows.Contains(uint32(i)) {
			continue
		}
		buf[j] = val
		j++
	}
	v.install(buf)
	return removed
}

func (v *Vector[T]) Clear() {
	v.install(nil)
}

// Copy replaces the content with a deep copy of src.
func (v *Vector[T]) Copy(src container.Reader[T]) error {
	if ov, ok := src.(*Vector[T]); ok {
		if ov == v {
			return nil
		}
		buf := v.alloc(len(ov.data))
		copy(buf, ov.data)
		v.install(buf)
		return nil
	}
	n := src.Size()
	buf := v.alloc(n)
	for i := 0; i < n; i++ {
		val, err := src.At(i)
		if err != nil {
			mpool.FreeSlice(v.mp, buf)
			return err
		}
		buf[i] = val
	}
	v.install(buf)
	return nil
}

// Assign is Copy returning the receiver, for chained use.
func (v *Vector[T]) Assign(src container.Reader[T]) (*Vector[T], error) {
	if err := v.Copy(src); err != nil {
		return v, err
	}
	return v, nil
}

// IndexOf returns the first index >= from holding value, or -1. A from at or
// past the end finds nothing; a negative from scans from the start.
func (v *Vector[T]) IndexOf(value T, from int) int {
	if from < 0 {
		from = 0
	}
	for i := from; i < len(v.data); i++ {
		if v.data[i] == value {
			return i
		}
	}
	return -1
}

func (v *Vector[T]) String() string {
	return fmt.Sprint(v.data)
}
