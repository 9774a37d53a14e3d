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

package container

import "github.com/matrixorigin/mocontainer/pkg/common/moerr"

// Reader is the read half of Container. Copy and Extend only need a Reader
// source.
type Reader[T any] interface {
	// At returns a copy of the element at index. An index outside
	// [0, Size()) returns an ErrOutOfRange error.
	At(index int) (T, error)
	// Size returns the number of elements, always >= 0.
	Size() int
}

// Container is the operation set every index addressed container supports.
// Implementations are not safe for concurrent use; wrap them with
// NewSynchronized when they are shared.
type Container[T any] interface {
	Reader[T]
	// Insert places value at index, shifting later elements up by one.
	// index may be Size(), which appends. It returns false and leaves the
	// container untouched if index is outside [0, Size()].
	Insert(index int, value T) bool
	// Remove drops the element at index, shifting later elements down by
	// one. It returns false if index is outside [0, Size()).
	Remove(index int) bool
	// Replace overwrites the element at index. It returns false if index is
	// outside [0, Size()).
	Replace(index int, value T) bool
	// Clear removes every element and releases the backing storage.
	Clear()
	// Copy replaces the content with a deep copy of src, read through
	// src.At. Copying a container into itself is a no-op. On error the
	// receiver is left unchanged.
	Copy(src Reader[T]) error
}

type sliceReader[T any] []T

func (s sliceReader[T]) At(index int) (T, error) {
	if index < 0 || index >= len(s) {
		var v T
		return v, moerr.NewOutOfRangeNoCtx("container", "index %d, size %d", index, len(s))
	}
	return s[index], nil
}

func (s sliceReader[T]) Size() int {
	return len(s)
}
