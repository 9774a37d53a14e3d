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

import (
	"github.com/puzpuzpuz/xsync/v4"
	"go.uber.org/zap"

	"github.com/matrixorigin/mocontainer/pkg/common/moerr"
	"github.com/matrixorigin/mocontainer/pkg/logutil"
)

// Synchronized guards a Container with a reader biased lock. Reads share
// the lock, every mutation takes it exclusively.
type Synchronized[T any] struct {
	mu    *xsync.RBMutex
	inner Container[T]
}

var _ Container[int] = (*Synchronized[int])(nil)

func NewSynchronized[T any](inner Container[T]) *Synchronized[T] {
	return &Synchronized[T]{
		mu:    xsync.NewRBMutex(),
		inner: inner,
	}
}

func (s *Synchronized[T]) At(index int) (T, error) {
	t := s.mu.RLock()
	defer s.mu.RUnlock(t)
	return s.inner.At(index)
}

func (s *Synchronized[T]) Size() int {
	t := s.mu.RLock()
	defer s.mu.RUnlock(t)
	return s.inner.Size()
}

func (s *Synchronized[T]) Insert(index int, value T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.Insert(index, value)
}

func (s *Synchronized[T]) Remove(index int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.Remove(index)
}

func (s *Synchronized[T]) Replace(index int, value T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.Replace(index, value)
}

func (s *Synchronized[T]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inner.Clear()
}

// Copy locks only the receiver. A Synchronized source is snapshotted under
// its own read lock first, so the two locks are never held together.
func (s *Synchronized[T]) Copy(src Reader[T]) error {
	if o, ok := src.(*Synchronized[T]); ok {
		if o == s {
			return nil
		}
		snap, err := snapshot[T](o)
		if err != nil {
			return err
		}
		src = snap
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.Copy(src)
}

// Do runs fn with the write lock held, for multi step updates that must
// be atomic. fn must not call back into s. A panic in fn, such as a vector
// running out of memory, is returned as an error and the lock is released.
func (s *Synchronized[T]) Do(fn func(c Container[T]) error) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() {
		if r := recover(); r != nil {
			me := moerr.ConvertPanicError(moerr.Context(), r)
			logutil.Error("container update panicked",
				zap.Uint16("code", me.ErrorCode()),
				zap.String("error", me.Error()),
				zap.String("stack", me.Detail()),
			)
			err = me
		}
	}()
	return fn(s.inner)
}

func snapshot[T any](s *Synchronized[T]) (Reader[T], error) {
	t := s.mu.RLock()
	defer s.mu.RUnlock(t)
	n := s.inner.Size()
	vals := make(sliceReader[T], n)
	for i := 0; i < n; i++ {
		v, err := s.inner.At(i)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return vals, nil
}
