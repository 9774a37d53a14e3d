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
	"encoding/json"
	"strings"
	"testing"

	"github.com/RoaringBitmap/roaring"
	"github.com/golang/mock/gomock"
	"github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/mocontainer/pkg/common/moerr"
	"github.com/matrixorigin/mocontainer/pkg/common/mpool"
	"github.com/matrixorigin/mocontainer/pkg/container/mock_container"
)

func newTestVector(t *testing.T, vals ...int64) (*Vector[int64], *mpool.MPool) {
	mp := mpool.MustNewZero()
	t.Cleanup(func() { mpool.DeleteMPool(mp) })
	v := New[int64](&Options{Allocator: mp})
	for _, val := range vals {
		v.Append(val)
	}
	return v, mp
}

func values[T comparable](v *Vector[T]) []T {
	vals := make([]T, v.Size())
	for i := range vals {
		vals[i] = v.MustAt(i)
	}
	return vals
}

// every buffer is exactly Size() long and is all the pool is charged for
func checkExact(t *testing.T, v *Vector[int64], mp *mpool.MPool) {
	t.Helper()
	require.Equal(t, v.Size(), v.Capacity())
	require.Equal(t, int64(v.Size()*8), mp.CurrNB())
	require.Equal(t, v.Size()*8, v.Allocated())
	if v.IsEmpty() {
		require.Nil(t, v.data)
	}
}

func TestVectorScenario(t *testing.T) {
	convey.Convey("vector operations in sequence", t, func() {
		v, mp := newTestVector(t)
		convey.So(v.IsEmpty(), convey.ShouldBeTrue)

		v.Append(10)
		v.Append(20)
		v.Append(30)
		convey.So(values(v), convey.ShouldResemble, []int64{10, 20, 30})

		convey.So(v.Insert(1, 99), convey.ShouldBeTrue)
		convey.So(values(v), convey.ShouldResemble, []int64{10, 99, 20, 30})

		convey.So(v.Remove(0), convey.ShouldBeTrue)
		convey.So(values(v), convey.ShouldResemble, []int64{99, 20, 30})

		convey.So(v.Replace(1, 5), convey.ShouldBeTrue)
		convey.So(values(v), convey.ShouldResemble, []int64{99, 5, 30})

		convey.So(v.IndexOf(5, 0), convey.ShouldEqual, 1)
		convey.So(mp.CurrNB(), convey.ShouldEqual, int64(24))

		v.Clear()
		convey.So(v.Size(), convey.ShouldEqual, 0)
		convey.So(v.IsEmpty(), convey.ShouldBeTrue)
		convey.So(mp.CurrNB(), convey.ShouldEqual, int64(0))
	})
}

func TestNew(t *testing.T) {
	v := New[int64]()
	require.Zero(t, v.Size())
	require.Zero(t, v.Capacity())
	require.True(t, v.IsEmpty())
	require.Nil(t, v.GetAllocator())
	require.Equal(t, "[]", v.String())

	// a vector without an allocator still works
	v.Append(1)
	v.Append(2)
	require.Equal(t, []int64{1, 2}, values(v))
	require.Equal(t, 2, v.Capacity())

	v2 := New[string](nil)
	require.True(t, v2.IsEmpty())
}

func TestAt(t *testing.T) {
	v, _ := newTestVector(t, 10, 20, 30)

	val, err := v.At(2)
	require.NoError(t, err)
	require.Equal(t, int64(30), val)

	for _, idx := range []int{-1, 3, 100} {
		val, err = v.At(idx)
		require.True(t, moerr.IsMoErrCode(err, moerr.ErrOutOfRange), "index %d", idx)
		require.Zero(t, val)
	}

	empty := New[int64]()
	_, err = empty.At(0)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrOutOfRange))

	require.Equal(t, int64(10), v.MustAt(0))
	require.Panics(t, func() { v.MustAt(3) })
	require.Panics(t, func() { empty.MustAt(0) })
}

func TestInsert(t *testing.T) {
	v, mp := newTestVector(t)

	require.True(t, v.Insert(0, 1))
	checkExact(t, v, mp)
	// insert at size appends
	require.True(t, v.Insert(1, 3))
	require.True(t, v.Insert(1, 2))
	require.True(t, v.Insert(0, 0))
	require.Equal(t, []int64{0, 1, 2, 3}, values(v))
	checkExact(t, v, mp)

	nalloc := mp.Stats().NumAlloc.Load()
	require.False(t, v.Insert(-1, 9))
	require.False(t, v.Insert(5, 9))
	require.Equal(t, []int64{0, 1, 2, 3}, values(v))
	require.Equal(t, nalloc, mp.Stats().NumAlloc.Load(), "rejected insert must not allocate")

	e := New[int64]()
	require.False(t, e.Insert(1, 1))
	require.True(t, e.IsEmpty())
}

func TestAppend(t *testing.T) {
	v, mp := newTestVector(t)
	for i := int64(0); i < 100; i++ {
		v.Append(i)
		require.Equal(t, int(i+1), v.Size())
		require.Equal(t, i, v.MustAt(int(i)))
		checkExact(t, v, mp)
	}
	// one allocation per append, every old buffer given back
	require.Equal(t, int64(100), mp.Stats().NumAlloc.Load())
	require.Equal(t, int64(99), mp.Stats().NumFree.Load())
}

func TestRemove(t *testing.T) {
	v, mp := newTestVector(t, 1, 2, 3, 4)

	require.True(t, v.Remove(3))
	require.Equal(t, []int64{1, 2, 3}, values(v))
	require.True(t, v.Remove(1))
	require.Equal(t, []int64{1, 3}, values(v))
	checkExact(t, v, mp)

	require.False(t, v.Remove(2))
	require.False(t, v.Remove(-1))
	require.Equal(t, []int64{1, 3}, values(v))

	require.True(t, v.Remove(0))
	require.True(t, v.Remove(0))
	require.True(t, v.IsEmpty())
	checkExact(t, v, mp)

	require.False(t, v.Remove(0))
}

func TestRemoveBatch(t *testing.T) {
	v, mp := newTestVector(t, 0, 1, 2, 3, 4, 5)

	require.Zero(t, v.RemoveBatch(nil))
	require.Zero(t, v.RemoveBatch(roaring.New()))

	nalloc := mp.Stats().NumAlloc.Load()
	require.Zero(t, v.RemoveBatch(roaring.BitmapOf(6, 100)))
	require.Equal(t, nalloc, mp.Stats().NumAlloc.Load())

	require.Equal(t, 3, v.RemoveBatch(roaring.BitmapOf(0, 2, 5, 6, 42)))
	require.Equal(t, []int64{1, 3, 4}, values(v))
	require.Equal(t, nalloc+1, mp.Stats().NumAlloc.Load())
	checkExact(t, v, mp)

	require.Equal(t, 3, v.RemoveBatch(roaring.BitmapOf(0, 1, 2)))
	require.True(t, v.IsEmpty())
	checkExact(t, v, mp)

	require.Zero(t, v.RemoveBatch(roaring.BitmapOf(0)))
}

func TestReplace(t *testing.T) {
	v, mp := newTestVector(t, 7, 8, 9)

	nalloc := mp.Stats().NumAlloc.Load()
	require.True(t, v.Replace(0, 70))
	require.True(t, v.Replace(2, 90))
	require.Equal(t, []int64{70, 8, 90}, values(v))
	require.Equal(t, nalloc, mp.Stats().NumAlloc.Load(), "replace is in place")

	require.False(t, v.Replace(3, 1))
	require.False(t, v.Replace(-1, 1))
	require.Equal(t, []int64{70, 8, 90}, values(v))
}

func TestClear(t *testing.T) {
	v, mp := newTestVector(t, 1, 2, 3)
	v.Clear()
	require.True(t, v.IsEmpty())
	checkExact(t, v, mp)

	// clearing an empty vector is harmless, and the vector stays usable
	v.Clear()
	v.Append(4)
	require.Equal(t, []int64{4}, values(v))
}

func TestCopy(t *testing.T) {
	src, mp := newTestVector(t, 1, 2, 3)
	dst := New[int64](&Options{Allocator: mp})
	dst.Append(42)

	require.NoError(t, dst.Copy(src))
	require.Equal(t, []int64{1, 2, 3}, values(dst))
	require.Equal(t, 3, dst.Capacity())
	require.Equal(t, int64(6*8), mp.CurrNB())

	// deep copy, the two vectors do not share storage
	dst.Replace(0, 100)
	src.Remove(2)
	require.Equal(t, []int64{100, 2, 3}, values(dst))
	require.Equal(t, []int64{1, 2}, values(src))

	// self copy is a no-op
	nalloc := mp.Stats().NumAlloc.Load()
	require.NoError(t, dst.Copy(dst))
	require.Equal(t, []int64{100, 2, 3}, values(dst))
	require.Equal(t, nalloc, mp.Stats().NumAlloc.Load())

	require.NoError(t, dst.Copy(New[int64]()))
	require.True(t, dst.IsEmpty())
	require.Nil(t, dst.data)
}

func TestCopyFromReader(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	src := mock_container.NewMockContainer[int64](ctrl)
	src.EXPECT().Size().Return(3).AnyTimes()
	src.EXPECT().At(0).Return(int64(5), nil)
	src.EXPECT().At(1).Return(int64(6), nil)
	src.EXPECT().At(2).Return(int64(7), nil)

	v, mp := newTestVector(t, 1)
	require.NoError(t, v.Copy(src))
	require.Equal(t, []int64{5, 6, 7}, values(v))
	checkExact(t, v, mp)
}

func TestCopyError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	src := mock_container.NewMockReader[int64](ctrl)
	src.EXPECT().Size().Return(3).AnyTimes()
	src.EXPECT().At(0).Return(int64(5), nil).Times(2)
	src.EXPECT().At(1).Return(int64(0), moerr.NewOutOfRangeNoCtx("mock", "index %d", 1)).Times(2)

	v, mp := newTestVector(t, 1, 2)
	err := v.Copy(src)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrOutOfRange))
	require.Equal(t, []int64{1, 2}, values(v), "failed copy leaves the receiver unchanged")
	checkExact(t, v, mp)

	_, err = NewFrom[int64](src, &Options{Allocator: mp})
	require.Error(t, err)
}

func TestNewFromAndAssign(t *testing.T) {
	src, mp := newTestVector(t, 3, 1, 4)

	v, err := NewFrom[int64](src, &Options{Allocator: mp})
	require.NoError(t, err)
	require.Equal(t, values(src), values(v))
	require.Equal(t, mp, v.GetAllocator())

	w := New[int64](&Options{Allocator: mp})
	w.Append(9)
	got, err := w.Assign(src)
	require.NoError(t, err)
	require.Same(t, w, got)
	require.Equal(t, []int64{3, 1, 4}, values(w))

	// chained assignment
	x := New[int64](&Options{Allocator: mp})
	_, err = x.Assign(w)
	require.NoError(t, err)
	require.Equal(t, []int64{3, 1, 4}, values(x))

	got, err = w.Assign(w)
	require.NoError(t, err)
	require.Same(t, w, got)
	require.Equal(t, []int64{3, 1, 4}, values(w))
}

func TestExtend(t *testing.T) {
	v, mp := newTestVector(t, 1, 2)
	o := New[int64](&Options{Allocator: mp})
	o.Append(3)
	o.Append(4)

	nalloc := mp.Stats().NumAlloc.Load()
	require.NoError(t, v.Extend(o))
	require.Equal(t, []int64{1, 2, 3, 4}, values(v))
	require.Equal(t, []int64{3, 4}, values(o))
	require.Equal(t, nalloc+1, mp.Stats().NumAlloc.Load(), "extend reallocates once")

	// extending by itself doubles the content
	require.NoError(t, v.Extend(v))
	require.Equal(t, []int64{1, 2, 3, 4, 1, 2, 3, 4}, values(v))
	require.Equal(t, 8, v.Capacity())

	nalloc = mp.Stats().NumAlloc.Load()
	require.NoError(t, v.Extend(New[int64]()))
	require.Equal(t, 8, v.Size())
	require.Equal(t, nalloc, mp.Stats().NumAlloc.Load())

	e := New[int64](&Options{Allocator: mp})
	require.NoError(t, e.Extend(e))
	require.True(t, e.IsEmpty())
}

func TestExtendFromReader(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	src := mock_container.NewMockReader[int64](ctrl)
	src.EXPECT().Size().Return(2).AnyTimes()
	src.EXPECT().At(0).Return(int64(8), nil)
	src.EXPECT().At(1).Return(int64(9), nil)

	v, mp := newTestVector(t, 7)
	require.NoError(t, v.Extend(src))
	require.Equal(t, []int64{7, 8, 9}, values(v))
	checkExact(t, v, mp)

	bad := mock_container.NewMockReader[int64](ctrl)
	bad.EXPECT().Size().Return(2).AnyTimes()
	bad.EXPECT().At(0).Return(int64(0), moerr.NewInvalidStateNoCtx("gone"))
	err := v.Extend(bad)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidState))
	require.Equal(t, []int64{7, 8, 9}, values(v))
	checkExact(t, v, mp)
}

func TestIndexOf(t *testing.T) {
	v, _ := newTestVector(t, 1, 2, 1)

	cases := []struct {
		value int64
		from  int
		want  int
	}{
		{1, 0, 0},
		{1, 1, 2},
		{1, 2, 2},
		{1, 3, -1},
		{1, 100, -1},
		{1, -5, 0},
		{2, 0, 1},
		{2, 2, -1},
		{3, 0, -1},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, v.IndexOf(c.value, c.from), "IndexOf(%d, %d)", c.value, c.from)
	}

	require.Equal(t, -1, New[int64]().IndexOf(1, 0))
}

func TestOOM(t *testing.T) {
	mp, err := mpool.NewMPool("test-vector-oom", 24, mpool.NoMetrics)
	require.NoError(t, err)
	defer mpool.DeleteMPool(mp)

	v := New[int64](&Options{Allocator: mp})
	v.Append(1)
	// the new buffer is allocated before the old one is freed: 8 + 16 bytes
	v.Append(2)
	require.Equal(t, int64(16), mp.CurrNB())

	defer func() {
		r := recover()
		err, ok := r.(error)
		require.True(t, ok, "expected an error panic, got %v", r)
		require.True(t, moerr.IsMoErrCode(err, moerr.ErrOOM))
		// the vector survives the failed append
		require.Equal(t, []int64{1, 2}, values(v))
		require.Equal(t, int64(16), mp.CurrNB())
	}()
	v.Append(3)
	t.Fatal("append over the pool cap must panic")
}

func TestStructElements(t *testing.T) {
	type point struct {
		x, y int32
	}
	mp := mpool.MustNewZero()
	defer mpool.DeleteMPool(mp)

	v := New[point](&Options{Allocator: mp})
	v.Append(point{1, 2})
	v.Append(point{3, 4})
	require.Equal(t, 1, v.IndexOf(point{3, 4}, 0))
	require.Equal(t, int64(16), mp.CurrNB())
	require.Equal(t, "[{1 2} {3 4}]", v.String())

	v.Clear()
	require.Zero(t, mp.CurrNB())
}

func TestString(t *testing.T) {
	v, _ := newTestVector(t, 1, 2, 3)
	require.Equal(t, "[1 2 3]", v.String())

	s := New[string]()
	s.Append("a")
	s.Append("b")
	require.Equal(t, "[a b]", s.String())
}

func BenchmarkAppend(b *testing.B) {
	mp := mpool.MustNewZero()
	defer mpool.DeleteMPool(mp)
	for i := 0; i < b.N; i++ {
		v := New[int64](&Options{Allocator: mp})
		for j := int64(0); j < 64; j++ {
			v.Append(j)
		}
		v.Clear()
	}
}

func TestInsertRemoveRoundTrip(t *testing.T) {
	v, mp := newTestVector(t, 4, 5, 6)
	for i := 0; i <= 3; i++ {
		require.True(t, v.Insert(i, 100))
		require.Equal(t, 4, v.Size())
		require.Equal(t, int64(100), v.MustAt(i))
		require.True(t, v.Remove(i))
		require.Equal(t, []int64{4, 5, 6}, values(v), "index %d", i)
		checkExact(t, v, mp)
	}
}

func TestAtAfterClear(t *testing.T) {
	v, _ := newTestVector(t, 1, 2, 3)
	v.Clear()
	for _, idx := range []int{0, 1, 2} {
		_, err := v.At(idx)
		require.True(t, moerr.IsMoErrCode(err, moerr.ErrOutOfRange), "index %d", idx)
	}
	require.Panics(t, func() { v.MustAt(0) })
}

func TestAllocationSites(t *testing.T) {
	mp, err := mpool.NewMPool("test-vector-sites", 0, mpool.NoMetrics)
	require.NoError(t, err)
	defer mpool.DeleteMPool(mp)
	mp.EnableDetailRecording()

	src := New[int64]()
	src.Append(1)
	v := New[int64](&Options{Allocator: mp})
	v.Append(1)
	require.NoError(t, v.Copy(src))

	var reports []struct {
		Tag   string           `json:"tag"`
		Alloc map[string]int64 `json:"detail_alloc"`
	}
	require.NoError(t, json.Unmarshal([]byte(mpool.ReportMemUsage("test-vector-sites")), &reports))
	require.Equal(t, 1, len(reports))

	// Insert and Copy are told apart, not folded into one helper line
	sites := 0
	for site := range reports[0].Alloc {
		if strings.HasPrefix(site, "vector.go:") {
			sites++
		}
	}
	require.Equal(t, 2, sites)
	v.Clear()
}
