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

// Package mock_container holds gomock mocks of the Reader and Container
// interfaces in pkg/container, written by hand for their type parameter.
package mock_container

import (
	reflect "reflect"

	gomock "github.com/golang/mock/gomock"
	container "github.com/matrixorigin/mocontainer/pkg/container"
)

// MockReader is a mock of Reader interface.
type MockReader[T any] struct {
	ctrl     *gomock.Controller
	recorder *MockReaderMockRecorder[T]
}

// MockReaderMockRecorder is the mock recorder for MockReader.
type MockReaderMockRecorder[T any] struct {
	mock *MockReader[T]
}

// NewMockReader creates a new mock instance.
func NewMockReader[T any](ctrl *gomock.Controller) *MockReader[T] {
	mock := &MockReader[T]{ctrl: ctrl}
	mock.recorder = &MockReaderMockRecorder[T]{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockReader[T]) EXPECT() *MockReaderMockRecorder[T] {
	return m.recorder
}

// At mocks base method.
func (m *MockReader[T]) At(index int) (T, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "At", index)
	ret0, _ := ret[0].(T)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// At indicates an expected call of At.
func (mr *MockReaderMockRecorder[T]) At(index interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "At", reflect.TypeOf((*MockReader[T])(nil).At), index)
}

// Size mocks base method.
func (m *MockReader[T]) Size() int {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Size")
	ret0, _ := ret[0].(int)
	return ret0
}

// Size indicates an expected call of Size.
func (mr *MockReaderMockRecorder[T]) Size() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Size", reflect.TypeOf((*MockReader[T])(nil).Size))
}

// MockContainer is a mock of Container interface.
type MockContainer[T any] struct {
	ctrl     *gomock.Controller
	recorder *MockContainerMockRecorder[T]
}

// MockContainerMockRecorder is the mock recorder for MockContainer.
type MockContainerMockRecorder[T any] struct {
	mock *MockContainer[T]
}

// NewMockContainer creates a new mock instance.
func NewMockContainer[T any](ctrl *gomock.Controller) *MockContainer[T] {
	mock := &MockContainer[T]{ctrl: ctrl}
	mock.recorder = &MockContainerMockRecorder[T]{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockContainer[T]) EXPECT() *MockContainerMockRecorder[T] {
	return m.recorder
}

// At mocks base method.
func (m *MockContainer[T]) At(index int) (T, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "At", index)
	ret0, _ := ret[0].(T)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// At indicates an expected call of At.
func (mr *MockContainerMockRecorder[T]) At(index interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "At", reflect.TypeOf((*MockContainer[T])(nil).At), index)
}

// Clear mocks base method.
func (m *MockContainer[T]) Clear() {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "Clear")
}

// Clear indicates an expected call of Clear.
func (mr *MockContainerMockRecorder[T]) Clear() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Clear", reflect.TypeOf((*MockContainer[T])(nil).Clear))
}

// Copy mocks base method.
func (m *MockContainer[T]) Copy(src container.Reader[T]) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Copy", src)
	ret0, _ := ret[0].(error)
	return ret0
}

// Copy indicates an expected call of Copy.
func (mr *MockContainerMockRecorder[T]) Copy(src interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Copy", reflect.TypeOf((*MockContainer[T])(nil).Copy), src)
}

// Insert mocks base method.
func (m *MockContainer[T]) Insert(index int, value T) bool {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Insert", index, value)
	ret0, _ := ret[0].(bool)
	return ret0
}

// Insert indicates an expected call of Insert.
func (mr *MockContainerMockRecorder[T]) Insert(index, value interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Insert", reflect.TypeOf((*MockContainer[T])(nil).Insert), index, value)
}

// Remove mocks base method.
func (m *MockContainer[T]) Remove(index int) bool {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Remove", index)
	ret0, _ := ret[0].(bool)
	return ret0
}

// Remove indicates an expected call of Remove.
func (mr *MockContainerMockRecorder[T]) Remove(index interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Remove", reflect.TypeOf((*MockContainer[T])(nil).Remove), index)
}

// Replace mocks base method.
func (m *MockContainer[T]) Replace(index int, value T) bool {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Replace", index, value)
	ret0, _ := ret[0].(bool)
	return ret0
}

// Replace indicates an expected call of Replace.
func (mr *MockContainerMockRecorder[T]) Replace(index, value interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Replace", reflect.TypeOf((*MockContainer[T])(nil).Replace), index, value)
}

// Size mocks base method.
func (m *MockContainer[T]) Size() int {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Size")
	ret0, _ := ret[0].(int)
	return ret0
}

// Size indicates an expected call of Size.
func (mr *MockContainerMockRecorder[T]) Size() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Size", reflect.TypeOf((*MockContainer[T])(nil).Size))
}
