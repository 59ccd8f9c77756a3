package mocks

import (
	"github.com/brettbedarf/vfs"
	"github.com/stretchr/testify/mock"
)

// MockObserver implements vfs.Observer for testing across packages
type MockObserver struct {
	mock.Mock
}

func (m *MockObserver) OnEvent(e vfs.Event) {
	m.Called(e)
}

// Events returns the events received so far, in delivery order
func (m *MockObserver) Events() []vfs.Event {
	var out []vfs.Event
	for _, call := range m.Calls {
		if call.Method != "OnEvent" {
			continue
		}
		out = append(out, call.Arguments.Get(0).(vfs.Event))
	}
	return out
}

// MockRecorder implements vfs.Recorder for testing across packages
type MockRecorder struct {
	mock.Mock
}

func (m *MockRecorder) Record(c vfs.Change) {
	m.Called(c)
}

// Changes returns the recorded changes, in order
func (m *MockRecorder) Changes() []vfs.Change {
	var out []vfs.Change
	for _, call := range m.Calls {
		if call.Method != "Record" {
			continue
		}
		out = append(out, call.Arguments.Get(0).(vfs.Change))
	}
	return out
}
