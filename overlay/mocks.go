package overlay

import (
	"github.com/adambalon/vcm-overlay/config"
	"github.com/stretchr/testify/mock"
)

var _ TargetIntegration = (*MockIntegration)(nil)

type MockIntegration struct {
	mock.Mock
}

func (m *MockIntegration) FindTargetWindow() (WindowHandle, error) {
	args := m.Called()
	return args.Get(0).(WindowHandle), args.Error(1)
}

func (m *MockIntegration) ReadStatusText(handle WindowHandle) (string, error) {
	args := m.Called(handle)
	return args.String(0), args.Error(1)
}

func (m *MockIntegration) WindowBounds(handle WindowHandle) (Rect, error) {
	args := m.Called(handle)
	return args.Get(0).(Rect), args.Error(1)
}

var _ Display = (*MockDisplay)(nil)

type MockDisplay struct {
	mock.Mock
}

func (m *MockDisplay) ShowSearching() {
	m.Called()
}

func (m *MockDisplay) ShowRecord(deviceType string, record config.ParameterRecord) {
	m.Called(deviceType, record)
}

func (m *MockDisplay) ShowPlaceholder(info StatusInfo) {
	m.Called(info)
}

func (m *MockDisplay) Reposition(bounds Rect) {
	m.Called(bounds)
}

func (m *MockDisplay) Close() {
	m.Called()
}

var _ ParameterLookup = (*MockLookup)(nil)

type MockLookup struct {
	mock.Mock
}

func (m *MockLookup) Lookup(typeId string, parameterId string) (config.ParameterRecord, bool) {
	args := m.Called(typeId, parameterId)
	return args.Get(0).(config.ParameterRecord), args.Bool(1)
}
