package v1

import (
	"github.com/adambalon/vcm-overlay/config"
	"github.com/adambalon/vcm-overlay/overlay"
	"github.com/adambalon/vcm-overlay/state"
	"github.com/stretchr/testify/mock"
)

var _ deviceTypeLister = (*MockRepository)(nil)
var _ parameterMerger = (*MockRepository)(nil)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) DeviceTypes() []state.DeviceType {
	args := m.Called()
	return args.Get(0).([]state.DeviceType)
}

func (m *MockRepository) Lookup(typeId string, parameterId string) (config.ParameterRecord, bool) {
	args := m.Called(typeId, parameterId)
	return args.Get(0).(config.ParameterRecord), args.Bool(1)
}

func (m *MockRepository) MergeParameter(typeId string, record config.ParameterRecord) error {
	args := m.Called(typeId, record)
	return args.Error(0)
}

var _ displaySnapshotter = (*MockDisplaySnapshotter)(nil)

type MockDisplaySnapshotter struct {
	mock.Mock
}

func (m *MockDisplaySnapshotter) Snapshot() overlay.CurrentDisplay {
	args := m.Called()
	return args.Get(0).(overlay.CurrentDisplay)
}
