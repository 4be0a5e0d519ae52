package v1

import (
	"github.com/adambalon/vcm-overlay/config"
)

type ExportedDeviceType struct {
	Id        string `json:"id"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	Available bool   `json:"available"`
}

type ExportedCatalog struct {
	PrimaryTypes   []ExportedDeviceType `json:"primary_types"`
	SecondaryTypes []ExportedDeviceType `json:"secondary_types"`
}

type ExportedParameter struct {
	DeviceType string                 `json:"device_type"`
	Record     config.ParameterRecord `json:"record"`
}
