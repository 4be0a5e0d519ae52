package v1

import (
	"encoding/json"
	"net/http"

	"github.com/adambalon/vcm-overlay/config"
	"github.com/adambalon/vcm-overlay/state"
	"github.com/gorilla/mux"
)

type deviceTypeLister interface {
	DeviceTypes() []state.DeviceType
	Lookup(typeId string, parameterId string) (config.ParameterRecord, bool)
}

type catalogController struct {
	repository deviceTypeLister
}

func (c *catalogController) listCatalog(w http.ResponseWriter, r *http.Request) {
	exported := ExportedCatalog{
		PrimaryTypes:   []ExportedDeviceType{},
		SecondaryTypes: []ExportedDeviceType{},
	}

	for _, dt := range c.repository.DeviceTypes() {
		entry := ExportedDeviceType{
			Id:        dt.Id,
			Name:      dt.Name,
			Category:  string(dt.Category),
			Available: dt.Document != nil,
		}

		if dt.Category == config.CategoryPrimary {
			exported.PrimaryTypes = append(exported.PrimaryTypes, entry)
		} else {
			exported.SecondaryTypes = append(exported.SecondaryTypes, entry)
		}
	}

	data, err := json.Marshal(exported)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Add("content-type", "application/json")
	w.Write(data)
}

func (c *catalogController) getParameter(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)

	typeId, ok := params["type"]
	if !ok {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	paramId, ok := params["paramId"]
	if !ok {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	record, found := c.repository.Lookup(typeId, paramId)
	if !found {
		http.NotFound(w, r)
		return
	}

	data, err := json.Marshal(ExportedParameter{DeviceType: typeId, Record: record})
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Add("content-type", "application/json")
	w.Write(data)
}
