package v1

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/adambalon/vcm-overlay/config"
	"github.com/adambalon/vcm-overlay/state"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
)

func TestCatalogController_listCatalog(t *testing.T) {
	t.Run("returns both categories with availability", func(t *testing.T) {
		mr := MockRepository{}
		defer mr.AssertExpectations(t)

		mr.On("DeviceTypes").Return([]state.DeviceType{
			{
				CatalogEntry: config.CatalogEntry{Id: "E38", Name: "E38 ECM", File: "ECM/E38.json"},
				Category:     config.CategoryPrimary,
				Document:     &config.Document{Name: "E38"},
			},
			{
				CatalogEntry: config.CatalogEntry{Id: "T43", Name: "T43 TCM", File: "TCM/T43.json"},
				Category:     config.CategorySecondary,
			},
		})

		controller := catalogController{repository: &mr}

		req, err := http.NewRequest("GET", "/catalog", nil)
		assert.NoError(t, err)

		rr := httptest.NewRecorder()

		router := mux.NewRouter()
		router.HandleFunc("/catalog", controller.listCatalog)
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		actual := ExportedCatalog{}
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &actual))

		expected := ExportedCatalog{
			PrimaryTypes: []ExportedDeviceType{
				{Id: "E38", Name: "E38 ECM", Category: "primary", Available: true},
			},
			SecondaryTypes: []ExportedDeviceType{
				{Id: "T43", Name: "T43 TCM", Category: "secondary", Available: false},
			},
		}

		assert.Equal(t, expected, actual)
	})
}

func TestCatalogController_getParameter(t *testing.T) {
	t.Run("returns the record for a known parameter", func(t *testing.T) {
		mr := MockRepository{}
		defer mr.AssertExpectations(t)

		record := config.ParameterRecord{Id: "12345", Name: "Spark Advance", Description: "Base spark table"}
		mr.On("Lookup", "E38", "12345").Return(record, true)

		controller := catalogController{repository: &mr}

		req, err := http.NewRequest("GET", "/types/E38/parameters/12345", nil)
		assert.NoError(t, err)

		rr := httptest.NewRecorder()

		router := mux.NewRouter()
		router.HandleFunc("/types/{type}/parameters/{paramId}", controller.getParameter)
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		actual := ExportedParameter{}
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &actual))
		assert.Equal(t, ExportedParameter{DeviceType: "E38", Record: record}, actual)
	})

	t.Run("returns a 404 for a miss", func(t *testing.T) {
		mr := MockRepository{}
		defer mr.AssertExpectations(t)

		mr.On("Lookup", "E38", "99999").Return(config.ParameterRecord{}, false)

		controller := catalogController{repository: &mr}

		req, err := http.NewRequest("GET", "/types/E38/parameters/99999", nil)
		assert.NoError(t, err)

		rr := httptest.NewRecorder()

		router := mux.NewRouter()
		router.HandleFunc("/types/{type}/parameters/{paramId}", controller.getParameter)
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
