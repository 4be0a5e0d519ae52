package v1

import (
	"encoding/json"
	"net/http"

	"github.com/adambalon/vcm-overlay/overlay"
	"github.com/shimmeringbee/logwrap"
)

type displaySnapshotter interface {
	Snapshot() overlay.CurrentDisplay
}

type overlayController struct {
	display  displaySnapshotter
	reloader func() error
	logger   logwrap.Logger
}

func (o *overlayController) getCurrent(w http.ResponseWriter, r *http.Request) {
	data, err := json.Marshal(o.display.Snapshot())
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Add("content-type", "application/json")
	w.Write(data)
}

func (o *overlayController) reload(w http.ResponseWriter, r *http.Request) {
	if err := o.reloader(); err != nil {
		o.logger.LogError(r.Context(), "Configuration reload failed.", logwrap.Err(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	http.Error(w, http.StatusText(http.StatusNoContent), http.StatusNoContent)
}
