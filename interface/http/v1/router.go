package v1

import (
	"net/http"

	"github.com/adambalon/vcm-overlay/overlay"
	"github.com/adambalon/vcm-overlay/state"
	"github.com/gorilla/mux"
	"github.com/shimmeringbee/logwrap"
)

func ConstructRouter(repository *state.DescriptionRepository, store *state.SubmissionStore, display *overlay.DisplayState, reloader func() error, eventbus state.EventSubscriber, publisher state.EventPublisher, l logwrap.Logger) http.Handler {
	r := mux.NewRouter()

	cc := catalogController{
		repository: repository,
	}

	sc := submissionController{
		store:      store,
		repository: repository,
		publisher:  publisher,
		logger:     l,
	}

	oc := overlayController{
		display:  display,
		reloader: reloader,
		logger:   l,
	}

	wc := websocketController{
		eventbus: eventbus,
		display:  display,
		logger:   l,
	}

	r.HandleFunc("/catalog", cc.listCatalog).Methods("GET")
	r.HandleFunc("/types/{type}/parameters/{paramId}", cc.getParameter).Methods("GET")

	r.HandleFunc("/submissions", sc.listSubmissions).Methods("GET")
	r.HandleFunc("/submissions", sc.createSubmission).Methods("POST")
	r.HandleFunc("/submissions/{identifier}", sc.getSubmission).Methods("GET")
	r.HandleFunc("/submissions/{identifier}/approve", sc.approveSubmission).Methods("POST")
	r.HandleFunc("/submissions/{identifier}/reject", sc.rejectSubmission).Methods("POST")

	r.HandleFunc("/current", oc.getCurrent).Methods("GET")
	r.HandleFunc("/reload", oc.reload).Methods("POST")

	r.HandleFunc("/websocket", wc.serveWebsocket).Methods("GET")

	return r
}
