package v1

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/adambalon/vcm-overlay/config"
	"github.com/adambalon/vcm-overlay/state"
	"github.com/gorilla/mux"
	"github.com/shimmeringbee/logwrap"
)

type parameterMerger interface {
	MergeParameter(typeId string, record config.ParameterRecord) error
}

type submissionController struct {
	store      *state.SubmissionStore
	repository parameterMerger
	publisher  state.EventPublisher
	logger     logwrap.Logger
}

// SubmissionEvent is published on submission lifecycle changes so connected
// review pages can refresh.
type SubmissionEvent struct {
	Action     string           `json:"action"`
	Submission state.Submission `json:"submission"`
}

func (s *submissionController) listSubmissions(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")

	var submissions []state.Submission

	switch status {
	case "", string(state.StatusPending):
		submissions = s.store.Pending()
	case "all":
		submissions = s.store.All()
	case string(state.StatusApproved), string(state.StatusRejected):
		submissions = s.store.WithStatus(state.SubmissionStatus(status))
	default:
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if submissions == nil {
		submissions = []state.Submission{}
	}

	s.writeJSON(w, struct {
		Submissions []state.Submission `json:"submissions"`
	}{Submissions: submissions})
}

func (s *submissionController) getSubmission(w http.ResponseWriter, r *http.Request) {
	id, ok := mux.Vars(r)["identifier"]
	if !ok {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	submission, found := s.store.Get(id)
	if !found {
		http.NotFound(w, r)
		return
	}

	s.writeJSON(w, submission)
}

func (s *submissionController) createSubmission(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	submission := state.Submission{}
	if err := json.Unmarshal(data, &submission); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if submission.ParamId == "" || submission.ModuleType == "" {
		http.Error(w, "param_id and module_type are required", http.StatusBadRequest)
		return
	}

	// New submissions always enter the queue pending.
	submission.Status = ""

	stored, err := s.store.Add(submission)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusConflict), http.StatusConflict)
		return
	}

	s.publisher.Publish(SubmissionEvent{Action: "created", Submission: stored})

	w.Header().Add("content-type", "application/json")
	w.WriteHeader(http.StatusCreated)

	respData, err := json.Marshal(stored)
	if err != nil {
		return
	}
	w.Write(respData)
}

func (s *submissionController) approveSubmission(w http.ResponseWriter, r *http.Request) {
	id, ok := mux.Vars(r)["identifier"]
	if !ok {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	submission, err := s.store.Approve(id)
	if err != nil {
		s.writeTransitionError(w, r, err)
		return
	}

	if err := s.repository.MergeParameter(submission.ModuleType, submission.Record()); err != nil {
		s.logger.LogError(r.Context(), "Failed to merge approved submission, reinstating.",
			logwrap.Datum("submission", id), logwrap.Err(err))

		if reinstateErr := s.store.Reinstate(id); reinstateErr != nil {
			s.logger.LogError(r.Context(), "Failed to reinstate submission after merge failure.",
				logwrap.Datum("submission", id), logwrap.Err(reinstateErr))
		}

		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	submission, _ = s.store.Get(id)
	s.publisher.Publish(SubmissionEvent{Action: "approved", Submission: submission})

	s.writeJSON(w, submission)
}

func (s *submissionController) rejectSubmission(w http.ResponseWriter, r *http.Request) {
	id, ok := mux.Vars(r)["identifier"]
	if !ok {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	submission, err := s.store.Reject(id)
	if err != nil {
		s.writeTransitionError(w, r, err)
		return
	}

	s.publisher.Publish(SubmissionEvent{Action: "rejected", Submission: submission})

	s.writeJSON(w, submission)
}

func (s *submissionController) writeTransitionError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, state.ErrNotFound):
		http.NotFound(w, r)
	case errors.Is(err, state.ErrNotPending):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (s *submissionController) writeJSON(w http.ResponseWriter, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Add("content-type", "application/json")
	w.Write(data)
}
