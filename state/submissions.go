package state

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/adambalon/vcm-overlay/config"
	"github.com/google/uuid"
)

type SubmissionStatus string

const (
	StatusPending  SubmissionStatus = "pending"
	StatusApproved SubmissionStatus = "approved"
	StatusRejected SubmissionStatus = "rejected"
)

// Submission is a user proposed description for a parameter, awaiting review.
// ModuleType names the specific device type whose document an approval merges
// into; Type is the coarse category it belongs to.
type Submission struct {
	Id          string           `json:"id"`
	Type        config.Category  `json:"type"`
	ModuleType  string           `json:"module_type"`
	ParamId     string           `json:"param_id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Details     string           `json:"details"`
	Status      SubmissionStatus `json:"status"`
	Timestamp   time.Time        `json:"timestamp"`
}

// Record converts the submission into the parameter record an approval
// writes into the owning description document.
func (s Submission) Record() config.ParameterRecord {
	return config.ParameterRecord{
		Id:          s.ParamId,
		Name:        s.Name,
		Description: s.Description,
		Details:     s.Details,
	}
}

// SubmissionStore holds submissions in their original insertion order and
// owns their pending/approved/rejected lifecycle.
type SubmissionStore struct {
	lock        sync.Mutex
	submissions []*Submission
	byId        map[string]*Submission
}

func NewSubmissionStore() *SubmissionStore {
	return &SubmissionStore{
		byId: map[string]*Submission{},
	}
}

// Add stores a new submission, assigning an id, timestamp and pending status
// where the caller left them blank.
func (s *SubmissionStore) Add(submission Submission) (Submission, error) {
	if submission.Id == "" {
		submission.Id = uuid.New().String()
	}

	if submission.Timestamp.IsZero() {
		submission.Timestamp = time.Now().UTC()
	}

	if submission.Status == "" {
		submission.Status = StatusPending
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	if _, found := s.byId[submission.Id]; found {
		return Submission{}, fmt.Errorf("submission '%s': %w", submission.Id, ErrDuplicateEntry)
	}

	stored := submission
	s.submissions = append(s.submissions, &stored)
	s.byId[stored.Id] = &stored

	return stored, nil
}

func (s *SubmissionStore) Get(id string) (Submission, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if submission, found := s.byId[id]; found {
		return *submission, true
	}

	return Submission{}, false
}

// All returns every submission in insertion order.
func (s *SubmissionStore) All() []Submission {
	s.lock.Lock()
	defer s.lock.Unlock()

	result := make([]Submission, 0, len(s.submissions))
	for _, submission := range s.submissions {
		result = append(result, *submission)
	}

	return result
}

// WithStatus returns submissions with the given status, preserving their
// original relative order.
func (s *SubmissionStore) WithStatus(status SubmissionStatus) []Submission {
	s.lock.Lock()
	defer s.lock.Unlock()

	var result []Submission
	for _, submission := range s.submissions {
		if submission.Status == status {
			result = append(result, *submission)
		}
	}

	return result
}

// Pending returns the review queue.
func (s *SubmissionStore) Pending() []Submission {
	return s.WithStatus(StatusPending)
}

// Approve marks a pending submission approved and returns it so the caller
// can run the merge pipeline. Use Reinstate to roll back if the merge fails.
func (s *SubmissionStore) Approve(id string) (Submission, error) {
	return s.transition(id, StatusApproved)
}

// Reject marks a pending submission rejected. Rejection has no further
// effect on the description documents.
func (s *SubmissionStore) Reject(id string) (Submission, error) {
	return s.transition(id, StatusRejected)
}

func (s *SubmissionStore) transition(id string, to SubmissionStatus) (Submission, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	submission, found := s.byId[id]
	if !found {
		return Submission{}, fmt.Errorf("submission '%s': %w", id, ErrNotFound)
	}

	if submission.Status != StatusPending {
		return Submission{}, fmt.Errorf("submission '%s' is '%s': %w", id, submission.Status, ErrNotPending)
	}

	submission.Status = to
	return *submission, nil
}

// Reinstate returns a submission to the pending queue after a failed
// approval merge.
func (s *SubmissionStore) Reinstate(id string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	submission, found := s.byId[id]
	if !found {
		return fmt.Errorf("submission '%s': %w", id, ErrNotFound)
	}

	submission.Status = StatusPending
	return nil
}

type savedSubmissions struct {
	Submissions []Submission `json:"submissions"`
}

// LoadSubmissions populates the store from its backing file. A missing file
// is an empty store, not an error.
func LoadSubmissions(fileLocation string, store *SubmissionStore) error {
	if _, err := os.Stat(fileLocation); err != nil {
		return nil
	}

	data, err := os.ReadFile(fileLocation)
	if err != nil {
		return err
	}

	var loaded savedSubmissions
	if err := json.Unmarshal(data, &loaded); err != nil {
		return err
	}

	for _, submission := range loaded.Submissions {
		if _, err := store.Add(submission); err != nil {
			return err
		}
	}

	return nil
}

// SaveSubmissions writes the store to its backing file atomically.
func SaveSubmissions(fileLocation string, store *SubmissionStore) error {
	saved := savedSubmissions{Submissions: store.All()}

	data, err := json.MarshalIndent(saved, "", "  ")
	if err != nil {
		return err
	}

	return safeWriteFile(fileLocation, data, DefaultFilePermissions)
}
