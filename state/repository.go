package state

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/adambalon/vcm-overlay/config"
	"github.com/shimmeringbee/logwrap"
)

type RepositoryError string

func (r RepositoryError) Error() string {
	return string(r)
}

const (
	ErrNotFound       = RepositoryError("not found")
	ErrNotPending     = RepositoryError("submission is not pending")
	ErrUnknownType    = RepositoryError("unknown device type")
	ErrNoDocument     = RepositoryError("device type has no loaded document")
	ErrDuplicateEntry = RepositoryError("duplicate identifier")
)

// ConfigError marks a malformed or missing configuration artifact. A
// ConfigError from the catalog itself is fatal at startup; one from an
// individual description document only disables that device type.
type ConfigError struct {
	Path string
	Err  error
}

func (c ConfigError) Error() string {
	return fmt.Sprintf("configuration error in '%s': %s", c.Path, c.Err.Error())
}

func (c ConfigError) Unwrap() error {
	return c.Err
}

// DeviceType is a catalog entry plus its loaded description document. The
// document is nil when its file was missing or malformed at load time.
type DeviceType struct {
	config.CatalogEntry
	Category config.Category
	Document *config.Document
}

type repositorySnapshot struct {
	catalog config.Catalog
	types   map[string]*DeviceType
	order   []string
}

// DescriptionRepository maps (device type id, parameter id) pairs to their
// human authored descriptions. It is read only between reloads: Reload builds
// a complete replacement snapshot before swapping it in, so a reader holding
// the lock sees either the old catalog or the new one.
type DescriptionRepository struct {
	root   string
	logger logwrap.Logger

	lock     sync.RWMutex
	snapshot *repositorySnapshot
}

const DefaultFilePermissions = 0600

func NewDescriptionRepository(root string, l logwrap.Logger) *DescriptionRepository {
	return &DescriptionRepository{
		root:     root,
		logger:   l,
		snapshot: &repositorySnapshot{types: map[string]*DeviceType{}},
	}
}

// Load reads the catalog and every listed description document. Catalog
// problems are returned as a ConfigError; a broken document is logged and
// skipped without affecting other entries.
func (r *DescriptionRepository) Load() error {
	return r.Reload()
}

// Reload rebuilds the in-memory catalog from disk and atomically replaces the
// current one. On failure the previous catalog remains in effect.
func (r *DescriptionRepository) Reload() error {
	snapshot, err := r.loadSnapshot()
	if err != nil {
		return err
	}

	r.lock.Lock()
	r.snapshot = snapshot
	r.lock.Unlock()

	return nil
}

func (r *DescriptionRepository) loadSnapshot() (*repositorySnapshot, error) {
	catalogPath := filepath.Join(r.root, config.CatalogFilename)

	data, err := os.ReadFile(catalogPath)
	if err != nil {
		return nil, ConfigError{Path: catalogPath, Err: fmt.Errorf("failed to read catalog: %w", err)}
	}

	catalog := config.Catalog{}
	if err := json.Unmarshal(data, &catalog); err != nil {
		return nil, ConfigError{Path: catalogPath, Err: fmt.Errorf("failed to parse catalog: %w", err)}
	}

	if err := catalog.Validate(); err != nil {
		return nil, ConfigError{Path: catalogPath, Err: err}
	}

	snapshot := &repositorySnapshot{
		catalog: catalog,
		types:   map[string]*DeviceType{},
	}

	for _, entry := range catalog.PrimaryTypes {
		r.addType(snapshot, entry, config.CategoryPrimary)
	}

	for _, entry := range catalog.SecondaryTypes {
		r.addType(snapshot, entry, config.CategorySecondary)
	}

	return snapshot, nil
}

func (r *DescriptionRepository) addType(snapshot *repositorySnapshot, entry config.CatalogEntry, category config.Category) {
	dt := &DeviceType{CatalogEntry: entry, Category: category}

	if document, err := r.loadDocument(entry); err != nil {
		r.logger.LogWarn(context.Background(), "Failed to load description document, device type disabled.",
			logwrap.Datum("deviceType", entry.Id), logwrap.Datum("file", entry.File), logwrap.Err(err))
	} else {
		dt.Document = document
	}

	snapshot.types[entry.Id] = dt
	snapshot.order = append(snapshot.order, entry.Id)
}

func (r *DescriptionRepository) loadDocument(entry config.CatalogEntry) (*config.Document, error) {
	path := filepath.Join(r.root, filepath.FromSlash(entry.File))

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ConfigError{Path: path, Err: fmt.Errorf("failed to read document: %w", err)}
	}

	document := &config.Document{}
	if err := json.Unmarshal(data, document); err != nil {
		return nil, ConfigError{Path: path, Err: fmt.Errorf("failed to parse document: %w", err)}
	}

	if err := document.Validate(); err != nil {
		return nil, ConfigError{Path: path, Err: err}
	}

	if document.Parameters == nil {
		document.Parameters = map[string]config.ParameterRecord{}
	}

	return document, nil
}

// Lookup returns the description record for a parameter of a device type.
// Misses are a normal outcome, not an error.
func (r *DescriptionRepository) Lookup(typeId string, parameterId string) (config.ParameterRecord, bool) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	dt, found := r.snapshot.types[typeId]
	if !found || dt.Document == nil {
		return config.ParameterRecord{}, false
	}

	record, found := dt.Document.Parameters[parameterId]
	return record, found
}

// DeviceTypes returns the catalog entries in their catalog order, primary
// types first.
func (r *DescriptionRepository) DeviceTypes() []DeviceType {
	r.lock.RLock()
	defer r.lock.RUnlock()

	result := make([]DeviceType, 0, len(r.snapshot.order))
	for _, id := range r.snapshot.order {
		result = append(result, *r.snapshot.types[id])
	}

	return result
}

// DeviceType returns a single catalog entry by id.
func (r *DescriptionRepository) DeviceType(typeId string) (DeviceType, bool) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	if dt, found := r.snapshot.types[typeId]; found {
		return *dt, true
	}

	return DeviceType{}, false
}

// MergeParameter writes an approved description into the owning document,
// both in memory and on disk. The write lock is held across the file rewrite
// so concurrent approvals against the same document serialize rather than
// clobbering each other.
func (r *DescriptionRepository) MergeParameter(typeId string, record config.ParameterRecord) error {
	if record.Id == "" {
		return fmt.Errorf("parameter record has no id: %w", ErrNotFound)
	}

	r.lock.Lock()
	defer r.lock.Unlock()

	dt, found := r.snapshot.types[typeId]
	if !found {
		return fmt.Errorf("device type '%s': %w", typeId, ErrUnknownType)
	}

	if dt.Document == nil {
		return fmt.Errorf("device type '%s': %w", typeId, ErrNoDocument)
	}

	previous, hadPrevious := dt.Document.Parameters[record.Id]
	dt.Document.Parameters[record.Id] = record

	path := filepath.Join(r.root, filepath.FromSlash(dt.File))

	data, err := json.MarshalIndent(dt.Document, "", "  ")
	if err == nil {
		err = safeWriteFile(path, data, DefaultFilePermissions)
	}

	if err != nil {
		if hadPrevious {
			dt.Document.Parameters[record.Id] = previous
		} else {
			delete(dt.Document.Parameters, record.Id)
		}

		return fmt.Errorf("failed to rewrite document '%s': %w", path, err)
	}

	return nil
}
