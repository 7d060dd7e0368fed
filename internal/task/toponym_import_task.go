package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/domain"
)

// Common errors
var (
	ErrNilImporter    = errors.New("toponym importer cannot be nil")
	ErrEmptyBlobName  = errors.New("blob name cannot be empty")
	ErrInvalidPayload = errors.New("invalid task payload")
)

// ToponymImporter performs the import of an uploaded toponym archive.
type ToponymImporter interface {
	ImportToponyms(ctx context.Context, blobName string) (*domain.ToponymImportReport, error)
}

// ToponymImportPayload is the serialized data stored with the task.
// TaskID lets the requester choose the task ID so it can poll the status.
type ToponymImportPayload struct {
	TaskID   uuid.UUID `json:"task_id,omitempty"`
	BlobName string    `json:"blob_name"`
}

// ToponymImportTask imports the toponyms of an archive saved in the blob store.
type ToponymImportTask struct {
	id       uuid.UUID
	payload  ToponymImportPayload
	importer ToponymImporter
	logger   *slog.Logger

	mu     sync.Mutex
	status TaskStatus
	report *domain.ToponymImportReport
}

var (
	_ Task           = (*ToponymImportTask)(nil)
	_ ResultReporter = (*ToponymImportTask)(nil)
)

// NewToponymImportTask creates a new import task for the given archive.
func NewToponymImportTask(
	id uuid.UUID,
	blobName string,
	importer ToponymImporter,
	logger *slog.Logger,
) (*ToponymImportTask, error) {
	if importer == nil {
		return nil, ErrNilImporter
	}
	if blobName == "" {
		return nil, ErrEmptyBlobName
	}
	if id == uuid.Nil {
		id = uuid.New()
	}
	return &ToponymImportTask{
		id:       id,
		payload:  ToponymImportPayload{TaskID: id, BlobName: blobName},
		importer: importer,
		logger:   logger.With("task_type", TaskTypeToponymImport, "blob_name", blobName),
		status:   TaskStatusPending,
	}, nil
}

// ID returns the task's unique identifier
func (t *ToponymImportTask) ID() uuid.UUID {
	return t.id
}

// Type returns the task type identifier
func (t *ToponymImportTask) Type() string {
	return TaskTypeToponymImport
}

// Payload returns the JSON encoded payload
func (t *ToponymImportTask) Payload() []byte {
	data, err := json.Marshal(t.payload)
	if err != nil {
		return nil
	}
	return data
}

// Status returns the current task status
func (t *ToponymImportTask) Status() TaskStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

// Result returns the import report of the last run as JSON.
func (t *ToponymImportTask) Result() []byte {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.report == nil {
		return nil
	}
	data, err := json.Marshal(t.report)
	if err != nil {
		return nil
	}
	return data
}

// Execute runs the import.
func (t *ToponymImportTask) Execute(ctx context.Context) error {
	t.setStatus(TaskStatusProcessing)
	t.logger.Info("starting toponym import")

	report, err := t.importer.ImportToponyms(ctx, t.payload.BlobName)

	t.mu.Lock()
	t.report = report
	t.mu.Unlock()

	if err != nil {
		t.setStatus(TaskStatusFailed)
		return fmt.Errorf("toponym import failed: %w", err)
	}

	t.setStatus(TaskStatusCompleted)
	t.logger.Info("toponym import finished",
		"rows", report.Rows,
		"imported", report.Imported,
		"skipped", report.Skipped,
		"geocoded", report.Geocoded,
		"invalid", report.Invalid)
	return nil
}

func (t *ToponymImportTask) setStatus(status TaskStatus) {
	t.mu.Lock()
	t.status = status
	t.mu.Unlock()
}

// ToponymImportTaskFactory creates ToponymImportTask instances.
type ToponymImportTaskFactory struct {
	importer ToponymImporter
	logger   *slog.Logger
}

// NewToponymImportTaskFactory creates a new factory for ToponymImportTasks.
func NewToponymImportTaskFactory(importer ToponymImporter, logger *slog.Logger) *ToponymImportTaskFactory {
	return &ToponymImportTaskFactory{
		importer: importer,
		logger:   logger.With("component", "toponym_import_task_factory"),
	}
}

// CreateTask creates a new task from an event payload.
func (f *ToponymImportTaskFactory) CreateTask(payload json.RawMessage) (Task, error) {
	return f.build(uuid.Nil, payload)
}

// Restore rebuilds a stored task keeping its ID. It satisfies Factory.
func (f *ToponymImportTaskFactory) Restore(rec *Record) (Task, error) {
	return f.build(rec.ID, rec.Payload)
}

func (f *ToponymImportTaskFactory) build(id uuid.UUID, payload []byte) (Task, error) {
	var p ToponymImportPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	if id == uuid.Nil {
		id = p.TaskID
	}
	task, err := NewToponymImportTask(id, p.BlobName, f.importer, f.logger)
	if err != nil {
		return nil, err
	}
	return task, nil
}
