package task

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/domain"
)

type mockImporter struct {
	mock.Mock
}

func (m *mockImporter) ImportToponyms(ctx context.Context, blobName string) (*domain.ToponymImportReport, error) {
	args := m.Called(ctx, blobName)
	report, _ := args.Get(0).(*domain.ToponymImportReport)
	return report, args.Error(1)
}

func TestNewToponymImportTask_Validation(t *testing.T) {
	t.Parallel()
	_, err := NewToponymImportTask(uuid.New(), "a.zip", nil, discardLogger())
	assert.ErrorIs(t, err, ErrNilImporter)

	_, err = NewToponymImportTask(uuid.New(), "", &mockImporter{}, discardLogger())
	assert.ErrorIs(t, err, ErrEmptyBlobName)

	task, err := NewToponymImportTask(uuid.Nil, "a.zip", &mockImporter{}, discardLogger())
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, task.ID())
	assert.Equal(t, TaskStatusPending, task.Status())
}

func TestToponymImportTask_Execute(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("success reports counts", func(t *testing.T) {
		t.Parallel()
		importer := &mockImporter{}
		report := &domain.ToponymImportReport{Rows: 3, Imported: 2, Skipped: 1}
		importer.On("ImportToponyms", ctx, "a.zip").Return(report, nil)

		task, err := NewToponymImportTask(uuid.New(), "a.zip", importer, discardLogger())
		require.NoError(t, err)
		require.NoError(t, task.Execute(ctx))

		assert.Equal(t, TaskStatusCompleted, task.Status())
		var got domain.ToponymImportReport
		require.NoError(t, json.Unmarshal(task.Result(), &got))
		assert.Equal(t, *report, got)
	})

	t.Run("failure keeps partial report", func(t *testing.T) {
		t.Parallel()
		importer := &mockImporter{}
		boom := errors.New("archive unreadable")
		importer.On("ImportToponyms", ctx, "b.zip").Return(&domain.ToponymImportReport{Rows: 1}, boom)

		task, err := NewToponymImportTask(uuid.New(), "b.zip", importer, discardLogger())
		require.NoError(t, err)

		err = task.Execute(ctx)
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, TaskStatusFailed, task.Status())
		assert.NotEmpty(t, task.Result())
	})
}

func TestToponymImportTaskFactory(t *testing.T) {
	t.Parallel()
	factory := NewToponymImportTaskFactory(&mockImporter{}, discardLogger())
	id := uuid.New()

	payload, err := json.Marshal(ToponymImportPayload{TaskID: id, BlobName: "c.zip"})
	require.NoError(t, err)

	task, err := factory.CreateTask(payload)
	require.NoError(t, err)
	assert.Equal(t, id, task.ID())
	assert.Equal(t, TaskTypeToponymImport, task.Type())

	restored, err := factory.Restore(&Record{ID: id, Type: TaskTypeToponymImport, Payload: task.Payload()})
	require.NoError(t, err)
	assert.Equal(t, id, restored.ID())

	_, err = factory.CreateTask([]byte("not json"))
	assert.ErrorIs(t, err, ErrInvalidPayload)

	_, err = factory.CreateTask([]byte(`{"blob_name":""}`))
	assert.ErrorIs(t, err, ErrEmptyBlobName)
}
