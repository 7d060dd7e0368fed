package task

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"

	"github.com/google/uuid"
)

// fakeTask implements Task with a configurable Execute.
type fakeTask struct {
	id       uuid.UUID
	taskType string
	payload  []byte
	runs     atomic.Int32
	execFn   func(ctx context.Context) error
	result   []byte
}

func newFakeTask(execFn func(ctx context.Context) error) *fakeTask {
	return &fakeTask{
		id:       uuid.New(),
		taskType: "fake",
		payload:  []byte(`{"n":1}`),
		execFn:   execFn,
	}
}

func (f *fakeTask) ID() uuid.UUID      { return f.id }
func (f *fakeTask) Type() string       { return f.taskType }
func (f *fakeTask) Payload() []byte    { return f.payload }
func (f *fakeTask) Status() TaskStatus { return TaskStatusPending }

func (f *fakeTask) Execute(ctx context.Context) error {
	f.runs.Add(1)
	if f.execFn == nil {
		return nil
	}
	return f.execFn(ctx)
}

// reportingTask adds a result to fakeTask.
type reportingTask struct {
	*fakeTask
}

func (r reportingTask) Result() []byte { return r.result }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
