package task

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/store"
)

func testRunnerConfig() TaskRunnerConfig {
	return TaskRunnerConfig{
		WorkerCount:            2,
		QueueSize:              10,
		StuckTaskAge:           time.Minute,
		StuckTaskCheckInterval: time.Hour,
	}
}

func waitForStatus(t *testing.T, s TaskStore, id uuid.UUID, want TaskStatus) *Record {
	t.Helper()
	var rec *Record
	require.Eventually(t, func() bool {
		var err error
		rec, err = s.GetTask(context.Background(), id)
		return err == nil && rec.Status == want
	}, 2*time.Second, 10*time.Millisecond, "task %s never reached %s", id, want)
	return rec
}

func TestTaskRunner_ProcessesSubmittedTasks(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	taskStore := NewMemoryTaskStore()
	runner := NewTaskRunner(taskStore, nil, testRunnerConfig(), discardLogger())
	require.NoError(t, runner.Start())
	defer runner.Stop()

	ok := newFakeTask(nil)
	failing := newFakeTask(func(context.Context) error { return errors.New("boom") })
	reporting := reportingTask{newFakeTask(nil)}
	reporting.result = []byte(`{"rows":3}`)

	var handled atomic.Int32
	runner.SetErrorHandler(func(task Task, err error) { handled.Add(1) })

	require.NoError(t, runner.Submit(ctx, ok))
	require.NoError(t, runner.Submit(ctx, failing))
	require.NoError(t, runner.Submit(ctx, reporting))

	waitForStatus(t, taskStore, ok.ID(), TaskStatusCompleted)
	rec := waitForStatus(t, taskStore, failing.ID(), TaskStatusFailed)
	assert.Equal(t, "boom", rec.Error)
	rec = waitForStatus(t, taskStore, reporting.ID(), TaskStatusCompleted)
	assert.JSONEq(t, `{"rows":3}`, string(rec.Result))

	assert.EqualValues(t, 1, handled.Load())
	assert.EqualValues(t, 1, ok.runs.Load())
}

func TestTaskRunner_SubmitErrors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("queue full keeps task pending", func(t *testing.T) {
		t.Parallel()
		taskStore := NewMemoryTaskStore()
		cfg := testRunnerConfig()
		cfg.QueueSize = 1
		runner := NewTaskRunner(taskStore, nil, cfg, discardLogger())

		require.NoError(t, runner.Submit(ctx, newFakeTask(nil)))
		second := newFakeTask(nil)
		err := runner.Submit(ctx, second)
		assert.ErrorIs(t, err, ErrQueueFull)

		rec, err := taskStore.GetTask(ctx, second.ID())
		require.NoError(t, err)
		assert.Equal(t, TaskStatusPending, rec.Status)
	})

	t.Run("store error", func(t *testing.T) {
		t.Parallel()
		taskStore := NewMemoryTaskStore()
		runner := NewTaskRunner(taskStore, nil, testRunnerConfig(), discardLogger())
		task := newFakeTask(nil)
		require.NoError(t, taskStore.SaveTask(ctx, task))

		err := runner.Submit(ctx, task)
		assert.ErrorIs(t, err, store.ErrDuplicate)
	})
}

func TestTaskRunner_Recover(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	taskStore := NewMemoryTaskStore()

	pending := newFakeTask(nil)
	interrupted := newFakeTask(nil)
	orphan := newFakeTask(nil)
	orphan.taskType = "retired"
	for _, task := range []*fakeTask{pending, interrupted, orphan} {
		require.NoError(t, taskStore.SaveTask(ctx, task))
	}
	require.NoError(t, taskStore.UpdateTaskStatus(ctx, interrupted.ID(), TaskStatusProcessing, ""))

	var restored atomic.Int32
	registry := NewRegistry()
	registry.Register("fake", func(rec *Record) (Task, error) {
		restored.Add(1)
		task := newFakeTask(nil)
		task.id = rec.ID
		return task, nil
	})

	runner := NewTaskRunner(taskStore, registry, testRunnerConfig(), discardLogger())
	require.NoError(t, runner.Start())
	defer runner.Stop()

	waitForStatus(t, taskStore, pending.ID(), TaskStatusCompleted)
	waitForStatus(t, taskStore, interrupted.ID(), TaskStatusCompleted)
	rec := waitForStatus(t, taskStore, orphan.ID(), TaskStatusFailed)
	assert.Contains(t, rec.Error, ErrUnknownTaskType.Error())
	assert.EqualValues(t, 2, restored.Load())
}

func TestTaskRunner_ResetsStuckTasks(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	taskStore := NewMemoryTaskStore()
	task := newFakeTask(nil)
	require.NoError(t, taskStore.SaveTask(ctx, task))
	require.NoError(t, taskStore.UpdateTaskStatus(ctx, task.ID(), TaskStatusProcessing, ""))

	registry := NewRegistry()
	registry.Register("fake", func(rec *Record) (Task, error) { return task, nil })
	runner := NewTaskRunner(taskStore, registry, testRunnerConfig(), discardLogger())

	runner.resetStuckTasks(ctx)
	rec, err := taskStore.GetTask(ctx, task.ID())
	require.NoError(t, err)
	assert.Equal(t, TaskStatusProcessing, rec.Status, "fresh tasks are not stuck")

	taskStore.now = func() time.Time { return time.Now().UTC().Add(2 * time.Minute) }
	runner.resetStuckTasks(ctx)

	rec, err = taskStore.GetTask(ctx, task.ID())
	require.NoError(t, err)
	assert.Equal(t, TaskStatusPending, rec.Status)
	assert.Equal(t, 1, runner.queue.Len())
}

func TestTaskRunner_StopInterruptsRunningTask(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	taskStore := NewMemoryTaskStore()
	runner := NewTaskRunner(taskStore, nil, testRunnerConfig(), discardLogger())
	require.NoError(t, runner.Start())

	started := make(chan struct{})
	task := newFakeTask(func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	})
	require.NoError(t, runner.Submit(ctx, task))
	<-started

	runner.Stop()

	rec, err := taskStore.GetTask(ctx, task.ID())
	require.NoError(t, err)
	assert.Equal(t, TaskStatusProcessing, rec.Status)
}
