package task

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskQueue(t *testing.T) {
	t.Parallel()

	t.Run("enqueue until full", func(t *testing.T) {
		t.Parallel()
		queue := NewTaskQueue(2, discardLogger())

		require.NoError(t, queue.Enqueue(newFakeTask(nil)))
		require.NoError(t, queue.Enqueue(newFakeTask(nil)))
		assert.Equal(t, 2, queue.Len())

		err := queue.Enqueue(newFakeTask(nil))
		assert.ErrorIs(t, err, ErrQueueFull)
	})

	t.Run("closed queue rejects tasks but drains", func(t *testing.T) {
		t.Parallel()
		queue := NewTaskQueue(2, discardLogger())
		task := newFakeTask(nil)
		require.NoError(t, queue.Enqueue(task))

		queue.Close()
		queue.Close()

		assert.ErrorIs(t, queue.Enqueue(newFakeTask(nil)), ErrQueueClosed)

		got, ok := <-queue.GetChannel()
		require.True(t, ok)
		assert.Equal(t, task.ID(), got.ID())

		_, ok = <-queue.GetChannel()
		assert.False(t, ok)
	})

	t.Run("non-positive size is clamped", func(t *testing.T) {
		t.Parallel()
		queue := NewTaskQueue(0, discardLogger())
		assert.NoError(t, queue.Enqueue(newFakeTask(nil)))
	})
}
