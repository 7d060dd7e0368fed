package task

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/store"
)

// MemoryTaskStore is an in-process TaskStore. It backs the runner when no
// database is configured and in tests.
type MemoryTaskStore struct {
	mu    sync.RWMutex
	tasks map[uuid.UUID]*Record
	now   func() time.Time
}

var _ TaskStore = (*MemoryTaskStore)(nil)

// NewMemoryTaskStore creates an empty MemoryTaskStore.
func NewMemoryTaskStore() *MemoryTaskStore {
	return &MemoryTaskStore{
		tasks: make(map[uuid.UUID]*Record),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// SaveTask implements TaskStore.
func (s *MemoryTaskStore) SaveTask(ctx context.Context, task Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tasks[task.ID()]; exists {
		return fmt.Errorf("%w: task %s", store.ErrDuplicate, task.ID())
	}
	now := s.now()
	s.tasks[task.ID()] = &Record{
		ID:        task.ID(),
		Type:      task.Type(),
		Payload:   slices.Clone(task.Payload()),
		Status:    TaskStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return nil
}

// UpdateTaskStatus implements TaskStore.
func (s *MemoryTaskStore) UpdateTaskStatus(ctx context.Context, taskID uuid.UUID, status TaskStatus, errorMsg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.tasks[taskID]
	if !ok {
		return store.ErrTaskNotFound
	}
	rec.Status = status
	rec.Error = errorMsg
	rec.UpdatedAt = s.now()
	return nil
}

// SetTaskResult implements TaskStore.
func (s *MemoryTaskStore) SetTaskResult(ctx context.Context, taskID uuid.UUID, result []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.tasks[taskID]
	if !ok {
		return store.ErrTaskNotFound
	}
	rec.Result = slices.Clone(result)
	rec.UpdatedAt = s.now()
	return nil
}

// GetTask implements TaskStore.
func (s *MemoryTaskStore) GetTask(ctx context.Context, taskID uuid.UUID) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.tasks[taskID]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	cp := *rec
	return &cp, nil
}

// GetPendingTasks implements TaskStore.
func (s *MemoryTaskStore) GetPendingTasks(ctx context.Context) ([]*Record, error) {
	return s.byStatus(TaskStatusPending, 0), nil
}

// GetProcessingTasks implements TaskStore.
func (s *MemoryTaskStore) GetProcessingTasks(ctx context.Context, olderThan time.Duration) ([]*Record, error) {
	return s.byStatus(TaskStatusProcessing, olderThan), nil
}

func (s *MemoryTaskStore) byStatus(status TaskStatus, olderThan time.Duration) []*Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cutoff := s.now().Add(-olderThan)
	var out []*Record
	for _, rec := range s.tasks {
		if rec.Status != status {
			continue
		}
		if olderThan > 0 && !rec.UpdatedAt.Before(cutoff) {
			continue
		}
		cp := *rec
		out = append(out, &cp)
	}
	slices.SortFunc(out, func(a, b *Record) int { return a.CreatedAt.Compare(b.CreatedAt) })
	return out
}
