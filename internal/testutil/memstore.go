// Package testutil provides in-memory stores and a controllable clock for tests.
package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"todo_api/internal/domain"
	"todo_api/internal/repository"
)

// UserStore is an in-memory credential store. It reports the same errors as
// repository.UserRepository.
type UserStore struct {
	mu      sync.RWMutex
	byEmail map[string]*domain.User

	// Error injection
	GetErr    error
	ExistsErr error
	CreateErr error
}

func NewUserStore() *UserStore {
	return &UserStore{byEmail: make(map[string]*domain.User)}
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if s.GetErr != nil {
		return nil, s.GetErr
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.byEmail[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *UserStore) EmailExists(ctx context.Context, email string) (bool, error) {
	if s.ExistsErr != nil {
		return false, s.ExistsErr
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.byEmail[email]
	return ok, nil
}

// Create stores u only when beforeCommit succeeds, mirroring a rolled back transaction.
func (s *UserStore) Create(ctx context.Context, u *domain.User, beforeCommit func() error) error {
	if s.CreateErr != nil {
		return s.CreateErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byEmail[u.Email]; ok {
		return repository.ErrDuplicate
	}
	if beforeCommit != nil {
		if err := beforeCommit(); err != nil {
			return err
		}
	}
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now
	cp := *u
	s.byEmail[u.Email] = &cp
	return nil
}

// Len returns the number of stored users.
func (s *UserStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byEmail)
}

// TaskStore is an in-memory task repository scoped by owner like the real one.
type TaskStore struct {
	mu    sync.RWMutex
	tasks map[string]*domain.Task

	ListErr   error
	CreateErr error
}

func NewTaskStore() *TaskStore {
	return &TaskStore{tasks: make(map[string]*domain.Task)}
}

func (s *TaskStore) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Task, error) {
	if s.ListErr != nil {
		return nil, s.ListErr
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]*domain.Task, 0)
	for _, t := range s.tasks {
		if t.UserID == ownerID {
			res = append(res, clone(t))
		}
	}
	sort.Slice(res, func(i, j int) bool {
		return res[i].CreatedAt.After(res[j].CreatedAt)
	})
	return res, nil
}

func (s *TaskStore) Create(ctx context.Context, t *domain.Task) error {
	if s.CreateErr != nil {
		return s.CreateErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[t.ID]; ok {
		return repository.ErrDuplicate
	}
	s.tasks[t.ID] = clone(t)
	return nil
}

func (s *TaskStore) GetOwned(ctx context.Context, ownerID, taskID string) (*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.owned(ownerID, taskID)
	if !ok {
		return nil, repository.ErrNotFound
	}
	return clone(t), nil
}

func (s *TaskStore) Update(ctx context.Context, t *domain.Task) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.owned(t.UserID, t.ID)
	if !ok {
		return nil, repository.ErrNotFound
	}
	cur.Title = t.Title
	cur.Description = t.Description
	cur.Completed = t.Completed
	cur.UpdatedAt = t.UpdatedAt
	return clone(cur), nil
}

func (s *TaskStore) SetCompleted(ctx context.Context, ownerID, taskID string, completed bool, at time.Time) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.owned(ownerID, taskID)
	if !ok {
		return nil, repository.ErrNotFound
	}
	cur.Completed = completed
	cur.UpdatedAt = at
	return clone(cur), nil
}

func (s *TaskStore) Delete(ctx context.Context, ownerID, taskID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.owned(ownerID, taskID); !ok {
		return repository.ErrNotFound
	}
	delete(s.tasks, taskID)
	return nil
}

func (s *TaskStore) owned(ownerID, taskID string) (*domain.Task, bool) {
	t, ok := s.tasks[taskID]
	if !ok || t.UserID != ownerID {
		return nil, false
	}
	return t, true
}

func clone(t *domain.Task) *domain.Task {
	cp := *t
	if t.Description != nil {
		d := *t.Description
		cp.Description = &d
	}
	return &cp
}
