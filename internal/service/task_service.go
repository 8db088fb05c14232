package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"todo_api/internal/domain"
	"todo_api/internal/repository"

	"github.com/google/uuid"
)

// TaskStore is the task repository. Every method is scoped by owner.
type TaskStore interface {
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Task, error)
	Create(ctx context.Context, t *domain.Task) error
	GetOwned(ctx context.Context, ownerID, taskID string) (*domain.Task, error)
	Update(ctx context.Context, t *domain.Task) (*domain.Task, error)
	SetCompleted(ctx context.Context, ownerID, taskID string, completed bool, at time.Time) (*domain.Task, error)
	Delete(ctx context.Context, ownerID, taskID string) error
}

// TaskService applies the task rules. ownerID must always come from the
// authenticated identity, never from the request path.
type TaskService struct {
	tasks TaskStore
	now   func() time.Time
}

func NewTaskService(tasks TaskStore) *TaskService {
	return NewTaskServiceWithClock(tasks, time.Now)
}

func NewTaskServiceWithClock(tasks TaskStore, now func() time.Time) *TaskService {
	return &TaskService{tasks: tasks, now: now}
}

func (s *TaskService) List(ctx context.Context, ownerID string) ([]*domain.Task, error) {
	return s.tasks.ListByOwner(ctx, ownerID)
}

func (s *TaskService) Create(ctx context.Context, ownerID, title string, description *string) (*domain.Task, error) {
	verr := &ValidationError{}
	title = checkTitle(verr, title)
	checkDescription(verr, description)
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	now := s.timestamp()
	t := &domain.Task{
		ID:          uuid.NewString(),
		UserID:      ownerID,
		Title:       title,
		Description: description,
		Completed:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.tasks.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *TaskService) Get(ctx context.Context, ownerID, taskID string) (*domain.Task, error) {
	return mapNotFound(s.tasks.GetOwned(ctx, ownerID, taskID))
}

// Update overwrites the fields present in patch and always refreshes updated_at.
func (s *TaskService) Update(ctx context.Context, ownerID, taskID string, patch domain.TaskPatch) (*domain.Task, error) {
	verr := &ValidationError{}
	var title string
	if patch.Title != nil {
		title = checkTitle(verr, *patch.Title)
	}
	checkDescription(verr, patch.Description)
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	t, err := s.Get(ctx, ownerID, taskID)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		t.Title = title
	}
	if patch.Description != nil {
		t.Description = patch.Description
	}
	if patch.Completed != nil {
		t.Completed = *patch.Completed
	}
	t.UpdatedAt = s.timestamp()

	return mapNotFound(s.tasks.Update(ctx, t))
}

func (s *TaskService) SetCompleted(ctx context.Context, ownerID, taskID string, completed bool) (*domain.Task, error) {
	return mapNotFound(s.tasks.SetCompleted(ctx, ownerID, taskID, completed, s.timestamp()))
}

func (s *TaskService) Delete(ctx context.Context, ownerID, taskID string) error {
	err := s.tasks.Delete(ctx, ownerID, taskID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// timestamp is truncated to what Postgres stores.
func (s *TaskService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

func checkTitle(verr *ValidationError, title string) string {
	title = strings.TrimSpace(title)
	switch {
	case title == "":
		verr.add("title", "cannot be empty or whitespace-only")
	case utf8.RuneCountInString(title) > domain.TitleMaxLen:
		verr.add("title", "must be at most 200 characters")
	}
	return title
}

func checkDescription(verr *ValidationError, description *string) {
	if description != nil && utf8.RuneCountInString(*description) > domain.DescriptionMaxLen {
		verr.add("description", "must be at most 2000 characters")
	}
}

func mapNotFound(t *domain.Task, err error) (*domain.Task, error) {
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	return t, err
}

var _ TaskStore = (*repository.TaskRepository)(nil)
