package service

import (
	"context"
	"errors"
	"unicode/utf8"

	"gorm.io/gorm"

	"task-manager/internal/model"
	"task-manager/internal/repository"
)

const maxTitleLength = 255

// TaskInput carries the writable task fields. Description and Status are
// pointers so an omitted field can be told apart from an empty one on update.
// Owner assignment never goes through this struct.
type TaskInput struct {
	Title       string
	Description *string
	Status      *string
}

// TaskService wraps task business logic on top of the owner-scoped repository.
type TaskService struct {
	tasks *repository.TaskRepository
}

func NewTaskService(tasks *repository.TaskRepository) *TaskService {
	return &TaskService{tasks: tasks}
}

func validateTask(input TaskInput) error {
	vErr := newValidationError()

	switch {
	case input.Title == "":
		vErr.add("title", "El título es obligatorio")
	case utf8.RuneCountInString(input.Title) > maxTitleLength:
		vErr.add("title", "El título no debe exceder los 255 caracteres")
	}

	if input.Status != nil && *input.Status != "" &&
		*input.Status != model.StatusActive && *input.Status != model.StatusInactive {
		vErr.add("status", "El estado debe ser active o inactive")
	}

	if !vErr.ok() {
		return vErr
	}
	return nil
}

func (s *TaskService) Create(ctx context.Context, userID uint, input TaskInput) (*model.Task, error) {
	if err := validateTask(input); err != nil {
		return nil, err
	}

	task := model.Task{
		UserID: userID,
		Title:  input.Title,
		Status: model.StatusActive,
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Status != nil && *input.Status != "" {
		task.Status = *input.Status
	}

	if err := s.tasks.Create(ctx, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// List returns the caller's tasks, newest first. Page and perPage are
// optional; non-positive values return the full list.
func (s *TaskService) List(ctx context.Context, userID uint, page, perPage int) ([]model.Task, error) {
	offset, limit := 0, 0
	if perPage > 0 {
		if perPage > 100 {
			perPage = 100
		}
		if page < 1 {
			page = 1
		}
		offset, limit = (page-1)*perPage, perPage
	}

	tasks, err := s.tasks.ListByOwner(ctx, userID, offset, limit)
	if err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	return tasks, nil
}

func (s *TaskService) Get(ctx context.Context, userID, taskID uint) (*model.Task, error) {
	task, err := s.tasks.FindByIDAndOwner(ctx, userID, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return task, nil
}

// Update rewrites the whitelisted fields of the caller's task. The ownership
// check runs before validation, so a foreign task id is always a plain 404.
func (s *TaskService) Update(ctx context.Context, userID, taskID uint, input TaskInput) (*model.Task, error) {
	task, err := s.Get(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}
	if err := validateTask(input); err != nil {
		return nil, err
	}

	task.Title = input.Title
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Status != nil && *input.Status != "" {
		task.Status = *input.Status
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, userID, taskID uint) error {
	if err := s.tasks.Delete(ctx, userID, taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return err
	}
	return nil
}

func (s *TaskService) ToggleStatus(ctx context.Context, userID, taskID uint) (*model.Task, error) {
	task, err := s.tasks.ToggleStatus(ctx, userID, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return task, nil
}
