package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"task-manager/internal/model"
)

// TaskRepository handles persistence for tasks. Every lookup is scoped by
// owner in the same query, so a task belonging to another user is
// indistinguishable from a missing one.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

// ListByOwner returns the user's tasks, newest first. Equal creation times
// tie-break on id descending. A non-positive limit returns everything.
func (r *TaskRepository) ListByOwner(ctx context.Context, userID uint, offset, limit int) ([]model.Task, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("created_at DESC, id DESC")
	if limit > 0 {
		q = q.Offset(offset).Limit(limit)
	}
	var tasks []model.Task
	if err := q.Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *TaskRepository) FindByIDAndOwner(ctx context.Context, userID, taskID uint) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, taskID).First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *TaskRepository) Update(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Save(task).Error; err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	return nil
}

// Delete soft-deletes a task for the given user. Deleting a task that is
// already gone (or never belonged to the user) reports ErrRecordNotFound.
func (r *TaskRepository) Delete(ctx context.Context, userID, taskID uint) error {
	res := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, taskID).
		Delete(&model.Task{})
	if res.Error != nil {
		return fmt.Errorf("delete task: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ToggleStatus flips active/inactive in a single UPDATE, then re-reads the
// row. No intermediate state is observable.
func (r *TaskRepository) ToggleStatus(ctx context.Context, userID, taskID uint) (*model.Task, error) {
	res := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("user_id = ? AND id = ?", userID, taskID).
		Update("status", gorm.Expr("CASE WHEN status = ? THEN ? ELSE ? END",
			model.StatusActive, model.StatusInactive, model.StatusActive))
	if res.Error != nil {
		return nil, fmt.Errorf("toggle task status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.FindByIDAndOwner(ctx, userID, taskID)
}

// PurgeDeleted permanently removes tasks soft-deleted before the cutoff.
func (r *TaskRepository) PurgeDeleted(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Unscoped().
		Where("deleted_at IS NOT NULL AND deleted_at < ?", cutoff).
		Delete(&model.Task{})
	if res.Error != nil {
		return 0, fmt.Errorf("purge deleted tasks: %w", res.Error)
	}
	return res.RowsAffected, nil
}
