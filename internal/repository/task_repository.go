package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kepler471/daily/internal/model"
)

// ErrNotFound is returned when a task id does not exist in the store.
var ErrNotFound = errors.New("task not found")

// TaskRepository handles CRUD for tasks and the reset bookkeeping.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create inserts a task, assigning a fresh id when none is set.
func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

func (r *TaskRepository) ListAll(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).
		Order("category ASC, position ASC, created_at ASC").
		Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

func (r *TaskRepository) ListIncomplete(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).Where("is_completed = ?", false).
		Order("category ASC, position ASC, created_at ASC").
		Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list incomplete tasks: %w", err)
	}
	return tasks, nil
}

func (r *TaskRepository) FindByID(ctx context.Context, id string) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&task).Error
	switch {
	case err == nil:
		return &task, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("task %s: %w", id, ErrNotFound)
	default:
		return nil, fmt.Errorf("find task: %w", err)
	}
}

// SetCompletion flips a task's completion flag and reports whether the
// stored value actually changed. Setting the current value is a no-op
// and skips the write entirely.
func (r *TaskRepository) SetCompletion(ctx context.Context, id string, done bool) (bool, error) {
	task, err := r.FindByID(ctx, id)
	if err != nil {
		return false, err
	}
	if task.IsCompleted == done {
		return false, nil
	}
	if err := r.db.WithContext(ctx).Model(task).Update("is_completed", done).Error; err != nil {
		return false, fmt.Errorf("set completion: %w", err)
	}
	return true, nil
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Where("id = ?", id).
		Delete(&model.Task{}).Error; err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

// DeleteAll wipes every task. Used by the full data reset.
func (r *TaskRepository) DeleteAll(ctx context.Context) error {
	if err := r.db.WithContext(ctx).Where("1 = 1").Delete(&model.Task{}).Error; err != nil {
		return fmt.Errorf("delete all tasks: %w", err)
	}
	return nil
}

func (r *TaskRepository) CountIncompleteRequired(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("is_completed = ? AND category = ?", false, model.CategoryRequired).
		Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count incomplete required: %w", err)
	}
	return n, nil
}

// NextPosition returns one past the highest position in a category.
func (r *TaskRepository) NextPosition(ctx context.Context, category model.Category) (int, error) {
	var max sql.NullInt64
	if err := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("category = ?", category).
		Select("MAX(position)").Scan(&max).Error; err != nil {
		return 0, fmt.Errorf("next position: %w", err)
	}
	if !max.Valid {
		return 1, nil
	}
	return int(max.Int64) + 1, nil
}

// ResetAllCompletion clears every completion flag and records the reset
// instant in one transaction, so a failure leaves the day untouched.
func (r *TaskRepository) ResetAllCompletion(ctx context.Context, at time.Time) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Task{}).Where("is_completed = ?", true).
			Update("is_completed", false).Error; err != nil {
			return err
		}
		state := model.ResetState{ID: 1}
		if err := tx.Where(model.ResetState{ID: 1}).FirstOrCreate(&state).Error; err != nil {
			return err
		}
		return tx.Model(&state).Update("last_reset_at", at).Error
	})
	if err != nil {
		return fmt.Errorf("reset completion: %w", err)
	}
	return nil
}

// LastResetAt returns the recorded reset instant, zero if none yet.
func (r *TaskRepository) LastResetAt(ctx context.Context) (time.Time, error) {
	var state model.ResetState
	err := r.db.WithContext(ctx).First(&state, 1).Error
	switch {
	case err == nil:
		return state.LastResetAt, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return time.Time{}, nil
	default:
		return time.Time{}, fmt.Errorf("read reset state: %w", err)
	}
}
