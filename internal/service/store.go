package service

import (
	"context"
	"time"

	"github.com/kepler471/daily/internal/model"
)

// TaskStore is the slice of the repository the reset scheduler and the
// synchronizer depend on. *repository.TaskRepository satisfies it;
// tests substitute an in-memory fake.
type TaskStore interface {
	ListAll(ctx context.Context) ([]model.Task, error)
	ListIncomplete(ctx context.Context) ([]model.Task, error)
	FindByID(ctx context.Context, id string) (*model.Task, error)
	SetCompletion(ctx context.Context, id string, done bool) (bool, error)
	CountIncompleteRequired(ctx context.Context) (int64, error)
	ResetAllCompletion(ctx context.Context, at time.Time) error
	LastResetAt(ctx context.Context) (time.Time, error)
}
