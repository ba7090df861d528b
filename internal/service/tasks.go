package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/kepler471/daily/internal/model"
	"github.com/kepler471/daily/internal/repository"
)

// TaskInput represents data required to create a task.
type TaskInput struct {
	Title         string
	Category      model.Category
	ScheduledTime *string // "HH:MM", optional
	Position      int     // 0 means append after the category's last task
}

// TaskService wraps task-related business logic for the CLI and bot.
type TaskService struct {
	repo *repository.TaskRepository
	log  zerolog.Logger
}

func NewTaskService(repo *repository.TaskRepository, log zerolog.Logger) *TaskService {
	return &TaskService{repo: repo, log: log.With().Str("component", "tasks").Logger()}
}

func (s *TaskService) Create(ctx context.Context, input TaskInput) (*model.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}

	category := input.Category
	if category == "" {
		category = model.CategoryRequired
	}
	if !category.Valid() {
		return nil, fmt.Errorf("unknown category %q", category)
	}

	if input.ScheduledTime != nil {
		if _, _, err := model.ParseTimeOfDay(*input.ScheduledTime); err != nil {
			return nil, err
		}
	}

	position := input.Position
	if position == 0 {
		next, err := s.repo.NextPosition(ctx, category)
		if err != nil {
			return nil, err
		}
		position = next
	}

	task := model.Task{
		Title:         title,
		Category:      category,
		ScheduledTime: input.ScheduledTime,
		Position:      position,
	}
	if err := s.repo.Create(ctx, &task); err != nil {
		return nil, err
	}
	s.log.Info().Str("task_id", task.ID).Str("title", task.Title).Msg("task created")
	return &task, nil
}

func (s *TaskService) List(ctx context.Context) ([]model.Task, error) {
	return s.repo.ListAll(ctx)
}

func (s *TaskService) Pending(ctx context.Context) ([]model.Task, error) {
	return s.repo.ListIncomplete(ctx)
}

func (s *TaskService) Get(ctx context.Context, id string) (*model.Task, error) {
	return s.repo.FindByID(ctx, id)
}

// Complete marks a task done. Reports whether anything changed, so
// callers can skip reminder resyncs on no-op toggles.
func (s *TaskService) Complete(ctx context.Context, id string) (bool, error) {
	return s.repo.SetCompletion(ctx, id, true)
}

// Reopen clears a task's completion flag.
func (s *TaskService) Reopen(ctx context.Context, id string) (bool, error) {
	return s.repo.SetCompletion(ctx, id, false)
}

func (s *TaskService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// DeleteAll wipes every task. The caller is responsible for cancelling
// any scheduled reminders afterwards.
func (s *TaskService) DeleteAll(ctx context.Context) error {
	return s.repo.DeleteAll(ctx)
}
