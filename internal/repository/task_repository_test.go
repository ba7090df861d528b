package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kepler471/daily/internal/model"
)

func newTestRepo(t *testing.T) *TaskRepository {
	t.Helper()
	db, err := NewDB("file:" + t.Name() + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return NewTaskRepository(db)
}

func mustCreate(t *testing.T, repo *TaskRepository, task model.Task) model.Task {
	t.Helper()
	if err := repo.Create(context.Background(), &task); err != nil {
		t.Fatalf("create: %v", err)
	}
	return task
}

func TestCreateAssignsID(t *testing.T) {
	repo := newTestRepo(t)
	task := mustCreate(t, repo, model.Task{Title: "journal", Category: model.CategoryRequired})
	if task.ID == "" {
		t.Fatal("expected generated id")
	}

	found, err := repo.FindByID(context.Background(), task.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found.Title != "journal" {
		t.Errorf("title = %q", found.Title)
	}
}

func TestFindByIDNotFound(t *testing.T) {
	repo := newTestRepo(t)
	_, err := repo.FindByID(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestListOrdering(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	mustCreate(t, repo, model.Task{Title: "b", Category: model.CategoryRequired, Position: 2})
	mustCreate(t, repo, model.Task{Title: "a", Category: model.CategoryRequired, Position: 1})
	mustCreate(t, repo, model.Task{Title: "c", Category: model.CategorySuggested, Position: 1})

	tasks, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 3 {
		t.Fatalf("listed %d tasks", len(tasks))
	}
	// required sorts before suggested, then position.
	if tasks[0].Title != "a" || tasks[1].Title != "b" || tasks[2].Title != "c" {
		t.Errorf("order = %s, %s, %s", tasks[0].Title, tasks[1].Title, tasks[2].Title)
	}
}

func TestSetCompletionNoOp(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	task := mustCreate(t, repo, model.Task{Title: "x", Category: model.CategoryRequired})

	changed, err := repo.SetCompletion(ctx, task.ID, true)
	if err != nil || !changed {
		t.Fatalf("first toggle: changed=%v err=%v", changed, err)
	}
	changed, err = repo.SetCompletion(ctx, task.ID, true)
	if err != nil {
		t.Fatal(err)
	}
	if changed {
		t.Error("setting the current value reported a change")
	}

	if _, err := repo.SetCompletion(ctx, "missing", true); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing id err = %v, want ErrNotFound", err)
	}
}

func TestResetAllCompletionAndLastResetAt(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	last, err := repo.LastResetAt(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !last.IsZero() {
		t.Errorf("fresh db last reset = %v, want zero", last)
	}

	t1 := mustCreate(t, repo, model.Task{Title: "1", Category: model.CategoryRequired, IsCompleted: true})
	t2 := mustCreate(t, repo, model.Task{Title: "2", Category: model.CategorySuggested, IsCompleted: true})

	at := time.Now().Truncate(time.Second)
	if err := repo.ResetAllCompletion(ctx, at); err != nil {
		t.Fatalf("reset: %v", err)
	}

	for _, id := range []string{t1.ID, t2.ID} {
		task, err := repo.FindByID(ctx, id)
		if err != nil {
			t.Fatal(err)
		}
		if task.IsCompleted {
			t.Errorf("task %s still completed", id)
		}
	}

	last, err = repo.LastResetAt(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !last.Equal(at) {
		t.Errorf("last reset = %v, want %v", last, at)
	}

	// Running it again is safe and just moves the instant forward.
	at2 := at.Add(24 * time.Hour)
	if err := repo.ResetAllCompletion(ctx, at2); err != nil {
		t.Fatal(err)
	}
	last, _ = repo.LastResetAt(ctx)
	if !last.Equal(at2) {
		t.Errorf("last reset = %v, want %v", last, at2)
	}
}

func TestCountIncompleteRequired(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	mustCreate(t, repo, model.Task{Title: "1", Category: model.CategoryRequired})
	mustCreate(t, repo, model.Task{Title: "2", Category: model.CategoryRequired, IsCompleted: true})
	mustCreate(t, repo, model.Task{Title: "3", Category: model.CategorySuggested})

	n, err := repo.CountIncompleteRequired(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("count = %d, want 1", n)
	}
}

func TestNextPosition(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	next, err := repo.NextPosition(ctx, model.CategoryRequired)
	if err != nil {
		t.Fatal(err)
	}
	if next != 1 {
		t.Errorf("empty category next position = %d, want 1", next)
	}

	mustCreate(t, repo, model.Task{Title: "1", Category: model.CategoryRequired, Position: 5})
	next, err = repo.NextPosition(ctx, model.CategoryRequired)
	if err != nil {
		t.Fatal(err)
	}
	if next != 6 {
		t.Errorf("next position = %d, want 6", next)
	}
}

func TestDeleteAndDeleteAll(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	t1 := mustCreate(t, repo, model.Task{Title: "1", Category: model.CategoryRequired})
	mustCreate(t, repo, model.Task{Title: "2", Category: model.CategorySuggested})

	if err := repo.Delete(ctx, t1.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.FindByID(ctx, t1.ID); !errors.Is(err, ErrNotFound) {
		t.Error("deleted task still found")
	}

	if err := repo.DeleteAll(ctx); err != nil {
		t.Fatal(err)
	}
	tasks, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 0 {
		t.Errorf("%d tasks left after DeleteAll", len(tasks))
	}
}
