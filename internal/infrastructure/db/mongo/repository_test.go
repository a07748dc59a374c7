package mongo

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/MohaiminulEraj/Containerized-To-Do-App/internal/core/domain"
	"github.com/MohaiminulEraj/Containerized-To-Do-App/internal/core/ports"
)

var (
	_ ports.UserRepository = (*UserRepository)(nil)
	_ ports.TaskRepository = (*TaskRepository)(nil)
)

func TestUserRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("create assigns id", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		repo := NewUserRepository(mt.DB)

		u, err := repo.Create(context.Background(), &domain.User{Email: "a@x.com", Name: "A", PasswordHash: "h"})
		if err != nil {
			mt.Fatalf("create: %v", err)
		}
		if u.ID == "" || u.Email != "a@x.com" {
			mt.Fatalf("unexpected user %+v", u)
		}
	})

	mt.Run("duplicate email", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))
		repo := NewUserRepository(mt.DB)

		_, err := repo.Create(context.Background(), &domain.User{Email: "a@x.com", Name: "A", PasswordHash: "h"})
		if !errors.Is(err, domain.ErrUserExists) {
			mt.Fatalf("expected ErrUserExists, got %v", err)
		}
	})

	mt.Run("find by email", func(mt *mtest.T) {
		created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "todo_db.users", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "u-1"},
			{Key: "email", Value: "a@x.com"},
			{Key: "name", Value: "A"},
			{Key: "password_hash", Value: "hash"},
			{Key: "created_at", Value: created},
			{Key: "updated_at", Value: created},
		}))
		repo := NewUserRepository(mt.DB)

		u, err := repo.FindByEmail(context.Background(), "a@x.com")
		if err != nil {
			mt.Fatalf("find: %v", err)
		}
		if u.ID != "u-1" || u.PasswordHash != "hash" || !u.CreatedAt.Equal(created) {
			mt.Fatalf("unexpected user %+v", u)
		}
	})

	mt.Run("not found", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "todo_db.users", mtest.FirstBatch))
		repo := NewUserRepository(mt.DB)

		if _, err := repo.FindByID(context.Background(), "missing"); !errors.Is(err, domain.ErrUserNotFound) {
			mt.Fatalf("expected ErrUserNotFound, got %v", err)
		}
	})
}

func taskDoc(id, title string, created time.Time) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "title", Value: title},
		{Key: "description", Value: ""},
		{Key: "due_date", Value: created.Add(24 * time.Hour)},
		{Key: "category", Value: "work"},
		{Key: "completed", Value: false},
		{Key: "user_id", Value: "u-1"},
		{Key: "created_at", Value: created},
		{Key: "updated_at", Value: created},
	}
}

func TestTaskRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	mt.Run("find", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "todo_db.todos", mtest.FirstBatch,
			taskDoc("t-2", "second", base.Add(time.Minute)),
			taskDoc("t-1", "first", base),
		))
		repo := NewTaskRepository(mt.DB)

		tasks, err := repo.Find(context.Background(), ports.TaskFilter{UserID: "u-1", Query: "e"})
		if err != nil {
			mt.Fatalf("find: %v", err)
		}
		if len(tasks) != 2 || tasks[0].ID != "t-2" || tasks[1].Category != domain.CategoryWork {
			mt.Fatalf("unexpected tasks %+v", tasks)
		}
	})

	mt.Run("find empty", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "todo_db.todos", mtest.FirstBatch))
		repo := NewTaskRepository(mt.DB)

		tasks, err := repo.Find(context.Background(), ports.TaskFilter{UserID: "u-1"})
		if err != nil {
			mt.Fatalf("find: %v", err)
		}
		if tasks == nil || len(tasks) != 0 {
			mt.Fatalf("expected empty non-nil slice, got %#v", tasks)
		}
	})

	mt.Run("find by id not found", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "todo_db.todos", mtest.FirstBatch))
		repo := NewTaskRepository(mt.DB)

		if _, err := repo.FindByID(context.Background(), "t-1", "u-2"); !errors.Is(err, domain.ErrTaskNotFound) {
			mt.Fatalf("expected ErrTaskNotFound, got %v", err)
		}
	})

	mt.Run("create sets timestamps", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		repo := NewTaskRepository(mt.DB)

		task := &domain.Task{Title: "t", Category: domain.CategoryWork, DueDate: base, UserID: "u-1"}
		if err := repo.Create(context.Background(), task); err != nil {
			mt.Fatalf("create: %v", err)
		}
		if task.ID == "" || task.CreatedAt.IsZero() || !task.CreatedAt.Equal(task.UpdatedAt) {
			mt.Fatalf("unexpected task %+v", task)
		}
	})

	mt.Run("save", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))
		repo := NewTaskRepository(mt.DB)

		task := &domain.Task{ID: "t-1", UserID: "u-1", Title: "t", CreatedAt: base, UpdatedAt: base}
		if err := repo.Save(context.Background(), task); err != nil {
			mt.Fatalf("save: %v", err)
		}
		if !task.UpdatedAt.After(base) {
			mt.Fatalf("expected updatedAt to advance")
		}
	})

	mt.Run("save foreign task", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))
		repo := NewTaskRepository(mt.DB)

		err := repo.Save(context.Background(), &domain.Task{ID: "t-1", UserID: "u-2"})
		if !errors.Is(err, domain.ErrTaskNotFound) {
			mt.Fatalf("expected ErrTaskNotFound, got %v", err)
		}
	})

	mt.Run("delete", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))
		repo := NewTaskRepository(mt.DB)

		if err := repo.Delete(context.Background(), "t-1", "u-1"); err != nil {
			mt.Fatalf("delete: %v", err)
		}
	})

	mt.Run("delete missing", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))
		repo := NewTaskRepository(mt.DB)

		if err := repo.Delete(context.Background(), "t-1", "u-1"); !errors.Is(err, domain.ErrTaskNotFound) {
			mt.Fatalf("expected ErrTaskNotFound, got %v", err)
		}
	})
}
