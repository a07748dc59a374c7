package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/MohaiminulEraj/Containerized-To-Do-App/internal/core/domain"
	"github.com/MohaiminulEraj/Containerized-To-Do-App/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repository
// ---------------------------------------------------------------------------

type stubTaskRepo struct {
	byID       map[string]*domain.Task
	nextID     int
	clock      time.Time
	saveErr    error
	lastFilter ports.TaskFilter
}

func newStubTaskRepo() *stubTaskRepo {
	return &stubTaskRepo{
		byID:  make(map[string]*domain.Task),
		clock: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (r *stubTaskRepo) tick() time.Time {
	r.clock = r.clock.Add(time.Second)
	return r.clock
}

func (r *stubTaskRepo) Find(_ context.Context, f ports.TaskFilter) ([]*domain.Task, error) {
	r.lastFilter = f
	var out []*domain.Task
	for _, t := range r.byID {
		if t.UserID != f.UserID || !t.Matches(f.Query) {
			continue
		}
		clone := *t
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// FindByID mirrors the real stores: the owner is part of the lookup.
func (r *stubTaskRepo) FindByID(_ context.Context, id, userID string) (*domain.Task, error) {
	t, ok := r.byID[id]
	if !ok || t.UserID != userID {
		return nil, domain.ErrTaskNotFound
	}
	clone := *t
	return &clone, nil
}

func (r *stubTaskRepo) Create(_ context.Context, t *domain.Task) error {
	r.nextID++
	t.ID = fmt.Sprintf("task-%d", r.nextID)
	now := r.tick()
	t.CreatedAt, t.UpdatedAt = now, now
	clone := *t
	r.byID[t.ID] = &clone
	return nil
}

func (r *stubTaskRepo) Save(_ context.Context, t *domain.Task) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	existing, ok := r.byID[t.ID]
	if !ok || existing.UserID != t.UserID {
		return domain.ErrTaskNotFound
	}
	t.UpdatedAt = r.tick()
	clone := *t
	r.byID[t.ID] = &clone
	return nil
}

func (r *stubTaskRepo) Delete(_ context.Context, id, userID string) error {
	t, ok := r.byID[id]
	if !ok || t.UserID != userID {
		return domain.ErrTaskNotFound
	}
	delete(r.byID, id)
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var (
	alice = &domain.User{ID: "alice", Email: "alice@x.com", Name: "Alice"}
	bob   = &domain.User{ID: "bob", Email: "bob@x.com", Name: "Bob"}
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func milkInput() ports.CreateTaskInput {
	return ports.CreateTaskInput{
		Title:       "buy milk",
		Description: "2 litres",
		DueDate:     "2025-01-01",
		Category:    "shopping",
	}
}

func mustCreate(t *testing.T, svc *TaskService, user *domain.User, in ports.CreateTaskInput) *domain.Task {
	t.Helper()
	task, err := svc.Create(context.Background(), user, in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	return task
}

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestTaskService_Create_Success(t *testing.T) {
	repo := newStubTaskRepo()
	svc := NewTaskService(repo, discardLogger)

	task := mustCreate(t, svc, alice, milkInput())

	if task.ID == "" {
		t.Fatalf("expected generated id")
	}
	if task.UserID != alice.ID {
		t.Fatalf("expected owner %s, got %s", alice.ID, task.UserID)
	}
	if task.Completed {
		t.Fatalf("expected completed=false")
	}
	if task.Category != domain.CategoryShopping {
		t.Fatalf("unexpected category %s", task.Category)
	}
	want := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	if !task.DueDate.Equal(want) {
		t.Fatalf("expected due date %v, got %v", want, task.DueDate)
	}
	if task.CreatedAt.IsZero() || task.UpdatedAt.IsZero() {
		t.Fatalf("expected timestamps to be set")
	}
}

func TestTaskService_Create_Validation(t *testing.T) {
	svc := NewTaskService(newStubTaskRepo(), discardLogger)

	cases := []struct {
		name  string
		in    ports.CreateTaskInput
		field string
	}{
		{"empty title", ports.CreateTaskInput{Title: "  ", DueDate: "2025-01-01", Category: "work"}, "title"},
		{"unknown category", ports.CreateTaskInput{Title: "x", DueDate: "2025-01-01", Category: "chores"}, "category"},
		{"missing category", ports.CreateTaskInput{Title: "x", DueDate: "2025-01-01"}, "category"},
		{"bad due date", ports.CreateTaskInput{Title: "x", DueDate: "tomorrow", Category: "work"}, "dueDate"},
		{"missing due date", ports.CreateTaskInput{Title: "x", Category: "work"}, "dueDate"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), alice, tc.in)
			var verr *domain.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if _, ok := verr.Fields[tc.field]; !ok {
				t.Fatalf("expected problem for %s, got %v", tc.field, verr.Fields)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// List / Search
// ---------------------------------------------------------------------------

func TestTaskService_List_EmptyIsNotAnError(t *testing.T) {
	svc := NewTaskService(newStubTaskRepo(), discardLogger)

	tasks, err := svc.List(context.Background(), alice)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if tasks == nil || len(tasks) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", tasks)
	}
}

func TestTaskService_List_NewestFirstAndScoped(t *testing.T) {
	repo := newStubTaskRepo()
	svc := NewTaskService(repo, discardLogger)

	first := mustCreate(t, svc, alice, milkInput())
	second := mustCreate(t, svc, alice, ports.CreateTaskInput{Title: "gym", DueDate: "2025-02-01", Category: "health"})
	mustCreate(t, svc, bob, ports.CreateTaskInput{Title: "report", DueDate: "2025-02-01", Category: "work"})

	tasks, err := svc.List(context.Background(), alice)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}
	if tasks[0].ID != second.ID || tasks[1].ID != first.ID {
		t.Fatalf("expected newest first, got %s then %s", tasks[0].ID, tasks[1].ID)
	}
	if repo.lastFilter.UserID != alice.ID {
		t.Fatalf("expected filter by owner, got %+v", repo.lastFilter)
	}
}

func TestTaskService_Search(t *testing.T) {
	svc := NewTaskService(newStubTaskRepo(), discardLogger)

	mustCreate(t, svc, alice, milkInput())
	mustCreate(t, svc, alice, ports.CreateTaskInput{Title: "gym", Description: "leg day", DueDate: "2025-02-01", Category: "health"})
	mustCreate(t, svc, bob, ports.CreateTaskInput{Title: "buy MILK for office", DueDate: "2025-02-01", Category: "work"})

	tasks, err := svc.Search(context.Background(), alice, "  Milk ")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Title != "buy milk" {
		t.Fatalf("unexpected search result: %+v", tasks)
	}

	tasks, _ = svc.Search(context.Background(), alice, "LEG")
	if len(tasks) != 1 || tasks[0].Title != "gym" {
		t.Fatalf("expected description match, got %+v", tasks)
	}

	tasks, _ = svc.Search(context.Background(), alice, "")
	if len(tasks) != 2 {
		t.Fatalf("expected empty query to list all, got %d", len(tasks))
	}
}

// ---------------------------------------------------------------------------
// Update
// ---------------------------------------------------------------------------

func TestTaskService_Update_PartialLeavesOtherFields(t *testing.T) {
	svc := NewTaskService(newStubTaskRepo(), discardLogger)
	created := mustCreate(t, svc, alice, milkInput())

	updated, err := svc.Update(context.Background(), alice, created.ID, ports.UpdateTaskInput{Title: strPtr("x")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if updated.Title != "x" {
		t.Fatalf("expected title x, got %s", updated.Title)
	}
	if updated.Description != created.Description ||
		!updated.DueDate.Equal(created.DueDate) ||
		updated.Category != created.Category ||
		updated.Completed != created.Completed ||
		updated.UserID != created.UserID ||
		!updated.CreatedAt.Equal(created.CreatedAt) {
		t.Fatalf("partial update changed other fields: before %+v after %+v", created, updated)
	}
}

func TestTaskService_Update_AllFields(t *testing.T) {
	svc := NewTaskService(newStubTaskRepo(), discardLogger)
	created := mustCreate(t, svc, alice, milkInput())

	updated, err := svc.Update(context.Background(), alice, created.ID, ports.UpdateTaskInput{
		Title:       strPtr("buy oat milk"),
		Description: strPtr(""),
		DueDate:     strPtr("2025-03-04T10:00:00Z"),
		Category:    strPtr("personal"),
		Completed:   boolPtr(true),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "buy oat milk" || updated.Description != "" || updated.Category != domain.CategoryPersonal || !updated.Completed {
		t.Fatalf("unexpected task: %+v", updated)
	}
	if !updated.DueDate.Equal(time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected due date %v", updated.DueDate)
	}
}

func TestTaskService_Update_Validation(t *testing.T) {
	svc := NewTaskService(newStubTaskRepo(), discardLogger)
	created := mustCreate(t, svc, alice, milkInput())

	_, err := svc.Update(context.Background(), alice, created.ID, ports.UpdateTaskInput{Title: strPtr(""), Category: strPtr("fun")})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Fields) != 2 {
		t.Fatalf("expected title and category problems, got %v", verr.Fields)
	}
}

func TestTaskService_Update_StoreFailure(t *testing.T) {
	repo := newStubTaskRepo()
	svc := NewTaskService(repo, discardLogger)
	created := mustCreate(t, svc, alice, milkInput())

	repo.saveErr = errors.New("db down")
	if _, err := svc.Update(context.Background(), alice, created.ID, ports.UpdateTaskInput{Title: strPtr("x")}); err == nil {
		t.Fatalf("expected error")
	}
}

// ---------------------------------------------------------------------------
// Ownership
// ---------------------------------------------------------------------------

func TestTaskService_ForeignTaskIsNotFound(t *testing.T) {
	repo := newStubTaskRepo()
	svc := NewTaskService(repo, discardLogger)
	bobsTask := mustCreate(t, svc, bob, milkInput())

	if _, err := svc.Update(context.Background(), alice, bobsTask.ID, ports.UpdateTaskInput{Title: strPtr("mine")}); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("update: expected ErrTaskNotFound, got %v", err)
	}
	if _, err := svc.Toggle(context.Background(), alice, bobsTask.ID); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("toggle: expected ErrTaskNotFound, got %v", err)
	}
	if err := svc.Delete(context.Background(), alice, bobsTask.ID); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("delete: expected ErrTaskNotFound, got %v", err)
	}

	// The same error as for an id that never existed.
	if _, err := svc.Toggle(context.Background(), alice, "missing"); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound for missing id, got %v", err)
	}

	stored := repo.byID[bobsTask.ID]
	if stored == nil || stored.Title != "buy milk" || stored.Completed {
		t.Fatalf("bob's task was modified: %+v", stored)
	}
}

// ---------------------------------------------------------------------------
// Toggle / Delete
// ---------------------------------------------------------------------------

func TestTaskService_ToggleTwiceRestores(t *testing.T) {
	svc := NewTaskService(newStubTaskRepo(), discardLogger)
	created := mustCreate(t, svc, alice, milkInput())

	once, err := svc.Toggle(context.Background(), alice, created.ID)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !once.Completed {
		t.Fatalf("expected completed=true after first toggle")
	}

	twice, err := svc.Toggle(context.Background(), alice, created.ID)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if twice.Completed != created.Completed {
		t.Fatalf("expected original state %v, got %v", created.Completed, twice.Completed)
	}
}

func TestTaskService_Delete(t *testing.T) {
	repo := newStubTaskRepo()
	svc := NewTaskService(repo, discardLogger)
	created := mustCreate(t, svc, alice, milkInput())

	if err := svc.Delete(context.Background(), alice, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := repo.byID[created.ID]; ok {
		t.Fatalf("expected task to be removed")
	}
	if err := svc.Delete(context.Background(), alice, created.ID); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound on second delete, got %v", err)
	}
}

func TestTaskService_Get_ScopedToOwner(t *testing.T) {
	svc := NewTaskService(newStubTaskRepo(), discardLogger)
	created := mustCreate(t, svc, alice, milkInput())

	got, err := svc.Get(context.Background(), alice, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != created.ID || got.Title != created.Title {
		t.Fatalf("unexpected task %+v", got)
	}

	if _, err := svc.Get(context.Background(), bob, created.ID); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound for foreign task, got %v", err)
	}
	if _, err := svc.Get(context.Background(), alice, "missing"); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound for missing task, got %v", err)
	}
}
