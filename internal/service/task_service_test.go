package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"gorm.io/gorm"

	"task-manager/internal/model"
	"task-manager/internal/repository"
)

func ptr(s string) *string { return &s }

func newTaskFixture(t *testing.T) (*TaskService, *gorm.DB, *model.User, *model.User) {
	t.Helper()
	db := newTestDB(t)

	alice := &model.User{Name: "Alice", Email: "alice@example.com", Username: "alice", PasswordHash: "x"}
	bob := &model.User{Name: "Bob", Email: "bob@example.com", Username: "bob", PasswordHash: "x"}
	for _, u := range []*model.User{alice, bob} {
		if err := db.Create(u).Error; err != nil {
			t.Fatalf("create user: %v", err)
		}
	}

	return NewTaskService(repository.NewTaskRepository(db)), db, alice, bob
}

func TestCreateDefaultsToActive(t *testing.T) {
	svc, _, alice, _ := newTaskFixture(t)

	task, err := svc.Create(context.Background(), alice.ID, TaskInput{Title: "Comprar leche"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if task.Status != model.StatusActive {
		t.Errorf("status = %q, want active", task.Status)
	}
	if task.UserID != alice.ID {
		t.Errorf("user id = %d, want %d", task.UserID, alice.ID)
	}
	if task.ID == 0 {
		t.Error("task id not assigned")
	}
}

func TestCreateValidation(t *testing.T) {
	svc, _, alice, _ := newTaskFixture(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		input TaskInput
		field string
	}{
		{"empty title", TaskInput{Title: ""}, "title"},
		{"title too long", TaskInput{Title: strings.Repeat("a", 256)}, "title"},
		{"bad status", TaskInput{Title: "ok", Status: ptr("done")}, "status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, alice.ID, tt.input)
			fields := fieldErrors(t, err)
			if _, ok := fields[tt.field]; !ok {
				t.Errorf("no error reported for %s: %v", tt.field, fields)
			}
		})
	}
}

func TestCreateAcceptsExplicitStatus(t *testing.T) {
	svc, _, alice, _ := newTaskFixture(t)

	task, err := svc.Create(context.Background(), alice.ID, TaskInput{
		Title:  "Pausada",
		Status: ptr(model.StatusInactive),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if task.Status != model.StatusInactive {
		t.Errorf("status = %q, want inactive", task.Status)
	}
}

func TestCrossUserAccessIsNotFound(t *testing.T) {
	svc, _, alice, bob := newTaskFixture(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, alice.ID, TaskInput{Title: "Buy milk"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.Get(ctx, bob.ID, task.ID); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("Get as other user = %v, want ErrTaskNotFound", err)
	}
	if _, err := svc.Update(ctx, bob.ID, task.ID, TaskInput{Title: "Stolen"}); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("Update as other user = %v, want ErrTaskNotFound", err)
	}
	if err := svc.Delete(ctx, bob.ID, task.ID); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("Delete as other user = %v, want ErrTaskNotFound", err)
	}
	if _, err := svc.ToggleStatus(ctx, bob.ID, task.ID); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("Toggle as other user = %v, want ErrTaskNotFound", err)
	}

	// The owner's task is untouched by all of the above.
	got, err := svc.Get(ctx, alice.ID, task.ID)
	if err != nil {
		t.Fatalf("Get as owner: %v", err)
	}
	if got.Title != "Buy milk" || got.Status != model.StatusActive {
		t.Errorf("task mutated by foreign access: %+v", got)
	}
}

func TestListReturnsOnlyOwnTasksNewestFirst(t *testing.T) {
	svc, _, alice, bob := newTaskFixture(t)
	ctx := context.Background()

	for _, title := range []string{"primera", "segunda", "tercera"} {
		if _, err := svc.Create(ctx, alice.ID, TaskInput{Title: title}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	if _, err := svc.Create(ctx, bob.ID, TaskInput{Title: "de bob"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	tasks, err := svc.List(ctx, alice.ID, 0, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(tasks) != 3 {
		t.Fatalf("len = %d, want 3", len(tasks))
	}
	if tasks[0].Title != "tercera" || tasks[2].Title != "primera" {
		t.Errorf("order = [%s %s %s], want newest first", tasks[0].Title, tasks[1].Title, tasks[2].Title)
	}
	for i := 1; i < len(tasks); i++ {
		if tasks[i-1].ID < tasks[i].ID {
			t.Errorf("ids not descending: %d before %d", tasks[i-1].ID, tasks[i].ID)
		}
	}
}

func TestListEmptyIsNotNil(t *testing.T) {
	svc, _, alice, _ := newTaskFixture(t)

	tasks, err := svc.List(context.Background(), alice.ID, 0, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if tasks == nil {
		t.Error("List returned nil slice, want empty")
	}
}

func TestListPagination(t *testing.T) {
	svc, _, alice, _ := newTaskFixture(t)
	ctx := context.Background()

	for _, title := range []string{"a", "b", "c", "d", "e"} {
		if _, err := svc.Create(ctx, alice.ID, TaskInput{Title: title}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	page1, err := svc.List(ctx, alice.ID, 1, 2)
	if err != nil {
		t.Fatalf("List page 1: %v", err)
	}
	page2, err := svc.List(ctx, alice.ID, 2, 2)
	if err != nil {
		t.Fatalf("List page 2: %v", err)
	}
	if len(page1) != 2 || len(page2) != 2 {
		t.Fatalf("page sizes = %d, %d, want 2, 2", len(page1), len(page2))
	}
	if page1[0].ID <= page2[0].ID {
		t.Errorf("pages out of order: %d then %d", page1[0].ID, page2[0].ID)
	}
}

func TestUpdateWhitelist(t *testing.T) {
	svc, db, alice, _ := newTaskFixture(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, alice.ID, TaskInput{
		Title:       "Original",
		Description: ptr("desc"),
		Status:      ptr(model.StatusInactive),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Only the title is sent: description and status keep their values.
	updated, err := svc.Update(ctx, alice.ID, task.ID, TaskInput{Title: "Renombrada"})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Title != "Renombrada" {
		t.Errorf("title = %q, want Renombrada", updated.Title)
	}
	if updated.Description != "desc" {
		t.Errorf("description = %q, want desc", updated.Description)
	}
	if updated.Status != model.StatusInactive {
		t.Errorf("status = %q, want inactive", updated.Status)
	}

	// Ownership is not assignable through update.
	var stored model.Task
	if err := db.First(&stored, task.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.UserID != alice.ID {
		t.Errorf("user id = %d, want %d", stored.UserID, alice.ID)
	}
}

func TestUpdateRequiresTitle(t *testing.T) {
	svc, _, alice, _ := newTaskFixture(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, alice.ID, TaskInput{Title: "Original"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err = svc.Update(ctx, alice.ID, task.ID, TaskInput{Title: ""})
	fields := fieldErrors(t, err)
	if _, ok := fields["title"]; !ok {
		t.Errorf("no title error: %v", fields)
	}
}

func TestToggleTwiceRestoresStatus(t *testing.T) {
	svc, _, alice, _ := newTaskFixture(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, alice.ID, TaskInput{Title: "Tarea"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	once, err := svc.ToggleStatus(ctx, alice.ID, task.ID)
	if err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if once.Status != model.StatusInactive {
		t.Errorf("status after first toggle = %q, want inactive", once.Status)
	}

	twice, err := svc.ToggleStatus(ctx, alice.ID, task.ID)
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if twice.Status != task.Status {
		t.Errorf("status after double toggle = %q, want %q", twice.Status, task.Status)
	}
}

func TestDeleteTwiceReportsNotFound(t *testing.T) {
	svc, _, alice, _ := newTaskFixture(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, alice.ID, TaskInput{Title: "Tarea"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := svc.Delete(ctx, alice.ID, task.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := svc.Delete(ctx, alice.ID, task.ID); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("second Delete = %v, want ErrTaskNotFound", err)
	}
}
