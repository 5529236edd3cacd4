// Package taskstest holds behaviour tests shared by every tasks.Tasker
// implementation.
package taskstest

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	tasksrepo "github.com/alexploopy/todo-list/internal/pkg/tasks"
)

// Run exercises a Tasker created fresh by newTasker for every subtest.
func Run(t *testing.T, newTasker func(t *testing.T) tasksrepo.Tasker) {
	t.Run("AddAndList", func(t *testing.T) { testAddAndList(t, newTasker(t)) })
	t.Run("DefaultPriority", func(t *testing.T) { testDefaultPriority(t, newTasker(t)) })
	t.Run("ToggleRoundTrip", func(t *testing.T) { testToggleRoundTrip(t, newTasker(t)) })
	t.Run("PartialPatch", func(t *testing.T) { testPartialPatch(t, newTasker(t)) })
	t.Run("UpdateMissing", func(t *testing.T) { testUpdateMissing(t, newTasker(t)) })
	t.Run("DeleteThenUpdate", func(t *testing.T) { testDeleteThenUpdate(t, newTasker(t)) })
	t.Run("OwnerScoping", func(t *testing.T) { testOwnerScoping(t, newTasker(t)) })
	t.Run("ListReturnsCopies", func(t *testing.T) { testListReturnsCopies(t, newTasker(t)) })
}

func newUserID() string {
	return uuid.New().String()
}

func testAddAndList(t *testing.T, store tasksrepo.Tasker) {
	ctx := context.Background()
	alice, bob := newUserID(), newUserID()

	added, err := store.AddTask(ctx, alice, "buy milk", tasksrepo.PriorityHigh)
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	if added.ID == "" || added.UserID != alice || added.Completed {
		t.Fatalf("unexpected task: %+v", added)
	}

	list, err := store.ListTasksForUser(ctx, alice)
	if err != nil {
		t.Fatalf("ListTasksForUser: %v", err)
	}
	matches := 0
	for _, task := range list {
		if task.Title == "buy milk" && task.Priority == tasksrepo.PriorityHigh && !task.Completed {
			matches++
		}
	}
	if matches != 1 {
		t.Fatalf("got %d matching tasks for owner, want 1: %+v", matches, list)
	}

	other, err := store.ListTasksForUser(ctx, bob)
	if err != nil {
		t.Fatalf("ListTasksForUser: %v", err)
	}
	if len(other) != 0 {
		t.Fatalf("other user sees %d tasks, want 0", len(other))
	}
}

func testDefaultPriority(t *testing.T, store tasksrepo.Tasker) {
	task, err := store.AddTask(context.Background(), newUserID(), "  spaced title ", "")
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	if task.Priority != tasksrepo.PriorityMedium {
		t.Errorf("Priority: got %q, want %q", task.Priority, tasksrepo.PriorityMedium)
	}
	if task.Title != "  spaced title " {
		t.Errorf("Title: got %q, want it stored verbatim", task.Title)
	}
}

func testToggleRoundTrip(t *testing.T, store tasksrepo.Tasker) {
	ctx := context.Background()
	user := newUserID()
	task, err := store.AddTask(ctx, user, "write report", tasksrepo.PriorityLow)
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}

	done, undone := true, false
	if _, err := store.UpdateTask(ctx, user, task.ID, tasksrepo.Patch{Completed: &done}); err != nil {
		t.Fatalf("UpdateTask(completed=true): %v", err)
	}
	got, err := store.UpdateTask(ctx, user, task.ID, tasksrepo.Patch{Completed: &undone})
	if err != nil {
		t.Fatalf("UpdateTask(completed=false): %v", err)
	}
	if got.Completed != task.Completed || got.Title != task.Title || got.Priority != task.Priority {
		t.Fatalf("round trip changed task: before %+v, after %+v", task, got)
	}
}

func testPartialPatch(t *testing.T, store tasksrepo.Tasker) {
	ctx := context.Background()
	user := newUserID()
	task, err := store.AddTask(ctx, user, "old", tasksrepo.PriorityMedium)
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}

	title := "new"
	got, err := store.UpdateTask(ctx, user, task.ID, tasksrepo.Patch{Title: &title})
	if err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	if got.Title != "new" || got.Priority != tasksrepo.PriorityMedium || got.Completed {
		t.Fatalf("title patch: got %+v", got)
	}

	high := tasksrepo.PriorityHigh
	got, err = store.UpdateTask(ctx, user, task.ID, tasksrepo.Patch{Priority: &high})
	if err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	if got.Title != "new" || got.Priority != tasksrepo.PriorityHigh {
		t.Fatalf("priority patch: got %+v", got)
	}

	list, err := store.ListTasksForUser(ctx, user)
	if err != nil {
		t.Fatalf("ListTasksForUser: %v", err)
	}
	if len(list) != 1 || list[0].Title != "new" || list[0].Priority != tasksrepo.PriorityHigh {
		t.Fatalf("stored task: got %+v", list)
	}
}

func testUpdateMissing(t *testing.T, store tasksrepo.Tasker) {
	done := true
	_, err := store.UpdateTask(context.Background(), newUserID(), uuid.New().String(), tasksrepo.Patch{Completed: &done})
	if !errors.Is(err, tasksrepo.ErrNoTask) {
		t.Fatalf("UpdateTask on missing id: got %v, want ErrNoTask", err)
	}
}

func testDeleteThenUpdate(t *testing.T, store tasksrepo.Tasker) {
	ctx := context.Background()
	user := newUserID()
	task, err := store.AddTask(ctx, user, "temp", tasksrepo.PriorityLow)
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}

	if err := store.DeleteTask(ctx, user, task.ID); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
	if err := store.DeleteTask(ctx, user, task.ID); err != nil {
		t.Fatalf("second DeleteTask: %v", err)
	}

	title := "back"
	if _, err := store.UpdateTask(ctx, user, task.ID, tasksrepo.Patch{Title: &title}); !errors.Is(err, tasksrepo.ErrNoTask) {
		t.Fatalf("UpdateTask after delete: got %v, want ErrNoTask", err)
	}

	list, err := store.ListTasksForUser(ctx, user)
	if err != nil {
		t.Fatalf("ListTasksForUser: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("got %d tasks after delete, want 0", len(list))
	}
}

func testOwnerScoping(t *testing.T, store tasksrepo.Tasker) {
	ctx := context.Background()
	owner, intruder := newUserID(), newUserID()
	task, err := store.AddTask(ctx, owner, "private", tasksrepo.PriorityMedium)
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}

	done := true
	if _, err := store.UpdateTask(ctx, intruder, task.ID, tasksrepo.Patch{Completed: &done}); !errors.Is(err, tasksrepo.ErrNoTask) {
		t.Fatalf("UpdateTask by other user: got %v, want ErrNoTask", err)
	}
	if err := store.DeleteTask(ctx, intruder, task.ID); err != nil {
		t.Fatalf("DeleteTask by other user: %v", err)
	}

	list, err := store.ListTasksForUser(ctx, owner)
	if err != nil {
		t.Fatalf("ListTasksForUser: %v", err)
	}
	if len(list) != 1 || list[0].Completed {
		t.Fatalf("owner task changed by other user: %+v", list)
	}
}

func testListReturnsCopies(t *testing.T, store tasksrepo.Tasker) {
	ctx := context.Background()
	user := newUserID()
	if _, err := store.AddTask(ctx, user, "original", tasksrepo.PriorityMedium); err != nil {
		t.Fatalf("AddTask: %v", err)
	}

	list, err := store.ListTasksForUser(ctx, user)
	if err != nil {
		t.Fatalf("ListTasksForUser: %v", err)
	}
	list[0].Title = "mutated"

	list, err = store.ListTasksForUser(ctx, user)
	if err != nil {
		t.Fatalf("ListTasksForUser: %v", err)
	}
	if list[0].Title != "original" {
		t.Fatalf("store aliased returned task: got %q", list[0].Title)
	}
}
