package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/adanyl0v/go-task-manager/internal/models"
)

func TestCreateTask_Defaults(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice", "a@x.com")

	task, err := env.tasks.CreateTask(context.Background(), alice, CreateTaskParams{Title: "Buy milk"})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	if task.UserID != alice.ID {
		t.Errorf("UserID = %d, want %d", task.UserID, alice.ID)
	}
	if task.Priority != models.PriorityMedium || task.Status != models.StatusPending {
		t.Errorf("priority/status = %q/%q, want medium/pending", task.Priority, task.Status)
	}
	if task.DueDate != nil {
		t.Errorf("DueDate = %v, want nil", task.DueDate)
	}
	if !task.CreatedAt.Equal(testNow) {
		t.Errorf("CreatedAt = %v, want %v", task.CreatedAt, testNow)
	}
}

func TestCreateTask_Validation(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice", "a@x.com")

	testCases := []struct {
		name      string
		params    CreateTaskParams
		wantField string
		wantMsg   string
	}{
		{
			name:      "due date yesterday",
			params:    CreateTaskParams{Title: "late", DueDate: ptr("2026-02-28")},
			wantField: "due_date",
			wantMsg:   msgDueDateInPast,
		},
		{
			name:      "malformed due date",
			params:    CreateTaskParams{Title: "late", DueDate: ptr("01/03/2026")},
			wantField: "due_date",
			wantMsg:   msgInvalidDate,
		},
		{
			name:      "missing title",
			params:    CreateTaskParams{Description: "no title"},
			wantField: "title",
			wantMsg:   msgRequired,
		},
		{
			name:      "whitespace title",
			params:    CreateTaskParams{Title: "   "},
			wantField: "title",
			wantMsg:   msgBlank,
		},
		{
			name:      "title too long",
			params:    CreateTaskParams{Title: strings.Repeat("x", 101)},
			wantField: "title",
			wantMsg:   "Ensure this field has no more than 100 characters.",
		},
		{
			name:      "unknown priority",
			params:    CreateTaskParams{Title: "x", Priority: "urgent"},
			wantField: "priority",
			wantMsg:   `"urgent" is not a valid choice.`,
		},
		{
			name:      "unknown status",
			params:    CreateTaskParams{Title: "x", Status: "archived"},
			wantField: "status",
			wantMsg:   `"archived" is not a valid choice.`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.tasks.CreateTask(context.Background(), alice, tc.params)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("error = %v, want *ValidationError", err)
			}
			if !containsMessage(verr.Fields[tc.wantField], tc.wantMsg) {
				t.Errorf("Fields[%q] = %v, want %q", tc.wantField, verr.Fields[tc.wantField], tc.wantMsg)
			}
		})
	}

	tasks, err := env.tasks.ListTasks(context.Background(), alice)
	if err != nil {
		t.Fatalf("list tasks: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("invalid tasks were stored: %d", len(tasks))
	}
}

func TestCreateTask_TrimsTitle(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice", "a@x.com")

	title := strings.Repeat("x", 100)
	task, err := env.tasks.CreateTask(context.Background(), alice, CreateTaskParams{
		Title:       " " + title + " ",
		Description: "  2 litres\n",
	})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	if task.Title != title {
		t.Errorf("Title = %q, want %q", task.Title, title)
	}
	if task.Description != "2 litres" {
		t.Errorf("Description = %q, want %q", task.Description, "2 litres")
	}
}

func TestCreateTask_DueDateBoundary(t *testing.T) {
	testCases := []struct {
		name    string
		dueDate string
		wantErr bool
	}{
		{name: "yesterday", dueDate: "2026-02-28", wantErr: true},
		{name: "today", dueDate: "2026-03-01", wantErr: false},
		{name: "tomorrow", dueDate: "2026-03-02", wantErr: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(t)
			alice := env.register(t, "alice", "a@x.com")

			task, err := env.tasks.CreateTask(context.Background(), alice, CreateTaskParams{
				Title:   "task",
				DueDate: ptr(tc.dueDate),
			})
			if tc.wantErr {
				if !errors.Is(err, ErrValidation) {
					t.Errorf("error = %v, want ErrValidation", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("create task: %v", err)
			}
			if got := task.DueDate.Format(time.DateOnly); got != tc.dueDate {
				t.Errorf("DueDate = %s, want %s", got, tc.dueDate)
			}
		})
	}
}

func TestCreateTask_TodayFollowsLocation(t *testing.T) {
	env := newTestEnvInLocation(t, time.FixedZone("UTC+12", 12*60*60))
	alice := env.register(t, "alice", "a@x.com")

	// 13:00 UTC is already March 2 in UTC+12.
	env.clock.Set(time.Date(2026, 3, 1, 13, 0, 0, 0, time.UTC))

	_, err := env.tasks.CreateTask(context.Background(), alice, CreateTaskParams{
		Title:   "task",
		DueDate: ptr("2026-03-01"),
	})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("error = %v, want ErrValidation", err)
	}
}

func TestListTasks_OnlyOwnTasks(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice", "a@x.com")
	bob := env.register(t, "bob", "b@x.com")

	for _, title := range []string{"a1", "a2"} {
		if _, err := env.tasks.CreateTask(ctx, alice, CreateTaskParams{Title: title}); err != nil {
			t.Fatalf("create task: %v", err)
		}
	}
	if _, err := env.tasks.CreateTask(ctx, bob, CreateTaskParams{Title: "b1"}); err != nil {
		t.Fatalf("create task: %v", err)
	}

	tasks, err := env.tasks.ListTasks(ctx, bob)
	if err != nil {
		t.Fatalf("list tasks: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Title != "b1" {
		t.Errorf("bob's tasks = %v, want only b1", titles(tasks))
	}
}

func TestListTasks_Order(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice", "a@x.com")

	inputs := []CreateTaskParams{
		{Title: "undated"},
		{Title: "soon", DueDate: ptr("2026-03-02")},
		{Title: "later", DueDate: ptr("2026-06-01")},
	}
	for _, params := range inputs {
		if _, err := env.tasks.CreateTask(ctx, alice, params); err != nil {
			t.Fatalf("create task: %v", err)
		}
	}

	tasks, err := env.tasks.ListTasks(ctx, alice)
	if err != nil {
		t.Fatalf("list tasks: %v", err)
	}
	want := []string{"later", "soon", "undated"}
	got := titles(tasks)
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func titles(tasks []*models.Task) []string {
	result := make([]string, 0, len(tasks))
	for _, task := range tasks {
		result = append(result, task.Title)
	}
	return result
}

func TestTaskAccess_ForeignAndMissing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice", "a@x.com")
	bob := env.register(t, "bob", "b@x.com")

	task, err := env.tasks.CreateTask(ctx, alice, CreateTaskParams{Title: "Buy milk", DueDate: ptr("2026-03-02")})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	testCases := []struct {
		name    string
		id      int64
		wantErr error
	}{
		{name: "foreign", id: task.ID, wantErr: ErrForbidden},
		{name: "missing", id: task.ID + 100, wantErr: ErrNotFound},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := env.tasks.GetTask(ctx, bob, tc.id)
			if !errors.Is(err, tc.wantErr) || got != nil {
				t.Errorf("GetTask = %v, %v; want nil, %v", got, err, tc.wantErr)
			}

			_, err = env.tasks.UpdateTask(ctx, bob, tc.id, UpdateTaskParams{Title: Some("hijacked")})
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("UpdateTask error = %v, want %v", err, tc.wantErr)
			}

			err = env.tasks.DeleteTask(ctx, bob, tc.id)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("DeleteTask error = %v, want %v", err, tc.wantErr)
			}
		})
	}

	stored, err := env.tasks.GetTask(ctx, alice, task.ID)
	if err != nil {
		t.Fatalf("GetTask by owner: %v", err)
	}
	if stored.Title != "Buy milk" {
		t.Errorf("Title = %q, foreign update leaked through", stored.Title)
	}
}

func TestUpdateTask(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice", "a@x.com")

	task, err := env.tasks.CreateTask(ctx, alice, CreateTaskParams{
		Title:       "Buy milk",
		Description: "2 litres",
		DueDate:     ptr("2026-03-05"),
	})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	env.clock.Advance(time.Hour)
	updated, err := env.tasks.UpdateTask(ctx, alice, task.ID, UpdateTaskParams{
		Status: Some(models.StatusInProgress),
	})
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if updated.Status != models.StatusInProgress || updated.Title != "Buy milk" || updated.Description != "2 litres" {
		t.Errorf("partial update changed other fields: %+v", updated)
	}
	if !updated.UpdatedAt.Equal(testNow.Add(time.Hour)) {
		t.Errorf("UpdatedAt = %v, want %v", updated.UpdatedAt, testNow.Add(time.Hour))
	}

	updated, err = env.tasks.UpdateTask(ctx, alice, task.ID, UpdateTaskParams{DueDate: Null[string]()})
	if err != nil {
		t.Fatalf("clear due date: %v", err)
	}
	if updated.DueDate != nil {
		t.Errorf("DueDate = %v, want nil", updated.DueDate)
	}

	testCases := []struct {
		name      string
		params    UpdateTaskParams
		wantField string
		wantMsg   string
	}{
		{name: "null title", params: UpdateTaskParams{Title: Null[string]()}, wantField: "title", wantMsg: msgNotNull},
		{name: "empty title", params: UpdateTaskParams{Title: Some("")}, wantField: "title", wantMsg: msgBlank},
		{name: "whitespace title", params: UpdateTaskParams{Title: Some(" \t ")}, wantField: "title", wantMsg: msgBlank},
		{name: "past due date", params: UpdateTaskParams{DueDate: Some("2026-02-01")}, wantField: "due_date", wantMsg: msgDueDateInPast},
		{name: "unknown status", params: UpdateTaskParams{Status: Some("done")}, wantField: "status", wantMsg: `"done" is not a valid choice.`},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.tasks.UpdateTask(ctx, alice, task.ID, tc.params)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("error = %v, want *ValidationError", err)
			}
			if got := verr.Fields[tc.wantField]; len(got) != 1 || got[0] != tc.wantMsg {
				t.Errorf("Fields[%q] = %v, want [%q]", tc.wantField, got, tc.wantMsg)
			}
		})
	}

	updated, err = env.tasks.UpdateTask(ctx, alice, task.ID, UpdateTaskParams{Title: Some("  Buy oat milk ")})
	if err != nil {
		t.Fatalf("update title: %v", err)
	}
	if updated.Title != "Buy oat milk" {
		t.Errorf("Title = %q, want %q", updated.Title, "Buy oat milk")
	}
}

func TestUpdateTask_KeepsPastDueDateWhenUntouched(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice", "a@x.com")

	task, err := env.tasks.CreateTask(ctx, alice, CreateTaskParams{Title: "task", DueDate: ptr("2026-03-01")})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	env.clock.Advance(72 * time.Hour)
	_, err = env.tasks.UpdateTask(ctx, alice, task.ID, UpdateTaskParams{Status: Some(models.StatusCompleted)})
	if err != nil {
		t.Errorf("update without touching due date: %v", err)
	}
}

func TestDeleteTask(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice", "a@x.com")

	task, err := env.tasks.CreateTask(ctx, alice, CreateTaskParams{Title: "task"})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	if err = env.tasks.DeleteTask(ctx, alice, task.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err = env.tasks.DeleteTask(ctx, alice, task.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete error = %v, want ErrNotFound", err)
	}
}

func TestAliceAndBobScenario(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.register(t, "alice", "a@x.com")
	aliceTokens := env.login(t, "alice")
	alice, err := env.guard.RequireAuthenticated(ctx, aliceTokens.AccessToken)
	if err != nil {
		t.Fatalf("authenticate alice: %v", err)
	}

	tomorrow := testNow.AddDate(0, 0, 1).Format(time.DateOnly)
	task, err := env.tasks.CreateTask(ctx, alice, CreateTaskParams{Title: "Buy milk", DueDate: &tomorrow})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	tasks, err := env.tasks.ListTasks(ctx, alice)
	if err != nil {
		t.Fatalf("list tasks: %v", err)
	}
	if len(tasks) == 0 || tasks[0].ID != task.ID {
		t.Errorf("task is not first in alice's list: %v", titles(tasks))
	}

	env.register(t, "bob", "b@x.com")
	bobTokens := env.login(t, "bob")
	bob, err := env.guard.RequireAuthenticated(ctx, bobTokens.AccessToken)
	if err != nil {
		t.Fatalf("authenticate bob: %v", err)
	}

	got, err := env.tasks.GetTask(ctx, bob, task.ID)
	if !errors.Is(err, ErrForbidden) {
		t.Errorf("error = %v, want ErrForbidden", err)
	}
	if got != nil {
		t.Errorf("bob received alice's task: %+v", got)
	}
}
