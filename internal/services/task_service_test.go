package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-task-api/internal/models"
)

func newTaskServiceWithFakeStore() (*fakeStore, TaskService) {
	store := newFakeStore()
	return store, NewTaskService(zerolog.Nop(), store)
}

func mustCreateTask(t *testing.T, svc TaskService, params CreateTaskParams) *models.Task {
	t.Helper()

	task, err := svc.CreateTask(context.Background(), params)
	if err != nil {
		t.Fatalf("failed to prepare task: %v", err)
	}
	return task
}

func assertValidationError(t *testing.T, err error, field string) {
	t.Helper()

	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if validationErr.Field != field {
		t.Fatalf("expected validation error on %q, got %q", field, validationErr.Field)
	}
}

func TestTaskServiceCreateTask_Success(t *testing.T) {
	t.Parallel()

	store, svc := newTaskServiceWithFakeStore()

	dueDate := time.Date(2030, time.January, 2, 0, 0, 0, 0, time.UTC)
	task, err := svc.CreateTask(context.Background(), CreateTaskParams{
		Title:       "  Write report ",
		Description: "Quarterly numbers",
		Status:      ptr("WORKING"),
		DueDate:     &dueDate,
		Tags:        ptr("tag1, tag1, tag2, tag2, tag3"),
	})
	if err != nil {
		t.Fatalf("CreateTask returned error: %v", err)
	}

	if task.ID == 0 {
		t.Fatalf("expected id to be assigned")
	}
	if task.Title != "Write report" {
		t.Fatalf("expected trimmed title, got %q", task.Title)
	}
	if task.Status != models.StatusWorking {
		t.Fatalf("expected status WORKING, got %q", task.Status)
	}
	if task.CreatedAt.IsZero() || task.CreatedAt.Location() != time.UTC {
		t.Fatalf("expected UTC created_at, got %v", task.CreatedAt)
	}

	stored, err := store.SelectTask(context.Background(), task.ID)
	if err != nil {
		t.Fatalf("task was not stored: %v", err)
	}
	if stored.Tags == nil {
		t.Fatalf("expected tags to be stored")
	}
	tags := strings.Split(*stored.Tags, ", ")
	if len(tags) != 3 || tags[0] != "tag1" || tags[1] != "tag2" || tags[2] != "tag3" {
		t.Fatalf("expected {tag1, tag2, tag3}, got %q", *stored.Tags)
	}
	if stored.DueDate == nil || !stored.DueDate.Equal(dueDate) {
		t.Fatalf("expected due date %v, got %v", dueDate, stored.DueDate)
	}
}

func TestTaskServiceCreateTask_OptionalFieldsAbsent(t *testing.T) {
	t.Parallel()

	_, svc := newTaskServiceWithFakeStore()

	for _, tags := range []*string{nil, ptr(""), ptr("  , ")} {
		task := mustCreateTask(t, svc, CreateTaskParams{
			Title:       "title",
			Description: "description",
			Tags:        tags,
		})
		if task.Tags != nil {
			t.Fatalf("expected nil tags, got %q", *task.Tags)
		}
		if task.DueDate != nil {
			t.Fatalf("expected nil due date, got %v", task.DueDate)
		}
		if task.Status != models.StatusOpen {
			t.Fatalf("expected default status OPEN, got %q", task.Status)
		}
	}
}

func TestTaskServiceCreateTask_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		params CreateTaskParams
		field  string
	}{
		{
			name:   "missing title",
			params: CreateTaskParams{Description: "d"},
			field:  "title",
		},
		{
			name:   "blank title",
			params: CreateTaskParams{Title: "   ", Description: "d"},
			field:  "title",
		},
		{
			name:   "missing description",
			params: CreateTaskParams{Title: "t"},
			field:  "description",
		},
		{
			name:   "title too long",
			params: CreateTaskParams{Title: strings.Repeat("a", models.TitleMaxLength+1), Description: "d"},
			field:  "title",
		},
		{
			name:   "description too long",
			params: CreateTaskParams{Title: "t", Description: strings.Repeat("a", models.DescriptionMaxLength+1)},
			field:  "description",
		},
		{
			name:   "blank status",
			params: CreateTaskParams{Title: "t", Description: "d", Status: ptr("")},
			field:  "status",
		},
		{
			name:   "unknown status",
			params: CreateTaskParams{Title: "t", Description: "d", Status: ptr("CLOSED")},
			field:  "status",
		},
		{
			name:   "tags too long",
			params: CreateTaskParams{Title: "t", Description: "d", Tags: ptr(strings.Repeat("a", models.TagsMaxLength+1))},
			field:  "tags",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store, svc := newTaskServiceWithFakeStore()

			_, err := svc.CreateTask(context.Background(), tt.params)
			assertValidationError(t, err, tt.field)

			if len(store.tasks) != 0 {
				t.Fatalf("expected nothing stored, got %d tasks", len(store.tasks))
			}
		})
	}
}

func TestTaskServiceGetTask_NotFound(t *testing.T) {
	t.Parallel()

	_, svc := newTaskServiceWithFakeStore()

	_, err := svc.GetTask(context.Background(), 42)
	if !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestTaskServiceGetTasks_FilterByStatus(t *testing.T) {
	t.Parallel()

	_, svc := newTaskServiceWithFakeStore()

	mustCreateTask(t, svc, CreateTaskParams{Title: "a", Description: "d"})
	done := mustCreateTask(t, svc, CreateTaskParams{Title: "b", Description: "d", Status: ptr("DONE")})

	status := models.StatusDone
	tasks, err := svc.GetTasks(context.Background(), models.TaskFilter{Status: &status})
	if err != nil {
		t.Fatalf("GetTasks returned error: %v", err)
	}
	if len(tasks) != 1 || tasks[0].ID != done.ID {
		t.Fatalf("expected only task %d, got %v", done.ID, tasks)
	}
}

func TestTaskServiceUpdateTask_AllFields(t *testing.T) {
	t.Parallel()

	_, svc := newTaskServiceWithFakeStore()

	created := mustCreateTask(t, svc, CreateTaskParams{Title: "t", Description: "d", Tags: ptr("x")})

	dueDate := time.Date(2031, time.March, 4, 0, 0, 0, 0, time.UTC)
	updated, err := svc.UpdateTask(context.Background(), UpdateTaskParams{
		ID:          created.ID,
		Title:       ptr("new title"),
		Description: ptr("new description"),
		Status:      ptr("DONE"),
		Tags:        ptr("b, a, b"),
		SetDueDate:  true,
		DueDate:     &dueDate,
	})
	if err != nil {
		t.Fatalf("UpdateTask returned error: %v", err)
	}

	if updated.ID != created.ID {
		t.Fatalf("expected id %d, got %d", created.ID, updated.ID)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Fatalf("expected created_at to stay %v, got %v", created.CreatedAt, updated.CreatedAt)
	}
	if updated.Title != "new title" || updated.Description != "new description" {
		t.Fatalf("unexpected text fields: %q %q", updated.Title, updated.Description)
	}
	if updated.Status != models.StatusDone {
		t.Fatalf("expected status DONE, got %q", updated.Status)
	}
	if updated.Tags == nil || *updated.Tags != "a, b" {
		t.Fatalf("expected tags %q, got %v", "a, b", updated.Tags)
	}
	if updated.DueDate == nil || !updated.DueDate.Equal(dueDate) {
		t.Fatalf("expected due date %v, got %v", dueDate, updated.DueDate)
	}

	got, err := svc.GetTask(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetTask returned error: %v", err)
	}
	if got.Title != "new title" {
		t.Fatalf("expected update to persist, got title %q", got.Title)
	}
}

func TestTaskServiceUpdateTask_BlankTagsKeepStoredValue(t *testing.T) {
	t.Parallel()

	_, svc := newTaskServiceWithFakeStore()

	created := mustCreateTask(t, svc, CreateTaskParams{Title: "t", Description: "d", Tags: ptr("keep")})

	for _, tags := range []*string{nil, ptr(""), ptr("   ")} {
		updated, err := svc.UpdateTask(context.Background(), UpdateTaskParams{ID: created.ID, Tags: tags})
		if err != nil {
			t.Fatalf("UpdateTask returned error: %v", err)
		}
		if updated.Tags == nil || *updated.Tags != "keep" {
			t.Fatalf("expected tags to stay %q, got %v", "keep", updated.Tags)
		}
	}
}

func TestTaskServiceUpdateTask_DueDate(t *testing.T) {
	t.Parallel()

	_, svc := newTaskServiceWithFakeStore()

	dueDate := time.Date(2030, time.May, 6, 0, 0, 0, 0, time.UTC)
	created := mustCreateTask(t, svc, CreateTaskParams{Title: "t", Description: "d", DueDate: &dueDate})

	updated, err := svc.UpdateTask(context.Background(), UpdateTaskParams{ID: created.ID, Title: ptr("t2")})
	if err != nil {
		t.Fatalf("UpdateTask returned error: %v", err)
	}
	if updated.DueDate == nil {
		t.Fatalf("expected omitted due date to be kept")
	}

	updated, err = svc.UpdateTask(context.Background(), UpdateTaskParams{ID: created.ID, SetDueDate: true})
	if err != nil {
		t.Fatalf("UpdateTask returned error: %v", err)
	}
	if updated.DueDate != nil {
		t.Fatalf("expected due date to be cleared, got %v", updated.DueDate)
	}
}

func TestTaskServiceUpdateTask_Validation(t *testing.T) {
	t.Parallel()

	_, svc := newTaskServiceWithFakeStore()

	created := mustCreateTask(t, svc, CreateTaskParams{Title: "t", Description: "d"})

	_, err := svc.UpdateTask(context.Background(), UpdateTaskParams{ID: created.ID, Title: ptr(" ")})
	assertValidationError(t, err, "title")

	_, err = svc.UpdateTask(context.Background(), UpdateTaskParams{ID: created.ID, Status: ptr("LATER")})
	assertValidationError(t, err, "status")

	got, err := svc.GetTask(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetTask returned error: %v", err)
	}
	if got.Title != "t" || got.Status != models.StatusOpen {
		t.Fatalf("expected rejected updates to leave task untouched, got %+v", got)
	}
}

func TestTaskServiceUpdateTask_NotFound(t *testing.T) {
	t.Parallel()

	_, svc := newTaskServiceWithFakeStore()

	_, err := svc.UpdateTask(context.Background(), UpdateTaskParams{ID: 7, Title: ptr("t")})
	if !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestTaskServiceDeleteTask(t *testing.T) {
	t.Parallel()

	_, svc := newTaskServiceWithFakeStore()

	created := mustCreateTask(t, svc, CreateTaskParams{Title: "t", Description: "d"})

	err := svc.DeleteTask(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("DeleteTask returned error: %v", err)
	}

	err = svc.DeleteTask(context.Background(), created.ID)
	if !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound on second delete, got %v", err)
	}

	_, err = svc.GetTask(context.Background(), created.ID)
	if !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound after delete, got %v", err)
	}
}

func TestTaskServiceCreateTask_TimestampPrecision(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	svc := &taskServiceImpl{
		logger: zerolog.Nop(),
		tasks:  store,
		now: func() time.Time {
			return time.Date(2025, time.March, 1, 10, 20, 30, 123456789, time.FixedZone("UTC+3", 3*60*60))
		},
	}

	task := mustCreateTask(t, svc, CreateTaskParams{Title: "t", Description: "d"})

	want := time.Date(2025, time.March, 1, 7, 20, 30, 123456000, time.UTC)
	if !task.CreatedAt.Equal(want) || task.CreatedAt.Location() != time.UTC {
		t.Fatalf("expected created_at %v, got %v", want, task.CreatedAt)
	}

	stored, err := svc.GetTask(context.Background(), task.ID)
	if err != nil {
		t.Fatalf("GetTask returned error: %v", err)
	}
	if !stored.CreatedAt.Equal(task.CreatedAt) {
		t.Fatalf("expected stored created_at %v, got %v", task.CreatedAt, stored.CreatedAt)
	}
}
