package controller_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jaekwang-park/taskdeck/internal/controller"
	"github.com/jaekwang-park/taskdeck/internal/model"
	"github.com/jaekwang-park/taskdeck/internal/service"
)

// mockGateway implements controller.Gateway for testing
type mockGateway struct {
	createFn       func(ctx context.Context, input service.CreateTaskInput) (model.Task, error)
	listFn         func(ctx context.Context) ([]model.Task, error)
	updateStatusFn func(ctx context.Context, id string, status model.Status) (model.Task, error)
	updateFn       func(ctx context.Context, id string, input service.UpdateTaskInput) (model.Task, error)
	deleteFn       func(ctx context.Context, id string) error

	createCalls int
	listCalls   int
}

func (m *mockGateway) Create(ctx context.Context, input service.CreateTaskInput) (model.Task, error) {
	m.createCalls++
	return m.createFn(ctx, input)
}
func (m *mockGateway) List(ctx context.Context) ([]model.Task, error) {
	m.listCalls++
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return []model.Task{}, nil
}
func (m *mockGateway) UpdateStatus(ctx context.Context, id string, status model.Status) (model.Task, error) {
	return m.updateStatusFn(ctx, id, status)
}
func (m *mockGateway) Update(ctx context.Context, id string, input service.UpdateTaskInput) (model.Task, error) {
	return m.updateFn(ctx, id, input)
}
func (m *mockGateway) Delete(ctx context.Context, id string) error {
	return m.deleteFn(ctx, id)
}

var now = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func sampleTask(id, title string) model.Task {
	return model.Task{
		ID:        id,
		Title:     title,
		Status:    model.StatusTodo,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestRefresh_ReplacesListWholesale(t *testing.T) {
	gw := &mockGateway{
		listFn: func(ctx context.Context) ([]model.Task, error) {
			return []model.Task{sampleTask("1", "one"), sampleTask("2", "two")}, nil
		},
	}
	c := controller.New(gw)

	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if len(c.Tasks()) != 2 {
		t.Fatalf("len = %d, want 2", len(c.Tasks()))
	}

	gw.listFn = func(ctx context.Context) ([]model.Task, error) {
		return []model.Task{sampleTask("3", "three")}, nil
	}
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if len(c.Tasks()) != 1 || c.Tasks()[0].ID != "3" {
		t.Fatalf("tasks = %+v, want wholesale replacement", c.Tasks())
	}
}

func TestSubmitCreate_Guards(t *testing.T) {
	tests := []struct {
		name        string
		form        controller.CreateForm
		wantMessage string
	}{
		{
			name:        "empty title",
			form:        controller.CreateForm{DueAt: "2025-07-01T10:00", Status: model.StatusTodo},
			wantMessage: "Title is required",
		},
		{
			name:        "missing due date",
			form:        controller.CreateForm{Title: "Test", Status: model.StatusTodo},
			wantMessage: "Due date is required",
		},
		{
			name:        "invalid status",
			form:        controller.CreateForm{Title: "Test", DueAt: "2025-07-01T10:00", Status: model.Status("bad")},
			wantMessage: "Please select a valid status",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := &mockGateway{
				createFn: func(ctx context.Context, input service.CreateTaskInput) (model.Task, error) {
					return model.Task{}, nil
				},
			}
			c := controller.New(gw)
			c.SetForm(tt.form)

			c.SubmitCreate(context.Background())

			if c.Message() != tt.wantMessage {
				t.Errorf("message = %q, want %q", c.Message(), tt.wantMessage)
			}
			if gw.createCalls != 0 {
				t.Error("guard failure still called the gateway")
			}
		})
	}
}

func TestSubmitCreate_Success(t *testing.T) {
	gw := &mockGateway{
		createFn: func(ctx context.Context, input service.CreateTaskInput) (model.Task, error) {
			if input.Title != "Test" || input.Status != model.StatusInProgress {
				t.Errorf("input = %+v, want form fields", input)
			}
			if input.DueAt == nil || *input.DueAt != "2025-07-01T10:00" {
				t.Errorf("due = %v, want the form value", input.DueAt)
			}
			return sampleTask("abc123", input.Title), nil
		},
	}
	c := controller.New(gw)
	c.SetForm(controller.CreateForm{
		Title:       "Test",
		Description: "  desc  ",
		DueAt:       "2025-07-01T10:00",
		Status:      model.StatusInProgress,
	})

	c.SubmitCreate(context.Background())

	if c.Message() != "" {
		t.Errorf("message = %q, want empty", c.Message())
	}
	if gw.listCalls != 1 {
		t.Errorf("listCalls = %d, want a refresh after create", gw.listCalls)
	}
	form := c.Form()
	if form.Title != "" || form.Description != "" || form.DueAt != "" {
		t.Errorf("form = %+v, want cleared", form)
	}
	if form.Status != model.StatusTodo {
		t.Errorf("status = %s, want reset to todo", form.Status)
	}
}

func TestSubmitCreate_GatewayFailureBecomesMessage(t *testing.T) {
	gw := &mockGateway{
		createFn: func(ctx context.Context, input service.CreateTaskInput) (model.Task, error) {
			return model.Task{}, errors.New("store unavailable")
		},
	}
	c := controller.New(gw)
	c.SetForm(controller.CreateForm{Title: "Test", DueAt: "2025-07-01T10:00", Status: model.StatusTodo})

	c.SubmitCreate(context.Background())

	if !strings.Contains(c.Message(), "Failed to create task") {
		t.Errorf("message = %q, want create failure surfaced", c.Message())
	}
	if gw.listCalls != 0 {
		t.Error("failed create still refreshed")
	}
}

func TestSetStatus_RefreshesAndPropagates(t *testing.T) {
	gw := &mockGateway{
		updateStatusFn: func(ctx context.Context, id string, status model.Status) (model.Task, error) {
			return sampleTask(id, "one"), nil
		},
	}
	c := controller.New(gw)

	if err := c.SetStatus(context.Background(), "1", model.StatusDone); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	if gw.listCalls != 1 {
		t.Errorf("listCalls = %d, want 1", gw.listCalls)
	}

	gw.updateStatusFn = func(ctx context.Context, id string, status model.Status) (model.Task, error) {
		return model.Task{}, errors.New("store unavailable")
	}
	if err := c.SetStatus(context.Background(), "1", model.StatusDone); err == nil {
		t.Fatal("expected the failure to propagate")
	}
	if gw.listCalls != 1 {
		t.Error("failed mutation still refreshed")
	}
}

func TestRemoveTask(t *testing.T) {
	gw := &mockGateway{
		deleteFn: func(ctx context.Context, id string) error { return nil },
	}
	c := controller.New(gw)

	if err := c.RemoveTask(context.Background(), "1"); err != nil {
		t.Fatalf("RemoveTask: %v", err)
	}
	if gw.listCalls != 1 {
		t.Errorf("listCalls = %d, want a refresh after delete", gw.listCalls)
	}
}

func TestEditLifecycle(t *testing.T) {
	due := time.Date(2025, 7, 1, 10, 30, 0, 0, time.Local)
	task := sampleTask("1", "one")
	task.Description = "old description"
	task.DueAt = &due

	var gotInput service.UpdateTaskInput
	gw := &mockGateway{
		updateFn: func(ctx context.Context, id string, input service.UpdateTaskInput) (model.Task, error) {
			gotInput = input
			return sampleTask(id, "one"), nil
		},
	}
	c := controller.New(gw)

	c.BeginEdit(task)
	draft, editing := c.Edit()
	if !editing {
		t.Fatal("expected edit mode")
	}
	if draft.Description != "old description" {
		t.Errorf("description = %q, want seeded from task", draft.Description)
	}
	if draft.DueAt != "2025-07-01T10:30" {
		t.Errorf("due = %q, want local-datetime form", draft.DueAt)
	}

	draft.Description = "new description"
	draft.DueAt = ""
	c.SetEdit(draft)

	if err := c.CommitEdit(context.Background()); err != nil {
		t.Fatalf("CommitEdit: %v", err)
	}
	if gotInput.Description == nil || *gotInput.Description != "new description" {
		t.Errorf("description patch = %v, want new description", gotInput.Description)
	}
	if gotInput.DueAt == nil || *gotInput.DueAt != "" {
		t.Errorf("due patch = %v, want explicit empty string", gotInput.DueAt)
	}
	if _, editing := c.Edit(); editing {
		t.Error("expected edit mode exited")
	}
	if gw.listCalls != 1 {
		t.Errorf("listCalls = %d, want a refresh after commit", gw.listCalls)
	}
}

func TestEdit_SeedsEmptyDueWhenAbsent(t *testing.T) {
	c := controller.New(&mockGateway{})
	c.BeginEdit(sampleTask("1", "one"))
	draft, _ := c.Edit()
	if draft.DueAt != "" {
		t.Errorf("due = %q, want empty for a task without a due date", draft.DueAt)
	}
}

func TestCancelEdit(t *testing.T) {
	c := controller.New(&mockGateway{})
	c.BeginEdit(sampleTask("1", "one"))
	c.CancelEdit()
	if _, editing := c.Edit(); editing {
		t.Error("expected edit mode exited")
	}
}

func TestCommitEdit_NoopWithoutEdit(t *testing.T) {
	gw := &mockGateway{
		updateFn: func(ctx context.Context, id string, input service.UpdateTaskInput) (model.Task, error) {
			t.Fatal("gateway called without an edit in progress")
			return model.Task{}, nil
		},
	}
	c := controller.New(gw)
	if err := c.CommitEdit(context.Background()); err != nil {
		t.Fatalf("CommitEdit: %v", err)
	}
}

func TestSelectByPosition(t *testing.T) {
	gw := &mockGateway{
		listFn: func(ctx context.Context) ([]model.Task, error) {
			return []model.Task{sampleTask("1", "one"), sampleTask("2", "two")}, nil
		},
	}
	c := controller.New(gw)
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	c.SelectByPosition(2)
	if got := c.Selected(); got == nil || got.ID != "2" {
		t.Fatalf("selected = %+v, want task 2", got)
	}

	c.SelectByPosition(3)
	if c.Selected() != nil {
		t.Error("expected out-of-range selection cleared")
	}

	c.SelectByPosition(0)
	if c.Selected() != nil {
		t.Error("expected zero position cleared")
	}
}
