// Package controller holds the application state behind the task view: the
// fetched task list, the create-form draft, the edit-mode draft, and the
// positional selection. Every successful mutation is followed by a full
// re-read of the list; the held slice is replaced wholesale, never patched.
package controller

import (
	"context"
	"fmt"
	"strings"

	"github.com/jaekwang-park/taskdeck/internal/model"
	"github.com/jaekwang-park/taskdeck/internal/service"
)

// Gateway is the slice of the persistence gateway the controller drives.
type Gateway interface {
	Create(ctx context.Context, input service.CreateTaskInput) (model.Task, error)
	List(ctx context.Context) ([]model.Task, error)
	UpdateStatus(ctx context.Context, id string, status model.Status) (model.Task, error)
	Update(ctx context.Context, id string, input service.UpdateTaskInput) (model.Task, error)
	Delete(ctx context.Context, id string) error
}

// Commands is the capability set the view invokes. The view owns no
// persistence logic; everything routes through here.
type Commands interface {
	Refresh(ctx context.Context) error
	SubmitCreate(ctx context.Context)
	SetStatus(ctx context.Context, id string, status model.Status) error
	RemoveTask(ctx context.Context, id string) error
	BeginEdit(task model.Task)
	CancelEdit()
	CommitEdit(ctx context.Context) error
	SelectByPosition(n int)
}

// CreateForm is the create-form draft.
type CreateForm struct {
	Title       string
	Description string
	DueAt       string // local-datetime string, model.DueInputLayout
	Status      model.Status
}

// EditDraft is the edit-mode draft; only description and due date are
// editable after creation.
type EditDraft struct {
	TaskID      string
	Description string
	DueAt       string
}

type Controller struct {
	gateway Gateway

	tasks    []model.Task
	form     CreateForm
	edit     EditDraft
	selected *model.Task
	message  string // user-facing, set only by the create path
}

func New(gateway Gateway) *Controller {
	return &Controller{
		gateway: gateway,
		form:    CreateForm{Status: model.StatusTodo},
	}
}

// Tasks returns the currently held list.
func (c *Controller) Tasks() []model.Task {
	return c.tasks
}

func (c *Controller) Form() CreateForm {
	return c.form
}

func (c *Controller) SetForm(form CreateForm) {
	c.form = form
}

// Edit returns the edit draft and whether a task is being edited.
func (c *Controller) Edit() (EditDraft, bool) {
	return c.edit, c.edit.TaskID != ""
}

func (c *Controller) SetEdit(edit EditDraft) {
	if c.edit.TaskID == "" {
		return
	}
	edit.TaskID = c.edit.TaskID
	c.edit = edit
}

// Selected returns the task loaded by position, if any.
func (c *Controller) Selected() *model.Task {
	return c.selected
}

// Message returns the user-facing message from the last create attempt.
func (c *Controller) Message() string {
	return c.message
}

// Refresh replaces the held list with a full re-read from the store.
func (c *Controller) Refresh(ctx context.Context) error {
	tasks, err := c.gateway.List(ctx)
	if err != nil {
		return err
	}
	c.tasks = tasks
	return nil
}

// SubmitCreate validates the form, creates the task, resets the form to
// defaults, and refreshes. Any failure surfaces as a user-facing message
// rather than an error; the gateway is not called when a guard fails.
func (c *Controller) SubmitCreate(ctx context.Context) {
	c.message = ""

	if strings.TrimSpace(c.form.Title) == "" {
		c.message = "Title is required"
		return
	}
	if c.form.DueAt == "" {
		c.message = "Due date is required"
		return
	}
	if !c.form.Status.IsValid() {
		c.message = "Please select a valid status"
		return
	}

	dueAt := c.form.DueAt
	_, err := c.gateway.Create(ctx, service.CreateTaskInput{
		Title:       c.form.Title,
		Description: strings.TrimSpace(c.form.Description),
		Status:      c.form.Status,
		DueAt:       &dueAt,
	})
	if err != nil {
		c.message = fmt.Sprintf("Failed to create task: %v", err)
		return
	}

	c.form = CreateForm{Status: model.StatusTodo}
	if err := c.Refresh(ctx); err != nil {
		c.message = fmt.Sprintf("Failed to refresh tasks: %v", err)
	}
}

// SetStatus changes a task's status, then refreshes. Failures propagate.
func (c *Controller) SetStatus(ctx context.Context, id string, status model.Status) error {
	if _, err := c.gateway.UpdateStatus(ctx, id, status); err != nil {
		return err
	}
	return c.Refresh(ctx)
}

// RemoveTask deletes a task, then refreshes. Failures propagate.
func (c *Controller) RemoveTask(ctx context.Context, id string) error {
	if err := c.gateway.Delete(ctx, id); err != nil {
		return err
	}
	return c.Refresh(ctx)
}

// BeginEdit seeds the edit draft from the task's current fields.
func (c *Controller) BeginEdit(task model.Task) {
	draft := EditDraft{
		TaskID:      task.ID,
		Description: task.Description,
	}
	if task.DueAt != nil {
		draft.DueAt = task.DueAt.Local().Format(model.DueInputLayout)
	}
	c.edit = draft
}

// CancelEdit exits edit mode without persisting.
func (c *Controller) CancelEdit() {
	c.edit = EditDraft{}
}

// CommitEdit persists the edit draft as a partial update, exits edit mode,
// and refreshes. A no-op when nothing is being edited. Failures propagate.
func (c *Controller) CommitEdit(ctx context.Context) error {
	if c.edit.TaskID == "" {
		return nil
	}

	description := c.edit.Description
	dueAt := c.edit.DueAt // empty clears the due date
	_, err := c.gateway.Update(ctx, c.edit.TaskID, service.UpdateTaskInput{
		Description: &description,
		DueAt:       &dueAt,
	})
	if err != nil {
		return err
	}

	c.edit = EditDraft{}
	return c.Refresh(ctx)
}

// SelectByPosition exposes the task at the 1-based position for detail
// display, clearing the selection when out of range.
func (c *Controller) SelectByPosition(n int) {
	if n < 1 || n > len(c.tasks) {
		c.selected = nil
		return
	}
	task := c.tasks[n-1]
	c.selected = &task
}

var _ Commands = (*Controller)(nil)
