// Package tui is the terminal front end: a task table with a create form,
// per-row status controls, an edit overlay, and a load-by-position lookup.
// All behavior routes through the controller; the view holds no
// persistence logic of its own.
package tui

import (
	"context"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jaekwang-park/taskdeck/internal/controller"
	"github.com/jaekwang-park/taskdeck/internal/model"
)

type mode int

const (
	modeList mode = iota
	modeCreate
	modeEdit
	modeLookup
)

// create-form focus positions
const (
	focusTitle = iota
	focusDescription
	focusDue
	focusStatus
)

type Model struct {
	ctrl *controller.Controller

	mode   mode
	cursor int
	filter model.Status // empty means no filter

	inputs       []textinput.Model // title, description, due date
	focus        int
	statusChoice model.Status

	editInputs []textinput.Model // description, due date
	editFocus  int

	lookup textinput.Model

	errMsg string
	width  int
}

// Run starts the program after an initial full fetch.
func Run(ctx context.Context, ctrl *controller.Controller) error {
	if err := ctrl.Refresh(ctx); err != nil {
		return err
	}

	program := tea.NewProgram(newModel(ctrl), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

func newModel(ctrl *controller.Controller) *Model {
	title := textinput.New()
	title.Placeholder = "Task title (required)"
	title.CharLimit = 256
	title.Width = 40

	description := textinput.New()
	description.Placeholder = "Description (optional)"
	description.CharLimit = 512
	description.Width = 40

	due := textinput.New()
	due.Placeholder = "Due date " + model.DueInputLayout
	due.CharLimit = 16
	due.Width = 20

	editDescription := textinput.New()
	editDescription.Placeholder = "Edit description"
	editDescription.CharLimit = 512
	editDescription.Width = 40

	editDue := textinput.New()
	editDue.Placeholder = "Due date " + model.DueInputLayout + " (empty clears)"
	editDue.CharLimit = 16
	editDue.Width = 20

	lookup := textinput.New()
	lookup.Placeholder = "Task number"
	lookup.CharLimit = 6
	lookup.Width = 10

	return &Model{
		ctrl:         ctrl,
		inputs:       []textinput.Model{title, description, due},
		editInputs:   []textinput.Model{editDescription, editDue},
		lookup:       lookup,
		statusChoice: model.StatusTodo,
	}
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tea.KeyMsg:
		switch m.mode {
		case modeCreate:
			return m.updateCreate(msg)
		case modeEdit:
			return m.updateEdit(msg)
		case modeLookup:
			return m.updateLookup(msg)
		default:
			return m.updateList(msg)
		}
	}
	return m, nil
}

func (m *Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctx := context.Background()
	tasks := m.visibleTasks()

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(tasks)-1 {
			m.cursor++
		}
	case "r":
		if err := m.ctrl.Refresh(ctx); err != nil {
			m.errMsg = err.Error()
		}
		m.clampCursor()
	case "n":
		m.mode = modeCreate
		m.focus = focusTitle
		m.syncFormToInputs()
		m.inputs[focusTitle].Focus()
	case "e":
		if task, ok := m.cursorTask(); ok {
			m.ctrl.BeginEdit(task)
			draft, _ := m.ctrl.Edit()
			m.editInputs[0].SetValue(draft.Description)
			m.editInputs[1].SetValue(draft.DueAt)
			m.editFocus = 0
			m.editInputs[0].Focus()
			m.editInputs[1].Blur()
			m.mode = modeEdit
		}
	case "d":
		if task, ok := m.cursorTask(); ok {
			if err := m.ctrl.RemoveTask(ctx, task.ID); err != nil {
				m.errMsg = err.Error()
			}
			m.clampCursor()
		}
	case " ":
		if task, ok := m.cursorTask(); ok {
			if err := m.ctrl.SetStatus(ctx, task.ID, task.Status.Next()); err != nil {
				m.errMsg = err.Error()
			}
		}
	case "1", "2", "3":
		if task, ok := m.cursorTask(); ok {
			statuses := model.Statuses()
			idx, _ := strconv.Atoi(msg.String())
			if err := m.ctrl.SetStatus(ctx, task.ID, statuses[idx-1]); err != nil {
				m.errMsg = err.Error()
			}
		}
	case "f":
		m.cycleFilter()
		m.clampCursor()
	case "#":
		m.mode = modeLookup
		m.lookup.SetValue("")
		m.lookup.Focus()
	case "esc":
		m.errMsg = ""
		m.ctrl.SelectByPosition(0)
	}
	return m, nil
}

func (m *Model) updateCreate(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.mode = modeList
		m.blurInputs()
		return m, nil
	case "tab", "shift+tab", "enter":
		if msg.String() == "enter" && m.focus == focusStatus {
			m.submitCreate()
			return m, nil
		}
		if msg.String() == "shift+tab" {
			m.focus--
			if m.focus < focusTitle {
				m.focus = focusStatus
			}
		} else {
			m.focus++
			if m.focus > focusStatus {
				m.focus = focusTitle
			}
		}
		m.blurInputs()
		if m.focus < focusStatus {
			m.inputs[m.focus].Focus()
		}
		return m, nil
	case "ctrl+s":
		m.submitCreate()
		return m, nil
	case "left", "right", " ":
		if m.focus == focusStatus {
			m.statusChoice = m.statusChoice.Next()
			return m, nil
		}
	}

	if m.focus < focusStatus {
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) submitCreate() {
	m.ctrl.SetForm(controller.CreateForm{
		Title:       m.inputs[focusTitle].Value(),
		Description: m.inputs[focusDescription].Value(),
		DueAt:       strings.TrimSpace(m.inputs[focusDue].Value()),
		Status:      m.statusChoice,
	})
	m.ctrl.SubmitCreate(context.Background())

	if m.ctrl.Message() == "" {
		// success: the controller reset the form; mirror it and return
		m.syncFormToInputs()
		m.statusChoice = model.StatusTodo
		m.blurInputs()
		m.mode = modeList
		m.clampCursor()
	}
}

func (m *Model) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.ctrl.CancelEdit()
		m.mode = modeList
		return m, nil
	case "tab", "shift+tab":
		m.editFocus = 1 - m.editFocus
		for i := range m.editInputs {
			if i == m.editFocus {
				m.editInputs[i].Focus()
			} else {
				m.editInputs[i].Blur()
			}
		}
		return m, nil
	case "enter":
		draft, _ := m.ctrl.Edit()
		draft.Description = m.editInputs[0].Value()
		draft.DueAt = strings.TrimSpace(m.editInputs[1].Value())
		m.ctrl.SetEdit(draft)
		if err := m.ctrl.CommitEdit(context.Background()); err != nil {
			m.errMsg = err.Error()
		}
		m.mode = modeList
		return m, nil
	}

	var cmd tea.Cmd
	m.editInputs[m.editFocus], cmd = m.editInputs[m.editFocus].Update(msg)
	return m, cmd
}

func (m *Model) updateLookup(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.mode = modeList
		m.lookup.Blur()
		return m, nil
	case "enter":
		n, _ := strconv.Atoi(strings.TrimSpace(m.lookup.Value()))
		m.ctrl.SelectByPosition(n)
		m.mode = modeList
		m.lookup.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.lookup, cmd = m.lookup.Update(msg)
	return m, cmd
}

func (m *Model) cursorTask() (model.Task, bool) {
	tasks := m.visibleTasks()
	if m.cursor < 0 || m.cursor >= len(tasks) {
		return model.Task{}, false
	}
	return tasks[m.cursor], true
}

// visibleTasks applies the view-only status filter to the held list.
func (m *Model) visibleTasks() []model.Task {
	tasks := m.ctrl.Tasks()
	if m.filter == "" {
		return tasks
	}
	filtered := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Status == m.filter {
			filtered = append(filtered, t)
		}
	}
	return filtered
}

func (m *Model) cycleFilter() {
	switch m.filter {
	case "":
		m.filter = model.StatusTodo
	case model.StatusTodo:
		m.filter = model.StatusInProgress
	case model.StatusInProgress:
		m.filter = model.StatusDone
	default:
		m.filter = ""
	}
}

func (m *Model) clampCursor() {
	if n := len(m.visibleTasks()); m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) syncFormToInputs() {
	form := m.ctrl.Form()
	m.inputs[focusTitle].SetValue(form.Title)
	m.inputs[focusDescription].SetValue(form.Description)
	m.inputs[focusDue].SetValue(form.DueAt)
}

func (m *Model) blurInputs() {
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
}
