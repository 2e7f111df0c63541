package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jaekwang-park/taskdeck/internal/model"
)

const (
	noDescription = "No description"
	noDueDate     = "N/A"
	dueLayout     = "Jan 2, 2006 15:04"
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	dimStyle      = lipgloss.NewStyle().Faint(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	panelStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	helpStyle     = lipgloss.NewStyle().Faint(true)
)

func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Tasks"))
	b.WriteString("\n\n")

	switch m.mode {
	case modeCreate:
		b.WriteString(m.renderCreateForm())
	case modeEdit:
		b.WriteString(m.renderEditOverlay())
	case modeLookup:
		b.WriteString("Load task by number\n\n")
		b.WriteString(m.lookup.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter: load • esc: back"))
	default:
		b.WriteString(m.renderList())
	}

	if msg := m.ctrl.Message(); msg != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(msg))
		b.WriteString("\n")
	}
	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.errMsg))
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) renderList() string {
	var b strings.Builder

	if m.filter != "" {
		b.WriteString(fmt.Sprintf("Filter: %s (f to cycle)\n\n", m.filter))
	}

	tasks := m.visibleTasks()
	if len(tasks) == 0 {
		b.WriteString(dimStyle.Render("No tasks yet. Press n to create one."))
		b.WriteString("\n")
	}
	_, editing := m.ctrl.Edit()
	for i, task := range tasks {
		cursor := " "
		if i == m.cursor {
			cursor = cursorStyle.Render(">")
		}
		b.WriteString(cursor + " " + renderRow(i+1, task, editing && i == m.cursor))
		b.WriteString("\n")
	}

	if selected := m.ctrl.Selected(); selected != nil {
		b.WriteString("\n")
		b.WriteString(panelStyle.Render(renderDetail(*selected)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("n: new • e: edit • d: delete • space/1-3: status • f: filter • #: load by number • r: refresh • q: quit"))
	b.WriteString("\n")
	return b.String()
}

// renderRow renders one task line: position, title, the three-way status
// control, the description, the due date, and the row actions.
func renderRow(pos int, task model.Task, editing bool) string {
	actions := "e:Edit d:Delete"
	if editing {
		actions = "enter:Save esc:Cancel"
	}
	return fmt.Sprintf("%d. %-30s %s  %s  %s  %s",
		pos,
		truncate(task.Title, 30),
		renderStatusControl(task.Status),
		describe(task),
		formatDue(task.DueAt),
		dimStyle.Render(actions),
	)
}

// renderStatusControl marks the active status selected and dims the
// other two.
func renderStatusControl(active model.Status) string {
	parts := make([]string, 0, 3)
	for _, s := range model.Statuses() {
		if s == active {
			parts = append(parts, selectedStyle.Render("["+string(s)+"]"))
		} else {
			parts = append(parts, dimStyle.Render(string(s)))
		}
	}
	return strings.Join(parts, " ")
}

// renderDetail renders the selected-task panel.
func renderDetail(task model.Task) string {
	var b strings.Builder
	b.WriteString("Selected Task Details\n")
	b.WriteString("Title:       " + task.Title + "\n")
	b.WriteString("Status:      " + task.Status.Label() + "\n")
	b.WriteString("Description: " + describe(task) + "\n")
	b.WriteString("Due:         " + formatDue(task.DueAt))
	return b.String()
}

func (m *Model) renderCreateForm() string {
	var b strings.Builder
	b.WriteString("New task\n\n")
	for _, input := range m.inputs {
		b.WriteString(input.View())
		b.WriteString("\n")
	}

	b.WriteString("\nStatus: ")
	if m.focus == focusStatus {
		b.WriteString(cursorStyle.Render("> "))
	}
	b.WriteString(renderStatusControl(m.statusChoice))
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("tab: next field • space: cycle status • ctrl+s: create • esc: back"))
	return b.String()
}

func (m *Model) renderEditOverlay() string {
	var b strings.Builder
	b.WriteString("Edit task\n\n")
	for _, input := range m.editInputs {
		b.WriteString(input.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("tab: switch field • enter: save • esc: cancel"))
	return b.String()
}

func describe(task model.Task) string {
	if task.Description == "" {
		return noDescription
	}
	return task.Description
}

func formatDue(due *time.Time) string {
	if due == nil {
		return noDueDate
	}
	return due.Local().Format(dueLayout)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
