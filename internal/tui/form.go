package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

type formField struct {
	key      string
	label    string
	required bool
	secret   bool
	hint     string
}

// submitFunc sends the collected values. id is empty when creating.
type submitFunc func(ctx context.Context, id string, values map[string]string) error

// formSubmittedMsg reports the outcome of a form submission to the owning screen.
type formSubmittedMsg struct {
	owner view
	err   error
}

type formModel struct {
	owner      view
	title      string
	fields     []formField
	values     []string
	focus      int
	id         string
	submit     submitFunc
	statusMsg  string
	failed     bool
	submitting bool
}

func newFormModel(owner view, title string, fields []formField, submit submitFunc) formModel {
	return formModel{
		owner:  owner,
		title:  title,
		fields: fields,
		values: make([]string, len(fields)),
		submit: submit,
	}
}

// withValues prefills the form for editing the record id.
func (m formModel) withValues(id string, values map[string]string) formModel {
	m.id = id
	m.values = make([]string, len(m.fields))
	for i, f := range m.fields {
		m.values[i] = values[f.key]
	}
	return m
}

func (m formModel) Update(msg tea.Msg) (formModel, tea.Cmd) {
	switch msg := msg.(type) {
	case formSubmittedMsg:
		m.submitting = false
		if msg.err != nil {
			m.statusMsg = describeError(msg.err)
			m.failed = true
			return m, nil
		}
		m.statusMsg = "saved"
		m.failed = false
		m.values = make([]string, len(m.fields))
		m.focus = 0
		return m, nil

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m formModel) updateKeys(msg tea.KeyMsg) (formModel, tea.Cmd) {
	if m.submitting {
		return m, nil
	}
	m.statusMsg = ""
	m.failed = false

	n := len(m.fields)
	switch msg.String() {
	case "ctrl+s":
		return m.send()
	case "tab", "down":
		m.focus = (m.focus + 1) % n
	case "shift+tab", "up":
		m.focus = (m.focus - 1 + n) % n
	case "enter":
		if m.focus == n-1 {
			return m.send()
		}
		m.focus++
	default:
		m.values[m.focus] = editRune(m.values[m.focus], msg.String())
	}
	return m, nil
}

func (m formModel) collect() map[string]string {
	out := make(map[string]string, len(m.fields))
	for i, f := range m.fields {
		out[f.key] = strings.TrimSpace(m.values[i])
	}
	return out
}

func (m formModel) send() (formModel, tea.Cmd) {
	values := m.collect()
	for _, f := range m.fields {
		if f.required && values[f.key] == "" {
			m.statusMsg = f.label + " is required"
			m.failed = true
			return m, nil
		}
	}

	m.submitting = true
	owner, id, submit := m.owner, m.id, m.submit
	return m, func() tea.Msg {
		return formSubmittedMsg{owner: owner, err: submit(context.Background(), id, values)}
	}
}

func (m formModel) View() string {
	var b strings.Builder

	title := m.title
	if m.id != "" {
		title += " " + metaStyle.Render("("+m.id+")")
	}
	fmt.Fprintf(&b, " %s\n\n", sectionHeaderStyle.Render(title))

	width := 0
	for _, f := range m.fields {
		if len(f.label) > width {
			width = len(f.label)
		}
	}

	for i, f := range m.fields {
		cursor := " "
		style := metaStyle
		if i == m.focus {
			cursor = accentStyle.Render(">")
			style = selectedStyle
		}

		value := m.values[i]
		if f.secret {
			value = strings.Repeat("*", len([]rune(value)))
		}
		switch {
		case i == m.focus:
			value += "█"
		case value == "" && f.hint != "":
			value = inputPlaceholderStyle.Render(f.hint)
		}

		label := padRight(f.label, width)
		if f.required {
			label += "*"
		} else {
			label += " "
		}
		fmt.Fprintf(&b, " %s %s  %s\n", cursor, style.Render(label), normalStyle.Render(value))
	}

	b.WriteString("\n ")
	if m.submitting {
		b.WriteString(dimStyle.Render("saving..."))
	} else {
		b.WriteString(statusLine(m.statusMsg, m.failed))
	}

	return b.String()
}
