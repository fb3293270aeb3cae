package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/stockbox/stockbox-admin/internal/browser"
)

// Overridden in tests.
var (
	copyToClipboard = clipboard.WriteAll
	openURL         = browser.Open
)

type column struct {
	title string
	width int
}

// row is one record as displayed. values prefills the edit form.
type row struct {
	id     string
	cells  []string
	link   string
	values map[string]string
	marked bool
}

type query struct {
	page    int
	variant int
}

type listResult struct {
	rows  []row
	pages int
}

// action is a screen-specific key binding. onRow actions need a selected row.
type action struct {
	key   string
	label string
	onRow bool
	run   func(ctx context.Context, q query, r row) (string, error)
}

// resourceSpec describes one CRUD screen. Nil funcs disable the matching keys.
type resourceSpec struct {
	title    string
	columns  []column
	load     func(ctx context.Context, q query) (listResult, error)
	remove   func(ctx context.Context, q query, id string) error
	fields   []formField
	create   func(ctx context.Context, q query, values map[string]string) error
	update   func(ctx context.Context, q query, id string, values map[string]string) error
	// fetch, when set, loads the record before the edit form opens instead
	// of prefilling it from the row.
	fetch    func(ctx context.Context, q query, id string) (map[string]string, error)
	actions  []action
	variants []string
	empty    string
}

type listLoadedMsg struct {
	owner  view
	seq    int
	result listResult
	err    error
}

type rowDeletedMsg struct {
	owner view
	id    string
	err   error
}

type editLoadedMsg struct {
	owner  view
	id     string
	values map[string]string
	err    error
}

type actionDoneMsg struct {
	owner  view
	status string
	err    error
}

type listModel struct {
	owner         view
	spec          resourceSpec
	rows          []row
	cursor        int
	offset        int
	page          int
	pages         int
	variant       int
	seq           int
	loading       bool
	loaded        bool
	statusMsg     string
	failed        bool
	confirmDelete bool
	formOpen      bool
	form          formModel
	height        int
}

func newListModel(owner view, spec resourceSpec) listModel {
	return listModel{owner: owner, spec: spec, page: 1, pages: 1}
}

// refresh starts a load and returns the model with the new sequence.
func (m listModel) refresh() (listModel, tea.Cmd) {
	cmd := m.reload()
	return m, cmd
}

func (m listModel) query() query {
	return query{page: m.page, variant: m.variant}
}

// reload increments the sequence so only the newest response is applied.
func (m *listModel) reload() tea.Cmd {
	if m.spec.load == nil {
		return nil
	}
	m.seq++
	m.loading = true
	owner, seq, q, load := m.owner, m.seq, m.query(), m.spec.load
	return func() tea.Msg {
		res, err := load(context.Background(), q)
		return listLoadedMsg{owner: owner, seq: seq, result: res, err: err}
	}
}

func (m listModel) editing() bool {
	return m.formOpen || m.confirmDelete
}

func (m listModel) selected() (row, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return row{}, false
	}
	return m.rows[m.cursor], true
}

func (m listModel) setStatus(msg string, failed bool) listModel {
	m.statusMsg = msg
	m.failed = failed
	return m
}

func (m listModel) Update(msg tea.Msg) (listModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height

	case listLoadedMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.loading = false
		m.loaded = true
		if msg.err != nil {
			return m.setStatus(describeError(msg.err), true), nil
		}
		m.rows = msg.result.rows
		m.pages = max(msg.result.pages, 1)
		if m.cursor >= len(m.rows) {
			m.cursor = max(len(m.rows)-1, 0)
		}
		m.clampOffset()
		return m, nil

	case rowDeletedMsg:
		if msg.err != nil {
			m = m.setStatus(describeError(msg.err), true)
			return m.refresh()
		}
		m = m.setStatus("deleted", false)
		if len(m.rows) == 0 && m.page > 1 {
			m.page--
		}
		return m.refresh()

	case actionDoneMsg:
		if msg.err != nil {
			m = m.setStatus(describeError(msg.err), true)
			return m.refresh()
		}
		m = m.setStatus(msg.status, false)
		return m.refresh()

	case editLoadedMsg:
		if msg.err != nil {
			return m.setStatus(describeError(msg.err), true), nil
		}
		m.statusMsg = ""
		return m.openEdit(msg.id, msg.values), nil

	case formSubmittedMsg:
		var cmd tea.Cmd
		m.form, cmd = m.form.Update(msg)
		if msg.err == nil {
			m.formOpen = false
			m = m.setStatus("saved", false)
			return m.refresh()
		}
		return m, cmd

	case tea.KeyMsg:
		if m.formOpen {
			if msg.String() == "esc" {
				m.formOpen = false
				return m, nil
			}
			var cmd tea.Cmd
			m.form, cmd = m.form.Update(msg)
			return m, cmd
		}
		if m.confirmDelete {
			m.confirmDelete = false
			if msg.String() == "y" {
				return m.deleteSelected()
			}
			return m.setStatus("delete cancelled", false), nil
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m listModel) updateKeys(msg tea.KeyMsg) (listModel, tea.Cmd) {
	key := msg.String()
	m.statusMsg = ""
	m.failed = false

	switch key {
	case "j", "down":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
			m.clampOffset()
		}
		return m, nil
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
			m.clampOffset()
		}
		return m, nil
	case "]", "right":
		if m.page < m.pages {
			m.page++
			m.cursor, m.offset = 0, 0
			return m.refresh()
		}
		return m, nil
	case "[", "left":
		if m.page > 1 {
			m.page--
			m.cursor, m.offset = 0, 0
			return m.refresh()
		}
		return m, nil
	case "r":
		return m.refresh()
	case "v":
		if len(m.spec.variants) > 1 {
			m.variant = (m.variant + 1) % len(m.spec.variants)
			m.page, m.cursor, m.offset = 1, 0, 0
			m.rows = nil
			return m.refresh()
		}
		return m, nil
	case "n":
		if m.spec.create != nil {
			m.form = newFormModel(m.owner, "New "+m.spec.title, m.spec.fields, m.submitFunc())
			m.formOpen = true
		}
		return m, nil
	case "e":
		r, ok := m.selected()
		if !ok || m.spec.update == nil {
			return m, nil
		}
		if m.spec.fetch == nil {
			return m.openEdit(r.id, r.values), nil
		}
		m = m.setStatus("loading record...", false)
		owner, q, fetch := m.owner, m.query(), m.spec.fetch
		return m, func() tea.Msg {
			values, err := fetch(context.Background(), q, r.id)
			return editLoadedMsg{owner: owner, id: r.id, values: values, err: err}
		}
	case "d":
		if _, ok := m.selected(); ok && m.spec.remove != nil {
			m.confirmDelete = true
		}
		return m, nil
	case "c":
		r, ok := m.selected()
		if !ok {
			return m, nil
		}
		text := r.link
		if text == "" {
			text = r.id
		}
		if err := copyToClipboard(text); err != nil {
			return m.setStatus("copy failed: "+err.Error(), true), nil
		}
		return m.setStatus("copied "+truncStr(text, 48), false), nil
	case "o":
		r, ok := m.selected()
		if !ok || r.link == "" {
			return m, nil
		}
		if err := openURL(r.link); err != nil {
			return m.setStatus("open failed: "+err.Error(), true), nil
		}
		return m.setStatus("opened in browser", false), nil
	}

	for _, a := range m.spec.actions {
		if a.key != key {
			continue
		}
		r, ok := m.selected()
		if a.onRow && !ok {
			return m, nil
		}
		m = m.setStatus(a.label+"...", false)
		owner, q, run := m.owner, m.query(), a.run
		return m, func() tea.Msg {
			status, err := run(context.Background(), q, r)
			return actionDoneMsg{owner: owner, status: status, err: err}
		}
	}
	return m, nil
}

func (m listModel) openEdit(id string, values map[string]string) listModel {
	m.form = newFormModel(m.owner, "Edit "+m.spec.title, m.spec.fields, m.submitFunc()).withValues(id, values)
	m.formOpen = true
	return m
}

func (m listModel) submitFunc() submitFunc {
	q, spec := m.query(), m.spec
	return func(ctx context.Context, id string, values map[string]string) error {
		if id == "" {
			return spec.create(ctx, q, values)
		}
		return spec.update(ctx, q, id, values)
	}
}

// deleteSelected removes the row locally before the request completes.
// Any load already in flight is dropped, since it may still contain the row.
// The list reloads once the delete settles, restoring the row on failure.
func (m listModel) deleteSelected() (listModel, tea.Cmd) {
	r, ok := m.selected()
	if !ok {
		return m, nil
	}
	m.seq++
	m.loading = false
	m.rows = append(m.rows[:m.cursor:m.cursor], m.rows[m.cursor+1:]...)
	if m.cursor >= len(m.rows) && m.cursor > 0 {
		m.cursor--
	}
	m.clampOffset()
	m = m.setStatus("deleting...", false)

	owner, q, remove := m.owner, m.query(), m.spec.remove
	return m, func() tea.Msg {
		return rowDeletedMsg{owner: owner, id: r.id, err: remove(context.Background(), q, r.id)}
	}
}

func (m listModel) visibleRows() int {
	// title(1) + header(1) + blank(1) + status(1)
	n := m.height - 4
	if n < 3 {
		return 3
	}
	return n
}

func (m *listModel) clampOffset() {
	vis := m.visibleRows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+vis {
		m.offset = m.cursor - vis + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

func (m listModel) helpKeys() string {
	if m.formOpen {
		return helpBar("tab", "next", "ctrl+s", "save", "esc", "cancel")
	}
	if m.confirmDelete {
		return helpBar("y", "confirm delete", "any", "cancel")
	}
	pairs := []string{"j/k", "nav", "r", "refresh"}
	if m.pages > 1 {
		pairs = append(pairs, "[/]", "page")
	}
	if m.spec.create != nil {
		pairs = append(pairs, "n", "new")
	}
	if m.spec.update != nil {
		pairs = append(pairs, "e", "edit")
	}
	if m.spec.remove != nil {
		pairs = append(pairs, "d", "delete")
	}
	if len(m.spec.variants) > 1 {
		pairs = append(pairs, "v", m.spec.variants[(m.variant+1)%len(m.spec.variants)])
	}
	for _, a := range m.spec.actions {
		pairs = append(pairs, a.key, a.label)
	}
	pairs = append(pairs, "c", "copy", "o", "open")
	return helpBar(pairs...)
}

func (m listModel) View() string {
	if m.formOpen {
		return m.form.View()
	}

	var b strings.Builder

	title := sectionHeaderStyle.Render(m.spec.title)
	if len(m.spec.variants) > 0 {
		title += " " + badgeStyle.Render(m.spec.variants[m.variant])
	}
	if m.pages > 1 {
		title += " " + metaStyle.Render(fmt.Sprintf("page %d/%d", m.page, m.pages))
	}
	if m.loading {
		title += " " + dimStyle.Render("loading...")
	}
	fmt.Fprintf(&b, " %s\n", title)

	var header strings.Builder
	for _, c := range m.spec.columns {
		header.WriteString(padRight(truncStr(c.title, c.width), c.width+2))
	}
	fmt.Fprintf(&b, "   %s\n", metaStyle.Render(strings.TrimRight(header.String(), " ")))

	if len(m.rows) == 0 && m.loaded && !m.loading {
		empty := m.spec.empty
		if empty == "" {
			empty = "nothing here yet"
		}
		fmt.Fprintf(&b, "   %s\n", dimStyle.Render(empty))
	}

	end := min(m.offset+m.visibleRows(), len(m.rows))
	for i := m.offset; i < end; i++ {
		r := m.rows[i]
		var line strings.Builder
		for j, c := range m.spec.columns {
			cell := ""
			if j < len(r.cells) {
				cell = oneLine(r.cells[j])
			}
			line.WriteString(padRight(truncStr(cell, c.width), c.width+2))
		}
		text := strings.TrimRight(line.String(), " ")

		cursor := " "
		style := normalStyle
		if i == m.cursor {
			cursor = accentStyle.Render(">")
			style = selectedStyle
		}
		mark := " "
		if r.marked {
			mark = okStyle.Render("●")
		}
		fmt.Fprintf(&b, " %s%s%s\n", cursor, mark, style.Render(text))
	}

	b.WriteString("\n ")
	if m.confirmDelete {
		if r, ok := m.selected(); ok {
			b.WriteString(warnStyle.Render(fmt.Sprintf("delete %q? (y to confirm)", truncStr(oneLine(firstCell(r)), 40))))
		}
	} else {
		b.WriteString(statusLine(m.statusMsg, m.failed))
	}

	return b.String()
}

func firstCell(r row) string {
	if len(r.cells) > 0 {
		return r.cells[0]
	}
	return r.id
}
