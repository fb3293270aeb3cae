package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

type fakeResource struct {
	rows      []row
	pages     int
	loads     []query
	removed   []string
	removeErr error
	created   []map[string]string
	activated []string
}

func (f *fakeResource) spec() resourceSpec {
	return resourceSpec{
		title:   "Things",
		columns: []column{{"name", 20}},
		load: func(_ context.Context, q query) (listResult, error) {
			f.loads = append(f.loads, q)
			return listResult{rows: f.rows, pages: f.pages}, nil
		},
		remove: func(_ context.Context, _ query, id string) error {
			f.removed = append(f.removed, id)
			return f.removeErr
		},
		fields: []formField{
			{key: "name", label: "name", required: true},
			{key: "note", label: "note"},
		},
		create: func(_ context.Context, _ query, v map[string]string) error {
			f.created = append(f.created, v)
			return nil
		},
		actions: []action{
			{key: "a", label: "activate", onRow: true, run: func(_ context.Context, _ query, r row) (string, error) {
				f.activated = append(f.activated, r.id)
				return "activated", nil
			}},
		},
		variants: []string{"desktop", "mobile"},
	}
}

func threeRows() []row {
	return []row{
		{id: "a", cells: []string{"alpha"}, link: "https://cdn.example.com/a.png"},
		{id: "b", cells: []string{"bravo"}},
		{id: "c", cells: []string{"charlie"}},
	}
}

// loadedList returns a list model that has completed one load.
func loadedList(t *testing.T, f *fakeResource) listModel {
	t.Helper()
	m, cmd := newListModel(viewJobs, f.spec()).refresh()
	if cmd == nil {
		t.Fatal("expected load command")
	}
	m, _ = m.Update(cmd())
	return m
}

func press(m listModel, key string) (listModel, tea.Cmd) {
	return m.Update(keyMsg(key))
}

func TestListLoadsRows(t *testing.T) {
	f := &fakeResource{rows: threeRows()}
	m := loadedList(t, f)

	if len(m.rows) != 3 || m.loading {
		t.Fatalf("rows = %d loading = %v", len(m.rows), m.loading)
	}
	if out := m.View(); !strings.Contains(out, "charlie") {
		t.Errorf("view missing row: %q", out)
	}
}

func TestListIgnoresStaleLoad(t *testing.T) {
	f := &fakeResource{rows: threeRows()}
	m, first := newListModel(viewJobs, f.spec()).refresh()
	m, second := m.refresh()

	stale := first().(listLoadedMsg)
	stale.result.rows = nil
	m, _ = m.Update(stale)
	if !m.loading {
		t.Error("stale response should not finish loading")
	}
	m, _ = m.Update(second())
	if m.loading || len(m.rows) != 3 {
		t.Errorf("fresh response not applied: loading=%v rows=%d", m.loading, len(m.rows))
	}
}

func TestListEmptyState(t *testing.T) {
	m := loadedList(t, &fakeResource{})
	if !strings.Contains(m.View(), "nothing here yet") {
		t.Error("expected empty placeholder")
	}
}

func TestListDeleteIsOptimistic(t *testing.T) {
	f := &fakeResource{rows: threeRows()}
	m := loadedList(t, f)
	m, _ = press(m, "j")

	m, cmd := press(m, "d")
	if cmd != nil || !m.confirmDelete {
		t.Fatal("delete should ask for confirmation first")
	}
	m, cmd = press(m, "y")
	if cmd == nil {
		t.Fatal("expected delete command")
	}
	if len(m.rows) != 2 || m.rows[1].id != "c" {
		t.Errorf("row not removed locally: %+v", m.rows)
	}

	m, next := m.Update(cmd())
	if len(f.removed) != 1 || f.removed[0] != "b" {
		t.Errorf("removed = %v", f.removed)
	}
	if next == nil {
		t.Error("successful delete should reload")
	}
	if m.statusMsg != "deleted" {
		t.Errorf("status = %q", m.statusMsg)
	}
}

func TestListDeleteDropsInFlightLoad(t *testing.T) {
	f := &fakeResource{rows: threeRows()}
	m := loadedList(t, f)

	m, inFlight := press(m, "r")
	if inFlight == nil {
		t.Fatal("expected reload command")
	}
	m, _ = press(m, "d")
	m, del := press(m, "y")

	// The load started before the delete still lists the row.
	m, _ = m.Update(inFlight())
	if len(m.rows) != 2 {
		t.Fatalf("rows = %d, stale load brought the deleted row back", len(m.rows))
	}

	f.rows = threeRows()[1:]
	m, reload := m.Update(del())
	if reload == nil {
		t.Fatal("expected reload after delete")
	}
	m, _ = m.Update(reload())
	if len(m.rows) != 2 || m.rows[0].id != "b" || m.loading {
		t.Errorf("rows = %+v loading = %v", m.rows, m.loading)
	}
}

func TestListDeleteFailureReloads(t *testing.T) {
	f := &fakeResource{rows: threeRows(), removeErr: errors.New("boom")}
	m := loadedList(t, f)

	m, _ = press(m, "d")
	m, cmd := press(m, "y")
	m, reload := m.Update(cmd())
	if reload == nil {
		t.Fatal("failed delete should reload")
	}
	if !m.failed {
		t.Error("expected failure status")
	}
	m, _ = m.Update(reload())
	if len(m.rows) != 3 {
		t.Errorf("rows = %d, want restored 3", len(m.rows))
	}
}

func TestListDeleteCancelled(t *testing.T) {
	f := &fakeResource{rows: threeRows()}
	m := loadedList(t, f)
	m, _ = press(m, "d")
	m, cmd := press(m, "n")
	if cmd != nil || len(m.rows) != 3 || m.confirmDelete {
		t.Error("any key other than y should cancel")
	}
}

func TestListPagination(t *testing.T) {
	f := &fakeResource{rows: threeRows(), pages: 3}
	m := loadedList(t, f)

	m, cmd := press(m, "]")
	if cmd == nil || m.page != 2 {
		t.Fatalf("page = %d", m.page)
	}
	m, _ = m.Update(cmd())
	if got := f.loads[len(f.loads)-1].page; got != 2 {
		t.Errorf("loaded page %d, want 2", got)
	}
	if !strings.Contains(m.View(), "page 2/3") {
		t.Error("page indicator missing")
	}

	m, _ = press(m, "[")
	m, _ = press(m, "[")
	if m.page != 1 {
		t.Errorf("page = %d, want 1", m.page)
	}
}

func TestListVariantToggle(t *testing.T) {
	f := &fakeResource{rows: threeRows()}
	m := loadedList(t, f)

	m, cmd := press(m, "v")
	if cmd == nil {
		t.Fatal("expected reload on variant change")
	}
	cmd()
	if got := f.loads[len(f.loads)-1].variant; got != 1 {
		t.Errorf("variant = %d, want 1", got)
	}
	if !strings.Contains(m.View(), "mobile") {
		t.Error("variant badge missing")
	}
}

func TestListFormCreate(t *testing.T) {
	f := &fakeResource{rows: threeRows()}
	m := loadedList(t, f)

	m, _ = press(m, "n")
	if !m.formOpen {
		t.Fatal("form not opened")
	}

	// Required field is checked before sending.
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd != nil {
		t.Fatal("empty required field should not submit")
	}
	if !strings.Contains(m.form.statusMsg, "name is required") {
		t.Errorf("status = %q", m.form.statusMsg)
	}

	for _, r := range "Ada" {
		m, _ = press(m, string(r))
	}
	m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd == nil {
		t.Fatal("expected submit command")
	}
	m, reload := m.Update(cmd())
	if m.formOpen {
		t.Error("form should close after save")
	}
	if reload == nil {
		t.Error("expected reload after save")
	}
	if len(f.created) != 1 || f.created[0]["name"] != "Ada" {
		t.Errorf("created = %v", f.created)
	}
}

func TestListFormEscCloses(t *testing.T) {
	m := loadedList(t, &fakeResource{rows: threeRows()})
	m, _ = press(m, "n")
	m, _ = m.Update(keyMsg("esc"))
	if m.formOpen {
		t.Error("esc should close the form")
	}
}

func TestListRowAction(t *testing.T) {
	f := &fakeResource{rows: threeRows()}
	m := loadedList(t, f)
	m, _ = press(m, "j")

	m, cmd := press(m, "a")
	if cmd == nil {
		t.Fatal("expected action command")
	}
	m, reload := m.Update(cmd())
	if len(f.activated) != 1 || f.activated[0] != "b" {
		t.Errorf("activated = %v", f.activated)
	}
	if m.statusMsg != "activated" || reload == nil {
		t.Errorf("status = %q reload = %v", m.statusMsg, reload != nil)
	}
}

func TestListCopyAndOpen(t *testing.T) {
	var copied, opened string
	origCopy, origOpen := copyToClipboard, openURL
	copyToClipboard = func(s string) error { copied = s; return nil }
	openURL = func(s string) error { opened = s; return nil }
	defer func() { copyToClipboard, openURL = origCopy, origOpen }()

	m := loadedList(t, &fakeResource{rows: threeRows()})

	m, _ = press(m, "c")
	if copied != "https://cdn.example.com/a.png" {
		t.Errorf("copied = %q", copied)
	}
	_, _ = press(m, "o")
	if opened != "https://cdn.example.com/a.png" {
		t.Errorf("opened = %q", opened)
	}

	// Rows without a link copy their id and do not open.
	m, _ = press(m, "j")
	opened = ""
	m, _ = press(m, "c")
	_, _ = press(m, "o")
	if copied != "b" || opened != "" {
		t.Errorf("copied = %q opened = %q", copied, opened)
	}
}

func TestReadOnlyListIgnoresEditKeys(t *testing.T) {
	spec := resourceSpec{
		title: "Users",
		load: func(context.Context, query) (listResult, error) {
			return listResult{rows: threeRows()}, nil
		},
	}
	m, cmd := newListModel(viewUsers, spec).refresh()
	m, _ = m.Update(cmd())

	for _, key := range []string{"n", "e", "d"} {
		m, _ = press(m, key)
	}
	if m.formOpen || m.confirmDelete {
		t.Error("read-only screen opened an editor")
	}
	if strings.Contains(m.helpKeys(), "delete") {
		t.Error("help advertises delete on a read-only screen")
	}
}

func TestListEditFetchesRecord(t *testing.T) {
	f := &fakeResource{rows: threeRows()}
	spec := f.spec()
	spec.update = func(context.Context, query, string, map[string]string) error { return nil }
	var fetched []string
	spec.fetch = func(_ context.Context, _ query, id string) (map[string]string, error) {
		fetched = append(fetched, id)
		if id == "b" {
			return nil, errors.New("gone")
		}
		return map[string]string{"name": "alpha from server"}, nil
	}
	m, cmd := newListModel(viewJobs, spec).refresh()
	m, _ = m.Update(cmd())

	m, cmd = press(m, "e")
	if cmd == nil || m.formOpen {
		t.Fatal("edit should load the record before opening the form")
	}
	m, _ = m.Update(cmd())
	if !m.formOpen || m.form.values[0] != "alpha from server" {
		t.Fatalf("form open = %v values = %v", m.formOpen, m.form.values)
	}

	m, _ = m.Update(keyMsg("esc"))
	m, _ = press(m, "j")
	m, cmd = press(m, "e")
	m, _ = m.Update(cmd())
	if m.formOpen || !m.failed {
		t.Errorf("failed fetch: form open = %v failed = %v", m.formOpen, m.failed)
	}
	if strings.Join(fetched, ",") != "a,b" {
		t.Errorf("fetched = %v", fetched)
	}
}
