package tui

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/stockbox/stockbox-admin/internal/logger"
	"github.com/stockbox/stockbox-admin/internal/session"
	"github.com/stockbox/stockbox-admin/pkg/client"
)

type view int

const (
	viewLogin view = iota
	viewBlogs
	viewCategories
	viewJobs
	viewIPOs
	viewListings
	viewYearly
	viewEmployees
	viewPDFs
	viewCarousel
	viewEvent
	viewUsers
	viewSettings
	numViews
)

// mainView is where a successful login lands.
const mainView = viewBlogs

type tabEntry struct {
	key  string
	name string
	v    view
}

var tabs = []tabEntry{
	{"1", "Blogs", viewBlogs},
	{"2", "Categories", viewCategories},
	{"3", "Jobs", viewJobs},
	{"4", "IPOs", viewIPOs},
	{"5", "Listings", viewListings},
	{"6", "Yearly", viewYearly},
	{"7", "Team", viewEmployees},
	{"8", "PDFs", viewPDFs},
	{"9", "Carousel", viewCarousel},
	{"0", "Event", viewEvent},
	{"U", "Users", viewUsers},
	{"S", "Settings", viewSettings},
}

// Guard decides whether a protected screen may be shown.
type Guard interface {
	Check() session.Verdict
}

// navigateMsg asks the app to switch screens. Every switch consults the guard.
type navigateMsg struct {
	to view
}

type logoutMsg struct {
	err error
}

// App is the root Bubbletea model.
type App struct {
	guard    Guard
	auth     Authenticator
	view     view
	mounted  bool
	login    loginModel
	lists    [numViews]listModel
	settings formModel
	notice   string
	failed   bool
	width    int
	height   int
	frame    int // logo shimmer animation frame
	log      zerolog.Logger
}

// NewApp creates the console. c backs the CRUD screens; guard and a are
// consulted for every screen change and for login/logout.
func NewApp(c *client.Client, guard Guard, a Authenticator) App {
	app := App{
		guard:    guard,
		auth:     a,
		view:     viewLogin,
		login:    newLoginModel(a),
		settings: settingsForm(c),
		log:      logger.Get().With().Str("component", "tui").Logger(),
	}
	for v, spec := range resourceSpecs(c, time.Now) {
		app.lists[v] = newListModel(v, spec)
	}
	return app
}

// Init mounts the app: the first navigation runs the session guard.
func (a App) Init() tea.Cmd {
	return tea.Batch(shimmerTickCmd(), func() tea.Msg {
		return navigateMsg{to: mainView}
	})
}

func isListView(v view) bool {
	return v > viewLogin && v < viewSettings
}

// navigate runs the session guard before showing a protected screen. A
// missing or expired session lands on the login screen instead.
func (a App) navigate(to view) (App, tea.Cmd) {
	a.mounted = true
	if to == viewLogin {
		a.view = viewLogin
		return a, a.login.Init()
	}

	verdict := a.guard.Check()
	if !verdict.Allowed() {
		a.log.Debug().Str("reason", string(verdict.Reason)).Msg("redirecting to login")
		a.view = viewLogin
		a.login = newLoginModel(a.auth)
		a.notice = ""
		return a, a.login.Init()
	}

	a.view = to
	a.notice = ""
	if !isListView(to) {
		return a, nil
	}
	var cmd tea.Cmd
	a.lists[to], cmd = a.lists[to].refresh()
	return a, cmd
}

func (a App) logout() tea.Cmd {
	auth := a.auth
	return func() tea.Msg {
		return logoutMsg{err: auth.Logout(context.Background())}
	}
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Chrome: header(2) + tabs(1) + notice(1) + help(1) = 5 lines
		bodyMsg := tea.WindowSizeMsg{Width: msg.Width, Height: msg.Height - 5}
		for v := range a.lists {
			a.lists[v], _ = a.lists[v].Update(bodyMsg)
		}
		return a, nil

	case shimmerTickMsg:
		a.frame++
		return a, shimmerTickCmd()

	case navigateMsg:
		return a.navigate(msg.to)

	case loginResultMsg:
		var loginCmd tea.Cmd
		a.login, loginCmd = a.login.Update(msg)
		if msg.err != nil {
			return a, loginCmd
		}
		a.log.Info().Msg("signed in")
		model, navCmd := a.navigate(mainView)
		return model, tea.Batch(loginCmd, navCmd)

	case logoutMsg:
		if msg.err != nil {
			a.notice = describeError(msg.err)
			a.failed = true
			return a, nil
		}
		a.log.Info().Msg("signed out")
		return a.navigate(a.view)

	case listLoadedMsg:
		return a.routeList(msg.owner, msg)
	case rowDeletedMsg:
		return a.routeList(msg.owner, msg)
	case actionDoneMsg:
		return a.routeList(msg.owner, msg)
	case editLoadedMsg:
		return a.routeList(msg.owner, msg)
	case formSubmittedMsg:
		if msg.owner == viewSettings {
			var cmd tea.Cmd
			a.settings, cmd = a.settings.Update(msg)
			return a, cmd
		}
		return a.routeList(msg.owner, msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.view == viewLogin {
			var cmd tea.Cmd
			a.login, cmd = a.login.Update(msg)
			return a, cmd
		}
		if a.view == viewSettings && msg.String() == "esc" {
			return a.navigate(mainView)
		}
		if !a.isEditing() {
			if next, cmd, ok := a.globalKey(msg.String()); ok {
				return next, cmd
			}
		}
	}

	var cmd tea.Cmd
	switch {
	case a.view == viewLogin:
		a.login, cmd = a.login.Update(msg)
	case a.view == viewSettings:
		a.settings, cmd = a.settings.Update(msg)
	case isListView(a.view):
		a.lists[a.view], cmd = a.lists[a.view].Update(msg)
	}
	return a, cmd
}

// routeList delivers an async result to the screen that requested it, even
// if the operator has since moved elsewhere.
func (a App) routeList(owner view, msg tea.Msg) (tea.Model, tea.Cmd) {
	if !isListView(owner) {
		return a, nil
	}
	var cmd tea.Cmd
	a.lists[owner], cmd = a.lists[owner].Update(msg)
	return a, cmd
}

func (a App) globalKey(key string) (App, tea.Cmd, bool) {
	switch key {
	case "q":
		return a, tea.Quit, true
	case "L":
		a.notice = "signing out..."
		a.failed = false
		return a, a.logout(), true
	case "tab", "shift+tab":
		i := a.tabIndex()
		if key == "tab" {
			i = (i + 1) % len(tabs)
		} else {
			i = (i - 1 + len(tabs)) % len(tabs)
		}
		next, cmd := a.navigate(tabs[i].v)
		return next, cmd, true
	}
	for _, t := range tabs {
		if t.key == key {
			next, cmd := a.navigate(t.v)
			return next, cmd, true
		}
	}
	return a, nil, false
}

func (a App) tabIndex() int {
	for i, t := range tabs {
		if t.v == a.view {
			return i
		}
	}
	return 0
}

func (a App) isEditing() bool {
	switch {
	case a.view == viewSettings:
		return true
	case isListView(a.view):
		return a.lists[a.view].editing()
	}
	return false
}

func (a App) View() string {
	logo := renderShimmerLogo(a.frame)
	logoPad := max((a.width-lipgloss.Width(logo))/2, 0)
	header := strings.Repeat(" ", logoPad) + logo + "\n"

	if !a.mounted {
		return header + "\n " + dimStyle.Render("checking session...")
	}

	if a.view == viewLogin {
		return header + "\n" + a.login.View() + "\n" + helpBar("tab", "next", "space", "remember", "enter", "sign in", "ctrl+c", "quit")
	}

	// Tab bar: equal-width columns spread across the terminal, or packed
	// labels when the terminal is too narrow for that.
	labels := make([]string, len(tabs))
	total := 0
	for i, t := range tabs {
		if t.v == a.view {
			labels[i] = accentStyle.Render(t.key) + " " + selectedStyle.Underline(true).Render(t.name)
		} else {
			labels[i] = metaStyle.Render(t.key) + " " + dimStyle.Render(t.name)
		}
		total += lipgloss.Width(labels[i]) + 1
	}
	colWidth := a.width / len(tabs)
	var tabBar strings.Builder
	for _, label := range labels {
		if total > a.width {
			tabBar.WriteString(label + " ")
			continue
		}
		labelWidth := lipgloss.Width(label)
		leftPad := max((colWidth-labelWidth)/2, 0)
		rightPad := max(colWidth-labelWidth-leftPad, 0)
		tabBar.WriteString(strings.Repeat(" ", leftPad) + label + strings.Repeat(" ", rightPad))
	}

	var body, help string
	switch {
	case a.view == viewSettings:
		body = a.settings.View()
		help = helpBar("tab", "next", "ctrl+s", "save", "esc", "back")
	case isListView(a.view):
		body = a.lists[a.view].View()
		help = a.lists[a.view].helpKeys()
		if !a.lists[a.view].editing() {
			help += "  " + helpEntry("L", "logout") + "  " + helpEntry("q", "quit")
		}
	}

	chrome := 5
	body = strings.TrimRight(truncateToHeight(body, a.height-chrome), "\n")

	return header + tabBar.String() + "\n" + body + "\n" + " " + statusLine(a.notice, a.failed) + "\n" + help
}
