package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/stockbox/stockbox-admin/internal/auth"
)

// Authenticator logs the operator in and out.
type Authenticator interface {
	Login(ctx context.Context, creds auth.Credentials) error
	Logout(ctx context.Context) error
}

type loginResultMsg struct {
	err error
}

const (
	focusEmail = iota
	focusPassword
	focusRemember
	numLoginFields
)

type loginModel struct {
	auth       Authenticator
	email      textinput.Model
	password   textinput.Model
	remember   bool
	focus      int
	err        string
	submitting bool
}

func newLoginModel(a Authenticator) loginModel {
	email := textinput.New()
	email.Placeholder = "admin@stockbox.com"
	email.Prompt = ""
	email.CharLimit = 254
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.Prompt = ""
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	password.CharLimit = 128

	return loginModel{auth: a, email: email, password: password}
}

func (m loginModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m loginModel) Update(msg tea.Msg) (loginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case loginResultMsg:
		m.submitting = false
		if msg.err != nil {
			m.err = loginErrorText(msg.err)
			return m, nil
		}
		m.err = ""
		m.password.SetValue("")
		return m, nil

	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		switch msg.String() {
		case "tab", "down":
			return m.setFocus((m.focus + 1) % numLoginFields)
		case "shift+tab", "up":
			return m.setFocus((m.focus - 1 + numLoginFields) % numLoginFields)
		case "ctrl+s":
			return m.submit()
		case "enter":
			if m.focus == focusEmail {
				return m.setFocus(focusPassword)
			}
			return m.submit()
		case " ", "space":
			if m.focus == focusRemember {
				m.remember = !m.remember
				return m, nil
			}
		}
		m.err = ""
	}

	var cmd tea.Cmd
	switch m.focus {
	case focusEmail:
		m.email, cmd = m.email.Update(msg)
	case focusPassword:
		m.password, cmd = m.password.Update(msg)
	}
	return m, cmd
}

func (m loginModel) setFocus(f int) (loginModel, tea.Cmd) {
	m.focus = f
	m.email.Blur()
	m.password.Blur()
	var cmd tea.Cmd
	switch f {
	case focusEmail:
		cmd = m.email.Focus()
	case focusPassword:
		cmd = m.password.Focus()
	}
	return m, cmd
}

func (m loginModel) credentials() auth.Credentials {
	return auth.Credentials{
		Email:      strings.TrimSpace(m.email.Value()),
		Password:   m.password.Value(),
		RememberMe: m.remember,
	}
}

func (m loginModel) submit() (loginModel, tea.Cmd) {
	creds := m.credentials()
	if creds.Email == "" || creds.Password == "" {
		m.err = auth.ErrMissingFields.Error()
		return m, nil
	}
	m.submitting = true
	m.err = ""
	a := m.auth
	return m, func() tea.Msg {
		return loginResultMsg{err: a.Login(context.Background(), creds)}
	}
}

// loginErrorText keeps backend detail out of the login screen.
func loginErrorText(err error) string {
	if errors.Is(err, auth.ErrMissingFields) {
		return auth.ErrMissingFields.Error()
	}
	return auth.ErrLoginFailed.Error()
}

func (m loginModel) View() string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n\n", sectionHeaderStyle.Render("Admin sign in"))

	label := func(f int, s string) string {
		if f == m.focus {
			return inputPromptStyle.Render("> ") + selectedStyle.Render(s)
		}
		return "  " + metaStyle.Render(s)
	}
	fmt.Fprintf(&b, "%s\n  %s\n\n", label(focusEmail, "Email"), m.email.View())
	fmt.Fprintf(&b, "%s\n  %s\n\n", label(focusPassword, "Password"), m.password.View())

	box := "[ ]"
	if m.remember {
		box = accentStyle.Render("[x]")
	}
	fmt.Fprintf(&b, "%s %s\n\n", label(focusRemember, "Remember me"), box)

	switch {
	case m.submitting:
		b.WriteString(dimStyle.Render("signing in..."))
	case m.err != "":
		b.WriteString(errorStyle.Render(m.err))
	default:
		b.WriteString(dimStyle.Render("enter to sign in"))
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(loginBoxStyle.Render(b.String()))
}
