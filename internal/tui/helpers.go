package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/stockbox/stockbox-admin/pkg/client"
)

// formatTime renders a relative timestamp for list columns.
func formatTime(t time.Time, now time.Time) string {
	if t.IsZero() {
		return "-"
	}
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

// truncStr truncates a string to maxLen runes, appending an ellipsis if needed.
func truncStr(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen-1]) + "…"
}

// padRight pads s with spaces to width runes.
func padRight(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

// oneLine collapses newlines and runs of whitespace.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

var validate = validator.New()

// validateInput checks a request struct and reports the first failing field
// in plain words.
func validateInput(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s is required", field)
	case "email":
		return fmt.Errorf("%s must be a valid email", field)
	case "url":
		return fmt.Errorf("%s must be a valid URL", field)
	case "file":
		return fmt.Errorf("%s: file not found", field)
	case "min":
		return fmt.Errorf("%s must be at least %s characters", field, fe.Param())
	case "gte":
		return fmt.Errorf("%s must be %s or more", field, fe.Param())
	default:
		return fmt.Errorf("%s is invalid", field)
	}
}

// describeError turns a request failure into a one-line message for the
// status bar.
func describeError(err error) string {
	var he *client.HTTPError
	if errors.As(err, &he) {
		switch he.Kind {
		case client.KindUnauthenticated:
			return "session ended by server: " + he.Message
		case client.KindNotFound:
			return "not found: " + he.Message
		case client.KindValidation:
			return "rejected: " + he.Message
		}
		return he.Error()
	}
	return err.Error()
}
