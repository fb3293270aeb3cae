package main

import (
	"fmt"
	"io"
	"math/rand"

	"github.com/charmbracelet/lipgloss"
)

var signedOutGreetings = [...]string{
	"The market opened without you. The dashboard noticed.",
	"Blogs don't publish themselves. Well, they do, but someone has to press P.",
	"Three IPOs opened this week. None of them know you're away.",
	"The carousel is still showing last month's slide.",
	"Your session expired. Your to-do list did not.",
	"Somebody signed up an hour ago. They'd love a welcome.",
	"The careers page has an opening. It might be for an admin who logs in.",
	"PDFs don't upload themselves. Yet.",
	"Every good newsletter starts with signing in.",
	"The ticker keeps moving. So should you.",
}

var (
	bannerTitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#38bdf8")).
				Bold(true)
	bannerQuoteStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245")).
				Italic(true)
	bannerDimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))
)

func printHelp(out io.Writer) {
	cmdStyle := lipgloss.NewStyle().Bold(true)
	commands := []struct{ cmd, desc string }{
		{"stockbox", "Open the admin console (interactive TUI)"},
		{"stockbox login", "Sign in from the terminal, then open the console"},
		{"stockbox logout", "End the session"},
		{"stockbox status", "Show whether this machine has a valid session"},
		{"stockbox --version", "Show version"},
		{"stockbox help", "You are here"},
	}

	fmt.Fprintf(out, "\n  %s\n\n  %s\n\n  Commands:\n",
		bannerTitleStyle.Render("S T O C K B O X"),
		bannerQuoteStyle.Render("Admin console for the Stockbox site."))
	for _, c := range commands {
		fmt.Fprintf(out, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-20s", c.cmd)), bannerDimStyle.Render(c.desc))
	}
	fmt.Fprintf(out, "\n  %s\n\n", bannerDimStyle.Render("Settings: ~/.stockbox/config.toml or STOCKBOX_* variables"))
}

func printGreeting(out io.Writer) {
	msg := signedOutGreetings[rand.Intn(len(signedOutGreetings))]
	fmt.Fprintf(out, "\n%s\n\n%s\n\n%s\n\n",
		bannerTitleStyle.Render("STOCKBOX"),
		bannerQuoteStyle.Render(msg),
		bannerDimStyle.Render("To sign in: stockbox login"))
}
