package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"golang.org/x/term"

	"github.com/stockbox/stockbox-admin/internal/auth"
	"github.com/stockbox/stockbox-admin/internal/config"
	"github.com/stockbox/stockbox-admin/internal/logger"
	"github.com/stockbox/stockbox-admin/internal/session"
	"github.com/stockbox/stockbox-admin/internal/tui"
	"github.com/stockbox/stockbox-admin/pkg/client"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// console is the wired session lifecycle shared by every command.
type console struct {
	cfg    *config.Config
	log    zerolog.Logger
	store  *session.Store
	guard  *session.Guard
	client *client.Client
	flow   *auth.Flow
}

func newConsole(cfg *config.Config, storage session.Storage, log zerolog.Logger) *console {
	store := session.NewStore(storage, log)
	c := client.New(cfg.APIURL,
		client.WithInvalidator(store),
		client.WithCookieStore(storage),
		client.WithLogger(log),
		client.WithTimeout(cfg.RequestTimeout),
	)
	return &console{
		cfg:    cfg,
		log:    log,
		store:  store,
		guard:  session.NewGuard(store, log, session.WithMaxAge(cfg.SessionMaxAge)),
		client: c,
		flow:   auth.NewFlow(c, store, nil, log),
	}
}

func setup(ctx context.Context) (*console, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}
	log, err := logger.Init(logger.Options{Level: cfg.LogLevel, Path: cfg.LogPath()})
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: logging disabled: %v\n", err)
	}
	log.Debug().Str("api", cfg.APIURL).Dur("session_max_age", cfg.SessionMaxAge).Msg("console starting")
	return newConsole(cfg, session.NewFileStorage(cfg.StoragePath(), log), log), nil
}

func run(ctx context.Context, args []string) error {
	if len(args) > 0 {
		switch args[0] {
		case "--version", "version", "-v":
			fmt.Println("stockbox " + version)
			return nil
		case "help", "--help", "-h":
			printHelp(os.Stdout)
			return nil
		}
	}

	con, err := setup(ctx)
	if err != nil {
		return err
	}
	defer logger.Close() //nolint:errcheck

	if len(args) == 0 {
		return con.runTUI()
	}
	switch args[0] {
	case "login":
		remember := len(args) > 1 && args[1] == "--remember"
		if err := con.runLogin(ctx, os.Stdin, os.Stdout, remember); err != nil {
			return err
		}
		return con.runTUI()
	case "logout":
		return con.runLogout(ctx, os.Stdout)
	case "status":
		con.printStatus(os.Stdout)
		return nil
	default:
		return fmt.Errorf("unknown command %q (see: stockbox help)", args[0])
	}
}

func (con *console) runTUI() error {
	app := tui.NewApp(con.client, con.guard, con.flow)
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

// readPassword reads without echo when stdin is a terminal.
var readPassword = func(in *bufio.Reader) (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		fmt.Println()
		return string(b), err
	}
	return readLine(in)
}

func readLine(in *bufio.Reader) (string, error) {
	line, err := in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (con *console) runLogin(ctx context.Context, stdin io.Reader, out io.Writer, remember bool) error {
	in := bufio.NewReader(stdin)

	fmt.Fprint(out, "Email: ")
	email, err := readLine(in)
	if err != nil {
		return fmt.Errorf("read email: %w", err)
	}
	fmt.Fprint(out, "Password: ")
	password, err := readPassword(in)
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}

	creds := auth.Credentials{Email: strings.TrimSpace(email), Password: password, RememberMe: remember}
	if err := con.flow.Login(ctx, creds); err != nil {
		con.log.Debug().Err(err).Msg("login failed")
		if errors.Is(err, auth.ErrMissingFields) {
			return auth.ErrMissingFields
		}
		return auth.ErrLoginFailed
	}
	fmt.Fprintf(out, "Signed in. Session valid for %s on this machine.\n", con.guard.MaxAge())
	return nil
}

func (con *console) runLogout(ctx context.Context, out io.Writer) error {
	if _, ok := con.store.Read(); !ok {
		fmt.Fprintln(out, "Already signed out.")
		return nil
	}
	if err := con.flow.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(out, "Signed out.")
	return nil
}

func (con *console) printStatus(out io.Writer) {
	v := con.guard.Check()
	if !v.Allowed() {
		if v.Reason == session.ReasonExpired {
			fmt.Fprintln(out, "Session expired.")
		}
		printGreeting(out)
		return
	}
	left := con.guard.Remaining().Round(time.Minute)
	fmt.Fprintf(out, "Signed in to %s. Session ends in %s.\n", con.cfg.APIURL, left)
}
