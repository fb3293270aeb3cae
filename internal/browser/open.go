// Package browser opens links from the console in the system browser.
package browser

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
)

// command returns the launcher for the current OS.
var command = func(goos, target string) (*exec.Cmd, error) {
	switch goos {
	case "darwin":
		return exec.Command("open", target), nil
	case "linux":
		return exec.Command("xdg-open", target), nil
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", target), nil
	default:
		return nil, fmt.Errorf("unsupported OS: %s", goos)
	}
}

// Check reports whether target is an absolute http(s) URL. Asset links come
// from the backend, so anything else is refused rather than handed to the OS.
func Check(target string) error {
	u, err := url.Parse(target)
	if err != nil {
		return fmt.Errorf("browser: parse %q: %w", target, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("browser: refusing to open %q", target)
	}
	return nil
}

// Open opens target in the user's default browser.
func Open(target string) error {
	if err := Check(target); err != nil {
		return err
	}
	cmd, err := command(runtime.GOOS, target)
	if err != nil {
		return err
	}
	return cmd.Start()
}
