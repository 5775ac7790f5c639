package browser

import (
	"errors"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
)

// ErrUnsupportedURL is returned for anything other than an absolute http(s) URL.
var ErrUnsupportedURL = errors.New("only absolute http(s) URLs can be opened")

// Opener launches the platform's default browser.
type Opener struct {
	// command builds the launcher for a URL; replaced in tests.
	command func(rawURL string) *exec.Cmd
}

// NewOpener creates an Opener for the current platform.
func NewOpener() *Opener {
	return &Opener{command: platformCommand}
}

// Open starts the browser on rawURL without waiting for it to exit.
func (o *Opener) Open(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil || !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("open %q: %w", rawURL, ErrUnsupportedURL)
	}

	cmd := o.command(u.String())
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start browser: %w", err)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

func platformCommand(rawURL string) *exec.Cmd {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", rawURL)
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", rawURL)
	default:
		return exec.Command("xdg-open", rawURL)
	}
}
