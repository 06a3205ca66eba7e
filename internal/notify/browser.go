package notify

import (
	"fmt"
	"os/exec"
	"runtime"
)

// Opener opens a URL in the operator's browser.
type Opener interface {
	Open(url string) error
}

// OpenerFunc adapts a function to an Opener.
type OpenerFunc func(url string) error

// Open implements Opener.
func (f OpenerFunc) Open(url string) error {
	return f(url)
}

// SystemBrowser opens URLs with the platform's default handler.
type SystemBrowser struct {
	// GOOS overrides runtime.GOOS; used by tests.
	GOOS string
}

// Open implements Opener. It does not wait for the browser to exit.
func (b SystemBrowser) Open(url string) error {
	name, args, err := b.command(url)
	if err != nil {
		return err
	}

	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to launch %s: %w", name, err)
	}
	go func() {
		_ = cmd.Wait()
	}()
	return nil
}

func (b SystemBrowser) command(url string) (string, []string, error) {
	goos := b.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}

	switch goos {
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}, nil
	case "darwin":
		return "open", []string{url}, nil
	case "linux", "freebsd", "openbsd", "netbsd":
		return "xdg-open", []string{url}, nil
	default:
		return "", nil, fmt.Errorf("opening a browser is not supported on %s", goos)
	}
}
