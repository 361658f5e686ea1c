// Package opener hands a written chart document to a viewer.
package opener

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// Open modes accepted by ForMode.
const (
	ModeNone   = "none"
	ModeSystem = "system"
	ModeView   = "view"
)

// Opener shows the document at path to the user.
type Opener interface {
	Open(ctx context.Context, path string) error
}

// Func adapts a function to Opener.
type Func func(ctx context.Context, path string) error

// Open calls f.
func (f Func) Open(ctx context.Context, path string) error {
	return f(ctx, path)
}

// None leaves the document alone.
type None struct{}

// Open does nothing.
func (None) Open(context.Context, string) error {
	return nil
}

// System opens the document with an external command. An empty Command
// uses the platform's default opener.
type System struct {
	Command []string
	GOOS    string
	Run     func(cmd *exec.Cmd) error
}

// Open runs the command with path as its last argument.
func (s System) Open(ctx context.Context, path string) error {
	argv := s.Command
	if len(argv) == 0 {
		argv = DefaultCommand(s.goos())
	}
	args := append(append([]string{}, argv[1:]...), path)
	cmd := exec.CommandContext(ctx, argv[0], args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	run := s.Run
	if run == nil {
		run = (*exec.Cmd).Run
	}
	if err := run(cmd); err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	return nil
}

func (s System) goos() string {
	if s.GOOS != "" {
		return s.GOOS
	}
	return runtime.GOOS
}

// DefaultCommand returns the platform's default document opener.
func DefaultCommand(goos string) []string {
	switch goos {
	case "darwin":
		return []string{"open"}
	case "windows":
		return []string{"cmd", "/c", "start", ""}
	default:
		return []string{"xdg-open"}
	}
}

// ForMode returns the opener for a configured mode. command overrides the
// system opener; view is used for ModeView.
func ForMode(mode, command string, view Func) (Opener, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", ModeNone:
		return None{}, nil
	case ModeSystem:
		return System{Command: strings.Fields(command)}, nil
	case ModeView:
		if view == nil {
			return nil, fmt.Errorf("no built-in viewer available")
		}
		return view, nil
	default:
		return nil, fmt.Errorf("unknown open mode %q (want none, system or view)", mode)
	}
}
