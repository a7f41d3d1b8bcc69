// Package desktop talks to the desktop environment: it sets the wallpaper and shows notifications.
// Everything is done by running the tools the platform already ships with.
package desktop

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

var ErrUnsupported = errors.New("platform not supported")

// CommandRunner runs external programs.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) error
	LookPath(file string) (string, error)
}

// ExecRunner is a CommandRunner backed by os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		if msg := strings.TrimSpace(string(out)); msg != "" {
			return fmt.Errorf("%w: %s", err, msg)
		}
		return err
	}
	return nil
}

func (ExecRunner) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

// appleScriptString quotes s as an AppleScript string literal.
func appleScriptString(s string) string {
	return `"` + strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s) + `"`
}

// powerShellString quotes s as a single-quoted PowerShell string literal.
func powerShellString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
