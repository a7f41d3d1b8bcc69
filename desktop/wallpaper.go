package desktop

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/rs/zerolog/log"
)

const setWallpaperPS = `Add-Type -TypeDefinition @"
using System.Runtime.InteropServices;
public class Wallpaper {
	[DllImport("user32.dll", CharSet = CharSet.Auto, SetLastError = true)]
	public static extern int SystemParametersInfo(int uAction, int uParam, string lpvParam, int fuWinIni);
}
"@
if ([Wallpaper]::SystemParametersInfo(20, 0, %s, 3) -eq 0) { exit 1 }`

// WallpaperSetError is returned when the wallpaper could not be changed.
type WallpaperSetError struct {
	err  error
	path string
}

func (e *WallpaperSetError) Error() string {
	return fmt.Sprintf("couldn't set the wallpaper (path=%s): %v", e.path, e.err)
}

func (e *WallpaperSetError) Unwrap() error {
	return e.err
}

// Setter changes the desktop background.
type Setter struct {
	runner  CommandRunner
	goos    string
	desktop string
}

// NewSetter returns a Setter for the current platform.
func NewSetter() *Setter {
	return &Setter{
		runner:  ExecRunner{},
		goos:    runtime.GOOS,
		desktop: os.Getenv("XDG_CURRENT_DESKTOP"),
	}
}

func (s *Setter) WithRunner(r CommandRunner) *Setter {
	s.runner = r
	return s
}

// WithPlatform overrides the detected operating system and desktop environment.
func (s *Setter) WithPlatform(goos, desktop string) *Setter {
	s.goos = goos
	s.desktop = desktop
	return s
}

// Set makes the image at path the desktop background.
func (s *Setter) Set(ctx context.Context, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return &WallpaperSetError{err: err, path: path}
	}

	cmds, err := s.commands(abs)
	if err != nil {
		return &WallpaperSetError{err: err, path: abs}
	}

	for _, cmd := range cmds {
		log.Debug().Str("command", cmd.name).Str("path", abs).Msg("setting wallpaper")

		if err := s.runner.Run(ctx, cmd.name, cmd.args...); err != nil {
			if cmd.optional {
				log.Debug().Err(err).Str("command", cmd.name).Msg("optional wallpaper command failed")
				continue
			}
			return &WallpaperSetError{err: fmt.Errorf("%w: %s failed", err, cmd.name), path: abs}
		}
	}
	return nil
}

// command is a single program invocation, a failed optional command is ignored.
type command struct {
	name     string
	args     []string
	optional bool
}

func (s *Setter) commands(path string) ([]command, error) {
	switch s.goos {
	case "darwin":
		script := "tell application \"System Events\" to tell every desktop to set picture to " + appleScriptString(path)
		return []command{{name: "osascript", args: []string{"-e", script}}}, nil
	case "windows":
		return []command{{
			name: "powershell",
			args: []string{"-NoProfile", "-NonInteractive", "-Command", fmt.Sprintf(setWallpaperPS, powerShellString(path))},
		}}, nil
	case "linux", "freebsd", "openbsd", "netbsd":
		return s.unixCommands(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, s.goos)
	}
}

func (s *Setter) unixCommands(path string) ([]command, error) {
	desktop := strings.ToLower(s.desktop)
	switch {
	case strings.Contains(desktop, "kde"):
		return []command{{name: "plasma-apply-wallpaperimage", args: []string{path}}}, nil
	case strings.Contains(desktop, "xfce"):
		return []command{{name: "xfconf-query", args: []string{
			"-c", "xfce4-desktop",
			"-p", "/backdrop/screen0/monitor0/workspace0/last-image",
			"-s", path,
		}}}, nil
	case strings.Contains(desktop, "gnome"),
		strings.Contains(desktop, "unity"),
		strings.Contains(desktop, "cinnamon"),
		strings.Contains(desktop, "budgie"):
		u := url.URL{Scheme: "file", Path: path}
		// GNOME 42+ shows picture-uri-dark with the dark style, older versions don't have the key.
		return []command{
			{name: "gsettings", args: []string{"set", "org.gnome.desktop.background", "picture-uri", u.String()}},
			{name: "gsettings", args: []string{"set", "org.gnome.desktop.background", "picture-uri-dark", u.String()}, optional: true},
		}, nil
	}

	if _, err := s.runner.LookPath("feh"); err != nil {
		return nil, fmt.Errorf("%w: unknown desktop %q and feh is not installed", ErrUnsupported, s.desktop)
	}
	return []command{{name: "feh", args: []string{"--bg-fill", path}}}, nil
}
