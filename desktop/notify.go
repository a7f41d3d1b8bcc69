package desktop

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"

	"github.com/handsomefox/redditwall/link"
)

const (
	appName    = "redditwall"
	redditHost = "https://reddit.com"
)

const notifyPS = `Add-Type -AssemblyName System.Windows.Forms
$n = New-Object System.Windows.Forms.NotifyIcon
$n.Icon = [System.Drawing.SystemIcons]::Information
$n.BalloonTipTitle = %s
$n.BalloonTipText = %s
$n.Visible = $true
$n.ShowBalloonTip(10000)
Start-Sleep -Seconds 10
$n.Dispose()`

// NotifyError is returned when the notification could not be shown.
type NotifyError struct {
	err   error
	title string
}

func (e *NotifyError) Error() string {
	return fmt.Sprintf("couldn't show the notification (title=%s): %v", e.title, e.err)
}

func (e *NotifyError) Unwrap() error {
	return e.err
}

// Notification describes where the new wallpaper came from.
type Notification struct {
	Title    string
	Subtitle string
	Message  string
	Open     string // opened on click
	Icon     string
}

// NotificationFor builds the notification for the winning candidate.
// The message looks like
//
//	/r/wallpaper 1543 points, 3 days ago by forest_walker
func NotificationFor(c link.Candidate, icon string, now time.Time) Notification {
	return Notification{
		Title:    c.Title,
		Subtitle: c.Subreddit,
		Message: fmt.Sprintf("/r/%s %d points, %s by %s",
			c.Subreddit, c.Score, humanize.RelTime(c.Created(), now, "ago", "from now"), c.Author),
		Open: redditHost + c.Permalink,
		Icon: icon,
	}
}

// Notifier shows desktop notifications.
type Notifier struct {
	runner CommandRunner
	goos   string
}

// NewNotifier returns a Notifier for the current platform.
func NewNotifier() *Notifier {
	return &Notifier{
		runner: ExecRunner{},
		goos:   runtime.GOOS,
	}
}

func (n *Notifier) WithRunner(r CommandRunner) *Notifier {
	n.runner = r
	return n
}

func (n *Notifier) WithPlatform(goos string) *Notifier {
	n.goos = goos
	return n
}

// Notify shows the notification.
func (n *Notifier) Notify(ctx context.Context, msg Notification) error {
	name, args, err := n.command(msg)
	if err != nil {
		return &NotifyError{err: err, title: msg.Title}
	}

	log.Debug().Str("command", name).Str("title", msg.Title).Msg("sending notification")

	if err := n.runner.Run(ctx, name, args...); err != nil {
		return &NotifyError{err: fmt.Errorf("%w: %s failed", err, name), title: msg.Title}
	}
	return nil
}

func (n *Notifier) command(msg Notification) (string, []string, error) {
	switch n.goos {
	case "darwin":
		if _, err := n.runner.LookPath("terminal-notifier"); err == nil {
			args := []string{
				"-title", msg.Title,
				"-subtitle", msg.Subtitle,
				"-message", msg.Message,
				"-open", msg.Open,
			}
			if msg.Icon != "" {
				args = append(args, "-contentImage", msg.Icon)
			}
			return "terminal-notifier", args, nil
		}
		script := fmt.Sprintf("display notification %s with title %s subtitle %s",
			appleScriptString(msg.Message), appleScriptString(msg.Title), appleScriptString(msg.Subtitle))
		return "osascript", []string{"-e", script}, nil
	case "windows":
		text := msg.Message + "\n" + msg.Open
		return "powershell", []string{
			"-NoProfile", "-NonInteractive", "-Command",
			fmt.Sprintf(notifyPS, powerShellString(msg.Title), powerShellString(text)),
		}, nil
	case "linux", "freebsd", "openbsd", "netbsd":
		args := []string{"--app-name=" + appName}
		if msg.Icon != "" {
			args = append(args, "--icon="+msg.Icon)
		}
		body := msg.Subtitle + "\n" + msg.Message + "\n" + msg.Open
		args = append(args, "--", msg.Title, body)
		return "notify-send", args, nil
	default:
		return "", nil, fmt.Errorf("%w: %s", ErrUnsupported, n.goos)
	}
}
