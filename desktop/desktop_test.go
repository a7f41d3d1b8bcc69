package desktop

import (
	"context"
	"errors"
	"os/exec"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handsomefox/redditwall/link"
)

type call struct {
	name string
	args []string
}

type fakeRunner struct {
	calls     []call
	installed []string
	err       error
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) error {
	f.calls = append(f.calls, call{name: name, args: args})
	return f.err
}

func (f *fakeRunner) LookPath(file string) (string, error) {
	for _, name := range f.installed {
		if name == file {
			return "/usr/bin/" + file, nil
		}
	}
	return "", exec.ErrNotFound
}

func TestSetterCommands(t *testing.T) {
	t.Parallel()

	tests := []struct {
		goos, desktop string
		installed     []string
		wantName      string
		wantArg       string
	}{
		{"linux", "GNOME", nil, "gsettings", "file:///tmp/walls/a.jpg"},
		{"linux", "ubuntu:GNOME", nil, "gsettings", "file:///tmp/walls/a.jpg"},
		{"linux", "KDE", nil, "plasma-apply-wallpaperimage", "/tmp/walls/a.jpg"},
		{"linux", "XFCE", nil, "xfconf-query", "/tmp/walls/a.jpg"},
		{"linux", "i3", []string{"feh"}, "feh", "/tmp/walls/a.jpg"},
		{"darwin", "", nil, "osascript", `set picture to "/tmp/walls/a.jpg"`},
		{"windows", "", nil, "powershell", "'/tmp/walls/a.jpg'"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.goos+"/"+tt.desktop, func(t *testing.T) {
			t.Parallel()
			runner := &fakeRunner{installed: tt.installed}
			s := NewSetter().WithRunner(runner).WithPlatform(tt.goos, tt.desktop)

			require.NoError(t, s.Set(context.TODO(), "/tmp/walls/a.jpg"))
			require.NotEmpty(t, runner.calls)
			assert.Equal(t, tt.wantName, runner.calls[0].name)

			joined := strings.Join(runner.calls[0].args, " ")
			assert.Contains(t, joined, tt.wantArg)
		})
	}
}

// darkKeyRunner fails like gsettings on GNOME versions without picture-uri-dark.
type darkKeyRunner struct {
	fakeRunner
}

func (r *darkKeyRunner) Run(ctx context.Context, name string, args ...string) error {
	_ = r.fakeRunner.Run(ctx, name, args...)
	if slices.Contains(args, "picture-uri-dark") {
		return errors.New("No such key “picture-uri-dark”")
	}
	return nil
}

func TestSetterGnomeDarkStyle(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{}
	require.NoError(t, NewSetter().WithRunner(runner).WithPlatform("linux", "GNOME").Set(context.TODO(), "/tmp/walls/a.jpg"))
	assert.Equal(t, []call{
		{name: "gsettings", args: []string{"set", "org.gnome.desktop.background", "picture-uri", "file:///tmp/walls/a.jpg"}},
		{name: "gsettings", args: []string{"set", "org.gnome.desktop.background", "picture-uri-dark", "file:///tmp/walls/a.jpg"}},
	}, runner.calls)

	old := &darkKeyRunner{}
	require.NoError(t, NewSetter().WithRunner(old).WithPlatform("linux", "GNOME").Set(context.TODO(), "/tmp/walls/a.jpg"),
		"a missing dark key does not fail older versions")
	assert.Len(t, old.calls, 2)

	failing := &fakeRunner{err: errors.New("exit status 1")}
	err := NewSetter().WithRunner(failing).WithPlatform("linux", "GNOME").Set(context.TODO(), "/tmp/walls/a.jpg")
	var se *WallpaperSetError
	require.ErrorAs(t, err, &se)
	assert.Len(t, failing.calls, 1, "nothing runs after the main key fails")
}

func TestSetterErrors(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{}
	err := NewSetter().WithRunner(runner).WithPlatform("linux", "i3").Set(context.TODO(), "/tmp/a.jpg")
	var se *WallpaperSetError
	require.ErrorAs(t, err, &se)
	assert.ErrorIs(t, err, ErrUnsupported)
	assert.Empty(t, runner.calls)

	err = NewSetter().WithRunner(runner).WithPlatform("plan9", "").Set(context.TODO(), "/tmp/a.jpg")
	assert.ErrorIs(t, err, ErrUnsupported)

	failing := &fakeRunner{err: errors.New("exit status 1")}
	err = NewSetter().WithRunner(failing).WithPlatform("darwin", "").Set(context.TODO(), "/tmp/a.jpg")
	require.ErrorAs(t, err, &se)
	assert.Contains(t, err.Error(), "osascript failed")
}

func TestAppleScriptQuoting(t *testing.T) {
	t.Parallel()
	assert.Equal(t, `"a \"b\" \\c"`, appleScriptString(`a "b" \c`))
	assert.Equal(t, `'it''s'`, powerShellString(`it's`))
}

func testCandidate() link.Candidate {
	return link.Candidate{
		URL:        "https://i.imgur.com/jEFSFKr.jpg",
		Subreddit:  "wallpaper",
		Permalink:  "/r/wallpaper/comments/11yq2x3/staring_into_the_woods/",
		Title:      "Staring into the woods [3840x2160]",
		Author:     "forest_walker",
		Score:      1543,
		CreatedUTC: 1679491200,
	}
}

func TestNotificationFor(t *testing.T) {
	t.Parallel()
	c := testCandidate()
	now := c.Created().Add(3 * 24 * time.Hour)

	n := NotificationFor(c, "/tmp/walls/jEFSFKr.jpg", now)
	assert.Equal(t, "Staring into the woods [3840x2160]", n.Title)
	assert.Equal(t, "wallpaper", n.Subtitle)
	assert.Equal(t, "/r/wallpaper 1543 points, 3 days ago by forest_walker", n.Message)
	assert.Equal(t, "https://reddit.com/r/wallpaper/comments/11yq2x3/staring_into_the_woods/", n.Open)
	assert.Equal(t, "/tmp/walls/jEFSFKr.jpg", n.Icon)
}

func TestNotifierCommands(t *testing.T) {
	t.Parallel()
	msg := NotificationFor(testCandidate(), "/tmp/walls/jEFSFKr.jpg", time.Unix(1679491200, 0).Add(time.Hour))

	t.Run("linux", func(t *testing.T) {
		t.Parallel()
		runner := &fakeRunner{}
		require.NoError(t, NewNotifier().WithRunner(runner).WithPlatform("linux").Notify(context.TODO(), msg))
		require.Len(t, runner.calls, 1)
		c := runner.calls[0]
		assert.Equal(t, "notify-send", c.name)
		assert.Contains(t, c.args, "--icon=/tmp/walls/jEFSFKr.jpg")
		assert.Contains(t, c.args, msg.Title)
		assert.Contains(t, c.args[len(c.args)-1], msg.Open, "the link goes into the body")
	})

	t.Run("darwin with terminal-notifier", func(t *testing.T) {
		t.Parallel()
		runner := &fakeRunner{installed: []string{"terminal-notifier"}}
		require.NoError(t, NewNotifier().WithRunner(runner).WithPlatform("darwin").Notify(context.TODO(), msg))
		require.Len(t, runner.calls, 1)
		c := runner.calls[0]
		assert.Equal(t, "terminal-notifier", c.name)
		assert.Equal(t, []string{
			"-title", msg.Title,
			"-subtitle", "wallpaper",
			"-message", "/r/wallpaper 1543 points, 1 hour ago by forest_walker",
			"-open", msg.Open,
			"-contentImage", "/tmp/walls/jEFSFKr.jpg",
		}, c.args)
	})

	t.Run("darwin without terminal-notifier", func(t *testing.T) {
		t.Parallel()
		runner := &fakeRunner{}
		require.NoError(t, NewNotifier().WithRunner(runner).WithPlatform("darwin").Notify(context.TODO(), msg))
		require.Len(t, runner.calls, 1)
		assert.Equal(t, "osascript", runner.calls[0].name)
		assert.Contains(t, runner.calls[0].args[1], `subtitle "wallpaper"`)
	})

	t.Run("failure", func(t *testing.T) {
		t.Parallel()
		runner := &fakeRunner{err: errors.New("exit status 1")}
		err := NewNotifier().WithRunner(runner).WithPlatform("linux").Notify(context.TODO(), msg)
		var ne *NotifyError
		require.ErrorAs(t, err, &ne)
	})

	t.Run("unsupported", func(t *testing.T) {
		t.Parallel()
		err := NewNotifier().WithRunner(&fakeRunner{}).WithPlatform("js").Notify(context.TODO(), msg)
		assert.ErrorIs(t, err, ErrUnsupported)
	})
}
