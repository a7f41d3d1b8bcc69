// Package config loads the wallpaper selection settings.
//
// The settings are read from a JSON document, every field that the document
// does not set keeps its default value.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/handsomefox/redditwall/link"
)

const (
	DefaultDirectory = "~/.reddit-wallpaper"
	DefaultFilename  = "config.json"

	envPrefix = "REDDIT_WALLPAPER"
)

var (
	ErrInvalid = errors.New("invalid configuration")

	// Sorts are the listing sort modes reddit accepts.
	Sorts = []string{"hot", "new", "rising", "top", "controversial", "best"}
	// Timeframes are the time windows reddit accepts for top and controversial listings.
	Timeframes = []string{"hour", "day", "week", "month", "year", "all"}
)

// Config is the configuration for a single run.
type Config struct {
	Subreddits    []string
	Sort          string
	From          string
	MinScore      int
	Domains       []string
	Types         []string
	Shuffle       bool
	Directory     string
	MinResolution *link.Resolution
}

// Default returns the configuration used when the document sets nothing.
func Default() Config {
	return Config{
		Subreddits:    []string{"wallpaper", "wallpapers", "castles"},
		Sort:          "top",
		From:          "month",
		MinScore:      100,
		Domains:       []string{"i.imgur.com", "imgur.com"},
		Types:         []string{"png", "jpg", "jpeg"},
		Shuffle:       true,
		Directory:     DefaultDirectory,
		MinResolution: &link.Resolution{Width: 1920, Height: 1080},
	}
}

// Error is returned when the configuration can't be read or is invalid.
type Error struct {
	err  error
	path string
}

func (e *Error) Error() string {
	return fmt.Sprintf("couldn't load configuration(path=%s): %v", e.path, e.err)
}

func (e *Error) Unwrap() error {
	return e.err
}

// document mirrors Config, nil fields were not present in the document.
type document struct {
	Subreddits *[]string        `mapstructure:"subreddits"`
	Sort       *string          `mapstructure:"sort"`
	From       *string          `mapstructure:"from"`
	Score      *int             `mapstructure:"score"`
	Domains    *[]string        `mapstructure:"domains"`
	Types      *[]string        `mapstructure:"types"`
	Shuffle    *bool            `mapstructure:"shuffle"`
	Directory  *string          `mapstructure:"directory"`
	Resolution *link.Resolution `mapstructure:"resolution"`
}

var keys = []string{
	"subreddits", "sort", "from", "score", "domains", "types",
	"shuffle", "directory", "resolution.width", "resolution.height",
}

// DefaultPath returns the location of the configuration document in the user's home.
func DefaultPath() string {
	p, err := ExpandHome(filepath.Join(DefaultDirectory, DefaultFilename))
	if err != nil {
		return DefaultFilename
	}
	return p
}

// Load reads the document at path from the OS filesystem.
func Load(path string) (*Config, error) {
	return LoadFs(afero.NewOsFs(), path)
}

// LoadFs reads the document at path, merges it over Default() and validates the result.
// Environment variables prefixed with REDDIT_WALLPAPER_ override the document.
func LoadFs(fs afero.Fs, path string) (*Config, error) {
	v := viper.New()
	v.SetFs(fs)
	v.SetConfigFile(path)
	if filepath.Ext(path) == "" {
		v.SetConfigType("json")
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, k := range keys {
		if err := v.BindEnv(k); err != nil {
			return nil, &Error{err: err, path: path}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, &Error{err: err, path: path}
	}

	var doc document
	if err := v.Unmarshal(&doc); err != nil {
		return nil, &Error{err: fmt.Errorf("%w: unable to decode document", err), path: path}
	}

	cfg := doc.merge(Default())
	if err := cfg.normalize(); err != nil {
		return nil, &Error{err: err, path: path}
	}
	if err := cfg.Validate(); err != nil {
		return nil, &Error{err: err, path: path}
	}

	return &cfg, nil
}

// merge overlays every field present in the document.
func (d *document) merge(cfg Config) Config {
	if d.Subreddits != nil {
		cfg.Subreddits = *d.Subreddits
	}
	if d.Sort != nil {
		cfg.Sort = *d.Sort
	}
	if d.From != nil {
		cfg.From = *d.From
	}
	if d.Score != nil {
		cfg.MinScore = *d.Score
	}
	if d.Domains != nil {
		cfg.Domains = *d.Domains
	}
	if d.Types != nil {
		cfg.Types = *d.Types
	}
	if d.Shuffle != nil {
		cfg.Shuffle = *d.Shuffle
	}
	if d.Directory != nil {
		cfg.Directory = *d.Directory
	}
	if d.Resolution != nil {
		if d.Resolution.Width == 0 && d.Resolution.Height == 0 {
			cfg.MinResolution = nil
		} else {
			r := *d.Resolution
			cfg.MinResolution = &r
		}
	}
	return cfg
}

func (c *Config) normalize() error {
	c.Subreddits = lowerAll(c.Subreddits)
	c.Domains = lowerAll(c.Domains)
	c.Types = lowerAll(c.Types)
	c.Sort = strings.ToLower(strings.TrimSpace(c.Sort))
	c.From = strings.ToLower(strings.TrimSpace(c.From))

	dir, err := ExpandHome(c.Directory)
	if err != nil {
		return err
	}
	c.Directory = dir

	return nil
}

// Validate checks the values that reddit or the filters can't work with.
func (c *Config) Validate() error {
	if len(c.Subreddits) == 0 {
		return fmt.Errorf("%w: at least one subreddit is required", ErrInvalid)
	}
	if !slices.Contains(Sorts, c.Sort) {
		return fmt.Errorf("%w: unknown sort %q (%s)", ErrInvalid, c.Sort, strings.Join(Sorts, ", "))
	}
	if !slices.Contains(Timeframes, c.From) {
		return fmt.Errorf("%w: unknown timeframe %q (%s)", ErrInvalid, c.From, strings.Join(Timeframes, ", "))
	}
	if c.MinScore < 0 {
		return fmt.Errorf("%w: score can not be negative", ErrInvalid)
	}
	if r := c.MinResolution; r != nil {
		if r.Width < 0 || r.Height < 0 {
			return fmt.Errorf("%w: resolution can not be negative", ErrInvalid)
		}
		if r.Width == 0 || r.Height == 0 {
			return fmt.Errorf("%w: resolution needs both width and height, or neither to disable it", ErrInvalid)
		}
	}
	if c.Directory == "" {
		return fmt.Errorf("%w: directory can not be empty", ErrInvalid)
	}
	return nil
}

// ExpandHome replaces a leading ~ with the home directory of the current user.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") && !strings.HasPrefix(path, `~\`) {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("%w: couldn't expand %s", err, path)
	}

	return filepath.Join(home, path[1:]), nil
}

// lowerAll returns trimmed, lowercased, non-empty values.
func lowerAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}
