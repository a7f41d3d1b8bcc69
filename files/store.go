package files

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/handsomefox/redditwall/api"
	"github.com/handsomefox/redditwall/link"
)

var ErrNotImage = errors.New("the payload is not an image")

// DownloadError is an error which contains data about which file failed to download and why.
type DownloadError struct {
	err  error
	url  string
	path string
}

func (e *DownloadError) Error() string {
	if e.path == "" {
		return fmt.Sprintf("couldn't download file (url=%s): %v", e.url, e.err)
	}
	return fmt.Sprintf("couldn't download file (url=%s, path=%s): %v", e.url, e.path, e.err)
}

func (e *DownloadError) Unwrap() error {
	return e.err
}

// newDownloadError is a handy thing to create errors faster.
func newDownloadError(err error, url, path string) *DownloadError {
	return &DownloadError{
		err:  err,
		url:  url,
		path: path,
	}
}

// Store downloads files into a single directory.
type Store struct {
	client *api.Client
	fs     afero.Fs
	dir    string
}

func NewStore(client *api.Client, fs afero.Fs, dir string) *Store {
	return &Store{
		client: client,
		fs:     fs,
		dir:    dir,
	}
}

func (s *Store) Dir() string {
	return s.dir
}

// Downloaded reports whether the file of the candidate is already in the directory.
func (s *Store) Downloaded(c link.Candidate) (bool, error) {
	path, err := FilePath(c.URL, s.dir)
	if err != nil {
		return false, err
	}
	return afero.Exists(s.fs, path)
}

// Download fetches the file at the url and writes it into the directory.
// It returns the path of the written file.
func (s *Store) Download(ctx context.Context, url string) (string, error) {
	path, err := FilePath(url, s.dir)
	if err != nil {
		return "", newDownloadError(err, url, "")
	}

	b, err := s.client.GetFile(ctx, url)
	if err != nil {
		return "", newDownloadError(err, url, path)
	}

	if err := validate(b); err != nil {
		return "", newDownloadError(err, url, path)
	}

	if err := s.fs.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return "", newDownloadError(fmt.Errorf("%w: couldn't create directory", err), url, path)
	}
	if err := afero.WriteFile(s.fs, path, b, 0o644); err != nil {
		return "", newDownloadError(fmt.Errorf("%w: couldn't write file", err), url, path)
	}

	log.Debug().Int("written_bytes", len(b)).Str("path", path).Msg("wrote to disk")

	return path, nil
}

// validate rejects payloads that are not jpeg, png, gif, bmp, webp or tiff images.
func validate(b []byte) error {
	if len(b) == 0 {
		return fmt.Errorf("%w: empty body", ErrNotImage)
	}
	if contentType := http.DetectContentType(b); strings.HasPrefix(contentType, "text/html") {
		return fmt.Errorf("%w: got %s", ErrNotImage, contentType)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNotImage, err)
	}
	log.Debug().
		Str("format", format).
		Int("width", cfg.Width).
		Int("height", cfg.Height).
		Msg("downloaded an image")

	return nil
}
