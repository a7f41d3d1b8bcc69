// files is a package with utility-like file functions used in redditwall
package files

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/handsomefox/redditwall/link"
)

var (
	ErrEmpty      = errors.New("empty parameter provided")
	ErrNoFilename = errors.New("url does not contain a filename")
)

const MaxFilenameLength = 200

// FilePath returns the path the file at the url is saved to:
//
//	{dir}/{basename}.{extension}
func FilePath(url, dir string) (string, error) {
	base, ext, ok := link.MatchFile(url)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNoFilename, url)
	}
	name, err := format(base, ext)
	if err != nil {
		return "", fmt.Errorf("%w: failed to create filename (url=%s)", err, url)
	}
	return filepath.Join(dir, name), nil
}

// format joins the name and the extension, cutting the name to fit MaxFilenameLength.
func format(filename, extension string) (string, error) {
	filename = strings.TrimSpace(filename)

	if filename == "" {
		return "", fmt.Errorf("%w: filename can not be empty", ErrEmpty)
	}
	if extension == "" {
		return "", fmt.Errorf("%w: extension can not be empty", ErrEmpty)
	}

	totalLength := len(filename) + len(extension) + 1
	if totalLength > MaxFilenameLength {
		requiredLength := MaxFilenameLength - len(extension) - 1
		filename = filename[:requiredLength]
	}
	return filename + "." + extension, nil
}
