package link

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// basename and extension, terminated by a query, a fragment or the end of the url.
	fileRegexp = regexp.MustCompile(`(?i)([\w,\s-]+)\.(\w+)(\?|$|#)`)
	// resolution tags like [1920x1080], [1920 × 1080] or [1920*1080].
	resolutionRegexp = regexp.MustCompile(`(?i)\[\s*(\d+)\s*[x×*]\s*(\d+)\s*\]`)
)

// MatchFile extracts the file basename and extension from the url.
//
// Example:
//
//	base, ext, ok := link.MatchFile("http://i.imgur.com/jEFSFKr.jpg?q=1")
//	Output: "jEFSFKr", "jpg", true
func MatchFile(url string) (base, ext string, ok bool) {
	m := fileRegexp.FindStringSubmatch(url)
	if len(m) < 3 {
		return "", "", false
	}
	return m[1], m[2], true
}

// ParseType returns the lowercased file extension of the url, or an empty string.
func ParseType(url string) string {
	_, ext, ok := MatchFile(url)
	if !ok {
		return ""
	}
	return strings.ToLower(ext)
}

// ParseResolution parses the first resolution tag from the title, or returns nil.
func ParseResolution(title string) *Resolution {
	m := resolutionRegexp.FindStringSubmatch(title)
	if len(m) < 3 {
		return nil
	}

	width, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}
	height, err := strconv.Atoi(m[2])
	if err != nil {
		return nil
	}

	return &Resolution{Width: width, Height: height}
}
