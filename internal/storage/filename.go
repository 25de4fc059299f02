package storage

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// windowsDeviceNames cannot be used as file names on Windows.
var windowsDeviceNames = map[string]bool{
	"CON": true, "PRN": true, "AUX": true, "NUL": true,
	"COM1": true, "COM2": true, "COM3": true, "COM4": true,
	"LPT1": true, "LPT2": true, "LPT3": true,
}

// SecureFilename reduces name to a flat, ASCII-only file name that is safe
// to join onto a directory. Path separators become spaces, whitespace runs
// become underscores and leading dots and underscores are dropped, so
// "../../etc/passwd" becomes "etc_passwd".
func SecureFilename(name string) (string, error) {
	decomposed := norm.NFKD.String(name)

	var ascii strings.Builder
	for _, r := range decomposed {
		if r < 128 {
			ascii.WriteRune(r)
		}
	}

	s := strings.NewReplacer("/", " ", `\`, " ").Replace(ascii.String())
	s = strings.Join(strings.Fields(s), "_")
	s = unsafeFilenameChars.ReplaceAllString(s, "")
	s = strings.Trim(s, "._")

	if stem, _, _ := strings.Cut(s, "."); windowsDeviceNames[strings.ToUpper(stem)] {
		s = "_" + s
	}

	if s == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidFilename, name)
	}
	return s, nil
}
