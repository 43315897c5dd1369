// Package pathutil validates input paths, derives output paths and makes
// file names safe to create on any common filesystem.
package pathutil

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	replacement  = "_"
	maxNameBytes = 255
	fallbackName = "untitled"
)

var (
	illegalChars      = regexp.MustCompile(`[/?<>\\:*|"]`)
	controlChars      = regexp.MustCompile(`[\x00-\x1f\x80-\x9f]`)
	dotsOnly          = regexp.MustCompile(`^\.+$`)
	windowsReserved   = regexp.MustCompile(`(?i)^(con|prn|aux|nul|com[0-9]|lpt[0-9])(\..*)?$`)
	windowsTrailing   = regexp.MustCompile(`[. ]+$`)
	nonPortableChars  = regexp.MustCompile(`[^A-Za-z0-9._-]`)
	repeatedSeparator = regexp.MustCompile(`_{2,}`)
)

// SanitizePath rewrites the base name of path so it is safe to create.
// The directory and the extension are returned untouched.
//
// When normalize is set the name is also reduced to [A-Za-z0-9._-]:
// diacritics are stripped ("é" becomes "e"), every other character becomes
// "_", runs of "_" collapse into one and leading/trailing "_" are trimmed.
func SanitizePath(path string, normalize bool) string {
	dir, base := filepath.Split(path)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	return dir + sanitizeStem(stem, normalize, len(ext)) + ext
}

// SanitizeName sanitizes a bare file name that carries no directory part.
// Path separators inside name are replaced, not interpreted.
func SanitizeName(name string, normalize bool) string {
	return sanitizeStem(name, normalize, 0)
}

func sanitizeStem(stem string, normalize bool, reserve int) string {
	s := illegalChars.ReplaceAllString(stem, replacement)
	s = controlChars.ReplaceAllString(s, replacement)
	s = dotsOnly.ReplaceAllString(s, replacement)
	s = windowsReserved.ReplaceAllString(s, replacement)
	s = windowsTrailing.ReplaceAllString(s, replacement)

	if normalize {
		s = stripDiacritics(s)
		s = nonPortableChars.ReplaceAllString(s, replacement)
		s = repeatedSeparator.ReplaceAllString(s, replacement)
		s = strings.Trim(s, replacement)
	}

	if s == "" {
		s = fallbackName
	}
	return truncateBytes(s, maxNameBytes-reserve)
}

// stripDiacritics decomposes s and drops the combining marks.
func stripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// truncateBytes cuts s to at most n bytes without splitting a rune.
func truncateBytes(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
