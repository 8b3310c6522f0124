// Package plaintext turns editor output into the plain text the readability
// engine scores. Paragraphs are separated by a single blank line.
package plaintext

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"github.com/zombar/wordwise/internal/models"
)

var blankRunRegex = regexp.MustCompile(`\n{3,}`)

// Convert extracts plain text from src written in format.
func Convert(src string, format models.DocumentFormat) (string, error) {
	switch format {
	case models.FormatPlain, "":
		return src, nil
	case models.FormatMarkdown:
		return FromMarkdown(src), nil
	case models.FormatHTML:
		return FromHTML(src)
	}
	return "", fmt.Errorf("%w: %q", models.ErrUnsupportedFormat, format)
}

// DetectFormat guesses a document format from a file name extension.
func DetectFormat(path string) models.DocumentFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return models.FormatMarkdown
	case ".html", ".htm":
		return models.FormatHTML
	default:
		return models.FormatPlain
	}
}

// normalize collapses intra-line whitespace, trims every line and squeezes
// runs of blank lines down to one.
func normalize(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.Join(strings.Fields(line), " ")
	}
	out := blankRunRegex.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(out)
}

// flatten maps every whitespace rune, newlines included, to a space.
func flatten(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return ' '
		}
		return r
	}, s)
}
