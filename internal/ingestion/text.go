// Package ingestion turns uploaded CV files into text and, when a model is configured, into
// structured CV sections.
package ingestion

import (
	"regexp"
	"strings"
)

var (
	multiSpace     = regexp.MustCompile(`[ \t\f\v]+`)
	extraBlankLine = regexp.MustCompile(`\n\n\n+`)
)

// bulletMarkers are normalized to "- " at the start of a line.
var bulletMarkers = []string{"• ", "· ", "▪ ", "◦ ", "‣ ", "* "}

// CleanText normalizes line endings, bullets and whitespace, keeping line structure and at most
// one blank line between blocks.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	content = strings.ReplaceAll(content, "\u00a0", " ")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = cleanLine(line)
	}

	result := extraBlankLine.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(result)
}

func cleanLine(line string) string {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return ""
	}
	for _, marker := range bulletMarkers {
		if strings.HasPrefix(trimmed, marker) {
			trimmed = "- " + strings.TrimSpace(strings.TrimPrefix(trimmed, marker))
			break
		}
	}
	return multiSpace.ReplaceAllString(trimmed, " ")
}

// isBulletLine reports whether a cleaned line is a list item.
func isBulletLine(line string) bool {
	return strings.HasPrefix(line, "- ")
}

// BulletLines returns the list items of cleaned text without their markers.
func BulletLines(text string) []string {
	var bullets []string
	for _, line := range strings.Split(text, "\n") {
		if isBulletLine(line) {
			bullets = append(bullets, strings.TrimPrefix(line, "- "))
		}
	}
	return bullets
}
