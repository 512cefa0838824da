package rendering

import (
	"strings"
	"unicode"
)

var latexReplacer = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`{`, `\{`,
	`}`, `\}`,
	`$`, `\$`,
	`&`, `\&`,
	`%`, `\%`,
	`#`, `\#`,
	`^`, `\textasciicircum{}`,
	`_`, `\_`,
	`~`, `\textasciitilde{}`,
	`<`, `\textless{}`,
	`>`, `\textgreater{}`,
)

// EscapeLaTeX escapes LaTeX special characters and drops symbols pdflatex has no glyph for
// (emoji, pictographs, control characters).
func EscapeLaTeX(text string) string {
	if text == "" {
		return ""
	}
	return latexReplacer.Replace(strings.Map(keepRune, text))
}

func keepRune(r rune) rune {
	switch {
	case r == '\n' || r == '\t':
		return ' '
	case unicode.IsControl(r):
		return -1
	case r >= 0x2190 && r <= 0x2BFF, r >= 0x1F000:
		return -1
	case r == 0xFE0F || r == 0x200D:
		return -1
	}
	return r
}

// bulletLines splits a description into lines with any leading bullet marker removed.
func bulletLines(description string) []string {
	var out []string
	for _, line := range strings.Split(description, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "•-*–▪ ")
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
