package coverletter

import (
	"regexp"
	"strings"

	"github.com/jonathan/cv-enhancer/internal/db"
)

var paragraphBreak = regexp.MustCompile(`\n[ \t]*\n`)

var salutations = []string{"dear ", "hello", "hi ", "to whom", "sehr geehrte", "liebe ", "lieber ", "hallo"}

var closings = []string{
	"sincerely", "best regards", "kind regards", "warm regards", "regards", "yours",
	"best,", "respectfully", "thank you,", "mit freundlichen grüßen", "viele grüße", "beste grüße",
}

// Split breaks a plain-text letter into its parts. Anything before the salutation (address
// blocks, subject lines) is dropped. When the letter carries no signature, signature is used.
func Split(text, signature string) db.CoverLetterContent {
	text = strings.TrimSpace(strings.ReplaceAll(text, "\r\n", "\n"))
	var paragraphs []string
	for _, p := range paragraphBreak.Split(text, -1) {
		if p = strings.TrimSpace(p); p != "" {
			paragraphs = append(paragraphs, p)
		}
	}

	var content db.CoverLetterContent
	for i, p := range paragraphs {
		first, rest, _ := strings.Cut(p, "\n")
		if !isSalutation(first) {
			continue
		}
		content.RecipientName = recipient(first)
		paragraphs = paragraphs[i+1:]
		if rest = strings.TrimSpace(rest); rest != "" {
			paragraphs = append([]string{rest}, paragraphs...)
		}
		break
	}

	paragraphs, content.Closing, content.Signature = splitClosing(paragraphs)
	if content.Signature == "" {
		content.Signature = strings.TrimSpace(signature)
	}

	if len(paragraphs) > 0 {
		content.Opening = paragraphs[0]
		content.Body = strings.Join(paragraphs[1:], "\n\n")
	}
	return content
}

// splitClosing removes the sign-off from the end of the letter. It handles the closing and
// the name sharing a paragraph, sitting in two paragraphs, or the closing ending the last
// body paragraph.
func splitClosing(paragraphs []string) (rest []string, closing, signature string) {
	n := len(paragraphs)
	if n == 0 {
		return paragraphs, "", ""
	}

	last := strings.Split(paragraphs[n-1], "\n")
	for i, line := range last {
		if !isClosing(line) {
			continue
		}
		closing = strings.TrimSpace(line)
		signature = strings.TrimSpace(strings.Join(last[i+1:], "\n"))
		rest = paragraphs[:n-1]
		if before := strings.TrimSpace(strings.Join(last[:i], "\n")); before != "" {
			rest = append(rest, before)
		}
		return rest, closing, signature
	}

	if n >= 2 && len(last) <= 2 && isClosing(lastLine(paragraphs[n-2])) {
		prev := strings.Split(paragraphs[n-2], "\n")
		closing = strings.TrimSpace(prev[len(prev)-1])
		signature = strings.TrimSpace(paragraphs[n-1])
		rest = paragraphs[:n-2]
		if before := strings.TrimSpace(strings.Join(prev[:len(prev)-1], "\n")); before != "" {
			rest = append(rest, before)
		}
		return rest, closing, signature
	}
	return paragraphs, "", ""
}

func lastLine(p string) string {
	lines := strings.Split(p, "\n")
	return lines[len(lines)-1]
}

func isSalutation(line string) bool {
	l := strings.ToLower(strings.TrimSpace(line))
	if len(l) > 80 {
		return false
	}
	for _, s := range salutations {
		if strings.HasPrefix(l, s) {
			return true
		}
	}
	return false
}

func isClosing(line string) bool {
	l := strings.ToLower(strings.TrimSpace(line))
	if l == "" || len(l) > 40 {
		return false
	}
	for _, c := range closings {
		if strings.HasPrefix(l, c) {
			return true
		}
	}
	return false
}

func recipient(salutation string) string {
	s := strings.TrimSpace(salutation)
	s = strings.TrimRight(s, ",:!")
	lower := strings.ToLower(s)
	for _, prefix := range []string{"dear ", "hello ", "hi ", "liebe ", "lieber ", "hallo "} {
		if strings.HasPrefix(lower, prefix) {
			return strings.TrimSpace(s[len(prefix):])
		}
	}
	return s
}
