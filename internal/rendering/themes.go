package rendering

import (
	"regexp"
	"strings"
)

// Theme is a named layout. Preamble and the section macro are injected into the template.
type Theme struct {
	Name         string
	DefaultColor string
	// Fonts is the font selection for the preamble.
	Fonts string
	// Section defines \cvsection{label}.
	Section string
	// Banner draws the name on a filled accent block instead of plain text.
	Banner bool
}

// DefaultTheme is used when no theme is requested.
const DefaultTheme = "clean"

var themes = map[string]Theme{
	"clean": {
		Name:         "clean",
		DefaultColor: "1A1A1A",
		Fonts:        `\usepackage{lmodern}`,
		Section:      `\newcommand{\cvsection}[1]{\vspace{8pt}{\large\bfseries #1}\par\vspace{-4pt}{\color{accent}\rule{\linewidth}{1.5pt}}\par\vspace{4pt}}`,
	},
	"modern": {
		Name:         "modern",
		DefaultColor: "2563EB",
		Fonts:        `\usepackage[scaled]{helvet}\renewcommand{\familydefault}{\sfdefault}`,
		Section:      `\newcommand{\cvsection}[1]{\vspace{10pt}{\color{accent}\large\bfseries\MakeUppercase{#1}}\par\vspace{-4pt}{\color{accent}\rule{\linewidth}{0.5pt}}\par\vspace{4pt}}`,
	},
	"minimal": {
		Name:         "minimal",
		DefaultColor: "374151",
		Fonts:        `\usepackage{lmodern}`,
		Section:      `\newcommand{\cvsection}[1]{\vspace{10pt}{\color{accent}\scshape\large #1}\par\vspace{4pt}}`,
	},
	"executive": {
		Name:         "executive",
		DefaultColor: "1E3A5F",
		Fonts:        `\usepackage{charter}`,
		Section:      `\newcommand{\cvsection}[1]{\vspace{10pt}\noindent\colorbox{accent!12}{\parbox{\dimexpr\linewidth-2\fboxsep}{\color{accent}\bfseries\MakeUppercase{#1}}}\par\vspace{4pt}}`,
		Banner:       true,
	},
}

// ThemeNames lists the available themes in a stable order.
var ThemeNames = []string{"clean", "modern", "minimal", "executive"}

// LookupTheme returns the named theme; "" selects DefaultTheme.
func LookupTheme(name string) (Theme, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = DefaultTheme
	}
	t, ok := themes[name]
	if !ok {
		return Theme{}, &OptionError{Option: "theme", Value: name}
	}
	return t, nil
}

var hexColor = regexp.MustCompile(`^#?([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ParseColor normalizes "#abc", "abc", "#aabbcc" or "aabbcc" to "AABBCC" for xcolor's HTML
// model. An empty value returns fallback.
func ParseColor(s, fallback string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback, nil
	}
	m := hexColor.FindStringSubmatch(s)
	if m == nil {
		return "", &OptionError{Option: "color", Value: s}
	}
	hex := strings.ToUpper(m[1])
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	return hex, nil
}
