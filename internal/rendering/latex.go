package rendering

import (
	"embed"
	"strings"
	"sync"
	"text/template"

	"github.com/jonathan/cv-enhancer/internal/cv"
)

//go:embed templates/cv.tex.tmpl
var templateFiles embed.FS

const templateName = "cv.tex.tmpl"

var (
	parsedTemplate *template.Template
	parseErr       error
	parseOnce      sync.Once
)

// Options select how a CV is exported.
type Options struct {
	Theme    string
	Color    string
	Language string
}

// Export is a rendered LaTeX document with the options that were resolved for it.
type Export struct {
	TeX      string
	Theme    string
	Language Language
}

// RenderLaTeX renders c into a LaTeX document. Options are validated first; an unknown theme,
// language or malformed color yields an *OptionError.
func RenderLaTeX(c cv.Canonical, opts Options) (*Export, error) {
	theme, err := LookupTheme(opts.Theme)
	if err != nil {
		return nil, err
	}
	color, err := ParseColor(opts.Color, theme.DefaultColor)
	if err != nil {
		return nil, err
	}
	lang, err := ParseLanguage(opts.Language)
	if err != nil {
		return nil, err
	}
	lang = lang.Resolve(c)

	tmpl, err := loadTemplate()
	if err != nil {
		return nil, err
	}

	doc := BuildDocument(c, theme, color, lang.Labels())
	var out strings.Builder
	if err := tmpl.Execute(&out, doc); err != nil {
		return nil, &RenderError{Message: "failed to execute template", Cause: err}
	}
	return &Export{TeX: out.String(), Theme: theme.Name, Language: lang}, nil
}

func loadTemplate() (*template.Template, error) {
	parseOnce.Do(func() {
		content, err := templateFiles.ReadFile("templates/" + templateName)
		if err != nil {
			parseErr = &RenderError{Message: "failed to read template", Cause: err}
			return
		}
		parsedTemplate, err = template.New(templateName).
			Delims("<<", ">>").
			Funcs(template.FuncMap{"join": strings.Join}).
			Parse(string(content))
		if err != nil {
			parseErr = &RenderError{Message: "failed to parse template", Cause: err}
		}
	})
	return parsedTemplate, parseErr
}
