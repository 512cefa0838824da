package server

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/jonathan/cv-enhancer/internal/cv"
	"github.com/jonathan/cv-enhancer/internal/logger"
	"github.com/jonathan/cv-enhancer/internal/rendering"
)

// Export formats
const (
	FormatPDF = "pdf"
	FormatTeX = "tex"
)

// handleExport renders a CV as PDF, or as LaTeX source with format=tex.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	c, ok := s.loadCV(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	opts := rendering.Options{
		Theme:    q.Get("theme"),
		Color:    q.Get("color"),
		Language: q.Get("lang"),
	}
	canonical := cv.Normalize(c.Record)

	format := strings.ToLower(q.Get("format"))
	switch format {
	case "", FormatPDF:
		data, export, err := s.exporter.ExportPDF(r.Context(), canonical, opts)
		if err != nil {
			handleError(w, s.log, err)
			return
		}
		s.log.Info("CV exported",
			zap.String(logger.FieldCVID, c.ID.String()),
			zap.String("theme", export.Theme),
			zap.String("language", string(export.Language)),
			zap.Int("bytes", len(data)))
		writeAttachment(w, "application/pdf", exportFileName(canonical, FormatPDF), data)
	case FormatTeX:
		export, err := rendering.RenderLaTeX(canonical, opts)
		if err != nil {
			handleError(w, s.log, err)
			return
		}
		writeAttachment(w, "application/x-tex; charset=utf-8", exportFileName(canonical, FormatTeX), []byte(export.TeX))
	default:
		errorResponse(w, http.StatusBadRequest, fmt.Sprintf("unsupported format: %q", format))
	}
}

func writeAttachment(w http.ResponseWriter, contentType, fileName string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// exportFileName builds "cv_<name>.<ext>" from the CV owner's name, keeping letters and digits.
func exportFileName(c cv.Canonical, ext string) string {
	var sb strings.Builder
	for _, word := range strings.Fields(c.Name()) {
		clean := strings.Map(func(r rune) rune {
			if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
				return r
			}
			return -1
		}, word)
		if clean == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte('_')
		}
		sb.WriteString(clean)
	}
	if sb.Len() == 0 {
		return "cv." + ext
	}
	return "cv_" + sb.String() + "." + ext
}
