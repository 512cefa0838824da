package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/cv-enhancer/internal/rendering"
)

var (
	exportCVFile string
	exportOut    string
	exportTheme  string
	exportColor  string
	exportLang   string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Render a CV as PDF or LaTeX",
	Long: `Render a CV with one of the themes. An output path ending in .tex writes the LaTeX
source; anything else is compiled to PDF with pdflatex.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportCVFile, "cv", "", "Path to the CV (JSON record, PDF or text)")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file (.pdf or .tex)")
	exportCmd.Flags().StringVar(&exportTheme, "theme", "", "Theme: "+strings.Join(rendering.ThemeNames, ", "))
	exportCmd.Flags().StringVar(&exportColor, "color", "", "Accent color as hex, e.g. #2563EB")
	exportCmd.Flags().StringVar(&exportLang, "lang", "", "Section label language: en, de or auto")
	_ = exportCmd.MarkFlagRequired("cv")
	_ = exportCmd.MarkFlagRequired("out")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	cfg, log, err := loadTool()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	c, err := loadCVFile(exportCVFile)
	if err != nil {
		return err
	}
	opts := rendering.Options{Theme: exportTheme, Color: exportColor, Language: exportLang}

	var data []byte
	var export *rendering.Export
	if strings.EqualFold(filepath.Ext(exportOut), ".tex") {
		export, err = rendering.RenderLaTeX(c, opts)
		if err != nil {
			return err
		}
		data = []byte(export.TeX)
	} else {
		compiler := rendering.NewCompiler(log)
		compiler.Binary = cfg.Export.LatexBinary
		compiler.Timeout = cfg.Export.Timeout
		data, export, err = compiler.ExportPDF(context.Background(), c, opts)
		if err != nil {
			return err
		}
	}

	if err := os.WriteFile(exportOut, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", exportOut, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (theme %s, language %s, %d bytes)\n",
		exportOut, export.Theme, export.Language, len(data))
	return nil
}
