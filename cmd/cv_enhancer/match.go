package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/cv-enhancer/internal/suggestions"
)

var (
	matchCVFile  string
	matchJob     string
	matchJSON    bool
	matchTimeout time.Duration
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Score a CV against a job description",
	Long: `Score a CV against a job description and print the matched and missing keywords with
improvement suggestions. --job accepts a file path, a posting URL or "-" for stdin.`,
	RunE: runMatch,
}

func init() {
	matchCmd.Flags().StringVar(&matchCVFile, "cv", "", "Path to the CV (JSON record, PDF or text)")
	matchCmd.Flags().StringVar(&matchJob, "job", "", "Job description file, posting URL or - for stdin")
	matchCmd.Flags().BoolVar(&matchJSON, "json", false, "Print the result as JSON")
	matchCmd.Flags().DurationVar(&matchTimeout, "timeout", 2*time.Minute, "Overall time limit")
	_ = matchCmd.MarkFlagRequired("cv")
	_ = matchCmd.MarkFlagRequired("job")
	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, _ []string) error {
	cfg, log, err := loadTool()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), matchTimeout)
	defer cancel()

	c, err := loadCVFile(matchCVFile)
	if err != nil {
		return err
	}

	jobs, closeJobs := newJobExtractor(ctx, cfg, log)
	defer closeJobs()
	job, err := readJobDescription(ctx, matchJob, cmd.InOrStdin(), jobs)
	if err != nil {
		return err
	}

	client, err := newLLMClient(ctx, cfg.LLM, log)
	if err != nil {
		return err
	}
	if client != nil {
		defer func() { _ = client.Close() }()
	}

	engine := suggestions.NewEngine(suggestions.Config{
		Model:  suggestions.NewModelSuggester(client, cfg.LLM.Timeout, log),
		Logger: log,
	})
	result := engine.Analyze(ctx, c, job)

	if matchJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	writeMatchReport(cmd.OutOrStdout(), result)
	return nil
}

// writeMatchReport prints a match result for people.
func writeMatchReport(w io.Writer, r suggestions.Result) {
	fmt.Fprintf(w, "Score: %d/100\n", r.Score)
	fmt.Fprintf(w, "Matched keywords: %s\n", joinOrNone(r.MatchedKeywords))
	fmt.Fprintf(w, "Missing keywords: %s\n", joinOrNone(r.MissingKeywords))

	if len(r.Suggestions) == 0 {
		return
	}
	source := "rule-based"
	if r.AIPowered {
		source = "model and rule-based"
	}
	fmt.Fprintf(w, "\nSuggestions (%s):\n", source)
	for i, s := range r.Suggestions {
		fmt.Fprintf(w, "%2d. [%s] %s\n", i+1, s.Section, s.Title)
		if s.Description != "" {
			fmt.Fprintf(w, "    %s\n", s.Description)
		}
		if s.SuggestionText != "" {
			fmt.Fprintf(w, "    > %s\n", s.SuggestionText)
		}
	}
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	return strings.Join(items, ", ")
}
