package suggestions

import (
	"context"
	"errors"

	"github.com/jonathan/cv-enhancer/internal/cv"
	"github.com/jonathan/cv-enhancer/internal/matching"
	"go.uber.org/zap"
)

// DisplayLimit caps the keyword lists returned to callers.
const DisplayLimit = 20

// Result is the outcome of analysing a CV against a job description.
type Result struct {
	Score           int          `json:"score"`
	MatchedKeywords []string     `json:"matched_keywords"`
	MissingKeywords []string     `json:"missing_keywords"`
	Suggestions     []Suggestion `json:"suggestions"`
	AIPowered       bool         `json:"ai_powered"`
}

// Config assembles an Engine. Zero values select the defaults.
type Config struct {
	Matching  matching.Config
	Rules     RuleConfig
	Model     ModelSuggester
	MaxExtras int
	Logger    *zap.Logger
}

// Engine scores a CV against a job description and suggests improvements.
type Engine struct {
	extractor *matching.Extractor
	rules     *Rules
	model     ModelSuggester
	maxExtras int
	logger    *zap.Logger
}

// NewEngine creates an engine. Without a model it only produces rule-based suggestions.
func NewEngine(cfg Config) *Engine {
	if cfg.Matching.TechTerms == nil && cfg.Matching.StopWords == nil {
		cfg.Matching = matching.DefaultConfig()
	}
	if cfg.Model == nil {
		cfg.Model = DisabledSuggester{}
	}
	if cfg.MaxExtras <= 0 {
		cfg.MaxExtras = DefaultMaxExtras
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Engine{
		extractor: matching.NewExtractor(cfg.Matching),
		rules:     NewRules(cfg.Rules),
		model:     cfg.Model,
		maxExtras: cfg.MaxExtras,
		logger:    cfg.Logger,
	}
}

// Match extracts keywords from both texts and scores them. Keyword lists are not truncated.
func (e *Engine) Match(c cv.Canonical, jobDescription string) matching.Result {
	cvKeywords := e.extractor.Extract(c.Text())
	jobKeywords := e.extractor.Extract(jobDescription)
	return matching.Score(cvKeywords, jobKeywords)
}

// Analyze runs matching and suggestion generation. It never fails: model problems are logged
// and answered with the rule-based suggestions.
func (e *Engine) Analyze(ctx context.Context, c cv.Canonical, jobDescription string) Result {
	match := e.Match(c, jobDescription)

	ruleBased := e.rules.Generate(RuleInput{
		CV:             c,
		JobDescription: jobDescription,
		Missing:        match.Missing,
		Score:          match.Score,
	})

	model, err := e.model.Suggest(ctx, ModelRequest{
		CV:             c,
		JobDescription: jobDescription,
		Missing:        match.Missing,
		Score:          match.Score,
	})
	if err != nil {
		e.logModelError(err)
		model = nil
	}

	return Result{
		Score:           match.Score,
		MatchedKeywords: matching.Truncate(match.Matched, DisplayLimit),
		MissingKeywords: matching.Truncate(match.Missing, DisplayLimit),
		Suggestions:     Merge(model, ruleBased, e.maxExtras),
		AIPowered:       len(model) > 0,
	}
}

func (e *Engine) logModelError(err error) {
	var modelErr *ModelError
	if errors.As(err, &modelErr) && modelErr.Op == OpDisabled {
		e.logger.Debug("model suggestions disabled, using rules")
		return
	}
	e.logger.Warn("model suggestions unavailable, using rules", zap.Error(err))
}
