package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/cv-enhancer/internal/analysis"
	"github.com/jonathan/cv-enhancer/internal/config"
	"github.com/jonathan/cv-enhancer/internal/coverletter"
	"github.com/jonathan/cv-enhancer/internal/cv"
	"github.com/jonathan/cv-enhancer/internal/ingestion"
	"github.com/jonathan/cv-enhancer/internal/rendering"
	"github.com/jonathan/cv-enhancer/internal/server/middleware"
	"github.com/jonathan/cv-enhancer/internal/server/ratelimit"
	"github.com/jonathan/cv-enhancer/internal/storage"
	"github.com/jonathan/cv-enhancer/internal/suggestions"
)

// APIName is reported by the root endpoint.
const APIName = "CV Enhancer API"

// JobExtractor reads a job description from a posting URL.
type JobExtractor interface {
	Extract(ctx context.Context, url string) (string, error)
}

// PDFExporter renders and compiles a CV.
type PDFExporter interface {
	ExportPDF(ctx context.Context, c cv.Canonical, opts rendering.Options) ([]byte, *rendering.Export, error)
}

// CVStructurer splits raw CV text into sections.
type CVStructurer interface {
	Structure(ctx context.Context, text, fileName string) (*ingestion.StructuredCV, error)
}

// Deps holds everything the server is built from. Structurer may be nil, which keeps uploads
// to text extraction only.
type Deps struct {
	Store      Store
	JWT        *config.JWTConfig
	Password   *config.PasswordConfig
	Engine     *suggestions.Engine
	Analysis   *analysis.Service
	Letters    *coverletter.Generator
	Jobs       JobExtractor
	Files      storage.FileStore
	Exporter   PDFExporter
	Structurer CVStructurer
	RateLimit  *ratelimit.Config
	Logger     *zap.Logger
	Version    string
	Port       int
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	handler     http.Handler
	store       Store
	log         *zap.Logger
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	authHandler *AuthHandler
	engine      *suggestions.Engine
	analysis    *analysis.Service
	letters     *coverletter.Generator
	jobs        JobExtractor
	files       storage.FileStore
	exporter    PDFExporter
	structurer  CVStructurer
	version     string
}

// New creates a new server instance
func New(deps Deps) (*Server, error) {
	if deps.Store == nil {
		return nil, errors.New("server: store is required")
	}
	if deps.JWT == nil || deps.Password == nil {
		return nil, errors.New("server: JWT and password configuration are required")
	}
	if deps.Files == nil {
		return nil, errors.New("server: file store is required")
	}
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if deps.Engine == nil {
		deps.Engine = suggestions.NewEngine(suggestions.Config{Logger: log})
	}
	if deps.Analysis == nil {
		deps.Analysis = analysis.NewService(nil, 0, log)
	}
	if deps.Letters == nil {
		deps.Letters = coverletter.NewGenerator(nil, 0, log)
	}
	if deps.Exporter == nil {
		deps.Exporter = rendering.NewCompiler(log)
	}
	rateConfig := deps.RateLimit
	if rateConfig == nil {
		rateConfig = ratelimit.FromConfig(config.RateLimitConfig{})
	}

	s := &Server{
		store:       deps.Store,
		log:         log,
		rateLimiter: ratelimit.NewLimiter(rateConfig),
		jwtService:  NewJWTService(deps.JWT),
		engine:      deps.Engine,
		analysis:    deps.Analysis,
		letters:     deps.Letters,
		jobs:        deps.Jobs,
		files:       deps.Files,
		exporter:    deps.Exporter,
		structurer:  deps.Structurer,
		version:     deps.Version,
	}
	s.authHandler = NewAuthHandler(NewUserService(deps.Store, deps.Password), s.jwtService, log)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /uploads/{path...}", s.handleUploads)

	// Authentication
	mux.HandleFunc("POST /api/auth/register", s.authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", s.authHandler.Login)
	s.protected(mux, "GET /api/auth/me", s.authHandler.Me)
	s.protected(mux, "PUT /api/auth/password", s.authHandler.UpdatePassword)

	// CVs
	s.protected(mux, "GET /api/cvs", s.handleListCVs)
	s.protected(mux, "POST /api/cvs", s.handleCreateCV)
	s.protected(mux, "GET /api/cvs/{id}", s.handleGetCV)
	s.protected(mux, "PUT /api/cvs/{id}", s.handleUpdateCV)
	s.protected(mux, "DELETE /api/cvs/{id}", s.handleDeleteCV)
	s.protected(mux, "POST /api/cvs/{id}/upload", s.handleUploadCV)
	s.protected(mux, "POST /api/cvs/{id}/photo", s.handleUploadPhoto)

	// Analysis and customization
	s.protected(mux, "POST /api/cvs/{id}/analyze", s.handleAnalyze)
	s.protected(mux, "POST /api/cvs/{id}/customize", s.handleCustomize)
	s.protected(mux, "POST /api/cvs/{id}/enhance-for-job", s.handleEnhance)
	s.protected(mux, "GET /api/cvs/{id}/suggestions", s.handleListSuggestions)
	s.protected(mux, "POST /api/cvs/{id}/suggestions/{sid}/apply", s.handleApplySuggestion)
	s.protected(mux, "GET /api/cvs/{id}/export", s.handleExport)

	// Cover letters
	s.protected(mux, "GET /api/cover-letters", s.handleListCoverLetters)
	s.protected(mux, "POST /api/cover-letters", s.handleCreateCoverLetter)
	s.protected(mux, "POST /api/cover-letters/generate-with-ai", s.handleGenerateCoverLetter)
	s.protected(mux, "POST /api/cover-letters/extract-job-from-url", s.handleExtractJob)
	s.protected(mux, "GET /api/cover-letters/{id}", s.handleGetCoverLetter)
	s.protected(mux, "PUT /api/cover-letters/{id}", s.handleUpdateCoverLetter)
	s.protected(mux, "DELETE /api/cover-letters/{id}", s.handleDeleteCoverLetter)

	// Job applications
	s.protected(mux, "GET /api/job-applications", s.handleListJobApplications)
	s.protected(mux, "POST /api/job-applications", s.handleCreateJobApplication)
	s.protected(mux, "GET /api/job-applications/{id}", s.handleGetJobApplication)
	s.protected(mux, "PUT /api/job-applications/{id}", s.handleUpdateJobApplication)
	s.protected(mux, "DELETE /api/job-applications/{id}", s.handleDeleteJobApplication)

	s.protected(mux, "GET /api/dashboard", s.handleDashboard)

	s.handler = s.withRateLimit(s.withLogging(s.withCORS(mux)))
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", deps.Port),
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // model calls and pdflatex runs
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// protected registers a handler behind bearer token authentication.
func (s *Server) protected(mux *http.ServeMux, pattern string, handler http.HandlerFunc) {
	mux.Handle(pattern, middleware.AuthMiddleware(s.jwtService.AsTokenValidator())(handler))
}

// Handler returns the complete middleware chain and router.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start serves until SIGINT or SIGTERM, then shuts down gracefully.
func (s *Server) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server starting", zap.String("addr", s.httpServer.Addr), zap.String("version", s.version))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			s.Close()
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}
	s.log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.Close()
	s.log.Info("server stopped")
	return nil
}

// Close stops background work. The store is owned by the caller.
func (s *Server) Close() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
		w.Header().Set("Access-Control-Expose-Headers", "Content-Disposition, Retry-After, X-RateLimit-Limit, X-RateLimit-Remaining, X-RateLimit-Reset")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, r, clientID, info)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)

		status := rec.status
		if status == 0 {
			status = http.StatusOK
		}
		fields := []zap.Field{
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
			zap.Int("bytes", rec.bytes),
			zap.Duration("duration", time.Since(start)),
			zap.String("remote", r.RemoteAddr),
		}
		if status >= http.StatusInternalServerError {
			s.log.Warn("request failed", fields...)
			return
		}
		s.log.Info("request completed", fields...)
	})
}

// handleRoot identifies the service
func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]string{"message": APIName, "version": s.version})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// extractClientID extracts the client identifier from the request.
// This uses the IP address from RemoteAddr; forwarded headers are not trusted.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, clientID string, info ratelimit.Info) {
	response := map[string]interface{}{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Seconds())
		if seconds < 1 {
			seconds = 1
		}
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", fmt.Sprintf("%d", seconds))
	}

	s.log.Warn("rate limit exceeded",
		zap.String("client", clientID),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("limit", info.Limit),
		zap.Time("reset", info.ResetTime))

	jsonResponse(w, http.StatusTooManyRequests, response)
}
