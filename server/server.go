package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"instant_test/config"
	"instant_test/generator"
)

const healthMessage = "Instant Test API is running"

type Server struct {
	client *generator.Client
	cfg    config.ServerConfig
	// used only when cfg.AllowServerCredential is set
	serverCredential string
	logger           *zap.Logger
}

func New(client *generator.Client, cfg *config.Config, logger *zap.Logger) (*Server, error) {
	if client == nil {
		return nil, errors.New("generation client required")
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		client:           client,
		cfg:              cfg.Server,
		serverCredential: cfg.LLM.APIKey,
		logger:           logger,
	}, nil
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/generate", s.handleGenerate)
	mux.HandleFunc("/api/analyze", s.handleAnalyze)
	mux.HandleFunc("/health", s.handleHealth)
	return s.logMiddleware(s.corsMiddleware(mux))
}

// HTTPServer wraps Routes for addr, accepting HTTP/1.1 and cleartext HTTP/2.
func (s *Server) HTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           h2c.NewHandler(s.Routes(), &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "message": healthMessage})
}

type generateMetadata struct {
	GeneratedAt string `json:"generatedAt"`
	ModelUsed   string `json:"modelUsed"`
}

type generateResp struct {
	Success       bool             `json:"success"`
	GeneratedText string           `json:"generatedText"`
	Metadata      generateMetadata `json:"metadata"`
}

type failureResp struct {
	Success    bool   `json:"success"`
	Error      string `json:"error"`
	InvalidKey bool   `json:"invalidKey,omitempty"`
	RateLimit  bool   `json:"rateLimited,omitempty"`
	RetryAfter int    `json:"retryAfter,omitempty"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}
	gr, credential, err := s.decodeGenerate(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx := r.Context()
	if s.cfg.RequestTimeoutSec > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(s.cfg.RequestTimeoutSec)*time.Second)
		defer cancel()
	}

	res, err := s.client.Generate(ctx, generator.BuildPrompt(gr), credential)
	if err != nil {
		s.writeFailure(w, generator.AsFailure(err))
		return
	}
	writeJSON(w, http.StatusOK, generateResp{
		Success:       true,
		GeneratedText: res.Text,
		Metadata: generateMetadata{
			GeneratedAt: res.GeneratedAt.UTC().Format(time.RFC3339Nano),
			ModelUsed:   res.Model,
		},
	})
}

func (s *Server) writeFailure(w http.ResponseWriter, f *generator.Failure) {
	switch f.Kind {
	case generator.KindInvalidCredential:
		writeJSON(w, http.StatusUnauthorized, failureResp{Error: f.Message, InvalidKey: true})
	case generator.KindRateLimited, generator.KindAllModelsExhausted:
		retry := f.RetryAfterSeconds
		if retry <= 0 {
			retry = generator.DefaultRetryAfterSeconds
		}
		w.Header().Set("Retry-After", strconv.Itoa(retry))
		writeJSON(w, http.StatusTooManyRequests, failureResp{Error: f.Message, RateLimit: true, RetryAfter: retry})
	default:
		s.logger.Error("generation failed", zap.Error(f))
		msg := f.Message
		if msg == "" {
			msg = "Failed to generate tests"
		}
		writeJSON(w, http.StatusInternalServerError, failureResp{Error: msg})
	}
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, failureResp{Error: msg})
}
