// Package mock serves a stand-in for the legal-assistant backend: /health
// and /query answer from a small canned corpus, with optional latency and
// failure injection for exercising the client.
package mock

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/tidwall/sjson"

	"lexbot/sdk/backend"
)

// maxSources caps how many passages one answer cites.
const maxSources = 4

// Server is the mock backend.
type Server struct {
	addr     string
	latency  time.Duration
	failRate float64
	logger   *backend.Logger

	mu  sync.Mutex
	rnd *rand.Rand
}

// Option configures the server.
type Option func(*Server)

// WithLatency delays every /query response.
func WithLatency(d time.Duration) Option {
	return func(s *Server) { s.latency = d }
}

// WithFailRate makes /query fail with a 500 for the given fraction of calls.
func WithFailRate(rate float64) Option {
	return func(s *Server) { s.failRate = rate }
}

// WithSeed makes failure injection deterministic.
func WithSeed(seed int64) Option {
	return func(s *Server) { s.rnd = rand.New(rand.NewSource(seed)) }
}

// WithLogger sets the request logger.
func WithLogger(l *backend.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates a mock backend listening on addr (e.g. ":8000").
func NewServer(addr string, opts ...Option) *Server {
	s := &Server{
		addr:   addr,
		logger: backend.GetLogger(),
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.rootHandler)
	mux.HandleFunc("/health", s.healthHandler)
	mux.HandleFunc("/query", s.queryHandler)
	return mux
}

// Run serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("mock backend listening", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) rootHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeDetail(w, http.StatusNotFound, "Not Found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":   "Asistente Legal RAG (mock)",
		"status":    "online",
		"documents": documents,
	})
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeDetail(w, http.StatusMethodNotAllowed, "Method Not Allowed")
		return
	}

	body := `{"status":"healthy"}`
	body, _ = sjson.Set(body, "documents_count", len(documents))
	body, _ = sjson.Set(body, "documents", documents)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(body))
}

func (s *Server) queryHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeDetail(w, http.StatusMethodNotAllowed, "Method Not Allowed")
		return
	}

	var req backend.QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidation(w, "body", "JSON decode error")
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		writeDetail(w, http.StatusBadRequest, "Pregunta vacía")
		return
	}
	s.logger.Info("mock query", "question", req.Question)

	if s.latency > 0 {
		select {
		case <-time.After(s.latency):
		case <-r.Context().Done():
			return
		}
	}

	if s.shouldFail() {
		writeDetail(w, http.StatusInternalServerError, "Error procesando la consulta: fallo simulado")
		return
	}

	writeJSON(w, http.StatusOK, Answer(req.Question))
}

func (s *Server) shouldFail() bool {
	if s.failRate <= 0 {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rnd.Float64() < s.failRate
}

// Answer builds the canned response for question: passages are ranked by
// keyword hits and the consulted documents are the distinct sources cited.
func Answer(question string) backend.QueryResponse {
	q := strings.ToLower(question)

	type hit struct {
		idx   int
		score int
	}
	var hits []hit
	for i, p := range corpus {
		score := 0
		for _, kw := range p.keywords {
			if strings.Contains(q, kw) {
				score++
			}
		}
		if score > 0 {
			hits = append(hits, hit{i, score})
		}
	}
	sort.SliceStable(hits, func(a, b int) bool { return hits[a].score > hits[b].score })
	if len(hits) > maxSources {
		hits = hits[:maxSources]
	}

	resp := backend.QueryResponse{
		Sources:            []backend.Source{},
		DocumentsConsulted: []string{},
	}
	if len(hits) == 0 {
		resp.Answer = "No encontré información sobre eso en los documentos disponibles. " +
			"Intenta preguntar por la Constitución, el Código de Tránsito o la Ley 1257 de 2008."
		return resp
	}

	seen := make(map[string]bool)
	var sb strings.Builder
	sb.WriteString("Según los documentos consultados:\n\n")
	for _, h := range hits {
		p := corpus[h.idx]
		resp.Sources = append(resp.Sources, backend.Source{Content: p.content, Source: p.document})
		if !seen[p.document] {
			seen[p.document] = true
			resp.DocumentsConsulted = append(resp.DocumentsConsulted, p.document)
		}
		fmt.Fprintf(&sb, "- %s\n", bodySentence(p.content))
	}
	resp.Answer = strings.TrimSpace(sb.String())
	return resp
}

// bodySentence skips the "ARTÍCULO N." heading of a passage and returns the
// sentence that follows it. Text without a following sentence is returned
// whole.
func bodySentence(s string) string {
	if i := strings.Index(s, ". "); i >= 0 {
		rest := s[i+2:]
		if j := strings.Index(rest, "."); j >= 0 {
			return strings.TrimSpace(rest[:j+1])
		}
	}
	return s
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeDetail writes a FastAPI-style {"detail": "..."} error.
func writeDetail(w http.ResponseWriter, status int, detail string) {
	body, _ := sjson.Set("{}", "detail", detail)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(body))
}

// writeValidation writes a FastAPI-style 422 validation error.
func writeValidation(w http.ResponseWriter, loc, msg string) {
	body, _ := sjson.Set("{}", "detail.0.loc", []string{loc})
	body, _ = sjson.Set(body, "detail.0.msg", msg)
	body, _ = sjson.Set(body, "detail.0.type", "value_error")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnprocessableEntity)
	w.Write([]byte(body))
}
