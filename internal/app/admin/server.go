package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/hunkyJay/ProgExchange-Platform/internal/usecase/report"
	"github.com/hunkyJay/ProgExchange-Platform/pkg/logger"
)

// Server is the read-only admin HTTP surface. It serves the latest
// post-command snapshot and never touches the reactor's state directly.
type Server struct {
	http   *http.Server
	holder *report.Holder
	logger *logger.Logger
}

// NewServer builds the admin server listening on addr.
func NewServer(addr string, holder *report.Holder, log *logger.Logger) *Server {
	s := &Server{holder: holder, logger: log}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(3 * time.Second))

	r.Get("/health", s.handleHealth)
	r.Get("/book/{product}", s.handleBook)
	r.Get("/positions", s.handlePositions)

	s.http = &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Start serves until Shutdown is called. It blocks; run it in its own
// goroutine.
func (s *Server) Start() error {
	err := s.http.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleBook(w http.ResponseWriter, r *http.Request) {
	product := chi.URLParam(r, "product")

	snap := s.holder.Get()
	for _, book := range snap.Books {
		if book.Product == product {
			s.writeJSON(w, http.StatusOK, book)
			return
		}
	}
	s.writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown product"})
}

func (s *Server) handlePositions(w http.ResponseWriter, _ *http.Request) {
	snap := s.holder.Get()
	s.writeJSON(w, http.StatusOK, map[string]any{
		"positions": snap.Positions,
		"fees":      snap.Fees,
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Warn("admin response write failed",
			logger.Field{Key: "error", Value: err.Error()},
		)
	}
}
