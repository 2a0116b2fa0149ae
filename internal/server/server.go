// Package server exposes the market-data layer over HTTP for the web app.
// Absence of data is reported as empty results or 404, never as a 5xx; the
// layers below already degraded everything degradable.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/eeliel46-ctrl/financaeinvestimentos/internal/models"
	"github.com/eeliel46-ctrl/financaeinvestimentos/pkg/directory"
	"github.com/eeliel46-ctrl/financaeinvestimentos/pkg/history"
	"github.com/eeliel46-ctrl/financaeinvestimentos/pkg/movers"
	"github.com/eeliel46-ctrl/financaeinvestimentos/pkg/quotes"
)

// Server handles the HTTP surface of the market-data service.
type Server struct {
	port            int
	corsAllowOrigin string
	router          *mux.Router

	resolver  *quotes.Resolver
	directory *directory.Cache
	history   *history.Fetcher
	ranker    *movers.Ranker
}

// New creates a server over the assembled data-access components.
func New(port int, corsAllowOrigin string, resolver *quotes.Resolver, dir *directory.Cache, fetcher *history.Fetcher, ranker *movers.Ranker) *Server {
	s := &Server{
		port:            port,
		corsAllowOrigin: corsAllowOrigin,
		router:          mux.NewRouter(),
		resolver:        resolver,
		directory:       dir,
		history:         fetcher,
		ranker:          ranker,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("/api/health", s.healthHandler).Methods("GET")
	s.router.HandleFunc("/api/quote/{symbol}", s.getQuoteHandler).Methods("GET")
	s.router.HandleFunc("/api/quotes", s.getQuotesHandler).Methods("GET")
	s.router.HandleFunc("/api/search", s.searchHandler).Methods("GET")
	s.router.HandleFunc("/api/movers", s.moversHandler).Methods("GET")
	s.router.HandleFunc("/api/history/{symbol}", s.historyHandler).Methods("GET")
}

// Handler returns the full middleware-wrapped handler, used both by Start
// and by tests.
func (s *Server) Handler() http.Handler {
	tracing := &TracingMiddleware{ServiceName: "market-data"}
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{s.corsAllowOrigin},
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Trace-ID"},
		AllowCredentials: true,
	})
	return c.Handler(tracing.Trace(s.router))
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	health := map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	}
	if age, ok := s.directory.Age(); ok {
		health["directory_age_seconds"] = int(age.Seconds())
	} else {
		health["directory_age_seconds"] = nil
	}
	respondWithJSON(w, http.StatusOK, health)
}

func (s *Server) getQuoteHandler(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]
	if symbol == "" {
		respondWithError(w, http.StatusBadRequest, "missing symbol")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	quote := s.resolver.ResolveOne(ctx, symbol)
	if quote == nil {
		respondWithError(w, http.StatusNotFound, fmt.Sprintf("no quote for %s", strings.ToUpper(symbol)))
		return
	}
	respondWithJSON(w, http.StatusOK, quote)
}

func (s *Server) getQuotesHandler(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("symbols")
	if strings.TrimSpace(raw) == "" {
		respondWithError(w, http.StatusBadRequest, "missing symbols parameter")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	resolved := s.resolver.ResolveMany(ctx, strings.Split(raw, ","))
	if resolved == nil {
		resolved = []models.Quote{}
	}
	respondWithJSON(w, http.StatusOK, resolved)
}

func (s *Server) searchHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	matches := s.directory.Search(ctx, query)
	if matches == nil {
		matches = []models.SymbolListing{}
	}
	respondWithJSON(w, http.StatusOK, matches)
}

func (s *Server) moversHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	respondWithJSON(w, http.StatusOK, s.ranker.TopMovers(ctx))
}

func (s *Server) historyHandler(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]

	// range accepts a label ("1d", "30d", ...) or a plain day count
	requested := r.URL.Query().Get("range")
	if requested == "" {
		requested = string(history.Month)
	}
	label, ok := history.ParseLabel(requested)
	if !ok {
		days, err := strconv.Atoi(requested)
		if err != nil || days <= 0 {
			respondWithError(w, http.StatusBadRequest, fmt.Sprintf("unknown range %q", requested))
			return
		}
		label = history.FromDays(days)
	}

	ctx, cancel := context.WithTimeout(r.Context(), 20*time.Second)
	defer cancel()

	bars := s.history.Fetch(ctx, strings.ToUpper(symbol), label)
	if bars == nil {
		// data unavailability renders as an empty series, not an error
		bars = []models.PriceBar{}
	}
	respondWithJSON(w, http.StatusOK, bars)
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully.
func (s *Server) Start() error {
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("starting market-data API on port %d", s.port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("error starting server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("error during server shutdown: %w", err)
	}
	log.Println("server gracefully stopped")
	return nil
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("error marshaling JSON"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}
