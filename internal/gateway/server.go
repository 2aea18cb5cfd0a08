// Package gateway exposes Neon Ride environments to remote agents over a
// JSON HTTP API and a websocket stream.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/neonride/internal/config"
	"github.com/vovakirdan/neonride/internal/env"
)

// maxBodyBytes caps request bodies; every request message is tiny.
const maxBodyBytes = 1 << 16

// Options configures a Server.
type Options struct {
	Addr           string
	AllowedOrigins []string      // CORS origins; empty means any
	MaxSessions    int           // 0 means unlimited
	IdleTimeout    time.Duration // Sessions unused this long are dropped; 0 keeps them
	CleanupPeriod  time.Duration // How often idle sessions are reaped
	Profiles       ProfileLoader // nil means config.Default
	Saver          EpisodeSaver  // nil disables persistence
	Logger         *log.Logger
}

// DefaultOptions returns options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		Addr:          ":8080",
		MaxSessions:   256,
		IdleTimeout:   30 * time.Minute,
		CleanupPeriod: time.Minute,
	}
}

// Server is the HTTP and websocket gateway.
type Server struct {
	opts     Options
	sessions *Manager
	log      *log.Logger
	upgrader websocket.Upgrader
	router   chi.Router
}

// NewServer builds the gateway router.
func NewServer(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	load := opts.Profiles
	if load == nil {
		load = func(p config.Profile) (config.NeonRideConfig, error) {
			return config.Default(p), nil
		}
	}

	s := &Server{
		opts:     opts,
		sessions: NewManager(load, opts.Saver, opts.MaxSessions, logger),
		log:      logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	origins := s.opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/v1", func(sub chi.Router) {
		sub.Post("/envs", s.handleCreate)
		sub.Get("/envs/{id}", s.handleInfo)
		sub.Post("/envs/{id}/reset", s.handleReset)
		sub.Post("/envs/{id}/step", s.handleStep)
		sub.Delete("/envs/{id}", s.handleDelete)
		sub.Get("/ws", s.handleWebsocket)
	})
	return r
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Sessions returns the session manager.
func (s *Server) Sessions() *Manager {
	return s.sessions
}

// ListenAndServe serves until ctx is canceled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.sessions.RunCleanup(ctx, s.opts.CleanupPeriod, s.opts.IdleTimeout)

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("starting gateway", "address", s.opts.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if !decodeBody(w, r, &req, true) {
		return
	}

	sess, err := s.sessions.Create(req.Profile, req.Seed)
	if err != nil {
		s.writeError(w, err)
		return
	}
	info := sess.Info()
	s.log.Info("session created", "session", sess.ID, "profile", sess.Profile, "seed", info.Seed)

	writeJSON(w, http.StatusCreated, CreateResponse{
		ID:          info.ID,
		Profile:     info.Profile,
		Seed:        info.Seed,
		Observation: sess.Observation().Slice(),
	})
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.Info())
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	var req ResetRequest
	if !decodeBody(w, r, &req, true) {
		return
	}
	obs := sess.Reset(req.Seed)
	writeJSON(w, http.StatusOK, ResetResponse{Seed: sess.Info().Seed, Observation: obs.Slice()})
}

func (s *Server) handleStep(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	var req StepRequest
	if !decodeBody(w, r, &req, false) {
		return
	}
	if req.Action == nil {
		errorJSON(w, http.StatusBadRequest, "action is required")
		return
	}

	res, ticks := sess.Step(env.Action(*req.Action))
	writeJSON(w, http.StatusOK, stepResponse(res, ticks))
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.sessions.Delete(id); err != nil {
		s.writeError(w, err)
		return
	}
	s.log.Info("session deleted", "session", id)
	w.WriteHeader(http.StatusNoContent)
}

// writeError maps domain errors to HTTP status codes.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		errorJSON(w, http.StatusNotFound, err.Error())
	case errors.Is(err, config.ErrUnknownProfile):
		errorJSON(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrTooManySessions):
		errorJSON(w, http.StatusServiceUnavailable, err.Error())
	default:
		s.log.Error("request failed", "error", err)
		errorJSON(w, http.StatusInternalServerError, "internal error")
	}
}

// decodeBody reads a JSON body into v, answering 400 on failure.
// With allowEmpty an absent body leaves v at its zero value.
func decodeBody(w http.ResponseWriter, r *http.Request, v any, allowEmpty bool) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if allowEmpty && errors.Is(err, io.EOF) {
			return true
		}
		errorJSON(w, http.StatusBadRequest, "invalid json")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func errorJSON(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// requestLogger logs each request through the structured logger.
func requestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}

// parseSeed reads an optional integer seed query parameter.
func parseSeed(raw string) (*int64, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
