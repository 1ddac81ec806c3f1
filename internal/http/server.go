package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"lifelog/internal/cache"
	"lifelog/internal/core"
	"lifelog/internal/log"
	"lifelog/internal/middleware/ratelimit"
	"lifelog/internal/middleware/security"
	"lifelog/internal/middleware/trace"
	"lifelog/internal/services"
)

// ServerConfig wires a Server.
type ServerConfig struct {
	Addr    string
	Session *services.Session
	Logger  *log.Logger
	// Ready reports whether dependencies are usable; nil means always ready.
	Ready     func(ctx context.Context) error
	RateLimit ratelimit.Config
	// CacheTTL bounds how long a dashboard stays cached. Defaults to a minute.
	CacheTTL time.Duration
}

type Server struct {
	http.Server
	session *services.Session
	logger  *log.Logger
	ready   func(ctx context.Context) error
	started time.Time

	dashboardCache *cache.LRUCache[core.Dashboard]
	cacheManager   *cache.Manager
	rateLimiter    *ratelimit.Limiter
	tracer         *trace.Middleware
	detector       *security.Detector

	shutdownOnce sync.Once
}

// NewServer builds the router and middleware chain. Shutdown releases the
// background goroutines it starts.
func NewServer(cfg ServerConfig) *Server {
	if cfg.Logger == nil {
		cfg.Logger = log.Discard()
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = time.Minute
	}
	logger := cfg.Logger.WithComponent(log.ComponentHTTP)

	s := &Server{
		session:        cfg.Session,
		logger:         logger,
		ready:          cfg.Ready,
		started:        time.Now(),
		dashboardCache: cache.NewLRUCache[core.Dashboard](8, cfg.CacheTTL),
		cacheManager:   cache.NewManager(logger),
		rateLimiter:    ratelimit.NewLimiter(cfg.RateLimit, logger),
		detector:       security.NewDetector(),
	}
	s.tracer = trace.NewMiddleware(logger, s.detector.ExtractClientIP)
	s.cacheManager.Register(s.dashboardCache)
	s.cacheManager.StartCleanup(cfg.CacheTTL)

	s.Server = http.Server{
		Addr:              cfg.Addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	r := jsonErrors(mux.NewRouter())

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/readyz", s.handleReady).Methods(http.MethodGet)
	r.HandleFunc("/metrics", s.handleMetrics).Methods(http.MethodGet)

	api := jsonErrors(r.PathPrefix("/api").Subrouter())
	api.Use(s.rateLimiter.Middleware(s.detector.ExtractClientIP, func(w http.ResponseWriter, _ *http.Request) {
		ErrorResponse(http.StatusTooManyRequests, "rate limit exceeded").Write(w)
	}))

	api.HandleFunc("/dashboard", s.handleDashboard).Methods(http.MethodGet)
	api.HandleFunc("/document", s.handleGetDocument).Methods(http.MethodGet)
	api.HandleFunc("/document", s.handleReplaceDocument).Methods(http.MethodPut)
	api.HandleFunc("/refresh", s.handleRefresh).Methods(http.MethodPost)

	s.streakRoutes(jsonErrors(api.PathPrefix("/streaks").Subrouter()))
	s.moneyRoutes(jsonErrors(api.PathPrefix("/money").Subrouter()))
	s.learnRoutes(jsonErrors(api.PathPrefix("/learn").Subrouter()))
	s.attendanceRoutes(jsonErrors(api.PathPrefix("/attendance").Subrouter()))
	s.habitRoutes(jsonErrors(api.PathPrefix("/habits").Subrouter()))
	s.journalRoutes(jsonErrors(api.PathPrefix("/journal").Subrouter()))

	// Outermost first: headers, tracing, then probe detection.
	var h http.Handler = r
	h = s.detector.Middleware(h)
	h = s.tracer.Middleware(h)
	h = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(h)
	return h
}

// jsonErrors sets the JSON 404 and 405 handlers on r. Subrouters do not
// inherit them from their parent.
func jsonErrors(r *mux.Router) *mux.Router {
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		NotFoundError("no such route").Write(w)
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		ErrorResponse(http.StatusMethodNotAllowed, "method not allowed").Write(w)
	})
	return r
}

// Shutdown stops accepting requests and the background goroutines.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.Server.Shutdown(ctx)
	s.shutdownOnce.Do(func() {
		s.rateLimiter.Stop()
		s.cacheManager.Stop()
	})
	return err
}

// ListenAndServe serves until Shutdown; http.ErrServerClosed is not an error.
func (s *Server) ListenAndServe() error {
	s.logger.Info("HTTP server listening", "addr", s.Addr)
	if err := s.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen on %s: %w", s.Addr, err)
	}
	return nil
}

// respond writes v with status, or the mapped error response.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, status int, v any, err error) {
	if err != nil {
		s.fail(w, r, err)
		return
	}
	NewJSONResponse().Status(status).Data(v).Write(w)
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	logger := log.FromContext(r.Context())
	if StatusFor(err) >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "Request failed", log.FieldPath, r.URL.Path, log.FieldError, err)
	} else {
		logger.DebugContext(r.Context(), "Request rejected", log.FieldPath, r.URL.Path, log.FieldError, err)
	}
	FromError(err).Write(w)
}

// body parses the request body or writes a 400 and returns nil.
func (s *Server) body(w http.ResponseWriter, r *http.Request) *RequestBodyParser {
	p, err := ParseBody(r)
	if err != nil {
		s.fail(w, r, err)
		return nil
	}
	return p
}
