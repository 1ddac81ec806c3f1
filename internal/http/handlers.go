package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"lifelog/internal/document"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Data(map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.started).Round(time.Second).String(),
	}).Write(w)
}

// handleReady reports 503 until a session is open and dependencies answer.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]any)

	if s.session == nil {
		checks["session"] = "not_open"
		status, httpStatus = "not_ready", http.StatusServiceUnavailable
	} else {
		checks["session"] = map[string]any{"status": "ok", "version": s.session.Version()}
	}

	if s.ready != nil {
		if err := s.ready(ctx); err != nil {
			checks["store"] = fmt.Sprintf("failed: %v", err)
			status, httpStatus = "not_ready", http.StatusServiceUnavailable
		} else {
			checks["store"] = "ok"
		}
	}

	checks["cache"] = s.dashboardCache.Stats()
	checks["rate_limiter"] = map[string]any{"active_clients": s.rateLimiter.ActiveClients()}

	NewJSONResponse().Status(httpStatus).Data(map[string]any{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	}).Write(w)
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Data(map[string]any{
		"requests":            s.tracer.GetMetrics(),
		"rate_limit":          s.rateLimiter.GetMetrics(),
		"suspicious_requests": s.detector.SuspiciousRequests(),
		"dashboard_cache":     s.dashboardCache.Stats(),
		"uptime_seconds":      int64(time.Since(s.started).Seconds()),
	}).Write(w)
}

// handleDashboard serves the summary, cached per document version.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	key := fmt.Sprintf("dashboard:v%d", s.session.Version())
	if d, ok := s.dashboardCache.Get(key); ok {
		NewJSONResponse().Header("X-Cache", "hit").Data(d).Write(w)
		return
	}
	d := s.session.Dashboard()
	s.dashboardCache.Set(key, d)
	NewJSONResponse().Header("X-Cache", "miss").Data(d).Write(w)
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Data(s.session.Snapshot()).Write(w)
}

// handleReplaceDocument imports a whole document. It discards every tracker,
// so it needs confirm=true.
func (s *Server) handleReplaceDocument(w http.ResponseWriter, r *http.Request) {
	if err := RequireConfirmation(r); err != nil {
		s.fail(w, r, err)
		return
	}
	p := s.body(w, r)
	if p == nil {
		return
	}
	d, err := document.Decode(string(p.GetRaw()))
	if err != nil {
		UnprocessableEntityError(err.Error()).Write(w)
		return
	}
	if err := s.session.Replace(r.Context(), d); err != nil {
		s.fail(w, r, err)
		return
	}
	NewJSONResponse().Data(s.session.Snapshot()).Write(w)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Data(s.session.Refresh(r.Context())).Write(w)
}
