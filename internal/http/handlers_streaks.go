package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

func (s *Server) streakRoutes(r *mux.Router) {
	r.HandleFunc("", s.handleListStreaks).Methods(http.MethodGet)
	r.HandleFunc("", s.handleAddStreak).Methods(http.MethodPost)
	r.HandleFunc("/{id:[0-9]+}", s.handleGetStreak).Methods(http.MethodGet)
	r.HandleFunc("/{id:[0-9]+}", s.handleRenameStreak).Methods(http.MethodPatch)
	r.HandleFunc("/{id:[0-9]+}", s.handleDeleteStreak).Methods(http.MethodDelete)
	r.HandleFunc("/{id:[0-9]+}/reset", s.handleResetStreak).Methods(http.MethodPost)
}

func (s *Server) handleListStreaks(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Data(s.session.Streaks().List()).Write(w)
}

func (s *Server) handleGetStreak(w http.ResponseWriter, r *http.Request) {
	id, err := PathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	v, err := s.session.Streaks().Get(id)
	s.respond(w, r, http.StatusOK, v, err)
}

func (s *Server) handleAddStreak(w http.ResponseWriter, r *http.Request) {
	p := s.body(w, r)
	if p == nil {
		return
	}
	st, err := s.session.Streaks().Add(r.Context(), p.Get("title"))
	s.respond(w, r, http.StatusCreated, st, err)
}

func (s *Server) handleRenameStreak(w http.ResponseWriter, r *http.Request) {
	id, err := PathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	p := s.body(w, r)
	if p == nil {
		return
	}
	st, err := s.session.Streaks().Rename(r.Context(), id, p.Get("title"))
	s.respond(w, r, http.StatusOK, st, err)
}

func (s *Server) handleResetStreak(w http.ResponseWriter, r *http.Request) {
	id, err := PathID(r, "id")
	if err == nil {
		err = RequireConfirmation(r)
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	st, err := s.session.Streaks().Reset(r.Context(), id)
	s.respond(w, r, http.StatusOK, st, err)
}

func (s *Server) handleDeleteStreak(w http.ResponseWriter, r *http.Request) {
	id, err := PathID(r, "id")
	if err == nil {
		err = RequireConfirmation(r)
	}
	if err == nil {
		err = s.session.Streaks().Delete(r.Context(), id)
	}
	s.respond(w, r, http.StatusNoContent, nil, err)
}
