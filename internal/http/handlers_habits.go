package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"lifelog/internal/core"
)

func (s *Server) habitRoutes(r *mux.Router) {
	r.HandleFunc("", s.handleHabitBoard).Methods(http.MethodGet)
	r.HandleFunc("", s.handleAddHabit).Methods(http.MethodPost)
	r.HandleFunc("/reset-date", s.handleResetHabitDate).Methods(http.MethodPost)
	r.HandleFunc("/{id:[0-9]+}", s.handleRenameHabit).Methods(http.MethodPatch)
	r.HandleFunc("/{id:[0-9]+}", s.handleDeleteHabit).Methods(http.MethodDelete)
	r.HandleFunc("/{id:[0-9]+}/toggle", s.handleToggleHabit).Methods(http.MethodPost)
}

type habitBoard struct {
	core.HabitBoard
	Status core.HabitStatus `json:"status"`
}

func (s *Server) handleHabitBoard(w http.ResponseWriter, r *http.Request) {
	habits := s.session.Habits()
	NewJSONResponse().Data(habitBoard{HabitBoard: habits.Board(), Status: habits.Status()}).Write(w)
}

func (s *Server) handleAddHabit(w http.ResponseWriter, r *http.Request) {
	p := s.body(w, r)
	if p == nil {
		return
	}
	h, err := s.session.Habits().Add(r.Context(), p.Get("title"))
	s.respond(w, r, http.StatusCreated, h, err)
}

func (s *Server) handleRenameHabit(w http.ResponseWriter, r *http.Request) {
	id, err := PathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	p := s.body(w, r)
	if p == nil {
		return
	}
	h, err := s.session.Habits().Rename(r.Context(), id, p.Get("title"))
	s.respond(w, r, http.StatusOK, h, err)
}

func (s *Server) handleToggleHabit(w http.ResponseWriter, r *http.Request) {
	id, err := PathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	h, err := s.session.Habits().Toggle(r.Context(), id)
	s.respond(w, r, http.StatusOK, h, err)
}

func (s *Server) handleDeleteHabit(w http.ResponseWriter, r *http.Request) {
	id, err := PathID(r, "id")
	if err == nil {
		err = RequireConfirmation(r)
	}
	if err == nil {
		err = s.session.Habits().Delete(r.Context(), id)
	}
	s.respond(w, r, http.StatusNoContent, nil, err)
}

func (s *Server) handleResetHabitDate(w http.ResponseWriter, r *http.Request) {
	if err := RequireConfirmation(r); err != nil {
		s.fail(w, r, err)
		return
	}
	b, err := s.session.Habits().ResetStartDate(r.Context())
	s.respond(w, r, http.StatusOK, b, err)
}
