package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"lifelog/internal/core"
)

func (s *Server) learnRoutes(r *mux.Router) {
	r.HandleFunc("", s.handleListSections).Methods(http.MethodGet)
	r.HandleFunc("", s.handleAddSection).Methods(http.MethodPost)
	r.HandleFunc("/{id:[0-9]+}", s.handleDeleteSection).Methods(http.MethodDelete)
	r.HandleFunc("/{id:[0-9]+}/tasks", s.handleAddTask).Methods(http.MethodPost)
	r.HandleFunc("/{id:[0-9]+}/tasks/{task:[0-9]+}/toggle", s.handleToggleTask).Methods(http.MethodPost)
	r.HandleFunc("/{id:[0-9]+}/tasks/{task:[0-9]+}", s.handleDeleteTask).Methods(http.MethodDelete)
}

type sectionList struct {
	Sections []core.Section `json:"sections"`
	Progress core.Progress  `json:"progress"`
}

func (s *Server) handleListSections(w http.ResponseWriter, r *http.Request) {
	learn := s.session.Learn()
	NewJSONResponse().Data(sectionList{Sections: learn.List(), Progress: learn.Progress()}).Write(w)
}

func (s *Server) handleAddSection(w http.ResponseWriter, r *http.Request) {
	p := s.body(w, r)
	if p == nil {
		return
	}
	sec, err := s.session.Learn().AddSection(r.Context(), p.Get("name"))
	s.respond(w, r, http.StatusCreated, sec, err)
}

func (s *Server) handleDeleteSection(w http.ResponseWriter, r *http.Request) {
	id, err := PathID(r, "id")
	if err == nil {
		err = RequireConfirmation(r)
	}
	if err == nil {
		err = s.session.Learn().DeleteSection(r.Context(), id)
	}
	s.respond(w, r, http.StatusNoContent, nil, err)
}

func (s *Server) handleAddTask(w http.ResponseWriter, r *http.Request) {
	id, err := PathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	p := s.body(w, r)
	if p == nil {
		return
	}
	task, err := s.session.Learn().AddTask(r.Context(), id, p.Get("task"))
	s.respond(w, r, http.StatusCreated, task, err)
}

func (s *Server) sectionTask(r *http.Request) (core.ID, core.ID, error) {
	id, err := PathID(r, "id")
	if err != nil {
		return 0, 0, err
	}
	task, err := PathID(r, "task")
	return id, task, err
}

func (s *Server) handleToggleTask(w http.ResponseWriter, r *http.Request) {
	id, task, err := s.sectionTask(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	t, err := s.session.Learn().ToggleTask(r.Context(), id, task)
	s.respond(w, r, http.StatusOK, t, err)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	id, task, err := s.sectionTask(r)
	if err == nil {
		err = RequireConfirmation(r)
	}
	if err == nil {
		err = s.session.Learn().DeleteTask(r.Context(), id, task)
	}
	s.respond(w, r, http.StatusNoContent, nil, err)
}
