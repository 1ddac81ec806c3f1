package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

const datePattern = `{date:[0-9]{4}-[0-9]{2}-[0-9]{2}}`

func (s *Server) journalRoutes(r *mux.Router) {
	r.HandleFunc("", s.handleListJournal).Methods(http.MethodGet)
	r.HandleFunc("/latest", s.handleLatestJournal).Methods(http.MethodGet)
	r.HandleFunc("/today", s.handleTodayJournal).Methods(http.MethodGet)
	r.HandleFunc("/"+datePattern, s.handleGetJournal).Methods(http.MethodGet)
	r.HandleFunc("/"+datePattern, s.handleWriteJournal).Methods(http.MethodPut)
	r.HandleFunc("/"+datePattern, s.handleDeleteJournal).Methods(http.MethodDelete)
}

func (s *Server) handleListJournal(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Data(s.session.Journal().List()).Write(w)
}

func (s *Server) handleLatestJournal(w http.ResponseWriter, r *http.Request) {
	e, err := s.session.Journal().Latest()
	s.respond(w, r, http.StatusOK, e, err)
}

// handleTodayJournal returns today's entry, or 404 with the date to write.
func (s *Server) handleTodayJournal(w http.ResponseWriter, r *http.Request) {
	j := s.session.Journal()
	e, err := j.Get(j.Today())
	s.respond(w, r, http.StatusOK, e, err)
}

func (s *Server) handleGetJournal(w http.ResponseWriter, r *http.Request) {
	e, err := s.session.Journal().Get(mux.Vars(r)["date"])
	s.respond(w, r, http.StatusOK, e, err)
}

func (s *Server) handleWriteJournal(w http.ResponseWriter, r *http.Request) {
	p := s.body(w, r)
	if p == nil {
		return
	}
	e, err := s.session.Journal().Write(r.Context(), mux.Vars(r)["date"], p.Get("title"), p.GetText("text"))
	s.respond(w, r, http.StatusOK, e, err)
}

func (s *Server) handleDeleteJournal(w http.ResponseWriter, r *http.Request) {
	err := RequireConfirmation(r)
	if err == nil {
		err = s.session.Journal().Delete(r.Context(), mux.Vars(r)["date"])
	}
	s.respond(w, r, http.StatusNoContent, nil, err)
}
