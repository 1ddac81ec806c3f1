package http

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"lifelog/internal/core"
	"lifelog/internal/services"
)

func (s *Server) attendanceRoutes(r *mux.Router) {
	r.HandleFunc("", s.handleListSubjects).Methods(http.MethodGet)
	r.HandleFunc("", s.handleAddSubject).Methods(http.MethodPost)
	r.HandleFunc("/{id:[0-9]+}", s.handleDeleteSubject).Methods(http.MethodDelete)
	r.HandleFunc("/{id:[0-9]+}/{action:attend|unattend|add-class|remove-class}", s.handleSubjectAction).Methods(http.MethodPost)
}

type subjectList struct {
	Subjects []core.Subject `json:"subjects"`
	Overall  int            `json:"overallPercent"`
}

func (s *Server) handleListSubjects(w http.ResponseWriter, r *http.Request) {
	att := s.session.Attendance()
	NewJSONResponse().Data(subjectList{Subjects: att.List(), Overall: att.Overall()}).Write(w)
}

func (s *Server) handleAddSubject(w http.ResponseWriter, r *http.Request) {
	p := s.body(w, r)
	if p == nil {
		return
	}
	sub, err := s.session.Attendance().Add(r.Context(), p.Get("subject"))
	s.respond(w, r, http.StatusCreated, sub, err)
}

func (s *Server) handleDeleteSubject(w http.ResponseWriter, r *http.Request) {
	id, err := PathID(r, "id")
	if err == nil {
		err = RequireConfirmation(r)
	}
	if err == nil {
		err = s.session.Attendance().Delete(r.Context(), id)
	}
	s.respond(w, r, http.StatusNoContent, nil, err)
}

var subjectActions = map[string]func(*services.AttendanceService, context.Context, core.ID) (core.Subject, error){
	"attend":       (*services.AttendanceService).Attend,
	"unattend":     (*services.AttendanceService).Unattend,
	"add-class":    (*services.AttendanceService).AddClass,
	"remove-class": (*services.AttendanceService).RemoveClass,
}

func (s *Server) handleSubjectAction(w http.ResponseWriter, r *http.Request) {
	id, err := PathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	action := subjectActions[mux.Vars(r)["action"]]
	sub, err := action(s.session.Attendance(), r.Context(), id)
	s.respond(w, r, http.StatusOK, sub, err)
}
