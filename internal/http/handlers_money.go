package http

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"lifelog/internal/core"
)

func (s *Server) moneyRoutes(r *mux.Router) {
	r.HandleFunc("", s.handleListTransactions).Methods(http.MethodGet)
	r.HandleFunc("", s.handleAddTransaction).Methods(http.MethodPost)
	r.HandleFunc("/totals", s.handleTotals).Methods(http.MethodGet)
	r.HandleFunc("/{id:[0-9]+}", s.handleGetTransaction).Methods(http.MethodGet)
	r.HandleFunc("/{id:[0-9]+}", s.handleEditTransaction).Methods(http.MethodPut)
	r.HandleFunc("/{id:[0-9]+}", s.handleDeleteTransaction).Methods(http.MethodDelete)
}

type transactionList struct {
	Transactions []core.Transaction `json:"transactions"`
	Totals       core.Totals        `json:"totals"`
}

// handleListTransactions filters by ?category=; totals always cover every
// transaction.
func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	category := core.Category(sanitizeInput(r.URL.Query().Get("category")))
	if category != "" && !category.Valid() {
		s.fail(w, r, fmt.Errorf("%w: %q", core.ErrInvalidCategory, category))
		return
	}
	money := s.session.Money()
	NewJSONResponse().Data(transactionList{
		Transactions: money.List(category),
		Totals:       money.Totals(),
	}).Write(w)
}

func (s *Server) handleTotals(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Data(s.session.Money().Totals()).Write(w)
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := PathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	tx, err := s.session.Money().Get(id)
	s.respond(w, r, http.StatusOK, tx, err)
}

// transactionInput reads title, amount, category and type.
func transactionInput(p *RequestBodyParser) (core.TransactionInput, error) {
	amount, err := core.ParseAmount(p.Get("amount"))
	if err != nil {
		return core.TransactionInput{}, err
	}
	return core.TransactionInput{
		Title:    p.Get("title"),
		Amount:   amount,
		Category: core.Category(p.Get("category")),
		Kind:     core.Kind(p.Get("type")),
	}, nil
}

func (s *Server) handleAddTransaction(w http.ResponseWriter, r *http.Request) {
	p := s.body(w, r)
	if p == nil {
		return
	}
	in, err := transactionInput(p)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	tx, err := s.session.Money().Add(r.Context(), in)
	s.respond(w, r, http.StatusCreated, tx, err)
}

func (s *Server) handleEditTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := PathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	p := s.body(w, r)
	if p == nil {
		return
	}
	in, err := transactionInput(p)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	tx, err := s.session.Money().Edit(r.Context(), id, in)
	s.respond(w, r, http.StatusOK, tx, err)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := PathID(r, "id")
	if err == nil {
		err = RequireConfirmation(r)
	}
	if err == nil {
		err = s.session.Money().Delete(r.Context(), id)
	}
	s.respond(w, r, http.StatusNoContent, nil, err)
}
