// Package devapi serves a read-only copy of the employee API from a local
// store, so the directory front end can be run without the real backend.
package devapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"unicode/utf8"

	"github.com/csg33k/employee-directory/internal/domain"
	"github.com/csg33k/employee-directory/internal/logger"
	"github.com/csg33k/employee-directory/internal/middleware"
	"github.com/csg33k/employee-directory/internal/ports"
)

const (
	Prefix = "/api/v1"

	MaxSearchLength = 100
	DefaultLimit    = 50
	MaxLimit        = 100
)

type Server struct {
	store   ports.EmployeeStore
	origins []string
}

func New(store ports.EmployeeStore, allowedOrigins []string) *Server {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	return &Server{store: store, origins: allowedOrigins}
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.root)
	mux.HandleFunc("GET /health", s.health)
	mux.HandleFunc("GET "+Prefix+"/employees", s.listEmployees)
	mux.HandleFunc("GET "+Prefix+"/employees/{id}", s.getEmployee)
	return middleware.Logging(middleware.Recovery(middleware.CORS(s.origins)(mux)))
}

func (s *Server) root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Employee Directory API is running"})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		logger.ErrorErr(r.Context(), err, "store ping failed")
		writeDetail(w, http.StatusServiceUnavailable, "Database unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) listEmployees(w http.ResponseWriter, r *http.Request) {
	p, err := parseListParams(r)
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	employees, err := s.store.Search(r.Context(), p)
	if err != nil {
		logger.ErrorErr(r.Context(), err, "employee search failed")
		writeDetail(w, http.StatusServiceUnavailable, "Database error")
		return
	}
	writeJSON(w, http.StatusOK, employees)
}

func (s *Server) getEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "id must be an integer")
		return
	}
	e, err := s.store.Get(r.Context(), id)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeDetail(w, http.StatusNotFound, "Employee not found")
	case err != nil:
		logger.ErrorErr(r.Context(), err, "employee lookup failed")
		writeDetail(w, http.StatusServiceUnavailable, "Database error")
	default:
		writeJSON(w, http.StatusOK, e)
	}
}

func parseListParams(r *http.Request) (domain.ListParams, error) {
	q := r.URL.Query()
	p := domain.ListParams{Search: q.Get("search"), Limit: DefaultLimit}
	if utf8.RuneCountInString(p.Search) > MaxSearchLength {
		return p, fmt.Errorf("search: at most %d characters", MaxSearchLength)
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > MaxLimit {
			return p, fmt.Errorf("limit: must be an integer between 1 and %d", MaxLimit)
		}
		p.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return p, errors.New("offset: must be a non-negative integer")
		}
		p.Offset = n
	}
	return p, nil
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
