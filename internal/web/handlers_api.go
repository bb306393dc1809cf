package web

import (
	"net/http"

	"github.com/JonMunkholm/hdrgen/internal/core"
	"github.com/JonMunkholm/hdrgen/internal/logging"
	"github.com/go-chi/chi/v5"
)

// columnsRequest is the body of PUT /api/sessions/{id}/columns.
type columnsRequest struct {
	Columns []string `json:"columns"`
}

// columnRequest names one column, optionally with a move direction.
type columnRequest struct {
	Column    string `json:"column"`
	Direction string `json:"direction,omitempty"`
}

// generateRequest is the optional body of POST /api/sessions/{id}/generate.
type generateRequest struct {
	FileName string `json:"file_name"`
}

// StatusResponse reports server load for monitoring.
type StatusResponse struct {
	Sessions int                     `json:"sessions"`
	Parses   core.ParseLimiterStatus `json:"parses"`
}

// handleAPIStatus returns the parse limiter state and session count.
func (s *Server) handleAPIStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, StatusResponse{
		Sessions: s.service.SessionCount(),
		Parses:   s.service.ParseStatus(),
	})
}

// handleAPICreateSession loads a multipart workbook upload.
func (s *Server) handleAPICreateSession(w http.ResponseWriter, r *http.Request) {
	view, err := s.load(w, r)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	writeJSON(w, r, http.StatusCreated, view)
}

func (s *Server) handleAPIGetSession(w http.ResponseWriter, r *http.Request) {
	s.apiSession(w, r, func(id string) (*core.SessionView, error) {
		return s.service.Session(id)
	})
}

func (s *Server) handleAPIDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.service.Delete(id); err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	logging.WithFields(r.Context(), "session_id", id).Info("session deleted")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAPISelectColumns(w http.ResponseWriter, r *http.Request) {
	var req columnsRequest
	s.apiSession(w, r, func(id string) (*core.SessionView, error) {
		if err := decodeJSON(r, &req); err != nil {
			return nil, err
		}
		return s.service.SelectColumns(id, req.Columns)
	})
}

func (s *Server) handleAPISelectCursor(w http.ResponseWriter, r *http.Request) {
	var req columnRequest
	s.apiSession(w, r, func(id string) (*core.SessionView, error) {
		if err := decodeJSON(r, &req); err != nil {
			return nil, err
		}
		return s.service.SelectCursor(id, req.Column)
	})
}

func (s *Server) handleAPIMove(w http.ResponseWriter, r *http.Request) {
	var req columnRequest
	s.apiSession(w, r, func(id string) (*core.SessionView, error) {
		if err := decodeJSON(r, &req); err != nil {
			return nil, err
		}
		return s.move(id, req.Column, req.Direction)
	})
}

// handleAPISetComment sets the comment column; "" or "None" unsets it.
func (s *Server) handleAPISetComment(w http.ResponseWriter, r *http.Request) {
	var req columnRequest
	s.apiSession(w, r, func(id string) (*core.SessionView, error) {
		if err := decodeJSON(r, &req); err != nil {
			return nil, err
		}
		return s.service.SetComment(id, req.Column)
	})
}

// handleAPIGenerate renders the header. A file_name in the body replaces
// the session's output name first.
func (s *Server) handleAPIGenerate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req generateRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	if req.FileName != "" {
		if _, err := s.service.SetOutputName(id, req.FileName); err != nil {
			s.respondError(w, r, err, 0)
			return
		}
	}

	out, err := s.service.Generate(id)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}

	logging.WithFields(r.Context(), "session_id", id).Info("header generated",
		"file", out.FileName,
		"lines", out.Lines,
	)
	writeJSON(w, r, http.StatusOK, out)
}

// apiSession runs fn for the session in the URL and writes the resulting view.
func (s *Server) apiSession(w http.ResponseWriter, r *http.Request, fn func(id string) (*core.SessionView, error)) {
	view, err := fn(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	writeJSON(w, r, http.StatusOK, view)
}
