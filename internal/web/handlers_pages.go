package web

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/JonMunkholm/hdrgen/internal/core"
	"github.com/JonMunkholm/hdrgen/internal/logging"
	"github.com/JonMunkholm/hdrgen/internal/web/templates"
	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"
)

// handleIndex renders the upload form.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	render(w, r, http.StatusOK, templates.IndexPage(s.indexParams(nil)))
}

// handleUpload loads a workbook and redirects to its session. Failures
// re-render the upload form with the error shown above it.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	view, err := s.load(w, r)
	if err != nil {
		status := statusFor(err)
		logging.FromContext(r.Context()).Warn("upload rejected", "status", status, "error", err)

		alert := alertFor(core.MapError(err))
		render(w, r, status, templates.IndexPage(s.indexParams(&alert)))
		return
	}

	http.Redirect(w, r, sessionPath(view.ID), http.StatusSeeOther)
}

// handleSession renders the four steps for a session. With ?preview=1 the
// generated header is shown below the output step.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	view, err := s.service.Session(id)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}

	params := templates.SessionParams{Session: view}
	if r.URL.Query().Get("preview") == "1" && len(view.Order) > 0 {
		out, err := s.service.Generate(id)
		if err != nil {
			alert := alertFor(core.MapError(err))
			params.Alert = &alert
		} else {
			params.Preview = &templates.Preview{
				FileName:    out.FileName,
				Lines:       out.Lines,
				Code:        s.highlighter.Highlight(out.Content),
				DownloadURL: sessionPath(id) + "/download",
			}
		}
	}

	render(w, r, http.StatusOK, templates.SessionPage(params))
}

// handleSelectColumns applies the step 1 multiselect.
func (s *Server) handleSelectColumns(w http.ResponseWriter, r *http.Request) {
	s.sessionForm(w, r, "", func(id string) (*core.SessionView, error) {
		return s.service.SelectColumns(id, r.PostForm["column"])
	})
}

// handleSelectCursor moves the reorder cursor without changing the order.
func (s *Server) handleSelectCursor(w http.ResponseWriter, r *http.Request) {
	s.sessionForm(w, r, "#order", func(id string) (*core.SessionView, error) {
		return s.service.SelectCursor(id, r.PostForm.Get("column"))
	})
}

// handleMove applies the up and down buttons.
func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	s.sessionForm(w, r, "#order", func(id string) (*core.SessionView, error) {
		return s.move(id, r.PostForm.Get("column"), r.PostForm.Get("direction"))
	})
}

// handleSetComment applies the step 3 comment select.
func (s *Server) handleSetComment(w http.ResponseWriter, r *http.Request) {
	s.sessionForm(w, r, "#comment", func(id string) (*core.SessionView, error) {
		return s.service.SetComment(id, r.PostForm.Get("column"))
	})
}

// handleGenerate stores the output name and shows the preview.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	s.sessionForm(w, r, "?preview=1#output", func(id string) (*core.SessionView, error) {
		view, err := s.service.SetOutputName(id, r.PostForm.Get("file_name"))
		if err != nil {
			return nil, err
		}
		if len(view.Order) == 0 {
			return nil, core.ErrNoColumns
		}
		return view, nil
	})
}

// handleDownload serves the generated header as an attachment. The body is
// the formatter output exactly, with no trailing newline.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	out, err := s.service.Generate(id)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}

	logging.WithFields(r.Context(), "session_id", id).Info("header downloaded",
		"file", out.FileName,
		"lines", out.Lines,
		"size", humanize.Bytes(uint64(len(out.Content))),
	)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+out.FileName+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(out.Content))
}

// sessionForm parses a step form, applies fn and redirects to the session
// page with suffix appended. A missing session gets the error page. Any
// other failure re-renders the session with the error shown.
func (s *Server) sessionForm(w http.ResponseWriter, r *http.Request, suffix string, fn func(id string) (*core.SessionView, error)) {
	id := chi.URLParam(r, "id")

	if err := r.ParseForm(); err != nil {
		s.respondError(w, r, core.ErrBadRequest, http.StatusBadRequest)
		return
	}

	if _, err := fn(id); err != nil {
		if errors.Is(err, core.ErrSessionNotFound) {
			s.respondError(w, r, err, 0)
			return
		}

		view, verr := s.service.Session(id)
		if verr != nil {
			s.respondError(w, r, verr, 0)
			return
		}
		status := statusFor(err)
		logging.WithFields(r.Context(), "session_id", id).Warn("step rejected", "status", status, "error", err)

		alert := alertFor(core.MapError(err))
		render(w, r, status, templates.SessionPage(templates.SessionParams{Session: view, Alert: &alert}))
		return
	}

	http.Redirect(w, r, sessionPath(id)+suffix, http.StatusSeeOther)
}

func (s *Server) indexParams(alert *templates.Alert) templates.IndexParams {
	return templates.IndexParams{
		MaxSize:   humanize.Bytes(uint64(s.cfg.Upload.MaxFileSize)),
		HeaderRow: s.cfg.Sheet.HeaderRow,
		Alert:     alert,
	}
}

func sessionPath(id string) string {
	return "/s/" + url.PathEscape(id)
}
