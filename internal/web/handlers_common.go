// Package web provides HTTP handlers for the header generator.
// This file contains shared utilities and helper functions used across handlers.
package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/JonMunkholm/hdrgen/internal/core"
	"github.com/JonMunkholm/hdrgen/internal/logging"
	"github.com/a-h/templ"
	"github.com/dustin/go-humanize"
)

// maxJSONBody caps API request bodies; they only carry column names.
const maxJSONBody = 1 << 20

// upload is a workbook file taken from a multipart request.
type upload struct {
	file     multipart.File
	fileName string
	opts     core.LoadOptions
}

// readUpload extracts the "file" part plus optional "sheet" and
// "header_row" fields. The caller closes upload.file.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (*upload, error) {
	maxSize := s.cfg.Upload.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
			return nil, fmt.Errorf("%w: limit is %s", core.ErrFileTooLarge, humanize.Bytes(uint64(maxSize)))
		}
		if errors.Is(err, http.ErrNotMultipart) {
			return nil, core.ErrNoFile
		}
		return nil, fmt.Errorf("%w: %v", core.ErrBadRequest, err)
	}

	opts, err := parseLoadOptions(r)
	if err != nil {
		return nil, err
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, core.ErrNoFile
		}
		return nil, fmt.Errorf("%w: %v", core.ErrBadRequest, err)
	}

	return &upload{
		file:     file,
		fileName: core.SanitizeFileName(header.Filename, "workbook.xlsx"),
		opts:     opts,
	}, nil
}

// parseLoadOptions reads the per-upload sheet and header row overrides.
func parseLoadOptions(r *http.Request) (core.LoadOptions, error) {
	opts := core.LoadOptions{Sheet: strings.TrimSpace(r.FormValue("sheet"))}

	if v := strings.TrimSpace(r.FormValue("header_row")); v != "" {
		row, err := strconv.Atoi(v)
		if err != nil || row < 1 {
			return opts, fmt.Errorf("%w: header_row must be a positive integer", core.ErrBadRequest)
		}
		opts.HeaderRow = row
	}
	return opts, nil
}

// load reads an upload and opens a session for it.
func (s *Server) load(w http.ResponseWriter, r *http.Request) (*core.SessionView, error) {
	up, err := s.readUpload(w, r)
	if err != nil {
		return nil, err
	}
	defer up.file.Close()

	view, err := s.service.Load(r.Context(), up.fileName, up.file, up.opts)
	if err != nil {
		return nil, err
	}

	logging.WithFields(r.Context(), "session_id", view.ID).Info("workbook uploaded",
		"file", up.fileName,
		"columns", len(view.Columns),
		"rows", view.RowCount,
	)
	return view, nil
}

// move applies a reorder in the given direction.
func (s *Server) move(id, column, direction string) (*core.SessionView, error) {
	switch direction {
	case "up":
		return s.service.MoveUp(id, column)
	case "down":
		return s.service.MoveDown(id, column)
	default:
		return nil, fmt.Errorf("%w: direction must be up or down", core.ErrBadRequest)
	}
}

// decodeJSON reads a JSON request body into v. An empty body leaves v untouched.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %v", core.ErrBadRequest, err)
	}
	return nil
}

// writeJSON encodes v as JSON and writes it to w.
// Logs encoding errors since headers are already sent.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.FromContext(r.Context()).Error("json encode error", "error", err)
	}
}

// render writes an HTML component with the given status.
func render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := c.Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render page", "error", err)
	}
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
