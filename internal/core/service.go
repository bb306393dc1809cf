package core

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/JonMunkholm/hdrgen/internal/config"
)

// Service is the entry point for every header generation operation. Web
// handlers and the JSON API both go through it.
type Service struct {
	cfg      *config.Config
	sessions *SessionStore
	limiter  *ParseLimiter
	now      func() time.Time
}

// NewService creates a Service from configuration.
func NewService(cfg *config.Config) *Service {
	return &Service{
		cfg:      cfg,
		sessions: NewSessionStore(cfg.Session.TTL, cfg.Session.MaxSessions),
		limiter:  NewParseLimiter(cfg.Upload.MaxConcurrent, cfg.Upload.MaxWaitTime),
		now:      time.Now,
	}
}

// unzipRatio bounds how far an upload may inflate when its parts are
// decompressed, as a multiple of the upload size limit.
const unzipRatio = 25

// Output is generated header text ready for preview or download.
type Output struct {
	FileName string   `json:"file_name"`
	Content  string   `json:"content"`
	Lines    int      `json:"lines"`
	Columns  []string `json:"columns"`
	Comment  string   `json:"comment,omitempty"`
}

// Load decodes an uploaded workbook and opens a session for it. Zero fields
// in opts fall back to the configured header row and sheet, and the unzip
// limit to unzipRatio times the upload size limit.
func (s *Service) Load(ctx context.Context, fileName string, r io.Reader, opts LoadOptions) (*SessionView, error) {
	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	if opts.HeaderRow <= 0 {
		opts.HeaderRow = s.cfg.Sheet.HeaderRow
	}
	if opts.Sheet == "" {
		opts.Sheet = s.cfg.Sheet.Name
	}
	if opts.MaxUnzipSize <= 0 {
		opts.MaxUnzipSize = s.cfg.Upload.MaxFileSize * unzipRatio
	}

	start := time.Now()
	wb, err := LoadWorkbook(r, opts)
	if err != nil {
		slog.Warn("workbook load failed", "file", fileName, "error", err)
		return nil, err
	}

	sess := newSession(fileName, wb, s.defaultOutputName(), s.now())
	s.sessions.Put(sess)

	slog.Info("workbook loaded",
		"session_id", sess.ID,
		"file", fileName,
		"sheet", wb.Sheet,
		"columns", wb.Table.ColumnCount(),
		"rows", wb.Table.RowCount(),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.view(), nil
}

// Session returns a snapshot of the session.
func (s *Service) Session(id string) (*SessionView, error) {
	return s.withSession(id, func(*Session) error { return nil })
}

// Delete discards a session.
func (s *Service) Delete(id string) error {
	if !s.sessions.Delete(id) {
		return ErrSessionNotFound
	}
	return nil
}

// SelectColumns records the selected columns. When the selected set differs
// from the current order, the order is reset to cols and any manual
// reordering is lost. An empty selection clears the order.
func (s *Service) SelectColumns(id string, cols []string) (*SessionView, error) {
	return s.withSession(id, func(sess *Session) error {
		cols = dedupe(cols)
		var unknown []string
		for _, c := range cols {
			if !sess.Table.Has(c) {
				unknown = append(unknown, c)
			}
		}
		if len(unknown) > 0 {
			return fmt.Errorf("%w: %s", ErrUnknownColumn, strings.Join(unknown, ", "))
		}

		sess.selected = cols
		if sess.order.Sync(cols) {
			slog.Debug("column order reset", "session_id", sess.ID, "order", cols)
		}
		return nil
	})
}

// SelectCursor points the reorder cursor at name.
func (s *Service) SelectCursor(id, name string) (*SessionView, error) {
	return s.withSession(id, func(sess *Session) error {
		if !sess.order.Select(name) {
			return fmt.Errorf("%w: %s", ErrColumnNotSelected, name)
		}
		return nil
	})
}

// MoveUp swaps name with the column before it. Moving the first column is
// a no-op.
func (s *Service) MoveUp(id, name string) (*SessionView, error) {
	return s.withSession(id, func(sess *Session) error {
		if !sess.order.Contains(name) {
			return fmt.Errorf("%w: %s", ErrColumnNotSelected, name)
		}
		sess.order.MoveUp(name)
		return nil
	})
}

// MoveDown swaps name with the column after it. Moving the last column is
// a no-op.
func (s *Service) MoveDown(id, name string) (*SessionView, error) {
	return s.withSession(id, func(sess *Session) error {
		if !sess.order.Contains(name) {
			return fmt.Errorf("%w: %s", ErrColumnNotSelected, name)
		}
		sess.order.MoveDown(name)
		return nil
	})
}

// SetComment sets the comment column. "" or NoCommentColumn unsets it.
func (s *Service) SetComment(id, name string) (*SessionView, error) {
	return s.withSession(id, func(sess *Session) error {
		if name == "" || name == NoCommentColumn {
			sess.comment = ""
			return nil
		}
		if !sess.Table.Has(name) {
			return fmt.Errorf("%w: %s", ErrUnknownColumn, name)
		}
		sess.comment = name
		return nil
	})
}

// SetOutputName sets the suggested download name.
func (s *Service) SetOutputName(id, name string) (*SessionView, error) {
	return s.withSession(id, func(sess *Session) error {
		sess.outputName = SanitizeFileName(name, s.defaultOutputName())
		return nil
	})
}

// Generate renders the session's rows in the current column order.
func (s *Service) Generate(id string) (*Output, error) {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	order := sess.order.Columns()
	if len(order) == 0 {
		return nil, ErrNoColumns
	}

	projected, err := sess.Table.Project(order)
	if err != nil {
		return nil, err
	}

	content, err := FormatHeader(projected, sess.Table, sess.comment)
	if err != nil {
		return nil, err
	}

	slog.Debug("header generated",
		"session_id", sess.ID,
		"columns", order,
		"rows", projected.RowCount(),
		"comment", sess.comment,
	)

	return &Output{
		FileName: sess.outputName,
		Content:  content,
		Lines:    projected.RowCount(),
		Columns:  order,
		Comment:  sess.comment,
	}, nil
}

// SessionCount returns the number of stored sessions.
func (s *Service) SessionCount() int {
	return s.sessions.Len()
}

// ParseStatus reports the workbook parse limiter state.
func (s *Service) ParseStatus() ParseLimiterStatus {
	return s.limiter.Status()
}

// WaitForParses blocks until in-flight workbook reads finish.
func (s *Service) WaitForParses(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

// StartJanitor evicts expired sessions every interval until ctx is done.
func (s *Service) StartJanitor(ctx context.Context, interval time.Duration) {
	slog.Info("session janitor started",
		"interval", interval,
		"ttl", s.cfg.Session.TTL,
		"max_sessions", s.cfg.Session.MaxSessions,
	)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("session janitor stopped")
			return
		case <-ticker.C:
			if n := s.sessions.Sweep(); n > 0 {
				slog.Info("expired sessions removed", "count", n, "remaining", s.sessions.Len())
			}
		}
	}
}

func (s *Service) withSession(id string, fn func(*Session) error) (*SessionView, error) {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if err := fn(sess); err != nil {
		return nil, err
	}
	return sess.view(), nil
}

func (s *Service) defaultOutputName() string {
	if s.cfg.Output.DefaultFileName != "" {
		return s.cfg.Output.DefaultFileName
	}
	return DefaultOutputName
}
