package core

import (
	"bytes"
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/JonMunkholm/hdrgen/internal/config"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(config.Defaults())
}

func loadGPIO(t *testing.T, svc *Service) *SessionView {
	t.Helper()
	view, err := svc.Load(context.Background(), "pins.xlsx", buildWorkbook(t, "Sheet1", gpioRows()), LoadOptions{})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return view
}

func TestService_Load(t *testing.T) {
	svc := newTestService(t)
	view := loadGPIO(t, svc)

	if view.ID == "" {
		t.Fatal("session ID should be set")
	}
	if view.FileName != "pins.xlsx" {
		t.Errorf("FileName = %q, want pins.xlsx", view.FileName)
	}
	if view.RowCount != 3 {
		t.Errorf("RowCount = %d, want 3", view.RowCount)
	}
	if view.OutputName != "output_gpio.h" {
		t.Errorf("OutputName = %q, want output_gpio.h", view.OutputName)
	}
	if len(view.Order) != 0 || view.Cursor != "" {
		t.Errorf("new session should have empty order, got %v cursor %q", view.Order, view.Cursor)
	}
	if svc.SessionCount() != 1 {
		t.Errorf("SessionCount() = %d, want 1", svc.SessionCount())
	}
}

func TestService_LoadFailureCreatesNoSession(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Load(context.Background(), "notes.txt", bytes.NewBufferString("hello"), LoadOptions{})
	if !IsLoadError(err) {
		t.Fatalf("Load() error = %v, want *LoadError", err)
	}
	if svc.SessionCount() != 0 {
		t.Errorf("SessionCount() = %d, want 0", svc.SessionCount())
	}
	if svc.ParseStatus().Active != 0 {
		t.Error("parse slot should be released after failure")
	}
}

func TestService_LoadCapsUnzipSize(t *testing.T) {
	cfg := config.Defaults()
	cfg.Upload.MaxFileSize = 8 // inflated parts may reach 200 bytes
	svc := NewService(cfg)

	_, err := svc.Load(context.Background(), "pins.xlsx", buildWorkbook(t, "Sheet1", gpioRows()), LoadOptions{})
	if !IsLoadError(err) {
		t.Fatalf("Load() error = %v, want *LoadError", err)
	}
	if !strings.Contains(err.Error(), "unzip size exceeds the 200 bytes limit") {
		t.Errorf("error = %q, want the unzip limit named", err.Error())
	}
	if svc.SessionCount() != 0 {
		t.Errorf("SessionCount() = %d, want 0", svc.SessionCount())
	}
}

func TestService_SelectMoveGenerate(t *testing.T) {
	svc := newTestService(t)
	id := loadGPIO(t, svc).ID

	view, err := svc.SelectColumns(id, []string{"Pin", "Dir", "Num"})
	if err != nil {
		t.Fatalf("SelectColumns() error = %v", err)
	}
	if !reflect.DeepEqual(view.Order, []string{"Pin", "Dir", "Num"}) || view.Cursor != "Pin" {
		t.Fatalf("order = %v cursor = %q", view.Order, view.Cursor)
	}
	if view.CanMoveUp || !view.CanMoveDown {
		t.Errorf("cursor on first column: up=%v down=%v", view.CanMoveUp, view.CanMoveDown)
	}

	view, err = svc.MoveUp(id, "Num")
	if err != nil {
		t.Fatalf("MoveUp() error = %v", err)
	}
	if !reflect.DeepEqual(view.Order, []string{"Pin", "Num", "Dir"}) || view.Cursor != "Num" {
		t.Fatalf("after MoveUp order = %v cursor = %q", view.Order, view.Cursor)
	}

	// same set in a different order keeps the manual ordering
	view, err = svc.SelectColumns(id, []string{"Num", "Dir", "Pin"})
	if err != nil {
		t.Fatalf("SelectColumns() error = %v", err)
	}
	if !reflect.DeepEqual(view.Order, []string{"Pin", "Num", "Dir"}) {
		t.Errorf("order = %v, want manual order kept", view.Order)
	}

	if _, err := svc.SetComment(id, "Description"); err != nil {
		t.Fatalf("SetComment() error = %v", err)
	}
	if _, err := svc.SetOutputName(id, "../pins.h"); err != nil {
		t.Fatalf("SetOutputName() error = %v", err)
	}

	out, err := svc.Generate(id)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if out.FileName != "pins.h" {
		t.Errorf("FileName = %q, want pins.h", out.FileName)
	}
	if out.Lines != 3 {
		t.Errorf("Lines = %d, want 3", out.Lines)
	}
	first := strings.Split(out.Content, "\n")[0]
	if first != "{PA0 , {1  , OUT}}, // enable pin" {
		t.Errorf("first line = %q", first)
	}
}

func TestService_SelectionChangeResetsOrder(t *testing.T) {
	svc := newTestService(t)
	id := loadGPIO(t, svc).ID

	svc.SelectColumns(id, []string{"Pin", "Dir"})
	svc.MoveDown(id, "Pin")

	view, err := svc.SelectColumns(id, []string{"Pin", "Dir", "Num"})
	if err != nil {
		t.Fatalf("SelectColumns() error = %v", err)
	}
	if !reflect.DeepEqual(view.Order, []string{"Pin", "Dir", "Num"}) {
		t.Errorf("order = %v, want reset to selection", view.Order)
	}
	if view.Cursor != "Pin" {
		t.Errorf("cursor = %q, want Pin", view.Cursor)
	}
}

func TestService_Errors(t *testing.T) {
	svc := newTestService(t)
	id := loadGPIO(t, svc).ID

	if _, err := svc.Generate(id); !errors.Is(err, ErrNoColumns) {
		t.Errorf("Generate() with no columns = %v, want ErrNoColumns", err)
	}
	if _, err := svc.SelectColumns(id, []string{"Pin", "Bogus"}); !errors.Is(err, ErrUnknownColumn) {
		t.Errorf("SelectColumns(unknown) = %v, want ErrUnknownColumn", err)
	}

	svc.SelectColumns(id, []string{"Pin"})
	if _, err := svc.MoveUp(id, "Dir"); !errors.Is(err, ErrColumnNotSelected) {
		t.Errorf("MoveUp(unselected) = %v, want ErrColumnNotSelected", err)
	}
	if _, err := svc.SelectCursor(id, "Dir"); !errors.Is(err, ErrColumnNotSelected) {
		t.Errorf("SelectCursor(unselected) = %v, want ErrColumnNotSelected", err)
	}
	if _, err := svc.SetComment(id, "Bogus"); !errors.Is(err, ErrUnknownColumn) {
		t.Errorf("SetComment(unknown) = %v, want ErrUnknownColumn", err)
	}
	if _, err := svc.Session("missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Session(missing) = %v, want ErrSessionNotFound", err)
	}

	// moving the only column is a no-op, not an error
	view, err := svc.MoveDown(id, "Pin")
	if err != nil {
		t.Fatalf("MoveDown(only) error = %v", err)
	}
	if !reflect.DeepEqual(view.Order, []string{"Pin"}) {
		t.Errorf("order = %v", view.Order)
	}
}

func TestService_CommentNoneAndEmptySelection(t *testing.T) {
	svc := newTestService(t)
	id := loadGPIO(t, svc).ID

	svc.SetComment(id, "Description")
	view, err := svc.SetComment(id, NoCommentColumn)
	if err != nil {
		t.Fatalf("SetComment(None) error = %v", err)
	}
	if view.Comment != "" {
		t.Errorf("Comment = %q, want unset", view.Comment)
	}

	svc.SelectColumns(id, []string{"Pin"})
	view, err = svc.SelectColumns(id, nil)
	if err != nil {
		t.Fatalf("SelectColumns(nil) error = %v", err)
	}
	if len(view.Order) != 0 {
		t.Errorf("order = %v, want empty", view.Order)
	}
}

func TestService_Delete(t *testing.T) {
	svc := newTestService(t)
	id := loadGPIO(t, svc).ID

	if err := svc.Delete(id); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := svc.Delete(id); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("second Delete() = %v, want ErrSessionNotFound", err)
	}
}

func TestSessionStore_Expiry(t *testing.T) {
	store := NewSessionStore(time.Minute, 10)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	tbl := mustTable(t, []string{"A"}, []string{"1"})
	s := newSession("a.xlsx", &Workbook{Sheet: "Sheet1", Table: tbl}, DefaultOutputName, now)
	store.Put(s)

	now = now.Add(30 * time.Second)
	if _, err := store.Get(s.ID); err != nil {
		t.Fatalf("Get() within ttl error = %v", err)
	}

	// access refreshed the session, so 45s later it is still alive
	now = now.Add(45 * time.Second)
	if n := store.Sweep(); n != 0 {
		t.Errorf("Sweep() removed %d, want 0", n)
	}

	now = now.Add(2 * time.Minute)
	if n := store.Sweep(); n != 1 {
		t.Errorf("Sweep() removed %d, want 1", n)
	}
	if _, err := store.Get(s.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Get() after sweep = %v, want ErrSessionNotFound", err)
	}
}

func TestSessionStore_EvictsOldestWhenFull(t *testing.T) {
	store := NewSessionStore(time.Hour, 2)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	tbl := mustTable(t, []string{"A"}, []string{"1"})
	wb := &Workbook{Sheet: "Sheet1", Table: tbl}

	first := newSession("1.xlsx", wb, DefaultOutputName, now)
	second := newSession("2.xlsx", wb, DefaultOutputName, now.Add(time.Second))
	third := newSession("3.xlsx", wb, DefaultOutputName, now.Add(2*time.Second))

	store.Put(first)
	store.Put(second)
	store.Put(third)

	if store.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", store.Len())
	}
	if _, err := store.Get(first.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("oldest session should be evicted, Get() = %v", err)
	}
}

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"pins.h", "pins.h"},
		{"  pins.h  ", "pins.h"},
		{"../../etc/passwd", "passwd"},
		{`C:\temp\board.h`, "board.h"},
		{`evil".h`, "evil.h"},
		{"", DefaultOutputName},
		{"..", DefaultOutputName},
		{"/", DefaultOutputName},
	}

	for _, tt := range tests {
		if got := SanitizeFileName(tt.in, DefaultOutputName); got != tt.want {
			t.Errorf("SanitizeFileName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
