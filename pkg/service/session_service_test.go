package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/codenest/codenest/pkg/event"
	"github.com/codenest/codenest/pkg/models"
)

func newTestSessionService(t *testing.T) (*SessionService, *event.Emitter) {
	t.Helper()
	emitter := event.NewEmitter()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc, err := NewSessionService(t.TempDir(), emitter, logger)
	if err != nil {
		t.Fatalf("NewSessionService() error = %v", err)
	}
	return svc, emitter
}

func TestSessionService_SaveLoadRoundTrip(t *testing.T) {
	svc, _ := newTestSessionService(t)

	panels := []models.PanelRecord{
		{Type: models.PanelTypeWelcome},
		{Type: models.PanelTypeEditor, DocumentPath: "/home/me/main.go", Selected: true},
		{Type: models.PanelTypeExplorer, CurrentPath: "/home/me", Pinned: true},
	}
	if err := svc.SavePanels(context.Background(), panels); err != nil {
		t.Fatalf("SavePanels() error = %v", err)
	}

	got, err := svc.LoadPanels(context.Background())
	if err != nil {
		t.Fatalf("LoadPanels() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len(got) = %d, want 3", len(got))
	}
	for i, p := range got {
		if p.Position != i {
			t.Fatalf("got[%d].Position = %d, want %d", i, p.Position, i)
		}
		if p.ID == "" {
			t.Fatalf("got[%d].ID is empty", i)
		}
	}
	if got[1].Type != models.PanelTypeEditor || got[1].DocumentPath != "/home/me/main.go" || !got[1].Selected {
		t.Fatalf("unexpected editor panel: %+v", got[1])
	}
	if got[2].CurrentPath != "/home/me" || !got[2].Pinned {
		t.Fatalf("unexpected explorer panel: %+v", got[2])
	}
}

func TestSessionService_SaveReplacesPreviousSession(t *testing.T) {
	svc, _ := newTestSessionService(t)

	first := []models.PanelRecord{
		{Type: models.PanelTypeEditor, DocumentPath: "/a.go"},
		{Type: models.PanelTypeEditor, DocumentPath: "/b.go"},
	}
	if err := svc.SavePanels(context.Background(), first); err != nil {
		t.Fatalf("SavePanels() error = %v", err)
	}

	second := []models.PanelRecord{{Type: models.PanelTypeWebView, FilePath: "/index.html"}}
	if err := svc.SavePanels(context.Background(), second); err != nil {
		t.Fatalf("SavePanels() error = %v", err)
	}

	got, err := svc.LoadPanels(context.Background())
	if err != nil {
		t.Fatalf("LoadPanels() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len(got) = %d, want 1", len(got))
	}
	if got[0].Type != models.PanelTypeWebView || got[0].FilePath != "/index.html" {
		t.Fatalf("unexpected panel: %+v", got[0])
	}
}

func TestSessionService_SaveEmitsEvent(t *testing.T) {
	svc, emitter := newTestSessionService(t)

	var saved []event.SessionSavedEvent
	emitter.On(event.SessionSaved, func(ev event.Event) {
		saved = append(saved, ev.(event.SessionSavedEvent))
	})

	if err := svc.SavePanels(context.Background(), []models.PanelRecord{{Type: models.PanelTypeWelcome}}); err != nil {
		t.Fatalf("SavePanels() error = %v", err)
	}
	if len(saved) != 1 || saved[0].Panels != 1 {
		t.Fatalf("saved = %+v, want one event with Panels=1", saved)
	}
}

func TestSessionService_LoadEmptySession(t *testing.T) {
	svc, _ := newTestSessionService(t)

	got, err := svc.LoadPanels(context.Background())
	if err != nil {
		t.Fatalf("LoadPanels() error = %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("len(got) = %d, want 0", len(got))
	}
}

func TestUniqueTabTitle(t *testing.T) {
	panels := []models.PanelRecord{
		{ID: "1", Type: models.PanelTypeEditor, DocumentPath: "/proj/app/main.go"},
		{ID: "2", Type: models.PanelTypeEditor, DocumentPath: "/proj/tool/main.go"},
		{ID: "3", Type: models.PanelTypeEditor, DocumentPath: "/proj/app/util.go"},
		{ID: "4", Type: models.PanelTypeExplorer, CurrentPath: "/proj"},
	}

	tests := []struct {
		name   string
		target models.PanelRecord
		want   string
	}{
		{"unique name stays bare", panels[2], "util.go"},
		{"conflicting name grows suffix", panels[0], "app/main.go"},
		{"other conflicting side", panels[1], "tool/main.go"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UniqueTabTitle(tt.target, panels); got != tt.want {
				t.Fatalf("UniqueTabTitle() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUniqueTabTitle_DeepConflict(t *testing.T) {
	panels := []models.PanelRecord{
		{ID: "1", Type: models.PanelTypeEditor, DocumentPath: "/a/x/pkg/main.go"},
		{ID: "2", Type: models.PanelTypeEditor, DocumentPath: "/b/x/pkg/main.go"},
	}
	if got := UniqueTabTitle(panels[0], panels); got != "a/x/pkg/main.go" {
		t.Fatalf("UniqueTabTitle() = %q, want %q", got, "a/x/pkg/main.go")
	}
}

func TestUniqueTabTitle_NonEditorPanelsIgnored(t *testing.T) {
	panels := []models.PanelRecord{
		{ID: "1", Type: models.PanelTypeEditor, DocumentPath: "/proj/main.go"},
		{ID: "2", Type: models.PanelTypeWebView, FilePath: "/other/main.go"},
	}
	if got := UniqueTabTitle(panels[0], panels); got != "main.go" {
		t.Fatalf("UniqueTabTitle() = %q, want %q", got, "main.go")
	}
}
