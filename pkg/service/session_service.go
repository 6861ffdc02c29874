package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/codenest/codenest/pkg/event"
	"github.com/codenest/codenest/pkg/models"
)

// SessionService persists the editor's open panels between sessions.
// Documents and explorer positions are stored as path references only;
// cached tree contents are never serialized.
type SessionService struct {
	db      *gorm.DB
	emitter *event.Emitter
	logger  *slog.Logger
}

// NewSessionService opens (or creates) the session database under dataDir
// and migrates the schema.
func NewSessionService(dataDir string, emitter *event.Emitter, logger *slog.Logger) (*SessionService, error) {
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("create data dir %s: %w", dataDir, err)
	}
	db, err := gorm.Open(sqlite.Open(filepath.Join(dataDir, "codenest.db")), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open session database: %w", err)
	}
	svc := &SessionService{db: db, emitter: emitter, logger: logger}
	if err := svc.AutoMigrate(); err != nil {
		return nil, err
	}
	return svc, nil
}

// AutoMigrate creates database tables
func (s *SessionService) AutoMigrate() error {
	return s.db.AutoMigrate(&models.PanelRecord{})
}

// SavePanels replaces the stored session with the given ordered panel list.
func (s *SessionService) SavePanels(ctx context.Context, panels []models.PanelRecord) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.PanelRecord{}).Error; err != nil {
			return err
		}
		for i := range panels {
			panels[i].Position = i
			if strings.TrimSpace(panels[i].ID) == "" {
				panels[i].ID = uuid.NewString()
			}
			if err := tx.Create(&panels[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save panels: %w", err)
	}
	s.emitter.Emit(event.SessionSavedEvent{Panels: len(panels)})
	return nil
}

// LoadPanels returns the stored session in panel order.
func (s *SessionService) LoadPanels(ctx context.Context) ([]models.PanelRecord, error) {
	var panels []models.PanelRecord
	if err := s.db.WithContext(ctx).Order("position asc").Find(&panels).Error; err != nil {
		return nil, fmt.Errorf("load panels: %w", err)
	}
	return panels, nil
}

// UniqueTabTitle returns the tab title for target among panels: the bare
// document name when unique, otherwise the shortest trailing path fragment
// that distinguishes it from the other editors with the same name.
func UniqueTabTitle(target models.PanelRecord, panels []models.PanelRecord) string {
	name := filepath.Base(target.DocumentPath)

	var conflicting []string
	for _, p := range panels {
		if p.Type != models.PanelTypeEditor || p.ID == target.ID {
			continue
		}
		if filepath.Base(p.DocumentPath) == name {
			conflicting = append(conflicting, p.DocumentPath)
		}
	}
	if len(conflicting) == 0 {
		return name
	}
	return shortestDistinctSuffix(target.DocumentPath, conflicting)
}

// shortestDistinctSuffix grows the trailing segment count until the suffix
// of p differs from the same-length suffix of every conflicting path.
func shortestDistinctSuffix(p string, others []string) string {
	segs := strings.Split(strings.Trim(p, "/"), "/")
	for depth := 2; depth <= len(segs); depth++ {
		suffix := strings.Join(segs[len(segs)-depth:], "/")
		distinct := true
		for _, o := range others {
			if trailingSegments(o, depth) == suffix {
				distinct = false
				break
			}
		}
		if distinct {
			return suffix
		}
	}
	return strings.Join(segs, "/")
}

func trailingSegments(p string, depth int) string {
	segs := strings.Split(strings.Trim(p, "/"), "/")
	if depth > len(segs) {
		depth = len(segs)
	}
	return strings.Join(segs[len(segs)-depth:], "/")
}
