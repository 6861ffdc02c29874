package models

import "time"

// Panel type names, mirrored by the UI.
const (
	PanelTypeWelcome  = "welcome"
	PanelTypeEditor   = "editor"
	PanelTypeExplorer = "explorer"
	PanelTypeWebView  = "webview"
)

// PanelRecord persists one open editor panel between sessions. Only the
// identity of what a panel shows is stored (a path reference), never cached
// tree contents.
type PanelRecord struct {
	ID       string `json:"id" gorm:"primaryKey;size:36"`
	Position int    `json:"position" gorm:"index;not null"`
	Type     string `json:"type" gorm:"size:20;not null"`
	Selected bool   `json:"selected"`
	Pinned   bool   `json:"pinned"`

	// DocumentPath is set for editor panels (path or doc URI).
	DocumentPath string `json:"document_path,omitempty" gorm:"size:4096"`
	// CurrentPath is set for explorer panels.
	CurrentPath string `json:"current_path,omitempty" gorm:"size:4096"`
	// WebView options.
	FilePath    string `json:"file_path,omitempty" gorm:"size:4096"`
	SupportZoom bool   `json:"support_zoom,omitempty"`
	DesktopMode bool   `json:"desktop_mode,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (PanelRecord) TableName() string {
	return "panels"
}
