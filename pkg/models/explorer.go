package models

import "time"

// FileInfo describes one file or directory for the UI tree.
type FileInfo struct {
	Name     string    `json:"name"`
	Path     string    `json:"path"`
	IsDir    bool      `json:"is_dir"`
	MimeType string    `json:"mime_type"`
	ModTime  time.Time `json:"mod_time"`
}

// FileListResponse is the payload for listing endpoints.
type FileListResponse struct {
	Path    string     `json:"path"`
	Entries []FileInfo `json:"entries"`
}

// Breadcrumb is one segment of a path breadcrumb trail.
type Breadcrumb struct {
	Name string `json:"name"`
	Path string `json:"path"`
}
