package model

import "time"

// Document is a markdown file living directly inside a category directory of the
// library root. Its absolute path is the stable identity used across the stores
// and the tree.
type Document struct {
	Path     string    `json:"path"`
	Name     string    `json:"name"`
	Category string    `json:"category"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
}

// StatusRecord is the persisted per-document read state. It is keyed by library
// path and stored independently of the filesystem: a record may outlive its
// document (stale entries are tolerated, see the tree reconciler).
type StatusRecord struct {
	LibraryPath  string     `json:"libraryPath"`
	OriginalPath string     `json:"originalPath,omitempty"`
	Category     string     `json:"category"`
	Title        string     `json:"title,omitempty"`
	Read         bool       `json:"read"`
	DateAdded    time.Time  `json:"dateAdded"`
	LastOpened   *time.Time `json:"lastOpened,omitempty"`
	Tags         []string   `json:"tags,omitempty"`
	Notes        string     `json:"notes,omitempty"`
}

type LibraryStats struct {
	Documents  int     `json:"documents"`
	Categories int     `json:"categories"`
	TotalBytes int64   `json:"totalBytes"`
	TotalMB    float64 `json:"totalMb"`
}

type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

type StatusStats struct {
	Total      int             `json:"total"`
	Read       int             `json:"read"`
	ByCategory []CategoryCount `json:"byCategory"`
}
