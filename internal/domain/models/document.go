package models

import (
	"time"
)

// Document is one indexed file. There is at most one record per absolute
// path; a record exists only if the file was a supported type and extraction
// produced non-empty content at the last successful scan.
type Document struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Path         string    `json:"path"`          // absolute; upsert key
	RelativePath string    `json:"relative_path"` // relative to the document root
	FileType     string    `json:"file_type"`     // lowercased extension, e.g. ".pdf"
	Size         int64     `json:"size"`
	Content      string    `json:"content,omitempty"`
	Preview      string    `json:"preview,omitempty"` // data URI, bounded length
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	IndexedAt    time.Time `json:"indexed_at"` // advances on every successful rescan
}
