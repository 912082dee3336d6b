package models

import "time"

// Document is the parse result for one SQL file, the payload of
// updateData messages and document GET responses.
type Document struct {
	Statements []Statement `json:"statements"`
	Raw        string      `json:"raw"`
	Success    bool        `json:"success"`
	Error      string      `json:"error,omitempty"`
}

// DocumentInfo is the listing entry for one workspace file.
type DocumentInfo struct {
	Path       string    `json:"path"`
	SizeBytes  int64     `json:"size_bytes"`
	ModifiedAt time.Time `json:"modified_at"`
}
