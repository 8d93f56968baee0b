package models

import "time"

// NoteView represents a note for template rendering
type NoteView struct {
	ID        string
	Title     string
	Tags      []string
	Pinned    bool
	CreatedOn time.Time
	UpdatedOn time.Time
	// BodyHTML is rendered markdown and is written unescaped.
	BodyHTML string
}
