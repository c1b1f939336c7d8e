// Package board defines the canonical note and task records the rest of the
// application consumes, and a JSON-file collection to hold them.
package board

import "time"

// NoteType discriminates the note record variants on the canvas.
type NoteType string

const (
	NoteSticky   NoteType = "sticky"
	NoteSection  NoteType = "section"
	NoteTaskList NoteType = "tasklist"
)

// Position is a canvas coordinate.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Task is a persistent checklist entry inside a note.
type Task struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	Done     bool   `json:"done"`
	Category string `json:"category,omitempty"`
}

// Note is the canonical record handed to the note collection. Category,
// DueDate and Priority are optional extensions; the core fields are always
// set by the synthesizer.
type Note struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Position  Position  `json:"position"`
	Color     string    `json:"color"`
	Type      NoteType  `json:"type"`
	Tasks     []Task    `json:"tasks,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Category string     `json:"category,omitempty"`
	DueDate  *time.Time `json:"dueDate,omitempty"`
	Priority string     `json:"priority,omitempty"`

	// VoiceSourced marks notes born from dictation so the UI can badge them.
	VoiceSourced bool `json:"isVoiceNote,omitempty"`
}
