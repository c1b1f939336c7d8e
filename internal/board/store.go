package board

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// Store is a flat JSON-file note collection. It stands in for the canvas
// application's persistent store: committed notes are appended, organize
// rewrites positions in place.
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore returns a store backed by the given file path. The file is
// created on first write.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path reports the backing file location.
func (s *Store) Path() string {
	return s.path
}

// Load returns all stored notes. A missing file is an empty collection.
func (s *Store) Load() ([]Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) load() ([]Note, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var notes []Note
	if err := json.Unmarshal(data, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

// Append adds notes to the collection, creating the file if necessary.
func (s *Store) Append(newNotes ...Note) error {
	if len(newNotes) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.load()
	if err != nil {
		return err
	}
	return s.write(append(existing, newNotes...))
}

// CommitNote persists a single approved note. This is the commit side of the
// preview boundary: one note at a time, no batch atomicity.
func (s *Store) CommitNote(note Note) error {
	return s.Append(note)
}

// Replace rewrites the whole collection, used by organize to update
// positions.
func (s *Store) Replace(notes []Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(notes)
}

// Bodies lists every note's content, the corpus key terms are derived from.
func (s *Store) Bodies() ([]string, error) {
	notes, err := s.Load()
	if err != nil {
		return nil, err
	}
	bodies := make([]string, 0, len(notes))
	for _, note := range notes {
		bodies = append(bodies, note.Content)
	}
	return bodies, nil
}

func (s *Store) write(notes []Note) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(notes, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}
