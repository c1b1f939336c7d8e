package board

import (
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mchawla/murmur/internal/layout"
)

// Rand supplies the pseudo-random fallback for palette picks. A single
// capability keeps it trivial to seed in tests.
type Rand interface {
	Next() int
}

type seededRand struct {
	r *rand.Rand
}

// NewSeededRand returns a deterministic Rand for a given seed.
func NewSeededRand(seed int64) Rand {
	return &seededRand{r: rand.New(rand.NewSource(seed))}
}

func (s *seededRand) Next() int {
	return s.r.Int()
}

// palette is the fixed set of sticky colors used when no category matches.
var palette = []string{
	"#ffe066", // yellow
	"#74c0fc", // blue
	"#b2f2bb", // green
	"#fcc2d7", // pink
	"#d0bfff", // violet
	"#ffd8a8", // orange
}

// categoryColors maps category keywords to colors, checked in order so the
// first match wins deterministically.
var categoryColors = []struct {
	keyword string
	color   string
}{
	{"work", "#74c0fc"},
	{"project", "#d0bfff"},
	{"health", "#fcc2d7"},
	{"personal", "#b2f2bb"},
	{"errand", "#ffd8a8"},
	{"shopping", "#ffd8a8"},
	{"idea", "#ffe066"},
}

// Synthesizer converts placed units into canonical note records.
type Synthesizer struct {
	rand Rand
	now  func() time.Time
}

// NewSynthesizer builds a Synthesizer; a nil Rand gets a time-seeded one.
func NewSynthesizer(r Rand) *Synthesizer {
	if r == nil {
		r = NewSeededRand(time.Now().UnixNano())
	}
	return &Synthesizer{rand: r, now: time.Now}
}

// Synthesize maps every placed unit to a Note with a fresh id, a color, and
// current timestamps, and marks it voice-sourced. Section sub-items become
// section notes at their child positions. Pure: nothing is written anywhere.
func (s *Synthesizer) Synthesize(placed []layout.PlacedUnit) []Note {
	return s.synthesize(placed, true)
}

// SynthesizeDocument is Synthesize for imported documents, which do not carry
// the voice badge.
func (s *Synthesizer) SynthesizeDocument(placed []layout.PlacedUnit) []Note {
	return s.synthesize(placed, false)
}

func (s *Synthesizer) synthesize(placed []layout.PlacedUnit, voiceSourced bool) []Note {
	notes := make([]Note, 0, len(placed))
	for _, unit := range placed {
		now := s.now()
		note := Note{
			ID:           uuid.NewString(),
			Content:      noteContent(unit.Title, unit.Body),
			Position:     Position{X: unit.Position.X, Y: unit.Position.Y},
			Color:        s.colorFor(unit.Category),
			Type:         NoteSticky,
			CreatedAt:    now,
			UpdatedAt:    now,
			Category:     unit.Category,
			VoiceSourced: voiceSourced,
		}
		if len(unit.Tasks) > 0 {
			note.Type = NoteTaskList
			note.Tasks = make([]Task, 0, len(unit.Tasks))
			for _, task := range unit.Tasks {
				note.Tasks = append(note.Tasks, Task{
					ID:       uuid.NewString(),
					Text:     task.Text,
					Done:     task.Done,
					Category: unit.Category,
				})
			}
		}
		notes = append(notes, note)

		for i, section := range unit.Sections {
			if i >= len(unit.ChildPositions) {
				break
			}
			child := unit.ChildPositions[i]
			notes = append(notes, Note{
				ID:           uuid.NewString(),
				Content:      section,
				Position:     Position{X: child.X, Y: child.Y},
				Color:        note.Color,
				Type:         NoteSection,
				CreatedAt:    now,
				UpdatedAt:    now,
				Category:     unit.Category,
				VoiceSourced: voiceSourced,
			})
		}
	}
	return notes
}

func (s *Synthesizer) colorFor(category string) string {
	lower := strings.ToLower(category)
	for _, entry := range categoryColors {
		if strings.Contains(lower, entry.keyword) {
			return entry.color
		}
	}
	return palette[s.rand.Next()%len(palette)]
}

func noteContent(title, body string) string {
	title = strings.TrimSpace(title)
	body = strings.TrimSpace(body)
	switch {
	case title == "":
		return body
	case body == "":
		return title
	default:
		return title + "\n\n" + body
	}
}
