// Package session drives one dictation pass end to end: segment the
// transcript, ask the categorization model, lay the resulting units out, and
// stage the synthesized notes for review.
package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mchawla/murmur/internal/board"
	"github.com/mchawla/murmur/internal/categorize"
	"github.com/mchawla/murmur/internal/layout"
	"github.com/mchawla/murmur/internal/preview"
	"github.com/mchawla/murmur/internal/transcript"
)

const defaultCategorizeTimeout = 45 * time.Second

// Config wires the manager's collaborators.
type Config struct {
	Port    categorize.Port
	Engine  *layout.Engine
	Synth   *board.Synthesizer
	Sink    preview.Sink
	Logger  *log.Logger
	Anchor  layout.Point
	Timeout time.Duration
}

// Manager owns the single active dictation session. Starting a new session
// cancels the previous one's outstanding categorization; a call that
// resolves after its session died is discarded, never applied to a batch
// that no longer exists.
type Manager struct {
	cfg Config

	mu     sync.Mutex
	gen    int
	cancel context.CancelFunc
}

// NewManager builds a Manager; Timeout defaults to 45s and Logger to the
// package default.
func NewManager(cfg Config) *Manager {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultCategorizeTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	return &Manager{cfg: cfg}
}

// Start runs the pipeline for one transcript and returns the staged batch.
// An empty or whitespace-only transcript is a no-op: nil batch, nil error,
// and no categorization call. A nil batch with nil error is also returned
// when a newer session superseded this one mid-flight.
func (m *Manager) Start(ctx context.Context, rawTranscript string, keyTerms []string) (*preview.Batch, error) {
	text := strings.TrimSpace(rawTranscript)
	if text == "" {
		m.cfg.Logger.Debug("empty transcript, skipping session")
		return nil, nil
	}

	m.mu.Lock()
	if m.cancel != nil {
		m.cancel()
	}
	m.gen++
	myGen := m.gen
	sessionCtx, cancel := context.WithTimeout(ctx, m.cfg.Timeout)
	m.cancel = cancel
	m.mu.Unlock()
	defer cancel()

	segments := transcript.Segment(text)
	result, err := m.cfg.Port.Categorize(sessionCtx, text, keyTerms)
	if err != nil {
		m.cfg.Logger.Warn("categorization failed, using local segmentation", "err", err)
		result = categorize.Fallback(text)
	}

	if m.stale(myGen) {
		m.cfg.Logger.Debug("discarding stale categorization result", "generation", myGen)
		return nil, nil
	}

	units := buildUnits(text, segments, result)
	strategy := layout.ChooseStrategy(layout.ProfileUnits(units))
	placed := m.cfg.Engine.Layout(units, strategy, m.cfg.Anchor)
	notes := m.cfg.Synth.Synthesize(placed)

	m.cfg.Logger.Info("session staged",
		"segments", len(segments),
		"units", len(units),
		"strategy", strategy,
		"notes", len(notes),
		"degraded", result.Degraded,
	)
	return preview.NewBatch(m.cfg.Sink, notes), nil
}

// Cancel aborts the active session's outstanding categorization, if any.
// Safe to call at any point, including with no session running.
func (m *Manager) Cancel() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.gen++
}

func (m *Manager) stale(gen int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return gen != m.gen
}

// buildUnits maps a categorization result onto content units. A degraded
// result with a usable multi-segment split prefers the segmenter's topics;
// otherwise each note group becomes one unit, with its referenced tasks
// attached and its body drawn from the task texts or the transcript.
func buildUnits(text string, segments []string, result categorize.Result) []layout.ContentUnit {
	if result.Degraded && len(segments) > 1 {
		units := make([]layout.ContentUnit, 0, len(segments))
		for _, segment := range segments {
			units = append(units, layout.ContentUnit{
				Title:     segmentTitle(segment),
				Body:      segment,
				Reasoning: result.Reasoning,
			})
		}
		return units
	}

	units := make([]layout.ContentUnit, 0, len(result.Groups))
	for _, group := range result.Groups {
		unit := layout.ContentUnit{
			Title:     group.Title,
			Category:  group.Category,
			Reasoning: result.Reasoning,
		}
		lines := make([]string, 0, len(group.TaskIndices))
		for _, idx := range group.TaskIndices {
			// The HTTP adapter sanitizes indices, but an injected port may not.
			if idx < 0 || idx >= len(result.Tasks) {
				continue
			}
			task := result.Tasks[idx]
			unit.Tasks = append(unit.Tasks, layout.UnitTask{Text: task.Text, Done: task.Done})
			lines = append(lines, task.Text)
		}
		if len(lines) > 0 {
			unit.Body = strings.Join(lines, "\n")
		} else {
			unit.Body = text
		}
		units = append(units, unit)
	}
	return units
}

func segmentTitle(segment string) string {
	segment = strings.TrimSpace(segment)
	words := strings.Fields(segment)
	if len(words) > 6 {
		words = words[:6]
	}
	title := strings.Join(words, " ")
	return strings.TrimRight(title, ".,;:!?")
}
