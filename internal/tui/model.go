// Package tui is the terminal review surface: dictate a transcript, watch the
// pipeline stage a batch, then approve, edit or discard the notes one by one.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mchawla/murmur/internal/board"
	"github.com/mchawla/murmur/internal/preview"
	"github.com/mchawla/murmur/internal/session"
	"github.com/mchawla/murmur/internal/transcript"
)

// Config wires the review UI to the rest of the application.
type Config struct {
	Manager *session.Manager
	Store   *board.Store
}

// New returns a tea.Model ready to be mounted into a Program.
func New(config Config) tea.Model {
	composer := textinput.New()
	composer.Placeholder = "Speak your mind, then press Enter…"
	composer.Focus()
	composer.CharLimit = 0
	composer.Width = 70

	editInput := textinput.New()
	editInput.CharLimit = 0
	editInput.Width = 70

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	return &model{
		config:      config,
		stage:       stageCompose,
		composer:    composer,
		editInput:   editInput,
		spinner:     spin,
		jobs:        newJobBus(),
		infoMessage: "Type a dictation transcript to begin.",
	}
}

type stage int

const (
	stageCompose stage = iota
	stageWorking
	stageReview
	stageEdit
)

const heroTagline = "Turn rambling dictation into an organized board."

type model struct {
	config Config
	stage  stage

	composer  textinput.Model
	editInput textinput.Model
	spinner   spinner.Model

	jobs    *jobBus
	batch   *preview.Batch
	cursor  int
	editing string

	working      bool
	width        int
	infoMessage  string
	errorMessage string
	helpVisible  bool
}

type batchStagedMsg struct {
	batch *preview.Batch
	err   error
}

func (m *model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case spinner.TickMsg:
		if m.working {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	case jobSignalMsg:
		if msg.Snapshot.Status == jobStatusRunning {
			m.working = true
			return m, m.spinner.Tick
		}
		return m, nil
	case jobResultEnvelope:
		m.working = false
		if msg.Payload != nil {
			return m.Update(msg.Payload)
		}
		return m, nil
	case batchStagedMsg:
		return m.handleBatchStaged(msg)
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.stage {
		case stageCompose:
			return m.handleComposeKey(msg)
		case stageWorking:
			return m, nil
		case stageReview:
			return m.handleReviewKey(msg)
		case stageEdit:
			return m.handleEditKey(msg)
		}
	}
	return m, nil
}

func (m *model) handleBatchStaged(msg batchStagedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.toCompose(fmt.Sprintf("Could not stage notes: %v", msg.err), true)
		return m, nil
	}
	if msg.batch == nil {
		m.toCompose("Nothing to stage from that dictation.", false)
		return m, nil
	}
	m.batch = msg.batch
	m.cursor = 0
	m.stage = stageReview
	m.composer.Blur()
	m.errorMessage = ""
	m.infoMessage = fmt.Sprintf("%d notes staged. Nothing is saved until you approve.", msg.batch.Len())
	return m, nil
}

func (m *model) handleComposeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		text := strings.TrimSpace(m.composer.Value())
		if text == "" {
			m.errorMessage = "The transcript is empty."
			return m, nil
		}
		m.composer.SetValue("")
		m.stage = stageWorking
		m.errorMessage = ""
		m.infoMessage = "Organizing your dictation…"
		return m, m.jobs.Start(jobKindDictate, m.dictateJob(text))
	case tea.KeyEsc:
		m.composer.SetValue("")
		return m, nil
	}
	var cmd tea.Cmd
	m.composer, cmd = m.composer.Update(msg)
	return m, cmd
}

func (m *model) dictateJob(text string) jobRunner {
	manager := m.config.Manager
	store := m.config.Store
	return func(ctx context.Context) (tea.Msg, error) {
		var keyTerms []string
		if store != nil {
			if bodies, err := store.Bodies(); err == nil {
				keyTerms = transcript.KeyTerms(bodies)
			}
		}
		batch, err := manager.Start(ctx, text, keyTerms)
		if err != nil {
			return batchStagedMsg{err: err}, err
		}
		return batchStagedMsg{batch: batch}, nil
	}
}

func (m *model) handleReviewKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.batch == nil {
		m.toCompose("No batch under review.", false)
		return m, nil
	}
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < m.batch.Len()-1 {
			m.cursor++
		}
	case " ":
		if item, ok := m.currentItem(); ok {
			if err := m.batch.ToggleSelect(item.Note.ID); err != nil {
				m.errorMessage = err.Error()
			}
		}
	case "*":
		m.batch.SelectAll()
		m.infoMessage = "All pending notes selected."
	case "a", "enter":
		if item, ok := m.currentItem(); ok {
			if err := m.batch.ApproveItem(item.Note.ID); err != nil {
				m.errorMessage = err.Error()
			} else {
				m.infoMessage = "Note saved to the board."
			}
		}
	case "s":
		if err := m.batch.ApproveSelected(); err != nil {
			m.errorMessage = err.Error()
		} else {
			m.infoMessage = "Selected notes saved."
		}
	case "A":
		if err := m.batch.ApproveAll(); err != nil {
			m.errorMessage = err.Error()
		} else {
			m.infoMessage = "All notes saved to the board."
		}
	case "e":
		if item, ok := m.currentItem(); ok {
			m.editing = item.Note.ID
			m.editInput.SetValue(item.Note.Content)
			m.editInput.Focus()
			m.stage = stageEdit
			return m, textinput.Blink
		}
	case "d":
		if item, ok := m.currentItem(); ok {
			if err := m.batch.Delete(item.Note.ID); err != nil {
				m.errorMessage = err.Error()
			} else {
				m.infoMessage = "Note dropped from the batch."
			}
		}
	case "D":
		m.batch.Discard()
		m.infoMessage = "Batch discarded."
	case "n":
		m.toCompose("Start a new dictation.", false)
		return m, textinput.Blink
	case "?":
		m.helpVisible = !m.helpVisible
	case "q":
		return m, tea.Quit
	}
	m.clampCursor()
	m.finishIfClosed()
	return m, nil
}

func (m *model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		if err := m.batch.Edit(m.editing, m.editInput.Value()); err != nil {
			m.errorMessage = err.Error()
			return m, nil
		}
		m.closeEditor("Note updated.")
		return m, nil
	case tea.KeyEsc:
		m.closeEditor("Edit canceled.")
		return m, nil
	}
	var cmd tea.Cmd
	m.editInput, cmd = m.editInput.Update(msg)
	return m, cmd
}

func (m *model) closeEditor(message string) {
	m.editing = ""
	m.editInput.SetValue("")
	m.editInput.Blur()
	m.stage = stageReview
	m.errorMessage = ""
	m.infoMessage = message
}

func (m *model) currentItem() (preview.Item, bool) {
	items := m.batch.Items()
	if m.cursor < 0 || m.cursor >= len(items) {
		return preview.Item{}, false
	}
	return items[m.cursor], true
}

func (m *model) clampCursor() {
	if m.batch == nil {
		m.cursor = 0
		return
	}
	if max := m.batch.Len() - 1; m.cursor > max {
		m.cursor = max
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// finishIfClosed returns to the composer once every item has left the batch.
func (m *model) finishIfClosed() {
	if m.batch == nil || m.batch.State() == preview.StatePending {
		return
	}
	committed := m.batch.CommittedCount()
	switch m.batch.State() {
	case preview.StateCommitted:
		m.toCompose(fmt.Sprintf("Batch done: %d notes on the board.", committed), false)
	case preview.StateDiscarded:
		if committed > 0 {
			m.toCompose(fmt.Sprintf("Batch closed: %d saved, the rest discarded.", committed), false)
		} else {
			m.toCompose("Batch discarded, nothing saved.", false)
		}
	}
}

func (m *model) toCompose(message string, isError bool) {
	m.batch = nil
	m.cursor = 0
	m.stage = stageCompose
	m.composer.Focus()
	if isError {
		m.errorMessage = message
		m.infoMessage = "Try dictating again."
	} else {
		m.errorMessage = ""
		m.infoMessage = message
	}
}
