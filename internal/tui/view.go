package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/mchawla/murmur/internal/board"
)

func (m *model) View() string {
	switch m.stage {
	case stageCompose:
		return m.viewCompose()
	case stageWorking:
		return m.viewWorking()
	case stageReview:
		return m.viewReview()
	case stageEdit:
		return m.viewEdit()
	default:
		return ""
	}
}

func (m *model) viewCompose() string {
	parts := []string{
		m.heroView(),
		sectionHeaderStyle.Render("Dictation"),
		m.composer.View(),
		helperStyle.Render("Enter: organize • Esc: clear • Ctrl+C: quit"),
	}
	return m.withMessages(parts)
}

func (m *model) viewWorking() string {
	parts := []string{
		m.heroView(),
		fmt.Sprintf("%s %s", m.spinner.View(), helperStyle.Render("Organizing your dictation…")),
	}
	return m.withMessages(parts)
}

func (m *model) viewReview() string {
	parts := []string{m.heroView()}
	if m.batch != nil {
		parts = append(parts, sectionHeaderStyle.Render("Pending Notes"), m.batchListView())
		parts = append(parts, m.statusBarView())
	}
	if m.helpVisible {
		parts = append(parts, m.keyLegendView())
	} else {
		parts = append(parts, helperStyle.Render("a: approve • A: all • space: select • e: edit • d: delete • D: discard • ?: keys"))
	}
	return m.withMessages(parts)
}

func (m *model) viewEdit() string {
	parts := []string{
		m.heroView(),
		sectionHeaderStyle.Render("Edit Note"),
		m.editInput.View(),
		helperStyle.Render("Enter: apply • Esc: cancel"),
	}
	return m.withMessages(parts)
}

func (m *model) batchListView() string {
	items := m.batch.Items()
	wrap := m.wrapWidth(8)
	lines := make([]string, 0, len(items)*3)
	for idx, item := range items {
		marker := "  "
		if idx == m.cursor {
			marker = "▸ "
		}
		check := "[ ]"
		if item.Selected {
			check = "[x]"
		}
		header := fmt.Sprintf("%s%s %s %s", marker, check, noteBadge(item.Note), swatch(item.Note.Color))
		if idx == m.cursor {
			header = currentLineStyle.Render(header)
		}
		lines = append(lines, header)

		body := wordwrap.String(item.Note.Content, wrap)
		lines = append(lines, indentMultiline(body, "      "))
		for _, task := range item.Note.Tasks {
			box := "☐"
			if task.Done {
				box = "☑"
			}
			lines = append(lines, helperStyle.Render(fmt.Sprintf("      %s %s", box, task.Text)))
		}
		if idx < len(items)-1 {
			lines = append(lines, "")
		}
	}
	if len(lines) == 0 {
		return helperStyle.Render("No pending notes.")
	}
	return strings.Join(lines, "\n")
}

func (m *model) statusBarView() string {
	stats := []string{
		fmt.Sprintf("Pending %d", m.batch.Len()),
		fmt.Sprintf("Saved %d", m.batch.CommittedCount()),
	}
	if m.working {
		stats = append(stats, "Working…")
	}
	return statusBarStyle.Render(strings.Join(stats, "  •  "))
}

func (m *model) heroView() string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		titleStyle.Render("murmur"),
		taglineStyle.Render(heroTagline),
	)
}

func (m *model) withMessages(parts []string) string {
	if m.errorMessage != "" {
		parts = append(parts, errorStyle.Render(m.errorMessage))
	}
	if m.infoMessage != "" {
		parts = append(parts, helperStyle.Render(m.infoMessage))
	}
	return joinNonEmpty(parts)
}

type keyHint struct {
	Key         string
	Description string
}

func (m *model) keyLegendView() string {
	hints := []keyHint{
		{"↑/↓", "Move cursor"},
		{"space", "Toggle select"},
		{"*", "Select all"},
		{"a", "Approve note"},
		{"s", "Approve selected"},
		{"A", "Approve all"},
		{"e", "Edit content"},
		{"d", "Delete note"},
		{"D", "Discard batch"},
		{"n", "New dictation"},
		{"q", "Quit"},
	}
	rows := []string{sectionHeaderStyle.Render("Review Keys")}
	const columns = 3
	for i := 0; i < len(hints); i += columns {
		end := i + columns
		if end > len(hints) {
			end = len(hints)
		}
		var cells []string
		for _, hint := range hints[i:end] {
			key := keyStyle.Render(hint.Key)
			desc := keyDescStyle.Render(" " + hint.Description)
			cells = append(cells, lipgloss.JoinHorizontal(lipgloss.Top, key, desc))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return legendBoxStyle.Render(strings.Join(rows, "\n"))
}

func noteBadge(note board.Note) string {
	label := string(note.Type)
	if note.Category != "" {
		label = note.Category
	}
	if note.VoiceSourced {
		label += " ♪"
	}
	return badgeStyle.Render(label)
}

func swatch(color string) string {
	if color == "" {
		return ""
	}
	return lipgloss.NewStyle().Background(lipgloss.Color(color)).Render("  ")
}

func (m *model) wrapWidth(padding int) int {
	width := m.width
	if width <= 0 {
		width = 80
	}
	available := width - padding
	if available < 20 {
		available = 20
	}
	return available
}

func indentMultiline(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}

func joinNonEmpty(parts []string) string {
	filtered := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		filtered = append(filtered, part)
	}
	return strings.Join(filtered, "\n\n")
}

var (
	titleStyle         = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).Underline(true)
	sectionHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	errorStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helperStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	taglineStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#e0def4")).Italic(true)
	statusBarStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#8ecae6")).Padding(0, 1)
	keyStyle           = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#ffd166")).Padding(0, 1)
	keyDescStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#e0def4"))
	legendBoxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#56526e")).Padding(1, 2)
	currentLineStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#8ecae6"))
	badgeStyle         = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("110"))
)
