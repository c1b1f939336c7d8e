package categorize

import (
	"encoding/json"
	"fmt"
	"strings"
)

func buildCategorizationPrompt(transcript string, keyTerms []string) string {
	var b strings.Builder
	b.WriteString("Organize this spoken transcript into tasks and note groups.\n")
	b.WriteString("Identify actionable items as tasks; group related content under short titled notes with a one-or-two-word category (eg. Work, Health, Errands, Project Management).\n")
	b.WriteString("Each group's taskIndices reference positions in the tasks array.\n")
	b.WriteString(`Return ONLY JSON matching {"tasks":[{"text":"","done":false,"category":""}],"noteGroups":[{"title":"","category":"","taskIndices":[0]}],"reasoning":""}.` + "\n\n")

	if len(keyTerms) > 0 {
		b.WriteString("Vocabulary the speaker commonly uses (prefer these spellings):\n")
		for _, term := range keyTerms {
			b.WriteString("- ")
			b.WriteString(term)
			b.WriteRune('\n')
		}
		b.WriteRune('\n')
	}

	b.WriteString("Transcript:\n")
	b.WriteString(transcript)
	return b.String()
}

type wirePayload struct {
	Tasks      []TaskItem  `json:"tasks"`
	NoteGroups []NoteGroup `json:"noteGroups"`
	// Some model replies use the preview-era field name instead.
	Suggestions []NoteGroup `json:"suggestions"`
	Reasoning   string      `json:"reasoning"`
}

// parseCategorization accepts the raw model reply and extracts a sanitized
// Result. Models wrap JSON in prose or markdown fences often enough that we
// try the trimmed reply first, then the outermost brace span.
func parseCategorization(raw string) (Result, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Result{}, fmt.Errorf("empty categorization response")
	}

	candidates := []string{raw}
	if start := strings.Index(raw, "{"); start >= 0 {
		if end := strings.LastIndex(raw, "}"); end > start {
			candidates = append(candidates, raw[start:end+1])
		}
	}

	for _, candidate := range candidates {
		var payload wirePayload
		if err := json.Unmarshal([]byte(candidate), &payload); err != nil {
			continue
		}
		groups := payload.NoteGroups
		if len(groups) == 0 {
			groups = payload.Suggestions
		}
		tasks, remap := sanitizeTasks(payload.Tasks)
		result := Result{
			Tasks:     tasks,
			Groups:    remapGroupIndices(sanitizeGroups(groups), remap),
			Reasoning: strings.TrimSpace(payload.Reasoning),
		}
		if len(result.Groups) == 0 {
			continue
		}
		if result.Reasoning == "" {
			result.Reasoning = "model returned no reasoning"
		}
		return sanitizeResult(result), nil
	}
	return Result{}, fmt.Errorf("unable to parse categorization payload")
}

// sanitizeTasks trims task text and drops blank entries. The second return
// maps original indices to cleaned ones (-1 for dropped) so group references
// survive the compaction.
func sanitizeTasks(tasks []TaskItem) ([]TaskItem, []int) {
	cleaned := make([]TaskItem, 0, len(tasks))
	remap := make([]int, len(tasks))
	for i, task := range tasks {
		task.Text = strings.TrimSpace(task.Text)
		task.Category = strings.TrimSpace(task.Category)
		if task.Text == "" {
			remap[i] = -1
			continue
		}
		remap[i] = len(cleaned)
		cleaned = append(cleaned, task)
	}
	return cleaned, remap
}

func remapGroupIndices(groups []NoteGroup, remap []int) []NoteGroup {
	for g, group := range groups {
		mapped := make([]int, 0, len(group.TaskIndices))
		for _, idx := range group.TaskIndices {
			if idx >= 0 && idx < len(remap) && remap[idx] >= 0 {
				mapped = append(mapped, remap[idx])
			}
		}
		groups[g].TaskIndices = mapped
	}
	return groups
}

func sanitizeGroups(groups []NoteGroup) []NoteGroup {
	cleaned := make([]NoteGroup, 0, len(groups))
	for _, group := range groups {
		group.Title = strings.TrimSpace(group.Title)
		group.Category = strings.TrimSpace(group.Category)
		if group.Title == "" {
			continue
		}
		if group.Category == "" {
			group.Category = fallbackCategory
		}
		if group.TaskIndices == nil {
			group.TaskIndices = []int{}
		}
		cleaned = append(cleaned, group)
	}
	return cleaned
}
