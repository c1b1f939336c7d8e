// Package categorize sends a dictation transcript to an external model and
// turns the reply into titled, categorized task groups. Failures on this
// boundary are cheap: there are no retries, and every failure path collapses
// to a deterministic single-group fallback.
package categorize

import "context"

// FallbackReasoning annotates results produced without model help.
const FallbackReasoning = "no categorization available"

const (
	fallbackTitle    = "Voice note"
	fallbackCategory = "Uncategorized"
)

// TaskItem is one actionable entry extracted from the transcript.
type TaskItem struct {
	Text     string `json:"text"`
	Done     bool   `json:"done"`
	Category string `json:"category"`
}

// NoteGroup titles a slice of the transcript and references tasks by index
// into the same result's task list. Indices never cross results.
type NoteGroup struct {
	Title       string `json:"title"`
	Category    string `json:"category"`
	TaskIndices []int  `json:"taskIndices"`
}

// Result is one self-contained categorization response.
type Result struct {
	Tasks     []TaskItem
	Groups    []NoteGroup
	Reasoning string

	// Degraded marks results produced by the local fallback rather than the
	// model, so callers can prefer their own segmentation instead.
	Degraded bool
}

// Port abstracts the external categorization capability so deployments can
// swap the transport and tests can fake it.
type Port interface {
	Categorize(ctx context.Context, transcript string, keyTerms []string) (Result, error)
}

// Fallback builds the deterministic degraded result: a single group spanning
// the whole transcript with zero tasks.
func Fallback(transcript string) Result {
	return Result{
		Tasks: []TaskItem{},
		Groups: []NoteGroup{{
			Title:       fallbackTitle,
			Category:    fallbackCategory,
			TaskIndices: []int{},
		}},
		Reasoning: FallbackReasoning,
		Degraded:  true,
	}
}

// sanitizeResult drops group task indices that do not point into the task
// list. Invalid indices are a model defect, not a fatal error; valid ones
// keep their order.
func sanitizeResult(result Result) Result {
	for g, group := range result.Groups {
		valid := make([]int, 0, len(group.TaskIndices))
		for _, idx := range group.TaskIndices {
			if idx >= 0 && idx < len(result.Tasks) {
				valid = append(valid, idx)
			}
		}
		result.Groups[g].TaskIndices = valid
	}
	return result
}
