// Package importer turns markdown and PDF documents into content units for
// the same layout pipeline dictation uses.
package importer

import (
	"regexp"
	"strings"

	"github.com/mchawla/murmur/internal/layout"
)

var (
	headingRe  = regexp.MustCompile(`^(#{1,6})\s+(.*)$`)
	checkboxRe = regexp.MustCompile(`^\s*[-*]\s+\[( |x|X)\]\s+(.*)$`)
	bulletRe   = regexp.MustCompile(`^\s*[-*]\s+(.*)$`)
)

// Keyword buckets used to guess a source's primary category from its
// headings and body.
var categoryKeywords = []struct {
	category string
	words    []string
}{
	{"Project Management", []string{"sprint", "roadmap", "milestone", "kanban", "backlog", "standup", "retro"}},
	{"Work", []string{"meeting", "client", "deadline", "report", "review"}},
	{"Health", []string{"doctor", "dentist", "workout", "exercise", "medication"}},
	{"Errands", []string{"grocery", "groceries", "shopping", "pickup", "errand"}},
}

// ParseMarkdown splits a document into content units: top-level headings
// start units, deeper headings become sections, checkbox lines become tasks,
// everything else accumulates into the body. A document without headings
// yields one unit titled after its first line.
func ParseMarkdown(content string) []layout.ContentUnit {
	lines := strings.Split(content, "\n")

	var units []layout.ContentUnit
	var current *layout.ContentUnit
	var body []string

	flush := func() {
		if current == nil {
			return
		}
		current.Body = strings.TrimSpace(strings.Join(body, "\n"))
		units = append(units, *current)
		current = nil
		body = nil
	}

	for _, line := range lines {
		if match := headingRe.FindStringSubmatch(line); match != nil {
			level := len(match[1])
			title := strings.TrimSpace(match[2])
			if level <= 2 || current == nil {
				flush()
				unit := layout.ContentUnit{Title: title}
				current = &unit
			} else {
				current.Sections = append(current.Sections, title)
			}
			continue
		}
		if current == nil {
			if strings.TrimSpace(line) == "" {
				continue
			}
			unit := layout.ContentUnit{Title: firstLineTitle(line)}
			current = &unit
		}
		if match := checkboxRe.FindStringSubmatch(line); match != nil {
			current.Tasks = append(current.Tasks, layout.UnitTask{
				Text: strings.TrimSpace(match[2]),
				Done: match[1] != " ",
			})
			continue
		}
		if match := bulletRe.FindStringSubmatch(line); match != nil {
			body = append(body, "- "+strings.TrimSpace(match[1]))
			continue
		}
		body = append(body, line)
	}
	flush()

	for i := range units {
		units[i].Category = guessCategory(units[i])
	}
	return units
}

// Analyze summarizes each unit for strategy selection, mirroring the
// selector inputs the canvas import flow feeds it.
func Analyze(units []layout.ContentUnit) []layout.SourceProfile {
	return layout.ProfileUnits(units)
}

func guessCategory(unit layout.ContentUnit) string {
	haystack := strings.ToLower(unit.Title + " " + unit.Body)
	for _, bucket := range categoryKeywords {
		for _, word := range bucket.words {
			if strings.Contains(haystack, word) {
				return bucket.category
			}
		}
	}
	return ""
}

func firstLineTitle(line string) string {
	line = strings.TrimSpace(line)
	words := strings.Fields(line)
	if len(words) > 8 {
		words = words[:8]
	}
	return strings.Join(words, " ")
}
