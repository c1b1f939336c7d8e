package transcript

import (
	"regexp"
	"strings"
)

// Spoken cue phrases that mark a topic change. Applied in order; every match
// splits the current segments and the cue itself is dropped.
var cuePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bnext topic\b[:,.]?\s*`),
	regexp.MustCompile(`(?i)\bmoving on\b[:,.]?\s*`),
	regexp.MustCompile(`(?i)\bon another note\b[:,.]?\s*`),
	regexp.MustCompile(`(?i)\badditionally\b[:,.]?\s*`),
	regexp.MustCompile(`(?i)\bnew section\b[:,.]?\s*`),
	regexp.MustCompile(`(?i)\bsection\s*:\s*`),
	regexp.MustCompile(`(?i)\bpoint number\s+(?:one|two|three|four|five|six|seven|eight|nine|ten|\d+)[:,.]?\s*`),
}

const minSegmentLength = 20

// Segment splits a raw transcript into candidate topic segments on spoken cue
// phrases. It never returns an empty slice: when nothing survives the split
// the original text comes back as a single segment. Any internal failure
// degrades to the same single-segment answer instead of propagating.
func Segment(text string) (segments []string) {
	defer func() {
		if recover() != nil || len(segments) == 0 {
			segments = []string{text}
		}
	}()

	segments = []string{text}
	for _, pattern := range cuePatterns {
		var next []string
		for _, segment := range segments {
			next = append(next, pattern.Split(segment, -1)...)
		}
		segments = next
	}

	kept := segments[:0]
	for _, segment := range segments {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}
		// Short fragments are usually cue debris, but a short complete
		// sentence ("Buy milk.") is still a real topic.
		if len(segment) < minSegmentLength && !endsSentence(segment) {
			continue
		}
		kept = append(kept, segment)
	}
	return kept
}

func endsSentence(segment string) bool {
	return strings.HasSuffix(segment, ".") ||
		strings.HasSuffix(segment, "!") ||
		strings.HasSuffix(segment, "?")
}
