package matcher

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// repair replaces each out-of-grammar word with its nearest known word
// within a length-scaled edit-distance limit. Words with no close enough
// neighbour are left alone, so pure noise stays unmatchable: recovery
// only rescues transcription slips like "kitchn", never invents commands.
func (m *Matcher) repair(utterance string) (string, bool) {
	words := strings.Fields(utterance)
	changed := false
	for i, word := range words {
		if m.known[word] {
			continue
		}
		if nearest, ok := m.nearestKnown(word); ok {
			words[i] = nearest
			changed = true
		}
	}
	if !changed {
		return utterance, false
	}
	return strings.Join(words, " "), true
}

// nearestKnown scans the sorted known-word list so equal-distance ties
// resolve to the lexicographically smallest candidate, deterministically.
func (m *Matcher) nearestKnown(word string) (string, bool) {
	best := ""
	bestDist := editLimit(len(word)) + 1
	for _, known := range m.set.KnownWords() {
		dist := levenshtein.ComputeDistance(word, known)
		if dist < bestDist {
			best = known
			bestDist = dist
		}
	}
	if best == "" {
		return "", false
	}
	return best, true
}

func editLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}
