// Package matcher finds the template that explains an utterance and
// extracts its slot bindings into a structured command.
//
// The caller is responsible for lower-casing and trimming the utterance
// before matching; the matcher never normalises case itself.
package matcher

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nlr-robotics/gpsrd/internal/command"
	"github.com/nlr-robotics/gpsrd/internal/grammar"
)

// ErrNoTemplateMatched indicates that no template explains the whole
// utterance. Partial matches are never promoted to a best-effort result.
var ErrNoTemplateMatched = errors.New("no template matched")

// ErrMalformedSlotValue indicates an "and"-list slot with an empty
// element, which can only come from malformed input.
var ErrMalformedSlotValue = errors.New("malformed slot value")

// Option configures a Matcher.
type Option func(*Matcher)

// WithRecovery enables the fuzzy recovery pass: when no template matches,
// out-of-grammar words are snapped to the nearest known word and the
// utterance is re-matched once. See recover.go.
func WithRecovery() Option {
	return func(m *Matcher) { m.recovery = true }
}

// Matcher evaluates a compiled grammar set against utterances. It is
// stateless apart from the read-only grammar set and safe for reuse
// across interaction cycles.
type Matcher struct {
	set      *grammar.Set
	recovery bool
	known    map[string]bool
}

// New creates a Matcher over a compiled grammar set.
func New(set *grammar.Set, opts ...Option) *Matcher {
	m := &Matcher{set: set}
	for _, opt := range opts {
		opt(m)
	}
	if m.recovery {
		m.known = make(map[string]bool, len(set.KnownWords()))
		for _, w := range set.KnownWords() {
			m.known[w] = true
		}
	}
	return m
}

// Match returns the structured command for an utterance, or
// ErrNoTemplateMatched / ErrMalformedSlotValue. When several templates
// explain the utterance, the one with the most fixed pattern words wins;
// remaining ties resolve to the earliest catalogue declaration.
func (m *Matcher) Match(utterance string) (command.Command, error) {
	cmd, err := m.matchExact(utterance)
	if err == nil {
		return cmd, nil
	}
	if !errors.Is(err, ErrNoTemplateMatched) {
		return command.Command{}, err
	}

	if m.recovery {
		if repaired, changed := m.repair(utterance); changed {
			if cmd, rerr := m.matchExact(repaired); rerr == nil {
				return cmd, nil
			}
		}
	}
	return command.Command{}, fmt.Errorf("%w: %q", ErrNoTemplateMatched, utterance)
}

func (m *Matcher) matchExact(utterance string) (command.Command, error) {
	type candidate struct {
		grammar  *grammar.Compiled
		bindings []grammar.Binding
	}

	var best *candidate
	for _, g := range m.set.Grammars() {
		bindings, ok := g.FindBindings(utterance)
		if !ok {
			continue
		}
		// Declaration order makes strict inequality the stable tie-break.
		if best == nil || g.LiteralWords > best.grammar.LiteralWords {
			best = &candidate{grammar: g, bindings: bindings}
		}
	}
	if best == nil {
		return command.Command{}, ErrNoTemplateMatched
	}

	slots := make([]command.Slot, 0, len(best.bindings))
	for _, binding := range best.bindings {
		values, err := slotValues(binding)
		if err != nil {
			return command.Command{}, err
		}
		slots = append(slots, command.Slot{
			Name:   binding.Slot,
			Values: values,
			List:   binding.List,
		})
	}
	return command.Command{Template: best.grammar.Template.ID, Slots: slots}, nil
}

// slotValues turns a raw capture into the slot's value sequence. List
// captures split at each " and " boundary, dropping the article that may
// precede an element ("the apple and the banana" → apple, banana).
func slotValues(binding grammar.Binding) ([]string, error) {
	if !binding.List {
		return []string{binding.Raw}, nil
	}
	parts := strings.Split(binding.Raw, " and ")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		for _, article := range []string{"the ", "a ", "an "} {
			if strings.HasPrefix(part, article) {
				part = strings.TrimPrefix(part, article)
				break
			}
		}
		if part == "" {
			return nil, fmt.Errorf("%w: empty element in %q slot", ErrMalformedSlotValue, binding.Slot)
		}
		values = append(values, part)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: empty %q slot", ErrMalformedSlotValue, binding.Slot)
	}
	return values, nil
}
