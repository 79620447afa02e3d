// Package grammar compiles the fixed command-template catalogue into
// matchable patterns parameterised by the runtime entity vocabularies.
//
// Compilation happens once at startup; the resulting Set is read-only and
// safe to share across interaction cycles without synchronisation.
package grammar

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/nlr-robotics/gpsrd/internal/vocabulary"
)

var placeholderRE = regexp.MustCompile(`\{([a-z]+)(?: ([a-z_]+))?\}`)

// Binding is one captured slot value, still in its raw surface form.
// List slots carry their elements joined by " and " until the matcher
// splits them.
type Binding struct {
	Slot string
	Raw  string
	List bool
}

// Compiled is one template compiled against a Configuration.
type Compiled struct {
	Template Template

	// Index is the template's declaration position in the Catalog,
	// used as the final tie-break between equally specific matches.
	Index int

	// LiteralWords counts the fixed (non-slot) words of the pattern.
	// A template with more literal words is the more specific one.
	LiteralWords int

	re        *regexp.Regexp
	listSlots map[string]bool
}

// FindBindings matches the utterance against this grammar. The pattern is
// anchored, so a match always explains the whole utterance. Bindings are
// returned in pattern order; slots that did not participate in the match
// (unused alternation branches) are omitted.
func (g *Compiled) FindBindings(utterance string) ([]Binding, bool) {
	m := g.re.FindStringSubmatch(utterance)
	if m == nil {
		return nil, false
	}
	names := g.re.SubexpNames()
	bindings := make([]Binding, 0, len(names)-1)
	for i, name := range names {
		if i == 0 || name == "" || m[i] == "" {
			continue
		}
		bindings = append(bindings, Binding{Slot: name, Raw: m[i], List: g.listSlots[name]})
	}
	return bindings, true
}

// Set is the compiled grammar set: one matchable pattern per catalogue
// template, in declaration order.
type Set struct {
	grammars []*Compiled
	labels   map[string]string
	words    []string
}

// Grammars returns the compiled grammars in declaration order.
func (s *Set) Grammars() []*Compiled { return s.grammars }

// Label returns the English label for a template id.
func (s *Set) Label(id string) (string, bool) {
	label, ok := s.labels[id]
	return label, ok
}

// KnownWords returns every word the grammar set can match — vocabulary
// words, fixed pattern words, and benchmark word-list entries — sorted
// and deduplicated. Fuzzy recovery uses it as its correction target.
func (s *Set) KnownWords() []string { return s.words }

// Compile builds the grammar set for a Configuration. It is deterministic
// and fails only on a malformed Configuration or a malformed catalogue
// pattern (the latter is a programming error caught by tests).
func Compile(cfg *vocabulary.Configuration) (*Set, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	b := &builder{cfg: cfg, words: make(map[string]bool)}
	set := &Set{labels: make(map[string]string, len(Catalog))}
	for i, t := range Catalog {
		g, err := b.compile(t, i)
		if err != nil {
			return nil, fmt.Errorf("compiling template %s: %w", t.ID, err)
		}
		set.grammars = append(set.grammars, g)
		set.labels[t.ID] = t.Label
	}
	set.words = b.knownWords()
	return set, nil
}

type builder struct {
	cfg   *vocabulary.Configuration
	words map[string]bool
}

func (b *builder) compile(t Template, index int) (*Compiled, error) {
	var (
		pattern      strings.Builder
		literalWords int
		listSlots    = make(map[string]bool)
	)

	pattern.WriteString("^")
	rest := t.Pattern
	for {
		loc := placeholderRE.FindStringSubmatchIndex(rest)
		if loc == nil {
			pattern.WriteString(regexp.QuoteMeta(rest))
			literalWords += len(strings.Fields(rest))
			b.addWords(rest)
			break
		}

		literal := rest[:loc[0]]
		pattern.WriteString(regexp.QuoteMeta(literal))
		literalWords += len(strings.Fields(literal))
		b.addWords(literal)

		kind := rest[loc[2]:loc[3]]
		name := ""
		if loc[4] >= 0 {
			name = rest[loc[4]:loc[5]]
		}
		fragment, isList, err := b.slotFragment(kind, name)
		if err != nil {
			return nil, err
		}
		pattern.WriteString(fragment)
		if isList {
			listSlots[name] = true
		}

		rest = rest[loc[1]:]
	}
	pattern.WriteString("$")

	re, err := regexp.Compile(pattern.String())
	if err != nil {
		return nil, fmt.Errorf("bad pattern %q: %w", t.Pattern, err)
	}

	return &Compiled{
		Template:     t,
		Index:        index,
		LiteralWords: literalWords,
		re:           re,
		listSlots:    listSlots,
	}, nil
}

// slotFragment renders one placeholder as a regex fragment. The bool
// result marks multi-valued ("and"-joined) slots.
func (b *builder) slotFragment(kind, name string) (string, bool, error) {
	switch kind {
	case "article":
		return "(?:a|an)", false, nil
	case "verb":
		synonyms, ok := verbSynonyms[name]
		if !ok {
			return "", false, fmt.Errorf("unknown verb class %q", name)
		}
		b.addWords(synonyms...)
		return "(?:" + alternation(synonyms) + ")", false, nil
	case "location":
		return b.group(name, b.anyLocationNames()), false, nil
	case "room":
		return b.group(name, b.cfg.RoomNames), false, nil
	case "placement":
		return b.group(name, b.cfg.PlacementLocationNames), false, nil
	case "person":
		return b.group(name, b.cfg.PersonNames), false, nil
	case "objects":
		return b.listGroup(name, b.cfg.ObjectNames), true, nil
	case "objectorcategory":
		// Either a concrete object or a singular category; the capture
		// key records which form matched.
		return "(?:" + b.group(name, b.cfg.ObjectNames) +
			"|" + b.group("object_category_singular", b.cfg.ObjectCategoriesSingular) + ")", false, nil
	case "categorysingular":
		return b.group(name, b.cfg.ObjectCategoriesSingular), false, nil
	case "categoryplural":
		return b.group(name, b.cfg.ObjectCategoriesPlural), false, nil
	case "gestureperson":
		return b.group(name, gesturePersons), false, nil
	case "gesture":
		return b.group(name, gestureAttrs), false, nil
	case "personinfo":
		return b.group(name, personInfo), false, nil
	case "topic":
		return b.group(name, talkTopics), false, nil
	case "question":
		return b.group(name, questionWords), false, nil
	case "comparative":
		return b.group(name, comparatives), false, nil
	case "clothing":
		return b.clothingGroup(name, garments), false, nil
	case "clothingplural":
		return b.clothingGroup(name, garmentsPlural), false, nil
	default:
		return "", false, fmt.Errorf("unknown slot kind %q", kind)
	}
}

func (b *builder) group(name string, entries []string) string {
	b.addWords(entries...)
	return "(?P<" + name + ">" + alternation(entries) + ")"
}

// listGroup allows one or more entries joined by the literal word "and",
// each optionally preceded by an article ("the apple and the banana").
func (b *builder) listGroup(name string, entries []string) string {
	b.addWords(entries...)
	alt := "(?:" + alternation(entries) + ")"
	return "(?P<" + name + ">" + alt + "(?: and (?:the |a |an )?" + alt + ")*)"
}

// clothingGroup captures an optionally colour-qualified garment
// ("blue t shirt", "jacket").
func (b *builder) clothingGroup(name string, garmentForms []string) string {
	b.addWords(clothingColors...)
	b.addWords(garmentForms...)
	return "(?P<" + name + ">(?:(?:" + alternation(clothingColors) + ") )?(?:" +
		alternation(garmentForms) + "))"
}

func (b *builder) anyLocationNames() []string {
	seen := make(map[string]bool)
	var union []string
	for _, set := range [][]string{b.cfg.RoomNames, b.cfg.LocationNames, b.cfg.PlacementLocationNames} {
		for _, entry := range set {
			if !seen[entry] {
				seen[entry] = true
				union = append(union, entry)
			}
		}
	}
	return union
}

func (b *builder) addWords(entries ...string) {
	for _, entry := range entries {
		for _, word := range strings.Fields(entry) {
			b.words[word] = true
		}
	}
}

func (b *builder) knownWords() []string {
	words := make([]string, 0, len(b.words))
	for w := range b.words {
		words = append(words, w)
	}
	sort.Strings(words)
	return words
}

// alternation joins entries into a regex alternation, longest first so
// that repeated-slot boundaries align at whole entries ("bedroom" is
// never explained as "bed" plus trailing text).
func alternation(entries []string) string {
	sorted := append([]string(nil), entries...)
	sort.Slice(sorted, func(i, j int) bool {
		if len(sorted[i]) != len(sorted[j]) {
			return len(sorted[i]) > len(sorted[j])
		}
		return sorted[i] < sorted[j]
	})
	quoted := make([]string, len(sorted))
	for i, entry := range sorted {
		quoted[i] = regexp.QuoteMeta(entry)
	}
	return strings.Join(quoted, "|")
}
