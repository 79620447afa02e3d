// Package command defines the structured command produced by matching an
// utterance against the template grammars.
//
// A Command pairs a template id with its bound slots in pattern order.
// This is the value handed to the downstream task executor; AsMap renders
// the wire shape that executors consume.
package command

// Slot is one bound template parameter. Values holds a single element for
// scalar slots; multi-valued slots ("the apple and the banana") keep their
// spoken order and set List.
type Slot struct {
	Name   string
	Values []string
	List   bool
}

// Value returns the scalar value of the slot (the first element).
func (s Slot) Value() string {
	if len(s.Values) == 0 {
		return ""
	}
	return s.Values[0]
}

// Command is a parsed utterance: the matched template id plus its slot
// bindings, ordered as they appear in the template pattern.
type Command struct {
	Template string
	Slots    []Slot
}

// Slot returns the named slot binding, if present.
func (c Command) Slot(name string) (Slot, bool) {
	for _, s := range c.Slots {
		if s.Name == name {
			return s, true
		}
	}
	return Slot{}, false
}

// AsMap renders the self-describing two-entry map shape consumed by task
// executors: {"command": <id>, <id>: {<slot>: <value>}}. Scalar slots map
// to a string, list slots to an ordered []string. The result is safe to
// marshal as JSON.
func (c Command) AsMap() map[string]any {
	params := make(map[string]any, len(c.Slots))
	for _, s := range c.Slots {
		if s.List {
			params[s.Name] = append([]string(nil), s.Values...)
			continue
		}
		params[s.Name] = s.Value()
	}
	return map[string]any{
		"command":  c.Template,
		c.Template: params,
	}
}
