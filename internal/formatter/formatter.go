// Package formatter renders a structured command back into the
// natural-language confirmation phrase spoken to the operator.
package formatter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nlr-robotics/gpsrd/internal/command"
	"github.com/nlr-robotics/gpsrd/internal/grammar"
)

// ErrUnknownTemplate indicates a command whose template id is not in the
// catalogue. The matcher never produces one; this guards hand-built
// commands reaching the formatter.
var ErrUnknownTemplate = errors.New("unknown template id")

const preamble = "I parsed the command as you want me to: "

// Formatter renders confirmation phrases using the grammar set's
// template-id-to-English label table.
type Formatter struct {
	set *grammar.Set
}

// New creates a Formatter over a compiled grammar set.
func New(set *grammar.Set) *Formatter {
	return &Formatter{set: set}
}

// Format renders the confirmation phrase: the fixed preamble, the
// template's English label, and one " <slot>: <value>," clause per slot
// in binding order. List values are re-joined with the word "and".
func (f *Formatter) Format(cmd command.Command) (string, error) {
	label, ok := f.set.Label(cmd.Template)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTemplate, cmd.Template)
	}

	var b strings.Builder
	b.WriteString(preamble)
	b.WriteString(label)
	b.WriteString(", with the following parameters:")
	for _, slot := range cmd.Slots {
		b.WriteString(" ")
		b.WriteString(slot.Name)
		b.WriteString(": ")
		b.WriteString(strings.Join(slot.Values, " and "))
		b.WriteString(",")
	}
	return b.String(), nil
}
