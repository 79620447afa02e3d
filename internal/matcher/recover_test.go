package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecoveryRepairsNearMisses(t *testing.T) {
	m := newMatcher(t, testVocab(), WithRecovery())

	tests := []struct {
		utterance string
		template  string
		slot      string
		value     string
	}{
		{"go to the kitchn", "goToLoc", "location", "kitchen"},
		{"go to the bedrom", "goToLoc", "location", "bedroom"},
		{"take the melk from the shelf", "takeObjFromPlcmt", "object", "milk"},
	}
	for _, tc := range tests {
		t.Run(tc.utterance, func(t *testing.T) {
			cmd, err := m.Match(tc.utterance)
			require.NoError(t, err)
			assert.Equal(t, tc.template, cmd.Template)
			slot, ok := cmd.Slot(tc.slot)
			require.True(t, ok)
			assert.Equal(t, tc.value, slot.Value())
		})
	}
}

func TestRecoveryDisabledByDefault(t *testing.T) {
	m := newMatcher(t, testVocab())

	_, err := m.Match("go to the kitchn")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoTemplateMatched)
}

// Recovery rescues transcription slips, not arbitrary input: words with
// no close known neighbour stay as they are and the utterance is
// rejected.
func TestRecoveryRejectsNoise(t *testing.T) {
	m := newMatcher(t, testVocab(), WithRecovery())

	_, err := m.Match("flibbertigibbet jabberwocky contraption")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoTemplateMatched)
}

func TestEditLimitScalesWithLength(t *testing.T) {
	assert.Equal(t, 1, editLimit(3))
	assert.Equal(t, 1, editLimit(4))
	assert.Equal(t, 2, editLimit(5))
	assert.Equal(t, 2, editLimit(8))
	assert.Equal(t, 3, editLimit(9))
}

func TestRepairLeavesKnownWordsAlone(t *testing.T) {
	m := newMatcher(t, testVocab(), WithRecovery())

	repaired, changed := m.repair("go to the kitchen")
	assert.False(t, changed)
	assert.Equal(t, "go to the kitchen", repaired)
}
