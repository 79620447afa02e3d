package loop

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/nlr-robotics/gpsrd/internal/command"
	"github.com/nlr-robotics/gpsrd/internal/formatter"
	"github.com/nlr-robotics/gpsrd/internal/grammar"
	"github.com/nlr-robotics/gpsrd/internal/matcher"
	"github.com/nlr-robotics/gpsrd/internal/vocabulary"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// scriptedCapturer replays a fixed sequence of utterances, then cancels
// the loop's context to end the run.
type scriptedCapturer struct {
	utterances []string
	cancel     context.CancelFunc
}

func (c *scriptedCapturer) Capture(ctx context.Context, prompt string) (string, error) {
	if len(c.utterances) == 0 {
		c.cancel()
		return "", ctx.Err()
	}
	next := c.utterances[0]
	c.utterances = c.utterances[1:]
	return next, nil
}

func (c *scriptedCapturer) Close() error { return nil }

type recordingSpeaker struct {
	phrases []string
	err     error
}

func (s *recordingSpeaker) Speak(ctx context.Context, phrase string) error {
	if s.err != nil {
		return s.err
	}
	s.phrases = append(s.phrases, phrase)
	return nil
}

func (s *recordingSpeaker) Close() error { return nil }

func newParser(t *testing.T) (*matcher.Matcher, *formatter.Formatter) {
	t.Helper()
	set, err := grammar.Compile(&vocabulary.Configuration{
		PersonNames:              []string{"john"},
		LocationNames:            []string{"sofa"},
		PlacementLocationNames:   []string{"shelf"},
		RoomNames:                []string{"kitchen"},
		ObjectNames:              []string{"apple"},
		ObjectCategoriesSingular: []string{"fruit"},
		ObjectCategoriesPlural:   []string{"fruits"},
	})
	require.NoError(t, err)
	return matcher.New(set), formatter.New(set)
}

func runLoop(t *testing.T, capt *scriptedCapturer, speaker *recordingSpeaker, consumer Consumer) {
	t.Helper()
	m, f := newParser(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	capt.cancel = cancel

	err := New(capt, speaker, m, f, consumer).Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestRunConfirmsAndConsumesCommands(t *testing.T) {
	capt := &scriptedCapturer{utterances: []string{
		"go to the kitchen",
		"Meet John at the sofa", // loop lower-cases before matching
	}}
	speaker := &recordingSpeaker{}
	var consumed []command.Command

	runLoop(t, capt, speaker, func(ctx context.Context, cmd command.Command) error {
		consumed = append(consumed, cmd)
		return nil
	})

	require.Len(t, consumed, 2)
	assert.Equal(t, "goToLoc", consumed[0].Template)
	assert.Equal(t, "meetPrsAtBeac", consumed[1].Template)

	require.Len(t, speaker.phrases, 2)
	assert.Equal(t,
		"I parsed the command as you want me to: Go to location, with the following parameters: location: kitchen,",
		speaker.phrases[0])
}

// Unparseable utterances are skipped without speaking an error; the loop
// simply starts the next cycle.
func TestRunSkipsUnparseableUtterances(t *testing.T) {
	capt := &scriptedCapturer{utterances: []string{
		"make me a sandwich",
		"   ",
		"go to the kitchen",
	}}
	speaker := &recordingSpeaker{}
	var consumed []command.Command

	runLoop(t, capt, speaker, func(ctx context.Context, cmd command.Command) error {
		consumed = append(consumed, cmd)
		return nil
	})

	require.Len(t, consumed, 1)
	assert.Equal(t, "goToLoc", consumed[0].Template)
	assert.Len(t, speaker.phrases, 1)
}

// A failed confirmation means the command was never acknowledged to the
// operator, so it must not reach the consumer.
func TestRunDropsCommandWhenConfirmationFails(t *testing.T) {
	capt := &scriptedCapturer{utterances: []string{"go to the kitchen"}}
	speaker := &recordingSpeaker{err: errors.New("playback preempted")}
	var consumed []command.Command

	runLoop(t, capt, speaker, func(ctx context.Context, cmd command.Command) error {
		consumed = append(consumed, cmd)
		return nil
	})

	assert.Empty(t, consumed)
}

// A consumer error ends the cycle but not the loop.
func TestRunSurvivesConsumerErrors(t *testing.T) {
	capt := &scriptedCapturer{utterances: []string{
		"go to the kitchen",
		"go to the sofa",
	}}
	speaker := &recordingSpeaker{}
	calls := 0

	runLoop(t, capt, speaker, func(ctx context.Context, cmd command.Command) error {
		calls++
		if calls == 1 {
			return errors.New("executor rejected command")
		}
		return nil
	})

	assert.Equal(t, 2, calls)
	assert.Len(t, speaker.phrases, 2)
}

func TestRunWithoutConsumer(t *testing.T) {
	capt := &scriptedCapturer{utterances: []string{"go to the kitchen"}}
	speaker := &recordingSpeaker{}

	runLoop(t, capt, speaker, nil)

	assert.Len(t, speaker.phrases, 1)
}

func TestSetPrompt(t *testing.T) {
	m, f := newParser(t)
	l := New(&scriptedCapturer{}, &recordingSpeaker{}, m, f, nil)

	require.Error(t, l.SetPrompt("  "))
	require.NoError(t, l.SetPrompt("What can I do for you"))
	assert.Equal(t, "What can I do for you", l.prompt)
}
