// Package loop implements the interaction cycle that drives the robot's
// command intake.
//
// Each cycle runs capture → parse → format → confirm. Any failure along
// the way is logged and the loop returns to capture; no error is ever
// spoken to the operator. The loop only stops when its context is
// cancelled.
package loop

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nlr-robotics/gpsrd/internal/command"
	"github.com/nlr-robotics/gpsrd/internal/formatter"
	"github.com/nlr-robotics/gpsrd/internal/matcher"
	"github.com/nlr-robotics/gpsrd/internal/speech"
)

// DefaultPrompt is what the robot asks before capturing an utterance.
const DefaultPrompt = "Tell me what to do"

// Consumer receives each successfully parsed and confirmed command.
// A consumer error ends the current cycle but not the loop.
type Consumer func(ctx context.Context, cmd command.Command) error

// Loop ties the speech devices, the parser, and the consumer together.
type Loop struct {
	capturer  speech.Capturer
	speaker   speech.Speaker
	matcher   *matcher.Matcher
	formatter *formatter.Formatter
	consumer  Consumer
	prompt    string
}

// New creates a Loop. The consumer may be nil, in which case confirmed
// commands are only logged.
func New(capturer speech.Capturer, speaker speech.Speaker, m *matcher.Matcher, f *formatter.Formatter, consumer Consumer) *Loop {
	return &Loop{
		capturer:  capturer,
		speaker:   speaker,
		matcher:   m,
		formatter: f,
		consumer:  consumer,
		prompt:    DefaultPrompt,
	}
}

// Run executes interaction cycles until ctx is cancelled. The context
// cancellation is the only way out; parse failures and device errors
// start a fresh cycle.
func (l *Loop) Run(ctx context.Context) error {
	slog.Info("interaction loop started")
	for {
		if err := ctx.Err(); err != nil {
			slog.Info("interaction loop stopped")
			return err
		}
		l.cycle(ctx)
	}
}

// cycle runs one capture → parse → format → confirm pass.
func (l *Loop) cycle(ctx context.Context) {
	start := time.Now()
	logger := slog.With("cycle_id", uuid.NewString())

	raw, err := l.capturer.Capture(ctx, l.prompt)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		logger.Error("capture failed", "error", err)
		return
	}

	utterance := strings.ToLower(strings.TrimSpace(raw))
	if utterance == "" {
		logger.Warn("empty utterance captured")
		return
	}
	logger.Debug("utterance captured", "utterance", utterance)

	cmd, err := l.matcher.Match(utterance)
	if err != nil {
		logger.Warn("no command parsed", "utterance", utterance, "error", err)
		return
	}
	logger.Info("command parsed", "template", cmd.Template, "slots", len(cmd.Slots))

	phrase, err := l.formatter.Format(cmd)
	if err != nil {
		logger.Error("formatting failed", "template", cmd.Template, "error", err)
		return
	}

	if err := l.speaker.Speak(ctx, phrase); err != nil {
		if ctx.Err() != nil {
			return
		}
		logger.Error("confirmation failed", "error", err)
		return
	}

	if l.consumer != nil {
		if err := l.consumer(ctx, cmd); err != nil {
			logger.Error("consumer failed", "template", cmd.Template, "error", err)
			return
		}
	}

	logger.Info("cycle complete", "template", cmd.Template, "duration", time.Since(start))
}

// SetPrompt overrides the capture prompt. Empty prompts are rejected so
// the operator always hears something before the microphone opens.
func (l *Loop) SetPrompt(prompt string) error {
	if strings.TrimSpace(prompt) == "" {
		return fmt.Errorf("prompt must not be empty")
	}
	l.prompt = prompt
	return nil
}
