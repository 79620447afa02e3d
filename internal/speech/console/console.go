// Package console implements both speech interfaces against stdin/stdout,
// for development and bench testing without a microphone or a TTS server.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
)

// Device reads utterances from stdin and prints phrases to stdout.
type Device struct {
	in  *bufio.Reader
	out io.Writer
}

// New creates a Device over the process's stdin and stdout.
func New() *Device {
	return &Device{in: bufio.NewReader(os.Stdin), out: os.Stdout}
}

// NewWith creates a Device over explicit streams.
func NewWith(in io.Reader, out io.Writer) *Device {
	return &Device{in: bufio.NewReader(in), out: out}
}

// Capture prints the prompt and reads one line. EOF on stdin is reported
// as an error so the interaction loop can log it and retry (or exit on
// context cancellation).
func (d *Device) Capture(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if prompt != "" {
		fmt.Fprintf(d.out, "%s\n", prompt)
	}
	fmt.Fprint(d.out, "> ")

	line, err := d.in.ReadString('\n')
	if err != nil {
		if err == io.EOF && line != "" {
			return line, nil
		}
		return "", fmt.Errorf("reading utterance: %w", err)
	}
	return line, nil
}

// Speak prints the phrase.
func (d *Device) Speak(ctx context.Context, phrase string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(d.out, "%s\n", phrase)
	return err
}

// Close is a no-op.
func (d *Device) Close() error { return nil }
