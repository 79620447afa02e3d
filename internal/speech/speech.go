// Package speech defines the interfaces for the external speech
// collaborators.
//
// The interaction loop doesn't care how audio is captured or played — it
// only works with the Capturer and Speaker contracts. Adapters live in
// the subpackages: asrhttp (ask-and-listen speech service), wyoming
// (Piper TTS plus playback hand-off), console (stdin/stdout, for
// development).
package speech

import "context"

// Capturer is the speech-capture collaborator: it speaks a prompt,
// listens for the operator's reply, and returns the transcribed
// utterance. Capture blocks until audio is available or the collaborator's
// own turn-taking timeout elapses; the loop imposes no additional one.
type Capturer interface {
	// Capture prompts the operator and returns the raw transcript.
	Capture(ctx context.Context, prompt string) (string, error)

	// Close releases any resources held by the capturer.
	Close() error
}

// Speaker is the speech-output collaborator: it speaks a phrase aloud.
// Aborted and preempted playback are reported as errors; the loop treats
// every non-nil error the same way (retry from capture).
type Speaker interface {
	// Speak renders the phrase as audio and plays it.
	Speak(ctx context.Context, phrase string) error

	// Close releases any resources held by the speaker.
	Close() error
}
