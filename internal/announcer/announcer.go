// Package announcer voices and displays alarms: spoken text through a local
// TTS command and desktop popups through the tray notifier.
package announcer

import "errors"

var (
	// ErrSpeechUnsupported is returned when no TTS command is available.
	ErrSpeechUnsupported = errors.New("speech is not supported on this system")
	// ErrNotPermitted is returned by Notify when notifications were not granted.
	ErrNotPermitted = errors.New("notifications not permitted")
)

type Speaker interface {
	// Speak starts an utterance, cancelling any still playing.
	Speak(text string) error
	Cancel()
}

type Notifier interface {
	Notify(title, body string) error
}

type Announcer interface {
	Speaker
	Notifier
}

type combined struct {
	Speaker
	Notifier
}

// Combine pairs a speaker and a notifier. Either may be nil.
func Combine(s Speaker, n Notifier) Announcer {
	if s == nil {
		s = Nop{}
	}
	if n == nil {
		n = Nop{}
	}
	return combined{Speaker: s, Notifier: n}
}

// Nop discards everything.
type Nop struct{}

func (Nop) Speak(string) error          { return nil }
func (Nop) Cancel()                     {}
func (Nop) Notify(string, string) error { return nil }
