// Package speech reads entries aloud and turns dictation into entry text.
package speech

//go:generate mockgen -destination=mocks/mock_speech.go -package=mocks github.com/unowned-ai/daybook/pkg/speech Speaker,Transcriber

import (
	"context"
	"errors"
	"strings"
)

// DefaultPrompt is shown by dictation providers that display a prompt.
const DefaultPrompt = "Speak your journal content..."

var (
	ErrNothingToRead = errors.New("nothing to read")
	ErrUnsupported   = errors.New("speech is not supported on this system")
)

// Speaker reads text aloud.
type Speaker interface {
	Speak(ctx context.Context, text string) error
}

// Transcriber records speech and returns its best guess, or "" when nothing
// was recognized.
type Transcriber interface {
	Transcribe(ctx context.Context, locale, prompt string) (string, error)
}

// ReadAloud speaks the plain text of a markdown entry.
func ReadAloud(ctx context.Context, s Speaker, content string) error {
	if s == nil {
		return ErrUnsupported
	}
	text := PlainText(content)
	if text == "" {
		return ErrNothingToRead
	}
	return s.Speak(ctx, text)
}

// Dictate records one utterance and appends it to content, followed by a
// space. Content is returned unchanged when nothing was recognized.
func Dictate(ctx context.Context, t Transcriber, locale, content string) (string, error) {
	if t == nil {
		return content, ErrUnsupported
	}
	transcript, err := t.Transcribe(ctx, locale, DefaultPrompt)
	if err != nil {
		return content, err
	}
	return AppendTranscript(content, transcript), nil
}

// AppendTranscript appends transcript and a trailing space to content.
func AppendTranscript(content, transcript string) string {
	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		return content
	}
	return content + transcript + " "
}
