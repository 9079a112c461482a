package speech

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// CommandSpeaker pipes text to an external text-to-speech command on stdin,
// e.g. "espeak --stdin" or "say -f -".
type CommandSpeaker struct {
	Name string
	Args []string
}

// NewCommandSpeaker splits commandLine on whitespace. An empty command line
// means speech is not available.
func NewCommandSpeaker(commandLine string) (*CommandSpeaker, error) {
	fields := strings.Fields(commandLine)
	if len(fields) == 0 {
		return nil, ErrUnsupported
	}
	return &CommandSpeaker{Name: fields[0], Args: fields[1:]}, nil
}

func (s *CommandSpeaker) Speak(ctx context.Context, text string) error {
	cmd := exec.CommandContext(ctx, s.Name, s.Args...)
	cmd.Stdin = strings.NewReader(text)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("speak command %s failed: %w: %s", s.Name, err, strings.TrimSpace(stderr.String()))
	}
	return nil
}

// CommandTranscriber runs an external speech-to-text command and takes the
// first non-empty line of its stdout as the transcript. The locale and prompt
// are passed as DAYBOOK_SPEECH_LOCALE and DAYBOOK_SPEECH_PROMPT.
type CommandTranscriber struct {
	Name string
	Args []string
}

func NewCommandTranscriber(commandLine string) (*CommandTranscriber, error) {
	fields := strings.Fields(commandLine)
	if len(fields) == 0 {
		return nil, ErrUnsupported
	}
	return &CommandTranscriber{Name: fields[0], Args: fields[1:]}, nil
}

func (t *CommandTranscriber) Transcribe(ctx context.Context, locale, prompt string) (string, error) {
	cmd := exec.CommandContext(ctx, t.Name, t.Args...)
	cmd.Env = append(os.Environ(),
		"DAYBOOK_SPEECH_LOCALE="+locale,
		"DAYBOOK_SPEECH_PROMPT="+prompt,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("transcribe command %s failed: %w: %s", t.Name, err, strings.TrimSpace(stderr.String()))
	}
	return firstLine(out), nil
}

func firstLine(out []byte) string {
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			return line
		}
	}
	return ""
}
