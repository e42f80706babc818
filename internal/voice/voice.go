// Package voice starts speech-to-text sessions. The transcript is handed
// back as plain quick-add text.
package voice

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

var (
	ErrUnavailable = errors.New("voice input is not configured")
	ErrNoSpeech    = errors.New("no speech detected")
)

type Recognizer interface {
	Listen(ctx context.Context) (string, error)
}

// ExecRecognizer runs an external speech-to-text program and reads the
// transcript from its stdout.
type ExecRecognizer struct {
	Command string
	Args    []string
	Timeout time.Duration
}

// FromCommandLine builds an ExecRecognizer from a whitespace separated
// command line. An empty line yields a recognizer that reports ErrUnavailable.
func FromCommandLine(line string, timeout time.Duration) *ExecRecognizer {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return &ExecRecognizer{Timeout: timeout}
	}
	return &ExecRecognizer{Command: fields[0], Args: fields[1:], Timeout: timeout}
}

func (r *ExecRecognizer) Available() bool {
	return r != nil && r.Command != ""
}

func (r *ExecRecognizer) Listen(ctx context.Context) (string, error) {
	if !r.Available() {
		return "", ErrUnavailable
	}
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, r.Command, r.Args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("voice recognizer: %w", ctx.Err())
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("voice recognizer: %w: %s", err, msg)
		}
		return "", fmt.Errorf("voice recognizer: %w", err)
	}

	text := strings.Join(strings.Fields(stdout.String()), " ")
	if text == "" {
		return "", ErrNoSpeech
	}
	return text, nil
}

// Static replays a fixed transcript; useful for scripted input and tests.
type Static struct {
	Text string
	Err  error
}

func (s Static) Listen(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.Err != nil {
		return "", s.Err
	}
	if strings.TrimSpace(s.Text) == "" {
		return "", ErrNoSpeech
	}
	return strings.TrimSpace(s.Text), nil
}
