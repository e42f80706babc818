package voice

import (
	"context"
	"errors"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecRecognizer_Unconfigured(t *testing.T) {
	r := FromCommandLine("   ", time.Second)
	assert.False(t, r.Available())

	_, err := r.Listen(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestExecRecognizer_ReadsStdout(t *testing.T) {
	if _, err := exec.LookPath("echo"); err != nil {
		t.Skip("echo not available")
	}
	r := FromCommandLine("echo  Call   mom tomorrow ", time.Second)
	require.True(t, r.Available())

	got, err := r.Listen(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Call mom tomorrow", got)
}

func TestExecRecognizer_EmptyOutput(t *testing.T) {
	if _, err := exec.LookPath("true"); err != nil {
		t.Skip("true not available")
	}
	_, err := FromCommandLine("true", time.Second).Listen(context.Background())
	assert.ErrorIs(t, err, ErrNoSpeech)
}

func TestExecRecognizer_CommandFails(t *testing.T) {
	if _, err := exec.LookPath("false"); err != nil {
		t.Skip("false not available")
	}
	_, err := FromCommandLine("false", time.Second).Listen(context.Background())
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoSpeech)
}

func TestStatic(t *testing.T) {
	got, err := Static{Text: " hello "}.Listen(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "hello", got)

	_, err = Static{}.Listen(context.Background())
	assert.ErrorIs(t, err, ErrNoSpeech)

	boom := errors.New("boom")
	_, err = Static{Err: boom}.Listen(context.Background())
	assert.ErrorIs(t, err, boom)
}
