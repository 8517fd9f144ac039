package app

import (
	"bytes"
	"context"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsoleWaitsForLine(t *testing.T) {
	var out bytes.Buffer
	c := &Console{in: strings.NewReader("\n"), out: &out}

	require.NoError(t, c.WaitForEnter(context.Background(), "press Enter"))
	assert.Equal(t, "press Enter\n", out.String())
}

func TestConsoleEOFConfirms(t *testing.T) {
	c := &Console{in: strings.NewReader(""), out: io.Discard}
	assert.NoError(t, c.WaitForEnter(context.Background(), "x"))
}

func TestConsoleHonoursCancellation(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()
	defer w.Close()

	c := NewConsole(r, io.Discard)
	assert.False(t, c.Interactive())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, c.WaitForEnter(ctx, "x"), context.Canceled)
}
