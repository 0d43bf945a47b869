package main

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestPanicPolicy_DevelopmentFailsFast(t *testing.T) {
	ctx, cancel := context.WithCancelCause(context.Background())
	defer cancel(nil)

	panicPolicy(false, discard, cancel)("boom")

	require.Error(t, ctx.Err())
	err := exitError(ctx)
	require.ErrorIs(t, err, errHandlerPanic)
	assert.Contains(t, err.Error(), "boom")
}

func TestPanicPolicy_ProductionKeepsServing(t *testing.T) {
	ctx, cancel := context.WithCancelCause(context.Background())
	defer cancel(nil)

	panicPolicy(true, discard, cancel)("boom")

	assert.NoError(t, ctx.Err())
	assert.NoError(t, exitError(ctx))
}

func TestExitError_SignalIsCleanExit(t *testing.T) {
	ctx, cancel := context.WithCancelCause(context.Background())
	cancel(nil)

	assert.NoError(t, exitError(ctx))
}
