package dispatch

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/dshills/tilestorm/internal/xconn"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var testEvent = xconn.MapRequest{Window: 0x42}

func TestExecute_Success(t *testing.T) {
	exec := NewExecutor()
	var got xconn.Event
	res := exec.Execute(context.Background(), testEvent, HandlerFunc(func(_ context.Context, ev xconn.Event) error {
		got = ev
		return nil
	}))

	assert.True(t, res.IsSuccess())
	assert.NoError(t, res.Err())
	assert.Equal(t, testEvent, got)
	assert.Equal(t, uint64(1), exec.Stats().Dispatched)
}

func TestExecute_Error(t *testing.T) {
	boom := errors.New("boom")
	exec := NewExecutor()
	res := exec.Execute(context.Background(), testEvent, HandlerFunc(func(context.Context, xconn.Event) error {
		return boom
	}))

	assert.False(t, res.IsSuccess())
	assert.ErrorIs(t, res.Err(), boom)
	assert.Equal(t, uint64(1), exec.Stats().Failed)
}

func TestExecute_Panic(t *testing.T) {
	var reported []any
	exec := NewExecutor(WithPanicHandler(func(ev xconn.Event, v any, stack []byte) {
		assert.Equal(t, testEvent, ev)
		assert.NotEmpty(t, stack)
		reported = append(reported, v)
	}))

	res := exec.Execute(context.Background(), testEvent, HandlerFunc(func(context.Context, xconn.Event) error {
		panic("kaboom")
	}))

	require.True(t, res.Panicked)
	var perr *PanicError
	require.ErrorAs(t, res.Err(), &perr)
	assert.Equal(t, "kaboom", perr.Value)
	assert.Equal(t, []any{"kaboom"}, reported)
	assert.Equal(t, uint64(1), exec.Stats().Panicked)
}

func TestExecute_PanicWithError(t *testing.T) {
	boom := errors.New("boom")
	res := NewExecutor().Execute(context.Background(), testEvent, HandlerFunc(func(context.Context, xconn.Event) error {
		panic(boom)
	}))
	assert.ErrorIs(t, res.Err(), boom)
}

func TestExecute_PanickingPanicHandler(t *testing.T) {
	exec := NewExecutor(WithPanicHandler(func(xconn.Event, any, []byte) {
		panic("again")
	}))
	res := exec.Execute(context.Background(), testEvent, HandlerFunc(func(context.Context, xconn.Event) error {
		panic("first")
	}))
	assert.True(t, res.Panicked)
}

func TestExecute_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ran := false
	exec := NewExecutor()
	res := exec.Execute(ctx, testEvent, HandlerFunc(func(context.Context, xconn.Event) error {
		ran = true
		return nil
	}))

	assert.False(t, ran)
	assert.True(t, res.Skipped)
	assert.ErrorIs(t, res.Err(), ErrSkipped)
	assert.ErrorIs(t, res.Err(), context.Canceled)
	assert.Equal(t, uint64(1), exec.Stats().Skipped)
}
