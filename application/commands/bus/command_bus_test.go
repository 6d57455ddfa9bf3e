package bus

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCommand struct {
	invalid bool
}

func (c fakeCommand) Validate() error {
	if c.invalid {
		return errors.New("invalid")
	}
	return nil
}

func TestCommandBus(t *testing.T) {
	ctx := context.Background()

	t.Run("dispatches to registered handler", func(t *testing.T) {
		b := NewCommandBus()
		var handled bool
		require.NoError(t, b.Register(fakeCommand{}, CommandHandlerFunc(func(ctx context.Context, cmd Command) error {
			handled = true
			return nil
		})))

		require.NoError(t, b.Send(ctx, fakeCommand{}))
		assert.True(t, handled)
	})

	t.Run("rejects duplicate registration", func(t *testing.T) {
		b := NewCommandBus()
		noop := CommandHandlerFunc(func(ctx context.Context, cmd Command) error { return nil })
		require.NoError(t, b.Register(fakeCommand{}, noop))
		assert.Error(t, b.Register(fakeCommand{}, noop))
	})

	t.Run("unregistered command fails", func(t *testing.T) {
		b := NewCommandBus()
		assert.Error(t, b.Send(ctx, fakeCommand{}))
	})

	t.Run("invalid command is rejected before dispatch", func(t *testing.T) {
		b := NewCommandBus()
		var handled bool
		require.NoError(t, b.Register(fakeCommand{}, CommandHandlerFunc(func(ctx context.Context, cmd Command) error {
			handled = true
			return nil
		})))

		assert.Error(t, b.Send(ctx, fakeCommand{invalid: true}))
		assert.False(t, handled)
	})

	t.Run("handler errors propagate", func(t *testing.T) {
		b := NewCommandBus()
		boom := errors.New("boom")
		require.NoError(t, b.Register(fakeCommand{}, CommandHandlerFunc(func(ctx context.Context, cmd Command) error {
			return boom
		})))
		assert.ErrorIs(t, b.Send(ctx, fakeCommand{}), boom)
	})
}
