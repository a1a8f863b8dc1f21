package httpx

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCircuitBreaker_Execute(t *testing.T) {
	t.Run("returns nil on success", func(t *testing.T) {
		cb := NewCircuitBreaker("test", time.Second, 3)
		err := cb.Execute(func() error { return nil })
		require.NoError(t, err)
	})

	t.Run("wraps the function error with the breaker name", func(t *testing.T) {
		cb := NewCircuitBreaker("safesearch", time.Second, 3)
		err := cb.Execute(func() error { return errors.New("boom") })
		require.Error(t, err)
		assert.Contains(t, err.Error(), "breaker (safesearch)")
		assert.Contains(t, err.Error(), "boom")
	})

	t.Run("opens after consecutive failures", func(t *testing.T) {
		cb := NewCircuitBreaker("test", time.Minute, 2)
		for i := 0; i < 2; i++ {
			_ = cb.Execute(func() error { return errors.New("fail") })
		}

		called := false
		err := cb.Execute(func() error {
			called = true
			return nil
		})
		require.Error(t, err)
		assert.False(t, called, "open breaker must not invoke the function")
	})
}
