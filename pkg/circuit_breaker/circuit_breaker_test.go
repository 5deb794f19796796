package circuit_breaker_test

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/readar/marketplace-service/pkg/circuit_breaker"
)

func Test_circuitBreaker_Call(t *testing.T) {
	t.Parallel()

	errService := errors.New("service error")
	ok := func() error { return nil }
	fail := func() error { return errService }

	t.Run("stays closed under low failure rate", func(t *testing.T) {
		t.Parallel()
		cb := circuit_breaker.New(10, time.Second, 0.5, 2)
		for i := 0; i < 20; i++ {
			require.NoError(t, cb.Call(ok))
		}
		require.ErrorIs(t, cb.Call(fail), errService)
		require.NoError(t, cb.Call(ok))
	})

	t.Run("opens when failure percentile exceeded", func(t *testing.T) {
		t.Parallel()
		cb := circuit_breaker.New(4, time.Minute, 0.5, 1)
		require.ErrorIs(t, cb.Call(fail), errService)
		require.ErrorIs(t, cb.Call(fail), errService)
		// breaker is open now, the service must not be reached
		require.ErrorIs(t, cb.Call(ok), circuit_breaker.ErrOpenCB)
	})

	t.Run("recovers via half-open after timeout", func(t *testing.T) {
		t.Parallel()
		cb := circuit_breaker.New(4, 10*time.Millisecond, 0.5, 1)
		require.ErrorIs(t, cb.Call(fail), errService)
		require.ErrorIs(t, cb.Call(fail), errService)
		require.ErrorIs(t, cb.Call(ok), circuit_breaker.ErrOpenCB)

		time.Sleep(20 * time.Millisecond)
		require.NoError(t, cb.Call(ok))
		require.NoError(t, cb.Call(ok))
		require.NoError(t, cb.Call(ok))
	})

	t.Run("reset closes the breaker", func(t *testing.T) {
		t.Parallel()
		cb := circuit_breaker.New(2, time.Minute, 0.5, 1)
		require.ErrorIs(t, cb.Call(fail), errService)
		require.ErrorIs(t, cb.Call(ok), circuit_breaker.ErrOpenCB)
		cb.Reset()
		require.NoError(t, cb.Call(ok))
	})
}
