package export

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoll_DoneImmediately(t *testing.T) {
	calls := 0
	err := Poll(context.Background(), time.Millisecond, time.Second, func(context.Context) (bool, error) {
		calls++
		return true, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestPoll_DoneAfterSeveralTries(t *testing.T) {
	calls := 0
	err := Poll(context.Background(), time.Millisecond, time.Second, func(context.Context) (bool, error) {
		calls++
		return calls == 4, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 4, calls)
}

func TestPoll_Timeout(t *testing.T) {
	start := time.Now()
	err := Poll(context.Background(), 5*time.Millisecond, 30*time.Millisecond, func(context.Context) (bool, error) {
		return false, nil
	})
	require.ErrorIs(t, err, ErrPollTimeout)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestPoll_SlowConditionBoundedByTimeout(t *testing.T) {
	start := time.Now()
	err := Poll(context.Background(), 10*time.Millisecond, 200*time.Millisecond, func(ctx context.Context) (bool, error) {
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-time.After(1500 * time.Millisecond):
			return true, nil
		}
	})
	require.ErrorIs(t, err, ErrPollTimeout)
	assert.Less(t, time.Since(start), time.Second)
}

func TestPoll_NoCheckAfterDeadline(t *testing.T) {
	calls := 0
	err := Poll(context.Background(), 10*time.Millisecond, 50*time.Millisecond, func(context.Context) (bool, error) {
		calls++
		time.Sleep(120 * time.Millisecond)
		return false, nil
	})
	require.ErrorIs(t, err, ErrPollTimeout)
	assert.Equal(t, 1, calls)
}

func TestPoll_ConditionContextHasDeadline(t *testing.T) {
	err := Poll(context.Background(), time.Millisecond, time.Second, func(ctx context.Context) (bool, error) {
		deadline, ok := ctx.Deadline()
		require.True(t, ok)
		assert.WithinDuration(t, time.Now().Add(time.Second), deadline, 100*time.Millisecond)
		return true, nil
	})
	require.NoError(t, err)
}

func TestPoll_CancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := Poll(ctx, time.Millisecond, time.Second, func(context.Context) (bool, error) {
		called = true
		return true, nil
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestPoll_CancelledWhileWaiting(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := Poll(ctx, 5*time.Millisecond, 5*time.Second, func(context.Context) (bool, error) {
		calls++
		if calls == 2 {
			cancel()
		}
		return false, nil
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrPollTimeout)
}

func TestPoll_ConditionError(t *testing.T) {
	boom := errors.New("boom")
	err := Poll(context.Background(), time.Millisecond, time.Second, func(context.Context) (bool, error) {
		return false, boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestPoll_DefaultsForNonPositiveDurations(t *testing.T) {
	err := Poll(context.Background(), 0, 0, func(context.Context) (bool, error) {
		return true, nil
	})
	assert.NoError(t, err)
}

func TestFragmentsTimeoutError(t *testing.T) {
	err := &FragmentsTimeoutError{Want: 3, Got: 1, Waited: 2 * time.Second}
	assert.ErrorIs(t, err, ErrPollTimeout)
	assert.Contains(t, err.Error(), "expected 3 page fragments, found 1")
}
