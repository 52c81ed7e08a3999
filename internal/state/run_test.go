package state

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/apierr"
)

func TestRun(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		callErr  error
		applyErr error
		status   Status
		msg      string
		applied  bool
	}{
		{name: "fulfilled", status: Fulfilled, applied: true},
		{name: "server message", callErr: apierr.Server(400, "Out of stock"), status: Rejected, msg: "Out of stock"},
		{name: "fallback", callErr: apierr.Network(errors.New("dial")), status: Rejected, msg: "Failed to add to cart"},
		{name: "apply failure", applyErr: errors.New("disk full"), status: Rejected, msg: "Failed to add to cart", applied: true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var mu sync.Mutex
			tr := NewTracker(false)
			var seen []Status
			tr.Subscribe(func(s Status) { seen = append(seen, s) })

			applied := false
			rejected := false
			_, err := Run(context.Background(), &mu, tr, Op[int]{
				Fallback: "Failed to add to cart",
				Call:     func(context.Context) (int, error) { return 1, tt.callErr },
				Apply:    func(int) error { applied = true; return tt.applyErr },
				Reject:   func() { rejected = true },
			})

			if tt.callErr == nil && tt.applyErr == nil {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
			}
			assert.Equal(t, tt.applied, applied)
			assert.Equal(t, tt.status == Rejected, rejected)
			assert.Equal(t, tt.status, tr.Status())
			assert.Equal(t, tt.msg, tr.Err())
			assert.Equal(t, []Status{Pending, tt.status}, seen)
		})
	}
}

func TestRun_Closed(t *testing.T) {
	t.Parallel()
	var mu sync.Mutex
	tr := NewTracker(false)

	_, err := Run(context.Background(), &mu, tr, Op[int]{
		Fallback: "x",
		Call: func(context.Context) (int, error) {
			tr.Close()
			return 1, nil
		},
		Apply: func(int) error { t.Fatal("applied after close"); return nil },
	})
	assert.ErrorIs(t, err, ErrDiscarded)
	assert.Equal(t, Pending, tr.Status())
}

func TestRun_Persist(t *testing.T) {
	t.Parallel()

	t.Run("runs outside the container lock", func(t *testing.T) {
		t.Parallel()
		var mu, serial sync.Mutex
		tr := NewTracker(false)
		var order []string

		_, err := Run(context.Background(), &mu, tr, Op[int]{
			Call:   func(context.Context) (int, error) { return 1, nil },
			Serial: &serial,
			Persist: func(context.Context, int) error {
				require.True(t, mu.TryLock())
				mu.Unlock()
				assert.False(t, serial.TryLock())
				order = append(order, "persist")
				return nil
			},
			Apply: func(int) error { order = append(order, "apply"); return nil },
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"persist", "apply"}, order)
		require.True(t, serial.TryLock())
		serial.Unlock()
	})

	t.Run("failure rejects", func(t *testing.T) {
		t.Parallel()
		var mu, serial sync.Mutex
		tr := NewTracker(false)
		rejected := false

		_, err := Run(context.Background(), &mu, tr, Op[int]{
			Fallback: "Failed to login",
			Call:     func(context.Context) (int, error) { return 1, nil },
			Serial:   &serial,
			Persist:  func(context.Context, int) error { return errors.New("disk full") },
			Apply:    func(int) error { t.Fatal("applied after failed persist"); return nil },
			Reject:   func() { rejected = true },
		})
		require.Error(t, err)
		assert.True(t, rejected)
		assert.Equal(t, Rejected, tr.Status())
		assert.Equal(t, "Failed to login", tr.Err())
	})

	t.Run("skipped when invalidated", func(t *testing.T) {
		t.Parallel()
		var mu, serial sync.Mutex
		tr := NewTracker(false)

		_, err := Run(context.Background(), &mu, tr, Op[int]{
			Call: func(context.Context) (int, error) {
				mu.Lock()
				tr.Invalidate()
				mu.Unlock()
				return 1, nil
			},
			Serial:  &serial,
			Persist: func(context.Context, int) error { t.Fatal("persisted a dropped result"); return nil },
		})
		assert.ErrorIs(t, err, ErrDiscarded)
		require.True(t, serial.TryLock())
		serial.Unlock()
	})
}
