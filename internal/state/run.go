package state

import (
	"context"
	"errors"
	"sync"

	"github.com/Skotchmaster/storefront/internal/apierr"
)

// ErrDiscarded is returned when a result arrived after the container was
// closed or, in strict mode, after a newer result was applied.
var ErrDiscarded = errors.New("state: result discarded")

// Op is one container request.
type Op[T any] struct {
	// Fallback is shown when the error carries no server message.
	Fallback string
	Call     func(context.Context) (T, error)
	// Apply merges a successful result. It runs under the container lock.
	Apply func(T) error
	// Reject undoes container fields on failure. It runs under the container lock.
	Reject func()

	// Persist writes a successful result to external storage before Apply.
	// It runs without the container lock but holding Serial, which stays
	// held until Apply or Reject is done. Persist is skipped when the result
	// would be discarded.
	Persist func(context.Context, T) error
	Serial  sync.Locker
}

// Run performs op. The call runs without mu held; its result is applied under
// mu when the tracker accepts it.
func Run[T any](ctx context.Context, mu sync.Locker, t *Tracker, op Op[T]) (T, error) {
	mu.Lock()
	seq := t.Begin()
	mu.Unlock()
	t.Notify(Pending)

	res, err := op.Call(ctx)

	release := func() {}
	if op.Persist != nil && op.Serial != nil {
		op.Serial.Lock()
		release = op.Serial.Unlock
	}
	if err == nil && op.Persist != nil {
		mu.Lock()
		live := t.Live(seq)
		mu.Unlock()
		if live {
			err = op.Persist(ctx, res)
		}
	}

	mu.Lock()
	if !t.Accept(seq) {
		mu.Unlock()
		release()
		if err != nil {
			return res, errors.Join(ErrDiscarded, err)
		}
		return res, ErrDiscarded
	}
	if err == nil && op.Apply != nil {
		err = op.Apply(res)
	}
	if err != nil {
		if op.Reject != nil {
			op.Reject()
		}
		t.Reject(apierr.Message(err, op.Fallback))
	} else {
		t.Fulfill()
	}
	status := t.Status()
	mu.Unlock()
	release()

	t.Notify(status)
	return res, err
}
