package digitalocean

import "context"

// Call is a bound client operation, e.g.
//
//	func(ctx context.Context) (Result, error) { return droplets.GetDropletByID(ctx, "42") }
type Call func(ctx context.Context) (Result, error)

// Completion receives the outcome of an asynchronous call. It fires exactly
// once. On failure result is always nil.
type Completion func(result Result, err error)

// Future is a one-shot handle on an in-flight call. It is resolved exactly
// once and keeps no reference to the client that produced it.
type Future struct {
	done   chan struct{}
	result Result
	err    error
}

// Go starts call in its own goroutine and returns immediately. done may be
// nil when the caller only wants the Future.
func Go(ctx context.Context, call Call, done Completion) *Future {
	f := &Future{done: make(chan struct{})}
	go func() {
		res, err := call(ctx)
		if err != nil {
			res = nil
		}
		f.result, f.err = res, err
		close(f.done)
		if done != nil {
			done(res, err)
		}
	}()
	return f
}

// Done is closed once the call has completed.
func (f *Future) Done() <-chan struct{} { return f.done }

// Wait blocks until the call completes or ctx is done. Giving up on the wait
// does not cancel the call; cancel the context passed to Go for that.
func (f *Future) Wait(ctx context.Context) (Result, error) {
	select {
	case <-f.done:
		return f.result, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
