package kvgrid

import (
	"context"
)

// Non-blocking variants of the Client operations. Each call returns
// immediately with a buffered result channel that completes when the
// round trip finishes. Both surfaces run the same execution routine,
// so results are equivalent to the blocking calls for the same remote
// state. An abandoned channel discards interest in the result; the
// remote operation may still have completed.

type GetResult struct {
	Value string
	Err   error
}

type OpResult struct {
	Err error
}

type KeysResult struct {
	Keys []string
	Err  error
}

func (cl *Client) GetAsync(ctx context.Context, key string) <-chan GetResult {
	ch := make(chan GetResult, 1)
	go func() {
		defer close(ch)
		v, err := cl.Get(ctx, key)
		ch <- GetResult{Value: v, Err: err}
	}()
	return ch
}

func (cl *Client) SetAsync(ctx context.Context, key string, value string) <-chan OpResult {
	ch := make(chan OpResult, 1)
	go func() {
		defer close(ch)
		ch <- OpResult{Err: cl.Set(ctx, key, value)}
	}()
	return ch
}

func (cl *Client) DeleteAsync(ctx context.Context, key string) <-chan OpResult {
	ch := make(chan OpResult, 1)
	go func() {
		defer close(ch)
		ch <- OpResult{Err: cl.Delete(ctx, key)}
	}()
	return ch
}

func (cl *Client) ListAsync(ctx context.Context, prefix string) <-chan KeysResult {
	ch := make(chan KeysResult, 1)
	go func() {
		defer close(ch)
		keys, err := cl.List(ctx, prefix)
		ch <- KeysResult{Keys: keys, Err: err}
	}()
	return ch
}
