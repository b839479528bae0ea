package provider

import "context"

// Middleware wraps a RequestResponse with cross-cutting behavior.
type Middleware[I, O any] func(RequestResponse[I, O]) RequestResponse[I, O]

// Chain composes middlewares; the first one is outermost, so
// Chain(a, b)(p) calls a, then b, then p.
func Chain[I, O any](middlewares ...Middleware[I, O]) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		for i := len(middlewares) - 1; i >= 0; i-- {
			inner = middlewares[i](inner)
		}
		return inner
	}
}

// Around builds a Middleware from a function that receives each call
// together with the provider it wraps. Name and IsAvailable pass through.
func Around[I, O any](fn func(ctx context.Context, next RequestResponse[I, O], input I) (O, error)) Middleware[I, O] {
	return func(next RequestResponse[I, O]) RequestResponse[I, O] {
		return &around[I, O]{RequestResponse: next, fn: fn}
	}
}

type around[I, O any] struct {
	RequestResponse[I, O]
	fn func(context.Context, RequestResponse[I, O], I) (O, error)
}

func (a *around[I, O]) Execute(ctx context.Context, input I) (O, error) {
	return a.fn(ctx, a.RequestResponse, input)
}
