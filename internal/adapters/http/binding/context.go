package binding

import "context"

type modelKey struct{}

// WithModel returns a context carrying the bound request model.
func WithModel(ctx context.Context, model any) context.Context {
	return context.WithValue(ctx, modelKey{}, model)
}

// ModelFromContext returns the bound model stored by the validation gate.
func ModelFromContext[T any](ctx context.Context) (T, bool) {
	model, ok := ctx.Value(modelKey{}).(T)
	return model, ok
}
