package catalog

import "context"

type confirmKey struct{}

// WithConfirmation records on the context whether the caller already
// confirmed the destructive action
func WithConfirmation(ctx context.Context, confirmed bool) context.Context {
	return context.WithValue(ctx, confirmKey{}, confirmed)
}

// ContextConfirmer answers from the decision recorded by
// WithConfirmation; absent means declined
var ContextConfirmer Confirmer = ConfirmerFunc(func(ctx context.Context, _ string) bool {
	confirmed, _ := ctx.Value(confirmKey{}).(bool)
	return confirmed
})
