package context

import "context"

type ctxKey string

const actorKey ctxKey = "actor"

// WithActor stores the acting operator's name on the context.
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// GetActor returns the acting operator's name, if any.
func GetActor(ctx context.Context) (string, bool) {
	v := ctx.Value(actorKey)
	if v == nil {
		return "", false
	}
	actor, ok := v.(string)
	return actor, ok
}
