package logging

import "context"

type ctxArgsKey struct{}

// ContextWith returns a copy of ctx carrying key–value pairs that every
// Logger adds to records logged with that context, e.g. a request id:
//
//	ctx = logging.ContextWith(ctx, "request_id", id)
func ContextWith(ctx context.Context, args ...any) context.Context {
	prev := contextArgs(ctx)
	merged := make([]any, 0, len(prev)+len(args))
	merged = append(append(merged, prev...), args...)
	return context.WithValue(ctx, ctxArgsKey{}, merged)
}

func contextArgs(ctx context.Context) []any {
	if ctx == nil {
		return nil
	}
	v, _ := ctx.Value(ctxArgsKey{}).([]any)
	return v
}

func withContextArgs(ctx context.Context, args []any) []any {
	extra := contextArgs(ctx)
	if len(extra) == 0 {
		return args
	}
	out := make([]any, 0, len(extra)+len(args))
	return append(append(out, extra...), args...)
}
