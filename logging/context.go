package logging

import (
	"context"

	"go.viam.com/utils"
)

type traceKey struct{}

// WithDebugTrace returns a context under which CDebug logs are written regardless of level. Every
// entry logged with the context is tagged with a "trace" field holding name. An empty name is
// replaced with a random one.
func WithDebugTrace(ctx context.Context, name string) context.Context {
	if name == "" {
		name = utils.RandomAlphaString(6)
	}
	return context.WithValue(ctx, traceKey{}, name)
}

// DebugTrace returns the name attached by WithDebugTrace, or "" if there is none.
func DebugTrace(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	name, _ := ctx.Value(traceKey{}).(string)
	return name
}
