package reqid

import (
	"context"
	"math/rand/v2"
	"strconv"
)

type key struct{}

// NewContext returns a copy of parent carrying a fresh positive request ID,
// along with the ID itself.
func NewContext(parent context.Context) (context.Context, int64) {
	id := rand.Int64N(1<<63-1) + 1
	return context.WithValue(parent, key{}, id), id
}

// FromContext reports the request ID stored in ctx, if any.
func FromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(key{}).(int64)
	return id, ok
}

// String formats the request ID of ctx, or "" when there is none.
func String(ctx context.Context) string {
	id, ok := FromContext(ctx)
	if !ok {
		return ""
	}
	return strconv.FormatInt(id, 10)
}
