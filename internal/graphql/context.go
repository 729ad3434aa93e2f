package graphql

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey int

const (
	ownerKey ctxKey = iota
	clientIPKey
)

// WithOwner attaches the signed-in owner's id to ctx.
func WithOwner(ctx context.Context, ownerID uuid.UUID) context.Context {
	return context.WithValue(ctx, ownerKey, ownerID)
}

// WithClientIP attaches the caller's address to ctx.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey, ip)
}

// ownerFrom returns uuid.Nil for anonymous callers, which every owner
// operation rejects as FORBIDDEN.
func ownerFrom(ctx context.Context) uuid.UUID {
	id, _ := ctx.Value(ownerKey).(uuid.UUID)
	return id
}

func clientIPFrom(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPKey).(string)
	return ip
}
