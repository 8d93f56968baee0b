package auth

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Identity is the snapshot of a user carried inside a session token.
type Identity struct {
	ID        primitive.ObjectID `json:"_id"`
	Name      string             `json:"Name"`
	Email     string             `json:"Email"`
	CreatedOn time.Time          `json:"createdOn"`
}

type contextKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(Identity)
	return id, ok
}

// UserID returns the authenticated user's id, or the zero ObjectID when the
// context carries no identity.
func UserID(ctx context.Context) primitive.ObjectID {
	id, ok := FromContext(ctx)
	if !ok {
		return primitive.NilObjectID
	}
	return id.ID
}
