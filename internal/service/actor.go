package service

import (
	"context"

	"cardputer_radio/internal/models"
)

type actorKey struct{}

// WithActor tags ctx with the operator issuing a command. Radio events
// recorded while that command runs carry the operator's name.
func WithActor(ctx context.Context, a models.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

// ActorFrom returns the operator stored by WithActor, or the zero Actor.
func ActorFrom(ctx context.Context) models.Actor {
	a, _ := ctx.Value(actorKey{}).(models.Actor)
	return a
}
