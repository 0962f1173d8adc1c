// Package attr provides slog attribute helpers so log keys stay consistent across modules.
package attr

import (
	"context"
	"log/slog"
	"time"
)

type correlationKey struct{}

func String(key, value string) slog.Attr { return slog.String(key, value) }

func Int(key string, value int) slog.Attr { return slog.Int(key, value) }

func Int64(key string, value int64) slog.Attr { return slog.Int64(key, value) }

func Bool(key string, value bool) slog.Attr { return slog.Bool(key, value) }

func Any(key string, value any) slog.Attr { return slog.Any(key, value) }

func Duration(key string, value time.Duration) slog.Attr { return slog.Duration(key, value) }

// Error logs err under the "error" key. A nil error is logged as an empty string.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", err.Error())
}

// BatchID identifies a pending import batch.
func BatchID(id string) slog.Attr { return slog.String("batch_id", id) }

// EventID identifies a raid.
func EventID(id int64) slog.Attr { return slog.Int64("event_id", id) }

// ChallengeID identifies a season; nil is logged as 0.
func ChallengeID(id *int64) slog.Attr {
	if id == nil {
		return slog.Int64("challenge_id", 0)
	}
	return slog.Int64("challenge_id", *id)
}

// WithCorrelationID stores a request correlation id on the context.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationKey{}, id)
}

// ExtractCorrelationID returns the correlation id attribute stored on ctx.
func ExtractCorrelationID(ctx context.Context) slog.Attr {
	if id, ok := ctx.Value(correlationKey{}).(string); ok {
		return slog.String("correlation_id", id)
	}
	return slog.String("correlation_id", "")
}

type actorKey struct{}

// WithActor stores the authenticated operator name on the context.
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFromContext returns the operator stored by WithActor, or "".
func ActorFromContext(ctx context.Context) string {
	actor, _ := ctx.Value(actorKey{}).(string)
	return actor
}
