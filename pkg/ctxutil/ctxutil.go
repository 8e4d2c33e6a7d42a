package ctxutil

import (
	"context"
)

type ctxKey string

const (
	runIDKey ctxKey = "run_id"
	jobKey   ctxKey = "job"
)

// WithRunID stores the run ID in the context.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromCtx extracts the run ID from the context.
// Returns an empty string and false if the value is missing or empty.
func RunIDFromCtx(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(runIDKey).(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// WithJob stores the job name in the context.
func WithJob(ctx context.Context, job string) context.Context {
	return context.WithValue(ctx, jobKey, job)
}

// JobFromCtx extracts the job name from the context.
// Returns an empty string if absent.
func JobFromCtx(ctx context.Context) string {
	job, _ := ctx.Value(jobKey).(string)
	return job
}
