package telemetry

import (
	"context"
	"fmt"
	"log/slog"
)

// SlogAPI implements API using the log/slog package.
type SlogAPI struct {
	ctx context.Context
}

// NewSlogAPI reports through slog, attaching ctx so trace ids end up in the
// log records when a handler knows how to read them.
func NewSlogAPI(ctx context.Context) SlogAPI {
	return SlogAPI{ctx: ctx}
}

func (s SlogAPI) ctxOrBackground() context.Context {
	if s.ctx == nil {
		return context.Background()
	}
	return s.ctx
}

func (SlogAPI) formatParams(out *[]any, params []any) {
	for i, p := range params {
		*out = append(
			*out,
			fmt.Sprintf("params.%d", i),
			p,
		)
	}
}

func (s SlogAPI) ReportBroken(id string, params ...any) {
	remainingPairs := []any{"id", id}
	s.formatParams(&remainingPairs, params)
	slog.ErrorContext(s.ctxOrBackground(), "broken component", remainingPairs...)
}

func (s SlogAPI) ReportWarning(id string, params ...any) {
	remainingPairs := []any{"id", id}
	s.formatParams(&remainingPairs, params)
	slog.WarnContext(s.ctxOrBackground(), "warning", remainingPairs...)
}

func (s SlogAPI) ReportCount(id string, count int64) {
	slog.InfoContext(s.ctxOrBackground(), "count", "id", id, "n", count)
}
