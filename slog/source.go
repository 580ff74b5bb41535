// Package slog provides logging decorators for tomecat services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/tomecat/tomecat"
)

// Ensure LoggingRemoteSource implements tomecat.RemoteSource.
var _ tomecat.RemoteSource = (*LoggingRemoteSource)(nil)

// LoggingRemoteSource wraps a RemoteSource with operation logging.
type LoggingRemoteSource struct {
	next   tomecat.RemoteSource
	logger *slog.Logger
}

// NewLoggingRemoteSource creates a new LoggingRemoteSource.
func NewLoggingRemoteSource(next tomecat.RemoteSource, logger *slog.Logger) *LoggingRemoteSource {
	return &LoggingRemoteSource{next: next, logger: logger}
}

// Name delegates to the wrapped source.
func (s *LoggingRemoteSource) Name() string {
	return s.next.Name()
}

// Search delegates to the wrapped source and logs the operation.
func (s *LoggingRemoteSource) Search(ctx context.Context, query string) (records []tomecat.RemoteRecord, err error) {
	defer func(begin time.Time) {
		s.logger.Info("remote search",
			"source", s.next.Name(),
			"query", query,
			"count", len(records),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Search(ctx, query)
}
