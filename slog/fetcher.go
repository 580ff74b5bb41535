package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/tomecat/tomecat"
)

// Ensure LoggingFetcher implements tomecat.Fetcher.
var _ tomecat.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with download logging.
type LoggingFetcher struct {
	next   tomecat.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next tomecat.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch delegates to the wrapped fetcher and logs the operation.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (payload *tomecat.Payload, err error) {
	defer func(begin time.Time) {
		size := 0
		if payload != nil {
			size = len(payload.Data)
		}
		f.logger.Info("fetch",
			"url", url,
			"bytes", size,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}
