package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/Traves-Theberge/webform-cli"
)

// Ensure LoggingReformatter implements webform.Reformatter.
var _ webform.Reformatter = (*LoggingReformatter)(nil)

// LoggingReformatter wraps a Reformatter with logging.
type LoggingReformatter struct {
	next   webform.Reformatter
	logger *slog.Logger
}

// NewLoggingReformatter creates a new LoggingReformatter.
func NewLoggingReformatter(next webform.Reformatter, logger *slog.Logger) *LoggingReformatter {
	return &LoggingReformatter{next: next, logger: logger}
}

// Reformat delegates to the wrapped reformatter and logs the operation.
func (r *LoggingReformatter) Reformat(ctx context.Context, req *webform.ReformatRequest) (res *webform.ReformatResult, err error) {
	defer func(begin time.Time) {
		structured := false
		if res != nil {
			structured = res.Structured
		}
		r.logger.Info("reformat",
			"fields", len(req.Data),
			"structured", structured,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.Reformat(ctx, req)
}
