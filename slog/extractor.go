package slog

import (
	"log/slog"
	"time"

	"github.com/Traves-Theberge/webform-cli"
)

// Ensure LoggingFieldExtractor implements webform.FieldExtractor.
var _ webform.FieldExtractor = (*LoggingFieldExtractor)(nil)

// LoggingFieldExtractor wraps a FieldExtractor with logging. Each field whose
// selector failed is logged as a warning.
type LoggingFieldExtractor struct {
	next   webform.FieldExtractor
	logger *slog.Logger
}

// NewLoggingFieldExtractor creates a new LoggingFieldExtractor.
func NewLoggingFieldExtractor(next webform.FieldExtractor, logger *slog.Logger) *LoggingFieldExtractor {
	return &LoggingFieldExtractor{next: next, logger: logger}
}

// ExtractFields delegates to the wrapped extractor and logs the operation.
func (e *LoggingFieldExtractor) ExtractFields(html string, s *webform.Schema) (ex *webform.Extraction, err error) {
	defer func(begin time.Time) {
		var fields, failed int
		if ex != nil {
			fields = len(ex.Fields)
			failed = len(ex.Errors)
			for _, fe := range ex.Errors {
				e.logger.Warn("selector failed",
					"field", fe.Field,
					"selector", fe.Selector,
					"err", fe.Err,
				)
			}
		}
		e.logger.Info("extract",
			"fields", fields,
			"failed", failed,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.ExtractFields(html, s)
}
