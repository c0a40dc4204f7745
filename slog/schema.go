package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/Traves-Theberge/webform-cli"
)

// Ensure LoggingSchemaStore implements webform.SchemaStore.
var _ webform.SchemaStore = (*LoggingSchemaStore)(nil)

// LoggingSchemaStore wraps a SchemaStore with debug logging.
type LoggingSchemaStore struct {
	next   webform.SchemaStore
	logger *slog.Logger
}

// NewLoggingSchemaStore creates a new LoggingSchemaStore.
func NewLoggingSchemaStore(next webform.SchemaStore, logger *slog.Logger) *LoggingSchemaStore {
	return &LoggingSchemaStore{next: next, logger: logger}
}

// ReadSchema delegates to the wrapped store and logs the operation.
func (s *LoggingSchemaStore) ReadSchema(ctx context.Context, name string) (data []byte, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("read schema",
			"name", name,
			"bytes", len(data),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.ReadSchema(ctx, name)
}

// ListSchemas delegates to the wrapped store and logs the operation.
func (s *LoggingSchemaStore) ListSchemas(ctx context.Context) (names []string, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("list schemas",
			"count", len(names),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.ListSchemas(ctx)
}
