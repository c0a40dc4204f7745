package slog_test

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/Traves-Theberge/webform-cli"
	"github.com/Traves-Theberge/webform-cli/mock"
	webslog "github.com/Traves-Theberge/webform-cli/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingFieldExtractor_ExtractFields(t *testing.T) {
	t.Parallel()

	t.Run("logs field counts and selector failures", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.FieldExtractor{
			ExtractFieldsFn: func(html string, s *webform.Schema) (*webform.Extraction, error) {
				return &webform.Extraction{
					Fields: webform.RawResult{"title": "x", "bad": nil},
					Errors: []*webform.FieldError{{Field: "bad", Selector: "div[", Err: errors.New("unexpected EOF")}},
				}, nil
			},
		}

		ex := webslog.NewLoggingFieldExtractor(inner, logger)
		got, err := ex.ExtractFields("<html></html>", &webform.Schema{})

		require.NoError(t, err)
		assert.Len(t, got.Fields, 2)
		output := buf.String()
		assert.Contains(t, output, "selector failed")
		assert.Contains(t, output, "field=bad")
		assert.Contains(t, output, "fields=2")
		assert.Contains(t, output, "failed=1")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.FieldExtractor{
			ExtractFieldsFn: func(html string, s *webform.Schema) (*webform.Extraction, error) {
				return nil, errors.New("parse failed")
			},
		}

		ex := webslog.NewLoggingFieldExtractor(inner, logger)
		_, err := ex.ExtractFields("", &webform.Schema{})

		require.Error(t, err)
		assert.Contains(t, buf.String(), "err=\"parse failed\"")
	})
}
