package gemini_test

import (
	"context"
	"strings"
	"testing"

	"github.com/Traves-Theberge/webform-cli"
	"github.com/Traves-Theberge/webform-cli/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenCounter_CountTokens(t *testing.T) {
	t.Parallel()

	tc, err := gemini.NewTokenCounter("gemini-2.0-flash")
	require.NoError(t, err)

	t.Run("sizes a reformat prompt", func(t *testing.T) {
		t.Parallel()

		n, err := tc.CountTokens(context.Background(), `<data>{"title": "Blue Widget", "price": 19.99}</data>`)

		require.NoError(t, err)
		assert.Positive(t, n)
	})

	t.Run("empty prompt is free", func(t *testing.T) {
		t.Parallel()

		n, err := tc.CountTokens(context.Background(), "")

		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("page content grows the prompt", func(t *testing.T) {
		t.Parallel()

		fields := `<data>{"title": "Blue Widget"}</data>`
		withPage := fields + "\n<content>" + strings.Repeat("Blue widgets ship in boxes of ten. ", 20) + "</content>"

		small, err := tc.CountTokens(context.Background(), fields)
		require.NoError(t, err)
		large, err := tc.CountTokens(context.Background(), withPage)
		require.NoError(t, err)

		assert.Greater(t, large, small)
	})
}

func TestNewTokenCounter_UnknownModel(t *testing.T) {
	t.Parallel()

	_, err := gemini.NewTokenCounter("not-a-gemini-model")

	require.Error(t, err)
	assert.Equal(t, webform.EINVALID, webform.ErrorCode(err))
}
