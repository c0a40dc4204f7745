package main_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	main "github.com/Traves-Theberge/webform-cli/cmd/webform"
	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCLI_HelpShowsAllCommands(t *testing.T) {
	t.Parallel()

	cli := &main.CLI{}
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	// Use kong.Exit to prevent os.Exit from being called during tests
	parser, err := kong.New(cli,
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	require.NoError(t, err)

	_, _ = parser.Parse([]string{"--help"})

	helpOutput := stdout.String()
	for _, cmd := range []string{"extract", "validate", "schemas", "config"} {
		assert.Contains(t, helpOutput, cmd, "Help should mention %s command", cmd)
	}
}

func TestMain_Run(t *testing.T) {
	t.Parallel()

	t.Run("help succeeds", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		err := main.NewMain().Run(context.Background(), []string{"--help"}, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Usage:")
		assert.Contains(t, stdout.String(), "extract")
	})

	t.Run("no arguments is an error", func(t *testing.T) {
		t.Parallel()

		err := main.NewMain().Run(context.Background(), nil, &bytes.Buffer{}, &bytes.Buffer{})

		assert.Error(t, err)
	})

	t.Run("extracts a local HTML file end to end", func(t *testing.T) {
		t.Parallel()

		// Given a schema directory and a local page
		dir := t.TempDir()
		schemas := filepath.Join(dir, "schemas")
		require.NoError(t, os.Mkdir(schemas, 0755))
		require.NoError(t, os.WriteFile(filepath.Join(schemas, "story.json"), []byte(storySchema), 0644))
		page := filepath.Join(dir, "page.html")
		require.NoError(t, os.WriteFile(page, []byte(storyHTML), 0644))

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		// When running the extract command
		err := main.NewMain().Run(context.Background(), []string{
			"--config-file", filepath.Join(dir, "config.yaml"),
			"--schemas-dir", schemas,
			"extract", page, "--schema", "story", "--no-metadata",
		}, stdout, stderr)

		// Then the fields are printed as JSON
		require.NoError(t, err, stderr.String())
		var got map[string]any
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &got))
		assert.Equal(t, map[string]any{"title": "Hello World", "points": 42.0}, got)
	})

	t.Run("reports missing local file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "story.json"), []byte(storySchema), 0644))
		stderr := &bytes.Buffer{}

		err := main.NewMain().Run(context.Background(), []string{
			"--config-file", filepath.Join(dir, "config.yaml"),
			"--schemas-dir", dir,
			"extract", filepath.Join(dir, "nope.html"), "-s", "story",
		}, &bytes.Buffer{}, stderr)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "not found")
	})

	t.Run("lists schemas from the schemas directory", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "story.json"), []byte(storySchema), 0644))
		stdout := &bytes.Buffer{}

		err := main.NewMain().Run(context.Background(), []string{
			"--config-file", filepath.Join(dir, "config.yaml"),
			"--schemas-dir", dir,
			"schemas",
		}, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Equal(t, "story (2 fields, canonical)\n", stdout.String())
	})

	t.Run("requires an API key for --llm", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		cfg := filepath.Join(dir, "config.yaml")
		require.NoError(t, os.WriteFile(cfg, []byte("api_key: \"\"\n"), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "story.json"), []byte(storySchema), 0644))
		stderr := &bytes.Buffer{}

		if os.Getenv("GEMINI_API_KEY") != "" || os.Getenv("WEBFORM_API_KEY") != "" {
			t.Skip("API key present in environment")
		}

		err := main.NewMain().Run(context.Background(), []string{
			"--config-file", cfg,
			"--schemas-dir", dir,
			"extract", "https://example.com", "-s", "story", "--llm",
		}, &bytes.Buffer{}, stderr)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "Gemini API key not set")
		assert.Contains(t, stderr.String(), "config set api_key")
	})
}
