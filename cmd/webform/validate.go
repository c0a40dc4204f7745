package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/Traves-Theberge/webform-cli"
)

// Run executes the validate command.
func (c *ValidateCmd) Run(deps *Dependencies) error {
	data, err := c.read(deps)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", webform.ErrorMessage(err))
		return err
	}

	report := deps.Validator.ValidateJSON(data)

	if c.JSON {
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
	} else if report.Valid {
		fmt.Fprintf(deps.Stdout, "Schema %q is valid\n", c.Schema)
	} else {
		fmt.Fprintf(deps.Stdout, "Schema %q is invalid:\n", c.Schema)
		for _, d := range report.Errors {
			fmt.Fprintf(deps.Stdout, "  %s\n", formatDiagnostic(d))
		}
	}

	if !report.Valid {
		return webform.Errorf(webform.EINVALID, "schema %q is invalid", c.Schema)
	}
	return nil
}

// read loads the schema from a file when the argument looks like a path, and
// from the schema store otherwise.
func (c *ValidateCmd) read(deps *Dependencies) ([]byte, error) {
	if strings.HasSuffix(c.Schema, ".json") || strings.ContainsAny(c.Schema, `/\`) {
		data, err := os.ReadFile(c.Schema)
		if os.IsNotExist(err) {
			return nil, webform.Errorf(webform.ENOTFOUND, "file %q not found", c.Schema)
		}
		return data, err
	}
	return deps.Schemas.ReadSchema(deps.Ctx, c.Schema)
}
