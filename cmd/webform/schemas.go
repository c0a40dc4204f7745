package main

import (
	"fmt"

	"github.com/Traves-Theberge/webform-cli"
)

// Run executes the schemas command.
func (c *SchemasCmd) Run(deps *Dependencies) error {
	names, err := deps.Schemas.ListSchemas(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", webform.ErrorMessage(err))
		return err
	}

	if len(names) == 0 {
		fmt.Fprintln(deps.Stdout, "No schemas found.")
		return nil
	}

	for _, name := range names {
		s, err := webform.LoadSchema(deps.Ctx, deps.Schemas, name)
		if err != nil {
			fmt.Fprintf(deps.Stdout, "%s (invalid: %s)\n", name, webform.ErrorMessage(err))
			continue
		}
		fmt.Fprintf(deps.Stdout, "%s (%d fields, %s)\n", name, len(s.Fields()), s.Shape)
	}
	return nil
}
