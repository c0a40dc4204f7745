package main

import (
	"fmt"

	"github.com/Traves-Theberge/webform-cli"
	"github.com/Traves-Theberge/webform-cli/config"
)

// Run executes the config show command.
func (c *ConfigShowCmd) Run(deps *Dependencies) error {
	settings, err := deps.Config.Show()
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", webform.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "config: %s\n", deps.Config.Path())
	for _, key := range config.Keys {
		value := settings[key]
		if value == "" {
			value = "(not set)"
		}
		fmt.Fprintf(deps.Stdout, "%s: %s\n", key, value)
	}
	return nil
}

// Run executes the config set command.
func (c *ConfigSetCmd) Run(deps *Dependencies) error {
	if err := deps.Config.Set(c.Key, c.Value); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", webform.ErrorMessage(err))
		return err
	}
	fmt.Fprintf(deps.Stdout, "Set %s in %s\n", c.Key, deps.Config.Path())
	return nil
}
