package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dpotapov/go-hyper/dom"
	"github.com/dpotapov/go-hyper/render"
)

func (a *app) renderCmd() *cobra.Command {
	var (
		envFile string
		set     map[string]string
		args    []string
	)

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a template to HTML",
		Long: `Evaluate a template against an environment and print the rendered HTML.

The environment is read from a JSON object (--env) and extended with
--set pairs. Positional ${} placeholders take the --arg values in order.

Examples:
  hyperc render --set name=bob greeting.html
  echo '<p>${ user.name }</p>' | hyperc render --env data.json
  echo '<b>${}</b>' | hyperc render --arg hello`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, files []string) error {
			src, err := readSource(cmd.InOrStdin(), files)
			if err != nil {
				return err
			}
			tmpl, err := render.Compile(src)
			if err != nil {
				return err
			}

			env := make(map[string]any)
			if envFile != "" {
				b, err := os.ReadFile(envFile)
				if err != nil {
					return err
				}
				if err := json.Unmarshal(b, &env); err != nil {
					return fmt.Errorf("parse %s: %w", envFile, err)
				}
			}
			for k, v := range set {
				env[k] = v
			}
			positional := make([]any, len(args))
			for i, v := range args {
				positional[i] = v
			}

			container := dom.NewElement("body")
			if _, err := a.engine().Execute(container, tmpl, env, positional...); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), container.InnerHTML())
			return nil
		},
	}

	cmd.Flags().StringVarP(&envFile, "env", "e", "", "JSON file with the environment")
	cmd.Flags().StringToStringVar(&set, "set", nil, "Environment `key=value` pairs")
	cmd.Flags().StringArrayVar(&args, "arg", nil, "Value of the next positional placeholder")

	return cmd
}
