package main

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/net/html"

	"github.com/dpotapov/go-hyper/dom"
	"github.com/dpotapov/go-hyper/render"
)

func (a *app) inspectCmd() *cobra.Command {
	var svg, list bool

	cmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "Show how a template is parsed",
		Long: `Parse a template and print its fragment and interpolations.

Node interpolations are parsed as if their first value was a single value.
Use --list to parse them as lists instead.

Examples:
  hyperc inspect row.html
  echo '<li key="${id}">${name}</li>' | hyperc inspect
  hyperc inspect --svg icon.svg`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readSource(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			tmpl, err := render.Compile(src)
			if err != nil {
				return err
			}
			samples := make([]any, tmpl.Holes())
			if list {
				for i := range samples {
					samples[i] = []any{}
				}
			}
			d, err := a.engine().Describe(tmpl, svg, samples...)
			if err != nil {
				return err
			}
			return printDescription(cmd, d)
		},
	}

	cmd.Flags().BoolVar(&svg, "svg", false, "Parse in SVG mode")
	cmd.Flags().BoolVarP(&list, "list", "l", false, "Parse node interpolations as lists")

	return cmd
}

func printDescription(cmd *cobra.Command, d *render.Description) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, d.Fragment.InnerHTML())
	fmt.Fprintln(out)
	fmt.Fprintf(out, "keyed: %t, wrapped: %t\n", d.Keyed, d.Wrapped)
	if len(d.Interpolations) == 0 {
		return nil
	}
	fmt.Fprintln(out)

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tKIND\tMARKER\tNAME\tNODE\tPATH")
	for i, in := range d.Interpolations {
		marker, name := "-", "-"
		if in.Name != "" {
			marker, name = in.Marker.String(), in.Name
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", i, in.Kind, marker, name, nodeLabel(d.Node(in)), formatPath(in.Path))
	}
	return tw.Flush()
}

func nodeLabel(n *dom.Node) string {
	if n == nil {
		return "?"
	}
	switch n.Type {
	case html.ElementNode:
		return "<" + n.Data + ">"
	case html.CommentNode:
		return "#comment"
	case html.TextNode:
		return "#text"
	}
	return "#node"
}

// formatPath prints a path from the fragment down, the way it is walked.
func formatPath(path []int) string {
	parts := make([]string, 0, len(path))
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] < 0 {
			parts = append(parts, "content")
			continue
		}
		parts = append(parts, strconv.Itoa(path[i]))
	}
	return strings.Join(parts, "/")
}
