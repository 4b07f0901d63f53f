package main

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dpotapov/go-hyper/dom"
	"github.com/dpotapov/go-hyper/render"
)

var (
	listTemplate  = render.Must(render.New(`<ul>`, `</ul>`))
	keyedRow      = render.Must(render.New(`<li key="`, `">`, `</li>`))
	positionalRow = render.Must(render.New(`<li>`, `</li>`))
)

func (a *app) diffCmd() *cobra.Command {
	var keyed, metrics bool

	cmd := &cobra.Command{
		Use:   "diff <from> <to>",
		Short: "Simulate a list update",
		Long: `Render a list of items, render it again with another list and print the
DOM mutations of the second render.

Items are separated by commas. With --keyed (the default) every row is
keyed by its item, so rows are moved. Without it rows are paired by
position and their text is patched.

Examples:
  hyperc diff a,b,c c,b,a
  hyperc diff --keyed=false a,b,c a,c
  hyperc diff "" a,b`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, to := splitItems(args[0]), splitItems(args[1])
			if keyed {
				if err := checkUnique(from); err != nil {
					return err
				}
				if err := checkUnique(to); err != nil {
					return err
				}
			}
			res, err := simulate(a.engine(), from, to, keyed)
			if err != nil {
				return err
			}
			res.print(cmd.OutOrStdout())
			if metrics {
				return a.printMetrics(cmd.OutOrStdout())
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&keyed, "keyed", "k", true, "Key rows by item")
	cmd.Flags().BoolVarP(&metrics, "metrics", "m", false, "Print render metrics")

	return cmd
}

func splitItems(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func checkUnique(items []string) error {
	seen := make(map[string]bool, len(items))
	for _, it := range items {
		if seen[it] {
			return fmt.Errorf("duplicate item %q in a keyed list", it)
		}
		seen[it] = true
	}
	return nil
}

type diffResult struct {
	from, to, got []string
	mutations     []dom.Mutation
	kept, created int
	removed       int
}

// simulate renders from, then to, into a detached container and records what the second
// render changed.
func simulate(e *render.Engine, from, to []string, keyed bool) (*diffResult, error) {
	rows := func(items []string) []*render.Hole {
		holes := make([]*render.Hole, len(items))
		for i, it := range items {
			if keyed {
				holes[i] = e.HTML(keyedRow, it, it)
			} else {
				holes[i] = e.HTML(positionalRow, it)
			}
		}
		return holes
	}

	container := dom.NewElement("main")
	bind := e.Bind(container)
	defer e.Unbind(container)

	if _, err := bind(listTemplate, rows(from)); err != nil {
		return nil, err
	}
	ul := container.FirstChild
	if ul == nil {
		return nil, errors.New("list did not render")
	}
	before := make(map[*dom.Node]bool)
	for _, li := range listItems(ul) {
		before[li] = true
	}

	res := &diffResult{from: from, to: to}
	cancel := ul.Observe(func(m dom.Mutation) {
		res.mutations = append(res.mutations, m)
	})
	_, err := bind(listTemplate, rows(to))
	cancel()
	if err != nil {
		return nil, err
	}

	for _, li := range listItems(ul) {
		res.got = append(res.got, li.TextContent())
		if before[li] {
			res.kept++
			delete(before, li)
		} else {
			res.created++
		}
	}
	res.removed = len(before)
	return res, nil
}

func listItems(ul *dom.Node) []*dom.Node {
	var items []*dom.Node
	for c := ul.FirstChild; c != nil; c = c.NextSibling {
		if c.Data == "li" {
			items = append(items, c)
		}
	}
	return items
}

func (r *diffResult) print(w io.Writer) {
	fmt.Fprintf(w, "from:   %s\n", strings.Join(r.from, " "))
	fmt.Fprintf(w, "to:     %s\n", strings.Join(r.to, " "))
	fmt.Fprintf(w, "result: %s\n", strings.Join(r.got, " "))
	fmt.Fprintf(w, "nodes:  %d kept, %d created, %d removed\n", r.kept, r.created, r.removed)
	fmt.Fprintf(w, "mutations: %d\n", len(r.mutations))

	counts := make(map[string]int)
	for _, m := range r.mutations {
		counts[m.Kind.String()]++
	}
	kinds := make([]string, 0, len(counts))
	for k := range counts {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		fmt.Fprintf(w, "  %s: %d\n", k, counts[k])
	}
}

func (a *app) printMetrics(w io.Writer) error {
	families, err := a.registry.Gather()
	if err != nil {
		return err
	}
	fmt.Fprintln(w)
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			var labels []string
			for _, lp := range m.GetLabel() {
				labels = append(labels, lp.GetName()+"="+lp.GetValue())
			}
			name := mf.GetName()
			if len(labels) > 0 {
				name += "{" + strings.Join(labels, ",") + "}"
			}
			switch {
			case m.GetCounter() != nil:
				fmt.Fprintf(w, "%s %g\n", name, m.GetCounter().GetValue())
			case m.GetGauge() != nil:
				fmt.Fprintf(w, "%s %g\n", name, m.GetGauge().GetValue())
			case m.GetHistogram() != nil:
				fmt.Fprintf(w, "%s_count %d\n", name, m.GetHistogram().GetSampleCount())
			}
		}
	}
	return nil
}
