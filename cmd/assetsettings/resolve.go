package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jzx17/assetsettings/pkg/retry"
	"github.com/jzx17/assetsettings/pkg/types"
)

type resolveOptions struct {
	output     string
	provenance bool
	schedule   int
}

func newResolveCommand(root *rootOptions) *cobra.Command {
	opts := &resolveOptions{}

	cmd := &cobra.Command{
		Use:   "resolve [OPERATION...]",
		Short: "Print the effective retry policy of each operation",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := root.settings(cmd.Context())
			if err != nil {
				return err
			}
			entries, err := selectOperations(settings.Policies, args)
			if err != nil {
				return err
			}
			return renderPolicies(cmd.OutOrStdout(), opts, entries)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.output, "output", "o", "table", "Output format: table, json or yaml")
	flags.BoolVar(&opts.provenance, "provenance", false, "Show which tier supplied each value")
	flags.IntVar(&opts.schedule, "schedule", 0, "Also print the first N retry delays")
	return cmd
}

func selectOperations(set *retry.ResolvedSet, names []string) ([]retry.Resolved, error) {
	if len(names) == 0 {
		return set.All(), nil
	}
	out := make([]retry.Resolved, 0, len(names))
	for _, name := range names {
		resolved, ok := set.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("%w: %s", types.ErrUnknownOperation, name)
		}
		out = append(out, resolved)
	}
	return out, nil
}

// policyView is the serialized form of one resolved operation
type policyView struct {
	Operation  string            `json:"operation" yaml:"operation"`
	Policy     map[string]string `json:"policy" yaml:"policy"`
	Provenance map[string]string `json:"provenance,omitempty" yaml:"provenance,omitempty"`
	Schedule   []string          `json:"schedule,omitempty" yaml:"schedule,omitempty"`
}

func newPolicyView(r retry.Resolved, opts *resolveOptions) policyView {
	view := policyView{
		Operation: r.Operation,
		Policy:    make(map[string]string),
	}
	for _, v := range r.Policy.Values() {
		view.Policy[string(v.Field)] = v.Value
	}
	if opts.provenance {
		view.Provenance = make(map[string]string, len(r.Provenance))
		for field, tier := range r.Provenance {
			view.Provenance[string(field)] = tier.String()
		}
	}
	if opts.schedule > 0 {
		view.Schedule = formatDurations(r.Policy.Schedule(opts.schedule))
	}
	return view
}

func renderPolicies(w io.Writer, opts *resolveOptions, entries []retry.Resolved) error {
	switch opts.output {
	case "table":
		return renderTable(w, opts, entries)
	case "json", "yaml":
		views := make([]policyView, len(entries))
		for i, r := range entries {
			views[i] = newPolicyView(r, opts)
		}
		if opts.output == "json" {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(views)
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(views); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("%w: unsupported output format %q", types.ErrInvalidConfig, opts.output)
	}
}

func renderTable(w io.Writer, opts *resolveOptions, entries []retry.Resolved) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	header := "OPERATION\tFIELD\tVALUE"
	if opts.provenance {
		header += "\tTIER"
	}
	fmt.Fprintln(tw, header)

	for _, r := range entries {
		values := r.Policy.Values()
		if len(values) == 0 {
			fmt.Fprintf(tw, "%s\t-\t-\n", r.Operation)
		}
		for _, v := range values {
			line := fmt.Sprintf("%s\t%s\t%s", r.Operation, v.Field, v.Value)
			if opts.provenance {
				line += "\t" + r.Provenance[v.Field].String()
			}
			fmt.Fprintln(tw, line)
		}
		if opts.schedule > 0 {
			delays := formatDurations(r.Policy.Schedule(opts.schedule))
			fmt.Fprintf(tw, "%s\tschedule\t%s\n", r.Operation, strings.Join(delays, " "))
		}
	}
	return tw.Flush()
}

func formatDurations(delays []time.Duration) []string {
	out := make([]string, len(delays))
	for i, d := range delays {
		out[i] = d.String()
	}
	return out
}
