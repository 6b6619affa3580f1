package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jzx17/assetsettings/pkg/asset"
)

func newServiceConfigCommand(root *rootOptions) *cobra.Command {
	var retryPolicies bool

	cmd := &cobra.Command{
		Use:   "service-config",
		Short: "Print the gRPC default service config derived from the resolved policies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := root.settings(cmd.Context())
			if err != nil {
				return err
			}
			var opts []asset.ServiceConfigOption
			if retryPolicies {
				opts = append(opts, asset.WithRetryPolicies())
			}
			doc, err := asset.BuildServiceConfig(settings.Policies, opts...).JSON()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), doc)
			return nil
		},
	}

	cmd.Flags().BoolVar(&retryPolicies, "retry-policies", false,
		"Include gRPC retry policies, for stubs that do not retry through gax")
	return cmd
}
