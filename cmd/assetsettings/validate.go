package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jzx17/assetsettings/pkg/asset"
)

func newValidateCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load and validate the configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := root.load()
			if err != nil {
				return err
			}
			props := file.AssetService
			state := "enabled"
			if !props.IsEnabled() {
				state = "disabled"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "configuration OK: service %s, %d operation override(s), transport %s\n",
				state, len(props.MethodRetry), asset.DefaultTransportProvider(props.UseREST).Transport())
			return nil
		},
	}
}
