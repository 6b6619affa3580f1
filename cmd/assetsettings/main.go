package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jzx17/assetsettings/internal/config"
	"github.com/jzx17/assetsettings/pkg/asset"
)

type rootOptions struct {
	configFile string
	logLevel   string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "assetsettings [OPTIONS] COMMAND",
		Short:         "Inspect Cloud Asset client settings and effective retry policies",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := logrus.ParseLevel(opts.logLevel)
			if err != nil {
				return err
			}
			logrus.SetLevel(level)
			logrus.SetOutput(cmd.ErrOrStderr())
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configFile, "config", "c", "", "Configuration file (defaults only when empty)")
	flags.StringVar(&opts.logLevel, "log-level", "warning", "Log level (debug, info, warning, error)")

	cmd.AddCommand(
		newResolveCommand(opts),
		newServiceConfigCommand(opts),
		newValidateCommand(opts),
	)
	return cmd
}

func (o *rootOptions) load() (*config.File, error) {
	if o.configFile == "" {
		return config.Parse(nil)
	}
	return config.Load(o.configFile)
}

// settings runs the bootstrap up to, but not including, client construction
func (o *rootOptions) settings(ctx context.Context) (asset.Settings, error) {
	file, err := o.load()
	if err != nil {
		return asset.Settings{}, err
	}
	registry, err := asset.Bootstrap[struct{}](ctx, file.AssetService, nil)
	if err != nil {
		return asset.Settings{}, err
	}
	return registry.Settings(), nil
}

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}
