// Command snacktrack runs the SnackTrack API server.
//
//	snacktrack serve --config ./configs
//	snacktrack version
package main

import (
	"fmt"
	"os"

	"github.com/snacktrack/snacktrack-api/application"
	"github.com/snacktrack/snacktrack-api/config"
	"github.com/spf13/cobra"
)

// Set with -ldflags "-X main.Version=... -X main.GitCommit=...".
var (
	Version   = "1.0.0"
	GitCommit = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "snacktrack",
		Short:        "SnackTrack diet tracking API",
		SilenceUsage: true,
	}
	root.AddCommand(newServeCmd(), newVersionCmd())
	return root
}

func newServeCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(_ *cobra.Command, _ []string) error {
			settings, err := config.Load(configPath)
			if err != nil {
				return err
			}
			return application.New(settings).Run()
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "./configs", "configuration directory")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "SnackTrack API %s (%s)\n", Version, GitCommit)
		},
	}
}
