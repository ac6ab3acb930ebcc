package main

import (
	"fmt"
	"os"

	"log/slog"

	"github.com/spf13/cobra"

	voltwiz "github.com/voltwiz/voltwiz"
	"github.com/voltwiz/voltwiz/internal/cli"
	"github.com/voltwiz/voltwiz/pkg/domain"
)

// buildFromFlags loads configuration and assembles the wizard for a command.
func buildFromFlags(cmd *cobra.Command, hooks ...*domain.LifecycleHooks) (*voltwiz.Wizard, *slog.Logger, func()) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := cli.LoadConfig(path)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	if demo, _ := cmd.Flags().GetBool("demo"); demo {
		cfg.Agent.Demo = true
	}

	wiz, logger, cleanup, err := cli.BuildWizard(cfg, hooks...)
	if err != nil {
		fmt.Printf("Error initializing voltwiz: %v\n", err)
		os.Exit(1)
	}
	return wiz, logger, cleanup
}
