package main

import (
	"fmt"

	"github.com/burenotti/gym_tracker_backend/internal/config"
	"github.com/spf13/cobra"
)

var checkConfigCmd = &cobra.Command{
	Use:   "check-config",
	Short: "Load and validate the config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		warnings, err := cfg.Validate()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, w := range warnings {
			fmt.Fprintf(out, "warning: %s\n", w)
		}
		fmt.Fprintf(out, "config ok (env=%s, timezone=%s)\n", cfg.App.Env, cfg.App.Timezone)
		return nil
	},
}
