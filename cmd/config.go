package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		dbPath, err := resolveDBPath(cmd, cfg)
		if err != nil {
			return err
		}

		file := cfg.File
		if file == "" {
			file = "(none)"
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Config file:   %s\n", file)
		fmt.Fprintf(out, "User:          %s\n", cfg.UserID)
		fmt.Fprintf(out, "Database:      %s\n", dbPath)
		fmt.Fprintf(out, "LLM provider:  %s\n", cfg.LLM.Provider)
		fmt.Fprintf(out, "API key:       %s\n", keyStatus(cfg.LLM.HasKey()))
		fmt.Fprintf(out, "Batch delay:   %s\n", cfg.Daily.BatchDelay)
		fmt.Fprintf(out, "Network probe: %s (%s)\n", cfg.ProbeAddr(), cfg.Network.Timeout)
		fmt.Fprintf(out, "Log level:     %s\n", cfg.Log.Level)
		if cfg.Metrics.Addr != "" {
			fmt.Fprintf(out, "Metrics:       http://%s/metrics\n", cfg.Metrics.Addr)
		}
		return nil
	},
}

func keyStatus(ok bool) string {
	if ok {
		return "configured"
	}
	return "missing"
}
