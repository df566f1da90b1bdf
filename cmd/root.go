package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nexthire/nexthire/internal/clock"
	"github.com/nexthire/nexthire/internal/config"
	"github.com/nexthire/nexthire/internal/store"
	"github.com/nexthire/nexthire/internal/tracker"
)

var rootCmd = &cobra.Command{
	Use:   "nexthire",
	Short: "Interview practice in your terminal",
	Long:  "NextHire generates interview practice questions and a daily quiz, and tracks your daily streak.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides NEXTHIRE_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default $XDG_CONFIG_HOME/nexthire/config.yaml)")
	rootCmd.PersistentFlags().String("user", "", "User ID to record progress under")

	rootCmd.AddCommand(dailyCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the config file named by --config and applies --user.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if u, _ := cmd.Flags().GetString("user"); u != "" {
		cfg.UserID = u
	}
	return cfg, nil
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then the config file, then NEXTHIRE_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command, cfg *config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg != nil && cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}

// openStore loads the config and opens the database it points at.
func openStore(cmd *cobra.Command) (*store.Store, *config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	return s, cfg, nil
}

// newTracker builds a tracker on UTC days.
func newTracker(s *store.Store) *tracker.Tracker {
	return tracker.New(s.ScoreStore(), clock.NewCalendar(clock.System{}, time.UTC), nil)
}
