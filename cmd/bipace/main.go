package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-bipace/pkg/config"
	"github.com/dd0wney/cluso-bipace/pkg/logging"
)

var (
	configPath string
	logLevel   string

	cfg    *config.Config
	logger logging.Logger

	rootCmd = &cobra.Command{
		Use:   "bipace",
		Short: "Multi-sample chromatography peak alignment by bidirectional best hits",
		Long: `bipace aligns the peaks of several chromatography samples into
clique-by-sample correspondence rows.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			cfg = loaded

			level := cfg.LogLevel()
			if env := os.Getenv(logging.LevelEnv); env != "" {
				level = logging.ParseLevel(env)
			}
			if cmd.Flags().Changed("log-level") {
				level = logging.ParseLevel(logLevel)
			}
			logger = logging.NewJSONLogger(os.Stderr, level).With(logging.Component("bipace"))
			return nil
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(synthCmd, configCmd)
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		c := config.Default()
		return c, c.Validate()
	}
	return config.Load(path)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
