// Package cli implements the pentrail command line interface.
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pentrail/pentrail/internal/app"
	"github.com/pentrail/pentrail/internal/logging"
)

var (
	cfgFile  string
	verbose  bool
	jsonLogs bool
	noColor  bool
)

var rootCmd = &cobra.Command{
	Use:   "pentrail",
	Short: "Passive web stack fingerprinting and pentest recommendation tool",
	Long: `pentrail inspects a target's response headers, page markup and TLS
posture, maps the observed technologies to known attack surfaces and
suggests concrete testing techniques. For authorized testing only.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cfgFile != "" {
			viper.SetConfigFile(cfgFile)
		} else {
			viper.AddConfigPath("$HOME")
			viper.AddConfigPath(".")
			viper.SetConfigName(".pentrail")
			viper.SetConfigType("yaml")
		}
		viper.SetEnvPrefix("PENTRAIL")
		viper.AutomaticEnv()

		_ = viper.ReadInConfig()
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", colorError("error:"), err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.pentrail.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json-logs", false, "emit structured JSON logs")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.PersistentFlags().String("store", "", "analysis store backend (memory or sqlite)")
	rootCmd.PersistentFlags().String("db", "", "sqlite database path")
	rootCmd.PersistentFlags().String("snapshot", "", "page capture backend (static or chromedp)")
	rootCmd.PersistentFlags().Duration("timeout", 0, "per-request timeout")

	_ = viper.BindPFlag("store", rootCmd.PersistentFlags().Lookup("store"))
	_ = viper.BindPFlag("db", rootCmd.PersistentFlags().Lookup("db"))
	_ = viper.BindPFlag("snapshot", rootCmd.PersistentFlags().Lookup("snapshot"))
	_ = viper.BindPFlag("timeout", rootCmd.PersistentFlags().Lookup("timeout"))

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(versionCmd)
}

// buildLogger constructs the logger the flags ask for.
func buildLogger() logging.Logger {
	if jsonLogs {
		var z *zap.Logger
		var err error
		if verbose {
			z, err = zap.NewDevelopment()
		} else {
			z, err = zap.NewProduction()
		}
		if err != nil {
			z = zap.NewNop()
		}
		return logging.NewZapLogger(z)
	}
	if verbose {
		return logging.NewStdoutLogger("pentrail")
	}
	return &logging.NopLogger{}
}

// buildConfig merges defaults, config file values and flags.
func buildConfig() *app.Config {
	cfg := app.DefaultConfig()

	if v := viper.GetString("store"); v != "" {
		cfg.StoreBackend = v
	}
	if v := viper.GetString("db"); v != "" {
		cfg.StorePath = v
	}
	if v := viper.GetString("snapshot"); v != "" {
		cfg.SnapshotCfg.Backend = v
	}
	if v := viper.GetDuration("timeout"); v > 0 {
		cfg.WebClientCfg.Timeout = v
		cfg.SnapshotCfg.Timeout = v
	}
	if v := viper.GetString("listen_addr"); v != "" {
		cfg.ListenAddr = v
	}
	if v := viper.GetDuration("memory_ttl"); v > 0 {
		cfg.MemoryTTL = v
	}
	return cfg
}

// jobTimeoutGrace pads the orchestrator job timeout so the collector's own
// timeouts fire first.
const jobTimeoutGrace = 15 * time.Second
