package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	logger  *slog.Logger
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:           "blockatlas",
	Short:         "Procedural block texture atlas generator",
	Long:          "Generate the grass-top, grass-side, dirt and stone block textures from seeded fractal noise and pack them into one atlas.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initLogging()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	viper.SetEnvPrefix("BLOCKATLAS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}

func initLogging() {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func main() {
	initLogging()
	if err := rootCmd.Execute(); err != nil {
		logger.Error("blockatlas failed", "error", err)
		os.Exit(1)
	}
}
