package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/iwvelando/hypotheek/internal/config"
	"github.com/iwvelando/hypotheek/pkg/constants"
	"github.com/iwvelando/hypotheek/pkg/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var version = "dev"

// app carries what PersistentPreRunE prepared for the subcommands.
type app struct {
	conf         *config.Configuration
	logger       *zap.Logger
	outputFormat string
}

type rootFlags struct {
	configLocation string
	outputFormat   string
	logLevel       string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "hypotheek",
		Short: "Dutch mortgage affordability calculator",
		Long: `hypotheek computes the maximum mortgage a household can borrow from its
income, student debt, the interest rate and the energy label of the house.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(flags)
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&flags.configLocation, "config", constants.DefaultConfigFile, "path to configuration file")
	rootCmd.PersistentFlags().StringVar(&flags.outputFormat, "output-format", "", "type of output override: pretty, csv")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.AddCommand(calculateCmd(a))
	rootCmd.AddCommand(studentDebtCmd(a))
	rootCmd.AddCommand(sweepCmd(a))
	rootCmd.AddCommand(ratesCmd(a))
	rootCmd.AddCommand(serveCmd(a))
	rootCmd.AddCommand(configCmd(a))
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

func (a *app) init(flags *rootFlags) error {
	conf, err := config.LoadOrDefault(flags.configLocation)
	if err != nil {
		return fmt.Errorf("failed to load configuration at %s: %w", flags.configLocation, err)
	}

	logger, err := initializeLogger(conf.Logging, flags.logLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	// Determine output format (CLI override takes precedence over config)
	outputFormat := conf.Output.Format
	if flags.outputFormat != "" {
		outputFormat = flags.outputFormat
	}
	outputFormat, err = validation.ParseOutputFormat(outputFormat)
	if err != nil {
		return err
	}
	conf.Output.Format = outputFormat

	warnings, err := conf.ValidateConfiguration()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	for _, warning := range warnings {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	a.conf = conf
	a.logger = logger
	a.outputFormat = outputFormat
	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "hypotheek %s\n", version)
			return err
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "{\"op\": \"main\", \"level\": \"fatal\", \"error\": %q}\n", err.Error())
		os.Exit(1)
	}
}
