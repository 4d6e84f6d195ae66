// Package cli provides the command-line interface for butina.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hupe1980/butina"
	"github.com/hupe1980/butina/internal/config"
	"github.com/hupe1980/butina/internal/resource"
)

// Version is set at build time.
var Version = "0.1.0"

// app carries state shared by all subcommands of one invocation.
type app struct {
	configPath string
	logLevel   string

	cfg      config.Config
	logger   *butina.Logger
	closeLog func() error
	rc       *resource.Controller
}

// NewRootCommand builds the butina command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "butina",
		Short: "Butina clustering of chemical fingerprints",
		Long: `Butina groups binary chemical fingerprints into clusters of mutually
similar compounds using the Taylor-Butina sphere exclusion method.

Fingerprint libraries are read from local files or from object storage
(s3://bucket/key, minio://bucket/key) in FPS text or BFP binary format.`,
		Version:           Version,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if a.closeLog != nil {
				return a.closeLog()
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", os.Getenv("BUTINA_CONFIG"), "path to YAML config file")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(newClusterCmd(a))
	rootCmd.AddCommand(newSimilarityCmd(a))
	rootCmd.AddCommand(newConvertCmd(a))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// Execute runs the root command with os.Args.
func Execute() error {
	return NewRootCommand().Execute()
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	// Skip config loading for version and help commands
	if cmd.Name() == "version" || cmd.Name() == "help" {
		return nil
	}

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	a.cfg = cfg

	a.logger, a.closeLog, err = cfg.Logging.SetupLogger()
	if err != nil {
		return fmt.Errorf("setup logger: %w", err)
	}

	a.rc = resource.NewController(resource.Config{
		IOLimitBytesPerSec: cfg.Storage.IOLimitMBPerSec << 20,
	})

	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "butina version %s\n", Version)
		},
	}
}
