// Package main provides the devicecall CLI: it registers the shipped device
// modules with a call function and sends calls to it from the command line,
// a batch file or an interactive console.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"devicecall/internal/config"
	"devicecall/internal/logger"
	"devicecall/internal/version"
)

// options holds the global flags.
type options struct {
	logLevel   string
	logFile    string
	configFile string
	envFile    string
	eventsFile string
	testMode   bool
	jsonOutput bool

	v   *viper.Viper
	cfg *config.Config
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "devicecall",
		Short: "Send text calls to a device function",
		Long: `devicecall interprets short text calls such as "light state on" or
"pump run 5 min" against the commands registered by the device modules,
returns an integer result code and keeps a size-limited log of recent calls.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return opts.init()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConsole(cmd, opts)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.logLevel, "log-level", "", "Set log level (debug|info|warn|error) [default: info]")
	flags.StringVar(&opts.logFile, "log-file", "", "Write logs to file instead of stderr")
	flags.StringVar(&opts.configFile, "config", "", "YAML configuration file")
	flags.StringVar(&opts.envFile, "env-file", ".env", "File with DEVICECALL_* settings")
	flags.StringVar(&opts.eventsFile, "events", "", "Write published call bursts to this file ('-' for stdout)")
	flags.BoolVar(&opts.testMode, "test-mode", false, "Run with a deterministic clock and device id")
	flags.BoolVar(&opts.jsonOutput, "json", false, "Print results as JSON lines")

	// Bind flags to viper
	for key, flag := range map[string]string{
		"log.level": "log-level",
		"log.file":  "log-file",
	} {
		if err := opts.v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			fmt.Fprintf(os.Stderr, "Error binding %s flag: %v\n", flag, err)
			os.Exit(1)
		}
	}

	rootCmd.AddCommand(
		newCallCmd(opts),
		newBatchCmd(opts),
		newCommandsCmd(opts),
		newLastCallsCmd(opts),
		newConsoleCmd(opts),
		newVersionCmd(),
	)
	return rootCmd
}

// init loads the configuration and configures the logger before any
// command runs.
func (o *options) init() error {
	cfg, err := config.Load(o.v, o.configFile, o.envFile)
	if err != nil {
		return err
	}
	if err := logger.Configure(cfg.Log.Level, cfg.Log.File, o.testMode); err != nil {
		return fmt.Errorf("error configuring logger: %w", err)
	}
	o.cfg = cfg
	return nil
}

func newVersionCmd() *cobra.Command {
	var detailed bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			if detailed {
				fmt.Fprintln(cmd.OutOrStdout(), version.GetDetailedVersion())
				return
			}
			fmt.Fprintln(cmd.OutOrStdout(), version.GetFormattedVersion())
		},
	}
	cmd.Flags().BoolVar(&detailed, "detailed", false, "Show build details")
	return cmd
}
