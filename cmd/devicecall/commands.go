package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"devicecall/internal/console"
	"devicecall/internal/logger"
	"devicecall/internal/output"
	"devicecall/internal/returns"
	"devicecall/pkg/calltypes"
)

func newCallCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "call [words...]",
		Short: "Send one call and print its result",
		Long: `Send one call to the function. The words are joined with single spaces, so
"devicecall call pump run 5 min user=ops" sends "pump run 5 min user=ops".
The command fails when the call returns an error code.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer func() { _ = a.close() }()

			call := a.fn.Process(strings.Join(args, " "))
			a.printer.Result(call)
			if code := returns.Get(call); code < calltypes.Success {
				return fmt.Errorf("call failed with code %d", code)
			}
			return nil
		},
	}
}

func newBatchCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "batch <file>",
		Short: "Send every line of a file as a call",
		Long: `Send every line of a file as a call and print each result. Blank lines and
lines starting with # are skipped. Use - to read from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer func() { _ = a.close() }()

			in := cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("failed to open batch file: %w", err)
				}
				defer func() { _ = f.Close() }()
				in = f
			}

			total, failed := 0, 0
			scanner := bufio.NewScanner(in)
			for scanner.Scan() {
				line := scanner.Text()
				if trimmed := strings.TrimSpace(line); trimmed == "" || strings.HasPrefix(trimmed, "#") {
					continue
				}
				call := a.fn.Process(line)
				a.printer.Result(call)
				total++
				if returns.Get(call) < calltypes.Success {
					failed++
				}
			}
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("failed to read batch file: %w", err)
			}

			logger.Info("batch finished", "calls", total, "failed", failed)
			if failed > 0 {
				return fmt.Errorf("%d of %d calls failed", failed, total)
			}
			return nil
		},
	}
}

func newCommandsCmd(opts *options) *cobra.Command {
	var asYAML, all bool
	cmd := &cobra.Command{
		Use:   "commands",
		Short: "Show the registered commands",
		Long: `Show the commands document as the function exposes it, limited to the
configured variable length. --all shows the complete listing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(opts, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer func() { _ = a.close() }()

			name := opts.cfg.Function.CommandsVariable
			if asYAML {
				data, err := yaml.Marshal(a.fn.ListCommands())
				if err != nil {
					return fmt.Errorf("failed to encode commands: %w", err)
				}
				a.printer.Println(strings.TrimRight(string(data), "\n"))
				return nil
			}
			if all {
				data, err := a.fn.ListCommands().MarshalJSON()
				if err != nil {
					return fmt.Errorf("failed to encode commands: %w", err)
				}
				a.printer.Document(name, data)
				return nil
			}

			data, ok := a.fn.Commands()
			if !ok {
				return fmt.Errorf("the commands document is disabled")
			}
			a.printer.Document(name, data)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "Print the complete listing as YAML")
	cmd.Flags().BoolVar(&all, "all", false, "Print the complete listing without the size limit")
	return cmd
}

func newLastCallsCmd(opts *options) *cobra.Command {
	var asYAML bool
	cmd := &cobra.Command{
		Use:   "last-calls [calls...]",
		Short: "Send calls and show the recent calls document",
		Long: `Send each argument as one call without printing the results, then show the
recent calls document. Older calls are dropped once the document would
exceed the configured variable length.`,
		Example: `  devicecall last-calls "light state on" "light dim 40" "pump run 2 min"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer func() { _ = a.close() }()

			for _, raw := range args {
				a.fn.ReceiveCall(raw)
			}

			data, ok := a.fn.LastCalls()
			if !ok {
				return fmt.Errorf("the recent calls document is disabled")
			}
			if asYAML {
				out, err := output.JSONToYAML(data)
				if err != nil {
					return err
				}
				a.printer.Println(strings.TrimRight(string(out), "\n"))
				return nil
			}
			a.printer.Document(opts.cfg.Function.LastCallsVariable, data)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "Print the document as YAML")
	return cmd
}

func newConsoleCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "console",
		Short: "Start an interactive call console",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConsole(cmd, opts)
		},
	}
}

func runConsole(cmd *cobra.Command, opts *options) error {
	a, err := newApp(opts, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer func() { _ = a.close() }()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	if a.publisher != nil {
		go func() {
			if err := a.publisher.Run(ctx, 100*time.Millisecond); err != nil {
				logger.Error("publisher stopped", "error", err)
			}
		}()
	}

	historyDir := os.TempDir()
	if opts.testMode {
		historyDir = ""
	}
	c := console.New(a.fn, a.printer)
	return c.Run(c.Config(historyDir))
}
