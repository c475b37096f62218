// Package console runs an interactive prompt that sends each entered line to
// a function as a call and prints the result.
package console

import (
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/chzyer/readline"

	"devicecall/internal/function"
	"devicecall/internal/logger"
	"devicecall/internal/output"
)

// Console commands start with a colon so they never shadow device commands.
const (
	cmdQuit      = ":quit"
	cmdExit      = ":exit"
	cmdCommands  = ":commands"
	cmdLastCalls = ":last"
	cmdHelp      = ":help"
)

// Console reads calls from a terminal and prints the results.
type Console struct {
	fn      *function.Function
	printer *output.Printer
	log     *log.Logger
}

// New creates a console for fn writing to printer.
func New(fn *function.Function, printer *output.Printer) *Console {
	return &Console{
		fn:      fn,
		printer: printer,
		log:     logger.NewStyledLogger("Console"),
	}
}

// Config returns the readline configuration of the console prompt.
func (c *Console) Config(historyDir string) *readline.Config {
	cfg := &readline.Config{
		Prompt:          c.fn.Name() + "> ",
		HistoryLimit:    100,
		AutoComplete:    NewCompleter(c.fn.Registry(), c.fn.Params()),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	}
	if historyDir != "" {
		cfg.HistoryFile = filepath.Join(historyDir, ".devicecall_history")
	}
	return cfg
}

// Run reads lines until interrupted, EOF or a quit command.
func (c *Console) Run(cfg *readline.Config) error {
	rl, err := readline.NewEx(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = rl.Close() }()

	c.printer.Info("Type a call like \"light state on\", " + cmdHelp + " for console commands")
	for {
		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
				return nil
			}
			c.log.Error("failed to read input", "error", err)
			continue
		}
		if !c.Handle(line) {
			return nil
		}
	}
}

// Handle processes one input line. It returns false when the console should
// stop.
func (c *Console) Handle(line string) bool {
	input := strings.TrimSpace(line)
	switch input {
	case "":
		return true
	case cmdQuit, cmdExit:
		return false
	case cmdHelp:
		c.printer.Info(cmdCommands + "  show the registered commands")
		c.printer.Info(cmdLastCalls + "      show the recent calls")
		c.printer.Info(cmdQuit + "      leave the console")
		return true
	case cmdCommands:
		data, err := c.fn.ListCommands().MarshalJSON()
		if err != nil {
			c.printer.Error(err.Error())
			return true
		}
		c.printer.Document("commands", data)
		return true
	case cmdLastCalls:
		data, ok := c.fn.LastCalls()
		if !ok {
			c.printer.Warning("recent calls are disabled")
			return true
		}
		c.printer.Document("last calls", data)
		return true
	}

	c.printer.Result(c.fn.Process(line))
	return true
}
