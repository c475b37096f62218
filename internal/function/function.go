// Package function exposes the device call interpreter at its boundaries:
// command registration, the raw call entry point returning an integer
// code, the size-limited command listing and the recent-calls document.
package function

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"devicecall/internal/calllog"
	"devicecall/internal/commands"
	"devicecall/internal/logger"
	"devicecall/internal/parser"
	"devicecall/internal/returns"
	"devicecall/pkg/calltypes"
)

// TimeFormat is the layout of the call record timestamp.
const TimeFormat = "2006-01-02 15:04:05 MST"

// DefaultMaxVariableLength is the default byte limit for the commands and
// last calls documents.
const DefaultMaxVariableLength = 622

// Options configures a Function.
type Options struct {
	Name              string   // Name the function is exposed under
	Params            []string // Parameter names captured from calls (user=, note=)
	LogCalls          bool     // Hand finished calls to the sink
	CommandsVariable  string   // Name of the commands document, empty to disable
	LastCallsVariable string   // Name of the recent calls document, empty to disable
	MaxVariableLength int      // Byte limit of both documents
}

// DefaultOptions returns the options used by devices that don't customize
// the function.
func DefaultOptions() Options {
	return Options{
		Name:              "device",
		Params:            []string{"user", "note"},
		LogCalls:          true,
		CommandsVariable:  "commands",
		LastCallsVariable: "last_calls",
		MaxVariableLength: DefaultMaxVariableLength,
	}
}

// Sink receives finished call records for publishing.
type Sink interface {
	QueueData(record any) error
}

// Function parses and dispatches calls against its registered commands.
// Calls must not be received concurrently.
type Function struct {
	opts     Options
	registry *commands.Registry
	parser   *parser.Parser
	callLog  *calllog.Buffer
	sink     Sink
	now      func() time.Time
	log      *log.Logger

	commandsDoc []byte
	isSetup     bool
}

// New creates a function with an empty registry.
func New(opts Options) *Function {
	if opts.MaxVariableLength <= 0 {
		opts.MaxVariableLength = DefaultMaxVariableLength
	}
	registry := commands.NewRegistry()
	f := &Function{
		opts:     opts,
		registry: registry,
		parser:   parser.New(registry, opts.Params),
		now:      time.Now,
		log:      logger.NewStyledLogger("Function"),
	}
	if opts.LastCallsVariable != "" {
		f.callLog = calllog.New(opts.MaxVariableLength)
	}
	return f
}

// Name returns the name the function is exposed under.
func (f *Function) Name() string {
	return f.opts.Name
}

// Params returns the parameter names captured from calls.
func (f *Function) Params() []string {
	return f.parser.Params()
}

// SetSink sets the receiver of finished call records.
func (f *Function) SetSink(sink Sink) {
	f.sink = sink
}

// SetClock replaces the time source of call timestamps.
func (f *Function) SetClock(now func() time.Time) {
	f.now = now
}

// Registry returns the command registry.
func (f *Function) Registry() *commands.Registry {
	return f.registry
}

// Setup renders the commands document and starts an empty call log. It
// must be called once all commands are registered: commands registered
// afterwards still work but are missing from the commands document.
func (f *Function) Setup() error {
	if f.isSetup {
		f.log.Warn("function already set up, rendering commands again", "function", f.opts.Name)
	}
	f.log.Info("setting up function", "function", f.opts.Name, "commands", f.registry.Len())

	if f.opts.CommandsVariable != "" {
		doc, err := commands.RenderWithin(f.registry.Listing(), f.opts.MaxVariableLength)
		if err != nil {
			return fmt.Errorf("failed to set up %s: %w", f.opts.CommandsVariable, err)
		}
		f.commandsDoc = doc
	}
	if f.callLog != nil {
		f.callLog.Reset()
	}
	f.isSetup = true
	return nil
}

// ListCommands returns the current listing of active commands.
func (f *Function) ListCommands() commands.Listing {
	return f.registry.Listing()
}

// Commands returns the commands document rendered by Setup.
func (f *Function) Commands() ([]byte, bool) {
	if f.opts.CommandsVariable == "" || !f.isSetup {
		return nil, false
	}
	return f.commandsDoc, true
}

// LastCalls returns the recent calls document.
func (f *Function) LastCalls() ([]byte, bool) {
	if f.callLog == nil {
		return nil, false
	}
	return f.callLog.JSON(), true
}

// Variable returns a document by its exposed name.
func (f *Function) Variable(name string) ([]byte, bool) {
	switch {
	case name == "":
		return nil, false
	case name == f.opts.CommandsVariable:
		return f.Commands()
	case name == f.opts.LastCallsVariable:
		return f.LastCalls()
	}
	return nil, false
}

// ReceiveCall parses and dispatches a raw call and returns its return code.
func (f *Function) ReceiveCall(raw string) int {
	return returns.Get(f.Process(raw))
}

// Process parses and dispatches a raw call and returns the finished record.
// The record is also queued for publishing and appended to the call log.
func (f *Function) Process(raw string) *calltypes.Call {
	call := calltypes.NewCall(raw, f.now().Format(TimeFormat))

	cmd, err := f.parser.Parse(call)
	if err != nil {
		f.log.Debug("parsing error", "call", raw, "error", err)
		failed := false
		call.Success = &failed
	} else {
		f.log.Debug("execute callback", "call", raw, "module", cmd.Module, "command", cmd.Name)
		success := f.dispatch(cmd, call)
		call.Success = &success

		if success && !returns.Has(call) {
			returns.SetSuccess(call)
		} else if !success && !returns.Has(call) {
			returns.SetError(call, calltypes.CallErrUnknown)
		}
	}

	f.finish(call)
	return call
}

// dispatch runs the command handler. A panicking handler fails the call.
func (f *Function) dispatch(cmd *calltypes.Command, call *calltypes.Call) (success bool) {
	defer func() {
		if r := recover(); r != nil {
			f.log.Error("command handler panicked", "module", cmd.Module, "command", cmd.Name, "error", r)
			returns.SetError(call, calltypes.CallErrUnknown)
			success = false
		}
	}()
	return cmd.Handler(call)
}

// finish hands the record to the sink and the call log.
func (f *Function) finish(call *calltypes.Call) {
	if f.opts.LogCalls && f.sink != nil {
		if err := f.sink.QueueData(call); err != nil {
			f.log.Error("failed to queue call", "call", call.Raw, "error", err)
		}
	}

	if f.callLog != nil {
		if err := f.callLog.Append(call); err != nil {
			f.log.Error("failed to append to call log", "call", call.Raw, "error", err)
			return
		}
		f.log.Debug("updated call log", "variable", f.opts.LastCallsVariable,
			"calls", f.callLog.Len(), "size", f.callLog.Size())
	}
}
