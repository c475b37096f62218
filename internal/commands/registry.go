// Package commands provides command registration and listing for devicecall.
// The registry is an append-only arena of command descriptors: overwritten
// commands are deactivated rather than removed so positions stay stable.
package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"devicecall/internal/logger"
	"devicecall/pkg/calltypes"
)

var (
	// ErrInvalidName is returned for empty command names and names or modules containing spaces.
	ErrInvalidName = errors.New("invalid module or command name")
	// ErrNamespaceCollision is returned when a command name is also used as a module name.
	ErrNamespaceCollision = errors.New("identically named module and command")
	// ErrNoHandler is returned when a command is registered without a handler.
	ErrNoHandler = errors.New("command has no handler")
)

// Registry holds the registered commands. It is populated during start-up
// and is not safe for concurrent mutation.
type Registry struct {
	commands []*calltypes.Command
	log      *log.Logger
}

// NewRegistry creates an empty command registry.
func NewRegistry() *Registry {
	return &Registry{
		log: logger.NewStyledLogger("Registry"),
	}
}

// Register adds a command. A command with the same module and name as an
// active command replaces it: the old entry is deactivated and the new one
// appended. A command name that equals any module name (or the reverse)
// is rejected and the command is not added.
func (r *Registry) Register(cmd calltypes.Command) error {
	r.log.Info("registering command", "command", cmd.Name, "module", cmd.Module)

	if err := validate(cmd); err != nil {
		r.log.Error("rejecting command", "command", cmd.Name, "module", cmd.Module, "error", err)
		return err
	}

	if cmd.Name == cmd.Module {
		err := fmt.Errorf("%w: %q", ErrNamespaceCollision, cmd.Name)
		r.log.Error("module and command can't share a name", "command", cmd.Name, "error", err)
		return err
	}
	for _, existing := range r.commands {
		if cmd.Name == existing.Module || cmd.Module == existing.Name {
			err := fmt.Errorf("%w: %q", ErrNamespaceCollision, collidingName(cmd, existing))
			r.log.Error("identically named module and command can cause confusion and is not permitted",
				"command", cmd.Name, "module", cmd.Module, "error", err)
			return err
		}
	}

	if existing, found := r.Get(cmd.Module, cmd.Name); found {
		r.log.Warn("command already exists for this module, overwriting existing",
			"command", cmd.Name, "module", cmd.Module)
		existing.Active = false
	}

	cmd.Active = true
	r.commands = append(r.commands, &cmd)
	return nil
}

func validate(cmd calltypes.Command) error {
	switch {
	case cmd.Name == "":
		return fmt.Errorf("%w: command name cannot be empty", ErrInvalidName)
	case strings.ContainsAny(cmd.Name, " \t\n"):
		return fmt.Errorf("%w: command %q contains whitespace", ErrInvalidName, cmd.Name)
	case strings.ContainsAny(cmd.Module, " \t\n"):
		return fmt.Errorf("%w: module %q contains whitespace", ErrInvalidName, cmd.Module)
	case cmd.Handler == nil:
		return fmt.Errorf("%w: %q", ErrNoHandler, cmd.Name)
	}
	return nil
}

func collidingName(cmd calltypes.Command, existing *calltypes.Command) string {
	if cmd.Name == existing.Module {
		return cmd.Name
	}
	return cmd.Module
}

// Commands returns every registered command in registration order,
// including deactivated ones. Positions never change.
func (r *Registry) Commands() []*calltypes.Command {
	return r.commands
}

// Active returns the active commands in registration order.
func (r *Registry) Active() []*calltypes.Command {
	active := make([]*calltypes.Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		if cmd.Active {
			active = append(active, cmd)
		}
	}
	return active
}

// Get returns the active command registered under module and name.
func (r *Registry) Get(module, name string) (*calltypes.Command, bool) {
	for _, cmd := range r.commands {
		if cmd.Active && cmd.Module == module && cmd.Name == name {
			return cmd, true
		}
	}
	return nil, false
}

// IsModule reports whether any active command belongs to module.
func (r *Registry) IsModule(module string) bool {
	for _, cmd := range r.commands {
		if cmd.Active && cmd.Module == module {
			return true
		}
	}
	return false
}

// Len returns the number of active commands.
func (r *Registry) Len() int {
	return len(r.Active())
}
