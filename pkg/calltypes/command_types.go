// Package calltypes defines the shared types of the device call interpreter.
// This file contains the command descriptor and the handler capability that
// the registry stores and the parser resolves calls against.
package calltypes

import "slices"

// Common text values used by many commands.
const (
	On  = "on"
	Off = "off"
)

// Handler is invoked with the parsed call of a resolved command. It returns
// whether the command succeeded and may attach return values or extra data
// to the call.
type Handler func(call *Call) bool

// Command is the static declaration of one invocable command.
type Command struct {
	Module        string   // Owning module, empty for module-less commands
	Name          string   // Command name
	TextValues    []string // Allowed literal values (empty = none)
	AllowNumeric  bool     // Whether numeric values are accepted
	NumericUnits  []string // Allowed units (empty = unit-less numbers)
	ValueOptional bool     // Whether the value may be left out
	Handler       Handler  // Invoked after a successful parse

	// Active is cleared by the registry when the command is overwritten.
	Active bool
}

// ExpectsValue reports whether the command takes a value, which is the
// case when numeric values are allowed or text values are declared.
func (c *Command) ExpectsValue() bool {
	return c.AllowNumeric || len(c.TextValues) > 0
}

// HasTextValue reports whether value exactly matches one of the declared text values.
func (c *Command) HasTextValue(value string) bool {
	return slices.Contains(c.TextValues, value)
}

// HasUnit reports whether unit exactly matches one of the declared numeric units.
func (c *Command) HasUnit(unit string) bool {
	return slices.Contains(c.NumericUnits, unit)
}

// Info is the minimized listing form of a command. Flags are rendered as
// 1 and omitted when false, empty lists are omitted.
type Info struct {
	Name     string   `json:"c" yaml:"c"`
	Numeric  int      `json:"n,omitempty" yaml:"n,omitempty"`
	Optional int      `json:"o,omitempty" yaml:"o,omitempty"`
	Values   []string `json:"v,omitempty" yaml:"v,omitempty"`
	Units    []string `json:"u,omitempty" yaml:"u,omitempty"`
}

// Info returns the minimized listing form of the command.
func (c *Command) Info() Info {
	info := Info{Name: c.Name}
	if c.AllowNumeric {
		info.Numeric = 1
	}
	if c.ExpectsValue() && c.ValueOptional {
		info.Optional = 1
	}
	if len(c.TextValues) > 0 {
		info.Values = slices.Clone(c.TextValues)
	}
	if c.AllowNumeric && len(c.NumericUnits) > 0 {
		info.Units = slices.Clone(c.NumericUnits)
	}
	return info
}
