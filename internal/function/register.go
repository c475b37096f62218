package function

import (
	"slices"

	"devicecall/pkg/calltypes"
)

// Register adds a fully specified command. Conflicting registrations are
// logged and returned as an error; the function keeps serving the
// commands it already has.
func (f *Function) Register(cmd calltypes.Command) error {
	return f.registry.Register(cmd)
}

// RegisterCommand registers a command that takes no value. An empty
// module registers a module-less command.
func (f *Function) RegisterCommand(module, name string, handler calltypes.Handler) error {
	return f.Register(calltypes.Command{
		Module:  module,
		Name:    name,
		Handler: handler,
	})
}

// RegisterCommandWithTextValues registers a command accepting one of values.
func (f *Function) RegisterCommandWithTextValues(module, name string, values []string, optional bool, handler calltypes.Handler) error {
	return f.Register(calltypes.Command{
		Module:        module,
		Name:          name,
		TextValues:    slices.Clone(values),
		ValueOptional: optional,
		Handler:       handler,
	})
}

// RegisterCommandWithNumericValues registers a command accepting a number,
// followed by one of units when units are given.
func (f *Function) RegisterCommandWithNumericValues(module, name string, units []string, optional bool, handler calltypes.Handler) error {
	return f.Register(calltypes.Command{
		Module:        module,
		Name:          name,
		AllowNumeric:  true,
		NumericUnits:  slices.Clone(units),
		ValueOptional: optional,
		Handler:       handler,
	})
}

// RegisterCommandWithMixedValues registers a command accepting one of
// values or a number (with one of units when units are given).
func (f *Function) RegisterCommandWithMixedValues(module, name string, values, units []string, optional bool, handler calltypes.Handler) error {
	return f.Register(calltypes.Command{
		Module:        module,
		Name:          name,
		TextValues:    slices.Clone(values),
		AllowNumeric:  true,
		NumericUnits:  slices.Clone(units),
		ValueOptional: optional,
		Handler:       handler,
	})
}
