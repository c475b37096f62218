// Package module provides the base for device modules that register
// commands under their own name.
package module

import (
	"devicecall/internal/returns"
	"devicecall/pkg/calltypes"
)

// Base carries the module name and the return value helpers used by
// command handlers.
type Base struct {
	name string
}

// New creates a module base with the given name.
func New(name string) Base {
	return Base{name: name}
}

// Name returns the module name commands are registered under.
func (b Base) Name() string {
	return b.name
}

// Warn records a warning that doesn't fail the command. Only the first
// warning of a call is kept.
func (b Base) Warn(call *calltypes.Call, warn calltypes.Warning) {
	returns.SetWarning(call, warn)
}

// Fail records an error that fails the command, replacing earlier warnings.
// It returns false so handlers can `return m.Fail(call, err)`.
func (b Base) Fail(call *calltypes.Call, err calltypes.Error) bool {
	returns.SetError(call, err)
	return false
}
