// Package modules contains the device modules shipped with devicecall: a
// dimmable light, a pump with timed runs and module-less system commands.
package modules

import "devicecall/pkg/calltypes"

// Registrar is the registration side of a function.
type Registrar interface {
	RegisterCommand(module, name string, handler calltypes.Handler) error
	RegisterCommandWithTextValues(module, name string, values []string, optional bool, handler calltypes.Handler) error
	RegisterCommandWithNumericValues(module, name string, units []string, optional bool, handler calltypes.Handler) error
	RegisterCommandWithMixedValues(module, name string, values, units []string, optional bool, handler calltypes.Handler) error
}

// Module registers its commands with a function.
type Module interface {
	Name() string
	Register(r Registrar) error
}

// Device groups the shipped modules.
type Device struct {
	Light  *Light
	Pump   *Pump
	System *System
}

// NewDevice creates the shipped modules with default names.
func NewDevice() *Device {
	light := NewLight("light")
	pump := NewPump("pump")
	return &Device{
		Light:  light,
		Pump:   pump,
		System: NewSystem(light, pump),
	}
}

// Register registers every module. Rejected commands are logged by the
// registry and the remaining modules are still registered; the first
// error is returned.
func (d *Device) Register(r Registrar) error {
	var first error
	for _, m := range []Module{d.Light, d.Pump, d.System} {
		if err := m.Register(r); err != nil && first == nil {
			first = err
		}
	}
	return first
}
